// Package domain defines the core domain models for SolBox.
//
// Domain models are pure value objects without any IO dependencies.
// This package contains:
//
//   - Address: 32-byte identifier with base58 text form
//   - Region: storage buffer plus its declared owner and balance
//   - Errors: coded domain errors reported back to the environment
package domain
