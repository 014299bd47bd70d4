// Package buildinfo exposes the version stamped into the solbox binary.
//
// Values are injected with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/solbox-go/internal/infra/buildinfo.Version=v0.1.0"
//
// When no ldflags are given the module version and VCS revision recorded
// by the Go toolchain are used instead.
package buildinfo
