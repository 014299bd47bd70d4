package domain

import (
	"errors"
	"fmt"
)

// DomainError is a terminal failure of a single call. Code is the opaque
// value reported back to the execution environment; Name is the stable
// symbolic form of the same code.
type DomainError struct {
	Code    uint32 // Opaque error code (e.g., 5)
	Name    string // Symbolic name (e.g., "SolBoxNoSpaceLeft")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Name, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Name, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support. Two domain errors match when their
// codes are equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError.
func NewDomainError(code uint32, name, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Name:    name,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Name:    e.Name,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// Detailf is WithDetails with formatting.
func (e *DomainError) Detailf(format string, args ...any) *DomainError {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Name:    e.Name,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError reports whether err is a DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// CodeOf extracts the opaque code from err. The second result is false
// when err is not a DomainError.
func CodeOf(err error) (uint32, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code, true
	}
	return 0, false
}

// NameOf returns the symbolic error name, or "" when err is not a DomainError.
func NameOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Name
	}
	return ""
}

// Error codes. The numbering is part of the external contract; gaps are
// reserved and must not be reused.
const (
	CodeIncorrectSystemProgramAddress uint32 = 0
	CodeInvalidInstructionData        uint32 = 1
	CodeSolBoxInvalidNumSpots         uint32 = 2
	CodeInsufficientFunds             uint32 = 3
	CodeInvalidAccountData            uint32 = 4
	CodeSolBoxNoSpaceLeft             uint32 = 5
	CodeOwnerMismatch                 uint32 = 6
	CodeIncorrectSolBox               uint32 = 9
	CodeMessageNotFound               uint32 = 10
	CodeSolBoxAlreadyInitialized      uint32 = 11
)

var (
	// ErrIncorrectSystemProgramAddress indicates the system authority region is not the system program.
	ErrIncorrectSystemProgramAddress = NewDomainError(CodeIncorrectSystemProgramAddress,
		"IncorrectSystemProgramAddress", "wrong system program address provided")

	// ErrInvalidInstructionData indicates malformed or truncated wire bytes.
	ErrInvalidInstructionData = NewDomainError(CodeInvalidInstructionData,
		"InvalidInstructionData", "invalid instruction data")

	// ErrSolBoxInvalidNumSpots indicates a requested capacity other than the fixed one.
	ErrSolBoxInvalidNumSpots = NewDomainError(CodeSolBoxInvalidNumSpots,
		"SolBoxInvalidNumSpots", "invalid number of spots in state")

	// ErrInsufficientFunds indicates a region is too small or not funding-exempt.
	ErrInsufficientFunds = NewDomainError(CodeInsufficientFunds,
		"InsufficientFunds", "not enough funds to complete transaction")

	// ErrInvalidAccountData indicates stored bytes failed structural validation.
	ErrInvalidAccountData = NewDomainError(CodeInvalidAccountData,
		"InvalidAccountData", "invalid account data provided")

	// ErrSolBoxNoSpaceLeft indicates every slot of the mailbox is occupied.
	ErrSolBoxNoSpaceLeft = NewDomainError(CodeSolBoxNoSpaceLeft,
		"SolBoxNoSpaceLeft", "sol box has no space left for new messages")

	// ErrOwnerMismatch indicates a caller or region authority mismatch.
	ErrOwnerMismatch = NewDomainError(CodeOwnerMismatch,
		"OwnerMismatch", "payer must be owner")

	// ErrIncorrectSolBox indicates the supplied mailbox region is not the one named by the instruction.
	ErrIncorrectSolBox = NewDomainError(CodeIncorrectSolBox,
		"IncorrectSolBox", "sol box info does not match passed address")

	// ErrMessageNotFound indicates no slot references the message.
	ErrMessageNotFound = NewDomainError(CodeMessageNotFound,
		"MessageNotFound", "message is not stored in this sol box")

	// ErrSolBoxAlreadyInitialized indicates an attempt to initialize a live mailbox.
	ErrSolBoxAlreadyInitialized = NewDomainError(CodeSolBoxAlreadyInitialized,
		"SolBoxAlreadyInitialized", "sol box is already initialized")
)
