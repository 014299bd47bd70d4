package processor

import (
	"github.com/yndnr/solbox-go/internal/core/domain"
	"github.com/yndnr/solbox-go/internal/core/instruction"
	"github.com/yndnr/solbox-go/internal/telemetry/logger"
)

// FundingRule decides whether a region holds enough balance to stay
// resident for its size.
type FundingRule interface {
	IsExempt(balance uint64, size int) bool
}

// FundingFunc adapts a plain function to FundingRule.
type FundingFunc func(balance uint64, size int) bool

// IsExempt calls f.
func (f FundingFunc) IsExempt(balance uint64, size int) bool { return f(balance, size) }

// Call is a single invocation handed over by the execution environment.
// Caller has already been authenticated by the environment.
type Call struct {
	Caller  domain.Address
	Data    []byte
	Regions []*domain.Region
}

// Processor decodes instructions and applies them to the supplied regions.
// It keeps no state between calls and never retains region buffers.
type Processor struct {
	programID domain.Address
	funding   FundingRule
	log       logger.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for per-call diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		p.log = l
	}
}

// New creates a Processor acting as programID.
func New(programID domain.Address, funding FundingRule, opts ...Option) *Processor {
	p := &Processor{
		programID: programID,
		funding:   funding,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProgramID returns the address the processor acts as.
func (p *Processor) ProgramID() domain.Address {
	return p.programID
}

// Process decodes call.Data and dispatches it. A non-nil error is always a
// *domain.DomainError and means no region was modified.
func (p *Processor) Process(call Call) error {
	ix, err := instruction.Decode(call.Data)
	if err != nil {
		p.log.Debug("decode failed", "error", err)
		return err
	}
	p.log.Debug("dispatch", "instruction", instruction.String(ix), "caller", call.Caller.String())

	switch v := ix.(type) {
	case *instruction.InitializeSolBox:
		err = p.initialize(call, v)
	case *instruction.WriteMessage:
		err = p.write(call, v)
	case *instruction.DeleteMessage:
		err = p.delete(call, v)
	default:
		err = domain.ErrInvalidInstructionData.WithDetails("unsupported instruction")
	}

	if err != nil {
		p.log.Debug("instruction rejected", "kind", ix.Tag().String(), "error", err)
	}
	return err
}

func regions(call Call, n int, names string) error {
	if len(call.Regions) < n {
		return domain.ErrInvalidInstructionData.Detailf("expected regions [%s], got %d", names, len(call.Regions))
	}
	for i := 0; i < n; i++ {
		if call.Regions[i] == nil {
			return domain.ErrInvalidInstructionData.Detailf("region %d is missing", i)
		}
	}
	return nil
}
