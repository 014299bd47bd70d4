package domain

// Region is a fixed-length storage buffer handed to the core for the
// duration of one call, together with what the environment declares
// about it.
type Region struct {
	// Address names the region.
	Address Address `json:"address"`

	// Owner is the authority allowed to mutate Data.
	Owner Address `json:"owner"`

	// Balance is the funding held by the region.
	Balance uint64 `json:"balance"`

	// Data is the region's storage. Its length never changes during a call.
	Data []byte `json:"-"`
}

// NewRegion creates a zero-filled region of the given size.
func NewRegion(addr, owner Address, balance uint64, size int) *Region {
	return &Region{
		Address: addr,
		Owner:   owner,
		Balance: balance,
		Data:    make([]byte, size),
	}
}

// Clone returns a deep copy of the region.
func (r *Region) Clone() *Region {
	if r == nil {
		return nil
	}
	clone := *r
	if r.Data != nil {
		clone.Data = make([]byte, len(r.Data))
		copy(clone.Data, r.Data)
	}
	return &clone
}

// IsReleased reports whether the region has been handed back to the
// environment: drained and owned by the system authority.
func (r *Region) IsReleased() bool {
	return r.Balance == 0 && r.Owner == SystemProgramID
}
