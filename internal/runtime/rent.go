package runtime

// accountOverhead is the per-region storage overhead charged on top of data.
const accountOverhead = 128

// Rent is the funding rule regions must satisfy to stay resident.
type Rent struct {
	LamportsPerByteYear uint64  `koanf:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `koanf:"exemption_threshold"`
}

// DefaultRent returns the standard rent parameters.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionThreshold:  2.0,
	}
}

// MinimumBalance returns the smallest exempt balance for size data bytes.
func (r Rent) MinimumBalance(size int) uint64 {
	if size < 0 {
		size = 0
	}
	perYear := uint64(size+accountOverhead) * r.LamportsPerByteYear
	return uint64(float64(perYear) * r.ExemptionThreshold)
}

// IsExempt reports whether balance covers MinimumBalance(size).
func (r Rent) IsExempt(balance uint64, size int) bool {
	return balance >= r.MinimumBalance(size)
}
