package pagination

// MaxLimit is the hard cap on page size; requests above it are rejected at
// the HTTP boundary rather than silently truncated.
const MaxLimit = 100

// DefaultLimit is used when the caller does not specify a limit.
const DefaultLimit = 100

// Params represents offset-based pagination input
type Params struct {
	Skip  int `form:"skip" json:"skip" binding:"omitempty,gte=0"`
	Limit int `form:"limit" json:"limit" binding:"omitempty,gte=1,lte=100"`
}

// Default returns default pagination values
func Default() Params {
	return Params{Skip: 0, Limit: DefaultLimit}
}

// Normalize fills in defaults for zero values. It assumes boundary validation
// already rejected out-of-range input.
func (p *Params) Normalize() {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}
