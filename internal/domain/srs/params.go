package srs

// Params defines the configurable parameters of the scheduling
// algorithm. The defaults reproduce the classic SM-2 constants.
type Params struct {
	// PassThreshold is the lowest quality that counts as a correct
	// recall. Below it the interval resets to FailedInterval.
	PassThreshold int

	// FailedInterval is the interval (days) assigned after a failed
	// recall.
	FailedInterval int

	// FirstInterval and SecondInterval are the bootstrap steps applied
	// before the multiplicative formula: an item at interval 0 moves to
	// FirstInterval, an item at interval 1 moves to SecondInterval.
	FirstInterval  int
	SecondInterval int

	// MinEaseFactor is the floor for the ease factor. There is no
	// ceiling, and no upper bound on the interval.
	MinEaseFactor float64
}

// ParamsConfig allows overriding individual defaults when constructing
// Params. Zero-valued fields keep the default.
type ParamsConfig struct {
	PassThreshold  int
	FailedInterval int
	FirstInterval  int
	SecondInterval int
	MinEaseFactor  float64
}

// NewDefaultParams creates Params with the standard SM-2 values.
func NewDefaultParams() *Params {
	return &Params{
		PassThreshold:  3,
		FailedInterval: 1,
		FirstInterval:  1,
		SecondInterval: 6,
		MinEaseFactor:  1.3,
	}
}

// NewParams creates Params from a config, falling back to the defaults
// for unset fields.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.PassThreshold > 0 {
		params.PassThreshold = config.PassThreshold
	}
	if config.FailedInterval > 0 {
		params.FailedInterval = config.FailedInterval
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}

	return params
}
