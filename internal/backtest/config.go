package backtest

// Config holds walk-forward evaluation parameters
type Config struct {
	// HoldoutSize is the number of trailing matches reserved for testing
	HoldoutSize int

	// Progressive folds each evaluated match back into the history and
	// ratings before the next prediction, simulating progressive
	// retraining of the feature state. The ensemble itself is still
	// trained once on the prefix.
	Progressive bool

	// HighConfidence is the threshold above which a prediction is
	// singled out for qualitative review
	HighConfidence float64
}

// DefaultConfig returns the reference evaluation parameters
func DefaultConfig() Config {
	return Config{
		HoldoutSize:    20,
		Progressive:    false,
		HighConfidence: 0.6,
	}
}
