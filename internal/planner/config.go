package planner

// Config holds plan generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the generation settings used for full plans.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4000,
		Temperature: 0.7,
	}
}
