package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:   30000, // 30 seconds
		UserAgent: "pet",
		Headers:   nil,
		Insecure:  boolPtr(false),
		Verbose:   boolPtr(false),
		NoColor:   boolPtr(false),
		Output:    "console",
		History:   "",
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Timeout == defaults.Timeout &&
		c.UserAgent == defaults.UserAgent &&
		len(c.Headers) == 0 &&
		c.GetInsecure() == defaults.GetInsecure() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.Output == defaults.Output &&
		c.History == defaults.History
}
