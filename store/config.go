package store

// Config holds configuration for the Store.
type Config struct {
	// Table is the name of the configuration document table.
	// The table's partition key is the string attribute "id".
	// Default: "cradle_configurations"
	Table string
}

// DefaultConfig returns the default table layout.
func DefaultConfig() Config {
	return Config{
		Table: "cradle_configurations",
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.Table == "" {
		c.Table = "cradle_configurations"
	}
}
