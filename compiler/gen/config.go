package gen

// Config holds the global configuration for one typings generation run.
// Schema descriptions supply per-entity configuration; everything here
// applies to the generated unit as a whole.
type Config struct {
	// Target is the output file path for the generated typings.
	Target string
	// Header is an extra comment appended after the generated-file banner.
	Header string
	// Imports holds additional caller-supplied import lines, emitted
	// verbatim after the ORM import.
	Imports []string
	// Augment wraps the generated declarations in a namespace-augmentation
	// block extending the ORM's own module instead of a standalone unit.
	Augment bool
}

// NewConfig creates a generation config with the given options applied.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
