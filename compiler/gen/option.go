package gen

// Option configures typings generation.
type Option func(*Config) error

// WithTarget sets the output file path.
func WithTarget(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("Target", nil, "target path cannot be empty")
		}
		c.Target = path
		return nil
	}
}

// WithHeader sets an extra header comment.
// The comment is added below the generated-file banner of the output.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithImports appends caller-supplied import lines.
// Lines are emitted verbatim after the ORM import statement.
func WithImports(lines ...string) Option {
	return func(c *Config) error {
		c.Imports = append(c.Imports, lines...)
		return nil
	}
}

// WithAugment wraps the generated declarations in a module-augmentation
// block so they extend the ORM's own namespace.
func WithAugment(augment bool) Option {
	return func(c *Config) error {
		c.Augment = augment
		return nil
	}
}
