package gen

import (
	"errors"
	"fmt"
	"runtime"
)

// Context selects the wrapper markup of a template.
type Context string

const (
	// ContextSection wraps the record in a <section> container.
	ContextSection Context = "section"
	// ContextPage emits a page heading and no container.
	ContextPage Context = "page"
)

// Contexts lists every supported context.
var Contexts = []Context{ContextSection, ContextPage}

// ParseContext parses a context name. The empty string means ContextSection.
func ParseContext(s string) (Context, error) {
	switch c := Context(s); c {
	case "":
		return ContextSection, nil
	case ContextSection, ContextPage:
		return c, nil
	default:
		return "", NewConfigError("context", s, "unsupported context; use section or page")
	}
}

// Valid reports whether c is a supported context.
func (c Context) Valid() bool {
	return c == ContextSection || c == ContextPage
}

// DefaultDepth is the default bound of nested N:1 expansion.
const DefaultDepth = 1

// DefaultSystemFields are bookkeeping columns left out of template bodies:
// ownership and publication markers and creation/update timestamps.
var DefaultSystemFields = []string{
	"owner",
	"ownerId",
	"public",
	"published",
	"createdAt",
	"updatedAt",
	"created_at",
	"updated_at",
}

// Config holds the generation settings.
type Config struct {
	// SystemFields are excluded from every template body.
	SystemFields []string
	// Header is emitted as a template comment on top of every template.
	Header string
	// EmptyText is shown by 1:N blocks without related records.
	EmptyText string
	// Depth is the expansion bound used by Writer.
	Depth int
	// Target is the output directory of Writer.
	Target string
	// Workers bounds the parallelism of Writer.
	Workers int
}

// Option configures code generation.
type Option func(*Config) error

// WithSystemFields replaces the set of system bookkeeping fields.
func WithSystemFields(names ...string) Option {
	return func(c *Config) error {
		c.SystemFields = append([]string(nil), names...)
		return nil
	}
}

// WithHeader sets the template header comment.
// The header may not contain the mustache close delimiter.
func WithHeader(header string) Option {
	return func(c *Config) error {
		if containsDelim(header) {
			return NewConfigError("Header", header, "header cannot contain mustache delimiters")
		}
		c.Header = header
		return nil
	}
}

// WithEmptyText sets the text of empty 1:N blocks.
func WithEmptyText(text string) Option {
	return func(c *Config) error {
		c.EmptyText = text
		return nil
	}
}

// WithDepth sets the expansion bound used by Writer.
func WithDepth(depth int) Option {
	return func(c *Config) error {
		if depth < 0 {
			return NewConfigError("Depth", depth, "depth cannot be negative")
		}
		c.Depth = depth
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated templates will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithWorkers sets the number of parallel Writer workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		SystemFields: append([]string(nil), DefaultSystemFields...),
		EmptyText:    "No entries",
		Depth:        DefaultDepth,
		Target:       "templates",
		Workers:      runtime.GOMAXPROCS(0),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(fmt.Errorf("gen: %w", err))
	}
	return c
}
