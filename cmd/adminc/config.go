package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/joeshaw/envdecode"

	"github.com/syssam/adminkit/compiler/gen"
)

// Config holds the settings of one adminc run. Environment variables provide
// the defaults and flags override them.
//
// use ADMINC_SCHEMA=admin.yaml ADMINC_OUT=web/templates adminc Organization page
type Config struct {
	Schema   string `env:"ADMINC_SCHEMA,default=schema.yaml" description:"the table definition file (YAML or JSON)"`
	Out      string `env:"ADMINC_OUT,default=templates" description:"the directory templates are written to"`
	Depth    int    `env:"ADMINC_DEPTH,default=1" description:"how many levels of N:1 relations are expanded"`
	Header   string `env:"ADMINC_HEADER" description:"a comment emitted on top of every template"`
	LogLevel string `env:"ADMINC_LOG_LEVEL,default=info" description:"the logrus level"`

	All   bool
	Watch bool

	Table   string
	Context gen.Context
}

const usage = `usage: adminc [flags] <table> [section|page]
       adminc [flags] -all

Generates the admin template of a table, prints it and writes it to
<out>/<table>.<context>.mustache.

flags:
`

func parseConfig(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{}
	if err := envdecode.StrictDecode(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	fs := flag.NewFlagSet("adminc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Schema, "schema", cfg.Schema, "table definition file (YAML or JSON)")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "output directory")
	fs.IntVar(&cfg.Depth, "depth", cfg.Depth, "levels of N:1 relations to expand")
	fs.StringVar(&cfg.Header, "header", cfg.Header, "template header comment")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.All, "all", false, "generate every table in every context")
	fs.BoolVar(&cfg.Watch, "watch", false, "regenerate when the schema file changes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	switch {
	case cfg.All && len(rest) > 0:
		return nil, fmt.Errorf("-all takes no table argument")
	case cfg.All:
	case len(rest) == 0:
		return nil, fmt.Errorf("missing table name")
	case len(rest) > 2:
		return nil, fmt.Errorf("unexpected arguments: %v", rest[2:])
	default:
		cfg.Table = rest[0]
		var c string
		if len(rest) == 2 {
			c = rest[1]
		}
		ctx, err := gen.ParseContext(c)
		if err != nil {
			return nil, err
		}
		cfg.Context = ctx
	}
	if _, err := gen.NewConfig(cfg.options()...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// options returns the generator options of cfg.
func (c *Config) options() []gen.Option {
	return []gen.Option{
		gen.WithTarget(c.Out),
		gen.WithDepth(c.Depth),
		gen.WithHeader(c.Header),
	}
}
