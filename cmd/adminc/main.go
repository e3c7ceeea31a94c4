// adminc generates admin templates from a table definition file.
//
//	adminc -schema admin.yaml Organization page
//	adminc -schema admin.yaml -all -watch
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/syssam/adminkit/compiler/gen"
	"github.com/syssam/adminkit/compiler/load"
	"github.com/syssam/adminkit/graph"
	"github.com/syssam/adminkit/internal/logger"
	"github.com/syssam/adminkit/schema"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "adminc: %v\n", err)
		return exitUsage
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "adminc: %v\n", err)
		return exitUsage
	}
	logger.Init(level)
	logrus.SetOutput(stderr)
	ctx, rlog := logger.WithRun(ctx)

	s, err := load.File(cfg.Schema)
	if err != nil {
		rlog.WithError(err).Error("cannot load schema")
		return exitError
	}
	cache := gen.NewMemoryCache()
	if err := generate(ctx, cfg, s, cache, stdout); err != nil {
		rlog.WithError(err).Error("generation failed")
		return exitError
	}
	if !cfg.Watch {
		return exitOK
	}

	rlog.WithField("schema", cfg.Schema).Info("watching for changes")
	err = load.Watch(ctx, cfg.Schema, func(s *schema.Schema, err error) {
		if err != nil {
			rlog.WithError(err).Warn("schema reload failed")
			return
		}
		cache.Purge(s.Fingerprint())
		if err := generate(ctx, cfg, s, cache, stdout); err != nil {
			rlog.WithError(err).Error("generation failed")
			return
		}
		rlog.WithField("fingerprint", s.Fingerprint()).Info("templates regenerated")
	})
	if err != nil {
		rlog.WithError(err).Error("cannot watch schema")
		return exitError
	}
	return exitOK
}

// generate writes the templates cfg asks for. A single template is also
// printed to stdout.
func generate(ctx context.Context, cfg *Config, s *schema.Schema, cache *gen.MemoryCache, stdout io.Writer) error {
	g, err := gen.New(graph.NewMemo(graph.New(s)), cfg.options()...)
	if err != nil {
		return err
	}
	w := gen.NewWriter(g.Cached(cache))
	if cfg.All {
		return w.WriteAll(ctx)
	}
	text, err := w.Write(ctx, cfg.Table, cfg.Context)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, text)
	return err
}
