//go:build ebiten

// Command cyclario-gui opens the lattice in an ebiten window.
package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"cyclario/internal/app"
	"cyclario/internal/core"
	"cyclario/internal/sims/cyclario"
)

// kvFlag collects repeated -set key=value pairs for the session factory.
type kvFlag map[string]string

func (kv kvFlag) String() string { return "" }

func (kv kvFlag) Set(v string) error {
	k, val, ok := strings.Cut(v, "=")
	if !ok {
		return errors.New("expected key=value")
	}
	kv[k] = val
	return nil
}

func main() {
	scale := flag.Int("scale", 48, "pixels per cell")
	tps := flag.Int("tps", 60, "ebiten ticks per second")
	configPath := flag.String("config", "", "YAML config file")
	opts := kvFlag{}
	flag.Var(opts, "set", "session option key=value (seed, delay_ms, history, preset, pattern, rows, cols); repeatable")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	var sess *cyclario.Session
	if *configPath != "" {
		cfg, err := cyclario.LoadConfig(*configPath)
		if err != nil {
			logger.Error("load config", slog.Any("error", err))
			os.Exit(1)
		}
		sess = cyclario.NewWithConfig(cfg)
	} else {
		factory, ok := core.Sims()["cyclario"]
		if !ok {
			logger.Error("cyclario is not registered")
			os.Exit(1)
		}
		sess = factory(opts).(*cyclario.Session)
	}

	game := app.New(sess, *scale, logger)
	size := sess.Size()

	ebiten.SetWindowTitle("cyclario")
	ebiten.SetTPS(*tps)
	ebiten.SetWindowSize(size.W*(*scale)+app.HUDWidth, size.H*(*scale))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("run", slog.Any("error", err))
		os.Exit(1)
	}
}
