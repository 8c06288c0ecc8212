// Package main provides the CLI entry point for webpkit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/webpkit/pkg/adapters/ggrenderer"
	"github.com/user/webpkit/pkg/adapters/logger"
	"github.com/user/webpkit/pkg/adapters/osfilesystem"
	"github.com/user/webpkit/pkg/adapters/smartcodec"
	"github.com/user/webpkit/pkg/config"
	"github.com/user/webpkit/pkg/ports"
	"github.com/user/webpkit/pkg/webpkit"
)

var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "webpkit",
		Usage:   l10n.T("Encode, decode and inspect WebP images and animations"),
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "log-level",
				Aliases:  []string{"l"},
				Usage:    l10n.T("Log level (debug, info, warn, error, quiet)"),
				Category: l10n.T("Logging"),
			},
			&cli.StringFlag{
				Name:     "log-format",
				Usage:    l10n.T("Log format (console, json)"),
				Category: l10n.T("Logging"),
			},
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    l10n.T("YAML profile with default settings"),
				EnvVars:  []string{"WEBPKIT_CONFIG"},
				Category: l10n.T("Runtime"),
			},
			&cli.StringFlag{
				Name:     "engine",
				Usage:    l10n.T("Codec engine (auto, native, wasm)"),
				EnvVars:  []string{"WEBPKIT_ENGINE"},
				Category: l10n.T("Runtime"),
			},
			&cli.IntFlag{
				Name:     "workers",
				Usage:    l10n.T("Decode animation frames on this many workers (0 = sequential)"),
				Category: l10n.T("Runtime"),
			},
		},
		Commands: []*cli.Command{
			encodeCommand(),
			decodeCommand(),
			animateCommand(),
			extractCommand(),
			infoCommand(),
			stripCommand(),
		},
	}
}

// env holds the adapters shared by all commands.
type env struct {
	profile  config.Profile
	log      ports.Logger
	fs       ports.FileSystem
	renderer ports.Renderer
	client   *webpkit.Client
}

// setup loads the profile, applies global flags and wires the adapters.
func setup(c *cli.Context) (*env, error) {
	profile := config.DefaultProfile()
	if path := c.String("config"); path != "" {
		p, err := config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		profile = p
	}
	if c.IsSet("log-level") {
		profile.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		profile.LogFormat = c.String("log-format")
	}
	if c.IsSet("engine") {
		profile.Engine = c.String("engine")
	}
	if c.IsSet("workers") {
		profile.Workers = c.Int("workers")
		profile.UseThreads = profile.Workers > 0
	}

	log := logger.New(profile.LogFormat, ports.ParseLogLevel(profile.LogLevel))

	engineKind, err := smartcodec.ParseEngine(profile.Engine)
	if err != nil {
		return nil, err
	}
	engine, info, err := smartcodec.New(engineKind, log)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	log.Debug("Using %s engine (%s)", info.Engine, info.Backend)

	bg, err := config.ParseBackground(profile.Background)
	if err != nil {
		return nil, err
	}

	opts := []webpkit.Option{
		webpkit.WithBackgroundColor(bg),
		webpkit.WithAllowMixed(profile.AllowMixed),
	}
	if profile.UseThreads {
		opts = append(opts, webpkit.WithThreads(profile.Workers))
	}

	fs := osfilesystem.New()
	return &env{
		profile:  profile,
		log:      log,
		fs:       fs,
		renderer: ggrenderer.New(),
		client:   webpkit.New(engine, fs, log, opts...),
	}, nil
}
