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

	"github.com/rs/zerolog"

	"github.com/ironsheep/stone2sgf/internal/config"
	"github.com/ironsheep/stone2sgf/internal/imaging"
	"github.com/ironsheep/stone2sgf/internal/pipeline"
	"github.com/ironsheep/stone2sgf/internal/remote"
	"github.com/ironsheep/stone2sgf/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const defaultConfigPath = "stone2sgf.json"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "stone2sgf %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	case "--help", "-h", "help":
		usage(stdout)
		return 0
	case "serve":
		return serve(ctx, args, stderr)
	case "convert":
		return convert(ctx, args, stdout, stderr)
	}
	fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
	usage(stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "stone2sgf - read Go board photographs into SGF records")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  stone2sgf [serve] [--config file]")
	fmt.Fprintln(w, "  stone2sgf convert <image> [--overlay out.png] [--strategy vision|remote] [--config file]")
	fmt.Fprintln(w, "  stone2sgf version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug    Override the configured log level\n", config.LogLevelEnv)
	fmt.Fprintln(w, "  ANTHROPIC_API_KEY            Key for the remote strategy (see remote.api_key_env)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without a command the MCP server runs over stdin/stdout.")
	fmt.Fprintln(w, "Configure it in your MCP client (e.g., Claude Desktop).")
}

// setup loads the configuration and builds the logger. Logs go to stderr
// because stdout carries MCP traffic or the record.
func setup(path string, stderr io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}).
		Level(cfg.Level()).
		With().Timestamp().Logger()
	return cfg, logger, nil
}

// remoteRecognizer returns the delegated recognizer, or nil when no API key
// is available.
func remoteRecognizer(cfg *config.Config, logger zerolog.Logger) (pipeline.Recognizer, error) {
	opts := cfg.RemoteOptions()
	if opts.APIKey == "" {
		logger.Debug().Str("env", cfg.Remote.APIKeyEnv).Msg("no API key, remote strategy disabled")
		return nil, nil
	}
	c, err := remote.NewClient(opts, nil, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func serve(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", defaultConfigPath, "configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, logger, err := setup(*configPath, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "stone2sgf: %v\n", err)
		return 1
	}
	logger.Debug().
		Str("version", Version).
		Str("built", BuildTime).
		Str("commit", GitCommit).
		Msg("stone2sgf MCP server")

	rem, err := remoteRecognizer(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("remote recognizer")
		return 1
	}
	srv, err := server.New(server.Options{
		Vision:   cfg.Vision,
		Strategy: cfg.Strategy,
		Remote:   rem,
		Logger:   logger,
		Version:  Version,
	})
	if err != nil {
		logger.Error().Err(err).Msg("server setup")
		return 1
	}
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("server error")
		return 1
	}
	return 0
}

func convert(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", defaultConfigPath, "configuration file")
	overlayPath := fs.String("overlay", "", "write an annotated PNG of the detection stages")
	strategy := fs.String("strategy", "", "recognizer: vision or remote (default from config)")

	// Allow the image before or after the flags.
	var image string
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		image, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if image == "" && fs.NArg() > 0 {
		image = fs.Arg(0)
	}
	if image == "" {
		fmt.Fprintln(stderr, "convert: image path required")
		return 2
	}

	cfg, logger, err := setup(*configPath, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "stone2sgf: %v\n", err)
		return 1
	}
	if *strategy != "" {
		cfg.Strategy = pipeline.Strategy(*strategy)
	}

	vision, err := pipeline.NewVision(cfg.Vision, logger)
	if err != nil {
		logger.Error().Err(err).Msg("vision config")
		return 1
	}
	available := map[pipeline.Strategy]pipeline.Recognizer{pipeline.StrategyVision: vision}
	rem, err := remoteRecognizer(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("remote recognizer")
		return 1
	}
	if rem != nil {
		available[pipeline.StrategyRemote] = rem
	}
	r, err := pipeline.Select(cfg.Strategy, available)
	if err != nil {
		logger.Error().Err(err).Msg("select recognizer")
		return 2
	}

	data, err := imaging.ReadFile(image)
	if err != nil {
		logger.Error().Err(err).Str("path", image).Msg("read image")
		return 1
	}
	res, err := r.Recognize(ctx, data)
	if err != nil {
		fmt.Fprintf(stderr, "stone2sgf: %v\n", err)
		if pipeline.IsInputError(err) {
			return 3
		}
		return 1
	}

	fmt.Fprintln(stdout, res.Record.Text)
	fmt.Fprintf(stderr, "black: %d  white: %d  (%s)\n", res.Record.DarkCount, res.Record.LightCount, res.Strategy)

	if *overlayPath != "" {
		if err := writeOverlay(*overlayPath, res); err != nil {
			logger.Error().Err(err).Str("path", *overlayPath).Msg("overlay")
			return 1
		}
		logger.Info().Str("path", *overlayPath).Msg("overlay written")
	}
	return 0
}

func writeOverlay(path string, res *pipeline.Result) error {
	o, err := res.Overlay()
	if err != nil {
		return err
	}
	o.Labels = true
	out, err := imaging.RenderOverlay(res.Image, o)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out.PNG, 0o644)
}
