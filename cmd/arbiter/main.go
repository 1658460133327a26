package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/daystram/arbiter/board"
	"github.com/daystram/arbiter/game"
	"github.com/daystram/arbiter/uci"
)

const (
	exitOK    = 0
	exitErr   = 1
	exitUsage = 2
)

var errUsage = errors.New("usage error")

type config struct {
	white string
	black string
	depth int
	fen   string

	ascii   bool
	noColor bool

	perft         int
	perftParallel bool
	movegen       bool

	logFile string
	debug   bool
}

func main() {
	err := realMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil:
		os.Exit(exitOK)
	case errors.Is(err, flag.ErrHelp):
		os.Exit(exitOK)
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitErr)
	}
}

func parseConfig(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("arbiter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.white, "white", getenv("ARBITER_WHITE", ""), "path to the UCI engine playing white, human when empty")
	fs.StringVar(&cfg.black, "black", getenv("ARBITER_BLACK", ""), "path to the UCI engine playing black, human when empty")
	fs.IntVar(&cfg.depth, "depth", getenvi("ARBITER_DEPTH", uci.DefaultDepth), "search depth requested from the engines")
	fs.StringVar(&cfg.fen, "fen", getenv("ARBITER_FEN", board.DefaultStartingPositionFEN), "starting position")
	fs.BoolVar(&cfg.ascii, "ascii", getenb("ARBITER_ASCII", false), "draw pieces with letters instead of unicode glyphs")
	fs.BoolVar(&cfg.noColor, "nocolor", getenb("ARBITER_NOCOLOR", false), "disable colored output")
	fs.IntVar(&cfg.perft, "perft", 0, "run perft to the given depth on -fen and exit")
	fs.BoolVar(&cfg.perftParallel, "perft.parallel", true, "run perft in parallel")
	fs.BoolVar(&cfg.movegen, "movegen", false, "list the legal moves of -fen and exit")
	fs.StringVar(&cfg.logFile, "log", getenv("ARBITER_LOG", ""), "write logs to this file instead of stderr")
	fs.BoolVar(&cfg.debug, "debug", getenb("ARBITER_DEBUG", false), "log engine protocol traffic")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("%w: unexpected arguments %q", errUsage, fs.Args())
	}
	if cfg.depth <= 0 {
		return cfg, fmt.Errorf("%w: depth must be positive, got %d", errUsage, cfg.depth)
	}
	if cfg.perft < 0 {
		return cfg, fmt.Errorf("%w: perft depth must not be negative, got %d", errUsage, cfg.perft)
	}
	if _, err := board.NewBoard(board.WithFEN(cfg.fen)); err != nil {
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}
	return cfg, nil
}

func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		return err
	}
	if cfg.noColor {
		color.NoColor = true
	}

	if cfg.perft > 0 {
		return perft(cfg.perft, cfg.fen, cfg.perftParallel, stdout)
	}
	if cfg.movegen {
		return movegen(cfg.fen, cfg.ascii, stdout)
	}

	logger, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return play(ctx, cfg, logger, stdin, stdout)
}

func play(ctx context.Context, cfg config, logger zerolog.Logger, stdin io.Reader, stdout io.Writer) error {
	b, err := board.NewBoard(board.WithFEN(cfg.fen))
	if err != nil {
		return err
	}

	names := map[board.Side]string{board.SideWhite: humanName, board.SideBlack: humanName}
	engines := map[board.Side]game.Engine{}
	for s, path := range map[board.Side]string{board.SideWhite: cfg.white, board.SideBlack: cfg.black} {
		if path == "" {
			continue
		}
		e := uci.NewEngine(uci.Config{
			Path:   path,
			Depth:  cfg.depth,
			Logger: logger.With().Str("side", s.String()).Logger(),
		})
		engines[s] = e
		names[s] = e.Name()
	}

	term := newTerminal(stdin, stdout, cfg.ascii, names)
	term.interactive = len(engines) < len(names)
	c := game.NewController(game.Config{
		Board:   b,
		Engines: engines,
		Display: term,
		Logger:  logger,
	})
	term.submit = c.SubmitHumanMove
	logger.Info().Str("game", c.ID().String()).Str("white", names[board.SideWhite]).Str("black", names[board.SideBlack]).Msg("game starting")

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()
	g.Go(func() error {
		defer cancel()
		return c.Run(runCtx)
	})
	g.Go(func() error {
		return term.Run(runCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

func newLogger(cfg config, stderr io.Writer) (zerolog.Logger, func() error, error) {
	level := zerolog.WarnLevel
	var w io.Writer = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen, NoColor: cfg.noColor}
	closer := func() error { return nil }
	if cfg.logFile != "" {
		f, err := os.OpenFile(cfg.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = f.Close
		level = zerolog.InfoLevel
	}
	if cfg.debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), closer, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getenvi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}
