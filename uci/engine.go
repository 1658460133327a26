package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultDepth            = 10
	DefaultStartTimeout     = 5 * time.Second
	DefaultHandshakeTimeout = 3 * time.Second
	DefaultQuitTimeout      = 5 * time.Second

	linesBufferSize = 64
	maxLineSize     = 1 << 20
)

type State uint8

const (
	StateNotStarted State = iota
	StateStarting
	StateReady
	StateBusy
	StateTerminating
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "StateNotStarted"
	case StateStarting:
		return "StateStarting"
	case StateReady:
		return "StateReady"
	case StateBusy:
		return "StateBusy"
	case StateTerminating:
		return "StateTerminating"
	case StateTerminated:
		return "StateTerminated"
	default:
		return ""
	}
}

type Config struct {
	// Path to the engine executable. Bare names are looked up in PATH.
	Path string
	Args []string
	// Env is appended to the current environment of the process.
	Env   []string
	Depth int

	StartTimeout     time.Duration
	HandshakeTimeout time.Duration
	QuitTimeout      time.Duration

	// Logger receives every protocol line at debug level. The zero value
	// discards.
	Logger zerolog.Logger
}

// Engine drives an external engine process over the UCI line protocol. The
// engine is only ever asked for a best move at a fixed depth.
type Engine struct {
	cfg Config
	log zerolog.Logger

	mu    sync.Mutex
	state State
	cmd   *exec.Cmd

	writeMu sync.Mutex
	stdin   io.WriteCloser

	requestMu sync.Mutex
	// owed counts bestmove replies of abandoned searches still to be read.
	owed    int
	lines   chan string
	closing chan struct{}
	exited  chan struct{}

	terminate sync.Once
}

func NewEngine(cfg Config) *Engine {
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultDepth
	}
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = DefaultStartTimeout
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if cfg.QuitTimeout <= 0 {
		cfg.QuitTimeout = DefaultQuitTimeout
	}
	e := &Engine{
		cfg:     cfg,
		state:   StateNotStarted,
		closing: make(chan struct{}),
		exited:  make(chan struct{}),
	}
	e.log = cfg.Logger.With().Str("engine", e.Name()).Logger()
	return e
}

// Name is the base name of the engine executable.
func (e *Engine) Name() string {
	return filepath.Base(e.cfg.Path)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Start launches the engine and runs the UCI handshake. On failure the
// process, if any was launched, is gone and the engine is terminated.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateNotStarted {
		e.mu.Unlock()
		return fmt.Errorf("%w: engine %s: already started", ErrStartup, e.Name())
	}
	e.state = StateStarting
	e.mu.Unlock()

	if err := e.launch(ctx); err != nil {
		e.mu.Lock()
		e.state = StateTerminated
		e.cmd = nil
		e.mu.Unlock()
		e.terminate.Do(func() {})
		return err
	}

	if err := e.handshake(ctx); err != nil {
		e.Terminate()
		e.mu.Lock()
		e.cmd = nil
		e.mu.Unlock()
		return fmt.Errorf("%w: engine %s: %w", ErrHandshake, e.Name(), err)
	}

	e.setState(StateReady)
	e.log.Info().Msg("engine ready")
	return nil
}

func (e *Engine) launch(ctx context.Context) error {
	path, err := exec.LookPath(e.cfg.Path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, exec.ErrNotFound):
			return fmt.Errorf("%w: %w at '%s'", ErrStartup, ErrEngineNotFound, e.cfg.Path)
		case errors.Is(err, fs.ErrPermission):
			return fmt.Errorf("%w: %w '%s'", ErrStartup, ErrPermissionDenied, e.cfg.Path)
		default:
			return fmt.Errorf("%w: engine '%s': %v", ErrStartup, e.cfg.Path, err)
		}
	}

	cmd := exec.Command(path, e.cfg.Args...)
	if len(e.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), e.cfg.Env...)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: could not create stdin pipe for engine '%s': %v", ErrStartup, e.cfg.Path, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: could not create stdout pipe for engine '%s': %v", ErrStartup, e.cfg.Path, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: could not create stderr pipe for engine '%s': %v", ErrStartup, e.cfg.Path, err)
	}

	startCtx, cancel := context.WithTimeout(ctx, e.cfg.StartTimeout)
	defer cancel()
	started := make(chan error, 1)
	go func() {
		started <- cmd.Start()
	}()
	select {
	case err := <-started:
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return fmt.Errorf("%w: %w '%s'", ErrStartup, ErrPermissionDenied, e.cfg.Path)
			}
			return fmt.Errorf("%w: engine '%s': %v", ErrStartup, e.cfg.Path, err)
		}
	case <-startCtx.Done():
		go func() {
			if err := <-started; err == nil {
				_ = cmd.Process.Kill()
				_ = cmd.Wait()
			}
		}()
		return fmt.Errorf("%w: subprocess for engine '%s' timed-out: %w", ErrStartup, e.cfg.Path, startCtx.Err())
	}

	e.mu.Lock()
	e.cmd = cmd
	e.stdin = stdin
	e.lines = make(chan string, linesBufferSize)
	e.mu.Unlock()

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		e.readStdout(stdout)
	}()
	go func() {
		defer readers.Done()
		e.readStderr(stderr)
	}()
	go func() {
		readers.Wait()
		err := cmd.Wait()
		e.log.Debug().Err(err).Msg("engine process exited")
		close(e.exited)
	}()

	e.log.Debug().Int("pid", cmd.Process.Pid).Msg("engine process started")
	return nil
}

func (e *Engine) readStdout(r io.Reader) {
	defer close(e.lines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		e.log.Debug().Str("dir", "<").Msg(line)
		select {
		case e.lines <- line:
		case <-e.closing:
			// drain the pipe so the process can exit
		}
	}
	if err := scanner.Err(); err != nil {
		e.log.Warn().Err(err).Msg("could not read engine output")
	}
}

func (e *Engine) readStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		e.log.Debug().Str("dir", "stderr").Msg(scanner.Text())
	}
}

func (e *Engine) handshake(ctx context.Context) error {
	steps := []struct {
		send   string
		expect string
	}{
		{send: "uci", expect: "uciok"},
		{send: "ucinewgame"},
		{send: "isready", expect: "readyok"},
	}
	for _, step := range steps {
		stepCtx, cancel := context.WithTimeout(ctx, e.cfg.HandshakeTimeout)
		err := e.write(step.send)
		if err == nil && step.expect != "" {
			_, err = e.waitFor(stepCtx, step.expect)
		}
		cancel()
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) write(command string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if e.stdin == nil {
		return ErrEngineExited
	}
	e.log.Debug().Str("dir", ">").Msg(command)
	if _, err := io.WriteString(e.stdin, command+"\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineExited, err)
	}
	return nil
}

// waitFor reads lines until one starts with prefix. Any other line is
// ignored.
func (e *Engine) waitFor(ctx context.Context, prefix string) (string, error) {
	for {
		select {
		case line, ok := <-e.lines:
			if !ok {
				return "", ErrEngineExited
			}
			if strings.HasPrefix(line, prefix) {
				return line, nil
			}
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// RequestMove asks for the best move in the position given as FEN. There is
// no timeout on the search, only ctx bounds it.
func (e *Engine) RequestMove(ctx context.Context, fen string) (string, error) {
	e.requestMu.Lock()
	defer e.requestMu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.mu.Lock()
	if e.state != StateReady {
		state := e.state
		e.mu.Unlock()
		return "", fmt.Errorf("%w: engine %s is %s", ErrNotReady, e.Name(), state)
	}
	e.state = StateBusy
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		if e.state == StateBusy {
			e.state = StateReady
		}
		e.mu.Unlock()
	}()

	for e.owed > 0 {
		if _, err := e.waitFor(ctx, "bestmove"); err != nil {
			return "", err
		}
		e.owed--
	}

	if err := e.write("position fen " + fen); err != nil {
		return "", err
	}
	if err := e.write("go depth " + strconv.Itoa(e.cfg.Depth)); err != nil {
		return "", err
	}
	line, err := e.waitFor(ctx, "bestmove")
	if err != nil {
		if ctx.Err() != nil && e.write("stop") == nil {
			e.owed++
		}
		return "", err
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: %q", ErrMalformedReply, line)
	}
	return fields[1], nil
}

// Idle keeps the engine alive until ctx is done, then terminates it.
func (e *Engine) Idle(ctx context.Context) error {
	<-ctx.Done()
	e.Terminate()
	return ctx.Err()
}

// Terminate asks the engine to quit and kills it when it does not exit
// within the quit timeout. It is safe to call more than once.
func (e *Engine) Terminate() {
	e.terminate.Do(func() {
		e.mu.Lock()
		cmd := e.cmd
		e.state = StateTerminating
		e.mu.Unlock()

		if cmd != nil {
			close(e.closing)
			e.quit(cmd)
		}

		e.setState(StateTerminated)
		e.log.Info().Msg("engine terminated")
	})
}

func (e *Engine) quit(cmd *exec.Cmd) {
	if err := e.write("quit"); err != nil {
		e.log.Warn().Err(err).Msg("could not send quit")
		e.kill(cmd)
		return
	}
	e.writeMu.Lock()
	_ = e.stdin.Close()
	e.writeMu.Unlock()

	timer := time.NewTimer(e.cfg.QuitTimeout)
	defer timer.Stop()
	select {
	case <-e.exited:
	case <-timer.C:
		e.log.Warn().Dur("timeout", e.cfg.QuitTimeout).Msg("engine did not quit in time")
		e.kill(cmd)
	}
}

func (e *Engine) kill(cmd *exec.Cmd) {
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		e.log.Warn().Err(err).Msg("could not kill engine")
	}
	<-e.exited
}
