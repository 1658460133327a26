package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/daystram/arbiter/board"
	"github.com/daystram/arbiter/uci"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		wantErr   error
		wantDepth int
		wantFEN   string
	}{
		{
			name:      "defaults",
			args:      nil,
			wantDepth: uci.DefaultDepth,
			wantFEN:   board.DefaultStartingPositionFEN,
		},
		{
			name:      "flags",
			args:      []string{"-depth", "4", "-fen", "7k/8/8/8/8/8/8/K7 w - - 0 1"},
			wantDepth: 4,
			wantFEN:   "7k/8/8/8/8/8/8/K7 w - - 0 1",
		},
		{
			name:    "zero depth",
			args:    []string{"-depth", "0"},
			wantErr: errUsage,
		},
		{
			name:    "negative perft",
			args:    []string{"-perft", "-1"},
			wantErr: errUsage,
		},
		{
			name:    "bad fen",
			args:    []string{"-fen", "8/8/8 w - - 0 1"},
			wantErr: errUsage,
		},
		{
			name:    "extra arguments",
			args:    []string{"stockfish"},
			wantErr: errUsage,
		},
		{
			name:    "unknown flag",
			args:    []string{"-nope"},
			wantErr: errUsage,
		},
		{
			name:    "help",
			args:    []string{"-h"},
			wantErr: flag.ErrHelp,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := parseConfig(tt.args, io.Discard)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("unexpected error: got=%v want=%v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.depth != tt.wantDepth {
				t.Errorf("unexpected depth: got=%d want=%d", cfg.depth, tt.wantDepth)
			}
			if cfg.fen != tt.wantFEN {
				t.Errorf("unexpected fen: got=%s want=%s", cfg.fen, tt.wantFEN)
			}
		})
	}
}

func TestParseConfig_Env(t *testing.T) {
	t.Setenv("ARBITER_WHITE", "/usr/games/stockfish")
	t.Setenv("ARBITER_DEPTH", "7")
	t.Setenv("ARBITER_ASCII", "yes")

	cfg, err := parseConfig([]string{"-depth", "3"}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.white != "/usr/games/stockfish" {
		t.Errorf("unexpected white: got=%s want=%s", cfg.white, "/usr/games/stockfish")
	}
	if cfg.black != "" {
		t.Errorf("unexpected black: got=%s want=%s", cfg.black, "")
	}
	if cfg.depth != 3 {
		t.Errorf("flag should override env: got=%d want=%d", cfg.depth, 3)
	}
	if !cfg.ascii {
		t.Errorf("unexpected ascii: got=%v want=%v", cfg.ascii, true)
	}
}

func TestPerftCommand(t *testing.T) {
	t.Parallel()

	for _, parallel := range []bool{false, true} {
		var out bytes.Buffer
		if err := perft(2, board.DefaultStartingPositionFEN, parallel, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "nodes=400") {
			t.Errorf("missing node count, parallel=%v: %s", parallel, got)
		}
		if !strings.Contains(got, "e2e4: 20") {
			t.Errorf("missing divide line, parallel=%v: %s", parallel, got)
		}
	}

	if err := perft(1, "bad", false, io.Discard); err == nil {
		t.Errorf("expected error for bad fen")
	}
}

func TestMovegenCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := movegen("4k3/8/8/8/8/8/8/R3K2R w KQ - 3 9", true, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"White to move, half-move clock 3, move 9", "[e1g1]", "(cas=true)", "[e1c1]"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output: %s", want, got)
		}
	}
}

func TestTerminal_Commands(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	var submitted []board.Move
	var submitErr error
	term := newTerminal(strings.NewReader(""), &out, true, map[board.Side]string{
		board.SideWhite: "human",
		board.SideBlack: "stockfish",
	})
	term.submit = func(mv board.Move) error {
		if submitErr != nil {
			return submitErr
		}
		submitted = append(submitted, mv)
		return nil
	}
	term.SetBoard(board.NewStartingBoard())

	tests := []struct {
		line    string
		before  func()
		want    string
		wantErr error
	}{
		{line: "", want: ""},
		{line: "help", want: "moves [sq]"},
		{line: "fen", want: board.DefaultStartingPositionFEN},
		{line: "moves e2", want: "e2: e3 e4"},
		{line: "moves g1", want: "g1: f3 h3"},
		{line: "moves", want: "a2a3 a2a4 b1a3"},
		{line: "moves z9", want: "invalid"},
		{line: "e2e4", want: "not your turn"},
		{line: "e2", before: func() { term.EnableInput(board.SideWhite) }, want: "invalid move"},
		{line: "e2e4", want: ""},
		{line: "e2e5", before: func() { submitErr = errors.New("rejected") }, want: "rejected"},
		{line: "quit", wantErr: errQuit},
		{line: "exit", wantErr: errQuit},
	}
	for _, tt := range tests {
		if tt.before != nil {
			tt.before()
		}
		out.Reset()
		err := term.handle(tt.line)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("unexpected error for %q: got=%v want=%v", tt.line, err, tt.wantErr)
		}
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("unexpected output for %q: got=%q want substring %q", tt.line, out.String(), tt.want)
		}
	}

	if len(submitted) != 1 || submitted[0].UCI() != "e2e4" {
		t.Errorf("unexpected submissions: got=%v want=[e2e4]", submitted)
	}
}

func TestTerminal_Status(t *testing.T) {
	t.Parallel()

	names := map[board.Side]string{board.SideWhite: "human", board.SideBlack: "stockfish"}
	tests := []struct {
		fen  string
		want string
	}{
		{fen: board.DefaultStartingPositionFEN, want: "White to move (human), move 1"},
		{fen: "4k3/8/8/8/8/8/4r3/4K3 w - - 0 12", want: "White to move (human), move 12. White is in check."},
		{fen: "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", want: "Checkmate. Black wins!"},
		{fen: "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", want: "Draw by stalemate."},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.fen, func(t *testing.T) {
			t.Parallel()

			b, err := board.NewBoard(board.WithFEN(tt.fen))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			term := newTerminal(strings.NewReader(""), io.Discard, true, names)
			term.board = b
			if got := term.status(); got != tt.want {
				t.Errorf("unexpected status: got=%q want=%q", got, tt.want)
			}
		})
	}
}

func TestRealMain_FinishedPosition(t *testing.T) {
	t.Parallel()

	// stdin stays open so only the end of the game stops the session
	stdin, w := io.Pipe()
	defer w.Close()

	var stdout, stderr bytes.Buffer
	err := realMain([]string{
		"-ascii",
		"-fen", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
	}, stdin, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := stdout.String()
	for _, want := range []string{"White (human) vs Black (human)", "Checkmate. Black wins!"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output: %s", want, got)
		}
	}
}

func TestRealMain_Quit(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	err := realMain([]string{"-ascii"}, strings.NewReader("help\nquit\n"), &stdout, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "type help for commands") {
		t.Errorf("missing banner in output: %s", stdout.String())
	}
}

func TestRealMain_MissingEngine(t *testing.T) {
	t.Parallel()

	stdin, w := io.Pipe()
	defer w.Close()

	err := realMain([]string{"-white", "/nonexistent/engine"}, stdin, io.Discard, io.Discard)
	if !errors.Is(err, uci.ErrEngineNotFound) {
		t.Fatalf("unexpected error: got=%v want=%v", err, uci.ErrEngineNotFound)
	}
}

// scriptedEngine writes a shell UCI engine that answers each go with the
// next of mvs.
func scriptedEngine(t *testing.T, name string, mvs ...string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available:", err)
	}
	script := fmt.Sprintf(`#!/bin/sh
set -- %s
while read -r cmd rest; do
	case "$cmd" in
	uci) echo "id name $0"; echo uciok ;;
	isready) echo readyok ;;
	go) echo "bestmove $1"; shift ;;
	quit) exit 0 ;;
	esac
done
`, strings.Join(mvs, " "))
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal("unexpected error:", err)
	}
	return path
}

func TestRealMain_EnginesWithoutInput(t *testing.T) {
	t.Parallel()

	white := scriptedEngine(t, "white", "f2f3", "g2g4")
	black := scriptedEngine(t, "black", "e7e5", "d8h4")

	var stdout bytes.Buffer
	err := realMain([]string{"-ascii", "-white", white, "-black", black}, strings.NewReader(""), &stdout, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := stdout.String()
	for _, want := range []string{"White (white) vs Black (black)", "Checkmate. Black wins!"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output: %s", want, got)
		}
	}
}

func TestTerminal_EndOfInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		interactive bool
		wantErr     error
	}{
		{name: "human playing", interactive: true, wantErr: errQuit},
		{name: "engines only", interactive: false, wantErr: nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			term := newTerminal(strings.NewReader(""), io.Discard, true, nil)
			term.interactive = tt.interactive
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			if err := term.Run(ctx); !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tt.wantErr)
			}
			if tt.wantErr == nil && ctx.Err() == nil {
				t.Errorf("returned before the context was done")
			}
		})
	}
}
