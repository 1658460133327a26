package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/daystram/arbiter/board"
	"github.com/daystram/arbiter/position"
)

var errQuit = errors.New("quit")

const humanName = "human"

const helpText = `commands:
  <move>        play a move, e.g. e2e4 or e7e8q
  moves [sq]    list legal moves, of the piece on sq when given
  fen           print the current position
  help          show this help
  quit          leave the game`

// terminal draws the board on a line based terminal and reads the human
// moves from it.
type terminal struct {
	in    io.Reader
	out   io.Writer
	ascii bool
	names map[board.Side]string
	// interactive is set when a human plays one of the sides. Without it the
	// end of the input does not end the session.
	interactive bool

	submit func(board.Move) error
	ready  chan struct{}

	mu    sync.Mutex
	board *board.Board
	input board.Side
}

func newTerminal(in io.Reader, out io.Writer, ascii bool, names map[board.Side]string) *terminal {
	return &terminal{
		in:    in,
		out:   out,
		ascii: ascii,
		names: names,
		ready: make(chan struct{}),

		interactive: true,
	}
}

func (t *terminal) Ready() <-chan struct{} {
	return t.ready
}

func (t *terminal) SetBoard(b *board.Board) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.board = b
	t.draw(position.Set(0))
}

func (t *terminal) EnableInput(s board.Side) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = s
	t.prompt()
}

func (t *terminal) DisableInput() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = board.SideUnknown
}

// Run reads commands until ctx is done, the input ends or the player quits.
func (t *terminal) Run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	_, _ = fmt.Fprintf(t.out, "%s (%s) vs %s (%s), type help for commands\n",
		board.SideWhite, t.names[board.SideWhite], board.SideBlack, t.names[board.SideBlack])
	close(t.ready)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if t.interactive {
					return errQuit
				}
				lines = nil
				continue
			}
			if err := t.handle(line); err != nil {
				return err
			}
		}
	}
}

func (t *terminal) handle(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	switch args[0] {
	case "quit", "exit":
		return errQuit
	case "help":
		_, _ = fmt.Fprintln(t.out, helpText)
	case "fen":
		if t.board != nil {
			_, _ = fmt.Fprintln(t.out, t.board.FEN())
		}
	case "moves":
		t.listMoves(args[1:])
	default:
		t.play(args[0])
	}
	return nil
}

func (t *terminal) listMoves(args []string) {
	if t.board == nil {
		return
	}
	if len(args) == 0 {
		var mvs []string
		for _, mv := range t.board.LegalMoves() {
			mvs = append(mvs, mv.UCI())
		}
		slices.Sort(mvs)
		_, _ = fmt.Fprintln(t.out, strings.Join(mvs, " "))
		return
	}

	from, err := position.NewPosFromNotation(args[0])
	if err != nil {
		_, _ = fmt.Fprintln(t.out, err)
		return
	}
	dst, err := t.board.Legal(from)
	if err != nil {
		_, _ = fmt.Fprintln(t.out, err)
		return
	}
	var squares []string
	for _, p := range dst.Slice() {
		squares = append(squares, p.Notation())
	}
	slices.Sort(squares)
	t.drawSelected(position.NewSet(from), dst)
	_, _ = fmt.Fprintf(t.out, "%s: %s\n", from.Notation(), strings.Join(squares, " "))
}

func (t *terminal) play(text string) {
	mv, err := board.ParseMove(text)
	if err != nil {
		_, _ = fmt.Fprintln(t.out, err)
		return
	}
	if t.input == board.SideUnknown {
		_, _ = fmt.Fprintln(t.out, "not your turn")
		return
	}
	// the controller calls back into the terminal once the move is applied
	submit := t.submit
	t.mu.Unlock()
	err = submit(mv)
	t.mu.Lock()
	if err != nil {
		_, _ = fmt.Fprintln(t.out, err)
		t.prompt()
	}
}

func (t *terminal) draw(highlight position.Set) {
	t.drawSelected(0, highlight)
}

func (t *terminal) drawSelected(selected, highlight position.Set) {
	if t.board == nil {
		return
	}
	_, _ = fmt.Fprintln(t.out, t.board.Draw(board.DrawOptions{
		ASCII:     t.ascii,
		Highlight: highlight,
		Selected:  selected,
	}))
	_, _ = fmt.Fprintln(t.out, t.status())
}

func (t *terminal) status() string {
	b := t.board
	st := b.State()
	if msg := st.Message(); msg != "" && !st.IsRunning() {
		return msg
	}
	line := fmt.Sprintf("%s to move (%s), move %d", b.Turn(), t.names[b.Turn()], b.FullMoveClock())
	if msg := st.Message(); msg != "" {
		line += ". " + msg
	}
	return line
}

func (t *terminal) prompt() {
	if t.input == board.SideUnknown {
		return
	}
	_, _ = fmt.Fprintf(t.out, "%s> ", t.input)
}
