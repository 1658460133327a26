package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/daystram/arbiter/board"
)

// Engine is an external move source. *uci.Engine implements it.
type Engine interface {
	Name() string
	Start(ctx context.Context) error
	RequestMove(ctx context.Context, fen string) (string, error)
	Idle(ctx context.Context) error
	Terminate()
}

// Display shows the game and collects human moves, which it hands back
// through Controller.SubmitHumanMove.
type Display interface {
	// Ready is closed once the display can draw the first board.
	Ready() <-chan struct{}
	SetBoard(b *board.Board)
	EnableInput(s board.Side)
	DisableInput()
}

type Config struct {
	// Board is the starting position, the standard one when nil.
	Board *board.Board
	// Engines maps a side to its engine. Sides without one are played by
	// the human through the display.
	Engines map[board.Side]Engine
	Display Display
	Logger  zerolog.Logger
}

// source identifies who is expected to deliver the move of one ply.
type source struct {
	side  board.Side
	ply   int
	human bool
}

type pending struct {
	from source
	mv   board.Move
	err  error
	// accepted is set when the source was already disarmed on submission.
	accepted bool
}

// Controller runs one game. Only one source is armed at any time and the
// moves it delivers are applied one by one in the order they arrive.
type Controller struct {
	id      uuid.UUID
	engines map[board.Side]Engine
	display Display
	log     zerolog.Logger

	queue chan pending

	mu      sync.Mutex
	board   *board.Board
	ply     int
	armed   source
	isArmed bool
}

func NewController(cfg Config) *Controller {
	b := cfg.Board
	if b == nil {
		b = board.NewStartingBoard()
	}
	engines := make(map[board.Side]Engine, len(cfg.Engines))
	for s, e := range cfg.Engines {
		if e != nil {
			engines[s] = e
		}
	}
	id := uuid.New()
	return &Controller{
		id:      id,
		engines: engines,
		display: cfg.Display,
		log:     cfg.Logger.With().Str("game", id.String()).Logger(),
		queue:   make(chan pending, 1),
		board:   b,
	}
}

func (c *Controller) ID() uuid.UUID {
	return c.id
}

// Board returns the current position.
func (c *Controller) Board() *board.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board
}

// Run plays the game until it is over or ctx is done. A finished game
// returns nil. Engines are always terminated before Run returns.
func (c *Controller) Run(ctx context.Context) error {
	defer c.terminateEngines()
	if err := c.startEngines(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	idleCtx, stopIdle := context.WithCancel(gctx)
	defer stopIdle()

	for _, s := range []board.Side{board.SideWhite, board.SideBlack} {
		e, ok := c.engines[s]
		if !ok {
			continue
		}
		g.Go(func() error {
			err := e.Idle(idleCtx)
			if gctx.Err() == nil {
				// stopped at game over
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		return c.loop(gctx, g, stopIdle)
	})
	return g.Wait()
}

func (c *Controller) startEngines(ctx context.Context) error {
	for _, s := range []board.Side{board.SideWhite, board.SideBlack} {
		e, ok := c.engines[s]
		if !ok {
			continue
		}
		if err := e.Start(ctx); err != nil {
			return fmt.Errorf("%w: %s engine %s: %w", ErrEngineStartup, s, e.Name(), err)
		}
		c.log.Info().Str("side", s.String()).Str("engine", e.Name()).Msg("engine started")
	}
	return nil
}

func (c *Controller) terminateEngines() {
	for _, e := range c.engines {
		e.Terminate()
	}
}

func (c *Controller) loop(ctx context.Context, g *errgroup.Group, stopIdle context.CancelFunc) error {
	select {
	case <-c.display.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}

	b := c.Board()
	if st := b.State(); !st.IsRunning() {
		c.finish(b, st)
		stopIdle()
		return nil
	}
	c.display.SetBoard(b)
	c.arm(ctx, g, b)

	for {
		var p pending
		select {
		case p = <-c.queue:
		case <-ctx.Done():
			return ctx.Err()
		}

		if !p.accepted && !c.disarm(p.from) {
			c.log.Warn().Str("side", p.from.side.String()).Int("ply", p.from.ply).Msg("dropped move from source that is not armed")
			continue
		}
		if p.err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return p.err
		}

		b = c.Board()
		if err := validate(b, p.mv); err != nil {
			return fmt.Errorf("%s: %w", p.from.side, err)
		}
		next, err := b.Apply(p.mv)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrIllegalMove, p.mv, err)
		}

		c.mu.Lock()
		c.board = next
		c.ply++
		c.mu.Unlock()
		c.log.Info().
			Int("ply", p.from.ply).
			Str("side", p.from.side.String()).
			Str("move", p.mv.UCI()).
			Str("fen", next.FEN()).
			Msg("move applied")

		if st := next.State(); !st.IsRunning() {
			c.finish(next, st)
			stopIdle()
			return nil
		}
		c.display.SetBoard(next)
		c.arm(ctx, g, next)
	}
}

func (c *Controller) finish(b *board.Board, st board.State) {
	done := b.Finish()
	c.mu.Lock()
	c.board = done
	c.isArmed = false
	c.mu.Unlock()
	c.display.SetBoard(done)
	c.display.DisableInput()
	c.log.Info().Str("state", st.String()).Str("fen", done.FEN()).Msg(st.Message())
}

// arm hands the turn to the source of the side to move on b.
func (c *Controller) arm(ctx context.Context, g *errgroup.Group, b *board.Board) {
	s := b.Turn()
	e, isEngine := c.engines[s]

	c.mu.Lock()
	src := source{side: s, ply: c.ply, human: !isEngine}
	c.armed = src
	c.isArmed = true
	c.mu.Unlock()

	if !isEngine {
		c.display.EnableInput(s)
		return
	}
	c.display.DisableInput()

	fen := b.FEN()
	g.Go(func() error {
		p := pending{from: src}
		text, err := e.RequestMove(ctx, fen)
		switch {
		case err != nil:
			p.err = fmt.Errorf("%s engine %s: %w", s, e.Name(), err)
		default:
			c.log.Debug().Str("engine", e.Name()).Str("move", text).Msg("engine replied")
			if p.mv, err = board.ParseMove(text); err != nil {
				p.err = fmt.Errorf("%w: %s engine %s replied %q: %v", ErrIllegalMove, s, e.Name(), text, err)
			}
		}
		select {
		case c.queue <- p:
		case <-ctx.Done():
		}
		return nil
	})
}

// disarm clears the armed source if it matches src.
func (c *Controller) disarm(src source) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isArmed || c.armed != src {
		return false
	}
	c.isArmed = false
	return true
}

// SubmitHumanMove queues a move from the human. It is rejected unless the
// human is the armed source and the move is legal; one armed turn accepts
// one move.
func (c *Controller) SubmitHumanMove(mv board.Move) error {
	c.mu.Lock()
	if !c.isArmed || !c.armed.human {
		c.mu.Unlock()
		return ErrSourceNotArmed
	}
	if err := validate(c.board, mv); err != nil {
		c.mu.Unlock()
		return err
	}
	c.isArmed = false
	p := pending{from: c.armed, mv: mv, accepted: true}
	c.mu.Unlock()

	c.queue <- p
	return nil
}

func validate(b *board.Board, mv board.Move) error {
	cell := b.At(mv.From)
	if cell.IsEmpty() || cell.Side() != b.Turn() {
		return fmt.Errorf("%w: %s: no %s piece on %s", ErrIllegalMove, mv, b.Turn(), mv.From.Notation())
	}
	dst, err := b.Legal(mv.From)
	if err != nil || !dst.Has(mv.To) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, mv)
	}
	return nil
}
