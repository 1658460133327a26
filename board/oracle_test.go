package board

import (
	"sort"
	"strings"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

var oraclePositions = []string{
	DefaultStartingPositionFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	"8/8/8/K2pP2r/8/8/8/7k w - d6 0 1",
	"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
}

func TestLegalMovesAgainstDragontooth(t *testing.T) {
	t.Parallel()
	for _, fen := range oraclePositions {
		fen := fen
		t.Run(fen, func(t *testing.T) {
			t.Parallel()
			b := mustBoard(t, fen)
			var got []string
			for _, mv := range b.LegalMoves() {
				got = append(got, mv.UCI())
			}

			ref := dragontoothmg.ParseFen(fen)
			var want []string
			for _, mv := range ref.GenerateLegalMoves() {
				want = append(want, mv.String())
			}

			sort.Strings(got)
			sort.Strings(want)
			if strings.Join(got, " ") != strings.Join(want, " ") {
				t.Errorf("unexpected legal moves:\ngot=%v\nwant=%v", got, want)
			}
		})
	}
}

// fenFieldsNoEnPassant drops the en passant field, which is only emitted by
// some encoders when a capture is actually possible.
func fenFieldsNoEnPassant(fen string) string {
	f := strings.Fields(fen)
	if len(f) != 6 {
		return fen
	}
	return strings.Join([]string{f[0], f[1], f[2], f[4], f[5]}, " ")
}

func TestGameAgainstNotnil(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		fen   string
		moves []string
	}{
		{
			name:  "italian with castling",
			fen:   DefaultStartingPositionFEN,
			moves: []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5", "e1g1", "g8f6", "d2d3", "e8g8"},
		},
		{
			name:  "en passant",
			fen:   DefaultStartingPositionFEN,
			moves: []string{"e2e4", "a7a6", "e4e5", "d7d5", "e5d6", "c7d6"},
		},
		{
			name:  "queenside castling and rook moves",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			moves: []string{"e1c1", "h8h4", "h1h4", "a8a1"},
		},
		{
			name:  "promotions",
			fen:   "8/P6k/8/8/8/8/p6K/8 w - - 0 1",
			moves: []string{"a7a8n", "a2a1q", "a8b6", "a1b1"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opt, err := chess.FEN(tt.fen)
			if err != nil {
				t.Fatal("unexpected error:", err)
			}
			ref := chess.NewGame(opt)
			b := mustBoard(t, tt.fen)
			for _, s := range tt.moves {
				mv, err := chess.UCINotation{}.Decode(ref.Position(), s)
				if err != nil {
					t.Fatalf("reference rejected %s: %v", s, err)
				}
				if err := ref.Move(mv); err != nil {
					t.Fatalf("reference rejected %s: %v", s, err)
				}
				b = play(t, b, s)

				got, want := fenFieldsNoEnPassant(b.FEN()), fenFieldsNoEnPassant(ref.Position().String())
				if got != want {
					t.Fatalf("unexpected FEN after %s: got=%s want=%s", s, got, want)
				}
			}
		})
	}
}
