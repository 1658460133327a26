package board

import (
	"errors"
	"testing"

	"github.com/daystram/arbiter/position"
)

func TestParseMove(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    Move
		wantErr error
	}{
		{
			name:  "plain",
			input: "e2e4",
			want:  Move{From: position.Pos{X: 4, Y: 6}, To: position.Pos{X: 4, Y: 4}},
		},
		{
			name:  "promotion",
			input: "a7a8q",
			want:  Move{From: position.Pos{X: 0, Y: 1}, To: position.Pos{X: 0, Y: 0}, Promote: PieceQueen},
		},
		{
			name:  "underpromotion",
			input: "h2h1n",
			want:  Move{From: position.Pos{X: 7, Y: 6}, To: position.Pos{X: 7, Y: 7}, Promote: PieceKnight},
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrInvalidMove,
		},
		{
			name:    "too short",
			input:   "e2e",
			wantErr: ErrInvalidMove,
		},
		{
			name:    "too long",
			input:   "e2e4qq",
			wantErr: ErrInvalidMove,
		},
		{
			name:    "bad square",
			input:   "e9e4",
			wantErr: ErrInvalidMove,
		},
		{
			name:    "bad promotion",
			input:   "a7a8k",
			wantErr: ErrInvalidPromotion,
		},
		{
			name:    "uppercase promotion",
			input:   "a7a8Q",
			wantErr: ErrInvalidPromotion,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMove(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("unexpected error: got=%v want=%v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal("unexpected error:", err)
			}
			if got != tt.want {
				t.Errorf("unexpected move: got=%+v want=%+v", got, tt.want)
			}
			if got.UCI() != tt.input {
				t.Errorf("unexpected UCI: got=%s want=%s", got.UCI(), tt.input)
			}
		})
	}
}

func TestMove_Promotion(t *testing.T) {
	t.Parallel()
	if got := (Move{}).Promotion(); got != PieceQueen {
		t.Errorf("unexpected default promotion: got=%s want=%s", got, PieceQueen)
	}
	if got := (Move{Promote: PieceKing}).Promotion(); got != PieceQueen {
		t.Errorf("unexpected promotion for king: got=%s want=%s", got, PieceQueen)
	}
	if got := (Move{Promote: PieceBishop}).Promotion(); got != PieceBishop {
		t.Errorf("unexpected promotion: got=%s want=%s", got, PieceBishop)
	}
}
