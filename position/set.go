package position

import (
	"math/bits"
	"strings"
)

// Set is a bitmap of squares keyed by Pos.Index.
type Set uint64

func NewSet(ps ...Pos) Set {
	var s Set
	for _, p := range ps {
		s = s.Add(p)
	}
	return s
}

func (s Set) Add(p Pos) Set {
	if !p.InBounds() {
		return s
	}
	return s | 1<<uint(p.Index())
}

func (s Set) Remove(p Pos) Set {
	if !p.InBounds() {
		return s
	}
	return s &^ (1 << uint(p.Index()))
}

func (s Set) Has(p Pos) bool {
	return p.InBounds() && s&(1<<uint(p.Index())) != 0
}

func (s Set) Union(o Set) Set {
	return s | o
}

func (s Set) Len() int {
	return bits.OnesCount64(uint64(s))
}

func (s Set) IsEmpty() bool {
	return s == 0
}

// Slice lists the squares in index order.
func (s Set) Slice() []Pos {
	ps := make([]Pos, 0, s.Len())
	for bm := uint64(s); bm != 0; bm &= bm - 1 {
		ps = append(ps, NewPosFromIndex(bits.TrailingZeros64(bm)))
	}
	return ps
}

func (s Set) String() string {
	ps := s.Slice()
	ns := make([]string, len(ps))
	for i, p := range ps {
		ns[i] = p.Notation()
	}
	return "{" + strings.Join(ns, " ") + "}"
}
