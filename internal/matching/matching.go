// Package matching implements the matching-pairs exercise.
package matching

import (
	"sort"
	"strconv"
)

// Pair links an image on the left to its comparison on the right.
type Pair struct {
	ID    string
	Left  string
	Right string
}

// DefaultPairs are the comparison pairs of the exercise.
var DefaultPairs = []Pair{
	{ID: "1", Left: "Tàu cau", Right: "Tay xoè rộng"},
	{ID: "2", Left: "Trăng tròn", Right: "Cái đĩa"},
	{ID: "3", Left: "Sương trắng", Right: "Chiếc khăn bông"},
	{ID: "4", Left: "Lá mềm", Right: "Mây"},
}

// Result is the outcome of selecting a right-hand item.
type Result int

const (
	Ignored Result = iota
	Match
	Mismatch
)

// Board tracks selections and matches.
type Board struct {
	pairs    []Pair
	selected string
	matched  map[string]bool
	mismatch string
}

// New returns a Board over pairs.
func New(pairs []Pair) *Board {
	return &Board{pairs: pairs, matched: map[string]bool{}}
}

// Pairs returns the pairs in left-column order.
func (b *Board) Pairs() []Pair {
	return b.pairs
}

// RightOrder returns the pairs in right-column order, reverse id.
func (b *Board) RightOrder() []Pair {
	out := append([]Pair(nil), b.pairs...)
	sort.SliceStable(out, func(i, j int) bool {
		return idNum(out[i].ID) > idNum(out[j].ID)
	})
	return out
}

// SelectLeft selects a left item. Matched items are ignored.
func (b *Board) SelectLeft(id string) bool {
	if b.matched[id] || !b.has(id) {
		return false
	}
	b.selected = id
	b.mismatch = ""
	return true
}

// SelectRight tries to match the selected left item with right item id.
func (b *Board) SelectRight(id string) Result {
	if b.matched[id] || b.selected == "" || !b.has(id) {
		return Ignored
	}
	if b.selected == id {
		b.matched[id] = true
		b.selected = ""
		b.mismatch = ""
		return Match
	}
	b.mismatch = id
	return Mismatch
}

// Selected returns the selected left id.
func (b *Board) Selected() string {
	return b.selected
}

// Matched reports whether pair id is matched.
func (b *Board) Matched(id string) bool {
	return b.matched[id]
}

// Mismatch returns the right id flagged by the last wrong attempt.
func (b *Board) Mismatch() string {
	return b.mismatch
}

// ClearMismatch clears the flag if it still refers to id.
func (b *Board) ClearMismatch(id string) {
	if b.mismatch == id {
		b.mismatch = ""
	}
}

// Complete reports whether every pair is matched.
func (b *Board) Complete() bool {
	return len(b.matched) == len(b.pairs)
}

// Reset clears all matches and selections.
func (b *Board) Reset() {
	b.matched = map[string]bool{}
	b.selected = ""
	b.mismatch = ""
}

func (b *Board) has(id string) bool {
	for _, p := range b.pairs {
		if p.ID == id {
			return true
		}
	}
	return false
}

func idNum(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0
	}
	return n
}
