// Package book implements a small opening book: a precomputed map from
// symmetric position key to score, used to skip the expensive part of
// the search tree near the root.
package book

import (
	"bufio"
	"fmt"
	"github.com/seekerror/c4solver/pkg/board"
	"os"
	"sort"
	"strconv"
	"strings"
)

// entry is one book record: the symmetric key of a position and its
// exactly-solved score.
type entry struct {
	pos   uint64
	score int
}

// Book is an immutable-by-convention, sorted-by-key lookup table from
// Key3 to score. Only one entry is stored per position.
type Book struct {
	entries []entry
}

// New returns an empty book.
func New() *Book {
	return &Book{}
}

// FromEntries builds a Book from an unsorted, possibly duplicate-keyed
// batch: entries are sorted by key and deduplicated, keeping whichever
// duplicate happened to win the unstable sort -- callers generating a
// book should not rely on which one that is.
func FromEntries(pos []uint64, score []int) *Book {
	es := make([]entry, len(pos))
	for i := range pos {
		es[i] = entry{pos: pos[i], score: score[i]}
	}
	sort.Slice(es, func(i, j int) bool { return es[i].pos < es[j].pos })

	deduped := es[:0]
	for i, e := range es {
		if i == 0 || e.pos != deduped[len(deduped)-1].pos {
			deduped = append(deduped, e)
		}
	}
	return &Book{entries: deduped}
}

// NumEntries returns the number of distinct positions stored.
func (b *Book) NumEntries() int {
	return len(b.entries)
}

func (b *Book) search(key uint64) int {
	return sort.Search(len(b.entries), func(i int) bool { return b.entries[i].pos >= key })
}

// GetByKey returns the score stored for a symmetric key, if any. key
// must already be the position's Key3.
func (b *Book) GetByKey(key uint64) (int, bool) {
	i := b.search(key)
	if i < len(b.entries) && b.entries[i].pos == key {
		return b.entries[i].score, true
	}
	return 0, false
}

// Get returns the score stored for pos, if any.
func (b *Book) Get(pos board.Position) (int, bool) {
	return b.GetByKey(pos.Key3())
}

// PutByKey inserts or overwrites the score stored for a symmetric key.
// key must already be the position's Key3.
func (b *Book) PutByKey(key uint64, score int) {
	i := b.search(key)
	if i < len(b.entries) && b.entries[i].pos == key {
		b.entries[i].score = score
		return
	}
	b.entries = append(b.entries, entry{})
	copy(b.entries[i+1:], b.entries[i:])
	b.entries[i] = entry{pos: key, score: score}
}

// Put inserts or overwrites the score stored for pos.
func (b *Book) Put(pos board.Position, score int) {
	b.PutByKey(pos.Key3(), score)
}

// BookMoves iterates, in ascending column order, the playable moves
// from a position that are themselves present in the book.
type BookMoves struct {
	book    *Book
	pos     board.Position
	nextCol board.Column
}

// MovesFromPosition returns an iterator over pos's playable moves that
// land on a position this book has an entry for.
func (b *Book) MovesFromPosition(pos board.Position) *BookMoves {
	return &BookMoves{book: b, pos: pos}
}

// Next returns the next book move and true, or (0, false) once every
// column has been considered.
func (m *BookMoves) Next() (board.Column, bool) {
	for col := m.nextCol; col < board.Width; col++ {
		if !m.pos.CanPlay(col) {
			continue
		}
		next := m.pos
		next.PlayCol(col)
		if _, ok := m.book.Get(next); ok {
			m.nextCol = col + 1
			return col, true
		}
	}
	m.nextCol = board.Width
	return 0, false
}

// ErrWrongFieldCount, ErrBadPosition, and ErrBadScore classify why a
// book line failed to parse.
var (
	ErrWrongFieldCount = fmt.Errorf("expected 2 space-separated fields in book entry")
	ErrBadPosition     = fmt.Errorf("could not parse first field as a position key")
	ErrBadScore        = fmt.Errorf("could not parse second field as a score")
)

func parseEntry(line string) (entry, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return entry{}, ErrWrongFieldCount
	}
	pos, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return entry{}, ErrBadPosition
	}
	score, err := strconv.Atoi(fields[1])
	if err != nil {
		return entry{}, ErrBadScore
	}
	return entry{pos: pos, score: score}, nil
}

// Load reads a book from a "<pos> <score>" newline-delimited file.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var es []entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		e, err := parseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		es = append(es, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	pos := make([]uint64, len(es))
	score := make([]int, len(es))
	for i, e := range es {
		pos[i] = e.pos
		score[i] = e.score
	}
	return FromEntries(pos, score), nil
}

// Store writes the book to path in the "<pos> <score>" format Load
// reads, overwriting any existing content.
func (b *Book) Store(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range b.entries {
		if _, err := fmt.Fprintf(w, "%d %d\n", e.pos, e.score); err != nil {
			return err
		}
	}
	return w.Flush()
}
