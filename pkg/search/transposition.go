package search

import (
	"context"
	"fmt"
	"github.com/seekerror/c4solver/pkg/board"
	"github.com/seekerror/logw"
	"sync/atomic"
)

// defaultLogSize is the base-2 log of the default table capacity: the
// next prime at or above 2^24 entries.
const defaultLogSize = 24

// nextPrime returns the smallest prime >= n. n must be >= 2.
func nextPrime(n uint64) uint64 {
	for !isPrime(n) {
		n++
	}
	return n
}

func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	for i := uint64(2); i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// Entry is the logical record a TranspositionTable slot holds: an
// encoded score bound and the column it was derived from.
type Entry struct {
	Score  uint8
	Column board.Column
}

// TranspositionTable is a fixed-capacity, lock-free, lossy map from
// position key to Entry. Multiple goroutines may Get and Put
// concurrently without further synchronization: a write torn by a
// concurrent write on the same slot is detected by the xor link and
// simply looks like a miss to the reader. Collisions are always
// replaced: there is no chaining and no per-slot locking.
// The packed (score, column) value is 16 bits wide but lives in a u32
// cell: 32 bits is the smallest word sync/atomic operates on.
type TranspositionTable struct {
	size  uint64
	keys  []atomic.Uint32
	vals  []atomic.Uint32
	empty uint32 // sentinel partial key marking an empty slot; Get never reports it as a hit
}

// NewTranspositionTable allocates a table with the default capacity
// (next_prime(2^24) entries).
func NewTranspositionTable(ctx context.Context) *TranspositionTable {
	return NewTranspositionTableOfLogSize(ctx, defaultLogSize)
}

// NewTranspositionTableOfLogSize allocates a table with next_prime(2^logSize)
// entries.
func NewTranspositionTableOfLogSize(ctx context.Context, logSize int) *TranspositionTable {
	size := nextPrime(1 << uint(logSize))
	logw.Infof(ctx, "Allocating transposition table with %v entries", size)

	t := &TranspositionTable{
		size:  size,
		keys:  make([]atomic.Uint32, size),
		vals:  make([]atomic.Uint32, size),
		empty: uint32(size + 1),
	}
	t.Reset()
	return t
}

// Reset clears every entry.
func (t *TranspositionTable) Reset() {
	for i := range t.keys {
		t.keys[i].Store(t.empty)
		t.vals[i].Store(0)
	}
}

// Size returns the table's entry capacity.
func (t *TranspositionTable) Size() uint64 {
	return t.size
}

func (t *TranspositionTable) index(key uint64) uint64 {
	return key % t.size
}

func packValue(e Entry) uint16 {
	return uint16(e.Score)<<8 | uint16(e.Column)
}

func unpackValue(v uint16) Entry {
	return Entry{Score: uint8(v >> 8), Column: board.Column(v & 0xff)}
}

// Get returns the entry stored for key, if the xor-linked partial key
// recomputed from the current key and value matches what is stored --
// i.e. no other thread tore the write in between. Relaxed ordering is
// sufficient: a stale or torn read simply becomes a cache miss.
func (t *TranspositionTable) Get(key uint64) (Entry, bool) {
	idx := t.index(key)
	storedKey := t.keys[idx].Load()
	value := t.vals[idx].Load()

	if storedKey != t.empty && storedKey == uint32(key)^value {
		return unpackValue(uint16(value)), true
	}
	return Entry{}, false
}

// Put unconditionally overwrites the slot for key with (score, column).
// This is the reference write path used by the search.
func (t *TranspositionTable) Put(key uint64, score uint8, column board.Column) {
	idx := t.index(key)
	value := uint32(packValue(Entry{Score: score, Column: column}))

	t.keys[idx].Store(uint32(key) ^ value)
	t.vals[idx].Store(value)
}

// PutChecked stores (score, column) for key unless the entry already
// stored there wins the comparison below; isUpperBound tells whether the
// new score is an upper bound. The comparison is on the encoded scores
// and is asymmetric: over an existing lower bound, a new lower bound is
// rejected when the existing one is at least as high, and a new upper
// bound always lands; over an existing upper bound, any new score is
// rejected when the existing one is numerically <= it, so a tighter
// upper bound lands and a new lower bound (whose encoding is always
// larger than any upper bound's) never does.
func (t *TranspositionTable) PutChecked(key uint64, score uint8, column board.Column, isUpperBound bool) {
	if e, ok := t.Get(key); ok {
		val := int(e.Score)
		if val > board.MaxScore-board.MinScore+1 {
			if !isUpperBound && val >= int(score) {
				return
			}
		} else if val <= int(score) {
			return
		}
	}
	t.Put(key, score, column)
}

func (t *TranspositionTable) String() string {
	return fmt.Sprintf("TT[size=%v]", t.size)
}

// EncodeLowerBound packs a true score known to be a lower bound (from a
// beta cutoff) into the table's u8 score cell.
func EncodeLowerBound(score int) uint8 {
	return uint8(score + board.MaxScore - 2*board.MinScore + 2)
}

// DecodeLowerBound reverses EncodeLowerBound.
func DecodeLowerBound(stored int) int {
	return stored + 2*board.MinScore - board.MaxScore - 2
}

// EncodeUpperBound packs a true score known to be an upper bound (the
// best score found after exhausting every move) into the table's u8
// score cell.
func EncodeUpperBound(score int) uint8 {
	return uint8(score - board.MinScore + 1)
}

// DecodeUpperBound reverses EncodeUpperBound.
func DecodeUpperBound(stored int) int {
	return stored + board.MinScore - 1
}

// isLowerBound reports whether a raw stored score cell encodes a lower
// bound (as opposed to an upper bound).
func isLowerBound(stored uint8) bool {
	return int(stored) > board.MaxScore-board.MinScore+1
}
