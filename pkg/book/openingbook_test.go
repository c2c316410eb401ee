package book_test

import (
	"github.com/seekerror/c4solver/pkg/board"
	"github.com/seekerror/c4solver/pkg/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestPutAndGet(t *testing.T) {
	b := book.New()
	pos := board.New()

	_, ok := b.Get(pos)
	assert.False(t, ok)

	for j := 0; j < 20; j++ {
		require.NoError(t, pos.PlaySequence([]int{j*5%board.Width + 1}))
		for col := 0; col < board.Width; col++ {
			b.Put(pos, col)
		}
		score, ok := b.Get(pos)
		require.True(t, ok)
		assert.Equal(t, board.Width-1, score)
	}
}

func TestFromEntriesSortsAndDedupes(t *testing.T) {
	b := book.FromEntries([]uint64{30, 10, 20, 10}, []int{3, 1, 2, 99})
	assert.Equal(t, 3, b.NumEntries())

	score, ok := b.GetByKey(20)
	require.True(t, ok)
	assert.Equal(t, 2, score)
}

func TestMovesFromPositionAscendingColumnOrder(t *testing.T) {
	b := book.New()
	root := board.New()

	it := b.MovesFromPosition(root)
	_, ok := it.Next()
	assert.False(t, ok, "empty book has no moves")

	for _, col := range []board.Column{0, 2} {
		next := root
		next.PlayCol(col)
		b.Put(next, 0)
	}

	// The key is symmetric, so the mirrored columns are book moves too.
	var got []board.Column
	it = b.MovesFromPosition(root)
	for {
		col, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, col)
	}
	assert.Equal(t, []board.Column{0, 2, 4, 6}, got)
}

func TestLoadStoreRoundTrip(t *testing.T) {
	b := book.FromEntries([]uint64{1, 2, 100}, []int{5, -3, 0})

	path := filepath.Join(t.TempDir(), "book.txt")
	require.NoError(t, b.Store(path))

	loaded, err := book.Load(path)
	require.NoError(t, err)
	require.Equal(t, b.NumEntries(), loaded.NumEntries())

	for _, key := range []uint64{1, 2, 100} {
		want, ok := b.GetByKey(key)
		require.True(t, ok)
		got, ok := loaded.GetByKey(key)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestLoadRejectsMalformedLines(t *testing.T) {
	dir := t.TempDir()

	badFields := filepath.Join(dir, "bad-fields.txt")
	writeFile(t, badFields, "1 2 3\n")
	_, err := book.Load(badFields)
	assert.ErrorIs(t, err, book.ErrWrongFieldCount)

	badPos := filepath.Join(dir, "bad-pos.txt")
	writeFile(t, badPos, "notanumber 3\n")
	_, err = book.Load(badPos)
	assert.ErrorIs(t, err, book.ErrBadPosition)

	badScore := filepath.Join(dir, "bad-score.txt")
	writeFile(t, badScore, "5 notanumber\n")
	_, err = book.Load(badScore)
	assert.ErrorIs(t, err, book.ErrBadScore)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
