package vt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtgrid/vt"
)

func diffSession(t *testing.T, cols, rows int) *vt.Session {
	t.Helper()
	return vt.NewSession(cols, rows, vt.DefaultConfig())
}

// cellsEqual compares two snapshots cell by cell.
func cellsEqual(t *testing.T, want, got *vt.Snapshot) {
	t.Helper()
	require.Equal(t, want.Rows, got.Rows)
	require.Equal(t, want.Cols, got.Cols)
	for y := 0; y < want.Rows; y++ {
		for x := 0; x < want.Cols; x++ {
			assert.True(t, want.Lines[y].Cells[x].Equal(got.Lines[y].Cells[x]),
				"cell (%d,%d): want %+v got %+v", y, x, want.Lines[y].Cells[x], got.Lines[y].Cells[x])
		}
	}
}

func TestDiffNoChange(t *testing.T) {
	s := diffSession(t, 10, 4)
	s.Feed([]byte("hello"))
	a := s.Snapshot()
	b := s.Snapshot()
	assert.Empty(t, s.Diff(a, b))
}

func TestDiffSingleStyledRun(t *testing.T) {
	s := diffSession(t, 10, 4)
	old := s.Snapshot()
	s.Feed([]byte("\x1b[31mHello"))
	ops := s.Diff(old, s.Snapshot())

	require.Len(t, ops, 2)
	assert.Equal(t, vt.OpMoveCursor, ops[0].Kind)
	assert.Equal(t, 0, ops[0].Row)
	assert.Equal(t, 0, ops[0].Col)
	assert.Equal(t, vt.OpWriteRun, ops[1].Kind)
	assert.Equal(t, "Hello", ops[1].Text)
	assert.Equal(t, vt.NamedColor(1), ops[1].Style.Fg)
}

func TestDiffSplitsRunsOnStyleChange(t *testing.T) {
	s := diffSession(t, 10, 4)
	old := s.Snapshot()
	s.Feed([]byte("\x1b[31mAB\x1b[32mCD"))
	ops := s.Diff(old, s.Snapshot())

	require.Len(t, ops, 3)
	assert.Equal(t, "AB", ops[1].Text)
	assert.Equal(t, vt.NamedColor(1), ops[1].Style.Fg)
	assert.Equal(t, "CD", ops[2].Text)
	assert.Equal(t, vt.NamedColor(2), ops[2].Style.Fg)
}

func TestDiffMergeGap(t *testing.T) {
	s := diffSession(t, 20, 4)
	old := s.Snapshot()
	s.Feed([]byte("A\x1b[4GB")) // changes at columns 0 and 3, gap of 2
	next := s.Snapshot()

	// Default gap of 2 folds both changes into one run.
	ops := vt.DiffSnapshots(old, next, vt.DiffConfig{RepaintFraction: 0.6, MergeGap: 2})
	require.Len(t, ops, 2)
	assert.Equal(t, "A  B", ops[1].Text)

	// With no merging the same change is two separate spans.
	ops = vt.DiffSnapshots(old, next, vt.DiffConfig{RepaintFraction: 0.6, MergeGap: 0})
	require.Len(t, ops, 4)
	assert.Equal(t, "A", ops[1].Text)
	assert.Equal(t, "B", ops[3].Text)
	assert.Equal(t, 3, ops[2].Col)
}

func TestDiffMergeOffAfterWideCluster(t *testing.T) {
	s := diffSession(t, 10, 4)
	s.Feed([]byte("\x1b[31m世X"))
	old := s.Snapshot()

	s.Feed([]byte("\x1b[H\x1b[31m界Y"))
	next := s.Snapshot()

	// The cell right after the widened span boundary must still be
	// examined when merging is off.
	ops := vt.DiffSnapshots(old, next, vt.DiffConfig{RepaintFraction: 0.6, MergeGap: 0})
	got := vt.Apply(old, ops)
	cellsEqual(t, next, got)
	assert.Equal(t, "Y", got.Lines[0].Cells[2].Grapheme)
}

func TestDiffRepaintFallback(t *testing.T) {
	s := diffSession(t, 10, 4)
	old := s.Snapshot()
	s.Feed([]byte("A\r\nB\r\nC")) // 3 of 4 rows changed, past the threshold
	next := s.Snapshot()

	ops := s.Diff(old, next)
	require.NotEmpty(t, ops)
	assert.Equal(t, vt.OpRepaint, ops[0].Kind)
	assert.Equal(t, 4, ops[0].Row)
	assert.Equal(t, 10, ops[0].Col)

	cellsEqual(t, next, vt.Apply(old, ops))
}

func TestDiffGeometryChangeRepaints(t *testing.T) {
	s := diffSession(t, 10, 4)
	s.Feed([]byte("hello"))
	old := s.Snapshot()

	s.Resize(8, 3)
	next := s.Snapshot()

	ops := s.Diff(old, next)
	require.NotEmpty(t, ops)
	assert.Equal(t, vt.OpRepaint, ops[0].Kind)
	assert.Equal(t, 3, ops[0].Row)
	assert.Equal(t, 8, ops[0].Col)

	cellsEqual(t, next, vt.Apply(old, ops))
}

func TestDiffNilBaseRepaints(t *testing.T) {
	s := diffSession(t, 10, 4)
	s.Feed([]byte("hi"))
	next := s.Snapshot()

	ops := s.Diff(nil, next)
	require.NotEmpty(t, ops)
	assert.Equal(t, vt.OpRepaint, ops[0].Kind)
}

func TestDiffWideClusterSpansWhole(t *testing.T) {
	s := diffSession(t, 10, 4)
	s.Feed([]byte("世"))
	old := s.Snapshot()

	s.Feed([]byte("\x1b[1;2Hx")) // splits the wide cluster
	next := s.Snapshot()

	ops := s.Diff(old, next)
	cellsEqual(t, next, vt.Apply(old, ops))
}

func TestApplyTextOnlyRun(t *testing.T) {
	s := diffSession(t, 10, 2)
	base := s.Snapshot()

	// Consumers may build ops by hand with just text; those are segmented
	// into clusters on apply.
	ops := []vt.Op{
		{Kind: vt.OpMoveCursor, Row: 0, Col: 0},
		{Kind: vt.OpWriteRun, Text: "日x"},
	}
	got := vt.Apply(base, ops)
	assert.Equal(t, "日", got.Lines[0].Cells[0].Grapheme)
	assert.True(t, got.Lines[0].Cells[1].IsPlaceholder())
	assert.Equal(t, "x", got.Lines[0].Cells[2].Grapheme)
}

func TestApplyRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"styled text", "\x1b[1;33mwarn:\x1b[0m disk full"},
		{"wide characters", "日本語 text"},
		{"mixed rows", "one\r\ntwo\x1b[1;5H!"},
		{"background erase", "\x1b[44m\x1b[2Jx"},
		{"overwrite", "aaaa\rbb"},
		{"combining", "éé"},
		{"variation selector", "☀️Z"},
		{"joined emoji", "\U0001f468‍\U0001f469"},
		{"indexed colors", "\x1b[38;5;123mX\x1b[48;2;1;2;3mY"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := diffSession(t, 10, 4)
			s.Feed([]byte("seed\r\n\x1b[7mrow")) // non-blank base state
			old := s.Snapshot()

			s.Feed([]byte("\x1b[H\x1b[0m"))
			s.Feed([]byte(tc.input))
			next := s.Snapshot()

			got := vt.Apply(old, s.Diff(old, next))
			cellsEqual(t, next, got)
		})
	}
}

func TestApplyRoundTripAfterScroll(t *testing.T) {
	s := diffSession(t, 10, 3)
	s.Feed([]byte("a\r\nb\r\nc"))
	old := s.Snapshot()

	s.Feed([]byte("\r\nd\r\ne"))
	next := s.Snapshot()

	got := vt.Apply(old, s.Diff(old, next))
	cellsEqual(t, next, got)
}
