package vt_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtgrid/vt"
)

func TestSessionIDs(t *testing.T) {
	a := vt.NewSession(10, 4, vt.Config{})
	b := vt.NewSession(10, 4, vt.Config{})
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())

	c := vt.NewSession(10, 4, vt.Config{}, vt.WithID("fixed"))
	assert.Equal(t, "fixed", c.ID())
}

func TestSessionZeroConfigUsable(t *testing.T) {
	s := vt.NewSession(20, 4, vt.Config{})
	s.Feed([]byte("hello\x1b[31m world"))
	assert.Equal(t, "hello world", s.Snapshot().Lines[0].Text())
}

func TestSessionSnapshotDecoupled(t *testing.T) {
	s := vt.NewSession(10, 4, vt.Config{})
	s.Feed([]byte("one"))
	snap := s.Snapshot()

	s.Feed([]byte("\rtwo"))
	assert.Equal(t, "one", snap.Lines[0].Text())
	assert.Equal(t, "two", s.Snapshot().Lines[0].Text())
}

func TestSessionResize(t *testing.T) {
	s := vt.NewSession(10, 4, vt.Config{})
	s.Resize(6, 2)
	snap := s.Snapshot()
	assert.Equal(t, 6, snap.Cols)
	assert.Equal(t, 2, snap.Rows)
}

func TestSessionTitleCallback(t *testing.T) {
	var got string
	s := vt.NewSession(10, 4, vt.Config{}, vt.WithTitle(func(title string) { got = title }))
	s.Feed([]byte("\x1b]2;build ok\x07"))

	assert.Equal(t, "build ok", got)
	assert.Equal(t, "build ok", s.Title())
	assert.Equal(t, "build ok", s.Snapshot().Title)
}

func TestSessionBellCallback(t *testing.T) {
	rings := 0
	s := vt.NewSession(10, 4, vt.Config{}, vt.WithBell(func() { rings++ }))
	s.Feed([]byte("a\x07b\x07"))
	assert.Equal(t, 2, rings)
}

func TestSessionDiagnosticHook(t *testing.T) {
	var msgs []string
	s := vt.NewSession(10, 4, vt.Config{}, vt.WithDiagnostic(func(m string) { msgs = append(msgs, m) }))
	s.Feed([]byte("\x1b]777;whatever\x07"))

	require.NotEmpty(t, msgs)
	assert.True(t, strings.Contains(msgs[0], "777"))
}

func TestSessionHistoryLines(t *testing.T) {
	cfg := vt.Config{}
	cfg.Scrollback.MaxLines = 2
	s := vt.NewSession(5, 2, cfg)
	s.Feed([]byte("a\r\nb\r\nc\r\nd\r\ne"))

	hist := s.HistoryLines()
	require.Len(t, hist, 2)
	assert.Equal(t, "b", hist[0].Text())
	assert.Equal(t, "c", hist[1].Text())
}

func TestSessionDamage(t *testing.T) {
	s := vt.NewSession(10, 4, vt.Config{})
	s.Feed([]byte("x"))

	d := s.Damage()
	assert.False(t, d.Repaint)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, 0, d.Spans[0].Row)

	assert.Empty(t, s.Damage().Spans, "damage is consumed by the read")
}

func TestSessionConcurrentSnapshots(t *testing.T) {
	s := vt.NewSession(20, 6, vt.Config{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.Feed([]byte("line of output\r\n"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			snap := s.Snapshot()
			_ = s.Diff(nil, snap)
		}
	}()
	wg.Wait()
}
