package source

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinesDeliversEveryLine(t *testing.T) {
	var got []string
	src := &Lines{R: strings.NewReader("top apply\n\nbanana\nspin apply")}

	err := src.Run(context.Background(), func(p string) error {
		got = append(got, p)
		return errors.New("ignored")
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"top apply", "", "banana", "spin apply"}, got)
}

func TestWatchReloadsOnSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.fx")
	require.NoError(t, os.WriteFile(path, []byte("top apply"), 0o644))

	var (
		mu  sync.Mutex
		got []string
	)
	snapshot := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), got...)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- (&Watch{Path: path}).Run(ctx, func(p string) error {
			mu.Lock()
			got = append(got, p)
			mu.Unlock()
			return nil
		})
	}()

	require.Eventually(t, func() bool { return len(snapshot()) == 1 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("spin apply"), 0o644))
	require.Eventually(t, func() bool {
		s := snapshot()
		return len(s) > 0 && s[len(s)-1] == "spin apply"
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	s := snapshot()
	assert.Equal(t, "top apply", s[0])
	for i := 1; i < len(s); i++ {
		assert.NotEqual(t, s[i-1], s[i], "unchanged saves are not re-delivered")
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term, err := NewTerminal(screen)
	require.NoError(t, err)
	screen.SetSize(40, 10)
	return term, screen
}

func postKeys(t *testing.T, screen tcell.Screen, keys ...*tcell.EventKey) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, screen.PostEvent(k))
	}
}

func runeKey(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestTerminalDeliversFullTextPerEdit(t *testing.T) {
	term, screen := newSimTerminal(t)
	postKeys(t, screen,
		runeKey('t'), runeKey('o'), runeKey('p'),
		tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
		runeKey('x'),
		tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	)

	var got []string
	err := term.Run(context.Background(), func(p string) error {
		got = append(got, p)
		if p == "top x" {
			return errors.New("failed to compile program: top")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"t", "to", "top", "top ", "top x", "top "}, got)
	assert.Empty(t, term.lastErr, "error cleared by the next good edit")
}

func TestTerminalKeepsLastError(t *testing.T) {
	term, screen := newSimTerminal(t)
	term.SetProgram("banana")
	postKeys(t, screen, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))

	calls := 0
	require.NoError(t, term.Run(context.Background(), func(p string) error {
		calls++
		return errors.New("failed to compile program: banana")
	}))

	assert.Equal(t, 1, calls, "seeded program runs once at start")
	assert.Equal(t, "failed to compile program: banana", term.lastErr)
}

func TestTerminalStatusWriter(t *testing.T) {
	term, _ := newSimTerminal(t)

	p := []byte("first\nsecond line\n")
	n, err := term.Write(p)

	require.NoError(t, err)
	assert.Equal(t, len(p), n)
	assert.Equal(t, "second line", term.status)
}

func TestTerminalPreview(t *testing.T) {
	term, screen := newSimTerminal(t)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})
	img.SetRGBA(1, 1, color.RGBA{B: 255, A: 255})
	term.Preview = func() image.Image { return img }

	term.draw()
	_, _, top, _ := screen.GetContent(0, 0)
	_, _, bottom, _ := screen.GetContent(0, 7)

	fg, _, _ := top.Decompose()
	_, bg, _ := bottom.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 255), bg)
}
