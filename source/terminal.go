package source

import (
	"context"
	"image"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

const prompt = "fx> "

var (
	promptStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	errorStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Terminal is a one-box program editor in the terminal. Above the editor it
// can draw a preview image with half-block characters, two pixels per cell.
//
// Terminal also implements io.Writer so the standard logger can be pointed at
// it; the last line written shows in the status row.
type Terminal struct {
	screen  tcell.Screen
	program []rune
	lastErr string

	// Preview, when set, is called on the Run goroutine after every edit.
	Preview func() image.Image

	mu     sync.Mutex
	status string
}

// NewTerminal takes over screen. A nil screen opens the controlling terminal.
func NewTerminal(screen tcell.Screen) (*Terminal, error) {
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// SetProgram seeds the editor before Run.
func (t *Terminal) SetProgram(program string) {
	t.program = []rune(program)
}

// Write sets the status row. It is safe to call from any goroutine.
func (t *Terminal) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	if i := strings.LastIndexByte(line, '\n'); i >= 0 {
		line = line[i+1:]
	}
	t.mu.Lock()
	t.status = line
	t.mu.Unlock()
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	return len(p), nil
}

// Run edits the program until Escape or Ctrl+C, or until ctx is done. The
// screen is released when Run returns.
func (t *Terminal) Run(ctx context.Context, h Handler) error {
	defer t.screen.Fini()

	stop := context.AfterFunc(ctx, func() {
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(ctx))
	})
	defer stop()

	if len(t.program) > 0 {
		t.eval(h)
	}
	t.draw()

	for {
		ev := t.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if !t.handleKey(ev, h) {
				return nil
			}
		}
		t.draw()
	}
}

// handleKey applies one key press and reports whether editing continues.
func (t *Terminal) handleKey(ev *tcell.EventKey, h Handler) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(t.program) == 0 {
			return true
		}
		t.program = t.program[:len(t.program)-1]
	case tcell.KeyCtrlU:
		if len(t.program) == 0 {
			return true
		}
		t.program = t.program[:0]
	case tcell.KeyEnter, tcell.KeyTab:
		t.program = append(t.program, ' ')
	case tcell.KeyRune:
		t.program = append(t.program, ev.Rune())
	default:
		return true
	}
	t.eval(h)
	return true
}

func (t *Terminal) eval(h Handler) {
	t.lastErr = ""
	if err := h(string(t.program)); err != nil {
		t.lastErr = err.Error()
	}
}

func (t *Terminal) draw() {
	t.screen.Clear()
	width, height := t.screen.Size()

	if t.Preview != nil && height > 2 {
		drawImage(t.screen, t.Preview(), width, height-2)
	}

	y := height - 2
	x := drawText(t.screen, 0, y, prompt, promptStyle)
	x = drawText(t.screen, x, y, string(t.program), textStyle)
	t.screen.ShowCursor(x, y)

	t.mu.Lock()
	status := t.status
	t.mu.Unlock()
	if t.lastErr != "" {
		drawText(t.screen, 0, height-1, t.lastErr, errorStyle)
	} else {
		drawText(t.screen, 0, height-1, status, statusStyle)
	}

	t.screen.Show()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// drawImage scales img into a cols x rows cell area. Each cell shows two
// vertically stacked pixels: the upper half block takes the top pixel as its
// foreground and the bottom pixel as its background.
func drawImage(s tcell.Screen, img image.Image, cols, rows int) {
	if img == nil || cols <= 0 || rows <= 0 {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}

	// keep square pixels: one cell is one pixel wide and two tall
	scale := max(float64(b.Dx())/float64(cols), float64(b.Dy())/float64(rows*2))
	w := min(cols, int(float64(b.Dx())/scale))
	h := min(rows, int(float64(b.Dy())/scale/2))

	at := func(px, py int) tcell.Color {
		x := b.Min.X + min(int(float64(px)*scale), b.Dx()-1)
		y := b.Min.Y + min(int(float64(py)*scale), b.Dy()-1)
		r, g, bl, _ := img.At(x, y).RGBA()
		return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(bl>>8))
	}

	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			style := tcell.StyleDefault.Foreground(at(cx, cy*2)).Background(at(cx, cy*2+1))
			s.SetContent(cx, cy, '▀', nil, style)
		}
	}
}
