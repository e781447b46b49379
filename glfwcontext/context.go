package glfwcontext

import (
	"log"
	"runtime"
	"strings"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshaderfx/graphics"
	options "github.com/richinsley/goshaderfx/options"
)

const windowTitle = "goshaderfx"

// Context is a GLFW window. Typing into the window edits the program text;
// every edit is handed to the program callback from inside EndFrame, on the
// thread that owns the GL context.
type Context struct {
	window    *glfw.Window
	program   []rune
	onProgram func(program string)
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

var _ graphics.Context = (*Context)(nil)

// New creates and initializes a new GLFW window and returns a Context object.
func New(options *options.SandboxOptions) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(*options.Width, *options.Height, windowTitle, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		program:      []rune(*options.Program),
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCharCallback(c.glfwCharCallback)
	c.updateTitle()

	return c, nil
}

// OnProgramChange registers the function that receives the full program text
// after every edit.
func (c *Context) OnProgramChange(f func(program string)) {
	c.onProgram = f
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// Program returns the current program text.
func (c *Context) Program() string {
	return string(c.program)
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
		return
	}

	if action != glfw.Press && action != glfw.Repeat {
		return
	}

	switch key {
	case glfw.KeyBackspace:
		if len(c.program) > 0 {
			c.program = c.program[:len(c.program)-1]
			c.edited()
		}
		return
	case glfw.KeyEnter, glfw.KeyKPEnter:
		c.program = append(c.program, '\n')
		c.edited()
		return
	}

	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

func (c *Context) glfwCharCallback(w *glfw.Window, char rune) {
	c.program = append(c.program, char)
	c.edited()
}

func (c *Context) edited() {
	c.updateTitle()
	if c.onProgram != nil {
		c.onProgram(string(c.program))
	}
}

func (c *Context) updateTitle() {
	title := strings.Join(strings.Fields(string(c.program)), " ")
	if title == "" {
		c.window.SetTitle(windowTitle)
		return
	}
	c.window.SetTitle(windowTitle + ": " + title)
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
	glfw.SwapInterval(1)
}

// Shutdown only destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// EndFrame presents the back buffer and dispatches pending input, which is
// where program edits are delivered.
func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
