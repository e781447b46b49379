package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshaderfx/effects"
	"github.com/richinsley/goshaderfx/encoder"
	"github.com/richinsley/goshaderfx/glfwcontext"
	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/headless"
	"github.com/richinsley/goshaderfx/inputs"
	"github.com/richinsley/goshaderfx/options"
	"github.com/richinsley/goshaderfx/renderer"
	"github.com/richinsley/goshaderfx/software"
	"github.com/richinsley/goshaderfx/source"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Shader effect sandbox")
		fmt.Println("Commands:", strings.Join(effects.Vocabulary(), " "))
		flag.PrintDefaults()
		return
	}

	if err := opts.Resolve(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	img, err := loadSourceImage(opts)
	if err != nil {
		log.Fatalf("Error loading source image: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *opts.Backend == "cpu" {
		err = runSoftware(ctx, opts, img)
	} else {
		err = runGL(ctx, opts, img)
	}

	var initErr *effects.InitializationError
	if errors.As(err, &initErr) {
		log.Fatalf("Fatal: %v", initErr)
	}
	if err != nil {
		log.Fatalf("Sandbox failed: %v", err)
	}
}

func loadSourceImage(opts *options.SandboxOptions) (*image.RGBA, error) {
	if *opts.ImagePath == "" {
		log.Printf("No -image given, using the test pattern")
		return inputs.TestPattern(*opts.Width, *opts.Height), nil
	}
	return inputs.LoadImage(*opts.ImagePath, *opts.Width, *opts.Height, *opts.FFMPEGPath)
}

// runner wraps Engine.Run with logging. A failed run leaves the previous frame
// on screen and waits for the next edit. save, when set, runs after every
// successful run.
func runner(engine *effects.Engine, save func() error) source.Handler {
	return func(program string) error {
		err := engine.Run(program)
		var ce *effects.CompileError
		switch {
		case errors.As(err, &ce):
			log.Printf("error: %v (unknown command %q at position %d)", ce, ce.Offending, ce.Index+1)
		case err != nil:
			log.Printf("error: %v", err)
		default:
			log.Printf("ok: mask=%s operation=%s slot=%d", engine.Mask(), engine.Operation(), engine.SourceIndex())
			if save != nil {
				if err := save(); err != nil {
					log.Printf("Failed to write frame: %v", err)
				}
			}
		}
		return err
	}
}

// frameSaver writes the captured frame to -output. It is nil without -output.
func frameSaver(opts *options.SandboxOptions, capture func() (*image.RGBA, error)) func() error {
	if *opts.Output == "" {
		return nil
	}
	w := &encoder.FrameWriter{Path: *opts.Output, FFMPEGPath: *opts.FFMPEGPath}
	return func() error {
		img, err := capture()
		if err != nil {
			return err
		}
		return w.WriteFrame(img)
	}
}

// newSource builds every program source except the GL window, which feeds
// edits through its own event loop.
func newSource(opts *options.SandboxOptions) (source.Source, *source.Terminal, error) {
	switch *opts.Source {
	case "terminal":
		term, err := source.NewTerminal(nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open terminal: %w", err)
		}
		term.SetProgram(*opts.Program)
		log.SetOutput(term)
		return term, term, nil
	case "watch":
		return &source.Watch{Path: *opts.WatchFile}, nil, nil
	default:
		return &source.Lines{R: os.Stdin}, nil, nil
	}
}

func newSoftwareEngine(opts *options.SandboxOptions, img *image.RGBA) (*effects.Engine, *software.GPU, error) {
	gpu := software.New(*opts.Width, *opts.Height)
	engine, err := effects.NewEngine(gpu, img)
	if err != nil {
		return nil, nil, err
	}
	engine.ResetEachRun = *opts.ResetEachRun
	return engine, gpu, nil
}

func runSoftware(ctx context.Context, opts *options.SandboxOptions, img *image.RGBA) error {
	engine, gpu, err := newSoftwareEngine(opts, img)
	if err != nil {
		return err
	}

	src, term, err := newSource(opts)
	if err != nil {
		return err
	}
	run := runner(engine, frameSaver(opts, func() (*image.RGBA, error) { return gpu.Screen(), nil }))
	if term != nil {
		term.Preview = func() image.Image { return gpu.Screen() }
		_ = engine.Refresh()
	} else {
		_ = run(*opts.Program)
	}
	return src.Run(ctx, run)
}

func runGL(ctx context.Context, opts *options.SandboxOptions, img *image.RGBA) error {
	var gctx graphics.Context
	var win *glfwcontext.Context
	var err error

	if *opts.Headless {
		gctx, err = headless.NewHeadless(*opts.Width, *opts.Height)
		if err != nil {
			return &effects.InitializationError{Err: fmt.Errorf("failed to create headless context: %w", err)}
		}
	} else {
		if err := glfwcontext.InitGraphics(); err != nil {
			return &effects.InitializationError{Err: fmt.Errorf("failed to initialize glfw: %w", err)}
		}
		defer glfwcontext.TerminateGraphics()

		win, err = glfwcontext.New(opts)
		if err != nil {
			return &effects.InitializationError{Err: fmt.Errorf("failed to create window: %w", err)}
		}
		gctx = win
	}
	defer gctx.Shutdown()

	r, err := renderer.NewRenderer(gctx, *opts.Width, *opts.Height)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	engine, err := effects.NewEngine(r, img)
	if err != nil {
		return err
	}
	engine.ResetEachRun = *opts.ResetEachRun
	run := runner(engine, frameSaver(opts, r.ReadScreen))

	if *opts.Source == "window" {
		win.OnProgramChange(func(program string) { _ = run(program) })
		win.RegisterKeyCallback(glfw.KeyF5, func() { _ = run(win.Program()) })
		win.RegisterKeyCallback(glfw.KeyF2, func() {
			engine.Reset()
			log.Printf("Selectors reset to %s/%s", engine.Mask(), engine.Operation())
		})
		_ = run(*opts.Program)
		return windowLoop(ctx, gctx, engine, nil, nil)
	}

	src, term, err := newSource(opts)
	if err != nil {
		return err
	}
	if term == nil {
		_ = run(*opts.Program)
	} else {
		// the terminal runs its seeded program itself; show the image meanwhile
		_ = engine.Refresh()
	}

	changes := make(chan string)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := src.Run(ctx, func(program string) error {
			select {
			case changes <- program:
			case <-ctx.Done():
			}
			return nil
		})
		if err != nil {
			log.Printf("Program source stopped: %v", err)
		}
	}()

	if *opts.Headless {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-done:
				return nil
			case program := <-changes:
				_ = run(program)
				gctx.EndFrame()
			}
		}
	}
	return windowLoop(ctx, gctx, engine, changes, run)
}

// windowLoop redraws the last presented frame every frame and evaluates edits
// from a goroutine source between frames, on the GL thread.
func windowLoop(ctx context.Context, gctx graphics.Context, engine *effects.Engine, changes <-chan string, run source.Handler) error {
	log.Println("Starting interactive render loop...")
	for !gctx.ShouldClose() {
		if ctx.Err() != nil {
			return nil
		}

	drain:
		for changes != nil {
			select {
			case program := <-changes:
				_ = run(program)
			default:
				break drain
			}
		}

		if err := engine.Refresh(); err != nil {
			return err
		}
		gctx.EndFrame()
	}
	return nil
}
