package options

import (
	"flag"
	"fmt"
)

// Register binds every option to a flag on fs.
func Register(fs *flag.FlagSet) *SandboxOptions {
	return &SandboxOptions{
		ImagePath:    fs.String("image", "", "Source image (png, jpeg, webp, bmp, or anything ffmpeg can read)"),
		Width:        fs.Int("width", 256, "Texture width"),
		Height:       fs.Int("height", 256, "Texture height"),
		Backend:      fs.String("backend", "gl", "Rendering backend: gl or cpu"),
		Headless:     fs.Bool("headless", false, "Render offscreen through EGL instead of opening a window"),
		Source:       fs.String("source", "", "Program source: window, terminal, watch or stdin (default depends on backend)"),
		WatchFile:    fs.String("watch", "", "Program file to re-run on every save (implies -source watch)"),
		Program:      fs.String("program", "", "Program to run once at startup"),
		ResetEachRun: fs.Bool("reset", false, "Reset mask and operation to all/invert before every run"),
		Output:       fs.String("output", "", "Write the presented frame here after every run (.png, or any format ffmpeg can write)"),
		FFMPEGPath:   fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Help:         fs.Bool("help", false, "Show help message"),
	}
}

// Resolve fills in the defaults that depend on other options and rejects
// combinations that cannot work.
func (o *SandboxOptions) Resolve() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("texture size must be positive, got %dx%d", *o.Width, *o.Height)
	}

	switch *o.Backend {
	case "gl", "cpu":
	default:
		return fmt.Errorf("unknown backend %q", *o.Backend)
	}

	if *o.Source == "" {
		switch {
		case *o.WatchFile != "":
			*o.Source = "watch"
		case *o.Backend == "cpu":
			*o.Source = "terminal"
		case *o.Headless:
			*o.Source = "stdin"
		default:
			*o.Source = "window"
		}
	}

	switch *o.Source {
	case "window":
		if *o.Backend != "gl" || *o.Headless {
			return fmt.Errorf("the window source needs the gl backend with a window")
		}
	case "watch":
		if *o.WatchFile == "" {
			return fmt.Errorf("the watch source needs -watch <file>")
		}
	case "terminal", "stdin":
	default:
		return fmt.Errorf("unknown source %q", *o.Source)
	}
	return nil
}
