package options

// SandboxOptions holds the command-line configuration of the sandbox.
type SandboxOptions struct {
	ImagePath    *string // Source image; empty selects the built-in test pattern
	Width        *int    // Texture width, also the initial window width
	Height       *int    // Texture height, also the initial window height
	Backend      *string // "gl" or "cpu"
	Headless     *bool   // Render through an EGL pbuffer instead of a window (gl backend only)
	Source       *string // Where program edits come from: window, terminal, watch or stdin
	WatchFile    *string // Program file followed by the watch source
	Program      *string // Program evaluated once at startup
	ResetEachRun *bool   // Reset mask and operation to their defaults before every run
	Output       *string // File rewritten with the presented frame after every successful run
	FFMPEGPath   *string // ffmpeg binary used for formats without a Go codec
	Help         *bool
}
