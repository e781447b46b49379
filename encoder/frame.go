package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FrameWriter writes presented frames to a single file, replacing it on every
// call. PNG is encoded in process; any other extension is handed to ffmpeg as
// one raw RGBA frame.
type FrameWriter struct {
	Path       string
	FFMPEGPath string
}

// WriteFrame replaces the output file with img. The file is renamed into place
// so a viewer never sees a half-written image.
func (w *FrameWriter) WriteFrame(img *image.RGBA) error {
	dir, base := filepath.Split(w.Path)
	tmp := filepath.Join(dir, "."+base+".tmp"+filepath.Ext(base))

	var err error
	if strings.EqualFold(filepath.Ext(w.Path), ".png") {
		err = writePNG(tmp, img)
	} else {
		err = w.writeFFmpeg(tmp, img)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, w.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", w.Path, err)
	}
	return nil
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create frame file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}

func (w *FrameWriter) writeFFmpeg(path string, img *image.RGBA) error {
	b := img.Bounds()
	inputArgs := ffmpeg.KwArgs{
		"format":  "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
	}
	outputArgs := ffmpeg.KwArgs{
		"frames:v": 1,
	}

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(path, outputArgs).
		OverWriteOutput().
		WithInput(bytes.NewReader(packed(img))).
		Silent(true)

	if w.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(w.FFMPEGPath)
	}

	if err := ffmpegCmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed to write %s: %w", w.Path, err)
	}
	return nil
}

// packed returns the pixels without row padding.
func packed(img *image.RGBA) []byte {
	b := img.Bounds()
	rowSize := b.Dx() * 4
	if img.Stride == rowSize && b.Min == (image.Point{}) {
		return img.Pix[:rowSize*b.Dy()]
	}
	pix := make([]byte, 0, rowSize*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		pix = append(pix, img.Pix[off:off+rowSize]...)
	}
	return pix
}
