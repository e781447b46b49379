package encoder

import (
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/richinsley/goshaderfx/inputs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(n int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c := color.RGBA{R: 255, A: 255}
			if (x+y)%2 == 1 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestWriteFramePNG(t *testing.T) {
	dir := t.TempDir()
	w := &FrameWriter{Path: filepath.Join(dir, "out.png")}
	img := checker(4)

	require.NoError(t, w.WriteFrame(img))
	require.NoError(t, w.WriteFrame(img), "the file is replaced")

	got, err := inputs.LoadImage(w.Path, 4, 4, "")
	require.NoError(t, err)
	assert.Equal(t, img.Pix, got.Pix)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file is left behind")
}

func TestWriteFrameBadDirectory(t *testing.T) {
	w := &FrameWriter{Path: filepath.Join(t.TempDir(), "missing", "out.png")}
	assert.Error(t, w.WriteFrame(checker(2)))
}

func TestPackedDropsSubImagePadding(t *testing.T) {
	img := checker(4)
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	pix := packed(sub)
	require.Len(t, pix, 2*2*4)
	assert.Equal(t, []byte{0, 0, 255, 255}, pix[:4])
	assert.Equal(t, []byte{255, 0, 0, 255}, pix[4:8])
}

func TestWriteFrameThroughFFmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	w := &FrameWriter{Path: filepath.Join(t.TempDir(), "out.bmp")}
	img := checker(8)

	require.NoError(t, w.WriteFrame(img))

	got, err := inputs.LoadImage(w.Path, 8, 8, "")
	require.NoError(t, err)
	assert.Equal(t, img.Pix, got.Pix)
}
