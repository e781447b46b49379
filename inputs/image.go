// inputs/image.go
package inputs

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"

	"golang.org/x/image/draw"

	// Blank imports for image decoders so image.Decode can handle them.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// VFlip vertically flips the provided RGBA image. OpenGL puts texture row 0 at
// the bottom, so images are flipped before upload and after readback.
func VFlip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	height := bounds.Dy()

	// This is faster than calling At/Set for each pixel
	rowSize := bounds.Dx() * 4 // 4 bytes per pixel (RGBA)
	for y := 0; y < height; y++ {
		srcRow := src.Pix[src.PixOffset(bounds.Min.X, bounds.Max.Y-1-y):]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// Fit converts img to RGBA and scales it to exactly width x height.
func Fit(img image.Image, width, height int) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
		return rgba
	}
	draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, img.Bounds(), draw.Src, nil)
	return rgba
}

// LoadImage reads the source image for the sandbox and fits it to the texture
// size. Formats the Go decoders do not know are handed to ffmpeg, which also
// covers taking the first frame of a video.
func LoadImage(path string, width, height int, ffmpegPath string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if errors.Is(err, image.ErrFormat) {
		log.Printf("%s: no Go decoder, trying ffmpeg", path)
		return DecodeFrame(path, width, height, ffmpegPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	log.Printf("Loaded %s image %s (%dx%d)", format, path, img.Bounds().Dx(), img.Bounds().Dy())
	return Fit(img, width, height), nil
}

// TestPattern draws the image used when no source image is given: a colour
// gradient under a coarse checkerboard, so every mask and operation shows.
func TestPattern(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{
				R: uint8(x * 255 / max(width-1, 1)),
				G: uint8(y * 255 / max(height-1, 1)),
				B: 160,
				A: 255,
			}
			if (x*8/max(width, 1)+y*8/max(height, 1))%2 == 0 {
				c.B = 40
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
