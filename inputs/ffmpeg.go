package inputs

import (
	"bytes"
	"fmt"
	"image"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DecodeFrame asks ffmpeg for the first frame of path as raw RGBA, scaled to
// width x height.
func DecodeFrame(path string, width, height int, ffmpegPath string) (*image.RGBA, error) {
	buf := bytes.NewBuffer(nil)
	outputArgs := ffmpeg.KwArgs{
		"vframes": 1,
		"format":  "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", width, height),
	}

	ffmpegCmd := ffmpeg.Input(path).
		Output("pipe:", outputArgs).
		WithOutput(buf).
		Silent(true)

	if ffmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(ffmpegPath)
	}

	if err := ffmpegCmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed to decode %s: %w", path, err)
	}

	return frameFromRaw(buf.Bytes(), width, height)
}

func frameFromRaw(raw []byte, width, height int) (*image.RGBA, error) {
	want := width * height * 4
	if len(raw) < want {
		return nil, fmt.Errorf("short frame from ffmpeg: got %d bytes, want %d", len(raw), want)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, raw[:want])
	return img, nil
}
