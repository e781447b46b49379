// Package software implements effects.GPU on the CPU. It shades every pixel
// with the same mask and operation formulas as the effect shader, which makes
// it the reference backend for tests and for machines without OpenGL.
package software

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderfx/effects"
	"golang.org/x/image/draw"
)

// GPU renders into image.RGBA textures of one fixed size.
type GPU struct {
	width    int
	height   int
	textures []*image.RGBA
	screen   *image.RGBA
	target   *image.RGBA
	source   *image.RGBA
	switches switchSet
	draws    int
}

// New creates a GPU whose textures and screen are width x height.
func New(width, height int) *GPU {
	g := &GPU{
		width:  width,
		height: height,
		screen: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	g.target = g.screen
	return g
}

func (g *GPU) CreateTexture(init *image.RGBA) (effects.Texture, error) {
	tex := image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	if init != nil {
		if init.Bounds().Dx() != g.width || init.Bounds().Dy() != g.height {
			return 0, fmt.Errorf("texture must be %dx%d, got %dx%d", g.width, g.height, init.Bounds().Dx(), init.Bounds().Dy())
		}
		draw.Draw(tex, tex.Bounds(), init, init.Bounds().Min, draw.Src)
	}
	g.textures = append(g.textures, tex)
	return effects.Texture(len(g.textures) - 1), nil
}

func (g *GPU) BindRenderTarget(target effects.Texture) error {
	if target == effects.Screen {
		g.target = g.screen
		return nil
	}
	tex := g.Texture(target)
	if tex == nil {
		return fmt.Errorf("unknown texture %d", target)
	}
	g.target = tex
	return nil
}

func (g *GPU) BindSource(source effects.Texture) {
	g.source = g.Texture(source)
}

func (g *GPU) SetSwitch(s effects.Switch, on bool) {
	g.switches.set(s, on)
}

// DrawQuad shades every pixel of the bound target once.
func (g *GPU) DrawQuad() {
	g.draws++
	src := g.source
	if src == nil {
		src = image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	} else if src == g.target {
		clone := *src
		clone.Pix = append([]byte(nil), src.Pix...)
		src = &clone
	}

	s := sampler{img: src, width: g.width, height: g.height}
	for py := 0; py < g.height; py++ {
		for px := 0; px < g.width; px++ {
			uv := mgl32.Vec2{
				(float32(px) + 0.5) / float32(g.width),
				1 - (float32(py)+0.5)/float32(g.height),
			}
			g.target.SetRGBA(px, py, toRGBA(shade(&g.switches, s, uv)))
		}
	}
}

// Screen returns the display surface.
func (g *GPU) Screen() *image.RGBA { return g.screen }

// Texture returns the image behind a handle, or nil for an unknown handle.
func (g *GPU) Texture(t effects.Texture) *image.RGBA {
	if t < 0 || int(t) >= len(g.textures) {
		return nil
	}
	return g.textures[t]
}

// Draws counts DrawQuad calls.
func (g *GPU) Draws() int { return g.draws }

// Size is the fixed texture size.
func (g *GPU) Size() (int, int) { return g.width, g.height }
