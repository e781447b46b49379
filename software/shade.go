package software

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshaderfx/effects"
)

// Constants shared with the GLSL effect shader.
const (
	shapeSize  = 0.25
	barWidth   = 0.1
	pixelCells = 32
	spinTwist  = 6.0
	aberration = 0.01
)

var center = mgl32.Vec2{0.5, 0.5}

type switchSet struct {
	on []bool
}

func (s *switchSet) set(sw effects.Switch, on bool) {
	if s.on == nil {
		s.on = make([]bool, len(effects.Switches()))
	}
	if int(sw) < len(s.on) {
		s.on[sw] = on
	}
}

func (s *switchSet) is(sw effects.Switch) bool {
	return int(sw) < len(s.on) && s.on[sw]
}

// sampler does nearest-texel lookups with clamp-to-edge wrapping. Texture row 0
// is the top of the image, which is uv.y = 1.
type sampler struct {
	img    *image.RGBA
	width  int
	height int
}

func (s sampler) at(uv mgl32.Vec2) mgl32.Vec4 {
	px := clampInt(int(math.Floor(float64(uv.X()*float32(s.width)))), 0, s.width-1)
	py := clampInt(int(math.Floor(float64((1-uv.Y())*float32(s.height)))), 0, s.height-1)
	c := s.img.RGBAAt(s.img.Rect.Min.X+px, s.img.Rect.Min.Y+py)
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

func shade(sw *switchSet, src sampler, uv mgl32.Vec2) mgl32.Vec4 {
	if isMasked(sw, uv) {
		return operation(sw, src, uv)
	}
	return src.at(uv)
}

func isMasked(sw *switchSet, uv mgl32.Vec2) bool {
	p := uv.Sub(center)
	dx, dy := mgl32.Abs(p.X()), mgl32.Abs(p.Y())
	switch {
	case sw.is(effects.SwitchAll):
		return true
	case sw.is(effects.SwitchTop) && uv.Y() > 0.5:
		return true
	case sw.is(effects.SwitchBottom) && uv.Y() < 0.5:
		return true
	case sw.is(effects.SwitchLeft) && uv.X() < 0.5:
		return true
	case sw.is(effects.SwitchRight) && uv.X() > 0.5:
		return true
	case sw.is(effects.SwitchCircle) && p.Len() < shapeSize:
		return true
	case sw.is(effects.SwitchSquare) && max(dx, dy) < shapeSize:
		return true
	case sw.is(effects.SwitchCross) && (dx < barWidth || dy < barWidth):
		return true
	case sw.is(effects.SwitchX) && (mgl32.Abs(uv.X()-uv.Y()) < barWidth || mgl32.Abs(uv.X()+uv.Y()-1) < barWidth):
		return true
	}
	return false
}

func operation(sw *switchSet, src sampler, uv mgl32.Vec2) mgl32.Vec4 {
	switch {
	case sw.is(effects.SwitchMirrorH):
		return src.at(mgl32.Vec2{1 - uv.X(), uv.Y()})
	case sw.is(effects.SwitchMirrorV):
		return src.at(mgl32.Vec2{uv.X(), 1 - uv.Y()})
	case sw.is(effects.SwitchPixelate):
		return src.at(mgl32.Vec2{cell(uv.X()), cell(uv.Y())})
	case sw.is(effects.SwitchRotate):
		p := uv.Sub(center)
		return src.at(center.Add(mgl32.Vec2{p.Y(), -p.X()}))
	case sw.is(effects.SwitchSpin):
		p := uv.Sub(center)
		r := p.Len()
		if r >= 0.5 {
			return src.at(uv)
		}
		a := float64((0.5 - r) * spinTwist)
		s, c := float32(math.Sin(a)), float32(math.Cos(a))
		return src.at(center.Add(mgl32.Vec2{c*p.X() - s*p.Y(), s*p.X() + c*p.Y()}))
	case sw.is(effects.SwitchAberrate):
		o := mgl32.Vec2{aberration, 0}
		g := src.at(uv)
		return mgl32.Vec4{src.at(uv.Add(o)).X(), g.Y(), src.at(uv.Sub(o)).Z(), g.W()}
	}

	px := src.at(uv)
	switch {
	case sw.is(effects.SwitchInvert):
		return mgl32.Vec4{1 - px.X(), 1 - px.Y(), 1 - px.Z(), px.W()}
	case sw.is(effects.SwitchInvertR):
		return mgl32.Vec4{1 - px.X(), px.Y(), px.Z(), px.W()}
	case sw.is(effects.SwitchInvertG):
		return mgl32.Vec4{px.X(), 1 - px.Y(), px.Z(), px.W()}
	case sw.is(effects.SwitchInvertB):
		return mgl32.Vec4{px.X(), px.Y(), 1 - px.Z(), px.W()}
	}
	return px
}

func cell(v float32) float32 {
	return (float32(math.Floor(float64(v*pixelCells))) + 0.5) / pixelCells
}

func toRGBA(v mgl32.Vec4) color.RGBA {
	return color.RGBA{
		R: toByte(v.X()),
		G: toByte(v.Y()),
		B: toByte(v.Z()),
		A: toByte(v.W()),
	}
}

func toByte(f float32) uint8 {
	return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
