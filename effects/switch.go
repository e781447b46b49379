package effects

import "strings"

// Switch names one boolean uniform of the effect shader. Masks and operations
// share a single closed set so a GPU can resolve every location up front.
type Switch uint8

const (
	SwitchAll Switch = iota
	SwitchTop
	SwitchBottom
	SwitchLeft
	SwitchRight
	SwitchCircle
	SwitchSquare
	SwitchCross
	SwitchX

	SwitchInvert
	SwitchInvertB
	SwitchInvertG
	SwitchInvertR
	SwitchMirrorH
	SwitchMirrorV
	SwitchPixelate
	SwitchRotate
	SwitchSpin
	SwitchAberrate

	numSwitches
)

var switchTokens = [numSwitches]string{
	SwitchAll:      "all",
	SwitchTop:      "top",
	SwitchBottom:   "bottom",
	SwitchLeft:     "left",
	SwitchRight:    "right",
	SwitchCircle:   "circle",
	SwitchSquare:   "square",
	SwitchCross:    "cross",
	SwitchX:        "x",
	SwitchInvert:   "invert",
	SwitchInvertB:  "invert-b",
	SwitchInvertG:  "invert-g",
	SwitchInvertR:  "invert-r",
	SwitchMirrorH:  "mirror-h",
	SwitchMirrorV:  "mirror-v",
	SwitchPixelate: "pixelate",
	SwitchRotate:   "rotate",
	SwitchSpin:     "spin",
	SwitchAberrate: "aberrate",
}

// Switches returns every switch in declaration order.
func Switches() []Switch {
	out := make([]Switch, numSwitches)
	for i := range out {
		out[i] = Switch(i)
	}
	return out
}

// Token is the command-language spelling of the switch.
func (s Switch) Token() string {
	if s >= numSwitches {
		return ""
	}
	return switchTokens[s]
}

// Name is the uniform name in the shader. Hyphens in the token become underscores.
func (s Switch) Name() string {
	return strings.ReplaceAll(s.Token(), "-", "_")
}

func (s Switch) String() string { return s.Token() }

// IsMask reports whether the switch belongs to the mask group.
func (s Switch) IsMask() bool { return s <= SwitchX }

// IsOperation reports whether the switch belongs to the operation group.
func (s Switch) IsOperation() bool { return s >= SwitchInvert && s < numSwitches }
