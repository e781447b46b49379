package effects

// Mask selects the region predicate of the effect shader.
type Mask uint8

const (
	MaskAll Mask = iota
	MaskTop
	MaskBottom
	MaskLeft
	MaskRight
	MaskCircle
	MaskSquare
	MaskCross
	MaskX

	numMasks
)

// Operation selects the per-pixel transform of the effect shader.
type Operation uint8

const (
	OpInvert Operation = iota
	OpInvertB
	OpInvertG
	OpInvertR
	OpMirrorH
	OpMirrorV
	OpPixelate
	OpRotate
	OpSpin
	OpAberrate

	numOperations
)

const (
	DefaultMask      = MaskAll
	DefaultOperation = OpInvert
)

func (m Mask) Switch() Switch      { return SwitchAll + Switch(m) }
func (m Mask) String() string      { return m.Switch().Token() }
func (o Operation) Switch() Switch { return SwitchInvert + Switch(o) }
func (o Operation) String() string { return o.Switch().Token() }

// Masks returns every mask in declaration order.
func Masks() []Mask {
	out := make([]Mask, numMasks)
	for i := range out {
		out[i] = Mask(i)
	}
	return out
}

// Operations returns every operation in declaration order.
func Operations() []Operation {
	out := make([]Operation, numOperations)
	for i := range out {
		out[i] = Operation(i)
	}
	return out
}

// ParseMask maps a command word to a mask.
func ParseMask(token string) (Mask, bool) {
	t, ok := Lookup(token)
	if !ok || t.Kind != KindMask {
		return 0, false
	}
	return t.Mask, true
}

// ParseOperation maps a command word to an operation.
func ParseOperation(token string) (Operation, bool) {
	t, ok := Lookup(token)
	if !ok || t.Kind != KindOperation {
		return 0, false
	}
	return t.Operation, true
}
