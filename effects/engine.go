package effects

import (
	"fmt"
	"image"
)

// Engine evaluates command programs against a pair of ping-pong textures.
// It is not safe for concurrent use; all calls belong on the GPU thread.
type Engine struct {
	gpu      GPU
	textures [2]Texture
	source   int // slot holding the current image; source^1 is the next write target
	shown    int // slot last presented to the screen
	mask     Mask
	op       Operation

	// ResetEachRun restores the default selectors at the start of every Run
	// instead of carrying them over from the previous edit.
	ResetEachRun bool
}

// NewEngine creates both texture slots, uploads img into slot 0 and selects
// the default mask and operation.
func NewEngine(gpu GPU, img *image.RGBA) (*Engine, error) {
	e := &Engine{
		gpu:  gpu,
		mask: DefaultMask,
		op:   DefaultOperation,
	}

	for i := range e.textures {
		var init *image.RGBA
		if i == 0 {
			init = img
		}
		tex, err := gpu.CreateTexture(init)
		if err != nil {
			return nil, &InitializationError{Err: fmt.Errorf("texture slot %d: %w", i, err)}
		}
		e.textures[i] = tex
	}

	e.selectMask(e.mask)
	e.selectOperation(e.op)
	return e, nil
}

// Run evaluates a full program. Selectors and textures carry over from the
// previous call unless ResetEachRun is set. On an unknown word Run stops with a
// *CompileError; apply-steps issued before it are not rolled back and nothing
// is presented.
func (e *Engine) Run(program string) error {
	if e.ResetEachRun {
		e.Reset()
	} else {
		// the previous present-step switched both selectors off
		e.selectMask(e.mask)
		e.selectOperation(e.op)
	}

	tokens := Tokenize(program)
	for i, word := range tokens {
		tok, ok := Lookup(word)
		if !ok {
			return &CompileError{Token: tokens[0], Offending: word, Index: i}
		}

		switch tok.Kind {
		case KindMask:
			e.selectMask(tok.Mask)
		case KindOperation:
			e.selectOperation(tok.Operation)
		case KindApply:
			if err := e.apply(); err != nil {
				return err
			}
		}
	}

	return e.present()
}

// Refresh redraws the slot that was last presented, with the effect disabled.
func (e *Engine) Refresh() error {
	return e.drawToScreen(e.shown)
}

// Reset restores the default mask and operation.
func (e *Engine) Reset() {
	e.selectMask(DefaultMask)
	e.selectOperation(DefaultOperation)
}

func (e *Engine) Mask() Mask           { return e.mask }
func (e *Engine) Operation() Operation { return e.op }

// SourceIndex is the slot currently holding the image.
func (e *Engine) SourceIndex() int { return e.source }

// Textures returns both slots in index order.
func (e *Engine) Textures() [2]Texture { return e.textures }

// Current is the texture holding the image.
func (e *Engine) Current() Texture { return e.textures[e.source] }

func (e *Engine) selectMask(m Mask) {
	e.gpu.SetSwitch(e.mask.Switch(), false)
	e.gpu.SetSwitch(m.Switch(), true)
	e.mask = m
}

func (e *Engine) selectOperation(o Operation) {
	e.gpu.SetSwitch(e.op.Switch(), false)
	e.gpu.SetSwitch(o.Switch(), true)
	e.op = o
}

// apply renders the current slot through the mask and operation into the
// other slot, then makes that slot current.
func (e *Engine) apply() error {
	read, write := e.source, e.source^1
	if err := e.gpu.BindRenderTarget(e.textures[write]); err != nil {
		return fmt.Errorf("bind texture slot %d: %w", write, err)
	}
	e.gpu.BindSource(e.textures[read])
	e.gpu.SetSwitch(e.mask.Switch(), true)
	e.gpu.SetSwitch(e.op.Switch(), true)
	e.gpu.DrawQuad()
	e.source = write
	return nil
}

// present draws the current slot to the screen with the effect disabled.
func (e *Engine) present() error {
	if err := e.drawToScreen(e.source); err != nil {
		return err
	}
	e.shown = e.source
	return nil
}

func (e *Engine) drawToScreen(slot int) error {
	if err := e.gpu.BindRenderTarget(Screen); err != nil {
		return fmt.Errorf("bind screen: %w", err)
	}
	e.gpu.BindSource(e.textures[slot])
	e.gpu.SetSwitch(e.mask.Switch(), false)
	e.gpu.SetSwitch(e.op.Switch(), false)
	e.gpu.DrawQuad()
	return nil
}
