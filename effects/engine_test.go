package effects

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingGPU tracks switch state and logs every draw.
type recordingGPU struct {
	created  int
	failAt   int
	target   Texture
	sampled  Texture
	switches [numSwitches]bool
	draws    []draw
}

type draw struct {
	target   Texture
	source   Texture
	switches [numSwitches]bool
}

func newRecordingGPU() *recordingGPU {
	return &recordingGPU{failAt: -1, target: Screen}
}

func (g *recordingGPU) CreateTexture(init *image.RGBA) (Texture, error) {
	if g.created == g.failAt {
		return 0, errors.New("out of texture memory")
	}
	g.created++
	return Texture(g.created * 10), nil
}

func (g *recordingGPU) BindRenderTarget(target Texture) error {
	g.target = target
	return nil
}

func (g *recordingGPU) BindSource(source Texture)   { g.sampled = source }
func (g *recordingGPU) SetSwitch(s Switch, on bool) { g.switches[s] = on }

func (g *recordingGPU) DrawQuad() {
	g.draws = append(g.draws, draw{target: g.target, source: g.sampled, switches: g.switches})
}

func (g *recordingGPU) active(pred func(Switch) bool) []Switch {
	var on []Switch
	for _, s := range Switches() {
		if pred(s) && g.switches[s] {
			on = append(on, s)
		}
	}
	return on
}

func newTestEngine(t *testing.T) (*Engine, *recordingGPU) {
	t.Helper()
	gpu := newRecordingGPU()
	e, err := NewEngine(gpu, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)
	return e, gpu
}

func TestNewEngineDefaults(t *testing.T) {
	e, gpu := newTestEngine(t)

	assert.Equal(t, [2]Texture{10, 20}, e.Textures())
	assert.Equal(t, 0, e.SourceIndex())
	assert.Equal(t, MaskAll, e.Mask())
	assert.Equal(t, OpInvert, e.Operation())
	assert.Equal(t, []Switch{SwitchAll}, gpu.active(Switch.IsMask))
	assert.Equal(t, []Switch{SwitchInvert}, gpu.active(Switch.IsOperation))
	assert.Empty(t, gpu.draws)
}

func TestNewEngineTextureFailure(t *testing.T) {
	gpu := newRecordingGPU()
	gpu.failAt = 1

	_, err := NewEngine(gpu, nil)

	var initErr *InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.Contains(t, err.Error(), "texture slot 1")
}

func TestRunWithoutApplyOnlyPresents(t *testing.T) {
	e, gpu := newTestEngine(t)

	require.NoError(t, e.Run("top spin circle mirror-h"))

	require.Len(t, gpu.draws, 1)
	d := gpu.draws[0]
	assert.Equal(t, Screen, d.target)
	assert.Equal(t, e.Textures()[0], d.source)
	assert.Equal(t, [numSwitches]bool{}, d.switches, "present must draw with every switch off")
	assert.Equal(t, 0, e.SourceIndex())
	assert.Equal(t, MaskCircle, e.Mask())
	assert.Equal(t, OpMirrorH, e.Operation())
}

func TestApplyPingPong(t *testing.T) {
	e, gpu := newTestEngine(t)
	tex := e.Textures()

	require.NoError(t, e.Run("apply apply apply"))

	require.Len(t, gpu.draws, 4)
	wantReads := []Texture{tex[0], tex[1], tex[0]}
	for i, d := range gpu.draws[:3] {
		assert.Equal(t, wantReads[i], d.source, "apply %d read", i)
		assert.NotEqual(t, d.source, d.target, "apply %d must not write the texture it samples", i)
		assert.True(t, d.switches[SwitchAll])
		assert.True(t, d.switches[SwitchInvert])
	}
	assert.Equal(t, 1, e.SourceIndex())

	present := gpu.draws[3]
	assert.Equal(t, Screen, present.target)
	assert.Equal(t, tex[1], present.source)
}

func TestSourceIndexTogglesOncePerApply(t *testing.T) {
	tests := []struct {
		program string
		want    int
	}{
		{"", 0},
		{"invert top", 0},
		{"apply", 1},
		{"apply invert apply", 0},
		{"top apply bottom apply spin apply", 1},
	}

	for _, tt := range tests {
		t.Run(tt.program, func(t *testing.T) {
			e, _ := newTestEngine(t)
			require.NoError(t, e.Run(tt.program))
			assert.Equal(t, tt.want, e.SourceIndex())
		})
	}
}

func (d draw) on(pred func(Switch) bool) []Switch {
	var on []Switch
	for _, s := range Switches() {
		if pred(s) && d.switches[s] {
			on = append(on, s)
		}
	}
	return on
}

func TestEveryApplyDrawsOneMaskAndOneOperation(t *testing.T) {
	tests := []struct {
		program string
		masks   []Switch
		ops     []Switch
	}{
		{"apply", []Switch{SwitchAll}, []Switch{SwitchInvert}},
		{"top spin apply", []Switch{SwitchTop}, []Switch{SwitchSpin}},
		{"top x invert-r apply", []Switch{SwitchX}, []Switch{SwitchInvertR}},
		{"circle aberrate pixelate left apply all apply", []Switch{SwitchLeft, SwitchAll}, []Switch{SwitchPixelate, SwitchPixelate}},
		{"mirror-h square apply cross apply rotate apply", []Switch{SwitchSquare, SwitchCross, SwitchCross}, []Switch{SwitchMirrorH, SwitchMirrorH, SwitchRotate}},
	}

	for _, tt := range tests {
		t.Run(tt.program, func(t *testing.T) {
			e, gpu := newTestEngine(t)
			// a previous run leaves the selectors off after its present-step
			require.NoError(t, e.Run("bottom invert-b"))
			gpu.draws = nil

			require.NoError(t, e.Run(tt.program))

			var applies []draw
			for _, d := range gpu.draws {
				if d.target != Screen {
					applies = append(applies, d)
				}
			}
			require.Len(t, applies, len(tt.masks))
			for i, d := range applies {
				assert.Equal(t, []Switch{tt.masks[i]}, d.on(Switch.IsMask), "apply %d", i)
				assert.Equal(t, []Switch{tt.ops[i]}, d.on(Switch.IsOperation), "apply %d", i)
			}

			present := gpu.draws[len(gpu.draws)-1]
			assert.Equal(t, Screen, present.target)
			assert.Empty(t, present.on(Switch.IsMask))
			assert.Empty(t, present.on(Switch.IsOperation))
		})
	}
}

func TestSelectorsCarryIntoNextRunsApply(t *testing.T) {
	e, gpu := newTestEngine(t)
	words := []string{"top", "spin", "x", "invert-r", "circle", "aberrate", "all", "pixelate"}

	for _, w := range words {
		require.NoError(t, e.Run(w))
		gpu.draws = nil
		require.NoError(t, e.Run("apply"))
		require.Len(t, gpu.draws, 2)
		apply := gpu.draws[0]
		assert.Equal(t, []Switch{e.Mask().Switch()}, apply.on(Switch.IsMask), "after %q", w)
		assert.Equal(t, []Switch{e.Operation().Switch()}, apply.on(Switch.IsOperation), "after %q", w)
	}
}

func TestPrefixInvariantInsideRun(t *testing.T) {
	e, gpu := newTestEngine(t)
	require.NoError(t, e.Run("apply"))

	// a failing run stops right after the prefix, leaving its switch state visible
	err := e.Run("left invert-g apply right rotate nope")
	require.Error(t, err)
	assert.Equal(t, []Switch{SwitchRight}, gpu.active(Switch.IsMask))
	assert.Equal(t, []Switch{SwitchRotate}, gpu.active(Switch.IsOperation))
}

func TestUnknownTokenReportsFirstWord(t *testing.T) {
	e, gpu := newTestEngine(t)

	err := e.Run("banana")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "banana", ce.Token)
	assert.Equal(t, "failed to compile program: banana", err.Error())
	assert.Empty(t, gpu.draws, "no apply and no present")
}

func TestUnknownTokenKeepsEarlierApplies(t *testing.T) {
	e, gpu := newTestEngine(t)

	err := e.Run("top apply Invert apply")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "top", ce.Token)
	assert.Equal(t, "Invert", ce.Offending)
	assert.Equal(t, 2, ce.Index)

	require.Len(t, gpu.draws, 1, "only the first apply ran")
	assert.NotEqual(t, Screen, gpu.draws[0].target)
	assert.Equal(t, 1, e.SourceIndex())
	assert.Equal(t, MaskTop, e.Mask())
}

func TestSelectorsPersistAcrossRuns(t *testing.T) {
	e, gpu := newTestEngine(t)
	require.NoError(t, e.Run("bottom invert-b"))

	require.NoError(t, e.Run("apply"))

	apply := gpu.draws[len(gpu.draws)-2]
	assert.True(t, apply.switches[SwitchBottom])
	assert.True(t, apply.switches[SwitchInvertB])
	assert.False(t, apply.switches[SwitchAll])
	assert.False(t, apply.switches[SwitchInvert])
}

func TestResetEachRun(t *testing.T) {
	e, gpu := newTestEngine(t)
	e.ResetEachRun = true
	require.NoError(t, e.Run("bottom invert-b"))

	require.NoError(t, e.Run("apply"))

	apply := gpu.draws[len(gpu.draws)-2]
	assert.True(t, apply.switches[SwitchAll])
	assert.True(t, apply.switches[SwitchInvert])
	assert.False(t, apply.switches[SwitchBottom])
	assert.False(t, apply.switches[SwitchInvertB])
}

func TestRefreshShowsLastPresented(t *testing.T) {
	e, gpu := newTestEngine(t)
	require.NoError(t, e.Run("apply"))
	shown := e.Current()

	// apply before the bad word moves the source slot, but the screen keeps the old frame
	require.Error(t, e.Run("apply bogus"))
	require.NoError(t, e.Refresh())

	last := gpu.draws[len(gpu.draws)-1]
	assert.Equal(t, Screen, last.target)
	assert.Equal(t, shown, last.source)
	assert.Equal(t, [numSwitches]bool{}, last.switches)
	assert.NotEqual(t, shown, e.Current())
}
