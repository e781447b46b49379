package effects

import "image"

// Texture is an opaque handle issued by a GPU.
type Texture int32

// Screen names the display surface as a render target.
const Screen Texture = -1

// GPU is the capability surface the engine drives. All textures it hands out
// share one fixed size and are RGBA8.
type GPU interface {
	// CreateTexture allocates a texture. A nil init leaves it cleared.
	CreateTexture(init *image.RGBA) (Texture, error)

	// BindRenderTarget directs subsequent draws at a texture or at Screen.
	BindRenderTarget(target Texture) error

	// BindSource selects the texture sampled by the fragment stage.
	BindSource(source Texture)

	// SetSwitch sets one boolean uniform of the effect shader.
	SetSwitch(s Switch, on bool)

	// DrawQuad draws the full-screen quad, shading every target pixel once.
	DrawQuad()
}
