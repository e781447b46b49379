package renderer

import (
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderfx/effects"
	"github.com/richinsley/goshaderfx/graphics"
	"github.com/richinsley/goshaderfx/inputs"
	"github.com/richinsley/goshaderfx/shader"
	"github.com/richinsley/goshaderfx/translator"
)

// glInitOnce ensures gl.Init() is called only once.
var glInitOnce sync.Once

// Renderer is the OpenGL implementation of effects.GPU. It binds one effect
// program for its whole life and renders into textures through a single
// framebuffer whose colour attachment is swapped per pass.
type Renderer struct {
	context       graphics.Context
	quadVAO       uint32
	quadVBO       uint32
	program       uint32
	fbo           uint32
	sourceLoc     int32
	resolutionLoc int32
	switchLocs    []int32
	textures      []uint32
	width         int
	height        int
}

var _ effects.GPU = (*Renderer)(nil)

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// NewRenderer compiles the effect program on ctx and resolves every switch
// uniform once. Textures created later are width x height.
func NewRenderer(ctx graphics.Context, width, height int) (*Renderer, error) {
	r := &Renderer{
		context: ctx,
		width:   width,
		height:  height,
	}

	// Make the context current BEFORE initializing OpenGL.
	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, &effects.InitializationError{Err: fmt.Errorf("failed to initialize OpenGL: %w", initErr)}
	}
	log.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	if err := r.initProgram(); err != nil {
		return nil, &effects.InitializationError{Err: err}
	}
	r.initQuad()
	gl.GenFramebuffers(1, &r.fbo)

	return r, nil
}

func (r *Renderer) initProgram() error {
	isGLES := r.context.IsGLES()
	fsShader, err := translator.TranslateFragment(shader.GetEffectFragmentShader(), isGLES)
	if err != nil {
		return err
	}

	r.program, err = newProgram(shader.GenerateVertexShader(isGLES), fsShader.Code)
	if err != nil {
		return fmt.Errorf("failed to create effect program: %w", err)
	}
	gl.UseProgram(r.program)

	r.sourceLoc = r.uniformLocation(fsShader, shader.SourceSampler)
	r.resolutionLoc = r.uniformLocation(fsShader, shader.ResolutionUniform)
	switches := effects.Switches()
	r.switchLocs = make([]int32, len(switches))
	for _, s := range switches {
		r.switchLocs[s] = r.uniformLocation(fsShader, s.Name())
	}
	return nil
}

func (r *Renderer) uniformLocation(fsShader *translator.Fragment, name string) int32 {
	loc := gl.GetUniformLocation(r.program, gl.Str(fsShader.MappedName(name)+"\x00"))
	if loc < 0 {
		log.Printf("Warning: uniform %q is not active in the effect program", name)
	}
	return loc
}

func (r *Renderer) initQuad() {
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// CreateTexture allocates an RGBA8 texture. init is uploaded flipped so that
// image row 0 ends up at the top of the screen.
func (r *Renderer) CreateTexture(init *image.RGBA) (effects.Texture, error) {
	pixels := make([]byte, r.width*r.height*4)
	if init != nil {
		if init.Bounds().Dx() != r.width || init.Bounds().Dy() != r.height {
			return 0, fmt.Errorf("texture must be %dx%d, got %dx%d", r.width, r.height, init.Bounds().Dx(), init.Bounds().Dy())
		}
		pixels = inputs.VFlip(init).Pix
	}

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(r.width), int32(r.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.textures = append(r.textures, textureID)
	return effects.Texture(len(r.textures) - 1), nil
}

// BindRenderTarget attaches a texture to the framebuffer, or selects the
// default framebuffer for effects.Screen.
func (r *Renderer) BindRenderTarget(target effects.Texture) error {
	if target == effects.Screen {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		fbWidth, fbHeight := r.context.GetFramebufferSize()
		r.setViewport(fbWidth, fbHeight)
		return nil
	}

	textureID, err := r.textureID(target)
	if err != nil {
		return err
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, textureID, 0)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return fmt.Errorf("framebuffer for texture %d is not complete (status 0x%x)", target, status)
	}
	r.setViewport(r.width, r.height)
	return nil
}

// setViewport covers the bound target and tells the effect shader its size,
// which it divides gl_FragCoord by.
func (r *Renderer) setViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	if r.resolutionLoc != -1 {
		gl.Uniform2f(r.resolutionLoc, float32(width), float32(height))
	}
}

func (r *Renderer) BindSource(source effects.Texture) {
	textureID, err := r.textureID(source)
	if err != nil {
		log.Printf("Warning: %v", err)
		textureID = 0
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	if r.sourceLoc != -1 {
		gl.Uniform1i(r.sourceLoc, 0)
	}
}

func (r *Renderer) SetSwitch(s effects.Switch, on bool) {
	if int(s) >= len(r.switchLocs) || r.switchLocs[s] == -1 {
		return
	}
	var v int32
	if on {
		v = 1
	}
	gl.Uniform1i(r.switchLocs[s], v)
}

func (r *Renderer) DrawQuad() {
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quadVertices)/2))
	gl.BindVertexArray(0)
}

// ReadScreen reads the default framebuffer back into an image with row 0 at
// the top, the way it appears on screen.
func (r *Renderer) ReadScreen() (*image.RGBA, error) {
	width, height := r.context.GetFramebufferSize()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("framebuffer has no pixels (%dx%d)", width, height)
	}

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return nil, fmt.Errorf("failed to read framebuffer: GL error 0x%x", glErr)
	}
	return inputs.VFlip(img), nil
}

func (r *Renderer) textureID(t effects.Texture) (uint32, error) {
	if t < 0 || int(t) >= len(r.textures) {
		return 0, fmt.Errorf("unknown texture %d", t)
	}
	return r.textures[t], nil
}

// Shutdown releases every GL object. The context itself is shut down by its owner.
func (r *Renderer) Shutdown() {
	if len(r.textures) > 0 {
		gl.DeleteTextures(int32(len(r.textures)), &r.textures[0])
	}
	gl.DeleteFramebuffers(1, &r.fbo)
	gl.DeleteProgram(r.program)
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.quadVAO)
}
