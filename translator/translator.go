package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process-wide shader translator, creating it on
// first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// Fragment is a translated fragment shader together with the names its
// uniforms were given by the translator.
type Fragment struct {
	Code     string
	Uniforms map[string]string
}

// MappedName returns the translated name of a uniform, or the name itself when
// the translator did not report it.
func (f *Fragment) MappedName(name string) string {
	if mapped, ok := f.Uniforms[name]; ok {
		return mapped
	}
	return name
}

// TranslateFragment turns WebGL2 fragment source into GLSL 4.10, or ESSL for
// GLES contexts.
func TranslateFragment(source string, isGLES bool) (*Fragment, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}
	fsShader, err := t.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	f := &Fragment{
		Code:     fsShader.Code,
		Uniforms: make(map[string]string, len(fsShader.Variables)),
	}
	for name, v := range fsShader.Variables {
		f.Uniforms[name] = v.MappedName
	}
	return f, nil
}
