package shader

// ────────────────────────────────── Vertex stage ─────────────────────────────────

// The vertex stage has no outputs. The fragment stage is renamed by the
// translator, so it derives uv from gl_FragCoord instead of a varying.
const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
void main() {
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
void main() {
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// ───────────────────────────────── Effect fragment ───────────────────────────────

// The effect shader is written once against WebGL2 and translated for the
// target context. Every bool uniform is one switch; at most one mask and one
// operation are on at a time, and all of them are off for the present pass.
const effectFragmentShaderSource = `#version 300 es
precision highp float;

out vec4 fragColor;

uniform sampler2D source;
uniform vec2 resolution;

uniform bool all;
uniform bool top;
uniform bool bottom;
uniform bool left;
uniform bool right;
uniform bool circle;
uniform bool square;
uniform bool cross;
uniform bool x;

uniform bool invert;
uniform bool invert_b;
uniform bool invert_g;
uniform bool invert_r;
uniform bool mirror_h;
uniform bool mirror_v;
uniform bool pixelate;
uniform bool rotate;
uniform bool spin;
uniform bool aberrate;

const vec2  CENTER      = vec2(0.5);
const float SHAPE_SIZE  = 0.25;
const float BAR_WIDTH   = 0.1;
const float PIXEL_CELLS = 32.0;
const float SPIN_TWIST  = 6.0;
const float ABERRATION  = 0.01;

bool is_masked(vec2 uv) {
    vec2 d = abs(uv - CENTER);
    return all
        || (top    && uv.y > 0.5)
        || (bottom && uv.y < 0.5)
        || (left   && uv.x < 0.5)
        || (right  && uv.x > 0.5)
        || (circle && length(uv - CENTER) < SHAPE_SIZE)
        || (square && max(d.x, d.y) < SHAPE_SIZE)
        || (cross  && (d.x < BAR_WIDTH || d.y < BAR_WIDTH))
        || (x      && (abs(uv.x - uv.y) < BAR_WIDTH || abs(uv.x + uv.y - 1.0) < BAR_WIDTH));
}

vec4 operation(vec2 uv) {
    if (mirror_h) {
        return texture(source, vec2(1.0 - uv.x, uv.y));
    }
    if (mirror_v) {
        return texture(source, vec2(uv.x, 1.0 - uv.y));
    }
    if (pixelate) {
        return texture(source, (floor(uv * PIXEL_CELLS) + 0.5) / PIXEL_CELLS);
    }
    if (rotate) {
        vec2 p = uv - CENTER;
        return texture(source, CENTER + vec2(p.y, -p.x));
    }
    if (spin) {
        vec2 p = uv - CENTER;
        float r = length(p);
        if (r >= 0.5) {
            return texture(source, uv);
        }
        float a = (0.5 - r) * SPIN_TWIST;
        float s = sin(a);
        float c = cos(a);
        return texture(source, CENTER + vec2(c * p.x - s * p.y, s * p.x + c * p.y));
    }
    if (aberrate) {
        vec2 o = vec2(ABERRATION, 0.0);
        vec4 g = texture(source, uv);
        return vec4(texture(source, uv + o).r, g.g, texture(source, uv - o).b, g.a);
    }

    vec4 pixel = texture(source, uv);
    if (invert) {
        return vec4(vec3(1.0) - pixel.rgb, pixel.a);
    }
    if (invert_r) {
        return vec4(1.0 - pixel.r, pixel.gb, pixel.a);
    }
    if (invert_g) {
        return vec4(pixel.r, 1.0 - pixel.g, pixel.b, pixel.a);
    }
    if (invert_b) {
        return vec4(pixel.rg, 1.0 - pixel.b, pixel.a);
    }
    return pixel;
}

void main() {
    vec2 uv = gl_FragCoord.xy / resolution;
    fragColor = is_masked(uv) ? operation(uv) : texture(source, uv);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// SourceSampler is the name of the sampler uniform read by the effect shader.
const SourceSampler = "source"

// ResolutionUniform holds the size in pixels of the bound render target.
const ResolutionUniform = "resolution"

func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// GetEffectFragmentShader returns the WebGL2 source of the effect shader.
func GetEffectFragmentShader() string {
	return effectFragmentShaderSource
}
