// Package glbackend draws UI batches with OpenGL 3.3 core.
package glbackend

import (
	"image"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"

	"github.com/hubastard/canopy/engine/colors"
	"github.com/hubastard/canopy/engine/core"
	"github.com/hubastard/canopy/engine/draw"
	"github.com/hubastard/canopy/engine/geom"
	"github.com/hubastard/canopy/engine/profiler"
	"github.com/hubastard/canopy/engine/text"
)

// Stats counts the GL work of the last frame.
type Stats struct {
	DrawCalls int
	Vertices  int
	Glyphs    int
}

type RendererGL struct {
	log *slog.Logger

	program uint32
	vao     uint32
	vbo     uint32
	ebo     uint32

	uProj, uTex    int32
	uMaskOn, uMask int32
	uMaskRadius    int32

	white    uint32
	textures map[draw.Texture]uint32
	nextTex  draw.Texture

	atlas    *text.Atlas
	atlasTex uint32
	glyphs   geom.Mesh

	fbW, fbH int
	scale    float32
	stats    Stats
}

// NewRendererGL builds the renderer on the current GL context. The window
// must have made its context current already.
func NewRendererGL(_ core.Window, cfg core.Config) (*RendererGL, error) {
	r := &RendererGL{
		log:      cfg.Log.Logger(nil).With("backend", "gl"),
		textures: map[draw.Texture]uint32{},
		nextTex:  1,
		scale:    1,
	}
	if err := r.Init(text.Default()); err != nil {
		r.Shutdown()
		return nil, err
	}
	return r, nil
}

// Init compiles the UI program, creates the streaming buffers and uploads
// the white texture and the glyph atlas of face.
func (r *RendererGL) Init(face *text.Face) error {
	var err error
	r.program, err = makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return err
	}
	r.uProj = uniform(r.program, "uProj")
	r.uTex = uniform(r.program, "uTex")
	r.uMaskOn = uniform(r.program, "uMaskOn")
	r.uMask = uniform(r.program, "uMask")
	r.uMaskRadius = uniform(r.program, "uMaskRadius")

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	// layout(location = 0) in vec2 aPos;
	// layout(location = 1) in vec2 aUV;
	// layout(location = 2) in vec4 aColor;
	stride := int32(unsafe.Sizeof(geom.Vertex{}))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, unsafe.Offsetof(geom.Vertex{}.Pos))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, unsafe.Offsetof(geom.Vertex{}.UV))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, unsafe.Offsetof(geom.Vertex{}.Color))
	gl.BindVertexArray(0)

	white := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(white.Pix, []byte{255, 255, 255, 255})
	r.white = upload(white, gl.NEAREST)

	r.atlas, err = text.BuildAtlas(face, text.ASCII())
	if err != nil {
		return errors.Wrap(err, "glyph atlas")
	}
	r.atlasTex = upload(r.atlas.Image, gl.NEAREST)

	r.log.Info("renderer ready", "gl", gl.GoStr(gl.GetString(gl.VERSION)), "atlas", r.atlas.Image.Bounds().Dx())
	return nil
}

// UploadTexture makes img available to geometry drawn under
// draw.Delta.WithTexture with the returned handle.
func (r *RendererGL) UploadTexture(img *image.RGBA) draw.Texture {
	id := r.nextTex
	r.nextTex++
	r.textures[id] = upload(img, gl.LINEAR)
	return id
}

func (r *RendererGL) Shutdown() {
	for id, t := range r.textures {
		gl.DeleteTextures(1, &t)
		delete(r.textures, id)
	}
	if r.atlasTex != 0 {
		gl.DeleteTextures(1, &r.atlasTex)
	}
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

func (r *RendererGL) Resize(w, h int, scale float32) {
	if scale <= 0 {
		scale = 1
	}
	r.fbW, r.fbH, r.scale = w, h, scale
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(c colors.Color) {
	gl.Disable(gl.SCISSOR_TEST)
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (r *RendererGL) Stats() Stats { return r.stats }

// Render draws batches in order: one draw call for the geometry of each
// batch and one for its text runs.
func (r *RendererGL) Render(batches []draw.Batch) error {
	defer profiler.Start("gl.Render")()
	r.stats = Stats{}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.UseProgram(r.program)
	gl.BindVertexArray(r.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.uTex, 0)
	proj := ortho(float32(r.fbW)/r.scale, float32(r.fbH)/r.scale)
	gl.UniformMatrix4fv(r.uProj, 1, false, &proj[0])

	for i := range batches {
		b := &batches[i]
		r.apply(b.Settings)
		tex := r.white
		if t, ok := r.textures[b.Settings.Texture]; ok {
			tex = t
		}
		r.drawMesh(b.Vertices, b.Indices, tex)

		if len(b.Texts) > 0 {
			r.glyphs.Reset()
			for _, run := range b.Texts {
				text.AppendGlyphs(&r.glyphs, r.atlas, run.Bounds.Min(), run.Text, run.Color)
			}
			r.stats.Glyphs += len(r.glyphs.Indices) / 6
			r.drawMesh(r.glyphs.Verts, r.glyphs.Indices, r.atlasTex)
		}
	}

	gl.Disable(gl.SCISSOR_TEST)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return errors.Errorf("gl error 0x%x", code)
	}
	return nil
}

// apply sets scissor and mask state for s. The scissor box is in
// framebuffer pixels with a bottom-left origin.
func (r *RendererGL) apply(s draw.Settings) {
	if s.ClipEnabled {
		c := s.Clip
		x0 := int32(c.X * r.scale)
		y1 := int32((c.Y + c.H) * r.scale)
		w := int32(c.W*r.scale + 0.5)
		h := int32(c.H*r.scale + 0.5)
		gl.Enable(gl.SCISSOR_TEST)
		gl.Scissor(x0, int32(r.fbH)-y1, max(w, 0), max(h, 0))
	} else {
		gl.Disable(gl.SCISSOR_TEST)
	}

	if s.MaskEnabled {
		m := s.Mask
		gl.Uniform1i(r.uMaskOn, 1)
		gl.Uniform4f(r.uMask, m.X, m.Y, m.W, m.H)
		gl.Uniform1f(r.uMaskRadius, s.MaskRadius)
	} else {
		gl.Uniform1i(r.uMaskOn, 0)
	}
}

func (r *RendererGL) drawMesh(verts []geom.Vertex, indices []uint32, tex uint32) {
	if len(verts) == 0 || len(indices) == 0 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*int(unsafe.Sizeof(geom.Vertex{})), unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STREAM_DRAW)
	gl.DrawElements(gl.TRIANGLES, int32(len(indices)), gl.UNSIGNED_INT, nil)
	r.stats.DrawCalls++
	r.stats.Vertices += len(verts)
}

// ortho maps UI units (top-left origin, Y down) to clip space. Column-major.
func ortho(w, h float32) [16]float32 {
	return [16]float32{
		2 / w, 0, 0, 0,
		0, -2 / h, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}

func upload(img *image.RGBA, filter int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

// --- Shader utilities ---

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aUV;
layout(location=2) in vec4 aColor;
uniform mat4 uProj;
out vec2 vPos;
out vec2 vUV;
out vec4 vColor;
void main() {
    vPos = aPos;
    vUV = aUV;
    vColor = aColor;
    gl_Position = uProj * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

// The mask is a rounded rect in UI units; coverage fades over one unit.
const fragmentSource = `
#version 330 core
in vec2 vPos;
in vec2 vUV;
in vec4 vColor;
uniform sampler2D uTex;
uniform int uMaskOn;
uniform vec4 uMask;
uniform float uMaskRadius;
out vec4 FragColor;
void main() {
    vec4 c = vColor * texture(uTex, vUV);
    if (uMaskOn != 0) {
        vec2 hs = uMask.zw * 0.5;
        float r = min(uMaskRadius, min(hs.x, hs.y));
        vec2 q = abs(vPos - (uMask.xy + hs)) - (hs - vec2(r));
        float d = length(max(q, 0.0)) + min(max(q.x, q.y), 0.0) - r;
        c.a *= clamp(0.5 - d, 0.0, 1.0);
    }
    FragColor = c;
}
` + "\x00"

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, errors.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, errors.Errorf("program link error: %s", log)
	}
	return prog, nil
}
