// Package renderer draws a scene as coloured wireframes with OpenGL.
//
// Every visible mesh is drawn as its bounding box in its material's base
// colour. Markers, such as hotspot anchors, are drawn as small crosses.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/engine/debug"
	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/internal/engine/shader"
	"github.com/Faultbox/vaporwear/internal/logger"
	"github.com/Faultbox/vaporwear/pkg/math"
)

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const fragmentShader = `
#version 410 core

uniform vec3 uColor;

out vec4 FragColor;

void main() {
	FragColor = vec4(uColor, 1.0);
}
`

// markerSize is the half-length of a marker cross in scene units.
const markerSize = 0.05

var (
	defaultColor = math.Vec3{X: 0.8, Y: 0.8, Z: 0.8}
	markerColor  = math.Vec3{X: 1, Y: 0.3, Z: 0.6}
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// batch is a run of line vertices sharing a colour.
type batch struct {
	color math.Vec3
	first int32
	count int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config  Config
	program *shader.Program
	vao     uint32
	vbo     uint32

	vertices []float32
	batches  []batch

	// Markers returns world positions to mark this frame. It may be nil.
	Markers func() []math.Vec3

	log *zap.Logger
}

// New creates a renderer. The OpenGL context must already exist.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.05, 0.04, 0.08, 1.0)

	var err error
	r.program, err = shader.Compile(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize sets the framebuffer size in pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Draw renders s through its active camera.
func (r *Renderer) Draw(s *scene.Scene) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if s.ActiveCamera() == nil {
		return
	}

	r.build(s)
	if len(r.vertices) == 0 {
		return
	}

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.vertices)*4, unsafe.Pointer(&r.vertices[0]), gl.STREAM_DRAW)

	r.program.Use()
	viewProj := s.ViewProjection()
	gl.UniformMatrix4fv(r.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	color := r.program.Uniform("uColor")
	for _, b := range r.batches {
		gl.Uniform3f(color, b.color.X, b.color.Y, b.color.Z)
		gl.DrawArrays(gl.LINES, b.first, b.count)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// build collects this frame's line vertices.
func (r *Renderer) build(s *scene.Scene) {
	r.vertices = r.vertices[:0]
	r.batches = r.batches[:0]

	for _, m := range s.Meshes() {
		if !m.Visible || !m.IsEnabled() {
			continue
		}
		color := defaultColor
		if m.Material != nil {
			color = m.Material.BaseColor
		}
		first := int32(len(r.vertices) / 3)
		r.vertices = debug.WireframeBox(r.vertices, m.Bounds, m.WorldMatrix())
		r.batches = append(r.batches, batch{color: color, first: first, count: debug.BoxVertexCount})
	}

	if r.Markers == nil {
		return
	}
	first := int32(len(r.vertices) / 3)
	for _, p := range r.Markers() {
		r.vertices = debug.WireframeCross(r.vertices, p, markerSize)
	}
	if count := int32(len(r.vertices)/3) - first; count > 0 {
		r.batches = append(r.batches, batch{color: markerColor, first: first, count: count})
	}
}
