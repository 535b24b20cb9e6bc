package assets

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// LoadModel fetches and imports a glTF 2.0 asset. Remote assets must be
// binary (.glb) so that no further requests are needed.
//
// It is safe to call from any goroutine.
func (m *Manager) LoadModel(ctx context.Context, rawURL string) (*Model, error) {
	loc, err := parseLocation(rawURL)
	if err != nil {
		return nil, err
	}
	if loc.remote && loc.ext() != ".glb" {
		return nil, fmt.Errorf("%s: remote assets must be .glb: %w", rawURL, ErrUnsupportedURL)
	}

	data, err := m.Load(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var dec *gltf.Decoder
	if loc.remote {
		dec = gltf.NewDecoder(bytes.NewReader(data))
	} else {
		dec = gltf.NewDecoderFS(bytes.NewReader(data), os.DirFS(filepath.Dir(loc.path)))
	}
	doc := new(gltf.Document)
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", rawURL, err)
	}

	model, err := Import(doc)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", rawURL, err)
	}
	model.URL = rawURL

	m.log.Info("model imported",
		zap.String("url", rawURL),
		zap.Int("nodes", len(model.Nodes)),
		zap.Int("meshes", len(model.Meshes)),
		zap.Int("materials", len(model.Materials)),
		zap.Int("animations", len(model.Animations)))
	return model, nil
}

// Import converts a decoded glTF document into scene objects hanging from a
// fresh root node. Animation times are converted to frames at
// scene.FramesPerSecond.
func Import(doc *gltf.Document) (*Model, error) {
	imp := importer{doc: doc, model: &Model{Root: scene.NewNode(RootName)}}
	if err := imp.run(); err != nil {
		return nil, err
	}
	return imp.model, nil
}

type importer struct {
	doc   *gltf.Document
	model *Model

	nodes     []*scene.Node
	materials []*scene.Material
}

func (imp *importer) run() error {
	imp.importMaterials()
	if err := imp.importNodes(); err != nil {
		return err
	}
	if err := imp.importMeshes(); err != nil {
		return err
	}
	if err := imp.importSkins(); err != nil {
		return err
	}
	return imp.importAnimations()
}

func (imp *importer) importMaterials() {
	for i, gm := range imp.doc.Materials {
		mat := &scene.Material{
			Name:      nameOr(gm.Name, "material", i),
			BaseColor: math.Vec3{X: 1, Y: 1, Z: 1},
		}
		if pbr := gm.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
			c := pbr.BaseColorFactor
			mat.BaseColor = math.Vec3{X: c[0], Y: c[1], Z: c[2]}
		}
		imp.materials = append(imp.materials, mat)
	}
	imp.model.Materials = imp.materials
}

func (imp *importer) importNodes() error {
	imp.nodes = make([]*scene.Node, len(imp.doc.Nodes))
	for i, gn := range imp.doc.Nodes {
		n := scene.NewNode(nameOr(gn.Name, "node", i))
		setTransform(n, gn)
		imp.nodes[i] = n
	}

	hasParent := make([]bool, len(imp.nodes))
	for i, gn := range imp.doc.Nodes {
		for _, c := range gn.Children {
			child, err := imp.node(int(c))
			if err != nil {
				return fmt.Errorf("children of node %d: %w", i, err)
			}
			child.SetParent(imp.nodes[i])
			hasParent[c] = true
		}
	}

	roots, err := imp.sceneRoots(hasParent)
	if err != nil {
		return err
	}
	for _, n := range roots {
		n.SetParent(imp.model.Root)
	}
	imp.model.Nodes = imp.nodes
	return nil
}

// sceneRoots returns the root nodes of the default scene, or every
// parentless node when the document has no scenes.
func (imp *importer) sceneRoots(hasParent []bool) ([]*scene.Node, error) {
	var indices []uint32
	switch {
	case imp.doc.Scene != nil && int(*imp.doc.Scene) < len(imp.doc.Scenes):
		indices = imp.doc.Scenes[*imp.doc.Scene].Nodes
	case len(imp.doc.Scenes) > 0:
		indices = imp.doc.Scenes[0].Nodes
	default:
		for i, p := range hasParent {
			if !p {
				indices = append(indices, uint32(i))
			}
		}
	}

	roots := make([]*scene.Node, 0, len(indices))
	for _, i := range indices {
		n, err := imp.node(int(i))
		if err != nil {
			return nil, fmt.Errorf("scene roots: %w", err)
		}
		roots = append(roots, n)
	}
	return roots, nil
}

func (imp *importer) importMeshes() error {
	for i, gn := range imp.doc.Nodes {
		if gn.Mesh == nil {
			continue
		}
		if int(*gn.Mesh) >= len(imp.doc.Meshes) {
			return fmt.Errorf("node %d: mesh %d out of range", i, *gn.Mesh)
		}
		gm := imp.doc.Meshes[*gn.Mesh]

		mesh := &scene.Mesh{Node: imp.nodes[i], Visible: true}
		first := true
		for _, p := range gm.Primitives {
			if mesh.Material == nil && p.Material != nil && int(*p.Material) < len(imp.materials) {
				mesh.Material = imp.materials[*p.Material]
			}
			b, ok := imp.primitiveBounds(p)
			if !ok {
				continue
			}
			if first {
				mesh.Bounds = b
				first = false
				continue
			}
			mesh.Bounds = union(mesh.Bounds, b)
		}
		imp.model.Meshes = append(imp.model.Meshes, mesh)
	}
	return nil
}

// primitiveBounds reads the POSITION accessor's min and max, which glTF
// requires to be present.
func (imp *importer) primitiveBounds(p *gltf.Primitive) (scene.Bounds, bool) {
	idx, ok := p.Attributes[gltf.POSITION]
	if !ok || int(idx) >= len(imp.doc.Accessors) {
		return scene.Bounds{}, false
	}
	acc := imp.doc.Accessors[idx]
	if len(acc.Min) < 3 || len(acc.Max) < 3 {
		return scene.Bounds{}, false
	}
	return scene.Bounds{
		Min: math.Vec3{X: acc.Min[0], Y: acc.Min[1], Z: acc.Min[2]},
		Max: math.Vec3{X: acc.Max[0], Y: acc.Max[1], Z: acc.Max[2]},
	}, true
}

func (imp *importer) importSkins() error {
	for i, gs := range imp.doc.Skins {
		sk := &scene.Skeleton{Name: nameOr(gs.Name, "skeleton", i)}
		for _, j := range gs.Joints {
			n, err := imp.node(int(j))
			if err != nil {
				return fmt.Errorf("skin %d: %w", i, err)
			}
			sk.Joints = append(sk.Joints, n)
		}
		imp.model.Skeletons = append(imp.model.Skeletons, sk)
	}
	return nil
}

func (imp *importer) importAnimations() error {
	for i, ga := range imp.doc.Animations {
		g := scene.NewAnimationGroup(nameOr(ga.Name, "animation", i))

		tracks := make(map[int]*scene.Track)
		var order []int
		for c, ch := range ga.Channels {
			if ch.Target.Node == nil {
				continue
			}
			if ch.Sampler == nil || int(*ch.Sampler) >= len(ga.Samplers) {
				return fmt.Errorf("animation %q channel %d: missing or out of range sampler", g.Name, c)
			}
			idx := int(*ch.Target.Node)
			target, err := imp.node(idx)
			if err != nil {
				return fmt.Errorf("animation %q channel %d: %w", g.Name, c, err)
			}

			track, ok := tracks[idx]
			if !ok {
				track = &scene.Track{Node: target}
				tracks[idx] = track
				order = append(order, idx)
			}
			if err := imp.readChannel(track, ch.Target.Path, ga.Samplers[*ch.Sampler]); err != nil {
				return fmt.Errorf("animation %q channel %d: %w", g.Name, c, err)
			}
		}

		for _, n := range order {
			g.AddTrack(tracks[n])
		}
		imp.model.Animations = append(imp.model.Animations, g)
	}
	return nil
}

// readChannel fills one property of track from a sampler. Morph target
// weights are skipped.
func (imp *importer) readChannel(track *scene.Track, path gltf.TRSProperty, s *gltf.AnimationSampler) error {
	times, err := imp.readFloats(int(s.Input))
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}
	frames := make([]float32, len(times))
	for i, t := range times {
		frames[i] = t * scene.FramesPerSecond
	}

	// Cubic spline outputs hold in-tangent, value and out-tangent per key.
	stride, offset := 1, 0
	if s.Interpolation == gltf.InterpolationCubicSpline {
		stride, offset = 3, 1
	}

	switch path {
	case gltf.TRSTranslation, gltf.TRSScale:
		values, err := imp.readVec3s(int(s.Output))
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		if len(values) < len(frames)*stride {
			return fmt.Errorf("output has %d values for %d keys", len(values), len(frames))
		}
		keys := make([]scene.Vec3Key, len(frames))
		for i, f := range frames {
			v := values[i*stride+offset]
			keys[i] = scene.Vec3Key{Frame: f, Value: math.Vec3{X: v[0], Y: v[1], Z: v[2]}}
		}
		if path == gltf.TRSTranslation {
			track.Positions = keys
		} else {
			track.Scales = keys
		}
	case gltf.TRSRotation:
		values, err := imp.readVec4s(int(s.Output))
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		if len(values) < len(frames)*stride {
			return fmt.Errorf("output has %d values for %d keys", len(values), len(frames))
		}
		keys := make([]scene.QuatKey, len(frames))
		for i, f := range frames {
			v := values[i*stride+offset]
			q := math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
			keys[i] = scene.QuatKey{Frame: f, Value: q.Normalize()}
		}
		track.Rotations = keys
	}
	return nil
}

func (imp *importer) accessor(i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(imp.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", i)
	}
	return imp.doc.Accessors[i], nil
}

func (imp *importer) readFloats(i int) ([]float32, error) {
	acc, err := imp.accessor(i)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(imp.doc, acc, nil)
	if err != nil {
		return nil, err
	}
	v, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: want float scalars, got %T", i, data)
	}
	return v, nil
}

func (imp *importer) readVec3s(i int) ([][3]float32, error) {
	acc, err := imp.accessor(i)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(imp.doc, acc, nil)
	if err != nil {
		return nil, err
	}
	v, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: want float vec3, got %T", i, data)
	}
	return v, nil
}

func (imp *importer) readVec4s(i int) ([][4]float32, error) {
	acc, err := imp.accessor(i)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(imp.doc, acc, nil)
	if err != nil {
		return nil, err
	}
	v, ok := data.([][4]float32)
	if !ok {
		return nil, fmt.Errorf("accessor %d: want float vec4, got %T", i, data)
	}
	return v, nil
}

func (imp *importer) node(i int) (*scene.Node, error) {
	if i < 0 || i >= len(imp.nodes) {
		return nil, fmt.Errorf("node %d out of range", i)
	}
	return imp.nodes[i], nil
}

// setTransform copies a glTF node transform. A non-identity matrix wins
// over TRS; unset components fall back to the identity.
func setTransform(n *scene.Node, gn *gltf.Node) {
	if m := gn.MatrixOrDefault(); m != gltf.DefaultMatrix {
		n.Position, n.Rotation, n.Scaling = math.Mat4(m).Decompose()
		return
	}

	t := gn.TranslationOrDefault()
	n.Position = math.Vec3{X: t[0], Y: t[1], Z: t[2]}
	r := gn.RotationOrDefault()
	n.Rotation = math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize()
	sc := gn.ScaleOrDefault()
	n.Scaling = math.Vec3{X: sc[0], Y: sc[1], Z: sc[2]}
}

func union(a, b scene.Bounds) scene.Bounds {
	return scene.Bounds{
		Min: math.Vec3{X: min(a.Min.X, b.Min.X), Y: min(a.Min.Y, b.Min.Y), Z: min(a.Min.Z, b.Min.Z)},
		Max: math.Vec3{X: max(a.Max.X, b.Max.X), Y: max(a.Max.Y, b.Max.Y), Z: max(a.Max.Z, b.Max.Z)},
	}
}

func nameOr(name, kind string, i int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s_%d", kind, i)
}
