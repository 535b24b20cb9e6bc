package vaporwear

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// gltfDoc assembles a minimal glTF document. Every animation shares one
// sampler pair and every mesh one position accessor.
type gltfDoc struct {
	nodes      []map[string]any
	materials  []map[string]any
	animations []map[string]any
	skins      []map[string]any
	roots      []int
}

func (d *gltfDoc) node(name string, fields map[string]any) int {
	n := map[string]any{"name": name}
	for k, v := range fields {
		n[k] = v
	}
	d.nodes = append(d.nodes, n)
	return len(d.nodes) - 1
}

func (d *gltfDoc) root(name string, fields map[string]any) int {
	i := d.node(name, fields)
	d.roots = append(d.roots, i)
	return i
}

func (d *gltfDoc) mesh(name string) int {
	return d.root(name, map[string]any{"mesh": 0})
}

func (d *gltfDoc) material(name string) {
	d.materials = append(d.materials, map[string]any{"name": name})
}

func (d *gltfDoc) animation(name string, node int) {
	d.animations = append(d.animations, map[string]any{
		"name":     name,
		"channels": []any{map[string]any{"sampler": 0, "target": map[string]any{"node": node, "path": "rotation"}}},
		"samplers": []any{map[string]any{"input": 0, "output": 1}},
	})
}

func (d *gltfDoc) encode(t *testing.T) []byte {
	t.Helper()

	values := []float32{
		// key times, 100 frames apart
		0, 100.0 / 60,
		// rotations
		0, 0, 0, 1, 0, 0.7071068, 0, 0.7071068,
		// positions
		-1, -1, -1, 1, 1, 1, 0, 0, 0,
	}
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, values))

	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": d.roots}},
		"nodes":  d.nodes,
		"meshes": []any{map[string]any{"primitives": []any{map[string]any{"attributes": map[string]any{"POSITION": 2}}}}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 2, "type": "SCALAR", "min": []float64{0}, "max": []float64{100.0 / 60}},
			map[string]any{"bufferView": 1, "componentType": 5126, "count": 2, "type": "VEC4"},
			map[string]any{"bufferView": 2, "componentType": 5126, "count": 3, "type": "VEC3", "min": []float64{-1, -1, -1}, "max": []float64{1, 1, 1}},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 8},
			map[string]any{"buffer": 0, "byteOffset": 8, "byteLength": 32},
			map[string]any{"buffer": 0, "byteOffset": 40, "byteLength": 36},
		},
		"buffers": []any{map[string]any{
			"byteLength": buf.Len(),
			"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		}},
	}
	if len(d.materials) > 0 {
		doc["materials"] = d.materials
	}
	if len(d.animations) > 0 {
		doc["animations"] = d.animations
	}
	if len(d.skins) > 0 {
		doc["skins"] = d.skins
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

// watchDoc is a watch with every name the showroom binds to. Camera
// anchors are authored looking along +Z at the pivot.
func watchDoc() *gltfDoc {
	d := &gltfDoc{}

	overall := d.node("camera_overall", map[string]any{"translation": []float64{0, 0, -5}})
	clasp := d.node("camera_clasp", map[string]any{"translation": []float64{5, 0, 0}, "rotation": []float64{0, -0.7071068, 0, 0.7071068}})
	face := d.node("camera_face", map[string]any{"translation": []float64{0, 5, 0}, "rotation": []float64{0.7071068, 0, 0, 0.7071068}})
	levitate := d.node("camera_levitate", map[string]any{"translation": []float64{0, 0, 5}, "rotation": []float64{0, 1, 0, 0}})
	d.root("camera_pivot", map[string]any{"children": []int{overall, clasp, face, levitate}})

	j0 := d.root("root_joint", nil)
	j1 := d.root("band_joint", nil)
	body := d.root("body", nil)
	d.skins = append(d.skins, map[string]any{"name": "watch_rig", "joints": []int{j0, j1, body}})

	d.animation("watch_spin-up", body)
	d.animation("watch_spin-down", body)
	d.animation("orbit_overall", overall)
	d.animation("orbit_clasp", clasp)
	d.animation("orbit_face", face)
	d.animation("orbit_levitate", levitate)

	d.root("hotspot_0", map[string]any{"translation": []float64{1, 0, 0}})
	d.root("hotspot_1", map[string]any{"translation": []float64{0, 1, 0}})
	d.root("hotspot_2", map[string]any{"translation": []float64{0, 0, -1}})
	vb0 := d.mesh("viewbox_0")
	d.nodes[vb0]["translation"] = []float64{5, 0, 0}
	vb1 := d.mesh("viewbox_1")
	d.nodes[vb1]["translation"] = []float64{100, 0, 0}

	for _, name := range []string{MeshBand, MeshGlass, MeshGem, MeshSetting} {
		d.mesh(name)
	}
	d.material("band_0")
	return d
}

func studsDoc() *gltfDoc {
	d := &gltfDoc{}
	d.mesh("studs")
	d.material("diamond_fire")
	return d
}

func materialsDoc() *gltfDoc {
	d := &gltfDoc{}
	d.mesh("swatches")
	for _, name := range []string{"band_1", "band_2", "glass_1", "gem_1"} {
		d.material(name)
	}
	return d
}

// writeAssets writes the three showroom assets into a fresh directory and
// returns params pointing at them.
func writeAssets(t *testing.T) Params {
	t.Helper()
	dir := t.TempDir()
	files := map[string]*gltfDoc{
		"watch.gltf":           watchDoc(),
		"watch_studs.gltf":     studsDoc(),
		"watch_materials.gltf": materialsDoc(),
	}
	for name, doc := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), doc.encode(t), 0o644))
	}
	return Params{
		AssetURLRoot:       dir + string(filepath.Separator),
		Watch:              "watch.gltf",
		WatchStuds:         "watch_studs.gltf",
		WatchMaterials:     "watch_materials.gltf",
		EnvironmentTexture: "environment.env",
		DiamondFireTexture: "diamond_fire.env",
	}
}
