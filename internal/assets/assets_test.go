package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/pkg/math"
)

// testDocument is a small watch-like asset: a pivot with a camera anchor
// and a chassis mesh, a scaled body joint, one material and one animation
// driving the camera anchor for one second.
const testDocument = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0, 3]}],
  "nodes": [
    {"name": "camera_pivot", "children": [1, 2]},
    {"name": "camera_overall", "translation": [0, 0, -5]},
    {"name": "chassis", "mesh": 0, "rotation": [0, 0.7071068, 0, 0.7071068]},
    {"name": "body", "matrix": [2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 1, 2, 3, 1]}
  ],
  "meshes": [{"name": "chassis_mesh", "primitives": [{"attributes": {"POSITION": 0}, "material": 0}]}],
  "materials": [{"name": "band_0", "pbrMetallicRoughness": {"baseColorFactor": [1, 0, 0, 1]}}],
  "skins": [{"name": "watch_rig", "joints": [3]}],
  "animations": [{
    "name": "orbit_overall",
    "channels": [
      {"sampler": 0, "target": {"node": 1, "path": "rotation"}},
      {"sampler": 1, "target": {"node": 1, "path": "translation"}}
    ],
    "samplers": [{"input": 1, "output": 2}, {"input": 1, "output": 3}]
  }],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [-1, -2, -3], "max": [1, 2, 3]},
    {"bufferView": 1, "componentType": 5126, "count": 2, "type": "SCALAR", "min": [0], "max": [1]},
    {"bufferView": 2, "componentType": 5126, "count": 2, "type": "VEC4"},
    {"bufferView": 3, "componentType": 5126, "count": 2, "type": "VEC3"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 8},
    {"buffer": 0, "byteOffset": 44, "byteLength": 32},
    {"buffer": 0, "byteOffset": 76, "byteLength": 24}
  ],
  "buffers": [{"byteLength": 100%s}]
}`

func testBuffer(t *testing.T) []byte {
	t.Helper()
	values := []float32{
		// positions
		-1, -2, -3, 1, 2, 3, 0, 0, 0,
		// times
		0, 1,
		// rotations
		0, 0, 0, 1, 0, 0.7071068, 0, 0.7071068,
		// translations
		0, 0, -5, 0, 0, -7,
	}
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, values))
	require.Equal(t, 100, buf.Len())
	return buf.Bytes()
}

func gltfJSON(t *testing.T) []byte {
	uri := `, "uri": "data:application/octet-stream;base64,` + base64.StdEncoding.EncodeToString(testBuffer(t)) + `"`
	return []byte(fmt.Sprintf(testDocument, uri))
}

func glbBytes(t *testing.T) []byte {
	t.Helper()
	js := []byte(fmt.Sprintf(testDocument, ""))
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}
	bin := testBuffer(t)

	var out bytes.Buffer
	le := binary.LittleEndian
	total := 12 + 8 + len(js) + 8 + len(bin)
	for _, v := range []uint32{0x46546C67, 2, uint32(total), uint32(len(js)), 0x4E4F534A} {
		require.NoError(t, binary.Write(&out, le, v))
	}
	out.Write(js)
	for _, v := range []uint32{uint32(len(bin)), 0x004E4942} {
		require.NoError(t, binary.Write(&out, le, v))
	}
	out.Write(bin)
	return out.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func requireTestModel(t *testing.T, model *Model) {
	t.Helper()

	require.Len(t, model.Nodes, 4)
	require.Equal(t, RootName, model.Root.Name)
	assert.Len(t, model.Root.Children(), 2)

	anchor, ok := model.Node("camera_overall")
	require.True(t, ok)
	assert.Equal(t, "camera_pivot", anchor.Parent().Name)
	assert.Equal(t, math.Vec3{Z: -5}, anchor.Position)

	body, ok := model.Node("body")
	require.True(t, ok)
	assert.Same(t, model.Root, body.Parent())
	assert.InDelta(t, 2, body.Scaling.X, 1e-5)
	assert.InDelta(t, 3, body.Position.Z, 1e-5)

	chassis, ok := model.Mesh("chassis")
	require.True(t, ok)
	require.NotNil(t, chassis.Material)
	assert.Equal(t, "band_0", chassis.Material.Name)
	assert.Equal(t, math.Vec3{X: 1}, chassis.Material.BaseColor)
	assert.Equal(t, math.Vec3{X: -1, Y: -2, Z: -3}, chassis.Bounds.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, chassis.Bounds.Max)
	assert.True(t, chassis.Visible)

	require.Len(t, model.Skeletons, 1)
	assert.Same(t, body, model.Skeletons[0].Joint(0))

	require.Len(t, model.Animations, 1)
	g := model.Animations[0]
	assert.Equal(t, "orbit_overall", g.Name)
	require.Len(t, g.Tracks, 1)
	assert.Same(t, anchor, g.Tracks[0].Node)
	assert.Equal(t, float32(0), g.FirstFrame())
	assert.Equal(t, float32(scene.FramesPerSecond), g.LastFrame())
	assert.Len(t, g.Tracks[0].Rotations, 2)
	assert.Len(t, g.Tracks[0].Positions, 2)
}

func TestLoadModelGLTF(t *testing.T) {
	path := writeFile(t, "watch.gltf", gltfJSON(t))

	model, err := NewManager().LoadModel(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, model.URL)
	requireTestModel(t, model)
}

func TestLoadModelGLB(t *testing.T) {
	path := writeFile(t, "watch.glb", glbBytes(t))

	model, err := NewManager().LoadModel(context.Background(), "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	requireTestModel(t, model)
}

func TestImportRejectsBadIndices(t *testing.T) {
	nodes := func() []*gltf.Node {
		return []*gltf.Node{{Name: "pivot", Children: []uint32{1}}, {Name: "anchor"}}
	}
	tests := []struct {
		name string
		doc  *gltf.Document
	}{
		{"child", &gltf.Document{Nodes: []*gltf.Node{{Name: "pivot", Children: []uint32{4}}}}},
		{"scene root", &gltf.Document{Nodes: nodes(), Scenes: []*gltf.Scene{{Nodes: []uint32{0, 7}}}}},
		{"mesh", &gltf.Document{Nodes: []*gltf.Node{{Name: "chassis", Mesh: gltf.Index(2)}}}},
		{"joint", &gltf.Document{Nodes: nodes(), Skins: []*gltf.Skin{{Joints: []uint32{0, 9}}}}},
		{"sampler", &gltf.Document{Nodes: nodes(), Animations: []*gltf.Animation{{
			Channels: []*gltf.Channel{{Sampler: gltf.Index(1), Target: gltf.ChannelTarget{Node: gltf.Index(1)}}},
			Samplers: []*gltf.AnimationSampler{{Input: 0, Output: 1}},
		}}}},
		{"missing sampler", &gltf.Document{Nodes: nodes(), Animations: []*gltf.Animation{{
			Channels: []*gltf.Channel{{Target: gltf.ChannelTarget{Node: gltf.Index(1)}}},
		}}}},
		{"channel target", &gltf.Document{Nodes: nodes(), Animations: []*gltf.Animation{{
			Channels: []*gltf.Channel{{Sampler: gltf.Index(0), Target: gltf.ChannelTarget{Node: gltf.Index(5)}}},
			Samplers: []*gltf.AnimationSampler{{Input: 0, Output: 1}},
		}}}},
		{"sampler accessor", &gltf.Document{Nodes: nodes(), Animations: []*gltf.Animation{{
			Channels: []*gltf.Channel{{Sampler: gltf.Index(0), Target: gltf.ChannelTarget{Node: gltf.Index(1)}}},
			Samplers: []*gltf.AnimationSampler{{Input: 3, Output: 4}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(tt.doc)
			assert.Error(t, err)
		})
	}
}

func TestImportDefaultsWithoutScenes(t *testing.T) {
	doc := &gltf.Document{
		Nodes: []*gltf.Node{
			{Name: "pivot", Children: []uint32{1}, Translation: [3]float32{0, 1, 0}},
			{Name: "anchor", Matrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, -5, 1}},
			{Name: "loose", Scale: [3]float32{2, 2, 2}},
		},
	}
	model, err := Import(doc)
	require.NoError(t, err)

	assert.Len(t, model.Root.Children(), 2)
	anchor, ok := model.Node("anchor")
	require.True(t, ok)
	assert.Equal(t, "pivot", anchor.Parent().Name)
	assert.InDelta(t, -5, anchor.Position.Z, 1e-5)
	assert.InDelta(t, 1, anchor.Scaling.X, 1e-5)

	loose, ok := model.Node("loose")
	require.True(t, ok)
	assert.Equal(t, math.Vec3{X: 2, Y: 2, Z: 2}, loose.Scaling)
	assert.InDelta(t, 1, loose.Rotation.W, 1e-6)
}

func TestLoadModelRemoteGLB(t *testing.T) {
	data := glbBytes(t)
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/assets/watch.glb" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	m := NewManager()
	m.SetHTTPClient(srv.Client())

	model, err := m.LoadModel(context.Background(), srv.URL+"/assets/watch.glb")
	require.NoError(t, err)
	requireTestModel(t, model)

	_, err = m.LoadModel(context.Background(), srv.URL+"/assets/watch.glb")
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load(), "second load must hit the cache")
	hits, misses := m.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	_, err = m.LoadModel(context.Background(), srv.URL+"/assets/missing.glb")
	assert.ErrorContains(t, err, "404")
}

func TestLoadModelRejectsUnsupportedURLs(t *testing.T) {
	m := NewManager()
	for _, url := range []string{
		"",
		"ftp://example.com/watch.glb",
		"https://example.com/watch.gltf",
	} {
		_, err := m.LoadModel(context.Background(), url)
		assert.ErrorIs(t, err, ErrUnsupportedURL, url)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewManager().Load(context.Background(), filepath.Join(t.TempDir(), "nope.glb"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewManager().Load(ctx, srv.URL+"/watch.glb")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModelAddTo(t *testing.T) {
	path := writeFile(t, "watch.gltf", gltfJSON(t))
	model, err := NewManager().LoadModel(context.Background(), path)
	require.NoError(t, err)

	s := scene.New(800, 600)
	model.AddTo(s)

	_, err = s.Node("camera_overall")
	assert.NoError(t, err)
	_, err = s.Node(RootName)
	assert.NoError(t, err)
	_, err = s.Mesh("chassis")
	assert.NoError(t, err)
	_, err = s.Material("band_0")
	assert.NoError(t, err)
	_, err = s.AnimationGroup("orbit_overall")
	assert.NoError(t, err)
	sk, err := s.Skeleton(0)
	require.NoError(t, err)
	assert.Equal(t, "watch_rig", sk.Name)

	// Mesh nodes are registered once.
	count := 0
	for _, n := range s.Nodes() {
		if n.Name == "chassis" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCache(t *testing.T) {
	c := NewCache()
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", []byte{1})
	data, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte{1}, data)

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	c.Clear()
	_, ok = c.Get("a")
	assert.False(t, ok)
}
