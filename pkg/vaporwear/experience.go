// Package vaporwear is the host-facing API of the watch showroom.
//
// An Experience owns a scene, the imported watch and the showroom state
// machine. Its methods must be called on the goroutine that calls Frame;
// other goroutines talk to it through Enqueue.
package vaporwear

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/assets"
	"github.com/Faultbox/vaporwear/internal/config"
	"github.com/Faultbox/vaporwear/internal/engine/scene"
	"github.com/Faultbox/vaporwear/internal/logger"
	"github.com/Faultbox/vaporwear/internal/showroom"
)

// Errors returned for bad host input.
var (
	ErrUnknownBehavior = errors.New("unknown camera behavior")
	ErrUnknownJewelry  = errors.New("unknown jewelry")
	ErrUnknownCommand  = errors.New("unknown command")
)

// Meshes the material setters target.
const (
	MeshBand    = "chassis"
	MeshGlass   = "glass"
	MeshGem     = "diamond"
	MeshSetting = "setting"
)

// Jewelry options.
const (
	JewelryNone  = "none"
	JewelryStuds = "studs"
)

// HotspotUpdate is one hotspot's state as reported to the host.
type HotspotUpdate = showroom.HotspotUpdate

// Params locates the assets. Every URL is AssetURLRoot + the field.
type Params struct {
	AssetURLRoot       string
	Watch              string
	WatchStuds         string
	WatchMaterials     string
	EnvironmentTexture string
	DiamondFireTexture string
}

// ParamsFromConfig builds Params from the assets config section.
func ParamsFromConfig(a config.AssetsConfig) Params {
	return Params{
		AssetURLRoot:       a.Root,
		Watch:              a.Watch,
		WatchStuds:         a.WatchStuds,
		WatchMaterials:     a.WatchMaterials,
		EnvironmentTexture: a.EnvironmentTexture,
		DiamondFireTexture: a.DiamondFireTexture,
	}
}

func (p Params) url(suffix string) string {
	return p.AssetURLRoot + suffix
}

// Options customise an Experience. Zero values select defaults.
type Options struct {
	Config *config.Config
	Scene  *scene.Scene
	Assets *assets.Manager
}

// Experience is a running watch showroom.
type Experience struct {
	scene    *scene.Scene
	showroom *showroom.Showroom
	assets   *assets.Manager
	params   Params

	jewelry     string
	accessories int
	failed      bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
	ready  chan struct{}

	log *zap.Logger
}

// New imports the watch and builds the showroom. It returns once the watch
// is in the scene; the studs and the swappable materials keep loading in
// the background and are added on a later Frame.
func New(ctx context.Context, p Params, opts Options) (*Experience, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := opts.Scene
	if s == nil {
		s = scene.New(cfg.Graphics.Width, cfg.Graphics.Height)
	}
	m := opts.Assets
	if m == nil {
		m = assets.NewManager()
	}

	log := logger.Named("experience")

	watch, err := m.LoadModel(ctx, p.url(p.Watch))
	if err != nil {
		log.Error("watch import failed", zap.Error(err))
		return nil, fmt.Errorf("importing watch: %w", err)
	}
	watch.AddTo(s)
	s.EnvironmentTexture = p.url(p.EnvironmentTexture)

	sr, err := showroom.New(s, cfg)
	if err != nil {
		return nil, err
	}

	bg, cancel := context.WithCancel(context.Background())
	e := &Experience{
		scene:    s,
		showroom: sr,
		assets:   m,
		params:   p,
		jewelry:  JewelryNone,
		cancel:   cancel,
		ready:    make(chan struct{}),
		log:      log,
	}
	e.loadAccessories(bg)
	return e, nil
}

// loadAccessories imports the studs and the materials asset concurrently.
// Results are handed to the frame goroutine through the scene.
func (e *Experience) loadAccessories(ctx context.Context) {
	loads := []struct {
		url   string
		apply func(*assets.Model)
	}{
		{e.params.url(e.params.WatchStuds), e.addStuds},
		{e.params.url(e.params.WatchMaterials), e.addMaterials},
	}
	e.accessories = len(loads)

	for _, l := range loads {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			model, err := e.assets.LoadModel(ctx, l.url)
			e.scene.Post(func() {
				if err != nil {
					e.log.Error("accessory import failed", zap.String("url", l.url), zap.Error(err))
					e.failed = true
				} else {
					l.apply(model)
				}
				e.accessoryDone()
			})
		}()
	}

	go func() {
		e.wg.Wait()
		close(e.ready)
	}()
}

func (e *Experience) addStuds(model *assets.Model) {
	model.AddTo(e.scene)
	e.showroom.AttachStuds(model.Root)
	if err := e.showroom.SetDiamondFire(e.params.url(e.params.DiamondFireTexture)); err != nil {
		e.log.Warn("diamond fire not applied", zap.Error(err))
	}
	e.showroom.ShowStuds(e.jewelry == JewelryStuds)
}

func (e *Experience) addMaterials(model *assets.Model) {
	model.AddTo(e.scene)
	model.Root.SetEnabled(false)
}

func (e *Experience) accessoryDone() {
	e.accessories--
	if e.accessories > 0 || e.failed {
		return
	}
	e.showroom.MarkConfigurationOptionsLoaded()
}

// Ready is closed once every background import has finished, successfully
// or not. Its results are applied on the next Frame.
func (e *Experience) Ready() <-chan struct{} {
	return e.ready
}

// Close stops background imports and waits for them.
func (e *Experience) Close() {
	e.cancel()
	e.wg.Wait()
	e.assets.Close()
}

// Scene returns the showroom scene.
func (e *Experience) Scene() *scene.Scene { return e.scene }

// Showroom returns the state machine driving the scene.
func (e *Experience) Showroom() *showroom.Showroom { return e.showroom }

// SetCameraBehavior switches to a named state: overall, clasp, face,
// levitate or configure.
func (e *Experience) SetCameraBehavior(name string) error {
	state, err := parseBehavior(name)
	if err != nil {
		return err
	}
	e.showroom.SetState(state)
	return nil
}

func parseBehavior(name string) (showroom.State, error) {
	state, ok := showroom.ParseState(name)
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownBehavior)
	}
	return state, nil
}

// SetBandMaterial applies a material to the band. It reports whether the
// material exists.
func (e *Experience) SetBandMaterial(material string) bool {
	return e.showroom.SetMeshMaterialByName(MeshBand, material)
}

// SetGlassMaterial applies a material to the glass.
func (e *Experience) SetGlassMaterial(material string) bool {
	return e.showroom.SetMeshMaterialByName(MeshGlass, material)
}

// SetGemMaterial applies a material to the gems.
func (e *Experience) SetGemMaterial(material string) bool {
	return e.showroom.SetMeshMaterialByName(MeshGem, material)
}

// SetSettingMaterial applies a material to the gem setting.
func (e *Experience) SetSettingMaterial(material string) bool {
	return e.showroom.SetMeshMaterialByName(MeshSetting, material)
}

// SetJewelry selects the accessory: none or studs. Selecting studs before
// they have loaded shows them as soon as they arrive.
func (e *Experience) SetJewelry(kind string) error {
	kind, err := parseJewelry(kind)
	if err != nil {
		return err
	}
	e.jewelry = kind
	e.showroom.ShowStuds(kind == JewelryStuds)
	return nil
}

// parseJewelry maps a case-insensitive jewelry name to its canonical form.
func parseJewelry(kind string) (string, error) {
	switch k := strings.ToLower(kind); k {
	case JewelryNone, JewelryStuds:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", kind, ErrUnknownJewelry)
}

// SetZoom eases the configure camera to a zoom level in [0, 100].
func (e *Experience) SetZoom(percent float32) {
	e.showroom.SetZoomPercent(percent)
}

// DisableMouseWheel turns off wheel zoom.
func (e *Experience) DisableMouseWheel() {
	e.showroom.DisableMouseWheel()
}

// OnHotspotUpdate registers a listener for hotspot changes. Listeners run
// on the frame goroutine.
func (e *Experience) OnHotspotUpdate(fn func([]HotspotUpdate)) {
	e.showroom.OnHotspotUpdate(fn)
}

// OnConfigurationOptionsLoaded calls fn once the studs and materials are
// available, immediately if they already are.
func (e *Experience) OnConfigurationOptionsLoaded(fn func()) {
	e.showroom.OnConfigurationOptionsLoaded(fn)
}

// ConfigurationOptionsLoaded reports whether the studs and materials are
// available.
func (e *Experience) ConfigurationOptionsLoaded() bool {
	return e.showroom.ConfigurationOptionsLoaded()
}

// HandleDrag forwards a pointer drag in pixels.
func (e *Experience) HandleDrag(dx, dy float32) {
	e.showroom.HandleDrag(dx, dy)
}

// HandleWheel forwards a wheel delta.
func (e *Experience) HandleWheel(delta float32) {
	e.showroom.HandleWheel(delta)
}

// Resize changes the render size.
func (e *Experience) Resize(width, height int) {
	e.scene.Resize(width, height)
}

// Reconfigure applies new camera tuning on the next frame. It is safe to
// call from any goroutine.
func (e *Experience) Reconfigure(cfg *config.Config) {
	camera := cfg.Camera
	e.scene.Post(func() {
		e.showroom.ApplyCameraConfig(camera)
	})
}

// Frame advances and draws one frame.
func (e *Experience) Frame() {
	e.showroom.Render()
}

// Run calls Frame every interval until ctx is done. It is the frame loop of
// a headless showroom.
func (e *Experience) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.log.Info("running headless", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Frame()
		}
	}
}
