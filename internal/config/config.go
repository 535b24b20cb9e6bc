// Package config handles showroom configuration loading and management.
package config

// Config holds all showroom settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Camera   CameraConfig   `yaml:"camera"`
	Watch    WatchConfig    `yaml:"watch"`
	Bridge   BridgeConfig   `yaml:"bridge"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	Headless   bool `yaml:"headless"` // Run the frame loop without a window
}

// AssetsConfig locates the showroom assets. Every URL is Root + suffix.
type AssetsConfig struct {
	Root               string `yaml:"root"`
	Watch              string `yaml:"watch"`
	WatchStuds         string `yaml:"watch_studs"`
	WatchMaterials     string `yaml:"watch_materials"`
	EnvironmentTexture string `yaml:"environment_texture"`
	DiamondFireTexture string `yaml:"diamond_fire_texture"`
}

// CameraConfig holds camera tuning. Angles are radians, distances scene units.
type CameraConfig struct {
	BlendFrames int `yaml:"blend_frames"` // Tracking re-acquisition length
	SweepFrames int `yaml:"sweep_frames"` // Orbit parameter sweep length

	Fov  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`

	ConfigureAlpha  float32 `yaml:"configure_alpha"`
	ConfigureBeta   float32 `yaml:"configure_beta"`
	ConfigureRadius float32 `yaml:"configure_radius"`

	LowerRadiusLimit float32 `yaml:"lower_radius_limit"`
	UpperRadiusLimit float32 `yaml:"upper_radius_limit"`
	LowerBetaLimit   float32 `yaml:"lower_beta_limit"`
	UpperBetaLimit   float32 `yaml:"upper_beta_limit"`

	DragSensitivity float32 `yaml:"drag_sensitivity"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`

	ZoomFrequency float64 `yaml:"zoom_frequency"` // Spring angular frequency
	ZoomDamping   float64 `yaml:"zoom_damping"`   // Spring damping ratio
}

// WatchConfig holds watch model settings.
type WatchConfig struct {
	PoseSpeedRatio   float32         `yaml:"pose_speed_ratio"`
	FixCameraAnchors bool            `yaml:"fix_camera_anchors"`
	Hotspots         []HotspotConfig `yaml:"hotspots"`
}

// HotspotConfig describes one hotspot.
//
// Mode "containment" tests the camera against ViewBox; mode "directional"
// compares the camera direction with the anchor's right axis. The
// directional threshold comes from Threshold, or from the x position of
// ProxyNode when set.
type HotspotConfig struct {
	ID        int     `yaml:"id"`
	Anchor    string  `yaml:"anchor"`
	State     string  `yaml:"state"`
	Mode      string  `yaml:"mode"`
	ViewBox   string  `yaml:"viewbox,omitempty"`
	Threshold float32 `yaml:"threshold,omitempty"`
	ProxyNode string  `yaml:"proxy_node,omitempty"`
}

// BridgeConfig holds the host websocket bridge settings.
type BridgeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   60,
		},
		Assets: AssetsConfig{
			Root:               "assets/",
			Watch:              "watch.glb",
			WatchStuds:         "watch_studs.glb",
			WatchMaterials:     "watch_materials.glb",
			EnvironmentTexture: "environment.env",
			DiamondFireTexture: "diamond_fire.env",
		},
		Camera: CameraConfig{
			BlendFrames:      60,
			SweepFrames:      60,
			Fov:              0.6,
			Near:             0.01,
			Far:              100,
			ConfigureAlpha:   -1.5707964,
			ConfigureBeta:    1,
			ConfigureRadius:  7,
			LowerRadiusLimit: 3,
			UpperRadiusLimit: 15,
			LowerBetaLimit:   0.2,
			UpperBetaLimit:   2.9415927,
			DragSensitivity:  0.005,
			ZoomSensitivity:  0.1,
			ZoomFrequency:    6,
			ZoomDamping:      1,
		},
		Watch: WatchConfig{
			PoseSpeedRatio:   0.7,
			FixCameraAnchors: true,
			Hotspots: []HotspotConfig{
				{ID: 0, Anchor: "hotspot_0", State: "clasp", Mode: "containment", ViewBox: "viewbox_0"},
				{ID: 1, Anchor: "hotspot_1", State: "clasp", Mode: "containment", ViewBox: "viewbox_1"},
				{ID: 2, Anchor: "hotspot_2", State: "configure", Mode: "directional", Threshold: 0.5},
			},
		},
		Bridge: BridgeConfig{
			Enabled: false,
			Listen:  "127.0.0.1:8765",
			Path:    "/ws",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// URL joins the asset root and a suffix.
func (a AssetsConfig) URL(suffix string) string {
	return a.Root + suffix
}
