package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Headless {
		t.Error("expected headless to be false by default")
	}

	if cfg.Camera.BlendFrames != 60 {
		t.Errorf("expected blend frames 60, got %d", cfg.Camera.BlendFrames)
	}
	if cfg.Camera.SweepFrames != 60 {
		t.Errorf("expected sweep frames 60, got %d", cfg.Camera.SweepFrames)
	}
	if cfg.Camera.ConfigureBeta != 1 || cfg.Camera.ConfigureRadius != 7 {
		t.Errorf("unexpected configure pose: beta %f radius %f", cfg.Camera.ConfigureBeta, cfg.Camera.ConfigureRadius)
	}
	if cfg.Camera.LowerRadiusLimit != 3 || cfg.Camera.UpperRadiusLimit != 15 {
		t.Errorf("unexpected radius limits: %f..%f", cfg.Camera.LowerRadiusLimit, cfg.Camera.UpperRadiusLimit)
	}

	if cfg.Watch.PoseSpeedRatio != 0.7 {
		t.Errorf("expected pose speed ratio 0.7, got %f", cfg.Watch.PoseSpeedRatio)
	}
	if len(cfg.Watch.Hotspots) != 3 {
		t.Errorf("expected 3 hotspots, got %d", len(cfg.Watch.Hotspots))
	}

	if cfg.Bridge.Enabled {
		t.Error("expected bridge to be disabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestAssetURL(t *testing.T) {
	a := AssetsConfig{Root: "https://cdn.example.com/vaporwear/"}
	if got := a.URL("watch.glb"); got != "https://cdn.example.com/vaporwear/watch.glb" {
		t.Errorf("unexpected url %s", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

assets:
  root: "/srv/showroom/"
  watch: "watch_v2.glb"

camera:
  blend_frames: 30
  configure_radius: 9
  zoom_damping: 0.5

watch:
  pose_speed_ratio: 1
  fix_camera_anchors: false
  hotspots:
    - id: 7
      anchor: "hotspot_7"
      state: "face"
      mode: "directional"
      proxy_node: "hotspot_7_visibility"

bridge:
  enabled: true
  listen: ":9000"

logging:
  level: "debug"
  log_file: "showroom.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || !cfg.Graphics.Fullscreen || cfg.Graphics.VSync {
		t.Errorf("graphics not loaded: %+v", cfg.Graphics)
	}
	if cfg.Assets.Root != "/srv/showroom/" || cfg.Assets.Watch != "watch_v2.glb" {
		t.Errorf("assets not loaded: %+v", cfg.Assets)
	}
	// Unset keys keep their defaults.
	if cfg.Assets.WatchStuds != "watch_studs.glb" {
		t.Errorf("expected default studs suffix, got %s", cfg.Assets.WatchStuds)
	}
	if cfg.Camera.BlendFrames != 30 || cfg.Camera.SweepFrames != 60 {
		t.Errorf("unexpected frames: blend %d sweep %d", cfg.Camera.BlendFrames, cfg.Camera.SweepFrames)
	}
	if cfg.Camera.ConfigureRadius != 9 {
		t.Errorf("expected configure radius 9, got %f", cfg.Camera.ConfigureRadius)
	}
	if cfg.Watch.FixCameraAnchors {
		t.Error("expected fix_camera_anchors to be false")
	}
	if len(cfg.Watch.Hotspots) != 1 || cfg.Watch.Hotspots[0].ProxyNode != "hotspot_7_visibility" {
		t.Errorf("hotspots not replaced: %+v", cfg.Watch.Hotspots)
	}
	if !cfg.Bridge.Enabled || cfg.Bridge.Listen != ":9000" {
		t.Errorf("bridge not loaded: %+v", cfg.Bridge)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "showroom.log" {
		t.Errorf("logging not loaded: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Camera.ConfigureRadius = 11
	cfg.Watch.Hotspots = cfg.Watch.Hotspots[:1]
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Camera.ConfigureRadius != 11 {
		t.Errorf("expected configure radius 11, got %f", loaded.Camera.ConfigureRadius)
	}
	if len(loaded.Watch.Hotspots) != 1 {
		t.Errorf("expected 1 hotspot, got %d", len(loaded.Watch.Hotspots))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero blend frames", func(c *Config) { c.Camera.BlendFrames = 0 }},
		{"zero sweep frames", func(c *Config) { c.Camera.SweepFrames = -1 }},
		{"inverted beta", func(c *Config) { c.Camera.LowerBetaLimit = 3 }},
		{"inverted radius", func(c *Config) { c.Camera.LowerRadiusLimit = 20 }},
		{"duplicate hotspot", func(c *Config) { c.Watch.Hotspots[1].ID = 0 }},
		{"missing anchor", func(c *Config) { c.Watch.Hotspots[0].Anchor = "" }},
		{"unknown state", func(c *Config) { c.Watch.Hotspots[0].State = "wrist" }},
		{"unknown mode", func(c *Config) { c.Watch.Hotspots[2].Mode = "raycast" }},
		{"relative bridge path", func(c *Config) { c.Bridge.Enabled = true; c.Bridge.Path = "ws" }},
		{"containment without viewbox", func(c *Config) { c.Watch.Hotspots[0].ViewBox = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "headless flag",
			setup: func() { *flagHeadless = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Headless {
					t.Error("expected headless with headless flag")
				}
			},
			teardown: func() { *flagHeadless = false },
		},
		{
			name:  "listen flag enables bridge",
			setup: func() { *flagListen = ":7000" },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Bridge.Enabled || cfg.Bridge.Listen != ":7000" {
					t.Errorf("expected bridge on :7000, got %+v", cfg.Bridge)
				}
			},
			teardown: func() { *flagListen = "" },
		},
		{
			name:  "assets flag",
			setup: func() { *flagAssets = "/tmp/assets/" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Assets.Root != "/tmp/assets/" {
					t.Errorf("expected asset root /tmp/assets/, got %s", cfg.Assets.Root)
				}
			},
			teardown: func() { *flagAssets = "" },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
	if Path() != configPath {
		t.Errorf("expected Path %s, got %s", configPath, Path())
	}
}
