package config

import (
	"errors"
	"fmt"
)

// Hotspot modes.
const (
	HotspotContainment = "containment"
	HotspotDirectional = "directional"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

var hotspotStates = map[string]bool{
	"overall":   true,
	"clasp":     true,
	"face":      true,
	"levitate":  true,
	"configure": true,
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Camera.BlendFrames <= 0 {
		return fmt.Errorf("%w: camera.blend_frames must be positive", ErrInvalid)
	}
	if c.Camera.SweepFrames <= 0 {
		return fmt.Errorf("%w: camera.sweep_frames must be positive", ErrInvalid)
	}
	if c.Camera.LowerBetaLimit >= c.Camera.UpperBetaLimit {
		return fmt.Errorf("%w: camera beta limits are inverted", ErrInvalid)
	}
	if c.Camera.UpperRadiusLimit > 0 && c.Camera.LowerRadiusLimit > c.Camera.UpperRadiusLimit {
		return fmt.Errorf("%w: camera radius limits are inverted", ErrInvalid)
	}

	if c.Bridge.Enabled && (c.Bridge.Listen == "" || len(c.Bridge.Path) == 0 || c.Bridge.Path[0] != '/') {
		return fmt.Errorf("%w: bridge needs a listen address and an absolute path", ErrInvalid)
	}

	seen := make(map[int]bool, len(c.Watch.Hotspots))
	for _, h := range c.Watch.Hotspots {
		if seen[h.ID] {
			return fmt.Errorf("%w: duplicate hotspot id %d", ErrInvalid, h.ID)
		}
		seen[h.ID] = true

		if h.Anchor == "" {
			return fmt.Errorf("%w: hotspot %d has no anchor", ErrInvalid, h.ID)
		}
		if !hotspotStates[h.State] {
			return fmt.Errorf("%w: hotspot %d has unknown state %q", ErrInvalid, h.ID, h.State)
		}
		switch h.Mode {
		case HotspotContainment:
			if h.ViewBox == "" {
				return fmt.Errorf("%w: hotspot %d needs a viewbox", ErrInvalid, h.ID)
			}
		case HotspotDirectional:
		default:
			return fmt.Errorf("%w: hotspot %d has unknown mode %q", ErrInvalid, h.ID, h.Mode)
		}
	}
	return nil
}
