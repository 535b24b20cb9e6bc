// Package viewer runs an experience in an SDL window.
package viewer

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/config"
	"github.com/Faultbox/vaporwear/internal/engine/debug"
	"github.com/Faultbox/vaporwear/internal/engine/input"
	"github.com/Faultbox/vaporwear/internal/engine/renderer"
	"github.com/Faultbox/vaporwear/internal/engine/window"
	"github.com/Faultbox/vaporwear/internal/logger"
	"github.com/Faultbox/vaporwear/pkg/math"
	"github.com/Faultbox/vaporwear/pkg/vaporwear"
)

// stateKeys maps the number keys to camera behaviors.
var stateKeys = map[sdl.Scancode]string{
	sdl.SCANCODE_1: "overall",
	sdl.SCANCODE_2: "clasp",
	sdl.SCANCODE_3: "face",
	sdl.SCANCODE_4: "levitate",
	sdl.SCANCODE_5: "configure",
}

// Viewer owns the window and feeds its input to an experience.
type Viewer struct {
	exp         *vaporwear.Experience
	window      *window.Window
	renderer    *renderer.Renderer
	input       *input.Input
	screenshots *debug.ScreenshotCapture
	frameTime   time.Duration
	log         *zap.Logger
}

// New opens a window for exp. It must be called on the main goroutine.
func New(exp *vaporwear.Experience, cfg config.GraphicsConfig) (*Viewer, error) {
	v := &Viewer{
		exp:         exp,
		input:       input.New(),
		screenshots: debug.NewScreenshotCapture("screenshots", "vaporwear"),
		log:         logger.Named("viewer"),
	}
	if cfg.FPSLimit > 0 {
		v.frameTime = time.Second / time.Duration(cfg.FPSLimit)
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      "Vaporwear",
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.Markers = v.hotspotMarkers

	exp.Scene().SetRenderer(v.renderer)
	exp.Resize(v.window.Size())
	return v, nil
}

// hotspotMarkers returns the anchors of the visible hotspots.
func (v *Viewer) hotspotMarkers() []math.Vec3 {
	var markers []math.Vec3
	for _, h := range v.exp.Showroom().Watch().Hotspots() {
		if h.Visible {
			markers = append(markers, h.Anchor.AbsolutePosition())
		}
	}
	return markers
}

// Run drives the experience until the window closes or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	v.log.Info("starting frame loop")

	frames := 0
	fpsTimer := time.Now()
	for {
		start := time.Now()
		if ctx.Err() != nil {
			return nil
		}

		if v.input.Update() {
			return nil
		}
		if quit := v.handleEvents(); quit {
			return nil
		}

		v.exp.Frame()
		v.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frames))
			v.window.SetTitle(v.title())
			frames = 0
			fpsTimer = time.Now()
		}

		if v.frameTime > 0 {
			if rest := v.frameTime - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
}

func (v *Viewer) handleEvents() (quit bool) {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.exp.Resize(event.Width, event.Height)
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventDrag:
			v.exp.HandleDrag(event.DX, event.DY)
		case input.EventWheel:
			v.exp.HandleWheel(event.Wheel)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				return true
			case sdl.SCANCODE_F12:
				v.screenshot()
			case sdl.SCANCODE_J:
				v.toggleStuds()
			default:
				if name, ok := stateKeys[event.Key]; ok {
					if err := v.exp.SetCameraBehavior(name); err != nil {
						v.log.Warn("camera behavior", zap.Error(err))
					}
				}
			}
		}
	}
	return false
}

func (v *Viewer) toggleStuds() {
	kind := vaporwear.JewelryStuds
	if v.exp.Showroom().StudsVisible() {
		kind = vaporwear.JewelryNone
	}
	if err := v.exp.SetJewelry(kind); err != nil {
		v.log.Warn("jewelry", zap.Error(err))
	}
}

func (v *Viewer) screenshot() {
	w, h := v.window.DrawableSize()
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))

	path, err := v.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the renderer and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	v.exp.Scene().SetRenderer(nil)
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

// title names the current state and, for models with a screen, the time
// on the watch face.
func (v *Viewer) title() string {
	sr := v.exp.Showroom()
	if text, ok := sr.Watch().Screen(); ok {
		return fmt.Sprintf("Vaporwear - %s - %s%s", sr.State(), text.HoursMinutes, text.Seconds)
	}
	return fmt.Sprintf("Vaporwear - %s", sr.State())
}
