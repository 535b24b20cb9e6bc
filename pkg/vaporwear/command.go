package vaporwear

import "fmt"

// Command names accepted by Enqueue.
const (
	CmdSetCameraBehavior  = "setCameraBehavior"
	CmdSetBandMaterial    = "setBandMaterial"
	CmdSetGlassMaterial   = "setGlassMaterial"
	CmdSetGemMaterial     = "setGemMaterial"
	CmdSetSettingMaterial = "setSettingMaterial"
	CmdSetJewelry         = "setJewelry"
	CmdSetZoom            = "setZoom"
	CmdDisableMouseWheel  = "disableMouseWheel"
)

// Command is a host request that can cross goroutines.
type Command struct {
	Name    string  `json:"command"`
	Value   string  `json:"value,omitempty"`
	Percent float32 `json:"percent,omitempty"`
}

// Enqueue validates cmd and schedules it for the next Frame. It is safe to
// call from any goroutine.
func (e *Experience) Enqueue(cmd Command) error {
	apply, err := e.command(cmd)
	if err != nil {
		return err
	}
	e.scene.Post(apply)
	return nil
}

// command resolves cmd into a function for the frame goroutine. Argument
// errors are caught here, before anything is queued.
func (e *Experience) command(cmd Command) (func(), error) {
	switch cmd.Name {
	case CmdSetCameraBehavior:
		state, err := parseBehavior(cmd.Value)
		if err != nil {
			return nil, err
		}
		return func() { e.showroom.SetState(state) }, nil
	case CmdSetBandMaterial:
		return func() { e.SetBandMaterial(cmd.Value) }, nil
	case CmdSetGlassMaterial:
		return func() { e.SetGlassMaterial(cmd.Value) }, nil
	case CmdSetGemMaterial:
		return func() { e.SetGemMaterial(cmd.Value) }, nil
	case CmdSetSettingMaterial:
		return func() { e.SetSettingMaterial(cmd.Value) }, nil
	case CmdSetJewelry:
		kind, err := parseJewelry(cmd.Value)
		if err != nil {
			return nil, err
		}
		return func() { _ = e.SetJewelry(kind) }, nil
	case CmdSetZoom:
		return func() { e.SetZoom(cmd.Percent) }, nil
	case CmdDisableMouseWheel:
		return e.DisableMouseWheel, nil
	}
	return nil, fmt.Errorf("%q: %w", cmd.Name, ErrUnknownCommand)
}
