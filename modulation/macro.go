package modulation

import (
	"errors"
	"fmt"

	"github.com/tonefold/modkit/internal/dsputil"
)

// MacroTarget maps a macro to one destination range. Curve is restricted to
// linear, exponential and logarithmic; the S-curve is not offered for macros.
type MacroTarget struct {
	Destination ModDestination
	Min         float64
	Max         float64
	Curve       Curve
}

// MacroConfig is one assignable macro control.
type MacroConfig struct {
	ID      int
	Name    string
	Value   float64 // 0..1
	Default float64
	Targets []MacroTarget
}

// ErrMacroTargetCapacity is returned when a macro already has the maximum
// number of targets.
var ErrMacroTargetCapacity = errors.New("macro target capacity exceeded")

// NewMacroConfig returns a macro with target capacity reserved.
func NewMacroConfig(id int, name string, defaultValue float64) MacroConfig {
	defaultValue = dsputil.Clamp(defaultValue, 0, 1)
	return MacroConfig{
		ID:      id,
		Name:    name,
		Value:   defaultValue,
		Default: defaultValue,
		Targets: make([]MacroTarget, 0, MaxMacroTargets),
	}
}

// AddTarget appends a target. The config is left unchanged when the per-macro
// capacity is exhausted.
func (m *MacroConfig) AddTarget(target MacroTarget) error {
	if len(m.Targets) >= MaxMacroTargets {
		return fmt.Errorf("%w: macro %d already has %d targets", ErrMacroTargetCapacity, m.ID, MaxMacroTargets)
	}
	m.Targets = append(m.Targets, target)
	return nil
}

// CalculateMacroValue maps a normalized macro value into the target's range.
// The macro value is clamped to [0, 1], shaped by the target curve, then
// scaled to [Min, Max]. A macro with zero targets is legal and has no effect;
// this function concerns a single target.
func CalculateMacroValue(macroValue float64, target MacroTarget) float64 {
	curved := ApplyCurve(dsputil.Clamp(macroValue, 0, 1), target.Curve)
	return target.Min + (target.Max-target.Min)*curved
}

// MacroBank holds the engine's macro controls.
type MacroBank struct {
	macros [NumMacros]MacroConfig
}

// NewMacroBank returns a bank of NumMacros macros with default names.
func NewMacroBank() *MacroBank {
	b := &MacroBank{}
	for i := range b.macros {
		b.macros[i] = NewMacroConfig(i+1, fmt.Sprintf("Macro %d", i+1), 0)
	}
	return b
}

// Macro returns a pointer to the macro with the given id (1-based).
func (b *MacroBank) Macro(id int) (*MacroConfig, error) {
	if id < 1 || id > NumMacros {
		return nil, fmt.Errorf("macro id %d out of range 1..%d", id, NumMacros)
	}
	return &b.macros[id-1], nil
}

// SetValue sets the normalized value of a macro, clamped to [0, 1].
func (b *MacroBank) SetValue(id int, value float64) error {
	m, err := b.Macro(id)
	if err != nil {
		return err
	}
	m.Value = dsputil.Clamp(value, 0, 1)
	return nil
}

// Apply writes the current macro values into a modulation context.
func (b *MacroBank) Apply(ctx *ModContext) {
	for i := range b.macros {
		ctx.Macros[i] = b.macros[i].Value
	}
}
