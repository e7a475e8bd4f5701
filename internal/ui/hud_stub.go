//go:build !ebiten

package ui

import "cyclario/internal/sims/cyclario"

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(*cyclario.Session, int, int) *HUD { return nil }

// NextMetric is a no-op in the headless build.
func (h *HUD) NextMetric() {}

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int) {}
