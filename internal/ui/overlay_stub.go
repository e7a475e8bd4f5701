//go:build !ebiten

package ui

import (
	"cyclario/internal/core"
	"cyclario/internal/sims/cyclario"
)

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct {
	ShowBuses bool
	Cursor    core.Coord
}

// NewOverlay constructs a stub overlay.
func NewOverlay(*cyclario.Session, int) *Overlay { return &Overlay{ShowBuses: true} }

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any, int) {}
