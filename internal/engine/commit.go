package engine

import (
	"github.com/demellj/wmgrd/internal/registry"
	"github.com/demellj/wmgrd/internal/x11"
)

// commit executes the atomic geometry apply: hidden windows sink below
// the virtual root, the virtual root itself is raised above them, then
// every visible window is raised in ascending zindex order so the final
// stacking mirrors descending zindex top-down. Overlay maps are left
// untouched so subsequent snapshots keep reporting accurate geometry.
func commit(reg *registry.Registry, sess x11.Session) error {
	visible := reg.VisibleSortedByZIndex()
	hidden := reg.SnapshotHidden()

	below := x11.StackModeBelow
	for _, h := range hidden {
		x, y, w, hh := h.X, h.Y, h.W, h.H
		if err := sess.ConfigureWindow(h.ID, x11.ConfigureAux{
			StackMode: &below,
			X:         &x,
			Y:         &y,
			Width:     &w,
			Height:    &hh,
		}); err != nil {
			return err
		}
	}

	above := x11.StackModeAbove
	if err := sess.ConfigureWindow(reg.VirtualRoot(), x11.ConfigureAux{StackMode: &above}); err != nil {
		return err
	}

	for _, v := range visible {
		x, y, w, h := v.X, v.Y, v.W, v.H
		if err := sess.ConfigureWindow(v.ID, x11.ConfigureAux{
			StackMode: &above,
			X:         &x,
			Y:         &y,
			Width:     &w,
			Height:    &h,
		}); err != nil {
			return err
		}
	}

	return sess.Flush()
}
