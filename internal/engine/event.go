package engine

import (
	"time"

	"github.com/demellj/wmgrd/internal/registry"
	"github.com/demellj/wmgrd/internal/x11"
)

// handleEvent translates one decoded X11 event into Registry mutations
// and reports whether the driver should keep blocking on the next event.
// It returns false exactly when ev is the self-sent wake ClientMessage.
func handleEvent(reg *registry.Registry, sess x11.Session, ev x11.Event, now time.Time) bool {
	switch e := ev.(type) {
	case x11.MapRequestEvent:
		attrs, err := sess.GetWindowAttributes(e.Window)
		overrideRedirect := err == nil && attrs.OverrideRedirect
		// A window that just issued MapRequest is, by definition, being
		// asked to become mapped; the live map_state at this instant is
		// not the eligibility gate here the way it is during the initial
		// scan, where attrs.Unmapped distinguishes already-live clients
		// from the ones this manager must still discover.
		reg.AddIfEligible(e.Window, overrideRedirect, false, now)
		_ = sess.MapWindow(e.Window)
		return true

	case x11.UnmapNotifyEvent:
		reg.Remove(e.Window)
		return true

	case x11.ConfigureRequestEvent:
		aux := x11.ConfigureAux{}
		below := x11.StackModeBelow
		aux.StackMode = &below

		if e.X != nil {
			aux.X = e.X
		}
		if e.Y != nil {
			aux.Y = e.Y
		}
		if e.Width != nil {
			aux.Width = e.Width
		}
		if e.Height != nil {
			aux.Height = e.Height
		}
		if e.X != nil && e.Y != nil {
			reg.SetLoc(e.Window, *e.X, *e.Y)
		}
		if e.Width != nil && e.Height != nil {
			reg.SetSize(e.Window, *e.Width, *e.Height)
		}

		_ = sess.ConfigureWindow(e.Window, aux)
		return true

	case x11.ClientMessageEvent:
		if e.Type == sess.PendingInputAtom() {
			return false
		}
		return true

	default:
		return true
	}
}
