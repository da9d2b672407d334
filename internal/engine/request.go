package engine

import (
	"time"

	"github.com/demellj/wmgrd/internal/registry"
	"github.com/demellj/wmgrd/internal/wire"
	"github.com/demellj/wmgrd/internal/x11"
)

// handleRequest interprets one control-plane Request against the
// Registry and produces its Response. Geometry-affecting requests
// mutate only deferred overlays; the only synchronous X11 round-trips
// here are FocusWindow and Commit. A non-nil error means Commit hit an
// X11 failure partway through: overlays are untouched and the caller
// must treat it as fatal (the engine offers no partial-commit recovery;
// the policy process may re-issue Commit after a fresh connection).
func handleRequest(reg *registry.Registry, sess x11.Session, req wire.Request, now time.Time) (wire.Response, error) {
	switch r := req.(type) {
	case wire.ListNewWindows:
		drained := reg.DrainNewlyDiscovered(now)
		geom := make(map[uint32]registry.Snapshot)
		for _, s := range reg.SnapshotHidden() {
			geom[s.ID] = s
		}
		snaps := make([]registry.Snapshot, 0, len(drained))
		for _, info := range drained {
			s := geom[info.ID]
			s.ID = info.ID
			snaps = append(snaps, s)
		}
		return wire.NewWindows{Windows: toWindowInfo(snaps)}, nil

	case wire.ListVisibleWindows:
		return wire.VisibleWindows{Windows: toWindowInfo(reg.SnapshotVisible())}, nil

	case wire.ListHiddenWindows:
		return wire.HiddenWindows{Windows: toWindowInfo(reg.SnapshotHidden())}, nil

	case wire.ChangeVisibility:
		var changed []uint32
		for _, item := range r.Items {
			if reg.SetVisibility(item.ID, item.Visible, now) {
				changed = append(changed, item.ID)
			}
		}
		return wire.VisibiltyChanged{IDs: changed}, nil

	case wire.ChangeZIndex:
		var changed []uint32
		for _, item := range r.Items {
			if reg.SetZIndex(item.ID, item.ZIndex, now) {
				changed = append(changed, item.ID)
			}
		}
		return wire.ZIndexChanged{IDs: changed}, nil

	case wire.MoveWindows:
		for _, item := range r.Items {
			reg.SetLoc(item.ID, item.X, item.Y)
		}
		return wire.MoveComplete{}, nil

	case wire.ResizeWindows:
		for _, item := range r.Items {
			reg.SetSize(item.ID, item.Width, item.Height)
		}
		return wire.ResizeComplete{}, nil

	case wire.FocusWindow:
		if !reg.IsVisible(r.ID) {
			return wire.WindowFocused{Focused: false}, nil
		}
		if err := sess.SetInputFocus(r.ID); err != nil {
			return wire.WindowFocused{Focused: false}, nil
		}
		_ = sess.Flush()
		return wire.WindowFocused{Focused: true}, nil

	case wire.Commit:
		if err := commit(reg, sess); err != nil {
			return nil, err
		}
		return wire.CommitComplete{}, nil

	default:
		return nil, nil
	}
}

func toWindowInfo(snaps []registry.Snapshot) []wire.WindowInfo {
	out := make([]wire.WindowInfo, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, wire.WindowInfo{ID: s.ID, X: s.X, Y: s.Y, Width: s.W, Height: s.H})
	}
	return out
}
