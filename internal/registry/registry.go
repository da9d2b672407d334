// Package registry holds the engine's authoritative window state: which
// windows are visible, which are hidden, their stacking order, and the
// pending geometry overlays a Commit will apply. It has no X11 or I/O
// dependency and is safe to use only from a single goroutine — the engine
// loop confines it, so no lock guards it here.
package registry

import (
	"sort"
	"time"
)

// WindowID is an opaque X11 window handle, compared only by equality.
type WindowID = uint32

// Point is a pending or last-observed window position.
type Point struct {
	X, Y int32
}

// Size is a pending or last-observed window size.
type Size struct {
	W, H uint32
}

// WinInfo is the authoritative record kept per managed window.
type WinInfo struct {
	ID             WindowID
	ZIndex         uint32
	DiscoveryTime  time.Time
	LastUpdateTime time.Time

	// seq is the monotonically increasing order in which the window was
	// first observed. Map iteration order is random, so zindex ties are
	// broken by this field rather than by map ordering.
	seq uint64
}

// Snapshot is a window id paired with its current geometry overlay, as
// returned by the List* operations.
type Snapshot struct {
	ID     WindowID
	X, Y   int32
	W, H   uint32
}

// Registry is the process-wide authoritative window state.
type Registry struct {
	visible map[WindowID]*WinInfo
	hidden  map[WindowID]*WinInfo
	loc     map[WindowID]Point
	size    map[WindowID]Size

	lastDiscovery time.Time
	nextSeq       uint64

	virtualRoot      WindowID
	pendingInputAtom uint32
}

// New creates an empty Registry. virtualRoot is the engine's own backing
// window and is never tracked; pendingInputAtom is recorded for callers
// that need to recognize it without importing the x11 package.
func New(virtualRoot WindowID, pendingInputAtom uint32, now time.Time) *Registry {
	return &Registry{
		visible:          make(map[WindowID]*WinInfo),
		hidden:           make(map[WindowID]*WinInfo),
		loc:              make(map[WindowID]Point),
		size:             make(map[WindowID]Size),
		lastDiscovery:    now,
		virtualRoot:      virtualRoot,
		pendingInputAtom: pendingInputAtom,
	}
}

// VirtualRoot returns the engine's backing window id.
func (r *Registry) VirtualRoot() WindowID { return r.virtualRoot }

// PendingInputAtom returns the interned self-wake atom.
func (r *Registry) PendingInputAtom() uint32 { return r.pendingInputAtom }

// AddIfEligible inserts id into hidden, provided it isn't the virtual root,
// doesn't have override-redirect set, and (per unmapped) is actually
// mapped. It is a no-op if id is already tracked in either map. now is the
// caller's monotonic clock reading for discovery/update timestamps.
func (r *Registry) AddIfEligible(id WindowID, overrideRedirect bool, unmapped bool, now time.Time) bool {
	if id == r.virtualRoot || overrideRedirect || unmapped {
		return false
	}
	if _, ok := r.visible[id]; ok {
		return false
	}
	if _, ok := r.hidden[id]; ok {
		return false
	}
	r.hidden[id] = &WinInfo{
		ID:             id,
		ZIndex:         0,
		DiscoveryTime:  now,
		LastUpdateTime: now,
		seq:            r.nextSeq,
	}
	r.nextSeq++
	return true
}

// Remove drops id from visible, hidden, loc, and size. Fire-and-forget: a
// no-op if id isn't tracked.
func (r *Registry) Remove(id WindowID) {
	delete(r.visible, id)
	delete(r.hidden, id)
	delete(r.loc, id)
	delete(r.size, id)
}

// SetZIndex mutates id's stacking key in whichever map holds it. It
// returns true iff the value actually changed, and updates
// LastUpdateTime only in that case.
func (r *Registry) SetZIndex(id WindowID, z uint32, now time.Time) bool {
	if info, ok := r.hidden[id]; ok {
		return setZIndex(info, z, now)
	}
	if info, ok := r.visible[id]; ok {
		return setZIndex(info, z, now)
	}
	return false
}

func setZIndex(info *WinInfo, z uint32, now time.Time) bool {
	if info.ZIndex == z {
		return false
	}
	info.ZIndex = z
	info.LastUpdateTime = now
	return true
}

// SetVisibility moves id between the hidden and visible maps. It returns
// true iff a move actually occurred — i.e. the source map contained id and
// it wasn't already in the requested state.
func (r *Registry) SetVisibility(id WindowID, toVisible bool, now time.Time) bool {
	if toVisible {
		info, ok := r.hidden[id]
		if !ok {
			return false
		}
		delete(r.hidden, id)
		info.LastUpdateTime = now
		r.visible[id] = info
		return true
	}
	info, ok := r.visible[id]
	if !ok {
		return false
	}
	delete(r.visible, id)
	info.LastUpdateTime = now
	r.hidden[id] = info
	return true
}

// IsVisible reports whether id is currently tracked in the visible map.
func (r *Registry) IsVisible(id WindowID) bool {
	_, ok := r.visible[id]
	return ok
}

// SetLoc overlays id's pending/last-observed position. No-op, failure-free.
func (r *Registry) SetLoc(id WindowID, x, y int32) {
	r.loc[id] = Point{X: x, Y: y}
}

// SetSize overlays id's pending/last-observed size. No-op, failure-free.
func (r *Registry) SetSize(id WindowID, w, h uint32) {
	r.size[id] = Size{W: w, H: h}
}

// DrainNewlyDiscovered returns every hidden record discovered since the
// last call (or since New, for the first call), sorted by zindex
// descending (ties broken by stable insertion order), then advances the
// high-water mark to now.
func (r *Registry) DrainNewlyDiscovered(now time.Time) []WinInfo {
	cutoff := r.lastDiscovery
	var out []WinInfo
	for _, info := range r.hidden {
		if !info.DiscoveryTime.Before(cutoff) {
			out = append(out, *info)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZIndex != out[j].ZIndex {
			return out[i].ZIndex > out[j].ZIndex
		}
		return out[i].seq < out[j].seq
	})
	r.lastDiscovery = now
	return out
}

// SnapshotVisible enumerates every visible window's id and geometry,
// defaulting to (0,0) when an overlay entry is absent.
func (r *Registry) SnapshotVisible() []Snapshot {
	return r.snapshot(r.visible)
}

// SnapshotHidden enumerates every hidden window's id and geometry,
// defaulting to (0,0) when an overlay entry is absent.
func (r *Registry) SnapshotHidden() []Snapshot {
	return r.snapshot(r.hidden)
}

func (r *Registry) snapshot(wins map[WindowID]*WinInfo) []Snapshot {
	out := make([]Snapshot, 0, len(wins))
	for id := range wins {
		loc := r.loc[id]
		sz := r.size[id]
		out = append(out, Snapshot{ID: id, X: loc.X, Y: loc.Y, W: sz.W, H: sz.H})
	}
	return out
}

// VisibleSortedByZIndex returns visible windows and their geometry, stably
// sorted ascending by zindex — the order the commit protocol applies
// Above configure requests in.
func (r *Registry) VisibleSortedByZIndex() []Snapshot {
	type keyed struct {
		Snapshot
		z   uint32
		seq uint64
	}
	tmp := make([]keyed, 0, len(r.visible))
	for id, info := range r.visible {
		loc := r.loc[id]
		sz := r.size[id]
		tmp = append(tmp, keyed{Snapshot: Snapshot{ID: id, X: loc.X, Y: loc.Y, W: sz.W, H: sz.H}, z: info.ZIndex, seq: info.seq})
	}
	sort.Slice(tmp, func(i, j int) bool {
		if tmp[i].z != tmp[j].z {
			return tmp[i].z < tmp[j].z
		}
		return tmp[i].seq < tmp[j].seq
	})
	out := make([]Snapshot, len(tmp))
	for i, k := range tmp {
		out[i] = k.Snapshot
	}
	return out
}
