package engine

import (
	"sync"

	"github.com/demellj/wmgrd/internal/x11"
)

// configureCall records one ConfigureWindow invocation for assertions.
type configureCall struct {
	id        uint32
	stackMode x11.StackMode
	x, y      int32
	w, h      uint32
	hasX      bool
	hasY      bool
	hasWidth  bool
	hasHeight bool
	hasGeom   bool // true iff all four of X/Y/Width/Height were present
}

// fakeSession is an in-memory x11.Session used to drive the engine
// without a live X server. WaitForEvent blocks on a channel the same
// way a real blocking X11 read does, so pushing an event (or SendWake)
// from another goroutine is the only way to unblock it — this is what
// lets TestEngine_Submit* exercise the real Serve loop.
type fakeSession struct {
	root        uint32
	virtualRoot uint32
	pendingAtom uint32

	events chan x11.Event

	mu    sync.Mutex
	attrs map[uint32]x11.Attrs
	tree  []uint32

	configureCalls []configureCall
	focused        []uint32
	mapped         []uint32
	wakeCalls      int
	flushCalls     int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		root:        1,
		virtualRoot: 999,
		pendingAtom: 42,
		events:      make(chan x11.Event, 64),
		attrs:       make(map[uint32]x11.Attrs),
	}
}

func (f *fakeSession) Root() uint32             { return f.root }
func (f *fakeSession) VirtualRoot() uint32      { return f.virtualRoot }
func (f *fakeSession) PendingInputAtom() uint32 { return f.pendingAtom }

func (f *fakeSession) pushEvent(ev x11.Event) { f.events <- ev }

func (f *fakeSession) WaitForEvent() (x11.Event, error) {
	return <-f.events, nil
}

func (f *fakeSession) SendWake() error {
	f.mu.Lock()
	f.wakeCalls++
	f.mu.Unlock()
	f.pushEvent(x11.ClientMessageEvent{Window: f.root, Type: f.pendingAtom})
	return nil
}

func (f *fakeSession) ConfigureWindow(id uint32, aux x11.ConfigureAux) error {
	call := configureCall{id: id}
	if aux.StackMode != nil {
		call.stackMode = *aux.StackMode
	}
	if aux.X != nil {
		call.hasX = true
		call.x = *aux.X
	}
	if aux.Y != nil {
		call.hasY = true
		call.y = *aux.Y
	}
	if aux.Width != nil {
		call.hasWidth = true
		call.w = *aux.Width
	}
	if aux.Height != nil {
		call.hasHeight = true
		call.h = *aux.Height
	}
	call.hasGeom = call.hasX && call.hasY && call.hasWidth && call.hasHeight
	f.configureCalls = append(f.configureCalls, call)
	return nil
}

func (f *fakeSession) SetInputFocus(id uint32) error {
	f.focused = append(f.focused, id)
	return nil
}

func (f *fakeSession) MapWindow(id uint32) error {
	f.mapped = append(f.mapped, id)
	return nil
}

func (f *fakeSession) QueryTree() ([]uint32, error) { return f.tree, nil }

func (f *fakeSession) GetWindowAttributes(id uint32) (x11.Attrs, error) {
	if a, ok := f.attrs[id]; ok {
		return a, nil
	}
	return x11.Attrs{}, nil
}

func (f *fakeSession) Flush() error { f.flushCalls++; return nil }
func (f *fakeSession) Close() error { return nil }
