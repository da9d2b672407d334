// Package x11 wraps the X11 client connection the engine drives: the
// virtual-root stacking separator, the pending-input wake atom, and the
// handful of typed requests the engine and its waker issue against the
// server. It carries no Registry or policy knowledge — that lives one
// layer up, behind the Session interface.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/demellj/wmgrd/internal/wmerrors"
)

const pendingInputAtomName = "__WMGR_PENDING_INPUT"

const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskEnterWindow

// StackMode selects which side of a sibling a ConfigureWindow request
// places a window on.
type StackMode uint8

const (
	StackModeAbove StackMode = iota
	StackModeBelow
)

func (m StackMode) proto() byte {
	if m == StackModeBelow {
		return xproto.StackModeBelow
	}
	return xproto.StackModeAbove
}

// ConfigureAux carries the optional fields of a ConfigureWindow request.
// A nil field is omitted from the value-mask the server sees.
type ConfigureAux struct {
	X, Y          *int32
	Width, Height *uint32
	StackMode     *StackMode
}

// Attrs is the subset of GetWindowAttributes the engine consults to
// decide registry eligibility.
type Attrs struct {
	OverrideRedirect bool
	Unmapped         bool
}

// Session is everything the engine and its waker need from the X11
// connection, abstracted so the engine/event/request logic can be
// exercised against a fake in tests without a live server.
type Session interface {
	Root() uint32
	VirtualRoot() uint32
	PendingInputAtom() uint32

	WaitForEvent() (Event, error)
	SendWake() error

	ConfigureWindow(id uint32, aux ConfigureAux) error
	SetInputFocus(id uint32) error
	MapWindow(id uint32) error
	QueryTree() ([]uint32, error)
	GetWindowAttributes(id uint32) (Attrs, error)
	Flush() error
	Close() error
}

// Event is the decoded shape of one X11 server event the engine acts on.
type Event interface {
	isEvent()
}

type MapRequestEvent struct{ Window uint32 }
type UnmapNotifyEvent struct{ Window uint32 }

// ConfigureRequestEvent carries only the present-value bits the engine
// cares about; absent fields are nil.
type ConfigureRequestEvent struct {
	Window        uint32
	X, Y          *int32
	Width, Height *uint32
}

type ClientMessageEvent struct {
	Window uint32
	Type   uint32
}

// OtherEvent is any server event the engine does not special-case; it
// still counts as "keep blocking".
type OtherEvent struct{}

func (MapRequestEvent) isEvent()       {}
func (UnmapNotifyEvent) isEvent()      {}
func (ConfigureRequestEvent) isEvent() {}
func (ClientMessageEvent) isEvent()    {}
func (OtherEvent) isEvent()            {}

// xgbSession is the real, live-server Session implementation.
type xgbSession struct {
	conn             *xgb.Conn
	root             xproto.Window
	virtualRoot      xproto.Window
	pendingInputAtom xproto.Atom
}

// Connect establishes the X11 connection, interns the wake atom, creates
// and maps the full-screen virtual root, and claims substructure-redirect
// on the real root. An AccessError at that last step means another
// window manager already holds it.
func Connect() (Session, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, &wmerrors.ConnectError{Err: err}
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)
	root := screen.Root

	atomReply, err := xproto.InternAtom(conn, false, uint16(len(pendingInputAtomName)), pendingInputAtomName).Reply()
	if err != nil {
		conn.Close()
		return nil, &wmerrors.ConnectError{Err: err}
	}

	vroot, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, &wmerrors.ResourceExhausted{Resource: "XID"}
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		vroot,
		root,
		0, 0, screen.WidthInPixels, screen.HeightInPixels,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel,
		[]uint32{screen.BlackPixel},
	).Check()
	if err != nil {
		conn.Close()
		return nil, &wmerrors.ConnectionError{Err: err}
	}

	if err := xproto.MapWindowChecked(conn, vroot).Check(); err != nil {
		conn.Close()
		return nil, &wmerrors.ConnectionError{Err: err}
	}

	err = xproto.ChangeWindowAttributesChecked(conn, root, xproto.CwEventMask, []uint32{rootEventMask}).Check()
	if err != nil {
		conn.Close()
		if protoErr, ok := asProtocolError(err); ok {
			return nil, protoErr
		}
		return nil, &wmerrors.ConnectionError{Err: err}
	}

	return &xgbSession{
		conn:             conn,
		root:             root,
		virtualRoot:      vroot,
		pendingInputAtom: atomReply.Atom,
	}, nil
}

func asProtocolError(err error) (*wmerrors.X11ProtocolError, bool) {
	if accessErr, ok := err.(xproto.AccessError); ok {
		return &wmerrors.X11ProtocolError{Code: accessErr.ErrorCode, Detail: "another window manager is active"}, true
	}
	return &wmerrors.X11ProtocolError{}, false
}

func (s *xgbSession) Root() uint32             { return uint32(s.root) }
func (s *xgbSession) VirtualRoot() uint32      { return uint32(s.virtualRoot) }
func (s *xgbSession) PendingInputAtom() uint32 { return uint32(s.pendingInputAtom) }

func (s *xgbSession) WaitForEvent() (Event, error) {
	ev, err := s.conn.WaitForEvent()
	if err != nil {
		return nil, &wmerrors.ConnectionError{Err: err}
	}
	return decodeEvent(ev, s.pendingInputAtom), nil
}

func decodeEvent(ev xgb.Event, pendingInputAtom xproto.Atom) Event {
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		return MapRequestEvent{Window: uint32(e.Window)}
	case xproto.UnmapNotifyEvent:
		return UnmapNotifyEvent{Window: uint32(e.Window)}
	case xproto.ConfigureRequestEvent:
		out := ConfigureRequestEvent{Window: uint32(e.Window)}
		if e.ValueMask&xproto.ConfigWindowX != 0 {
			x := int32(e.X)
			out.X = &x
		}
		if e.ValueMask&xproto.ConfigWindowY != 0 {
			y := int32(e.Y)
			out.Y = &y
		}
		if e.ValueMask&xproto.ConfigWindowWidth != 0 {
			w := uint32(e.Width)
			out.Width = &w
		}
		if e.ValueMask&xproto.ConfigWindowHeight != 0 {
			h := uint32(e.Height)
			out.Height = &h
		}
		return out
	case xproto.ClientMessageEvent:
		if e.Format == 32 && e.Type == pendingInputAtom {
			return ClientMessageEvent{Window: uint32(e.Window), Type: uint32(e.Type)}
		}
		return OtherEvent{}
	default:
		return OtherEvent{}
	}
}

// SendWake sends the self-addressed ClientMessage the engine recognizes
// as "stop blocking, a request is waiting". Called from the transport
// goroutine.
func (s *xgbSession) SendWake() error {
	data := xproto.ClientMessageDataUnionData32New([5]uint32{0, 0, 0, 0, 0})
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: s.root,
		Type:   s.pendingInputAtom,
		Data:   data,
	}
	err := xproto.SendEventChecked(
		s.conn,
		false,
		s.root,
		xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
	if err != nil {
		return &wmerrors.SendError{Err: err}
	}
	return nil
}

func (s *xgbSession) ConfigureWindow(id uint32, aux ConfigureAux) error {
	var mask uint16
	var values []uint32

	if aux.X != nil {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(*aux.X))
	}
	if aux.Y != nil {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(*aux.Y))
	}
	if aux.Width != nil {
		mask |= xproto.ConfigWindowWidth
		values = append(values, *aux.Width)
	}
	if aux.Height != nil {
		mask |= xproto.ConfigWindowHeight
		values = append(values, *aux.Height)
	}
	if aux.StackMode != nil {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, uint32(aux.StackMode.proto()))
	}

	err := xproto.ConfigureWindowChecked(s.conn, xproto.Window(id), mask, values).Check()
	if err != nil {
		if protoErr, ok := asProtocolError(err); ok {
			return protoErr
		}
		return &wmerrors.X11ProtocolError{Detail: err.Error()}
	}
	return nil
}

func (s *xgbSession) SetInputFocus(id uint32) error {
	err := xproto.SetInputFocusChecked(s.conn, xproto.InputFocusParent, xproto.Window(id), xproto.TimeCurrentTime).Check()
	if err != nil {
		if protoErr, ok := asProtocolError(err); ok {
			return protoErr
		}
		return &wmerrors.X11ProtocolError{Detail: err.Error()}
	}
	return nil
}

func (s *xgbSession) MapWindow(id uint32) error {
	err := xproto.MapWindowChecked(s.conn, xproto.Window(id)).Check()
	if err != nil {
		if protoErr, ok := asProtocolError(err); ok {
			return protoErr
		}
		return &wmerrors.X11ProtocolError{Detail: err.Error()}
	}
	return nil
}

func (s *xgbSession) QueryTree() ([]uint32, error) {
	reply, err := xproto.QueryTree(s.conn, s.root).Reply()
	if err != nil {
		return nil, &wmerrors.X11ProtocolError{Detail: err.Error()}
	}
	out := make([]uint32, 0, len(reply.Children))
	for _, c := range reply.Children {
		out = append(out, uint32(c))
	}
	return out, nil
}

func (s *xgbSession) GetWindowAttributes(id uint32) (Attrs, error) {
	reply, err := xproto.GetWindowAttributes(s.conn, xproto.Window(id)).Reply()
	if err != nil {
		return Attrs{}, &wmerrors.X11ProtocolError{Detail: err.Error()}
	}
	return Attrs{
		OverrideRedirect: reply.OverrideRedirect,
		Unmapped:         reply.MapState == xproto.MapStateUnmapped,
	}, nil
}

func (s *xgbSession) Flush() error {
	s.conn.Sync()
	return nil
}

func (s *xgbSession) Close() error {
	s.conn.Close()
	return nil
}

var _ fmt.Stringer = StackMode(0)

func (m StackMode) String() string {
	if m == StackModeBelow {
		return "Below"
	}
	return "Above"
}
