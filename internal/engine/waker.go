package engine

import "github.com/demellj/wmgrd/internal/x11"

// Waker lets the transport goroutine interrupt the engine goroutine's
// blocking WaitForEvent. It holds the same Session handle the engine
// loop reads from; SendWake is the only Session method the transport
// goroutine is permitted to call directly.
type Waker struct {
	sess x11.Session
}

// NewWaker wraps sess for use from the transport goroutine.
func NewWaker(sess x11.Session) *Waker {
	return &Waker{sess: sess}
}

// Wake sends the self-addressed ClientMessage that breaks the engine
// goroutine out of its blocking read so it can drain one request.
func (w *Waker) Wake() error {
	return w.sess.SendWake()
}
