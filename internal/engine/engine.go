// Package engine is the window-state core: the Registry, the X11 event
// handler, the control-plane request handler, and the single
// arbitration loop that interleaves them on one goroutine. Everything
// here is goroutine-confined to that loop except Submit, which the
// transport side calls from a different goroutine and which serializes
// concurrent callers behind a mutex before handing work to the loop.
package engine

import (
	"sync"
	"time"

	"github.com/demellj/wmgrd/internal/logger"
	"github.com/demellj/wmgrd/internal/registry"
	"github.com/demellj/wmgrd/internal/wire"
	"github.com/demellj/wmgrd/internal/x11"
)

// Engine wires a Registry to an X11 Session and drives the wake /
// arbitration loop. Construct with New, then run Serve on its own
// goroutine; transports call Submit from any other goroutine.
type Engine struct {
	sess x11.Session
	reg  *registry.Registry
	now  func() time.Time

	waker *Waker

	reqCh  chan wire.Request
	respCh chan wire.Response

	submitMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// New performs the initial window scan (QueryTree + GetWindowAttributes
// over the existing tree) and returns an Engine ready to Serve.
func New(sess x11.Session) *Engine {
	now := time.Now
	reg := registry.New(sess.VirtualRoot(), sess.PendingInputAtom(), now())

	log := logger.WithComponent(logger.ComponentEngine)
	children, err := sess.QueryTree()
	if err != nil {
		log.Warn().Err(err).Msg("initial scan: QueryTree failed, starting with an empty registry")
	}
	for _, child := range children {
		attrs, err := sess.GetWindowAttributes(child)
		if err != nil {
			log.Debug().Uint32("window", child).Err(err).Msg("initial scan: GetWindowAttributes failed, skipping")
			continue
		}
		reg.AddIfEligible(child, attrs.OverrideRedirect, attrs.Unmapped, now())
	}

	return &Engine{
		sess:   sess,
		reg:    reg,
		now:    now,
		waker:  NewWaker(sess),
		reqCh:  make(chan wire.Request),
		respCh: make(chan wire.Response),
		done:   make(chan struct{}),
	}
}

// Waker returns the handle the transport goroutine wakes the engine
// through before it blocks on a response.
func (e *Engine) Waker() *Waker { return e.waker }

// Submit hands req to the engine goroutine and blocks for its Response.
// Safe to call from multiple goroutines concurrently; callers serialize
// behind submitMu so the SPSC request/response channel pair underneath
// sees exactly one in-flight request at a time.
func (e *Engine) Submit(req wire.Request) wire.Response {
	e.submitMu.Lock()
	defer e.submitMu.Unlock()

	if err := e.waker.Wake(); err != nil {
		logger.WithComponent(logger.ComponentEngine).Error().Err(err).Msg("wake failed")
	}
	e.reqCh <- req
	return <-e.respCh
}

// Close stops Serve's loop cooperatively after its current blocking
// wait returns.
func (e *Engine) Close() {
	e.closeOnce.Do(func() { close(e.done) })
}
