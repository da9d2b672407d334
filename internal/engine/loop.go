package engine

// Serve runs the wake / arbitration loop on the calling goroutine. It
// blocks on WaitForEvent, dispatches events to the Event Handler as
// long as it reports "keep blocking", and when the handler sees the
// pending-input ClientMessage, drains exactly one request, answers it,
// and resumes blocking. All X11 events already queued ahead of a wake
// are drained first, by construction: they surface from repeated
// WaitForEvent calls before the wake's own ClientMessage does.
//
// Serve returns nil only after Close; any other return is the error
// that ended the loop (a dropped connection, or a Commit that failed
// partway through — overlays are left intact either way). The caller
// decides how fatal that is; this package never calls os.Exit itself.
func (e *Engine) Serve() error {
	for {
		select {
		case <-e.done:
			return nil
		default:
		}

		ev, err := e.sess.WaitForEvent()
		if err != nil {
			return err
		}

		if handleEvent(e.reg, e.sess, ev, e.now()) {
			continue
		}

		req := <-e.reqCh
		resp, err := handleRequest(e.reg, e.sess, req, e.now())
		if err != nil {
			return err
		}
		e.respCh <- resp
	}
}
