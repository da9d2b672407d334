package engine

import (
	"testing"
	"time"

	"github.com/demellj/wmgrd/internal/wire"
	"github.com/demellj/wmgrd/internal/x11"
)

func TestNew_InitialScanPopulatesHiddenFromExistingTree(t *testing.T) {
	sess := newFakeSession()
	sess.tree = []uint32{10, 20, 30}
	sess.attrs[20] = x11.Attrs{OverrideRedirect: true}
	sess.attrs[30] = x11.Attrs{Unmapped: true}

	e := New(sess)

	hidden := e.reg.SnapshotHidden()
	if len(hidden) != 1 || hidden[0].ID != 10 {
		t.Fatalf("expected only window 10 to survive initial scan, got %+v", hidden)
	}
}

func TestEngine_SubmitDrivesOneRequestThroughServe(t *testing.T) {
	sess := newFakeSession()
	e := New(sess)

	go e.Serve()
	defer e.Close()

	resp := e.Submit(wire.ListVisibleWindows{})
	if _, ok := resp.(wire.VisibleWindows); !ok {
		t.Fatalf("expected VisibleWindows, got %#v", resp)
	}
}

func TestEngine_SubmitSerializesConcurrentCallers(t *testing.T) {
	sess := newFakeSession()
	e := New(sess)

	go e.Serve()
	defer e.Close()

	const n = 5
	done := make(chan wire.Response, n)
	for i := 0; i < n; i++ {
		go func() {
			done <- e.Submit(wire.ListVisibleWindows{})
		}()
	}

	deadline := time.After(2 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case resp := <-done:
			if _, ok := resp.(wire.VisibleWindows); !ok {
				t.Errorf("expected VisibleWindows, got %#v", resp)
			}
		case <-deadline:
			t.Fatal("timed out waiting for concurrent Submit calls")
		}
	}
}
