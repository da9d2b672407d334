package engine

import (
	"testing"
	"time"

	"github.com/demellj/wmgrd/internal/x11"
)

func TestCommit_OrderIsHiddenThenVirtualRootThenVisibleAscending(t *testing.T) {
	now := time.Unix(1, 0)
	sess := newFakeSession()
	reg := newTestReg(sess, now)

	reg.AddIfEligible(1, false, false, now)
	reg.AddIfEligible(2, false, false, now)
	reg.AddIfEligible(3, false, false, now)
	reg.SetVisibility(1, true, now)
	reg.SetVisibility(2, true, now)
	reg.SetVisibility(3, true, now)
	reg.SetZIndex(1, 5, now)
	reg.SetZIndex(2, 3, now)
	reg.SetZIndex(3, 5, now)

	reg.AddIfEligible(100, false, false, now) // stays hidden

	if err := commit(reg, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var gotOrder []uint32
	for _, c := range sess.configureCalls {
		gotOrder = append(gotOrder, c.id)
	}
	want := []uint32{100, sess.VirtualRoot(), 2, 1, 3}
	if len(gotOrder) != len(want) {
		t.Fatalf("got order %v, want %v", gotOrder, want)
	}
	for i, id := range want {
		if gotOrder[i] != id {
			t.Errorf("position %d: got %d, want %d (full: %v)", i, gotOrder[i], id, gotOrder)
		}
	}

	for _, c := range sess.configureCalls {
		if c.id == sess.VirtualRoot() {
			if c.stackMode != x11.StackModeAbove {
				t.Error("expected virtual root configure to be Above")
			}
			continue
		}
		if c.id == 100 {
			if c.stackMode != x11.StackModeBelow {
				t.Error("expected hidden window configure to be Below")
			}
			continue
		}
		if c.stackMode != x11.StackModeAbove {
			t.Errorf("expected visible window %d configure to be Above", c.id)
		}
	}

	if sess.flushCalls != 1 {
		t.Errorf("expected exactly one Flush, got %d", sess.flushCalls)
	}
}

func TestCommit_AppliesDeferredGeometryAndLeavesOverlaysIntact(t *testing.T) {
	now := time.Unix(1, 0)
	sess := newFakeSession()
	reg := newTestReg(sess, now)

	reg.AddIfEligible(1024, false, false, now)
	reg.SetVisibility(1024, true, now)
	reg.SetLoc(1024, 100, 50)
	reg.SetSize(1024, 640, 480)

	if err := commit(reg, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var got *configureCall
	for i := range sess.configureCalls {
		if sess.configureCalls[i].id == 1024 {
			got = &sess.configureCalls[i]
		}
	}
	if got == nil {
		t.Fatal("expected a configure call for 1024")
	}
	if !got.hasGeom || got.x != 100 || got.y != 50 || got.w != 640 || got.h != 480 {
		t.Errorf("expected geometry (100,50,640,480), got %+v", got)
	}

	snap := reg.SnapshotVisible()
	if len(snap) != 1 || snap[0].X != 100 || snap[0].Y != 50 || snap[0].W != 640 || snap[0].H != 480 {
		t.Errorf("expected overlays to survive commit, got %+v", snap)
	}
}
