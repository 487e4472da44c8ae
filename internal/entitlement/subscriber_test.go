package entitlement_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ecorewards/internal/entitlement"
	"github.com/go-ports/ecorewards/internal/handle"
	"github.com/go-ports/ecorewards/internal/models"
	"github.com/go-ports/ecorewards/internal/store"
)

// fakeStore hands every registration back to the test so pushes can be
// delivered at arbitrary times, including after disposal.
type fakeStore struct {
	mu   sync.Mutex
	regs []*registration
	err  error
}

type registration struct {
	path   string
	fn     func(store.Push)
	handle *handle.Handle
}

func (f *fakeStore) Subscribe(_ context.Context, path string, fn func(store.Push)) (*handle.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r := &registration{path: path, fn: fn}
	r.handle = handle.New(nil)
	f.regs = append(f.regs, r)
	return r.handle, nil
}

func (f *fakeStore) live() []*registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*registration
	for _, r := range f.regs {
		if !r.handle.Disposed() {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeStore) reg(i int) *registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[i]
}

func record(points int, tier string, active bool) store.Push {
	return store.Push{Exists: true, Data: map[string]any{
		"points":       float64(points),
		"subscription": map[string]any{"tier": tier, "isActive": active},
	}}
}

// ---------------------------------------------------------------------------
// Retarget
// ---------------------------------------------------------------------------

func TestSubscriber_Retarget(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	c.Run("starts signed out with the default snapshot", func(c *qt.C) {
		sub := entitlement.NewSubscriber(&fakeStore{})
		st := sub.State()
		c.Assert(st.Principal, qt.Equals, models.NoPrincipal)
		c.Assert(st.Snapshot.IsDefault(), qt.IsTrue)
		c.Assert(st.Loading, qt.IsFalse)
		c.Assert(sub.Live(), qt.IsFalse)
	})

	c.Run("loading until the first push, then the pushed snapshot", func(c *qt.C) {
		fs := &fakeStore{}
		sub := entitlement.NewSubscriber(fs)
		sub.Retarget(ctx, "alice")

		c.Assert(sub.State().Loading, qt.IsTrue)
		c.Assert(fs.reg(0).path, qt.Equals, "users/alice")

		fs.reg(0).fn(record(120, "pro", true))
		st := sub.State()
		c.Assert(st.Loading, qt.IsFalse)
		c.Assert(st.Snapshot.Points, qt.Equals, 120)
		c.Assert(st.Snapshot.HasActivePro(), qt.IsTrue)
	})

	c.Run("missing record yields the default snapshot", func(c *qt.C) {
		fs := &fakeStore{}
		sub := entitlement.NewSubscriber(fs)
		sub.Retarget(ctx, "alice")
		fs.reg(0).fn(record(5, "free", true))
		fs.reg(0).fn(store.Push{Exists: false})

		st := sub.State()
		c.Assert(st.Loading, qt.IsFalse)
		c.Assert(st.Snapshot.IsDefault(), qt.IsTrue)
	})

	c.Run("pushes replace the snapshot wholesale", func(c *qt.C) {
		fs := &fakeStore{}
		sub := entitlement.NewSubscriber(fs)
		sub.Retarget(ctx, "alice")
		fs.reg(0).fn(record(5, "pro", true))
		fs.reg(0).fn(store.Push{Exists: true, Data: map[string]any{"points": 9}})

		st := sub.State()
		c.Assert(st.Snapshot.Points, qt.Equals, 9)
		c.Assert(st.Snapshot.Subscription, qt.IsNil)
	})

	c.Run("custom collection changes the record path", func(c *qt.C) {
		fs := &fakeStore{}
		sub := entitlement.NewSubscriber(fs, entitlement.WithCollection("members"))
		sub.Retarget(ctx, "bob")
		c.Assert(fs.reg(0).path, qt.Equals, "members/bob")
	})

	c.Run("signing out disposes and resets", func(c *qt.C) {
		fs := &fakeStore{}
		sub := entitlement.NewSubscriber(fs)
		sub.Retarget(ctx, "alice")
		fs.reg(0).fn(record(50, "pro", true))

		sub.Retarget(ctx, models.NoPrincipal)
		c.Assert(fs.live(), qt.HasLen, 0)
		st := sub.State()
		c.Assert(st.Snapshot.IsDefault(), qt.IsTrue)
		c.Assert(st.Loading, qt.IsFalse)
		c.Assert(sub.Live(), qt.IsFalse)
	})
}

func TestSubscriber_ExactlyOneLiveRegistration(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	fs := &fakeStore{}
	sub := entitlement.NewSubscriber(fs)
	sequence := []models.Principal{"a", "b", models.NoPrincipal, "c", "c", "a"}
	for _, p := range sequence {
		sub.Retarget(ctx, p)
		live := fs.live()
		if !p.SignedIn() {
			c.Assert(live, qt.HasLen, 0)
			continue
		}
		c.Assert(live, qt.HasLen, 1)
		c.Assert(live[0].path, qt.Equals, p.RecordPath(""))
	}
}

func TestSubscriber_StalePushRejection(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	c.Run("push for a superseded principal is dropped", func(c *qt.C) {
		fs := &fakeStore{}
		sub := entitlement.NewSubscriber(fs)
		sub.Retarget(ctx, "a")
		sub.Retarget(ctx, "b")

		// Late delivery on a's registration after the switch to b.
		fs.reg(0).fn(record(999, "pro", true))

		st := sub.State()
		c.Assert(st.Principal, qt.Equals, models.Principal("b"))
		c.Assert(st.Snapshot.IsDefault(), qt.IsTrue)
		c.Assert(st.Loading, qt.IsTrue)

		fs.reg(1).fn(record(7, "free", false))
		c.Assert(sub.State().Snapshot.Points, qt.Equals, 7)

		fs.reg(0).fn(record(999, "pro", true))
		c.Assert(sub.State().Snapshot.Points, qt.Equals, 7)
	})

	c.Run("push from an earlier session of the same principal is dropped", func(c *qt.C) {
		fs := &fakeStore{}
		sub := entitlement.NewSubscriber(fs)
		sub.Retarget(ctx, "a")
		sub.Retarget(ctx, "b")
		sub.Retarget(ctx, "a")

		fs.reg(0).fn(record(999, "pro", true))
		c.Assert(sub.State().Snapshot.IsDefault(), qt.IsTrue)

		fs.reg(2).fn(record(3, "free", true))
		c.Assert(sub.State().Snapshot.Points, qt.Equals, 3)
	})

	c.Run("push after sign-out is dropped", func(c *qt.C) {
		fs := &fakeStore{}
		sub := entitlement.NewSubscriber(fs)
		sub.Retarget(ctx, "a")
		sub.Retarget(ctx, models.NoPrincipal)

		fs.reg(0).fn(record(999, "pro", true))
		st := sub.State()
		c.Assert(st.Snapshot.IsDefault(), qt.IsTrue)
		c.Assert(st.Loading, qt.IsFalse)
	})
}

// ---------------------------------------------------------------------------
// Failures
// ---------------------------------------------------------------------------

func TestSubscriber_Failures(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	c.Run("subscribe error falls back to default without loading", func(c *qt.C) {
		fs := &fakeStore{err: errors.New("link down")}
		sub := entitlement.NewSubscriber(fs)
		sub.Retarget(ctx, "alice")

		st := sub.State()
		c.Assert(st.Principal, qt.Equals, models.Principal("alice"))
		c.Assert(st.Snapshot.IsDefault(), qt.IsTrue)
		c.Assert(st.Loading, qt.IsFalse)
		c.Assert(sub.Live(), qt.IsFalse)
	})

	c.Run("error push falls back to default without loading", func(c *qt.C) {
		fs := &fakeStore{}
		sub := entitlement.NewSubscriber(fs)
		sub.Retarget(ctx, "alice")
		fs.reg(0).fn(record(40, "pro", true))
		fs.reg(0).fn(store.Push{Err: errors.New("stream reset")})

		st := sub.State()
		c.Assert(st.Snapshot.IsDefault(), qt.IsTrue)
		c.Assert(st.Loading, qt.IsFalse)
	})
}

// ---------------------------------------------------------------------------
// Close / Listen
// ---------------------------------------------------------------------------

func TestSubscriber_Close(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	fs := &fakeStore{}
	sub := entitlement.NewSubscriber(fs)
	sub.Retarget(ctx, "alice")
	fs.reg(0).fn(record(10, "free", false))

	sub.Close()
	sub.Close()
	c.Assert(fs.live(), qt.HasLen, 0)

	fs.reg(0).fn(record(99, "pro", true))
	c.Assert(sub.State().Snapshot.Points, qt.Equals, 10)

	sub.Retarget(ctx, "bob")
	c.Assert(fs.live(), qt.HasLen, 0)
}

func TestSubscriber_Listen(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	fs := &fakeStore{}
	sub := entitlement.NewSubscriber(fs)

	var got []entitlement.State
	h := sub.Listen(func(st entitlement.State) { got = append(got, st) })

	sub.Retarget(ctx, "alice")
	fs.reg(0).fn(record(10, "free", false))
	c.Assert(got, qt.HasLen, 2)
	c.Assert(got[0].Loading, qt.IsTrue)
	c.Assert(got[1].Snapshot.Points, qt.Equals, 10)

	h.Dispose()
	fs.reg(0).fn(record(11, "free", false))
	c.Assert(got, qt.HasLen, 2)
}

func TestSubscriber_MemoryStore(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	m := store.NewMemory()
	c.Assert(m.Put(ctx, "users/alice", map[string]any{"points": 25}), qt.IsNil)

	sub := entitlement.NewSubscriber(m)
	sub.Retarget(ctx, "alice")
	c.Assert(sub.State().Snapshot.Points, qt.Equals, 25)
	c.Assert(sub.State().Loading, qt.IsFalse)

	sub.Retarget(ctx, "bob")
	c.Assert(m.Subscribers("users/alice"), qt.Equals, 0)
	c.Assert(m.Subscribers("users/bob"), qt.Equals, 1)

	c.Assert(m.Put(ctx, "users/alice", map[string]any{"points": 500}), qt.IsNil)
	c.Assert(sub.State().Snapshot.IsDefault(), qt.IsTrue)
}
