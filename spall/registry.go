// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

import (
	"sync"
	"time"

	"github.com/tracespall/spall/internal/gid"
	"github.com/tracespall/spall/internal/threadid"
)

// recorders maps a goroutine id (from internal/gid) to the Recorder that
// goroutine lazily created on its first event. It stands in for the
// thread-local storage the original implementation gets for free. Go has
// no destructor to hook a goroutine's exit, so this package approximates
// one itself: a background reaper (see startReaper/reapOnceNow) takes a
// full stack dump every reapInterval, computes which goroutine ids are
// still alive, and flushes and closes the Recorder of any id that has
// dropped out of that set. Go goroutine ids are assigned monotonically and
// never reused within a process, so there is no risk of the reaper
// mistaking a brand new goroutine for the exited one that used to own its
// id. Attach exists so hot-path callers can avoid the per-event lookup
// this map requires.
var recorders sync.Map // map[uint64]*Recorder

// reapInterval is how often the background reaper sweeps the registry for
// exited goroutines. Nothing in this module changes it; tests call
// reapOnceNow directly instead of waiting on it.
var reapInterval = 2 * time.Second

var reaperOnce sync.Once

// startReaper launches the background reaper goroutine at most once per
// process, on the first Recorder creation. It never exits; CloseAll stops
// relying on it but does not stop it, since another goroutine may create a
// new Recorder afterward.
func startReaper() {
	reaperOnce.Do(func() {
		go func() {
			for {
				time.Sleep(reapInterval)
				reapOnceNow()
			}
		}()
	})
}

// reapOnceNow closes and forgets every registered Recorder whose goroutine
// id is no longer present in a fresh stack dump. The background loop above
// is just reapOnceNow's periodic trigger; it is factored out so tests can
// call it directly right after a goroutine exits instead of waiting on
// reapInterval.
func reapOnceNow() {
	live := gid.Live()
	recorders.Range(func(key, value interface{}) bool {
		if _, ok := live[key.(uint64)]; !ok {
			value.(*Recorder).close()
			recorders.Delete(key)
		}
		return true
	})
}

// resolveTid returns this OS thread's id if the platform exposes one, or a
// process-unique fallback counter otherwise. It is read once per Recorder,
// not once per event, since a goroutine may migrate between OS threads
// between events; the id recorded in the trace is a snapshot taken at
// Recorder-creation time, same as the original implementation's
// thread-local state is bound to the OS thread it was created on.
func resolveTid() uint32 {
	if tid, ok := threadid.Current(); ok {
		return tid
	}
	return threadid.NextFallback()
}

// current returns the calling goroutine's Recorder, creating it on first
// use. The returned Recorder must only be used by the calling goroutine.
func current() *Recorder {
	key := gid.Current()
	if v, ok := recorders.Load(key); ok {
		return v.(*Recorder)
	}

	startReaper()
	r := newRecorder(resolveTid())
	actual, loaded := recorders.LoadOrStore(key, r)
	if loaded {
		// Lost a race against another call on the same goroutine id; this
		// can't happen for a real goroutine (gid.Current is exact), but
		// stays safe if two OS threads ever collide on a synthetic id.
		r.close()
		return actual.(*Recorder)
	}
	return r
}

// Attach returns the calling goroutine's Recorder as an explicit handle,
// creating it on first use. Callers on a hot path should call Attach once
// (e.g. at the top of a worker goroutine) and reuse the returned Recorder
// directly via its Scope/Scopef methods, skipping the per-event registry
// lookup that Scope and Scopef otherwise perform.
//
// The returned Recorder must not be shared across goroutines.
func Attach() *Recorder {
	return current()
}

// CloseAll flushes and closes every Recorder created so far in this process
// and forgets them, so that a later event lazily creates a fresh one. It is
// meant for tests and for short-lived command invocations that want a
// deterministic shutdown; long-running servers can rely on the background
// reaper instead to reclaim Recorders for goroutines that have already
// exited.
func CloseAll() {
	recorders.Range(func(key, value interface{}) bool {
		value.(*Recorder).close()
		recorders.Delete(key)
		return true
	})
}
