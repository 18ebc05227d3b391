// Counters published through expvar: posts written, logins, signups, feed clients
// and DB pool stats. Handlers never touch expvar directly, they post updates to
// a channel drained by a single goroutine.

package main

import (
	"expvar"
	"net/http"
	"runtime"
	"time"

	"github.com/yatube/yatube/server/logs"
	"github.com/yatube/yatube/server/store"
)

// Counters known to the server.
var statsCounters = []string{"PostsCreated", "PostsEdited", "Logins", "Signups", "FeedClientsLive"}

type counterUpdate struct {
	name  string
	value int64
	// value is added to the counter instead of replacing it.
	delta bool
}

// statsInit serves expvar at path and publishes the counters. Blank path or "-" turns stats off.
func statsInit(mux *http.ServeMux, path string) {
	if path == "" || path == "-" {
		return
	}

	mux.Handle(path, expvar.Handler())
	globals.statsUpdate = make(chan *counterUpdate, 1024)

	started := time.Now()
	expvar.Publish("Uptime", expvar.Func(func() any {
		return time.Since(started).Seconds()
	}))
	expvar.Publish("NumGoroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	for _, name := range statsCounters {
		if expvar.Get(name) == nil {
			expvar.Publish(name, new(expvar.Int))
		}
	}

	go statsUpdater(globals.statsUpdate)

	logs.Info.Printf("stats: expvar served at '%s'", path)
}

// Must be called after the store is open.
func statsRegisterDbStats() {
	if globals.statsUpdate == nil {
		return
	}
	if f := store.Store.DbStats(); f != nil {
		expvar.Publish("DbStats", expvar.Func(f))
	}
}

func statsPost(upd *counterUpdate) {
	if globals.statsUpdate == nil {
		return
	}
	select {
	case globals.statsUpdate <- upd:
	default:
		// Losing a sample is better than stalling a request.
	}
}

func statsSet(name string, val int64) {
	statsPost(&counterUpdate{name: name, value: val})
}

func statsInc(name string, val int) {
	statsPost(&counterUpdate{name: name, value: int64(val), delta: true})
}

func statsShutdown() {
	if globals.statsUpdate != nil {
		globals.statsUpdate <- nil
	}
}

// statsUpdater applies updates until it receives nil. Unknown counters are a programming error.
func statsUpdater(updates <-chan *counterUpdate) {
	for upd := range updates {
		if upd == nil {
			break
		}
		counter, ok := expvar.Get(upd.name).(*expvar.Int)
		if !ok {
			panic("stats: not an int counter " + upd.name)
		}
		if upd.delta {
			counter.Add(upd.value)
		} else {
			counter.Set(upd.value)
		}
	}

	logs.Info.Println("stats: updater stopped")
}
