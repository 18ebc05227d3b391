package main

import (
	"expvar"
	"testing"
)

func TestStatsUpdater(t *testing.T) {
	counter := new(expvar.Int)
	expvar.Publish("TestStatsUpdaterCounter", counter)

	updates := make(chan *counterUpdate, 4)
	updates <- &counterUpdate{name: "TestStatsUpdaterCounter", value: 5}
	updates <- &counterUpdate{name: "TestStatsUpdaterCounter", value: 2, delta: true}
	updates <- &counterUpdate{name: "TestStatsUpdaterCounter", value: -1, delta: true}
	updates <- nil
	statsUpdater(updates)

	if counter.Value() != 6 {
		t.Errorf("Counter: expected 6, got %d", counter.Value())
	}
}

func TestStatsDisabled(t *testing.T) {
	orig := globals.statsUpdate
	defer func() { globals.statsUpdate = orig }()
	globals.statsUpdate = nil

	// Must not block or panic.
	statsInc("PostsCreated", 1)
	statsSet("FeedClientsLive", 3)
	statsShutdown()
}

func TestStatsUpdaterUnknownCounter(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Update of an unknown counter must panic")
		}
	}()

	updates := make(chan *counterUpdate, 1)
	updates <- &counterUpdate{name: "TestStatsNoSuchCounter", value: 1}
	statsUpdater(updates)
}
