package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
)

// Starts a hub and a test server which serves the feed.
func newFeedServer(t *testing.T, config feedConfig) (*FeedHub, *httptest.Server) {
	hub := newFeedHub(config)
	origFeed := globals.feed
	globals.feed = hub

	srv := httptest.NewServer(http.HandlerFunc(serveFeed))
	t.Cleanup(func() {
		srv.Close()
		hub.shutdown()
		globals.feed = origFeed
	})
	return hub, srv
}

func dialFeed(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/feed/ws"+query, nil)
	if err != nil {
		t.Fatal("Failed to connect:", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// Waits until the hub has the expected number of clients.
func waitForClients(t *testing.T, hub *FeedHub, count int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.liveClients() != count {
		if time.Now().After(deadline) {
			t.Fatalf("Live clients: expected %d, got %d", count, hub.liveClients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readEvent(t *testing.T, ws *websocket.Conn) *feedEvent {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatal("Failed to read event:", err)
	}
	var ev feedEvent
	if err = json.Unmarshal(data, &ev); err != nil {
		t.Fatal("Malformed event:", err)
	}
	return &ev
}

func TestFeedBroadcast(t *testing.T) {
	hub, srv := newFeedServer(t, feedConfig{})
	ws := dialFeed(t, srv, "")
	waitForClients(t, hub, 1)

	author := testUser(1, "alice")
	post := testPosts(1, author, nil)[0]
	want := newFeedEvent(&post, author, nil)
	hub.publish(want)

	got := readEvent(t, ws)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Event mismatch (-want +got):\n%s", diff)
	}
	if got.URL != postURL(post.Id) || got.Author != "alice" {
		t.Errorf("Event: unexpected url '%s' or author '%s'", got.URL, got.Author)
	}
}

func TestFeedGroupFilter(t *testing.T) {
	env := newTestEnv(t)
	cats := testGroup(5, "cats")
	env.groups.EXPECT().Get("cats").Return(cats, nil)

	hub, srv := newFeedServer(t, feedConfig{})
	all := dialFeed(t, srv, "")
	catsOnly := dialFeed(t, srv, "?group=cats")
	waitForClients(t, hub, 2)

	author := testUser(1, "alice")
	posts := testPosts(2, author, nil)
	hub.publish(newFeedEvent(&posts[0], author, testGroup(6, "dogs")))
	hub.publish(newFeedEvent(&posts[1], author, cats))

	if ev := readEvent(t, all); ev.Group != "dogs" {
		t.Errorf("Unfiltered client: expected 'dogs' event first, got '%s'", ev.Group)
	}
	if ev := readEvent(t, all); ev.Group != "cats" {
		t.Errorf("Unfiltered client: expected 'cats' event second, got '%s'", ev.Group)
	}
	if ev := readEvent(t, catsOnly); ev.Group != "cats" || ev.Id != posts[1].Id {
		t.Errorf("Group client: expected only 'cats' event, got '%s' %s", ev.Group, ev.Id)
	}
}

func TestFeedUnknownGroup(t *testing.T) {
	env := newTestEnv(t)
	env.groups.EXPECT().Get("nope").Return(nil, nil)

	_, srv := newFeedServer(t, feedConfig{})
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/feed/ws?group=nope", nil)
	if err == nil {
		t.Fatal("Connection to a missing group must fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status %d, got %v", http.StatusNotFound, resp)
	}
}

func TestFeedClientDisconnect(t *testing.T) {
	hub, srv := newFeedServer(t, feedConfig{})
	ws := dialFeed(t, srv, "")
	waitForClients(t, hub, 1)

	ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ws.Close()
	waitForClients(t, hub, 0)
}

func TestFeedShutdown(t *testing.T) {
	hub, srv := newFeedServer(t, feedConfig{})
	ws := dialFeed(t, srv, "")
	waitForClients(t, hub, 1)

	hub.shutdown()
	if hub.liveClients() != 0 {
		t.Errorf("Live clients after shutdown: expected 0, got %d", hub.liveClients())
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := ws.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("Expected 'going away' close, got %v", err)
	}

	// Publishing to a stopped hub must not block.
	hub.publish(&feedEvent{Id: "x"})
}

func TestFeedEvent(t *testing.T) {
	author := testUser(1, "alice")
	group := testGroup(5, "cats")
	post := testPosts(1, author, group)[0]

	data, err := json.Marshal(newFeedEvent(&post, author, group))
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]any
	json.Unmarshal(data, &fields)
	for _, key := range []string{"id", "author", "group", "text", "created", "url"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("Event is missing '%s'", key)
		}
	}

	data, _ = json.Marshal(newFeedEvent(&post, author, nil))
	if strings.Contains(string(data), `"group"`) {
		t.Error("Event without a group must omit 'group'")
	}
}

func TestParseFeedConfig(t *testing.T) {
	config, err := parseFeedConfig([]byte(`{"send_queue_limit": 16, "max_message_size": 1024, "idle_timeout": 30}`))
	if err != nil {
		t.Fatal(err)
	}
	hub := newFeedHub(config)
	defer hub.shutdown()
	if hub.sendQueueLimit != 16 || hub.maxMessageSize != 1024 || hub.pongWait != 30*time.Second {
		t.Errorf("Unexpected hub settings: %d %d %s", hub.sendQueueLimit, hub.maxMessageSize, hub.pongWait)
	}

	defaults := newFeedHub(feedConfig{})
	defer defaults.shutdown()
	if defaults.sendQueueLimit != defaultSendQueueLimit || defaults.pongWait != defaultPongWait {
		t.Error("Defaults are not applied")
	}

	if _, err = parseFeedConfig([]byte(`{"idle_timeout": "soon"}`)); err == nil {
		t.Error("Malformed config must fail")
	}
}
