// Live feed of new posts over websocket. Clients may subscribe to a single group
// with ?group=<slug>.

package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yatube/yatube/server/logs"
	"github.com/yatube/yatube/server/store"
	"github.com/yatube/yatube/server/store/types"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Default time allowed to read the next pong message from the peer.
	defaultPongWait = 55 * time.Second

	// Default number of events queued for a client before it is dropped.
	defaultSendQueueLimit = 128

	// Clients don't send anything but control frames.
	defaultMaxMessageSize = 512

	// Number of events waiting to be broadcast.
	broadcastQueueLen = 256
)

type feedConfig struct {
	// Number of outstanding events per client. A client with a full queue is disconnected.
	SendQueueLimit int `json:"send_queue_limit"`
	// Maximum size of incoming messages.
	MaxMessageSize int64 `json:"max_message_size"`
	// Disconnect the client if it does not respond to pings in this many seconds.
	IdleTimeout int `json:"idle_timeout"`
}

func parseFeedConfig(jsconfig json.RawMessage) (feedConfig, error) {
	var config feedConfig
	if len(jsconfig) > 0 {
		if err := json.Unmarshal(jsconfig, &config); err != nil {
			return config, errors.New("feed: failed to parse config: " + err.Error() + "(" + string(jsconfig) + ")")
		}
	}
	return config, nil
}

// feedEvent is sent to clients when a post is created.
type feedEvent struct {
	Id      string    `json:"id"`
	Author  string    `json:"author"`
	Group   string    `json:"group,omitempty"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
	URL     string    `json:"url"`
}

func newFeedEvent(post *types.Post, author *types.User, group *types.Group) *feedEvent {
	ev := &feedEvent{
		Id:      post.Id,
		Text:    post.Text,
		Created: post.CreatedAt,
		URL:     postURL(post.Id),
	}
	if author != nil {
		ev.Author = author.Username
	}
	if group != nil {
		ev.Group = group.Slug
	}
	return ev
}

// feedClient is a single websocket connection.
type feedClient struct {
	ws *websocket.Conn
	// Outbound serialized events.
	send chan []byte
	// Slug of the group to receive events of, or blank for all events.
	group      string
	remoteAddr string
}

// FeedHub keeps track of connected clients and broadcasts events to them.
type FeedHub struct {
	clients map[*feedClient]bool

	register   chan *feedClient
	unregister chan *feedClient
	broadcast  chan *feedEvent
	// Request to shut down the hub.
	stop chan chan bool
	// Closed when the hub has exited.
	done chan struct{}

	live atomic.Int64

	sendQueueLimit int
	maxMessageSize int64
	pongWait       time.Duration
}

func newFeedHub(config feedConfig) *FeedHub {
	h := &FeedHub{
		clients:        make(map[*feedClient]bool),
		register:       make(chan *feedClient),
		unregister:     make(chan *feedClient),
		broadcast:      make(chan *feedEvent, broadcastQueueLen),
		stop:           make(chan chan bool),
		done:           make(chan struct{}),
		sendQueueLimit: config.SendQueueLimit,
		maxMessageSize: config.MaxMessageSize,
		pongWait:       time.Duration(config.IdleTimeout) * time.Second,
	}
	if h.sendQueueLimit <= 0 {
		h.sendQueueLimit = defaultSendQueueLimit
	}
	if h.maxMessageSize <= 0 {
		h.maxMessageSize = defaultMaxMessageSize
	}
	if h.pongWait <= 0 {
		h.pongWait = defaultPongWait
	}

	go h.run()

	return h
}

func (h *FeedHub) run() {
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.clientsChanged(1)

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
			}

		case ev := <-h.broadcast:
			data, err := json.Marshal(ev)
			if err != nil {
				logs.Err.Println("feed: failed to serialize event", ev.Id, err)
				continue
			}
			for c := range h.clients {
				if c.group != "" && c.group != ev.Group {
					continue
				}
				select {
				case c.send <- data:
				default:
					// The client is not reading fast enough.
					logs.Warn.Println("feed: outbound queue limit exceeded", c.remoteAddr)
					h.drop(c)
				}
			}

		case stopped := <-h.stop:
			for c := range h.clients {
				h.drop(c)
			}
			stopped <- true
			return
		}
	}
}

// Removes the client and closes its send channel, which terminates the write loop.
func (h *FeedHub) drop(c *feedClient) {
	delete(h.clients, c)
	close(c.send)
	h.clientsChanged(-1)
}

func (h *FeedHub) clientsChanged(delta int) {
	statsSet("FeedClientsLive", h.live.Add(int64(delta)))
	globals.metrics.feedClientsChanged(delta)
}

// Number of connected clients.
func (h *FeedHub) liveClients() int {
	return int(h.live.Load())
}

// Queues the event for broadcasting. The event is discarded if the queue is full.
func (h *FeedHub) publish(ev *feedEvent) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	default:
		logs.Warn.Println("feed: broadcast queue full, event dropped", ev.Id)
	}
}

func (h *FeedHub) addClient(c *feedClient) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *FeedHub) removeClient(c *feedClient) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Disconnects all clients and stops the hub.
func (h *FeedHub) shutdown() {
	stopped := make(chan bool)
	select {
	case h.stop <- stopped:
		<-stopped
	case <-h.done:
	}
}

func (c *feedClient) readLoop(h *FeedHub) {
	defer func() {
		h.removeClient(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(h.maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(h.pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(h.pongWait))
		return nil
	})

	for {
		// Incoming messages are ignored.
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				logs.Err.Println("feed: readLoop", c.remoteAddr, err)
			}
			return
		}
	}
}

func (c *feedClient) writeLoop(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		// Break readLoop.
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Channel closed by the hub.
				wsWrite(c.ws, websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := wsWrite(c.ws, websocket.TextMessage, msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
					websocket.CloseNormalClosure) {
					logs.Err.Println("feed: writeLoop", c.remoteAddr, err)
				}
				return
			}

		case <-ticker.C:
			if err := wsWrite(c.ws, websocket.PingMessage, nil); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
					websocket.CloseNormalClosure) {
					logs.Err.Println("feed: writeLoop ping", c.remoteAddr, err)
				}
				return
			}
		}
	}
}

// Writes a message with the given message type (mt) and payload.
func wsWrite(ws *websocket.Conn, mt int, msg []byte) error {
	if msg == nil {
		msg = []byte{}
	}
	ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteMessage(mt, msg)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handles websocket requests from peers.
func serveFeed(wrt http.ResponseWriter, req *http.Request) {
	hub := globals.feed
	if hub == nil {
		serve404(wrt, req)
		return
	}

	slug := req.URL.Query().Get("group")
	if slug != "" {
		group, err := store.Groups.Get(slug)
		if err != nil {
			serve500(wrt, req, err)
			return
		}
		if group == nil {
			serve404(wrt, req)
			return
		}
	}

	ws, err := upgrader.Upgrade(wrt, req, nil)
	if _, ok := err.(websocket.HandshakeError); ok {
		logs.Err.Println("feed: Not a websocket handshake")
		return
	} else if err != nil {
		logs.Err.Println("feed: failed to Upgrade ", err)
		return
	}

	c := &feedClient{
		ws:         ws,
		send:       make(chan []byte, hub.sendQueueLimit),
		group:      slug,
		remoteAddr: req.RemoteAddr,
	}
	if !hub.addClient(c) {
		ws.Close()
		return
	}

	logs.Info.Println("feed: client connected", c.remoteAddr, slug)

	// Do work in goroutines to return from serveFeed() to release file pointers.
	go c.writeLoop((hub.pongWait * 9) / 10)
	go c.readLoop(hub)
}
