package sse

import (
	"path/filepath"
	"sync"

	"github.com/kbukum/speechturn/logger"
)

// clientBuffer is the per-client backlog before events are dropped.
const clientBuffer = 16

// Client is one subscribed stream.
type Client struct {
	id     string
	events chan Event
}

// NewClient creates a client. IDs are matched against publish patterns.
func NewClient(id string) *Client {
	return &Client{id: id, events: make(chan Event, clientBuffer)}
}

// ID returns the client identifier.
func (c *Client) ID() string { return c.id }

// Events delivers published events. It is closed when the client is
// unregistered or the hub stops.
func (c *Client) Events() <-chan Event { return c.events }

func (c *Client) send(e Event) bool {
	select {
	case c.events <- e:
		return true
	default:
		return false
	}
}

// Publisher sends events to matching clients.
type Publisher interface {
	Publish(pattern string, e Event)
}

type message struct {
	pattern string
	event   Event
}

// Hub owns the client set. All mutations go through Run.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	log        *logger.Logger
}

var _ Publisher = (*Hub)(nil)

// NewHub creates a hub. Call Run before registering clients.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		done:       make(chan struct{}),
		log:        log.WithComponent("sse"),
	}
}

// Run processes registrations and broadcasts until Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("sse client registered", logger.Fields("client_id", c.id, "clients", n))
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.events)
			}
			h.mu.Unlock()
		case m := <-h.broadcast:
			h.deliver(m)
		}
	}
}

// Stop closes every client and ends Run. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.events)
		delete(h.clients, id)
	}
}

// Register subscribes c. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c and closes its channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues e for every client whose ID matches pattern. It never
// blocks the caller: when the queue is full the event is dropped and
// subscribers fall back to polling.
func (h *Hub) Publish(pattern string, e Event) {
	select {
	case h.broadcast <- message{pattern: pattern, event: e}:
	case <-h.done:
	default:
		h.log.Warn("sse queue full, event dropped", logger.Fields("pattern", pattern, "event", e.Name))
	}
}

func (h *Hub) deliver(m message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		matched, err := filepath.Match(m.pattern, id)
		if err != nil {
			h.log.Error("sse pattern invalid", logger.Fields("pattern", m.pattern, logger.FieldError, err.Error()))
			return
		}
		if matched && !c.send(m.event) {
			h.log.Warn("sse client slow, event dropped", logger.Fields("client_id", id))
		}
	}
}

// ClientCount returns the number of subscribed clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
