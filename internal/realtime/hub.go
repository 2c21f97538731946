package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hotelops/reclamations-backend/pkg/config"
	"github.com/hotelops/reclamations-backend/pkg/logger"
	"github.com/hotelops/reclamations-backend/pkg/metrics"
)

const (
	defaultPingInterval = 30 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultSendBuffer   = 16
	maxInboundBytes     = 512
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub keeps the set of connected websocket clients and fans events out to
// them. Delivery is at-most-once; a client whose queue is full is dropped.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	closed   bool
	conns    sync.WaitGroup
	upgrader websocket.Upgrader
	cfg      config.RealtimeConfig
	logg     *logger.Logger
	metrics  *metrics.RealtimeMetrics
}

// HubParams bundles the hub dependencies. Metrics may be nil.
type HubParams struct {
	Config         config.RealtimeConfig
	AllowedOrigins []string
	Logger         *logger.Logger
	Metrics        *metrics.RealtimeMetrics
}

// NewHub builds a hub; call Attach to start receiving bus events.
func NewHub(params HubParams) *Hub {
	cfg := params.Config
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}
	return &Hub{
		clients: map[*client]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(params.AllowedOrigins),
		},
		cfg:     cfg,
		logg:    params.Logger,
		metrics: params.Metrics,
	}
}

// Attach subscribes the hub to the bus and returns the unsubscribe func.
func (h *Hub) Attach(bus *Bus) func() {
	return bus.Subscribe(h.Broadcast)
}

// Broadcast queues evt for every connected client without blocking.
func (h *Hub) Broadcast(evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.mu.Lock()
	var dropped []*client
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			dropped = append(dropped, c)
		}
	}
	for _, c := range dropped {
		h.removeLocked(c)
		h.metrics.IncDropped()
	}
	h.mu.Unlock()

	h.metrics.IncBroadcast(evt.Name)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and runs the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logg.Warn(r.Context(), "realtime.upgrade_failed: "+err.Error())
		return
	}

	c := &client{conn: conn, send: make(chan []byte, h.cfg.SendBuffer)}
	if !h.add(c) {
		_ = conn.Close()
		return
	}
	h.logg.Debug(r.Context(), "realtime.client_connected")

	go h.writePump(c)
	h.readPump(r.Context(), c)
}

// Close disconnects every client, refuses new ones and waits for the
// connection handlers to return.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
	h.mu.Unlock()
	h.conns.Wait()
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.conns.Add(1)
	h.metrics.SetClients(len(h.clients))
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	h.metrics.SetClients(len(h.clients))
}

// readPump discards inbound frames and tracks pong deadlines. It returns when
// the peer goes away.
func (h *Hub) readPump(ctx context.Context, c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
		h.logg.Debug(ctx, "realtime.client_disconnected")
		h.conns.Done()
	}()

	pongWait := h.cfg.PingInterval * 2
	c.conn.SetReadLimit(maxInboundBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
