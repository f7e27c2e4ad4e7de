package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"StockRadar/internal/domain/models"
	applogger "StockRadar/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub fans trading signals out to connected WebSocket clients. It implements
// the SignalPublisher port, so the screener pushes to it exactly like it
// pushes to Kafka. A slow client drops messages rather than stalling the run.
type Hub struct {
	l *applogger.Logger

	mu      sync.RWMutex
	clients map[*client]bool
	closed  bool
}

// NewHub creates an empty signal hub.
func NewHub(l *applogger.Logger) *Hub {
	return &Hub{
		l:       l,
		clients: make(map[*client]bool),
	}
}

// RegisterRoutes exposes the hub at /ws/signals.
func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/signals", h.handleWS)
}

func (h *Hub) handleWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, send: make(chan []byte, 64), hub: h}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return conn.Close()
	}
	h.clients[cl] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.l.Info("ws client connected", applogger.Int("total", count))

	go cl.writePump()
	go cl.readPump()
	return nil
}

// Publish broadcasts each signal as one JSON message.
func (h *Hub) Publish(_ context.Context, signals []models.TradingSignal) error {
	for _, sig := range signals {
		msg, err := json.Marshal(map[string]interface{}{
			"type":   "signal",
			"signal": sig,
		})
		if err != nil {
			return err
		}
		h.broadcast(msg)
	}
	return nil
}

// Close disconnects all clients and rejects future connections.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for cl := range h.clients {
		close(cl.send)
		delete(h.clients, cl)
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			// client too slow, drop this message for it
		}
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[cl] {
		delete(h.clients, cl)
		close(cl.send)
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
		c.hub.l.Debug("ws client disconnected")
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
