// Package bus is the topic-based realtime broadcast layer. Clients
// connect over WebSocket, subscribe to topics, and receive every event
// published to those topics while subscribed.
package bus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"cicd-dashboard/pkg/log"
)

// Hub maintains the set of active connections and their topic
// subscriptions, and broadcasts published events to subscribers.
type Hub struct {
	// Registered connections by connection ID
	connections map[string]*Connection
	// Topic -> subscriber set. Matching is exact string equality.
	topics map[string]map[*Connection]struct{}
	mu     sync.RWMutex

	// Channels for connection lifecycle
	register   chan *Connection
	unregister chan *Connection

	// Metrics
	totalMessagesSent    atomic.Int64
	totalMessagesDropped atomic.Int64
	totalPublishes       atomic.Int64

	maxConnections int

	logger log.Logger

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a new Hub instance.
func NewHub(logger log.Logger, maxConnections int) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		connections:    make(map[string]*Connection),
		topics:         make(map[string]map[*Connection]struct{}),
		register:       make(chan *Connection, 100),
		unregister:     make(chan *Connection, 100),
		maxConnections: maxConnections,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}
}

// Run starts the hub's lifecycle loop.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info(context.Background(), "Hub shutting down...")
			h.closeAllConnections()
			return

		case conn := <-h.register:
			h.registerConnection(conn)

		case conn := <-h.unregister:
			h.unregisterConnection(conn)
		}
	}
}

func (h *Hub) registerConnection(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.connections) >= h.maxConnections {
		h.logger.Warnf(context.Background(), "Max connections reached, rejecting connection %s", conn.id)
		go conn.Close()
		return
	}

	h.connections[conn.id] = conn
	h.logger.Infof(context.Background(), "Client connected: %s (total connections: %d)", conn.id, len(h.connections))
}

func (h *Hub) unregisterConnection(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.connections[conn.id]; !exists {
		return
	}

	for topic := range conn.topics {
		h.removeSubscriptionLocked(conn, topic)
	}
	delete(h.connections, conn.id)
	close(conn.send)

	h.logger.Infof(context.Background(), "Client disconnected: %s (total connections: %d)", conn.id, len(h.connections))
}

// Subscribe adds the connection to a topic. Subscribing twice is a no-op.
func (h *Hub) Subscribe(conn *Connection, topic string) error {
	if err := ValidateTopic(topic); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[*Connection]struct{})
	}
	h.topics[topic][conn] = struct{}{}
	conn.topics[topic] = struct{}{}

	h.logger.Debugf(context.Background(), "Client %s subscribed to %s", conn.id, topic)
	return nil
}

// Unsubscribe removes the connection from a topic. Unsubscribing from a
// topic the connection never joined is a no-op.
func (h *Hub) Unsubscribe(conn *Connection, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeSubscriptionLocked(conn, topic)
}

func (h *Hub) removeSubscriptionLocked(conn *Connection, topic string) {
	subscribers, ok := h.topics[topic]
	if !ok {
		return
	}
	delete(subscribers, conn)
	delete(conn.topics, topic)
	if len(subscribers) == 0 {
		delete(h.topics, topic)
	}
}

// Publish sends an event to every current subscriber of the topic.
// The payload is marshalled once; a subscriber whose send buffer is
// full misses the event rather than blocking the publisher.
func (h *Hub) Publish(topic, event string, payload any) {
	envelope, err := NewEnvelope(topic, event, payload)
	if err != nil {
		h.logger.Errorf(context.Background(), "Failed to marshal event %s payload: %v", event, err)
		return
	}
	data, err := envelope.ToJSON()
	if err != nil {
		h.logger.Errorf(context.Background(), "Failed to marshal envelope for %s: %v", event, err)
		return
	}

	h.totalPublishes.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.topics[topic] {
		select {
		case conn.send <- data:
			h.totalMessagesSent.Add(1)
		default:
			h.logger.Warnf(context.Background(), "Dropping %s event for client %s (buffer full)", event, conn.id)
			h.totalMessagesDropped.Add(1)
		}
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.connections {
		conn.Close()
	}
	h.connections = make(map[string]*Connection)
	h.topics = make(map[string]map[*Connection]struct{})
}

// HubStats represents hub statistics.
type HubStats struct {
	ActiveConnections    int   `json:"active_connections"`
	ActiveTopics         int   `json:"active_topics"`
	TotalPublishes       int64 `json:"total_publishes"`
	TotalMessagesSent    int64 `json:"total_messages_sent"`
	TotalMessagesDropped int64 `json:"total_messages_dropped"`
}

// GetStats returns hub statistics.
func (h *Hub) GetStats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return HubStats{
		ActiveConnections:    len(h.connections),
		ActiveTopics:         len(h.topics),
		TotalPublishes:       h.totalPublishes.Load(),
		TotalMessagesSent:    h.totalMessagesSent.Load(),
		TotalMessagesDropped: h.totalMessagesDropped.Load(),
	}
}

// SubscriberCount returns the number of subscribers on a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Shutdown gracefully shuts down the hub.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.cancel()

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// connTimeout bounds how long registration waits when the hub loop is
// saturated.
const connTimeout = time.Second

func (h *Hub) enqueueRegister(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-time.After(connTimeout):
		return false
	}
}
