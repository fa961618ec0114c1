package bus

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"cicd-dashboard/pkg/log"
)

const maxFrameSize = 512

// Connection represents one WebSocket client of the bus.
type Connection struct {
	hub *Hub

	conn *websocket.Conn

	// Connection ID assigned at upgrade time
	id string

	// Buffered channel of outbound messages
	send chan []byte

	// Subscribed topics, guarded by the hub's mutex
	topics map[string]struct{}

	pongWait   time.Duration
	pingPeriod time.Duration
	writeWait  time.Duration

	logger log.Logger

	done chan struct{}
}

// NewConnection creates a new Connection instance.
func NewConnection(
	hub *Hub,
	conn *websocket.Conn,
	id string,
	pongWait time.Duration,
	pingPeriod time.Duration,
	writeWait time.Duration,
	logger log.Logger,
) *Connection {
	return &Connection{
		hub:        hub,
		conn:       conn,
		id:         id,
		send:       make(chan []byte, 256),
		topics:     make(map[string]struct{}),
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
		writeWait:  writeWait,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// readPump pumps frames from the WebSocket connection to the hub.
//
// The application runs readPump in a per-connection goroutine. The
// application ensures that there is at most one reader on a connection
// by executing all reads from this goroutine.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})
	c.conn.SetReadLimit(maxFrameSize)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Errorf(context.Background(), "WebSocket read error for client %s: %v", c.id, err)
			}
			break
		}

		c.handleFrame(message)
	}
}

// handleFrame processes one client frame. Malformed frames produce an
// error reply but never close the connection.
func (c *Connection) handleFrame(message []byte) {
	frame, err := ParseClientFrame(message)
	if err != nil {
		c.reply(EventError, "", map[string]string{"error": "invalid frame"})
		return
	}

	switch frame.Action {
	case ActionSubscribe:
		if err := c.hub.Subscribe(c, frame.Topic); err != nil {
			c.reply(EventError, frame.Topic, map[string]string{"error": err.Error()})
			return
		}
		c.reply(EventSubscribed, frame.Topic, nil)

	case ActionUnsubscribe:
		c.hub.Unsubscribe(c, frame.Topic)
		c.reply(EventUnsubscribed, frame.Topic, nil)

	case ActionPing:
		c.reply(EventPong, "", nil)
	}
}

// reply queues a protocol-level envelope on this connection only.
func (c *Connection) reply(event, topic string, payload any) {
	envelope, err := NewEnvelope(topic, event, payload)
	if err != nil {
		return
	}
	data, err := envelope.ToJSON()
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warnf(context.Background(), "Dropping %s reply for client %s (buffer full)", event, c.id)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection
// by executing all writes from this goroutine.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))

			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// Start starts the connection's read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() {
	select {
	case <-c.done:
		// Already closed
		return
	default:
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	}
}
