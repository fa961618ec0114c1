// Package redis bridges Redis pub/sub into the local realtime bus so
// that sibling instances and external producers can reach connected
// clients.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_client "github.com/redis/go-redis/v9"

	"cicd-dashboard/internal/bus"
	"cicd-dashboard/pkg/log"
	"cicd-dashboard/pkg/redis"
)

// channelPattern matches bridged channels: realtime:<topic>, where
// <topic> is a bus topic name ("realtime:alerts", "realtime:pipeline:42").
const channelPattern = "realtime:*"

// BridgeMessage is the payload published on a bridged Redis channel.
type BridgeMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Subscriber republishes Redis pub/sub messages onto the local bus.
type Subscriber struct {
	client *redis.Client
	hub    *bus.Hub
	logger log.Logger

	pubsub *redis_client.PubSub

	// Context for shutdown
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Reconnection settings
	maxRetries int
	retryDelay time.Duration

	// Health tracking
	mu            sync.RWMutex
	lastMessageAt time.Time
	isActive      atomic.Bool
}

// NewSubscriber creates a new Redis subscriber.
func NewSubscriber(client *redis.Client, hub *bus.Hub, logger log.Logger) *Subscriber {
	ctx, cancel := context.WithCancel(context.Background())

	return &Subscriber{
		client:     client,
		hub:        hub,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		maxRetries: 10,
		retryDelay: 5 * time.Second,
	}
}

// Start subscribes to the bridge pattern and begins routing messages.
func (s *Subscriber) Start() error {
	s.pubsub = s.client.PSubscribe(s.ctx, channelPattern)
	s.isActive.Store(true)

	s.logger.Infof(s.ctx, "Redis bridge started, listening on pattern: %s", channelPattern)

	go s.listen()
	return nil
}

func (s *Subscriber) listen() {
	defer close(s.done)

	ch := s.pubsub.Channel()

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info(context.Background(), "Redis bridge shutting down...")
			return

		case msg, ok := <-ch:
			if !ok {
				s.logger.Error(s.ctx, "Redis pub/sub channel closed, attempting to reconnect...")
				if err := s.reconnect(); err != nil {
					s.logger.Errorf(s.ctx, "Failed to reconnect to Redis: %v", err)
					return
				}
				ch = s.pubsub.Channel()
				continue
			}

			s.handleMessage(msg.Channel, msg.Payload)
		}
	}
}

// handleMessage republishes one bridged message onto the local bus.
func (s *Subscriber) handleMessage(channel string, payload string) {
	s.mu.Lock()
	s.lastMessageAt = time.Now()
	s.mu.Unlock()

	// Channel format: realtime:<topic>. Topics themselves may contain
	// a colon ("pipeline:42"), so split only once.
	parts := strings.SplitN(channel, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		s.logger.Warnf(s.ctx, "Invalid bridge channel format: %s", channel)
		return
	}
	topic := parts[1]

	if err := bus.ValidateTopic(topic); err != nil {
		s.logger.Warnf(s.ctx, "Dropping bridged message for %v", err)
		return
	}

	var msg BridgeMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		s.logger.Errorf(s.ctx, "Failed to unmarshal bridged message: %v", err)
		return
	}
	if msg.Event == "" {
		s.logger.Warnf(s.ctx, "Dropping bridged message without event on %s", channel)
		return
	}

	s.hub.Publish(topic, msg.Event, msg.Payload)
	s.logger.Debugf(s.ctx, "Bridged %s event to topic %s", msg.Event, topic)
}

// reconnect attempts to re-establish the pattern subscription.
func (s *Subscriber) reconnect() error {
	for i := 0; i < s.maxRetries; i++ {
		s.logger.Infof(s.ctx, "Reconnecting to Redis (attempt %d/%d)...", i+1, s.maxRetries)

		if s.pubsub != nil {
			s.pubsub.Close()
		}
		s.pubsub = s.client.PSubscribe(s.ctx, channelPattern)

		if _, err := s.pubsub.Receive(s.ctx); err == nil {
			s.logger.Info(s.ctx, "Successfully reconnected to Redis")
			return nil
		}

		time.Sleep(s.retryDelay)
	}

	return fmt.Errorf("failed to reconnect to Redis after %d attempts", s.maxRetries)
}

// GetHealthInfo returns the current health info of the bridge.
func (s *Subscriber) GetHealthInfo() (active bool, lastMessageAt time.Time, pattern string) {
	s.mu.RLock()
	lastMsg := s.lastMessageAt
	s.mu.RUnlock()

	return s.isActive.Load(), lastMsg, channelPattern
}

// Shutdown gracefully shuts down the bridge.
func (s *Subscriber) Shutdown(ctx context.Context) error {
	s.isActive.Store(false)
	s.cancel()

	if s.pubsub != nil {
		if err := s.pubsub.Close(); err != nil {
			s.logger.Errorf(context.Background(), "Error closing pub/sub: %v", err)
		}
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
