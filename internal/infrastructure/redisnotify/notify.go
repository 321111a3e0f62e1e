// Package redisnotify broadcasts affiliate rule changes between engine
// instances over Redis pub/sub. Every instance invalidates its local config
// cache when a message arrives.
package redisnotify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/sirupsen/logrus"
)

// DefaultChannel is used when no channel is configured
const DefaultChannel = "linkengine:affiliate-configs"

// Options holds the Redis connection settings. The pub/sub channel is passed
// to NewPublisher and NewSubscriber.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a Redis client and verifies it with a ping
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

// UpdateMessage is the payload published on the channel
type UpdateMessage struct {
	Source string    `json:"source"`
	SentAt time.Time `json:"sentAt"`
}

// publisher is the subset of redis.Client used by Publisher
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher announces that affiliate rules changed
type Publisher struct {
	client     publisher
	channel    string
	instanceID string
	now        func() time.Time
}

// NewPublisher creates a publisher for channel
func NewPublisher(client publisher, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		now:        time.Now,
	}
}

// NotifyUpdate publishes an update message
func (p *Publisher) NotifyUpdate(ctx context.Context) error {
	payload, err := json.Marshal(UpdateMessage{Source: p.instanceID, SentAt: p.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode update message: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish update: %w", err)
	}
	return nil
}

// Subscriber invalidates a local cache whenever an update is published
type Subscriber struct {
	client      *redis.Client
	channel     string
	invalidator domain.CacheInvalidator
	logger      logrus.FieldLogger
}

// NewSubscriber creates a subscriber for channel
func NewSubscriber(client *redis.Client, channel string, invalidator domain.CacheInvalidator, logger logrus.FieldLogger) *Subscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Subscriber{
		client:      client,
		channel:     channel,
		invalidator: invalidator,
		logger:      logger.WithField("component", "redisnotify"),
	}
}

// Run blocks until ctx is cancelled, invalidating the cache on every message
func (s *Subscriber) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}
	s.logger.WithField("channel", s.channel).Info("listening for affiliate config updates")

	return s.listen(ctx, pubsub.Channel())
}

// listen handles messages until ctx is cancelled or messages is closed
func (s *Subscriber) listen(ctx context.Context, messages <-chan *redis.Message) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			s.handleMessage(msg.Payload)
		}
	}
}

// handleMessage invalidates the cache. Payloads that do not decode still
// invalidate; only the log entry loses its source.
func (s *Subscriber) handleMessage(payload string) {
	var update UpdateMessage
	if err := json.Unmarshal([]byte(payload), &update); err != nil {
		s.logger.WithError(err).Debug("update message is not JSON")
	}

	s.invalidator.InvalidateCache()
	s.logger.WithField("source", update.Source).Info("affiliate configs changed, cache invalidated")
}
