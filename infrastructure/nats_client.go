package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const (
	// DrawEventStream holds every lotto draw event
	DrawEventStream = "lotto_events"

	clientName = "lottocheck"
)

// NATSClient wraps a NATS connection with JetStream
type NATSClient struct {
	servers              string
	nc                   *nats.Conn
	js                   nats.JetStreamContext
	subscriptions        map[string]*nats.Subscription
	mu                   sync.RWMutex
	reconnectDelay       time.Duration
	maxReconnectAttempts int
}

// NewNATSClient creates a new NATS client
func NewNATSClient(servers string) *NATSClient {
	return &NATSClient{
		servers:              servers,
		subscriptions:        make(map[string]*nats.Subscription),
		reconnectDelay:       2 * time.Second,
		maxReconnectAttempts: 10,
	}
}

// Connect establishes a connection to the NATS server with JetStream
func (c *NATSClient) Connect(ctx context.Context) error {
	opts := []nats.Option{
		nats.Name(clientName),
		nats.MaxReconnects(c.maxReconnectAttempts),
		nats.ReconnectWait(c.reconnectDelay),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			fields := log.Fields{"error": err}
			if sub != nil {
				fields["subject"] = sub.Subject
			}
			log.WithFields(fields).Error("NATS async error")
		}),
	}
	if deadline, ok := ctx.Deadline(); ok {
		opts = append(opts, nats.Timeout(time.Until(deadline)))
	}

	nc, err := nats.Connect(c.servers, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	c.mu.Lock()
	c.nc = nc
	c.js = js
	c.mu.Unlock()

	log.WithField("servers", c.servers).Info("Connected to NATS with JetStream")
	return nil
}

// Subscribe registers a handler for messages on the specified subject.
// Durable consumers are named after the subject and the given consumer prefix.
func (c *NATSClient) Subscribe(consumer, subject string, handler func(subject string, data []byte) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}

	sub, err := c.js.Subscribe(
		subject,
		func(msg *nats.Msg) {
			if err := handler(msg.Subject, msg.Data); err != nil {
				log.WithFields(log.Fields{
					"subject": msg.Subject,
					"error":   err,
				}).Error("Failed to process message")

				if nakErr := msg.Nak(); nakErr != nil {
					log.WithError(nakErr).Error("Failed to NAK message")
				}
				return
			}

			if ackErr := msg.Ack(); ackErr != nil {
				log.WithError(ackErr).Error("Failed to ACK message")
			}
		},
		nats.Durable(ConsumerName(consumer, subject)),
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.MaxDeliver(3),
		nats.AckWait(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	c.subscriptions[subject] = sub
	log.WithField("subject", subject).Info("Subscribed to NATS subject")
	return nil
}

// ConsumerName derives a durable consumer name; JetStream rejects dots and
// wildcards in consumer names.
func ConsumerName(consumer, subject string) string {
	sanitized := strings.ReplaceAll(subject, ".", "_")
	sanitized = strings.ReplaceAll(sanitized, "*", "wildcard")
	sanitized = strings.ReplaceAll(sanitized, ">", "all")
	return fmt.Sprintf("%s-%s", consumer, sanitized)
}

// Close gracefully shuts down the NATS connection
func (c *NATSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for subject, sub := range c.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			log.WithFields(log.Fields{
				"subject": subject,
				"error":   err,
			}).Error("Failed to unsubscribe")
		}
	}
	c.subscriptions = make(map[string]*nats.Subscription)

	if c.nc != nil {
		c.nc.Close()
		c.nc = nil
		c.js = nil
		log.Info("NATS connection closed")
	}

	return nil
}

// IsConnected returns true if the client is connected to NATS
func (c *NATSClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nc != nil && c.nc.IsConnected()
}

// EnsureStream creates the named JetStream stream when it does not exist
func (c *NATSClient) EnsureStream(streamName string, subjects []string) error {
	c.mu.RLock()
	js := c.js
	c.mu.RUnlock()
	if js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}

	if _, err := js.StreamInfo(streamName); err == nil {
		log.WithField("stream", streamName).Info("JetStream stream already exists")
		return nil
	}

	cfg := &nats.StreamConfig{
		Name:        streamName,
		Subjects:    subjects,
		Retention:   nats.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		MaxMsgs:     100000,
		Storage:     nats.FileStorage,
		Replicas:    1,
		Description: "Lotto draw cache events",
	}

	if _, err := js.AddStream(cfg); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", streamName, err)
	}

	log.WithFields(log.Fields{
		"stream":   streamName,
		"subjects": subjects,
	}).Info("Created JetStream stream")
	return nil
}

// Publish publishes a message to the specified subject using JetStream
func (c *NATSClient) Publish(ctx context.Context, subject string, data []byte) error {
	c.mu.RLock()
	js := c.js
	c.mu.RUnlock()
	if js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}

	if _, err := js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
	}

	log.WithFields(log.Fields{
		"subject": subject,
		"size":    len(data),
	}).Debug("Published message to NATS")
	return nil
}
