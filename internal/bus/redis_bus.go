package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// payloadField is the stream entry field holding the serialized event.
const payloadField = "payload"

// RedisStreamBus implements MessageBus and Subscriber on top of Redis Streams.
// Each destination maps to one stream; consumption uses a consumer group so
// unacknowledged messages are redelivered after a restart.
type RedisStreamBus struct {
	client   *redis.Client
	group    string
	consumer string
	logger   *slog.Logger
}

// RedisConfig holds the Redis connection and consumer group settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Group    string
	Consumer string
}

// NewRedisStreamBus creates a RedisStreamBus and verifies connectivity.
func NewRedisStreamBus(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*RedisStreamBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStreamBus{
		client:   client,
		group:    cfg.Group,
		consumer: cfg.Consumer,
		logger:   logger,
	}, nil
}

// Send appends the payload to the destination stream.
func (b *RedisStreamBus) Send(ctx context.Context, destination string, payload []byte) error {
	err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: destination,
		Values: map[string]any{payloadField: payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to send to %s: %w", destination, err)
	}
	return nil
}

// Subscribe reads from the destination streams with a consumer group and
// dispatches each entry to the handler. Messages are acknowledged only after
// the handler succeeds, so a handler error yields redelivery.
func (b *RedisStreamBus) Subscribe(ctx context.Context, destinations []string, handler Handler) error {
	for _, destination := range destinations {
		err := b.client.XGroupCreateMkStream(ctx, destination, b.group, "0").Err()
		if err != nil && !isBusyGroupErr(err) {
			return fmt.Errorf("failed to create consumer group on %s: %w", destination, err)
		}
	}

	streams := make([]string, 0, len(destinations)*2)
	streams = append(streams, destinations...)
	for range destinations {
		streams = append(streams, ">")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: b.consumer,
			Streams:  streams,
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if b.logger != nil {
				b.logger.Error("failed to read from bus", slog.Any("error", err))
			}
			continue
		}

		for _, stream := range result {
			for _, message := range stream.Messages {
				payload, _ := message.Values[payloadField].(string)
				msg := InboundMessage{
					ID:          message.ID,
					Destination: stream.Stream,
					Payload:     []byte(payload),
				}

				if err := handler(ctx, msg); err != nil {
					if b.logger != nil {
						b.logger.Error("failed to handle message",
							slog.String("destination", msg.Destination),
							slog.String("message_id", msg.ID),
							slog.Any("error", err),
						)
					}
					// Leave unacknowledged for redelivery.
					continue
				}

				if err := b.client.XAck(ctx, stream.Stream, b.group, message.ID).Err(); err != nil {
					if b.logger != nil {
						b.logger.Error("failed to ack message",
							slog.String("destination", msg.Destination),
							slog.String("message_id", msg.ID),
							slog.Any("error", err),
						)
					}
				}
			}
		}
	}
}

// Close releases the underlying Redis client.
func (b *RedisStreamBus) Close() error {
	return b.client.Close()
}

// isBusyGroupErr reports whether err is the "group already exists" reply.
func isBusyGroupErr(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}
