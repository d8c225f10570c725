package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis carries the engine's two external streams: inbound feature frames
// published by the capture stack and outbound pacing decisions consumed by
// the show controller.
type Redis struct {
	Client          *redis.Client
	Logger          *zap.SugaredLogger
	FrameChannel    string
	DecisionChannel string
}

func New(host, password, frameChannel, decisionChannel string, logger *zap.SugaredLogger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     host,
		Password: password,
	})

	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Redis{
		Client:          client,
		Logger:          logger,
		FrameChannel:    frameChannel,
		DecisionChannel: decisionChannel,
	}, nil
}

// ConsumeFrameChannel subscribes to the capture stack's frame stream.
func (r *Redis) ConsumeFrameChannel() <-chan *redis.Message {
	sub := r.Client.Subscribe(context.Background(), r.FrameChannel)
	return sub.Channel()
}

// PublishDecision pushes one pacing decision to the show controller.
func (r *Redis) PublishDecision(data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	err = r.Client.Publish(context.Background(), r.DecisionChannel, jsonData).Err()
	if err != nil {
		return err
	}

	r.Logger.Infow("redis: PublishDecision", "channel", r.DecisionChannel, "data", data)

	return nil
}
