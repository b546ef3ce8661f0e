package results

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Feed publishes records over Redis pub/sub as scenarios finish, so a
// watcher sees a run while it is still in progress.
type Feed struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewFeed(client *redis.Client, logger *logrus.Logger) (*Feed, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Feed{client: client, logger: logger}, nil
}

// GroupChannel is the channel carrying records of one scenario group.
func GroupChannel(group string) string {
	return constants.ChannelRunsGroupPrefix + group
}

// Record publishes r to the all-runs channel and to its group channel.
func (f *Feed) Record(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	pipe := f.client.Pipeline()
	pipe.Publish(ctx, constants.ChannelRunsAll, data)
	if r.Group != "" {
		pipe.Publish(ctx, GroupChannel(r.Group), data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}

// Subscribe calls handler for every record published on channel until ctx
// is done. Undecodable payloads are logged and skipped.
func (f *Feed) Subscribe(ctx context.Context, channel string, handler func(Record)) error {
	sub := f.client.Subscribe(ctx, channel)
	defer sub.Close()

	// wait for the subscription to be confirmed before reporting ready
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}
	f.logger.WithField("channel", channel).Debug("Subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var r Record
			if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
				f.logger.WithError(err).Warn("Skipping malformed result message")
				continue
			}
			handler(r)
		}
	}
}
