package remote

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier announces changes on the channel "store:<collection>".
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func channelFor(collection string) string { return "store:" + collection }

func (n *RedisNotifier) Publish(ctx context.Context, collection string) error {
	return n.client.Publish(ctx, channelFor(collection), collection).Err()
}

func (n *RedisNotifier) Listen(ctx context.Context, collection string) (<-chan struct{}, func() error, error) {
	sub := n.client.Subscribe(ctx, channelFor(collection))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, err
	}

	// One pending signal is enough: the listener re-reads the whole collection.
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range sub.Channel() {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out, sub.Close, nil
}
