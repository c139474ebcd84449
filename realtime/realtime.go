package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"saletech/config"
	"saletech/model"

	"github.com/redis/go-redis/v9"
)

func Channel(orderID uint) string {
	return fmt.Sprintf("order:%d", orderID)
}

// Broker publishes order events and lets websocket clients follow one order.
type Broker interface {
	PublishOrderEvent(ctx context.Context, event model.OrderEvent) error
	Subscribe(ctx context.Context, orderID uint) (<-chan []byte, func())
}

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

type RedisBroker struct {
	client redis.UniversalClient
}

func NewRedisBroker(client redis.UniversalClient) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) PublishOrderEvent(ctx context.Context, event model.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, Channel(event.OrderID), payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, orderID uint) (<-chan []byte, func()) {
	pubsub := b.client.Subscribe(ctx, Channel(orderID))
	out := make(chan []byte, 8)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, func() { _ = pubsub.Close() }
}

// LocalBroker fans events out inside one process. It is used when Redis is
// not configured.
type LocalBroker struct {
	mu   sync.Mutex
	subs map[uint]map[chan []byte]struct{}
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[uint]map[chan []byte]struct{})}
}

func (b *LocalBroker) PublishOrderEvent(_ context.Context, event model.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[event.OrderID] {
		select {
		case ch <- payload:
		default:
			// slow subscriber, drop
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(_ context.Context, orderID uint) (<-chan []byte, func()) {
	ch := make(chan []byte, 8)
	b.mu.Lock()
	if b.subs[orderID] == nil {
		b.subs[orderID] = make(map[chan []byte]struct{})
	}
	b.subs[orderID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[orderID], ch)
			if len(b.subs[orderID]) == 0 {
				delete(b.subs, orderID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}
