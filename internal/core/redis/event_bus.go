package redis

import (
	"context"
	"encoding/json"

	"go-approval/internal/domain"

	"github.com/redis/go-redis/v9"
)

type ApprovalEventBus struct {
	client          *redis.Client
	approvedChannel string
	rejectedChannel string
}

func NewApprovalEventBus(client *redis.Client) *ApprovalEventBus {
	return &ApprovalEventBus{
		client:          client,
		approvedChannel: "approvals:events:approved",
		rejectedChannel: "approvals:events:rejected",
	}
}

// PublishRequestApproved broadcasts a finalized approval to downstream modules
func (b *ApprovalEventBus) PublishRequestApproved(ctx context.Context, event domain.ApprovalRequestApprovedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return b.client.Publish(ctx, b.approvedChannel, payload).Err()
}

// PublishRequestRejected broadcasts a finalized rejection to downstream modules
func (b *ApprovalEventBus) PublishRequestRejected(ctx context.Context, event domain.ApprovalRequestRejectedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return b.client.Publish(ctx, b.rejectedChannel, payload).Err()
}

// SubscribeToApproved opens a continuous stream of approval events
func (b *ApprovalEventBus) SubscribeToApproved(ctx context.Context) (<-chan domain.ApprovalRequestApprovedEvent, error) {
	pubsub := b.client.Subscribe(ctx, b.approvedChannel)

	msgChan := make(chan domain.ApprovalRequestApprovedEvent)

	// Background goroutine listens to Redis and forwards to our Go channel
	go func() {
		defer close(msgChan)
		for {
			select {
			case <-ctx.Done(): // Handle shutdown gracefully
				pubsub.Close()
				return
			default:
				msg, err := pubsub.ReceiveMessage(ctx)
				if err == nil {
					var event domain.ApprovalRequestApprovedEvent
					if err := json.Unmarshal([]byte(msg.Payload), &event); err == nil {
						msgChan <- event
					}
				}
			}
		}
	}()

	return msgChan, nil
}

// SubscribeToRejected opens a continuous stream of rejection events
func (b *ApprovalEventBus) SubscribeToRejected(ctx context.Context) (<-chan domain.ApprovalRequestRejectedEvent, error) {
	pubsub := b.client.Subscribe(ctx, b.rejectedChannel)

	msgChan := make(chan domain.ApprovalRequestRejectedEvent)

	go func() {
		defer close(msgChan)
		for {
			select {
			case <-ctx.Done():
				pubsub.Close()
				return
			default:
				msg, err := pubsub.ReceiveMessage(ctx)
				if err == nil {
					var event domain.ApprovalRequestRejectedEvent
					if err := json.Unmarshal([]byte(msg.Payload), &event); err == nil {
						msgChan <- event
					}
				}
			}
		}
	}()

	return msgChan, nil
}
