package syncq

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/mamo-store/backend/internal/store/mirror"
)

// Pusher is the slice of the remote client the queue needs to replay writes
type Pusher interface {
	CreateProduct(ctx context.Context, p *catalog.Product) error
	UpdateProduct(ctx context.Context, p *catalog.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// Queue replays locally applied catalog writes against the server. Writes
// land in the mirror first and are pushed in the background, so the
// storefront never blocks on the network and never rolls back.
type Queue struct {
	mirror   *mirror.Mirror
	pusher   Pusher
	interval time.Duration
	logger   *zap.Logger
}

// New creates a sync queue draining into the given pusher
func New(m *mirror.Mirror, pusher Pusher, interval time.Duration, logger *zap.Logger) *Queue {
	return &Queue{mirror: m, pusher: pusher, interval: interval, logger: logger}
}

// EnqueueUpsert queues a product create-or-update for sync
func (q *Queue) EnqueueUpsert(p *catalog.Product) error {
	return q.mirror.EnqueueMutation(mirror.MutationUpsert, p, "")
}

// EnqueueDelete queues a product deletion for sync
func (q *Queue) EnqueueDelete(productID string) error {
	return q.mirror.EnqueueMutation(mirror.MutationDelete, nil, productID)
}

// Pending returns how many writes still await sync
func (q *Queue) Pending() (int64, error) {
	return q.mirror.PendingCount()
}

// Drain pushes queued mutations in order until the queue is empty or a push
// fails. A failed push leaves the mutation queued for the next pass.
// An upsert tries update first and falls back to create when the server has
// never seen the id, so replays stay idempotent regardless of ordering.
func (q *Queue) Drain(ctx context.Context) (int, error) {
	pending, err := q.mirror.PendingMutations()
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, mu := range pending {
		if err := q.push(ctx, mu); err != nil {
			q.logger.Debug("sync push failed, will retry",
				zap.String("kind", mu.Kind),
				zap.String("product_id", mu.ProductID),
				zap.Error(err))
			return synced, err
		}
		if err := q.mirror.DeleteMutation(mu.ID); err != nil {
			return synced, err
		}
		synced++
	}
	if synced > 0 {
		q.logger.Info("sync queue drained", zap.Int("mutations", synced))
	}
	return synced, nil
}

func (q *Queue) push(ctx context.Context, mu mirror.Mutation) error {
	switch mu.Kind {
	case mirror.MutationDelete:
		return q.pusher.DeleteProduct(ctx, mu.ProductID)
	case mirror.MutationUpsert:
		p, err := mu.MutationProduct()
		if err != nil {
			// poisoned payload, dropping it beats wedging the queue
			q.logger.Warn("dropping undecodable mutation", zap.Uint("id", mu.ID), zap.Error(err))
			return nil
		}
		err = q.pusher.UpdateProduct(ctx, p)
		if errors.Is(err, shared.ErrNotFound) {
			return q.pusher.CreateProduct(ctx, p)
		}
		return err
	default:
		q.logger.Warn("dropping mutation of unknown kind", zap.String("kind", mu.Kind))
		return nil
	}
}

// Start drains the queue on a ticker until the context is cancelled
func (q *Queue) Start(ctx context.Context) {
	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := q.Drain(ctx); err != nil && !errors.Is(err, context.Canceled) {
				continue
			}
		}
	}
}
