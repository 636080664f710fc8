package costing

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PropagationChannel is the redis channel propagation summaries are published
// on. UI sessions subscribe to it to toast "N records updated".
const PropagationChannel = "cozinha:propagation"

// Notifier delivers a finished propagation's summary to interested UI
// sessions. Delivery is best-effort: the engine never fails a propagation
// because nobody could be told about it.
type Notifier interface {
	PropagationFinished(ctx context.Context, accountID string, result *Result)
}

type redisNotifier struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisNotifier publishes summaries on PropagationChannel.
func NewRedisNotifier(rdb *redis.Client, logger *zap.Logger) Notifier {
	return &redisNotifier{rdb: rdb, logger: logger}
}

type propagationEvent struct {
	AccountID      string `json:"account_id"`
	BasesUpdated   int    `json:"bases_updated"`
	RecipesUpdated int    `json:"recipes_updated"`
	ProductsSynced int    `json:"products_synced"`
	Failed         int    `json:"failed"`
}

func (n *redisNotifier) PropagationFinished(ctx context.Context, accountID string, result *Result) {
	payload, err := json.Marshal(propagationEvent{
		AccountID:      accountID,
		BasesUpdated:   result.BasesUpdated,
		RecipesUpdated: result.RecipesUpdated,
		ProductsSynced: result.ProductsSynced,
		Failed:         result.Failed(),
	})
	if err != nil {
		return
	}
	if err := n.rdb.Publish(ctx, PropagationChannel, payload).Err(); err != nil {
		n.logger.Warn("publish propagation summary",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
	}
}

// NopNotifier discards summaries. Used in tests and when redis is not
// configured.
type NopNotifier struct{}

func (NopNotifier) PropagationFinished(context.Context, string, *Result) {}
