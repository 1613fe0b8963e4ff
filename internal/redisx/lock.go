package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// TxLock serializes processing per external transaction id across
// processes. The TTL bounds how long a crashed holder can block
// redelivery of the same transaction.
type TxLock struct {
	RDB *redis.Client
}

func (l *TxLock) Acquire(ctx context.Context, transactionID string) (bool, error) {
	key := fmt.Sprintf(KeyTxLock, transactionID)
	return l.RDB.SetNX(ctx, key, "1", TTLTxLock).Result()
}

func (l *TxLock) Release(ctx context.Context, transactionID string) {
	key := fmt.Sprintf(KeyTxLock, transactionID)
	_ = l.RDB.Del(ctx, key).Err()
}
