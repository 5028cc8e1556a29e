package service

import (
	"context"
	"sync"
	"time"

	dErrors "bimadesk/pkg/domain-errors"
)

// TxRunner provides the transactional boundary for a client mutation: the
// aggregate write, the document cleanup and the audit append all run inside
// one fn call and commit or roll back together. Implementations wrap a
// database transaction or, in-memory, a per-client lock. The key serializes
// concurrent mutations of the same client.
type TxRunner interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// shardedTx serializes in-memory mutations with sharded mutexes keyed by
// client ID, so concurrent writers to the same client see each other while
// unrelated clients proceed in parallel.
const numShards = 128

// defaultTxTimeout bounds how long a mutation may hold its shard.
const defaultTxTimeout = 5 * time.Second

type shardedTx struct {
	shards  [numShards]sync.Mutex
	timeout time.Duration
}

// NewShardedTx builds the in-memory TxRunner used with the memory stores.
func NewShardedTx() TxRunner {
	return &shardedTx{}
}

func (t *shardedTx) RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := hashKey(key) % numShards
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

// hashKey uses FNV-1a for even shard distribution.
func hashKey(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
