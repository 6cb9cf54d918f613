package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrQuotaExceeded is returned when a value is larger than the configured quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// DefaultQuotaBytes matches the per-origin limit browsers give local storage.
const DefaultQuotaBytes int64 = 5 << 20

type quotaKV struct {
	KV
	max int64
}

// WithQuota rejects writes whose value exceeds max bytes. The existing value is
// left untouched when a write is rejected.
func WithQuota(kv KV, max int64) KV {
	return &quotaKV{KV: kv, max: max}
}

func (q *quotaKV) Set(ctx context.Context, key string, value []byte) error {
	if n := int64(len(value)); n > q.max {
		return fmt.Errorf("%w: %d bytes > %d", ErrQuotaExceeded, n, q.max)
	}
	return q.KV.Set(ctx, key, value)
}
