package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	domainsnapshot "github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
)

const scanBatch = 100

// RedisRepository stores each blob under prefix+name with a TTL, so a
// snapshot abandoned by a dead process eventually expires.
type RedisRepository struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *logging.Logger
}

func NewRedisRepository(rdb redis.UniversalClient, prefix string, ttl time.Duration, logger *logging.Logger) *RedisRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisRepository{rdb: rdb, prefix: prefix, ttl: ttl, logger: logger}
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (r *RedisRepository) LoadAll(ctx context.Context) ([]domainsnapshot.Blob, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget snapshots: %w", err)
	}

	out := make([]domainsnapshot.Blob, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// expired between SCAN and MGET
			continue
		}
		var blob domainsnapshot.Blob
		if err := sonic.UnmarshalString(raw, &blob); err != nil || blob.Category == "" {
			r.logger.WarnContext(ctx, "skip undecodable snapshot key", "key", keys[i], "error", err)
			continue
		}
		out = append(out, blob)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// SaveAll writes blobs and deletes keys under the prefix that are no longer
// cached, in one MULTI/EXEC.
func (r *RedisRepository) SaveAll(ctx context.Context, blobs []domainsnapshot.Blob) error {
	existing, err := r.keys(ctx)
	if err != nil {
		return err
	}

	payloads := make(map[string][]byte, len(blobs))
	for _, blob := range blobs {
		data, err := sonic.Marshal(blob)
		if err != nil {
			return fmt.Errorf("encode snapshot %s: %w", blob.Name(), err)
		}
		payloads[r.prefix+blob.Name()] = data
	}

	var stale []string
	for _, key := range existing {
		if _, ok := payloads[key]; !ok {
			stale = append(stale, key)
		}
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, data := range payloads {
			pipe.Set(ctx, key, data, r.ttl)
		}
		if len(stale) > 0 {
			pipe.Del(ctx, stale...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write snapshots: %w", err)
	}
	return nil
}

func (r *RedisRepository) keys(ctx context.Context) ([]string, error) {
	var out []string
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasPrefix(key, r.prefix) {
			out = append(out, key)
		}
	}
	if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("scan snapshot keys: %w", err)
	}
	sort.Strings(out)
	return out, nil
}
