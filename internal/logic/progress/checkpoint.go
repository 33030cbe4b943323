package progress

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultCheckpointKey = "trade_indexer:last_flushed_height"

// RedisCheckpoint 记录最近一次 flush 成功的区块高度，重启后从这里续跑。
// 只在 flush 成功后写入，所以恢复语义是 at-least-once：
// 宕机在 flush 后、写入前的区块会被整块重放，下游按 receipt_id 去重。
type RedisCheckpoint struct {
	rdb *redis.Client
	key string
}

func NewRedisCheckpoint(rdb *redis.Client, key string) *RedisCheckpoint {
	if key == "" {
		key = defaultCheckpointKey
	}
	return &RedisCheckpoint{rdb: rdb, key: key}
}

// Load 返回上次保存的高度。没有记录时 found 为 false。
func (c *RedisCheckpoint) Load(ctx context.Context) (height uint64, found bool, err error) {
	val, err := c.rdb.Get(ctx, c.key).Uint64()
	switch {
	case err == redis.Nil:
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("load checkpoint: %w", err)
	}
	return val, true, nil
}

// Save 持久化高度。只能在该高度 flush 成功之后调用。
func (c *RedisCheckpoint) Save(ctx context.Context, height uint64) error {
	if err := c.rdb.Set(ctx, c.key, height, 0).Err(); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}
