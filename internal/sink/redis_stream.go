package sink

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/types"
	"trade-indexer-near/pkg/logger"
)

// 下游消费的四条 Redis Stream，名字是既定契约
const (
	StreamPool       = "trade_pool"
	StreamSwap       = "trade_swap"
	StreamPoolChange = "trade_pool_change"
	StreamLiquidity  = "trade_liquidity"
)

const (
	defaultMaxStreamSize = 100_000
	defaultFlushRetries  = 5
	flushBackoffBase     = 200 * time.Millisecond
	flushBackoffCap      = 5 * time.Second
)

// RedisStreamSinkConfig 控制 stream 截断长度和 flush 重试次数
type RedisStreamSinkConfig struct {
	MaxStreamSize int64 `yaml:"max_stream_size"` // XADD MAXLEN ~ 截断阈值
	FlushRetries  int   `yaml:"flush_retries"`   // flush 失败的最大重试次数
}

// RedisStreamSink 把事件攒在区块缓冲里，OnBlockFlush 时用 pipeline 一次写出。
// 语义是 at-least-once：flush 失败缓冲不清，重试会整块重写，下游按
// receipt_id 去重。非并发安全，单个区块处理循环内串行使用。
type RedisStreamSink struct {
	rdb           *redis.Client
	maxStreamSize int64
	flushRetries  int

	pending []streamEntry
}

type streamEntry struct {
	stream  string
	payload []byte
}

func NewRedisStreamSink(rdb *redis.Client, cfg RedisStreamSinkConfig) *RedisStreamSink {
	maxSize := cfg.MaxStreamSize
	if maxSize <= 0 {
		maxSize = defaultMaxStreamSize
	}
	retries := cfg.FlushRetries
	if retries <= 0 {
		retries = defaultFlushRetries
	}
	return &RedisStreamSink{
		rdb:           rdb,
		maxStreamSize: maxSize,
		flushRetries:  retries,
	}
}

func (s *RedisStreamSink) OnRawPoolSwap(ctx *core.TradeContext, swap *core.RawPoolSwap) {
	s.buffer(StreamPool, func() ([]byte, error) { return encodePoolSwap(ctx, swap) })
}

func (s *RedisStreamSink) OnBalanceChangeSwap(ctx *core.TradeContext, swap *core.BalanceChangeSwap, referrer *types.AccountID) {
	s.buffer(StreamSwap, func() ([]byte, error) { return encodeBalanceChange(ctx, swap, referrer) })
}

func (s *RedisStreamSink) OnPoolChange(event *core.PoolChangeEvent) {
	s.buffer(StreamPoolChange, func() ([]byte, error) { return encodePoolChange(event) })
}

func (s *RedisStreamSink) OnLiquidityChange(ctx *core.TradeContext, pool core.PoolID, tokenDeltas map[types.AccountID]*big.Int) {
	s.buffer(StreamLiquidity, func() ([]byte, error) { return encodeLiquidity(ctx, pool, tokenDeltas) })
}

func (s *RedisStreamSink) buffer(stream string, encode func() ([]byte, error)) {
	payload, err := encode()
	if err != nil {
		// 编码失败只可能是程序 bug，丢事件并留痕
		logger.Errorf("[sink:redis] encode failed for stream %s: %v", stream, err)
		return
	}
	s.pending = append(s.pending, streamEntry{stream: stream, payload: payload})
}

// OnBlockFlush 把本区块的全部事件写出。指数退避重试，耗尽后返回错误，
// 缓冲保留，调用方可整块重放。
func (s *RedisStreamSink) OnBlockFlush(ctx context.Context, height uint64) error {
	if len(s.pending) == 0 {
		return nil
	}

	var lastErr error
	backoff := flushBackoffBase
	for attempt := 0; attempt <= s.flushRetries; attempt++ {
		if attempt > 0 {
			logger.Warnf("[sink:redis] flush retry %d/%d for block %d: %v",
				attempt, s.flushRetries, height, lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return fmt.Errorf("flush cancelled at block %d: %w", height, ctx.Err())
			}
			backoff *= 2
			if backoff > flushBackoffCap {
				backoff = flushBackoffCap
			}
		}
		if lastErr = s.flushOnce(ctx, height); lastErr == nil {
			s.pending = s.pending[:0]
			return nil
		}
	}
	return fmt.Errorf("flush block %d after %d retries: %w", height, s.flushRetries, lastErr)
}

func (s *RedisStreamSink) flushOnce(ctx context.Context, height uint64) error {
	pipe := s.rdb.Pipeline()
	for _, entry := range s.pending {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: entry.stream,
			MaxLen: s.maxStreamSize,
			Approx: true,
			Values: map[string]interface{}{
				"height": height,
				"data":   entry.payload,
			},
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}

// PendingCount 仅用于测试观察缓冲状态
func (s *RedisStreamSink) PendingCount() int {
	return len(s.pending)
}
