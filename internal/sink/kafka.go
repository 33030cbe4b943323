package sink

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/mq"
	"trade-indexer-near/internal/types"
	"trade-indexer-near/internal/utils"
	"trade-indexer-near/pkg/logger"
)

const defaultSendTimeout = 10 * time.Second

// KafkaTopics 四类事件各一个 topic，留空的 topic 对应事件不发
type KafkaTopics struct {
	Pool       string `yaml:"pool"`
	Swap       string `yaml:"swap"`
	PoolChange string `yaml:"pool_change"`
	Liquidity  string `yaml:"liquidity"`
}

// KafkaPartitions 与 KafkaTopics 一一对应的分区数
type KafkaPartitions struct {
	Pool       int `yaml:"pool"`
	Swap       int `yaml:"swap"`
	PoolChange int `yaml:"pool_change"`
	Liquidity  int `yaml:"liquidity"`
}

// KafkaSink 与 RedisStreamSink 同构：区块内缓冲，flush 时并发发送并等 ack。
// 分区按 receipt id 哈希选择，同一 receipt 的事件落在同一分区，
// 下游按分区内顺序即可还原 receipt 内的事件顺序。
type KafkaSink struct {
	producer    *kafka.Producer
	topics      KafkaTopics
	partitions  KafkaPartitions
	sendTimeout time.Duration

	pending []*mq.KafkaJob
}

func NewKafkaSink(producer *kafka.Producer, topics KafkaTopics, partitions KafkaPartitions, sendTimeout time.Duration) *KafkaSink {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	return &KafkaSink{
		producer:    producer,
		topics:      topics,
		partitions:  partitions,
		sendTimeout: sendTimeout,
	}
}

func (s *KafkaSink) OnRawPoolSwap(ctx *core.TradeContext, swap *core.RawPoolSwap) {
	s.buffer(s.topics.Pool, s.partitions.Pool, ctx.ReceiptID,
		func() ([]byte, error) { return encodePoolSwap(ctx, swap) })
}

func (s *KafkaSink) OnBalanceChangeSwap(ctx *core.TradeContext, swap *core.BalanceChangeSwap, referrer *types.AccountID) {
	s.buffer(s.topics.Swap, s.partitions.Swap, ctx.ReceiptID,
		func() ([]byte, error) { return encodeBalanceChange(ctx, swap, referrer) })
}

func (s *KafkaSink) OnPoolChange(event *core.PoolChangeEvent) {
	s.buffer(s.topics.PoolChange, s.partitions.PoolChange, event.ReceiptID,
		func() ([]byte, error) { return encodePoolChange(event) })
}

func (s *KafkaSink) OnLiquidityChange(ctx *core.TradeContext, pool core.PoolID, tokenDeltas map[types.AccountID]*big.Int) {
	s.buffer(s.topics.Liquidity, s.partitions.Liquidity, ctx.ReceiptID,
		func() ([]byte, error) { return encodeLiquidity(ctx, pool, tokenDeltas) })
}

func (s *KafkaSink) buffer(topic string, partitions int, receiptID types.CryptoHash, encode func() ([]byte, error)) {
	if topic == "" {
		return
	}
	payload, err := encode()
	if err != nil {
		logger.Errorf("[sink:kafka] encode failed for topic %s: %v", topic, err)
		return
	}
	s.pending = append(s.pending, &mq.KafkaJob{
		Topic:     topic,
		Partition: utils.ReceiptPartition(receiptID, uint32(max(partitions, 1))),
		Key:       receiptID[:],
		Value:     payload,
	})
}

// OnBlockFlush 并发发送本区块全部消息。失败的子集按退避重发，
// 重试耗尽返回错误，缓冲保留整块重放。
func (s *KafkaSink) OnBlockFlush(ctx context.Context, height uint64) error {
	if len(s.pending) == 0 {
		return nil
	}

	remaining := s.pending
	backoff := flushBackoffBase
	for attempt := 0; attempt <= defaultFlushRetries; attempt++ {
		if attempt > 0 {
			logger.Warnf("[sink:kafka] flush retry %d/%d for block %d, %d messages left",
				attempt, defaultFlushRetries, height, len(remaining))
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
		_, failed := mq.SendKafkaJobs(ctx, s.producer, remaining, s.sendTimeout)
		if len(failed) == 0 {
			s.pending = s.pending[:0]
			return nil
		}
		next := make([]*mq.KafkaJob, 0, len(failed))
		for _, result := range failed {
			next = append(next, result.Job)
		}
		remaining = next
	}
	return fmt.Errorf("flush block %d: %d messages undelivered after %d retries",
		height, len(remaining), defaultFlushRetries)
}
