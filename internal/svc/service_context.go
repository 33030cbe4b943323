package svc

import (
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"

	"trade-indexer-near/internal/config"
	"trade-indexer-near/internal/logic/progress"
	"trade-indexer-near/internal/mq"
	"trade-indexer-near/internal/sink"
	"trade-indexer-near/pkg/logger"
)

// ServiceContext 持有索引服务的全部外部资源
type ServiceContext struct {
	Config     config.IndexerConfig
	Redis      *redis.Client
	Producer   *kafka.Producer // Kafka 未启用时为 nil
	Checkpoint *progress.RedisCheckpoint
	Sink       *sink.Multi
}

func NewServiceContext(c config.IndexerConfig) (*ServiceContext, error) {
	// 1. Redis：进度点和 Redis Stream sink 共用
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisConf.Addr,
		Password: c.RedisConf.Password,
		DB:       c.RedisConf.DB,
	})

	redisSink := sink.NewRedisStreamSink(rdb, c.RedisSinkConf)

	// 2. Kafka 生产者（可选）
	var producer *kafka.Producer
	var multi *sink.Multi
	if c.KafkaProducerConf.Enabled {
		p, err := mq.NewKafkaProducer(c.KafkaProducerConf.ToKafkaOption())
		if err != nil {
			logger.Errorf("Kafka producer 初始化失败: %v", err)
			return nil, err
		}
		producer = p
		kafkaSink := sink.NewKafkaSink(
			p,
			c.KafkaProducerConf.Topics,
			c.KafkaProducerConf.Partitions,
			time.Duration(c.KafkaProducerConf.SendTimeoutMs)*time.Millisecond,
		)
		multi = sink.NewMulti(redisSink, kafkaSink)
	} else {
		multi = sink.NewMulti(redisSink)
	}

	ctx := &ServiceContext{
		Config:     c,
		Redis:      rdb,
		Producer:   producer,
		Checkpoint: progress.NewRedisCheckpoint(rdb, c.CheckpointKey),
		Sink:       multi,
	}

	logger.Infof("服务上下文初始化完成 (network=%s, kafka=%v)", c.Network, c.KafkaProducerConf.Enabled)
	return ctx, nil
}

// Close 关闭服务上下文中的资源
func (ctx *ServiceContext) Close() {
	if ctx.Producer != nil {
		ctx.Producer.Close()
	}
	if ctx.Redis != nil {
		_ = ctx.Redis.Close()
	}
}
