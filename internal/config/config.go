package config

import (
	"trade-indexer-near/internal/consts"
	"trade-indexer-near/internal/logic/stream"
	"trade-indexer-near/internal/mq"
	"trade-indexer-near/internal/sink"
	"trade-indexer-near/pkg/logger"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// RedisConfig 进度点和 Redis Stream sink 共用一个实例
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置。
// enabled 为 false 时只走 Redis Stream sink。
type KafkaProducerConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Brokers   string `yaml:"brokers"`    // Kafka broker 地址，多个用英文逗号分隔
	BatchSize int    `yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs  int    `yaml:"linger_ms"`  // 批处理最大延迟（毫秒）

	Topics     sink.KafkaTopics     `yaml:"topics"`
	Partitions sink.KafkaPartitions `yaml:"partitions"`

	SendTimeoutMs int `yaml:"send_timeout_ms"` // 单条消息发送并等 ack 的超时
}

func (c *KafkaProducerConfig) ToKafkaOption() mq.KafkaProducerOption {
	return mq.KafkaProducerOption{
		Brokers:   c.Brokers,
		BatchSize: c.BatchSize,
		LingerMs:  c.LingerMs,
		Topics: []mq.TopicSpec{
			{Topic: c.Topics.Pool, Partitions: c.Partitions.Pool},
			{Topic: c.Topics.Swap, Partitions: c.Partitions.Swap},
			{Topic: c.Topics.PoolChange, Partitions: c.Partitions.PoolChange},
			{Topic: c.Topics.Liquidity, Partitions: c.Partitions.Liquidity},
		},
	}
}

// IndexerConfig 是主配置结构体，驱动整个索引服务
type IndexerConfig struct {
	LogConf LogConfig `yaml:"logger"`

	Network        string `yaml:"network"`          // mainnet / testnet
	StartHeight    uint64 `yaml:"start_height"`     // 无进度点时的起始高度
	RefPoolCeiling uint64 `yaml:"ref_pool_ceiling"` // Ref 池子编号上限，0 用默认值

	FastNear stream.FastNearConfig `yaml:"fastnear"`

	RedisConf     RedisConfig                `yaml:"redis"`
	RedisSinkConf sink.RedisStreamSinkConfig `yaml:"redis_sink"`
	CheckpointKey string                     `yaml:"checkpoint_key"` // 进度点 key，空用默认

	KafkaProducerConf KafkaProducerConfig `yaml:"kafka_producer"`
}

// NetworkID 把配置字符串转成网络枚举，非法值按主网处理
func (c *IndexerConfig) NetworkID() consts.Network {
	if c.Network == string(consts.NetworkTestnet) {
		return consts.NetworkTestnet
	}
	return consts.NetworkMainnet
}
