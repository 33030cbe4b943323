package utils

import "trade-indexer-near/internal/types"

// ReceiptPartition 按 receipt id 选 Kafka 分区，保证同一 receipt 的事件
// 落在同一分区。CryptoHash 本身分布均匀，取 4 个间隔字节混合即可，
// 非加密用途。
func ReceiptPartition(id types.CryptoHash, partitions uint32) int32 {
	if partitions == 0 {
		return 0
	}
	mix := uint32(id[3])<<24 | uint32(id[11])<<16 | uint32(id[19])<<8 | uint32(id[27])
	return int32(mix % partitions)
}
