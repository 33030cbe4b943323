package core

import (
	"math/big"

	"trade-indexer-near/internal/types"
)

// PoolId 统一格式 "<PROTOCOL>-<identifier>"，是下游消费的 wire 约定，不能变
type PoolID = string

// TradeContext 是同一 receipt 产出的所有事件共享的上下文，构造后不再修改
type TradeContext struct {
	Trader                types.AccountID
	BlockHeight           uint64
	BlockTimestampNanosec uint64
	TransactionID         types.CryptoHash
	ReceiptID             types.CryptoHash
}

// RawPoolSwap 表示经过一个池子的单跳兑换。
// 约定 AmountIn > 0 且 AmountOut > 0：合约不会为 0 额跳打日志。
type RawPoolSwap struct {
	Pool      PoolID
	TokenIn   types.AccountID
	TokenOut  types.AccountID
	AmountIn  *big.Int // u128
	AmountOut *big.Int // u128
}

// BalanceChangeSwap 是一个 receipt 内所有跳的净额（0 项已剔除）加上构成它的跳列表
type BalanceChangeSwap struct {
	BalanceChanges map[types.AccountID]*big.Int // token → i128 净变化
	PoolSwaps      []*RawPoolSwap               // 调用顺序
}

// PoolChangeEvent 是一次池子状态快照变更（来源于原始状态变更或协议结构化日志）
type PoolChangeEvent struct {
	PoolID                PoolID
	ReceiptID             types.CryptoHash
	BlockTimestampNanosec uint64
	BlockHeight           uint64
	Pool                  PoolSnapshot
}

// PoolSnapshot 是各协议池子快照的封闭联合：每个协议一组变体，按 kind 区分
type PoolSnapshot interface {
	Protocol() string // "ref" / "veax" / "aidols" / "grafun"
	PoolKind() string // 协议内的池子种类，如 "simple_pool"
}
