package core

import (
	"context"
	"math/big"

	"trade-indexer-near/internal/types"
)

// TradeEventHandler 是引擎唯一的输出契约，由外部 sink 实现。
// 事件回调在单线程的 receipt 处理中同步调用，实现方只做缓冲；
// OnBlockFlush 是每个区块结束后的同步屏障，返回 error 表示发布不可恢复失败，
// 引擎在开始下一个区块前必须停下。
type TradeEventHandler interface {
	OnRawPoolSwap(ctx *TradeContext, swap *RawPoolSwap)
	OnBalanceChangeSwap(ctx *TradeContext, swap *BalanceChangeSwap, referrer *types.AccountID)
	OnPoolChange(event *PoolChangeEvent)
	OnLiquidityChange(ctx *TradeContext, poolID PoolID, tokenDeltas map[types.AccountID]*big.Int)
	OnBlockFlush(ctx context.Context, height uint64) error
}
