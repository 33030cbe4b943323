package sink

import (
	"context"
	"errors"
	"math/big"

	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/types"
)

// Multi 把事件镜像到多个下游。flush 对每个下游都执行到底再聚合错误，
// 避免一个下游失败让另一个下游整块丢失。
type Multi struct {
	handlers []core.TradeEventHandler
}

func NewMulti(handlers ...core.TradeEventHandler) *Multi {
	return &Multi{handlers: handlers}
}

func (m *Multi) OnRawPoolSwap(ctx *core.TradeContext, swap *core.RawPoolSwap) {
	for _, h := range m.handlers {
		h.OnRawPoolSwap(ctx, swap)
	}
}

func (m *Multi) OnBalanceChangeSwap(ctx *core.TradeContext, swap *core.BalanceChangeSwap, referrer *types.AccountID) {
	for _, h := range m.handlers {
		h.OnBalanceChangeSwap(ctx, swap, referrer)
	}
}

func (m *Multi) OnPoolChange(event *core.PoolChangeEvent) {
	for _, h := range m.handlers {
		h.OnPoolChange(event)
	}
}

func (m *Multi) OnLiquidityChange(ctx *core.TradeContext, pool core.PoolID, tokenDeltas map[types.AccountID]*big.Int) {
	for _, h := range m.handlers {
		h.OnLiquidityChange(ctx, pool, tokenDeltas)
	}
}

func (m *Multi) OnBlockFlush(ctx context.Context, height uint64) error {
	var errs []error
	for _, h := range m.handlers {
		if err := h.OnBlockFlush(ctx, height); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
