package veax

import (
	"fmt"

	"trade-indexer-near/internal/consts"
	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/logic/tradedetect/common"
	"trade-indexer-near/internal/types"
)

// Veax 也是 log-native：swap 与 update_pool_state 都走 NEP-297 结构化日志。
// tokens / amounts 都是 (in, out) 二元组，数额是十进制字符串。

type swapEvent struct {
	User    types.AccountID    `json:"user"`
	Tokens  [2]types.AccountID `json:"tokens"`
	Amounts [2]string          `json:"amounts"`
}

// PoolState 是 update_pool_state 事件携带的池子快照
type PoolState struct {
	Pool        [2]types.AccountID `json:"pool"`
	Amounts     [2]string          `json:"amounts"`
	SqrtPrices  []string           `json:"sqrt_prices"`
	Liquidities []string           `json:"liquidities"`
	FeeRates    []uint32           `json:"fee_rates"`
}

func (PoolState) Protocol() string { return "veax" }
func (PoolState) PoolKind() string { return "multi_fee_amm" }

type Detector struct {
	contractID types.AccountID
}

func NewDetector(network consts.Network) *Detector {
	return &Detector{contractID: consts.MainnetOnly(network, consts.VeaxContractID)}
}

func (d *Detector) Name() string { return "veax" }

func (d *Detector) DetectTrades(receipt *core.Receipt, block *core.Block, handler core.TradeEventHandler) {
	if d.contractID == "" || !receipt.Success || receipt.ReceiverID != d.contractID {
		return
	}
	for _, log := range receipt.Logs {
		if event, ok := common.ParseEventLog[swapEvent](log); ok &&
			event.Standard == "veax" && event.Event == "swap" {
			d.emitSwap(receipt, block, handler, &event.Data)
			continue
		}
		if event, ok := common.ParseEventLog[PoolState](log); ok &&
			event.Standard == "veax" && event.Event == "update_pool_state" {
			pool := event.Data
			handler.OnPoolChange(&core.PoolChangeEvent{
				PoolID:                PoolID(pool.Pool),
				ReceiptID:             receipt.ReceiptID,
				BlockTimestampNanosec: block.Header.TimestampNanosec,
				BlockHeight:           block.Header.Height,
				Pool:                  pool,
			})
		}
	}
}

func (d *Detector) emitSwap(receipt *core.Receipt, block *core.Block, handler core.TradeEventHandler, event *swapEvent) {
	amountIn, okIn := types.ParseU128(event.Amounts[0])
	amountOut, okOut := types.ParseU128(event.Amounts[1])
	if !okIn || !okOut {
		return
	}
	ctx := common.BuildTradeContext(event.User, receipt, block)
	raw := &core.RawPoolSwap{
		Pool:      PoolID(event.Tokens),
		TokenIn:   event.Tokens[0],
		TokenOut:  event.Tokens[1],
		AmountIn:  amountIn,
		AmountOut: amountOut,
	}
	handler.OnRawPoolSwap(ctx, raw)
	if changes := common.TwoLegChanges(raw); changes != nil {
		handler.OnBalanceChangeSwap(ctx, &core.BalanceChangeSwap{
			BalanceChanges: changes,
			PoolSwaps:      []*core.RawPoolSwap{raw},
		}, nil)
	}
}

// PoolID 生成 Veax 的池子 id（token 对即池子标识）
func PoolID(tokens [2]types.AccountID) core.PoolID {
	return fmt.Sprintf("%s-%s-%s", consts.VeaxPoolPrefix, tokens[0], tokens[1])
}
