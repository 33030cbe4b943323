package refdcl

import (
	"fmt"

	"trade-indexer-near/internal/consts"
	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/logic/tradedetect/common"
	"trade-indexer-near/internal/types"
)

// Ref DCL（集中流动性版本）是 log-native 协议：每跳一条 NEP-297 结构化
// swap 事件，意图和结果是同一份 artifact，不需要位置配对。

// swapEvent 对应 standard="dcl.ref" event="swap" 的单条数据
type swapEvent struct {
	AmountIn    string          `json:"amount_in"`
	AmountOut   string          `json:"amount_out"`
	PoolID      string          `json:"pool_id"`
	ProtocolFee string          `json:"protocol_fee"`
	Swapper     types.AccountID `json:"swapper"`
	TokenIn     types.AccountID `json:"token_in"`
	TokenOut    types.AccountID `json:"token_out"`
	TotalFee    string          `json:"total_fee"`
}

type Detector struct {
	contractID types.AccountID
}

func NewDetector(network consts.Network) *Detector {
	// 测试网合约 id 未知，测试网下不产出事件
	return &Detector{contractID: consts.MainnetOnly(network, consts.RefDclContractID)}
}

func (d *Detector) Name() string { return "refdcl" }

func (d *Detector) DetectTrades(receipt *core.Receipt, block *core.Block, handler core.TradeEventHandler) {
	if d.contractID == "" || !receipt.Success || receipt.ReceiverID != d.contractID {
		return
	}
	for _, log := range receipt.Logs {
		event, ok := common.ParseEventLog[[]swapEvent](log)
		if !ok || event.Standard != "dcl.ref" || event.Event != "swap" {
			continue
		}
		for _, swap := range event.Data {
			amountIn, okIn := types.ParseU128(swap.AmountIn)
			amountOut, okOut := types.ParseU128(swap.AmountOut)
			if !okIn || !okOut {
				continue
			}
			ctx := common.BuildTradeContext(swap.Swapper, receipt, block)
			raw := &core.RawPoolSwap{
				Pool:      PoolID(swap.PoolID),
				TokenIn:   swap.TokenIn,
				TokenOut:  swap.TokenOut,
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
	}
}

// PoolID 生成 DCL 的池子 id（协议内 pool_id 本身是字符串）
func PoolID(poolID string) core.PoolID {
	return fmt.Sprintf("%s-%s", consts.RefDclPoolPrefix, poolID)
}
