package aidols

import (
	"fmt"

	"trade-indexer-near/internal/consts"
	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/logic/tradedetect/common"
	"trade-indexer-near/internal/types"
)

// AIdols 是 bonding-curve 型单池协议：每个 token 一个池子，对手资产固定是
// wrap.near。swap 走 log-native 的 token_swap 事件，池子状态走 state diff
// （见 statediff 包）。

type swapEvent struct {
	InputAmount  string           `json:"input_amount"`
	InputToken   types.AccountID  `json:"input_token"`
	OutputAmount string           `json:"output_amount"`
	OutputToken  types.AccountID  `json:"output_token"`
	ReferralID   *types.AccountID `json:"referral_id"`
	TokenHold    string           `json:"token_hold"`
	UserID       types.AccountID  `json:"user_id"`
	WnearHold    string           `json:"wnear_hold"`
}

type Detector struct {
	contractID types.AccountID
}

func NewDetector(network consts.Network) *Detector {
	return &Detector{contractID: consts.MainnetOnly(network, consts.AidolsContractID)}
}

func (d *Detector) Name() string { return "aidols" }

func (d *Detector) DetectTrades(receipt *core.Receipt, block *core.Block, handler core.TradeEventHandler) {
	if d.contractID == "" || !receipt.Success || receipt.ReceiverID != d.contractID {
		return
	}
	for _, log := range receipt.Logs {
		event, ok := common.ParseEventLog[[]swapEvent](log)
		if !ok || event.Event != "token_swap" {
			continue
		}
		for _, swap := range event.Data {
			amountIn, okIn := types.ParseU128(swap.InputAmount)
			amountOut, okOut := types.ParseU128(swap.OutputAmount)
			if !okIn || !okOut {
				continue
			}
			// 池子以非 wrap.near 的那一侧 token 为键
			token := swap.InputToken
			if token == "wrap.near" {
				token = swap.OutputToken
			}
			ctx := common.BuildTradeContext(swap.UserID, receipt, block)
			raw := &core.RawPoolSwap{
				Pool:      PoolID(token),
				TokenIn:   swap.InputToken,
				TokenOut:  swap.OutputToken,
				AmountIn:  amountIn,
				AmountOut: amountOut,
			}
			handler.OnRawPoolSwap(ctx, raw)
			if changes := common.TwoLegChanges(raw); changes != nil {
				handler.OnBalanceChangeSwap(ctx, &core.BalanceChangeSwap{
					BalanceChanges: changes,
					PoolSwaps:      []*core.RawPoolSwap{raw},
				}, swap.ReferralID)
			}
		}
	}
}

func PoolID(tokenID types.AccountID) core.PoolID {
	return fmt.Sprintf("%s-%s", consts.AidolsPoolPrefix, tokenID)
}
