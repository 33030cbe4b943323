package grafun

import (
	"fmt"

	"trade-indexer-near/internal/consts"
	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/logic/tradedetect/common"
	"trade-indexer-near/internal/types"
)

// GraFun 与 aidols 同形：bonding-curve 单池，token_swap 事件。
// 注意 refferal_id 的拼写是链上事件本身的字段名，不能改。

type swapEvent struct {
	InputAmount  string           `json:"input_amount"`
	InputToken   types.AccountID  `json:"input_token"`
	OutputAmount string           `json:"output_amount"`
	OutputToken  types.AccountID  `json:"output_token"`
	RefferalID   *types.AccountID `json:"refferal_id"`
	UserID       types.AccountID  `json:"user_id"`
}

type Detector struct {
	contractID types.AccountID
}

func NewDetector(network consts.Network) *Detector {
	return &Detector{contractID: consts.MainnetOnly(network, consts.GraFunContractID)}
}

func (d *Detector) Name() string { return "grafun" }

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
				}, swap.RefferalID)
			}
		}
	}
}

func PoolID(tokenID types.AccountID) core.PoolID {
	return fmt.Sprintf("%s-%s", consts.GraFunPoolPrefix, tokenID)
}
