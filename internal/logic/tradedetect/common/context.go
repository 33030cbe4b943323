package common

import (
	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/types"
)

// BuildTradeContext 构造一个 receipt 维度的事件上下文。
// 同一 receipt 的所有事件共享同一份，构造后不再修改。
func BuildTradeContext(trader types.AccountID, receipt *core.Receipt, block *core.Block) *core.TradeContext {
	ctx := &core.TradeContext{
		Trader:                trader,
		BlockHeight:           block.Header.Height,
		BlockTimestampNanosec: block.Header.TimestampNanosec,
		ReceiptID:             receipt.ReceiptID,
	}
	if receipt.Tx != nil {
		ctx.TransactionID = receipt.Tx.Hash
	}
	return ctx
}
