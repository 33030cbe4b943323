package sink

import (
	"encoding/json"
	"math/big"
	"strconv"

	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/types"
)

// 下游 wire 格式。数额一律十进制字符串（u128/i128 超出 JSON number 安全范围），
// pool id 保持 "<PROTOCOL>-<identifier>"，hash 是 base58。
// 字段名是下游消费方的既定契约，改名即破坏兼容。

type poolSwapWire struct {
	Pool      core.PoolID     `json:"pool"`
	TokenIn   types.AccountID `json:"token_in"`
	TokenOut  types.AccountID `json:"token_out"`
	AmountIn  string          `json:"amount_in"`
	AmountOut string          `json:"amount_out"`

	Trader                types.AccountID  `json:"trader"`
	BlockHeight           uint64           `json:"block_height"`
	BlockTimestampNanosec string           `json:"block_timestamp_nanosec"`
	TransactionID         types.CryptoHash `json:"transaction_id"`
	ReceiptID             types.CryptoHash `json:"receipt_id"`
}

type balanceChangeWire struct {
	BalanceChanges map[types.AccountID]string `json:"balance_changes"`
	PoolSwaps      []hopWire                  `json:"pool_swaps"`
	Referrer       *types.AccountID           `json:"referrer,omitempty"`

	Trader                types.AccountID  `json:"trader"`
	BlockHeight           uint64           `json:"block_height"`
	BlockTimestampNanosec string           `json:"block_timestamp_nanosec"`
	TransactionID         types.CryptoHash `json:"transaction_id"`
	ReceiptID             types.CryptoHash `json:"receipt_id"`
}

type hopWire struct {
	Pool      core.PoolID     `json:"pool"`
	TokenIn   types.AccountID `json:"token_in"`
	TokenOut  types.AccountID `json:"token_out"`
	AmountIn  string          `json:"amount_in"`
	AmountOut string          `json:"amount_out"`
}

type poolChangeWire struct {
	PoolID                core.PoolID      `json:"pool_id"`
	ReceiptID             types.CryptoHash `json:"receipt_id"`
	BlockHeight           uint64           `json:"block_height"`
	BlockTimestampNanosec string           `json:"block_timestamp_nanosec"`
	Pool                  snapshotWire     `json:"pool"`
}

type snapshotWire struct {
	Protocol string            `json:"protocol"`
	Kind     string            `json:"kind"`
	State    core.PoolSnapshot `json:"state"`
}

type liquidityWire struct {
	Pool        core.PoolID                `json:"pool"`
	TokenDeltas map[types.AccountID]string `json:"token_deltas"`

	Trader                types.AccountID  `json:"trader"`
	BlockHeight           uint64           `json:"block_height"`
	BlockTimestampNanosec string           `json:"block_timestamp_nanosec"`
	TransactionID         types.CryptoHash `json:"transaction_id"`
	ReceiptID             types.CryptoHash `json:"receipt_id"`
}

func encodePoolSwap(ctx *core.TradeContext, swap *core.RawPoolSwap) ([]byte, error) {
	return json.Marshal(&poolSwapWire{
		Pool:                  swap.Pool,
		TokenIn:               swap.TokenIn,
		TokenOut:              swap.TokenOut,
		AmountIn:              types.U128String(swap.AmountIn),
		AmountOut:             types.U128String(swap.AmountOut),
		Trader:                ctx.Trader,
		BlockHeight:           ctx.BlockHeight,
		BlockTimestampNanosec: strconv.FormatUint(ctx.BlockTimestampNanosec, 10),
		TransactionID:         ctx.TransactionID,
		ReceiptID:             ctx.ReceiptID,
	})
}

func encodeBalanceChange(ctx *core.TradeContext, swap *core.BalanceChangeSwap, referrer *types.AccountID) ([]byte, error) {
	changes := make(map[types.AccountID]string, len(swap.BalanceChanges))
	for token, delta := range swap.BalanceChanges {
		changes[token] = delta.String()
	}
	hops := make([]hopWire, 0, len(swap.PoolSwaps))
	for _, hop := range swap.PoolSwaps {
		hops = append(hops, hopWire{
			Pool:      hop.Pool,
			TokenIn:   hop.TokenIn,
			TokenOut:  hop.TokenOut,
			AmountIn:  types.U128String(hop.AmountIn),
			AmountOut: types.U128String(hop.AmountOut),
		})
	}
	return json.Marshal(&balanceChangeWire{
		BalanceChanges:        changes,
		PoolSwaps:             hops,
		Referrer:              referrer,
		Trader:                ctx.Trader,
		BlockHeight:           ctx.BlockHeight,
		BlockTimestampNanosec: strconv.FormatUint(ctx.BlockTimestampNanosec, 10),
		TransactionID:         ctx.TransactionID,
		ReceiptID:             ctx.ReceiptID,
	})
}

func encodePoolChange(event *core.PoolChangeEvent) ([]byte, error) {
	return json.Marshal(&poolChangeWire{
		PoolID:                event.PoolID,
		ReceiptID:             event.ReceiptID,
		BlockHeight:           event.BlockHeight,
		BlockTimestampNanosec: strconv.FormatUint(event.BlockTimestampNanosec, 10),
		Pool: snapshotWire{
			Protocol: event.Pool.Protocol(),
			Kind:     event.Pool.PoolKind(),
			State:    event.Pool,
		},
	})
}

func encodeLiquidity(ctx *core.TradeContext, pool core.PoolID, tokenDeltas map[types.AccountID]*big.Int) ([]byte, error) {
	deltas := make(map[types.AccountID]string, len(tokenDeltas))
	for token, delta := range tokenDeltas {
		deltas[token] = delta.String()
	}
	return json.Marshal(&liquidityWire{
		Pool:                  pool,
		TokenDeltas:           deltas,
		Trader:                ctx.Trader,
		BlockHeight:           ctx.BlockHeight,
		BlockTimestampNanosec: strconv.FormatUint(ctx.BlockTimestampNanosec, 10),
		TransactionID:         ctx.TransactionID,
		ReceiptID:             ctx.ReceiptID,
	})
}
