package refdcl

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-indexer-near/internal/consts"
	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/types"
)

type recorder struct {
	raws     []*core.RawPoolSwap
	rawCtxs  []*core.TradeContext
	balances []*core.BalanceChangeSwap
	refs     []*types.AccountID
}

func (r *recorder) OnRawPoolSwap(ctx *core.TradeContext, swap *core.RawPoolSwap) {
	r.raws = append(r.raws, swap)
	r.rawCtxs = append(r.rawCtxs, ctx)
}

func (r *recorder) OnBalanceChangeSwap(_ *core.TradeContext, swap *core.BalanceChangeSwap, referrer *types.AccountID) {
	r.balances = append(r.balances, swap)
	r.refs = append(r.refs, referrer)
}

func (r *recorder) OnPoolChange(*core.PoolChangeEvent) {}

func (r *recorder) OnLiquidityChange(*core.TradeContext, core.PoolID, map[types.AccountID]*big.Int) {
}

func (r *recorder) OnBlockFlush(context.Context, uint64) error { return nil }

func dclReceipt(logs ...string) *core.Receipt {
	return &core.Receipt{
		ReceiptID:     types.CryptoHash{0x01},
		PredecessorID: "alice.near",
		ReceiverID:    consts.RefDclContractID,
		Success:       true,
		Logs:          logs,
	}
}

func dclBlock() *core.Block {
	return &core.Block{Header: core.BlockHeader{Height: 100, TimestampNanosec: 1}}
}

const dclSwapLog = `EVENT_JSON:{"standard":"dcl.ref","version":"1.0.0","event":"swap","data":[{"amount_in":"1000","amount_out":"990","pool_id":"wrap.near|usdt.tether-token.near|2000","protocol_fee":"1","swapper":"bob.near","token_in":"wrap.near","token_out":"usdt.tether-token.near","total_fee":"3"}]}`

func TestDetectTrades_DclSwap(t *testing.T) {
	detector := NewDetector(consts.NetworkMainnet)
	handler := &recorder{}

	detector.DetectTrades(dclReceipt(dclSwapLog), dclBlock(), handler)

	require.Len(t, handler.raws, 1)
	swap := handler.raws[0]
	assert.Equal(t, "REFDCL-wrap.near|usdt.tether-token.near|2000", swap.Pool)
	assert.Equal(t, "1000", swap.AmountIn.String())
	assert.Equal(t, "990", swap.AmountOut.String())
	// trader 来自事件里的 swapper，不是 receipt 的 predecessor
	assert.Equal(t, types.AccountID("bob.near"), handler.rawCtxs[0].Trader)

	require.Len(t, handler.balances, 1)
	assert.Equal(t, "-1000", handler.balances[0].BalanceChanges["wrap.near"].String())
	assert.Nil(t, handler.refs[0])
}

func TestDetectTrades_DclWrongStandardIgnored(t *testing.T) {
	detector := NewDetector(consts.NetworkMainnet)
	handler := &recorder{}

	log := `EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"swap","data":[]}`
	detector.DetectTrades(dclReceipt(log), dclBlock(), handler)
	assert.Empty(t, handler.raws)
}

func TestDetectTrades_DclBadAmountSkipped(t *testing.T) {
	detector := NewDetector(consts.NetworkMainnet)
	handler := &recorder{}

	log := `EVENT_JSON:{"standard":"dcl.ref","version":"1.0.0","event":"swap","data":[{"amount_in":"abc","amount_out":"990","pool_id":"p","swapper":"bob.near","token_in":"a.near","token_out":"b.near"}]}`
	detector.DetectTrades(dclReceipt(log), dclBlock(), handler)
	assert.Empty(t, handler.raws)
}

func TestDetectTrades_DclFailedReceiptIgnored(t *testing.T) {
	detector := NewDetector(consts.NetworkMainnet)
	handler := &recorder{}

	receipt := dclReceipt(dclSwapLog)
	receipt.Success = false
	detector.DetectTrades(receipt, dclBlock(), handler)
	assert.Empty(t, handler.raws)
}

func TestDetectTrades_DclTestnetDisabled(t *testing.T) {
	detector := NewDetector(consts.NetworkTestnet)
	handler := &recorder{}

	detector.DetectTrades(dclReceipt(dclSwapLog), dclBlock(), handler)
	assert.Empty(t, handler.raws)
}
