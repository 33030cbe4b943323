package aidols

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

func aidolsReceipt(logs ...string) *core.Receipt {
	return &core.Receipt{
		ReceiptID:  types.CryptoHash{0x01},
		ReceiverID: consts.AidolsContractID,
		Success:    true,
		Logs:       logs,
	}
}

func aidolsBlock() *core.Block {
	return &core.Block{Header: core.BlockHeader{Height: 300, TimestampNanosec: 3}}
}

func TestDetectTrades_AidolsBuy(t *testing.T) {
	detector := NewDetector(consts.NetworkMainnet)
	handler := &recorder{}

	log := `EVENT_JSON:{"standard":"aidols.near","version":"1.0.0","event":"token_swap","data":[{"input_amount":"1000","input_token":"wrap.near","output_amount":"500","output_token":"doge.aidols.near","referral_id":"referrer.near","token_hold":"99500","user_id":"bob.near","wnear_hold":"11000"}]}`
	detector.DetectTrades(aidolsReceipt(log), aidolsBlock(), handler)

	require.Len(t, handler.raws, 1)
	swap := handler.raws[0]
	// 池子以非 wrap.near 的 token 为键
	assert.Equal(t, "AIDOLS-doge.aidols.near", swap.Pool)
	assert.Equal(t, types.AccountID("wrap.near"), swap.TokenIn)
	assert.Equal(t, types.AccountID("doge.aidols.near"), swap.TokenOut)
	assert.Equal(t, types.AccountID("bob.near"), handler.rawCtxs[0].Trader)

	require.Len(t, handler.balances, 1)
	require.NotNil(t, handler.refs[0])
	assert.Equal(t, types.AccountID("referrer.near"), *handler.refs[0])
}

func TestDetectTrades_AidolsSellKeysPoolByToken(t *testing.T) {
	detector := NewDetector(consts.NetworkMainnet)
	handler := &recorder{}

	log := `EVENT_JSON:{"standard":"aidols.near","version":"1.0.0","event":"token_swap","data":[{"input_amount":"500","input_token":"doge.aidols.near","output_amount":"900","output_token":"wrap.near","referral_id":null,"token_hold":"100000","user_id":"bob.near","wnear_hold":"10100"}]}`
	detector.DetectTrades(aidolsReceipt(log), aidolsBlock(), handler)

	require.Len(t, handler.raws, 1)
	assert.Equal(t, "AIDOLS-doge.aidols.near", handler.raws[0].Pool)
	require.Len(t, handler.refs, 1)
	assert.Nil(t, handler.refs[0])
}

func TestDetectTrades_AidolsOtherEventIgnored(t *testing.T) {
	detector := NewDetector(consts.NetworkMainnet)
	handler := &recorder{}

	log := `EVENT_JSON:{"standard":"aidols.near","version":"1.0.0","event":"token_deploy","data":[{}]}`
	detector.DetectTrades(aidolsReceipt(log), aidolsBlock(), handler)
	assert.Empty(t, handler.raws)
}
