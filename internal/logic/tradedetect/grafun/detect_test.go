package grafun

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
	balances []*core.BalanceChangeSwap
	refs     []*types.AccountID
}

func (r *recorder) OnRawPoolSwap(_ *core.TradeContext, swap *core.RawPoolSwap) {
	r.raws = append(r.raws, swap)
}

func (r *recorder) OnBalanceChangeSwap(_ *core.TradeContext, swap *core.BalanceChangeSwap, referrer *types.AccountID) {
	r.balances = append(r.balances, swap)
	r.refs = append(r.refs, referrer)
}

func (r *recorder) OnPoolChange(*core.PoolChangeEvent) {}

func (r *recorder) OnLiquidityChange(*core.TradeContext, core.PoolID, map[types.AccountID]*big.Int) {
}

func (r *recorder) OnBlockFlush(context.Context, uint64) error { return nil }

func TestDetectTrades_GraFunSwap(t *testing.T) {
	detector := NewDetector(consts.NetworkMainnet)
	handler := &recorder{}

	receipt := &core.Receipt{
		ReceiptID:  types.CryptoHash{0x01},
		ReceiverID: consts.GraFunContractID,
		Success:    true,
		Logs: []string{
			// refferal_id 的拼写来自链上事件本身
			`EVENT_JSON:{"standard":"gra-fun","version":"1.0.0","event":"token_swap","data":[{"input_amount":"1000","input_token":"wrap.near","output_amount":"500","output_token":"pepe.gra-fun.near","refferal_id":"referrer.near","user_id":"bob.near"}]}`,
		},
	}
	block := &core.Block{Header: core.BlockHeader{Height: 400, TimestampNanosec: 4}}
	detector.DetectTrades(receipt, block, handler)

	require.Len(t, handler.raws, 1)
	assert.Equal(t, "GRAFUN-pepe.gra-fun.near", handler.raws[0].Pool)
	require.Len(t, handler.balances, 1)
	require.NotNil(t, handler.refs[0])
	assert.Equal(t, types.AccountID("referrer.near"), *handler.refs[0])
}

func TestDetectTrades_GraFunBadAmountSkipped(t *testing.T) {
	detector := NewDetector(consts.NetworkMainnet)
	handler := &recorder{}

	receipt := &core.Receipt{
		ReceiptID:  types.CryptoHash{0x01},
		ReceiverID: consts.GraFunContractID,
		Success:    true,
		Logs: []string{
			`EVENT_JSON:{"standard":"gra-fun","version":"1.0.0","event":"token_swap","data":[{"input_amount":"","input_token":"wrap.near","output_amount":"500","output_token":"pepe.gra-fun.near","user_id":"bob.near"}]}`,
		},
	}
	block := &core.Block{Header: core.BlockHeader{Height: 400, TimestampNanosec: 4}}
	detector.DetectTrades(receipt, block, handler)

	assert.Empty(t, handler.raws)
}
