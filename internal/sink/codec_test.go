package sink

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/logic/statediff"
	"trade-indexer-near/internal/types"
)

func tradeCtx() *core.TradeContext {
	return &core.TradeContext{
		Trader:                "bob.near",
		BlockHeight:           129000001,
		BlockTimestampNanosec: 1700000000000000000,
		TransactionID:         types.CryptoHash{0xAA},
		ReceiptID:             types.CryptoHash{0x01},
	}
}

func TestEncodePoolSwap(t *testing.T) {
	payload, err := encodePoolSwap(tradeCtx(), &core.RawPoolSwap{
		Pool:      "REF-79",
		TokenIn:   "wrap.near",
		TokenOut:  "usdt.tether-token.near",
		AmountIn:  big.NewInt(1000),
		AmountOut: big.NewInt(990),
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "REF-79", got["pool"])
	// 数额和时间戳走十进制字符串，u128 超出 JSON number 安全范围
	assert.Equal(t, "1000", got["amount_in"])
	assert.Equal(t, "1700000000000000000", got["block_timestamp_nanosec"])
	assert.Equal(t, float64(129000001), got["block_height"])
	assert.Equal(t, "bob.near", got["trader"])
}

func TestEncodeBalanceChange(t *testing.T) {
	hop := &core.RawPoolSwap{
		Pool: "REF-79", TokenIn: "a.near", TokenOut: "b.near",
		AmountIn: big.NewInt(10), AmountOut: big.NewInt(9),
	}
	referrer := types.AccountID("referrer.near")
	payload, err := encodeBalanceChange(tradeCtx(), &core.BalanceChangeSwap{
		BalanceChanges: map[types.AccountID]*big.Int{
			"a.near": big.NewInt(-10),
			"b.near": big.NewInt(9),
		},
		PoolSwaps: []*core.RawPoolSwap{hop},
	}, &referrer)
	require.NoError(t, err)

	var got struct {
		BalanceChanges map[string]string `json:"balance_changes"`
		PoolSwaps      []map[string]any  `json:"pool_swaps"`
		Referrer       string            `json:"referrer"`
	}
	require.NoError(t, json.Unmarshal(payload, &got))
	// i128 净额带符号字符串化
	assert.Equal(t, "-10", got.BalanceChanges["a.near"])
	assert.Equal(t, "9", got.BalanceChanges["b.near"])
	require.Len(t, got.PoolSwaps, 1)
	assert.Equal(t, "REF-79", got.PoolSwaps[0]["pool"])
	assert.Equal(t, "referrer.near", got.Referrer)
}

func TestEncodeBalanceChange_NoReferrerOmitted(t *testing.T) {
	payload, err := encodeBalanceChange(tradeCtx(), &core.BalanceChangeSwap{
		BalanceChanges: map[types.AccountID]*big.Int{},
	}, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), `"referrer"`)
}

func TestEncodePoolChange(t *testing.T) {
	payload, err := encodePoolChange(&core.PoolChangeEvent{
		PoolID:                "AIDOLS-doge.aidols.near",
		ReceiptID:             types.CryptoHash{0x01},
		BlockHeight:           129000001,
		BlockTimestampNanosec: 5,
		Pool: &statediff.AidolsPoolState{
			TokenHold: *big.NewInt(100), WnearHold: *big.NewInt(200),
			IsDeployed: true, IsTradable: true,
		},
	})
	require.NoError(t, err)

	var got struct {
		PoolID string `json:"pool_id"`
		Pool   struct {
			Protocol string          `json:"protocol"`
			Kind     string          `json:"kind"`
			State    json.RawMessage `json:"state"`
		} `json:"pool"`
	}
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "AIDOLS-doge.aidols.near", got.PoolID)
	assert.Equal(t, "aidols", got.Pool.Protocol)
	assert.Equal(t, "bonding_curve", got.Pool.Kind)
	assert.NotEmpty(t, got.Pool.State)
}

func TestRedisStreamSink_BufferAndEmptyFlush(t *testing.T) {
	sink := NewRedisStreamSink(nil, RedisStreamSinkConfig{})

	sink.OnRawPoolSwap(tradeCtx(), &core.RawPoolSwap{
		Pool: "REF-79", AmountIn: big.NewInt(1), AmountOut: big.NewInt(1),
	})
	sink.OnLiquidityChange(tradeCtx(), "REF-79", map[types.AccountID]*big.Int{
		"wrap.near": big.NewInt(5),
	})
	assert.Equal(t, 2, sink.PendingCount())

	// 空缓冲 flush 不触碰 Redis
	empty := NewRedisStreamSink(nil, RedisStreamSinkConfig{})
	assert.NoError(t, empty.OnBlockFlush(context.Background(), 100))
}
