package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/types"
)

func hop(pool string, tokenIn string, amountIn int64, tokenOut string, amountOut int64) *core.RawPoolSwap {
	return &core.RawPoolSwap{
		Pool:      pool,
		TokenIn:   types.AccountID(tokenIn),
		TokenOut:  types.AccountID(tokenOut),
		AmountIn:  big.NewInt(amountIn),
		AmountOut: big.NewInt(amountOut),
	}
}

func TestNetBalanceChanges_TwoHops(t *testing.T) {
	changes, accepted := NetBalanceChanges([]*core.RawPoolSwap{
		hop("REF-1", "a.near", 100, "b.near", 50),
		hop("REF-2", "b.near", 50, "c.near", 25),
	})
	require.Len(t, accepted, 2)
	assert.Len(t, changes, 2)
	assert.Equal(t, "-100", changes["a.near"].String())
	assert.Equal(t, "25", changes["c.near"].String())
	assert.NotContains(t, changes, types.AccountID("b.near"))
}

func TestNetBalanceChanges_PartialMiddleLeftover(t *testing.T) {
	// 中间 token 没有完全花掉，余量保留
	changes, _ := NetBalanceChanges([]*core.RawPoolSwap{
		hop("REF-1", "a.near", 100, "b.near", 60),
		hop("REF-2", "b.near", 50, "c.near", 25),
	})
	assert.Equal(t, "10", changes["b.near"].String())
}

func TestNetBalanceChanges_CircularIsEmpty(t *testing.T) {
	changes, accepted := NetBalanceChanges([]*core.RawPoolSwap{
		hop("REF-1", "a.near", 100, "b.near", 50),
		hop("REF-2", "b.near", 50, "a.near", 100),
	})
	assert.Empty(t, changes)
	assert.Len(t, accepted, 2, "环形链的跳本身是有效的")
}

func TestNetBalanceChanges_OverflowRejectsWholeHop(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 127) // 2^127，刚好放不进 i128
	bad := &core.RawPoolSwap{
		Pool:      "REF-9",
		TokenIn:   "a.near",
		TokenOut:  "b.near",
		AmountIn:  huge,
		AmountOut: big.NewInt(50),
	}
	changes, accepted := NetBalanceChanges([]*core.RawPoolSwap{
		bad,
		hop("REF-2", "b.near", 50, "c.near", 25),
	})

	// 溢出的跳两腿都不能入账，好的跳照常
	require.Len(t, accepted, 1)
	assert.Equal(t, "REF-2", accepted[0].Pool)
	assert.NotContains(t, changes, types.AccountID("a.near"))
	assert.Equal(t, "-50", changes["b.near"].String())
	assert.Equal(t, "25", changes["c.near"].String())
}

func TestNetBalanceChanges_MaxI128Accepted(t *testing.T) {
	maxI128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	changes, accepted := NetBalanceChanges([]*core.RawPoolSwap{
		{Pool: "REF-1", TokenIn: "a.near", TokenOut: "b.near", AmountIn: maxI128, AmountOut: big.NewInt(1)},
	})
	require.Len(t, accepted, 1)
	assert.Equal(t, new(big.Int).Neg(maxI128).String(), changes["a.near"].String())
}

func TestTwoLegChanges(t *testing.T) {
	changes := TwoLegChanges(hop("VEAX-a.near-b.near", "a.near", 100, "b.near", 50))
	require.NotNil(t, changes)
	assert.Equal(t, "-100", changes["a.near"].String())
	assert.Equal(t, "50", changes["b.near"].String())

	huge := new(big.Int).Lsh(big.NewInt(1), 127)
	assert.Nil(t, TwoLegChanges(&core.RawPoolSwap{
		Pool: "VEAX-a.near-b.near", TokenIn: "a.near", TokenOut: "b.near",
		AmountIn: huge, AmountOut: big.NewInt(1),
	}))
}
