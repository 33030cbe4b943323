package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-indexer-near/internal/types"
)

func TestParseSwapLog(t *testing.T) {
	hop, ok := parseSwapLog("Swapped 1000 wrap.near for 990 usdt.tether-token.near")
	require.True(t, ok)
	assert.Equal(t, types.AccountID("wrap.near"), hop.TokenIn)
	assert.Equal(t, "1000", hop.AmountIn.String())
	assert.Equal(t, types.AccountID("usdt.tether-token.near"), hop.TokenOut)
	assert.Equal(t, "990", hop.AmountOut.String())
}

func TestParseSwapLog_TrailingNote(t *testing.T) {
	// "for" 之后的逗号段是手续费附注，只取第一段
	hop, ok := parseSwapLog("Swapped 100 a.near for 50 b.near, total fee 3, admin fee 1")
	require.True(t, ok)
	assert.Equal(t, "50", hop.AmountOut.String())
	assert.Equal(t, types.AccountID("b.near"), hop.TokenOut)
}

func TestParseSwapLog_SwapByOutputPrefix(t *testing.T) {
	hop, ok := parseSwapLog("Swap_by_output 100 a.near for 50 b.near")
	require.True(t, ok)
	assert.Equal(t, "100", hop.AmountIn.String())
}

func TestParseSwapLog_Rejects(t *testing.T) {
	cases := []string{
		"",
		"Transferred 100 a.near to alice.near",
		"Swapped 100 a.near",              // 没有 for 段
		"Swapped abc a.near for 50 b.near",  // 数额非法
		"Swapped 100 A!near for 50 b.near",  // 账户非法
		"Swapped -5 a.near for 50 b.near",   // 负数不是 u128
	}
	for _, log := range cases {
		_, ok := parseSwapLog(log)
		assert.False(t, ok, "不应匹配: %q", log)
	}
}

func TestParseLiquidityAdded(t *testing.T) {
	tokens, ok := parseLiquidityAdded(`Liquidity added ["1000 a.near", "2000 b.near"], minted 500 shares`)
	require.True(t, ok)
	assert.Len(t, tokens, 2)
	assert.Equal(t, "1000", tokens["a.near"].String())
	assert.Equal(t, "2000", tokens["b.near"].String())
}

func TestParseLiquidityAdded_ZeroEntryKept(t *testing.T) {
	// 流动性事件保留 0 额条目，token 集合本身就是信息
	tokens, ok := parseLiquidityAdded(`Liquidity added ["0 a.near", "2000 b.near"], minted 500 shares`)
	require.True(t, ok)
	assert.Equal(t, "0", tokens["a.near"].String())
}

func TestParseLiquidityAdded_Rejects(t *testing.T) {
	cases := []string{
		`Liquidity added ["1000 a.near"], minted abc shares`, // shares 非法
		`Liquidity added ["1000 a.near"]`,                    // 缺 minted 段
		`Liquidity added [], minted 500 shares`,              // 空列表格式不符
	}
	for _, log := range cases {
		_, ok := parseLiquidityAdded(log)
		assert.False(t, ok, "不应匹配: %q", log)
	}
}

func TestParseLiquidityRemoved(t *testing.T) {
	tokens, ok := parseLiquidityRemoved(`500 shares of liquidity removed: receive back ["1000 a.near", "2000 b.near"]`)
	require.True(t, ok)
	assert.Equal(t, "-1000", tokens["a.near"].String())
	assert.Equal(t, "-2000", tokens["b.near"].String())
}

func TestParseReferralLog(t *testing.T) {
	id, ok := parseReferralLog("Referral referrer.near fee 5")
	require.True(t, ok)
	assert.Equal(t, types.AccountID("referrer.near"), id)

	_, ok = parseReferralLog("Swapped 100 a.near for 50 b.near")
	assert.False(t, ok)
}

func TestParseIntentActions(t *testing.T) {
	actions, ok := parseIntentActions("swap", []byte(`{"actions":[{"pool_id":1,"token_in":"a.near","token_out":"b.near"}]}`))
	require.True(t, ok)
	require.Len(t, actions, 1)
	assert.Equal(t, uint64(1), actions[0].PoolID)

	_, ok = parseIntentActions("swap", []byte(`{broken`))
	assert.False(t, ok)

	_, ok = parseIntentActions("ft_transfer", []byte(`{}`))
	assert.False(t, ok)

	// msg 两种子 schema 都认
	actions, ok = parseIntentActions("ft_on_transfer", []byte(`{"msg":"{\"actions\":[{\"pool_id\":2}]}"}`))
	require.True(t, ok)
	assert.Equal(t, uint64(2), actions[0].PoolID)

	actions, ok = parseIntentActions("ft_on_transfer", []byte(`{"msg":"{\"hot_zap_actions\":[{\"pool_id\":3}]}"}`))
	require.True(t, ok)
	assert.Equal(t, uint64(3), actions[0].PoolID)

	// msg 不含任何已知 schema
	_, ok = parseIntentActions("ft_on_transfer", []byte(`{"msg":"deposit"}`))
	assert.False(t, ok)
}
