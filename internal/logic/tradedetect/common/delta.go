package common

import (
	"math/big"

	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/types"
	"trade-indexer-near/pkg/logger"
)

// NetBalanceChanges 把一个 receipt 内按调用顺序排列的跳列表净额化：
// token_in 减 amount_in，token_out 加 amount_out，最后剔除 0 项。
// u128 数额必须能放进 i128，放不进的跳整条拒绝（打日志并从净额与返回的
// 跳列表中排除），绝不静默回绕或截断。
//
// 返回的第二个值是实际参与净额的跳（调用顺序保持不变），
// BalanceChangeSwap.PoolSwaps 必须用它而不是原始输入。
func NetBalanceChanges(hops []*core.RawPoolSwap) (map[types.AccountID]*big.Int, []*core.RawPoolSwap) {
	changes := make(map[types.AccountID]*big.Int, len(hops)*2)
	accepted := make([]*core.RawPoolSwap, 0, len(hops))

	for _, hop := range hops {
		if !types.FitsI128(hop.AmountIn) {
			logger.Warnf("amount_in overflows i128, hop rejected: pool=%s amount=%s", hop.Pool, types.U128String(hop.AmountIn))
			continue
		}
		if !types.FitsI128(hop.AmountOut) {
			logger.Warnf("amount_out overflows i128, hop rejected: pool=%s amount=%s", hop.Pool, types.U128String(hop.AmountOut))
			continue
		}
		sub(changes, hop.TokenIn, hop.AmountIn)
		add(changes, hop.TokenOut, hop.AmountOut)
		accepted = append(accepted, hop)
	}

	for token, delta := range changes {
		if delta.Sign() == 0 {
			delete(changes, token)
		}
	}
	return changes, accepted
}

func add(m map[types.AccountID]*big.Int, token types.AccountID, amount *big.Int) {
	if cur, ok := m[token]; ok {
		cur.Add(cur, amount)
		return
	}
	m[token] = new(big.Int).Set(amount)
}

func sub(m map[types.AccountID]*big.Int, token types.AccountID, amount *big.Int) {
	if cur, ok := m[token]; ok {
		cur.Sub(cur, amount)
		return
	}
	m[token] = new(big.Int).Neg(amount)
}

// TwoLegChanges 单跳协议（log-native）的两腿净额。任一数额放不进 i128
// 时返回 nil（调用方跳过该 BalanceChangeSwap 的发射）。
func TwoLegChanges(swap *core.RawPoolSwap) map[types.AccountID]*big.Int {
	changes, accepted := NetBalanceChanges([]*core.RawPoolSwap{swap})
	if len(accepted) == 0 {
		return nil
	}
	return changes
}
