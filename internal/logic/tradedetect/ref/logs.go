package ref

import (
	"math/big"
	"strings"

	"trade-indexer-near/internal/types"
)

// Ref 合约的自由文本日志语法。每条语法一个带类型的解析函数，
// 返回 ok=false 表示该行不匹配（正常情况，不是错误）。

// observedHop 是从日志观测到的一跳结果
type observedHop struct {
	TokenIn   types.AccountID
	AmountIn  *big.Int
	TokenOut  types.AccountID
	AmountOut *big.Int
}

// parseSwapLog 解析单跳兑换日志：
//
//	"Swapped <amount_in> <token_in> for <amount_out> <token_out>[, ...]"
//	"Swap_by_output <amount_in> <token_in> for <amount_out> <token_out>[, ...]"
//
// "for" 之后只取第一个逗号段（后面是手续费等附注）。
func parseSwapLog(log string) (*observedHop, bool) {
	body, found := strings.CutPrefix(log, "Swapped ")
	if !found {
		body, found = strings.CutPrefix(log, "Swap_by_output ")
		if !found {
			return nil, false
		}
	}

	inPart, outPart, found := strings.Cut(body, " for ")
	if !found {
		return nil, false
	}
	outPart, _, _ = strings.Cut(outPart, ",")

	amountIn, tokenIn, ok := parseAmountToken(inPart)
	if !ok {
		return nil, false
	}
	amountOut, tokenOut, ok := parseAmountToken(outPart)
	if !ok {
		return nil, false
	}
	return &observedHop{
		TokenIn:   tokenIn,
		AmountIn:  amountIn,
		TokenOut:  tokenOut,
		AmountOut: amountOut,
	}, true
}

// parseAmountToken 解析 "<amount> <token>" 段
func parseAmountToken(s string) (*big.Int, types.AccountID, bool) {
	amountStr, tokenStr, found := strings.Cut(s, " ")
	if !found {
		return nil, "", false
	}
	amount, ok := types.ParseU128(amountStr)
	if !ok {
		return nil, "", false
	}
	token, ok := types.TryAccountID(tokenStr)
	if !ok {
		return nil, "", false
	}
	return amount, token, true
}

// parseLiquidityAdded 解析加流动性日志：
//
//	`Liquidity added ["<amt> <token>", ...], minted <shares> shares`
//
// 返回 token → 正数额
func parseLiquidityAdded(log string) (map[types.AccountID]*big.Int, bool) {
	body, found := strings.CutPrefix(log, `Liquidity added ["`)
	if !found {
		return nil, false
	}
	body, found = strings.CutSuffix(body, " shares")
	if !found {
		return nil, false
	}
	amountsPart, sharesPart, found := strings.Cut(body, `"], minted `)
	if !found {
		return nil, false
	}
	if _, ok := types.ParseU128(sharesPart); !ok {
		return nil, false
	}
	return parseAmountList(amountsPart, false)
}

// parseLiquidityRemoved 解析撤流动性日志：
//
//	`<shares> shares of liquidity removed: receive back ["<amt> <token>", ...]`
//
// 返回 token → 负数额
func parseLiquidityRemoved(log string) (map[types.AccountID]*big.Int, bool) {
	sharesPart, body, found := strings.Cut(log, ` shares of liquidity removed: receive back ["`)
	if !found {
		return nil, false
	}
	if _, ok := types.ParseU128(sharesPart); !ok {
		return nil, false
	}
	body, found = strings.CutSuffix(body, `"]`)
	if !found {
		return nil, false
	}
	return parseAmountList(body, true)
}

func parseAmountList(s string, negate bool) (map[types.AccountID]*big.Int, bool) {
	entries := strings.Split(s, `", "`)
	tokens := make(map[types.AccountID]*big.Int, len(entries))
	for _, entry := range entries {
		amount, token, ok := parseAmountToken(entry)
		if !ok {
			return nil, false
		}
		if negate {
			amount = new(big.Int).Neg(amount)
		}
		tokens[token] = amount
	}
	return tokens, true
}

// parseReferralLog 从日志里找 "Referral <account_id> ..." 的推荐人标识
func parseReferralLog(log string) (types.AccountID, bool) {
	body, found := strings.CutPrefix(log, "Referral ")
	if !found {
		return "", false
	}
	idStr, _, _ := strings.Cut(body, " ")
	return types.TryAccountID(idStr)
}
