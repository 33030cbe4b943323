package ref

import (
	"encoding/json"
	"fmt"
	"math/big"

	"trade-indexer-near/internal/consts"
	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/logic/tradedetect/common"
	"trade-indexer-near/internal/types"
	"trade-indexer-near/pkg/logger"
)

// Ref（通用 AMM）的交易检测是三路证据的对齐：
//   - 调用参数给出意图跳（pool_id 有序列表）
//   - 日志行给出观测跳（token / 数额）
//   - 两边按位置一一配对，长度不一致视为证据矛盾，整个 receipt 放弃发射
//
// 语义对齐 Ref 合约的实际行为，零额跳不会打日志，所以配对始终是满射。

type Detector struct {
	contractID types.AccountID
}

func NewDetector(network consts.Network) *Detector {
	return &Detector{contractID: consts.RefContract(network)}
}

func (d *Detector) Name() string { return "ref" }

func (d *Detector) DetectTrades(receipt *core.Receipt, block *core.Block, handler core.TradeEventHandler) {
	if d.contractID == "" || !receipt.Success || receipt.ReceiverID != d.contractID {
		return
	}

	trader := receipt.PredecessorID
	var intentPools []uint64

	// 1. 意图提取：扫描 FunctionCall action，识别四种调用形态
	for _, action := range receipt.Actions {
		switch action.MethodName {
		case "ft_on_transfer":
			// 回调形态：直接 caller 是 token 合约，真正的 trader 是
			// spawn 出这条 receipt 的那次调用的 predecessor
			if receipt.Tx != nil {
				if parent := receipt.Tx.FindParentReceipt(receipt); parent != nil {
					trader = parent.PredecessorID
				}
			}
			if actions, ok := parseIntentActions(action.MethodName, action.Args); ok {
				for _, a := range actions {
					intentPools = append(intentPools, a.PoolID)
				}
			}

		case "swap", "swap_by_output", "execute_actions":
			if actions, ok := parseIntentActions(action.MethodName, action.Args); ok {
				for _, a := range actions {
					intentPools = append(intentPools, a.PoolID)
				}
			}

		case "add_liquidity":
			var call addLiquidityArgs
			if decodeArgs(action.Args, &call) {
				d.detectLiquidity(receipt, block, handler, trader, call.PoolID, parseLiquidityAdded)
			}

		case "remove_liquidity":
			var call removeLiquidityArgs
			if decodeArgs(action.Args, &call) {
				d.detectLiquidity(receipt, block, handler, trader, call.PoolID, parseLiquidityRemoved)
			}
		}
	}

	// 2. 中继解析：已知 relayer 多包了几层，按配置深度沿父 receipt 链回溯
	if depth, isRelayer := consts.RelayerResolutionDepth[trader]; isRelayer {
		resolved, ok := resolveRelayedTrader(receipt, depth)
		if !ok {
			logger.Warnf("[ref] could not resolve relayed trader %s through %d parent levels, tx=%s receipt=%s",
				trader, depth, txHash(receipt), receipt.ReceiptID)
			return
		}
		trader = resolved
	}

	// 3. 结果提取：按固定语法扫日志，不匹配的行直接忽略
	var observed []*observedHop
	var referrer *types.AccountID
	for _, log := range receipt.Logs {
		if hop, ok := parseSwapLog(log); ok {
			observed = append(observed, hop)
			continue
		}
		if id, ok := parseReferralLog(log); ok {
			referrer = &id
		}
	}

	// 4. 位置配对：两路证据长度必须一致，否则宁可不发也不猜
	if len(intentPools) != len(observed) {
		logger.Warnf("[ref] intent/log hop count mismatch (%d actions vs %d logs), skipping receipt=%s tx=%s",
			len(intentPools), len(observed), receipt.ReceiptID, txHash(receipt))
		return
	}
	if len(observed) == 0 {
		return
	}

	rawPoolSwaps := make([]*core.RawPoolSwap, 0, len(observed))
	for i, hop := range observed {
		rawPoolSwaps = append(rawPoolSwaps, &core.RawPoolSwap{
			Pool:      PoolID(intentPools[i]),
			TokenIn:   hop.TokenIn,
			TokenOut:  hop.TokenOut,
			AmountIn:  hop.AmountIn,
			AmountOut: hop.AmountOut,
		})
	}

	// 5. 发射：每跳一个 RawPoolSwap（调用顺序），净额非空再发 BalanceChangeSwap。
	// 纯环形链净额为空，但每跳事件照发。
	ctx := common.BuildTradeContext(trader, receipt, block)
	for _, swap := range rawPoolSwaps {
		handler.OnRawPoolSwap(ctx, swap)
	}

	changes, contributing := common.NetBalanceChanges(rawPoolSwaps)
	if len(changes) > 0 {
		handler.OnBalanceChangeSwap(ctx, &core.BalanceChangeSwap{
			BalanceChanges: changes,
			PoolSwaps:      contributing,
		}, referrer)
	}
}

type liquidityParser func(log string) (map[types.AccountID]*big.Int, bool)

// detectLiquidity 处理 add_liquidity / remove_liquidity。
// pool id 直接取自参数，数额来自单行日志语法；某行解析失败只放弃该次发射。
func (d *Detector) detectLiquidity(
	receipt *core.Receipt,
	block *core.Block,
	handler core.TradeEventHandler,
	trader types.AccountID,
	poolID uint64,
	parse liquidityParser,
) {
	for _, log := range receipt.Logs {
		tokens, ok := parse(log)
		if !ok {
			continue
		}
		handler.OnLiquidityChange(common.BuildTradeContext(trader, receipt, block), PoolID(poolID), tokens)
	}
}

// resolveRelayedTrader 沿父 receipt 链往上走 depth 层，返回最终父 receipt 的
// predecessor。任何一层查不到都算失败。
func resolveRelayedTrader(receipt *core.Receipt, depth int) (types.AccountID, bool) {
	if receipt.Tx == nil {
		return "", false
	}
	current := receipt
	for i := 0; i < depth; i++ {
		parent := receipt.Tx.FindParentReceipt(current)
		if parent == nil {
			return "", false
		}
		current = parent
	}
	return current.PredecessorID, true
}

// PoolID 生成 Ref 的池子 id，"REF-<十进制编号>" 是下游 wire 约定
func PoolID(poolID uint64) core.PoolID {
	return fmt.Sprintf("%s-%d", consts.RefPoolPrefix, poolID)
}

func txHash(receipt *core.Receipt) string {
	if receipt.Tx == nil {
		return "<unknown>"
	}
	return receipt.Tx.Hash.String()
}

func decodeArgs(args []byte, v any) bool {
	return json.Unmarshal(args, v) == nil
}
