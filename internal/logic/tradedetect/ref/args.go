package ref

import (
	"encoding/json"
)

// Ref 各调用形态的参数 schema。数额字段链上是十进制字符串（dec format），
// 意图提取只用 pool_id / token 对，数额一律以日志观测为准。

// swapAction 是一跳的调用意图
type swapAction struct {
	PoolID   uint64 `json:"pool_id"`
	TokenIn  string `json:"token_in"`
	TokenOut string `json:"token_out"`
}

// swap / swap_by_output / execute_actions 共享同一 actions 列表形态
type methodSwapArgs struct {
	Actions []swapAction `json:"actions"`
}

// ft_on_transfer 的 msg 本身又是一层 JSON，两种已知子 schema
type ftTransferCallArgs struct {
	Msg string `json:"msg"`
}

type ftTransferMsgExecute struct {
	Actions []swapAction `json:"actions"`
}

type ftTransferMsgHotZap struct {
	HotZapActions []swapAction `json:"hot_zap_actions"`
}

type addLiquidityArgs struct {
	PoolID uint64 `json:"pool_id"`
}

type removeLiquidityArgs struct {
	PoolID uint64 `json:"pool_id"`
}

// parseIntentActions 按方法名解出有序的意图跳列表。
// 返回 ok=false 表示该 action 不是已知的 swap 形态（或参数损坏，按碎片跳过）。
func parseIntentActions(methodName string, args []byte) ([]swapAction, bool) {
	switch methodName {
	case "swap", "swap_by_output", "execute_actions":
		var call methodSwapArgs
		if err := json.Unmarshal(args, &call); err != nil {
			return nil, false
		}
		return call.Actions, true

	case "ft_on_transfer":
		var call ftTransferCallArgs
		if err := json.Unmarshal(args, &call); err != nil {
			return nil, false
		}
		var execute ftTransferMsgExecute
		if err := json.Unmarshal([]byte(call.Msg), &execute); err == nil && len(execute.Actions) > 0 {
			return execute.Actions, true
		}
		var hotZap ftTransferMsgHotZap
		if err := json.Unmarshal([]byte(call.Msg), &hotZap); err == nil && len(hotZap.HotZapActions) > 0 {
			return hotZap.HotZapActions, true
		}
		return nil, false

	default:
		return nil, false
	}
}
