package stream

import (
	"encoding/json"

	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/types"
)

// FastNear 数据服务返回的 near-lake 格式区块。
// 只声明需要的字段，未知字段由 json 解码自动丢弃。

type rawBlock struct {
	Block struct {
		Header core.BlockHeader `json:"header"`
	} `json:"block"`
	Shards []rawShard `json:"shards"`
}

type rawShard struct {
	ShardID                  uint64              `json:"shard_id"`
	Chunk                    *rawChunk           `json:"chunk"` // 该 shard 本块没出 chunk 时为 null
	ReceiptExecutionOutcomes []rawExecutionEntry `json:"receipt_execution_outcomes"`
	StateChanges             []*core.StateChange `json:"state_changes"`
}

type rawChunk struct {
	Transactions []rawTransaction `json:"transactions"`
}

type rawTransaction struct {
	Transaction struct {
		Hash     types.CryptoHash `json:"hash"`
		SignerID types.AccountID  `json:"signer_id"`
	} `json:"transaction"`
	Outcome struct {
		ExecutionOutcome rawOutcomeWrapper `json:"execution_outcome"`
	} `json:"outcome"`
}

type rawExecutionEntry struct {
	Receipt          rawReceipt        `json:"receipt"`
	ExecutionOutcome rawOutcomeWrapper `json:"execution_outcome"`
}

type rawOutcomeWrapper struct {
	Outcome struct {
		Logs       []string           `json:"logs"`
		ReceiptIDs []types.CryptoHash `json:"receipt_ids"`
		Status     json.RawMessage    `json:"status"`
	} `json:"outcome"`
}

type rawReceipt struct {
	ReceiptID     types.CryptoHash `json:"receipt_id"`
	PredecessorID types.AccountID  `json:"predecessor_id"`
	ReceiverID    types.AccountID  `json:"receiver_id"`
	Receipt       struct {
		// Action receipt 才有；data receipt 此字段为空
		Action *struct {
			Actions []json.RawMessage `json:"actions"`
		} `json:"Action"`
	} `json:"receipt"`
}

// rawAction 只认 FunctionCall，其余 action 种类（含纯字符串形式的
// "CreateAccount" 等）解码失败或字段为空，直接跳过
type rawAction struct {
	FunctionCall *struct {
		MethodName string `json:"method_name"`
		Args       string `json:"args"` // base64
	} `json:"FunctionCall"`
}

// rawStatus 判定执行结果。near-lake 里 status 是 tagged union，
// SuccessValue / SuccessReceiptId 二者有其一即成功。
type rawStatus struct {
	SuccessValue     *string `json:"SuccessValue"`
	SuccessReceiptID *string `json:"SuccessReceiptId"`
}

func (w *rawOutcomeWrapper) success() bool {
	var status rawStatus
	if err := json.Unmarshal(w.Outcome.Status, &status); err != nil {
		return false
	}
	return status.SuccessValue != nil || status.SuccessReceiptID != nil
}
