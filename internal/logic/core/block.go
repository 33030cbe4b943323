package core

import (
	"encoding/base64"

	"trade-indexer-near/internal/types"
)

// 区块输入模型。上游（FastNear 数据服务）已经把 shard 内的 receipt 执行结果
// 和原始状态变更摊平，这里保留检测引擎需要的最小结构。

type Block struct {
	Header BlockHeader `json:"header"`
	Shards []*Shard    `json:"shards"`
}

type BlockHeader struct {
	Height            uint64           `json:"height"`
	Hash              types.CryptoHash `json:"hash"`
	TimestampNanosec  uint64           `json:"timestamp_nanosec,string"`
	PrevHeight        uint64           `json:"prev_height"`
}

type Shard struct {
	ShardID      uint64         `json:"shard_id"`
	StateChanges []*StateChange `json:"state_changes"`
	Receipts     []*Receipt     `json:"-"` // 由 stream 层物化（含交易归属）
}

// StateChange 是一条原始 kv 状态变更（near-lake 格式）
type StateChange struct {
	Kind   string            `json:"type"` // 仅处理 data_update
	Cause  StateChangeCause  `json:"cause"`
	Change StateChangeRecord `json:"change"`
}

type StateChangeCause struct {
	Type        string           `json:"type"` // receipt_processing / transaction_processing / ...
	ReceiptHash types.CryptoHash `json:"receipt_hash"`
}

const (
	StateChangeDataUpdate  = "data_update"
	CauseReceiptProcessing = "receipt_processing"
)

type StateChangeRecord struct {
	AccountID   types.AccountID `json:"account_id"`
	KeyBase64   string          `json:"key_base64"`
	ValueBase64 string          `json:"value_base64"`
}

// Key 解码 key_base64，失败返回 nil（上层按 malformed fragment 跳过）
func (r *StateChangeRecord) Key() []byte {
	b, err := base64.StdEncoding.DecodeString(r.KeyBase64)
	if err != nil {
		return nil
	}
	return b
}

func (r *StateChangeRecord) Value() []byte {
	b, err := base64.StdEncoding.DecodeString(r.ValueBase64)
	if err != nil {
		return nil
	}
	return b
}

// Receipt 是一次链上执行单元，带自己的执行结果
type Receipt struct {
	ReceiptID     types.CryptoHash
	PredecessorID types.AccountID
	ReceiverID    types.AccountID

	// 仅保留 FunctionCall action，其余 action 种类与交易检测无关
	Actions []*FunctionCall

	Success         bool
	Logs            []string
	ChildReceiptIDs []types.CryptoHash

	// 所属交易（stream 层物化；包含该交易已知的全部 receipt）
	Tx *Transaction
}

type FunctionCall struct {
	MethodName string
	Args       []byte // 原始 JSON 参数
}
