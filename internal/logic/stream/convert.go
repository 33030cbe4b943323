package stream

import (
	"encoding/base64"
	"encoding/json"

	"trade-indexer-near/internal/logic/core"
)

// materialize 把原始区块转换为引擎输入模型，并通过 tracker 完成
// receipt 到交易的归属。先注册全区块的交易再认领 receipt：
// 本地 receipt 可能和它的交易落在同一个块的不同 shard。
func materialize(raw *rawBlock, tracker *TxTracker) *core.Block {
	block := &core.Block{
		Header: raw.Block.Header,
		Shards: make([]*core.Shard, 0, len(raw.Shards)),
	}
	height := block.Header.Height

	for _, shard := range raw.Shards {
		if shard.Chunk == nil {
			continue
		}
		for _, tx := range shard.Chunk.Transactions {
			tracker.RegisterTx(
				tx.Transaction.Hash,
				tx.Transaction.SignerID,
				tx.Outcome.ExecutionOutcome.Outcome.ReceiptIDs,
				height,
			)
		}
	}

	for _, rawSh := range raw.Shards {
		shard := &core.Shard{
			ShardID:      rawSh.ShardID,
			StateChanges: rawSh.StateChanges,
		}
		for _, entry := range rawSh.ReceiptExecutionOutcomes {
			receipt := convertReceipt(&entry)
			tracker.ClaimReceipt(receipt)
			shard.Receipts = append(shard.Receipts, receipt)
		}
		block.Shards = append(block.Shards, shard)
	}

	return block
}

func convertReceipt(entry *rawExecutionEntry) *core.Receipt {
	receipt := &core.Receipt{
		ReceiptID:       entry.Receipt.ReceiptID,
		PredecessorID:   entry.Receipt.PredecessorID,
		ReceiverID:      entry.Receipt.ReceiverID,
		Success:         entry.ExecutionOutcome.success(),
		Logs:            entry.ExecutionOutcome.Outcome.Logs,
		ChildReceiptIDs: entry.ExecutionOutcome.Outcome.ReceiptIDs,
	}
	if action := entry.Receipt.Receipt.Action; action != nil {
		for _, rawAct := range action.Actions {
			if call := parseFunctionCall(rawAct); call != nil {
				receipt.Actions = append(receipt.Actions, call)
			}
		}
	}
	return receipt
}

// parseFunctionCall 只认 FunctionCall action，其余种类返回 nil
func parseFunctionCall(data json.RawMessage) *core.FunctionCall {
	var action rawAction
	if err := json.Unmarshal(data, &action); err != nil || action.FunctionCall == nil {
		return nil
	}
	args, err := base64.StdEncoding.DecodeString(action.FunctionCall.Args)
	if err != nil {
		return nil
	}
	return &core.FunctionCall{
		MethodName: action.FunctionCall.MethodName,
		Args:       args,
	}
}
