package stream

import (
	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/types"
	"trade-indexer-near/pkg/logger"
)

// 交易跨块窗口：receipt 可能落在交易提交后的若干个块里，超过窗口的交易
// 整体淘汰。窗口取得足够大，正常交易的 receipt 树不会跨这么多块。
const defaultTxRetainBlocks = 100

// TxTracker 把分散在多个区块的 receipt 归属回各自的交易。
// 交易在 chunk 里出现时注册，产生的 converted receipt id 进入 pending 表；
// receipt 到达时按 id 认领，认领后它 spawn 的子 receipt id 继续进表。
// 单线程使用，无锁。
type TxTracker struct {
	pending      map[types.CryptoHash]*core.Transaction // receipt id → 所属交易
	registeredAt map[types.CryptoHash]uint64            // tx hash → 注册高度
	txByHash     map[types.CryptoHash]*core.Transaction
	retainBlocks uint64
}

func NewTxTracker(retainBlocks uint64) *TxTracker {
	if retainBlocks == 0 {
		retainBlocks = defaultTxRetainBlocks
	}
	return &TxTracker{
		pending:      make(map[types.CryptoHash]*core.Transaction, 1024),
		registeredAt: make(map[types.CryptoHash]uint64, 256),
		txByHash:     make(map[types.CryptoHash]*core.Transaction, 256),
		retainBlocks: retainBlocks,
	}
}

// RegisterTx 注册一笔新交易及其 converted receipt id
func (t *TxTracker) RegisterTx(hash types.CryptoHash, signer types.AccountID, receiptIDs []types.CryptoHash, height uint64) *core.Transaction {
	tx := core.NewTransaction(hash, signer)
	t.txByHash[hash] = tx
	t.registeredAt[hash] = height
	for _, id := range receiptIDs {
		t.pending[id] = tx
	}
	return tx
}

// ClaimReceipt 按 receipt id 认领所属交易，把 receipt 挂进去并登记其子 receipt。
// 找不到交易（窗口外或索引器中途启动）返回 nil，receipt 以无交易上下文处理。
func (t *TxTracker) ClaimReceipt(receipt *core.Receipt) *core.Transaction {
	tx, ok := t.pending[receipt.ReceiptID]
	if !ok {
		return nil
	}
	delete(t.pending, receipt.ReceiptID)
	receipt.Tx = tx
	tx.AddReceipt(receipt)
	for _, child := range receipt.ChildReceiptIDs {
		t.pending[child] = tx
	}
	return tx
}

// Evict 淘汰窗口外的交易，连同其仍未认领的 receipt id
func (t *TxTracker) Evict(currentHeight uint64) {
	if currentHeight < t.retainBlocks {
		return
	}
	cutoff := currentHeight - t.retainBlocks
	var stale []types.CryptoHash
	for hash, height := range t.registeredAt {
		if height < cutoff {
			stale = append(stale, hash)
		}
	}
	if len(stale) == 0 {
		return
	}
	staleSet := make(map[*core.Transaction]bool, len(stale))
	for _, hash := range stale {
		staleSet[t.txByHash[hash]] = true
		delete(t.txByHash, hash)
		delete(t.registeredAt, hash)
	}
	removed := 0
	for id, tx := range t.pending {
		if staleSet[tx] {
			delete(t.pending, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Debugf("[txtracker] evicted %d stale txs with %d unclaimed receipts at height %d",
			len(stale), removed, currentHeight)
	}
}

// PendingReceipts 仅用于测试观察
func (t *TxTracker) PendingReceipts() int {
	return len(t.pending)
}
