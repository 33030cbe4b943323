package core

import (
	"trade-indexer-near/internal/types"
)

// Transaction 是一棵 receipt 树的物化视图：交易 hash 加上该交易目前已知的
// 全部 receipt。receipt 树的"父子"关系只存在于 outcome 的 child receipt id
// 列表里，这里一次性建好索引，父查找是对索引的扫描，不做在线图遍历。
type Transaction struct {
	Hash     types.CryptoHash
	SignerID types.AccountID
	Receipts []*Receipt

	byID map[types.CryptoHash]*Receipt
}

func NewTransaction(hash types.CryptoHash, signer types.AccountID) *Transaction {
	return &Transaction{
		Hash:     hash,
		SignerID: signer,
		byID:     make(map[types.CryptoHash]*Receipt, 4),
	}
}

// AddReceipt 把 receipt 挂进交易（重复 id 以先到为准）
func (t *Transaction) AddReceipt(r *Receipt) {
	if _, ok := t.byID[r.ReceiptID]; ok {
		return
	}
	t.Receipts = append(t.Receipts, r)
	t.byID[r.ReceiptID] = r
}

func (t *Transaction) Receipt(id types.CryptoHash) *Receipt {
	return t.byID[id]
}

// FindParentReceipt 找到 spawn 了 receipt 的那条父 receipt；找不到返回 nil。
// 中继解析（relay）和 ft_on_transfer 的 trader 回溯都走这里。
func (t *Transaction) FindParentReceipt(receipt *Receipt) *Receipt {
	for _, r := range t.Receipts {
		for _, child := range r.ChildReceiptIDs {
			if child == receipt.ReceiptID {
				return r
			}
		}
	}
	return nil
}
