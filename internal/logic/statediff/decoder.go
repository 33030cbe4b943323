package statediff

import (
	"encoding/binary"

	"github.com/near/borsh-go"

	"trade-indexer-near/internal/consts"
	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/logic/tradedetect/aidols"
	"trade-indexer-near/internal/logic/tradedetect/grafun"
	"trade-indexer-near/internal/logic/tradedetect/ref"
	"trade-indexer-near/internal/types"
	"trade-indexer-near/pkg/logger"
)

// Decoder 把原始 kv 状态变更解码成池子快照事件。
// 路由按账户分流：每个协议有自己的 key 前缀和 borsh 布局。
// 不属于已知协议、或 key/value 解不开的变更一律静默跳过，
// 链上同账户还有大量非池子存储，解不开是常态而不是错误。
type Decoder struct {
	refContractID    types.AccountID
	aidolsContractID types.AccountID
	grafunContractID types.AccountID
	refPoolCeiling   uint64
}

func NewDecoder(network consts.Network, refPoolCeiling uint64) *Decoder {
	if refPoolCeiling == 0 {
		refPoolCeiling = consts.DefaultRefPoolIDCeiling
	}
	return &Decoder{
		refContractID:    consts.RefContract(network),
		aidolsContractID: consts.MainnetOnly(network, consts.AidolsContractID),
		grafunContractID: consts.MainnetOnly(network, consts.GraFunContractID),
		refPoolCeiling:   refPoolCeiling,
	}
}

// Decode 处理单条状态变更，命中池子存储则返回快照事件。
// 只认 receipt_processing 引发的 data_update，其余 cause 不产出。
func (d *Decoder) Decode(change *core.StateChange, block *core.Block) (event *core.PoolChangeEvent) {
	if change.Kind != core.StateChangeDataUpdate {
		return nil
	}
	account := change.Change.AccountID
	if account == "" || (account != d.refContractID && account != d.aidolsContractID && account != d.grafunContractID) {
		return nil
	}
	if change.Cause.Type != core.CauseReceiptProcessing {
		logger.Warnf("[statediff] update not caused by a receipt in block %d (cause=%s)",
			block.Header.Height, change.Cause.Type)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[statediff][panic] borsh.Deserialize panic: %v, account=%s block=%d",
				r, account, block.Header.Height)
			event = nil
		}
	}()

	key := change.Change.Key()
	value := change.Change.Value()
	if key == nil || value == nil {
		return nil
	}

	switch account {
	case d.refContractID:
		return d.decodeRef(key, value, change, block)
	case d.aidolsContractID:
		return d.decodeAidols(key, value, change, block)
	case d.grafunContractID:
		return d.decodeGraFun(key, value, change, block)
	}
	return nil
}

// decodeRef 解码 Ref 的池子存储。前缀历史上是 'p'，合约升级后改为 0x00，
// 两种都认；后跟 8 字节小端池子编号。
func (d *Decoder) decodeRef(key, value []byte, change *core.StateChange, block *core.Block) *core.PoolChangeEvent {
	if len(key) == 0 || (key[0] != 0x00 && key[0] != 'p') {
		return nil
	}
	withoutPrefix := key[1:]
	if len(withoutPrefix) != 8 {
		logger.Warnf("[statediff] invalid ref pool key: %x", key)
		return nil
	}
	poolID := binary.LittleEndian.Uint64(withoutPrefix)

	var pool refPoolWire
	if err := borsh.Deserialize(&pool, value); err != nil {
		return nil
	}
	snapshot := pool.snapshot()
	if snapshot == nil {
		return nil
	}
	// 编号超出合理上限说明是前缀撞车的非池子 key，而不是真有这么多池子
	if poolID > d.refPoolCeiling {
		logger.Warnf("[statediff] ref pool id too high, probably a key collision: %d", poolID)
		return nil
	}
	return &core.PoolChangeEvent{
		PoolID:                ref.PoolID(poolID),
		ReceiptID:             change.Cause.ReceiptHash,
		BlockTimestampNanosec: block.Header.TimestampNanosec,
		BlockHeight:           block.Header.Height,
		Pool:                  snapshot,
	}
}

func (d *Decoder) decodeAidols(key, value []byte, change *core.StateChange, block *core.Block) *core.PoolChangeEvent {
	if len(key) == 0 || key[0] != 0x00 {
		return nil
	}
	tokenID, ok := decodeBorshAccountID(key[1:])
	if !ok {
		logger.Warnf("[statediff] invalid aidols pool key: %x", key)
		return nil
	}
	var state AidolsPoolState
	if err := borsh.Deserialize(&state, value); err != nil {
		return nil
	}
	return &core.PoolChangeEvent{
		PoolID:                aidols.PoolID(tokenID),
		ReceiptID:             change.Cause.ReceiptHash,
		BlockTimestampNanosec: block.Header.TimestampNanosec,
		BlockHeight:           block.Header.Height,
		Pool:                  &state,
	}
}

func (d *Decoder) decodeGraFun(key, value []byte, change *core.StateChange, block *core.Block) *core.PoolChangeEvent {
	if len(key) == 0 || key[0] != 's' {
		return nil
	}
	tokenID, ok := decodeBorshAccountID(key[1:])
	if !ok {
		logger.Warnf("[statediff] invalid grafun pool key: %x", key)
		return nil
	}
	var state GraFunPoolState
	if err := borsh.Deserialize(&state, value); err != nil {
		return nil
	}
	return &core.PoolChangeEvent{
		PoolID:                grafun.PoolID(tokenID),
		ReceiptID:             change.Cause.ReceiptHash,
		BlockTimestampNanosec: block.Header.TimestampNanosec,
		BlockHeight:           block.Header.Height,
		Pool:                  &state,
	}
}

// decodeBorshAccountID 解 borsh 编码的 AccountId（u32 长度 + utf8 字节）
func decodeBorshAccountID(data []byte) (types.AccountID, bool) {
	var s string
	if err := borsh.Deserialize(&s, data); err != nil {
		return "", false
	}
	return types.AccountID(s), true
}
