package tradedetect

import (
	"context"
	"runtime/debug"

	"trade-indexer-near/internal/consts"
	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/logic/statediff"
	"trade-indexer-near/internal/logic/tradedetect/aidols"
	"trade-indexer-near/internal/logic/tradedetect/grafun"
	"trade-indexer-near/internal/logic/tradedetect/ref"
	"trade-indexer-near/internal/logic/tradedetect/refdcl"
	"trade-indexer-near/internal/logic/tradedetect/veax"
	"trade-indexer-near/pkg/logger"
)

// TradeDetector 是单协议检测器的统一入口。
// 实现必须自己做合约 id 门禁，Router 不做预过滤。
type TradeDetector interface {
	Name() string
	DetectTrades(receipt *core.Receipt, block *core.Block, handler core.TradeEventHandler)
}

// Router 把一个区块的 receipt 和状态变更分发给各协议检测器。
// 检测器之间互相隔离：某个协议 panic 只丢该协议当条 receipt 的事件，
// 不影响同区块其他协议和后续 receipt。
type Router struct {
	detectors []TradeDetector
	decoder   *statediff.Decoder
}

func NewRouter(network consts.Network, refPoolCeiling uint64) *Router {
	return &Router{
		detectors: []TradeDetector{
			ref.NewDetector(network),
			refdcl.NewDetector(network),
			veax.NewDetector(network),
			aidols.NewDetector(network),
			grafun.NewDetector(network),
		},
		decoder: statediff.NewDecoder(network, refPoolCeiling),
	}
}

// ProcessBlock 按 shard 顺序处理完整区块，最后触发一次 flush。
// flush 返回错误表示下游没接住，由调用方决定重试还是停摆。
func (r *Router) ProcessBlock(ctx context.Context, block *core.Block, handler core.TradeEventHandler) error {
	for _, shard := range block.Shards {
		for _, receipt := range shard.Receipts {
			r.OnReceipt(receipt, block, handler)
		}
		for _, change := range shard.StateChanges {
			r.OnStateChange(change, block, handler)
		}
	}
	return handler.OnBlockFlush(ctx, block.Header.Height)
}

func (r *Router) OnReceipt(receipt *core.Receipt, block *core.Block, handler core.TradeEventHandler) {
	for _, detector := range r.detectors {
		r.detectOne(detector, receipt, block, handler)
	}
}

func (r *Router) detectOne(detector TradeDetector, receipt *core.Receipt, block *core.Block, handler core.TradeEventHandler) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("[router][panic] detector %s panic: %v, receipt=%s block=%d\n%s",
				detector.Name(), rec, receipt.ReceiptID, block.Header.Height, debug.Stack())
		}
	}()
	detector.DetectTrades(receipt, block, handler)
}

func (r *Router) OnStateChange(change *core.StateChange, block *core.Block, handler core.TradeEventHandler) {
	if event := r.decoder.Decode(change, block); event != nil {
		handler.OnPoolChange(event)
	}
}
