package stream

import (
	"context"
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/logic/progress"
	"trade-indexer-near/internal/logic/tradedetect"
	"trade-indexer-near/pkg/logger"
	"trade-indexer-near/pkg/utils"
)

// BlockService 驱动整个管线：按高度顺序拉块、物化交易、过检测引擎、
// flush 后写进度。区块处理严格串行，预取窗口只并行网络 IO，
// 处理顺序和高度顺序一致。
type BlockService struct {
	provider   *FastNearProvider
	tracker    *TxTracker
	router     *tradedetect.Router
	handler    core.TradeEventHandler
	checkpoint *progress.RedisCheckpoint

	startHeight  uint64
	prefetch     int
	pollInterval time.Duration

	ctx    context.Context
	cancel func(err error)
	logx.Logger
}

func NewBlockService(
	provider *FastNearProvider,
	router *tradedetect.Router,
	handler core.TradeEventHandler,
	checkpoint *progress.RedisCheckpoint,
	cfg FastNearConfig,
	startHeight uint64,
) *BlockService {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &BlockService{
		provider:     provider,
		tracker:      NewTxTracker(0),
		router:       router,
		handler:      handler,
		checkpoint:   checkpoint,
		startHeight:  startHeight,
		prefetch:     cfg.prefetch(),
		pollInterval: cfg.pollInterval(),
		ctx:          ctx,
		cancel:       cancel,
		Logger:       logx.WithContext(ctx).WithFields(logx.Field("service", "block_stream")),
	}
}

func (s *BlockService) Start() {
	height := s.resumeHeight()
	s.Infof("block stream starting at height %d (prefetch=%d)", height, s.prefetch)

	for {
		if s.ctx.Err() != nil {
			return
		}

		// 预取一个窗口，并行只发生在网络 IO 上
		heights := make([]uint64, s.prefetch)
		for i := range heights {
			heights[i] = height + uint64(i)
		}
		blocks := utils.ParallelMap(heights, s.prefetch, func(h uint64) *rawBlock {
			return s.fetchOne(h)
		})

		for i, raw := range blocks {
			if s.ctx.Err() != nil {
				return
			}
			if raw == nil {
				var ok bool
				raw, ok = s.awaitBlock(heights[i], blocks[i+1:])
				if !ok {
					return
				}
				if raw == nil {
					// 后继已出块证明该高度是链上真实的空洞，跳过
					continue
				}
			}
			if !s.processOne(raw) {
				return
			}
			s.tracker.Evict(heights[i])
		}
		height += uint64(s.prefetch)
	}
}

func (s *BlockService) Stop() {
	s.cancel(errors.New("service stop"))
}

// resumeHeight 优先用进度点续跑，没有进度时从配置高度开始
func (s *BlockService) resumeHeight() uint64 {
	saved, found, err := s.checkpoint.Load(s.ctx)
	if err != nil {
		s.Errorf("load checkpoint failed, falling back to configured start height: %v", err)
		return s.startHeight
	}
	if !found {
		return s.startHeight
	}
	return saved + 1
}

// fetchOne 拉取单个高度，瞬时错误按固定间隔重试直到成功或服务停止。
// 返回 nil 表示该高度暂时拿不到：可能是被跳过的高度，也可能是还没出的
// 链头块，两种情况由 awaitBlock 区分。
func (s *BlockService) fetchOne(height uint64) *rawBlock {
	for {
		block, err := s.provider.FetchBlock(s.ctx, height)
		if err == nil {
			return block
		}
		if s.ctx.Err() != nil {
			return nil
		}
		logger.Warnf("[stream] fetch block %d failed, retrying: %v", height, err)
		select {
		case <-time.After(s.pollInterval):
		case <-s.ctx.Done():
			return nil
		}
	}
}

// awaitBlock 处理预取窗口里拿不到的高度。窗口内更高的高度已经出块，
// 说明该高度是链上真实的空洞，直接跳过；否则是追到了链头，按轮询间隔
// 等块，直到该高度出块，或它的后继先出块（证明该高度确实被链跳过）。
// 第二个返回值为 false 表示服务停止，调用方直接退出。
func (s *BlockService) awaitBlock(height uint64, successors []*rawBlock) (*rawBlock, bool) {
	for _, b := range successors {
		if b != nil {
			return nil, true
		}
	}
	for {
		select {
		case <-time.After(s.pollInterval):
		case <-s.ctx.Done():
			return nil, false
		}
		block, err := s.provider.FetchBlock(s.ctx, height)
		if err != nil {
			logger.Warnf("[stream] poll block %d at head failed: %v", height, err)
			continue
		}
		if block != nil {
			return block, true
		}
		next, err := s.provider.FetchBlock(s.ctx, height+1)
		if err == nil && next != nil {
			return nil, true
		}
	}
}

// processOne 处理单个区块：物化、检测、flush、存进度。
// flush 不可恢复失败时停摆，宁可停也不跳块，返回 false 表示服务应退出。
func (s *BlockService) processOne(raw *rawBlock) bool {
	start := time.Now()
	block := materialize(raw, s.tracker)

	if err := s.router.ProcessBlock(s.ctx, block, s.handler); err != nil {
		s.Errorf("flush failed at block %d, halting: %v", block.Header.Height, err)
		s.cancel(err)
		return false
	}
	if err := s.checkpoint.Save(s.ctx, block.Header.Height); err != nil {
		// 进度写失败不丢数据，重启后最多整块重放
		s.Errorf("checkpoint save failed at block %d: %v", block.Header.Height, err)
	}

	s.Debugf("block %d processed in %v", block.Header.Height, time.Since(start))
	return true
}
