package statediff

import (
	"math/big"

	"github.com/near/borsh-go"

	"trade-indexer-near/internal/logic/core"
	"trade-indexer-near/internal/types"
)

// Ref 合约池子的 borsh 布局，与链上存储结构一字不差。
// 字段顺序即 wire 顺序，增删或换序都会导致整条解码失败。

// refPoolWire 是合约侧 Pool 枚举的 tagged union：首字节是变体编号
type refPoolWire struct {
	Kind       borsh.Enum `borsh_enum:"true"`
	Simple     RefSimplePool
	StableSwap RefStableSwapPool
	RatedSwap  RefRatedSwapPool
	DegenSwap  RefDegenSwapPool
}

const (
	refPoolSimple borsh.Enum = iota
	refPoolStableSwap
	refPoolRatedSwap
	refPoolDegenSwap
)

// snapshot 按变体取出实现 PoolSnapshot 的那一份
func (p *refPoolWire) snapshot() core.PoolSnapshot {
	switch p.Kind {
	case refPoolSimple:
		return &p.Simple
	case refPoolStableSwap:
		return &p.StableSwap
	case refPoolRatedSwap:
		return &p.RatedSwap
	case refPoolDegenSwap:
		return &p.DegenSwap
	}
	return nil
}

type RefSwapVolume struct {
	Input  big.Int `json:"input"`
	Output big.Int `json:"output"`
}

type RefSimplePool struct {
	TokenAccountIDs []types.AccountID `json:"token_account_ids"`
	Amounts         []big.Int         `json:"amounts"`
	Volumes         []RefSwapVolume   `json:"volumes"`
	TotalFee        uint32            `json:"total_fee"`
	// 合约升级遗留字段，恒为 0
	ExchangeFee       uint32  `json:"exchange_fee"`
	ReferralFee       uint32  `json:"referral_fee"`
	SharesPrefix      []byte  `json:"-"`
	SharesTotalSupply big.Int `json:"shares_total_supply"`
}

func (*RefSimplePool) Protocol() string { return "ref" }
func (*RefSimplePool) PoolKind() string { return "simple_pool" }

type RefStableSwapPool struct {
	TokenAccountIDs   []types.AccountID `json:"token_account_ids"`
	TokenDecimals     []uint8           `json:"token_decimals"`
	CAmounts          []big.Int         `json:"c_amounts"`
	Volumes           []RefSwapVolume   `json:"volumes"`
	TotalFee          uint32            `json:"total_fee"`
	SharesPrefix      []byte            `json:"-"`
	SharesTotalSupply big.Int           `json:"shares_total_supply"`
	InitAmpFactor     big.Int           `json:"init_amp_factor"`
	TargetAmpFactor   big.Int           `json:"target_amp_factor"`
	InitAmpTime       uint64            `json:"init_amp_time"`
	StopAmpTime       uint64            `json:"stop_amp_time"`
}

func (*RefStableSwapPool) Protocol() string { return "ref" }
func (*RefStableSwapPool) PoolKind() string { return "stable_swap_pool" }

// RatedSwapPool / DegenSwapPool 与 StableSwapPool 布局相同，但变体编号不同，
// 保持独立类型以免下游按 kind 分流时混淆。

type RefRatedSwapPool struct {
	TokenAccountIDs   []types.AccountID `json:"token_account_ids"`
	TokenDecimals     []uint8           `json:"token_decimals"`
	CAmounts          []big.Int         `json:"c_amounts"`
	Volumes           []RefSwapVolume   `json:"volumes"`
	TotalFee          uint32            `json:"total_fee"`
	SharesPrefix      []byte            `json:"-"`
	SharesTotalSupply big.Int           `json:"shares_total_supply"`
	InitAmpFactor     big.Int           `json:"init_amp_factor"`
	TargetAmpFactor   big.Int           `json:"target_amp_factor"`
	InitAmpTime       uint64            `json:"init_amp_time"`
	StopAmpTime       uint64            `json:"stop_amp_time"`
}

func (*RefRatedSwapPool) Protocol() string { return "ref" }
func (*RefRatedSwapPool) PoolKind() string { return "rated_swap_pool" }

type RefDegenSwapPool struct {
	TokenAccountIDs   []types.AccountID `json:"token_account_ids"`
	TokenDecimals     []uint8           `json:"token_decimals"`
	CAmounts          []big.Int         `json:"c_amounts"`
	Volumes           []RefSwapVolume   `json:"volumes"`
	TotalFee          uint32            `json:"total_fee"`
	SharesPrefix      []byte            `json:"-"`
	SharesTotalSupply big.Int           `json:"shares_total_supply"`
	InitAmpFactor     big.Int           `json:"init_amp_factor"`
	TargetAmpFactor   big.Int           `json:"target_amp_factor"`
	InitAmpTime       uint64            `json:"init_amp_time"`
	StopAmpTime       uint64            `json:"stop_amp_time"`
}

func (*RefDegenSwapPool) Protocol() string { return "ref" }
func (*RefDegenSwapPool) PoolKind() string { return "degen_swap_pool" }
