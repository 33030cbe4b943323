package statediff

import "math/big"

// AIdols / GraFun 的池子状态都是单结构体，无枚举 tag。
// GraFun 比 AIdols 多一个 metadata 字符串，布局不兼容，各自独立解码。

type AidolsPoolState struct {
	TokenHold  big.Int `json:"token_hold"`
	WnearHold  big.Int `json:"wnear_hold"`
	IsDeployed bool    `json:"is_deployed"`
	IsTradable bool    `json:"is_tradable"`
}

func (*AidolsPoolState) Protocol() string { return "aidols" }
func (*AidolsPoolState) PoolKind() string { return "bonding_curve" }

type GraFunPoolState struct {
	Metadata   string  `json:"metadata"`
	TokenHold  big.Int `json:"token_hold"`
	WnearHold  big.Int `json:"wnear_hold"`
	IsDeployed bool    `json:"is_deployed"`
	IsTradable bool    `json:"is_tradable"`
}

func (*GraFunPoolState) Protocol() string { return "grafun" }
func (*GraFunPoolState) PoolKind() string { return "bonding_curve" }
