package consts

import (
	"trade-indexer-near/internal/types"
)

// Network 选择主网 / 测试网，一次性切换所有 adapter 识别的合约 id
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// 各协议合约 id。测试网没有部署的协议留空，对应 adapter 在测试网下不产出事件。
const (
	RefContractID        = "v2.ref-finance.near"
	TestnetRefContractID = "ref-finance-101.testnet"

	RefDclContractID = "dclv2.ref-labs.near"
	VeaxContractID   = "veax.near"
	AidolsContractID = "aidols.near"
	GraFunContractID = "gra-fun.near"
)

// RefContract 返回当前网络下 Ref 的合约 id
func RefContract(network Network) types.AccountID {
	if network == NetworkTestnet {
		return TestnetRefContractID
	}
	return RefContractID
}

// MainnetOnly 对仅主网部署的协议做网络门禁；测试网合约 id 未知时返回空
func MainnetOnly(network Network, contractID types.AccountID) types.AccountID {
	if network == NetworkTestnet {
		return ""
	}
	return contractID
}

// RelayerResolutionDepth 记录已知中继账户到真实发起者的回溯层数。
// ref.hot.tg 把真实调用者包了两层，往上走两级父 receipt 才是 trader。
var RelayerResolutionDepth = map[types.AccountID]int{
	"ref.hot.tg": 2,
}

// PoolId 前缀，"<PROTOCOL>-<identifier>" 是下游 wire 约定
const (
	RefPoolPrefix    = "REF"
	RefDclPoolPrefix = "REFDCL"
	VeaxPoolPrefix   = "VEAX"
	AidolsPoolPrefix = "AIDOLS"
	GraFunPoolPrefix = "GRAFUN"
)

// DefaultRefPoolIDCeiling 是 Ref 池子编号的合理上限，用来拦截 key 前缀误匹配。
// Ref 真到了这个池子数就调大配置。
const DefaultRefPoolIDCeiling = 420_000
