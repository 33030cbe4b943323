package types

import (
	"fmt"
	"math/big"
)

// NEAR 的余额是 u128，Go 里用 *big.Int 承载（borsh-go 对 u128 的映射同样是 big.Int）。
// 有符号的余额变化按 i128 约束，超出范围的数额在聚合阶段整跳拒绝。

var (
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// ParseU128 解析十进制字符串为 u128。空串、符号、超范围都算失败。
func ParseU128(s string) (*big.Int, bool) {
	if s == "" || s[0] == '-' || s[0] == '+' {
		return nil, false
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Cmp(maxU128) > 0 {
		return nil, false
	}
	return v, true
}

// FitsI128 判断 v 是否落在有符号 128 位范围内
func FitsI128(v *big.Int) bool {
	return v.Cmp(minI128) >= 0 && v.Cmp(maxI128) <= 0
}

// U128String 输出十进制字符串，nil 按 0 处理（防御空指针，不吞错误路径）
func U128String(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// MustU128 仅用于测试与常量构造
func MustU128(s string) *big.Int {
	v, ok := ParseU128(s)
	if !ok {
		panic(fmt.Sprintf("invalid u128: %q", s))
	}
	return v
}
