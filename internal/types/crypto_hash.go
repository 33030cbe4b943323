package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// CryptoHash 是 NEAR 的 32 字节哈希（区块 / 交易 / receipt id），对外一律 base58 编码
type CryptoHash [32]byte

func (h CryptoHash) String() string {
	return base58.Encode(h[:])
}

func (h CryptoHash) IsZero() bool {
	return h == CryptoHash{}
}

// TryHashFromBase58 解析 base58 字符串为 CryptoHash，失败时返回 error（用于不信任输入路径）
func TryHashFromBase58(s string) (CryptoHash, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return CryptoHash{}, fmt.Errorf("failed to decode base58 hash %q: %w", s, err)
	}
	if len(data) != 32 {
		return CryptoHash{}, fmt.Errorf("invalid hash length: got %d, want 32, input=%q", len(data), s)
	}
	var h CryptoHash
	copy(h[:], data)
	return h, nil
}

// HashFromBase58 同 TryHashFromBase58，但失败直接 panic（仅用于常量 / 测试）
func HashFromBase58(s string) CryptoHash {
	h, err := TryHashFromBase58(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h CryptoHash) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.String() + `"`), nil
}

func (h *CryptoHash) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid hash json: %s", data)
	}
	parsed, err := TryHashFromBase58(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
