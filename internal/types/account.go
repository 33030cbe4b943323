package types

// AccountID 是 NEAR 账户 id（同时也是 NEP-141 token 的标识）。
// 校验规则见 https://nomicon.io/DataStructures/Account：
// 2~64 字节，小写字母 / 数字 / _ - . ，分段不能以分隔符开头或结尾。
type AccountID string

func (a AccountID) String() string { return string(a) }

// IsValid 做轻量合法性校验。日志行语法解析依赖它来剔除误匹配的 token 段。
func (a AccountID) IsValid() bool {
	s := string(a)
	if len(s) < 2 || len(s) > 64 {
		return false
	}
	lastSep := true // 开头视同刚越过分隔符
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			lastSep = false
		case c == '-' || c == '_' || c == '.':
			if lastSep {
				return false
			}
			lastSep = true
		default:
			return false
		}
	}
	return !lastSep
}

// TryAccountID 解析并校验账户 id，失败返回 false
func TryAccountID(s string) (AccountID, bool) {
	a := AccountID(s)
	if !a.IsValid() {
		return "", false
	}
	return a, true
}
