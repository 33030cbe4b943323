package common

import (
	"encoding/json"
	"strings"
)

// NEP-297 结构化日志封装："EVENT_JSON:" 前缀 + JSON 体。
// 解析失败一律返回 ok=false，由调用方跳过该行（malformed fragment 不致命）。

const eventJSONPrefix = "EVENT_JSON:"

// EventLogData 是 NEP-297 事件信封，Data 的具体 schema 由各协议自己定义
type EventLogData[T any] struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    string `json:"event"`
	Data     T      `json:"data"`
}

// ParseEventLog 从单条日志行解析 NEP-297 事件
func ParseEventLog[T any](log string) (*EventLogData[T], bool) {
	body, found := strings.CutPrefix(log, eventJSONPrefix)
	if !found {
		return nil, false
	}
	var event EventLogData[T]
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		return nil, false
	}
	return &event, true
}
