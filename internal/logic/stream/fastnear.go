package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FastNearConfig 是数据服务客户端配置
type FastNearConfig struct {
	Endpoint         string `yaml:"endpoint"`           // 例如 https://mainnet.neardata.xyz
	AuthToken        string `yaml:"auth_token"`         // 可选 Bearer token
	RequestTimeoutMs int    `yaml:"request_timeout_ms"` // 单次请求超时
	PrefetchBlocks   int    `yaml:"prefetch_blocks"`    // 预取窗口大小
	PollIntervalMs   int    `yaml:"poll_interval_ms"`   // 追上链头后的轮询间隔
}

const (
	defaultRequestTimeout = 10 * time.Second
	defaultPrefetch       = 16
	defaultPollInterval   = 500 * time.Millisecond
)

func (c *FastNearConfig) requestTimeout() time.Duration {
	if c.RequestTimeoutMs <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

func (c *FastNearConfig) prefetch() int {
	if c.PrefetchBlocks <= 0 {
		return defaultPrefetch
	}
	return c.PrefetchBlocks
}

func (c *FastNearConfig) pollInterval() time.Duration {
	if c.PollIntervalMs <= 0 {
		return defaultPollInterval
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// FastNearProvider 从 FastNear 数据服务按高度拉取区块。
// GET /v0/block/<height>；404 或 body 为 null 表示该高度还没出块
// （或该高度没有区块，链上高度允许有洞），由调用方决定轮询还是跳过。
type FastNearProvider struct {
	endpoint  string
	authToken string
	client    *http.Client
}

func NewFastNearProvider(cfg FastNearConfig) *FastNearProvider {
	return &FastNearProvider{
		endpoint:  cfg.Endpoint,
		authToken: cfg.AuthToken,
		client:    &http.Client{Timeout: cfg.requestTimeout()},
	}
}

// FetchBlock 拉取单个区块。返回 (nil, nil) 表示高度尚不可用。
func (p *FastNearProvider) FetchBlock(ctx context.Context, height uint64) (*rawBlock, error) {
	url := fmt.Sprintf("%s/v0/block/%d", p.endpoint, height)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if p.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.authToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch block %d: %w", height, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch block %d: unexpected status %d", height, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch block %d: read body: %w", height, err)
	}
	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}

	var block rawBlock
	if err := json.Unmarshal(body, &block); err != nil {
		return nil, fmt.Errorf("fetch block %d: decode: %w", height, err)
	}
	return &block, nil
}
