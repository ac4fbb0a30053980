package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/config"
	"github.com/blues/dgs/internal/logger"
)

// ScoreRequest 评分请求
type ScoreRequest struct {
	Amount        int64 `json:"amount"`
	TxCount       int64 `json:"tx_count"`
	IsBlacklisted bool  `json:"is_blacklisted"`
}

type scoreResponse struct {
	RiskScore float64 `json:"risk_score"`
}

// Client 风控评分服务客户端
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(cfg config.RiskConfig) *Client {
	timeout := cfg.RiskTimeout()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		url:        cfg.Url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Score 请求风控评分，返回 [0,1] 区间内的评分
// 评分服务是不可信的：超出区间的评分会被截断，非法值视为服务不可用
func (c *Client) Score(ctx context.Context, req ScoreRequest) (float64, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to encode score request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build score request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindOracleUnavailable, "评分服务请求失败", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, apperr.New(apperr.KindOracleUnavailable, fmt.Sprintf("评分服务返回状态码 %d", resp.StatusCode))
	}

	var result scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, apperr.Wrap(apperr.KindOracleUnavailable, "评分服务响应解析失败", err)
	}

	score := result.RiskScore
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, apperr.New(apperr.KindOracleUnavailable, "评分服务返回非法评分")
	}
	if score < 0 || score > 1 {
		logger.Warn("Risk score %.4f out of range, clamping", score)
		score = math.Min(math.Max(score, 0), 1)
	}

	return score, nil
}
