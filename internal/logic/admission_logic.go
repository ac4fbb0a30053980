package logic

import (
	"context"
	"fmt"

	"github.com/blues/dgs/internal/config"
	"github.com/blues/dgs/internal/logger"
	"github.com/blues/dgs/internal/model"
	"github.com/blues/dgs/internal/risk"
)

// Decision 风控准入决策
type Decision struct {
	Accepted     bool    `json:"accepted"`
	Score        float64 `json:"score"`
	Threshold    float64 `json:"threshold"`
	FallbackUsed bool    `json:"fallback_used"` // 评分服务降级
	Overridden   bool    `json:"overridden"`    // 强制通过
}

// AdmissionLogic 捐赠准入控制
type AdmissionLogic struct {
	scorer    RiskScorer
	audit     *AuditLogic
	threshold float64
	fallback  float64
}

// NewAdmissionLogic 创建准入控制逻辑
func NewAdmissionLogic(scorer RiskScorer, audit *AuditLogic, cfg config.RiskConfig) *AdmissionLogic {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = 0.8
	}
	fallback := cfg.FallbackScore
	if fallback <= 0 {
		fallback = 0.5
	}
	return &AdmissionLogic{
		scorer:    scorer,
		audit:     audit,
		threshold: threshold,
		fallback:  fallback,
	}
}

// Evaluate 评估一笔捐赠是否准入
// 评分服务不可用时降级为固定评分，降级事实写入审计日志
func (a *AdmissionLogic) Evaluate(ctx context.Context, accountId int64, requestId string, amount int64, txCount int64, blacklisted bool, override bool) *Decision {
	decision := &Decision{Threshold: a.threshold}

	score, err := a.scorer.Score(ctx, risk.ScoreRequest{
		Amount:        amount,
		TxCount:       txCount,
		IsBlacklisted: blacklisted,
	})
	if err != nil {
		// 降级不是静默成功：记审计并记日志
		logger.Warn("Risk oracle unavailable, using fallback score %.2f (request_id=%s): %v", a.fallback, requestId, err)
		a.audit.Record(model.ActionOracleFallback, accountId,
			fmt.Sprintf("评分服务不可用，降级评分 %.2f", a.fallback), requestId)
		score = a.fallback
		decision.FallbackUsed = true
	}
	decision.Score = score

	if score > a.threshold {
		if !override {
			decision.Accepted = false
			a.audit.Record(model.ActionRiskRejected, accountId,
				fmt.Sprintf("评分 %.2f 超过阈值 %.2f", score, a.threshold), requestId)
			return decision
		}
		// 强制通过仍然要留痕
		decision.Overridden = true
		a.audit.Record(model.ActionRiskOverride, accountId,
			fmt.Sprintf("强制通过，评分 %.2f 超过阈值 %.2f", score, a.threshold), requestId)
	}

	decision.Accepted = true
	return decision
}
