package logic

import (
	"context"
	"strings"
	"testing"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/config"
	"github.com/blues/dgs/internal/model"
)

func TestEvaluateLowScoreAccepted(t *testing.T) {
	scorer := &fakeScorer{score: 0.2}
	db := newTestDB(t)
	admission := NewAdmissionLogic(scorer, NewAuditLogic(db), config.RiskConfig{Threshold: 0.8, FallbackScore: 0.5})

	decision := admission.Evaluate(context.Background(), 1, "req-1", 100, 0, false, false)

	if !decision.Accepted {
		t.Fatal("expected decision to be accepted")
	}
	if decision.Score != 0.2 {
		t.Errorf("expected score 0.2, got %v", decision.Score)
	}
	if decision.FallbackUsed || decision.Overridden {
		t.Error("expected no fallback and no override")
	}
	if scorer.last.Amount != 100 || scorer.last.IsBlacklisted {
		t.Errorf("unexpected score request: %+v", scorer.last)
	}
}

func TestEvaluateHighScoreRejected(t *testing.T) {
	scorer := &fakeScorer{score: 0.95}
	db := newTestDB(t)
	admission := NewAdmissionLogic(scorer, NewAuditLogic(db), config.RiskConfig{Threshold: 0.8, FallbackScore: 0.5})

	decision := admission.Evaluate(context.Background(), 7, "req-2", 100, 3, false, false)

	if decision.Accepted {
		t.Fatal("expected decision to be rejected")
	}
	if decision.Score != 0.95 {
		t.Errorf("expected score 0.95, got %v", decision.Score)
	}
	if decision.Threshold != 0.8 {
		t.Errorf("expected threshold 0.8, got %v", decision.Threshold)
	}

	var logs []model.AuditLogModel
	if err := db.Where("action = ?", model.ActionRiskRejected).Find(&logs).Error; err != nil {
		t.Fatalf("failed to query audit logs: %v", err)
	}
	if len(logs) != 1 || logs[0].AccountId != 7 {
		t.Fatalf("expected one rejection audit record for account 7, got %+v", logs)
	}
}

func TestEvaluateOverrideForcesAccept(t *testing.T) {
	scorer := &fakeScorer{score: 0.95}
	db := newTestDB(t)
	admission := NewAdmissionLogic(scorer, NewAuditLogic(db), config.RiskConfig{Threshold: 0.8, FallbackScore: 0.5})

	decision := admission.Evaluate(context.Background(), 7, "req-3", 100, 3, false, true)

	if !decision.Accepted {
		t.Fatal("expected override to force acceptance")
	}
	if !decision.Overridden {
		t.Error("expected override to be recorded on decision")
	}
	if decision.Score != 0.95 {
		t.Errorf("expected score 0.95, got %v", decision.Score)
	}

	// 强制通过必须留审计痕迹，且带评分
	var logs []model.AuditLogModel
	if err := db.Where("action = ?", model.ActionRiskOverride).Find(&logs).Error; err != nil {
		t.Fatalf("failed to query audit logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected one override audit record, got %d", len(logs))
	}
	if !strings.Contains(logs[0].Details, "0.95") {
		t.Errorf("expected override details to contain score, got %q", logs[0].Details)
	}
}

func TestEvaluateOracleFailureUsesFallback(t *testing.T) {
	scorer := &fakeScorer{err: apperr.New(apperr.KindOracleUnavailable, "评分服务请求失败")}
	db := newTestDB(t)
	admission := NewAdmissionLogic(scorer, NewAuditLogic(db), config.RiskConfig{Threshold: 0.8, FallbackScore: 0.5})

	decision := admission.Evaluate(context.Background(), 1, "req-4", 100, 0, false, false)

	if !decision.Accepted {
		t.Fatal("expected fallback score 0.5 to pass threshold 0.8")
	}
	if !decision.FallbackUsed {
		t.Error("expected fallback usage to be recorded")
	}
	if decision.Score != 0.5 {
		t.Errorf("expected fallback score 0.5, got %v", decision.Score)
	}

	var count int64
	if err := db.Model(&model.AuditLogModel{}).Where("action = ?", model.ActionOracleFallback).Count(&count).Error; err != nil {
		t.Fatalf("failed to query audit logs: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one fallback audit record, got %d", count)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	scorer := &fakeScorer{score: 0.42}
	db := newTestDB(t)
	admission := NewAdmissionLogic(scorer, NewAuditLogic(db), config.RiskConfig{Threshold: 0.8, FallbackScore: 0.5})

	first := admission.Evaluate(context.Background(), 1, "req-5", 100, 2, false, false)
	second := admission.Evaluate(context.Background(), 1, "req-5", 100, 2, false, false)

	if *first != *second {
		t.Errorf("expected identical decisions, got %+v and %+v", first, second)
	}
}
