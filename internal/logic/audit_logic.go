package logic

import (
	"github.com/blues/dgs/internal/logger"
	"github.com/blues/dgs/internal/model"
	"gorm.io/gorm"
)

// AuditLogic 审计日志业务逻辑
type AuditLogic struct {
	db *gorm.DB
}

// NewAuditLogic 创建审计日志业务逻辑
func NewAuditLogic(db *gorm.DB) *AuditLogic {
	return &AuditLogic{db: db}
}

// Record 写入审计记录，失败只记日志不影响主流程
func (a *AuditLogic) Record(action string, accountId int64, details string, requestId string) {
	entry := model.AuditLogModel{
		Action:    action,
		AccountId: accountId,
		Details:   details,
		RequestId: requestId,
	}
	if err := a.db.Create(&entry).Error; err != nil {
		logger.Error("Failed to write audit log (action=%s, request_id=%s): %v", action, requestId, err)
	}
}

// ListByAccount 查询账户的审计记录
func (a *AuditLogic) ListByAccount(accountId int64, page, pageSize int) ([]model.AuditLogModel, int64, error) {
	var logs []model.AuditLogModel
	var total int64

	if err := a.db.Model(&model.AuditLogModel{}).Where("account_id = ?", accountId).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := a.db.Where("account_id = ?", accountId).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
