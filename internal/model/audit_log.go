package model

import (
	"time"
)

// AuditLogModel 审计日志
type AuditLogModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Action    string `json:"action" gorm:"not null;index"`
	AccountId int64  `json:"account_id" gorm:"index"`
	Details   string `json:"details" gorm:"type:text"`
	RequestId string `json:"request_id"`
}

// 审计动作
const (
	ActionRiskRejected     = "risk_rejected"     // 风控拒绝
	ActionRiskOverride     = "risk_override"     // 强制通过风控
	ActionOracleFallback   = "oracle_fallback"   // 评分服务降级
	ActionWalletCreated    = "wallet_created"    // 钱包创建
	ActionContractDeployed = "contract_deployed" // 合约部署
)

// TableName 自定义表名
func (AuditLogModel) TableName() string {
	return "audit_log"
}
