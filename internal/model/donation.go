package model

import (
	"time"
)

// DonationModel 捐赠记录
// 仅在链上提交成功后创建，tx_hash 全局唯一
type DonationModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccountId  int64   `json:"account_id" gorm:"not null;index"`
	CampaignId int64   `json:"campaign_id" gorm:"not null;index"`
	Amount     int64   `json:"amount" gorm:"not null"` // wei
	RiskScore  float64 `json:"risk_score"`             // 决策时的风控评分
	TxHash     string  `json:"tx_hash" gorm:"uniqueIndex;not null"`
	BlockNum   int64   `json:"block_num"`
	GasUsed    int64   `json:"gas_used"`

	// 状态
	Status DonationStatus `json:"status" gorm:"default:'pending'"`
}

// DonationStatus 捐赠状态
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"   // 已提交待确认
	DonationStatusConfirmed DonationStatus = "confirmed" // 已确认
	DonationStatusFailed    DonationStatus = "failed"    // 失败
)

// TableName 自定义表名
func (DonationModel) TableName() string {
	return "donation"
}
