package model

import (
	"time"
)

// CampaignModel 募捐活动模型
type CampaignModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`

	// 创建者信息
	OwnerAccountId int64 `json:"owner_account_id"`

	// 区块链信息
	ContractAddress string `json:"contract_address"`
	TransactionHash string `json:"transaction_hash"`

	// 状态
	Status CampaignStatus `json:"status" gorm:"default:'active'"`
}

// CampaignStatus 募捐活动状态
type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"    // 进行中
	CampaignStatusCancelled CampaignStatus = "cancelled" // 已取消
)

// TableName 自定义表名
func (CampaignModel) TableName() string {
	return "campaign"
}
