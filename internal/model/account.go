package model

import (
	"time"
)

// AccountModel 账户模型
type AccountModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	TelegramId   string `json:"telegram_id" gorm:"uniqueIndex;not null" binding:"required"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role" gorm:"default:'user'"` // user/admin
	Blacklisted  bool   `json:"blacklisted" gorm:"default:false"`

	// 钱包信息
	WalletCreated bool   `json:"wallet_created" gorm:"default:false"`
	WalletAddress string `json:"wallet_address"`

	// 合约信息
	FactoryContractAddress  string `json:"factory_contract_address"`
	CampaignContractAddress string `json:"campaign_contract_address"`
}

// TableName 自定义表名
func (AccountModel) TableName() string {
	return "account"
}
