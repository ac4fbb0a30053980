package model

import (
	"time"
)

// DeploymentRecordModel 合约部署审计记录
type DeploymentRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Kind            DeploymentKind `json:"kind" gorm:"not null"`
	AccountId       int64          `json:"account_id" gorm:"index"`
	CampaignId      int64          `json:"campaign_id"`
	ContractAddress string         `json:"contract_address" gorm:"not null"`
	TxHash          string         `json:"tx_hash" gorm:"not null"`
	GasUsed         int64          `json:"gas_used"`
}

// DeploymentKind 部署类型
type DeploymentKind string

const (
	DeploymentKindFactory  DeploymentKind = "factory"  // 账户工厂合约
	DeploymentKindCampaign DeploymentKind = "campaign" // 募捐合约
)

// TableName 自定义表名
func (DeploymentRecordModel) TableName() string {
	return "deployment_record"
}
