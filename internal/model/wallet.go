package model

import (
	"time"
)

// WalletModel 托管钱包，每个账户至多一个
// account_id 上的唯一索引保证并发创建时只有一条记录落库
type WalletModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccountId int64  `json:"account_id" gorm:"uniqueIndex;not null"`
	Address   string `json:"address" gorm:"not null"`
	KeyHandle string `json:"-" gorm:"not null"` // 密钥存储句柄，不含私钥本体
}

// TableName 自定义表名
func (WalletModel) TableName() string {
	return "wallet"
}
