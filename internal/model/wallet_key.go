package model

import (
	"time"
)

// WalletKeyModel 密钥存储记录，通过句柄引用
// 私钥本体只写入本表，任何日志和响应中不得出现
type WalletKeyModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Handle   string `json:"handle" gorm:"uniqueIndex;not null"`
	Material string `json:"-" gorm:"not null"`
}

// TableName 自定义表名
func (WalletKeyModel) TableName() string {
	return "wallet_key"
}
