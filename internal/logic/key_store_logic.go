package logic

import (
	"errors"
	"fmt"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KeyStoreLogic 托管密钥存储
// 对外只暴露句柄，私钥本体不出本层
type KeyStoreLogic struct {
	db *gorm.DB
}

// NewKeyStoreLogic 创建密钥存储
func NewKeyStoreLogic(db *gorm.DB) *KeyStoreLogic {
	return &KeyStoreLogic{db: db}
}

// Put 存入密钥，返回句柄
func (k *KeyStoreLogic) Put(keyMaterial string) (string, error) {
	handle := uuid.NewString()
	record := model.WalletKeyModel{
		Handle:   handle,
		Material: keyMaterial,
	}
	if err := k.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store key material: %w", err)
	}
	return handle, nil
}

// Get 按句柄取出密钥
func (k *KeyStoreLogic) Get(handle string) (string, error) {
	var record model.WalletKeyModel
	if err := k.db.Where("handle = ?", handle).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.New(apperr.KindNotFound, "密钥句柄不存在")
		}
		return "", fmt.Errorf("failed to load key material: %w", err)
	}
	return record.Material, nil
}
