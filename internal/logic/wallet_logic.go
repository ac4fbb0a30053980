package logic

import (
	"errors"
	"fmt"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/model"
	"gorm.io/gorm"
)

// WalletLogic 钱包创建业务逻辑
type WalletLogic struct {
	db     *gorm.DB
	ledger Ledger
	keys   *KeyStoreLogic
	audit  *AuditLogic
}

// NewWalletLogic 创建钱包业务逻辑
func NewWalletLogic(db *gorm.DB, ledger Ledger, keys *KeyStoreLogic, audit *AuditLogic) *WalletLogic {
	return &WalletLogic{db: db, ledger: ledger, keys: keys, audit: audit}
}

// CreateWallet 为账户创建托管钱包
// 每个账户至多一个钱包，由 wallet.account_id 的唯一索引保证原子性：
// 并发创建时只有一条插入成功，其余返回 AlreadyExists
func (w *WalletLogic) CreateWallet(telegramId string, seedPhrase string, requestId string) (*model.WalletModel, *model.AccountModel, error) {
	account, err := w.findAccount(telegramId)
	if err != nil {
		return nil, nil, err
	}

	// 快路径检查，真正的保证在唯一索引
	if account.WalletCreated {
		return nil, nil, apperr.New(apperr.KindAlreadyExists, "钱包已创建").WithRequest(requestId)
	}

	address, keyHex, err := w.ledger.CreateAccount(seedPhrase)
	if err != nil {
		return nil, nil, err
	}

	handle, err := w.keys.Put(keyHex)
	if err != nil {
		return nil, nil, err
	}

	wallet := model.WalletModel{
		AccountId: account.Id,
		Address:   address,
		KeyHandle: handle,
	}
	if err := w.db.Create(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, apperr.New(apperr.KindAlreadyExists, "钱包已创建").WithRequest(requestId)
		}
		return nil, nil, fmt.Errorf("创建钱包记录失败: %w", err)
	}

	updates := map[string]interface{}{
		"wallet_created": true,
		"wallet_address": address,
	}
	if err := w.db.Model(account).Updates(updates).Error; err != nil {
		return nil, nil, fmt.Errorf("更新账户钱包状态失败: %w", err)
	}

	w.audit.Record(model.ActionWalletCreated, account.Id,
		fmt.Sprintf("钱包地址 %s", address), requestId)

	return &wallet, account, nil
}

// GetWallet 查询账户钱包
func (w *WalletLogic) GetWallet(telegramId string) (*model.WalletModel, *model.AccountModel, error) {
	account, err := w.findAccount(telegramId)
	if err != nil {
		return nil, nil, err
	}

	var wallet model.WalletModel
	if err := w.db.Where("account_id = ?", account.Id).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.KindNotFound, "钱包不存在")
		}
		return nil, nil, fmt.Errorf("查询钱包失败: %w", err)
	}

	return &wallet, account, nil
}

// SignerKey 取出钱包签名私钥（仅供链上调用使用，不得写入日志）
func (w *WalletLogic) SignerKey(wallet *model.WalletModel) (string, error) {
	return w.keys.Get(wallet.KeyHandle)
}

// findAccount 按 telegram_id 查询账户
func (w *WalletLogic) findAccount(telegramId string) (*model.AccountModel, error) {
	var account model.AccountModel
	if err := w.db.Where("telegram_id = ?", telegramId).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "账户不存在")
		}
		return nil, fmt.Errorf("查询账户失败: %w", err)
	}
	return &account, nil
}
