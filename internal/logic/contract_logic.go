package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/ethereum"
	"github.com/blues/dgs/internal/logger"
	"github.com/blues/dgs/internal/model"
	"gorm.io/gorm"
)

// ContractLogic 合约部署编排
// 链上部署消耗真实费用，任何失败都不自动重试，由调用方决定
type ContractLogic struct {
	db     *gorm.DB
	ledger Ledger
	keys   *KeyStoreLogic
	audit  *AuditLogic
}

// NewContractLogic 创建合约部署逻辑
func NewContractLogic(db *gorm.DB, ledger Ledger, keys *KeyStoreLogic, audit *AuditLogic) *ContractLogic {
	return &ContractLogic{db: db, ledger: ledger, keys: keys, audit: audit}
}

// DeployFactory 为账户部署工厂合约
func (c *ContractLogic) DeployFactory(ctx context.Context, account *model.AccountModel, wallet *model.WalletModel, requestId string) (*ethereum.DeployResult, error) {
	keyHex, err := c.keys.Get(wallet.KeyHandle)
	if err != nil {
		return nil, err
	}

	result, err := c.ledger.DeployFactory(ctx, keyHex)
	if err != nil {
		return nil, err
	}

	record := model.DeploymentRecordModel{
		Kind:            model.DeploymentKindFactory,
		AccountId:       account.Id,
		ContractAddress: result.ContractAddress,
		TxHash:          result.TxHash,
		GasUsed:         result.GasUsed,
	}
	if err := c.db.Create(&record).Error; err != nil {
		logger.Error("Failed to persist factory deployment record (tx=%s): %v", result.TxHash, err)
	}

	if err := c.db.Model(account).Update("factory_contract_address", result.ContractAddress).Error; err != nil {
		return nil, fmt.Errorf("更新工厂合约地址失败: %w", err)
	}

	c.audit.Record(model.ActionContractDeployed, account.Id,
		fmt.Sprintf("工厂合约 %s, gas %d", result.ContractAddress, result.GasUsed), result.TxHash)

	return result, nil
}

// CreateCampaignWithContract 创建募捐活动并部署专属合约
// 活动落库和合约部署是一个逻辑操作：部署失败时删除刚创建的活动记录
func (c *ContractLogic) CreateCampaignWithContract(ctx context.Context, telegramId, title, description, requestId string) (*model.CampaignModel, *ethereum.DeployResult, error) {
	if title == "" {
		return nil, nil, apperr.New(apperr.KindValidation, "活动标题不能为空")
	}

	var account model.AccountModel
	if err := c.db.Where("telegram_id = ?", telegramId).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.KindNotFound, "账户不存在")
		}
		return nil, nil, fmt.Errorf("查询账户失败: %w", err)
	}
	if !account.WalletCreated {
		return nil, nil, apperr.New(apperr.KindValidation, "请先创建钱包")
	}

	var wallet model.WalletModel
	if err := c.db.Where("account_id = ?", account.Id).First(&wallet).Error; err != nil {
		return nil, nil, apperr.New(apperr.KindNotFound, "钱包不存在")
	}
	keyHex, err := c.keys.Get(wallet.KeyHandle)
	if err != nil {
		return nil, nil, err
	}

	campaign := model.CampaignModel{
		Title:          title,
		Description:    description,
		OwnerAccountId: account.Id,
		Status:         model.CampaignStatusActive,
	}
	if err := c.db.Create(&campaign).Error; err != nil {
		return nil, nil, fmt.Errorf("创建募捐活动失败: %w", err)
	}

	result, err := c.ledger.DeployCampaign(ctx, keyHex, wallet.Address)
	if err != nil {
		// 补偿动作：合约没部署成功，活动记录不能留下
		if derr := c.db.Delete(&campaign).Error; derr != nil {
			logger.Error("Failed to roll back campaign %d after deploy failure: %v", campaign.Id, derr)
		}
		return nil, nil, err
	}

	updates := map[string]interface{}{
		"contract_address": result.ContractAddress,
		"transaction_hash": result.TxHash,
	}
	if err := c.db.Model(&campaign).Updates(updates).Error; err != nil {
		return nil, nil, fmt.Errorf("更新活动合约地址失败: %w", err)
	}
	campaign.ContractAddress = result.ContractAddress
	campaign.TransactionHash = result.TxHash

	if err := c.db.Model(&account).Update("campaign_contract_address", result.ContractAddress).Error; err != nil {
		logger.Error("Failed to update account campaign contract address: %v", err)
	}

	record := model.DeploymentRecordModel{
		Kind:            model.DeploymentKindCampaign,
		AccountId:       account.Id,
		CampaignId:      campaign.Id,
		ContractAddress: result.ContractAddress,
		TxHash:          result.TxHash,
		GasUsed:         result.GasUsed,
	}
	if err := c.db.Create(&record).Error; err != nil {
		logger.Error("Failed to persist campaign deployment record (tx=%s): %v", result.TxHash, err)
	}

	c.audit.Record(model.ActionContractDeployed, account.Id,
		fmt.Sprintf("募捐合约 %s (活动 %d), gas %d", result.ContractAddress, campaign.Id, result.GasUsed), result.TxHash)

	return &campaign, result, nil
}

// GetCampaigns 获取募捐活动列表
func (c *ContractLogic) GetCampaigns(page, pageSize int) ([]model.CampaignModel, int64, error) {
	var campaigns []model.CampaignModel
	var total int64

	if err := c.db.Model(&model.CampaignModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取活动总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := c.db.Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&campaigns).Error; err != nil {
		return nil, 0, fmt.Errorf("获取活动列表失败: %w", err)
	}

	return campaigns, total, nil
}

// GetCampaign 获取单个募捐活动
func (c *ContractLogic) GetCampaign(id int64) (*model.CampaignModel, error) {
	var campaign model.CampaignModel
	if err := c.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "募捐活动不存在")
		}
		return nil, fmt.Errorf("查询募捐活动失败: %w", err)
	}
	return &campaign, nil
}
