package logic

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/logger"
	"github.com/blues/dgs/internal/model"
	"gorm.io/gorm"
)

// DonationLogic 捐赠流水线
// 状态机: Requested → RiskEvaluated → {Rejected | Submitted} → Pending → {Confirmed | Failed}
type DonationLogic struct {
	db        *gorm.DB
	ledger    Ledger
	admission *AdmissionLogic
	keys      *KeyStoreLogic
}

// NewDonationLogic 创建捐赠流水线
func NewDonationLogic(db *gorm.DB, ledger Ledger, admission *AdmissionLogic, keys *KeyStoreLogic) *DonationLogic {
	return &DonationLogic{db: db, ledger: ledger, admission: admission, keys: keys}
}

// CreateDonation 提交一笔捐赠
// 捐赠记录只在链上提交成功、拿到交易哈希之后落库；
// 风控拒绝和提交失败都不会留下捐赠记录
func (d *DonationLogic) CreateDonation(ctx context.Context, telegramId string, campaignId int64, amountWei int64, force bool, requestId string) (*model.DonationModel, *Decision, error) {
	// Requested: 先做本地校验，失败时不触发任何外部调用
	if amountWei <= 0 {
		return nil, nil, apperr.New(apperr.KindValidation, "捐赠金额必须大于0").WithRequest(requestId)
	}

	var account model.AccountModel
	if err := d.db.Where("telegram_id = ?", telegramId).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.KindNotFound, "账户不存在").WithRequest(requestId)
		}
		return nil, nil, fmt.Errorf("查询账户失败: %w", err)
	}

	var campaign model.CampaignModel
	if err := d.db.First(&campaign, campaignId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.KindNotFound, "募捐活动不存在").WithRequest(requestId)
		}
		return nil, nil, fmt.Errorf("查询募捐活动失败: %w", err)
	}

	var wallet model.WalletModel
	if err := d.db.Where("account_id = ?", account.Id).First(&wallet).Error; err != nil {
		return nil, nil, apperr.New(apperr.KindValidation, "请先创建钱包").WithRequest(requestId)
	}

	var txCount int64
	if err := d.db.Model(&model.DonationModel{}).Where("account_id = ?", account.Id).Count(&txCount).Error; err != nil {
		return nil, nil, fmt.Errorf("查询历史捐赠数失败: %w", err)
	}

	// RiskEvaluated
	decision := d.admission.Evaluate(ctx, account.Id, requestId, amountWei, txCount, account.Blacklisted, force)
	if !decision.Accepted {
		// 拒绝不落库，只留审计日志
		err := apperr.RiskRejected(decision.Score, decision.Threshold).WithRequest(requestId)
		return nil, decision, err
	}

	// Submitted
	contractAddress := campaign.ContractAddress
	if contractAddress == "" {
		contractAddress = d.ledger.DefaultCampaignAddress()
	}

	keyHex, err := d.keys.Get(wallet.KeyHandle)
	if err != nil {
		return nil, decision, err
	}

	txHash, err := d.ledger.SubmitTransfer(ctx, contractAddress, big.NewInt(amountWei), keyHex)
	if err != nil {
		// 提交失败不落库，避免出现引用不存在交易的孤儿记录
		return nil, decision, err
	}

	// Pending: 拿到交易哈希后才创建捐赠记录
	donation := model.DonationModel{
		AccountId:  account.Id,
		CampaignId: campaign.Id,
		Amount:     amountWei,
		RiskScore:  decision.Score,
		TxHash:     txHash,
		Status:     model.DonationStatusPending,
	}
	if err := d.db.Create(&donation).Error; err != nil {
		// 交易已上链但记录未落库，带上哈希供人工对账
		logger.Error("Donation submitted but persist failed (tx=%s): %v", txHash, err)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, decision, apperr.New(apperr.KindConflict, "交易哈希已存在").WithRequest(txHash)
		}
		return nil, decision, apperr.Wrap(apperr.KindInternal, "捐赠记录保存失败", err).WithRequest(txHash)
	}

	return &donation, decision, nil
}

// GetAccountDonations 获取账户的捐赠记录
func (d *DonationLogic) GetAccountDonations(telegramId string, page, pageSize int) ([]model.DonationModel, int64, error) {
	var account model.AccountModel
	if err := d.db.Where("telegram_id = ?", telegramId).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperr.New(apperr.KindNotFound, "账户不存在")
		}
		return nil, 0, fmt.Errorf("查询账户失败: %w", err)
	}

	var donations []model.DonationModel
	var total int64

	if err := d.db.Model(&model.DonationModel{}).Where("account_id = ?", account.Id).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取捐赠总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := d.db.Where("account_id = ?", account.Id).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&donations).Error; err != nil {
		return nil, 0, fmt.Errorf("获取捐赠记录失败: %w", err)
	}

	return donations, total, nil
}
