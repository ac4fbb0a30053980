package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/ethereum"
	"github.com/blues/dgs/internal/logger"
	"github.com/blues/dgs/internal/model"
	"gorm.io/gorm"
)

// TxStatusLogic 交易状态跟踪
// 对链的纯查询，同一哈希在链状态不变时返回相同结果
type TxStatusLogic struct {
	db     *gorm.DB
	ledger Ledger
}

// NewTxStatusLogic 创建交易状态跟踪逻辑
func NewTxStatusLogic(db *gorm.DB, ledger Ledger) *TxStatusLogic {
	return &TxStatusLogic{db: db, ledger: ledger}
}

// GetStatus 查询交易状态
func (t *TxStatusLogic) GetStatus(ctx context.Context, txHash string) (*ethereum.TxStatus, error) {
	if !validTxHash(txHash) {
		return nil, apperr.New(apperr.KindValidation, "交易哈希格式错误")
	}
	return t.ledger.GetTransactionStatus(ctx, txHash)
}

// PendingDonations 查询所有待确认的捐赠
func (t *TxStatusLogic) PendingDonations() ([]model.DonationModel, error) {
	var donations []model.DonationModel
	if err := t.db.Where("status = ?", model.DonationStatusPending).Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("查询待确认捐赠失败: %w", err)
	}
	return donations, nil
}

// RefreshDonation 刷新单笔捐赠的链上状态
// maxPendingAge 之内查不到的交易保持 pending，超过后按失败处理
func (t *TxStatusLogic) RefreshDonation(ctx context.Context, donation *model.DonationModel, maxPendingAge time.Duration) (bool, error) {
	status, err := t.ledger.GetTransactionStatus(ctx, donation.TxHash)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// 交易从链上消失：超时视为失败，否则继续等待
			if maxPendingAge > 0 && time.Since(donation.CreatedAt) > maxPendingAge {
				logger.Warn("Donation %d pending beyond %s without on-chain trace, marking failed (tx=%s)",
					donation.Id, maxPendingAge, donation.TxHash)
				return true, t.markStatus(donation, model.DonationStatusFailed, 0, 0)
			}
			return false, nil
		}
		return false, err
	}

	switch status.Status {
	case ethereum.TxConfirmed:
		return true, t.markStatus(donation, model.DonationStatusConfirmed, status.BlockNumber, status.GasUsed)
	case ethereum.TxFailed:
		return true, t.markStatus(donation, model.DonationStatusFailed, status.BlockNumber, status.GasUsed)
	default:
		return false, nil
	}
}

// markStatus 更新捐赠状态
func (t *TxStatusLogic) markStatus(donation *model.DonationModel, status model.DonationStatus, blockNum, gasUsed int64) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if blockNum > 0 {
		updates["block_num"] = blockNum
	}
	if gasUsed > 0 {
		updates["gas_used"] = gasUsed
	}
	if err := t.db.Model(donation).Updates(updates).Error; err != nil {
		return fmt.Errorf("更新捐赠 %d 状态失败: %w", donation.Id, err)
	}
	donation.Status = status
	return nil
}

// validTxHash 校验交易哈希格式
func validTxHash(hash string) bool {
	h := strings.TrimPrefix(hash, "0x")
	if len(h) != 64 {
		return false
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
