package logic

import (
	"context"
	"testing"
	"time"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/ethereum"
	"github.com/blues/dgs/internal/model"
	"gorm.io/gorm"
)

func seedPendingDonation(t *testing.T, db *gorm.DB, createdAt time.Time) *model.DonationModel {
	t.Helper()

	account := createTestAccount(t, db, "tg-status")
	campaign := createTestCampaign(t, db, account.Id, "0xcafe000000000000000000000000000000000000")
	donation := &model.DonationModel{
		AccountId:  account.Id,
		CampaignId: campaign.Id,
		Amount:     1000,
		TxHash:     "0x" + repeat("ee", 32),
		Status:     model.DonationStatusPending,
	}
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to seed donation: %v", err)
	}
	if !createdAt.IsZero() {
		if err := db.Model(donation).Update("created_at", createdAt).Error; err != nil {
			t.Fatalf("failed to backdate donation: %v", err)
		}
		donation.CreatedAt = createdAt
	}
	return donation
}

func TestGetStatusRejectsMalformedHash(t *testing.T) {
	db := newTestDB(t)
	ledger := &fakeLedger{}
	txLogic := NewTxStatusLogic(db, ledger)

	for _, hash := range []string{"", "0x1234", "not-a-hash", "0x" + repeat("zz", 32)} {
		_, err := txLogic.GetStatus(context.Background(), hash)
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("expected ValidationError for %q, got %v", hash, err)
		}
	}
	if ledger.statusCalls != 0 {
		t.Errorf("expected no ledger calls for malformed hashes, got %d", ledger.statusCalls)
	}
}

func TestGetStatusIdempotent(t *testing.T) {
	db := newTestDB(t)
	ledger := &fakeLedger{
		statusResult: &ethereum.TxStatus{
			Status:      ethereum.TxConfirmed,
			BlockNumber: 120,
			GasUsed:     21000,
		},
	}
	txLogic := NewTxStatusLogic(db, ledger)
	txHash := "0x" + repeat("ee", 32)

	first, err := txLogic.GetStatus(context.Background(), txHash)
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	second, err := txLogic.GetStatus(context.Background(), txHash)
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if *first != *second {
		t.Errorf("expected identical status, got %+v and %+v", first, second)
	}
}

func TestRefreshDonationConfirmed(t *testing.T) {
	db := newTestDB(t)
	ledger := &fakeLedger{
		statusResult: &ethereum.TxStatus{
			Status:      ethereum.TxConfirmed,
			BlockNumber: 120,
			GasUsed:     21000,
		},
	}
	txLogic := NewTxStatusLogic(db, ledger)
	donation := seedPendingDonation(t, db, time.Time{})

	changed, err := txLogic.RefreshDonation(context.Background(), donation, time.Hour)
	if err != nil {
		t.Fatalf("RefreshDonation failed: %v", err)
	}
	if !changed {
		t.Fatal("expected status change")
	}

	var reloaded model.DonationModel
	if err := db.First(&reloaded, donation.Id).Error; err != nil {
		t.Fatalf("failed to reload donation: %v", err)
	}
	if reloaded.Status != model.DonationStatusConfirmed {
		t.Errorf("expected confirmed, got %s", reloaded.Status)
	}
	if reloaded.BlockNum != 120 || reloaded.GasUsed != 21000 {
		t.Errorf("expected block/gas recorded, got %+v", reloaded)
	}
}

func TestRefreshDonationFailedReceipt(t *testing.T) {
	db := newTestDB(t)
	ledger := &fakeLedger{
		statusResult: &ethereum.TxStatus{
			Status:      ethereum.TxFailed,
			BlockNumber: 121,
			GasUsed:     21000,
		},
	}
	txLogic := NewTxStatusLogic(db, ledger)
	donation := seedPendingDonation(t, db, time.Time{})

	changed, err := txLogic.RefreshDonation(context.Background(), donation, time.Hour)
	if err != nil {
		t.Fatalf("RefreshDonation failed: %v", err)
	}
	if !changed {
		t.Fatal("expected status change")
	}

	var reloaded model.DonationModel
	if err := db.First(&reloaded, donation.Id).Error; err != nil {
		t.Fatalf("failed to reload donation: %v", err)
	}
	if reloaded.Status != model.DonationStatusFailed {
		t.Errorf("expected failed, got %s", reloaded.Status)
	}
}

func TestRefreshDonationMissingYoungStaysPending(t *testing.T) {
	db := newTestDB(t)
	ledger := &fakeLedger{statusErr: apperr.New(apperr.KindNotFound, "交易不存在")}
	txLogic := NewTxStatusLogic(db, ledger)
	donation := seedPendingDonation(t, db, time.Now())

	changed, err := txLogic.RefreshDonation(context.Background(), donation, time.Hour)
	if err != nil {
		t.Fatalf("RefreshDonation failed: %v", err)
	}
	if changed {
		t.Fatal("expected donation to stay pending while within the timeout window")
	}

	var reloaded model.DonationModel
	if err := db.First(&reloaded, donation.Id).Error; err != nil {
		t.Fatalf("failed to reload donation: %v", err)
	}
	if reloaded.Status != model.DonationStatusPending {
		t.Errorf("expected pending, got %s", reloaded.Status)
	}
}

func TestRefreshDonationMissingExpiredMarksFailed(t *testing.T) {
	db := newTestDB(t)
	ledger := &fakeLedger{statusErr: apperr.New(apperr.KindNotFound, "交易不存在")}
	txLogic := NewTxStatusLogic(db, ledger)
	donation := seedPendingDonation(t, db, time.Now().Add(-2*time.Hour))

	changed, err := txLogic.RefreshDonation(context.Background(), donation, time.Hour)
	if err != nil {
		t.Fatalf("RefreshDonation failed: %v", err)
	}
	if !changed {
		t.Fatal("expected expired donation to be marked failed")
	}

	var reloaded model.DonationModel
	if err := db.First(&reloaded, donation.Id).Error; err != nil {
		t.Fatalf("failed to reload donation: %v", err)
	}
	if reloaded.Status != model.DonationStatusFailed {
		t.Errorf("expected failed, got %s", reloaded.Status)
	}
}

func TestRefreshDonationLedgerUnavailableKeepsPending(t *testing.T) {
	db := newTestDB(t)
	ledger := &fakeLedger{statusErr: apperr.New(apperr.KindLedgerUnavailable, "链上节点不可达")}
	txLogic := NewTxStatusLogic(db, ledger)
	donation := seedPendingDonation(t, db, time.Now().Add(-2*time.Hour))

	changed, err := txLogic.RefreshDonation(context.Background(), donation, time.Hour)
	if !apperr.IsKind(err, apperr.KindLedgerUnavailable) {
		t.Fatalf("expected LedgerUnavailable, got %v", err)
	}
	if changed {
		t.Fatal("expected no status change when the node is unreachable")
	}

	// 节点故障不能把捐赠误判为失败
	var reloaded model.DonationModel
	if err := db.First(&reloaded, donation.Id).Error; err != nil {
		t.Fatalf("failed to reload donation: %v", err)
	}
	if reloaded.Status != model.DonationStatusPending {
		t.Errorf("expected pending, got %s", reloaded.Status)
	}
}

func TestPendingDonations(t *testing.T) {
	db := newTestDB(t)
	txLogic := NewTxStatusLogic(db, &fakeLedger{})
	donation := seedPendingDonation(t, db, time.Time{})

	if err := db.Create(&model.DonationModel{
		AccountId:  donation.AccountId,
		CampaignId: donation.CampaignId,
		Amount:     500,
		TxHash:     "0x" + repeat("ff", 32),
		Status:     model.DonationStatusConfirmed,
	}).Error; err != nil {
		t.Fatalf("failed to seed confirmed donation: %v", err)
	}

	pending, err := txLogic.PendingDonations()
	if err != nil {
		t.Fatalf("PendingDonations failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Id != donation.Id {
		t.Errorf("expected only the pending donation, got %+v", pending)
	}
}
