package logic

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/blues/dgs/internal/ethereum"
	"github.com/blues/dgs/internal/model"
	"github.com/blues/dgs/internal/repository"
	"github.com/blues/dgs/internal/risk"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
		NamingStrategy: &schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestAccount(t *testing.T, db *gorm.DB, telegramId string) *model.AccountModel {
	t.Helper()

	account := &model.AccountModel{
		TelegramId: telegramId,
		Username:   "user_" + telegramId,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

func createTestCampaign(t *testing.T, db *gorm.DB, ownerId int64, contractAddress string) *model.CampaignModel {
	t.Helper()

	campaign := &model.CampaignModel{
		Title:           "测试活动",
		Description:     "测试描述",
		OwnerAccountId:  ownerId,
		ContractAddress: contractAddress,
		Status:          model.CampaignStatusActive,
	}
	if err := db.Create(campaign).Error; err != nil {
		t.Fatalf("failed to create test campaign: %v", err)
	}
	return campaign
}

// fakeLedger 链客户端替身
type fakeLedger struct {
	createAddress string
	createKey     string
	createErr     error
	createCalls   int

	deployFactoryResult *ethereum.DeployResult
	deployFactoryErr    error

	deployCampaignResult *ethereum.DeployResult
	deployCampaignErr    error
	deployCampaignOwner  string

	submitTxHash   string
	submitErr      error
	submitCalls    int
	submitAddress  string
	submitAmount   *big.Int
	submitKey      string
	defaultAddress string

	statusResult *ethereum.TxStatus
	statusErr    error
	statusCalls  int

	balance *big.Int
}

func (f *fakeLedger) CreateAccount(seedPhrase string) (string, string, error) {
	f.createCalls++
	if f.createErr != nil {
		return "", "", f.createErr
	}
	return f.createAddress, f.createKey, nil
}

func (f *fakeLedger) DeployFactory(ctx context.Context, signerKeyHex string) (*ethereum.DeployResult, error) {
	if f.deployFactoryErr != nil {
		return nil, f.deployFactoryErr
	}
	return f.deployFactoryResult, nil
}

func (f *fakeLedger) DeployCampaign(ctx context.Context, signerKeyHex string, owner string) (*ethereum.DeployResult, error) {
	f.deployCampaignOwner = owner
	if f.deployCampaignErr != nil {
		return nil, f.deployCampaignErr
	}
	return f.deployCampaignResult, nil
}

func (f *fakeLedger) SubmitTransfer(ctx context.Context, contractAddress string, amountWei *big.Int, signerKeyHex string) (string, error) {
	f.submitCalls++
	f.submitAddress = contractAddress
	f.submitAmount = amountWei
	f.submitKey = signerKeyHex
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.submitTxHash, nil
}

func (f *fakeLedger) GetTransactionStatus(ctx context.Context, txHash string) (*ethereum.TxStatus, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.statusResult, nil
}

func (f *fakeLedger) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeLedger) DefaultCampaignAddress() string {
	if f.defaultAddress == "" {
		return "0x0000000000000000000000000000000000000000"
	}
	return f.defaultAddress
}

// fakeScorer 风控评分替身
type fakeScorer struct {
	score float64
	err   error
	calls int
	last  risk.ScoreRequest
}

func (f *fakeScorer) Score(ctx context.Context, req risk.ScoreRequest) (float64, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return 0, f.err
	}
	return f.score, nil
}
