package logic

import (
	"context"
	"math/big"

	"github.com/blues/dgs/internal/ethereum"
	"github.com/blues/dgs/internal/risk"
)

// Ledger 链客户端接口，便于测试时替换
type Ledger interface {
	CreateAccount(seedPhrase string) (address string, privKeyHex string, err error)
	DeployFactory(ctx context.Context, signerKeyHex string) (*ethereum.DeployResult, error)
	DeployCampaign(ctx context.Context, signerKeyHex string, owner string) (*ethereum.DeployResult, error)
	SubmitTransfer(ctx context.Context, contractAddress string, amountWei *big.Int, signerKeyHex string) (string, error)
	GetTransactionStatus(ctx context.Context, txHash string) (*ethereum.TxStatus, error)
	GetBalance(ctx context.Context, address string) (*big.Int, error)
	DefaultCampaignAddress() string
}

// RiskScorer 风控评分接口
type RiskScorer interface {
	Score(ctx context.Context, req risk.ScoreRequest) (float64, error)
}
