package ethereum

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/config"
	"github.com/blues/dgs/internal/contract"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/tyler-smith/go-bip39"
)

// 交易状态
const (
	TxPending   = "pending"
	TxConfirmed = "confirmed"
	TxFailed    = "failed"
)

// 募捐合约ABI定义（简化版），未配置编译产物时使用
const defaultCampaignABI = `[
	{
		"inputs": [],
		"name": "donate",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "address", "name": "donor", "type": "address"},
			{"indexed": false, "internalType": "uint256", "name": "amount", "type": "uint256"},
			{"indexed": false, "internalType": "uint256", "name": "timestamp", "type": "uint256"}
		],
		"name": "Donated",
		"type": "event"
	}
]`

// Client 链客户端
type Client struct {
	client           *ethclient.Client
	chainId          *big.Int
	operatorKey      *ecdsa.PrivateKey
	factory          *contract.Artifact
	campaign         *contract.Artifact
	campaignABI      abi.ABI
	complianceOracle common.Address
	proofNft         common.Address
	defaultCampaign  common.Address
	confirmations    int
	timeout          time.Duration
}

// DeployResult 合约部署结果
type DeployResult struct {
	ContractAddress string `json:"contract_address"`
	TxHash          string `json:"tx_hash"`
	GasUsed         int64  `json:"gas_used"`
}

// TxStatus 交易状态查询结果
type TxStatus struct {
	Status      string    `json:"status"`
	BlockNumber int64     `json:"block_number,omitempty"`
	GasUsed     int64     `json:"gas_used,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
}

func Init(cfg config.ChainConfig) (*Client, error) {
	// 连接链节点
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	c := &Client{
		client:           client,
		chainId:          big.NewInt(cfg.ChainId),
		complianceOracle: common.HexToAddress(cfg.ComplianceOracle),
		proofNft:         common.HexToAddress(cfg.ProofNft),
		defaultCampaign:  common.HexToAddress(cfg.DefaultCampaign),
		confirmations:    cfg.Confirmations,
		timeout:          cfg.CallTimeout(),
	}
	if c.timeout <= 0 {
		c.timeout = 30 * time.Second
	}

	// 解析运营方私钥
	if cfg.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		c.operatorKey = key
	}

	// 加载合约编译产物
	if cfg.FactoryArtifact != "" {
		c.factory, err = contract.LoadArtifact("DonationFactory", cfg.FactoryArtifact)
		if err != nil {
			return nil, err
		}
	}
	if cfg.CampaignArtifact != "" {
		c.campaign, err = contract.LoadArtifact("Campaign", cfg.CampaignArtifact)
		if err != nil {
			return nil, err
		}
		c.campaignABI = c.campaign.ABI
	} else {
		c.campaignABI, err = abi.JSON(strings.NewReader(defaultCampaignABI))
		if err != nil {
			return nil, fmt.Errorf("failed to parse campaign ABI: %w", err)
		}
	}

	return c, nil
}

// CreateAccount 生成托管钱包密钥对
// 提供助记词时派生是确定性的，否则使用安全随机数
func (c *Client) CreateAccount(seedPhrase string) (string, string, error) {
	var key *ecdsa.PrivateKey
	var err error

	if seedPhrase != "" {
		if !bip39.IsMnemonicValid(seedPhrase) {
			return "", "", apperr.New(apperr.KindValidation, "无效的助记词")
		}
		seed := bip39.NewSeed(seedPhrase, "")
		key, err = crypto.ToECDSA(crypto.Keccak256(seed))
		if err != nil {
			return "", "", fmt.Errorf("failed to derive key from seed: %w", err)
		}
	} else {
		key, err = crypto.GenerateKey()
		if err != nil {
			return "", "", fmt.Errorf("failed to generate key: %w", err)
		}
	}

	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	return address, hex.EncodeToString(crypto.FromECDSA(key)), nil
}

// DeployFactory 部署账户工厂合约
func (c *Client) DeployFactory(ctx context.Context, signerKeyHex string) (*DeployResult, error) {
	if c.factory == nil || !c.factory.HasBytecode() {
		return nil, apperr.New(apperr.KindValidation, "未配置工厂合约编译产物")
	}
	return c.deploy(ctx, c.factory, signerKeyHex, common.Address{})
}

// DeployCampaign 部署募捐合约
func (c *Client) DeployCampaign(ctx context.Context, signerKeyHex string, owner string) (*DeployResult, error) {
	if c.campaign == nil || !c.campaign.HasBytecode() {
		return nil, apperr.New(apperr.KindValidation, "未配置募捐合约编译产物")
	}
	return c.deploy(ctx, c.campaign, signerKeyHex, common.HexToAddress(owner))
}

// deploy 部署合约并等待回执
func (c *Client) deploy(ctx context.Context, art *contract.Artifact, signerKeyHex string, owner common.Address) (*DeployResult, error) {
	auth, err := c.signer(signerKeyHex)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	auth.Context = callCtx

	addr, tx, _, err := bind.DeployContract(auth, art.ABI, art.Bytecode, c.client, c.constructorArgs(art, owner)...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.KindLedgerUnavailable, "链节点无响应", err)
		}
		return nil, apperr.Wrap(apperr.KindLedgerTxFailed, fmt.Sprintf("合约 %s 部署失败", art.Name), err)
	}

	receipt, err := bind.WaitMined(callCtx, c.client, tx)
	if err != nil {
		// 部署交易已发出但回执未知，只能由调用方决策
		return nil, apperr.Wrap(apperr.KindLedgerUnavailable, "等待部署回执超时", err).WithRequest(tx.Hash().Hex())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, apperr.New(apperr.KindLedgerTxFailed, fmt.Sprintf("合约 %s 部署交易被链上回滚", art.Name)).WithRequest(tx.Hash().Hex())
	}

	return &DeployResult{
		ContractAddress: addr.Hex(),
		TxHash:          tx.Hash().Hex(),
		GasUsed:         int64(receipt.GasUsed),
	}, nil
}

// constructorArgs 按构造函数入参个数组装参数
func (c *Client) constructorArgs(art *contract.Artifact, owner common.Address) []interface{} {
	switch len(art.ABI.Constructor.Inputs) {
	case 1:
		return []interface{}{owner}
	case 2:
		return []interface{}{c.complianceOracle, c.proofNft}
	case 3:
		return []interface{}{owner, c.complianceOracle, c.proofNft}
	default:
		return nil
	}
}

// SubmitTransfer 向募捐合约提交转账，不等待确认
func (c *Client) SubmitTransfer(ctx context.Context, contractAddress string, amountWei *big.Int, signerKeyHex string) (string, error) {
	auth, err := c.signer(signerKeyHex)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	auth.Context = callCtx
	auth.Value = amountWei

	bound := bind.NewBoundContract(common.HexToAddress(contractAddress), c.campaignABI, c.client, c.client, c.client)
	tx, err := bound.Transact(auth, "donate")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperr.Wrap(apperr.KindLedgerUnavailable, "链节点无响应", err)
		}
		return "", apperr.Wrap(apperr.KindLedgerTxFailed, "转账提交失败", err)
	}

	return tx.Hash().Hex(), nil
}

// GetTransactionStatus 查询交易状态
// 区分交易不存在、链节点不可用、已确认、失败
func (c *Client) GetTransactionStatus(ctx context.Context, txHash string) (*TxStatus, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	hash := common.HexToHash(txHash)
	receipt, err := c.client.TransactionReceipt(callCtx, hash)
	if err != nil {
		if !errors.Is(err, ethereum.NotFound) {
			return nil, apperr.Wrap(apperr.KindLedgerUnavailable, "查询交易回执失败", err).WithRequest(txHash)
		}
		// 无回执：可能还在交易池中
		_, pending, terr := c.client.TransactionByHash(callCtx, hash)
		if terr != nil {
			if errors.Is(terr, ethereum.NotFound) {
				return nil, apperr.New(apperr.KindNotFound, "交易不存在").WithRequest(txHash)
			}
			return nil, apperr.Wrap(apperr.KindLedgerUnavailable, "查询交易失败", terr).WithRequest(txHash)
		}
		_ = pending
		return &TxStatus{Status: TxPending}, nil
	}

	latest, err := c.client.HeaderByNumber(callCtx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindLedgerUnavailable, "查询最新区块失败", err).WithRequest(txHash)
	}

	status := &TxStatus{
		BlockNumber: receipt.BlockNumber.Int64(),
		GasUsed:     int64(receipt.GasUsed),
	}

	if header, herr := c.client.HeaderByNumber(callCtx, receipt.BlockNumber); herr == nil {
		status.Timestamp = time.Unix(int64(header.Time), 0).UTC()
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		status.Status = TxFailed
		return status, nil
	}

	confirmed := new(big.Int).Sub(latest.Number, receipt.BlockNumber).Int64() + 1
	if confirmed >= int64(c.confirmations) {
		status.Status = TxConfirmed
	} else {
		status.Status = TxPending
	}
	return status, nil
}

// GetBalance 查询地址余额
func (c *Client) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	balance, err := c.client.BalanceAt(callCtx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindLedgerUnavailable, "查询余额失败", err)
	}
	return balance, nil
}

// DefaultCampaignAddress 默认募捐合约地址
func (c *Client) DefaultCampaignAddress() string {
	return c.defaultCampaign.Hex()
}

// OperatorAddress 运营方地址
func (c *Client) OperatorAddress() string {
	if c.operatorKey == nil {
		return ""
	}
	return crypto.PubkeyToAddress(c.operatorKey.PublicKey).Hex()
}

// signer 构造交易签名器
func (c *Client) signer(privKeyHex string) (*bind.TransactOpts, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privKeyHex, "0x"))
	if err != nil {
		// 不输出密钥内容
		return nil, apperr.New(apperr.KindValidation, "签名私钥格式错误")
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, c.chainId)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	return auth, nil
}
