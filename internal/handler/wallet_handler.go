package handler

import (
	"net/http"

	"github.com/blues/dgs/internal/logger"
	"github.com/blues/dgs/internal/logic"
	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletLogic   *logic.WalletLogic
	contractLogic *logic.ContractLogic
	ledger        logic.Ledger
}

func NewWalletHandler(walletLogic *logic.WalletLogic, contractLogic *logic.ContractLogic, ledger logic.Ledger) *WalletHandler {
	return &WalletHandler{
		walletLogic:   walletLogic,
		contractLogic: contractLogic,
		ledger:        ledger,
	}
}

// CreateWallet 创建托管钱包
// 钱包创建成功后尝试部署工厂合约；部署失败不回滚钱包，
// 也不自动重试，失败信息一并返回给调用方
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestId := RequestId(c)

	wallet, account, err := h.walletLogic.CreateWallet(req.TelegramId, req.SeedPhrase, requestId)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	data := gin.H{
		"wallet_created": true,
		"wallet_address": wallet.Address,
	}

	factory, err := h.contractLogic.DeployFactory(c.Request.Context(), account, wallet, requestId)
	if err != nil {
		logger.Warn("Factory deployment failed for account %d (request_id=%s): %v", account.Id, requestId, err)
		data["factory_deploy_error"] = err.Error()
	} else {
		data["factory_contract_address"] = factory.ContractAddress
		data["transaction_hash"] = factory.TxHash
		data["gas_used"] = factory.GasUsed
	}

	SuccessResponse(c, http.StatusCreated, "钱包创建成功", data)
}

// GetWalletInfo 查询钱包信息
func (h *WalletHandler) GetWalletInfo(c *gin.Context) {
	telegramId := c.Param("telegram_id")

	wallet, account, err := h.walletLogic.GetWallet(telegramId)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"telegram_id":               account.TelegramId,
		"wallet_address":            wallet.Address,
		"factory_contract_address":  account.FactoryContractAddress,
		"campaign_contract_address": account.CampaignContractAddress,
		"wallet_created":            account.WalletCreated,
	})
}

// GetWalletBalance 查询钱包余额
func (h *WalletHandler) GetWalletBalance(c *gin.Context) {
	telegramId := c.Param("telegram_id")

	wallet, _, err := h.walletLogic.GetWallet(telegramId)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	balance, err := h.ledger.GetBalance(c.Request.Context(), wallet.Address)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"telegram_id":    telegramId,
		"wallet_address": wallet.Address,
		"balance_wei":    balance.String(),
	})
}

// GetContractBalance 查询合约余额
func (h *WalletHandler) GetContractBalance(c *gin.Context) {
	address := c.Param("address")

	balance, err := h.ledger.GetBalance(c.Request.Context(), address)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"contract_address": address,
		"balance_wei":      balance.String(),
	})
}
