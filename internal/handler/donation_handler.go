package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/dgs/internal/logic"
	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	donationLogic *logic.DonationLogic
	txStatusLogic *logic.TxStatusLogic
}

func NewDonationHandler(donationLogic *logic.DonationLogic, txStatusLogic *logic.TxStatusLogic) *DonationHandler {
	return &DonationHandler{
		donationLogic: donationLogic,
		txStatusLogic: txStatusLogic,
	}
}

// CreateDonation 提交捐赠
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	donation, decision, err := h.donationLogic.CreateDonation(
		c.Request.Context(), req.TelegramId, req.CampaignId, req.AmountWei, req.Force, RequestId(c))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "捐赠已提交", gin.H{
		"tx_hash":    donation.TxHash,
		"status":     donation.Status,
		"amount_wei": donation.Amount,
		"risk_score": decision.Score,
	})
}

// GetAccountDonations 获取账户的捐赠记录
func (h *DonationHandler) GetAccountDonations(c *gin.Context) {
	telegramId := c.Param("telegram_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	donations, total, err := h.donationLogic.GetAccountDonations(telegramId, page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"donations": donations,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetTransactionStatus 查询交易状态
func (h *DonationHandler) GetTransactionStatus(c *gin.Context) {
	txHash := c.Param("tx_hash")

	status, err := h.txStatusLogic.GetStatus(c.Request.Context(), txHash)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"tx_hash":      txHash,
		"status":       status.Status,
		"block_number": status.BlockNumber,
		"gas_used":     status.GasUsed,
		"timestamp":    status.Timestamp,
	})
}
