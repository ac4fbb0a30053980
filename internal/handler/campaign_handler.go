package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/dgs/internal/logic"
	"github.com/blues/dgs/internal/model"
	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	contractLogic *logic.ContractLogic
}

func NewCampaignHandler(contractLogic *logic.ContractLogic) *CampaignHandler {
	return &CampaignHandler{contractLogic: contractLogic}
}

// CreateCampaign 创建募捐活动并部署专属合约
// 需要认证，活动归属当前登录账户
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := c.MustGet("account").(*model.AccountModel)

	campaign, result, err := h.contractLogic.CreateCampaignWithContract(
		c.Request.Context(), account.TelegramId, req.Title, req.Description, RequestId(c))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "募捐活动创建成功", gin.H{
		"id":               campaign.Id,
		"title":            campaign.Title,
		"contract_address": result.ContractAddress,
		"transaction_hash": result.TxHash,
		"gas_used":         result.GasUsed,
	})
}

// GetCampaigns 获取募捐活动列表
func (h *CampaignHandler) GetCampaigns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	campaigns, total, err := h.contractLogic.GetCampaigns(page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"campaigns": campaigns,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetCampaign 获取单个募捐活动
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的活动ID"})
		return
	}

	campaign, err := h.contractLogic.GetCampaign(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"campaign": campaign})
}
