package handler

// RegisterRequest 注册请求
type RegisterRequest struct {
	TelegramId string `json:"telegram_id" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateWalletRequest 创建钱包请求
type CreateWalletRequest struct {
	TelegramId string `json:"telegram_id" binding:"required"`
	SeedPhrase string `json:"seed_phrase"` // 可选，提供时确定性派生密钥
}

// CreateCampaignRequest 创建募捐活动请求
type CreateCampaignRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateDonationRequest 创建捐赠请求
type CreateDonationRequest struct {
	TelegramId string `json:"telegram_id" binding:"required"`
	CampaignId int64  `json:"campaign_id" binding:"required"`
	AmountWei  int64  `json:"amount_wei" binding:"required"`
	Force      bool   `json:"force"` // 强制通过风控，会留审计记录
}
