package router

import (
	"strings"

	"github.com/blues/dgs/internal/config"
	"github.com/blues/dgs/internal/ethereum"
	"github.com/blues/dgs/internal/handler"
	"github.com/blues/dgs/internal/logic"
	"github.com/blues/dgs/internal/risk"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, ethClient *ethereum.Client, riskClient *risk.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(requestIdMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "donation-gateway-service",
		})
	})

	// 业务逻辑
	audit := logic.NewAuditLogic(db)
	keys := logic.NewKeyStoreLogic(db)
	authLogic := logic.NewAuthLogic(db, cfg.Auth)
	admission := logic.NewAdmissionLogic(riskClient, audit, cfg.Risk)
	walletLogic := logic.NewWalletLogic(db, ethClient, keys, audit)
	contractLogic := logic.NewContractLogic(db, ethClient, keys, audit)
	donationLogic := logic.NewDonationLogic(db, ethClient, admission, keys)
	txStatusLogic := logic.NewTxStatusLogic(db, ethClient)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		authHandler := handler.NewAuthHandler(authLogic)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		walletHandler := handler.NewWalletHandler(walletLogic, contractLogic, ethClient)
		wallets := v1.Group("/wallets")
		{
			wallets.POST("", walletHandler.CreateWallet)
			wallets.GET("/:telegram_id", walletHandler.GetWalletInfo)
			wallets.GET("/:telegram_id/balance", walletHandler.GetWalletBalance)
		}

		campaignHandler := handler.NewCampaignHandler(contractLogic)
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", authMiddleware(authLogic), campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
		}

		donationHandler := handler.NewDonationHandler(donationLogic, txStatusLogic)
		donations := v1.Group("/donations")
		{
			donations.POST("", donationHandler.CreateDonation)
			donations.GET("/:telegram_id", donationHandler.GetAccountDonations)
		}

		v1.GET("/transactions/:tx_hash", donationHandler.GetTransactionStatus)
		v1.GET("/contracts/:address/balance", walletHandler.GetContractBalance)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// 请求关联ID中间件，错误和审计日志通过它串联
func requestIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader("X-Request-Id")
		if requestId == "" {
			requestId = uuid.NewString()
		}
		c.Set("request_id", requestId)
		c.Header("X-Request-Id", requestId)
		c.Next()
	}
}

// JWT认证中间件
func authMiddleware(authLogic *logic.AuthLogic) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "缺少认证令牌"})
			return
		}

		account, err := authLogic.Authenticate(token)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "无效的令牌"})
			return
		}

		c.Set("account", account)
		c.Next()
	}
}
