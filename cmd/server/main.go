package main

import (
	"github.com/blues/dgs/internal/config"
	"github.com/blues/dgs/internal/ethereum"
	"github.com/blues/dgs/internal/logger"
	"github.com/blues/dgs/internal/repository"
	"github.com/blues/dgs/internal/risk"
	"github.com/blues/dgs/internal/router"
	"github.com/blues/dgs/internal/task"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 加载 .env（不存在时忽略）
	_ = godotenv.Load()

	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := logger.Init(cfg.Log); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化链客户端
	ethClient, err := ethereum.Init(cfg.Chain)
	if err != nil {
		logger.Fatal("Failed to initialize ethereum client: %v", err)
	}

	// 初始化风控评分客户端
	riskClient := risk.NewClient(cfg.Risk)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, ethClient, riskClient, cfg)

	// 启动定时任务
	manager := task.Start(db, ethClient, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
