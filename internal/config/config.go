package config

import (
	"time"

	"github.com/blues/dgs/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Risk     RiskConfig     `mapstructure:"risk"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 链配置
type ChainConfig struct {
	ChainId          int64  `mapstructure:"chain_id"`          // 链ID
	RpcUrl           string `mapstructure:"rpc_url"`           // RPC节点URL
	PrivateKey       string `mapstructure:"private_key"`       // 运营方私钥
	FactoryArtifact  string `mapstructure:"factory_artifact"`  // 工厂合约编译产物路径
	CampaignArtifact string `mapstructure:"campaign_artifact"` // 募捐合约编译产物路径
	ComplianceOracle string `mapstructure:"compliance_oracle"` // 合规预言机合约地址
	ProofNft         string `mapstructure:"proof_nft"`         // 捐赠凭证NFT合约地址
	DefaultCampaign  string `mapstructure:"default_campaign"`  // 默认募捐合约地址
	Confirmations    int    `mapstructure:"confirmations"`     // 确认区块数
	Timeout          int    `mapstructure:"timeout"`           // 链上调用超时（秒）
	PendingTimeout   int    `mapstructure:"pending_timeout"`   // pending 交易超时（秒）
}

// RiskConfig 风控评分服务配置
type RiskConfig struct {
	Url           string  `mapstructure:"url"`            // 评分服务地址
	Timeout       int     `mapstructure:"timeout"`        // 请求超时（秒）
	Threshold     float64 `mapstructure:"threshold"`      // 拒绝阈值
	FallbackScore float64 `mapstructure:"fallback_score"` // 评分服务不可用时的降级评分
}

// AuthConfig 认证配置
type AuthConfig struct {
	JwtSecret string `mapstructure:"jwt_secret"`
	TokenTtl  int    `mapstructure:"token_ttl"` // 分钟
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"`  // 秒
	PoolSize int `mapstructure:"pool_size"` // 状态刷新协程池大小
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.Config 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.Config 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.Config 接口
func (l LogConfig) GetFile() string {
	return l.File
}

// RiskTimeout 评分服务超时
func (r RiskConfig) RiskTimeout() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}

// CallTimeout 链上调用超时
func (c ChainConfig) CallTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// PendingMaxAge pending 交易最大等待时长
func (c ChainConfig) PendingMaxAge() time.Duration {
	return time.Duration(c.PendingTimeout) * time.Second
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/dgs")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "donation")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.chain_id", 1)
	viper.SetDefault("chain.rpc_url", "http://127.0.0.1:8545")
	viper.SetDefault("chain.confirmations", 12)
	viper.SetDefault("chain.timeout", 30)
	viper.SetDefault("chain.pending_timeout", 3600)
	viper.SetDefault("chain.default_campaign", "0x0000000000000000000000000000000000000000")
	viper.SetDefault("risk.url", "http://localhost:5001/score")
	viper.SetDefault("risk.timeout", 5)
	viper.SetDefault("risk.threshold", 0.8)
	viper.SetDefault("risk.fallback_score", 0.5)
	viper.SetDefault("auth.token_ttl", 60)
	viper.SetDefault("task.interval", 60)
	viper.SetDefault("task.pool_size", 8)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
