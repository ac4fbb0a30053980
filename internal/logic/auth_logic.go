package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/dgs/internal/apperr"
	"github.com/blues/dgs/internal/config"
	"github.com/blues/dgs/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthLogic 注册登录与令牌签发
type AuthLogic struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
}

// NewAuthLogic 创建认证业务逻辑
func NewAuthLogic(db *gorm.DB, cfg config.AuthConfig) *AuthLogic {
	ttl := time.Duration(cfg.TokenTtl) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthLogic{db: db, secret: []byte(cfg.JwtSecret), ttl: ttl}
}

// Register 注册账户
func (a *AuthLogic) Register(telegramId, username, password, role string) (*model.AccountModel, string, error) {
	if telegramId == "" || username == "" || password == "" {
		return nil, "", apperr.New(apperr.KindValidation, "telegram_id、用户名和密码不能为空")
	}
	if role == "" {
		role = "user"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("密码哈希失败: %w", err)
	}

	account := model.AccountModel{
		TelegramId:   telegramId,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := a.db.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperr.New(apperr.KindAlreadyExists, "该 Telegram ID 已注册")
		}
		return nil, "", fmt.Errorf("创建账户失败: %w", err)
	}

	token, err := a.issueToken(username)
	if err != nil {
		return nil, "", err
	}
	return &account, token, nil
}

// Login 登录
func (a *AuthLogic) Login(username, password string) (*model.AccountModel, string, error) {
	var account model.AccountModel
	if err := a.db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.New(apperr.KindUnauthorized, "用户名或密码错误")
		}
		return nil, "", fmt.Errorf("查询账户失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.New(apperr.KindUnauthorized, "用户名或密码错误")
	}

	token, err := a.issueToken(username)
	if err != nil {
		return nil, "", err
	}
	return &account, token, nil
}

// Authenticate 校验令牌并返回对应账户
func (a *AuthLogic) Authenticate(tokenString string) (*model.AccountModel, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.New(apperr.KindUnauthorized, "无效的令牌")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.New(apperr.KindUnauthorized, "无效的令牌")
	}
	username, _ := claims["sub"].(string)
	if username == "" {
		return nil, apperr.New(apperr.KindUnauthorized, "无效的令牌")
	}

	var account model.AccountModel
	if err := a.db.Where("username = ?", username).First(&account).Error; err != nil {
		return nil, apperr.New(apperr.KindUnauthorized, "账户不存在")
	}
	return &account, nil
}

// issueToken 签发 JWT
func (a *AuthLogic) issueToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(a.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("签发令牌失败: %w", err)
	}
	return signed, nil
}
