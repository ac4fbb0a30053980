package handler

import (
	"errors"
	"net/http"

	"github.com/blues/dgs/internal/apperr"
	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	RequestId string      `json:"request_id,omitempty"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestId: RequestId(c),
	})
}

// ErrorResponse 错误响应，按错误类别映射HTTP状态码
func ErrorResponse(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		c.JSON(http.StatusInternalServerError, Response{
			Success:   false,
			Message:   err.Error(),
			RequestId: RequestId(c),
		})
		return
	}

	var data interface{}
	if ae.Kind == apperr.KindRiskRejected {
		data = gin.H{
			"risk_score": ae.Score,
			"threshold":  ae.Threshold,
		}
	}

	c.JSON(statusCodeFor(ae.Kind), Response{
		Success:   false,
		Message:   ae.Message,
		Data:      data,
		RequestId: RequestId(c),
	})
}

// statusCodeFor 错误类别到HTTP状态码
func statusCodeFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindRiskRejected:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAlreadyExists, apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindLedgerTxFailed:
		return http.StatusBadGateway
	case apperr.KindLedgerUnavailable, apperr.KindOracleUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RequestId 取出请求关联ID
func RequestId(c *gin.Context) string {
	return c.GetString("request_id")
}
