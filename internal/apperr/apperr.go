package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind string

const (
	KindNotFound          Kind = "not_found"                 // 账户/募捐/交易不存在
	KindAlreadyExists     Kind = "already_exists"            // 钱包已创建
	KindValidation        Kind = "validation_error"          // 参数校验失败
	KindUnauthorized      Kind = "unauthorized"              // 认证失败
	KindRiskRejected      Kind = "risk_rejected"             // 风控评分超过阈值
	KindOracleUnavailable Kind = "oracle_unavailable"        // 评分服务不可用
	KindLedgerUnavailable Kind = "ledger_unavailable"        // 链节点不可用
	KindLedgerTxFailed    Kind = "ledger_transaction_failed" // 链上交易被拒绝
	KindConflict          Kind = "persistence_conflict"      // 唯一约束冲突
	KindInternal          Kind = "internal_error"
)

// Error 带类别和关联ID的业务错误
type Error struct {
	Kind      Kind
	Message   string
	RequestId string  // 关联ID：请求ID或交易哈希
	Score     float64 // 仅 risk_rejected
	Threshold float64 // 仅 risk_rejected
	Err       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.RequestId != "" {
		msg = fmt.Sprintf("%s (request_id=%s)", msg, e.RequestId)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建业务错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 包装底层错误
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// RiskRejected 创建风控拒绝错误，携带评分和阈值
func RiskRejected(score, threshold float64) *Error {
	return &Error{
		Kind:      KindRiskRejected,
		Message:   fmt.Sprintf("风控评分 %.2f 超过阈值 %.2f，交易被拒绝", score, threshold),
		Score:     score,
		Threshold: threshold,
	}
}

// WithRequest 附加关联ID
func (e *Error) WithRequest(id string) *Error {
	e.RequestId = id
	return e
}

// KindOf 提取错误类别，非业务错误返回 internal_error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
