package emitx

import (
	"errors"
	"fmt"
	"strings"
)

// 基础错误定义
var (
	ErrNilCallback    = errors.New("callback must not be nil")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidBroker  = errors.New("invalid broker address")
	ErrInvalidTopic   = errors.New("invalid topic")
	ErrInvalidChannel = errors.New("invalid channel")
	ErrAlreadyRunning = errors.New("already running")
	ErrNotConnected   = errors.New("not connected")
	ErrTimeout        = errors.New("operation timeout")
)

// wrapError 用指定的格式封装错误
func wrapError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// ValidationErrors 配置验证错误集合
type ValidationErrors struct {
	Errors []error `json:"errors"`
}

func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "no validation errors"
	}
	if len(ve.Errors) == 1 {
		return fmt.Sprintf("validation error: %v", ve.Errors[0])
	}

	var messages []string
	for i, err := range ve.Errors {
		messages = append(messages, fmt.Sprintf("%d. %v", i+1, err))
	}
	return fmt.Sprintf("validation errors:\n%s", strings.Join(messages, "\n"))
}

// Is 支持errors.Is对集合中任意错误的匹配
func (ve *ValidationErrors) Is(target error) bool {
	for _, err := range ve.Errors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (ve *ValidationErrors) Add(err error) {
	if err != nil {
		ve.Errors = append(ve.Errors, err)
	}
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// NewValidationErrors 创建验证错误集合
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]error, 0),
	}
}
