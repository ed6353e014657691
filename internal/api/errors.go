package api

import (
	"errors"
	"fmt"

	"github.com/storefront-next/internal/models"
)

var (
	ErrConfigInvalid   = errors.New("backend config invalid")
	ErrRequestFailed   = errors.New("backend request failed")
	ErrResponseInvalid = errors.New("backend response invalid")
	ErrUnauthorized    = errors.New("backend unauthorized")
	ErrRejected        = errors.New("backend rejected request")
)

// AmountTooSmallError 支付金额低于渠道下限。携带具体数字供界面展示。
type AmountTooSmallError struct {
	Minimum models.Money
	Current models.Money
}

func (e *AmountTooSmallError) Error() string {
	return fmt.Sprintf("amount %s below payment minimum %s", e.Current.String(), e.Minimum.String())
}

func (e *AmountTooSmallError) Unwrap() error {
	return ErrRejected
}
