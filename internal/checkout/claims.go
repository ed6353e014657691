package checkout

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenInvalid = errors.New("session token invalid")

// tokenClaims 会话凭证声明
type tokenClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// UserIDFromToken 从会话凭证中取用户ID。客户端只读取自身持有的
// 凭证声明，签名校验是服务端的职责。
func UserIDFromToken(token string) (uint, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrTokenInvalid
	}
	claims := &tokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return 0, ErrTokenInvalid
	}
	if claims.UserID == 0 {
		return 0, ErrTokenInvalid
	}
	return claims.UserID, nil
}
