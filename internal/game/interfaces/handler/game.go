package handler

import (
	"strings"

	"Civilization/internal/game/service"
	"Civilization/internal/shared/security"
	"Civilization/internal/shared/session"
	"Civilization/modules/kit/errx"
	"Civilization/modules/kit/logx"
)

// Game 各协议 handler 共用的依赖。
type Game struct {
	Service *service.GameService
	Session session.Manager
	Log     logx.Logger
}

func NewGame(svc *service.GameService, s session.Manager, log logx.Logger) *Game {
	if log == nil {
		log = logx.Nop()
	}
	return &Game{Service: svc, Session: s, Log: log}
}

// Authenticate 空 token 视为匿名（uid 为空串，只能操作匿名对局）；token 非法返回 ErrUnauthorized。
func Authenticate(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil
	}
	claims, err := security.ParseToken(token)
	if err != nil {
		return "", errx.ErrUnauthorized.WithCause(err)
	}
	return claims.Uid, nil
}

// BearerToken 从 Authorization 头取 token，不是 Bearer 格式时返回空串。
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
