package entity

import "Civilization/internal/game/entity/domain"

// 宿主层常用的对局级错误，与 domain 中的定义是同一个值。
var (
	ErrGameNotFound  = domain.ErrGameNotFound
	ErrGameForbidden = domain.ErrGameForbidden
	ErrGameClosed    = domain.ErrGameClosed
)
