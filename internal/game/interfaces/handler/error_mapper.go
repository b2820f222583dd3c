package handler

import (
	"context"
	"errors"

	"Civilization/internal/game/entity/domain"
	"Civilization/internal/shared/transport"
	"Civilization/modules/kit/errx"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// 业务拒绝码按错误族分段：UNIT 11xx, CITY 12xx, TILE 13xx, RESEARCH 14xx, BUILDING 15xx, GAME 16xx。
// 已发布的码不能改，新增只能往后追加。
var bizCodes = map[errx.Code]int{
	domain.ErrUnitNotFound.Code():       1101,
	domain.ErrCannotMove.Code():         1102,
	domain.ErrOutOfMovementRange.Code(): 1103,
	domain.ErrOutOfMapBounds.Code():     1104,
	domain.ErrUnitTileOccupied.Code():   1105,
	domain.ErrInvalidUnitType.Code():    1106,
	domain.ErrUnitWrongPosition.Code():  1107,
	domain.ErrInvalidAttack.Code():      1108,
	domain.ErrOutOfAttackRange.Code():   1109,
	domain.ErrNoMovementPoints.Code():   1110,
	domain.ErrMaxLevelReached.Code():    1111,
	domain.ErrNotEnoughExp.Code():       1112,
	domain.ErrUnitNotDamaged.Code():     1113,
	domain.ErrNotEnoughFood.Code():      1114,

	domain.ErrQueueFull.Code():               1201,
	domain.ErrBuildingAlreadyExists.Code():   1202,
	domain.ErrCityNotFound.Code():            1203,
	domain.ErrAlreadyQueued.Code():           1204,
	domain.ErrInsufficientResources.Code():   1205,
	domain.ErrInsufficientGold.Code():        1206,
	domain.ErrInsufficientWood.Code():        1207,
	domain.ErrInsufficientStone.Code():       1208,
	domain.ErrInvalidItem.Code():             1209,
	domain.ErrQueueItemNotFound.Code():       1210,
	domain.ErrTechnologyNotResearched.Code(): 1211,
	domain.ErrNoWall.Code():                  1212,
	domain.ErrNotDamagedWall.Code():          1213,
	domain.ErrInsufficientPopulation.Code():  1214,
	domain.ErrInsufficientMaintenance.Code(): 1215,

	domain.ErrNotUpgradeable.Code():    1301,
	domain.ErrTileOccupied.Code():      1302,
	domain.ErrTileNotControlled.Code(): 1303,

	domain.ErrInvalidResearch.Code():          1401,
	domain.ErrAlreadyResearching.Code():       1402,
	domain.ErrResearchAlreadyCompleted.Code(): 1403,
	domain.ErrCannotResearch.Code():           1404,
	domain.ErrResearchNotComplete.Code():      1405,
	domain.ErrNoActiveResearch.Code():         1406,

	domain.ErrCityTileOccupied.Code(): 1501,

	domain.ErrInvalidTerrain.Code():         1601,
	domain.ErrInvalidDifficulty.Code():      1602,
	domain.ErrInvalidCommand.Code():         1603,
	domain.ErrGameNotReady.Code():           1604,
	domain.ErrGameAlreadyInitialized.Code(): 1605,
	domain.ErrGameOver.Code():               1606,
	domain.ErrGameClosed.Code():             1607,
	domain.ErrLimitReached.Code():           1608,
	domain.ErrGameNotFound.Code():           transport.NotFound,
	domain.ErrGameForbidden.Code():          transport.Forbidden,
}

var familyCodes = map[errx.Family]int{
	domain.FamilyUnit:     1100,
	domain.FamilyCity:     1200,
	domain.FamilyTile:     1300,
	domain.FamilyResearch: 1400,
	domain.FamilyBuilding: 1500,
	domain.FamilyGame:     1600,
}

// BizCode 业务拒绝的客户端码；表里没有的按错误族兜底。
func BizCode(err error) int {
	if err == nil {
		return transport.OK
	}
	if c, ok := bizCodes[errx.CodeOf(err)]; ok {
		return c
	}
	if c, ok := familyCodes[errx.FamilyOf(err)]; ok {
		return c
	}
	return transport.InvalidParam
}

func bizMsg(err error) string {
	var e *errx.Error
	if errors.As(err, &e) && e.Msg() != "" {
		return e.Msg()
	}
	return "请求被拒绝"
}

// HandleError 返回 (客户端码, 提示语)。系统错误不把内部原因透给客户端。
func HandleError(ctx context.Context, err error) (int, string) {
	if err == nil {
		return transport.OK, ""
	}
	transport.SetErrorReason(ctx, string(errx.CodeOf(err)))

	if errx.IsBiz(err) {
		return BizCode(err), bizMsg(err)
	}
	code := transport.SysCode(err)
	if code == transport.InvalidParam || code == transport.Unauthorized || code == transport.RateLimited {
		var e *errx.Error
		if errors.As(err, &e) {
			return code, e.Msg()
		}
	}
	return code, "系统繁忙，请稍后重试"
}

// ToRPCError gRPC 出口的错误映射。
func ToRPCError(err error) error {
	if err == nil {
		return nil
	}
	if errx.IsBiz(err) {
		switch {
		case errors.Is(err, domain.ErrGameNotFound),
			errors.Is(err, domain.ErrUnitNotFound),
			errors.Is(err, domain.ErrCityNotFound),
			errors.Is(err, domain.ErrQueueItemNotFound):
			return status.Error(codes.NotFound, err.Error())
		case errors.Is(err, domain.ErrGameForbidden):
			return status.Error(codes.PermissionDenied, err.Error())
		case errors.Is(err, domain.ErrInvalidCommand),
			errors.Is(err, domain.ErrInvalidTerrain),
			errors.Is(err, domain.ErrInvalidDifficulty):
			return status.Error(codes.InvalidArgument, err.Error())
		default:
			return status.Error(codes.FailedPrecondition, err.Error())
		}
	}

	switch {
	case errors.Is(err, errx.ErrInvalidParam):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errx.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, errx.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, errx.ErrTimeout):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, errx.ErrUnavailable), errors.Is(err, errx.ErrShuttingDown):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
