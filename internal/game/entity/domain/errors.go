package domain

import "Civilization/modules/kit/errx"

// 错误族：命令被拒绝时按族映射到客户端错误码。
const (
	FamilyUnit     errx.Family = "UNIT"
	FamilyCity     errx.Family = "CITY"
	FamilyTile     errx.Family = "TILE"
	FamilyResearch errx.Family = "RESEARCH"
	FamilyBuilding errx.Family = "BUILDING"
	FamilyGame     errx.Family = "GAME"
)

// UnitError
var (
	ErrUnitNotFound       = FamilyUnit.Biz("NOT_FOUND", "单位不存在")
	ErrCannotMove         = FamilyUnit.Biz("CANNOT_MOVE", "单位无法移动")
	ErrOutOfMovementRange = FamilyUnit.Biz("OUT_OF_MOVEMENT_RANGE", "超出移动范围")
	ErrOutOfMapBounds     = FamilyUnit.Biz("OUT_OF_MAP_BOUNDS", "超出地图边界")
	ErrUnitTileOccupied   = FamilyUnit.Biz("TILE_OCCUPIED", "目标格已有己方单位")
	ErrInvalidUnitType    = FamilyUnit.Biz("INVALID_UNIT_TYPE", "单位类型不符")
	ErrUnitWrongPosition  = FamilyUnit.Biz("WRONG_POSITION", "单位不在指定位置")
	ErrInvalidAttack      = FamilyUnit.Biz("INVALID_ATTACK", "无效攻击")
	ErrOutOfAttackRange   = FamilyUnit.Biz("OUT_OF_ATTACK_RANGE", "超出攻击范围")
	ErrNoMovementPoints   = FamilyUnit.Biz("NO_MOVEMENT_POINTS", "没有剩余行动力")
	ErrMaxLevelReached    = FamilyUnit.Biz("MAX_LEVEL_REACHED", "已达最高等级")
	ErrNotEnoughExp       = FamilyUnit.Biz("NOT_ENOUGH_EXP", "经验不足")
	ErrUnitNotDamaged     = FamilyUnit.Biz("NOT_DAMAGED", "单位未受伤")
	ErrNotEnoughFood      = FamilyUnit.Biz("NOT_ENOUGH_RESOURCES", "城市粮食不足以治疗")
)

// CityError
var (
	ErrQueueFull               = FamilyCity.Biz("QUEUE_FULL", "生产队列已满")
	ErrBuildingAlreadyExists   = FamilyCity.Biz("BUILDING_ALREADY_EXISTS", "建筑已存在")
	ErrCityNotFound            = FamilyCity.Biz("NOT_FOUND", "城市不存在")
	ErrAlreadyQueued           = FamilyCity.Biz("ALREADY_QUEUED", "已在生产队列中")
	ErrInsufficientResources   = FamilyCity.Biz("INSUFFICIENT_RESOURCES", "资源不足")
	ErrInsufficientGold        = FamilyCity.Biz("INSUFFICIENT_GOLD", "金币不足")
	ErrInsufficientWood        = FamilyCity.Biz("INSUFFICIENT_WOOD", "木材不足")
	ErrInsufficientStone       = FamilyCity.Biz("INSUFFICIENT_STONE", "石料不足")
	ErrInvalidItem             = FamilyCity.Biz("INVALID_ITEM", "无效的生产项")
	ErrQueueItemNotFound       = FamilyCity.Biz("QUEUE_ITEM_NOT_FOUND", "生产队列中没有该项")
	ErrTechnologyNotResearched = FamilyCity.Biz("TECHNOLOGY_NOT_RESEARCHED", "科技未研究")
	ErrNoWall                  = FamilyCity.Biz("NO_WALL", "城市没有城墙")
	ErrNotDamagedWall          = FamilyCity.Biz("NOT_DAMAGED_WALL", "城墙未受损")
	ErrInsufficientPopulation  = FamilyCity.Biz("INSUFFICIENT_POPULATION_FOR_SETTLER", "人口不足以训练开拓者")
	ErrInsufficientMaintenance = FamilyCity.Biz("INSUFFICIENT_GOLD_FOR_MAINTENANCE", "金币为负，无法负担维护费")
)

// TileError
var (
	ErrNotUpgradeable    = FamilyTile.Biz("NOT_UPGRADEABLE", "该地形不可改良")
	ErrTileOccupied      = FamilyTile.Biz("OCCUPIED", "地块已有改良或城市")
	ErrTileNotControlled = FamilyTile.Biz("NOT_CONTROLLED", "地块不在城市控制范围内")
)

// ResearchError
var (
	ErrInvalidResearch          = FamilyResearch.Biz("INVALID", "无效科技")
	ErrAlreadyResearching       = FamilyResearch.Biz("ALREADY_RESEARCHING", "已有科技在研究中")
	ErrResearchAlreadyCompleted = FamilyResearch.Biz("ALREADY_COMPLETED", "科技已完成")
	ErrCannotResearch           = FamilyResearch.Biz("CANNOT_RESEARCH_YET", "前置科技未完成")
	ErrResearchNotComplete      = FamilyResearch.Biz("NOT_COMPLETE", "研究点数不足")
	ErrNoActiveResearch         = FamilyResearch.Biz("NO_ACTIVE_RESEARCH", "当前没有研究")
)

// BuildingError
var (
	ErrCityTileOccupied = FamilyBuilding.Biz("TILE_OCCUPIED", "该位置已有城市或地块改良")
)

// GameError
var (
	ErrInvalidTerrain         = FamilyGame.Biz("INVALID_TERRAIN", "地形数据不合法")
	ErrInvalidDifficulty      = FamilyGame.Biz("INVALID_DIFFICULTY", "难度不合法")
	ErrInvalidCommand         = FamilyGame.Biz("INVALID_COMMAND", "未知命令或参数错误")
	ErrGameNotReady           = FamilyGame.Biz("NOT_READY", "玩家或蛮族尚未初始化")
	ErrGameAlreadyInitialized = FamilyGame.Biz("ALREADY_INITIALIZED", "已经初始化过")
	ErrGameOver               = FamilyGame.Biz("OVER", "对局已结束")
	ErrGameClosed             = FamilyGame.Biz("CLOSED", "对局已关闭")
	ErrGameNotFound           = FamilyGame.Biz("NOT_FOUND", "对局不存在")
	ErrGameForbidden          = FamilyGame.Biz("FORBIDDEN", "无权操作该对局")
	ErrLimitReached           = FamilyGame.Biz("LIMIT_REACHED", "单位或城市数量已达上限")
)
