package domain

const (
	MapBound = 20
	MapCells = MapBound * MapBound

	MaxProductionQueue = 5
	MaxUnits           = 20
	MaxCities          = 20

	// 木/石/铁/马 的基础仓储上限，每座兵营 +StoragePerBarracks
	StorageCapacity    = 500
	StoragePerBarracks = 10

	MaxHealth       = 100
	UnitHealthRegen = 5
	CityHealthRegen = 5
	LevelUpHeal     = 30
	LevelUpAttack   = 2

	MaxLevel = 3
	BaseExp  = 3

	BaseHousing         = 4
	UrbanizationHousing = 2

	FactionCityHealth = 1000
	FactionCityName   = "Barbarian Village"

	// 新城控制 5x5 方块
	CityRadius = 2
	// 开局已探索的左上角区域
	InitialDiscovered = 8
	// 初始单位周围的视野（切比雪夫半径）
	StartSight = 2
)

// ExpThresholds[level] 是从 level 升到 level+1 所需经验。
var ExpThresholds = [MaxLevel]int{10, 30, 45}

// ExpCap 返回当前等级下经验值的上限。
func ExpCap(level int) int {
	if level >= MaxLevel {
		return ExpThresholds[MaxLevel-1]
	}
	return ExpThresholds[level]
}

type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
)

var (
	gemsPerKill          = [...]int{1, 1, 2}
	gemsPerCityDestroyed = [...]int{25, 50, 100}
	spawnInterval        = [...]int{20, 15, 10}
)

func (d Difficulty) Valid() bool { return d >= DifficultyEasy && d <= DifficultyHard }

func (d Difficulty) GemsPerKill() int          { return gemsPerKill[d.clamp()] }
func (d Difficulty) GemsPerCityDestroyed() int { return gemsPerCityDestroyed[d.clamp()] }

// SpawnInterval 是蛮族城市刷兵的回合间隔。
func (d Difficulty) SpawnInterval() int { return spawnInterval[d.clamp()] }

func (d Difficulty) clamp() int {
	if !d.Valid() {
		return int(DifficultyNormal)
	}
	return int(d)
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	default:
		return "normal"
	}
}
