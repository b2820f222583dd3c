package engine

import (
	"math"

	"Civilization/internal/game/entity/domain"
)

const (
	unitDamageBase  = 30.0
	cityDamageBase  = 15.0
	damageScale     = 25.0
	healthPenalty   = 10.0
	maxDamage       = 255
	multiplierBase  = 0.9
	multiplierDelta = 0.0223
)

// CombatReport 一次单位对战的结果。
type CombatReport struct {
	Factor         int  `json:"factor"`
	GivenDamage    int  `json:"given_damage"`
	TakenDamage    int  `json:"taken_damage"`
	AttackerHealth int  `json:"attacker_health"`
	DefenderHealth int  `json:"defender_health"`
	AttackerAlive  bool `json:"attacker_alive"`
	DefenderAlive  bool `json:"defender_alive"`
	BehindWall     bool `json:"behind_wall,omitempty"`
}

// CityAttackReport 攻城结果。
type CityAttackReport struct {
	Factor         int  `json:"factor"`
	GivenDamage    int  `json:"given_damage"`
	WallDamage     int  `json:"wall_damage"`
	TakenDamage    int  `json:"taken_damage"`
	CityHealth     int  `json:"city_health"`
	WallHealth     int  `json:"wall_health"`
	AttackerHealth int  `json:"attacker_health"`
	AttackerAlive  bool `json:"attacker_alive"`
	CityDestroyed  bool `json:"city_destroyed"`
}

func multiplier(factor int) float64 {
	return multiplierBase + multiplierDelta*float64(factor)
}

func clampDamage(raw float64) int {
	if math.IsNaN(raw) || raw <= 0 {
		return 0
	}
	if raw >= maxDamage {
		return maxDamage
	}
	return int(raw)
}

// UnitDamage 返回 (造成伤害, 承受伤害)，已截断到 [0,255]。
func UnitDamage(atkA, healthA, atkD, healthD, factor int, behindWall bool) (given, taken int) {
	m := multiplier(factor)
	givenRaw := unitDamageBase*math.Exp(float64(atkA-atkD)/damageScale)*m -
		healthPenalty*float64(domain.MaxHealth-healthA)/domain.MaxHealth
	if behindWall {
		givenRaw /= 2
	}
	takenRaw := unitDamageBase*math.Exp(float64(atkD-atkA)/damageScale)/m -
		healthPenalty*float64(domain.MaxHealth-healthD)/domain.MaxHealth
	return clampDamage(givenRaw), clampDamage(takenRaw)
}

// CityDamage 攻城伤害，基数减半，不计血量惩罚。
func CityDamage(atk, defense, factor int) (given, taken int) {
	m := multiplier(factor)
	given = clampDamage(cityDamageBase * math.Exp(float64(atk-defense)/damageScale) * m)
	taken = clampDamage(cityDamageBase * math.Exp(float64(defense-atk)/damageScale) / m)
	return given, taken
}

func checkAttacker(a *domain.Unit) error {
	if a == nil || !a.Alive || !a.Type.IsCombat() {
		return domain.ErrInvalidAttack
	}
	return nil
}

// ResolveUnitCombat 单位对战。非战斗单位被直接消灭；双方同归于尽时伤害高者以 1 血存活（平局攻方胜）。
func ResolveUnitCombat(attacker, defender *domain.Unit, behindWall bool, ent Entropy) (CombatReport, error) {
	if err := checkAttacker(attacker); err != nil {
		return CombatReport{}, err
	}
	if defender == nil || !defender.Alive {
		return CombatReport{}, domain.ErrInvalidAttack
	}

	if !defender.Type.IsCombat() {
		defender.Health = 0
		defender.Alive = false
		attacker.Movement = 0
		return CombatReport{
			AttackerHealth: attacker.Health,
			AttackerAlive:  true,
			DefenderAlive:  false,
		}, nil
	}

	factor := ent.Factor()
	given, taken := UnitDamage(attacker.Attack, attacker.Health, defender.Attack, defender.Health, factor, behindWall)

	defenderDies := defender.Health <= given
	attackerDies := attacker.Health <= taken

	switch {
	case defenderDies && attackerDies:
		if given >= taken {
			attacker.Health = 1
			defender.TakeDamage(defender.Health)
			attacker.GainExp(true)
		} else {
			defender.Health = 1
			attacker.TakeDamage(attacker.Health)
			defender.GainExp(true)
		}
	default:
		defender.TakeDamage(given)
		attacker.TakeDamage(taken)
		attacker.GainExp(!defender.Alive)
		defender.GainExp(!attacker.Alive)
	}
	attacker.Movement = 0

	return CombatReport{
		Factor:         factor,
		GivenDamage:    given,
		TakenDamage:    taken,
		AttackerHealth: attacker.Health,
		DefenderHealth: defender.Health,
		AttackerAlive:  attacker.Alive,
		DefenderAlive:  defender.Alive,
		BehindWall:     behindWall,
	}, nil
}

// ResolveCityAttack 城防只在城墙存在时生效；有城墙时伤害减半先打墙。
func ResolveCityAttack(attacker *domain.Unit, city *domain.City, ent Entropy) (CityAttackReport, error) {
	if err := checkAttacker(attacker); err != nil {
		return CityAttackReport{}, err
	}
	if city == nil || !city.Alive() {
		return CityAttackReport{}, domain.ErrInvalidAttack
	}

	defense := 0
	if city.HasWall() {
		defense = city.Defense
	}
	factor := ent.Factor()
	given, taken := CityDamage(attacker.Attack, defense, factor)

	wallDamage := 0
	if city.HasWall() {
		wallDamage = given / 2
		city.TakeWallDamage(wallDamage)
	} else {
		city.TakeWallDamage(given)
	}
	attacker.TakeDamage(taken)
	attacker.Movement = 0

	return CityAttackReport{
		Factor:         factor,
		GivenDamage:    given,
		WallDamage:     wallDamage,
		TakenDamage:    taken,
		CityHealth:     city.Health,
		WallHealth:     city.WallHealth,
		AttackerHealth: attacker.Health,
		AttackerAlive:  attacker.Alive,
		CityDestroyed:  !city.Alive(),
	}, nil
}
