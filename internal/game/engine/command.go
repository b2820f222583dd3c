package engine

import (
	"encoding/json"
	"sort"

	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
)

// Command 可以作用在一局游戏上的命令。apply 只在引擎内部实现。
type Command interface {
	Name() string
	apply(s *entity.GameState, ent Entropy) (any, error)
}

// Result 命令成功后的回执。
type Result struct {
	Command string `json:"command"`
	Turn    int    `json:"turn"`
	Status  string `json:"status"`
	Outcome any    `json:"outcome,omitempty"`
}

// Execute 在状态副本上执行命令：成功返回新状态，失败时原状态原样返回。
func Execute(s *entity.GameState, cmd Command, ent Entropy) (*entity.GameState, Result, error) {
	if cmd == nil {
		return s, Result{}, domain.ErrInvalidCommand
	}
	if err := guard(s, cmd); err != nil {
		return s, Result{}, err
	}
	next := s.Clone()
	out, err := cmd.apply(next, ent)
	if err != nil {
		return s, Result{}, err
	}
	return next, Result{
		Command: cmd.Name(),
		Turn:    next.Turn,
		Status:  next.Status.String(),
		Outcome: out,
	}, nil
}

func guard(s *entity.GameState, cmd Command) error {
	if s.Closed {
		return domain.ErrGameClosed
	}
	switch cmd.Name() {
	case InitializePlayerCmd{}.Name(), InitializeFactionCmd{}.Name(), CloseGameCmd{}.Name():
		return nil
	case EndTurnCmd{}.Name():
		// 已结束的对局 endTurn 是空操作，不报错
		if !s.Ready() {
			return domain.ErrGameNotReady
		}
		return nil
	}
	if !s.Ready() {
		return domain.ErrGameNotReady
	}
	if s.Status.Terminal() {
		return domain.ErrGameOver.WithData("status", s.Status.String())
	}
	return nil
}

type InitializePlayerCmd struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (InitializePlayerCmd) Name() string { return "initializePlayer" }
func (c InitializePlayerCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	return nil, InitializePlayer(s, domain.C(c.X, c.Y))
}

type InitializeFactionCmd struct {
	Pos1 domain.Coord `json:"pos1"`
	Pos2 domain.Coord `json:"pos2"`
}

func (InitializeFactionCmd) Name() string { return "initializeFaction" }
func (c InitializeFactionCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	return nil, InitializeFaction(s, c.Pos1, c.Pos2)
}

type MoveUnitCmd struct {
	UnitID int `json:"unit_id"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

func (MoveUnitCmd) Name() string { return "moveUnit" }
func (c MoveUnitCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	if err := MoveUnit(s, c.UnitID, domain.C(c.X, c.Y)); err != nil {
		return nil, err
	}
	u, _ := s.Player.Unit(c.UnitID)
	return *u, nil
}

type UpgradeUnitCmd struct {
	UnitID int `json:"unit_id"`
}

func (UpgradeUnitCmd) Name() string { return "upgradeUnit" }
func (c UpgradeUnitCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	if err := UpgradeUnit(s, c.UnitID); err != nil {
		return nil, err
	}
	u, _ := s.Player.Unit(c.UnitID)
	return *u, nil
}

type FoundCityCmd struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	UnitID   int    `json:"unit_id"`
	CityName string `json:"name"`
}

func (FoundCityCmd) Name() string { return "foundCity" }
func (c FoundCityCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	id, err := FoundCity(s, domain.C(c.X, c.Y), c.UnitID, c.CityName)
	if err != nil {
		return nil, err
	}
	city, _ := s.Player.City(id)
	return city.Clone(), nil
}

type UpgradeTileCmd struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	UnitID int `json:"unit_id"`
}

func (UpgradeTileCmd) Name() string { return "upgradeTile" }
func (c UpgradeTileCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	imp, err := UpgradeTile(s, domain.C(c.X, c.Y), c.UnitID)
	if err != nil {
		return nil, err
	}
	return domain.Tile{Pos: domain.C(c.X, c.Y), Improvement: imp}, nil
}

type AddToProductionQueueCmd struct {
	CityID int                   `json:"city_id"`
	Item   domain.ProductionItem `json:"item"`
}

func (AddToProductionQueueCmd) Name() string { return "addToProductionQueue" }
func (c AddToProductionQueueCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	if err := AddToProductionQueue(s, c.CityID, c.Item); err != nil {
		return nil, err
	}
	city, _ := s.Player.City(c.CityID)
	return city.Queue, nil
}

type RemoveFromProductionQueueCmd struct {
	CityID int `json:"city_id"`
	Index  int `json:"index"`
}

func (RemoveFromProductionQueueCmd) Name() string { return "removeFromProductionQueue" }
func (c RemoveFromProductionQueueCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	if err := RemoveFromProductionQueue(s, c.CityID, c.Index); err != nil {
		return nil, err
	}
	city, _ := s.Player.City(c.CityID)
	return city.Queue, nil
}

type PurchaseWithGoldCmd struct {
	CityID int                   `json:"city_id"`
	Item   domain.ProductionItem `json:"item"`
}

func (PurchaseWithGoldCmd) Name() string { return "purchaseWithGold" }
func (c PurchaseWithGoldCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	u, err := PurchaseWithGold(s, c.CityID, c.Item)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return *u, nil
	}
	city, _ := s.Player.City(c.CityID)
	return city.Clone(), nil
}

type StartResearchCmd struct {
	Tech domain.Technology `json:"tech"`
}

func (StartResearchCmd) Name() string { return "startResearch" }
func (c StartResearchCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	if err := StartResearch(s, c.Tech); err != nil {
		return nil, err
	}
	return s.Player.Research, nil
}

type AttackUnitCmd struct {
	AttackerID int `json:"attacker_id"`
	DefenderID int `json:"defender_id"`
}

func (AttackUnitCmd) Name() string { return "attackUnit" }
func (c AttackUnitCmd) apply(s *entity.GameState, ent Entropy) (any, error) {
	return AttackUnit(s, c.AttackerID, c.DefenderID, ent)
}

type AttackCityCmd struct {
	AttackerID int `json:"attacker_id"`
	CityID     int `json:"city_id"`
}

func (AttackCityCmd) Name() string { return "attackCity" }
func (c AttackCityCmd) apply(s *entity.GameState, ent Entropy) (any, error) {
	return AttackCity(s, c.AttackerID, c.CityID, ent)
}

type RepairWallCmd struct {
	CityID int `json:"city_id"`
}

func (RepairWallCmd) Name() string { return "repairWall" }
func (c RepairWallCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	cost, err := RepairWall(s, c.CityID)
	if err != nil {
		return nil, err
	}
	return map[string]int{"wood": cost, "stone": cost}, nil
}

type HealUnitCmd struct {
	UnitID int `json:"unit_id"`
}

func (HealUnitCmd) Name() string { return "healUnit" }
func (c HealUnitCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	cost, err := HealUnit(s, c.UnitID)
	if err != nil {
		return nil, err
	}
	return map[string]int{"food": cost}, nil
}

type EndTurnCmd struct{}

func (EndTurnCmd) Name() string { return "endTurn" }
func (EndTurnCmd) apply(s *entity.GameState, ent Entropy) (any, error) {
	return EndTurn(s, ent), nil
}

type CloseGameCmd struct{}

func (CloseGameCmd) Name() string { return "closeGame" }
func (CloseGameCmd) apply(s *entity.GameState, _ Entropy) (any, error) {
	CloseGame(s)
	return nil, nil
}

var commandFactories = map[string]func() Command{
	"initializePlayer":          func() Command { return &InitializePlayerCmd{} },
	"initializeFaction":         func() Command { return &InitializeFactionCmd{} },
	"moveUnit":                  func() Command { return &MoveUnitCmd{} },
	"upgradeUnit":               func() Command { return &UpgradeUnitCmd{} },
	"foundCity":                 func() Command { return &FoundCityCmd{} },
	"upgradeTile":               func() Command { return &UpgradeTileCmd{} },
	"addToProductionQueue":      func() Command { return &AddToProductionQueueCmd{} },
	"removeFromProductionQueue": func() Command { return &RemoveFromProductionQueueCmd{} },
	"purchaseWithGold":          func() Command { return &PurchaseWithGoldCmd{} },
	"startResearch":             func() Command { return &StartResearchCmd{} },
	"attackUnit":                func() Command { return &AttackUnitCmd{} },
	"attackCity":                func() Command { return &AttackCityCmd{} },
	"repairWall":                func() Command { return &RepairWallCmd{} },
	"healUnit":                  func() Command { return &HealUnitCmd{} },
	"endTurn":                   func() Command { return &EndTurnCmd{} },
	"closeGame":                 func() Command { return &CloseGameCmd{} },
}

// DecodeCommand 按命令名和 JSON 参数构造命令。
func DecodeCommand(name string, args []byte) (Command, error) {
	factory, ok := commandFactories[name]
	if !ok {
		return nil, domain.ErrInvalidCommand.WithData("command", name)
	}
	cmd := factory()
	if len(args) == 0 || string(args) == "null" {
		return cmd, nil
	}
	if err := json.Unmarshal(args, cmd); err != nil {
		return nil, domain.ErrInvalidCommand.WithData("command", name).WithCause(err)
	}
	return cmd, nil
}

// CommandNames 已注册命令名（排序后）。
func CommandNames() []string {
	out := make([]string, 0, len(commandFactories))
	for name := range commandFactories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
