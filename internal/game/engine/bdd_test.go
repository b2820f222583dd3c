package engine_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"Civilization/internal/game/engine"
	"Civilization/internal/game/entity"
	"Civilization/internal/game/entity/domain"
	"Civilization/modules/kit/errx"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

type gameWorld struct {
	state *entity.GameState
	err   error
}

func (w *gameWorld) aPlainsGame(px, py, ax, ay, bx, by int) error {
	terrain := make([]uint8, domain.MapCells)
	for i := range terrain {
		terrain[i] = uint8(domain.TerrainPlains)
	}
	s, err := engine.InitializeGame(terrain, domain.DifficultyNormal)
	if err != nil {
		return err
	}
	w.state = s
	if err := w.run("initializePlayer", fmt.Sprintf(`{"x":%d,"y":%d}`, px, py)); err != nil || w.err != nil {
		return errors.Join(err, w.err)
	}
	if err := w.run("initializeFaction", fmt.Sprintf(`{"pos1":{"x":%d,"y":%d},"pos2":{"x":%d,"y":%d}}`, ax, ay, bx, by)); err != nil || w.err != nil {
		return errors.Join(err, w.err)
	}
	return nil
}

// run 执行命令并把错误记到 w.err，返回值只表示步骤本身是否出错。
func (w *gameWorld) run(name, args string) error {
	cmd, err := engine.DecodeCommand(name, []byte(args))
	if err != nil {
		return err
	}
	w.state, _, w.err = engine.Execute(w.state, cmd, engine.NewSequenceEntropy(5))
	return nil
}

func (w *gameWorld) iExecuteWith(name, args string) error { return w.run(name, args) }

func (w *gameWorld) iExecute(name string) error { return w.run(name, "") }

func (w *gameWorld) iQueueTimes(item string, cityID, n int) error {
	args, _ := json.Marshal(map[string]any{"city_id": cityID, "item": item})
	for i := 0; i < n; i++ {
		if err := w.run("addToProductionQueue", string(args)); err != nil {
			return err
		}
		if w.err != nil {
			return fmt.Errorf("第 %d 次入队失败: %w", i+1, w.err)
		}
	}
	return nil
}

func (w *gameWorld) theCommandShouldSucceed() error {
	if w.err != nil {
		return fmt.Errorf("期望成功，got=%v", w.err)
	}
	return nil
}

func (w *gameWorld) theCommandShouldFailWith(code string) error {
	if got := errx.CodeOf(w.err); string(got) != code {
		return fmt.Errorf("期望错误码 %s，got=%s (%v)", code, got, w.err)
	}
	return nil
}

func (w *gameWorld) playerUnitShouldBeAt(id, x, y int) error {
	u, ok := w.state.Player.Unit(id)
	if !ok {
		return fmt.Errorf("找不到单位 %d", id)
	}
	if u.Pos != domain.C(x, y) {
		return fmt.Errorf("单位 %d 期望在 (%d,%d)，got=%v", id, x, y, u.Pos)
	}
	return nil
}

func (w *gameWorld) cityShouldHaveQueued(id, n int) error {
	c, ok := w.state.Player.City(id)
	if !ok {
		return fmt.Errorf("找不到城市 %d", id)
	}
	if len(c.Queue) != n {
		return fmt.Errorf("城市 %d 期望 %d 项，got=%d", id, n, len(c.Queue))
	}
	return nil
}

func (w *gameWorld) theTurnShouldBe(n int) error {
	if w.state.Turn != n {
		return fmt.Errorf("期望回合 %d，got=%d", n, w.state.Turn)
	}
	return nil
}

func (w *gameWorld) theGameStatusShouldBe(status string) error {
	if got := w.state.Status.String(); got != status {
		return fmt.Errorf("期望状态 %s，got=%s", status, got)
	}
	return nil
}

func initializeScenario(sc *godog.ScenarioContext) {
	w := &gameWorld{}
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*w = gameWorld{}
		return ctx, nil
	})

	sc.Step(`^a plains game with the player at (\d+),(\d+) and barbarian villages at (\d+),(\d+) and (\d+),(\d+)$`, w.aPlainsGame)
	sc.Step(`^I execute "([^"]*)" with '([^']*)'$`, w.iExecuteWith)
	sc.Step(`^I execute "([^"]*)"$`, w.iExecute)
	sc.Step(`^I queue "([^"]*)" in city (\d+) (\d+) times$`, w.iQueueTimes)
	sc.Step(`^the command should succeed$`, w.theCommandShouldSucceed)
	sc.Step(`^the command should fail with "([^"]*)"$`, w.theCommandShouldFailWith)
	sc.Step(`^player unit (\d+) should be at (\d+),(\d+)$`, w.playerUnitShouldBeAt)
	sc.Step(`^city (\d+) should have (\d+) items queued$`, w.cityShouldHaveQueued)
	sc.Step(`^the turn should be (\d+)$`, w.theTurnShouldBe)
	sc.Step(`^the game status should be "([^"]*)"$`, w.theGameStatusShouldBe)
}
