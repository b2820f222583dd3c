package sim

import (
	"fmt"

	"Civilization/internal/game/entity"
	"Civilization/modules/kit/errx"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Summary 对局概况，同时是期望表达式的求值环境。
type Summary struct {
	Turn          int    `json:"turn" expr:"turn"`
	Status        string `json:"status" expr:"status"`
	Defeat        bool   `json:"defeat" expr:"defeat"`
	Victory       bool   `json:"victory" expr:"victory"`
	Units         int    `json:"units" expr:"units"`
	Cities        int    `json:"cities" expr:"cities"`
	FactionUnits  int    `json:"faction_units" expr:"faction_units"`
	FactionCities int    `json:"faction_cities" expr:"faction_cities"`
	Gold          int    `json:"gold" expr:"gold"`
	Gems          int    `json:"gems" expr:"gems"`
	Discovered    int    `json:"discovered" expr:"discovered"`
	Techs         int    `json:"techs" expr:"techs"`
	Commands      int    `json:"commands" expr:"commands"`
}

func Summarize(st *entity.GameState, journalLen int) Summary {
	return Summary{
		Turn:          st.Turn,
		Status:        st.Status.String(),
		Defeat:        st.Status == entity.StatusDefeat,
		Victory:       st.Status == entity.StatusVictory,
		Units:         st.Player.LiveUnitCount(),
		Cities:        len(st.Player.Cities),
		FactionUnits:  st.Faction.LiveUnitCount(),
		FactionCities: len(st.Faction.Cities),
		Gold:          st.Player.Resources.Gold,
		Gems:          st.Player.Resources.Gems,
		Discovered:    st.Map.DiscoveredCount(),
		Techs:         st.Player.Research.Completed.Len(),
		Commands:      journalLen,
	}
}

func (s *Session) Summary() Summary {
	return Summarize(s.State(), len(s.Journal()))
}

// Expectation 编译好的布尔表达式，例如 `turn >= 10 && !defeat`。
type Expectation struct {
	Source  string
	program *vm.Program
}

func CompileExpectation(src string) (*Expectation, error) {
	prog, err := expr.Compile(src, expr.Env(Summary{}), expr.AsBool())
	if err != nil {
		return nil, errx.ErrInvalidParam.WithReason(fmt.Sprintf("bad expectation %q", src)).WithCause(err)
	}
	return &Expectation{Source: src, program: prog}, nil
}

func (e *Expectation) Check(sum Summary) (bool, error) {
	out, err := expr.Run(e.program, sum)
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}
