package main

import (
	"fmt"
	"os"
	"time"

	"Civilization/internal/game/entity/domain"
	"Civilization/internal/game/sim"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	presetName string
	difficulty int
	seed       uint64
	turns      int
	expects    []string
	outPath    string
	replayPath string
	quiet      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "civsim",
		Short: "离线对局模拟器：自动驾驶、存档回放、终端对局",
	}

	newCmd := &cobra.Command{
		Use:   "new <save.json>",
		Short: "新建对局并写出存档",
		Args:  cobra.ExactArgs(1),
		Run:   runNew,
	}
	addGameFlags(newCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "自动驾驶若干回合，可校验期望表达式",
		Run:   runAutopilot,
	}
	addGameFlags(runCmd)
	runCmd.Flags().IntVarP(&turns, "turns", "t", 20, "最多推进的回合数")
	runCmd.Flags().StringArrayVarP(&expects, "expect", "e", nil, "结束后必须成立的表达式，例如 'turn > 10 && !defeat'")
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "结束后写出存档")
	runCmd.Flags().StringVarP(&replayPath, "replay", "r", "", "从存档回放后继续，而不是新建")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "不打印每回合进度")

	showCmd := &cobra.Command{
		Use:   "show <save.json>",
		Short: "回放存档并打印地图与单位",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "终端交互对局",
		Run:   runPlay,
	}
	addGameFlags(playCmd)
	playCmd.Flags().StringVarP(&replayPath, "replay", "r", "", "从存档继续")
	playCmd.Flags().StringVarP(&outPath, "out", "o", "", "退出时写出存档")

	rootCmd.AddCommand(newCmd, runCmd, showCmd, playCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&presetName, "preset", "p", "plains", "地图预设名或地图文件路径")
	cmd.Flags().IntVarP(&difficulty, "difficulty", "d", int(domain.DifficultyNormal), "难度 0=easy 1=normal 2=hard")
	cmd.Flags().Uint64VarP(&seed, "seed", "s", 0, "随机种子，0 表示取当前时间")
}

func openSession() (*sim.Session, error) {
	if replayPath != "" {
		return sim.Load(replayPath)
	}
	d := domain.Difficulty(difficulty)
	if !d.Valid() {
		return nil, domain.ErrInvalidDifficulty.WithData("difficulty", difficulty)
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return sim.New(sim.Options{Preset: presetName, Difficulty: d, Seed: seed})
}

func fail(format string, args ...any) {
	color.Red(format, args...)
	os.Exit(1)
}

func runNew(cmd *cobra.Command, args []string) {
	s, err := openSession()
	if err != nil {
		fail("新建对局失败: %v", err)
	}
	if err := s.Save(args[0]); err != nil {
		fail("写存档失败: %v", err)
	}
	color.New(color.FgGreen, color.Bold).Printf("已写出 %s (seed=%d)\n", args[0], s.SaveFile().Seed)
}

func runAutopilot(cmd *cobra.Command, args []string) {
	// 表达式先编译，写错了不必白跑
	checks := make([]*sim.Expectation, 0, len(expects))
	for _, src := range expects {
		e, err := sim.CompileExpectation(src)
		if err != nil {
			fail("%v", err)
		}
		checks = append(checks, e)
	}

	s, err := openSession()
	if err != nil {
		fail("打开对局失败: %v", err)
	}
	infoColor := color.New(color.FgYellow)
	if !quiet {
		infoColor.Printf("seed=%d difficulty=%s\n", s.SaveFile().Seed, s.State().Difficulty)
	}

	err = s.Run(turns, func(tl sim.TurnLog) {
		if !quiet {
			fmt.Printf("turn %3d  applied=%d rejected=%d  %s\n", tl.Turn, tl.Applied, tl.Rejected, tl.Status)
		}
	})
	if err != nil {
		fail("自动驾驶中断: %v", err)
	}

	sum := s.Summary()
	printSummary(os.Stdout, sum)
	printOutcome(sum)

	if outPath != "" {
		if err := s.Save(outPath); err != nil {
			fail("写存档失败: %v", err)
		}
		infoColor.Printf("存档: %s\n", outPath)
	}

	failed := 0
	for _, e := range checks {
		ok, err := e.Check(sum)
		switch {
		case err != nil:
			color.Red("✗ %s: %v", e.Source, err)
			failed++
		case !ok:
			color.Red("✗ %s", e.Source)
			failed++
		default:
			color.Green("✓ %s", e.Source)
		}
	}
	if failed > 0 {
		os.Exit(2)
	}
}

func runShow(cmd *cobra.Command, args []string) {
	s, err := sim.Load(args[0])
	if err != nil {
		fail("读取存档失败: %v", err)
	}
	st := s.State()
	fmt.Println(renderMap(st, nil))
	printUnits(os.Stdout, st)
	printCities(os.Stdout, st)
	sum := s.Summary()
	printSummary(os.Stdout, sum)
	printOutcome(sum)
}

func runPlay(cmd *cobra.Command, args []string) {
	s, err := openSession()
	if err != nil {
		fail("打开对局失败: %v", err)
	}
	if _, err := tea.NewProgram(newPlayModel(s), tea.WithAltScreen()).Run(); err != nil {
		fail("终端界面异常: %v", err)
	}
	if outPath != "" {
		if err := s.Save(outPath); err != nil {
			fail("写存档失败: %v", err)
		}
		color.New(color.FgYellow).Printf("存档: %s\n", outPath)
	}
	printOutcome(s.Summary())
}
