package commands

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"slices"
	"time"

	"goatan/internal/app"
	"goatan/internal/bot"
	"goatan/internal/config"
	"goatan/internal/domain"

	"github.com/spf13/cobra"
)

var (
	runPlayers    int
	runRadius     int
	runSeed       int64
	runMaxActions int
	runConfigPath string
	runIdentities string
	runVerbose    bool
)

// turnActionLimit bounds a single bot turn.
const turnActionLimit = 64

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play one game between bots and print the result",
	Example: `  goatan-sim run --players 4 --radius 2 --seed 42
  goatan-sim run --config data/game_config.yaml --identities data/bot_identities.yaml -v`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVarP(&runPlayers, "players", "p", 3, "Number of bots at the table")
	runCmd.Flags().IntVarP(&runRadius, "radius", "r", -1, "Board radius (default from config)")
	runCmd.Flags().Int64VarP(&runSeed, "seed", "s", 0, "Random seed (0 uses the clock)")
	runCmd.Flags().IntVar(&runMaxActions, "max-actions", 5000, "Give up after this many bot actions")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Path to a game config YAML file")
	runCmd.Flags().StringVar(&runIdentities, "identities", "", "Path to a bot identities YAML file")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print every turn and roll")
	rootCmd.AddCommand(runCmd)
}

// SimOptions configures a simulated game.
type SimOptions struct {
	Players    int
	Radius     int
	Seed       int64
	MaxActions int
	Config     *config.GameConfig
	Out        io.Writer // turn log; nil discards
}

// SimResult summarizes a simulated game.
type SimResult struct {
	Finished bool
	Victor   string
	Turns    int
	Actions  int
	Players  []app.PlayerView
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if runConfigPath != "" {
		data, err := os.ReadFile(runConfigPath)
		if err != nil {
			return failure("Failed to read game config", err)
		}
		if cfg, err = config.ParseGameConfig(data); err != nil {
			return failure("Invalid game config", err)
		}
	}
	if runIdentities != "" {
		if err := bot.LoadIdentities(runIdentities); err != nil {
			return failure("Failed to load bot identities", err)
		}
	}

	seed := runSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	radius := runRadius
	if radius < 0 {
		radius = cfg.DefaultRadius
	}

	out := cmd.OutOrStdout()
	heading(out, "Simulating %d bots on radius %d (seed %d)", runPlayers, radius, seed)

	opts := SimOptions{
		Players:    runPlayers,
		Radius:     radius,
		Seed:       seed,
		MaxActions: runMaxActions,
		Config:     cfg,
	}
	if runVerbose {
		opts.Out = out
	}
	result, err := Simulate(opts)
	if err != nil {
		return failure("Simulation failed", err)
	}
	printResult(out, result)
	return nil
}

// Simulate plays bots against each other until someone wins or the action budget runs out.
func Simulate(opts SimOptions) (SimResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Players < 1 || opts.Players > cfg.MaxPlayers() {
		return SimResult{}, fmt.Errorf("players must be between 1 and %d, got %d", cfg.MaxPlayers(), opts.Players)
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	svc := app.NewService(rng, cfg)
	game := svc.NewGame(fmt.Sprintf("sim-%d", opts.Seed))

	agents := make(map[string]*bot.Agent, opts.Players)
	for i := 0; i < opts.Players; i++ {
		agent, err := bot.NewAgent(bot.GetBotIdentity(i), rng)
		if err != nil {
			return SimResult{}, err
		}
		if _, dup := agents[agent.ID]; dup {
			return SimResult{}, fmt.Errorf("bot identity pool has fewer than %d bots", opts.Players)
		}
		if _, err := svc.RegisterPlayer(game, agent.ID, agent.Name); err != nil {
			return SimResult{}, err
		}
		agents[agent.ID] = agent
	}

	events, err := svc.Initialize(game, opts.Radius)
	if err != nil {
		return SimResult{}, err
	}
	result := SimResult{}
	logEvents(opts.Out, game, events, &result)

	for game.State() != domain.StateFinished && result.Actions < opts.MaxActions {
		active := game.ActivePlayer()
		agent := agents[active.ID]

		action, events, err := agent.Act(svc, game)
		result.Actions++
		if err != nil {
			// A stuck bot passes; if it cannot, the table is wedged.
			warning(opts.Out, "%s could not %s: %v", agent.Name, action.Kind, err)
			if events, err = svc.EndTurn(game, active.ID); err != nil {
				return result, fmt.Errorf("bot %s is stuck: %w", active.ID, err)
			}
		}
		logEvents(opts.Out, game, events, &result)
	}

	result.Finished = game.State() == domain.StateFinished
	result.Victor = game.Victor
	result.Players = app.BuildSnapshot(game).Players
	slices.SortStableFunc(result.Players, func(a, b app.PlayerView) int { return b.Points - a.Points })
	return result, nil
}

func logEvents(w io.Writer, game *domain.Game, events []app.Event, result *SimResult) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.NewTurnPayload:
			result.Turns++
			fmt.Fprintf(w, "[turn %d] %s (%s)\n", result.Turns, name(game, p.PlayerID), p.Phase)
		case app.DiceRolledPayload:
			fmt.Fprintf(w, "  rolled %d\n", p.Total)
		case app.GameEndedPayload:
			success(w, "%s wins", name(game, p.VictorID))
		}
	}
}

func name(game *domain.Game, id string) string {
	if p := game.Players.Get(id); p != nil && p.Name != "" {
		return p.Name
	}
	return id
}

func printResult(w io.Writer, result SimResult) {
	if result.Finished {
		success(w, "Game finished after %d turns and %d actions", result.Turns, result.Actions)
	} else {
		warning(w, "No winner after %d actions", result.Actions)
	}
	for _, p := range result.Players {
		marker := " "
		if p.ID == result.Victor {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-12s %-7s %d points\n", marker, p.Name, p.Color, p.Points)
	}
}
