// termtoe is a terminal tic-tac-toe game played from a 4x4 keypad layout,
// against a second person or a computer opponent.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"termtoe/config"
	"termtoe/game"
	"termtoe/keypad"
	"termtoe/sgf"
	"termtoe/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagOpponent   = flag.String("opponent", "", "Opponent for the first session (human, easy, medium or hard)")
	flagSymbol     = flag.String("symbol", "", "Your symbol for every round (x or o)")
	flagSeed       = flag.Int64("seed", -1, "Fixed seed for computer opponents")
	flagNoRecord   = flag.Bool("no-record", false, "Do not write rounds to the record directory")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective configuration and exit")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("termtoe %s\n", Version)
		return
	}

	cfg, err := config.InitConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if *flagOpponent != "" {
		cfg.Game.Opponent = *flagOpponent
	}
	if *flagSymbol != "" {
		cfg.Game.Symbol = *flagSymbol
	}
	if *flagNoRecord {
		cfg.Record.Enabled = false
	}
	if err = cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *flagSaveConfig {
		path, err := cfg.Save()
		if err != nil {
			fmt.Printf("Saving config failed: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config saved to %s\n", path)
		return
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Printf("Opening log %s failed: %s\n", cfg.Log.Path, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("termtoe stopped", zap.Error(err))
		fmt.Println(err)
		os.Exit(1)
	}
}

// run wires the keypad poller, the game loop and the terminal UI and blocks until the UI exits.
func run(cfg *config.Config, log *zap.Logger) error {
	layout, err := keypad.ParseLayout(cfg.Keypad.Layout)
	if err != nil {
		return err
	}
	side, err := cfg.Game.Side()
	if err != nil {
		return err
	}

	app := tview.NewApplication()
	poller := keypad.NewPoller(cfg.Keypad.Debounce(), cfg.Keypad.Buffer, log.Named("keypad"))

	boardUI := ui.NewBoard(app, cfg, layout, poller.Press)
	lcd := ui.NewLCDPanel(app, cfg)
	scores := ui.NewScoreboard(app, cfg)
	moves := ui.NewMovePanel(app)
	poller.OnBacklight(lcd.SetBacklight)
	poller.OnBrightness(scores.SetBrightness)

	var rec ui.RoundRecorder
	if cfg.Record.Enabled {
		recorder := sgf.NewRecorder(cfg.Record.Dir, log.Named("sgf"))
		defer recorder.Close()
		rec = recorder
	}
	session := game.NewSession()
	ui.ShowSession(session, boardUI, moves, rec)

	opts := game.Options{
		Opponent:  cfg.Game.Opponent,
		Symbol:    side,
		AfterGame: cfg.Game.AfterGame(),
		Think:     cfg.Game.Think(),
	}
	if *flagSeed >= 0 {
		seed := uint32(*flagSeed)
		opts.Seed = func() uint32 { return seed }
	}
	g := game.New(session, lcd, scores, poller.Keys(), log.Named("game"), opts)
	g.OnOpponent(moves.SetOpponent)

	hint := tview.NewTextView()
	hint.SetBorder(false)
	hint.SetTextColor(ui.Palette.Hint)
	hint.SetText(ui.KeyHint(layout))

	rootPage := tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" # termtoe ")
	rootPage.AddPage("gameview", ui.CreateGameLayout(boardUI, lcd, scores, moves, hint), true, true)
	rounds := ui.NewHistoryBrowser(cfg.Record.Dir, cfg, func() {
		rootPage.SwitchToPage("gameview")
	})
	rootPage.AddPage("history", rounds.Flex(), true, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if front, _ := rootPage.GetFrontPage(); front == "history" {
			return event
		}
		switch event.Key() {
		case tcell.KeyEsc:
			app.Stop()
			return nil
		case tcell.KeyTab:
			rounds.Refresh()
			rootPage.SwitchToPage("history")
			return nil
		}
		// Keypad keys win over the cursor keys.
		if event.Key() == tcell.KeyRune {
			if k := layout.KeyFromRune(event.Rune()); k != keypad.Unknown {
				poller.Press(k)
				return nil
			}
		}
		if boardUI.HandleKey(event) {
			return nil
		}
		return event
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return poller.Run(ctx)
	})
	grp.Go(func() error {
		defer app.Stop()
		return g.Run(ctx)
	})

	log.Info("termtoe started",
		zap.String("version", Version),
		zap.String("layout", cfg.Keypad.Layout),
		zap.Bool("record", cfg.Record.Enabled),
		zap.String("record_dir", cfg.Record.Dir))
	uiErr := app.SetRoot(rootPage, true).Run()
	cancel()
	if err := grp.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return uiErr
}

// newLogger writes JSON logs to the configured file. The terminal belongs to the UI.
func newLogger(c config.LogConfig) (*zap.Logger, error) {
	level, err := c.ZapLevel()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{c.Path}
	zc.ErrorOutputPaths = []string{c.Path}
	return zc.Build()
}
