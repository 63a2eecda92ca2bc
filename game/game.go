package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"termtoe/board"
	"termtoe/entropy"
	"termtoe/keypad"
	"termtoe/strategy"
)

// ErrInputClosed is returned by Run when the key channel is closed.
var ErrInputClosed = errors.New("key input closed")

// DisplayRows is the number of text rows on the display. The last row shows
// the selected difficulty and survives prompts.
const DisplayRows = 4

const statusRow = DisplayRows - 1

// Display is the text display next to the board.
type Display interface {
	Print(row int, text string)
}

// Scoreboard shows the running score of both players.
type Scoreboard interface {
	Show(first, second int)
}

// Score counts rounds won by the first player (at the keypad) and the second player.
type Score struct {
	First  int
	Second int
}

// Player pairs a symbol with the strategy choosing its moves.
type Player struct {
	Symbol   board.Cell
	Strategy strategy.Strategy
}

// Options tune a Game.
type Options struct {
	// Opponent names the second player's level for the first session. Empty asks.
	Opponent string
	// Symbol is the first player's symbol for every round. board.Empty asks each round.
	Symbol board.Cell
	// AfterGame is how long the result stays on the display.
	AfterGame time.Duration
	// Think is how long the computer appears to think before moving.
	Think time.Duration
	// Seed returns the seed for each new computer player. Defaults to entropy.Noise.
	Seed func() uint32
}

// Game runs rounds between the first player, who always plays from the
// keypad, and a second player chosen at the start of each session.
type Game struct {
	session *Session
	display Display
	scores  Scoreboard
	keys    <-chan keypad.Key
	log     *zap.Logger
	opts    Options

	first  Player
	second Player
	id     uuid.UUID

	opponentCallback func(name string)

	mu    sync.Mutex
	score Score
}

// New creates a game reading keys from keys.
func New(session *Session, display Display, scores Scoreboard, keys <-chan keypad.Key, log *zap.Logger, opts Options) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Seed == nil {
		opts.Seed = func() uint32 { return entropy.Seed(entropy.Noise{}) }
	}
	return &Game{
		session: session,
		display: display,
		scores:  scores,
		keys:    keys,
		log:     log,
		opts:    opts,
	}
}

// OnOpponent registers a callback for when a second player is chosen.
// It must be set before Run.
func (g *Game) OnOpponent(callback func(name string)) {
	g.opponentCallback = callback
}

// Score returns the current score.
func (g *Game) Score() Score {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// Opponent returns the second player's strategy name, or "" before one is chosen.
func (g *Game) Opponent() string {
	if g.second.Strategy == nil {
		return ""
	}
	return g.second.Strategy.Name()
}

// Run chooses an opponent and plays rounds until ctx is done or the keys run out.
func (g *Game) Run(ctx context.Context) error {
	g.showScore()
	if err := g.chooseOpponent(ctx); err != nil {
		return err
	}
	for {
		if err := g.playRound(ctx); err != nil {
			return err
		}
	}
}

func (g *Game) playRound(ctx context.Context) error {
	symbol := g.opts.Symbol
	if symbol == board.Empty {
		var err error
		if symbol, err = g.chooseSymbol(ctx); err != nil {
			return err
		}
	}
	g.first.Symbol = symbol
	g.second.Symbol = symbol.Opponent()
	g.session.Reset()
	g.log.Info("round started",
		zap.Stringer("session", g.id),
		zap.Stringer("first", g.first.Symbol),
		zap.String("opponent", g.Opponent()))

	for {
		b := g.session.Board()
		if b.IsTerminal() {
			return g.finishRound(ctx, b)
		}

		p := g.first
		if b.CurrentPlayer() == g.first.Symbol {
			g.print("Your turn", "Play as "+g.first.Symbol.String())
		} else {
			p = g.second
			if err := g.announceSecond(ctx); err != nil {
				return err
			}
		}

		m, err := p.Strategy.NextMove(ctx, b)
		if err != nil {
			return err
		}
		if err := g.session.Play(m, p.Strategy.Name()); err != nil {
			return err
		}
		g.log.Debug("move played",
			zap.Stringer("session", g.id),
			zap.Stringer("side", p.Symbol),
			zap.String("move", m.Notation()),
			zap.String("by", p.Strategy.Name()))
	}
}

func (g *Game) announceSecond(ctx context.Context) error {
	if _, human := g.second.Strategy.(*strategy.HumanStrategy); human {
		g.print("The other's", "player turn", "Play as "+g.second.Symbol.String())
		return nil
	}
	g.print("Computer", "thinking...")
	return sleep(ctx, g.opts.Think)
}

func (g *Game) finishRound(ctx context.Context, b board.Board) error {
	outcome := OutcomeOf(b)
	winner := b.Winner()

	g.mu.Lock()
	switch winner {
	case board.Empty:
		g.print("GAME OVER", "TIE")
	case g.first.Symbol:
		g.score.First++
		g.print("GAME OVER", "You won")
	default:
		g.score.Second++
		g.print("GAME OVER", "The other", "player won")
	}
	score := g.score
	g.mu.Unlock()

	g.showScore()
	g.log.Info("round finished",
		zap.Stringer("session", g.id),
		zap.Stringer("outcome", outcome),
		zap.Int("first", score.First),
		zap.Int("second", score.Second))

	if err := sleep(ctx, g.opts.AfterGame); err != nil {
		return err
	}
	g.session.Reset()
	return g.continueAfterGame(ctx)
}

func (g *Game) continueAfterGame(ctx context.Context) error {
	g.print("Keep playing", "with the", "same enemy?")
	g.display.Print(statusRow, "")
	for {
		k, err := g.readKey(ctx)
		if err != nil {
			return err
		}
		yes, ok := keypad.AnswerFromKey(k)
		if !ok {
			continue
		}
		if !yes {
			g.resetScore()
			return g.chooseOpponent(ctx)
		}
		g.printStatus()
		return nil
	}
}

func (g *Game) chooseOpponent(ctx context.Context) error {
	var level strategy.Level
	if g.opts.Opponent != "" {
		// The configured opponent only applies to the first session.
		l, err := strategy.ParseLevel(g.opts.Opponent)
		g.opts.Opponent = ""
		if err != nil {
			return err
		}
		level = l
	} else {
		g.print("Play versus", "HUMAN or AI")
		g.display.Print(statusRow, "")
		human, err := g.readOpponent(ctx)
		if err != nil {
			return err
		}
		level = strategy.Human
		if !human {
			if level, err = g.chooseDifficulty(ctx); err != nil {
				return err
			}
		}
	}

	in := g.input()
	second, err := strategy.New(level, g.opts.Seed(), in)
	if err != nil {
		return err
	}
	g.first = Player{Strategy: strategy.NewHuman(in)}
	g.second = Player{Strategy: second}
	g.id = uuid.New()
	g.log.Info("opponent selected",
		zap.Stringer("session", g.id),
		zap.String("opponent", second.Name()))
	g.printStatus()
	if g.opponentCallback != nil {
		g.opponentCallback(second.Name())
	}
	return nil
}

func (g *Game) readOpponent(ctx context.Context) (bool, error) {
	for {
		k, err := g.readKey(ctx)
		if err != nil {
			return false, err
		}
		if human, ok := keypad.OpponentFromKey(k); ok {
			return human, nil
		}
	}
}

func (g *Game) chooseDifficulty(ctx context.Context) (strategy.Level, error) {
	g.print("Choose", "difficulty")
	for {
		k, err := g.readKey(ctx)
		if err != nil {
			return strategy.Human, err
		}
		if level, ok := keypad.DifficultyFromKey(k); ok {
			return level, nil
		}
	}
}

func (g *Game) chooseSymbol(ctx context.Context) (board.Cell, error) {
	g.print("Choose", "X or O")
	for {
		k, err := g.readKey(ctx)
		if err != nil {
			return board.Empty, err
		}
		if s := keypad.SymbolFromKey(k); s != board.Empty {
			return s, nil
		}
	}
}

// input decodes cell keys into moves for the human strategies.
func (g *Game) input() strategy.Input {
	return strategy.InputFunc(func(ctx context.Context) (board.Move, error) {
		k, err := g.readKey(ctx)
		if err != nil {
			return board.Invalid, err
		}
		return keypad.MoveFromKey(k), nil
	})
}

// readKey returns the next key. The score reset key is handled here so it works at any prompt.
func (g *Game) readKey(ctx context.Context) (keypad.Key, error) {
	for {
		select {
		case <-ctx.Done():
			return keypad.Unknown, ctx.Err()
		case k, ok := <-g.keys:
			if !ok {
				return keypad.Unknown, ErrInputClosed
			}
			if k == keypad.ResetScoreKey {
				g.resetScore()
				continue
			}
			return k, nil
		}
	}
}

func (g *Game) resetScore() {
	g.mu.Lock()
	g.score = Score{}
	g.mu.Unlock()
	g.showScore()
	g.log.Info("score reset", zap.Stringer("session", g.id))
}

func (g *Game) showScore() {
	score := g.Score()
	g.scores.Show(score.First, score.Second)
}

// print fills the prompt rows, blanking the ones not given.
func (g *Game) print(lines ...string) {
	for row := 0; row < statusRow; row++ {
		text := ""
		if row < len(lines) {
			text = lines[row]
		}
		g.display.Print(row, text)
	}
}

func (g *Game) printStatus() {
	status := ""
	if _, human := g.second.Strategy.(*strategy.HumanStrategy); !human && g.second.Strategy != nil {
		status = "Diff:" + g.second.Strategy.Name()
	}
	g.display.Print(statusRow, status)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
