// game/game.go
package game

import (
	"fmt"
	"strings"

	"github.com/wfunc/quizboard/models"
	"github.com/wfunc/quizboard/questions"
)

// Phase 游戏阶段
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseAwaitingRoll
	PhaseAwaitingAnswer
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseAwaitingRoll:
		return "awaiting_roll"
	case PhaseAwaitingAnswer:
		return "awaiting_answer"
	case PhaseOver:
		return "over"
	}
	return "unknown"
}

const (
	DefaultBoardSize  = 24
	DefaultMaxPlayers = 4
	MaxNameLength     = 20
	dieSides          = 6
)

// Rand is the random source for die rolls. *math/rand.Rand satisfies
// it; tests substitute a scripted sequence.
type Rand interface {
	Intn(n int) int
}

// Recorder persists a terminal game outcome. Invoked exactly once per
// completed game, from the answer that ends it.
type Recorder interface {
	RecordGameResult(winnerName string, participantNames []string) error
}

// Game 单个会话的游戏状态机
//
// Phases: Setup -> AwaitingRoll -> AwaitingAnswer -> (AwaitingRoll | Over).
// Out-of-phase actions are silent no-ops; user input errors set a
// message and leave the state unchanged.
type Game struct {
	phase      Phase
	players    []models.PlayerToken
	turn       int
	question   *models.QuestionItem
	lastRoll   int
	message    string
	winner     string
	bank       *questions.Bank
	rng        Rand
	recorder   Recorder
	boardSize  int
	maxPlayers int
}

// New creates a game in the setup phase with a freshly seeded question
// bank.
func New(rng Rand, bank *questions.Bank, recorder Recorder, boardSize, maxPlayers int) *Game {
	if boardSize <= 0 {
		boardSize = DefaultBoardSize
	}
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	return &Game{
		phase:      PhaseSetup,
		message:    "Set up players to start.",
		bank:       bank,
		rng:        rng,
		recorder:   recorder,
		boardSize:  boardSize,
		maxPlayers: maxPlayers,
	}
}

// Setup initializes the player tokens. Names are trimmed, empty ones
// dropped, and the rest truncated to MaxNameLength. Zero names or more
// than maxPlayers is rejected with a message and no state change.
func (g *Game) Setup(names []string) {
	var cleaned []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if runes := []rune(name); len(runes) > MaxNameLength {
			name = string(runes[:MaxNameLength])
		}
		cleaned = append(cleaned, name)
	}

	if len(cleaned) == 0 {
		g.message = "Enter at least one player name."
		return
	}
	if len(cleaned) > g.maxPlayers {
		g.message = fmt.Sprintf("Maximum %d players.", g.maxPlayers)
		return
	}

	g.players = make([]models.PlayerToken, 0, len(cleaned))
	for _, name := range cleaned {
		g.players = append(g.players, models.PlayerToken{Name: name, Pos: 0})
	}
	g.turn = 0
	g.phase = PhaseAwaitingRoll
	g.question = nil
	g.lastRoll = 0
	g.winner = ""
	g.message = fmt.Sprintf("Game ready! %s's turn. Roll to start.", cleaned[0])
}

// Roll draws a die value and a question, then waits for the answer.
// Valid only while awaiting a roll with players present; anything else
// is a no-op.
func (g *Game) Roll() {
	if len(g.players) == 0 {
		g.message = "Set up players first."
		return
	}
	if g.phase != PhaseAwaitingRoll {
		return
	}

	g.lastRoll = g.rng.Intn(dieSides) + 1
	q := g.bank.Draw()
	g.question = &q
	g.phase = PhaseAwaitingAnswer
	g.message = fmt.Sprintf("%s rolled a %d. Answer to move!", g.currentPlayer().Name, g.lastRoll)
}

// Outcome 答题结果
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeCorrect
	OutcomeIncorrect
)

// Answer resolves the pending question. A correct answer moves the
// current player forward by the roll value, clamped to the board size;
// a wrong one moves them back by 1, clamped to 0. Reaching the board
// size ends the game and records the result; the recorder's error is
// returned but the game stays over regardless. Out-of-phase calls are
// ignored.
func (g *Game) Answer(userAnswer string) (Outcome, error) {
	if g.phase != PhaseAwaitingAnswer {
		return OutcomeIgnored, nil
	}

	userAnswer = strings.TrimSpace(userAnswer)
	expected := strings.TrimSpace(g.question.A)
	roll := g.lastRoll
	player := g.currentPlayer()

	outcome := OutcomeIncorrect
	if userAnswer == expected {
		outcome = OutcomeCorrect
		player.Pos += roll
		if player.Pos > g.boardSize {
			player.Pos = g.boardSize
		}
		g.message = fmt.Sprintf("Correct, %s! Move forward %d.", player.Name, roll)
	} else {
		player.Pos--
		if player.Pos < 0 {
			player.Pos = 0
		}
		g.message = fmt.Sprintf("Oops, %s! Correct was %s. Move back 1.", player.Name, expected)
	}

	g.question = nil
	g.lastRoll = 0

	if player.Pos >= g.boardSize {
		g.phase = PhaseOver
		g.winner = player.Name
		g.message = fmt.Sprintf("%s wins!", player.Name)

		if g.recorder != nil {
			names := make([]string, 0, len(g.players))
			for _, p := range g.players {
				names = append(names, p.Name)
			}
			// The game is logically over even if persistence fails;
			// the error is surfaced, the state is not rolled back.
			if err := g.recorder.RecordGameResult(player.Name, names); err != nil {
				return outcome, err
			}
		}
		return outcome, nil
	}

	g.turn = (g.turn + 1) % len(g.players)
	g.phase = PhaseAwaitingRoll
	g.message += fmt.Sprintf(" Next: %s.", g.currentPlayer().Name)
	return outcome, nil
}

// Reset returns to the setup phase with no players and the default
// question pool.
func (g *Game) Reset() {
	g.phase = PhaseSetup
	g.players = nil
	g.turn = 0
	g.question = nil
	g.lastRoll = 0
	g.winner = ""
	g.bank.Reset()
	g.message = "Set up players to start."
}

func (g *Game) currentPlayer() *models.PlayerToken {
	return &g.players[g.turn%len(g.players)]
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Players returns a copy of the player tokens in turn order.
func (g *Game) Players() []models.PlayerToken {
	out := make([]models.PlayerToken, len(g.players))
	copy(out, g.players)
	return out
}

// Turn returns the index of the player whose turn it is.
func (g *Game) Turn() int {
	return g.turn
}

// CurrentPlayer returns the player whose turn it is, or false if no
// players have been set up.
func (g *Game) CurrentPlayer() (models.PlayerToken, bool) {
	if len(g.players) == 0 {
		return models.PlayerToken{}, false
	}
	return *g.currentPlayer(), true
}

// CurrentQuestion returns the pending question, or false outside the
// awaiting-answer phase.
func (g *Game) CurrentQuestion() (models.QuestionItem, bool) {
	if g.question == nil {
		return models.QuestionItem{}, false
	}
	return *g.question, true
}

// LastRoll returns the pending roll value, 0 when none is pending.
func (g *Game) LastRoll() int {
	return g.lastRoll
}

// Winner returns the winner's name once the game is over.
func (g *Game) Winner() string {
	return g.winner
}

// Message returns the display message for the UI.
func (g *Game) Message() string {
	return g.message
}

// SetMessage overrides the display message. Used for flash-style
// notices from handlers (upload results, admin feedback).
func (g *Game) SetMessage(msg string) {
	g.message = msg
}

// BoardSize returns the finish-line position.
func (g *Game) BoardSize() int {
	return g.boardSize
}

// Bank returns the session's question bank.
func (g *Game) Bank() *questions.Bank {
	return g.bank
}
