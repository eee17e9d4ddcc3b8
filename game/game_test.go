package game

import (
	"errors"
	"testing"

	"github.com/wfunc/quizboard/models"
	"github.com/wfunc/quizboard/questions"
)

// scriptedRand is a test double for the Rand interface. It replays a
// fixed sequence of values.
type scriptedRand struct {
	values []int
	index  int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.index%len(r.values)]
	r.index++
	return v % n
}

// mockRecorder is a test double for the Recorder interface.
type mockRecorder struct {
	calls        int
	winner       string
	participants []string
	err          error
}

func (m *mockRecorder) RecordGameResult(winnerName string, participantNames []string) error {
	m.calls++
	m.winner = winnerName
	m.participants = participantNames
	return m.err
}

func newTestGame(dice *scriptedRand, recorder Recorder) *Game {
	bank := questions.NewBank(&scriptedRand{values: []int{0}})
	return New(dice, bank, recorder, DefaultBoardSize, DefaultMaxPlayers)
}

func TestSetup_RejectsZeroNames(t *testing.T) {
	g := newTestGame(&scriptedRand{}, nil)

	g.Setup([]string{"", "   ", ""})

	if g.Phase() != PhaseSetup {
		t.Errorf("Expected phase to remain setup, got %v", g.Phase())
	}
	if len(g.Players()) != 0 {
		t.Errorf("Expected no players, got %d", len(g.Players()))
	}
	if g.Message() != "Enter at least one player name." {
		t.Errorf("Unexpected message: %q", g.Message())
	}
}

func TestSetup_RejectsTooManyNames(t *testing.T) {
	g := newTestGame(&scriptedRand{}, nil)

	g.Setup([]string{"a", "b", "c", "d", "e"})

	if g.Phase() != PhaseSetup {
		t.Errorf("Expected phase to remain setup, got %v", g.Phase())
	}
	if g.Message() != "Maximum 4 players." {
		t.Errorf("Unexpected message: %q", g.Message())
	}
}

func TestSetup_FourValidNames(t *testing.T) {
	g := newTestGame(&scriptedRand{}, nil)

	g.Setup([]string{"Alice", "Bob", "Carol", "Dave"})

	if g.Phase() != PhaseAwaitingRoll {
		t.Fatalf("Expected awaiting_roll, got %v", g.Phase())
	}
	if g.Turn() != 0 {
		t.Errorf("Expected turn to start at 0, got %d", g.Turn())
	}
	players := g.Players()
	if len(players) != 4 {
		t.Fatalf("Expected 4 players, got %d", len(players))
	}
	for _, p := range players {
		if p.Pos != 0 {
			t.Errorf("Expected player %s to start at 0, got %d", p.Name, p.Pos)
		}
	}
}

func TestSetup_TruncatesLongNames(t *testing.T) {
	g := newTestGame(&scriptedRand{}, nil)

	g.Setup([]string{"abcdefghijklmnopqrstuvwxyz"})

	players := g.Players()
	if got := players[0].Name; got != "abcdefghijklmnopqrst" {
		t.Errorf("Expected truncated name, got %q", got)
	}
}

func TestRoll_DrawsDieAndQuestion(t *testing.T) {
	// Intn(6) == 4, so the die shows 5.
	g := newTestGame(&scriptedRand{values: []int{4}}, nil)
	g.Setup([]string{"Alice"})

	g.Roll()

	if g.Phase() != PhaseAwaitingAnswer {
		t.Fatalf("Expected awaiting_answer, got %v", g.Phase())
	}
	if g.LastRoll() != 5 {
		t.Errorf("Expected roll of 5, got %d", g.LastRoll())
	}
	if _, ok := g.CurrentQuestion(); !ok {
		t.Error("Expected a pending question after roll")
	}
}

func TestRoll_NoOpWithoutPlayers(t *testing.T) {
	g := newTestGame(&scriptedRand{values: []int{0}}, nil)

	g.Roll()

	if g.Phase() != PhaseSetup {
		t.Errorf("Expected phase to remain setup, got %v", g.Phase())
	}
	if g.Message() != "Set up players first." {
		t.Errorf("Unexpected message: %q", g.Message())
	}
}

func TestRoll_NoOpWhileAwaitingAnswer(t *testing.T) {
	g := newTestGame(&scriptedRand{values: []int{2, 5}}, nil)
	g.Setup([]string{"Alice"})
	g.Roll()

	first := g.LastRoll()
	g.Roll()

	if g.LastRoll() != first {
		t.Errorf("Second roll should be ignored; roll changed from %d to %d", first, g.LastRoll())
	}
	if g.Phase() != PhaseAwaitingAnswer {
		t.Errorf("Expected awaiting_answer, got %v", g.Phase())
	}
}

func TestAnswer_CorrectMovesForward(t *testing.T) {
	g := newTestGame(&scriptedRand{values: []int{2}}, nil) // die shows 3
	g.Setup([]string{"Alice", "Bob"})
	g.Roll()

	q, _ := g.CurrentQuestion()
	outcome, err := g.Answer(" " + q.A + " ")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if outcome != OutcomeCorrect {
		t.Fatalf("Expected correct outcome, got %v", outcome)
	}

	players := g.Players()
	if players[0].Pos != 3 {
		t.Errorf("Expected Alice at 3, got %d", players[0].Pos)
	}
	if g.Turn() != 1 {
		t.Errorf("Expected turn to advance to Bob, got %d", g.Turn())
	}
	if g.Phase() != PhaseAwaitingRoll {
		t.Errorf("Expected awaiting_roll, got %v", g.Phase())
	}
	if _, ok := g.CurrentQuestion(); ok {
		t.Error("Pending question should be cleared after answering")
	}
	if g.LastRoll() != 0 {
		t.Errorf("Pending roll should be cleared, got %d", g.LastRoll())
	}
}

func TestAnswer_IncorrectAtZeroStaysAtZero(t *testing.T) {
	g := newTestGame(&scriptedRand{values: []int{0}}, nil)
	g.Setup([]string{"Alice"})
	g.Roll()

	outcome, err := g.Answer("definitely wrong")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if outcome != OutcomeIncorrect {
		t.Fatalf("Expected incorrect outcome, got %v", outcome)
	}

	if pos := g.Players()[0].Pos; pos != 0 {
		t.Errorf("Expected position clamped at 0, got %d", pos)
	}
}

func TestAnswer_IgnoredWithoutPendingQuestion(t *testing.T) {
	g := newTestGame(&scriptedRand{}, nil)
	g.Setup([]string{"Alice"})

	outcome, err := g.Answer("4")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if outcome != OutcomeIgnored {
		t.Errorf("Expected ignored outcome, got %v", outcome)
	}
	if g.Phase() != PhaseAwaitingRoll {
		t.Errorf("Expected awaiting_roll, got %v", g.Phase())
	}
}

func TestAnswer_WinClampedAtBoardSize(t *testing.T) {
	recorder := &mockRecorder{}
	g := newTestGame(&scriptedRand{values: []int{4}}, recorder) // die always 5
	g.Setup([]string{"Alice", "Bob"})

	// Alice and Bob alternate; both always roll 5 and answer
	// correctly. Positions go 5, 10, 15, 20, then 25 clamps to 24.
	for g.Phase() != PhaseOver {
		g.Roll()
		q, _ := g.CurrentQuestion()
		if _, err := g.Answer(q.A); err != nil {
			t.Fatalf("Answer returned error: %v", err)
		}
	}

	if g.Winner() != "Alice" {
		t.Errorf("Expected Alice to win, got %q", g.Winner())
	}
	if pos := g.Players()[0].Pos; pos != DefaultBoardSize {
		t.Errorf("Expected winning position clamped to %d, got %d", DefaultBoardSize, pos)
	}
	if g.Turn() != 0 {
		t.Errorf("Turn must not advance past the winning move, got %d", g.Turn())
	}
	if recorder.calls != 1 {
		t.Fatalf("Expected exactly one recorded result, got %d", recorder.calls)
	}
	if recorder.winner != "Alice" {
		t.Errorf("Expected recorded winner Alice, got %q", recorder.winner)
	}
	if len(recorder.participants) != 2 {
		t.Errorf("Expected 2 participants, got %v", recorder.participants)
	}
}

func TestAnswer_RecorderFailureSurfacedButGameStaysOver(t *testing.T) {
	recorder := &mockRecorder{err: errors.New("db down")}
	g := newTestGame(&scriptedRand{values: []int{4}}, recorder)
	g.Setup([]string{"Alice"})

	var lastErr error
	for g.Phase() != PhaseOver {
		g.Roll()
		q, _ := g.CurrentQuestion()
		_, lastErr = g.Answer(q.A)
	}

	if lastErr == nil {
		t.Fatal("Expected the recorder error to be surfaced")
	}
	if g.Phase() != PhaseOver {
		t.Errorf("Game must stay over despite persistence failure, got %v", g.Phase())
	}
	if g.Winner() != "Alice" {
		t.Errorf("Expected winner Alice, got %q", g.Winner())
	}
}

func TestReset_RestoresSetupAndDefaultPool(t *testing.T) {
	g := newTestGame(&scriptedRand{values: []int{0}}, nil)
	g.Setup([]string{"Alice"})
	g.Bank().Merge([]models.QuestionItem{{Q: "1+1", A: "2"}})
	g.Roll()

	g.Reset()

	if g.Phase() != PhaseSetup {
		t.Errorf("Expected setup phase, got %v", g.Phase())
	}
	if len(g.Players()) != 0 {
		t.Errorf("Expected no players after reset, got %d", len(g.Players()))
	}
	if _, ok := g.CurrentQuestion(); ok {
		t.Error("Pending question should be discarded on reset")
	}
	if g.Bank().Len() != len(questions.DefaultQuestions()) {
		t.Errorf("Expected default question pool, got %d items", g.Bank().Len())
	}
}
