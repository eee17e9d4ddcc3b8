package session

import (
	"testing"
	"time"

	"github.com/wfunc/quizboard/game"
	"github.com/wfunc/quizboard/questions"
)

type fixedRand struct{}

func (fixedRand) Intn(n int) int { return 0 }

func newTestManager() *Manager {
	return NewManager(func() *game.Game {
		bank := questions.NewBank(fixedRand{})
		return game.New(fixedRand{}, bank, nil, game.DefaultBoardSize, game.DefaultMaxPlayers)
	})
}

func TestManager_AddGetRemove(t *testing.T) {
	manager := newTestManager()
	sess := NewSession("s1", nil)

	manager.Add(sess)

	got, exists := manager.Get("s1")
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if got != sess {
		t.Error("Get should return the same session instance")
	}

	manager.Remove("s1")
	if _, exists := manager.Get("s1"); exists {
		t.Error("Removed session should not be found")
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := newTestManager()

	sess, created := manager.GetOrCreate("")
	if !created {
		t.Fatal("Expected a new session for an empty ID")
	}
	if sess.ID == "" {
		t.Fatal("New session must get an ID")
	}
	if sess.Game == nil {
		t.Fatal("New session must own a game")
	}
	if sess.Game.Phase() != game.PhaseSetup {
		t.Errorf("New game should start in setup, got %v", sess.Game.Phase())
	}

	again, created := manager.GetOrCreate(sess.ID)
	if created {
		t.Error("Known ID should not create a new session")
	}
	if again != sess {
		t.Error("Known ID should return the existing session")
	}

	_, created = manager.GetOrCreate("unknown-id")
	if !created {
		t.Error("Unknown ID should create a fresh session")
	}
	if manager.Count() != 2 {
		t.Errorf("Expected 2 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	manager := newTestManager()

	a, _ := manager.GetOrCreate("")
	b, _ := manager.GetOrCreate("")

	a.Game.Setup([]string{"Alice"})

	if b.Game.Phase() != game.PhaseSetup {
		t.Error("Setting up one session's game must not affect another")
	}
}

func TestManager_SweepIdle(t *testing.T) {
	manager := newTestManager()

	stale, _ := manager.GetOrCreate("")
	fresh, _ := manager.GetOrCreate("")

	stale.mutex.Lock()
	stale.LastActive = time.Now().Add(-2 * time.Hour)
	stale.mutex.Unlock()

	removed := manager.SweepIdle(time.Hour)
	if removed != 1 {
		t.Fatalf("Expected 1 swept session, got %d", removed)
	}
	if _, exists := manager.Get(stale.ID); exists {
		t.Error("Stale session should have been removed")
	}
	if _, exists := manager.Get(fresh.ID); !exists {
		t.Error("Fresh session should survive the sweep")
	}
}

func TestSession_Touch(t *testing.T) {
	sess := NewSession("s1", nil)

	sess.mutex.Lock()
	sess.LastActive = time.Now().Add(-time.Hour)
	sess.mutex.Unlock()

	sess.Touch()

	if idle := sess.IdleSince(time.Now()); idle > time.Minute {
		t.Errorf("Touch should reset idle time, got %v", idle)
	}
}
