// services/score_service.go
package services

import (
	"time"

	"github.com/wfunc/quizboard/broadcast"
	"github.com/wfunc/quizboard/logger"
	"github.com/wfunc/quizboard/models"
	"github.com/wfunc/quizboard/persistence"
)

// ScoreService bridges terminal game states to the score store and
// fans fresh standings out to scoreboard watchers.
type ScoreService struct {
	db          persistence.Database
	broadcaster broadcast.Broadcaster
}

func NewScoreService(db persistence.Database) *ScoreService {
	return &ScoreService{db: db}
}

// WithBroadcaster attaches a watcher feed. Optional.
func (s *ScoreService) WithBroadcaster(b broadcast.Broadcaster) *ScoreService {
	s.broadcaster = b
	return s
}

// RecordGameResult persists a completed game: every participant's
// games_played goes up by one, the winner's wins by one, missing rows
// are created, all atomically. Implements the game recorder interface.
func (s *ScoreService) RecordGameResult(winnerName string, participantNames []string) error {
	if err := s.db.RecordGameResult(winnerName, participantNames); err != nil {
		return err
	}

	if s.broadcaster != nil {
		result := models.GameResult{
			Winner:       winnerName,
			Participants: participantNames,
			CompletedAt:  time.Now(),
		}
		if err := s.broadcaster.BroadcastGameEnd(result); err != nil {
			logger.Log.Warnf("Failed to broadcast game end: %v", err)
		}
		entries, err := s.db.TopScoreboard(50)
		if err != nil {
			logger.Log.Warnf("Failed to read scoreboard for broadcast: %v", err)
		} else if err := s.broadcaster.BroadcastScoreboard(entries); err != nil {
			logger.Log.Warnf("Failed to broadcast scoreboard: %v", err)
		}
	}

	return nil
}

// TopScoreboard returns the ranked standings, truncated to limit.
func (s *ScoreService) TopScoreboard(limit int) ([]models.ScoreboardEntry, error) {
	return s.db.TopScoreboard(limit)
}

// AllScores returns every player, ranked. Used for export.
func (s *ScoreService) AllScores() ([]models.ScoreboardEntry, error) {
	return s.db.AllScores()
}

// RestoreScores overwrites stored counters with imported ones.
func (s *ScoreService) RestoreScores(entries []models.ScoreboardEntry) error {
	return s.db.RestoreScores(entries)
}

// DeleteAll clears the scoreboard.
func (s *ScoreService) DeleteAll() error {
	return s.db.DeleteAll()
}

// DeleteByName removes one player by exact name.
func (s *ScoreService) DeleteByName(name string) error {
	return s.db.DeleteByName(name)
}
