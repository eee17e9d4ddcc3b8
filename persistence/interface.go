// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/quizboard/models"
)

// Database 数据库接口
type Database interface {
	// RecordGameResult creates missing participants, increments
	// games_played for every participant and wins for the winner, all
	// inside one transaction. Partial tallies are never left behind.
	RecordGameResult(winnerName string, participantNames []string) error

	// TopScoreboard returns players ordered by wins desc, name asc,
	// truncated to limit, with the derived win rate filled in.
	TopScoreboard(limit int) ([]models.ScoreboardEntry, error)

	// AllScores is the unbounded ranked read used for export.
	AllScores() ([]models.ScoreboardEntry, error)

	// RestoreScores upserts name/wins/games_played verbatim, in one
	// transaction. Used by the administrative import.
	RestoreScores(entries []models.ScoreboardEntry) error

	DeleteAll() error
	DeleteByName(name string) error
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
	ErrNoParticipants = fmt.Errorf("no participants in game result")
)
