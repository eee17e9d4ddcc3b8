package models

import (
	"time"
)

// QuestionItem is a single question/answer pair. Immutable once created.
type QuestionItem struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// PlayerToken is a player's in-session identity and board position.
// Not persisted; matched to a Player row by name at game completion.
type PlayerToken struct {
	Name string `json:"name"`
	Pos  int    `json:"pos"`
}

// ScoreboardEntry is one ranked row of the scoreboard. WinRate is derived
// at query time: round(100 * wins / games_played, 1), 0 when no games.
type ScoreboardEntry struct {
	Name        string  `json:"name"`
	Wins        int     `json:"wins"`
	GamesPlayed int     `json:"games_played"`
	WinRate     float64 `json:"win_rate"`
}

// GameResult is a terminal game outcome handed to the score store.
type GameResult struct {
	Winner       string    `json:"winner"`
	Participants []string  `json:"participants"`
	CompletedAt  time.Time `json:"completed_at"`
}
