// services/csv.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wfunc/quizboard/models"
)

// scoreboardHeader is the exported column layout. win_rate_percent is
// derived and recomputed on import; only the counters round-trip.
var scoreboardHeader = []string{"name", "wins", "games_played", "win_rate_percent"}

// WriteScoreboardCSV writes the full ranked scoreboard in the export
// format.
func WriteScoreboardCSV(w io.Writer, entries []models.ScoreboardEntry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(scoreboardHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.Name,
			strconv.Itoa(e.Wins),
			strconv.Itoa(e.GamesPlayed),
			strconv.FormatFloat(e.WinRate, 'f', 1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ParseScoreboardCSV reads an exported scoreboard back in. The header
// must carry name, wins and games_played columns; rows with malformed
// counters or wins > games_played are dropped.
func ParseScoreboardCSV(r io.Reader) ([]models.ScoreboardEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty scoreboard file")
	}

	nameCol, winsCol, playedCol := -1, -1, -1
	for i, col := range records[0] {
		switch strings.TrimSpace(col) {
		case "name":
			nameCol = i
		case "wins":
			winsCol = i
		case "games_played":
			playedCol = i
		}
	}
	if nameCol == -1 || winsCol == -1 || playedCol == -1 {
		return nil, fmt.Errorf("missing name/wins/games_played columns")
	}

	var entries []models.ScoreboardEntry
	for _, row := range records[1:] {
		if nameCol >= len(row) || winsCol >= len(row) || playedCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		wins, err := strconv.Atoi(strings.TrimSpace(row[winsCol]))
		if err != nil || wins < 0 {
			continue
		}
		played, err := strconv.Atoi(strings.TrimSpace(row[playedCol]))
		if err != nil || played < 0 || wins > played {
			continue
		}
		entries = append(entries, models.ScoreboardEntry{
			Name:        name,
			Wins:        wins,
			GamesPlayed: played,
		})
	}
	return entries, nil
}
