package models

import (
	"testing"
)

func TestGormPlayer_WinRate(t *testing.T) {
	cases := []struct {
		name   string
		player GormPlayer
		want   float64
	}{
		{"no games", GormPlayer{Wins: 0, GamesPlayed: 0}, 0},
		{"all wins", GormPlayer{Wins: 4, GamesPlayed: 4}, 100},
		{"one third", GormPlayer{Wins: 1, GamesPlayed: 3}, 33.3},
		{"five sevenths", GormPlayer{Wins: 5, GamesPlayed: 7}, 71.4},
		{"two thirds rounds up", GormPlayer{Wins: 2, GamesPlayed: 3}, 66.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.player.WinRate(); got != tc.want {
				t.Errorf("WinRate() = %v, want %v", got, tc.want)
			}
		})
	}
}
