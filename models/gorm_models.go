package models

import (
	"time"
)

// GormPlayer 玩家战绩模型
type GormPlayer struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Wins        int    `gorm:"not null;default:0"`
	GamesPlayed int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName keeps the table compatible with the original schema.
func (GormPlayer) TableName() string {
	return "players"
}

// WinRate returns the derived win percentage, rounded to one decimal.
func (p GormPlayer) WinRate() float64 {
	if p.GamesPlayed <= 0 {
		return 0
	}
	return float64(int(100*10*float64(p.Wins)/float64(p.GamesPlayed)+0.5)) / 10
}
