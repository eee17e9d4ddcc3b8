// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/wfunc/quizboard/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.GormPlayer{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// RecordGameResult 记录一局游戏结果（事务）
func (p *GormPostgreSQL) RecordGameResult(winnerName string, participantNames []string) error {
	if len(participantNames) == 0 {
		return ErrNoParticipants
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		for _, name := range participantNames {
			player := models.GormPlayer{Name: name}
			// Insert-or-ignore: an existing row keeps its counters.
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&player).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.GormPlayer{}).
			Where("name IN ?", participantNames).
			Update("games_played", gorm.Expr("games_played + 1")).Error; err != nil {
			return err
		}

		return tx.Model(&models.GormPlayer{}).
			Where("name = ?", winnerName).
			Update("wins", gorm.Expr("wins + 1")).Error
	})
}

// rankedScores 按战绩排序读取玩家，limit <= 0 表示不限制
func (p *GormPostgreSQL) rankedScores(limit int) ([]models.ScoreboardEntry, error) {
	var players []models.GormPlayer
	query := p.db.Order("wins DESC, name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&players).Error; err != nil {
		return nil, err
	}

	entries := make([]models.ScoreboardEntry, 0, len(players))
	for _, player := range players {
		entries = append(entries, models.ScoreboardEntry{
			Name:        player.Name,
			Wins:        player.Wins,
			GamesPlayed: player.GamesPlayed,
			WinRate:     player.WinRate(),
		})
	}
	return entries, nil
}

// TopScoreboard 获取排行榜
func (p *GormPostgreSQL) TopScoreboard(limit int) ([]models.ScoreboardEntry, error) {
	return p.rankedScores(limit)
}

// AllScores 获取全部战绩（导出用）
func (p *GormPostgreSQL) AllScores() ([]models.ScoreboardEntry, error) {
	return p.rankedScores(0)
}

// RestoreScores 恢复导入的战绩（事务）
func (p *GormPostgreSQL) RestoreScores(entries []models.ScoreboardEntry) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			player := models.GormPlayer{
				Name:        e.Name,
				Wins:        e.Wins,
				GamesPlayed: e.GamesPlayed,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"wins", "games_played", "updated_at"}),
			}).Create(&player).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteAll 清空排行榜
func (p *GormPostgreSQL) DeleteAll() error {
	return p.db.Exec("DELETE FROM players").Error
}

// DeleteByName 删除单个玩家（精确匹配）
func (p *GormPostgreSQL) DeleteByName(name string) error {
	return p.db.Where("name = ?", name).Delete(&models.GormPlayer{}).Error
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
