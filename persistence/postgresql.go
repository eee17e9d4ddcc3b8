// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/quizboard/models"
)

// PostgreSQL 数据库实现（database/sql + lib/pq）
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS players (
            id SERIAL PRIMARY KEY,
            name VARCHAR(255) UNIQUE NOT NULL,
            wins INTEGER NOT NULL DEFAULT 0,
            games_played INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_players_name ON players(name);
        CREATE INDEX IF NOT EXISTS idx_players_wins ON players(wins DESC);
    `)

	return err
}

// RecordGameResult 记录一局游戏结果（事务）
func (p *PostgreSQL) RecordGameResult(winnerName string, participantNames []string) error {
	if len(participantNames) == 0 {
		return ErrNoParticipants
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range participantNames {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO players (name, wins, games_played)
            VALUES ($1, 0, 0)
            ON CONFLICT (name) DO NOTHING
        `, name)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
            UPDATE players
            SET games_played = games_played + 1, updated_at = CURRENT_TIMESTAMP
            WHERE name = $1
        `, name)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE players
        SET wins = wins + 1, updated_at = CURRENT_TIMESTAMP
        WHERE name = $1
    `, winnerName)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (p *PostgreSQL) queryScores(query string, args ...interface{}) ([]models.ScoreboardEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScoreboardEntry
	for rows.Next() {
		var e models.ScoreboardEntry
		if err := rows.Scan(&e.Name, &e.Wins, &e.GamesPlayed, &e.WinRate); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// TopScoreboard 获取排行榜
func (p *PostgreSQL) TopScoreboard(limit int) ([]models.ScoreboardEntry, error) {
	return p.queryScores(`
        SELECT name, wins, games_played,
               CASE WHEN games_played > 0
                    THEN ROUND(100.0 * wins / games_played, 1)
                    ELSE 0 END AS win_rate
        FROM players
        ORDER BY wins DESC, name ASC
        LIMIT $1
    `, limit)
}

// AllScores 获取全部战绩（导出用）
func (p *PostgreSQL) AllScores() ([]models.ScoreboardEntry, error) {
	return p.queryScores(`
        SELECT name, wins, games_played,
               CASE WHEN games_played > 0
                    THEN ROUND(100.0 * wins / games_played, 1)
                    ELSE 0 END AS win_rate
        FROM players
        ORDER BY wins DESC, name ASC
    `)
}

// RestoreScores 恢复导入的战绩（事务）
func (p *PostgreSQL) RestoreScores(entries []models.ScoreboardEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO players (name, wins, games_played)
            VALUES ($1, $2, $3)
            ON CONFLICT (name)
            DO UPDATE SET wins = $2, games_played = $3, updated_at = CURRENT_TIMESTAMP
        `, e.Name, e.Wins, e.GamesPlayed)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteAll 清空排行榜
func (p *PostgreSQL) DeleteAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.db.ExecContext(ctx, "DELETE FROM players")
	return err
}

// DeleteByName 删除单个玩家（精确匹配）
func (p *PostgreSQL) DeleteByName(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.db.ExecContext(ctx, "DELETE FROM players WHERE name = $1", name)
	return err
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
