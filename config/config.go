package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string        `mapstructure:"http_address"`
	MetricsAddress string        `mapstructure:"metrics_address"`
	RPCAddress     string        `mapstructure:"rpc_address"`
	SessionTimeout time.Duration `mapstructure:"session_timeout"`
}

type DatabaseConfig struct {
	// Driver selects the store implementation: "gorm" or "pq".
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type AdminConfig struct {
	// Token guards the administrative endpoints. An empty token makes
	// them permanently unavailable, never silently open.
	Token string `mapstructure:"token"`
}

type GameConfig struct {
	BoardSize   int `mapstructure:"board_size"`
	MaxPlayers  int `mapstructure:"max_players"`
	QuestionCap int `mapstructure:"question_cap"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("QUIZBOARD")
	viper.AutomaticEnv()

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.session_timeout", time.Hour)
	viper.SetDefault("database.driver", "gorm")
	viper.SetDefault("database.postgres.host", "localhost")
	viper.SetDefault("database.postgres.port", 5432)
	viper.SetDefault("database.postgres.user", "quizboard")
	viper.SetDefault("database.postgres.password", "")
	viper.SetDefault("database.postgres.dbname", "quizboard")
	viper.SetDefault("admin.token", "")
	viper.SetDefault("game.board_size", 24)
	viper.SetDefault("game.max_players", 4)
	viper.SetDefault("game.question_cap", 300)

	// The config file is optional; defaults plus QUIZBOARD_* env
	// variables are enough to run.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
