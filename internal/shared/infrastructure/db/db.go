package db

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Civilization/internal/shared/logs"
	"Civilization/internal/shared/serverconfig"
	"Civilization/modules/kit/logx"
)

const slowQuery = 200 * time.Millisecond

// Open 按 storage.driver 选择 mysql / postgres / sqlite。
func Open(cfg serverconfig.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logs.NewGormLogger(logx.NewZapLogger(logs.Logger()), logger.Warn, slowQuery),
	})
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Driver == "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.MySQL.MaxConn)
		sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdle)
	}

	logs.Info("open db success", zap.String("driver", cfg.Storage.Driver))
	return db, nil
}

func dialectorFor(cfg serverconfig.Config) (gorm.Dialector, error) {
	switch cfg.Storage.Driver {
	case "mysql":
		m := cfg.MySQL
		// username:password@protocol(address)/dbname?charset=utf8mb4&parseTime=True&loc=Local
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			m.User, m.Password, m.Host, m.Port, m.DBName, m.Charset)
		return mysql.Open(dsn), nil
	case "postgres":
		if cfg.Postgres.DSN == "" {
			return nil, errors.New("postgres dsn is empty")
		}
		return postgres.Open(cfg.Postgres.DSN), nil
	case "sqlite":
		path := cfg.SQLite.Path
		if path == "" {
			path = "file::memory:?cache=shared"
		}
		return sqlite.Open(path), nil
	}
	return nil, fmt.Errorf("storage driver %q is not a sql driver", cfg.Storage.Driver)
}
