package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/ngrok/sqlmw"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/contentforge/article-engine/internal/config"
)

// pgx wrapped with the store's metric interceptor. database/sql forbids
// re-registering a driver name, hence the once.
const interceptedDriverName = "pgx-metrics"

var registerInterceptedDriver sync.Once

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dia gorm.Dialector

	if cfg.Database.Type == "pgsql" {
		dsn := fmt.Sprintf("host=%s user=%s password=%s port=%d",
			cfg.Database.Hostname,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Port,
		)
		if cfg.Database.Name != "" {
			dsn = fmt.Sprintf("%s dbname=%s", dsn, cfg.Database.Name)
		}

		registerInterceptedDriver.Do(func() {
			sql.Register(interceptedDriverName, sqlmw.Driver(stdlib.GetDefaultDriver(), &metricInterceptor{}))
		})
		sqlDB, err := sql.Open(interceptedDriverName, dsn)
		if err != nil {
			zap.S().Named("gorm").Errorf("failed to open database: %v", err)
			return nil, err
		}
		dia = postgres.New(postgres.Config{Conn: sqlDB})
	} else {
		dia = sqlite.Open(cfg.Database.Name)
	}

	newLogger := logger.New(
		logrus.New(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	newDB, err := gorm.Open(dia, &gorm.Config{Logger: newLogger, TranslateError: true})
	if err != nil {
		zap.S().Named("gorm").Errorf("failed to connect database: %v", err)
		return nil, err
	}

	sqlDB, err := newDB.DB()
	if err != nil {
		zap.S().Named("gorm").Errorf("failed to configure connections: %v", err)
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return newDB, nil
}
