package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/emmiamia/nourishsteps/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDatabase opens the process-wide connection once and migrates the schema.
func InitDatabase() *gorm.DB {
	if db != nil {
		return db
	}

	conn, err := OpenDatabase(Get())
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := Migrate(conn); err != nil {
		log.Fatalf("auto migration failed: %v", err)
	}
	db = conn
	return db
}

// OpenDatabase connects to the configured driver and tunes the pool.
func OpenDatabase(cfg AppConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	// Configure GORM logger: derive level from app LogLevel and raise slow-sql threshold to reduce noise
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// one writer at a time; sqlite serialises anyway
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	// Ping at startup so network or auth problems surface before the first query
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}

// Migrate creates or extends every table the API uses.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(models.All()...)
}

func dialectorFor(cfg AppConfig) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "sqlite", "":
		path := cfg.DatabaseURI
		if path == "" {
			path = cfg.SQLitePath
		}
		return sqlite.Open(path), nil
	case "mysql":
		dsn := cfg.DatabaseURI
		if dsn == "" {
			port := cfg.DBPort
			if port == "" {
				port = "3306"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				cfg.DBUser,
				cfg.DBPassword,
				cfg.DBHost,
				port,
				cfg.DBName,
			)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := cfg.DatabaseURI
		if dsn == "" {
			port := cfg.DBPort
			if port == "" {
				port = "5432"
			}
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				cfg.DBHost,
				cfg.DBUser,
				cfg.DBPassword,
				cfg.DBName,
				port,
			)
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL; use with caution
		return logger.Info
	case "info", "":
		// Suppress per-statement logs; keep warnings (including slow SQL)
		return logger.Warn
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// DB provides access to initialized gorm DB instance.
func DB() *gorm.DB {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}
