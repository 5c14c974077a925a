package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"daily/config"
	"daily/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init 打开数据库连接、迁移表结构并写入初始化数据
func Init(ctx context.Context, cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	db, err := Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("迁移数据库失败: %w", err)
	}
	if cfg.Seed.Enabled {
		if err := Seed(ctx, db, cfg.Seed, log); err != nil {
			return nil, fmt.Errorf("初始化数据失败: %w", err)
		}
	}
	return db, nil
}

// Open 按配置选择驱动建立连接
func Open(cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   NewLogger(log, cfg.LogLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	maxIdle, maxOpen := cfg.MaxIdle, cfg.MaxOpen
	if maxIdle <= 0 {
		maxIdle = 10
	}
	if maxOpen <= 0 {
		maxOpen = 100
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("数据库连接成功", "driver", cfg.Driver, "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}

// Dialector 构建 gorm 方言
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql", "":
		charset := cfg.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		// clientFoundRows: RowsAffected 按匹配行计数，写入相同值时不会被误判为记录不存在
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local&clientFoundRows=true",
			cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, charset)
		return mysql.Open(dsn), nil
	case "postgres":
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName, sslmode)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// Models 需要迁移的全部模型
func Models() []any {
	return []any{
		&models.User{},
		&models.PasswordReset{},
		&models.BillCategory{},
		&models.NoteType{},
		&models.FoodCategory{},
		&models.Bill{},
		&models.Todo{},
		&models.Note{},
		&models.Food{},
		&models.Friend{},
		&models.Diary{},
		&models.Appearance{},
	}
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// NewLogger 将 gorm 日志接入 slog
func NewLogger(log *slog.Logger, level string) logger.Interface {
	lvl := logger.Warn
	switch level {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info", "debug":
		lvl = logger.Info
	}
	return logger.New(slog.NewLogLogger(log.Handler(), slog.LevelInfo), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}
