package db

import (
	"database/sql"
	"fmt"
	"time"

	"MuzBot/config"
	"MuzBot/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormDB is the GORM connection, used for schema migration.
var GormDB *gorm.DB

// DB is the underlying *sql.DB shared by the repositories.
var DB *sql.DB

// ConnectDB establishes the database connection and configures the pool.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB, err = GormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	DB.SetMaxIdleConns(10)
	DB.SetMaxOpenConns(100)
	DB.SetConnMaxLifetime(time.Hour)

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// InitDB migrates the schema, creating tables if they don't exist.
func InitDB() error {
	if GormDB == nil {
		return fmt.Errorf("database not connected")
	}
	err := GormDB.AutoMigrate(
		&model.User{},
		&model.Track{},
		&model.Collection{},
		&model.CollectionTrack{},
		&model.Download{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// CloseDB closes the database connection.
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
