package db

import (
	"log"
	"time"

	"crediflow-backend/internal/domain/application"
	"crediflow-backend/internal/domain/audit"
	"crediflow-backend/internal/domain/document"
	"crediflow-backend/internal/domain/verification"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}

// Migrate creates or updates the intake tables. Verification records and
// audit entries are retained forever, so there is no down path.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&application.Application{},
		&document.Document{},
		&verification.Record{},
		&audit.Entry{},
	)
}
