package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"werkzeugverwaltung/models"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c Config) DSN() string {
	ssl := c.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, ssl,
	)
}

// Connect opens the database and migrates the record and audit tables.
func Connect(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("database connected", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&row[models.EmployeeFields]{},
		&row[models.ToolFields]{},
		&row[models.LocationFields]{},
		&row[models.CheckoutFields]{},
		&row[models.ReturnFields]{},
		&models.MutationLog{},
	); err != nil {
		return err
	}

	// activity feed and list order
	for _, t := range []string{TableCheckouts, TableReturns} {
		if err := db.Exec(fmt.Sprintf(`
		  CREATE INDEX IF NOT EXISTS %s_created_at_desc
		  ON %s (created_at DESC);
		`, t, t)).Error; err != nil {
			return err
		}
	}
	return nil
}
