package infra

import (
	"fmt"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// for all tables. gen_random_uuid() defaults require the pgcrypto extension on
// PostgreSQL < 13; it ships built-in from 13 on.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migraciones: %w", err)
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Also used by seed commands.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Usuario{},
		&model.Proveedor{},
		&model.Entrega{},
		&model.Prestamo{},
		&model.Liquidacion{},
		&model.DetalleLiquidacion{},
		&model.Abono{},
		&model.Caja{},
		&model.AlertaConciliacion{},
		&model.Recibo{},
	)
}
