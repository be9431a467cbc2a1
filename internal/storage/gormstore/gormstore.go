// Package gormstore implements storage.Storage on top of gorm, so the
// service can run against PostgreSQL as well as SQLite.
//
// The gorm model (row) is private to this package; handlers only ever see
// types.Persona.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aanand-mishra/personas-api/internal/config"
	"github.com/aanand-mishra/personas-api/internal/storage"
	"github.com/aanand-mishra/personas-api/internal/types"
)

// row is the persisted shape of a persona.
type row struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Nombre string `gorm:"size:100;not null"`
	Delito string `gorm:"size:250;not null"`
}

// TableName matches the table name used by the database/sql backend.
func (row) TableName() string { return "persona" }

func toRow(p types.Persona) row {
	return row{ID: p.ID, Nombre: p.Name, Delito: p.Offense}
}

func (r row) persona() types.Persona {
	return types.Persona{ID: r.ID, Name: r.Nombre, Offense: r.Delito}
}

// Store is a gorm-backed storage.Storage.
type Store struct {
	db *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

// Dialector picks the gorm dialector for the configured driver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.StorageDriver {
	case config.DriverGormSQLite:
		return gormsqlite.Open(cfg.StoragePath), nil
	case config.DriverGormPostgres:
		return postgres.Open(cfg.DatabaseDSN), nil
	default:
		return nil, fmt.Errorf("gormstore: unsupported storage driver %q", cfg.StorageDriver)
	}
}

// New opens the database described by cfg and migrates the persona table.
func New(cfg *config.Config) (*Store, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	return Open(dialector)
}

// Open connects through dialector and migrates the persona table.
func Open(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		// A missing persona is an expected outcome, not something to log.
		Logger: logger.New(log.New(os.Stderr, "gorm ", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore.Open: connect: %w", err)
	}

	if err := db.AutoMigrate(&row{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("gormstore.Open: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) CreatePersona(ctx context.Context, p types.Persona) (types.Persona, error) {
	r := toRow(p)
	r.ID = 0
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return types.Persona{}, storage.Wrap("CreatePersona", err)
	}
	return r.persona(), nil
}

func (s *Store) GetPersonaByID(ctx context.Context, id int64) (types.Persona, error) {
	var r row
	err := s.db.WithContext(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.Persona{}, fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Persona{}, storage.Wrap("GetPersonaByID", err)
	}
	return r.persona(), nil
}

func (s *Store) GetPersonas(ctx context.Context) ([]types.Persona, error) {
	var rows []row
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, storage.Wrap("GetPersonas", err)
	}

	personas := make([]types.Persona, 0, len(rows))
	for _, r := range rows {
		personas = append(personas, r.persona())
	}
	return personas, nil
}

func (s *Store) UpdatePersona(ctx context.Context, p types.Persona) error {
	// A map is used so that every column is written, even empty strings,
	// which Updates would skip for a struct argument.
	result := s.db.WithContext(ctx).
		Model(&row{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{"nombre": p.Name, "delito": p.Offense})
	if result.Error != nil {
		return storage.Wrap("UpdatePersona", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("id %d: %w", p.ID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) DeletePersonaByID(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&row{}, id)
	if result.Error != nil {
		return storage.Wrap("DeletePersonaByID", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("id %d: %w", id, storage.ErrNotFound)
	}
	return nil
}
