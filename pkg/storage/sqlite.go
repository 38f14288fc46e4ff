package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tb0hdan/kali-mcp/pkg/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SQLiteStorage struct {
	db *gorm.DB
}

type Config struct {
	DatabasePath string
	Debug        bool
}

func NewSQLiteStorage(cfg Config) (*SQLiteStorage, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := database.AutoMigrate(&models.Invocation{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStorage{db: database}, nil
}

func (s *SQLiteStorage) CreateInvocation(ctx context.Context, inv *models.Invocation) error {
	return s.db.WithContext(ctx).Create(inv).Error
}

func (s *SQLiteStorage) GetInvocation(ctx context.Context, id uint) (*models.Invocation, error) {
	var inv models.Invocation
	if err := s.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &inv, nil
}

func (s *SQLiteStorage) GetInvocationByUUID(ctx context.Context, uuid string) (*models.Invocation, error) {
	var inv models.Invocation
	if err := s.db.WithContext(ctx).Where("uuid = ?", uuid).First(&inv).Error; err != nil {
		return nil, notFound(err)
	}
	return &inv, nil
}

func (s *SQLiteStorage) ListInvocations(ctx context.Context, limit, offset int) ([]models.Invocation, int64, error) {
	return s.list(s.db.WithContext(ctx).Model(&models.Invocation{}), limit, offset)
}

func (s *SQLiteStorage) ListInvocationsBySession(ctx context.Context, sessionID string) ([]models.Invocation, error) {
	var invocations []models.Invocation
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&invocations).Error
	return invocations, err
}

func (s *SQLiteStorage) ListInvocationsByTool(ctx context.Context, toolID string, limit, offset int) ([]models.Invocation, int64, error) {
	return s.list(s.db.WithContext(ctx).Model(&models.Invocation{}).Where("tool_id = ?", toolID), limit, offset)
}

func (s *SQLiteStorage) list(query *gorm.DB, limit, offset int) ([]models.Invocation, int64, error) {
	var invocations []models.Invocation
	var total int64

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invocations: %w", err)
	}

	query = query.Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&invocations).Error
	return invocations, total, err
}

func (s *SQLiteStorage) DeleteInvocation(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Invocation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteAllInvocations(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Invocation{}).Error
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
