package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClaudioDevv/e-commerce/models"
	"gorm.io/gorm"
)

// SpecialHoursByDate returns nil when the date has no override.
func (s *Store) SpecialHoursByDate(ctx context.Context, date string) (*models.SpecialHours, error) {
	var special models.SpecialHours
	err := s.conn(ctx).First(&special, "date = ?", date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load special hours: %w", err)
	}
	return &special, nil
}

func (s *Store) BusinessHoursByDay(ctx context.Context, day time.Weekday) ([]models.BusinessHours, error) {
	var shifts []models.BusinessHours
	err := s.conn(ctx).
		Where("day_of_week = ?", int(day)).
		Order("shift_order ASC").
		Find(&shifts).Error
	if err != nil {
		return nil, fmt.Errorf("load business hours: %w", err)
	}
	return shifts, nil
}

// ReplaceBusinessHours swaps the weekly shifts of one day.
func (s *Store) ReplaceBusinessHours(ctx context.Context, day time.Weekday, shifts []models.BusinessHours) error {
	return s.Atomic(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		if err := db.Where("day_of_week = ?", int(day)).Delete(&models.BusinessHours{}).Error; err != nil {
			return fmt.Errorf("clear business hours: %w", err)
		}
		if len(shifts) == 0 {
			return nil
		}
		for i := range shifts {
			shifts[i].ID = 0
			shifts[i].DayOfWeek = int(day)
			shifts[i].ShiftOrder = i + 1
		}
		if err := db.Create(&shifts).Error; err != nil {
			return fmt.Errorf("create business hours: %w", err)
		}
		return nil
	})
}

// SaveSpecialHours creates or replaces the override of special.Date.
func (s *Store) SaveSpecialHours(ctx context.Context, special *models.SpecialHours) error {
	return s.Atomic(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		if err := db.Where("date = ?", special.Date).Delete(&models.SpecialHours{}).Error; err != nil {
			return fmt.Errorf("clear special hours: %w", err)
		}
		special.ID = 0
		if err := db.Create(special).Error; err != nil {
			return fmt.Errorf("save special hours: %w", err)
		}
		return nil
	})
}

func (s *Store) Settings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := s.conn(ctx).First(&settings, "id = ?", models.DefaultSettings().ID).Error; err != nil {
		return nil, notFound(err, "settings")
	}
	return &settings, nil
}

func (s *Store) UpdateSettings(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.DefaultSettings().ID
	if err := s.conn(ctx).Save(settings).Error; err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
