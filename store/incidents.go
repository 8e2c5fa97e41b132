package store

import (
	"context"
	"fmt"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/models"
)

func (s *Store) RecordIncident(ctx context.Context, incident *models.PaymentIncident) error {
	if err := s.conn(ctx).Create(incident).Error; err != nil {
		return fmt.Errorf("record incident: %w", err)
	}
	return nil
}

// ListIncidents returns incidents newest first. With unresolvedOnly, resolved
// ones are left out.
func (s *Store) ListIncidents(ctx context.Context, unresolvedOnly bool) ([]models.PaymentIncident, error) {
	query := s.conn(ctx).Order("created_at DESC").Order("id DESC")
	if unresolvedOnly {
		query = query.Where("resolved = ?", false)
	}

	var incidents []models.PaymentIncident
	if err := query.Find(&incidents).Error; err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return incidents, nil
}

func (s *Store) ResolveIncident(ctx context.Context, id uint) error {
	res := s.conn(ctx).Model(&models.PaymentIncident{}).Where("id = ?", id).Update("resolved", true)
	if res.Error != nil {
		return fmt.Errorf("resolve incident: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("incident not found")
	}
	return nil
}
