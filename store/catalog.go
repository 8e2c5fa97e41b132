package store

import (
	"context"
	"fmt"

	"github.com/ClaudioDevv/e-commerce/models"
)

// ProductByID loads a product with its variants and both customizable lists.
func (s *Store) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.conn(ctx).
		Preload("Variants").
		Preload("BaseCustomizables.Customizable").
		Preload("AvailableCustomizables.Customizable").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "product")
	}
	return &product, nil
}

// CustomizablesByIDs returns the customizables that exist, keyed by id. Missing
// ids are left out of the map.
func (s *Store) CustomizablesByIDs(ctx context.Context, ids []uint) (map[uint]models.Customizable, error) {
	out := make(map[uint]models.Customizable, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.Customizable
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load customizables: %w", err)
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}
