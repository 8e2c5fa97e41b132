// Package customization decides which ingredient changes a product accepts.
package customization

import (
	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/ClaudioDevv/e-commerce/services/pricing"
)

// Request is one requested change on a line.
type Request struct {
	CustomizableID uint                       `json:"customizable_id" binding:"required"`
	Action         models.CustomizationAction `json:"action" binding:"required,oneof=ADD REMOVE"`
}

// Applied is a validated request resolved to its catalog record.
type Applied struct {
	Customizable models.Customizable
	Action       models.CustomizationAction
}

// IDs collects the customizable ids referenced by requests, for a single bulk lookup.
func IDs(requests []Request) []uint {
	ids := make([]uint, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.CustomizableID)
	}
	return ids
}

// Validate checks requested customizations against the product rules. known
// holds every customizable that could be referenced; unavailable entries may be
// present and are rejected here.
func Validate(product *models.Product, requests []Request, known map[uint]models.Customizable) ([]Applied, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	if !product.AllowCustomization {
		return nil, apperror.Validation("%s does not allow customization", product.Name)
	}

	seen := make(map[uint]struct{}, len(requests))
	for _, r := range requests {
		if _, dup := seen[r.CustomizableID]; dup {
			return nil, apperror.Validation("duplicate customizations are not allowed")
		}
		seen[r.CustomizableID] = struct{}{}
	}

	for _, r := range requests {
		if c, ok := known[r.CustomizableID]; !ok || !c.Available {
			return nil, apperror.Validation("some customization for %s is not available", product.Name)
		}
	}

	applied := make([]Applied, 0, len(requests))
	for _, r := range requests {
		c := known[r.CustomizableID]
		switch r.Action {
		case models.ActionRemove:
			base, included := findBase(product, r.CustomizableID)
			if !included {
				return nil, apperror.Validation("cannot remove %q: it is not included in %s", c.Name, product.Name)
			}
			if !base.IsRemovable {
				return nil, apperror.Validation("cannot remove %q from %s", c.Name, product.Name)
			}
		case models.ActionAdd:
			if !isAddable(product, r.CustomizableID) {
				return nil, apperror.Validation("cannot add %q to %s", c.Name, product.Name)
			}
		default:
			return nil, apperror.Validation("unknown customization action %q", r.Action)
		}

		applied = append(applied, Applied{Customizable: c, Action: r.Action})
	}
	return applied, nil
}

// Modifiers maps applied customizations to pricing input.
func Modifiers(applied []Applied) []pricing.Modifier {
	mods := make([]pricing.Modifier, 0, len(applied))
	for _, a := range applied {
		mods = append(mods, pricing.Modifier{ExtraPrice: a.Customizable.ExtraPrice, Action: a.Action})
	}
	return mods
}

func findBase(product *models.Product, id uint) (models.ProductBaseCustomizable, bool) {
	for _, bc := range product.BaseCustomizables {
		if bc.CustomizableID == id {
			return bc, true
		}
	}
	return models.ProductBaseCustomizable{}, false
}

func isAddable(product *models.Product, id uint) bool {
	for _, ac := range product.AvailableCustomizables {
		if ac.CustomizableID == id {
			return true
		}
	}
	return false
}
