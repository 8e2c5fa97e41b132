package cart

import (
	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/ClaudioDevv/e-commerce/services/customization"
)

// ResolveVariant returns the variant a line refers to. A product with active
// variants needs one of them; a product without variants accepts none.
func ResolveVariant(product *models.Product, variantID *string) (*models.ProductVariant, error) {
	active := product.ActiveVariants()

	if variantID == nil || *variantID == "" {
		if len(active) > 0 {
			return nil, apperror.Validation("you must choose a variant of %s", product.Name)
		}
		return nil, nil
	}

	for i := range active {
		if active[i].ID == *variantID {
			return &active[i], nil
		}
	}
	return nil, apperror.Validation("invalid variant for %s", product.Name)
}

type pair struct {
	id     uint
	action models.CustomizationAction
}

// SameCustomizations compares two customization lists as sets of
// (customizable, action) pairs; order is irrelevant.
func SameCustomizations(a []customization.Request, b []models.CartItemCustomization) bool {
	if len(a) != len(b) {
		return false
	}

	set := make(map[pair]struct{}, len(a))
	for _, r := range a {
		set[pair{r.CustomizableID, r.Action}] = struct{}{}
	}
	other := make(map[pair]struct{}, len(b))
	for _, c := range b {
		p := pair{c.CustomizableID, c.Action}
		if _, ok := set[p]; !ok {
			return false
		}
		other[p] = struct{}{}
	}
	return len(set) == len(other)
}

// FindIdentical returns the line of items that has the same product, variant and
// customization set, or nil.
func FindIdentical(items []models.CartItem, productID string, variantID *string, requests []customization.Request) *models.CartItem {
	for i := range items {
		item := &items[i]
		if item.ProductID != productID || !sameVariant(item.VariantID, variantID) {
			continue
		}
		if SameCustomizations(requests, item.Customizations) {
			return item
		}
	}
	return nil
}

func sameVariant(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func customizationRows(applied []customization.Applied) []models.CartItemCustomization {
	rows := make([]models.CartItemCustomization, 0, len(applied))
	for _, a := range applied {
		rows = append(rows, models.CartItemCustomization{
			CustomizableID: a.Customizable.ID,
			Action:         a.Action,
			Customizable:   a.Customizable,
		})
	}
	return rows
}
