package customization

import (
	"testing"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mozzarella uint = 1
	basil      uint = 2
	olives     uint = 3
	bacon      uint = 4
	truffle    uint = 5
)

func margherita() *models.Product {
	return &models.Product{
		ID:                 "p-margherita",
		Name:               "Margherita",
		BasePrice:          decimal.RequireFromString("8.50"),
		AllowCustomization: true,
		BaseCustomizables: []models.ProductBaseCustomizable{
			{CustomizableID: mozzarella, IsRemovable: false},
			{CustomizableID: basil, IsRemovable: true},
		},
		AvailableCustomizables: []models.ProductAvailableCustomizable{
			{CustomizableID: olives},
			{CustomizableID: bacon},
			{CustomizableID: truffle},
		},
	}
}

func catalog() map[uint]models.Customizable {
	return map[uint]models.Customizable{
		mozzarella: {ID: mozzarella, Name: "Mozzarella", ExtraPrice: decimal.RequireFromString("1.00"), Available: true},
		basil:      {ID: basil, Name: "Basil", ExtraPrice: decimal.RequireFromString("0.50"), Available: true},
		olives:     {ID: olives, Name: "Olives", ExtraPrice: decimal.RequireFromString("1.50"), Available: true},
		bacon:      {ID: bacon, Name: "Bacon", ExtraPrice: decimal.RequireFromString("2.00"), Available: true},
		truffle:    {ID: truffle, Name: "Truffle", ExtraPrice: decimal.RequireFromString("4.00"), Available: false},
	}
}

func TestValidate_EmptyListIsAlwaysValid(t *testing.T) {
	product := margherita()
	product.AllowCustomization = false

	applied, err := Validate(product, nil, nil)

	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestValidate_ResolvesRecords(t *testing.T) {
	applied, err := Validate(margherita(), []Request{
		{CustomizableID: olives, Action: models.ActionAdd},
		{CustomizableID: basil, Action: models.ActionRemove},
	}, catalog())

	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "Olives", applied[0].Customizable.Name)
	assert.Equal(t, models.ActionAdd, applied[0].Action)
	assert.Equal(t, "Basil", applied[1].Customizable.Name)
	assert.Equal(t, models.ActionRemove, applied[1].Action)
}

func TestValidate_Rejections(t *testing.T) {
	noCustomization := margherita()
	noCustomization.AllowCustomization = false

	cases := []struct {
		name     string
		product  *models.Product
		requests []Request
		message  string
	}{
		{
			name:     "customization not allowed",
			product:  noCustomization,
			requests: []Request{{CustomizableID: olives, Action: models.ActionAdd}},
			message:  "Margherita does not allow customization",
		},
		{
			name: "duplicate id",
			requests: []Request{
				{CustomizableID: olives, Action: models.ActionAdd},
				{CustomizableID: olives, Action: models.ActionRemove},
			},
			message: "duplicate customizations are not allowed",
		},
		{
			name:     "unknown customizable",
			requests: []Request{{CustomizableID: 99, Action: models.ActionAdd}},
			message:  "some customization for Margherita is not available",
		},
		{
			name:     "unavailable customizable",
			requests: []Request{{CustomizableID: truffle, Action: models.ActionAdd}},
			message:  "some customization for Margherita is not available",
		},
		{
			name:     "remove an ingredient that is not included",
			requests: []Request{{CustomizableID: bacon, Action: models.ActionRemove}},
			message:  `cannot remove "Bacon": it is not included in Margherita`,
		},
		{
			name:     "remove a fixed ingredient",
			requests: []Request{{CustomizableID: mozzarella, Action: models.ActionRemove}},
			message:  `cannot remove "Mozzarella" from Margherita`,
		},
		{
			name:     "add an extra that is not offered",
			requests: []Request{{CustomizableID: basil, Action: models.ActionAdd}},
			message:  `cannot add "Basil" to Margherita`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := tc.product
			if product == nil {
				product = margherita()
			}

			applied, err := Validate(product, tc.requests, catalog())

			require.Error(t, err)
			assert.Nil(t, applied)
			assert.True(t, apperror.Is(err, apperror.KindValidation))
			assert.Equal(t, tc.message, apperror.PublicMessage(err))
		})
	}
}

func TestModifiersAndIDs(t *testing.T) {
	requests := []Request{
		{CustomizableID: olives, Action: models.ActionAdd},
		{CustomizableID: basil, Action: models.ActionRemove},
	}
	assert.Equal(t, []uint{olives, basil}, IDs(requests))

	applied, err := Validate(margherita(), requests, catalog())
	require.NoError(t, err)

	mods := Modifiers(applied)
	require.Len(t, mods, 2)
	assert.True(t, mods[0].ExtraPrice.Equal(decimal.RequireFromString("1.50")))
	assert.Equal(t, models.ActionRemove, mods[1].Action)
}

func TestValidate_AvailabilityCheckedBeforeActions(t *testing.T) {
	_, err := Validate(margherita(), []Request{
		{CustomizableID: mozzarella, Action: models.ActionRemove},
		{CustomizableID: truffle, Action: models.ActionAdd},
	}, catalog())

	require.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "not available")
}
