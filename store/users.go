package store

import (
	"context"
	"fmt"

	"github.com/ClaudioDevv/e-commerce/models"
)

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// AddressByID only finds addresses owned by userID.
func (s *Store) AddressByID(ctx context.Context, userID, id string) (*models.Address, error) {
	var address models.Address
	if err := s.conn(ctx).First(&address, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, notFound(err, "address")
	}
	return &address, nil
}

// EnsureUser creates the account row for a token subject seen for the first time.
func (s *Store) EnsureUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if err := s.conn(ctx).Where("id = ?", user.ID).FirstOrCreate(user).Error; err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}
