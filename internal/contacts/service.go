package contacts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/retailnet/backend/pkg/db/models"
	pkgerrors "github.com/retailnet/backend/pkg/errors"
)

// ContactInput is the create/update payload for a delivery contact.
type ContactInput struct {
	City      string `json:"city" validate:"required"`
	Street    string `json:"street" validate:"required"`
	House     string `json:"house"`
	Structure string `json:"structure"`
	Building  string `json:"building"`
	Apartment string `json:"apartment"`
	Phone     string `json:"phone" validate:"required"`
}

// Service manages a user's delivery contacts. Every operation is scoped to
// the owner; foreign rows are indistinguishable from missing ones.
type Service struct {
	repo *Repository
}

// NewService builds the contacts service.
func NewService(repo *Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contacts repository required")
	}
	return &Service{repo: repo}, nil
}

// List returns the caller's contacts.
func (s *Service) List(ctx context.Context, userID uint) ([]models.Contact, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create stores a new contact for the caller.
func (s *Service) Create(ctx context.Context, userID uint, input ContactInput) (*models.Contact, error) {
	contact := &models.Contact{
		UserID:    userID,
		City:      input.City,
		Street:    input.Street,
		House:     input.House,
		Structure: input.Structure,
		Building:  input.Building,
		Apartment: input.Apartment,
		Phone:     input.Phone,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Update rewrites an owned contact.
func (s *Service) Update(ctx context.Context, userID, id uint, input ContactInput) (*models.Contact, error) {
	contact, err := s.repo.FindOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
		}
		return nil, err
	}
	contact.City = input.City
	contact.Street = input.Street
	contact.House = input.House
	contact.Structure = input.Structure
	contact.Building = input.Building
	contact.Apartment = input.Apartment
	contact.Phone = input.Phone
	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Delete removes the listed owned contacts and returns the deleted count.
func (s *Service) Delete(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one contact id is required")
	}
	return s.repo.DeleteOwned(ctx, userID, ids)
}
