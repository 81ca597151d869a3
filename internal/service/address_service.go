package service

import (
	"context"
	"storefront/internal/models"
	"storefront/internal/repository"
	"strings"

	"github.com/google/uuid"
)

type AddressInput struct {
	ReceiverName  string
	ReceiverPhone string
	Province      string
	City          string
	District      string
	Street        string
	DetailAddress string
	PostalCode    string
	Label         string
	IsDefault     bool
}

type AddressService interface {
	List(ctx context.Context) ([]models.Address, error)
	Create(ctx context.Context, in AddressInput) (*models.Address, error)
	Update(ctx context.Context, id uuid.UUID, in AddressInput) (*models.Address, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, id uuid.UUID) (*models.Address, error)
}

type addressService struct {
	repo *repository.Repository
}

func NewAddressService(repo *repository.Repository) AddressService {
	return &addressService{repo: repo}
}

func (s *addressService) List(ctx context.Context) ([]models.Address, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Addresses.ListByUser(ctx, userID)
}

func (s *addressService) Create(ctx context.Context, in AddressInput) (*models.Address, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateAddress(in); err != nil {
		return nil, err
	}

	a := &models.Address{
		UserID:        userID,
		ReceiverName:  strings.TrimSpace(in.ReceiverName),
		ReceiverPhone: strings.TrimSpace(in.ReceiverPhone),
		Province:      in.Province,
		City:          in.City,
		District:      in.District,
		Street:        in.Street,
		DetailAddress: in.DetailAddress,
		PostalCode:    in.PostalCode,
		Label:         in.Label,
		IsDefault:     in.IsDefault,
	}
	if err := s.repo.Addresses.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *addressService) Update(ctx context.Context, id uuid.UUID, in AddressInput) (*models.Address, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateAddress(in); err != nil {
		return nil, err
	}

	if in.IsDefault {
		if err := s.repo.Addresses.ClearDefault(ctx, userID); err != nil {
			return nil, err
		}
	}

	a, err := s.repo.Addresses.Update(ctx, id, userID, map[string]any{
		"receiver_name":  strings.TrimSpace(in.ReceiverName),
		"receiver_phone": strings.TrimSpace(in.ReceiverPhone),
		"province":       in.Province,
		"city":           in.City,
		"district":       in.District,
		"street":         in.Street,
		"detail_address": in.DetailAddress,
		"postal_code":    in.PostalCode,
		"label":          in.Label,
		"is_default":     in.IsDefault,
	})
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAddressNotFound
	}
	return a, nil
}

func (s *addressService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	ok, err := s.repo.Addresses.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAddressNotFound
	}
	return nil
}

func (s *addressService) SetDefault(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.repo.Addresses.SetDefault(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAddressNotFound
	}
	return a, nil
}

func validateAddress(in AddressInput) error {
	if strings.TrimSpace(in.ReceiverName) == "" ||
		strings.TrimSpace(in.ReceiverPhone) == "" ||
		in.Province == "" || in.City == "" || in.District == "" ||
		in.Street == "" || in.DetailAddress == "" {
		return ErrInvalidAddress
	}
	return nil
}
