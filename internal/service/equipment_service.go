package service

import (
	"context"
	"strings"

	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/repository"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// EquipmentService exposes CRUD over inventory assets.
type EquipmentService struct {
	equipment repository.EquipmentRepository
}

// NewEquipmentService constructs the equipment service.
func NewEquipmentService(equipment repository.EquipmentRepository) *EquipmentService {
	return &EquipmentService{equipment: equipment}
}

func (s *EquipmentService) Create(ctx context.Context, item *domain.EquipmentItem) (*domain.EquipmentItem, error) {
	if err := validateEquipment(item); err != nil {
		return nil, err
	}
	if err := s.equipment.Create(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

func (s *EquipmentService) Update(ctx context.Context, item *domain.EquipmentItem) (*domain.EquipmentItem, error) {
	if strings.TrimSpace(item.ID) == "" {
		return nil, apperrors.NewValidationError("equipment id required", nil)
	}
	if err := validateEquipment(item); err != nil {
		return nil, err
	}
	if err := s.equipment.Update(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

func (s *EquipmentService) Delete(ctx context.Context, id string) error {
	if err := s.equipment.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *EquipmentService) Get(ctx context.Context, id string) (*domain.EquipmentItem, error) {
	item, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

func (s *EquipmentService) List(ctx context.Context, filter repository.EquipmentFilter) ([]domain.EquipmentItem, error) {
	items, err := s.equipment.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

func validateEquipment(item *domain.EquipmentItem) error {
	item.Name = strings.TrimSpace(item.Name)
	details := map[string]any{}
	if item.Name == "" {
		details["name"] = "required"
	}
	if !validEquipmentType(item.Type) {
		details["type"] = "invalid"
	}
	if !validEquipmentStatus(item.Status) {
		details["status"] = "invalid"
	}
	if item.PurchaseValue != nil && *item.PurchaseValue < 0 {
		details["purchase_value"] = "must be >= 0"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid equipment payload", details)
	}
	return nil
}

func validEquipmentType(t domain.EquipmentType) bool {
	for _, candidate := range domain.EquipmentTypes() {
		if candidate == t {
			return true
		}
	}
	return false
}

func validEquipmentStatus(status domain.EquipmentStatus) bool {
	switch status {
	case domain.EquipmentInStock, domain.EquipmentInUse, domain.EquipmentInMaintenance,
		domain.EquipmentLoaned, domain.EquipmentDiscarded, domain.EquipmentOrdered,
		domain.EquipmentLost:
		return true
	}
	return false
}
