package dto

import (
	"time"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// EquipmentRequest payload for create and update.
type EquipmentRequest struct {
	Name               string                 `json:"name"`
	Type               domain.EquipmentType   `json:"type"`
	SerialNumber       *string                `json:"serial_number"`
	PatrimonyNumber    *string                `json:"patrimony_number"`
	Status             domain.EquipmentStatus `json:"status"`
	Location           *string                `json:"location"`
	AssignedToUserName *string                `json:"assigned_to_user_name"`
	Supplier           *string                `json:"supplier"`
	PurchaseDate       *time.Time             `json:"purchase_date"`
	WarrantyEndDate    *time.Time             `json:"warranty_end_date"`
	PurchaseValue      *float64               `json:"purchase_value"`
	Notes              *string                `json:"notes"`
}

// EquipmentResponse response.
type EquipmentResponse struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	Type               domain.EquipmentType   `json:"type"`
	SerialNumber       *string                `json:"serial_number"`
	PatrimonyNumber    *string                `json:"patrimony_number"`
	Status             domain.EquipmentStatus `json:"status"`
	Location           *string                `json:"location"`
	AssignedToUserName *string                `json:"assigned_to_user_name"`
	Supplier           *string                `json:"supplier"`
	PurchaseDate       *time.Time             `json:"purchase_date"`
	WarrantyEndDate    *time.Time             `json:"warranty_end_date"`
	PurchaseValue      *float64               `json:"purchase_value"`
	Notes              *string                `json:"notes"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// ToDomain maps the request onto a domain equipment item.
func (r *EquipmentRequest) ToDomain(id string) *domain.EquipmentItem {
	return &domain.EquipmentItem{
		ID:                 id,
		Name:               r.Name,
		Type:               r.Type,
		SerialNumber:       r.SerialNumber,
		PatrimonyNumber:    r.PatrimonyNumber,
		Status:             r.Status,
		Location:           r.Location,
		AssignedToUserName: r.AssignedToUserName,
		Supplier:           r.Supplier,
		PurchaseDate:       r.PurchaseDate,
		WarrantyEndDate:    r.WarrantyEndDate,
		PurchaseValue:      r.PurchaseValue,
		Notes:              r.Notes,
	}
}

// NewEquipmentResponse maps a domain equipment item.
func NewEquipmentResponse(item *domain.EquipmentItem) EquipmentResponse {
	return EquipmentResponse{
		ID:                 item.ID,
		Name:               item.Name,
		Type:               item.Type,
		SerialNumber:       item.SerialNumber,
		PatrimonyNumber:    item.PatrimonyNumber,
		Status:             item.Status,
		Location:           item.Location,
		AssignedToUserName: item.AssignedToUserName,
		Supplier:           item.Supplier,
		PurchaseDate:       item.PurchaseDate,
		WarrantyEndDate:    item.WarrantyEndDate,
		PurchaseValue:      item.PurchaseValue,
		Notes:              item.Notes,
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
}
