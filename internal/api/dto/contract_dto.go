package dto

import (
	"time"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// ContractRequest payload for create and update.
type ContractRequest struct {
	CompanyName            string     `json:"company_name"`
	ContractNumber         string     `json:"contract_number"`
	ProductOrServiceName   string     `json:"product_or_service_name"`
	ContractValue          float64    `json:"contract_value"`
	StartDate              time.Time  `json:"start_date"`
	RenewalOrExpiryDate    time.Time  `json:"renewal_or_expiry_date"`
	EndDate                *time.Time `json:"end_date"`
	Description            *string    `json:"description"`
	ExpiryNotificationDays int        `json:"expiry_notification_days"`
}

// ContractResponse response.
type ContractResponse struct {
	ID                     string     `json:"id"`
	CompanyName            string     `json:"company_name"`
	ContractNumber         string     `json:"contract_number"`
	ProductOrServiceName   string     `json:"product_or_service_name"`
	ContractValue          float64    `json:"contract_value"`
	StartDate              time.Time  `json:"start_date"`
	RenewalOrExpiryDate    time.Time  `json:"renewal_or_expiry_date"`
	EndDate                *time.Time `json:"end_date"`
	Description            *string    `json:"description"`
	ExpiryNotificationDays int        `json:"expiry_notification_days"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// ToDomain maps the request onto a domain contract.
func (r *ContractRequest) ToDomain(id string) *domain.Contract {
	return &domain.Contract{
		ID:                     id,
		CompanyName:            r.CompanyName,
		ContractNumber:         r.ContractNumber,
		ProductOrServiceName:   r.ProductOrServiceName,
		ContractValue:          r.ContractValue,
		StartDate:              r.StartDate,
		RenewalOrExpiryDate:    r.RenewalOrExpiryDate,
		EndDate:                r.EndDate,
		Description:            r.Description,
		ExpiryNotificationDays: r.ExpiryNotificationDays,
	}
}

// NewContractResponse maps a domain contract.
func NewContractResponse(contract *domain.Contract) ContractResponse {
	return ContractResponse{
		ID:                     contract.ID,
		CompanyName:            contract.CompanyName,
		ContractNumber:         contract.ContractNumber,
		ProductOrServiceName:   contract.ProductOrServiceName,
		ContractValue:          contract.ContractValue,
		StartDate:              contract.StartDate,
		RenewalOrExpiryDate:    contract.RenewalOrExpiryDate,
		EndDate:                contract.EndDate,
		Description:            contract.Description,
		ExpiryNotificationDays: contract.ExpiryNotificationDays,
		CreatedAt:              contract.CreatedAt,
		UpdatedAt:              contract.UpdatedAt,
	}
}
