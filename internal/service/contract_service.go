package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hpdsk/helpdesk-service/internal/domain"
	"github.com/hpdsk/helpdesk-service/internal/events"
	"github.com/hpdsk/helpdesk-service/internal/repository"
	apperrors "github.com/hpdsk/helpdesk-service/pkg/util"
)

// ContractService exposes CRUD over vendor contracts plus the expiry view.
type ContractService struct {
	contracts  repository.ContractRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewContractService constructs the contract service.
func NewContractService(contracts repository.ContractRepository, dispatcher events.Dispatcher) *ContractService {
	return &ContractService{contracts: contracts, dispatcher: dispatcher, now: time.Now}
}

func (s *ContractService) Create(ctx context.Context, contract *domain.Contract) (*domain.Contract, error) {
	if err := validateContract(contract); err != nil {
		return nil, err
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, apperrors.MapError(err)
	}
	return contract, nil
}

func (s *ContractService) Update(ctx context.Context, contract *domain.Contract) (*domain.Contract, error) {
	if strings.TrimSpace(contract.ID) == "" {
		return nil, apperrors.NewValidationError("contract id required", nil)
	}
	if err := validateContract(contract); err != nil {
		return nil, err
	}
	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, apperrors.MapError(err)
	}
	return contract, nil
}

func (s *ContractService) Delete(ctx context.Context, id string) error {
	if err := s.contracts.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *ContractService) Get(ctx context.Context, id string) (*domain.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context) ([]domain.Contract, error) {
	contracts, err := s.contracts.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return contracts, nil
}

// ListExpiring returns contracts inside their notification window at the
// current instant and announces each one.
func (s *ContractService) ListExpiring(ctx context.Context) ([]domain.Contract, error) {
	now := s.now()
	contracts, err := s.contracts.ListExpiring(ctx, now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.dispatcher != nil {
		for _, contract := range contracts {
			_ = s.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventContractExpiring,
				Timestamp: now,
				Payload: events.ContractExpiringPayload{
					ContractID:     contract.ID,
					CompanyName:    contract.CompanyName,
					ContractNumber: contract.ContractNumber,
					ExpiresAt:      contract.RenewalOrExpiryDate,
				},
			})
		}
	}
	return contracts, nil
}

func validateContract(contract *domain.Contract) error {
	contract.CompanyName = strings.TrimSpace(contract.CompanyName)
	contract.ContractNumber = strings.TrimSpace(contract.ContractNumber)
	contract.ProductOrServiceName = strings.TrimSpace(contract.ProductOrServiceName)
	details := map[string]any{}
	if contract.CompanyName == "" {
		details["company_name"] = "required"
	}
	if contract.ContractNumber == "" {
		details["contract_number"] = "required"
	}
	if contract.ProductOrServiceName == "" {
		details["product_or_service_name"] = "required"
	}
	if contract.ContractValue < 0 {
		details["contract_value"] = "must be >= 0"
	}
	if contract.ExpiryNotificationDays < 0 {
		details["expiry_notification_days"] = "must be >= 0"
	}
	if contract.StartDate.IsZero() {
		details["start_date"] = "required"
	}
	if contract.RenewalOrExpiryDate.IsZero() {
		details["renewal_or_expiry_date"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid contract payload", details)
	}
	return nil
}
