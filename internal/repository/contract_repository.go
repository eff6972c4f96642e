package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// ContractRepository encapsulates contract persistence.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	Update(ctx context.Context, contract *domain.Contract) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Contract, error)
	List(ctx context.Context) ([]domain.Contract, error)
	ListExpiring(ctx context.Context, now time.Time) ([]domain.Contract, error)
}

type contractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository instantiates repository.
func NewContractRepository(pool *pgxpool.Pool) ContractRepository {
	return &contractRepository{pool: pool}
}

const contractColumns = `id, company_name, contract_number, product_or_service_name, contract_value,
        start_date, renewal_or_expiry_date, end_date, description, expiry_notification_days,
        created_at, updated_at`

func (r *contractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	const query = `
        INSERT INTO contracts (company_name, contract_number, product_or_service_name, contract_value,
            start_date, renewal_or_expiry_date, end_date, description, expiry_notification_days)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		contract.CompanyName,
		contract.ContractNumber,
		contract.ProductOrServiceName,
		contract.ContractValue,
		contract.StartDate,
		contract.RenewalOrExpiryDate,
		contract.EndDate,
		contract.Description,
		contract.ExpiryNotificationDays,
	).Scan(&contract.ID, &contract.CreatedAt, &contract.UpdatedAt)
}

func (r *contractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	const query = `
        UPDATE contracts SET company_name=$1, contract_number=$2, product_or_service_name=$3,
            contract_value=$4, start_date=$5, renewal_or_expiry_date=$6, end_date=$7, description=$8,
            expiry_notification_days=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		contract.CompanyName,
		contract.ContractNumber,
		contract.ProductOrServiceName,
		contract.ContractValue,
		contract.StartDate,
		contract.RenewalOrExpiryDate,
		contract.EndDate,
		contract.Description,
		contract.ExpiryNotificationDays,
		contract.ID,
	).Scan(&contract.UpdatedAt)
}

func (r *contractRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM contracts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id=$1`
	var contract domain.Contract
	if err := scanContract(r.pool.QueryRow(ctx, query, id), &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) List(ctx context.Context) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts ORDER BY renewal_or_expiry_date ASC`
	return r.queryContracts(ctx, query)
}

// ListExpiring returns contracts inside their per-contract notification
// window at the given instant.
func (r *contractRepository) ListExpiring(ctx context.Context, now time.Time) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
        WHERE renewal_or_expiry_date >= $1
          AND renewal_or_expiry_date <= $1 + make_interval(days => expiry_notification_days)
        ORDER BY renewal_or_expiry_date ASC`
	return r.queryContracts(ctx, query, now)
}

func (r *contractRepository) queryContracts(ctx context.Context, query string, args ...any) ([]domain.Contract, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contract
	for rows.Next() {
		var contract domain.Contract
		if err := scanContract(rows, &contract); err != nil {
			return nil, err
		}
		result = append(result, contract)
	}
	return result, rows.Err()
}

func scanContract(row pgx.Row, contract *domain.Contract) error {
	return row.Scan(
		&contract.ID,
		&contract.CompanyName,
		&contract.ContractNumber,
		&contract.ProductOrServiceName,
		&contract.ContractValue,
		&contract.StartDate,
		&contract.RenewalOrExpiryDate,
		&contract.EndDate,
		&contract.Description,
		&contract.ExpiryNotificationDays,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	)
}
