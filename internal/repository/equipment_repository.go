package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hpdsk/helpdesk-service/internal/domain"
)

// EquipmentFilter narrows inventory listings.
type EquipmentFilter struct {
	Statuses []domain.EquipmentStatus
	Types    []domain.EquipmentType
}

// EquipmentRepository encapsulates inventory persistence.
type EquipmentRepository interface {
	Create(ctx context.Context, item *domain.EquipmentItem) error
	Update(ctx context.Context, item *domain.EquipmentItem) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.EquipmentItem, error)
	List(ctx context.Context, filter EquipmentFilter) ([]domain.EquipmentItem, error)
}

type equipmentRepository struct {
	pool *pgxpool.Pool
}

// NewEquipmentRepository instantiates repository.
func NewEquipmentRepository(pool *pgxpool.Pool) EquipmentRepository {
	return &equipmentRepository{pool: pool}
}

const equipmentColumns = `id, name, type, serial_number, patrimony_number, status, location,
        assigned_to_user_name, supplier, purchase_date, warranty_end_date, purchase_value, notes,
        created_at, updated_at`

func (r *equipmentRepository) Create(ctx context.Context, item *domain.EquipmentItem) error {
	const query = `
        INSERT INTO equipment_items (name, type, serial_number, patrimony_number, status, location,
            assigned_to_user_name, supplier, purchase_date, warranty_end_date, purchase_value, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.Name,
		item.Type,
		item.SerialNumber,
		item.PatrimonyNumber,
		item.Status,
		item.Location,
		item.AssignedToUserName,
		item.Supplier,
		item.PurchaseDate,
		item.WarrantyEndDate,
		item.PurchaseValue,
		item.Notes,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *equipmentRepository) Update(ctx context.Context, item *domain.EquipmentItem) error {
	const query = `
        UPDATE equipment_items SET name=$1, type=$2, serial_number=$3, patrimony_number=$4, status=$5,
            location=$6, assigned_to_user_name=$7, supplier=$8, purchase_date=$9, warranty_end_date=$10,
            purchase_value=$11, notes=$12, updated_at=NOW()
        WHERE id=$13
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		item.Name,
		item.Type,
		item.SerialNumber,
		item.PatrimonyNumber,
		item.Status,
		item.Location,
		item.AssignedToUserName,
		item.Supplier,
		item.PurchaseDate,
		item.WarrantyEndDate,
		item.PurchaseValue,
		item.Notes,
		item.ID,
	).Scan(&item.UpdatedAt)
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM equipment_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.EquipmentItem, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment_items WHERE id=$1`
	var item domain.EquipmentItem
	if err := scanEquipment(r.pool.QueryRow(ctx, query, id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *equipmentRepository) List(ctx context.Context, filter EquipmentFilter) ([]domain.EquipmentItem, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment_items`
	args := []any{}
	clauses := []string{}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, typ := range filter.Types {
			args = append(args, typ)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EquipmentItem
	for rows.Next() {
		var item domain.EquipmentItem
		if err := scanEquipment(rows, &item); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func scanEquipment(row pgx.Row, item *domain.EquipmentItem) error {
	return row.Scan(
		&item.ID,
		&item.Name,
		&item.Type,
		&item.SerialNumber,
		&item.PatrimonyNumber,
		&item.Status,
		&item.Location,
		&item.AssignedToUserName,
		&item.Supplier,
		&item.PurchaseDate,
		&item.WarrantyEndDate,
		&item.PurchaseValue,
		&item.Notes,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}
