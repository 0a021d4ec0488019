package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nikan-clinic/frontdesk/internal/domain"
)

// CatalogRepository reads the reference tables the front desk picks from.
// All catalog data is managed out of band; this API never writes it.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetSurgery(ctx context.Context, id uuid.UUID) (*domain.Surgery, error) {
	var s domain.Surgery
	var price int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, price, requires_hospital FROM surgeries WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &price, &s.RequiresHospital)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetSurgery: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetSurgery: %w", err)
	}
	s.Price = domain.Money(price)
	return &s, nil
}

func (r *CatalogRepository) ListSurgeries(ctx context.Context) ([]domain.Surgery, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price, requires_hospital FROM surgeries ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListSurgeries: %w", err)
	}
	defer rows.Close()

	var surgeries []domain.Surgery
	for rows.Next() {
		var s domain.Surgery
		var price int64
		if err := rows.Scan(&s.ID, &s.Name, &price, &s.RequiresHospital); err != nil {
			return nil, fmt.Errorf("ListSurgeries: %w", err)
		}
		s.Price = domain.Money(price)
		surgeries = append(surgeries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListSurgeries: %w", err)
	}
	return surgeries, nil
}

func (r *CatalogRepository) GetClinic(ctx context.Context, id uuid.UUID) (*domain.Clinic, error) {
	var c domain.Clinic
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, max_capacity FROM clinics WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.MaxCapacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetClinic: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetClinic: %w", err)
	}
	return &c, nil
}

func (r *CatalogRepository) ListClinics(ctx context.Context) ([]domain.Clinic, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, max_capacity FROM clinics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ListClinics: %w", err)
	}
	defer rows.Close()

	var clinics []domain.Clinic
	for rows.Next() {
		var c domain.Clinic
		if err := rows.Scan(&c.ID, &c.Name, &c.MaxCapacity); err != nil {
			return nil, fmt.Errorf("ListClinics: %w", err)
		}
		clinics = append(clinics, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListClinics: %w", err)
	}
	return clinics, nil
}

func (r *CatalogRepository) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM doctors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ListDoctors: %w", err)
	}
	defer rows.Close()

	var doctors []domain.Doctor
	for rows.Next() {
		var d domain.Doctor
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("ListDoctors: %w", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListDoctors: %w", err)
	}
	return doctors, nil
}

func (r *CatalogRepository) ListConsultants(ctx context.Context) ([]domain.Consultant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM consultants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ListConsultants: %w", err)
	}
	defer rows.Close()

	var consultants []domain.Consultant
	for rows.Next() {
		var c domain.Consultant
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("ListConsultants: %w", err)
		}
		consultants = append(consultants, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListConsultants: %w", err)
	}
	return consultants, nil
}

func (r *CatalogRepository) GetBankCard(ctx context.Context, id uuid.UUID) (*domain.BankCard, error) {
	var c domain.BankCard
	err := r.db.QueryRowContext(ctx,
		`SELECT id, masked_number, owner_name, bank_name FROM bank_cards WHERE id = $1`, id,
	).Scan(&c.ID, &c.MaskedNumber, &c.OwnerName, &c.BankName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetBankCard: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetBankCard: %w", err)
	}
	return &c, nil
}

func (r *CatalogRepository) ListBankCards(ctx context.Context) ([]domain.BankCard, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, masked_number, owner_name, bank_name FROM bank_cards ORDER BY owner_name, masked_number`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListBankCards: %w", err)
	}
	defer rows.Close()

	var cards []domain.BankCard
	for rows.Next() {
		var c domain.BankCard
		if err := rows.Scan(&c.ID, &c.MaskedNumber, &c.OwnerName, &c.BankName); err != nil {
			return nil, fmt.Errorf("ListBankCards: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListBankCards: %w", err)
	}
	return cards, nil
}
