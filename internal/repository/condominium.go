package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/entity"
)

// Condominium holds the fields accepted when registering a condominium.
type Condominium struct {
	Name             string
	CNPJ             string
	ManagementSystem string
	UnitType         string
	Trustee          string
	Phone            string
}

// CondominiumPatch updates the non-nil fields only.
type CondominiumPatch struct {
	Name             *string
	CNPJ             *string
	ManagementSystem *string
	UnitType         *string
	Trustee          *string
	Phone            *string
}

func (p CondominiumPatch) Empty() bool {
	return p == CondominiumPatch{}
}

type CondominiumRepository interface {
	Create(ctx context.Context, c *Condominium) (*entity.Condominium, error)
	Get(ctx context.Context, id int64) (*entity.Condominium, error)
	List(ctx context.Context, search string) ([]*entity.Condominium, error)
	Update(ctx context.Context, id int64, patch CondominiumPatch) (*entity.Condominium, error)
}

type condominiumRepository struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

func NewCondominiumRepository(db *DB, logger *slog.Logger) CondominiumRepository {
	return &condominiumRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

const condominiumColumns = `id, name, cnpj, management_system, unit_type, trustee, phone, created_at, updated_at`

func (r *condominiumRepository) Create(ctx context.Context, c *Condominium) (*entity.Condominium, error) {
	now := r.now()
	var id int64
	err := r.db.QueryRowContext(ctx, r.db.rebind(`INSERT INTO condominiums
		(name, cnpj, management_system, unit_type, trustee, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		c.Name, c.CNPJ, c.ManagementSystem, c.UnitType, c.Trustee, c.Phone, now, now,
	).Scan(&id)
	if err != nil {
		r.logger.Error("failed to create condominium", "name", c.Name, "error", err)
		return nil, dbError("create condominium", err)
	}
	r.logger.Info("condominium created", "id", id, "name", c.Name)
	return &entity.Condominium{
		ID:               id,
		Name:             c.Name,
		CNPJ:             c.CNPJ,
		ManagementSystem: c.ManagementSystem,
		UnitType:         c.UnitType,
		Trustee:          c.Trustee,
		Phone:            c.Phone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (r *condominiumRepository) Get(ctx context.Context, id int64) (*entity.Condominium, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(`SELECT `+condominiumColumns+` FROM condominiums WHERE id = ?`), id)
	c, err := scanCondominium(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("NOT_FOUND", fmt.Sprintf("condominium %d not found", id), common.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("get condominium", err)
	}
	return c, nil
}

// List returns every condominium ordered by name. search matches name or CNPJ, case-insensitive.
func (r *condominiumRepository) List(ctx context.Context, search string) ([]*entity.Condominium, error) {
	q := `SELECT ` + condominiumColumns + ` FROM condominiums`
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		q += ` WHERE LOWER(name) LIKE ? OR cnpj LIKE ?`
		pattern := "%" + strings.ToLower(s) + "%"
		args = append(args, pattern, pattern)
	}
	q += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, r.db.rebind(q), args...)
	if err != nil {
		return nil, dbError("list condominiums", err)
	}
	defer rows.Close()

	out := []*entity.Condominium{}
	for rows.Next() {
		c, err := scanCondominium(rows)
		if err != nil {
			return nil, dbError("scan condominium", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list condominiums", err)
	}
	return out, nil
}

func (r *condominiumRepository) Update(ctx context.Context, id int64, patch CondominiumPatch) (*entity.Condominium, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return c, nil
	}

	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&c.Name, patch.Name)
	apply(&c.CNPJ, patch.CNPJ)
	apply(&c.ManagementSystem, patch.ManagementSystem)
	apply(&c.UnitType, patch.UnitType)
	apply(&c.Trustee, patch.Trustee)
	apply(&c.Phone, patch.Phone)
	c.UpdatedAt = r.now()

	_, err = r.db.ExecContext(ctx, r.db.rebind(`UPDATE condominiums SET
		name = ?, cnpj = ?, management_system = ?, unit_type = ?, trustee = ?, phone = ?, updated_at = ?
		WHERE id = ?`),
		c.Name, c.CNPJ, c.ManagementSystem, c.UnitType, c.Trustee, c.Phone, c.UpdatedAt, id,
	)
	if err != nil {
		r.logger.Error("failed to update condominium", "id", id, "error", err)
		return nil, dbError("update condominium", err)
	}
	r.logger.Info("condominium updated", "id", id)
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCondominium(s scanner) (*entity.Condominium, error) {
	var c entity.Condominium
	if err := s.Scan(&c.ID, &c.Name, &c.CNPJ, &c.ManagementSystem, &c.UnitType, &c.Trustee, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func dbError(op string, err error) error {
	return common.NewAppError("DB_ERROR", op, fmt.Errorf("%w: %w", common.ErrDatabase, err))
}
