package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

func (r *Repository) CreateShiftType(st *domain.ShiftType) error {
	query := `
		INSERT INTO shift_types (name, start_time, end_time, color, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{st.Name, st.StartTime, st.EndTime, st.Color, st.Description}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.IsActive, &st.CreatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftType(id int64) (*domain.ShiftType, error) {
	query := `
		SELECT name, start_time, end_time, color, description, is_active, created_at, version
		FROM shift_types WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	st := &domain.ShiftType{
		ID: id,
	}

	dst := []any{&st.Name, &st.StartTime, &st.EndTime, &st.Color, &st.Description, &st.IsActive, &st.CreatedAt, &st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return st, nil
}

func (r *Repository) GetAllShiftTypes() ([]*domain.ShiftType, error) {
	query := `
		SELECT id, name, start_time, end_time, color, description, is_active, created_at, version
		FROM shift_types ORDER BY name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shiftTypes := make([]*domain.ShiftType, 0)
	for rows.Next() {
		st := &domain.ShiftType{}
		dst := []any{&st.ID, &st.Name, &st.StartTime, &st.EndTime, &st.Color, &st.Description, &st.IsActive, &st.CreatedAt, &st.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		shiftTypes = append(shiftTypes, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shiftTypes, nil
}

func (r *Repository) UpdateShiftType(st *domain.ShiftType) error {
	query := `
		UPDATE shift_types
		SET
			name = $1,
			start_time = $2,
			end_time = $3,
			color = $4,
			description = $5,
			is_active = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{st.Name, st.StartTime, st.EndTime, st.Color, st.Description, st.IsActive, st.ID, st.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&st.CreatedAt, &st.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftType(id int64) error {
	query := `
		DELETE FROM shift_types WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
