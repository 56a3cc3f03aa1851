package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

func (r *Repository) CreateSchedule(s *domain.Schedule) error {
	query := `
		INSERT INTO schedules (user_id, shift_type_id, work_date, is_rest_day, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{s.UserID, s.ShiftTypeID, s.WorkDate, s.IsRestDay, s.Note}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleByID(id int64) (*domain.Schedule, error) {
	query := `
		SELECT user_id, shift_type_id, work_date, is_rest_day, note, created_at, version
		FROM schedules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	s := &domain.Schedule{
		ID: id,
	}

	dst := []any{&s.UserID, &s.ShiftTypeID, &s.WorkDate, &s.IsRestDay, &s.Note, &s.CreatedAt, &s.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return s, nil
}

// 调度器每个评估周期调用，返回当天的所有排班并附带用户信息，
// 用户信息用于判断该用户是否被停用
func (r *Repository) ListSchedulesByDate(date time.Time) ([]*domain.Schedule, error) {
	query := `
		SELECT s.id, s.user_id, s.shift_type_id, s.work_date, s.is_rest_day, s.note, s.created_at, s.version,
			u.username, u.full_name, u.email, u.is_admin, u.is_active, u.created_at, u.version
		FROM schedules s
		JOIN users u ON u.id = s.user_id
		WHERE s.work_date = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		s := &domain.Schedule{User: &domain.User{}}
		dst := []any{
			&s.ID, &s.UserID, &s.ShiftTypeID, &s.WorkDate, &s.IsRestDay, &s.Note, &s.CreatedAt, &s.Version,
			&s.User.Username, &s.User.FullName, &s.User.Email, &s.User.IsAdmin, &s.User.IsActive, &s.User.CreatedAt, &s.User.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		s.User.ID = s.UserID
		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// 日历视图使用，返回指定日期范围内的所有排班并附带班次信息
func (r *Repository) ListSchedulesByDateRange(start time.Time, end time.Time) ([]*domain.Schedule, error) {
	query := `
		SELECT s.id, s.user_id, s.shift_type_id, s.work_date, s.is_rest_day, s.note, s.created_at, s.version,
			u.username, u.full_name,
			st.id, st.name, st.start_time, st.end_time, st.color
		FROM schedules s
		JOIN users u ON u.id = s.user_id
		LEFT JOIN shift_types st ON st.id = s.shift_type_id
		WHERE s.work_date >= $1 AND s.work_date <= $2
		ORDER BY s.work_date, u.username
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		s := &domain.Schedule{User: &domain.User{}}
		var stID *int64
		var stName, stStartTime, stEndTime, stColor *string

		dst := []any{
			&s.ID, &s.UserID, &s.ShiftTypeID, &s.WorkDate, &s.IsRestDay, &s.Note, &s.CreatedAt, &s.Version,
			&s.User.Username, &s.User.FullName,
			&stID, &stName, &stStartTime, &stEndTime, &stColor,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		s.User.ID = s.UserID

		if stID != nil {
			s.ShiftType = &domain.ShiftType{
				ID:        *stID,
				Name:      *stName,
				StartTime: *stStartTime,
				EndTime:   *stEndTime,
				Color:     *stColor,
			}
		}

		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *Repository) UpdateSchedule(s *domain.Schedule) error {
	query := `
		UPDATE schedules
		SET
			shift_type_id = $1,
			is_rest_day = $2,
			note = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{s.ShiftTypeID, s.IsRestDay, s.Note, s.ID, s.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&s.CreatedAt, &s.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSchedule(id int64) error {
	query := `
		DELETE FROM schedules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

// 批量排班时用于跳过已有排班的日期
func (r *Repository) CheckScheduleExists(userID int64, date time.Time) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM schedules WHERE user_id = $1 AND work_date = $2)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, userID, date).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
