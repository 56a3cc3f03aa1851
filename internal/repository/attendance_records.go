package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

// 获取某个用户某天的考勤记录，不存在时惰性创建。
// 插入使用 ON CONFLICT DO NOTHING，并发评估同一 (用户, 日期) 时不会产生重复记录。
func (r *Repository) GetOrCreateAttendanceRecord(userID int64, date time.Time, shiftTypeID *int64) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	insert := `
		INSERT INTO attendance_records (user_id, work_date, shift_type_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, work_date) DO NOTHING
	`
	if _, err := r.dbpool.ExecContext(ctx, insert, userID, date, shiftTypeID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, shift_type_id, clock_in_status, clock_out_status, clock_in_reminded, clock_out_reminded, created_at, updated_at
		FROM attendance_records WHERE user_id = $1 AND work_date = $2
	`

	record := &domain.AttendanceRecord{
		UserID:   userID,
		WorkDate: date,
	}

	dst := []any{&record.ID, &record.ShiftTypeID, &record.ClockInStatus, &record.ClockOutStatus, &record.ClockInReminded, &record.ClockOutReminded, &record.CreatedAt, &record.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, userID, date).Scan(dst...); err != nil {
		return nil, err
	}

	return record, nil
}

// 只更新两个提醒标志列，打卡状态列由外部打卡确认方写入。
// 传入 nil 的标志保持不变，传入的标志只允许从 false 置为 true。
func (r *Repository) UpdateAttendanceReminded(id int64, clockInReminded *bool, clockOutReminded *bool) error {
	query := `
		UPDATE attendance_records
		SET
			clock_in_reminded = clock_in_reminded OR COALESCE($1, FALSE),
			clock_out_reminded = clock_out_reminded OR COALESCE($2, FALSE),
			updated_at = NOW()
		WHERE id = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, clockInReminded, clockOutReminded, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) ListAttendanceRecordsByDateRange(start time.Time, end time.Time) ([]*domain.AttendanceRecord, error) {
	query := `
		SELECT id, user_id, work_date, shift_type_id, clock_in_status, clock_out_status, clock_in_reminded, clock_out_reminded, created_at, updated_at
		FROM attendance_records
		WHERE work_date >= $1 AND work_date <= $2
		ORDER BY work_date DESC, user_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.AttendanceRecord, 0)
	for rows.Next() {
		record := &domain.AttendanceRecord{}
		dst := []any{&record.ID, &record.UserID, &record.WorkDate, &record.ShiftTypeID, &record.ClockInStatus, &record.ClockOutStatus, &record.ClockInReminded, &record.ClockOutReminded, &record.CreatedAt, &record.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// 仪表板统计使用
func (r *Repository) CountAttendanceByDate(date time.Time) (clockedIn int, notClockedIn int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE clock_in_status = '已打卡'),
			COUNT(*) FILTER (WHERE clock_in_status = '未打卡')
		FROM attendance_records WHERE work_date = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, date).Scan(&clockedIn, &notClockedIn); err != nil {
		return 0, 0, err
	}

	return clockedIn, notClockedIn, nil
}

func (r *Repository) CountSchedulesByDate(date time.Time) (work int, rest int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE NOT is_rest_day),
			COUNT(*) FILTER (WHERE is_rest_day)
		FROM schedules WHERE work_date = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, date).Scan(&work, &rest); err != nil {
		return 0, 0, err
	}

	return work, rest, nil
}
