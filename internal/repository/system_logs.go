package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

func (r *Repository) CreateSystemLog(log *domain.SystemLog) error {
	query := `
		INSERT INTO system_logs (user_id, log_type, log_level, message, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{log.UserID, log.LogType, log.LogLevel, log.Message, log.IPAddress, log.UserAgent}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&log.ID, &log.CreatedAt); err != nil {
		return err
	}

	return nil
}

// logType 为空字符串时不按类型过滤
func (r *Repository) ListSystemLogs(logType string, limit int, offset int) ([]*domain.SystemLog, error) {
	query := `
		SELECT id, user_id, log_type, log_level, message, ip_address, user_agent, created_at
		FROM system_logs
		WHERE ($1 = '' OR log_type = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, logType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.SystemLog, 0)
	for rows.Next() {
		log := &domain.SystemLog{}
		dst := []any{&log.ID, &log.UserID, &log.LogType, &log.LogLevel, &log.Message, &log.IPAddress, &log.UserAgent, &log.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *Repository) CountSystemLogs(logType string) (int, error) {
	query := `
		SELECT COUNT(*) FROM system_logs WHERE ($1 = '' OR log_type = $1)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var count int
	if err := r.dbpool.QueryRowContext(ctx, query, logType).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
