package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

// 配置项不存在时返回默认值。调度器每个评估周期都会调用，
// 因此管理员修改配置后无需重启即可生效。
func (r *Repository) GetConfigValue(key string, defaultValue string) (string, error) {
	query := `
		SELECT value FROM system_configs WHERE key = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var value string
	if err := r.dbpool.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultValue, nil
		}
		return defaultValue, err
	}

	return value, nil
}

func (r *Repository) GetConfigByKey(key string) (*domain.SystemConfig, error) {
	query := `
		SELECT id, value, description, created_at, updated_at
		FROM system_configs WHERE key = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	sc := &domain.SystemConfig{
		Key: key,
	}

	dst := []any{&sc.ID, &sc.Value, &sc.Description, &sc.CreatedAt, &sc.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, key).Scan(dst...); err != nil {
		return nil, err
	}

	return sc, nil
}

func (r *Repository) GetAllConfigs() ([]*domain.SystemConfig, error) {
	query := `
		SELECT id, key, value, description, created_at, updated_at
		FROM system_configs ORDER BY key
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := make([]*domain.SystemConfig, 0)
	for rows.Next() {
		sc := &domain.SystemConfig{}
		dst := []any{&sc.ID, &sc.Key, &sc.Value, &sc.Description, &sc.CreatedAt, &sc.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		configs = append(configs, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return configs, nil
}

func (r *Repository) UpdateConfigValue(key string, value string) error {
	query := `
		UPDATE system_configs SET value = $1, updated_at = NOW() WHERE key = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, value, key)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// 种子数据使用，已存在的配置项不会被覆盖
func (r *Repository) EnsureConfig(sc *domain.SystemConfig) error {
	query := `
		INSERT INTO system_configs (key, value, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO NOTHING
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, sc.Key, sc.Value, sc.Description)
	if err != nil {
		return err
	}

	return nil
}
