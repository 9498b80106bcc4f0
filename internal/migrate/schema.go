// 包 migrate：首次运行时建表
package migrate

import (
	"database/sql"

	"greenlink/internal/logger"
)

// EnsureSchema：创建点位表与访问统计表
// 约束：全部使用 IF NOT EXISTS；坐标范围由 CHECK 约束兜底
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _gl_points (
            id INT PRIMARY KEY,
            position INT NOT NULL,
            name TEXT NOT NULL,
            address TEXT NOT NULL,
            schedule TEXT NOT NULL DEFAULT '',
            distance_label TEXT NOT NULL DEFAULT '',
            comuna TEXT NOT NULL,
            materials TEXT[] NOT NULL CHECK (cardinality(materials) > 0),
            lat DOUBLE PRECISION NOT NULL CHECK (lat BETWEEN -90 AND 90),
            lng DOUBLE PRECISION NOT NULL CHECK (lng BETWEEN -180 AND 180),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_gl_points_position ON _gl_points(position)`,
		`CREATE TABLE IF NOT EXISTS _gl_stats_total (
            id INT PRIMARY KEY,
            total_views BIGINT NOT NULL DEFAULT 0,
            total_visitors BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS _gl_stats_daily (
            day DATE PRIMARY KEY,
            views BIGINT NOT NULL DEFAULT 0,
            visitors BIGINT NOT NULL DEFAULT 0
        )`,
		`INSERT INTO _gl_stats_total(id, total_views, total_visitors)
         VALUES(1, 0, 0)
         ON CONFLICT (id) DO NOTHING`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
