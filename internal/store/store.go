// 包 store：PostgreSQL 数据访问层，提供点位目录读写与访问统计
package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"greenlink/internal/catalog"
	"greenlink/internal/logger"
)

// Store：持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// LoadPoints：按 position 顺序读取全部点位，作为目录的数据库来源
func (s *Store) LoadPoints(ctx context.Context) ([]catalog.RecyclingPoint, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, address, schedule, distance_label, comuna, materials, lat, lng
        FROM _gl_points ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.RecyclingPoint
	for rows.Next() {
		var p catalog.RecyclingPoint
		var comuna string
		var materials []string
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.Schedule, &p.DistanceLabel, &comuna, pq.Array(&materials), &p.Coords.Lat, &p.Coords.Lng); err != nil {
			return nil, err
		}
		p.Comuna = catalog.Comuna(comuna)
		p.Materials = materialsFromDB(materials)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("db_points_loaded", "count", len(out))
	return out, nil
}

// UpsertPoints：单事务写入点位并删除本批之外的旧点位，position 取切片下标以保留目录顺序
func (s *Store) UpsertPoints(ctx context.Context, points []catalog.RecyclingPoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO _gl_points(id, position, name, address, schedule, distance_label, comuna, materials, lat, lng)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (id) DO UPDATE SET position=EXCLUDED.position, name=EXCLUDED.name, address=EXCLUDED.address,
            schedule=EXCLUDED.schedule, distance_label=EXCLUDED.distance_label, comuna=EXCLUDED.comuna,
            materials=EXCLUDED.materials, lat=EXCLUDED.lat, lng=EXCLUDED.lng, updated_at=now()`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	ids := make([]int64, len(points))
	for i, p := range points {
		if _, err := stmt.ExecContext(ctx, p.ID, i, p.Name, p.Address, p.Schedule, p.DistanceLabel, string(p.Comuna),
			pq.Array(materialsToDB(p.Materials)), p.Coords.Lat, p.Coords.Lng); err != nil {
			return err
		}
		ids[i] = int64(p.ID)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM _gl_points WHERE NOT (id = ANY($1))", pq.Array(ids))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		logger.L().Debug("db_points_pruned", "count", n)
	}
	return tx.Commit()
}

func materialsFromDB(in []string) []catalog.Material {
	out := make([]catalog.Material, 0, len(in))
	for _, m := range in {
		parsed, _ := catalog.ParseMaterial(m)
		out = append(out, parsed)
	}
	return out
}

func materialsToDB(in []catalog.Material) []string {
	out := make([]string, len(in))
	for i, m := range in {
		out[i] = string(m)
	}
	return out
}

// IncrStats：页面访问计数；newVisitor 为 true 时同时计访客（去重由调用方负责）
func (s *Store) IncrStats(ctx context.Context, newVisitor bool) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE _gl_stats_total SET total_views=total_views+1 WHERE id=1"); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "INSERT INTO _gl_stats_daily(day, views) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET views=_gl_stats_daily.views+1"); err != nil {
		return err
	}
	if newVisitor {
		if _, err := s.db.ExecContext(ctx, "UPDATE _gl_stats_total SET total_visitors=total_visitors+1 WHERE id=1"); err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO _gl_stats_daily(day, visitors) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET visitors=_gl_stats_daily.visitors+1"); err != nil {
			return err
		}
	}
	logger.L().Debug("stats_incr", "new_visitor", newVisitor)
	return nil
}

// Totals：累计与当日访问
type Totals struct {
	Views    int64 `json:"views"`
	Visitors int64 `json:"visitors"`
	Today    int64 `json:"today"`
}

func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	row := s.db.QueryRowContext(ctx, "SELECT total_views, total_visitors FROM _gl_stats_total WHERE id=1")
	if err := row.Scan(&t.Views, &t.Visitors); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	row2 := s.db.QueryRowContext(ctx, "SELECT views FROM _gl_stats_daily WHERE day=current_date")
	_ = row2.Scan(&t.Today)
	return &t, nil
}
