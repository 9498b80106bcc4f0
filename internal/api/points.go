package api

import (
	"encoding/json"
	"net/http"

	"greenlink/internal/filter"
	"greenlink/internal/logger"
	"greenlink/internal/metrics"
)

func (h *handlers) points(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.d.Catalog.Points())
}

// visible：无状态的可见集查询，结果按“目录指纹 + 过滤对”缓存到 Redis
// 约束：目录在进程生命周期内不可变，缓存只需按 TTL 过期；词表外的过滤值不缓存，键空间有界
func (h *handlers) visible(w http.ResponseWriter, r *http.Request) {
	var q filterQuery
	if err := h.dec.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}
	st := filter.NewState()
	st.SetMaterial(filter.ParseMaterialFilter(q.Material))
	st.SetComuna(filter.ParseComunaFilter(q.Comuna))

	ctx := r.Context()
	cache := h.d.Redis != nil && st.Bounded()
	key := visibleKey(h.d.Catalog.Version(), st)
	if cache {
		if s, _ := h.d.Redis.Get(ctx, key).Result(); s != "" {
			metrics.VisibleCacheTotal.WithLabelValues("hit").Inc()
			w.Header().Set("content-type", "application/json; charset=utf-8")
			w.Header().Set("cache-control", "no-store")
			_, _ = w.Write([]byte(s))
			return
		}
		metrics.VisibleCacheTotal.WithLabelValues("miss").Inc()
	}
	points := filter.ComputeVisible(h.d.Catalog.Points(), st)
	metrics.VisiblePoints.Observe(float64(len(points)))
	res := visibleResult{Filter: st, Count: len(points), Points: points}
	if cache {
		if b, err := json.Marshal(res); err == nil {
			if err := h.d.Redis.Set(ctx, key, string(b)+"\n", h.d.CacheTTL).Err(); err != nil {
				logger.L().Debug("visible_cache_set_error", "err", err)
			}
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func visibleKey(version string, st filter.State) string {
	return "greenlink:visible:" + version + ":" + string(st.Material) + ":" + string(st.Comuna)
}
