package api

import (
	"net/http"

	"greenlink/internal/logger"
	"greenlink/internal/view"
)

// locate：浏览器定位失败时的兜底；携带 session 参数时同时移动该会话的视图
func (h *handlers) locate(w http.ResponseWriter, r *http.Request) {
	ip := getVisitorIP(r)
	res, err := h.d.Locator.Lookup(ip)
	if err != nil {
		logger.L().Debug("locate_fail", "ip", ip, "err", err)
		writeError(w, http.StatusServiceUnavailable, err, msgLocateFailed)
		return
	}
	out := locateResult{Coords: res.Coords, Zoom: view.LocateZoom, City: res.City, Country: res.Country}
	if id := r.URL.Query().Get("session"); id != "" {
		c, err := h.d.Sessions.Get(id)
		if err != nil {
			sessionError(w, err)
			return
		}
		v := c.Recenter(res.Coords, view.LocateZoom)
		out.View = &v
	}
	writeJSON(w, http.StatusOK, out)
}

// stats：统计区计数器；地点数取目录实际大小
func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	out := statsBody{Impact: h.d.Impact}
	out.Locations = h.d.Catalog.Len()
	if h.d.Store != nil {
		if t, err := h.d.Store.GetTotals(r.Context()); err == nil {
			out.Views, out.Visitors, out.Today = t.Views, t.Visitors, t.Today
		} else {
			logger.L().Debug("stats_totals_error", "err", err)
		}
	}
	writeJSON(w, http.StatusOK, out)
}
