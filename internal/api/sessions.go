package api

import (
	"context"
	"fmt"
	"net/http"

	"greenlink/internal/catalog"
	"greenlink/internal/filter"
	"greenlink/internal/logger"
	"greenlink/internal/session"
	"greenlink/internal/view"
)

// createSession：页面加载时调用，返回 {all, all} 的初始视图并计一次访问
func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	c, err := h.d.Sessions.Create()
	if err != nil {
		sessionError(w, err)
		return
	}
	h.countVisit(r.Context(), getVisitorIP(r))
	writeJSON(w, http.StatusCreated, c.Snapshot())
}

// countVisit：每次建会话计一次浏览；同一 IP 当日只计一次访客
func (h *handlers) countVisit(ctx context.Context, ip string) bool {
	seen, err := h.d.Visitors.Seen(ctx, ip)
	if err != nil {
		logger.L().Debug("visitor_dedupe_error", "err", err)
	}
	if !seen {
		if err := h.d.Visitors.Mark(ctx, ip); err != nil {
			logger.L().Debug("visitor_mark_error", "err", err)
		}
	}
	if h.d.Store != nil {
		if err := h.d.Store.IncrStats(ctx, !seen); err != nil {
			logger.L().Debug("stats_incr_error", "err", err)
		}
	}
	return !seen
}

func (h *handlers) lookup(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	c, err := h.d.Sessions.Get(r.PathValue("id"))
	if err != nil {
		sessionError(w, err)
		return nil, false
	}
	return c, true
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	if c, ok := h.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, c.Snapshot())
	}
}

func (h *handlers) setMaterial(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var f valueForm
	if err := h.decodeForm(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}
	v, err := c.SetMaterial(filter.ParseMaterialFilter(f.Value))
	if err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handlers) setComuna(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var f valueForm
	if err := h.decodeForm(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}
	v, err := c.SetComuna(filter.ParseComunaFilter(f.Value))
	if err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handlers) focus(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var f focusForm
	if err := h.decodeForm(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}
	v, err := c.Focus(f.Point)
	if err != nil {
		sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// recenter：浏览器定位成功后回传坐标
func (h *handlers) recenter(w http.ResponseWriter, r *http.Request) {
	c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var f recenterForm
	if err := h.decodeForm(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, err, msgLocateFailed)
		return
	}
	at := catalog.Coords{Lat: f.Lat, Lng: f.Lng}
	if !at.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("coords out of range: %v,%v", f.Lat, f.Lng), msgLocateFailed)
		return
	}
	writeJSON(w, http.StatusOK, c.Recenter(at, view.LocateZoom))
}
