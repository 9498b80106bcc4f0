package api

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"greenlink/internal/catalog"
	"greenlink/internal/logger"
	"greenlink/internal/metrics"
	"greenlink/internal/review"
	"greenlink/internal/session"
)

// submitLocation：新增点位表单；同一窗口内已入队的重复投稿照常回执但不再入队
func (h *handlers) submitLocation(w http.ResponseWriter, r *http.Request) {
	var f locationForm
	if err := h.decodeForm(r, &f); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, err, msgFormInvalid)
		return
	}
	s := review.Submission{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(f.Name),
		Address:    strings.TrimSpace(f.Address),
		Comuna:     catalog.Comuna(strings.ToLower(strings.TrimSpace(f.Comuna))),
		Materials:  parseMaterials(f.Materials),
		Schedule:   strings.TrimSpace(f.Schedule),
		Contact:    strings.TrimSpace(f.Contact),
		ReceivedAt: time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, err, msgFormInvalid)
		return
	}
	ctx := r.Context()
	fp := s.Fingerprint()
	seen, err := h.d.Deduper.Seen(ctx, fp)
	if err != nil {
		logger.L().Debug("submission_dedupe_error", "err", err)
	}
	if seen {
		metrics.SubmissionsTotal.WithLabelValues("duplicate").Inc()
		writeJSON(w, http.StatusOK, ackBody{Toast: &session.Toast{Message: msgThanksPoint, Level: "success"}})
		return
	}
	if err := h.d.Publisher.Publish(ctx, s); err != nil {
		logger.L().Error("submission_publish_error", "id", s.ID, "err", err)
		writeError(w, http.StatusServiceUnavailable, err, msgQueueDown)
		return
	}
	// 入队成功后才标记，发布失败的投稿可以重试
	if err := h.d.Deduper.Mark(ctx, fp); err != nil {
		logger.L().Debug("submission_mark_error", "err", err)
	}
	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	writeJSON(w, http.StatusAccepted, ackBody{ID: s.ID, Toast: &session.Toast{Message: msgThanksPoint, Level: "success"}})
}

// parseMaterials：复选框值去重并归一为规范标签，保持提交顺序
func parseMaterials(in []string) []catalog.Material {
	seen := make(map[catalog.Material]bool, len(in))
	var out []catalog.Material
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			m, _ := catalog.ParseMaterial(part)
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// register：注册表单只做回执
func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var f registerForm
	if err := h.decodeForm(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, err, msgFormInvalid)
		return
	}
	if strings.TrimSpace(f.Name) == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing name"), msgFormInvalid)
		return
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(f.Email)); err != nil {
		writeError(w, http.StatusBadRequest, err, msgFormInvalid)
		return
	}
	logger.L().Info("registration_ack")
	writeJSON(w, http.StatusOK, ackBody{Toast: &session.Toast{Message: msgThanksSignup, Level: "success"}})
}
