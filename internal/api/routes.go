// 包 api：集中注册 HTTP API 路由，主入口挂载到 API_BASE 前缀
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	"github.com/redis/go-redis/v9"

	"greenlink/internal/catalog"
	"greenlink/internal/geolocate"
	"greenlink/internal/logger"
	"greenlink/internal/metrics"
	"greenlink/internal/review"
	"greenlink/internal/session"
	"greenlink/internal/store"
	"greenlink/internal/view"
)

const (
	msgLocateFailed = "No se pudo obtener tu ubicación. Asegúrate de haber permitido el acceso."
	msgThanksPoint  = "¡Gracias por contribuir! Tu punto de reciclaje será revisado y publicado pronto."
	msgThanksSignup = "¡Gracias por registrarte en GreenLink! Te hemos enviado un correo de confirmación."
	msgFormInvalid  = "Completa los campos obligatorios del formulario."
	msgQueueDown    = "No pudimos enviar tu punto en este momento. Inténtalo más tarde."
)

// Deps：路由依赖；Store/Redis/Locator 可为 nil，对应功能降级
type Deps struct {
	Catalog   *catalog.Catalog
	Sessions  *session.Registry
	Store     *store.Store
	Redis     *redis.Client
	Publisher review.Publisher
	Deduper   *review.Deduper
	Visitors  *review.Deduper
	Locator   *geolocate.Locator
	Impact    Impact
	CacheTTL  time.Duration
}

type handlers struct {
	d   Deps
	dec *schema.Decoder
}

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

// BuildRoutes：独立 ServeMux，便于在主入口挂载到 /api 前缀
func BuildRoutes(d Deps) *http.ServeMux {
	if d.Publisher == nil {
		d.Publisher = review.LogPublisher{}
	}
	if d.Deduper == nil {
		d.Deduper = review.NewDeduper(d.Redis, 0)
	}
	if d.Visitors == nil {
		d.Visitors = review.NewVisitorDeduper(d.Redis)
	}
	if d.CacheTTL <= 0 {
		d.CacheTTL = time.Hour
	}
	h := &handlers{d: d, dec: newDecoder()}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /points", timed("points", h.points))
	mux.HandleFunc("GET /visible", timed("visible", h.visible))
	mux.HandleFunc("POST /sessions", timed("session_create", h.createSession))
	mux.HandleFunc("GET /sessions/{id}", timed("session_get", h.getSession))
	mux.HandleFunc("POST /sessions/{id}/material", timed("session_material", h.setMaterial))
	mux.HandleFunc("POST /sessions/{id}/comuna", timed("session_comuna", h.setComuna))
	mux.HandleFunc("POST /sessions/{id}/focus", timed("session_focus", h.focus))
	mux.HandleFunc("POST /sessions/{id}/recenter", timed("session_recenter", h.recenter))
	mux.HandleFunc("POST /locations", timed("locations", h.submitLocation))
	mux.HandleFunc("POST /register", timed("register", h.register))
	mux.HandleFunc("GET /locate", timed("locate", h.locate))
	mux.HandleFunc("GET /stats", timed("stats", h.stats))
	return mux
}

func timed(route string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		fn(w, r)
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error, toast string) {
	body := errorBody{Error: err.Error()}
	if toast != "" {
		body.Toast = &session.Toast{Message: toast, Level: "danger"}
	}
	writeJSON(w, status, body)
}

// sessionError：会话相关错误到状态码的映射
func sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrUnknownPoint):
		writeError(w, http.StatusNotFound, err, "")
	case errors.Is(err, view.ErrNotVisible):
		writeError(w, http.StatusConflict, err, "")
	default:
		logger.L().Error("session_error", "err", err)
		writeError(w, http.StatusInternalServerError, err, "")
	}
}

// decodeForm：查询串与表单体合并后解码
func (h *handlers) decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return h.dec.Decode(dst, r.Form)
}
