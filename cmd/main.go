// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"greenlink/internal/api"
	"greenlink/internal/catalog"
	"greenlink/internal/geolocate"
	"greenlink/internal/logger"
	"greenlink/internal/metrics"
	"greenlink/internal/middleware"
	"greenlink/internal/migrate"
	"greenlink/internal/review"
	"greenlink/internal/session"
	"greenlink/internal/store"
	"greenlink/internal/utils"
)

func envFloat(k string, def float64) float64 {
	if s := os.Getenv(k); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
			return f
		}
	}
	return def
}

func envSeconds(k string, def time.Duration) time.Duration {
	if s := os.Getenv(k); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}

// openStore：PG_ENABLED=false 时跳过；连接失败返回 nil，由调用方决定是否致命
func openStore(l *slog.Logger) *store.Store {
	if os.Getenv("PG_ENABLED") == "false" {
		l.Info("db_disabled")
		return nil
	}
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		return nil
	}
	if err := db.Ping(); err != nil {
		l.Error("db_ping_error", "err", err)
		_ = db.Close()
		return nil
	}
	l.Info("db_ping_ok")
	if err := migrate.EnsureSchema(db); err != nil {
		l.Error("schema_error", "err", err)
		_ = db.Close()
		return nil
	}
	return store.AttachDB(db)
}

// loadCatalog：按 CATALOG_SOURCE 选择目录来源，默认内置四个点位
func loadCatalog(ctx context.Context, l *slog.Logger, st *store.Store) (*catalog.Catalog, error) {
	src := strings.ToLower(os.Getenv("CATALOG_SOURCE"))
	switch src {
	case "file":
		p := os.Getenv("CATALOG_PATH")
		if p == "" {
			p = filepath.Join("data", "catalog", "points.json")
		}
		l.Debug("config_catalog_path", "path", p)
		return catalog.LoadFile(p)
	case "postgres":
		if st == nil {
			return nil, errors.New("catalog source postgres requires a reachable database")
		}
		points, err := st.LoadPoints(ctx)
		if err != nil {
			return nil, err
		}
		return catalog.New(points)
	case "", "builtin":
		return catalog.Default(), nil
	default:
		return nil, errors.New("unknown CATALOG_SOURCE: " + src)
	}
}

func openPublisher(l *slog.Logger) (review.Publisher, func()) {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		l.Info("amqp_disabled")
		return review.LogPublisher{}, func() {}
	}
	queue := os.Getenv("SUBMISSION_QUEUE")
	if queue == "" {
		queue = "greenlink.submissions"
	}
	p, err := review.Dial(url, queue)
	if err != nil {
		l.Error("amqp_dial_error", "err", err)
		return review.LogPublisher{}, func() {}
	}
	l.Info("amqp_ready", "queue", queue)
	return p, func() { _ = p.Close() }
}

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")
	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	l.Debug("config_api_base", "base", apiBase)
	ui := os.Getenv("UI_DIST")
	if ui == "" {
		ui = filepath.Join("ui", "dist")
	}
	l.Debug("config_ui_dir", "dir", ui)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := openStore(l)
	if st != nil {
		defer st.Close()
	}
	cat, err := loadCatalog(ctx, l, st)
	if err != nil {
		l.Error("catalog_load_error", "err", err)
		os.Exit(1)
	}
	l.Info("catalog_ready", "points", cat.Len(), "version", cat.Version())

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else if err := rc.Ping(ctx).Err(); err != nil {
		l.Error("redis_ping_error", "err", err)
		rc = nil
	} else {
		l.Info("redis_ping_ok")
		defer rc.Close()
	}

	pub, closePub := openPublisher(l)
	defer closePub()

	var loc *geolocate.Locator
	geoPath := os.Getenv("GEOIP_DB_PATH")
	if geoPath == "" {
		geoPath = filepath.Join("data", "geoip", "GeoLite2-City.mmdb")
	}
	if _, err := os.Stat(geoPath); err == nil {
		if loc, err = geolocate.Open(geoPath); err != nil {
			l.Error("geoip_open_error", "path", geoPath, "err", err)
		} else {
			l.Info("geoip_open_ok", "path", geoPath)
			defer loc.Close()
		}
	} else {
		l.Info("geoip_not_found", "path", geoPath)
	}

	sessions := session.NewRegistry(cat, envSeconds("SESSION_TTL_S", 30*time.Minute))
	sessions.Start(ctx)

	deps := api.Deps{
		Catalog:   cat,
		Sessions:  sessions,
		Store:     st,
		Redis:     rc,
		Publisher: pub,
		Deduper:   review.NewDeduper(rc, envSeconds("SUBMISSION_DEDUPE_TTL_S", 10*time.Minute)),
		Visitors:  review.NewVisitorDeduper(rc),
		Locator:   loc,
		Impact: api.Impact{
			Users:        int(envFloat("STATS_USERS", 1250)),
			RecycledTons: envFloat("STATS_RECYCLED_TONS", 42.5),
			CO2Tons:      envFloat("STATS_CO2_TONS", 98),
		},
		CacheTTL: envSeconds("VISIBLE_CACHE_TTL_S", time.Hour),
	}

	mux := http.NewServeMux()
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, api.BuildRoutes(deps)))
	mux.Handle(apiBase+"/metrics", metrics.Handler())
	mux.Handle("/", http.FileServer(http.Dir(ui)))
	mux.HandleFunc("/config.js", api.ConfigHandler(apiBase))

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	if os.Getenv("TLS_ENABLE") == "true" {
		certPath := os.Getenv("TLS_CERT_PATH")
		keyPath := os.Getenv("TLS_KEY_PATH")
		if certPath == "" {
			certPath = filepath.Join("data", "certs", "server.crt")
		}
		if keyPath == "" {
			keyPath = filepath.Join("data", "certs", "server.key")
		}
		if err := utils.EnsureSelfSignedCert(certPath, keyPath, "greenlink.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", addr, "cert", certPath)
		if err := s.ListenAndServeTLS(certPath, keyPath); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("server_error", "err", err)
		}
		return
	}
	l.Info("listening", "addr", addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server_error", "err", err)
	}
}
