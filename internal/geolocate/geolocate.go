// 包 geolocate：“我的位置”的服务端兜底，按访客 IP 查 MaxMind City 库得到地图中心
// 背景：浏览器定位为首选；被拒绝或不可用时由前端调用该兜底，失败仍以提示告知访客
package geolocate

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"

	"greenlink/internal/catalog"
	"greenlink/internal/logger"
	"greenlink/internal/metrics"
)

var ErrUnavailable = errors.New("geolocate: location unavailable")

type Result struct {
	Coords     catalog.Coords `json:"coords"`
	City       string         `json:"city,omitempty"`
	Country    string         `json:"country,omitempty"`
	AccuracyKm uint16         `json:"accuracyKm,omitempty"`
}

// Locator：只读 mmdb 读取器，可并发查询
type Locator struct {
	r    *geoip2.Reader
	meta maxminddb.Metadata
}

// Open：打开 City 库；非 City 类型的库直接拒绝
func Open(path string) (*Locator, error) {
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	meta := r.Metadata()
	if !strings.Contains(meta.DatabaseType, "City") {
		r.Close()
		return nil, fmt.Errorf("geolocate: %s is %q, need a City database", path, meta.DatabaseType)
	}
	logger.L().Info("geoip_ready", "type", meta.DatabaseType, "built", BuildTime(meta))
	return &Locator{r: r, meta: meta}, nil
}

// BuildTime：库构建时间
func BuildTime(meta maxminddb.Metadata) time.Time {
	return time.Unix(int64(meta.BuildEpoch), 0).UTC()
}

// Lookup：nil 接收者、非法 IP、库中无坐标均返回 ErrUnavailable
func (l *Locator) Lookup(ip string) (Result, error) {
	if l == nil || l.r == nil {
		metrics.LocateTotal.WithLabelValues("fail").Inc()
		return Result{}, ErrUnavailable
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		metrics.LocateTotal.WithLabelValues("fail").Inc()
		return Result{}, fmt.Errorf("%w: bad ip %q", ErrUnavailable, ip)
	}
	rec, err := l.r.City(parsed)
	if err != nil {
		metrics.LocateTotal.WithLabelValues("fail").Inc()
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c := catalog.Coords{Lat: rec.Location.Latitude, Lng: rec.Location.Longitude}
	if (c.Lat == 0 && c.Lng == 0) || !c.Valid() {
		metrics.LocateTotal.WithLabelValues("fail").Inc()
		return Result{}, ErrUnavailable
	}
	metrics.LocateTotal.WithLabelValues("ok").Inc()
	return Result{
		Coords:     c,
		City:       pickName(rec.City.Names),
		Country:    rec.Country.IsoCode,
		AccuracyKm: rec.Location.AccuracyRadius,
	}, nil
}

func (l *Locator) Close() error {
	if l == nil || l.r == nil {
		return nil
	}
	return l.r.Close()
}

// pickName：优先西语名称，其次英语
func pickName(names map[string]string) string {
	if v := names["es"]; v != "" {
		return v
	}
	return names["en"]
}
