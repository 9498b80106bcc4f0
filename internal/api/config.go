package api

import (
	"encoding/json"
	"net/http"

	"greenlink/internal/catalog"
	"greenlink/internal/version"
	"greenlink/internal/view"
)

type comunaOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type materialOption struct {
	Label string `json:"label"`
	Badge string `json:"badge"`
}

// mapConfig：前端初始化地图与过滤控件所需的常量
type mapConfig struct {
	Center          catalog.Coords   `json:"center"`
	Zoom            int              `json:"zoom"`
	FocusZoom       int              `json:"focusZoom"`
	LocateZoom      int              `json:"locateZoom"`
	TileURL         string           `json:"tileUrl"`
	TileAttribution string           `json:"tileAttribution"`
	Icon            view.Icon        `json:"icon"`
	Materials       []materialOption `json:"materials"`
	Comunas         []comunaOption   `json:"comunas"`
}

func defaultMapConfig() mapConfig {
	c := mapConfig{
		Center:          view.DefaultCenter,
		Zoom:            view.DefaultZoom,
		FocusZoom:       view.FocusZoom,
		LocateZoom:      view.LocateZoom,
		TileURL:         view.TileURL,
		TileAttribution: view.TileAttribution,
		Icon:            view.RecyclingIcon,
	}
	for _, m := range catalog.Materials() {
		c.Materials = append(c.Materials, materialOption{Label: string(m), Badge: m.BadgeClass()})
	}
	for _, k := range catalog.Comunas() {
		c.Comunas = append(c.Comunas, comunaOption{Key: string(k), Label: k.Label()})
	}
	return c
}

// NOTE: 向前端暴露 API 基础路径与地图常量，避免在页面脚本中硬编码
func ConfigHandler(apiBase string) http.HandlerFunc {
	base, _ := json.Marshal(apiBase)
	cfg, _ := json.Marshal(defaultMapConfig())
	commit, _ := json.Marshal(version.Commit)
	body := "window.__API_BASE__=" + string(base) + ";\n" +
		"window.__MAP_CONFIG__=" + string(cfg) + ";\n" +
		"window.__COMMIT_SHA__=" + string(commit) + ";\n"
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte(body))
	}
}
