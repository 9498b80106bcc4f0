package api

import (
	"greenlink/internal/catalog"
	"greenlink/internal/filter"
	"greenlink/internal/session"
)

// filterQuery：/visible 查询参数与会话过滤表单共用
type filterQuery struct {
	Material string `schema:"material"`
	Comuna   string `schema:"comuna"`
}

type valueForm struct {
	Value string `schema:"value"`
}

type focusForm struct {
	Point int `schema:"point,required"`
}

type recenterForm struct {
	Lat float64 `schema:"lat,required"`
	Lng float64 `schema:"lng,required"`
}

// locationForm：新增点位弹窗表单
type locationForm struct {
	Name      string   `schema:"name"`
	Address   string   `schema:"address"`
	Comuna    string   `schema:"comuna"`
	Materials []string `schema:"materials"`
	Schedule  string   `schema:"schedule"`
	Contact   string   `schema:"contact"`
}

// registerForm：注册表单，仅回执，不保存
type registerForm struct {
	Name  string `schema:"name"`
	Email string `schema:"email"`
}

type visibleResult struct {
	Filter filter.State             `json:"filter"`
	Count  int                      `json:"count"`
	Points []catalog.RecyclingPoint `json:"points"`
}

type locateResult struct {
	Coords  catalog.Coords `json:"coords"`
	Zoom    int            `json:"zoom"`
	City    string         `json:"city,omitempty"`
	Country string         `json:"country,omitempty"`
	View    *session.View  `json:"view,omitempty"`
}

// errorBody：错误响应统一结构，附带可直接展示的提示
type errorBody struct {
	Error string         `json:"error"`
	Toast *session.Toast `json:"toast,omitempty"`
}

type ackBody struct {
	ID    string         `json:"id,omitempty"`
	Toast *session.Toast `json:"toast"`
}

// Impact：统计区计数器的目标值
type Impact struct {
	Users        int     `json:"users"`
	Locations    int     `json:"locations"`
	RecycledTons float64 `json:"recycledTons"`
	CO2Tons      float64 `json:"co2Tons"`
}

type statsBody struct {
	Impact
	Views    int64 `json:"views"`
	Visitors int64 `json:"visitors"`
	Today    int64 `json:"today"`
}
