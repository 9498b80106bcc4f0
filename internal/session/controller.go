// 包 session：每个访客一个控制器，持有过滤状态与两个视图投影
package session

import (
	"errors"
	"fmt"
	"sync"

	"greenlink/internal/catalog"
	"greenlink/internal/filter"
	"greenlink/internal/logger"
	"greenlink/internal/metrics"
	"greenlink/internal/view"
)

// Toast：随响应返回的短暂提示
type Toast struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

// MarkerView：标记快照；浏览器端据 Attached 挂载或卸载同一个 Leaflet 标记
type MarkerView struct {
	ID       int            `json:"id"`
	Coords   catalog.Coords `json:"coords"`
	Title    string         `json:"title"`
	Popup    string         `json:"popup"`
	Attached bool           `json:"attached"`
}

type MapView struct {
	Center    catalog.Coords `json:"center"`
	Zoom      int            `json:"zoom"`
	OpenPopup int            `json:"openPopup,omitempty"`
	Markers   []MarkerView   `json:"markers"`
}

// View：一次事件处理结束后的完整视图模型
type View struct {
	Session string       `json:"session"`
	Filter  filter.State `json:"filter"`
	Visible []int        `json:"visible"`
	Map     MapView      `json:"map"`
	List    []view.Entry `json:"list"`
	Toast   *Toast       `json:"toast,omitempty"`
}

// Controller：单个会话的事件处理器
// 背景：每次修改过滤状态后同步执行“计算可见集 → 同步两个投影”，完成前不处理下一事件
// 约束：HTTP 服务并发，互斥锁保证同一会话的事件串行
type Controller struct {
	mu     sync.Mutex
	id     string
	cat    *catalog.Catalog
	state  filter.State
	layer  *view.MarkerLayer
	side   *view.Sidebar
	syncer *view.Syncer
}

func NewController(id string, cat *catalog.Catalog) (*Controller, error) {
	c := &Controller{id: id, cat: cat, state: filter.NewState(), layer: view.NewMarkerLayer(), side: view.NewSidebar()}
	s, err := view.NewSyncer(cat, c.layer, c.side)
	if err != nil {
		return nil, err
	}
	c.syncer = s
	return c, nil
}

func (c *Controller) ID() string { return c.id }

// SetMaterial：材料按钮点击（互斥，含“全部”）
func (c *Controller) SetMaterial(m catalog.Material) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetMaterial(m)
	metrics.FilterChangesTotal.WithLabelValues("material").Inc()
	return c.resync()
}

// SetComuna：行政区下拉框变更
func (c *Controller) SetComuna(k catalog.Comuna) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetComuna(k)
	metrics.FilterChangesTotal.WithLabelValues("comuna").Inc()
	return c.resync()
}

// Focus：侧栏条目点击
func (c *Controller) Focus(id int) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	metrics.FocusTotal.Inc()
	// 客户端传入的 ID 不在目录中属于输入错误，不计入标记缺失
	if _, ok := c.cat.Get(id); !ok {
		return View{}, fmt.Errorf("%w: %d", ErrUnknownPoint, id)
	}
	if err := c.syncer.Focus(id); err != nil {
		if errors.Is(err, view.ErrMarkerMissing) {
			metrics.MarkerMissingTotal.Inc()
		}
		return View{}, err
	}
	return c.snapshot(nil), nil
}

// Recenter：“我的位置”成功后仅移动视图，不影响过滤状态
func (c *Controller) Recenter(center catalog.Coords, zoom int) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layer.SetView(center, zoom)
	return c.snapshot(nil)
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(nil)
}

func (c *Controller) resync() (View, error) {
	visible := filter.ComputeVisible(c.cat.Points(), c.state)
	if err := c.syncer.Apply(visible); err != nil {
		metrics.MarkerMissingTotal.Inc()
		return View{}, fmt.Errorf("session %s: %w", c.id, err)
	}
	metrics.VisiblePoints.Observe(float64(len(visible)))
	logger.L().Debug("filter_applied",
		"session", c.id,
		"material", string(c.state.Material),
		"comuna", string(c.state.Comuna),
		"visible", len(visible),
	)
	return c.snapshot(visibleToast(len(visible))), nil
}

func (c *Controller) snapshot(t *Toast) View {
	center, zoom := c.layer.View()
	v := View{
		Session: c.id,
		Filter:  c.state.Current(),
		Visible: []int{},
		Map:     MapView{Center: center, Zoom: zoom},
		List:    c.side.Entries(),
		Toast:   t,
	}
	if open := c.layer.OpenMarker(); open != nil {
		v.Map.OpenPopup = open.PointID
	}
	for _, m := range c.syncer.Markers() {
		attached := c.layer.Has(m)
		if attached {
			v.Visible = append(v.Visible, m.PointID)
		}
		v.Map.Markers = append(v.Map.Markers, MarkerView{ID: m.PointID, Coords: m.Coords, Title: m.Title, Popup: m.Popup, Attached: attached})
	}
	return v
}

func visibleToast(n int) *Toast {
	switch n {
	case 0:
		return &Toast{Message: "No hay puntos de reciclaje para los filtros seleccionados", Level: "warning"}
	case 1:
		return &Toast{Message: "Mostrando 1 punto de reciclaje", Level: "success"}
	}
	return &Toast{Message: fmt.Sprintf("Mostrando %d puntos de reciclaje", n), Level: "success"}
}
