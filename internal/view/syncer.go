package view

import (
	"errors"
	"fmt"

	"greenlink/internal/catalog"
	"greenlink/internal/logger"
	"greenlink/internal/render"
)

var (
	// ErrMarkerMissing：列表条目引用了没有标记的点位，属于程序缺陷
	ErrMarkerMissing = errors.New("view: marker missing for point")
	// ErrNotVisible：聚焦的点位当前不在可见集中
	ErrNotVisible = errors.New("view: point not visible")
)

// MapProjection：地图库能力的最小抽象
type MapProjection interface {
	Attach(m *Marker)
	Detach(m *Marker)
	SetView(center catalog.Coords, zoom int)
	OpenPopup(m *Marker)
}

// Entry：侧栏条目；点击时按 PointID 回到同一个标记
type Entry struct {
	PointID int    `json:"id"`
	HTML    string `json:"html"`
}

// ListProjection：侧栏列表能力的最小抽象
type ListProjection interface {
	Reset()
	Append(e Entry)
}

// Syncer：把可见集同时应用到地图与列表
// 背景：标记侧表在构造时一次建好，之后只做挂载/卸载
// 约束：非并发安全，由会话控制器串行调用
type Syncer struct {
	points   []catalog.RecyclingPoint
	markers  map[int]*Marker
	entries  map[int]string
	attached map[int]bool
	mp       MapProjection
	lp       ListProjection
}

// NewSyncer：为目录中每个点位创建标记并渲染弹窗，然后应用全量可见集
func NewSyncer(cat *catalog.Catalog, mp MapProjection, lp ListProjection) (*Syncer, error) {
	s := &Syncer{
		points:   cat.Points(),
		markers:  make(map[int]*Marker, cat.Len()),
		entries:  make(map[int]string, cat.Len()),
		attached: make(map[int]bool, cat.Len()),
		mp:       mp,
		lp:       lp,
	}
	for _, p := range s.points {
		popup, err := render.Popup(p)
		if err != nil {
			return nil, fmt.Errorf("render popup %d: %w", p.ID, err)
		}
		entry, err := render.ListEntry(p)
		if err != nil {
			return nil, fmt.Errorf("render entry %d: %w", p.ID, err)
		}
		s.markers[p.ID] = &Marker{PointID: p.ID, Coords: p.Coords, Title: p.Name, Icon: RecyclingIcon, Popup: popup}
		s.entries[p.ID] = entry
	}
	if err := s.Apply(s.points); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply：调用结束时地图上挂载的标记与列表条目都恰好等于 visible，按目录顺序
// 异常：visible 中出现目录外的点位时返回 ErrMarkerMissing，此时不修改任何投影
func (s *Syncer) Apply(visible []catalog.RecyclingPoint) error {
	want := make(map[int]bool, len(visible))
	for _, p := range visible {
		if _, ok := s.markers[p.ID]; !ok {
			logger.L().Error("marker_missing", "id", p.ID)
			return fmt.Errorf("%w: %d", ErrMarkerMissing, p.ID)
		}
		want[p.ID] = true
	}
	s.lp.Reset()
	for _, p := range s.points {
		m := s.markers[p.ID]
		switch {
		case want[p.ID] && !s.attached[p.ID]:
			s.mp.Attach(m)
			s.attached[p.ID] = true
		case !want[p.ID] && s.attached[p.ID]:
			s.mp.Detach(m)
			s.attached[p.ID] = false
		}
		if want[p.ID] {
			s.lp.Append(Entry{PointID: p.ID, HTML: s.entries[p.ID]})
		}
	}
	logger.L().Debug("view_synced", "visible", len(want), "total", len(s.points))
	return nil
}

// Focus：列表点击行为，居中缩放到点位并打开同一个标记的弹窗
func (s *Syncer) Focus(id int) error {
	m, ok := s.markers[id]
	if !ok {
		logger.L().Error("marker_missing", "id", id)
		return fmt.Errorf("%w: %d", ErrMarkerMissing, id)
	}
	if !s.attached[id] {
		return fmt.Errorf("%w: %d", ErrNotVisible, id)
	}
	s.mp.SetView(m.Coords, FocusZoom)
	s.mp.OpenPopup(m)
	return nil
}

// Marker：按点位 ID 查侧表
func (s *Syncer) Marker(id int) (*Marker, bool) {
	m, ok := s.markers[id]
	return m, ok
}

// Markers：按目录顺序返回全部标记（含未挂载的）
func (s *Syncer) Markers() []*Marker {
	out := make([]*Marker, 0, len(s.points))
	for _, p := range s.points {
		out = append(out, s.markers[p.ID])
	}
	return out
}

func (s *Syncer) Attached(id int) bool { return s.attached[id] }
