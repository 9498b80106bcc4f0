package view

import "greenlink/internal/catalog"

// MarkerLayer：进程内地图投影，记录挂载集合、视图中心与当前打开的弹窗
// 背景：浏览器端按其快照重放到 Leaflet；同一时刻只有一个弹窗打开
type MarkerLayer struct {
	attached map[*Marker]struct{}
	center   catalog.Coords
	zoom     int
	open     *Marker
	attaches int
	detaches int
}

func NewMarkerLayer() *MarkerLayer {
	return &MarkerLayer{attached: make(map[*Marker]struct{}), center: DefaultCenter, zoom: DefaultZoom}
}

func (l *MarkerLayer) Attach(m *Marker) {
	if _, ok := l.attached[m]; ok {
		return
	}
	l.attached[m] = struct{}{}
	l.attaches++
}

// Detach：完全卸载；若其弹窗正打开则一并关闭
func (l *MarkerLayer) Detach(m *Marker) {
	if _, ok := l.attached[m]; !ok {
		return
	}
	delete(l.attached, m)
	l.detaches++
	if l.open == m {
		l.open = nil
	}
}

func (l *MarkerLayer) SetView(center catalog.Coords, zoom int) {
	l.center = center
	l.zoom = zoom
}

func (l *MarkerLayer) OpenPopup(m *Marker) {
	if _, ok := l.attached[m]; ok {
		l.open = m
	}
}

func (l *MarkerLayer) Has(m *Marker) bool {
	_, ok := l.attached[m]
	return ok
}

func (l *MarkerLayer) Len() int { return len(l.attached) }

func (l *MarkerLayer) View() (catalog.Coords, int) { return l.center, l.zoom }

// OpenMarker：当前打开弹窗的标记，没有时为 nil
func (l *MarkerLayer) OpenMarker() *Marker { return l.open }

// Ops：累计挂载/卸载次数
func (l *MarkerLayer) Ops() (attaches, detaches int) { return l.attaches, l.detaches }

// Sidebar：进程内列表投影
type Sidebar struct {
	entries []Entry
}

func NewSidebar() *Sidebar { return &Sidebar{} }

func (s *Sidebar) Reset() { s.entries = s.entries[:0] }

func (s *Sidebar) Append(e Entry) { s.entries = append(s.entries, e) }

func (s *Sidebar) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
