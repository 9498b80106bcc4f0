// 包 view：地图标记层与侧栏列表两个投影的同步
package view

import "greenlink/internal/catalog"

const (
	// 初始视图：圣拉蒙中心
	DefaultZoom = 14
	// 列表点击后的聚焦缩放
	FocusZoom = 16
	// “我的位置”定位后的缩放
	LocateZoom = 15

	TileURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	TileAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a>`
)

var DefaultCenter = catalog.Coords{Lat: -33.5345, Lng: -70.6206}

// Icon：标记图标参数，单位为像素
type Icon struct {
	URL         string `json:"iconUrl"`
	Size        [2]int `json:"iconSize"`
	Anchor      [2]int `json:"iconAnchor"`
	PopupAnchor [2]int `json:"popupAnchor"`
}

var RecyclingIcon = Icon{
	URL:         "https://cdn-icons-png.flaticon.com/512/3063/3063187.png",
	Size:        [2]int{32, 32},
	Anchor:      [2]int{16, 32},
	PopupAnchor: [2]int{0, -32},
}

// Marker：每个点位一个、启动时创建一次的长生命周期标记
// 约束：重新挂载时复用同一对象，不重新创建；点位数据不挂在标记上，由 Syncer 的侧表按 ID 查找
type Marker struct {
	PointID int
	Coords  catalog.Coords
	Title   string
	Icon    Icon
	Popup   string
}
