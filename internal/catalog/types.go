// 包 catalog：回收点目录，进程启动时加载一次，之后只读
package catalog

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
)

// Material：可回收材料类别（固定词表）
type Material string

const (
	Plastic    Material = "Plástico"
	Paper      Material = "Papel"
	Glass      Material = "Vidrio"
	Metal      Material = "Metal"
	Electronic Material = "Electrónicos"
)

// Materials：词表顺序即页面按钮顺序
func Materials() []Material {
	return []Material{Plastic, Paper, Glass, Metal, Electronic}
}

// BadgeClass：材料对应的徽章样式类
// 约束：词表外的材料落入默认分支，不报错
func (m Material) BadgeClass() string {
	switch m {
	case Plastic:
		return "badge-plastic"
	case Paper:
		return "badge-paper"
	case Glass:
		return "badge-glass"
	case Metal:
		return "badge-metal"
	case Electronic:
		return "badge-ewaste"
	default:
		return "badge-secondary"
	}
}

func (m Material) Known() bool {
	switch m {
	case Plastic, Paper, Glass, Metal, Electronic:
		return true
	}
	return false
}

// ParseMaterial：按不区分大小写匹配词表；按钮上的 data-filter 为小写
func ParseMaterial(s string) (Material, bool) {
	s = strings.TrimSpace(s)
	for _, m := range Materials() {
		if strings.EqualFold(string(m), s) {
			return m, true
		}
	}
	return Material(s), false
}

// Comuna：行政区键（封闭小集合）
type Comuna string

const (
	SanRamon   Comuna = "san-ramon"
	LaGranja   Comuna = "la-granja"
	LaCisterna Comuna = "la-cisterna"
)

func Comunas() []Comuna { return []Comuna{SanRamon, LaGranja, LaCisterna} }

// Known：是否为已知行政区；未知值只会导致过滤不命中
func (c Comuna) Known() bool {
	switch c {
	case SanRamon, LaGranja, LaCisterna:
		return true
	}
	return false
}

// Label：下拉框显示名
func (c Comuna) Label() string {
	switch c {
	case SanRamon:
		return "San Ramón"
	case LaGranja:
		return "La Granja"
	case LaCisterna:
		return "La Cisterna"
	default:
		return string(c)
	}
}

// Coords：WGS84 坐标；JSON 形式为 [lat, lng]，与地图库一致
type Coords struct {
	Lat float64
	Lng float64
}

var errCoordsShape = errors.New("coords must be [lat, lng]")

func (c Coords) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coords) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

func (c *Coords) UnmarshalJSON(b []byte) error {
	var arr []float64
	if err := json.Unmarshal(b, &arr); err != nil {
		return err
	}
	if len(arr) != 2 {
		return errCoordsShape
	}
	c.Lat, c.Lng = arr[0], arr[1]
	return nil
}

// RecyclingPoint：回收点记录，加入目录后不再修改
// 约束：ID 在目录内唯一；Materials 非空；DistanceLabel 仅用于展示，不参与计算
type RecyclingPoint struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	Schedule      string     `json:"schedule"`
	DistanceLabel string     `json:"distance"`
	Comuna        Comuna     `json:"comuna"`
	Materials     []Material `json:"materials"`
	Coords        Coords     `json:"coords"`
}

// Accepts：材料精确匹配
func (p RecyclingPoint) Accepts(m Material) bool {
	for _, x := range p.Materials {
		if x == m {
			return true
		}
	}
	return false
}

func (p RecyclingPoint) clone() RecyclingPoint {
	p.Materials = append([]Material(nil), p.Materials...)
	return p
}
