// 包 filter：过滤状态与可见集计算
package filter

import (
	"strings"

	"greenlink/internal/catalog"
)

// All：两个过滤轴共用的“全部”哨兵值
const All = "all"

// State：当前材料过滤与行政区过滤
// 背景：纯数据持有者，不持有回调；调用方在每次修改后负责重新计算可见集并同步视图
type State struct {
	Material catalog.Material `json:"material"`
	Comuna   catalog.Comuna   `json:"comuna"`
}

func NewState() State { return State{Material: All, Comuna: All} }

// SetMaterial：替换材料过滤，不校验词表
func (s *State) SetMaterial(m catalog.Material) { s.Material = m }

// SetComuna：替换行政区过滤，不校验
func (s *State) SetComuna(c catalog.Comuna) { s.Comuna = c }

func (s *State) Current() State { return *s }

// ParseMaterialFilter：界面值转过滤值
// 约束：空值与 all 视为全部；词表内标签归一为规范写法，词表外原样保留（不命中任何点位）
func ParseMaterialFilter(v string) catalog.Material {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, All) {
		return All
	}
	m, _ := catalog.ParseMaterial(v)
	return m
}

func ParseComunaFilter(v string) catalog.Comuna {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return All
	}
	return catalog.Comuna(v)
}

// Bounded：两个轴都取自词表或为“全部”；词表外的值无法枚举，不适合作为缓存键
func (s State) Bounded() bool {
	return (s.Material == All || s.Material.Known()) && (s.Comuna == All || s.Comuna.Known())
}
