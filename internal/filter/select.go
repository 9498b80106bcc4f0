package filter

import "greenlink/internal/catalog"

// Match：点位可见当且仅当两个轴同时满足（与，不是或）
func Match(p catalog.RecyclingPoint, s State) bool {
	if s.Material != All && !p.Accepts(s.Material) {
		return false
	}
	if s.Comuna != All && p.Comuna != s.Comuna {
		return false
	}
	return true
}

// ComputeVisible：按当前状态计算可见子序列，保持目录顺序
// 约束：纯函数；无命中时返回空切片而非 nil，便于序列化为 []
func ComputeVisible(points []catalog.RecyclingPoint, s State) []catalog.RecyclingPoint {
	out := make([]catalog.RecyclingPoint, 0, len(points))
	for _, p := range points {
		if Match(p, s) {
			out = append(out, p)
		}
	}
	return out
}

// IDs：提取可见集的 ID 序列
func IDs(points []catalog.RecyclingPoint) []int {
	ids := make([]int, len(points))
	for i, p := range points {
		ids[i] = p.ID
	}
	return ids
}
