package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"

	"greenlink/internal/logger"
)

var (
	ErrDuplicateID = errors.New("catalog: duplicate point id")
	ErrNoMaterials = errors.New("catalog: point has no materials")
	ErrBadCoords   = errors.New("catalog: coords out of range")
)

// Catalog：只读的回收点序列，保持插入顺序
// 背景：所有下游列表渲染依赖该顺序；构造后不可变，可在多个会话间共享读
type Catalog struct {
	points  []RecyclingPoint
	byID    map[int]int
	version string
}

// New：校验并构造目录
// 约束：ID 重复、材料为空、坐标越界直接返回错误；未知行政区仅记录日志
func New(points []RecyclingPoint) (*Catalog, error) {
	c := &Catalog{points: make([]RecyclingPoint, 0, len(points)), byID: make(map[int]int, len(points))}
	for _, p := range points {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		if len(p.Materials) == 0 {
			return nil, fmt.Errorf("%w: %d", ErrNoMaterials, p.ID)
		}
		if !p.Coords.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrBadCoords, p.ID)
		}
		if !p.Comuna.Known() {
			logger.L().Warn("catalog_unknown_comuna", "id", p.ID, "comuna", string(p.Comuna))
		}
		c.byID[p.ID] = len(c.points)
		c.points = append(c.points, p.clone())
	}
	b, err := json.Marshal(c.points)
	if err != nil {
		return nil, err
	}
	h := fnv.New64a()
	h.Write(b)
	c.version = fmt.Sprintf("%016x", h.Sum64())
	return c, nil
}

// Points：返回副本，调用方修改不影响目录
func (c *Catalog) Points() []RecyclingPoint {
	out := make([]RecyclingPoint, len(c.points))
	for i, p := range c.points {
		out[i] = p.clone()
	}
	return out
}

func (c *Catalog) Get(id int) (RecyclingPoint, bool) {
	i, ok := c.byID[id]
	if !ok {
		return RecyclingPoint{}, false
	}
	return c.points[i].clone(), true
}

func (c *Catalog) Len() int { return len(c.points) }

// Version：目录内容指纹，用于缓存键；内容不变则指纹不变
func (c *Catalog) Version() string { return c.version }

// LoadFile：从 JSON 文件读取回收点数组并构造目录
// 约束：文件格式与 /points 接口输出一致，coords 为 [lat, lng]
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var points []RecyclingPoint
	if err := json.Unmarshal(b, &points); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(points)
}
