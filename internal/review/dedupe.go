package review

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// 文档注释：计算布隆过滤器位置
// 背景：FNV64a 加索引扰动生成 k 个位置，用于 GetBit/SetBit
func bloomPositions(data []byte, m uint32, k int) []int64 {
	pos := make([]int64, k)
	for i := 0; i < k; i++ {
		h := fnv.New64a()
		h.Write([]byte{byte(i)})
		h.Write(data)
		pos[i] = int64(uint32(h.Sum64() % uint64(m)))
	}
	return pos
}

// Deduper：按固定时间窗去重（Redis 位图布隆过滤）
// 背景：窗口按 ttl 对齐分桶，每个桶一个位图键，到桶结束时整体过期；同一桶内重复才算重复
// 约束：rc 为 nil 时退化为进程内集合；Redis 读错误放行，不阻断调用方
type Deduper struct {
	rc     *redis.Client
	prefix string
	m      uint32
	k      int
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	local map[string]time.Time
}

func newDeduper(rc *redis.Client, prefix string, ttl time.Duration) *Deduper {
	return &Deduper{rc: rc, prefix: prefix, m: 1 << 20, k: 4, ttl: ttl, now: time.Now, local: make(map[string]time.Time)}
}

// NewDeduper：投稿去重，默认 10 分钟窗口
func NewDeduper(rc *redis.Client, ttl time.Duration) *Deduper {
	if ttl < time.Second {
		ttl = 10 * time.Minute
	}
	return newDeduper(rc, "greenlink:submissions:bloom", ttl)
}

// NewVisitorDeduper：访客按 UTC 自然日去重
func NewVisitorDeduper(rc *redis.Client) *Deduper {
	return newDeduper(rc, "greenlink:visitors:bloom", 24*time.Hour)
}

// bucket：当前窗口的键与结束时间
func (d *Deduper) bucket() (string, time.Time) {
	span := int64(d.ttl / time.Second)
	n := d.now().Unix() / span
	return d.prefix + ":" + strconv.FormatInt(n, 10), time.Unix((n+1)*span, 0)
}

// Seen：当前窗口内是否已标记过；只读，不写入
func (d *Deduper) Seen(ctx context.Context, fingerprint string) (bool, error) {
	if d == nil {
		return false, nil
	}
	key, _ := d.bucket()
	if d.rc == nil {
		d.mu.Lock()
		defer d.mu.Unlock()
		exp, ok := d.local[key+"|"+fingerprint]
		return ok && d.now().Before(exp), nil
	}
	for _, p := range bloomPositions([]byte(fingerprint), d.m, d.k) {
		b, err := d.rc.GetBit(ctx, key, p).Result()
		if err != nil {
			return false, err
		}
		if b == 0 {
			return false, nil
		}
	}
	return true, nil
}

// Mark：写入当前窗口；调用方在副作用成功之后再调用，失败的请求可被重试
func (d *Deduper) Mark(ctx context.Context, fingerprint string) error {
	if d == nil {
		return nil
	}
	key, end := d.bucket()
	if d.rc == nil {
		d.mu.Lock()
		defer d.mu.Unlock()
		now := d.now()
		for k, exp := range d.local {
			if !now.Before(exp) {
				delete(d.local, k)
			}
		}
		d.local[key+"|"+fingerprint] = end
		return nil
	}
	pipe := d.rc.TxPipeline()
	for _, p := range bloomPositions([]byte(fingerprint), d.m, d.k) {
		pipe.SetBit(ctx, key, p, 1)
	}
	pipe.ExpireAt(ctx, key, end)
	_, err := pipe.Exec(ctx)
	return err
}
