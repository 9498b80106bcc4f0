package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"greenlink/internal/catalog"
	"greenlink/internal/logger"
	"greenlink/internal/metrics"
)

var (
	ErrNotFound     = errors.New("session: not found")
	ErrUnknownPoint = errors.New("session: point not in catalog")
)

type entry struct {
	c    *Controller
	seen time.Time
}

// Registry：会话登记表，按空闲时长回收
// 约束：会话仅在进程内存活，不跨进程、不持久化
type Registry struct {
	mu       sync.Mutex
	cat      *catalog.Catalog
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry(cat *catalog.Catalog, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{cat: cat, sessions: make(map[string]*entry), ttl: ttl, now: time.Now}
}

// Create：新建会话，初始状态为 {all, all}，全部标记挂载
func (r *Registry) Create() (*Controller, error) {
	c, err := NewController(uuid.NewString(), r.cat)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions[c.ID()] = &entry{c: c, seen: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()
	metrics.SessionsActive.Set(float64(n))
	logger.L().Debug("session_created", "session", c.ID())
	return c, nil
}

// Get：按 ID 取会话并刷新最近访问时间
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.seen = r.now()
	return e.c, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep：回收空闲超过 ttl 的会话，返回回收数量
func (r *Registry) Sweep() int {
	r.mu.Lock()
	cutoff := r.now().Add(-r.ttl)
	n := 0
	for id, e := range r.sessions {
		if e.seen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	left := len(r.sessions)
	r.mu.Unlock()
	metrics.SessionsActive.Set(float64(left))
	if n > 0 {
		logger.L().Debug("session_sweep", "expired", n, "active", left)
	}
	return n
}

// Start：后台周期回收，ctx 取消时停止
func (r *Registry) Start(ctx context.Context) {
	every := r.ttl / 2
	if every < time.Second {
		every = time.Second
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				r.Sweep()
			}
		}
	}()
}
