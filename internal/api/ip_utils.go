package api

import (
	"net/http"
	"strings"
)

// 文档注释：获取访问者 IP（用于定位兜底与访问统计）
// 背景：多层代理环境下优先常见反向代理头，最后回退远端地址
// 约束：头部存在伪造风险；仅用于粗粒度定位与计数，不用于鉴权
func getVisitorIP(r *http.Request) string {
	h := r.Header
	if x := h.Get("x-forwarded-for"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	if x := h.Get("cf-connecting-ip"); x != "" {
		return x
	}
	if x := h.Get("x-real-ip"); x != "" {
		return x
	}
	if x := h.Get("forwarded"); x != "" {
		i := strings.Index(strings.ToLower(x), "for=")
		if i >= 0 {
			y := x[i+4:]
			if p := strings.IndexByte(y, ';'); p >= 0 {
				y = y[:p]
			}
			if p := strings.IndexByte(y, ','); p >= 0 {
				y = y[:p]
			}
			y = strings.Trim(y, "\" ")
			y = strings.TrimPrefix(y, "[")
			if p := strings.Index(y, "]"); p >= 0 {
				y = y[:p]
			}
			return y
		}
	}
	host := r.RemoteAddr
	if strings.HasPrefix(host, "[") {
		if i := strings.Index(host, "]"); i > 0 {
			return host[1:i]
		}
	}
	if i := strings.LastIndex(host, ":"); i > 0 && strings.Count(host, ":") == 1 {
		return host[:i]
	}
	return host
}
