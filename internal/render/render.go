// 包 render：弹窗与侧栏条目的 HTML 片段
// 背景：标记在启动时创建一次，弹窗内容随之渲染一次；列表条目每次重建时渲染
package render

import (
	"bytes"
	"html/template"

	"greenlink/internal/catalog"
)

var funcs = template.FuncMap{
	"badge": func(m catalog.Material) string { return m.BadgeClass() },
}

var popupTmpl = template.Must(template.New("popup").Funcs(funcs).Parse(`<h6 class="mb-1">{{.Name}}</h6>
<p class="mb-2"><small>{{.Address}}</small></p>
<p class="mb-1"><strong>Horario:</strong> {{.Schedule}}</p>
<div class="d-flex flex-wrap gap-1 mt-2">{{range .Materials}}<span class="material-badge {{badge .}}">{{.}}</span>{{end}}</div>`))

var entryTmpl = template.Must(template.New("entry").Funcs(funcs).Parse(`<div class="d-flex w-100 justify-content-between">
<h6 class="mb-1">{{.Name}}</h6>
<small class="text-muted">{{.DistanceLabel}}</small>
</div>
<p class="mb-1 small">{{.Address}}</p>
<div class="d-flex flex-wrap gap-1 mt-1">{{range .Materials}}<span class="material-badge {{badge .}}">{{.}}</span>{{end}}</div>`))

// Popup：标记弹窗内容（名称、地址、时间、材料徽章）
func Popup(p catalog.RecyclingPoint) (string, error) {
	var b bytes.Buffer
	if err := popupTmpl.Execute(&b, p); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ListEntry：侧栏条目内容（名称、距离标签、地址、材料徽章）
func ListEntry(p catalog.RecyclingPoint) (string, error) {
	var b bytes.Buffer
	if err := entryTmpl.Execute(&b, p); err != nil {
		return "", err
	}
	return b.String(), nil
}
