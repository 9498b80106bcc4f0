package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenlink/internal/catalog"
)

func TestPopup(t *testing.T) {
	p, _ := catalog.Default().Get(1)
	html, err := Popup(p)
	require.NoError(t, err)
	assert.Contains(t, html, `<h6 class="mb-1">Punto Limpio San Ramón</h6>`)
	assert.Contains(t, html, "<strong>Horario:</strong> Lunes a Viernes 9:00-18:00")
	assert.Contains(t, html, `<span class="material-badge badge-plastic">Plástico</span>`)
	assert.Contains(t, html, `<span class="material-badge badge-glass">Vidrio</span>`)
	assert.NotContains(t, html, "1.2 km")
}

func TestListEntry(t *testing.T) {
	p, _ := catalog.Default().Get(2)
	html, err := ListEntry(p)
	require.NoError(t, err)
	assert.Contains(t, html, `<small class="text-muted">2.1 km</small>`)
	assert.Contains(t, html, `badge-ewaste`)
	assert.Equal(t, 3, strings.Count(html, "material-badge"))
}

func TestMarkupIsEscaped(t *testing.T) {
	p := catalog.RecyclingPoint{ID: 9, Name: `<script>x</script>`, Materials: []catalog.Material{"<b>"}}
	html, err := Popup(p)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "badge-secondary")
}
