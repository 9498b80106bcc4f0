package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenlink/internal/catalog"
	"greenlink/internal/filter"
	"greenlink/internal/view"
)

func newController(t *testing.T) *Controller {
	t.Helper()
	c, err := NewController("test", catalog.Default())
	require.NoError(t, err)
	return c
}

func attachedIDs(v View) []int {
	var out []int
	for _, m := range v.Map.Markers {
		if m.Attached {
			out = append(out, m.ID)
		}
	}
	return out
}

func TestInitialSnapshot(t *testing.T) {
	v := newController(t).Snapshot()
	assert.Equal(t, filter.NewState(), v.Filter)
	assert.Equal(t, []int{1, 2, 3, 4}, v.Visible)
	assert.Len(t, v.List, 4)
	assert.Len(t, v.Map.Markers, 4)
	assert.Equal(t, view.DefaultCenter, v.Map.Center)
	assert.Equal(t, view.DefaultZoom, v.Map.Zoom)
	assert.Nil(t, v.Toast)
}

func TestFilterAxesCombine(t *testing.T) {
	c := newController(t)

	v, err := c.SetMaterial(catalog.Metal)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, v.Visible)
	assert.Equal(t, v.Visible, attachedIDs(v))
	assert.Equal(t, "Mostrando 3 puntos de reciclaje", v.Toast.Message)

	v, err = c.SetComuna(catalog.SanRamon)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, v.Visible)
	assert.Equal(t, "Mostrando 1 punto de reciclaje", v.Toast.Message)

	v, err = c.SetMaterial(catalog.Electronic)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, v.Visible)

	v, err = c.SetComuna(catalog.LaGranja)
	require.NoError(t, err)
	assert.Empty(t, v.Visible)
	assert.Empty(t, v.List)
	assert.Empty(t, attachedIDs(v))
	assert.Equal(t, "warning", v.Toast.Level)
	assert.Len(t, v.Map.Markers, 4, "markers stay in the side table")
}

func TestListMatchesMarkers(t *testing.T) {
	c := newController(t)
	v, err := c.SetComuna(catalog.SanRamon)
	require.NoError(t, err)
	require.Len(t, v.List, 2)
	assert.Equal(t, 1, v.List[0].PointID)
	assert.Equal(t, 2, v.List[1].PointID)
	assert.Equal(t, []int{1, 2}, attachedIDs(v))
}

func TestFocusScenario(t *testing.T) {
	c := newController(t)
	v, err := c.Focus(3)
	require.NoError(t, err)
	p3, _ := catalog.Default().Get(3)
	assert.Equal(t, p3.Coords, v.Map.Center)
	assert.Equal(t, view.FocusZoom, v.Map.Zoom)
	assert.Equal(t, 3, v.Map.OpenPopup)
	assert.Len(t, v.Map.Markers, 4)

	_, err = c.Focus(77)
	assert.True(t, errors.Is(err, ErrUnknownPoint))
	assert.False(t, errors.Is(err, view.ErrMarkerMissing))
}

func TestRecenterKeepsFilter(t *testing.T) {
	c := newController(t)
	_, err := c.SetMaterial(catalog.Paper)
	require.NoError(t, err)
	at := catalog.Coords{Lat: -33.45, Lng: -70.66}
	v := c.Recenter(at, view.LocateZoom)
	assert.Equal(t, at, v.Map.Center)
	assert.Equal(t, view.LocateZoom, v.Map.Zoom)
	assert.Equal(t, catalog.Paper, v.Filter.Material)
}

func TestConcurrentEventsStayConsistent(t *testing.T) {
	c := newController(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = c.SetMaterial(catalog.Materials()[i%5])
			} else {
				_, _ = c.SetComuna(catalog.Comunas()[i%3])
			}
		}(i)
	}
	wg.Wait()
	v := c.Snapshot()
	want := filter.IDs(filter.ComputeVisible(catalog.Default().Points(), v.Filter))
	if len(want) == 0 {
		assert.Empty(t, v.Visible)
	} else {
		assert.Equal(t, want, v.Visible)
	}
	assert.Len(t, v.List, len(want))
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(catalog.Default(), time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	c, err := r.Create()
	require.NoError(t, err)
	assert.Len(t, c.ID(), 36)

	got, err := r.Get(c.ID())
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = r.Get("nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	now = now.Add(30 * time.Second)
	assert.Equal(t, 0, r.Sweep())
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 0, r.Len())
}
