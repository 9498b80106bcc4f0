package view

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenlink/internal/catalog"
	"greenlink/internal/filter"
)

type fixture struct {
	cat    *catalog.Catalog
	layer  *MarkerLayer
	side   *Sidebar
	syncer *Syncer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{cat: catalog.Default(), layer: NewMarkerLayer(), side: NewSidebar()}
	s, err := NewSyncer(f.cat, f.layer, f.side)
	require.NoError(t, err)
	f.syncer = s
	return f
}

func (f *fixture) apply(t *testing.T, st filter.State) []catalog.RecyclingPoint {
	t.Helper()
	v := filter.ComputeVisible(f.cat.Points(), st)
	require.NoError(t, f.syncer.Apply(v))
	return v
}

// 断言两个投影都恰好等于可见集
func (f *fixture) assertConsistent(t *testing.T, visible []catalog.RecyclingPoint) {
	t.Helper()
	want := filter.IDs(visible)
	var attached []int
	for _, m := range f.syncer.Markers() {
		if f.layer.Has(m) {
			attached = append(attached, m.PointID)
		}
	}
	if len(want) == 0 {
		assert.Empty(t, attached)
	} else {
		assert.Equal(t, want, attached)
	}
	assert.Equal(t, len(want), f.layer.Len())

	entries := f.side.Entries()
	require.Len(t, entries, len(want))
	for i, e := range entries {
		assert.Equal(t, want[i], e.PointID)
		_, ok := f.syncer.Marker(e.PointID)
		assert.True(t, ok, "entry %d has no marker", e.PointID)
	}
}

func TestNewSyncerShowsEverything(t *testing.T) {
	f := newFixture(t)
	f.assertConsistent(t, f.cat.Points())
	center, zoom := f.layer.View()
	assert.Equal(t, DefaultCenter, center)
	assert.Equal(t, DefaultZoom, zoom)
}

func TestApplyKeepsViewsInSync(t *testing.T) {
	f := newFixture(t)
	states := []filter.State{
		{Material: catalog.Metal, Comuna: filter.All},
		{Material: filter.All, Comuna: catalog.SanRamon},
		{Material: catalog.Electronic, Comuna: catalog.LaGranja},
		{Material: catalog.Metal, Comuna: catalog.SanRamon},
		filter.NewState(),
	}
	for _, st := range states {
		v := f.apply(t, st)
		f.assertConsistent(t, v)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	f := newFixture(t)
	st := filter.State{Material: catalog.Metal, Comuna: filter.All}
	v := f.apply(t, st)
	a1, d1 := f.layer.Ops()
	f.apply(t, st)
	a2, d2 := f.layer.Ops()
	assert.Equal(t, a1, a2)
	assert.Equal(t, d1, d2)
	f.assertConsistent(t, v)
}

func TestReattachReusesMarker(t *testing.T) {
	f := newFixture(t)
	m1, ok := f.syncer.Marker(1)
	require.True(t, ok)
	popup := m1.Popup

	f.apply(t, filter.State{Material: catalog.Metal, Comuna: filter.All})
	assert.False(t, f.layer.Has(m1))
	f.apply(t, filter.NewState())

	again, _ := f.syncer.Marker(1)
	assert.Same(t, m1, again)
	assert.True(t, f.layer.Has(m1))
	assert.Equal(t, popup, again.Popup)
}

func TestFocusOpensSameMarker(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.syncer.Focus(3))

	p3, _ := f.cat.Get(3)
	center, zoom := f.layer.View()
	assert.Equal(t, p3.Coords, center)
	assert.Equal(t, FocusZoom, zoom)

	m3, _ := f.syncer.Marker(3)
	assert.Same(t, m3, f.layer.OpenMarker())
	assert.Equal(t, 4, f.layer.Len(), "focus must not duplicate markers")
}

func TestFocusErrors(t *testing.T) {
	f := newFixture(t)
	err := f.syncer.Focus(99)
	assert.True(t, errors.Is(err, ErrMarkerMissing))

	f.apply(t, filter.State{Material: filter.All, Comuna: catalog.LaCisterna})
	err = f.syncer.Focus(1)
	assert.True(t, errors.Is(err, ErrNotVisible))
}

func TestDetachClosesOpenPopup(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.syncer.Focus(1))
	f.apply(t, filter.State{Material: catalog.Metal, Comuna: filter.All})
	assert.Nil(t, f.layer.OpenMarker())
}

func TestApplyRejectsForeignPoint(t *testing.T) {
	f := newFixture(t)
	before := f.side.Entries()
	err := f.syncer.Apply([]catalog.RecyclingPoint{{ID: 42}})
	assert.True(t, errors.Is(err, ErrMarkerMissing))
	assert.Equal(t, before, f.side.Entries())
}
