package geolocate

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/oschwald/maxminddb-golang"
	"github.com/stretchr/testify/assert"
)

func TestNilLocatorIsUnavailable(t *testing.T) {
	var l *Locator
	_, err := l.Lookup("200.1.2.3")
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.NoError(t, l.Close())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	assert.Error(t, err)
}

func TestPickName(t *testing.T) {
	assert.Equal(t, "Santiago", pickName(map[string]string{"es": "Santiago", "en": "Santiago de Chile"}))
	assert.Equal(t, "Santiago de Chile", pickName(map[string]string{"en": "Santiago de Chile"}))
	assert.Empty(t, pickName(nil))
}

func TestBuildTime(t *testing.T) {
	got := BuildTime(maxminddb.Metadata{BuildEpoch: 1700000000})
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), got)
}
