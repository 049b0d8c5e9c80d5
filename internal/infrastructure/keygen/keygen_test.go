package keygen

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}-\d{1,8}-[0-9a-f]{1,8}\.[a-z]+$`)

func TestDeriveFormat(t *testing.T) {
	d := New()

	cases := []time.Time{
		time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(1999, 12, 31, 23, 59, 59, 999_000_000, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}

	for _, ts := range cases {
		key := d.Derive(ts, "jpg")
		assert.Regexp(t, keyPattern, key)
		assert.Equal(t, ts.Format("2006-01-02-15-04-05"), key[:19])
	}
}

func TestDeriveMillisOfDay(t *testing.T) {
	d := &KeyDeriver{newID: func() uuid.UUID {
		return uuid.MustParse("0000abcd-0000-4000-8000-000000000000")
	}}

	key := d.Derive(time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC), "jpg")
	assert.Equal(t, "2020-01-01-10-00-00-36000000-abcd.jpg", key)

	key = d.Derive(time.Date(2020, 1, 1, 0, 0, 1, 250_000_000, time.UTC), "png")
	assert.Equal(t, "2020-01-01-00-00-01-1250-abcd.png", key)
}

func TestDeriveUniqueWithinSameInstant(t *testing.T) {
	d := New()
	ts := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)

	seen := make(map[string]struct{}, 200)
	for i := 0; i < 200; i++ {
		key := d.Derive(ts, "jpg")
		_, dup := seen[key]
		require.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}
	}
}

func TestDeriveSortsChronologically(t *testing.T) {
	d := New()
	earlier := d.Derive(time.Date(2021, 5, 1, 8, 0, 0, 0, time.UTC), "jpg")
	later := d.Derive(time.Date(2021, 5, 2, 7, 0, 0, 0, time.UTC), "jpg")
	assert.Less(t, earlier[:19], later[:19])
}
