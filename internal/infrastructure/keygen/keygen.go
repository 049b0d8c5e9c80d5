package keygen

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

const _timestampLayout = "2006-01-02-15-04-05"

type KeyDeriver struct {
	newID func() uuid.UUID
}

func New() *KeyDeriver {
	return &KeyDeriver{newID: uuid.New}
}

// Derive returns "<yyyy-MM-dd-HH-mm-ss>-<millis of day>-<hex>.<ext>". The
// timestamp part sorts chronologically within a day; the hex part comes from
// a fresh random UUID so uploads in the same millisecond do not collide.
func (d *KeyDeriver) Derive(t time.Time, ext string) string {
	return t.Format(_timestampLayout) +
		"-" + strconv.FormatInt(millisOfDay(t), 10) +
		"-" + strconv.FormatUint(uint64(d.newID().ID()), 16) +
		"." + ext
}

func millisOfDay(t time.Time) int64 {
	h, m, s := t.Clock()
	return int64(h)*3_600_000 + int64(m)*60_000 + int64(s)*1_000 + int64(t.Nanosecond()/1_000_000)
}
