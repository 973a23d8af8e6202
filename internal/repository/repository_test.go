package repository

import (
	"testing"
	"time"

	"mannadome_backend/internal/model"
	"mannadome_backend/internal/testutil"

	"gorm.io/gorm"
)

// tick returns a clock that advances one second per call so rows get
// distinct, ordered timestamps.
func tick(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

var testStart = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t, model.Models()...)
}
