package seeder

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"

	"github.com/nctirs/nctirs-stack/common/models"
)

func TestSpread(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	span := 24 * time.Hour
	alerts := make([]models.ThreatAlert, 100)

	Spread(alerts, span, now, gofakeit.New(1))

	for i, a := range alerts {
		assert.False(t, a.Timestamp.Before(now.Add(-span)), "alert %d before span", i)
		assert.False(t, a.Timestamp.After(now), "alert %d after now", i)
	}

	// Jitter is bounded by the spacing, so the first and last alerts stay
	// near the ends of the span.
	assert.True(t, alerts[0].Timestamp.Before(now.Add(-span+time.Hour)))
	assert.True(t, alerts[99].Timestamp.After(now.Add(-2*time.Hour)))
}

func TestSpread_ZeroSpan(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	alerts := []models.ThreatAlert{{Timestamp: ts}}

	Spread(alerts, 0, time.Now(), gofakeit.New(1))
	assert.Equal(t, ts, alerts[0].Timestamp)
}
