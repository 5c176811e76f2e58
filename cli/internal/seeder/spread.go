package seeder

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/nctirs/nctirs-stack/common/models"
)

// Spread rewrites alert timestamps so they are evenly spaced across the span
// ending at now, each jittered by up to ±40% of the spacing. A zero span
// leaves the alerts untouched.
func Spread(alerts []models.ThreatAlert, span time.Duration, now time.Time, faker *gofakeit.Faker) {
	if span <= 0 || len(alerts) == 0 {
		return
	}

	baseInterval := float64(span) / float64(len(alerts))
	jitterRange := baseInterval * 0.4

	for i := range alerts {
		offset := time.Duration(float64(i)*baseInterval + (faker.Float64()*2.0-1.0)*jitterRange)
		if offset < 0 {
			offset = 0
		}
		if offset > span {
			offset = span
		}
		alerts[i].Timestamp = now.Add(-(span - offset))
	}
}
