package generator

import (
	"fmt"
	"net"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nctirs/nctirs-stack/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samples = 1000

var (
	threatIDPattern = regexp.MustCompile(`^THR-\d+-\d{4}$`)
	hashPattern     = regexp.MustCompile(`^[0-9a-f]{64}$`)
	domainPattern   = regexp.MustCompile(`^malicious-\d{4}\.(com|net|org|ru|cn)$`)
	versionPattern  = regexp.MustCompile(`^v[1-3]\.\d\.\d$`)
)

func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestThreatAlert_Invariants(t *testing.T) {
	now := fixedClock()
	g := New(WithClock(now))

	for i := 0; i < samples; i++ {
		a := g.ThreatAlert()

		low, high := RiskBand(a.Severity)
		require.GreaterOrEqual(t, a.RiskScore, low, "severity %s", a.Severity)
		require.LessOrEqual(t, a.RiskScore, high, "severity %s", a.Severity)
		require.GreaterOrEqual(t, a.RiskScore, 0)
		require.LessOrEqual(t, a.RiskScore, 100)
		require.GreaterOrEqual(t, a.Confidence, 70)
		require.LessOrEqual(t, a.Confidence, 99)

		require.Regexp(t, threatIDPattern, a.ID)
		require.False(t, a.Timestamp.After(now()))
		require.False(t, a.Timestamp.Before(now().Add(-time.Hour)))

		require.Contains(t, models.ThreatLevels, a.Severity)
		require.Contains(t, models.ThreatStatuses, a.Status)
		require.Contains(t, models.AttackVectors, a.AttackVector)
		require.Contains(t, models.TargetSectors, a.TargetSector)
		require.Contains(t, alertTitles[a.AttackVector], a.Title)
		require.Contains(t, governmentSystems, a.TargetSystem)
		require.True(t, strings.HasPrefix(a.Description, string(a.AttackVector)+" attack targeting "))
		require.True(t, strings.Contains(a.Description, a.SourceCountry))

		require.Len(t, a.MitreAttack, 1)
		require.Contains(t, mitreTechniques, a.MitreAttack[0])

		require.GreaterOrEqual(t, len(a.ResponseActions), 1)
		require.LessOrEqual(t, len(a.ResponseActions), 3)
		for _, action := range a.ResponseActions {
			require.Contains(t, models.ResponseActions, action)
		}

		require.GreaterOrEqual(t, len(a.AffectedAssets), 1)
		require.LessOrEqual(t, len(a.AffectedAssets), 5)
		for _, asset := range a.AffectedAssets {
			require.Contains(t, governmentSystems, asset)
		}

		require.Len(t, a.Indicators, 3)
		assert.Equal(t, models.IndicatorIP, a.Indicators[0].Type)
		assert.NotNil(t, net.ParseIP(a.Indicators[0].Value))
		assert.Equal(t, models.IndicatorDomain, a.Indicators[1].Type)
		assert.Regexp(t, domainPattern, a.Indicators[1].Value)
		assert.Equal(t, models.IndicatorHash, a.Indicators[2].Type)
		assert.Regexp(t, hashPattern, a.Indicators[2].Value)

		src := net.ParseIP(a.SourceIP).To4()
		require.NotNil(t, src, a.SourceIP)
		require.NotZero(t, src[0])

		dst := net.ParseIP(a.DestinationIP).To4()
		require.NotNil(t, dst, a.DestinationIP)
		require.GreaterOrEqual(t, int(dst[3]), 1)
		require.LessOrEqual(t, int(dst[3]), 254)
		prefix := a.DestinationIP[:strings.LastIndex(a.DestinationIP, ".")]
		require.Contains(t, domesticPrefixes, prefix)
	}
}

func TestThreatAlert_CoversEverySeverity(t *testing.T) {
	g := New()
	seen := map[models.ThreatLevel]bool{}
	for i := 0; i < samples; i++ {
		seen[g.ThreatAlert().Severity] = true
	}
	assert.Len(t, seen, len(models.ThreatLevels))
}

func TestRiskBand(t *testing.T) {
	tests := []struct {
		severity  models.ThreatLevel
		low, high int
	}{
		{models.ThreatLevelCritical, 80, 100},
		{models.ThreatLevelHigh, 60, 85},
		{models.ThreatLevelMedium, 40, 65},
		{models.ThreatLevelLow, 10, 45},
		{models.ThreatLevelInfo, 10, 45},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			low, high := RiskBand(tt.severity)
			assert.Equal(t, tt.low, low)
			assert.Equal(t, tt.high, high)
		})
	}
}

func TestThreatStatistics_Ranges(t *testing.T) {
	g := New()
	for i := 0; i < samples; i++ {
		s := g.ThreatStatistics()

		require.GreaterOrEqual(t, s.Total, 500)
		require.LessOrEqual(t, s.Total, 2000)
		require.Len(t, s.ByLevel, len(models.ThreatLevels))
		require.Len(t, s.ByVector, len(models.AttackVectors))
		require.Len(t, s.BySector, len(models.TargetSectors))
		require.Len(t, s.ByStatus, len(models.ThreatStatuses))

		require.GreaterOrEqual(t, s.ByLevel[models.ThreatLevelCritical], 10)
		require.LessOrEqual(t, s.ByLevel[models.ThreatLevelCritical], 50)
		require.GreaterOrEqual(t, s.ByVector[models.AttackVectorAPT], 5)
		require.LessOrEqual(t, s.ByVector[models.AttackVectorAPT], 15)
		require.GreaterOrEqual(t, s.BySector[models.TargetSectorDefense], 15)
		require.LessOrEqual(t, s.BySector[models.TargetSectorDefense], 80)
		require.GreaterOrEqual(t, s.ByStatus[models.ThreatStatusResolved], 200)
		require.LessOrEqual(t, s.ByStatus[models.ThreatStatusResolved], 800)

		require.GreaterOrEqual(t, s.Blocked, 300)
		require.LessOrEqual(t, s.Blocked, 1200)
		require.GreaterOrEqual(t, s.Investigating, 50)
		require.LessOrEqual(t, s.Investigating, 200)
		require.GreaterOrEqual(t, s.Resolved, 400)
		require.LessOrEqual(t, s.Resolved, 1500)
	}
}

func TestSystemMetrics_Ranges(t *testing.T) {
	now := fixedClock()
	g := New(WithClock(now))
	for i := 0; i < samples; i++ {
		m := g.SystemMetrics()
		require.Equal(t, now(), m.Timestamp)
		require.True(t, m.ThreatsDetected >= 100 && m.ThreatsDetected <= 500)
		require.True(t, m.ThreatsBlocked >= 80 && m.ThreatsBlocked <= 450)
		require.True(t, m.ResponseTime >= 50 && m.ResponseTime <= 800)
		require.True(t, m.FalsePositives >= 5 && m.FalsePositives <= 30)
		require.True(t, m.SystemLoad >= 40 && m.SystemLoad <= 85)
		require.True(t, m.ActiveAnalysts >= 15 && m.ActiveAnalysts <= 45)
		require.True(t, m.ModelsRunning >= 8 && m.ModelsRunning <= 12)
		require.True(t, m.DataProcessed >= 1000 && m.DataProcessed <= 5000)
	}
}

func TestGeographicThreats(t *testing.T) {
	g := New()
	for i := 0; i < samples; i++ {
		geo := g.GeographicThreats()
		require.Len(t, geo, 9)
		require.Equal(t, GeoCountryCount(), len(geo))
		for j, entry := range geo {
			require.Equal(t, threatCountries[j].name, entry.Country)
			require.Equal(t, threatCountries[j].code, entry.CountryCode)
			require.True(t, entry.ThreatCount >= 10 && entry.ThreatCount <= 200)
			require.NotEqual(t, models.ThreatLevelInfo, entry.Severity)
		}
	}
}

func TestMLModelMetrics(t *testing.T) {
	now := fixedClock()
	g := New(WithClock(now))
	for i := 0; i < samples; i++ {
		ms := g.MLModelMetrics()
		require.Len(t, ms, 6)
		for j, m := range ms {
			require.Equal(t, detectionModels[j], m.ModelName)
			for _, v := range []float64{m.Accuracy, m.Precision, m.Recall, m.F1Score} {
				require.True(t, v >= 0 && v <= 1, "metric %v out of range", v)
			}
			require.True(t, m.Accuracy >= 0.88 && m.Accuracy <= 0.99)
			require.True(t, m.InferenceTime >= 50 && m.InferenceTime <= 300)
			require.Regexp(t, versionPattern, m.Version)
			require.Contains(t, []models.ModelStatus{models.ModelStatusActive, models.ModelStatusTraining}, m.Status)
			require.False(t, m.LastUpdated.After(now()))
			require.False(t, m.LastUpdated.Before(now().Add(-7*day)))
		}
	}
}

func TestComplianceStatus_DerivedFields(t *testing.T) {
	g := New()
	for i := 0; i < samples; i++ {
		cs := g.ComplianceStatus()
		require.Len(t, cs, ComplianceCategoryCount())
		for _, c := range cs {
			require.True(t, c.Score >= 0 && c.Score <= 100)
			require.Equal(t, c.Score >= 90, c.Status == models.ComplianceCompliant)
			require.Equal(t, c.Score < 75, c.Status == models.ComplianceNonCompliant)
			if c.Score >= 75 && c.Score < 90 {
				require.Equal(t, models.ComplianceWarning, c.Status)
			}
			require.Equal(t, c.Score < 85, c.Issues > 0, "score %d issues %d", c.Score, c.Issues)
			require.LessOrEqual(t, c.Issues, 5)
		}
	}
}

func TestComplianceState(t *testing.T) {
	tests := []struct {
		score int
		want  models.ComplianceState
	}{
		{100, models.ComplianceCompliant},
		{90, models.ComplianceCompliant},
		{89, models.ComplianceWarning},
		{75, models.ComplianceWarning},
		{74, models.ComplianceNonCompliant},
		{0, models.ComplianceNonCompliant},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComplianceState(tt.score), "score %d", tt.score)
	}
}

func TestAgencyCollaboration(t *testing.T) {
	g := New()
	active := 0
	total := 0
	for i := 0; i < samples; i++ {
		agencies := g.AgencyCollaboration()
		require.Len(t, agencies, 8)
		for j, a := range agencies {
			require.Equal(t, partnerAgencies[j].code, a.AgencyCode)
			require.True(t, a.ThreatsShared >= 20 && a.ThreatsShared <= 150)
			require.True(t, a.IncidentsReported >= 10 && a.IncidentsReported <= 80)
			require.True(t, a.ResponseTime >= 5 && a.ResponseTime <= 60)
			require.Contains(t, []models.AgencyStatus{models.AgencyActive, models.AgencyInactive}, a.Status)
			if a.Status == models.AgencyActive {
				active++
			}
			total++
		}
	}
	// 8000 draws at p=0.9; the bounds sit far outside any plausible deviation.
	ratio := float64(active) / float64(total)
	assert.InDelta(t, 0.9, ratio, 0.03)
}

func TestAutomatedResponses(t *testing.T) {
	g := New()
	for i := 0; i < samples; i++ {
		rs := g.AutomatedResponses()
		require.True(t, len(rs) >= 5 && len(rs) <= 15, "got %d responses", len(rs))
		for _, r := range rs {
			require.Equal(t, r.Status == models.ExecutionCompleted, r.Success)
			require.NotEqual(t, models.ResponseActionAlertOnly, r.Action)
			require.Regexp(t, threatIDPattern, r.ThreatID)
			require.True(t, strings.HasPrefix(r.ID, "RESP-"))
			require.True(t, r.ExecutionTime >= 100 && r.ExecutionTime <= 5000)
			require.Contains(t, []models.Approver{models.ApproverAuto, models.ApproverAnalyst}, r.ApprovedBy)
			if r.Action == models.ResponseActionBlockIP {
				require.NotNil(t, net.ParseIP(r.Target), r.Target)
			} else {
				require.Contains(t, governmentSystems, r.Target)
			}
		}
	}
}

func TestAutomatedResponses_UniqueIDs(t *testing.T) {
	rs := New().AutomatedResponses()
	seen := map[string]bool{}
	for _, r := range rs {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestIncidentTimeline(t *testing.T) {
	now := fixedClock()
	g := New(WithClock(now))
	for i := 0; i < samples; i++ {
		events := g.IncidentTimeline("THR-1-1234")
		require.Len(t, events, TimelineLength())
		for j, e := range events {
			require.Equal(t, fmt.Sprintf("THR-1-1234-EVT-%d", j), e.ID)
			require.Equal(t, timelineSteps[j].event, e.Event)
			require.Equal(t, timelineSeverity(j), e.Severity)
			if j > 0 {
				require.False(t, e.Timestamp.Before(events[j-1].Timestamp))
			}
		}
		require.False(t, events[0].Timestamp.After(now().Add(-5*time.Minute)))
		require.False(t, events[len(events)-1].Timestamp.After(now()))
	}
	assert.Equal(t, models.ThreatLevelCritical, timelineSeverity(1))
	assert.Equal(t, models.ThreatLevelHigh, timelineSeverity(3))
	assert.Equal(t, models.ThreatLevelMedium, timelineSeverity(6))
}

func TestDataProtectionMetrics(t *testing.T) {
	g := New()
	for i := 0; i < samples; i++ {
		ms := g.DataProtectionMetrics()
		require.Len(t, ms, 3)
		require.Equal(t, "Encrypted Data", ms[0].Category)
		require.Zero(t, ms[0].DataBreaches)
		require.True(t, ms[0].ComplianceScore >= 92 && ms[0].ComplianceScore <= 100)
		require.Zero(t, ms[1].EncryptedData)
		require.True(t, ms[1].DataBreaches >= 0 && ms[1].DataBreaches <= 2)
		require.Zero(t, ms[2].DeniedAccess)
		require.True(t, ms[2].AccessRequests >= 5000 && ms[2].AccessRequests <= 15000)
	}
}

func TestWithSeed_Reproducible(t *testing.T) {
	a := New(WithSeed(42), WithClock(fixedClock()))
	b := New(WithSeed(42), WithClock(fixedClock()))

	assert.Equal(t, a.ThreatAlert(), b.ThreatAlert())
	assert.Equal(t, a.ThreatStatistics(), b.ThreatStatistics())
	assert.Equal(t, a.AutomatedResponses(), b.AutomatedResponses())
}

func TestConsecutiveCallsVary(t *testing.T) {
	g := New()
	first := g.ThreatAlert()
	differs := false
	for i := 0; i < 10 && !differs; i++ {
		differs = g.ThreatAlert().Indicators[2].Value != first.Indicators[2].Value
	}
	assert.True(t, differs)
}

func TestReferenceCounts(t *testing.T) {
	assert.Equal(t, 9, GeoCountryCount())
	assert.Equal(t, 6, ModelCount())
	assert.Equal(t, 8, AgencyCount())
	assert.Equal(t, 8, ComplianceCategoryCount())
	assert.Len(t, alertTitles, len(models.AttackVectors))
	assert.NotContains(t, automatedActions, models.ResponseActionAlertOnly)
}

func TestGenerator_IgnoresEditsToModelEnumLists(t *testing.T) {
	levels := slices.Clone(models.ThreatLevels)
	actions := slices.Clone(models.ResponseActions)
	t.Cleanup(func() {
		copy(models.ThreatLevels, levels)
		copy(models.ResponseActions, actions)
	})
	for i := range models.ThreatLevels {
		models.ThreatLevels[i] = "bogus"
	}
	for i := range models.ResponseActions {
		models.ResponseActions[i] = "bogus"
	}

	g := New(WithSeed(11), WithClock(fixedClock()))
	for i := 0; i < 200; i++ {
		a := g.ThreatAlert()
		assert.Contains(t, levels, a.Severity)
		for _, act := range a.ResponseActions {
			assert.Contains(t, actions, act)
		}
	}
	for _, geo := range g.GeographicThreats() {
		assert.Contains(t, levels[:4], geo.Severity)
	}
	for _, r := range g.AutomatedResponses() {
		assert.Contains(t, actions[:6], r.Action)
		assert.NotEqual(t, models.ResponseActionAlertOnly, r.Action)
	}
}
