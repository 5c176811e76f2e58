// Package generator synthesizes randomized threat-intelligence telemetry.
//
// Every record is built fresh on each call from fixed reference tables and a
// gofakeit random source. Nothing is cached or shared between calls, so a
// single Generator can serve concurrent requests.
package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/nctirs/nctirs-stack/common/models"
)

const (
	hour = time.Hour
	day  = 24 * time.Hour
)

// Generator builds synthetic telemetry records.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed seeds the random source. A zero seed picks a random one.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.faker = gofakeit.New(seed)
	}
}

// WithClock replaces time.Now as the reference point for timestamps and IDs.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator. Without options it is randomly seeded and uses
// the wall clock.
func New(opts ...Option) *Generator {
	g := &Generator{
		faker: gofakeit.New(0),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ThreatAlert returns one synthetic alert.
func (g *Generator) ThreatAlert() models.ThreatAlert {
	now := g.now()
	severity := pick(g, alertSeverities)
	vector := pick(g, alertVectors)
	origin := pick(g, threatCountries)

	assets := make([]string, g.intn(1, 5))
	for i := range assets {
		assets[i] = pick(g, governmentSystems)
	}

	actions := make([]models.ResponseAction, g.intn(1, 3))
	for i := range actions {
		actions[i] = pick(g, alertActions)
	}

	return models.ThreatAlert{
		ID:        g.threatID(now),
		Timestamp: g.within(now, hour),
		Title:     pick(g, alertTitles[vector]),
		Description: fmt.Sprintf(
			"%s attack targeting %s from %s. Automated systems detected suspicious patterns matching known threat signatures.",
			vector, pick(g, governmentSystems), origin.name,
		),
		Severity:       severity,
		Status:         pick(g, alertStatuses),
		AttackVector:   vector,
		TargetSystem:   pick(g, governmentSystems),
		TargetSector:   pick(g, alertSectors),
		SourceIP:       g.ipv4(),
		SourceCountry:  origin.name,
		DestinationIP:  fmt.Sprintf("%s.%d", pick(g, domesticPrefixes), g.intn(1, 254)),
		AffectedAssets: assets,
		RiskScore:      g.riskScore(severity),
		Confidence:     g.intn(70, 99),
		Indicators: []models.Indicator{
			{Type: models.IndicatorIP, Value: g.ipv4()},
			{Type: models.IndicatorDomain, Value: fmt.Sprintf("malicious-%d.%s", g.intn(1000, 9999), pick(g, maliciousTLDs))},
			{Type: models.IndicatorHash, Value: g.sha256Hex()},
		},
		MitreAttack:     []models.MitreTechnique{pick(g, mitreTechniques)},
		ResponseActions: actions,
	}
}

// RiskBand returns the closed range riskScore is drawn from for a severity.
func RiskBand(severity models.ThreatLevel) (low, high int) {
	switch severity {
	case models.ThreatLevelCritical:
		return 80, 100
	case models.ThreatLevelHigh:
		return 60, 85
	case models.ThreatLevelMedium:
		return 40, 65
	default:
		return 10, 45
	}
}

func (g *Generator) riskScore(severity models.ThreatLevel) int {
	low, high := RiskBand(severity)
	return g.intn(low, high)
}

// ThreatStatistics returns aggregate counters. Each field is an independent
// draw; the per-dimension counts are not reconciled with Total.
func (g *Generator) ThreatStatistics() models.ThreatStatistics {
	return models.ThreatStatistics{
		Total: g.intn(500, 2000),
		ByLevel: map[models.ThreatLevel]int{
			models.ThreatLevelCritical: g.intn(10, 50),
			models.ThreatLevelHigh:     g.intn(50, 150),
			models.ThreatLevelMedium:   g.intn(100, 300),
			models.ThreatLevelLow:      g.intn(200, 500),
			models.ThreatLevelInfo:     g.intn(100, 400),
		},
		ByVector: map[models.AttackVector]int{
			models.AttackVectorPhishing:        g.intn(50, 200),
			models.AttackVectorMalware:         g.intn(40, 150),
			models.AttackVectorDDoS:            g.intn(20, 80),
			models.AttackVectorRansomware:      g.intn(10, 40),
			models.AttackVectorDataBreach:      g.intn(15, 60),
			models.AttackVectorCredentialTheft: g.intn(30, 120),
			models.AttackVectorSQLInjection:    g.intn(25, 100),
			models.AttackVectorZeroDay:         g.intn(5, 20),
			models.AttackVectorAPT:             g.intn(5, 15),
			models.AttackVectorInsiderThreat:   g.intn(10, 40),
		},
		BySector: map[models.TargetSector]int{
			models.TargetSectorGovernment:     g.intn(100, 400),
			models.TargetSectorFinancial:      g.intn(80, 300),
			models.TargetSectorHealthcare:     g.intn(50, 200),
			models.TargetSectorEducation:      g.intn(40, 150),
			models.TargetSectorTelecom:        g.intn(60, 250),
			models.TargetSectorEnergy:         g.intn(30, 120),
			models.TargetSectorTransportation: g.intn(20, 100),
			models.TargetSectorDefense:        g.intn(15, 80),
		},
		ByStatus: map[models.ThreatStatus]int{
			models.ThreatStatusActive:        g.intn(50, 200),
			models.ThreatStatusContained:     g.intn(100, 300),
			models.ThreatStatusInvestigating: g.intn(80, 250),
			models.ThreatStatusResolved:      g.intn(200, 800),
		},
		Blocked:       g.intn(300, 1200),
		Investigating: g.intn(50, 200),
		Resolved:      g.intn(400, 1500),
	}
}

// SystemMetrics returns a platform load snapshot stamped with the current time.
func (g *Generator) SystemMetrics() models.SystemMetrics {
	return models.SystemMetrics{
		Timestamp:       g.now(),
		ThreatsDetected: g.intn(100, 500),
		ThreatsBlocked:  g.intn(80, 450),
		ResponseTime:    g.intn(50, 800),
		FalsePositives:  g.intn(5, 30),
		SystemLoad:      g.intn(40, 85),
		ActiveAnalysts:  g.intn(15, 45),
		ModelsRunning:   g.intn(8, 12),
		DataProcessed:   g.intn(1000, 5000),
	}
}

// GeographicThreats returns one entry per known origin country.
func (g *Generator) GeographicThreats() []models.GeographicThreat {
	out := make([]models.GeographicThreat, len(threatCountries))
	for i, c := range threatCountries {
		out[i] = models.GeographicThreat{
			Country:     c.name,
			CountryCode: c.code,
			Latitude:    c.lat,
			Longitude:   c.lon,
			ThreatCount: g.intn(10, 200),
			Severity:    pick(g, geoSeverities),
		}
	}
	return out
}

// MLModelMetrics returns quality metrics for each detection model.
func (g *Generator) MLModelMetrics() []models.MLModelMetrics {
	now := g.now()
	out := make([]models.MLModelMetrics, len(detectionModels))
	for i, name := range detectionModels {
		out[i] = models.MLModelMetrics{
			ModelName:     name,
			Accuracy:      g.ratio(88, 99),
			Precision:     g.ratio(85, 98),
			Recall:        g.ratio(86, 97),
			F1Score:       g.ratio(87, 98),
			InferenceTime: g.intn(50, 300),
			LastUpdated:   g.within(now, 7*day),
			Version:       fmt.Sprintf("v%d.%d.%d", g.intn(1, 3), g.intn(0, 9), g.intn(0, 9)),
			Status:        pick(g, modelStatuses),
		}
	}
	return out
}

// ComplianceStatus returns the audit result for each compliance category.
func (g *Generator) ComplianceStatus() []models.ComplianceStatus {
	now := g.now()
	out := make([]models.ComplianceStatus, len(complianceCategories))
	for i, category := range complianceCategories {
		score := g.intn(75, 100)
		issues := 0
		if score < 85 {
			issues = g.intn(1, 5)
		}
		out[i] = models.ComplianceStatus{
			Category:  category,
			Score:     score,
			Issues:    issues,
			LastAudit: g.within(now, 30*day),
			Status:    ComplianceState(score),
		}
	}
	return out
}

// ComplianceState maps an audit score to its compliance state.
func ComplianceState(score int) models.ComplianceState {
	switch {
	case score >= 90:
		return models.ComplianceCompliant
	case score >= 75:
		return models.ComplianceWarning
	default:
		return models.ComplianceNonCompliant
	}
}

// IncidentTimeline returns the handling steps for threatID, oldest first.
func (g *Generator) IncidentTimeline(threatID string) []models.IncidentTimelineEvent {
	now := g.now()
	at := now.Add(-time.Duration(g.intn(300_000, 3_600_000)) * time.Millisecond)
	out := make([]models.IncidentTimelineEvent, len(timelineSteps))
	for i, step := range timelineSteps {
		if i > 0 {
			// Steps are 1-5 minutes apart and never run past now.
			at = at.Add(time.Duration(g.intn(60_000, 300_000)) * time.Millisecond)
			if at.After(now) {
				at = now
			}
		}
		out[i] = models.IncidentTimelineEvent{
			ID:        fmt.Sprintf("%s-EVT-%d", threatID, i),
			Timestamp: at,
			Event:     step.event,
			Actor:     step.actor,
			Action:    step.action,
			Details:   step.action + " - Status: Completed",
			Severity:  timelineSeverity(i),
		}
	}
	return out
}

func timelineSeverity(step int) models.ThreatLevel {
	switch {
	case step < 2:
		return models.ThreatLevelCritical
	case step < 4:
		return models.ThreatLevelHigh
	default:
		return models.ThreatLevelMedium
	}
}

// AgencyCollaboration returns sharing stats for each partner agency.
func (g *Generator) AgencyCollaboration() []models.AgencyCollaboration {
	now := g.now()
	out := make([]models.AgencyCollaboration, len(partnerAgencies))
	for i, a := range partnerAgencies {
		status := models.AgencyActive
		if g.faker.Float64() <= 0.1 {
			status = models.AgencyInactive
		}
		out[i] = models.AgencyCollaboration{
			AgencyName:        a.name,
			AgencyCode:        a.code,
			ThreatsShared:     g.intn(20, 150),
			IncidentsReported: g.intn(10, 80),
			ResponseTime:      g.intn(5, 60),
			LastContact:       g.within(now, 3*day),
			Status:            status,
		}
	}
	return out
}

// AutomatedResponses returns between 5 and 15 recent containment actions.
func (g *Generator) AutomatedResponses() []models.AutomatedResponse {
	now := g.now()
	out := make([]models.AutomatedResponse, g.intn(5, 15))
	for i := range out {
		action := pick(g, automatedActions)
		status := pick(g, executionStatuses)

		target := pick(g, governmentSystems)
		if action == models.ResponseActionBlockIP {
			target = g.ipv4()
		}

		approver := models.ApproverAuto
		if g.faker.Float64() <= 0.2 {
			approver = models.ApproverAnalyst
		}

		out[i] = models.AutomatedResponse{
			ID:            fmt.Sprintf("RESP-%d-%d", now.UnixMilli(), i),
			Timestamp:     g.within(now, hour),
			ThreatID:      g.threatID(now),
			Action:        action,
			Target:        target,
			Status:        status,
			ExecutionTime: g.intn(100, 5000),
			Impact:        fmt.Sprintf("%s executed successfully on target", action),
			ApprovedBy:    approver,
			Success:       status == models.ExecutionCompleted,
		}
	}
	return out
}

// DataProtectionMetrics returns control metrics for the three protected
// data categories.
func (g *Generator) DataProtectionMetrics() []models.DataProtectionMetric {
	return []models.DataProtectionMetric{
		{
			Category:        "Encrypted Data",
			EncryptedData:   g.intn(100, 500),
			AccessRequests:  g.intn(1000, 5000),
			DeniedAccess:    g.intn(10, 100),
			DataBreaches:    0,
			ComplianceScore: g.intn(92, 100),
		},
		{
			Category:        "Access Control",
			EncryptedData:   0,
			AccessRequests:  g.intn(2000, 8000),
			DeniedAccess:    g.intn(50, 200),
			DataBreaches:    g.intn(0, 2),
			ComplianceScore: g.intn(85, 98),
		},
		{
			Category:        "Audit Logs",
			EncryptedData:   g.intn(50, 200),
			AccessRequests:  g.intn(5000, 15000),
			DeniedAccess:    0,
			DataBreaches:    0,
			ComplianceScore: g.intn(95, 100),
		},
	}
}

// intn returns a uniform integer in [min, max].
func (g *Generator) intn(min, max int) int {
	return g.faker.Number(min, max)
}

// ratio returns a uniform percentage in [min, max] as a fraction with two decimals.
func (g *Generator) ratio(min, max int) float64 {
	return float64(g.intn(min, max)) / 100
}

// within returns a time up to span before ref, at millisecond resolution.
func (g *Generator) within(ref time.Time, span time.Duration) time.Time {
	return ref.Add(-time.Duration(g.intn(0, int(span.Milliseconds()))) * time.Millisecond)
}

func (g *Generator) threatID(now time.Time) string {
	return fmt.Sprintf("THR-%d-%d", now.UnixMilli(), g.intn(1000, 9999))
}

func (g *Generator) ipv4() string {
	return fmt.Sprintf("%d.%d.%d.%d", g.intn(1, 255), g.intn(0, 255), g.intn(0, 255), g.intn(0, 255))
}

const hexDigits = "0123456789abcdef"

func (g *Generator) sha256Hex() string {
	var b strings.Builder
	b.Grow(64)
	for i := 0; i < 64; i++ {
		b.WriteByte(hexDigits[g.intn(0, 15)])
	}
	return b.String()
}

func pick[T any](g *Generator, items []T) T {
	return items[g.intn(0, len(items)-1)]
}
