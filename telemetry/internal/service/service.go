// Package service assembles dashboard payloads from the synthetic generator.
package service

import (
	"context"
	"errors"
	"regexp"
	"sort"

	"github.com/nctirs/nctirs-stack/common/models"
	"github.com/nctirs/nctirs-stack/telemetry/pkg/generator"
)

// ThreatFeedSize is the number of alerts returned by the threat feed.
const ThreatFeedSize = 20

// ErrInvalidThreatID is returned when a timeline is requested for an id
// that could never have been issued.
var ErrInvalidThreatID = errors.New("invalid threat id")

var threatIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// Service produces one payload per dashboard endpoint. It holds no state
// besides the generator and is safe for concurrent use.
type Service struct {
	gen *generator.Generator
}

func NewService(gen *generator.Generator) *Service {
	return &Service{gen: gen}
}

// Threats returns the live threat feed, newest first.
func (s *Service) Threats(ctx context.Context) ([]models.ThreatAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	alerts := make([]models.ThreatAlert, ThreatFeedSize)
	for i := range alerts {
		alerts[i] = s.gen.ThreatAlert()
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})

	return alerts, nil
}

// Alert returns a single freshly generated alert.
func (s *Service) Alert(ctx context.Context) (models.ThreatAlert, error) {
	if err := ctx.Err(); err != nil {
		return models.ThreatAlert{}, err
	}
	return s.gen.ThreatAlert(), nil
}

func (s *Service) Statistics(ctx context.Context) (models.ThreatStatistics, error) {
	if err := ctx.Err(); err != nil {
		return models.ThreatStatistics{}, err
	}
	return s.gen.ThreatStatistics(), nil
}

func (s *Service) Metrics(ctx context.Context) (models.SystemMetrics, error) {
	if err := ctx.Err(); err != nil {
		return models.SystemMetrics{}, err
	}
	return s.gen.SystemMetrics(), nil
}

func (s *Service) GeoThreats(ctx context.Context) ([]models.GeographicThreat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.gen.GeographicThreats(), nil
}

func (s *Service) MLModels(ctx context.Context) ([]models.MLModelMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.gen.MLModelMetrics(), nil
}

func (s *Service) Compliance(ctx context.Context) ([]models.ComplianceStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.gen.ComplianceStatus(), nil
}

func (s *Service) Agencies(ctx context.Context) ([]models.AgencyCollaboration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.gen.AgencyCollaboration(), nil
}

func (s *Service) Responses(ctx context.Context) ([]models.AutomatedResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.gen.AutomatedResponses(), nil
}

func (s *Service) DataProtection(ctx context.Context) ([]models.DataProtectionMetric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.gen.DataProtectionMetrics(), nil
}

// Timeline returns the incident response timeline for threatID.
// Any well-formed id is accepted; the feed is not persisted.
func (s *Service) Timeline(ctx context.Context, threatID string) ([]models.IncidentTimelineEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidThreatID(threatID) {
		return nil, ErrInvalidThreatID
	}
	return s.gen.IncidentTimeline(threatID), nil
}

// ValidThreatID reports whether id is 1-64 characters of letters, digits
// and hyphens.
func ValidThreatID(id string) bool {
	return threatIDPattern.MatchString(id)
}
