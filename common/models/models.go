// Package models defines the threat telemetry records shared by the telemetry
// service and the nctirs CLI.
package models

import "time"

// ThreatLevel is the severity band of an alert.
type ThreatLevel string

const (
	ThreatLevelCritical ThreatLevel = "critical"
	ThreatLevelHigh     ThreatLevel = "high"
	ThreatLevelMedium   ThreatLevel = "medium"
	ThreatLevelLow      ThreatLevel = "low"
	ThreatLevelInfo     ThreatLevel = "info"
)

// ThreatLevels lists every severity in descending order.
var ThreatLevels = []ThreatLevel{
	ThreatLevelCritical, ThreatLevelHigh, ThreatLevelMedium, ThreatLevelLow, ThreatLevelInfo,
}

// ThreatStatus is the triage state of an alert.
type ThreatStatus string

const (
	ThreatStatusActive        ThreatStatus = "active"
	ThreatStatusContained     ThreatStatus = "contained"
	ThreatStatusInvestigating ThreatStatus = "investigating"
	ThreatStatusResolved      ThreatStatus = "resolved"
)

var ThreatStatuses = []ThreatStatus{
	ThreatStatusActive, ThreatStatusContained, ThreatStatusInvestigating, ThreatStatusResolved,
}

// AttackVector is the categorical attack technique of an alert.
type AttackVector string

const (
	AttackVectorPhishing        AttackVector = "phishing"
	AttackVectorMalware         AttackVector = "malware"
	AttackVectorDDoS            AttackVector = "ddos"
	AttackVectorRansomware      AttackVector = "ransomware"
	AttackVectorDataBreach      AttackVector = "data-breach"
	AttackVectorCredentialTheft AttackVector = "credential-theft"
	AttackVectorSQLInjection    AttackVector = "sql-injection"
	AttackVectorZeroDay         AttackVector = "zero-day"
	AttackVectorAPT             AttackVector = "apt"
	AttackVectorInsiderThreat   AttackVector = "insider-threat"
)

var AttackVectors = []AttackVector{
	AttackVectorPhishing, AttackVectorMalware, AttackVectorDDoS, AttackVectorRansomware,
	AttackVectorDataBreach, AttackVectorCredentialTheft, AttackVectorSQLInjection,
	AttackVectorZeroDay, AttackVectorAPT, AttackVectorInsiderThreat,
}

// TargetSector is the industry sector an alert targets.
type TargetSector string

const (
	TargetSectorGovernment     TargetSector = "government"
	TargetSectorFinancial      TargetSector = "financial"
	TargetSectorHealthcare     TargetSector = "healthcare"
	TargetSectorEducation      TargetSector = "education"
	TargetSectorTelecom        TargetSector = "telecom"
	TargetSectorEnergy         TargetSector = "energy"
	TargetSectorTransportation TargetSector = "transportation"
	TargetSectorDefense        TargetSector = "defense"
)

var TargetSectors = []TargetSector{
	TargetSectorGovernment, TargetSectorFinancial, TargetSectorHealthcare, TargetSectorEducation,
	TargetSectorTelecom, TargetSectorEnergy, TargetSectorTransportation, TargetSectorDefense,
}

// ResponseAction is a containment action taken against a threat.
type ResponseAction string

const (
	ResponseActionBlockIP         ResponseAction = "block-ip"
	ResponseActionQuarantineEmail ResponseAction = "quarantine-email"
	ResponseActionIsolateSystem   ResponseAction = "isolate-system"
	ResponseActionSuspendAccount  ResponseAction = "suspend-account"
	ResponseActionDNSSinkhole     ResponseAction = "dns-sinkhole"
	ResponseActionFirewallRule    ResponseAction = "firewall-rule"
	ResponseActionAlertOnly       ResponseAction = "alert-only"
)

var ResponseActions = []ResponseAction{
	ResponseActionBlockIP, ResponseActionQuarantineEmail, ResponseActionIsolateSystem,
	ResponseActionSuspendAccount, ResponseActionDNSSinkhole, ResponseActionFirewallRule,
	ResponseActionAlertOnly,
}

// IndicatorType classifies an indicator of compromise.
type IndicatorType string

const (
	IndicatorIP     IndicatorType = "ip"
	IndicatorDomain IndicatorType = "domain"
	IndicatorURL    IndicatorType = "url"
	IndicatorHash   IndicatorType = "hash"
	IndicatorEmail  IndicatorType = "email"
)

// Indicator is an indicator of compromise attached to an alert.
type Indicator struct {
	Type  IndicatorType `json:"type"`
	Value string        `json:"value"`
}

// MitreTechnique is a MITRE ATT&CK tactic/technique pair.
type MitreTechnique struct {
	Tactic    string `json:"tactic"`
	Technique string `json:"technique"`
	ID        string `json:"id"`
}

// ThreatAlert is a single synthetic security event.
type ThreatAlert struct {
	ID              string           `json:"id"`
	Timestamp       time.Time        `json:"timestamp"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Severity        ThreatLevel      `json:"severity"`
	Status          ThreatStatus     `json:"status"`
	AttackVector    AttackVector     `json:"attackVector"`
	TargetSystem    string           `json:"targetSystem"`
	TargetSector    TargetSector     `json:"targetSector"`
	SourceIP        string           `json:"sourceIP"`
	SourceCountry   string           `json:"sourceCountry"`
	DestinationIP   string           `json:"destinationIP"`
	AffectedAssets  []string         `json:"affectedAssets"`
	RiskScore       int              `json:"riskScore"`
	Confidence      int              `json:"confidence"`
	Indicators      []Indicator      `json:"indicators"`
	MitreAttack     []MitreTechnique `json:"mitreAttack"`
	AssignedTo      string           `json:"assignedTo,omitempty"`
	ResponseActions []ResponseAction `json:"responseActions"`
}

// ThreatStatistics holds aggregate alert counters. Sub-counts are drawn
// independently and do not have to sum to Total.
type ThreatStatistics struct {
	Total         int                  `json:"total"`
	ByLevel       map[ThreatLevel]int  `json:"byLevel"`
	ByVector      map[AttackVector]int `json:"byVector"`
	BySector      map[TargetSector]int `json:"bySector"`
	ByStatus      map[ThreatStatus]int `json:"byStatus"`
	Blocked       int                  `json:"blocked"`
	Investigating int                  `json:"investigating"`
	Resolved      int                  `json:"resolved"`
}

// SystemMetrics is a point-in-time snapshot of platform load.
type SystemMetrics struct {
	Timestamp       time.Time `json:"timestamp"`
	ThreatsDetected int       `json:"threatsDetected"`
	ThreatsBlocked  int       `json:"threatsBlocked"`
	ResponseTime    int       `json:"responseTime"` // milliseconds
	FalsePositives  int       `json:"falsePositives"`
	SystemLoad      int       `json:"systemLoad"` // percent
	ActiveAnalysts  int       `json:"activeAnalysts"`
	ModelsRunning   int       `json:"modelsRunning"`
	DataProcessed   int       `json:"dataProcessed"` // MB
}

// GeographicThreat is the threat volume attributed to one origin country.
type GeographicThreat struct {
	Country     string      `json:"country"`
	CountryCode string      `json:"countryCode"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	ThreatCount int         `json:"threatCount"`
	Severity    ThreatLevel `json:"severity"`
}

// ModelStatus is the lifecycle state of a detection model.
type ModelStatus string

const (
	ModelStatusActive     ModelStatus = "active"
	ModelStatusTraining   ModelStatus = "training"
	ModelStatusDeprecated ModelStatus = "deprecated"
)

// MLModelMetrics describes the quality of one detection model.
type MLModelMetrics struct {
	ModelName     string      `json:"modelName"`
	Accuracy      float64     `json:"accuracy"`
	Precision     float64     `json:"precision"`
	Recall        float64     `json:"recall"`
	F1Score       float64     `json:"f1Score"`
	InferenceTime int         `json:"inferenceTime"` // milliseconds
	LastUpdated   time.Time   `json:"lastUpdated"`
	Version       string      `json:"version"`
	Status        ModelStatus `json:"status"`
}

// ComplianceState is the outcome of a compliance audit.
type ComplianceState string

const (
	ComplianceCompliant    ComplianceState = "compliant"
	ComplianceWarning      ComplianceState = "warning"
	ComplianceNonCompliant ComplianceState = "non-compliant"
)

// ComplianceStatus is the audit score of one compliance category.
type ComplianceStatus struct {
	Category  string          `json:"category"`
	Score     int             `json:"score"`
	Issues    int             `json:"issues"`
	LastAudit time.Time       `json:"lastAudit"`
	Status    ComplianceState `json:"status"`
}

// IncidentTimelineEvent is one step in the handling of an incident.
type IncidentTimelineEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Event     string      `json:"event"`
	Actor     string      `json:"actor"`
	Action    string      `json:"action"`
	Details   string      `json:"details"`
	Severity  ThreatLevel `json:"severity"`
}

// AgencyStatus reports whether an agency is currently exchanging data.
type AgencyStatus string

const (
	AgencyActive   AgencyStatus = "active"
	AgencyInactive AgencyStatus = "inactive"
)

// AgencyCollaboration holds threat-sharing stats for one partner agency.
type AgencyCollaboration struct {
	AgencyName        string       `json:"agencyName"`
	AgencyCode        string       `json:"agencyCode"`
	ThreatsShared     int          `json:"threatsShared"`
	IncidentsReported int          `json:"incidentsReported"`
	ResponseTime      int          `json:"responseTime"` // minutes
	LastContact       time.Time    `json:"lastContact"`
	Status            AgencyStatus `json:"status"`
}

// ExecutionStatus is the state of an automated response.
type ExecutionStatus string

const (
	ExecutionPending    ExecutionStatus = "pending"
	ExecutionExecuting  ExecutionStatus = "executing"
	ExecutionCompleted  ExecutionStatus = "completed"
	ExecutionFailed     ExecutionStatus = "failed"
	ExecutionRolledBack ExecutionStatus = "rolled-back"
)

// Approver identifies who authorised an automated response.
type Approver string

const (
	ApproverAuto    Approver = "auto"
	ApproverAnalyst Approver = "analyst"
)

// AutomatedResponse records a containment action and its outcome.
type AutomatedResponse struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	ThreatID      string          `json:"threatId"`
	Action        ResponseAction  `json:"action"`
	Target        string          `json:"target"`
	Status        ExecutionStatus `json:"status"`
	ExecutionTime int             `json:"executionTime"` // milliseconds
	Impact        string          `json:"impact"`
	ApprovedBy    Approver        `json:"approvedBy"`
	Success       bool            `json:"success"`
}

// DataProtectionMetric summarises data-protection controls for one category.
type DataProtectionMetric struct {
	Category        string `json:"category"`
	EncryptedData   int    `json:"encryptedData"` // GB
	AccessRequests  int    `json:"accessRequests"`
	DeniedAccess    int    `json:"deniedAccess"`
	DataBreaches    int    `json:"dataBreaches"`
	ComplianceScore int    `json:"complianceScore"`
}

// HealthResponse is returned by the health and readiness endpoints.
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version,omitempty"`
	Uptime  string            `json:"uptime,omitempty"`
	Host    *HostStats        `json:"host,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HostStats is a coarse view of the machine the service runs on.
type HostStats struct {
	CPUCount      int     `json:"cpuCount"`
	MemoryUsedPct float64 `json:"memoryUsedPct"`
	Load1         float64 `json:"load1"`
}
