package generator

import (
	"slices"

	"github.com/nctirs/nctirs-stack/common/models"
)

// Private copies of the exported enum lists, so callers editing the models
// package slices cannot change what the generator samples.
var (
	alertSeverities = slices.Clone(models.ThreatLevels)
	alertVectors    = slices.Clone(models.AttackVectors)
	alertStatuses   = slices.Clone(models.ThreatStatuses)
	alertSectors    = slices.Clone(models.TargetSectors)
	alertActions    = slices.Clone(models.ResponseActions)
)

type agency struct {
	name string
	code string
}

type country struct {
	name string
	code string
	lat  float64
	lon  float64
}

type timelineStep struct {
	event  string
	action string
	actor  string
}

var governmentSystems = []string{
	"eCitizen Portal",
	"Huduma Kenya",
	"IFMIS",
	"Digital ID System",
	"KRA iTax",
	"National Police Service Portal",
	"Ministry of Health System",
	"TSC Portal",
	"NTSA Portal",
	"Kenya Power Systems",
	"CBK Core Banking",
	"Safaricom M-Pesa Gateway",
}

var partnerAgencies = []agency{
	{name: "Communications Authority", code: "CA"},
	{name: "Kenya Revenue Authority", code: "KRA"},
	{name: "National Police Service", code: "NPS"},
	{name: "Central Bank of Kenya", code: "CBK"},
	{name: "Ministry of ICT", code: "MICT"},
	{name: "Data Protection Commission", code: "DPC"},
	{name: "National Intelligence Service", code: "NIS"},
	{name: "Kenya Defence Forces", code: "KDF"},
}

// Address blocks used for destination IPs. The last octet is appended at
// generation time, so these hold only the first three.
var domesticPrefixes = []string{
	"197.248.0",
	"41.80.0",
	"105.48.0",
	"154.126.0",
	"196.201.0",
}

var threatCountries = []country{
	{name: "China", code: "CN", lat: 35.8617, lon: 104.1954},
	{name: "Russia", code: "RU", lat: 61.524, lon: 105.3188},
	{name: "Nigeria", code: "NG", lat: 9.082, lon: 8.6753},
	{name: "United States", code: "US", lat: 37.0902, lon: -95.7129},
	{name: "North Korea", code: "KP", lat: 40.3399, lon: 127.5101},
	{name: "Iran", code: "IR", lat: 32.4279, lon: 53.688},
	{name: "Romania", code: "RO", lat: 45.9432, lon: 24.9668},
	{name: "India", code: "IN", lat: 20.5937, lon: 78.9629},
	{name: "Brazil", code: "BR", lat: -14.235, lon: -51.9253},
}

var mitreTechniques = []models.MitreTechnique{
	{Tactic: "Initial Access", Technique: "Phishing", ID: "T1566"},
	{Tactic: "Execution", Technique: "Command and Scripting Interpreter", ID: "T1059"},
	{Tactic: "Persistence", Technique: "Account Manipulation", ID: "T1098"},
	{Tactic: "Privilege Escalation", Technique: "Exploitation for Privilege Escalation", ID: "T1068"},
	{Tactic: "Defense Evasion", Technique: "Obfuscated Files or Information", ID: "T1027"},
	{Tactic: "Credential Access", Technique: "Brute Force", ID: "T1110"},
	{Tactic: "Discovery", Technique: "Network Service Discovery", ID: "T1046"},
	{Tactic: "Lateral Movement", Technique: "Remote Services", ID: "T1021"},
	{Tactic: "Collection", Technique: "Data from Local System", ID: "T1005"},
	{Tactic: "Exfiltration", Technique: "Exfiltration Over C2 Channel", ID: "T1041"},
}

var alertTitles = map[models.AttackVector][]string{
	models.AttackVectorPhishing:        {"Spear Phishing Campaign Detected", "Credential Harvesting Attempt", "Fake Government Portal"},
	models.AttackVectorMalware:         {"Trojan Detected in System", "Ransomware Activity Identified", "Backdoor Installation Attempt"},
	models.AttackVectorDDoS:            {"DDoS Attack on Government Portal", "Distributed Denial of Service", "Botnet Activity Detected"},
	models.AttackVectorRansomware:      {"Ransomware Encryption Detected", "Crypto-Locker Variant Found", "File Encryption in Progress"},
	models.AttackVectorDataBreach:      {"Unauthorized Data Access", "Database Exfiltration Attempt", "Sensitive Data Leak Detected"},
	models.AttackVectorCredentialTheft: {"Credential Dumping Activity", "Password Spray Attack", "Stolen Credentials Used"},
	models.AttackVectorSQLInjection:    {"SQL Injection Attempt", "Database Query Manipulation", "Web Application Exploit"},
	models.AttackVectorZeroDay:         {"Zero-Day Exploit Detected", "Unknown Vulnerability Exploited", "Novel Attack Pattern"},
	models.AttackVectorAPT:             {"Advanced Persistent Threat Activity", "State-Sponsored Attack", "Long-Term Infiltration"},
	models.AttackVectorInsiderThreat:   {"Suspicious Insider Activity", "Unauthorized Access by Employee", "Data Theft by Insider"},
}

var maliciousTLDs = []string{"com", "net", "org", "ru", "cn"}

var detectionModels = []string{
	"Anomaly Detection Engine",
	"Phishing Classifier",
	"Malware Detection Model",
	"Behavioral Analysis Model",
	"DDoS Prediction Model",
	"Threat Intelligence NLP",
}

// Weighted 3:1 towards active.
var modelStatuses = []models.ModelStatus{
	models.ModelStatusActive, models.ModelStatusActive, models.ModelStatusActive, models.ModelStatusTraining,
}

var complianceCategories = []string{
	"Data Protection Act 2019",
	"ISO 27001 Compliance",
	"Access Control Policies",
	"Encryption Standards",
	"Audit Logging",
	"Incident Response",
	"Data Retention",
	"Privacy Controls",
}

var timelineSteps = []timelineStep{
	{event: "Threat Detected", action: "Automated detection triggered", actor: "AI Detection Engine"},
	{event: "Analysis Started", action: "Deep analysis initiated", actor: "Threat Analytics"},
	{event: "Risk Assessed", action: "Risk score calculated", actor: "Risk Engine"},
	{event: "Alert Sent", action: "Notification sent to analysts", actor: "Alert System"},
	{event: "Investigation", action: "Manual review started", actor: "Security Analyst"},
	{event: "Containment", action: "Threat isolated", actor: "ARCM System"},
	{event: "Mitigation", action: "Response actions executed", actor: "Automated Response"},
}

// Automated responses never record alert-only.
var automatedActions = []models.ResponseAction{
	models.ResponseActionBlockIP, models.ResponseActionQuarantineEmail, models.ResponseActionIsolateSystem,
	models.ResponseActionSuspendAccount, models.ResponseActionDNSSinkhole, models.ResponseActionFirewallRule,
}

// Weighted 3:1:1 towards completed.
var executionStatuses = []models.ExecutionStatus{
	models.ExecutionCompleted, models.ExecutionCompleted, models.ExecutionCompleted,
	models.ExecutionExecuting, models.ExecutionFailed,
}

// Geographic threats never report info severity.
var geoSeverities = []models.ThreatLevel{
	models.ThreatLevelCritical, models.ThreatLevelHigh, models.ThreatLevelMedium, models.ThreatLevelLow,
}

// GeoCountryCount is the number of origin countries reported by GeographicThreats.
func GeoCountryCount() int { return len(threatCountries) }

// ModelCount is the number of detection models reported by MLModelMetrics.
func ModelCount() int { return len(detectionModels) }

// AgencyCount is the number of partner agencies reported by AgencyCollaboration.
func AgencyCount() int { return len(partnerAgencies) }

// ComplianceCategoryCount is the number of categories reported by ComplianceStatus.
func ComplianceCategoryCount() int { return len(complianceCategories) }

// TimelineLength is the number of events in an incident timeline.
func TimelineLength() int { return len(timelineSteps) }
