package messaging

// Subjects follow the pattern {system}.{domain}.{resource}[.{qualifier}].
const (
	// SubjectThreatAlerts prefixes generated alerts; the severity is appended.
	SubjectThreatAlerts = "nctirs.threats.alerts"

	// SubjectThreatAlertsAll matches alerts of every severity.
	SubjectThreatAlertsAll = SubjectThreatAlerts + ".>"
)

// Header keys set on published alerts.
const (
	HeaderSeverity = "Nctirs-Severity"
	HeaderAlertID  = "Nctirs-Alert-Id"
)

// ThreatAlertSubject returns the subject for alerts of the given severity,
// e.g. nctirs.threats.alerts.critical.
func ThreatAlertSubject(severity string) string {
	return SubjectThreatAlerts + "." + severity
}
