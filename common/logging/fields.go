package logging

import (
	"log/slog"
	"time"
)

// Field names shared by every component so log queries stay uniform.
const (
	FieldService   = "service"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldEndpoint  = "endpoint"
	FieldClientIP  = "client_ip"
	FieldSubject   = "subject"
	FieldCount     = "count"
)

func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration records d in whole milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}

// Error records err's message. A nil error is logged as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// Endpoint names the telemetry family being served (threats, compliance, ...).
func Endpoint(name string) slog.Attr {
	return slog.String(FieldEndpoint, name)
}

func ClientIP(ip string) slog.Attr {
	return slog.String(FieldClientIP, ip)
}

// Subject is a message broker subject.
func Subject(subject string) slog.Attr {
	return slog.String(FieldSubject, subject)
}

func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}
