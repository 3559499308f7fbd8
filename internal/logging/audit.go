package logging

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// AUDIT EVENT TYPES
// =============================================================================

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Customer lookup
	AuditLookupIssued    AuditEventType = "lookup_issued"
	AuditLookupApplied   AuditEventType = "lookup_applied"
	AuditLookupDiscarded AuditEventType = "lookup_discarded"

	// Registration
	AuditSubmitBlocked   AuditEventType = "submit_blocked"
	AuditSubmitSent      AuditEventType = "submit_sent"
	AuditSubmitSucceeded AuditEventType = "submit_succeeded"
	AuditSubmitFailed    AuditEventType = "submit_failed"

	// Geolocation
	AuditLocateSucceeded AuditEventType = "locate_succeeded"
	AuditLocateFailed    AuditEventType = "locate_failed"

	// Session
	AuditSessionStart AuditEventType = "session_start"
	AuditSessionEnd   AuditEventType = "session_end"
)

// =============================================================================
// AUDIT EVENT STRUCTURE
// =============================================================================

// AuditEvent represents a structured audit log entry.
type AuditEvent struct {
	EventType  AuditEventType
	RequestID  string
	Target     string // phone number, endpoint or coordinates
	Success    bool
	DurationMs int64
	Error      string
	Message    string
}

// AuditLogger writes audit events scoped to one form session.
type AuditLogger struct {
	sessionID string
}

// AuditWithSession creates an audit logger scoped to a session
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// SessionID returns the session the logger is scoped to.
func (a *AuditLogger) SessionID() string {
	return a.sessionID
}

// Log writes an audit event
func (a *AuditLogger) Log(event AuditEvent) {
	fields := []zap.Field{
		zap.String("event", string(event.EventType)),
		zap.Bool("success", event.Success),
	}
	if a.sessionID != "" {
		fields = append(fields, zap.String("session", a.sessionID))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("req", event.RequestID))
	}
	if event.Target != "" {
		fields = append(fields, zap.String("target", event.Target))
	}
	if event.DurationMs > 0 {
		fields = append(fields, zap.Int64("dur_ms", event.DurationMs))
	}
	if event.Error != "" {
		fields = append(fields, zap.String("error", oneLine(event.Error)))
	}
	msg := event.Message
	if msg == "" {
		msg = string(event.EventType)
	}
	Get(CategoryAudit).Info(msg, fields...)
}

// oneLine keeps multi-line upstream errors on a single log line.
func oneLine(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch c {
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// =============================================================================
// CONVENIENCE METHODS FOR COMMON EVENTS
// =============================================================================

// LookupIssued logs a customer lookup request
func (a *AuditLogger) LookupIssued(seq uint64, phone string) {
	a.Log(AuditEvent{
		EventType: AuditLookupIssued,
		Target:    phone,
		Success:   true,
		Message:   "Customer lookup issued",
		RequestID: seqID(seq),
	})
}

// LookupFinished logs whether a lookup response was merged into the draft
func (a *AuditLogger) LookupFinished(seq uint64, phone string, applied bool, err error) {
	ev := AuditEvent{
		EventType: AuditLookupApplied,
		Target:    phone,
		Success:   applied,
		RequestID: seqID(seq),
		Message:   "Customer lookup applied",
	}
	if !applied {
		ev.EventType = AuditLookupDiscarded
		ev.Message = "Customer lookup discarded"
	}
	if err != nil {
		ev.Error = err.Error()
	}
	a.Log(ev)
}

// SubmitBlocked logs a submit attempt rejected by validation
func (a *AuditLogger) SubmitBlocked(fields []string) {
	a.Log(AuditEvent{
		EventType: AuditSubmitBlocked,
		Target:    strings.Join(fields, ","),
		Message:   "Registration blocked by validation",
	})
}

// SubmitSent logs a registration POST being fired
func (a *AuditLogger) SubmitSent(requestID, endpoint string, optimistic bool) {
	msg := "Registration sent"
	if optimistic {
		msg = "Registration sent (optimistic)"
	}
	a.Log(AuditEvent{
		EventType: AuditSubmitSent,
		RequestID: requestID,
		Target:    endpoint,
		Success:   true,
		Message:   msg,
	})
}

// SubmitFinished logs the outcome of a registration POST
func (a *AuditLogger) SubmitFinished(requestID, endpoint string, dur time.Duration, err error) {
	ev := AuditEvent{
		EventType:  AuditSubmitSucceeded,
		RequestID:  requestID,
		Target:     endpoint,
		Success:    err == nil,
		DurationMs: dur.Milliseconds(),
		Message:    "Registration accepted",
	}
	if err != nil {
		ev.EventType = AuditSubmitFailed
		ev.Error = err.Error()
		ev.Message = "Registration failed"
	}
	a.Log(ev)
}

// LocateFinished logs the outcome of a geolocation request
func (a *AuditLogger) LocateFinished(position string, err error) {
	ev := AuditEvent{
		EventType: AuditLocateSucceeded,
		Target:    position,
		Success:   err == nil,
		Message:   "Location acquired",
	}
	if err != nil {
		ev.EventType = AuditLocateFailed
		ev.Error = err.Error()
		ev.Message = "Location unavailable"
	}
	a.Log(ev)
}

func seqID(seq uint64) string {
	if seq == 0 {
		return ""
	}
	return "lookup-" + strconv.FormatUint(seq, 10)
}

// SessionStart logs the form being mounted
func (a *AuditLogger) SessionStart(deviceDescriptor string) {
	a.Log(AuditEvent{
		EventType: AuditSessionStart,
		Target:    deviceDescriptor,
		Success:   true,
		Message:   "Form session started",
	})
}

// SessionEnd logs the form being closed
func (a *AuditLogger) SessionEnd(submitted bool) {
	a.Log(AuditEvent{
		EventType: AuditSessionEnd,
		Success:   submitted,
		Message:   "Form session ended",
	})
}
