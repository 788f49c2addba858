// Package eventlog is the Metrics & Event Collector of spec.md §4.8: a
// single append-only log of typed records, returned with the run result.
// End-of-run KPIs are not computed from this log: the orchestrator builds
// them from counters kept on the World. There is no CSV export of the log,
// and the log is always on; there is no disabled mode.
//
// Grounded on the teacher's sim/trace package (SimulationTrace, TraceConfig,
// TraceLevel, typed AdmissionRecord/RoutingRecord structs): PopUpSim keeps
// the typed-records shape but generalizes from two record types (admission,
// routing) to the nine event types spec.md §4.8 names.
package eventlog

import "github.com/google/uuid"

// EventType enumerates the typed records spec.md §4.8 names.
type EventType string

const (
	TrainArrived            EventType = "TrainArrived"
	WagonSelected           EventType = "WagonSelected"
	WagonRejected           EventType = "WagonRejected"
	WagonMoved              EventType = "WagonMoved"
	RetrofitStarted         EventType = "RetrofitStarted"
	RetrofitCompleted       EventType = "RetrofitCompleted"
	WagonParked             EventType = "WagonParked"
	LocomotiveStatusChanged EventType = "LocomotiveStatusChanged"
	ResourceStateSnapshot   EventType = "ResourceStateSnapshot"
)

// Severity distinguishes ordinary records from route-failure/abort records
// (spec.md §7 "route failures surface in event log with an ERROR
// severity").
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityError Severity = "ERROR"
)

// Record is one append-only entry (spec.md §4.8 "Each record has:
// timestamp, entity_id, event_type, payload map").
type Record struct {
	ID        string
	Timestamp float64
	EventType EventType
	EntityID  string
	Severity  Severity
	Details   map[string]any
}

// Log is the append-only event log. The zero value is ready to use.
type Log struct {
	records []Record
}

// New creates an empty Log.
func New() *Log { return &Log{} }

// Append records e at its own Timestamp/EventType/EntityID, assigning a
// fresh correlation id via google/uuid and defaulting Severity to INFO if
// unset. This is the single append point every coordinator and the
// orchestrator funnel through (spec.md §4.8 "single source of truth").
func (l *Log) Append(timestamp float64, eventType EventType, entityID string, details map[string]any) Record {
	r := Record{
		ID:        uuid.NewString(),
		Timestamp: timestamp,
		EventType: eventType,
		EntityID:  entityID,
		Severity:  SeverityInfo,
		Details:   details,
	}
	l.records = append(l.records, r)
	return r
}

// AppendError is Append with Severity set to ERROR, used for route
// failures and other recoverable-but-notable conditions (spec.md §7).
func (l *Log) AppendError(timestamp float64, eventType EventType, entityID string, details map[string]any) Record {
	r := l.Append(timestamp, eventType, entityID, details)
	r.Severity = SeverityError
	l.records[len(l.records)-1] = r
	return r
}

// All returns every record in append order. The returned slice must not be
// mutated by the caller.
func (l *Log) All() []Record { return l.records }

// OfType returns all records matching eventType, in append order.
func (l *Log) OfType(eventType EventType) []Record {
	out := make([]Record, 0)
	for _, r := range l.records {
		if r.EventType == eventType {
			out = append(out, r)
		}
	}
	return out
}

// ForEntity returns all records whose EntityID matches id, in append order
// — the backing data for a per-wagon or per-locomotive timeline (spec.md
// §6.2 "wagon_journey.csv").
func (l *Log) ForEntity(id string) []Record {
	out := make([]Record, 0)
	for _, r := range l.records {
		if r.EntityID == id {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records appended so far.
func (l *Log) Len() int { return len(l.records) }
