package eventlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_Append_AssignsIDAndInfoSeverity(t *testing.T) {
	l := New()
	r := l.Append(10, WagonSelected, "WG1", map[string]any{"track_id": "C1"})

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, SeverityInfo, r.Severity)
	assert.Equal(t, 1, l.Len())
}

func TestLog_AppendError_SetsErrorSeverity(t *testing.T) {
	l := New()
	l.AppendError(10, WagonMoved, "WG1", nil)
	records := l.All()
	assert.Equal(t, SeverityError, records[0].Severity)
}

func TestLog_OfType_FiltersByEventType(t *testing.T) {
	l := New()
	l.Append(1, TrainArrived, "T1", nil)
	l.Append(2, WagonSelected, "WG1", nil)
	l.Append(3, WagonSelected, "WG2", nil)

	got := l.OfType(WagonSelected)
	assert.Len(t, got, 2)
}

func TestLog_ForEntity_FiltersByEntityID(t *testing.T) {
	l := New()
	l.Append(1, WagonSelected, "WG1", nil)
	l.Append(2, WagonMoved, "WG1", nil)
	l.Append(3, WagonSelected, "WG2", nil)

	got := l.ForEntity("WG1")
	assert.Len(t, got, 2)
}

func TestLog_All_PreservesAppendOrder(t *testing.T) {
	l := New()
	l.Append(1, TrainArrived, "T1", nil)
	l.Append(2, WagonSelected, "WG1", nil)

	got := l.All()
	assert.Equal(t, TrainArrived, got[0].EventType)
	assert.Equal(t, WagonSelected, got[1].EventType)
}
