package journal

import (
	"fmt"
	"time"

	"aggregate-persistence/core/diff"
	"aggregate-persistence/core/repository"

	"github.com/google/uuid"
)

// Record describes one committed save.
type Record struct {
	ID         uuid.UUID                         `json:"id"`
	Aggregate  string                            `json:"aggregate"`
	RootID     string                            `json:"root_id"`
	Outcome    repository.Outcome                `json:"outcome"`
	Version    int64                             `json:"version"`
	Fields     diff.FieldSet                     `json:"fields,omitempty"`
	Summary    map[string]repository.ListOutcome `json:"summary,omitempty"`
	RecordedAt time.Time                         `json:"recorded_at"`
}

// NewRecord stamps a record for the save of aggregate rootID.
func NewRecord(aggregate string, rootID any, outcome repository.Outcome, version int64) Record {
	return Record{
		ID:         uuid.New(),
		Aggregate:  aggregate,
		RootID:     fmt.Sprint(rootID),
		Outcome:    outcome,
		Version:    version,
		RecordedAt: time.Now().UTC(),
	}
}

// WithChildren adds the outcome of the named child collection.
func (r Record) WithChildren(name string, out repository.ListOutcome) Record {
	if r.Summary == nil {
		r.Summary = make(map[string]repository.ListOutcome)
	}
	r.Summary[name] = out
	return r
}
