package seed

import (
	"fmt"

	"github.com/geocoder89/workoutseed/internal/store"
)

type Status string

const (
	StatusCreated Status = "created"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Stage is how far an item got. Skipped and failed items stop at
// StageValidating or StagePersisting; created items reach StageRecorded.
type Stage string

const (
	StageNotStarted Stage = "not_started"
	StageValidating Stage = "validating"
	StagePersisting Stage = "persisting"
	StageRecorded   Stage = "recorded"
)

// ReasonExists is the skip reason for a natural-key conflict.
const ReasonExists = "already exists"

type Outcome struct {
	Kind   store.Kind
	Key    string
	Status Status
	Stage  Stage
	Reason string
	ID     int64
	Err    error
}

type Counts struct {
	Created int
	Skipped int
	Failed  int
}

func (c Counts) Total() int {
	return c.Created + c.Skipped + c.Failed
}

type Result struct {
	RunID    string
	Outcomes []Outcome
}

func (r *Result) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

func (r Result) Counts() Counts {
	var c Counts
	for _, o := range r.Outcomes {
		c.inc(o.Status)
	}
	return c
}

// CountsByKind aggregates outcomes of a single entity kind.
func (r Result) CountsByKind(kind store.Kind) Counts {
	var c Counts
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			c.inc(o.Status)
		}
	}
	return c
}

func (c *Counts) inc(s Status) {
	switch s {
	case StatusCreated:
		c.Created++
	case StatusSkipped:
		c.Skipped++
	case StatusFailed:
		c.Failed++
	}
}

// Summary is the one-line count report of a run.
func (r Result) Summary() string {
	c := r.Counts()
	return fmt.Sprintf("%d created, %d skipped, %d failed, %d total", c.Created, c.Skipped, c.Failed, c.Total())
}
