package entity

import (
	"errors"
)

// EventResult is the outcome of one upload event within a batch. Exactly one
// of Record and Err is set.
type EventResult struct {
	Event  UploadEvent
	Record *PhotoRecord
	Err    error
}

func (r EventResult) Status() Status {
	if r.Err != nil {
		return Failed
	}
	return Processed
}

type BatchResult struct {
	Results []EventResult
}

func (b *BatchResult) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Err joins the errors of all failed events, nil when every event succeeded.
func (b *BatchResult) Err() error {
	var errs []error
	for _, r := range b.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
