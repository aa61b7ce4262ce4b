package integration

import (
	"github.com/thoreinstein/mcpsync/internal/errors"
)

// Outcome is the result of one (client, name) operation.
type Outcome string

const (
	OutcomeChanged   Outcome = "changed"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
)

// Result records one (client, name) operation.
type Result struct {
	Client  string  `json:"client"`
	Name    string  `json:"name"`
	Outcome Outcome `json:"outcome"`
	Err     error   `json:"-"`
}

// Report aggregates the results of a request in execution order.
type Report struct {
	Results []Result `json:"results"`
}

func (r *Report) add(client, name string, changed bool, err error) {
	res := Result{Client: client, Name: name, Outcome: OutcomeUnchanged}
	switch {
	case err != nil:
		res.Outcome = OutcomeFailed
		res.Err = err
	case changed:
		res.Outcome = OutcomeChanged
	}
	r.Results = append(r.Results, res)
}

// Failed reports whether any operation failed.
func (r *Report) Failed() bool {
	return r.Count(OutcomeFailed) > 0
}

// Count returns the number of results with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Err joins every failure into one error, each prefixed with its
// "client/name" pair. It returns nil when nothing failed.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			errs = append(errs, errors.Wrapf(res.Err, "%s/%s", res.Client, res.Name))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
