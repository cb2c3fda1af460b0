package treeops

import "errors"

// Report summarizes a best-effort tree operation.
type Report struct {
	// Processed counts the leaf entries handled successfully.
	Processed int `json:"processed"`
	// Failures holds one *PathError per child that could not be handled.
	Failures []error `json:"-"`
}

// OK reports whether every child succeeded.
func (r *Report) OK() bool {
	return r != nil && len(r.Failures) == 0
}

// Err joins all child failures, or returns nil when there were none.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.Failures...)
}

// Messages renders the failures for transport.
func (r *Report) Messages() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Failures))
	for _, err := range r.Failures {
		out = append(out, err.Error())
	}
	return out
}

func (r *Report) fail(err error) {
	r.Failures = append(r.Failures, err)
}
