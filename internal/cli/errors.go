package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// ineligibleError reports a precondition failure (e.g. outdent at depth 0).
// The engine itself never errors on these; the CLI surfaces them so
// scripts get a non-zero exit instead of a silent no-op.
type ineligibleError struct {
	op string
	id string
}

func (e ineligibleError) Error() string {
	return fmt.Sprintf("%s not possible for block %s", e.op, e.id)
}

func errIneligible(op, id string) error {
	return ineligibleError{op: op, id: id}
}
