package trigger

import (
	"errors"

	"github.com/unkn0wn-root/seniority"
	"github.com/unkn0wn-root/seniority/blob"
)

func joinErrors(errs []error) error { return errors.Join(errs...) }

// permanent reports whether redelivering the same event cannot help. For a
// joined error every part must be permanent.
func permanent(err error) bool {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs := j.Unwrap()
		if len(errs) > 0 && !isRecordError(err) {
			for _, e := range errs {
				if !permanent(e) {
					return false
				}
			}
			return true
		}
	}
	return errors.Is(err, seniority.ErrInvalidRecord) ||
		errors.Is(err, seniority.ErrProtocolViolation) ||
		errors.Is(err, blob.ErrNotFound)
}

func isRecordError(err error) bool {
	_, ok := err.(*seniority.RecordError)
	return ok
}
