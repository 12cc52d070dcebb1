package tl2stm

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrConflict is returned by Read when the TL2 protocol detects a
// conflict during read validation: a locked or too-new slot, or
// snapshots that disagree. Commit reports its own conflicts (a failed
// bounded lock acquisition or a failed read-set revalidation) as a
// false result with a nil error rather than as ErrConflict. It is the
// expected, high-frequency failure mode — callers check it with
// errors.Is and retry.
var ErrConflict = errors.New("tl2stm: conflict, retry")

// InvalidUseError reports a programming error: reading, writing or
// committing a transaction that is not Active (including writing
// before begin), or a nil address. Value sizes are not validated, so a
// misaligned size is not reported. These are never retried and are
// never meant to be caught internally, so operations that detect one
// panic with it rather than returning it as a value.
type InvalidUseError struct {
	msg string
}

func (e *InvalidUseError) Error() string {
	return fmt.Sprintf("tl2stm: invalid use: %s", e.msg)
}

// panicInvalidUse wraps msg in an InvalidUseError and panics with a
// stack trace attached, so a recovering caller (or a test failure) can
// see where the misuse originated.
func panicInvalidUse(msg string) {
	panic(pkgerrors.WithStack(&InvalidUseError{msg: msg}))
}
