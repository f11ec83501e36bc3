package object

import (
	"errors"
	"fmt"
)

var (
	ErrObjectNotFound      = errors.New("no such object")
	ErrUnsupportedEncoding = errors.New("only utf-8 is supported")
	ErrUnexpectedFormat    = errors.New("unexpected object format")
	ErrDigestNotComputed   = errors.New("digest is not computed yet")
	ErrNoContentLine       = errors.New("commit has no content line")
	ErrIO                  = errors.New("io failure")
)

// IOError wraps a filesystem failure with the operation and path that
// caused it. It matches ErrIO and unwraps to the underlying error, so
// errors.Is(err, fs.ErrNotExist) keeps working.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// WrapIO returns nil for a nil err and an *IOError otherwise.
func WrapIO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}
