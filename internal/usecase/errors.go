package usecase

type ErrNotFound string

func (e ErrNotFound) Error() string { return string(e) + " not found" }

type ErrConflict string

func (e ErrConflict) Error() string { return string(e) }

type ErrBadRequest string

func (e ErrBadRequest) Error() string { return string(e) }

// ErrUnavailable reports that an upstream capability (auth, catalog, realtime)
// could not serve the request.
type ErrUnavailable struct {
	Op  string
	Err error
}

func (e *ErrUnavailable) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *ErrUnavailable) Unwrap() error { return e.Err }
