package apperrors

import "fmt"

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewResumeStateNotFoundError is returned when a resume is requested but no crawl was ever started.
func NewResumeStateNotFoundError(path string) *ErrNotFound {
	return &ErrNotFound{
		Resource: "resume state",
		ID:       path,
	}
}

// ErrNoSeasons is returned when the root page of a series links to no season.
type ErrNoSeasons struct {
	URL string
}

// Error implements the error interface.
func (e *ErrNoSeasons) Error() string {
	return fmt.Sprintf("no seasons found at %s", e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrNoSeasons) Is(target error) bool {
	_, ok := target.(*ErrNoSeasons)
	return ok
}

// ErrUnexpectedStatus is returned for any non-2xx response.
type ErrUnexpectedStatus struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnexpectedStatus) Is(target error) bool {
	_, ok := target.(*ErrUnexpectedStatus)
	return ok
}

// ErrFetchFailed is returned once every attempt to fetch a page has failed.
type ErrFetchFailed struct {
	URL      string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *ErrFetchFailed) Error() string {
	return fmt.Sprintf("failed to fetch %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

// Is allows for error checking with errors.Is().
func (e *ErrFetchFailed) Is(target error) bool {
	_, ok := target.(*ErrFetchFailed)
	return ok
}

// Unwrap exposes the last attempt's error.
func (e *ErrFetchFailed) Unwrap() error {
	return e.Err
}

// NewFetchFailedError creates a new ErrFetchFailed.
func NewFetchFailedError(url string, attempts int, err error) *ErrFetchFailed {
	return &ErrFetchFailed{
		URL:      url,
		Attempts: attempts,
		Err:      err,
	}
}
