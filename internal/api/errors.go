package api

import (
	"fmt"
	"net/http"
)

// StatusError reports a non-success HTTP status from the API.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %d %s (%s)", e.Code, http.StatusText(e.Code), e.Path)
}

// NotFound reports whether the API answered 404.
func (e *StatusError) NotFound() bool {
	return e.Code == http.StatusNotFound
}
