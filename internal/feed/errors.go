package feed

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed fetch.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// FetchError is returned by Fetcher.Fetch for every failure.
type FetchError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s error fetching %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether err is a transport-level FetchError.
func IsNetwork(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindNetwork
}

// IsParse reports whether err is a FetchError raised by the parser.
func IsParse(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindParse
}
