package adapter

import (
	"errors"
	"strings"

	apierrors "github.com/cubefs/metabench/errors"
	"github.com/cubefs/metabench/proto"
)

// Status is the result of an adapter operation as seen by the benchmark.
type Status int

const (
	StatusOK Status = iota
	StatusError
	// StatusNotImplemented marks an operation the namespace layout cannot
	// support at all, as opposed to one that failed.
	StatusNotImplemented
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	case StatusNotImplemented:
		return "NOT_IMPLEMENTED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) IsOK() bool {
	return s == StatusOK
}

type outcome int

const (
	outcomeSuccess outcome = iota
	// outcomeBenign is an expected conflict the caller treats as success.
	outcomeBenign
	outcomeFailure
)

// classify tags the result of a remote call. Errors matching one of benign
// are conflicts the caller expected.
func classify(err error, benign ...error) outcome {
	if err == nil {
		return outcomeSuccess
	}
	for _, target := range benign {
		if errors.Is(err, target) {
			return outcomeBenign
		}
	}
	return outcomeFailure
}

// FullPath maps a table and key onto the absolute path "/dir/file". Both
// components must be non-empty single path elements, so distinct inputs
// never share a path.
func FullPath(dir, file string) (string, error) {
	if !validComponent(dir) || !validComponent(file) {
		return "", apierrors.ErrInvalidPath
	}
	return proto.PathSeparator + dir + proto.PathSeparator + file, nil
}

func validComponent(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.Contains(s, proto.PathSeparator)
}
