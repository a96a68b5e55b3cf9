// Copyright 2023 The CubeFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package errors

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrFileAlreadyExists = errors.New("file already exists")
	ErrFileDoesNotExist  = errors.New("file does not exist")
	ErrInvalidPath       = errors.New("invalid path")
	ErrDirectoryNotEmpty = errors.New("directory is not empty")
	ErrNotDirectory      = errors.New("parent is not a directory")

	ErrUnsupportedAuth = errors.New("unsupported authentication type")

	ErrClientClosed    = errors.New("master client already closed")
	ErrContextClosed   = errors.New("client context already closed")
	ErrNoClientContext = errors.New("no client context, configuration not loaded")
)

var codeOf = map[error]codes.Code{
	ErrFileAlreadyExists: codes.AlreadyExists,
	ErrFileDoesNotExist:  codes.NotFound,
	ErrInvalidPath:       codes.InvalidArgument,
	ErrDirectoryNotEmpty: codes.FailedPrecondition,
	ErrNotDirectory:      codes.FailedPrecondition,
	ErrUnsupportedAuth:   codes.Unauthenticated,
}

// ToStatus converts a namespace error into a grpc status error carrying
// the sentinel message, so FromStatus can restore it on the client side.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for sentinel, code := range codeOf {
		if errors.Is(err, sentinel) {
			return status.Error(code, sentinel.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}

// FromStatus restores the sentinel behind a grpc status error. Errors that
// do not map to a sentinel, such as codes.Unavailable, are returned as is.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for sentinel, code := range codeOf {
		if st.Code() == code && st.Message() == sentinel.Error() {
			return sentinel
		}
	}
	return err
}
