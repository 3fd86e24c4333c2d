// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"fmt"
	"github.com/pkg/errors"
	"strings"
)

var (
	ErrInvalidUrl                = errors.New("url is not valid")
	ErrNoContractIdConfigured    = errors.New("contract id is not set")
	ErrInvalidContractId         = errors.New("contract id must be 0x followed by 32 bytes of hex")
	ErrIdlNotConfigured          = errors.New("idl is not set")
	ErrInvalidArguments          = errors.New("arguments do not match the method signature")
	ErrSigningOrSubmissionFailed = errors.New("error while signing or sending message")
	ErrNetworkNotConfigured      = errors.New("network is not set")
)

type UnknownServiceError struct {
	Service  string
	Services []string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("service %s does not exist, services: [%s]", e.Service, strings.Join(e.Services, ", "))
}

type UnknownMethodError struct {
	Service string
	Method  string
	Kind    MethodKind
	Methods []string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("%s %s does not exist in service %s, %ss: [%s]", e.Kind, e.Method, e.Service, e.Kind, strings.Join(e.Methods, ", "))
}

// SubmissionError is what a failed command or query returns; Cause is the underlying failure
type SubmissionError struct {
	Url   string
	Cause error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s (%s): %s", ErrSigningOrSubmissionFailed.Error(), e.Url, e.Cause)
}

func (e *SubmissionError) Is(target error) bool {
	return target == ErrSigningOrSubmissionFailed
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}
