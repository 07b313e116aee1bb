// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import "github.com/pkg/errors"

// Errors returned by negotiation. Match with errors.Is, the driver
// error that caused them is kept in the chain.
var (
	ErrDriverUnavailable    = errors.New("driver unavailable")
	ErrNoSuitableDevice     = errors.New("no suitable device")
	ErrDeviceCreationFailed = errors.New("device creation failed")
)

// cause keeps both the sentinel and the driver error reachable by errors.Is
type cause struct {
	kind error
	err  error
}

func (c *cause) Error() string {
	return c.kind.Error() + ": " + c.err.Error()
}

func (c *cause) Unwrap() error {
	return c.err
}

func (c *cause) Is(target error) bool {
	return target == c.kind
}

func because(kind, err error) error {
	return &cause{kind: kind, err: err}
}
