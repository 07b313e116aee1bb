// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "github.com/pkg/errors"

// Lifecycle errors
var (
	// ErrDoubleInitialization is returned by Init while an engine is live
	ErrDoubleInitialization = errors.New("engine already initialized")

	// ErrNotInitialized is returned by Run before a successful Init
	ErrNotInitialized = errors.New("engine not initialized")
)
