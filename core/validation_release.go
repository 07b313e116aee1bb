// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !debug

package core

// build with -tags debug to load the validation layers
const validationEnabled = false
