// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "time"

// Time is the render loop's source of time, it only ever sleeps through it
type Time interface {
	Now() time.Time
	Sleep(time.Duration)
}

// NewTime creates the wall clock time service
func NewTime() Time {
	return systemTime{}
}

type systemTime struct{}

func (systemTime) Now() time.Time {
	return time.Now()
}

func (systemTime) Sleep(d time.Duration) {
	time.Sleep(d)
}
