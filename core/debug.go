// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/ember/gpu"
	log "github.com/sirupsen/logrus"
)

// debugMessenger routes validation layer output into the log
func debugMessenger(logger log.FieldLogger) gpu.DebugCallback {
	return func(severity gpu.DebugSeverity, layer, message string) {
		entry := logger.WithField("layer", layer)
		switch severity {
		case gpu.DebugError:
			entry.Error(message)
		case gpu.DebugWarning:
			entry.Warn(message)
		case gpu.DebugInfo:
			entry.Info(message)
		default:
			entry.Debug(message)
		}
	}
}
