// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"github.com/devblok/ember/gpu"
	log "github.com/sirupsen/logrus"
)

// NewInstance creates the driver instance. When validation is requested the
// callback is registered as debug messenger right away, a failure to do so
// fails the instance too. A nil logger logs to the standard logger.
func NewInstance(driver gpu.Driver, cfg gpu.InstanceConfiguration, cb gpu.DebugCallback, logger log.FieldLogger) (gpu.Instance, error) {
	instance, err := driver.CreateInstance(cfg)
	if err != nil {
		return nil, because(ErrDriverUnavailable, err)
	}

	if cfg.Validation && cb != nil {
		if err := instance.CreateDebugMessenger(cb); err != nil {
			instance.Destroy()
			return nil, because(ErrDriverUnavailable, err)
		}
	}

	fieldLogger(logger).WithFields(log.Fields{
		"application": cfg.ApplicationName,
		"api":         cfg.APIVersion,
		"validation":  cfg.Validation,
	}).Debug("instance created")
	return instance, nil
}

// Candidates enumerates the physical devices of the instance and checks
// each one for presentation support on the surface
func Candidates(instance gpu.Instance, surface gpu.Surface, logger log.FieldLogger) ([]Candidate, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, because(ErrNoSuitableDevice, err)
	}

	candidates := make([]Candidate, len(devices))
	for idx, pd := range devices {
		presentable, err := instance.SupportsPresentation(pd, surface)
		if err != nil {
			fieldLogger(logger).WithError(err).WithField("device", pd.Name).Warn("presentation support query failed")
			presentable = false
		}
		candidates[idx] = Candidate{Device: pd, Presentable: presentable}
	}
	return candidates, nil
}

// Negotiate selects a physical device meeting the requirements that can
// present to the surface and builds a logical device on it, with the
// required features enabled.
func Negotiate(instance gpu.Instance, req Requirements, surface gpu.Surface, logger log.FieldLogger) (Selection, gpu.Device, error) {
	candidates, err := Candidates(instance, surface, logger)
	if err != nil {
		return Selection{}, nil, err
	}

	selection, err := Select(candidates, req)
	if err != nil {
		return Selection{}, nil, err
	}

	selected := fieldLogger(logger).WithFields(log.Fields{
		"device": selection.Device.Name,
		"type":   selection.Device.Type,
		"api":    selection.Device.APIVersion,
	})
	selected.Info("physical device selected")

	dev, err := instance.CreateDevice(selection.Device, surface, selection.Features)
	if err != nil {
		return Selection{}, nil, because(ErrDeviceCreationFailed, err)
	}
	selected.Debug("logical device created")
	return selection, dev, nil
}

func fieldLogger(logger log.FieldLogger) log.FieldLogger {
	if logger == nil {
		return log.StandardLogger()
	}
	return logger
}
