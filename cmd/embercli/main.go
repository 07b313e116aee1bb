// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command embercli prints what the engine makes of every GPU in the system
// as JSON: its capabilities and why it would or would not be selected.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/devblok/ember/core"
	"github.com/devblok/ember/device"
	"github.com/devblok/ember/gpu"
	"github.com/devblok/ember/gpu/vulkan"
	"github.com/devblok/ember/platform"
	"github.com/devblok/ember/platform/sdlwindow"
	"github.com/devblok/ember/swapchain"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

type deviceReport struct {
	Device      gpu.PhysicalDevice `json:"device"`
	Presentable bool               `json:"presentable"`
	Selected    bool               `json:"selected"`
	Rejection   *device.Rejection  `json:"rejection,omitempty"`
}

type report struct {
	MinimumVersion gpu.Version    `json:"minimumVersion"`
	Required       gpu.Features   `json:"required"`
	Devices        []deviceReport `json:"devices"`
}

func buildReport(candidates []device.Candidate, req device.Requirements) report {
	r := report{
		MinimumVersion: req.MinimumVersion,
		Required:       req.Features,
		Devices:        make([]deviceReport, 0, len(candidates)),
	}

	selection, err := device.Select(candidates, req)
	for _, c := range candidates {
		r.Devices = append(r.Devices, deviceReport{
			Device:      c.Device,
			Presentable: c.Presentable,
			Selected:    err == nil && selection.Device.Index == c.Device.Index,
			Rejection:   device.Evaluate(c, req),
		})
	}
	return r
}

func main() {
	r, err := probe(core.DefaultConfiguration())
	if err != nil {
		log.WithError(err).Error("device probe failed")
		os.Exit(1)
	}

	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		log.WithError(err).Error("report encoding failed")
		os.Exit(1)
	}
	fmt.Printf("%s\n", bytes)
}

// probe opens a hidden window for a surface to test presentation against
func probe(cfg core.Configuration) (report, error) {
	windows, err := sdlwindow.Open()
	if err != nil {
		return report{}, err
	}
	defer windows.Close()

	winCfg := cfg.Window
	winCfg.Flags |= platform.WindowHidden
	window, err := windows.CreateWindow(winCfg)
	if err != nil {
		return report{}, err
	}
	defer window.Destroy()

	instance, err := device.NewInstance(vulkan.NewDriver(windows.InstanceProcAddr()), gpu.InstanceConfiguration{
		ApplicationName: "ember device report",
		APIVersion:      cfg.Instance.APIVersion,
		Extensions:      window.InstanceExtensions(),
	}, nil, log.StandardLogger())
	if err != nil {
		return report{}, err
	}
	defer instance.Destroy()

	surface, err := swapchain.CreateSurface(instance, window)
	if err != nil {
		return report{}, err
	}
	defer instance.DestroySurface(surface)

	candidates, err := device.Candidates(instance, surface, log.StandardLogger())
	if err != nil {
		return report{}, errors.Wrap(err, "enumeration")
	}
	return buildReport(candidates, cfg.Device), nil
}
