// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/devblok/ember/core"
	"github.com/devblok/ember/device"
	"github.com/devblok/ember/gpu"
	"github.com/devblok/ember/gpu/gputest"
	"github.com/devblok/ember/platform"
	"github.com/devblok/ember/swapchain"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	deviceA = gputest.DeviceSpec{
		Name:        "A",
		Type:        gpu.DeviceTypeDiscreteGPU,
		APIVersion:  gpu.MakeVersion(1, 2, 0),
		Presentable: true,
	}
	deviceB = gputest.DeviceSpec{
		Name:        "B",
		Type:        gpu.DeviceTypeIntegratedGPU,
		APIVersion:  gpu.MakeVersion(1, 3, 0),
		Features:    gputest.AllFeatures,
		Presentable: true,
	}
)

type rig struct {
	rec     *gputest.Recorder
	windows *gputest.WindowSystem
	driver  *gputest.Driver
	time    *fakeTime
	log     *test.Hook
	engine  *core.Engine
}

func testConfiguration() core.Configuration {
	cfg := core.DefaultConfiguration()
	cfg.Instance.Validation = true
	return cfg
}

func newRig(t *testing.T, cfg core.Configuration, renderer core.FrameRenderer, events ...[]platform.Event) *rig {
	rec := &gputest.Recorder{}
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	r := &rig{
		rec:     rec,
		windows: &gputest.WindowSystem{Recorder: rec, Events: events},
		driver: &gputest.Driver{
			Recorder:   rec,
			Devices:    []gputest.DeviceSpec{deviceA, deviceB},
			ImageCount: 3,
		},
		time: &fakeTime{now: time.Unix(0, 0)},
		log:  hook,
	}
	r.engine = core.NewEngine(cfg, core.Dependencies{
		Windows:  r.windows,
		Driver:   r.driver,
		Renderer: renderer,
		Time:     r.time,
		Logger:   logger,
	})
	t.Cleanup(r.engine.Cleanup)
	return r
}

func TestInitCreatesInOrder(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)

	require.NoError(t, r.engine.Init())
	assert.Equal(t, core.Initialized, r.engine.State())
	assert.Equal(t, []string{
		"window.create",
		"instance.create",
		"debug.create",
		"surface.create",
		"device.create B",
		"swapchain.create 1700x900",
		"view.create 0",
		"view.create 1",
		"view.create 2",
	}, r.rec.Calls())
}

func TestInitPassesWindowToInstance(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	require.NoError(t, r.engine.Init())

	win := r.windows.Window()
	require.NotNil(t, win)
	assert.Equal(t, "Vulkan Engine", win.Configuration.Title)
	assert.Equal(t, uint32(core.DefaultWidth), win.Configuration.Width)
	assert.Equal(t, uint32(core.DefaultHeight), win.Configuration.Height)

	cfg := r.driver.Instance().Configuration
	assert.Equal(t, "Example Vulkan Application", cfg.ApplicationName)
	assert.Equal(t, gpu.MakeVersion(1, 3, 0), cfg.APIVersion)
	assert.True(t, cfg.Validation)
	assert.Equal(t, win.InstanceExtensions(), cfg.Extensions)
}

func TestEndToEndSelection(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	require.NoError(t, r.engine.Init())

	selection := r.engine.Selection()
	assert.Equal(t, "B", selection.Device.Name)
	assert.Equal(t, gpu.MakeVersion(1, 3, 0), selection.MinimumVersion)
	assert.Equal(t, gputest.AllFeatures, r.driver.Instance().Device.Features)

	chain := r.engine.Chain()
	require.NotNil(t, chain)
	assert.Equal(t, gpu.Extent{Width: 1700, Height: 900}, chain.Extent)
	assert.Equal(t, gpu.FormatB8G8R8A8Unorm, chain.Format)
	assert.Equal(t, gpu.PresentModeFIFO, chain.PresentMode)
	assert.Equal(t, len(chain.Images), len(chain.Views))
	assert.Equal(t, 3, chain.Len())
}

func TestCleanupReleasesInReverseOrder(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	require.NoError(t, r.engine.Init())
	r.rec.Reset()

	r.engine.Cleanup()
	assert.Equal(t, core.Terminated, r.engine.State())
	assert.Equal(t, []string{
		"device.wait",
		"view.destroy 2",
		"view.destroy 1",
		"view.destroy 0",
		"swapchain.destroy",
		"device.destroy",
		"surface.destroy",
		"debug.destroy",
		"instance.destroy",
		"window.destroy",
	}, r.rec.Calls())
}

func TestCleanupWithoutValidationSkipsDebugMessenger(t *testing.T) {
	cfg := testConfiguration()
	cfg.Instance.Validation = false
	r := newRig(t, cfg, nil)
	require.NoError(t, r.engine.Init())
	assert.NotContains(t, r.rec.Calls(), "debug.create")

	r.engine.Cleanup()
	assert.NotContains(t, r.rec.Calls(), "debug.destroy")
	assert.Contains(t, r.rec.Calls(), "instance.destroy")
}

func TestCleanupIsNoopWithoutInit(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)

	r.engine.Cleanup()
	r.engine.Cleanup()
	assert.Empty(t, r.rec.Calls())
	assert.Equal(t, core.Uninitialized, r.engine.State())
}

func TestCleanupTwice(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	require.NoError(t, r.engine.Init())

	r.engine.Cleanup()
	calls := len(r.rec.Calls())
	r.engine.Cleanup()
	assert.Len(t, r.rec.Calls(), calls)
}

func TestSecondInitRejected(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	require.NoError(t, r.engine.Init())
	calls := r.rec.Calls()

	err := r.engine.Init()
	assert.True(t, errors.Is(err, core.ErrDoubleInitialization))
	assert.Equal(t, calls, r.rec.Calls(), "live engine is untouched")
	assert.Equal(t, core.Initialized, r.engine.State())
}

func TestOnlyOneLiveEngine(t *testing.T) {
	first := newRig(t, testConfiguration(), nil)
	require.NoError(t, first.engine.Init())

	second := newRig(t, testConfiguration(), nil)
	err := second.engine.Init()
	assert.True(t, errors.Is(err, core.ErrDoubleInitialization))
	assert.Empty(t, second.rec.Calls())
	assert.Equal(t, core.Uninitialized, second.engine.State())

	// a cleaned up engine frees the slot
	first.engine.Cleanup()
	require.NoError(t, second.engine.Init())
	second.engine.Cleanup()
}

func TestReinitAfterCleanup(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	require.NoError(t, r.engine.Init())
	r.engine.Cleanup()

	require.NoError(t, r.engine.Init())
	assert.Equal(t, core.Initialized, r.engine.State())
}

func TestInitFailureUnwinds(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	r.driver.SwapchainErr = errors.New("surface lost")

	err := r.engine.Init()
	require.Error(t, err)
	assert.True(t, errors.Is(err, swapchain.ErrPresentationChainCreationFailed))
	assert.Contains(t, err.Error(), "swapchain stage")
	assert.Equal(t, core.Uninitialized, r.engine.State())

	assert.Equal(t, []string{
		"window.create",
		"instance.create",
		"debug.create",
		"surface.create",
		"device.create B",
		"device.destroy",
		"surface.destroy",
		"debug.destroy",
		"instance.destroy",
		"window.destroy",
	}, r.rec.Calls())

	// the slot is free again and cleanup stays inert
	r.engine.Cleanup()
	assert.Len(t, r.rec.Calls(), 10)

	other := newRig(t, testConfiguration(), nil)
	require.NoError(t, other.engine.Init())
}

func TestInitNoSuitableDevice(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	r.driver.Devices = []gputest.DeviceSpec{deviceA}

	err := r.engine.Init()
	require.Error(t, err)
	assert.True(t, errors.Is(err, device.ErrNoSuitableDevice))

	var nsd *device.NoSuitableDeviceError
	require.True(t, errors.As(err, &nsd))
	assert.True(t, nsd.Has(device.RejectVersion))

	assert.Equal(t, "window.destroy", r.rec.Calls()[len(r.rec.Calls())-1])
	assert.NotContains(t, r.rec.Calls(), "device.destroy")
}

func TestInitDriverUnavailable(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	r.driver.InstanceErr = errors.New("vk.Init(): loader missing")

	err := r.engine.Init()
	require.Error(t, err)
	assert.True(t, errors.Is(err, device.ErrDriverUnavailable))
	assert.Equal(t, []string{"window.create", "window.destroy"}, r.rec.Calls())
}

func TestInitWindowFailure(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	r.windows.CreateErr = errors.New("no display")

	err := r.engine.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window stage")
	assert.Empty(t, r.rec.Calls())
}

func TestInitDeviceCreationFailed(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	r.driver.DeviceErr = errors.New("feature not present")

	err := r.engine.Init()
	assert.True(t, errors.Is(err, device.ErrDeviceCreationFailed))
	assert.Equal(t, core.Uninitialized, r.engine.State())
}

func TestValidationMessagesAreLogged(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	require.NoError(t, r.engine.Init())

	cb := r.driver.Instance().DebugCallback
	require.NotNil(t, cb)

	r.log.Reset()
	cb(gpu.DebugError, "Validation", "vkCreateImage: bad extent")
	entry := r.log.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "vkCreateImage: bad extent", entry.Message)
	assert.Equal(t, "Validation", entry.Data["layer"])

	cb(gpu.DebugWarning, "Validation", "slow path")
	assert.Equal(t, logrus.WarnLevel, r.log.LastEntry().Level)
}

func TestInitLogsThroughEngineLogger(t *testing.T) {
	r := newRig(t, testConfiguration(), nil)
	require.NoError(t, r.engine.Init())

	stages := map[string]interface{}{}
	for _, entry := range r.log.AllEntries() {
		stages[entry.Message] = entry.Data["stage"]
	}
	assert.Equal(t, "instance", stages["instance created"])
	assert.Equal(t, "device", stages["physical device selected"])
	assert.Equal(t, "device", stages["logical device created"])
	assert.Equal(t, "swapchain", stages["presentation chain created"])
}
