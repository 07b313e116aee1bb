// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device_test

import (
	"errors"
	"testing"

	"github.com/devblok/ember/device"
	"github.com/devblok/ember/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allFeatures = device.DefaultRequirements.Features

func candidate(idx int, name string, typ gpu.DeviceType, v gpu.Version, f gpu.Features, presentable bool) device.Candidate {
	return device.Candidate{
		Device: gpu.PhysicalDevice{
			Index:      idx,
			Name:       name,
			Type:       typ,
			APIVersion: v,
			Features:   f,
		},
		Presentable: presentable,
	}
}

func TestSelectPrefersDiscrete(t *testing.T) {
	candidates := []device.Candidate{
		candidate(0, "integrated", gpu.DeviceTypeIntegratedGPU, gpu.MakeVersion(1, 3, 0), allFeatures, true),
		candidate(1, "cpu", gpu.DeviceTypeCPU, gpu.MakeVersion(1, 4, 0), allFeatures, true),
		candidate(2, "discrete", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 0), allFeatures, true),
	}

	selection, err := device.Select(candidates, device.DefaultRequirements)
	require.NoError(t, err)
	assert.Equal(t, "discrete", selection.Device.Name)
	assert.Equal(t, device.DefaultRequirements.MinimumVersion, selection.MinimumVersion)
	assert.Equal(t, allFeatures, selection.Features)
}

func TestSelectTieBreak(t *testing.T) {
	candidates := []device.Candidate{
		candidate(0, "first", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 0), allFeatures, true),
		candidate(1, "newer", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 280), allFeatures, true),
		candidate(2, "twin", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 280), allFeatures, true),
	}

	selection, err := device.Select(candidates, device.DefaultRequirements)
	require.NoError(t, err)
	assert.Equal(t, "newer", selection.Device.Name)
}

func TestSelectIsDeterministic(t *testing.T) {
	candidates := []device.Candidate{
		candidate(0, "a", gpu.DeviceTypeIntegratedGPU, gpu.MakeVersion(1, 3, 0), allFeatures, true),
		candidate(1, "b", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 0), allFeatures, true),
		candidate(2, "c", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 0), allFeatures, true),
		candidate(3, "d", gpu.DeviceTypeVirtualGPU, gpu.MakeVersion(1, 4, 0), allFeatures, true),
	}

	first, err := device.Select(candidates, device.DefaultRequirements)
	require.NoError(t, err)
	for run := 0; run < 100; run++ {
		again, err := device.Select(candidates, device.DefaultRequirements)
		require.NoError(t, err)
		require.Equal(t, first.Device.Name, again.Device.Name, "run %d", run)
	}
	assert.Equal(t, "b", first.Device.Name)
}

func TestSelectDoesNotReorderInput(t *testing.T) {
	candidates := []device.Candidate{
		candidate(0, "a", gpu.DeviceTypeIntegratedGPU, gpu.MakeVersion(1, 3, 0), allFeatures, true),
		candidate(1, "b", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 0), allFeatures, true),
	}

	_, err := device.Select(candidates, device.DefaultRequirements)
	require.NoError(t, err)
	assert.Equal(t, "a", candidates[0].Device.Name)
}

func TestSelectRejectsMissingFeatures(t *testing.T) {
	partial := gpu.Features{DynamicRendering: true, Synchronization2: true}
	candidates := []device.Candidate{
		candidate(0, "bundle-a-only", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 0), partial, true),
		candidate(1, "nothing", gpu.DeviceTypeIntegratedGPU, gpu.MakeVersion(1, 3, 0), gpu.Features{}, true),
	}

	_, err := device.Select(candidates, device.DefaultRequirements)
	require.Error(t, err)
	assert.True(t, errors.Is(err, device.ErrNoSuitableDevice))

	var nsd *device.NoSuitableDeviceError
	require.True(t, errors.As(err, &nsd))
	require.Len(t, nsd.Rejections, 2)
	assert.Equal(t, device.RejectFeatures, nsd.Rejections[0].Reason)
	assert.Equal(t, []string{"bufferDeviceAddress", "descriptorIndexing"}, nsd.Rejections[0].Missing)
	assert.Equal(t, device.RejectFeatures, nsd.Rejections[1].Reason)
	assert.Len(t, nsd.Rejections[1].Missing, 4)
	assert.False(t, nsd.Has(device.RejectVersion))
}

func TestSelectDistinguishesReasons(t *testing.T) {
	candidates := []device.Candidate{
		candidate(0, "old", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 2, 0), allFeatures, true),
		candidate(1, "bare", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 0), gpu.Features{}, true),
		candidate(2, "headless", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 0), allFeatures, false),
	}

	_, err := device.Select(candidates, device.DefaultRequirements)
	var nsd *device.NoSuitableDeviceError
	require.True(t, errors.As(err, &nsd))
	require.Len(t, nsd.Rejections, 3)

	assert.Equal(t, device.RejectVersion, nsd.Rejections[0].Reason)
	assert.Equal(t, device.RejectFeatures, nsd.Rejections[1].Reason)
	assert.Equal(t, device.RejectPresentation, nsd.Rejections[2].Reason)
	assert.Contains(t, err.Error(), "old: api version 1.2.0 below 1.3.0")
	assert.Contains(t, err.Error(), "headless: cannot present")
}

func TestSelectEmptySet(t *testing.T) {
	_, err := device.Select(nil, device.DefaultRequirements)
	require.Error(t, err)
	assert.True(t, errors.Is(err, device.ErrNoSuitableDevice))
	assert.Contains(t, err.Error(), "no physical devices")
}

func TestEvaluateChecksVersionFirst(t *testing.T) {
	c := candidate(0, "old", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 1, 0), gpu.Features{}, false)

	r := device.Evaluate(c, device.DefaultRequirements)
	require.NotNil(t, r)
	assert.Equal(t, device.RejectVersion, r.Reason)

	ok := candidate(1, "new", gpu.DeviceTypeDiscreteGPU, gpu.MakeVersion(1, 3, 0), allFeatures, true)
	assert.Nil(t, device.Evaluate(ok, device.DefaultRequirements))
}

func BenchmarkSelect(b *testing.B) {
	types := []gpu.DeviceType{gpu.DeviceTypeIntegratedGPU, gpu.DeviceTypeDiscreteGPU, gpu.DeviceTypeCPU, gpu.DeviceTypeVirtualGPU}
	candidates := make([]device.Candidate, 16)
	for idx := range candidates {
		candidates[idx] = candidate(idx, "gpu", types[idx%len(types)], gpu.MakeVersion(1, uint32(2+idx%2), 0), allFeatures, idx%3 != 0)
	}

	for idx := 0; idx < b.N; idx++ {
		if _, err := device.Select(candidates, device.DefaultRequirements); err != nil {
			b.Fatal(err)
		}
	}
}
