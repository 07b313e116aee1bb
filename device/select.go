// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devblok/ember/gpu"
)

// typePreference ranks device types, higher wins
var typePreference = map[gpu.DeviceType]int{
	gpu.DeviceTypeDiscreteGPU:   4,
	gpu.DeviceTypeIntegratedGPU: 3,
	gpu.DeviceTypeVirtualGPU:    2,
	gpu.DeviceTypeCPU:           1,
	gpu.DeviceTypeOther:         0,
}

// Evaluate checks a candidate against the requirements.
// Gates are checked in order version, features, presentation and the first
// failing one is reported. A nil result means the candidate qualifies.
func Evaluate(c Candidate, req Requirements) *Rejection {
	pd := c.Device
	if !pd.APIVersion.AtLeast(req.MinimumVersion) {
		return &Rejection{
			Device: pd.Name,
			Reason: RejectVersion,
			Detail: fmt.Sprintf("api version %s below %s", pd.APIVersion, req.MinimumVersion),
		}
	}

	if missing := pd.Features.Missing(req.Features); len(missing) > 0 {
		return &Rejection{
			Device:  pd.Name,
			Reason:  RejectFeatures,
			Missing: missing,
			Detail:  "missing features " + strings.Join(missing, ", "),
		}
	}

	if !c.Presentable {
		return &Rejection{
			Device: pd.Name,
			Reason: RejectPresentation,
			Detail: "cannot present to the surface",
		}
	}
	return nil
}

// Select picks the best candidate meeting the requirements.
// Among qualifying devices discrete GPUs are preferred, then newer API
// versions, then the earlier enumeration index, so the result only depends
// on the candidate set.
func Select(candidates []Candidate, req Requirements) (Selection, error) {
	var (
		suitable   []gpu.PhysicalDevice
		rejections []Rejection
	)
	for _, c := range candidates {
		if r := Evaluate(c, req); r != nil {
			rejections = append(rejections, *r)
			continue
		}
		suitable = append(suitable, c.Device)
	}

	if len(suitable) == 0 {
		return Selection{}, &NoSuitableDeviceError{Rejections: rejections}
	}

	sort.SliceStable(suitable, func(i, j int) bool {
		a, b := suitable[i], suitable[j]
		if typePreference[a.Type] != typePreference[b.Type] {
			return typePreference[a.Type] > typePreference[b.Type]
		}
		if a.APIVersion != b.APIVersion {
			return a.APIVersion > b.APIVersion
		}
		return a.Index < b.Index
	})

	return Selection{
		Device:         suitable[0],
		MinimumVersion: req.MinimumVersion,
		Features:       req.Features,
	}, nil
}
