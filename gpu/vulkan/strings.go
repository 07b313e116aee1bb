// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

import "strings"

// safeString terminates s for the C side, unless it already is
func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}

// appendUnique adds the names not yet in list
func appendUnique(list []string, names ...string) []string {
	seen := make(map[string]bool, len(list))
	for _, n := range list {
		seen[strings.TrimSuffix(n, "\x00")] = true
	}
	for _, n := range names {
		key := strings.TrimSuffix(n, "\x00")
		if !seen[key] {
			seen[key] = true
			list = append(list, n)
		}
	}
	return list
}
