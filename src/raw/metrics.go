// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package raw

// MemoryStat holds a usage counter and its limit as read from the cgroup filesystem.
// A nil Current means the counter could not be read, a nil Limit means unbounded.
type MemoryStat struct {
	Current *uint64
	Limit   *uint64
}

// SystemMemory holds the system wide ceilings used to sanitize cgroup limits.
type SystemMemory struct {
	MemTotal  uint64
	SwapTotal uint64
}

// Metrics are the raw memory and swap counters of a single cgroup.
type Metrics struct {
	CgroupPath    string
	Memory        MemoryStat
	Swap          MemoryStat
	MemoryVersion string
	SwapVersion   string
}

// Fetcher reads the counters found under a cgroup directory.
type Fetcher interface {
	Fetch(cgroupPath string) Metrics
}
