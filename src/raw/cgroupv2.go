// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package raw

import (
	"path/filepath"

	"github.com/newrelic/infra-integrations-sdk/v3/log"
)

const (
	memoryCurrentFile = "memory.current"
	memoryMaxFile     = "memory.max"
	swapCurrentFile   = "memory.swap.current"
	swapMaxFile       = "memory.swap.max"
)

// memoryV2 reads memory.current and memory.max. It returns false when memory.current can't be read,
// meaning the directory does not belong to a cgroup v2 hierarchy.
func (cg *CgroupFetcher) memoryV2(cgroupPath string) (MemoryStat, bool) {
	return cg.statV2(cgroupPath, memoryCurrentFile, memoryMaxFile)
}

// swapV2 reads memory.swap.current and memory.swap.max.
func (cg *CgroupFetcher) swapV2(cgroupPath string) (MemoryStat, bool) {
	return cg.statV2(cgroupPath, swapCurrentFile, swapMaxFile)
}

func (cg *CgroupFetcher) statV2(cgroupPath, currentFile, maxFile string) (MemoryStat, bool) {
	current, err := cg.readCounter(filepath.Join(cgroupPath, currentFile))
	if err != nil {
		log.Debug("couldn't read cgroup v2 %s, falling back to cgroup v1: %v", currentFile, err)
		return MemoryStat{}, false
	}

	return MemoryStat{
		Current: current,
		Limit:   cg.readLimit(filepath.Join(cgroupPath, maxFile)),
	}, true
}
