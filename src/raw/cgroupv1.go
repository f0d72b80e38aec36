// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package raw

import (
	"path/filepath"

	"github.com/newrelic/infra-integrations-sdk/v3/log"
)

const (
	memoryUsageFile = "memory.usage_in_bytes"
	memoryLimitFile = "memory.limit_in_bytes"
	memswUsageFile  = "memory.memsw.usage_in_bytes"
	memswLimitFile  = "memory.memsw.limit_in_bytes"
)

// memoryV1 reads memory.usage_in_bytes and memory.limit_in_bytes. cgroup v1 has no "max" keyword,
// an unlimited group reports a huge page-aligned number instead, so any limit above the system
// memory is considered unbounded.
func (cg *CgroupFetcher) memoryV1(cgroupPath string) MemoryStat {
	stat := MemoryStat{}

	current, err := cg.readCounter(filepath.Join(cgroupPath, memoryUsageFile))
	if err != nil {
		log.Debug("couldn't read memory usage: %v", err)
	} else {
		stat.Current = current
	}

	stat.Limit = boundedBy(cg.readLimit(filepath.Join(cgroupPath, memoryLimitFile)), cg.system.MemTotal)

	return stat
}

/*
swapV1 derives the swap counters from the v1 combined memory+swap accounting.
https://www.kernel.org/doc/Documentation/cgroup-v1/memory.txt

memory.memsw.usage_in_bytes reports the sum of current memory usage plus swap space used by
processes in the cgroup, and memory.memsw.limit_in_bytes limits that same sum. That's why the
memory counters are subtracted from them to get the swap only values.
*/
func (cg *CgroupFetcher) swapV1(cgroupPath string, mem MemoryStat) MemoryStat {
	stat := MemoryStat{}

	combinedUsage, err := cg.readCounter(filepath.Join(cgroupPath, memswUsageFile))
	if err != nil {
		log.Debug("couldn't read memory+swap usage: %v", err)
	} else if mem.Current != nil {
		usage := swapOnlyUsage(*combinedUsage, *mem.Current)
		stat.Current = &usage
	}

	combinedLimit := cg.readLimit(filepath.Join(cgroupPath, memswLimitFile))
	stat.Limit = swapOnlyLimit(combinedLimit, mem.Limit, cg.system.SwapTotal)

	return stat
}

// swapOnlyUsage returns combined-memory. The memory usage is never bigger than the combined one,
// but both files are not read atomically so the result is kept from overflowing.
func swapOnlyUsage(combined, memory uint64) uint64 {
	if memory > combined {
		log.Debug("memory usage bigger than memory+swap usage (%d>%d), reporting no swap usage", memory, combined)
		return 0
	}
	return combined - memory
}

// swapOnlyLimit returns combinedLimit-memoryLimit. The swap is unbounded when either limit is
// unbounded, or when the difference goes beyond the swap available on the system.
func swapOnlyLimit(combinedLimit, memoryLimit *uint64, swapTotal uint64) *uint64 {
	if combinedLimit == nil || memoryLimit == nil {
		return nil
	}

	var limit uint64
	if *combinedLimit > *memoryLimit {
		limit = *combinedLimit - *memoryLimit
	}

	return boundedBy(&limit, swapTotal)
}
