// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package raw fetches raw system-level metrics as they are presented by the operating system
package raw

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
)

const unboundedValue = "max"

var errUnboundedCounter = errors.New("usage counter reported as unbounded")

// CgroupFetcher fetches memory and swap counters from a cgroup directory, trying the cgroup v2
// files first and falling back to the v1 ones.
type CgroupFetcher struct {
	system SystemMemory
	openFn fileOpenFn
}

// NewCgroupFetcher creates a new cgroups data fetcher. The system totals are used to detect
// v1 limits that are effectively unbounded.
func NewCgroupFetcher(system SystemMemory) *CgroupFetcher {
	return &CgroupFetcher{
		system: system,
		openFn: defaultFileOpenFn,
	}
}

// Fetch reads the counters found under cgroupPath. Missing or malformed files never fail the fetch,
// they are reported as absent values.
func (cg *CgroupFetcher) Fetch(cgroupPath string) Metrics {
	metrics := Metrics{CgroupPath: cgroupPath}

	if mem, ok := cg.memoryV2(cgroupPath); ok {
		metrics.Memory = mem
		metrics.MemoryVersion = CgroupV2
	} else {
		metrics.Memory = cg.memoryV1(cgroupPath)
		metrics.MemoryVersion = CgroupV1
	}

	if swap, ok := cg.swapV2(cgroupPath); ok {
		metrics.Swap = swap
		metrics.SwapVersion = CgroupV2
	} else {
		metrics.Swap = cg.swapV1(cgroupPath, metrics.Memory)
		metrics.SwapVersion = CgroupV1
	}

	log.Debug("memory (cgroup v%s): usage=%s limit=%s", metrics.MemoryVersion,
		humanBytes(metrics.Memory.Current), humanBytes(metrics.Memory.Limit))
	log.Debug("swap (cgroup v%s): usage=%s limit=%s", metrics.SwapVersion,
		humanBytes(metrics.Swap.Current), humanBytes(metrics.Swap.Limit))

	return metrics
}

// readCounter returns the value of a usage file. A usage file holding "max" is malformed.
func (cg *CgroupFetcher) readCounter(filePath string) (*uint64, error) {
	value, unbounded, err := cg.readStatFile(filePath)
	if err != nil {
		return nil, err
	}
	if unbounded {
		return nil, fmt.Errorf("%s: %w", filePath, errUnboundedCounter)
	}
	return &value, nil
}

// readLimit returns the value of a limit file, or nil when the limit is "max" or can't be read.
func (cg *CgroupFetcher) readLimit(filePath string) *uint64 {
	value, unbounded, err := cg.readStatFile(filePath)
	if err != nil {
		log.Debug("couldn't read limit, assuming unbounded: %v", err)
		return nil
	}
	if unbounded {
		return nil
	}
	return &value
}

func (cg *CgroupFetcher) readStatFile(filePath string) (value uint64, unbounded bool, err error) {
	f, err := cg.openFn(filePath)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error("Error occurred while closing the file: %v", closeErr)
		}
	}()

	content, err := io.ReadAll(f)
	if err != nil {
		return 0, false, fmt.Errorf("reading %s: %w", filePath, err)
	}

	return parseStatValue(filePath, string(content))
}

// parseStatValue parses the content of a single value cgroup file, e.g. "104857600\n" or "max\n".
func parseStatValue(filePath, content string) (value uint64, unbounded bool, err error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == unboundedValue {
		return 0, true, nil
	}

	value, err = strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("unexpected content in %s: %q", filePath, trimmed)
	}
	return value, false, nil
}

// boundedBy drops limits above the given system ceiling, which the kernel uses to represent "no limit".
func boundedBy(limit *uint64, ceiling uint64) *uint64 {
	if limit != nil && *limit > ceiling {
		return nil
	}
	return limit
}

func humanBytes(value *uint64) string {
	if value == nil {
		return "n/a"
	}
	return humanize.IBytes(*value)
}
