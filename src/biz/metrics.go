// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package biz provides business-value metrics from system raw metrics
package biz

import (
	"github.com/newrelic/infra-integrations-sdk/v3/log"

	"github.com/newrelic/lxc-free/src/raw"
)

// UsageTriple is a free-like view of a counter, in bytes.
type UsageTriple struct {
	Total uint64
	Used  uint64
	Free  uint64
}

// Report holds the memory and swap rows of a container.
type Report struct {
	Memory UsageTriple
	Swap   UsageTriple
}

// Processer defines the most essential interface of a container memory report processor
type Processer interface {
	Process(cgroupPath string) Report
}

// MetricsFetcher fetches the raw cgroup counters and turns them into a Report.
type MetricsFetcher struct {
	fetcher raw.Fetcher
}

// NewProcessor creates a MetricsFetcher from implementations of its required components
func NewProcessor(fetcher raw.Fetcher) *MetricsFetcher {
	return &MetricsFetcher{fetcher: fetcher}
}

// Process returns the memory Report of the cgroup at the given path.
func (mc *MetricsFetcher) Process(cgroupPath string) Report {
	metrics := mc.fetcher.Fetch(cgroupPath)

	return Report{
		Memory: Usage(metrics.Memory),
		Swap:   Usage(metrics.Swap),
	}
}

// Usage converts a raw counter into a UsageTriple. An unbounded cgroup, or one limited to 0,
// reports its own usage as total. Used can be above the limit for a while (e.g. before the
// kernel reclaims memory), in that case free is reported as 0 instead of overflowing.
func Usage(stat raw.MemoryStat) UsageTriple {
	if stat.Current == nil {
		return UsageTriple{}
	}

	used := *stat.Current
	total := used
	if stat.Limit != nil && *stat.Limit != 0 {
		total = *stat.Limit
	}

	var free uint64
	if total > used {
		free = total - used
	} else if total < used {
		log.Debug("usage above limit (%d>%d), reporting no free memory", used, total)
	}

	return UsageTriple{
		Total: total,
		Used:  used,
		Free:  free,
	}
}
