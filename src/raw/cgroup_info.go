// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package raw

const (
	CgroupV1 = "1"
	CgroupV2 = "2"
)

const (
	// DefaultCgroupRoot is where both cgroup hierarchies are mounted on most distributions.
	DefaultCgroupRoot = "/sys/fs/cgroup"
)
