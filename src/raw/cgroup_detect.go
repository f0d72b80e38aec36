// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package raw

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/containerd/cgroups"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
)

const (
	cgroupFileName = "cgroup"
	// LXC >= 4 places containers under lxc.payload.<name>, older releases under lxc/<name>.
	lxcPayloadPrefix = "lxc.payload."
	lxcLegacyFolder  = "lxc"
)

// ErrCgroupNotFound is returned when no cgroup directory could be found for a container.
var ErrCgroupNotFound = errors.New("cgroup path not found")

// CgroupResolver finds the cgroup directory holding the accounting files of a container.
type CgroupResolver struct {
	cgroupRoot string
	procPath   string
	dirExists  func(string) bool
	cgroupMode func() cgroups.CGMode
}

// NewCgroupResolver returns a resolver looking for cgroups under cgroupRoot (e.g. /sys/fs/cgroup)
// and for processes under procPath (e.g. /proc).
func NewCgroupResolver(cgroupRoot, procPath string) *CgroupResolver {
	return &CgroupResolver{
		cgroupRoot: cgroupRoot,
		procPath:   procPath,
		dirExists:  isDir,
		cgroupMode: cgroups.Mode,
	}
}

// Resolve returns container itself when it is an existing directory. Otherwise container is taken as
// an LXC container name and the well known cgroup locations are probed in order.
func (r *CgroupResolver) Resolve(container string) (string, error) {
	if r.dirExists(container) {
		return container, nil
	}

	candidates := r.candidates(container)
	if path, found := getFirstExistingDir(candidates, r.dirExists); found {
		log.Debug("cgroup path for %q found at %s", container, path)
		return path, nil
	}

	log.Debug("cgroup path for %q not found, tried: %v", container, candidates)
	return "", fmt.Errorf("%w for '%s'", ErrCgroupNotFound, container)
}

// candidates lists the cgroup v2 (unified) locations first, and then the same ones under the
// v1 memory controller hierarchy.
func (r *CgroupResolver) candidates(name string) []string {
	var candidates []string
	for _, root := range []string{r.cgroupRoot, filepath.Join(r.cgroupRoot, string(cgroups.Memory))} {
		candidates = append(candidates,
			filepath.Join(root, name),
			filepath.Join(root, lxcPayloadPrefix+name),
			filepath.Join(root, lxcLegacyFolder, name),
		)
	}
	return candidates
}

// ResolvePID returns the cgroup directory of the process with the given pid, as read from
// /proc/<pid>/cgroup. On unified hosts the v2 group is preferred, otherwise the memory controller
// group of the v1 hierarchy is, since hybrid hosts don't enable the memory controller on v2.
func (r *CgroupResolver) ResolvePID(pid int) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("%w: invalid pid %d", ErrCgroupNotFound, pid)
	}

	cgroupFilePath := filepath.Join(r.procPath, strconv.Itoa(pid), cgroupFileName)
	legacyPaths, unifiedPath, err := cgroups.ParseCgroupFileUnified(cgroupFilePath)
	if err != nil {
		return "", fmt.Errorf("%w for pid %d: failed to parse %s: %v", ErrCgroupNotFound, pid, cgroupFilePath, err)
	}

	var v1Path, v2Path string
	if unifiedPath != "" {
		v2Path = filepath.Join(r.cgroupRoot, unifiedPath)
	}
	if memoryPath, ok := legacyPaths[string(cgroups.Memory)]; ok {
		v1Path = filepath.Join(r.cgroupRoot, string(cgroups.Memory), memoryPath)
	}

	candidates := []string{v1Path, v2Path}
	if r.cgroupMode() == cgroups.Unified {
		candidates = []string{v2Path, v1Path}
	}

	if path, found := getFirstExistingDir(candidates, r.dirExists); found {
		log.Debug("cgroup path for pid %d found at %s", pid, path)
		return path, nil
	}

	return "", fmt.Errorf("%w for pid %d", ErrCgroupNotFound, pid)
}
