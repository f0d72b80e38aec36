// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package raw

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/containerd/cgroups"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
)

const (
	mountsFileName   = "mounts"
	cgroupV1FsType   = "cgroup"
	cgroupV2FsType   = "cgroup2"
	mountPointField  = 1
	fsTypeField      = 2
	mountsFileFields = 3
)

var errCgroupMountPointNotFound = errors.New("cgroup mount point not found")

// DetectCgroupRoot returns the folder holding the cgroup hierarchies mounted under hostRoot, as listed
// in <procPath>/mounts. The parent of the v1 memory controller mount wins over the cgroup2 mount, so
// hybrid hosts resolve to e.g. /sys/fs/cgroup and not /sys/fs/cgroup/unified.
func DetectCgroupRoot(hostRoot, procPath string) (string, error) {
	return detectCgroupRoot(hostRoot, procPath, defaultFileOpenFn)
}

func detectCgroupRoot(hostRoot, procPath string, fileOpen fileOpenFn) (string, error) {
	path := filepath.Join(procPath, mountsFileName)
	mountsFile, err := fileOpen(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s, while detecting cgroup mount point: %w", path, err)
	}
	defer func() {
		if err := mountsFile.Close(); err != nil {
			log.Debug("Error occurred while closing the file: %v", err)
		}
	}()

	v1MountPoints, v2MountPoint, err := parseCgroupMountPoints(hostRoot, mountsFile)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if memoryRoot, ok := v1MountPoints[string(cgroups.Memory)]; ok {
		return memoryRoot, nil
	}
	if v2MountPoint != "" {
		return v2MountPoint, nil
	}
	return "", errCgroupMountPointNotFound
}

// parseCgroupMountPoints returns the folder containing each v1 controller mount, keyed by controller
// name, and the first cgroup2 mount point. Mounts outside hostRoot are ignored.
func parseCgroupMountPoints(hostRoot string, mountsFile io.Reader) (map[string]string, string, error) {
	v1MountPoints := make(map[string]string)
	v2MountPoint := ""

	sc := bufio.NewScanner(mountsFile)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < mountsFileFields || !strings.HasPrefix(fields[mountPointField], hostRoot) {
			continue
		}

		switch fields[fsTypeField] {
		case cgroupV2FsType:
			if v2MountPoint == "" {
				v2MountPoint = fields[mountPointField]
			}
		case cgroupV1FsType:
			// e.g. /sys/fs/cgroup/cpu,cpuacct
			for _, controller := range strings.Split(filepath.Base(fields[mountPointField]), ",") {
				if _, found := v1MountPoints[controller]; !found {
					v1MountPoints[controller] = filepath.Dir(fields[mountPointField])
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, "", err
	}

	return v1MountPoints, v2MountPoint, nil
}
