// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
)

// ContainerToHost returns hostPath inside the hostFolder when it exists there, e.g. /host/sys/fs/cgroup,
// assuming the tool is running in a container. Otherwise hostPath is returned as is.
func ContainerToHost(hostFolder, hostPath string) string {
	insideContainerPath := filepath.Join(hostFolder, hostPath)
	if _, err := os.Stat(insideContainerPath); err == nil {
		return insideContainerPath
	}
	return hostPath
}
