// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package raw

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
)

// DockerInspector defines the method needed to find the process of a Docker container.
type DockerInspector interface {
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
}

// DockerContainerPID returns the PID of the main process of a running Docker container.
func DockerContainerPID(ctx context.Context, inspector DockerInspector, containerID string) (int, error) {
	json, err := inspector.ContainerInspect(ctx, containerID)
	if err != nil {
		return 0, fmt.Errorf("%w for docker container '%s': %v", ErrCgroupNotFound, containerID, err)
	}
	if json.ContainerJSONBase == nil || json.State == nil {
		return 0, fmt.Errorf("%w for docker container '%s': empty container inspect result", ErrCgroupNotFound, containerID)
	}
	if !json.State.Running || json.State.Pid == 0 {
		return 0, fmt.Errorf("%w for docker container '%s': container is %s", ErrCgroupNotFound, containerID, json.State.Status)
	}
	return json.State.Pid, nil
}
