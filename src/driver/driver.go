// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/docker/docker/client"
	"github.com/newrelic/infra-integrations-sdk/v3/log"

	"github.com/newrelic/lxc-free/src/biz"
	"github.com/newrelic/lxc-free/src/config"
	"github.com/newrelic/lxc-free/src/format"
	"github.com/newrelic/lxc-free/src/paths"
	"github.com/newrelic/lxc-free/src/raw"
)

const (
	ToolName = "lxc-free"
)

// dockerInspectorFn returns the Docker client used by --docker and a function releasing it.
var dockerInspectorFn = newDockerInspector

func ExitOnErr(err error) {
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func PrintVersion(w io.Writer, version, gitCommit, buildDate string) {
	fmt.Fprintf(w,
		"LXC free Version: %s, Platform: %s, GoVersion: %s, GitCommit: %s, BuildDate: %s\n",
		version,
		fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		runtime.Version(),
		gitCommit,
		buildDate)
}

// Run prints the memory table of the given container: a cgroup directory or an LXC container name,
// a PID with --pid, or a Docker container with --docker.
func Run(ctx context.Context, args config.ArgumentList, container string, out io.Writer) error {
	hostRoot, err := raw.DetectHostRoot(args.HostRoot, pathExists)
	if err != nil {
		return fmt.Errorf("%w: %v", raw.ErrSystemInfo, err)
	}
	procPath := raw.ProcPath(hostRoot)
	cgroupRoot := cgroupRootPath(hostRoot, procPath, args.CgroupRoot)
	log.Debug("host root: %s, proc: %s, cgroup root: %s", hostRoot, procPath, cgroupRoot)

	resolver := raw.NewCgroupResolver(cgroupRoot, procPath)
	cgroupPath, err := resolveCgroupPath(ctx, args, resolver, container)
	if err != nil {
		return err
	}

	reader, err := raw.NewMeminfoReader(procPath)
	if err != nil {
		return err
	}
	system, err := reader.ReadTotals(ctx)
	if err != nil {
		return err
	}

	report := biz.NewProcessor(raw.NewCgroupFetcher(system)).Process(cgroupPath)

	return format.WriteTable(out, report, args.FormatSpec())
}

// cgroupRootPath returns the configured cgroup root inside the host root. When none is configured it
// is read from the mount table, or the default location is assumed.
func cgroupRootPath(hostRoot, procPath, configured string) string {
	if configured != "" {
		return paths.ContainerToHost(hostRoot, configured)
	}
	detected, err := raw.DetectCgroupRoot(hostRoot, procPath)
	if err != nil {
		log.Debug("%v, using %s", err, raw.DefaultCgroupRoot)
		return paths.ContainerToHost(hostRoot, raw.DefaultCgroupRoot)
	}
	return detected
}

func resolveCgroupPath(ctx context.Context, args config.ArgumentList, resolver *raw.CgroupResolver, container string) (string, error) {
	switch {
	case args.PID:
		pid, err := strconv.Atoi(container)
		if err != nil {
			return "", fmt.Errorf("%w: invalid pid %q", raw.ErrCgroupNotFound, container)
		}
		return resolver.ResolvePID(pid)
	case args.Docker:
		inspector, closeFn, err := dockerInspectorFn(args.DockerClientVersion)
		if err != nil {
			return "", err
		}
		defer func() {
			if err := closeFn(); err != nil {
				log.Debug("closing docker client: %v", err)
			}
		}()
		pid, err := raw.DockerContainerPID(ctx, inspector, container)
		if err != nil {
			return "", err
		}
		return resolver.ResolvePID(pid)
	}
	return resolver.Resolve(container)
}

func newDockerInspector(version string) (raw.DockerInspector, func() error, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if version != "" {
		opts = append(opts, client.WithVersion(version))
	}
	dockerClient, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating docker client: %w", err)
	}
	return dockerClient, dockerClient.Close, nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
