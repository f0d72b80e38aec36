// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package raw

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

const (
	procPathEnvVarName = "HOST_PROC"
	defaultProcPath    = "/proc"
	defaultHostRoot    = "/"
)

var errHostRootNotFound = errors.New("no /proc folder found on the system")

type fileOpenFn func(string) (io.ReadCloser, error)

func defaultFileOpenFn(filePath string) (io.ReadCloser, error) {
	return os.Open(filePath)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// getEnv will get the environment variable and return a string containing all extra values provided
// joined with the environment variable. If environment variable is not set, a default value will be used.
func getEnv(name, defaultValue string, combineWith ...string) string {
	value := os.Getenv(name)
	if value == "" {
		value = defaultValue
	}

	if len(combineWith) > 0 {
		value = filepath.Join(append([]string{value}, combineWith...)...)
	}

	return value
}

// ProcPath returns the proc folder of the host: HOST_PROC when set, <hostRoot>/proc otherwise.
func ProcPath(hostRoot string) string {
	return getEnv(procPathEnvVarName, filepath.Join(hostRoot, defaultProcPath))
}

// getFirstExistingDir will return the first path in the array that is an existing directory.
func getFirstExistingDir(paths []string, dirExists func(string) bool) (result string, found bool) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if dirExists(path) {
			result = path
			found = true
			break
		}
	}
	return
}

// DetectHostRoot returns the folder where the host root filesystem is reachable. A custom hostRoot is
// honored only if it contains a /proc folder, otherwise the tool assumes it runs straight on the host.
func DetectHostRoot(hostRoot string, pathExists func(string) bool) (string, error) {
	if hostRoot == "" {
		hostRoot = defaultHostRoot
	}

	for _, hostRoot := range []string{hostRoot, defaultHostRoot} {
		if pathExists(filepath.Join(hostRoot, defaultProcPath)) {
			return hostRoot, nil
		}
	}

	return "", errHostRootNotFound
}
