// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package raw

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/newrelic/infra-integrations-sdk/v3/log"
	gops_mem "github.com/shirou/gopsutil/mem"
)

const meminfoFileName = "meminfo"

// ErrSystemInfo is returned when the system memory totals can't be read.
var ErrSystemInfo = errors.New("unable to read system memory information")

type SystemMemoryReader interface {
	ReadTotals(ctx context.Context) (SystemMemory, error)
}

// MeminfoReader reads the system memory and swap totals from <procPath>/meminfo.
type MeminfoReader struct {
	openFn     fileOpenFn
	procPath   string
	virtualMem func(ctx context.Context) (*gops_mem.VirtualMemoryStat, error)
}

// NewMeminfoReader returns a reader for <procPath>/meminfo. gopsutil resolves the proc folder
// through the HOST_PROC environment variable, which is set accordingly when missing.
func NewMeminfoReader(procPath string) (MeminfoReader, error) {
	if os.Getenv(procPathEnvVarName) == "" && procPath != defaultProcPath {
		if err := os.Setenv(procPathEnvVarName, procPath); err != nil {
			return MeminfoReader{}, fmt.Errorf("setting %s: %w", procPathEnvVarName, err)
		}
	}
	return MeminfoReader{
		openFn:     defaultFileOpenFn,
		procPath:   procPath,
		virtualMem: gops_mem.VirtualMemoryWithContext,
	}, nil
}

// ReadTotals returns the MemTotal and SwapTotal values of the host.
func (r MeminfoReader) ReadTotals(ctx context.Context) (SystemMemory, error) {
	meminfoPath := filepath.Join(r.procPath, meminfoFileName)

	// gopsutil silently reports zeroes for an unreadable meminfo file.
	f, err := r.openFn(meminfoPath)
	if err != nil {
		return SystemMemory{}, fmt.Errorf("%w: %v", ErrSystemInfo, err)
	}
	if err := f.Close(); err != nil {
		log.Debug("Error occurred while closing the file: %v", err)
	}

	vmem, err := r.virtualMem(ctx)
	if err != nil {
		return SystemMemory{}, fmt.Errorf("%w: parsing %s: %v", ErrSystemInfo, meminfoPath, err)
	}

	return SystemMemory{
		MemTotal:  vmem.Total,
		SwapTotal: vmem.SwapTotal,
	}, nil
}
