//go:build !linux

package main

// ============================================================================
// BUILD ERROR: only Linux is supported
// ============================================================================
//
// lxc-free reads the cgroup filesystem and /proc/meminfo, which only exist
// on Linux.
//
// ============================================================================

// This will cause a clear compile-time error
var _ = Only_linux_is_supported_by_lxc_free
