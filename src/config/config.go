// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/newrelic/lxc-free/src/format"
)

// EnvPrefix is prepended to the upper-cased flag names to read them from the environment,
// e.g. LXC_FREE_HOST_ROOT.
const EnvPrefix = "LXC_FREE"

const (
	FlagHuman               = "human"
	FlagBytes               = "bytes"
	FlagKibi                = "kibi"
	FlagMebi                = "mebi"
	FlagGibi                = "gibi"
	FlagSI                  = "si"
	FlagHelp                = "help"
	FlagPID                 = "pid"
	FlagDocker              = "docker"
	FlagDockerClientVersion = "docker-client-version"
	FlagHostRoot            = "host-root"
	FlagCgroupRoot          = "cgroup-root"
	FlagVerbose             = "verbose"
	FlagShowVersion         = "show-version"
)

// UnitFlags can't be combined with each other.
var UnitFlags = []string{FlagBytes, FlagKibi, FlagMebi, FlagGibi}

type ArgumentList struct {
	Human               bool   `mapstructure:"human"`
	Bytes               bool   `mapstructure:"bytes"`
	Kibi                bool   `mapstructure:"kibi"`
	Mebi                bool   `mapstructure:"mebi"`
	Gibi                bool   `mapstructure:"gibi"`
	SI                  bool   `mapstructure:"si"`
	PID                 bool   `mapstructure:"pid"`
	Docker              bool   `mapstructure:"docker"`
	DockerClientVersion string `mapstructure:"docker-client-version"`
	HostRoot            string `mapstructure:"host-root"`
	CgroupRoot          string `mapstructure:"cgroup-root"`
	Verbose             bool   `mapstructure:"verbose"`
	ShowVersion         bool   `mapstructure:"show-version"`
}

// RegisterFlags adds the command line flags to the given flag set. -h stands for --human, like in
// free(1), so --help has no shorthand.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolP(FlagHuman, "h", false, "human-readable output (e.g. 512.0M)")
	flags.BoolP(FlagBytes, "b", false, "show output in bytes")
	flags.BoolP(FlagKibi, "k", false, "show output in KiB (default)")
	flags.BoolP(FlagMebi, "m", false, "show output in MiB")
	flags.BoolP(FlagGibi, "g", false, "show output in GiB")
	flags.Bool(FlagSI, false, "use powers of 1000 not 1024")
	flags.Bool(FlagHelp, false, "show help and exit")
	flags.Bool(FlagPID, false, "the argument is the PID of a process running in the container")
	flags.Bool(FlagDocker, false, "the argument is a Docker container name or ID")
	flags.String(FlagDockerClientVersion, "", "Optional. Docker API version, negotiated with the daemon when empty")
	flags.String(FlagHostRoot, "", "If running from a container, the mounted folder pointing to the host root folder")
	flags.String(FlagCgroupRoot, "", "Mount point of the cgroup filesystem, relative to the host root. Read from the mount table when empty")
	flags.Bool(FlagVerbose, false, "Print more information to logs.")
	flags.Bool(FlagShowVersion, false, "Print build information and exit")
}

// Load returns the arguments set through flags, or through LXC_FREE_* environment variables for the
// flags that were not set in the command line.
func Load(flags *pflag.FlagSet) (ArgumentList, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return ArgumentList{}, fmt.Errorf("binding flags: %w", err)
	}

	args := ArgumentList{}
	if err := v.Unmarshal(&args); err != nil {
		return ArgumentList{}, fmt.Errorf("loading configuration: %w", err)
	}

	if err := args.validate(); err != nil {
		return ArgumentList{}, err
	}
	return args, nil
}

func (a ArgumentList) validate() error {
	if a.PID && a.Docker {
		return fmt.Errorf("--%s and --%s can't be used together", FlagPID, FlagDocker)
	}

	units := 0
	for _, set := range []bool{a.Bytes, a.Kibi, a.Mebi, a.Gibi} {
		if set {
			units++
		}
	}
	if units > 1 {
		return fmt.Errorf("only one of --%s can be set", strings.Join(UnitFlags, ", --"))
	}
	return nil
}

// FormatSpec returns how the values have to be printed. Human output takes precedence over
// any unit flag.
func (a ArgumentList) FormatSpec() format.Spec {
	spec := format.Spec{Unit: format.Kibi, SI: a.SI}
	switch {
	case a.Human:
		spec.Unit = format.Human
	case a.Bytes:
		spec.Unit = format.Bytes
	case a.Mebi:
		spec.Unit = format.Mebi
	case a.Gibi:
		spec.Unit = format.Gibi
	}
	return spec
}
