// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"github.com/newrelic/infra-integrations-sdk/v3/log"
	"github.com/spf13/cobra"

	"github.com/newrelic/lxc-free/src/config"
)

// NewCommand returns the lxc-free root command.
func NewCommand(version, gitCommit, buildDate string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           ToolName + " [flags] CONTAINER",
		Short:         "Report LXC container memory usage (like `free`).",
		Long:          "Report memory and swap usage of a container, read from its cgroup (v1 or v2).\nCONTAINER is an LXC container name or a full cgroup path.",
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion, _ := cmd.Flags().GetBool(config.FlagShowVersion); showVersion {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, positional []string) error {
			args, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			// from here on errors are not caused by a wrong usage
			cmd.SilenceUsage = true

			log.SetupLogging(args.Verbose)

			if args.ShowVersion {
				PrintVersion(cmd.OutOrStdout(), version, gitCommit, buildDate)
				return nil
			}

			return Run(cmd.Context(), args, positional[0], cmd.OutOrStdout())
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().SortFlags = false

	return cmd
}
