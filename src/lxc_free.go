// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/newrelic/lxc-free/src/driver"
)

var (
	integrationVersion = "0.0.0"
	gitCommit          = ""
	buildDate          = ""
)

func main() {
	cmd := driver.NewCommand(integrationVersion, gitCommit, buildDate)
	driver.ExitOnErr(cmd.ExecuteContext(context.Background()))
}
