// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"fmt"
	"io"

	"github.com/newrelic/lxc-free/src/biz"
)

const (
	labelWidth  = 8
	columnWidth = 12
)

var headers = []string{"total", "used", "free"}

// WriteTable prints the report with the free(1) layout:
//
//	               total        used        free
//	Mem:          524288      102400      421888
//	Swap:              0           0           0
func WriteTable(w io.Writer, report biz.Report, spec Spec) error {
	if _, err := fmt.Fprintf(w, "%-*s", labelWidth, ""); err != nil {
		return err
	}
	for _, h := range headers {
		if _, err := fmt.Fprintf(w, "%*s", columnWidth, h); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	rows := []struct {
		label string
		usage biz.UsageTriple
	}{
		{"Mem:", report.Memory},
		{"Swap:", report.Swap},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-*s%*s%*s%*s\n", labelWidth, row.label,
			columnWidth, spec.Format(row.usage.Total),
			columnWidth, spec.Format(row.usage.Used),
			columnWidth, spec.Format(row.usage.Free)); err != nil {
			return err
		}
	}
	return nil
}
