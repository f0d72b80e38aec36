// Copyright 2025 New Relic Corporation. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package format renders byte counts and free-like tables.
package format

import (
	"fmt"
	"strconv"
)

// Unit is the unit used to print the values of the table.
type Unit int

const (
	Kibi Unit = iota
	Bytes
	Mebi
	Gibi
	Human
)

const (
	binaryBase  = 1024
	decimalBase = 1000
)

// exponents maps each fixed unit to the power of the base it stands for.
var exponents = map[Unit]int{
	Bytes: 0,
	Kibi:  1,
	Mebi:  2,
	Gibi:  3,
}

// humanSuffixes are tried in order until the value fits in the unit.
var humanSuffixes = []string{"B", "K", "M", "G", "T", "P"}

func (u Unit) String() string {
	switch u {
	case Bytes:
		return "bytes"
	case Kibi:
		return "kibi"
	case Mebi:
		return "mebi"
	case Gibi:
		return "gibi"
	case Human:
		return "human"
	}
	return "unknown"
}

// Spec tells how byte counts are printed: in a fixed unit or human-readable, with powers of 1024
// or, when SI is set, powers of 1000.
type Spec struct {
	Unit Unit
	SI   bool
}

// Base returns 1000 for SI specs and 1024 otherwise.
func (s Spec) Base() float64 {
	if s.SI {
		return decimalBase
	}
	return binaryBase
}

// Factor returns the number of bytes in one s.Unit. Human specs have no fixed factor and return 1.
func (s Spec) Factor() float64 {
	factor := 1.0
	for i := 0; i < exponents[s.Unit]; i++ {
		factor *= s.Base()
	}
	return factor
}

// Format returns bytes as a string, e.g. "512.0M" for human specs or "524288" for Kibi.
func (s Spec) Format(bytes uint64) string {
	if s.Unit == Human {
		return s.human(bytes)
	}
	return strconv.FormatFloat(float64(bytes)/s.Factor(), 'f', 0, 64)
}

// human scales the value to the next unit only when it reaches the base in the current one.
func (s Spec) human(bytes uint64) string {
	base := s.Base()
	size := float64(bytes)
	for i, suffix := range humanSuffixes {
		if size < base || i == len(humanSuffixes)-1 {
			return fmt.Sprintf("%.1f%s", size, suffix)
		}
		size /= base
	}
	return "" // unreachable
}
