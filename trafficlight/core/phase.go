// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"strings"
)

// Phase is the state of a traffic light.
type Phase int32

const (
	// Red stops traffic.
	Red Phase = iota
	// Green lets traffic cross.
	Green
)

// RedPhaseName and GreenPhaseName are the textual forms of the phases.
const (
	RedPhaseName   = "RED"
	GreenPhaseName = "GREEN"
)

func (p Phase) String() string {
	switch p {
	case Red:
		return RedPhaseName
	case Green:
		return GreenPhaseName
	}
	return fmt.Sprintf("Phase(%d)", int32(p))
}

// Toggle returns the phase that follows p.
func (p Phase) Toggle() Phase {
	if p == Green {
		return Red
	}
	return Green
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if p != Red && p != Green {
		return nil, fmt.Errorf("invalid phase %d", int32(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePhase parses a case-insensitive phase name.
func ParsePhase(name string) (Phase, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case RedPhaseName:
		return Red, nil
	case GreenPhaseName:
		return Green, nil
	}
	return Red, fmt.Errorf("unknown phase %q", name)
}
