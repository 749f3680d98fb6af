// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import "github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"

// Wait modes reported in GreenResponse.
const (
	WaitModeCompeting = "competing"
	WaitModeBroadcast = "broadcast"
)

// GreenResponse is returned once a waiter has observed GREEN.
type GreenResponse struct {
	Light    string     `json:"light"`
	Status   core.Phase `json:"status"`
	Mode     string     `json:"mode"`
	WaitedMs int64      `json:"waitedMs"`
}
