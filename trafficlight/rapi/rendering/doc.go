// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rendering writes JSON responses and typed error responses of the light API.
package rendering
