// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
The simulator emits two sources of logging:

1. Internal logs: the simulator's own logrus application logs, written to stderr for operational use
2. Phase logs: one tab separated line per phase change, written to stdout for whoever watches the intersection

Internal logs are formatted by InternalFormatter and filtered by the level set through SetLogLevel.
*/
package logging
