// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plugin

import (
	"os/exec"
)

// no process groups, only the direct child is killed
func killProcessGroup(cmd *exec.Cmd) {
}
