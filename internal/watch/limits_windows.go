// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// fatalErrnos end watch mode. ReadDirectoryChangesW has no watch limit, so
// only running out of handles (ERROR_TOO_MANY_OPEN_FILES), a watched
// directory vanishing (ERROR_INVALID_HANDLE) and a failed buffer allocation
// (ERROR_NOT_ENOUGH_MEMORY) count.
var fatalErrnos = []syscall.Errno{4, 6, 8}
