// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// fatalErrnos end watch mode. ENOSPC means fs.inotify.max_user_watches was
// reached; EMFILE and ENFILE are descriptor limits. Large node_modules trees
// on load paths are the usual cause.
var fatalErrnos = []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}
