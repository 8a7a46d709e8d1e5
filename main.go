// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/sassyimport/sassyimport/cmd/sassyimport"

func main() {
	cmd.Execute()
}
