// SPDX-License-Identifier: MPL-2.0

package main

import cmd "nancy-cli/cmd/nancy"

func main() {
	cmd.Execute()
}
