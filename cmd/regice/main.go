// SPDX-License-Identifier: MIT

package main

import "github.com/BayLibre/regice-common/cmd/regice/cmd"

func main() {
	cmd.Execute()
}
