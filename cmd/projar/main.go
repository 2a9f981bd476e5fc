// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/projar/cmd/projar/cmd"
)

func main() {
	cmd.Execute()
}
