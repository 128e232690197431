// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/snapgit/cmd/snapgit/cmd"
)

func main() {
	cmd.Execute()
}
