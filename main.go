package main

import (
	"github.com/shopscope/shopscope/cmd"
)

func main() {
	cmd.Execute()
}
