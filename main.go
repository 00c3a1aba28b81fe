package main

import (
	"github.com/maraf10/BET-seq/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
