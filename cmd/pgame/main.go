package main

import (
	"github.com/scopecreep/projectgame/internal/cli"
)

func main() {
	cli.Execute()
}
