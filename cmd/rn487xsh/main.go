package main

import (
	"github.com/robotalks/rn487x.go/pkg/cli/sh"
	"github.com/robotalks/rn487x.go/pkg/rn487x"
	"github.com/robotalks/rn487x.go/pkg/serial"
)

func init() {
	serial.SetupFlags()
	rn487x.SetupFlags()
}

func main() {
	sh.Main()
}
