package main

import (
	"github.com/harrybrwn/hackbright/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.Stop(err)
	}
}
