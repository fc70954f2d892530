package main

import (
	"go.brendoncarroll.net/star"

	"objhash.org/objhash/ohcmd"
)

func main() {
	star.Main(ohcmd.Root())
}
