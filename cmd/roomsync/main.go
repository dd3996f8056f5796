package main

import (
	"github.com/roomsync/roomsync/internal/cli"
)

func main() {
	cli.Execute()
}
