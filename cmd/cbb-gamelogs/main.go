package main

import "github.com/pfrederiksen/cbb-gamelogs/internal/cli"

func main() {
	cli.Execute()
}
