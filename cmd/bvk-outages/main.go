package main

import "github.com/pfrederiksen/bvk-outages/internal/cli"

func main() {
	cli.Execute()
}
