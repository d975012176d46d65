package main

import "github.com/MeKo-Tech/rasterlab/cmd/rasterlab/cmd"

func main() {
	cmd.Execute()
}
