package main

import "github.com/atikulmunna/log2src/internal/cmd"

func main() {
	cmd.Execute()
}
