package main

import "github.com/bond-kaneko/go-calc-watcher/cmd"

func main() {
	cmd.Execute()
}
