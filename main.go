package main

import "github.com/dh1tw/hz/cmd"

func main() {
	cmd.Execute()
}
