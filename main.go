package main

import "montage/cmd"

func main() {
	cmd.Execute()
}
