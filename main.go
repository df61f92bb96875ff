package main

import "github.com/theleywin/talentnest/cmd"

func main() {
	cmd.Execute()
}
