package main

import "github.com/assetnote/kitecurl/cmd/kitecurl/cmd"

func main() {
	cmd.Execute()
}
