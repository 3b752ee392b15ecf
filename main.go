package main

import "github.com/skywavefm/nowplaying/cmd"

func main() {
	cmd.Execute()
}
