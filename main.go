package main

import "KzDB/cli"

func main() {
	cli.Execute()
}
