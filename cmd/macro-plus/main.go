package main

import "Mansoor88-6/macro-plus/internal/cli"

func main() {
	cli.Execute()
}
