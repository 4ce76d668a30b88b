package main

import "selecquest/cmd/sq/root"

func main() {
	root.Execute()
}
