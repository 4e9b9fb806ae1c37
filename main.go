package main

import "github.com/survkit/survbayes/internal/cmd"

func main() {
	cmd.Execute()
}
