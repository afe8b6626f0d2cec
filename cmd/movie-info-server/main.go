package main

import cmd "github.com/rohmanhakim/movie-info-server/internal/cli"

func main() {
	cmd.Execute()
}
