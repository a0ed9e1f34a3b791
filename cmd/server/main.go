package main // Entry point package

import "github.com/iliyamo/restaurant-reservation/internal/cli"

func main() {
	cli.Execute()
}
