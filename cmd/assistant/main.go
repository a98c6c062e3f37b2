package main

import (
	"github.com/zraval/portfolio-assistant/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
