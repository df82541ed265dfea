package main

import (
	"context"
	"os"

	"github.com/alexanderramin/masterplan/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
