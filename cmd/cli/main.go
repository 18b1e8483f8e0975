package main

import (
	"context"
	"log"
	"os"

	"github.com/FRANCK359/smart-search-ai/internal/client/cli"
)

func main() {

	ctx := context.Background()

	if err := cli.Command().Run(ctx, os.Args); err != nil {
		log.Fatalf("%v", err)
	}

}
