package main

import (
	"context"
	"os"

	"code.vegaprotocol.io/bigbook/cmd/bigbook/commands"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := commands.Main(ctx); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}
