// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package commands

import (
	"context"
	"os"

	"code.vegaprotocol.io/bigbook/config"
	"code.vegaprotocol.io/bigbook/logging"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	Home  string `default:"$HOME/.bigbook" description:"Directory holding the configuration and the snapshots" long:"home"`
	Force bool   `description:"Overwrite an existing configuration"                                          long:"force"  short:"f"`
}

var initCmd InitCmd

func (opts *InitCmd) Execute(_ []string) error {
	logger := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer logger.AtExit()

	home := os.ExpandEnv(opts.Home)
	cfg := config.NewDefaultConfig(home)
	if err := config.Write(home, &cfg, opts.Force); err != nil {
		return err
	}

	logger.Info("configuration written", logging.String("path", config.Path(home)))
	return nil
}

func Init(_ context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}

	var (
		short = "Initialise a bigbook home"
		long  = "Init writes the default configuration to the home directory"
	)
	_, err := parser.AddCommand("init", short, long, &initCmd)
	return err
}
