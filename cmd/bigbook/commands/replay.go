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
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"code.vegaprotocol.io/bigbook/config"
	"code.vegaprotocol.io/bigbook/logging"
	"code.vegaprotocol.io/bigbook/matching"
	"code.vegaprotocol.io/bigbook/metrics"
	"code.vegaprotocol.io/bigbook/snapshot"
	"code.vegaprotocol.io/bigbook/types"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const maxLineSize = 1024 * 1024

type ReplayCmd struct {
	Home    string `default:"$HOME/.bigbook" description:"Directory holding the configuration and the snapshots" long:"home"`
	Market  string `default:"default"        description:"Market of the order book"                            long:"market"`
	Orders  string `default:"-"              description:"File of JSON orders, one per line, - for stdin"      long:"orders"`
	Restore bool   `description:"Restore the book from the last snapshot of the market before replaying" long:"restore"`
	Save    bool   `description:"Save a snapshot of the book once every order was replayed"          long:"save"`
}

var replayCmd ReplayCmd

// replayLine is one line of the replay input: an order to submit, or the
// ID of a resting order to cancel.
type replayLine struct {
	types.Order
	Cancel string `json:"cancel,omitempty"`
}

// replayKeys are the keys decoded into a replayLine, compared lowercased
// as encoding/json matches them case insensitively.
var replayKeys = map[string]struct{}{
	"id":             {},
	"side":           {},
	"type":           {},
	"price":          {},
	"size":           {},
	"value":          {},
	"sizeremaining":  {},
	"valueremaining": {},
	"lastsizetaken":  {},
	"lastvaluetaken": {},
	"metadata":       {},
	"cancel":         {},
}

// decodeReplayLine decodes one line of input. Keys an order does not know
// about are kept in its metadata: strings as is, other values as their JSON
// text. Entries of an explicit metadata object take precedence.
func decodeReplayLine(data []byte) (*replayLine, error) {
	line := &replayLine{}
	if err := json.Unmarshal(data, line); err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, raw := range fields {
		if _, ok := replayKeys[strings.ToLower(k)]; ok {
			continue
		}
		if _, ok := line.Metadata[k]; ok {
			continue
		}
		if line.Metadata == nil {
			line.Metadata = map[string]string{}
		}
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			line.Metadata[k] = str
		} else {
			line.Metadata[k] = string(raw)
		}
	}
	return line, nil
}

// replayResult is printed for every line of the input.
type replayResult struct {
	Confirmation *types.OrderConfirmation `json:"confirmation,omitempty"`
	Cancelled    *types.Order             `json:"cancelled,omitempty"`
	Error        string                   `json:"error,omitempty"`
}

func (opts *ReplayCmd) Execute(_ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	home := os.ExpandEnv(opts.Home)
	cfg, err := readConfig(home)
	if err != nil {
		return err
	}

	log := logging.NewLoggerFromConfig(cfg.Logging)
	defer log.AtExit()

	if err := metrics.Start(log, cfg.Metrics); err != nil {
		return err
	}

	book := matching.NewOrderBook(log, cfg.Matching, opts.Market)

	var store *snapshot.Store
	if opts.Restore || opts.Save {
		store, err = snapshot.NewStore(log, cfg.Snapshot)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	if opts.Restore {
		if err := restoreBook(log, store, book); err != nil {
			return err
		}
	}

	in := io.Reader(os.Stdin)
	if opts.Orders != "-" {
		f, err := os.Open(opts.Orders)
		if err != nil {
			return errors.Wrap(err, "couldn't open orders file")
		}
		defer f.Close()
		in = f
	}

	if err := replay(ctx, log, book, in, os.Stdout); err != nil {
		return err
	}

	if opts.Save {
		return store.Save(book.GetState())
	}
	return nil
}

// readConfig loads the configuration of home, falling back to the defaults
// when home was never initialised.
func readConfig(home string) (*config.Config, error) {
	if _, err := os.Stat(config.Path(home)); os.IsNotExist(err) {
		cfg := config.NewDefaultConfig(home)
		return &cfg, nil
	}
	return config.Read(home)
}

func restoreBook(log *logging.Logger, store *snapshot.Store, book *matching.OrderBook) error {
	state, err := store.Load(book.MarketID())
	if errors.Is(err, snapshot.ErrSnapshotNotFound) {
		log.Warn("no snapshot to restore, starting from an empty book",
			logging.MarketID(book.MarketID()))
		return nil
	}
	if err != nil {
		return err
	}
	return book.LoadState(state)
}

// replay applies every line of in to the book and writes one result per
// line to out. Rejected orders are reported in the output and do not stop
// the replay, malformed lines do.
func replay(ctx context.Context, log *logging.Logger, book *matching.OrderBook, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	enc := json.NewEncoder(out)

	var lineNo, submitted, rejected int
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		line, err := decodeReplayLine([]byte(text))
		if err != nil {
			return errors.Wrapf(err, "invalid order at line %d", lineNo)
		}

		var res replayResult
		if line.Cancel != "" {
			if o, ok := book.RemoveOrder(line.Cancel); ok {
				res.Cancelled = o.Clone()
			} else {
				res.Error = "order not found: " + line.Cancel
			}
		} else {
			if line.ID == "" {
				line.ID = uuid.NewString()
			}
			conf, err := book.SubmitOrder(&line.Order)
			if err != nil {
				rejected++
				log.Warn("order rejected",
					logging.OrderID(line.ID),
					logging.Error(err))
				res.Error = err.Error()
			} else {
				submitted++
				res.Confirmation = conf
			}
		}

		if err := enc.Encode(res); err != nil {
			return errors.Wrap(err, "couldn't write result")
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "couldn't read orders")
	}

	log.Info("replay done",
		logging.MarketID(book.MarketID()),
		logging.Int("submitted", submitted),
		logging.Int("rejected", rejected),
		logging.Uint64("asks", book.AskCount()),
		logging.Uint64("bids", book.BidCount()),
	)
	return nil
}

func Replay(_ context.Context, parser *flags.Parser) error {
	replayCmd = ReplayCmd{}

	var (
		short = "Replay orders through an order book"
		long  = "Replay submits JSON orders, one per line, to an order book and prints every confirmation. Keys an order does not define are kept in its metadata."
	)
	_, err := parser.AddCommand("replay", short, long, &replayCmd)
	return err
}
