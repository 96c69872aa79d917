package snapshot

import (
	"encoding/json"
	"strings"

	"code.vegaprotocol.io/bigbook/logging"
	"code.vegaprotocol.io/bigbook/types"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const keyPrefix = "book/"

var (
	// ErrSnapshotNotFound is returned when no state was saved for a market.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrEmptyMarketID is returned when saving a state without a market.
	ErrEmptyMarketID = errors.New("empty market ID")
)

// Store keeps the latest state of each order book in a leveldb database,
// keyed by market.
type Store struct {
	log *logging.Logger
	db  *leveldb.DB
}

// NewStore opens the database at the configured path, or an in-memory one
// if no path is set.
func NewStore(log *logging.Logger, cfg Config) (*Store, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	var (
		db  *leveldb.DB
		err error
	)
	if cfg.Path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(cfg.Path, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open level db")
	}

	log.Debug("snapshot store opened", logging.String("path", cfg.Path))
	return &Store{
		log: log,
		db:  db,
	}, nil
}

func marketToKey(marketID string) []byte {
	return []byte(keyPrefix + marketID)
}

// Save replaces the state stored for the market of the book.
func (s *Store) Save(state *types.BookState) error {
	if state.MarketID == "" {
		return ErrEmptyMarketID
	}

	bytes, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "failed to marshal book state")
	}

	if err := s.db.Put(marketToKey(state.MarketID), bytes, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(err, "failed to put book state")
	}

	s.log.Info("book state saved",
		logging.MarketID(state.MarketID),
		logging.Int("asks", len(state.Asks)),
		logging.Int("bids", len(state.Bids)),
	)
	return nil
}

// Load returns the state last saved for the market.
func (s *Store) Load(marketID string) (*types.BookState, error) {
	value, err := s.db.Get(marketToKey(marketID), &opt.ReadOptions{})
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get book state")
	}

	state := &types.BookState{}
	if err := json.Unmarshal(value, state); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal book state")
	}
	return state, nil
}

// Delete drops the state of the market, deleting an unknown market is not
// an error.
func (s *Store) Delete(marketID string) error {
	if err := s.db.Delete(marketToKey(marketID), &opt.WriteOptions{}); err != nil {
		return errors.Wrap(err, "failed to delete book state")
	}
	return nil
}

// Markets lists the markets with a saved state, in key order.
func (s *Store) Markets() ([]string, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), &opt.ReadOptions{})
	defer iter.Release()

	markets := []string{}
	for iter.Next() {
		markets = append(markets, strings.TrimPrefix(string(iter.Key()), keyPrefix))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate over book states")
	}
	return markets, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
