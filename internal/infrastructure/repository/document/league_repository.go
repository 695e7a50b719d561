package document

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/league-registry/internal/domain/league"
	"github.com/riskibarqy/league-registry/internal/platform/docstore"
	"github.com/riskibarqy/league-registry/internal/platform/logging"
)

const (
	DefaultKey        = "leagues"
	DefaultMaxRetries = 5
)

// LeagueRepository keeps the whole league collection as one JSON array
// document. Create is an optimistic read-modify-write on the document
// version, retried on conflict.
type LeagueRepository struct {
	store      docstore.Store
	key        string
	maxRetries int
	logger     *logging.Logger
}

type Option func(*LeagueRepository)

func WithKey(key string) Option {
	return func(r *LeagueRepository) {
		if key != "" {
			r.key = key
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(r *LeagueRepository) {
		if n > 0 {
			r.maxRetries = n
		}
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(r *LeagueRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewLeagueRepository(store docstore.Store, opts ...Option) *LeagueRepository {
	r := &LeagueRepository{
		store:      store,
		key:        DefaultKey,
		maxRetries: DefaultMaxRetries,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	records, _, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]league.League, 0, len(records))
	for _, rec := range records {
		item, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode league document %q: %w", r.key, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) (league.League, error) {
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		records, version, err := r.load(ctx)
		if err != nil {
			return league.League{}, err
		}

		nextID, err := nextRecordID(records)
		if err != nil {
			return league.League{}, fmt.Errorf("assign id in document %q: %w", r.key, err)
		}

		created := item.Clone()
		created.ID = strconv.FormatInt(nextID, 10)
		records = append(records, toRecord(created))

		body, err := encodeRecords(records)
		if err != nil {
			return league.League{}, fmt.Errorf("encode league document %q: %w", r.key, err)
		}

		_, err = r.store.Put(ctx, r.key, body, version)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, docstore.ErrVersionConflict) {
			return league.League{}, fmt.Errorf("write league document %q: %w", r.key, err)
		}

		r.logger.DebugContext(ctx, "league document changed during create, retrying",
			"key", r.key,
			"attempt", attempt,
		)
	}

	return league.League{}, fmt.Errorf("create league after %d attempts: %w", r.maxRetries, league.ErrConflict)
}

// load reads the collection and its version. An absent document is an
// empty collection with an empty version.
func (r *LeagueRepository) load(ctx context.Context) ([]leagueRecord, string, error) {
	doc, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, "", fmt.Errorf("read league document %q: %w", r.key, err)
	}
	if !found {
		return []leagueRecord{}, "", nil
	}

	var records []leagueRecord
	if err := sonic.Unmarshal(doc.Body, &records); err != nil {
		return nil, "", fmt.Errorf("decode league document %q: %w", r.key, err)
	}
	if records == nil {
		records = []leagueRecord{}
	}
	return records, doc.Version, nil
}

// nextRecordID returns one past the highest numeric id in records.
func nextRecordID(records []leagueRecord) (int64, error) {
	var maxID int64
	for _, rec := range records {
		v, err := strconv.ParseInt(rec.ID, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric league id %q", rec.ID)
		}
		if v > maxID {
			maxID = v
		}
	}
	return maxID + 1, nil
}

func encodeRecords(records []leagueRecord) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigStd.NewEncoder(buf).Encode(records); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.Bytes()...), nil
}
