// Package session owns the in-memory snapshot of the reconciled ledger: the
// full transaction set, savings activity, and brokerage positions. A reload
// replaces the snapshot wholesale, with no incremental merge, and
// re-applies every stored category override before any aggregation can see
// the data. The override store is the only structure mutated incrementally.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/clearspend-dev/clearspend/internal/config"
	"github.com/clearspend-dev/clearspend/internal/identity"
	"github.com/clearspend-dev/clearspend/internal/importer"
	"github.com/clearspend-dev/clearspend/internal/log"
	"github.com/clearspend-dev/clearspend/internal/model"
	"github.com/clearspend-dev/clearspend/internal/normalize"
	"github.com/clearspend-dev/clearspend/internal/reclass"
	"github.com/clearspend-dev/clearspend/internal/transfer"
)

// ErrNoData is returned when no recognized source file yielded any rows.
// This is the only ingestion condition that blocks rendering entirely.
var ErrNoData = errors.New("no transactions found in any source file")

// Sources lists the files for one reload cycle. Each file is self-contained;
// parsing order does not matter.
type Sources struct {
	Checking  []string
	Credit    []string
	Savings   []string
	Positions []string // only the most recent snapshot is kept
}

// FromScan builds Sources from a directory scan.
func FromScan(files []importer.FileInfo) Sources {
	var src Sources
	for _, f := range files {
		switch f.Kind {
		case importer.KindChecking:
			src.Checking = append(src.Checking, f.Path)
		case importer.KindCredit:
			src.Credit = append(src.Credit, f.Path)
		case importer.KindSavings:
			src.Savings = append(src.Savings, f.Path)
		}
	}
	if latest, ok := importer.LatestPositions(files); ok {
		src.Positions = []string{latest.Path}
	}
	return src
}

// Session holds one user's reconciled ledger state.
type Session struct {
	cfg        *config.Config
	store      reclass.Store
	logger     *log.Logger
	datePolicy normalize.DatePolicy
	auditPath  string

	mu         sync.RWMutex
	generation uuid.UUID // newest started reload; only it may commit
	txs        []model.Transaction
	savings    []model.SavingsActivity
	positions  []model.Position
}

// Option configures a Session.
type Option func(*Session)

// WithDatePolicy sets the date-parse failure policy for normalization.
func WithDatePolicy(p normalize.DatePolicy) Option {
	return func(s *Session) { s.datePolicy = p }
}

// WithAuditLog enables the reclassification audit log at path.
func WithAuditLog(path string) Option {
	return func(s *Session) { s.auditPath = path }
}

// New creates a Session over a validated config and an override store.
func New(cfg *config.Config, store reclass.Store, logger *log.Logger, opts ...Option) *Session {
	s := &Session{
		cfg:        cfg,
		store:      store,
		logger:     logger,
		datePolicy: normalize.PolicyExcludeDate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload parses all source files (in parallel; each file is independent),
// then runs normalization, transfer detection, and override application over
// the complete combined set, strictly after every fetch has finished.
// The assembled snapshot replaces the session state. A reload started later
// supersedes this one: if another Reload begins before this one commits, this
// one's results are discarded (last-reload-wins).
func (s *Session) Reload(ctx context.Context, src Sources) error {
	gen := s.beginReload()

	s.logger.Info("reload started",
		log.FieldGeneration, gen.String(),
		log.FieldCount, len(src.Checking)+len(src.Credit)+len(src.Savings)+len(src.Positions))

	// Each statement file gets a fixed slot so the combined set always comes
	// out in the same order (checking files first, then credit) no matter
	// which goroutine finishes when. Transfer tie-breaks depend on set order,
	// so a shuffled concatenation would pair differently across reloads.
	type statementJob struct {
		path        string
		accountType model.AccountType
	}
	var jobs []statementJob
	for _, path := range src.Checking {
		jobs = append(jobs, statementJob{path: path, accountType: model.AccountDebit})
	}
	for _, path := range src.Credit {
		jobs = append(jobs, statementJob{path: path, accountType: model.AccountCredit})
	}

	var (
		parsed        = make([][]model.Transaction, len(jobs))
		savingsParsed = make([][]model.SavingsActivity, len(src.Savings))
		positions     []model.Position
	)

	g, ctx := errgroup.WithContext(ctx)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			p := &importer.StatementParser{AccountType: job.accountType, DatePolicy: s.datePolicy}
			txs, err := p.ParseFile(job.path)
			if err != nil {
				return err
			}
			parsed[i] = txs
			return ctx.Err()
		})
	}

	for i, path := range src.Savings {
		i, path := i, path
		g.Go(func() error {
			p := &importer.SavingsParser{DatePolicy: s.datePolicy}
			activity, err := p.ParseFile(path)
			if err != nil {
				return err
			}
			savingsParsed[i] = activity
			return nil
		})
	}

	if latest, ok := latestOf(src.Positions); ok {
		g.Go(func() error {
			p := &importer.PositionsParser{}
			positionRows, err := p.ParseFile(latest)
			if err != nil {
				return err
			}
			positions = positionRows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	var txs []model.Transaction
	for _, p := range parsed {
		txs = append(txs, p...)
	}
	var savings []model.SavingsActivity
	for _, sa := range savingsParsed {
		savings = append(savings, sa...)
	}

	if len(txs) == 0 && len(savings) == 0 && len(positions) == 0 {
		return ErrNoData
	}

	// Transfer detection and override application run over the complete set;
	// a partial set would mis-pair transfers.
	txs = transfer.Detect(txs)

	overrides, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("reload: loading overrides: %w", err)
	}
	txs = reclass.Apply(txs, overrides)

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})

	if !s.commit(gen, txs, savings, positions) {
		s.logger.Info("reload superseded", log.FieldGeneration, gen.String())
		return nil
	}

	s.logger.Info("reload complete",
		log.FieldGeneration, gen.String(),
		log.FieldCount, len(txs))
	return nil
}

// beginReload stamps a new generation. Only the reload holding the newest
// generation may commit.
func (s *Session) beginReload() uuid.UUID {
	gen := uuid.New()
	s.mu.Lock()
	s.generation = gen
	s.mu.Unlock()
	return gen
}

// commit installs the assembled snapshot, or reports false when a newer
// reload has started since gen was stamped.
func (s *Session) commit(gen uuid.UUID, txs []model.Transaction, savings []model.SavingsActivity, positions []model.Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.txs = txs
	s.savings = savings
	s.positions = positions
	return true
}

// SetOverride records a category override, applies it to the current
// snapshot, and appends an audit entry. The write is atomic relative to reads
// of the current snapshot.
func (s *Session) SetOverride(ctx context.Context, key identity.Key, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := ""
	for i := range s.txs {
		if identity.ForTransaction(s.txs[i]) == key {
			from = s.txs[i].Category
			break
		}
	}

	if err := s.store.Set(ctx, key, category); err != nil {
		return fmt.Errorf("setting override: %w", err)
	}

	for i := range s.txs {
		if identity.ForTransaction(s.txs[i]) == key {
			s.txs[i].Category = category
		}
	}

	if s.auditPath != "" {
		entry := reclass.AuditEntry{
			Timestamp:    time.Now().UTC(),
			Key:          key,
			FromCategory: from,
			ToCategory:   category,
		}
		if err := reclass.AppendAudit(s.auditPath, []reclass.AuditEntry{entry}); err != nil {
			// The override itself is persisted; a failed audit append is
			// logged, not fatal.
			s.logger.Warn("audit append failed", log.FieldError, err.Error())
		}
	}
	return nil
}

// Config returns the session's configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

func latestOf(paths []string) (string, bool) {
	if len(paths) == 0 {
		return "", false
	}
	latest := paths[0]
	for _, p := range paths[1:] {
		if p > latest {
			latest = p
		}
	}
	return latest, true
}
