/*
Package trading implements the entry workflows over the books engine.

PURPOSE:
  The Service is the single logical actor of the system. It validates
  operator input, prices line items, issues ids and invoice codes,
  persists the mutated collection, and then runs the reconciliation
  sequence that keeps derived state honest.

CONTROL FLOW:
  Every create/update/delete of a purchase or sale triggers, in order:
    1. persist the mutated record collection
    2. rebuild the stock snapshot from the full purchase+sale history
    3. rebuild the ledger from the full history, preserving manual rows
    4. mirror all four collections to the remote store
  Stock and ledger are derived, never incrementally patched. Mirror
  pushes are fire-and-forget; failures never reach the caller.

CONCURRENCY:
  Operations are synchronous and assume a single logical actor. The
  service serializes its own mutations with a mutex so the HTTP surface
  cannot interleave a history read with another mutation's write-back.

SEE ALSO:
  - books:  the pure reconciliation engine
  - render: receipt/bill artifacts
*/
package trading

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgerline/tradebook/books"
	"github.com/ledgerline/tradebook/render"
)

// Service owns the entry workflows for purchases, sales and the ledger.
type Service struct {
	repo   books.Repository
	mirror books.Mirror
	log    zerolog.Logger
	now    func() time.Time

	receiptsDir string
	billsDir    string

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithArtifactDirs sets where receipts and bills are written.
func WithArtifactDirs(receipts, bills string) Option {
	return func(s *Service) {
		s.receiptsDir = receipts
		s.billsDir = bills
	}
}

// New creates a Service. A nil mirror disables remote mirroring.
func New(repo books.Repository, mirror books.Mirror, log zerolog.Logger, opts ...Option) *Service {
	if mirror == nil {
		mirror = books.NopMirror{}
	}
	s := &Service{
		repo:        repo,
		mirror:      mirror,
		log:         log,
		now:         time.Now,
		receiptsDir: "receipts",
		billsDir:    "bills",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// TRADE RECORD WORKFLOWS
// =============================================================================

// ListRecords returns the full collection for a kind.
func (s *Service) ListRecords(ctx context.Context, kind books.Kind) ([]books.TradeRecord, error) {
	return s.loadKind(ctx, kind)
}

// GetRecord returns one record by id, or ErrNotFound.
func (s *Service) GetRecord(ctx context.Context, kind books.Kind, id int) (books.TradeRecord, error) {
	records, err := s.loadKind(ctx, kind)
	if err != nil {
		return books.TradeRecord{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return books.TradeRecord{}, books.ErrNotFound
}

// AddRecord creates a purchase or sale from operator input. Validation
// happens before any state is written; id and invoice are issued from
// one read of the collection.
func (s *Service) AddRecord(ctx context.Context, kind books.Kind, input RecordInput) (books.TradeRecord, error) {
	if err := input.validate(); err != nil {
		return books.TradeRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadKind(ctx, kind)
	if err != nil {
		return books.TradeRecord{}, err
	}

	now := s.now()
	id, invoice := books.Issue(kind, records, now)

	rec := input.toRecord()
	rec.ID = id
	rec.Invoice = invoice
	rec.Date = now.Format(books.DateLayout)

	records = append(records, rec)
	if err := s.saveKind(ctx, kind, records); err != nil {
		return books.TradeRecord{}, err
	}

	s.log.Info().Str("kind", string(kind)).Int("id", id).Str("invoice", invoice).
		Str("party", rec.Party).Msg("record created")
	s.reconcile(ctx)
	return rec, nil
}

// UpdateRecord replaces a record's party details, line items and
// totals in place. Id, invoice and date are kept.
func (s *Service) UpdateRecord(ctx context.Context, kind books.Kind, id int, input RecordInput) (books.TradeRecord, error) {
	if err := input.validate(); err != nil {
		return books.TradeRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadKind(ctx, kind)
	if err != nil {
		return books.TradeRecord{}, err
	}

	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return books.TradeRecord{}, books.ErrNotFound
	}

	updated := input.toRecord()
	updated.ID = records[idx].ID
	updated.Invoice = records[idx].Invoice
	updated.Date = records[idx].Date
	records[idx] = updated

	if err := s.saveKind(ctx, kind, records); err != nil {
		return books.TradeRecord{}, err
	}

	s.log.Info().Str("kind", string(kind)).Int("id", id).Msg("record updated")
	s.reconcile(ctx)
	return updated, nil
}

// DeleteRecord permanently removes a record. There is no soft delete
// and no versioning. Stock drops the record's quantities on the
// reconciliation pass that follows; the ledger does not shrink — the
// invoice's already-seeded auto-row stays behind as a historical row.
func (s *Service) DeleteRecord(ctx context.Context, kind books.Kind, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadKind(ctx, kind)
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for _, r := range records {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return books.ErrNotFound
	}

	if err := s.saveKind(ctx, kind, kept); err != nil {
		return err
	}

	s.log.Info().Str("kind", string(kind)).Int("id", id).Msg("record deleted")
	s.reconcile(ctx)
	return nil
}

// =============================================================================
// DERIVED STATE
// =============================================================================

// Stock returns the persisted stock snapshot.
func (s *Service) Stock(ctx context.Context) ([]books.StockEntry, error) {
	return s.repo.LoadStock(ctx)
}

// ExportStockCSV writes the persisted stock snapshot as CSV.
func (s *Service) ExportStockCSV(ctx context.Context, w io.Writer) error {
	stock, err := s.repo.LoadStock(ctx)
	if err != nil {
		return err
	}
	return render.StockCSV(w, stock)
}

// Dashboard derives the four top-line aggregates from persisted
// collections. It never triggers reconciliation.
func (s *Service) Dashboard(ctx context.Context) (books.DashboardSummary, error) {
	purchases, err := s.repo.LoadPurchases(ctx)
	if err != nil {
		return books.DashboardSummary{}, err
	}
	sales, err := s.repo.LoadSales(ctx)
	if err != nil {
		return books.DashboardSummary{}, err
	}
	stock, err := s.repo.LoadStock(ctx)
	if err != nil {
		return books.DashboardSummary{}, err
	}
	return books.Summarize(purchases, sales, stock), nil
}

// Rebuild forces a full reconciliation pass. Run at startup so derived
// state reflects any history edited outside the application.
func (s *Service) Rebuild(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcile(ctx)
}

// reconcile rebuilds stock and ledger from the full history, persists
// both, and mirrors all four collections. Callers hold s.mu.
func (s *Service) reconcile(ctx context.Context) {
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()

	purchases, err := s.repo.LoadPurchases(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile: load purchases")
		return
	}
	sales, err := s.repo.LoadSales(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile: load sales")
		return
	}

	stock := books.ComputeStock(purchases, sales)
	if err := s.repo.SaveStock(ctx, stock); err != nil {
		log.Error().Err(err).Msg("reconcile: save stock")
	}

	previous, err := s.repo.LoadLedger(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile: load ledger")
		previous = books.Ledger{}
	}
	ledger := books.RecomputeLedger(purchases, sales, previous)
	if err := s.repo.SaveLedger(ctx, ledger); err != nil {
		log.Error().Err(err).Msg("reconcile: save ledger")
	}

	s.mirror.Push(ctx, books.CollectionPurchases, purchases)
	s.mirror.Push(ctx, books.CollectionSales, sales)
	s.mirror.Push(ctx, books.CollectionStock, stock)
	s.mirror.Push(ctx, books.CollectionLedger, ledger)

	log.Debug().Int("products", len(stock)).Int("parties", len(ledger)).Msg("reconciled")
}

// =============================================================================
// LEDGER WORKFLOWS
// =============================================================================

// Parties returns all party names in the ledger, sorted.
func (s *Service) Parties(ctx context.Context) ([]string, error) {
	ledger, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return nil, err
	}
	parties := make([]string, 0, len(ledger))
	for party := range ledger {
		parties = append(parties, party)
	}
	sort.Strings(parties)
	return parties, nil
}

// PartyLedger returns one party's account, or ErrUnknownParty.
func (s *Service) PartyLedger(ctx context.Context, party string) (*books.PartyAccount, error) {
	ledger, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return nil, err
	}
	acct, ok := ledger[party]
	if !ok {
		return nil, books.ErrUnknownParty
	}
	return acct, nil
}

// AddLedgerEntry appends a manual row to a party's ledger. The new
// row's remaining is the previous row's balance less whichever of
// credit or debit was entered; type and invoice default from the last
// row so a manual payment lines up under the invoice it settles.
// Manual rows survive every later reconciliation pass.
func (s *Service) AddLedgerEntry(ctx context.Context, party string, input LedgerEntryInput) (books.PartyTransaction, error) {
	if strings.TrimSpace(party) == "" {
		return books.PartyTransaction{}, books.ErrMissingParty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return books.PartyTransaction{}, err
	}
	acct, ok := ledger[party]
	if !ok {
		acct = &books.PartyAccount{}
		ledger[party] = acct
	}

	var last *books.PartyTransaction
	if n := len(acct.Transactions); n > 0 {
		last = &acct.Transactions[n-1]
	}

	prev := acct.LastAmount
	if last != nil {
		if last.Remaining != "" {
			prev, _ = last.Remaining.Decimal()
		} else {
			prev, _ = last.Amount.Decimal()
		}
	}

	credit, _ := input.Credit.Decimal()
	debit, _ := input.Debit.Decimal()
	remaining := prev
	if credit.IsPositive() {
		remaining = prev.Sub(credit)
	} else if debit.IsPositive() {
		remaining = prev.Sub(debit)
	}

	row := books.PartyTransaction{
		Date:      s.now().Format(books.DateLayout),
		Type:      input.Type,
		Invoice:   input.Invoice,
		Credit:    input.Credit,
		Debit:     input.Debit,
		Remaining: books.Loose(remaining),
		Amount:    books.Loose(prev),
	}
	if row.Type == "" && last != nil {
		row.Type = last.Type
	}
	if row.Invoice == "" && last != nil {
		row.Invoice = last.Invoice
	}

	acct.Transactions = append(acct.Transactions, row)
	acct.LastAmount = remaining.RoundBank(2)

	if err := s.repo.SaveLedger(ctx, ledger); err != nil {
		return books.PartyTransaction{}, err
	}
	s.mirror.Push(ctx, books.CollectionLedger, ledger)

	s.log.Info().Str("party", party).Str("type", row.Type).Msg("manual ledger row added")
	return row, nil
}

// DeleteLedgerEntry removes one row from a party's ledger by position.
// Deleting an auto-row is possible but pointless: the next
// reconciliation regenerates it from its invoice.
func (s *Service) DeleteLedgerEntry(ctx context.Context, party string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return err
	}
	acct, ok := ledger[party]
	if !ok {
		return books.ErrUnknownParty
	}
	if index < 0 || index >= len(acct.Transactions) {
		return books.ErrNotFound
	}

	acct.Transactions = append(acct.Transactions[:index], acct.Transactions[index+1:]...)

	if err := s.repo.SaveLedger(ctx, ledger); err != nil {
		return err
	}
	s.mirror.Push(ctx, books.CollectionLedger, ledger)

	s.log.Info().Str("party", party).Int("index", index).Msg("ledger row deleted")
	return nil
}

// =============================================================================
// ARTIFACTS
// =============================================================================

// SaveReceipt writes the plain-text receipt for a record and returns
// the artifact path.
func (s *Service) SaveReceipt(ctx context.Context, kind books.Kind, id int) (string, error) {
	rec, err := s.GetRecord(ctx, kind, id)
	if err != nil {
		return "", err
	}
	return render.SaveReceipt(s.receiptsDir, &rec, kind)
}

// SaveBill writes the invoice workbook for a record and returns the
// artifact path.
func (s *Service) SaveBill(ctx context.Context, kind books.Kind, id int) (string, error) {
	rec, err := s.GetRecord(ctx, kind, id)
	if err != nil {
		return "", err
	}
	return render.SaveBill(s.billsDir, &rec, kind)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Service) loadKind(ctx context.Context, kind books.Kind) ([]books.TradeRecord, error) {
	if kind == books.KindSale {
		return s.repo.LoadSales(ctx)
	}
	return s.repo.LoadPurchases(ctx)
}

func (s *Service) saveKind(ctx context.Context, kind books.Kind, records []books.TradeRecord) error {
	if kind == books.KindSale {
		return s.repo.SaveSales(ctx, records)
	}
	return s.repo.SavePurchases(ctx, records)
}
