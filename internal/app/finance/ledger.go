package finance

import (
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
	"github.com/sparfuchs-app/sparfuchs/internal/infra/metrics"
)

// tempPrefix marks locally assigned identifiers awaiting reconciliation.
const tempPrefix = "tmp-"

// Ledger holds the in-memory transaction snapshot and schedules the
// persistence writes behind it.
//
// Mutations are optimistic: a new transaction appears in the snapshot
// immediately under a temporary identifier, and the store write follows
// asynchronously through a single writer goroutine. The queue serializes
// writes in mutation order, so the final persisted state matches the
// final local state even when a user edits faster than the store
// completes. A failed write is logged and counted; the optimistic state
// stands until a later successful write corrects it.
type Ledger struct {
	store domain.Store

	mu  sync.Mutex
	txs []domain.Transaction
	ids map[string]string // temp id → store id, once reconciled

	ops    chan func()
	closed chan struct{}
}

// NewLedger loads the persisted transactions and starts the writer.
func NewLedger(store domain.Store) (*Ledger, error) {
	txs, err := store.ListTransactions()
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		store:  store,
		txs:    txs,
		ids:    make(map[string]string),
		ops:    make(chan func(), 64),
		closed: make(chan struct{}),
	}
	go l.run()
	return l, nil
}

func (l *Ledger) run() {
	for op := range l.ops {
		op()
	}
	close(l.closed)
}

// Close drains the write queue and stops the writer.
func (l *Ledger) Close() {
	close(l.ops)
	<-l.closed
}

// Flush blocks until every queued write has completed. Test hook and
// shutdown aid; the UI path never waits on it.
func (l *Ledger) Flush() {
	done := make(chan struct{})
	l.ops <- func() { close(done) }
	<-done
}

// Transactions returns a copy of the current snapshot.
func (l *Ledger) Transactions() []domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// Add appends a transaction optimistically and schedules its write.
// The returned transaction carries the temporary identifier; the
// snapshot is reconciled with the durable identifier once the write
// lands.
func (l *Ledger) Add(t domain.Transaction) domain.Transaction {
	tempID := tempPrefix + uuid.NewString()
	t.ID = tempID

	l.mu.Lock()
	l.txs = append(l.txs, t)
	l.mu.Unlock()

	l.ops <- func() {
		stored := t
		stored.ID = uuid.NewString()
		if err := l.store.InsertTransaction(stored); err != nil {
			log.Printf("[ledger] insert transaction: %v", err)
			metrics.PersistFailures.WithLabelValues("ledger").Inc()
			return
		}
		l.reconcile(tempID, stored.ID)
		metrics.LedgerWrites.WithLabelValues("insert").Inc()
	}
	return t
}

// Update replaces a transaction in the snapshot (last write wins) and
// schedules the persistence write. Updates against a still-temporary
// identifier are resolved to the durable one at write time, which is
// why the queue keeps mutation order.
func (l *Ledger) Update(t domain.Transaction) error {
	l.mu.Lock()
	found := false
	for i := range l.txs {
		if l.txs[i].ID == t.ID {
			l.txs[i] = t
			found = true
			break
		}
	}
	l.mu.Unlock()
	if !found {
		return domain.ErrTransactionNotFound
	}

	l.ops <- func() {
		stored := t
		stored.ID = l.resolveID(t.ID)
		if strings.HasPrefix(stored.ID, tempPrefix) {
			// Insert never landed; nothing durable to update.
			return
		}
		if err := l.store.UpdateTransaction(stored); err != nil {
			log.Printf("[ledger] update transaction: %v", err)
			metrics.PersistFailures.WithLabelValues("ledger").Inc()
			return
		}
		metrics.LedgerWrites.WithLabelValues("update").Inc()
	}
	return nil
}

// Delete removes a transaction from the snapshot and schedules the
// persistence delete.
func (l *Ledger) Delete(id string) error {
	l.mu.Lock()
	found := false
	for i := range l.txs {
		if l.txs[i].ID == id {
			l.txs = append(l.txs[:i], l.txs[i+1:]...)
			found = true
			break
		}
	}
	l.mu.Unlock()
	if !found {
		return domain.ErrTransactionNotFound
	}

	l.ops <- func() {
		storeID := l.resolveID(id)
		if strings.HasPrefix(storeID, tempPrefix) {
			return
		}
		if err := l.store.DeleteTransaction(storeID); err != nil {
			log.Printf("[ledger] delete transaction: %v", err)
			metrics.PersistFailures.WithLabelValues("ledger").Inc()
			return
		}
		metrics.LedgerWrites.WithLabelValues("delete").Inc()
	}
	return nil
}

// reconcile swaps the temporary identifier for the durable one in the
// snapshot. If the entry was deleted meanwhile, only the mapping is kept
// so the queued delete can reach the durable row.
func (l *Ledger) reconcile(tempID, storeID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids[tempID] = storeID
	for i := range l.txs {
		if l.txs[i].ID == tempID {
			l.txs[i].ID = storeID
			break
		}
	}
}

func (l *Ledger) resolveID(id string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if storeID, ok := l.ids[id]; ok {
		return storeID
	}
	return id
}
