package database

import (
	"context"
	"sync"
)

type txKey struct{}

// TxInfo holds the transaction in context and whether the holder owns it.
type TxInfo struct {
	Tx    Transaction
	Owned bool

	hooks *commitHooks
}

// commitHooks collects callbacks for one transaction, shared by nested units.
type commitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

func (h *commitHooks) add(fn func(context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

func (h *commitHooks) take() []func(context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fns := h.fns
	h.fns = nil
	return fns
}

// WithTx stores transaction info in the context.
func WithTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	return withTxInfo(ctx, TxInfo{Tx: tx, Owned: owned, hooks: &commitHooks{}})
}

func withTxInfo(ctx context.Context, info TxInfo) context.Context {
	return context.WithValue(ctx, txKey{}, info)
}

// TxInfoFromContext extracts transaction info from the context.
func TxInfoFromContext(ctx context.Context) (TxInfo, bool) {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return TxInfo{}, false
	}
	return info, true
}

// AfterCommit schedules fn to run once the transaction in ctx commits.
// Rolled back transactions drop their callbacks. It reports false when ctx
// carries no transaction, in which case fn is not scheduled.
func AfterCommit(ctx context.Context, fn func(context.Context)) bool {
	info, ok := TxInfoFromContext(ctx)
	if !ok || info.hooks == nil {
		return false
	}
	info.hooks.add(fn)
	return true
}

// ExecutorFromContext returns the transaction if present, otherwise the connection.
// Repositories call this on every query so they join a unit of work transparently.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if info, ok := TxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return conn
}
