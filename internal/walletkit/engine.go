package walletkit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/pkg/resilience/retry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Engine is the chain-specific backend of a manager. Connect, Disconnect and
// Sync return once the request is accepted; progress is reported through the
// manager. Submit broadcasts asynchronously.
type Engine interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Sync(ctx context.Context, depth SyncDepth) error
	Submit(ctx context.Context, w *Wallet, t *Transfer, serialization []byte)

	// Close stops every goroutine of the engine and waits for them.
	Close()
}

// ClientRequestMode selects which client query an engine syncs with.
type ClientRequestMode uint8

const (
	// RequestTransactions syncs raw transactions (UTXO chains).
	RequestTransactions ClientRequestMode = iota

	// RequestTransfers syncs transfer bundles (account and plugin chains).
	RequestTransfers
)

const (
	defaultSyncPeriod     = 15 * time.Second
	defaultBlockChunkSize = 5_000
	defaultSubmitTimeout  = 30 * time.Second
)

type engineConfig struct {
	period        time.Duration
	chunkSize     uint64
	submitTimeout time.Duration
	retry         retry.Retry
}

// EngineOption configures a ClientEngine.
type EngineOption func(*engineConfig)

// WithSyncPeriod sets how often the engine polls the chain tip.
func WithSyncPeriod(d time.Duration) EngineOption {
	return func(c *engineConfig) {
		c.period = d
	}
}

// WithBlockChunkSize sets how many blocks a single client query may span.
func WithBlockChunkSize(n uint64) EngineOption {
	return func(c *engineConfig) {
		c.chunkSize = n
	}
}

// WithSubmitTimeout bounds a single broadcast.
func WithSubmitTimeout(d time.Duration) EngineOption {
	return func(c *engineConfig) {
		c.submitTimeout = d
	}
}

// WithRetry retries failed client queries.
func WithRetry(r retry.Retry) EngineOption {
	return func(c *engineConfig) {
		c.retry = r
	}
}

// ClientEngine is the API sync engine shared by every chain family. It polls
// the client for the chain tip, queries checkpointed block ranges for the
// account's addresses and hands the results to the manager.
type ClientEngine struct {
	manager *WalletManager // not retained; the manager closes the engine on release
	mode    ClientRequestMode
	cfg     engineConfig

	mu        sync.Mutex
	isStarted bool
	closeFunc func()
	rescan    chan SyncDepth
	done      chan struct{}
	reachable bool

	// lastSynced is the checkpoint when no CheckpointStore is configured.
	lastSynced uint64
}

var _ Engine = (*ClientEngine)(nil)

// NewClientEngine returns an idle engine for m configured with
// m.EngineOptions().
func NewClientEngine(m *WalletManager, mode ClientRequestMode) *ClientEngine {
	cfg := engineConfig{
		period:        defaultSyncPeriod,
		chunkSize:     defaultBlockChunkSize,
		submitTimeout: defaultSubmitTimeout,
		retry:         retry.New(retry.WithAttempts(1)),
	}
	for _, opt := range m.EngineOptions() {
		opt(&cfg)
	}

	return &ClientEngine{
		manager:   m,
		mode:      mode,
		cfg:       cfg,
		reachable: true,
	}
}

// Connect starts the sync loop. The first pass starts immediately.
func (e *ClientEngine) Connect(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isStarted {
		return nil
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e.rescan = make(chan SyncDepth, 1)
	e.done = make(chan struct{})
	e.closeFunc = cancel
	e.isStarted = true

	e.manager.setState(ManagerState{Type: ManagerStateConnected})

	// The loop borrows the manager: its release closes the engine.
	go e.run(ctx, e.rescan, e.done)
	return nil
}

// Disconnect cancels the sync loop and waits for it to stop or for ctx.
func (e *ClientEngine) Disconnect(ctx context.Context) error {
	done, stopped := e.stop()
	if !stopped {
		return nil
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	e.manager.setState(DisconnectedBecause(nil))
	return nil
}

func (e *ClientEngine) stop() (<-chan struct{}, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isStarted {
		return nil, false
	}

	e.closeFunc()
	e.isStarted = false
	e.closeFunc = nil
	return e.done, true
}

// Sync queues a rescan, replacing one still queued.
func (e *ClientEngine) Sync(ctx context.Context, depth SyncDepth) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isStarted {
		return ErrManagerNotConnected
	}

	select {
	case e.rescan <- depth:
	case <-e.rescan:
		e.rescan <- depth
	}
	return nil
}

// Submit broadcasts serialization on its own goroutine. It is not retried:
// a broadcast that timed out may still have reached the network.
func (e *ClientEngine) Submit(ctx context.Context, w *Wallet, t *Transfer, serialization []byte) {
	m, w, t := e.manager.Take(), w.Take(), t.Take()

	go func() {
		defer m.Give()
		defer w.Give()
		defer t.Give()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.submitTimeout)
		defer cancel()

		hash, err := m.client.SubmitTransaction(ctx, m.network, t.UIDS(), serialization)
		if err == nil {
			logger.Info(ctx, "transfer submitted", "transfer.uids", t.UIDS(), "transfer.hash", hash)
		}
		m.completeSubmit(ctx, w, t, err)
	}()
}

// Close stops the sync loop and waits for it.
func (e *ClientEngine) Close() {
	if done, stopped := e.stop(); stopped {
		<-done
	}
}

func (e *ClientEngine) run(ctx context.Context, rescan <-chan SyncDepth, done chan<- struct{}) {
	defer close(done)

	ctx = logger.Derive(ctx, "network", e.manager.network.UIDS())

	ticker := time.NewTicker(e.cfg.period)
	defer ticker.Stop()

	e.pass(ctx, SyncDepthFromLastTrustedBlock)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.pass(ctx, SyncDepthFromLastTrustedBlock)
		case depth := <-rescan:
			e.pass(ctx, depth)
		}
	}
}

// pass runs one sync pass: refresh the tip, then query every block range
// from the depth's start to the tip, checkpointing after each range.
func (e *ClientEngine) pass(ctx context.Context, depth SyncDepth) {
	m := e.manager

	ctx, span := tracer.Start(ctx, "walletkit.SyncPass", trace.WithAttributes(
		attribute.String("network", m.network.UIDS()),
		attribute.String("depth", depth.String()),
	))
	defer span.End()

	var (
		height uint64
		hash   string
	)
	err := e.cfg.retry.Execute(ctx, func() (err error) {
		height, hash, err = m.client.GetBlockNumber(ctx, m.network)
		return err
	})
	if ctx.Err() != nil {
		return
	}

	e.setReachable(err == nil)
	if err != nil {
		logger.Warn(ctx, "failed to fetch block number", "error", err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	if m.network.setVerifiedBlock(height, hash) {
		m.dispatcher.announceNetwork(m.network, NetworkEvent{Type: NetworkEventHeightUpdated, Height: height})
	}

	begin := e.startBlock(ctx, depth)
	end := height + 1
	if begin >= end {
		return
	}

	span.SetAttributes(attribute.Int64("begin", int64(begin)), attribute.Int64("end", int64(end)))
	m.setState(ManagerState{Type: ManagerStateSyncing})
	defer func() {
		if ctx.Err() == nil {
			m.setState(ManagerState{Type: ManagerStateConnected})
		}
	}()

	addresses := m.account.Addresses(m.typ)
	for b := begin; b < end; b += e.cfg.chunkSize {
		e2 := min(b+e.cfg.chunkSize, end)

		if err := e.syncRange(ctx, addresses, b, e2); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn(ctx, "failed to sync block range", "begin", b, "end", e2, "error", err)
			span.SetStatus(codes.Error, err.Error())
			m.dispatcher.announceManager(m, ManagerEvent{Type: ManagerEventSyncRecommended, SyncDepth: SyncDepthFromLastTrustedBlock})
			return
		}

		e.saveCheckpoint(ctx, e2-1)
		m.dispatcher.announceManager(m, ManagerEvent{
			Type: ManagerEventSyncProgress,
			SyncProgress: SyncProgress{
				Timestamp:       time.Now(),
				PercentComplete: 100 * float64(e2-begin) / float64(end-begin),
			},
		})
	}
}

func (e *ClientEngine) syncRange(ctx context.Context, addresses []string, begin, end uint64) error {
	m := e.manager

	switch e.mode {
	case RequestTransactions:
		var bundles []TransactionBundle
		err := e.cfg.retry.Execute(ctx, func() (err error) {
			bundles, err = m.client.GetTransactions(ctx, m.network, addresses, begin, end)
			return err
		})
		if err != nil {
			return err
		}
		m.RecoverTransactionBundles(ctx, bundles)

	case RequestTransfers:
		var bundles []TransferBundle
		err := e.cfg.retry.Execute(ctx, func() (err error) {
			bundles, err = m.client.GetTransfers(ctx, m.network, addresses, begin, end)
			return err
		})
		if err != nil {
			return err
		}
		m.RecoverTransferBundles(ctx, bundles)
	}

	return nil
}

// startBlock resolves depth into the first block to query.
func (e *ClientEngine) startBlock(ctx context.Context, depth SyncDepth) uint64 {
	m := e.manager
	earliest := m.network.EarliestBlock()

	if depth == SyncDepthFromCreation {
		return earliest
	}

	trusted := earliest
	if last, ok := e.loadCheckpoint(ctx); ok {
		// Re-query blocks that may still reorg.
		trusted = max(earliest, last+1-min(last+1, uint64(m.network.ConfirmationsUntilFinal())))
	}

	if depth == SyncDepthFromLastConfirmedSend {
		if block, ok := e.lastConfirmedSend(); ok {
			return max(earliest, min(block, trusted))
		}
	}
	return trusted
}

// lastConfirmedSend finds the highest block holding an included SENT transfer.
func (e *ClientEngine) lastConfirmedSend() (uint64, bool) {
	var (
		block uint64
		found bool
	)

	for _, w := range e.manager.Wallets() {
		for _, t := range w.Transfers() {
			if inc, ok := t.State().Included(); ok && t.Direction() == DirectionSent {
				block = max(block, inc.BlockNumber)
				found = true
			}
			t.Give()
		}
		w.Give()
	}
	return block, found
}

func (e *ClientEngine) loadCheckpoint(ctx context.Context) (uint64, bool) {
	m := e.manager
	if m.checkpoints == nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.lastSynced, e.lastSynced != 0
	}

	height, err := m.checkpoints.LoadLatestCheckpoint(ctx, m.StorageKey())
	if err != nil {
		if !errors.Is(err, ErrNoCheckpointFound) {
			logger.Warn(ctx, "failed to load checkpoint", "error", err)
		}
		return 0, false
	}
	return height, true
}

func (e *ClientEngine) saveCheckpoint(ctx context.Context, height uint64) {
	m := e.manager
	if m.checkpoints == nil {
		e.mu.Lock()
		e.lastSynced = height
		e.mu.Unlock()
		return
	}

	if err := m.checkpoints.SaveCheckpoint(ctx, m.StorageKey(), height); err != nil {
		logger.Warn(ctx, "failed to save checkpoint", "height", height, "error", err)
	}
}

// setReachable announces CONNECTIVITY_CHANGED on transitions.
func (e *ClientEngine) setReachable(reachable bool) {
	e.mu.Lock()
	changed := e.reachable != reachable
	e.reachable = reachable
	e.mu.Unlock()

	if changed {
		m := e.manager
		m.dispatcher.announceNetwork(m.network, NetworkEvent{Type: NetworkEventConnectivityChanged, Reachable: reachable})
	}
}
