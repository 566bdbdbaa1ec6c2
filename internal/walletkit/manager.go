package walletkit

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"syscall"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/pkg/refcount"
	"github.com/gabapcia/walletkit/internal/pkg/validator"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/gabapcia/walletkit/internal/walletkit")

// ManagerStateType enumerates the wallet manager's connection lifecycle:
// CREATED → CONNECTED ⇄ SYNCING → DISCONNECTED, and DELETED from anywhere.
type ManagerStateType uint8

const (
	ManagerStateCreated ManagerStateType = iota
	ManagerStateConnected
	ManagerStateSyncing
	ManagerStateDisconnected
	ManagerStateDeleted
)

var managerStateNames = [...]string{"CREATED", "CONNECTED", "SYNCING", "DISCONNECTED", "DELETED"}

func (t ManagerStateType) String() string {
	if int(t) >= len(managerStateNames) {
		return "UNKNOWN"
	}
	return managerStateNames[t]
}

// DisconnectReasonType tells why a manager became DISCONNECTED.
type DisconnectReasonType uint8

const (
	DisconnectReasonRequested DisconnectReasonType = iota
	DisconnectReasonUnknown
	DisconnectReasonPosix
)

var disconnectReasonNames = [...]string{"REQUESTED", "UNKNOWN", "POSIX"}

func (t DisconnectReasonType) String() string {
	if int(t) >= len(disconnectReasonNames) {
		return "UNKNOWN"
	}
	return disconnectReasonNames[t]
}

// DisconnectReason carries the errno of a POSIX disconnect.
type DisconnectReason struct {
	Type  DisconnectReasonType
	Errno int
}

// ManagerState is a manager state plus, for DISCONNECTED, its reason.
type ManagerState struct {
	Type   ManagerStateType
	Reason DisconnectReason
}

func (s ManagerState) String() string {
	if s.Type != ManagerStateDisconnected {
		return s.Type.String()
	}
	if s.Reason.Type == DisconnectReasonPosix {
		return fmt.Sprintf("DISCONNECTED(%s, errno %d)", s.Reason.Type, s.Reason.Errno)
	}
	return fmt.Sprintf("DISCONNECTED(%s)", s.Reason.Type)
}

// DisconnectedBecause returns the DISCONNECTED state caused by err.
func DisconnectedBecause(err error) ManagerState {
	if err == nil {
		return ManagerState{Type: ManagerStateDisconnected, Reason: DisconnectReason{Type: DisconnectReasonRequested}}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return ManagerState{Type: ManagerStateDisconnected, Reason: DisconnectReason{Type: DisconnectReasonPosix, Errno: int(errno)}}
	}
	return ManagerState{Type: ManagerStateDisconnected, Reason: DisconnectReason{Type: DisconnectReasonUnknown}}
}

// SyncMode selects how a manager syncs and submits.
type SyncMode uint8

const (
	SyncModeAPIOnly SyncMode = iota
	SyncModeAPIWithP2PSubmit
	SyncModeP2PWithAPISync
	SyncModeP2POnly
)

var syncModeNames = [...]string{"API_ONLY", "API_WITH_P2P_SUBMIT", "P2P_WITH_API_SYNC", "P2P_ONLY"}

func (m SyncMode) String() string {
	if int(m) >= len(syncModeNames) {
		return "UNKNOWN"
	}
	return syncModeNames[m]
}

// ParseSyncMode parses a mode name such as "API_ONLY".
func ParseSyncMode(s string) (SyncMode, error) {
	if i := slices.Index(syncModeNames[:], s); i >= 0 {
		return SyncMode(i), nil
	}
	return 0, fmt.Errorf("unknown sync mode %q", s)
}

// SyncDepth selects where a rescan starts.
type SyncDepth uint8

const (
	SyncDepthFromLastConfirmedSend SyncDepth = iota
	SyncDepthFromLastTrustedBlock
	SyncDepthFromCreation
)

var syncDepthNames = [...]string{"FROM_LAST_CONFIRMED_SEND", "FROM_LAST_TRUSTED_BLOCK", "FROM_CREATION"}

func (d SyncDepth) String() string {
	if int(d) >= len(syncDepthNames) {
		return "UNKNOWN"
	}
	return syncDepthNames[d]
}

// ManagerConfig is everything a manager needs at creation.
type ManagerConfig struct {
	Registry      *Registry `validate:"required"`
	Listener      Listener
	Client        Client   `validate:"required"`
	Account       *Account `validate:"required"`
	Network       *Network `validate:"required"`
	Mode          SyncMode
	AddressScheme AddressScheme
	Path          string `validate:"required"`

	// Currencies lists the extra wallets to create besides the network's
	// own currency.
	Currencies []Currency
}

type managerOptions struct {
	dispatcher    *Dispatcher
	bundles       BundleStore
	checkpoints   CheckpointStore
	engineOptions []EngineOption
}

// ManagerOption configures optional collaborators of a manager.
type ManagerOption func(*managerOptions)

// WithDispatcher delivers events through a dispatcher shared with other
// managers instead of one owned by the manager.
func WithDispatcher(d *Dispatcher) ManagerOption {
	return func(o *managerOptions) {
		o.dispatcher = d
	}
}

// WithBundleStore persists discovered bundles and replays them at creation.
func WithBundleStore(s BundleStore) ManagerOption {
	return func(o *managerOptions) {
		o.bundles = s
	}
}

// WithCheckpointStore lets the engine resume syncing from the last saved height.
func WithCheckpointStore(s CheckpointStore) ManagerOption {
	return func(o *managerOptions) {
		o.checkpoints = s
	}
}

// WithEngineOptions configures the ClientEngine chain handlers create.
func WithEngineOptions(opts ...EngineOption) ManagerOption {
	return func(o *managerOptions) {
		o.engineOptions = append(o.engineOptions, opts...)
	}
}

// WalletManager coordinates one account on one network: it owns the
// wallets, forwards connection requests to the chain engine and turns what
// the engine discovers into transfers and events.
type WalletManager struct {
	ref refcount.Counter

	typ      NetworkType
	handlers *Handlers
	account  *Account
	network  *Network
	client   Client
	mode     SyncMode
	scheme   AddressScheme
	path     string

	dispatcher     *Dispatcher
	ownsDispatcher bool
	bundles        BundleStore
	checkpoints    CheckpointStore
	engineOptions  []EngineOption
	engine         Engine

	mu      sync.RWMutex
	state   ManagerState
	wallet  *Wallet
	wallets []*Wallet
}

// NewWalletManager creates a manager, its engine and its wallets, then
// announces them and replays persisted bundles. Nothing is published to the
// dispatcher before every field is set.
func NewWalletManager(ctx context.Context, cfg ManagerConfig, opts ...ManagerOption) (*WalletManager, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	var o managerOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.dispatcher == nil && cfg.Listener == nil {
		return nil, fmt.Errorf("%w: listener or dispatcher required", validator.ErrValidationFailed)
	}

	handlers, err := cfg.Registry.Lookup(cfg.Network.Type())
	if err != nil {
		return nil, err
	}

	if !slices.Contains(handlers.Manager.AddressSchemes(), cfg.AddressScheme) {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnsupportedAddressScheme, cfg.AddressScheme, cfg.Network.Type())
	}

	if !cfg.Account.IsInitialized(cfg.Network.Type()) {
		return nil, fmt.Errorf("%w: account has no %s keys", ErrUnsupportedNetwork, cfg.Network.Type())
	}

	ctx = logger.Derive(ctx, "network", cfg.Network.UIDS(), "network.type", cfg.Network.Type().String())

	mode := cfg.Mode
	if mode != SyncModeAPIOnly {
		logger.Warn(ctx, "p2p sync unavailable, falling back to api", "mode", mode.String())
		mode = SyncModeAPIOnly
	}

	m := &WalletManager{
		typ:           cfg.Network.Type(),
		handlers:      handlers,
		account:       cfg.Account.Take(),
		network:       cfg.Network.Take(),
		client:        cfg.Client,
		mode:          mode,
		scheme:        cfg.AddressScheme,
		path:          cfg.Path,
		dispatcher:    o.dispatcher,
		bundles:       o.bundles,
		checkpoints:   o.checkpoints,
		engineOptions: o.engineOptions,
		state:         ManagerState{Type: ManagerStateCreated},
	}
	if m.dispatcher == nil {
		m.dispatcher = NewDispatcher(cfg.Listener)
		m.ownsDispatcher = true
	}
	m.ref.Init("wallet manager", m.release)

	if err := m.build(cfg.Currencies); err != nil {
		m.Give()
		return nil, err
	}

	m.dispatcher.announceManager(m, ManagerEvent{Type: ManagerEventCreated})
	for _, w := range m.wallets {
		m.announceWalletAdded(w)
	}

	if err := m.replay(ctx); err != nil {
		logger.Error(ctx, "failed to replay persisted bundles", "error", err)
	}

	return m, nil
}

// build creates the engine and the wallets without announcing anything.
func (m *WalletManager) build(currencies []Currency) error {
	primary, err := m.handlers.Manager.CreateWallet(m, m.network.Currency())
	if err != nil {
		return fmt.Errorf("create primary wallet: %w", err)
	}
	m.wallet = primary
	m.wallets = append(m.wallets, primary.Take())

	for _, c := range currencies {
		if !m.network.HasCurrency(c) {
			return fmt.Errorf("%w: %s", ErrUnsupportedCurrency, c.Code)
		}
		if m.walletForCurrencyLocked(c) != nil {
			continue
		}

		w, err := m.handlers.Manager.CreateWallet(m, c)
		if err != nil {
			return fmt.Errorf("create %s wallet: %w", c.Code, err)
		}
		m.wallets = append(m.wallets, w)
	}

	engine, err := m.handlers.Manager.CreateEngine(m)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	m.engine = engine

	return nil
}

func (m *WalletManager) release() {
	if m.engine != nil {
		m.engine.Close()
	}

	refcount.GiveAll(m.wallets)
	if m.wallet != nil {
		m.wallet.Give()
	}
	m.wallets, m.wallet = nil, nil

	m.account.Give()
	m.network.Give()

	if m.ownsDispatcher {
		m.dispatcher.Close()
	}
}

func (m *WalletManager) Take() *WalletManager { m.ref.Retain(); return m }
func (m *WalletManager) Give()                { m.ref.Release() }

// tryTake takes a reference unless the manager is already being released.
// The sync loop borrows its manager and announces through it.
func (m *WalletManager) tryTake() bool { return m.ref.TryRetain() }

func (m *WalletManager) Type() NetworkType { return m.typ }

// Handlers returns the chain handler bundle serving the manager.
func (m *WalletManager) Handlers() *Handlers { return m.handlers }

// Account and Network are borrowed for the manager's lifetime.
func (m *WalletManager) Account() *Account { return m.account }
func (m *WalletManager) Network() *Network { return m.network }
func (m *WalletManager) Client() Client    { return m.client }

func (m *WalletManager) Mode() SyncMode               { return m.mode }
func (m *WalletManager) AddressScheme() AddressScheme { return m.scheme }
func (m *WalletManager) Path() string                 { return m.path }

// Dispatcher returns the dispatcher events are delivered through.
func (m *WalletManager) Dispatcher() *Dispatcher { return m.dispatcher }

// EngineOptions returns the options chain handlers pass to NewClientEngine.
func (m *WalletManager) EngineOptions() []EngineOption { return m.engineOptions }

// StorageKey identifies the manager's records in bundle and checkpoint stores.
func (m *WalletManager) StorageKey() string {
	return m.path + ":" + m.network.UIDS()
}

// Address returns a new reference to the account's receive address.
func (m *WalletManager) Address() (*Address, error) {
	return m.account.Address(m.typ, m.scheme)
}

func (m *WalletManager) State() ManagerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// setState moves to s and announces CHANGED. A deleted manager stays deleted.
func (m *WalletManager) setState(s ManagerState) {
	m.mu.Lock()
	old := m.state
	if old.Type == ManagerStateDeleted || old == s {
		m.mu.Unlock()
		return
	}
	m.state = s
	m.mu.Unlock()

	m.dispatcher.announceManager(m, ManagerEvent{Type: ManagerEventChanged, OldState: old, NewState: s})
}

// Wallet returns a taken reference to the primary wallet.
func (m *WalletManager) Wallet() *Wallet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wallet.Take()
}

// Wallets returns a snapshot of every wallet; each entry is a taken reference.
func (m *WalletManager) Wallets() []*Wallet {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ws := make([]*Wallet, len(m.wallets))
	for i, w := range m.wallets {
		ws[i] = w.Take()
	}
	return ws
}

// HasWallet reports whether w is one of the manager's wallets. Wallets of
// other managers never match, even for the same currency.
func (m *WalletManager) HasWallet(w *Wallet) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Contains(m.wallets, w)
}

// WalletForCurrency returns a taken reference to the wallet of c, or nil.
func (m *WalletManager) WalletForCurrency(c Currency) *Wallet {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if w := m.walletForCurrencyLocked(c); w != nil {
		return w.Take()
	}
	return nil
}

func (m *WalletManager) walletForCurrencyLocked(c Currency) *Wallet {
	for _, w := range m.wallets {
		if w.Currency().Equal(c) {
			return w
		}
	}
	return nil
}

// CreateWallet returns a taken reference to the wallet of c, creating and
// announcing it first if the manager has none.
func (m *WalletManager) CreateWallet(c Currency) (*Wallet, error) {
	if w := m.WalletForCurrency(c); w != nil {
		return w, nil
	}

	if !m.network.HasCurrency(c) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, c.Code)
	}

	w, err := m.handlers.Manager.CreateWallet(m, c)
	if err != nil {
		return nil, err
	}

	if existing, added := m.addWallet(w); !added {
		w.Give()
		return existing, nil
	}

	m.announceWalletAdded(w)
	return w.Take(), nil
}

// addWallet takes ownership of w's reference when added. Otherwise it
// returns a taken reference to the equal wallet already held.
func (m *WalletManager) addWallet(w *Wallet) (*Wallet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := slices.IndexFunc(m.wallets, w.Equal); i >= 0 {
		return m.wallets[i].Take(), false
	}
	if existing := m.walletForCurrencyLocked(w.Currency()); existing != nil {
		return existing.Take(), false
	}

	m.wallets = append(m.wallets, w)
	return nil, true
}

// RemoveWallet drops a secondary wallet and announces WALLET_DELETED. The
// primary wallet cannot be removed.
func (m *WalletManager) RemoveWallet(w *Wallet) error {
	m.mu.Lock()
	if m.wallet == w {
		m.mu.Unlock()
		return fmt.Errorf("%w: primary wallet cannot be removed", ErrUnknownWallet)
	}

	i := slices.Index(m.wallets, w)
	if i < 0 {
		m.mu.Unlock()
		return ErrUnknownWallet
	}
	removed := m.wallets[i]
	m.wallets = slices.Delete(m.wallets, i, i+1)
	m.mu.Unlock()

	m.announceWalletDeleted(removed)
	removed.Give()
	return nil
}

func (m *WalletManager) announceWalletAdded(w *Wallet) {
	m.dispatcher.announceWallet(m, w, WalletEvent{Type: WalletEventCreated})
	m.dispatcher.announceManager(m, ManagerEvent{Type: ManagerEventWalletAdded, Wallet: w.Take()})
}

func (m *WalletManager) announceWalletDeleted(w *Wallet) {
	if old, changed := w.setState(WalletStateDeleted); changed {
		m.dispatcher.announceWallet(m, w, WalletEvent{Type: WalletEventChanged, OldState: old, NewState: WalletStateDeleted})
	}
	m.dispatcher.announceWallet(m, w, WalletEvent{Type: WalletEventDeleted})
	m.dispatcher.announceManager(m, ManagerEvent{Type: ManagerEventWalletDeleted, Wallet: w.Take()})
}

// Connect starts the engine. State changes arrive as CHANGED events.
func (m *WalletManager) Connect(ctx context.Context) error {
	if m.State().Type == ManagerStateDeleted {
		return ErrManagerDeleted
	}
	return m.engine.Connect(ctx)
}

// Disconnect stops the engine, cancelling any sync in flight. It returns
// when the engine acknowledged or ctx is done, whichever comes first.
func (m *WalletManager) Disconnect(ctx context.Context) error {
	if m.State().Type == ManagerStateDeleted {
		return ErrManagerDeleted
	}
	return m.engine.Disconnect(ctx)
}

// Sync requests a rescan from the last trusted block.
func (m *WalletManager) Sync(ctx context.Context) error {
	return m.SyncToDepth(ctx, SyncDepthFromLastTrustedBlock)
}

// SyncToDepth requests a rescan starting at depth.
func (m *WalletManager) SyncToDepth(ctx context.Context, depth SyncDepth) error {
	switch m.State().Type {
	case ManagerStateDeleted:
		return ErrManagerDeleted
	case ManagerStateConnected, ManagerStateSyncing:
		return m.engine.Sync(ctx, depth)
	}
	return ErrManagerNotConnected
}

// Submit signs t with the key derived from paperKey and broadcasts it. The
// transfer joins w only once signed, so a bad key or a failed signature
// leaves w untouched. The outcome arrives asynchronously as a SUBMITTED or
// ERRORED transfer state.
func (m *WalletManager) Submit(ctx context.Context, w *Wallet, t *Transfer, paperKey string) error {
	ctx, span := tracer.Start(ctx, "walletkit.Submit", trace.WithAttributes(
		attribute.String("network", m.network.UIDS()),
		attribute.String("transfer.uids", t.UIDS()),
	))
	defer span.End()

	if err := m.submit(ctx, w, t, paperKey); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (m *WalletManager) submit(ctx context.Context, w *Wallet, t *Transfer, paperKey string) error {
	if m.State().Type == ManagerStateDeleted {
		return ErrManagerDeleted
	}
	if !m.HasWallet(w) {
		return ErrUnknownWallet
	}

	ctx = logger.Derive(ctx, "transfer.uids", t.UIDS(), "wallet.currency", w.Currency().Code)

	seed, err := DeriveSeed(paperKey)
	if err != nil {
		return err
	}

	if err := m.handlers.Manager.Sign(m, w, t, seed); err != nil {
		logger.Warn(ctx, "failed to sign transfer", "error", err)
		return fmt.Errorf("%w: %w", ErrSignFailed, err)
	}

	m.addTransfers(w, []*Transfer{t}, false)
	m.setTransferState(w, t, StateSigned())

	serialization, err := t.Serialize(m.network, true)
	if err != nil {
		return err
	}

	m.engine.Submit(ctx, w, t, serialization)
	return nil
}

// completeSubmit records the result of a broadcast.
func (m *WalletManager) completeSubmit(ctx context.Context, w *Wallet, t *Transfer, err error) {
	if err != nil {
		logger.Warn(ctx, "transfer submission failed", "transfer.uids", t.UIDS(), "error", err)
		m.setTransferState(w, t, StateErrored(classifySubmitError(err)))
		return
	}

	m.setTransferState(w, t, StateSubmitted())
	m.dispatcher.announceWallet(m, w, WalletEvent{Type: WalletEventTransferSubmitted, Transfer: t.Take()})
}

func classifySubmitError(err error) SubmitError {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return SubmitError{Type: SubmitErrorPosix, Errno: int(errno), Details: err.Error()}
	}
	return SubmitError{Type: SubmitErrorClient, Details: err.Error()}
}

// EstimateFeeBasis asks the chain for the fee basis of sending amount to
// target at the price of fee.
func (m *WalletManager) EstimateFeeBasis(ctx context.Context, w *Wallet, target *Address, amount Amount, fee NetworkFee, attributes []TransferAttribute) (*FeeBasis, error) {
	if !m.HasWallet(w) {
		return nil, ErrUnknownWallet
	}

	fb, err := m.handlers.Manager.EstimateFeeBasis(ctx, m, w, target, amount, fee, attributes)
	switch {
	case err == nil:
		return fb, nil
	case errors.Is(err, ErrNotImplemented), errors.Is(err, ErrFeeEstimateUnavailable):
		return nil, err
	}
	return nil, fmt.Errorf("%w: %w", ErrFeeEstimateUnavailable, err)
}

// ValidateSweeperSupported classifies whether key can be swept into w.
func (m *WalletManager) ValidateSweeperSupported(w *Wallet, key string) SweeperStatus {
	if m.handlers.Sweeper == nil {
		return SweeperStatusUnsupportedCurrency
	}
	if !m.HasWallet(w) {
		return SweeperStatusInvalidSourceWallet
	}
	return m.handlers.Sweeper.Validate(m, w, key)
}

// Delete disconnects the engine and announces the deletion of every wallet
// and of the manager. The caller still gives its reference back.
func (m *WalletManager) Delete(ctx context.Context) error {
	if m.State().Type == ManagerStateDeleted {
		return nil
	}

	err := m.engine.Disconnect(ctx)
	m.setState(ManagerState{Type: ManagerStateDeleted})

	for _, w := range m.Wallets() {
		m.announceWalletDeleted(w)
		w.Give()
	}
	m.dispatcher.announceManager(m, ManagerEvent{Type: ManagerEventDeleted})

	return err
}

// addTransfers adds ts to w and announces TRANSFER CREATED and
// TRANSFER_ADDED for each new one, then BALANCE_UPDATED when the balance
// changed or forceBalance is set.
func (m *WalletManager) addTransfers(w *Wallet, ts []*Transfer, forceBalance bool) {
	added, balance, changed := w.addTransfers(ts)

	for _, t := range added {
		m.dispatcher.announceTransfer(m, w, t, TransferEvent{Type: TransferEventCreated, NewState: t.State()})
		m.dispatcher.announceWallet(m, w, WalletEvent{Type: WalletEventTransferAdded, Transfer: t.Take()})
	}

	if changed || forceBalance {
		m.dispatcher.announceWallet(m, w, WalletEvent{Type: WalletEventBalanceUpdated, Balance: balance})
	}
}

// setTransferState applies state to t held by w and announces the change.
func (m *WalletManager) setTransferState(w *Wallet, t *Transfer, state TransferState) bool {
	old, changed, balance, balanceChanged := w.updateTransferState(t, state)
	if !changed {
		return false
	}

	m.dispatcher.announceTransfer(m, w, t, TransferEvent{Type: TransferEventChanged, OldState: old, NewState: t.State()})
	m.dispatcher.announceWallet(m, w, WalletEvent{Type: WalletEventTransferChanged, Transfer: t.Take()})
	if balanceChanged {
		m.dispatcher.announceWallet(m, w, WalletEvent{Type: WalletEventBalanceUpdated, Balance: balance})
	}
	return true
}
