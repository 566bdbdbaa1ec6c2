// Package walletservice runs one account's wallet managers for the command
// line: it keeps them syncing, reports balances and sends transfers.
package walletservice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/pkg/refcount"
	"github.com/gabapcia/walletkit/internal/pkg/validator"
	"github.com/gabapcia/walletkit/internal/pkg/x/chflow"
	"github.com/gabapcia/walletkit/internal/walletkit"
)

var (
	// ErrUnknownNetwork is returned for a network name the service was not built with.
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrUnknownCurrency is returned for a currency code without a wallet.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrServiceClosed is returned by every operation after Close.
	ErrServiceClosed = errors.New("service closed")
)

// Service is what the command line drives.
type Service interface {
	// Start connects every wallet manager. Syncing continues in the
	// background until Close.
	Start(ctx context.Context) error

	// Close disconnects every manager and releases the system.
	Close()

	// Balances runs a sync pass on every network and reports every wallet.
	Balances(ctx context.Context) ([]Balance, error)

	// EstimateFee quotes the fee of a transfer without creating it.
	EstimateFee(ctx context.Context, req TransferRequest) (Quote, error)

	// Send creates, signs and submits a transfer and waits for the network
	// to accept or reject it.
	Send(ctx context.Context, req TransferRequest) (Receipt, error)
}

// TransferRequest describes an outgoing transfer. Amount is a decimal in the
// currency's default unit.
type TransferRequest struct {
	Network  string `validate:"required"`
	Currency string `validate:"required"`
	Target   string `validate:"required"`
	Amount   string `validate:"required,amount"`
}

// Balance reports one wallet.
type Balance struct {
	Network   string
	Currency  string
	Address   string
	Amount    string
	Transfers int
}

// Quote is a fee estimate.
type Quote struct {
	Network    string
	Currency   string
	Fee        string
	CostFactor float64
}

// Receipt is the outcome of a submitted transfer.
type Receipt struct {
	UIDS  string
	Hash  string
	State string
	Error string
}

// Network is one network the service runs a manager for.
type Network struct {
	// Name is what users refer to the network by.
	Name          string             `validate:"required"`
	Network       *walletkit.Network `validate:"required"`
	Client        walletkit.Client   `validate:"required"`
	AddressScheme walletkit.AddressScheme
	Currencies    []walletkit.Currency
}

// Config is everything New needs.
type Config struct {
	Registry *walletkit.Registry `validate:"required"`
	Account  *walletkit.Account  `validate:"required"`
	PaperKey string              `validate:"required"`
	Path     string              `validate:"required"`
	Mode     walletkit.SyncMode
	Networks []Network `validate:"required,min=1,dive"`
}

type service struct {
	system   *walletkit.System
	listener *listener
	paperKey string

	// managers maps Network.Name to a retained manager.
	managers map[string]*walletkit.WalletManager

	mu        sync.Mutex
	isStarted bool
	closeOnce sync.Once
	closed    bool
}

var _ Service = (*service)(nil)

type config struct {
	managerOptions []walletkit.ManagerOption
}

// Option configures the managers the service creates.
type Option func(*config)

// WithManagerOptions applies opts to every manager, typically stores and
// engine options.
func WithManagerOptions(opts ...walletkit.ManagerOption) Option {
	return func(c *config) {
		c.managerOptions = append(c.managerOptions, opts...)
	}
}

// New creates a system for cfg.Account with one manager per network.
func New(ctx context.Context, cfg Config, opts ...Option) (*service, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	var c config
	for _, opt := range opts {
		opt(&c)
	}

	l := newListener()
	system, err := walletkit.NewSystem(walletkit.SystemConfig{
		Registry: cfg.Registry,
		Listener: l,
		Account:  cfg.Account,
		Path:     cfg.Path,
	}, c.managerOptions...)
	if err != nil {
		return nil, err
	}

	s := &service{
		system:   system,
		listener: l,
		paperKey: cfg.PaperKey,
		managers: make(map[string]*walletkit.WalletManager, len(cfg.Networks)),
	}

	for _, n := range cfg.Networks {
		m, err := system.CreateManager(ctx, walletkit.ManagerRequest{
			Network:       n.Network,
			Client:        n.Client,
			Mode:          cfg.Mode,
			AddressScheme: n.AddressScheme,
			Currencies:    n.Currencies,
		})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create wallet manager for %s: %w", n.Name, err)
		}
		s.managers[n.Name] = m
	}

	return s, nil
}

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServiceClosed
	}
	if s.isStarted {
		return nil
	}

	if err := s.system.Connect(ctx); err != nil {
		return err
	}

	s.isStarted = true
	logger.Info(ctx, "wallet managers connected", "networks", len(s.managers))
	return nil
}

func (s *service) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.isStarted = false
		s.mu.Unlock()

		ctx := context.Background()
		if err := s.system.Disconnect(ctx); err != nil {
			logger.Warn(ctx, "failed to disconnect wallet managers", "error", err)
		}
		if err := s.system.Flush(ctx); err != nil {
			logger.Warn(ctx, "failed to flush events", "error", err)
		}

		for _, m := range s.managers {
			m.Give()
		}
		s.managers = nil
		s.system.Give()
	})
}

// manager returns a taken reference to the manager of the network called name.
func (s *service) manager(name string) (*walletkit.WalletManager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrServiceClosed
	}

	m, ok := s.managers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	return m.Take(), nil
}

// allManagers returns taken references to every manager keyed by name.
func (s *service) allManagers() (map[string]*walletkit.WalletManager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrServiceClosed
	}

	ms := make(map[string]*walletkit.WalletManager, len(s.managers))
	for name, m := range s.managers {
		ms[name] = m.Take()
	}
	return ms, nil
}

// syncOnce runs one sync pass on m and waits for its end. A disconnected
// manager is connected first, which starts a pass by itself.
func (s *service) syncOnce(ctx context.Context, m *walletkit.WalletManager) error {
	done := s.listener.awaitSync(m.Network().UIDS())

	var err error
	switch m.State().Type {
	case walletkit.ManagerStateConnected, walletkit.ManagerStateSyncing:
		err = m.SyncToDepth(ctx, walletkit.SyncDepthFromLastTrustedBlock)
	default:
		err = m.Connect(ctx)
	}
	if err != nil {
		return err
	}

	result, err := chflow.Await(ctx, done)
	if err != nil {
		return err
	}
	return result
}

// syncAll runs syncOnce on every manager concurrently.
func (s *service) syncAll(ctx context.Context, managers map[string]*walletkit.WalletManager) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for name, m := range managers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := s.syncOnce(ctx, m); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errors.Join(errs...)
}

func giveManagers(ms map[string]*walletkit.WalletManager) {
	for _, m := range ms {
		m.Give()
	}
}

func giveWallets(ws []*walletkit.Wallet) {
	refcount.GiveAll(ws)
}
