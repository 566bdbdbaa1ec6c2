package walletkit

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/pkg/refcount"
	"github.com/gabapcia/walletkit/internal/pkg/validator"

	"github.com/google/uuid"
)

// SystemState is the lifecycle state of a system.
type SystemState uint8

const (
	SystemStateCreated SystemState = iota
	SystemStateDeleted
)

func (s SystemState) String() string {
	if s == SystemStateDeleted {
		return "DELETED"
	}
	return "CREATED"
}

// SystemConfig describes a system at construction time.
type SystemConfig struct {
	Registry *Registry `validate:"required"`
	Listener Listener  `validate:"required"`
	Account  *Account  `validate:"required"`
	Path     string    `validate:"required"`
	UIDS     string
}

// ManagerRequest is what System.CreateManager needs besides what the system
// already holds.
type ManagerRequest struct {
	Network       *Network `validate:"required"`
	Client        Client   `validate:"required"`
	Mode          SyncMode
	AddressScheme AddressScheme
	Currencies    []Currency
}

// System owns one account's networks and wallet managers and the dispatcher
// all of their events go through.
type System struct {
	ref refcount.Counter

	uids       string
	registry   *Registry
	account    *Account
	path       string
	dispatcher *Dispatcher
	options    []ManagerOption

	mu       sync.RWMutex
	state    SystemState
	networks []*Network
	managers []*WalletManager
}

// NewSystem returns a system holding one reference and announces CREATED.
// opts apply to every manager the system creates.
func NewSystem(cfg SystemConfig, opts ...ManagerOption) (*System, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	if cfg.UIDS == "" {
		cfg.UIDS = uuid.Must(uuid.NewV7()).String()
	}

	s := &System{
		uids:       cfg.UIDS,
		registry:   cfg.Registry,
		account:    cfg.Account.Take(),
		path:       cfg.Path,
		dispatcher: NewDispatcher(cfg.Listener),
		options:    opts,
	}
	s.ref.Init("system", s.release)

	s.dispatcher.announceSystem(s, SystemEvent{Type: SystemEventCreated, NewState: SystemStateCreated})
	return s, nil
}

func (s *System) release() {
	refcount.GiveAll(s.managers)
	refcount.GiveAll(s.networks)
	s.managers, s.networks = nil, nil
	s.account.Give()
	s.dispatcher.Close()
}

func (s *System) Take() *System { s.ref.Retain(); return s }
func (s *System) Give()         { s.ref.Release() }

func (s *System) UIDS() string            { return s.uids }
func (s *System) Account() *Account       { return s.account }
func (s *System) Registry() *Registry     { return s.registry }
func (s *System) Path() string            { return s.path }
func (s *System) Dispatcher() *Dispatcher { return s.dispatcher }

func (s *System) State() SystemState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Flush waits until every event announced so far was delivered.
func (s *System) Flush(ctx context.Context) error {
	return s.dispatcher.Flush(ctx)
}

// AddNetwork adds n and announces it. Adding a network whose UIDS is
// already known is a no-op.
func (s *System) AddNetwork(n *Network) error {
	s.mu.Lock()
	if s.state == SystemStateDeleted {
		s.mu.Unlock()
		return ErrSystemDeleted
	}
	if slices.ContainsFunc(s.networks, func(o *Network) bool { return o.UIDS() == n.UIDS() }) {
		s.mu.Unlock()
		return nil
	}
	s.networks = append(s.networks, n.Take())
	s.mu.Unlock()

	s.dispatcher.announceNetwork(n, NetworkEvent{Type: NetworkEventCreated, Height: n.Height(), Reachable: true})
	s.dispatcher.announceSystem(s, SystemEvent{Type: SystemEventNetworkAdded, Network: n.Take()})
	return nil
}

// Networks returns a snapshot of the networks; each entry is a taken reference.
func (s *System) Networks() []*Network {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns := make([]*Network, len(s.networks))
	for i, n := range s.networks {
		ns[i] = n.Take()
	}
	return ns
}

// NetworkByUIDS returns a taken reference to the network with uids, or nil.
func (s *System) NetworkByUIDS(uids string) *Network {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.networks {
		if n.UIDS() == uids {
			return n.Take()
		}
	}
	return nil
}

// UpdateNetworkFees replaces the fee schedule of n and announces FEES_UPDATED.
func (s *System) UpdateNetworkFees(n *Network, fees []NetworkFee) error {
	if len(fees) == 0 {
		return fmt.Errorf("%w: empty fee schedule", validator.ErrValidationFailed)
	}

	n.setFees(fees)
	s.dispatcher.announceNetwork(n, NetworkEvent{Type: NetworkEventFeesUpdated, Height: n.Height()})
	return nil
}

// CreateManager returns a taken reference to the manager of req.Network,
// creating it first when the system has none. The network is added to the
// system if needed.
func (s *System) CreateManager(ctx context.Context, req ManagerRequest) (*WalletManager, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	if m := s.ManagerForNetwork(req.Network); m != nil {
		return m, nil
	}

	if err := s.AddNetwork(req.Network); err != nil {
		return nil, err
	}

	cfg := ManagerConfig{
		Registry:      s.registry,
		Client:        req.Client,
		Account:       s.account,
		Network:       req.Network,
		Mode:          req.Mode,
		AddressScheme: req.AddressScheme,
		Path:          s.path,
		Currencies:    req.Currencies,
	}

	opts := append(slices.Clone(s.options), WithDispatcher(s.dispatcher))
	m, err := NewWalletManager(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.managers = append(s.managers, m.Take())
	s.mu.Unlock()

	s.dispatcher.announceSystem(s, SystemEvent{Type: SystemEventManagerAdded, Manager: m.Take()})
	return m, nil
}

// Managers returns a snapshot of the managers; each entry is a taken reference.
func (s *System) Managers() []*WalletManager {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ms := make([]*WalletManager, len(s.managers))
	for i, m := range s.managers {
		ms[i] = m.Take()
	}
	return ms
}

// ManagerForNetwork returns a taken reference to the manager of n, or nil.
func (s *System) ManagerForNetwork(n *Network) *WalletManager {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.managers {
		if m.Network().UIDS() == n.UIDS() {
			return m.Take()
		}
	}
	return nil
}

// Connect connects every manager.
func (s *System) Connect(ctx context.Context) error {
	var errs []error
	for _, m := range s.Managers() {
		if err := m.Connect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("connect %s: %w", m.Network().UIDS(), err))
		}
		m.Give()
	}
	return errors.Join(errs...)
}

// Disconnect disconnects every manager.
func (s *System) Disconnect(ctx context.Context) error {
	var errs []error
	for _, m := range s.Managers() {
		if err := m.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect %s: %w", m.Network().UIDS(), err))
		}
		m.Give()
	}
	return errors.Join(errs...)
}

// Delete deletes every manager, announces the networks' and the system's
// deletion and stops accepting new networks. The caller still gives its
// reference back.
func (s *System) Delete(ctx context.Context) error {
	s.mu.Lock()
	if s.state == SystemStateDeleted {
		s.mu.Unlock()
		return nil
	}
	s.state = SystemStateDeleted
	s.mu.Unlock()

	var errs []error
	for _, m := range s.Managers() {
		if err := m.Delete(ctx); err != nil {
			logger.Warn(ctx, "failed to delete wallet manager", "network", m.Network().UIDS(), "error", err)
			errs = append(errs, err)
		}
		m.Give()
	}

	for _, n := range s.Networks() {
		s.dispatcher.announceNetwork(n, NetworkEvent{Type: NetworkEventDeleted, Height: n.Height()})
		n.Give()
	}

	s.dispatcher.announceSystem(s, SystemEvent{Type: SystemEventChanged, OldState: SystemStateCreated, NewState: SystemStateDeleted})
	s.dispatcher.announceSystem(s, SystemEvent{Type: SystemEventDeleted})
	return errors.Join(errs...)
}
