package walletkit

import (
	"context"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Listener receives every event of a system. Each entity argument is a
// freshly taken reference the listener must give back, as are the entities
// carried inside the event values.
type Listener interface {
	HandleSystemEvent(system *System, event SystemEvent)
	HandleNetworkEvent(network *Network, event NetworkEvent)
	HandleManagerEvent(manager *WalletManager, event ManagerEvent)
	HandleWalletEvent(manager *WalletManager, wallet *Wallet, event WalletEvent)
	HandleTransferEvent(manager *WalletManager, wallet *Wallet, transfer *Transfer, event TransferEvent)
}

const defaultDispatcherBufferSize = 64

// delivery is one queued event. release gives the delivery's references back
// when it is dropped instead of delivered.
type delivery struct {
	kind    string
	deliver func(Listener)
	release func()
	stop    bool
}

// Dispatcher delivers events to a Listener on a single goroutine, in the
// order they were announced. Announcing never blocks on the listener and is
// never done while a core lock is held.
type Dispatcher struct {
	listener Listener
	queue    *fn.ConcurrentQueue[delivery]
	counter  metric.Int64Counter

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherConfig)

type dispatcherConfig struct {
	bufferSize int
}

// WithDispatcherBufferSize sets the queue's channel buffer. The queue grows
// past it without blocking announcers.
func WithDispatcherBufferSize(n int) DispatcherOption {
	return func(c *dispatcherConfig) {
		c.bufferSize = n
	}
}

// NewDispatcher starts a dispatcher for listener.
func NewDispatcher(listener Listener, opts ...DispatcherOption) *Dispatcher {
	cfg := dispatcherConfig{bufferSize: defaultDispatcherBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	counter, _ := otel.Meter("github.com/gabapcia/walletkit/internal/walletkit").Int64Counter(
		"walletkit.events.dispatched",
		metric.WithDescription("Number of events delivered to the listener"),
	)

	d := &Dispatcher{
		listener: listener,
		queue:    fn.NewConcurrentQueue[delivery](cfg.bufferSize),
		counter:  counter,
		done:     make(chan struct{}),
	}

	d.queue.Start()
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for dl := range d.queue.ChanOut() {
		if dl.stop {
			d.queue.Stop()
			return
		}

		dl.deliver(d.listener)
		if d.counter != nil {
			d.counter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", dl.kind)))
		}
	}
}

func (d *Dispatcher) enqueue(dl delivery) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		if dl.release != nil {
			dl.release()
		}
		return
	}

	d.queue.ChanIn() <- dl
}

// Close stops accepting events. Events already queued are still delivered;
// Done is closed once the last one has been.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.closed = true
	d.queue.ChanIn() <- delivery{stop: true}
}

// Done is closed when the dispatcher goroutine exits.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Flush waits until every event announced before the call was delivered.
func (d *Dispatcher) Flush(ctx context.Context) error {
	flushed := make(chan struct{})

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		select {
		case <-d.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	d.queue.ChanIn() <- delivery{kind: "flush", deliver: func(Listener) { close(flushed) }}
	d.mu.Unlock()

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) announceSystem(s *System, event SystemEvent) {
	s = s.Take()
	d.enqueue(delivery{
		kind:    "system",
		deliver: func(l Listener) { l.HandleSystemEvent(s, event) },
		release: func() { s.Give(); event.Give() },
	})
}

func (d *Dispatcher) announceNetwork(n *Network, event NetworkEvent) {
	n = n.Take()
	d.enqueue(delivery{
		kind:    "network",
		deliver: func(l Listener) { l.HandleNetworkEvent(n, event) },
		release: func() { n.Give() },
	})
}

func (d *Dispatcher) announceManager(m *WalletManager, event ManagerEvent) {
	if !m.tryTake() {
		event.Give()
		return
	}
	d.enqueue(delivery{
		kind:    "manager",
		deliver: func(l Listener) { l.HandleManagerEvent(m, event) },
		release: func() { m.Give(); event.Give() },
	})
}

func (d *Dispatcher) announceWallet(m *WalletManager, w *Wallet, event WalletEvent) {
	if !m.tryTake() {
		event.Give()
		return
	}
	w = w.Take()
	d.enqueue(delivery{
		kind:    "wallet",
		deliver: func(l Listener) { l.HandleWalletEvent(m, w, event) },
		release: func() { m.Give(); w.Give(); event.Give() },
	})
}

func (d *Dispatcher) announceTransfer(m *WalletManager, w *Wallet, t *Transfer, event TransferEvent) {
	if !m.tryTake() {
		return
	}
	w, t = w.Take(), t.Take()
	d.enqueue(delivery{
		kind:    "transfer",
		deliver: func(l Listener) { l.HandleTransferEvent(m, w, t, event) },
		release: func() { m.Give(); w.Give(); t.Give() },
	})
}
