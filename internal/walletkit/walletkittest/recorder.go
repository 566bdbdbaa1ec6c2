package walletkittest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gabapcia/walletkit/internal/walletkit"
)

// Event is the recorded summary of one delivered event.
type Event struct {
	Kind     string // system, network, manager, wallet or transfer
	Type     string
	Currency string // wallet and transfer events
	Transfer string // transfer uids, when the event concerns one
	Balance  walletkit.Amount
	OldState string
	NewState string
}

func (e Event) String() string {
	return e.Kind + " " + e.Type
}

// Recorder is a walletkit.Listener that keeps every event in delivery order
// and gives the delivered references back immediately.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ walletkit.Listener = (*Recorder)(nil)

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Names returns "kind TYPE" for every recorded event whose kind is one of
// kinds, or for every event when kinds is empty.
func (r *Recorder) Names(kinds ...string) []string {
	var names []string
	for _, e := range r.Events() {
		if len(kinds) == 0 || slices.Contains(kinds, e.Kind) {
			names = append(names, e.String())
		}
	}
	return names
}

// Count returns how many events of kind and typ were recorded.
func (r *Recorder) Count(kind, typ string) int {
	n := 0
	for _, e := range r.Events() {
		if e.Kind == kind && e.Type == typ {
			n++
		}
	}
	return n
}

// Last returns the last recorded event of kind and typ.
func (r *Recorder) Last(kind, typ string) (Event, bool) {
	events := r.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Kind == kind && events[i].Type == typ {
			return events[i], true
		}
	}
	return Event{}, false
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *Recorder) HandleSystemEvent(s *walletkit.System, e walletkit.SystemEvent) {
	defer s.Give()
	defer e.Give()

	r.record(Event{
		Kind:     "system",
		Type:     e.Type.String(),
		OldState: e.OldState.String(),
		NewState: e.NewState.String(),
	})
}

func (r *Recorder) HandleNetworkEvent(n *walletkit.Network, e walletkit.NetworkEvent) {
	defer n.Give()

	r.record(Event{Kind: "network", Type: e.Type.String(), NewState: fmt.Sprint(e.Height)})
}

func (r *Recorder) HandleManagerEvent(m *walletkit.WalletManager, e walletkit.ManagerEvent) {
	defer m.Give()
	defer e.Give()

	ev := Event{
		Kind:     "manager",
		Type:     e.Type.String(),
		OldState: e.OldState.String(),
		NewState: e.NewState.String(),
	}
	if e.Wallet != nil {
		ev.Currency = e.Wallet.Currency().Code
	}
	r.record(ev)
}

func (r *Recorder) HandleWalletEvent(m *walletkit.WalletManager, w *walletkit.Wallet, e walletkit.WalletEvent) {
	defer m.Give()
	defer w.Give()
	defer e.Give()

	ev := Event{
		Kind:     "wallet",
		Type:     e.Type.String(),
		Currency: w.Currency().Code,
		Balance:  e.Balance,
		OldState: e.OldState.String(),
		NewState: e.NewState.String(),
	}
	if e.Transfer != nil {
		ev.Transfer = e.Transfer.UIDS()
	}
	r.record(ev)
}

func (r *Recorder) HandleTransferEvent(m *walletkit.WalletManager, w *walletkit.Wallet, t *walletkit.Transfer, e walletkit.TransferEvent) {
	defer m.Give()
	defer w.Give()
	defer t.Give()

	r.record(Event{
		Kind:     "transfer",
		Type:     e.Type.String(),
		Currency: w.Currency().Code,
		Transfer: t.UIDS(),
		OldState: e.OldState.Type().String(),
		NewState: e.NewState.Type().String(),
	})
}
