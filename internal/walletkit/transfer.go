package walletkit

import (
	"fmt"
	"sync"

	"github.com/gabapcia/walletkit/internal/pkg/refcount"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Direction classifies a transfer relative to the owning account.
type Direction uint8

const (
	DirectionSent Direction = iota
	DirectionReceived
	DirectionRecovered
)

func (d Direction) String() string {
	switch d {
	case DirectionSent:
		return "SENT"
	case DirectionReceived:
		return "RECEIVED"
	case DirectionRecovered:
		return "RECOVERED"
	}
	return "UNKNOWN"
}

// DeriveDirection classifies an artifact from whether the account owns its
// source and its target. Owning neither is ErrDirectionUndefined.
func DeriveDirection(accountIsSource, accountIsTarget bool) (Direction, error) {
	switch {
	case accountIsSource && accountIsTarget:
		return DirectionRecovered, nil
	case accountIsSource:
		return DirectionSent, nil
	case accountIsTarget:
		return DirectionReceived, nil
	}
	return 0, ErrDirectionUndefined
}

// Basis is the chain artifact a transfer was derived from or will produce.
// It is one of TransactionBasis, LogBasis or ExchangeBasis.
type Basis interface {
	payload() any
}

// TransactionBasis backs a transfer with a chain transaction.
type TransactionBasis struct{ Transaction any }

// LogBasis backs a transfer with a contract-emitted log.
type LogBasis struct{ Log any }

// ExchangeBasis backs a transfer with an exchange record.
type ExchangeBasis struct{ Exchange any }

func (b TransactionBasis) payload() any { return b.Transaction }
func (b LogBasis) payload() any         { return b.Log }
func (b ExchangeBasis) payload() any    { return b.Exchange }

// Hash is a chain-native transaction identifier.
type Hash struct {
	typ   NetworkType
	value string
}

func NewHash(typ NetworkType, value string) Hash {
	return Hash{typ: typ, value: value}
}

func (h Hash) Type() NetworkType { return h.typ }
func (h Hash) String() string    { return h.value }
func (h Hash) IsEmpty() bool     { return h.value == "" }

// TransferAttribute is chain-specific metadata such as a memo or destination tag.
type TransferAttribute struct {
	Key        string
	Value      string
	IsRequired bool
}

// TransferConfig carries everything a chain handler decides when it creates
// a transfer. NewTransfer takes its own references to the addresses and the
// fee basis.
type TransferConfig struct {
	Type              NetworkType
	Handler           TransferHandler
	UIDS              string
	Source            *Address
	Target            *Address
	Amount            Amount
	Direction         Direction
	EstimatedFeeBasis *FeeBasis
	State             TransferState
	Attributes        []TransferAttribute
	Basis             Basis
}

// Transfer is one value movement between two addresses, pending or on chain.
type Transfer struct {
	ref refcount.Counter

	typ               NetworkType
	handler           TransferHandler
	uids              string
	source            *Address
	target            *Address
	amount            Amount
	direction         Direction
	estimatedFeeBasis *FeeBasis
	attributes        []TransferAttribute

	mu                sync.RWMutex
	state             TransferState
	confirmedFeeBasis fn.Option[*FeeBasis]
	basis             Basis
}

// NewTransfer builds a transfer holding one reference. A missing basis or
// estimated fee basis is a programming error and panics.
func NewTransfer(cfg TransferConfig) *Transfer {
	if cfg.Basis == nil || cfg.Basis.payload() == nil {
		panic(fmt.Sprintf("walletkit: %s transfer without basis", cfg.Type))
	}
	if cfg.EstimatedFeeBasis == nil {
		panic(fmt.Sprintf("walletkit: %s transfer without estimated fee basis", cfg.Type))
	}

	if cfg.UIDS == "" {
		cfg.UIDS = uuid.Must(uuid.NewV7()).String()
	}

	t := &Transfer{
		typ:               cfg.Type,
		handler:           cfg.Handler,
		uids:              cfg.UIDS,
		source:            takeAddress(cfg.Source),
		target:            takeAddress(cfg.Target),
		amount:            cfg.Amount,
		direction:         cfg.Direction,
		estimatedFeeBasis: cfg.EstimatedFeeBasis.Take(),
		attributes:        append([]TransferAttribute(nil), cfg.Attributes...),
		basis:             cfg.Basis,
	}
	t.ref.Init("transfer", t.release)
	t.setState(cfg.State)

	return t
}

func takeAddress(a *Address) *Address {
	if a == nil {
		return nil
	}
	return a.Take()
}

func (t *Transfer) release() {
	if t.source != nil {
		t.source.Give()
	}
	if t.target != nil {
		t.target.Give()
	}
	t.estimatedFeeBasis.Give()
	t.confirmedFeeBasis.WhenSome(func(fb *FeeBasis) { fb.Give() })
}

func (t *Transfer) Take() *Transfer { t.ref.Retain(); return t }
func (t *Transfer) Give()           { t.ref.Release() }

func (t *Transfer) Type() NetworkType { return t.typ }
func (t *Transfer) UIDS() string      { return t.uids }

// Source returns the source address (borrowed); nil when unknown.
func (t *Transfer) Source() *Address { return t.source }

// Target returns the target address (borrowed); nil when unknown.
func (t *Transfer) Target() *Address { return t.target }

// Amount returns the transferred amount, always non-negative.
func (t *Transfer) Amount() Amount { return t.amount }

// Direction was fixed at creation and never changes.
func (t *Transfer) Direction() Direction { return t.direction }

func (t *Transfer) Unit() Unit                      { return t.amount.Unit() }
func (t *Transfer) UnitForFee() Unit                { return t.estimatedFeeBasis.Unit() }
func (t *Transfer) EstimatedFeeBasis() *FeeBasis    { return t.estimatedFeeBasis }
func (t *Transfer) Attributes() []TransferAttribute { return append([]TransferAttribute(nil), t.attributes...) }

// ConfirmedFeeBasis is set once the transfer is included and never cleared.
func (t *Transfer) ConfirmedFeeBasis() fn.Option[*FeeBasis] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.confirmedFeeBasis
}

// FeeBasis prefers the confirmed fee basis over the estimated one.
func (t *Transfer) FeeBasis() *FeeBasis {
	return t.ConfirmedFeeBasis().UnwrapOr(t.estimatedFeeBasis)
}

// Fee returns the cost of the transfer from FeeBasis.
func (t *Transfer) Fee() Amount {
	return t.FeeBasis().Fee()
}

// Hash returns the chain hash, absent until the transfer is signed or seen on chain.
func (t *Transfer) Hash() (Hash, bool) {
	return t.handler.Hash(t)
}

// State returns the current state.
func (t *Transfer) State() TransferState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Basis returns the chain artifact backing the transfer.
func (t *Transfer) Basis() Basis {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.basis
}

// SetBasis replaces the basis payload with a newer version of the same
// artifact, as happens when the originating transaction gets signed.
func (t *Transfer) SetBasis(b Basis) {
	if b == nil || b.payload() == nil {
		panic(fmt.Sprintf("walletkit: %s transfer without basis", t.typ))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.basis = b
}

// Serialize encodes the originating transaction for network.
func (t *Transfer) Serialize(network *Network, requireSignature bool) ([]byte, error) {
	return t.handler.Serialize(t, network, requireSignature)
}

// Equal compares transfers with the chain's equality.
func (t *Transfer) Equal(o *Transfer) bool {
	switch {
	case t == o:
		return true
	case t == nil, o == nil, t.typ != o.typ:
		return false
	}
	return t.handler.Equal(t, o)
}

// setState applies a state update and reports the previous state and
// whether anything observable changed. Updates ranking below the current
// state, and updates moving between the two terminal states, are ignored.
func (t *Transfer) setState(next TransferState) (TransferState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.state
	if next.typ.rank() < prev.typ.rank() {
		return prev, false
	}
	if prev.typ.IsTerminal() && next.typ != prev.typ {
		return prev, false
	}
	if prev.Equal(next) {
		return prev, false
	}

	if inc, ok := next.Included(); ok && inc.FeeBasis != nil {
		t.confirmedFeeBasis.WhenSome(func(fb *FeeBasis) { fb.Give() })
		t.confirmedFeeBasis = fn.Some(inc.FeeBasis.Take())
	}

	t.state = next
	return prev, true
}
