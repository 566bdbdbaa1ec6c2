package eth

import (
	"fmt"

	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Originating is the transaction the wallet built for a transfer it sends.
type Originating struct {
	Tx     *types.Transaction
	Signed bool
}

// Transaction backs ether transfers.
type Transaction struct {
	Hash        common.Hash
	Nonce       fn.Option[uint64]
	Originating *Originating
}

// Log backs token transfers: the ERC-20 Transfer event at Index of the
// receipt of transaction Hash.
type Log struct {
	Hash        common.Hash
	Index       uint64
	Contract    common.Address
	Nonce       fn.Option[uint64]
	Originating *Originating
}

// Exchange backs value a contract call moved to or from the account.
type Exchange struct {
	Hash     common.Hash
	Index    uint64
	Contract common.Address
}

// identity is what tells two artifacts of the same transaction apart.
type identity struct {
	hash        common.Hash
	kind        string
	index       uint64
	originating bool
}

func identityOf(b walletkit.Basis) identity {
	switch b := b.(type) {
	case walletkit.TransactionBasis:
		tx := b.Transaction.(*Transaction)
		return identity{hash: tx.Hash, kind: "transaction", originating: tx.Originating != nil}
	case walletkit.LogBasis:
		l := b.Log.(*Log)
		return identity{hash: l.Hash, kind: "log", index: l.Index, originating: l.Originating != nil}
	case walletkit.ExchangeBasis:
		ex := b.Exchange.(*Exchange)
		return identity{hash: ex.Hash, kind: "exchange", index: ex.Index}
	}
	panic(fmt.Sprintf("eth: unexpected basis %T", b))
}

// matches reports whether both identities name the same artifact. A log the
// wallet originated does not know its index until the chain reports it.
func (id identity) matches(o identity) bool {
	if id.hash == (common.Hash{}) || id.hash != o.hash || id.kind != o.kind {
		return false
	}
	return id.index == o.index || id.originating || o.originating
}

func originatingOf(t *walletkit.Transfer) (*Originating, bool) {
	switch b := t.Basis().(type) {
	case walletkit.TransactionBasis:
		o := b.Transaction.(*Transaction).Originating
		return o, o != nil
	case walletkit.LogBasis:
		o := b.Log.(*Log).Originating
		return o, o != nil
	}
	return nil, false
}

func nonceOf(t *walletkit.Transfer) fn.Option[uint64] {
	switch b := t.Basis().(type) {
	case walletkit.TransactionBasis:
		return b.Transaction.(*Transaction).Nonce
	case walletkit.LogBasis:
		return b.Log.(*Log).Nonce
	}
	return fn.None[uint64]()
}

// withSigned returns a copy of b backed by the signed transaction.
func withSigned(b walletkit.Basis, signed *types.Transaction) walletkit.Basis {
	o := &Originating{Tx: signed, Signed: true}

	switch b := b.(type) {
	case walletkit.TransactionBasis:
		tx := *b.Transaction.(*Transaction)
		tx.Hash, tx.Nonce, tx.Originating = signed.Hash(), fn.Some(signed.Nonce()), o
		return walletkit.TransactionBasis{Transaction: &tx}
	case walletkit.LogBasis:
		l := *b.Log.(*Log)
		l.Hash, l.Nonce, l.Originating = signed.Hash(), fn.Some(signed.Nonce()), o
		return walletkit.LogBasis{Log: &l}
	}
	panic(fmt.Sprintf("eth: cannot sign basis %T", b))
}

type transfer struct{ c *Chain }

func (h *transfer) Hash(t *walletkit.Transfer) (walletkit.Hash, bool) {
	id := identityOf(t.Basis())
	if id.hash == (common.Hash{}) {
		return walletkit.Hash{}, false
	}
	return walletkit.NewHash(walletkit.NetworkTypeETH, id.hash.Hex()), true
}

// Serialize returns the signed transaction in its network encoding or,
// unsigned, its EIP-155 signing payload.
func (h *transfer) Serialize(t *walletkit.Transfer, _ *walletkit.Network, requireSignature bool) ([]byte, error) {
	o, ok := originatingOf(t)
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: %s", ErrNoTransaction, t.UIDS())
	case o.Signed:
		return o.Tx.MarshalBinary()
	case requireSignature:
		return nil, walletkit.ErrSerializationWithoutSignature
	}

	tx := o.Tx
	return rlp.EncodeToBytes([]any{
		tx.Nonce(), tx.GasPrice(), tx.Gas(), tx.To(), tx.Value(), tx.Data(),
		h.c.chainID, uint(0), uint(0),
	})
}

func (h *transfer) Equal(a, b *walletkit.Transfer) bool {
	return identityOf(a.Basis()).matches(identityOf(b.Basis()))
}
