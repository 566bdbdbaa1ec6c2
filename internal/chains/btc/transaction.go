package btc

import (
	"bytes"
	"fmt"

	"github.com/gabapcia/walletkit/internal/walletkit"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// TransactionOf returns the transaction backing t.
func TransactionOf(t *walletkit.Transfer) *wire.MsgTx {
	return t.Basis().(walletkit.TransactionBasis).Transaction.(*wire.MsgTx)
}

// IsSigned reports whether every input of tx carries a signature script or
// a witness.
func IsSigned(tx *wire.MsgTx) bool {
	for _, in := range tx.TxIn {
		if len(in.SignatureScript) == 0 && len(in.Witness) == 0 {
			return false
		}
	}
	return len(tx.TxIn) > 0
}

// inputPublicKey returns the public key revealed by a P2WPKH witness or a
// P2PKH signature script, if any.
func inputPublicKey(in *wire.TxIn) []byte {
	if len(in.Witness) == 2 {
		return in.Witness[1]
	}

	var pushes [][]byte
	tokens := txscript.MakeScriptTokenizer(0, in.SignatureScript)
	for tokens.Next() {
		pushes = append(pushes, tokens.Data())
	}
	if tokens.Err() != nil || len(pushes) != 2 {
		return nil
	}
	return pushes[1]
}

func (c *Chain) inputAddress(in *wire.TxIn) btcutil.Address {
	pub := inputPublicKey(in)
	if pub == nil {
		return nil
	}

	hash := btcutil.Hash160(pub)
	scheme := walletkit.AddressSchemeBTCLegacy
	if len(in.Witness) > 0 {
		scheme = walletkit.AddressSchemeBTCSegwit
	}

	addr, err := encodeAddress(hash, scheme, c.params)
	if err != nil {
		return nil
	}
	return addr
}

func (c *Chain) outputAddress(out *wire.TxOut) btcutil.Address {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(out.PkScript, c.params)
	if err != nil || len(addrs) == 0 {
		return nil
	}
	return addrs[0]
}

type transfer struct{ c *Chain }

// Hash is the transaction id, known once the transaction is signed.
func (h *transfer) Hash(t *walletkit.Transfer) (walletkit.Hash, bool) {
	tx := TransactionOf(t)
	if !IsSigned(tx) {
		return walletkit.Hash{}, false
	}
	return walletkit.NewHash(walletkit.NetworkTypeBTC, tx.TxHash().String()), true
}

func (h *transfer) Serialize(t *walletkit.Transfer, _ *walletkit.Network, requireSignature bool) ([]byte, error) {
	tx := TransactionOf(t)
	if requireSignature && !IsSigned(tx) {
		return nil, walletkit.ErrSerializationWithoutSignature
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("serialize transaction: %w", err)
	}
	return buf.Bytes(), nil
}

func (h *transfer) Equal(a, b *walletkit.Transfer) bool {
	ta, tb := TransactionOf(a), TransactionOf(b)
	if IsSigned(ta) && IsSigned(tb) {
		return ta.TxHash() == tb.TxHash()
	}
	return a.UIDS() == b.UIDS()
}
