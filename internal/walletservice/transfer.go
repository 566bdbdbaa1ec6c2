package walletservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/pkg/validator"
	"github.com/gabapcia/walletkit/internal/pkg/x/chflow"
	"github.com/gabapcia/walletkit/internal/walletkit"
)

// ErrTransferRejected is returned when the network refused a submitted transfer.
var ErrTransferRejected = errors.New("transfer rejected")

// draft holds the references a transfer request resolves to.
type draft struct {
	manager *walletkit.WalletManager
	wallet  *walletkit.Wallet
	target  *walletkit.Address
	amount  walletkit.Amount
}

func (d draft) release() {
	d.target.Give()
	d.wallet.Give()
	d.manager.Give()
}

// prepare resolves req and brings its network up to date.
func (s *service) prepare(ctx context.Context, req TransferRequest) (draft, error) {
	if err := validator.Validate(req); err != nil {
		return draft{}, err
	}

	m, err := s.manager(req.Network)
	if err != nil {
		return draft{}, err
	}

	n := m.Network()
	currency, ok := n.CurrencyByCode(req.Currency)
	if !ok {
		m.Give()
		return draft{}, fmt.Errorf("%w: %s on %s", ErrUnknownCurrency, req.Currency, req.Network)
	}

	w := m.WalletForCurrency(currency)
	if w == nil {
		m.Give()
		return draft{}, fmt.Errorf("%w: %s on %s", ErrUnknownCurrency, req.Currency, req.Network)
	}

	unit, _ := n.DefaultUnit(currency)
	amount, err := walletkit.ParseAmountInUnit(unit, req.Amount)
	if err != nil {
		w.Give()
		m.Give()
		return draft{}, err
	}

	target, err := s.system.Registry().ParseAddress(m.Type(), req.Target)
	if err != nil {
		w.Give()
		m.Give()
		return draft{}, err
	}

	d := draft{manager: m, wallet: w, target: target, amount: amount}
	if err := s.syncOnce(ctx, m); err != nil {
		d.release()
		return draft{}, fmt.Errorf("failed to sync %s: %w", req.Network, err)
	}
	return d, nil
}

// estimate returns the fee basis of d at the network's cheapest fee.
func (d draft) estimate(ctx context.Context) (*walletkit.FeeBasis, error) {
	return d.manager.EstimateFeeBasis(ctx, d.wallet, d.target, d.amount, d.manager.Network().MinimumFee(), nil)
}

func (s *service) EstimateFee(ctx context.Context, req TransferRequest) (Quote, error) {
	d, err := s.prepare(ctx, req)
	if err != nil {
		return Quote{}, err
	}
	defer d.release()

	fb, err := d.estimate(ctx)
	if err != nil {
		return Quote{}, err
	}
	defer fb.Give()

	return Quote{
		Network:    req.Network,
		Currency:   fb.Unit().Currency.Code,
		Fee:        displayAmount(d.manager.Network(), fb.Fee()),
		CostFactor: fb.CostFactor(),
	}, nil
}

func (s *service) Send(ctx context.Context, req TransferRequest) (Receipt, error) {
	d, err := s.prepare(ctx, req)
	if err != nil {
		return Receipt{}, err
	}
	defer d.release()

	fb, err := d.estimate(ctx)
	switch {
	case errors.Is(err, walletkit.ErrNotImplemented):
		fb = d.wallet.DefaultFeeBasis()
	case err != nil:
		return Receipt{}, err
	}
	if fb != nil {
		defer fb.Give()
	}

	t, err := d.wallet.CreateTransfer(d.target, d.amount, fb, nil)
	if err != nil {
		return Receipt{}, err
	}
	defer t.Give()

	ctx = logger.Derive(ctx, "network", req.Network, "transfer.uids", t.UIDS())

	done := s.listener.awaitTransfer(t.UIDS())
	defer s.listener.forgetTransfer(t.UIDS())

	if err := d.manager.Submit(ctx, d.wallet, t, s.paperKey); err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{UIDS: t.UIDS()}

	o, err := chflow.Await(ctx, done)
	if err != nil {
		receipt.State = t.State().Type().String()
		return receipt, err
	}

	receipt.Hash = o.hash
	receipt.State = o.state.Type().String()
	if se, ok := o.state.SubmitError(); ok {
		receipt.Error = se.Error()
		logger.Warn(ctx, "transfer rejected", "error", se.Error())
		return receipt, fmt.Errorf("%w: %s", ErrTransferRejected, se.Details)
	}

	logger.Info(ctx, "transfer sent", "transfer.hash", receipt.Hash)
	return receipt, nil
}
