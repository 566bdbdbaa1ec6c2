package walletkit_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/gabapcia/walletkit/internal/pkg/logger"
	"github.com/gabapcia/walletkit/internal/pkg/validator"
	"github.com/gabapcia/walletkit/internal/walletkit"
	"github.com/gabapcia/walletkit/internal/walletkit/mocks"
	"github.com/gabapcia/walletkit/internal/walletkit/walletkittest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func init() {
	_ = logger.Init("error")
}

const testType = walletkit.NetworkTypeHBAR

func newManager(t *testing.T, f *walletkittest.Fixture, client walletkit.Client, opts ...walletkit.ManagerOption) *walletkit.WalletManager {
	t.Helper()

	n := walletkittest.NewNetwork(testType, "net-"+t.Name())
	defer n.Give()

	m, err := walletkit.NewWalletManager(t.Context(), f.ManagerConfig(n, client), opts...)
	require.NoError(t, err)
	t.Cleanup(m.Give)

	return m
}

func flush(t *testing.T, m *walletkit.WalletManager) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Dispatcher().Flush(ctx))
}

// transferStates lists the NewState of every transfer event of uids.
func transferStates(r *walletkittest.Recorder, uids string) []string {
	var states []string
	for _, e := range r.Events() {
		if e.Kind == "transfer" && e.Transfer == uids {
			states = append(states, e.NewState)
		}
	}
	return states
}

// fund gives the primary wallet amount base units through a received bundle.
func fund(t *testing.T, f *walletkittest.Fixture, m *walletkit.WalletManager, amount string) {
	t.Helper()
	m.RecoverTransferBundles(t.Context(), []walletkit.TransferBundle{
		walletkittest.Bundle("0xfund"+amount, "faucet", f.Address(), amount, ""),
	})
}

func TestNewWalletManager(t *testing.T) {
	t.Run("announces the manager before its wallets", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		m := newManager(t, f, mocks.NewClient(t))
		flush(t, m)

		assert.Equal(t, []string{
			"manager CREATED",
			"wallet CREATED",
			"manager WALLET_ADDED",
		}, f.Recorder.Names())

		w := m.Wallet()
		defer w.Give()
		assert.True(t, w.Currency().Equal(walletkittest.Native))
		assert.Equal(t, walletkit.ManagerStateCreated, m.State().Type)
	})

	t.Run("creates the requested extra wallets", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		n := walletkittest.NewNetwork(testType, "net-extra")
		defer n.Give()

		cfg := f.ManagerConfig(n, mocks.NewClient(t))
		cfg.Currencies = []walletkit.Currency{walletkittest.Token, walletkittest.Native}

		m, err := walletkit.NewWalletManager(t.Context(), cfg)
		require.NoError(t, err)
		defer m.Give()

		ws := m.Wallets()
		defer func() {
			for _, w := range ws {
				w.Give()
			}
		}()
		require.Len(t, ws, 2)
		assert.True(t, ws[1].Currency().Equal(walletkittest.Token))

		flush(t, m)
		assert.Equal(t, 2, f.Recorder.Count("manager", "WALLET_ADDED"))
	})

	t.Run("falls back to api sync", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		n := walletkittest.NewNetwork(testType, "net-p2p")
		defer n.Give()

		cfg := f.ManagerConfig(n, mocks.NewClient(t))
		cfg.Mode = walletkit.SyncModeP2POnly

		m, err := walletkit.NewWalletManager(t.Context(), cfg)
		require.NoError(t, err)
		defer m.Give()

		assert.Equal(t, walletkit.SyncModeAPIOnly, m.Mode())
	})

	t.Run("rejects invalid configurations", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		n := walletkittest.NewNetwork(testType, "net-invalid")
		defer n.Give()

		cfg := f.ManagerConfig(n, nil)
		_, err := walletkit.NewWalletManager(t.Context(), cfg)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)

		cfg = f.ManagerConfig(n, mocks.NewClient(t))
		cfg.AddressScheme = walletkit.AddressSchemeBTCSegwit
		_, err = walletkit.NewWalletManager(t.Context(), cfg)
		assert.ErrorIs(t, err, walletkit.ErrUnsupportedAddressScheme)

		cfg = f.ManagerConfig(n, mocks.NewClient(t))
		cfg.Listener = nil
		_, err = walletkit.NewWalletManager(t.Context(), cfg)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)

		other := walletkittest.NewNetwork(walletkit.NetworkTypeXRP, "net-xrp")
		defer other.Give()
		_, err = walletkit.NewWalletManager(t.Context(), f.ManagerConfig(other, mocks.NewClient(t)))
		assert.ErrorIs(t, err, walletkit.ErrUnsupportedNetwork)
	})
}

func TestWalletManager_CreateWallet(t *testing.T) {
	t.Run("second creation for a currency is a no-op", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		m := newManager(t, f, mocks.NewClient(t))

		first, err := m.CreateWallet(walletkittest.Token)
		require.NoError(t, err)
		defer first.Give()

		second, err := m.CreateWallet(walletkittest.Token)
		require.NoError(t, err)
		defer second.Give()

		assert.Same(t, first, second)

		ws := m.Wallets()
		for _, w := range ws {
			w.Give()
		}
		assert.Len(t, ws, 2)

		flush(t, m)
		assert.Equal(t, 2, f.Recorder.Count("manager", "WALLET_ADDED"))
	})

	t.Run("concurrent discovery, enumeration and creation", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		m := newManager(t, f, mocks.NewClient(t))

		const workers, bundles = 8, 50

		var (
			wg      sync.WaitGroup
			created = make([]*walletkit.Wallet, workers)
		)
		for g := range workers {
			wg.Add(3)

			go func() {
				defer wg.Done()
				for i := range bundles {
					m.RecoverTransferBundles(context.Background(), []walletkit.TransferBundle{
						walletkittest.Bundle(fmt.Sprintf("0x%d-%d", g, i), "faucet", f.Address(), "10", ""),
					})
				}
			}()

			go func() {
				defer wg.Done()
				for range bundles {
					for _, w := range m.Wallets() {
						for _, tr := range w.Transfers() {
							_ = tr.State()
							tr.Give()
						}
						_ = w.Balance()
						w.Give()
					}
				}
			}()

			go func() {
				defer wg.Done()
				w, err := m.CreateWallet(walletkittest.Token)
				assert.NoError(t, err)
				created[g] = w
			}()
		}
		wg.Wait()

		for _, w := range created {
			require.NotNil(t, w)
			assert.Same(t, created[0], w)
			w.Give()
		}

		w := m.Wallet()
		defer w.Give()
		assert.Equal(t, workers*bundles, w.TransferCount())
		assert.Equal(t, "4000", w.Balance().String())

		flush(t, m)
		assert.Equal(t, 2, f.Recorder.Count("manager", "WALLET_ADDED"))
	})

	t.Run("unsupported currency", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		m := newManager(t, f, mocks.NewClient(t))

		_, err := m.CreateWallet(walletkit.Currency{UIDS: "elsewhere", Code: "nope"})
		assert.ErrorIs(t, err, walletkit.ErrUnsupportedCurrency)
	})

	t.Run("remove wallet", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		m := newManager(t, f, mocks.NewClient(t))

		token, err := m.CreateWallet(walletkittest.Token)
		require.NoError(t, err)
		defer token.Give()

		primary := m.Wallet()
		defer primary.Give()
		assert.ErrorIs(t, m.RemoveWallet(primary), walletkit.ErrUnknownWallet)

		require.NoError(t, m.RemoveWallet(token))
		assert.False(t, m.HasWallet(token))
		assert.Equal(t, walletkit.WalletStateDeleted, token.State())
		assert.ErrorIs(t, m.RemoveWallet(token), walletkit.ErrUnknownWallet)

		flush(t, m)
		assert.Equal(t, 1, f.Recorder.Count("manager", "WALLET_DELETED"))
		assert.Equal(t, 1, f.Recorder.Count("wallet", "DELETED"))
	})
}

func TestWalletManager_Submit(t *testing.T) {
	setup := func(t *testing.T) (*walletkittest.Fixture, *mocks.Client, *walletkit.WalletManager, *walletkit.Wallet, *walletkit.Transfer) {
		f := walletkittest.NewFixture(testType)
		client := mocks.NewClient(t)
		m := newManager(t, f, client)
		fund(t, f, m, "1000")

		w := m.Wallet()
		t.Cleanup(w.Give)

		target, err := f.Registry.ParseAddress(testType, "bob")
		require.NoError(t, err)
		defer target.Give()

		tr, err := w.CreateTransfer(target, walletkit.NewAmountFromUint64(walletkittest.NativeUnit, 100), nil, nil)
		require.NoError(t, err)
		t.Cleanup(tr.Give)

		assert.Equal(t, walletkit.DirectionSent, tr.Direction())
		assert.Equal(t, walletkit.TransferStateCreated, tr.State().Type())
		assert.Equal(t, f.Address(), tr.Source().String())
		assert.Equal(t, "bob", tr.Target().String())

		return f, client, m, w, tr
	}

	t.Run("successful broadcast", func(t *testing.T) {
		f, client, m, w, tr := setup(t)

		client.EXPECT().
			SubmitTransaction(mock.Anything, m.Network(), tr.UIDS(), []byte("0x"+tr.UIDS()+"|"+tr.UIDS())).
			Return("0x"+tr.UIDS(), nil).
			Once()

		require.NoError(t, m.Submit(t.Context(), w, tr, walletkittest.PaperKey))

		require.Eventually(t, func() bool {
			flush(t, m)
			return f.Recorder.Count("wallet", "TRANSFER_SUBMITTED") == 1
		}, time.Second, 10*time.Millisecond)

		assert.Equal(t, walletkit.TransferStateSubmitted, tr.State().Type())
		assert.Equal(t, []string{"CREATED", "SIGNED", "SUBMITTED"}, transferStates(f.Recorder, tr.UIDS()))
		assert.True(t, w.HasTransfer(tr))
		assert.Equal(t, "890", w.Balance().String())

		hash, ok := tr.Hash()
		require.True(t, ok)
		assert.Equal(t, "0x"+tr.UIDS(), hash.String())
	})

	t.Run("rejected broadcast errors the transfer", func(t *testing.T) {
		f, client, m, w, tr := setup(t)

		client.EXPECT().
			SubmitTransaction(mock.Anything, m.Network(), tr.UIDS(), mock.Anything).
			Return("", fmt.Errorf("dial: %w", syscall.ECONNREFUSED)).
			Once()

		require.NoError(t, m.Submit(t.Context(), w, tr, walletkittest.PaperKey))

		require.Eventually(t, func() bool {
			flush(t, m)
			return len(transferStates(f.Recorder, tr.UIDS())) == 3
		}, time.Second, 10*time.Millisecond)

		submitErr, ok := tr.State().SubmitError()
		require.True(t, ok)
		assert.Equal(t, walletkit.SubmitErrorPosix, submitErr.Type)
		assert.Equal(t, int(syscall.ECONNREFUSED), submitErr.Errno)

		assert.Equal(t, "1000", w.Balance().String())
		assert.Equal(t, []string{"CREATED", "SIGNED", "ERRORED"}, transferStates(f.Recorder, tr.UIDS()))
		assert.Zero(t, f.Recorder.Count("wallet", "TRANSFER_SUBMITTED"))
	})

	t.Run("sign failure leaves the wallet untouched", func(t *testing.T) {
		f, _, m, w, tr := setup(t)
		f.Chain.FailSigning(errors.New("hsm offline"))

		err := m.Submit(t.Context(), w, tr, walletkittest.PaperKey)
		assert.ErrorIs(t, err, walletkit.ErrSignFailed)
		assert.Equal(t, walletkit.TransferStateCreated, tr.State().Type())
		assert.False(t, w.HasTransfer(tr))
		assert.Equal(t, "1000", w.Balance().String())

		flush(t, m)
		assert.Empty(t, transferStates(f.Recorder, tr.UIDS()))
	})

	t.Run("invalid paper key leaves the wallet untouched", func(t *testing.T) {
		_, _, m, w, tr := setup(t)

		err := m.Submit(t.Context(), w, tr, "not a paper key")
		assert.ErrorIs(t, err, walletkit.ErrInvalidPaperKey)
		assert.False(t, w.HasTransfer(tr))
		assert.Equal(t, "1000", w.Balance().String())
	})

	t.Run("failed submit is recorded on its span", func(t *testing.T) {
		spans := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
		otel.SetTracerProvider(tp)
		t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

		_, _, m, w, tr := setup(t)

		err := m.Submit(t.Context(), w, tr, "not a paper key")
		require.ErrorIs(t, err, walletkit.ErrInvalidPaperKey)

		var submit sdktrace.ReadOnlySpan
		for _, s := range spans.Ended() {
			if s.Name() == "walletkit.Submit" {
				submit = s
			}
		}
		require.NotNil(t, submit)
		assert.Equal(t, codes.Error, submit.Status().Code)

		attrs := make(map[string]string)
		for _, kv := range submit.Attributes() {
			attrs[string(kv.Key)] = kv.Value.AsString()
		}
		assert.Equal(t, tr.UIDS(), attrs["transfer.uids"])
		assert.Equal(t, m.Network().UIDS(), attrs["network"])
	})

	t.Run("resubmit after a sign failure", func(t *testing.T) {
		f, client, m, w, tr := setup(t)
		f.Chain.FailSigning(errors.New("hsm offline"))
		require.ErrorIs(t, m.Submit(t.Context(), w, tr, walletkittest.PaperKey), walletkit.ErrSignFailed)

		f.Chain.FailSigning(nil)
		client.EXPECT().
			SubmitTransaction(mock.Anything, m.Network(), tr.UIDS(), mock.Anything).
			Return("0x"+tr.UIDS(), nil).
			Once()

		require.NoError(t, m.Submit(t.Context(), w, tr, walletkittest.PaperKey))
		require.Eventually(t, func() bool {
			flush(t, m)
			return len(transferStates(f.Recorder, tr.UIDS())) == 3
		}, time.Second, 10*time.Millisecond)

		assert.True(t, w.HasTransfer(tr))
		assert.Equal(t, "890", w.Balance().String())
	})

	t.Run("wallet of another manager", func(t *testing.T) {
		f, _, m, w, tr := setup(t)

		n := walletkittest.NewNetwork(testType, "net-other")
		defer n.Give()

		other, err := walletkit.NewWalletManager(t.Context(), f.ManagerConfig(n, mocks.NewClient(t)), walletkit.WithDispatcher(m.Dispatcher()))
		require.NoError(t, err)
		defer other.Give()

		err = other.Submit(t.Context(), w, tr, walletkittest.PaperKey)
		assert.ErrorIs(t, err, walletkit.ErrUnknownWallet)
		assert.False(t, w.HasTransfer(tr))
	})
}

func TestWalletManager_RecoverTransferBundles(t *testing.T) {
	t.Run("updates known transfers in place", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		store := mocks.NewBundleStore(t)
		store.EXPECT().LoadTransferBundles(mock.Anything, mock.Anything).Return(nil, nil).Once()
		store.EXPECT().LoadTransactionBundles(mock.Anything, mock.Anything).Return(nil, nil).Once()
		store.EXPECT().SaveTransferBundles(mock.Anything, "test:net-"+t.Name(), mock.Anything).Return(nil).Twice()

		m := newManager(t, f, mocks.NewClient(t), walletkit.WithBundleStore(store))

		pending := walletkittest.Bundle("0x1", f.Address(), "carol", "40", "2")
		pending.Status = walletkit.TransferStatusPending
		m.RecoverTransferBundles(t.Context(), []walletkit.TransferBundle{pending})

		w := m.Wallet()
		defer w.Give()
		require.Equal(t, 1, w.TransferCount())

		tr := w.TransferByHash(walletkit.NewHash(testType, "0x1"))
		require.NotNil(t, tr)
		defer tr.Give()
		assert.Equal(t, walletkit.TransferStateSubmitted, tr.State().Type())
		assert.Equal(t, walletkit.DirectionSent, tr.Direction())

		m.RecoverTransferBundles(t.Context(), []walletkit.TransferBundle{walletkittest.Bundle("0x1", f.Address(), "carol", "40", "3")})

		assert.Equal(t, 1, w.TransferCount())
		inc, ok := tr.State().Included()
		require.True(t, ok)
		assert.Equal(t, uint64(500), inc.BlockNumber)
		assert.Equal(t, "3", tr.Fee().String())
		assert.Equal(t, walletkit.DirectionSent, tr.Direction())

		flush(t, m)
		assert.Equal(t, []string{"SUBMITTED", "INCLUDED"}, transferStates(f.Recorder, tr.UIDS()))
	})

	t.Run("classifies direction", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		m := newManager(t, f, mocks.NewClient(t))
		self := f.Address()

		m.RecoverTransferBundles(t.Context(), []walletkit.TransferBundle{
			walletkittest.Bundle("0xsent", self, "dave", "1", ""),
			walletkittest.Bundle("0xreceived", "erin", self, "1", ""),
			walletkittest.Bundle("0xrecovered", self, self, "1", ""),
		})

		w := m.Wallet()
		defer w.Give()

		for hash, want := range map[string]walletkit.Direction{
			"0xsent":      walletkit.DirectionSent,
			"0xreceived":  walletkit.DirectionReceived,
			"0xrecovered": walletkit.DirectionRecovered,
		} {
			tr := w.TransferByHash(walletkit.NewHash(testType, hash))
			require.NotNil(t, tr, hash)
			assert.Equal(t, want, tr.Direction(), hash)
			tr.Give()
		}
	})

	t.Run("foreign bundle is fatal", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		m := newManager(t, f, mocks.NewClient(t))

		assert.Panics(t, func() {
			m.RecoverTransferBundles(t.Context(), []walletkit.TransferBundle{
				walletkittest.Bundle("0xforeign", "frank", "grace", "1", ""),
			})
		})
	})

	t.Run("unknown currency is skipped", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		m := newManager(t, f, mocks.NewClient(t))

		b := walletkittest.Bundle("0xdoge", "heidi", f.Address(), "1", "")
		b.Currency = "doge"
		m.RecoverTransferBundles(t.Context(), []walletkit.TransferBundle{b})

		w := m.Wallet()
		defer w.Give()
		assert.Zero(t, w.TransferCount())
	})
}

func TestWalletManager_Replay(t *testing.T) {
	f := walletkittest.NewFixture(testType)
	self := f.Address()

	store := mocks.NewBundleStore(t)
	store.EXPECT().LoadTransferBundles(mock.Anything, mock.Anything).Return([]walletkit.TransferBundle{
		walletkittest.Bundle("0xa", "ivan", self, "100", ""),
		walletkittest.Bundle("0xb", "judy", self, "250", ""),
		walletkittest.Bundle("0xc", self, "mallory", "50", "10"),
	}, nil).Once()
	store.EXPECT().LoadTransactionBundles(mock.Anything, mock.Anything).Return(nil, nil).Once()

	m := newManager(t, f, mocks.NewClient(t), walletkit.WithBundleStore(store))
	flush(t, m)

	assert.Equal(t, []string{
		"wallet CREATED",
		"wallet TRANSFER_ADDED",
		"wallet TRANSFER_ADDED",
		"wallet TRANSFER_ADDED",
		"wallet BALANCE_UPDATED",
	}, f.Recorder.Names("wallet"))

	balance, ok := f.Recorder.Last("wallet", "BALANCE_UPDATED")
	require.True(t, ok)
	assert.Equal(t, "290", balance.Balance.String())
}

func TestWalletManager_EstimateFeeBasis(t *testing.T) {
	f := walletkittest.NewFixture(testType)
	client := mocks.NewClient(t)
	m := newManager(t, f, client)

	w := m.Wallet()
	defer w.Give()

	target, err := f.Registry.ParseAddress(testType, "bob")
	require.NoError(t, err)
	defer target.Give()

	fee := m.Network().MinimumFee()
	amount := walletkit.NewAmountFromUint64(walletkittest.NativeUnit, 5)

	t.Run("estimate", func(t *testing.T) {
		client.EXPECT().
			EstimateTransactionFee(mock.Anything, m.Network(), walletkit.FeeEstimateRequest{Target: "bob", Amount: "5"}).
			Return(walletkit.FeeEstimate{CostUnits: 21000}, nil).
			Once()

		fb, err := m.EstimateFeeBasis(t.Context(), w, target, amount, fee, nil)
		require.NoError(t, err)
		defer fb.Give()

		assert.Equal(t, "21000", fb.Fee().String())
		assert.Equal(t, float64(21000), fb.CostFactor())
	})

	t.Run("client failure", func(t *testing.T) {
		client.EXPECT().
			EstimateTransactionFee(mock.Anything, m.Network(), mock.Anything).
			Return(walletkit.FeeEstimate{}, errors.New("node busy")).
			Once()

		_, err := m.EstimateFeeBasis(t.Context(), w, target, amount, fee, nil)
		assert.ErrorIs(t, err, walletkit.ErrFeeEstimateUnavailable)
	})
}

func TestWalletManager_ValidateSweeperSupported(t *testing.T) {
	f := walletkittest.NewFixture(testType)
	m := newManager(t, f, mocks.NewClient(t))

	w := m.Wallet()
	defer w.Give()

	status := m.ValidateSweeperSupported(w, "5Kb8kLf9zgWQnogidDA76MzPL6TsZZY36hWXMssSzNydYXYB9KF")
	assert.Equal(t, walletkit.SweeperStatusUnsupportedCurrency, status)
	assert.ErrorIs(t, status.Err(), walletkit.ErrUnsupportedSweep)
}

func TestWalletManager_Delete(t *testing.T) {
	f := walletkittest.NewFixture(testType)
	m := newManager(t, f, mocks.NewClient(t))
	flush(t, m)
	f.Recorder.Reset()

	require.NoError(t, m.Delete(t.Context()))
	require.NoError(t, m.Delete(t.Context()))
	flush(t, m)

	assert.Equal(t, []string{
		"manager CHANGED",
		"wallet CHANGED",
		"wallet DELETED",
		"manager WALLET_DELETED",
		"manager DELETED",
	}, f.Recorder.Names())

	changed, _ := f.Recorder.Last("manager", "CHANGED")
	assert.Equal(t, "CREATED", changed.OldState)
	assert.Equal(t, "DELETED", changed.NewState)

	assert.ErrorIs(t, m.Connect(t.Context()), walletkit.ErrManagerDeleted)
	assert.ErrorIs(t, m.Sync(t.Context()), walletkit.ErrManagerDeleted)
}

func TestWalletManager_SyncRequiresConnection(t *testing.T) {
	f := walletkittest.NewFixture(testType)
	m := newManager(t, f, mocks.NewClient(t))

	assert.ErrorIs(t, m.Sync(t.Context()), walletkit.ErrManagerNotConnected)
	assert.ErrorIs(t, m.SyncToDepth(t.Context(), walletkit.SyncDepthFromCreation), walletkit.ErrManagerNotConnected)
}

func TestDisconnectedBecause(t *testing.T) {
	assert.Equal(t, "DISCONNECTED(REQUESTED)", walletkit.DisconnectedBecause(nil).String())
	assert.Equal(t, "DISCONNECTED(UNKNOWN)", walletkit.DisconnectedBecause(errors.New("eof")).String())

	posix := walletkit.DisconnectedBecause(fmt.Errorf("read: %w", syscall.ECONNRESET))
	assert.Equal(t, walletkit.DisconnectReasonPosix, posix.Reason.Type)
	assert.Equal(t, int(syscall.ECONNRESET), posix.Reason.Errno)
}

func TestParseSyncMode(t *testing.T) {
	mode, err := walletkit.ParseSyncMode("P2P_WITH_API_SYNC")
	require.NoError(t, err)
	assert.Equal(t, walletkit.SyncModeP2PWithAPISync, mode)

	_, err = walletkit.ParseSyncMode("carrier pigeon")
	assert.Error(t, err)
}
