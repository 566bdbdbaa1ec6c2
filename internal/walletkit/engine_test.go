package walletkit_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gabapcia/walletkit/internal/pkg/resilience/retry"
	"github.com/gabapcia/walletkit/internal/walletkit"
	"github.com/gabapcia/walletkit/internal/walletkit/mocks"
	"github.com/gabapcia/walletkit/internal/walletkit/walletkittest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// waitFor flushes m until the recorder saw kind/typ n times.
func waitFor(t *testing.T, f *walletkittest.Fixture, m *walletkit.WalletManager, kind, typ string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		flush(t, m)
		return f.Recorder.Count(kind, typ) >= n
	}, 2*time.Second, 10*time.Millisecond, "waiting for %s %s", kind, typ)
}

func TestClientEngine_Connect(t *testing.T) {
	idle := walletkit.WithEngineOptions(walletkit.WithSyncPeriod(time.Hour))

	t.Run("syncs from the earliest block and checkpoints", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		client := mocks.NewClient(t)
		checkpoints := mocks.NewCheckpointStore(t)
		m := newManager(t, f, client, idle, walletkit.WithCheckpointStore(checkpoints))
		key := m.StorageKey()

		client.EXPECT().GetBlockNumber(mock.Anything, m.Network()).Return(1200, "0xtip", nil).Once()
		checkpoints.EXPECT().LoadLatestCheckpoint(mock.Anything, key).Return(0, walletkit.ErrNoCheckpointFound).Once()
		client.EXPECT().
			GetTransfers(mock.Anything, m.Network(), []string{f.Address()}, uint64(100), uint64(1201)).
			Return([]walletkit.TransferBundle{walletkittest.Bundle("0xin", "oscar", f.Address(), "70", "")}, nil).
			Once()
		checkpoints.EXPECT().SaveCheckpoint(mock.Anything, key, uint64(1200)).Return(nil).Once()

		require.NoError(t, m.Connect(t.Context()))
		waitFor(t, f, m, "manager", "CHANGED", 3)
		require.NoError(t, m.Disconnect(t.Context()))
		flush(t, m)

		assert.Equal(t, 1, f.Recorder.Count("manager", "SYNC_PROGRESS"))
		assert.Equal(t, uint64(1200), m.Network().Height())
		assert.Equal(t, "0xtip", m.Network().VerifiedBlockHash())

		w := m.Wallet()
		defer w.Give()
		assert.Equal(t, "70", w.Balance().String())

		var states []string
		for _, e := range f.Recorder.Events() {
			if e.Kind == "manager" && e.Type == "CHANGED" {
				states = append(states, e.NewState)
			}
		}
		assert.Equal(t, []string{"CONNECTED", "SYNCING", "CONNECTED", "DISCONNECTED(REQUESTED)"}, states)
		assert.Equal(t, 1, f.Recorder.Count("network", "HEIGHT_UPDATED"))
	})

	t.Run("resumes below the checkpoint", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		client := mocks.NewClient(t)
		checkpoints := mocks.NewCheckpointStore(t)
		m := newManager(t, f, client, idle, walletkit.WithCheckpointStore(checkpoints))

		client.EXPECT().GetBlockNumber(mock.Anything, mock.Anything).Return(1200, "0xtip", nil).Once()
		checkpoints.EXPECT().LoadLatestCheckpoint(mock.Anything, mock.Anything).Return(1100, nil).Once()
		client.EXPECT().
			GetTransfers(mock.Anything, mock.Anything, mock.Anything, uint64(1095), uint64(1201)).
			Return(nil, nil).
			Once()
		checkpoints.EXPECT().SaveCheckpoint(mock.Anything, mock.Anything, uint64(1200)).Return(nil).Once()

		require.NoError(t, m.Connect(t.Context()))
		waitFor(t, f, m, "manager", "SYNC_PROGRESS", 1)
		require.NoError(t, m.Disconnect(t.Context()))
	})

	t.Run("unreachable client", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		client := mocks.NewClient(t)
		m := newManager(t, f, client, idle)

		client.EXPECT().GetBlockNumber(mock.Anything, mock.Anything).Return(0, "", errors.New("connection refused")).Once()

		require.NoError(t, m.Connect(t.Context()))
		waitFor(t, f, m, "network", "CONNECTIVITY_CHANGED", 1)
		require.NoError(t, m.Disconnect(t.Context()))

		assert.Zero(t, f.Recorder.Count("manager", "SYNC_PROGRESS"))
		assert.Equal(t, walletkit.ManagerStateDisconnected, m.State().Type)
	})

	t.Run("failed range recommends a sync", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		client := mocks.NewClient(t)
		m := newManager(t, f, client, idle, walletkit.WithEngineOptions(walletkit.WithRetry(retry.New(retry.WithAttempts(2), retry.WithDelay(time.Millisecond)))))

		client.EXPECT().GetBlockNumber(mock.Anything, mock.Anything).Return(1200, "0xtip", nil).Once()
		client.EXPECT().
			GetTransfers(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("rate limited")).
			Twice()

		require.NoError(t, m.Connect(t.Context()))
		waitFor(t, f, m, "manager", "SYNC_RECOMMENDED", 1)
		require.NoError(t, m.Disconnect(t.Context()))

		assert.Zero(t, f.Recorder.Count("manager", "SYNC_PROGRESS"))
	})

	t.Run("sync from creation rescans everything", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		client := mocks.NewClient(t)
		m := newManager(t, f, client, idle, walletkit.WithEngineOptions(walletkit.WithBlockChunkSize(600)))

		client.EXPECT().GetBlockNumber(mock.Anything, mock.Anything).Return(1200, "0xtip", nil).Twice()
		client.EXPECT().GetTransfers(mock.Anything, mock.Anything, mock.Anything, uint64(100), uint64(700)).Return(nil, nil).Twice()
		client.EXPECT().GetTransfers(mock.Anything, mock.Anything, mock.Anything, uint64(700), uint64(1201)).Return(nil, nil).Twice()

		require.NoError(t, m.Connect(t.Context()))
		waitFor(t, f, m, "manager", "SYNC_PROGRESS", 2)

		require.NoError(t, m.SyncToDepth(t.Context(), walletkit.SyncDepthFromCreation))
		waitFor(t, f, m, "manager", "SYNC_PROGRESS", 4)
		require.NoError(t, m.Disconnect(t.Context()))

		assert.Equal(t, 1, f.Recorder.Count("network", "HEIGHT_UPDATED"))
	})

	t.Run("connect and disconnect are idempotent", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		client := mocks.NewClient(t)
		m := newManager(t, f, client, idle)

		client.EXPECT().GetBlockNumber(mock.Anything, mock.Anything).Return(0, "", errors.New("down")).Maybe()

		require.NoError(t, m.Connect(t.Context()))
		require.NoError(t, m.Connect(t.Context()))
		require.NoError(t, m.Disconnect(t.Context()))
		require.NoError(t, m.Disconnect(t.Context()))
		flush(t, m)

		assert.Equal(t, 2, f.Recorder.Count("manager", "CHANGED"))
	})
}

func TestClientEngine_Disconnect(t *testing.T) {
	t.Run("cancels a range query in flight", func(t *testing.T) {
		f := walletkittest.NewFixture(testType)
		client := mocks.NewClient(t)
		m := newManager(t, f, client, walletkit.WithEngineOptions(walletkit.WithSyncPeriod(time.Hour)))

		started := make(chan struct{})
		client.EXPECT().GetBlockNumber(mock.Anything, mock.Anything).Return(1200, "0xtip", nil).Once()
		client.EXPECT().
			GetTransfers(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			RunAndReturn(func(ctx context.Context, _ *walletkit.Network, _ []string, _, _ uint64) ([]walletkit.TransferBundle, error) {
				close(started)
				<-ctx.Done()
				return nil, ctx.Err()
			}).
			Once()

		require.NoError(t, m.Connect(t.Context()))
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("range query never started")
		}

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()
		require.NoError(t, m.Disconnect(ctx))
		flush(t, m)

		assert.Equal(t, "DISCONNECTED(REQUESTED)", m.State().String())
		assert.Zero(t, f.Recorder.Count("manager", "SYNC_PROGRESS"))
	})
}

func TestClientEngine_ReleasedWithManager(t *testing.T) {
	// Arrange
	f := walletkittest.NewFixture(testType)
	n := walletkittest.NewNetwork(testType, "net-released")
	defer n.Give()

	var polls atomic.Int64
	client := mocks.NewClient(t)
	client.EXPECT().GetBlockNumber(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, *walletkit.Network) (uint64, string, error) {
			polls.Add(1)
			return 0, "", errors.New("down")
		}).
		Maybe()

	m, err := walletkit.NewWalletManager(t.Context(), f.ManagerConfig(n, client),
		walletkit.WithEngineOptions(walletkit.WithSyncPeriod(5*time.Millisecond)))
	require.NoError(t, err)
	dispatcher := m.Dispatcher()

	require.NoError(t, m.Connect(t.Context()))
	require.Eventually(t, func() bool { return polls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	// Act
	m.Give()

	// Assert
	select {
	case <-dispatcher.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("manager was not released")
	}

	after := polls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, polls.Load())
}
