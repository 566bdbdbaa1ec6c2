package walletkit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkType(t *testing.T) {
	typ, err := ParseNetworkType(" ETH ")
	require.NoError(t, err)
	assert.Equal(t, NetworkTypeETH, typ)

	_, err = ParseNetworkType("doge")
	assert.ErrorIs(t, err, ErrUnsupportedNetwork)

	assert.False(t, numberOfNetworkTypes.IsValid())
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		name    string
		known   fmt.Stringer
		want    string
		unknown fmt.Stringer
	}{
		{name: "manager state", known: ManagerStateSyncing, want: "SYNCING", unknown: ManagerStateType(200)},
		{name: "disconnect reason", known: DisconnectReasonPosix, want: "POSIX", unknown: DisconnectReasonType(200)},
		{name: "sync mode", known: SyncModeP2POnly, want: "P2P_ONLY", unknown: SyncMode(200)},
		{name: "sync depth", known: SyncDepthFromCreation, want: "FROM_CREATION", unknown: SyncDepth(200)},
		{name: "system event", known: SystemEventManagerAdded, want: "MANAGER_ADDED", unknown: SystemEventType(200)},
		{name: "network event", known: NetworkEventConnectivityChanged, want: "CONNECTIVITY_CHANGED", unknown: NetworkEventType(200)},
		{name: "manager event", known: ManagerEventSyncRecommended, want: "SYNC_RECOMMENDED", unknown: ManagerEventType(200)},
		{name: "wallet event", known: WalletEventTransferSubmitted, want: "TRANSFER_SUBMITTED", unknown: WalletEventType(200)},
		{name: "transfer event", known: TransferEventDeleted, want: "DELETED", unknown: TransferEventType(200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.known.String())
			assert.NotPanics(t, func() {
				assert.Equal(t, "UNKNOWN", tt.unknown.String())
			})
		})
	}
}

func TestRegistry(t *testing.T) {
	complete := func(typ NetworkType) *Handlers {
		return &Handlers{
			Type:     typ,
			Account:  struct{ AccountHandler }{},
			Address:  struct{ AddressHandler }{},
			FeeBasis: testFeeBasisHandler{},
			Transfer: testTransferHandler{},
			Wallet:   struct{ WalletHandler }{},
			Manager:  struct{ ManagerHandler }{},
		}
	}

	t.Run("lookup of registered and unregistered types", func(t *testing.T) {
		r, err := NewRegistry(complete(NetworkTypeETH), complete(NetworkTypeBTC))
		require.NoError(t, err)

		h, err := r.Lookup(NetworkTypeETH)
		require.NoError(t, err)
		assert.Equal(t, NetworkTypeETH, h.Type)

		_, err = r.Lookup(NetworkTypeXTZ)
		assert.ErrorIs(t, err, ErrUnsupportedNetwork)
		assert.ErrorIs(t, err, ErrNotImplemented)

		_, err = r.Lookup(numberOfNetworkTypes)
		assert.ErrorIs(t, err, ErrNotImplemented)

		assert.Equal(t, []NetworkType{NetworkTypeBTC, NetworkTypeETH}, r.Types())
	})

	t.Run("duplicate bundle", func(t *testing.T) {
		_, err := NewRegistry(complete(NetworkTypeETH), complete(NetworkTypeETH))
		assert.Error(t, err)
	})

	t.Run("incomplete bundle", func(t *testing.T) {
		h := complete(NetworkTypeETH)
		h.Manager = nil

		_, err := NewRegistry(h)
		assert.Error(t, err)
	})
}

func TestDeriveDirection(t *testing.T) {
	tests := []struct {
		name           string
		source, target bool
		want           Direction
		wantErr        error
	}{
		{name: "both", source: true, target: true, want: DirectionRecovered},
		{name: "source only", source: true, want: DirectionSent},
		{name: "target only", target: true, want: DirectionReceived},
		{name: "neither", wantErr: ErrDirectionUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveDirection(tt.source, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
