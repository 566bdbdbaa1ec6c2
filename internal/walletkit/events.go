package walletkit

import "time"

// SystemEventType enumerates system events.
type SystemEventType uint8

const (
	SystemEventCreated SystemEventType = iota
	SystemEventChanged
	SystemEventDeleted
	SystemEventNetworkAdded
	SystemEventManagerAdded
)

var systemEventNames = [...]string{"CREATED", "CHANGED", "DELETED", "NETWORK_ADDED", "MANAGER_ADDED"}

func (t SystemEventType) String() string {
	if int(t) >= len(systemEventNames) {
		return "UNKNOWN"
	}
	return systemEventNames[t]
}

// SystemEvent is delivered through Listener.HandleSystemEvent. Network and
// Manager are taken references for the ADDED events.
type SystemEvent struct {
	Type     SystemEventType
	OldState SystemState
	NewState SystemState
	Network  *Network
	Manager  *WalletManager
}

// Give returns the references carried by the event.
func (e SystemEvent) Give() {
	if e.Network != nil {
		e.Network.Give()
	}
	if e.Manager != nil {
		e.Manager.Give()
	}
}

// NetworkEventType enumerates network events.
type NetworkEventType uint8

const (
	NetworkEventCreated NetworkEventType = iota
	NetworkEventFeesUpdated
	NetworkEventHeightUpdated
	NetworkEventConnectivityChanged
	NetworkEventDeleted
)

var networkEventNames = [...]string{"CREATED", "FEES_UPDATED", "HEIGHT_UPDATED", "CONNECTIVITY_CHANGED", "DELETED"}

func (t NetworkEventType) String() string {
	if int(t) >= len(networkEventNames) {
		return "UNKNOWN"
	}
	return networkEventNames[t]
}

// NetworkEvent is delivered through Listener.HandleNetworkEvent.
type NetworkEvent struct {
	Type      NetworkEventType
	Height    uint64
	Reachable bool
}

// ManagerEventType enumerates wallet manager events.
type ManagerEventType uint8

const (
	ManagerEventCreated ManagerEventType = iota
	ManagerEventChanged
	ManagerEventDeleted
	ManagerEventWalletAdded
	ManagerEventWalletChanged
	ManagerEventWalletDeleted
	ManagerEventSyncProgress
	ManagerEventSyncRecommended
)

var managerEventNames = [...]string{
	"CREATED", "CHANGED", "DELETED",
	"WALLET_ADDED", "WALLET_CHANGED", "WALLET_DELETED",
	"SYNC_PROGRESS", "SYNC_RECOMMENDED",
}

func (t ManagerEventType) String() string {
	if int(t) >= len(managerEventNames) {
		return "UNKNOWN"
	}
	return managerEventNames[t]
}

// SyncProgress reports how far a sync pass has advanced.
type SyncProgress struct {
	Timestamp       time.Time
	PercentComplete float64
}

// ManagerEvent is delivered through Listener.HandleManagerEvent. Wallet is a
// taken reference for the WALLET_* events.
type ManagerEvent struct {
	Type         ManagerEventType
	OldState     ManagerState
	NewState     ManagerState
	Wallet       *Wallet
	SyncProgress SyncProgress
	SyncDepth    SyncDepth
}

// Give returns the references carried by the event.
func (e ManagerEvent) Give() {
	if e.Wallet != nil {
		e.Wallet.Give()
	}
}

// WalletEventType enumerates wallet events.
type WalletEventType uint8

const (
	WalletEventCreated WalletEventType = iota
	WalletEventChanged
	WalletEventDeleted
	WalletEventTransferAdded
	WalletEventTransferChanged
	WalletEventTransferDeleted
	WalletEventBalanceUpdated
	WalletEventFeeBasisUpdated
	WalletEventTransferSubmitted
)

var walletEventNames = [...]string{
	"CREATED", "CHANGED", "DELETED",
	"TRANSFER_ADDED", "TRANSFER_CHANGED", "TRANSFER_DELETED",
	"BALANCE_UPDATED", "FEE_BASIS_UPDATED", "TRANSFER_SUBMITTED",
}

func (t WalletEventType) String() string {
	if int(t) >= len(walletEventNames) {
		return "UNKNOWN"
	}
	return walletEventNames[t]
}

// WalletEvent is delivered through Listener.HandleWalletEvent. Transfer and
// FeeBasis are taken references when set.
type WalletEvent struct {
	Type     WalletEventType
	OldState WalletState
	NewState WalletState
	Transfer *Transfer
	Balance  Amount
	FeeBasis *FeeBasis
}

// Give returns the references carried by the event.
func (e WalletEvent) Give() {
	if e.Transfer != nil {
		e.Transfer.Give()
	}
	if e.FeeBasis != nil {
		e.FeeBasis.Give()
	}
}

// TransferEventType enumerates transfer events.
type TransferEventType uint8

const (
	TransferEventCreated TransferEventType = iota
	TransferEventChanged
	TransferEventDeleted
)

var transferEventNames = [...]string{"CREATED", "CHANGED", "DELETED"}

func (t TransferEventType) String() string {
	if int(t) >= len(transferEventNames) {
		return "UNKNOWN"
	}
	return transferEventNames[t]
}

// TransferEvent is delivered through Listener.HandleTransferEvent.
type TransferEvent struct {
	Type     TransferEventType
	OldState TransferState
	NewState TransferState
}
