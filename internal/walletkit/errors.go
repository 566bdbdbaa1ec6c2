package walletkit

import "errors"

var (
	// ErrNotImplemented is returned when a chain's handler bundle does not
	// provide the requested operation.
	ErrNotImplemented = errors.New("operation not implemented for network type")

	// ErrUnsupportedNetwork is returned when no handler bundle is registered
	// for a network type.
	ErrUnsupportedNetwork = errors.New("unsupported network type")

	// ErrConnectorUndefined is returned by every WalletConnector operation on
	// chains without a connector implementation.
	ErrConnectorUndefined = errors.New("wallet connector undefined for network type")

	// ErrDirectionUndefined is returned when an artifact matches neither the
	// source nor the target of the owning account.
	ErrDirectionUndefined = errors.New("transfer direction undefined: account is neither source nor target")

	// ErrInvalidPaperKey is returned when a paper key is not a valid BIP-39 phrase.
	ErrInvalidPaperKey = errors.New("invalid paper key")

	// ErrSignFailed is returned when a chain handler fails to sign a transfer.
	ErrSignFailed = errors.New("transfer signing failed")

	// ErrSerializationWithoutSignature is returned when a serialization that
	// requires a signature is requested for an unsigned transfer.
	ErrSerializationWithoutSignature = errors.New("transfer serialization requires a signature")

	// ErrFeeEstimateUnavailable is returned when a fee basis cannot be estimated.
	ErrFeeEstimateUnavailable = errors.New("fee estimate unavailable")

	// ErrUnsupportedAddressScheme is returned when a chain does not support the
	// requested address scheme.
	ErrUnsupportedAddressScheme = errors.New("unsupported address scheme")

	// ErrUnsupportedCurrency is returned when a currency is not part of the
	// manager's network.
	ErrUnsupportedCurrency = errors.New("currency not supported by network")

	// ErrUnknownWallet is returned when a wallet does not belong to the manager.
	ErrUnknownWallet = errors.New("wallet does not belong to manager")

	// ErrManagerNotConnected is returned by sync requests on a manager whose
	// engine is not connected.
	ErrManagerNotConnected = errors.New("wallet manager not connected")

	// ErrManagerDeleted is returned by operations on a deleted manager.
	ErrManagerDeleted = errors.New("wallet manager deleted")

	// ErrAmountIncompatible is returned when combining amounts of different currencies.
	ErrAmountIncompatible = errors.New("amounts have incompatible currencies")

	// ErrAmountOverflow is returned when amount arithmetic exceeds 256 bits.
	ErrAmountOverflow = errors.New("amount overflow")

	// ErrInvalidAmount is returned when an amount string cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidAddress is returned when an address string cannot be parsed.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrClientUnsupported is returned by client adapters for requests they
	// cannot serve.
	ErrClientUnsupported = errors.New("client does not support request")

	// ErrNoCheckpointFound is returned by checkpoint stores without a saved height.
	ErrNoCheckpointFound = errors.New("no checkpoint found")

	// ErrUnsupportedSweep is wrapped by every SweepError.
	ErrUnsupportedSweep = errors.New("sweep unsupported")

	// ErrSystemDeleted is returned by operations on a deleted system.
	ErrSystemDeleted = errors.New("system deleted")
)
