package walletkit

// SweeperStatus classifies whether a private key can be swept into a wallet.
type SweeperStatus uint8

const (
	SweeperStatusSuccess SweeperStatus = iota
	SweeperStatusUnsupportedCurrency
	SweeperStatusInvalidKey
	SweeperStatusInvalidArguments
	SweeperStatusInsufficientFunds
	SweeperStatusUnableToSweep
	SweeperStatusNoTransfersFound
	SweeperStatusInvalidSourceWallet
	SweeperStatusIllegalOperation
)

var sweeperStatusNames = [...]string{
	"SUCCESS",
	"UNSUPPORTED_CURRENCY",
	"INVALID_KEY",
	"INVALID_ARGUMENTS",
	"INSUFFICIENT_FUNDS",
	"UNABLE_TO_SWEEP",
	"NO_TRANSFERS_FOUND",
	"INVALID_SOURCE_WALLET",
	"ILLEGAL_OPERATION",
}

func (s SweeperStatus) String() string {
	if int(s) >= len(sweeperStatusNames) {
		return "UNKNOWN"
	}
	return sweeperStatusNames[s]
}

// Err returns nil for SUCCESS and a *SweepError otherwise.
func (s SweeperStatus) Err() error {
	if s == SweeperStatusSuccess {
		return nil
	}
	return &SweepError{Status: s}
}

// SweepError reports a sweeper status other than SUCCESS.
type SweepError struct {
	Status SweeperStatus
}

func (e *SweepError) Error() string {
	return "sweep not possible: " + e.Status.String()
}

func (e *SweepError) Unwrap() error {
	return ErrUnsupportedSweep
}
