package walletkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TransferStateType enumerates the lifecycle of a transfer:
// CREATED → SIGNED → SUBMITTED → {INCLUDED | ERRORED}.
type TransferStateType uint8

const (
	TransferStateCreated TransferStateType = iota
	TransferStateSigned
	TransferStateSubmitted
	TransferStateIncluded
	TransferStateErrored
)

func (t TransferStateType) String() string {
	switch t {
	case TransferStateCreated:
		return "CREATED"
	case TransferStateSigned:
		return "SIGNED"
	case TransferStateSubmitted:
		return "SUBMITTED"
	case TransferStateIncluded:
		return "INCLUDED"
	case TransferStateErrored:
		return "ERRORED"
	}
	return "UNKNOWN"
}

// rank orders states for monotonic updates; both terminal states share a rank.
func (t TransferStateType) rank() int {
	switch t {
	case TransferStateCreated:
		return 0
	case TransferStateSigned:
		return 1
	case TransferStateSubmitted:
		return 2
	}
	return 3
}

// IsTerminal reports whether no further transitions are possible.
func (t TransferStateType) IsTerminal() bool {
	return t == TransferStateIncluded || t == TransferStateErrored
}

// SubmitErrorType classifies why a submission failed.
type SubmitErrorType uint8

const (
	SubmitErrorUnknown SubmitErrorType = iota
	SubmitErrorClient
	SubmitErrorPosix
)

func (t SubmitErrorType) String() string {
	switch t {
	case SubmitErrorClient:
		return "CLIENT"
	case SubmitErrorPosix:
		return "POSIX"
	}
	return "UNKNOWN"
}

// SubmitError describes a failed submission.
type SubmitError struct {
	Type    SubmitErrorType
	Errno   int
	Details string
}

func (e SubmitError) Error() string {
	switch e.Type {
	case SubmitErrorPosix:
		return fmt.Sprintf("submit error %s (errno %d): %s", e.Type, e.Errno, e.Details)
	case SubmitErrorClient:
		return fmt.Sprintf("submit error %s: %s", e.Type, e.Details)
	}
	return "submit error UNKNOWN"
}

// TransferIncluded is the confirmation metadata of an included transfer.
// FeeBasis is borrowed from the transfer that holds the state.
type TransferIncluded struct {
	BlockNumber      uint64
	TransactionIndex uint64
	Timestamp        time.Time
	FeeBasis         *FeeBasis
	Success          bool
	Error            string
}

// TransferState is a transfer state plus the data its type carries.
type TransferState struct {
	typ         TransferStateType
	included    TransferIncluded
	submitError SubmitError
}

func StateCreated() TransferState   { return TransferState{typ: TransferStateCreated} }
func StateSigned() TransferState    { return TransferState{typ: TransferStateSigned} }
func StateSubmitted() TransferState { return TransferState{typ: TransferStateSubmitted} }

// StateIncluded returns an INCLUDED state carrying confirmation metadata.
func StateIncluded(included TransferIncluded) TransferState {
	return TransferState{typ: TransferStateIncluded, included: included}
}

// StateErrored returns an ERRORED state carrying the submission error.
func StateErrored(err SubmitError) TransferState {
	return TransferState{typ: TransferStateErrored, submitError: err}
}

func (s TransferState) Type() TransferStateType { return s.typ }

// Included returns the confirmation metadata of an INCLUDED state.
func (s TransferState) Included() (TransferIncluded, bool) {
	return s.included, s.typ == TransferStateIncluded
}

// SubmitError returns the error of an ERRORED state.
func (s TransferState) SubmitError() (SubmitError, bool) {
	return s.submitError, s.typ == TransferStateErrored
}

// Equal compares state type and carried data.
func (s TransferState) Equal(o TransferState) bool {
	if s.typ != o.typ {
		return false
	}

	switch s.typ {
	case TransferStateIncluded:
		a, b := s.included, o.included
		return a.BlockNumber == b.BlockNumber &&
			a.TransactionIndex == b.TransactionIndex &&
			a.Timestamp.Equal(b.Timestamp) &&
			a.Success == b.Success &&
			a.Error == b.Error &&
			(a.FeeBasis == nil) == (b.FeeBasis == nil) &&
			(a.FeeBasis == nil || a.FeeBasis.Equal(b.FeeBasis))
	case TransferStateErrored:
		return s.submitError == o.submitError
	}
	return true
}

func (s TransferState) String() string {
	switch s.typ {
	case TransferStateIncluded:
		return fmt.Sprintf("INCLUDED(block=%d, index=%d, success=%t)", s.included.BlockNumber, s.included.TransactionIndex, s.included.Success)
	case TransferStateErrored:
		return fmt.Sprintf("ERRORED(%s)", s.submitError.Type)
	}
	return s.typ.String()
}

// TransferStatus is the status a client adapter reports for a transfer.
type TransferStatus uint8

const (
	TransferStatusUnknown TransferStatus = iota
	TransferStatusQueued
	TransferStatusPending
	TransferStatusIncluded
	TransferStatusErrored
)

var transferStatusNames = map[TransferStatus]string{
	TransferStatusUnknown:  "unknown",
	TransferStatusQueued:   "queued",
	TransferStatusPending:  "pending",
	TransferStatusIncluded: "included",
	TransferStatusErrored:  "errored",
}

func (s TransferStatus) String() string {
	if name, ok := transferStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseTransferStatus parses a status name. Blockset names are accepted as aliases.
func ParseTransferStatus(s string) TransferStatus {
	switch strings.ToLower(s) {
	case "queued":
		return TransferStatusQueued
	case "pending", "submitted":
		return TransferStatusPending
	case "included", "confirmed":
		return TransferStatusIncluded
	case "errored", "failed", "rejected", "reverted":
		return TransferStatusErrored
	}
	return TransferStatusUnknown
}

func (s TransferStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TransferStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*s = ParseTransferStatus(name)
	return nil
}

// DeriveTransferState maps a chain-reported status onto a transfer state.
// included carries the confirmation metadata used for INCLUDED.
func DeriveTransferState(status TransferStatus, included TransferIncluded) TransferState {
	switch status {
	case TransferStatusQueued, TransferStatusPending:
		return StateSubmitted()
	case TransferStatusIncluded:
		return StateIncluded(included)
	case TransferStatusErrored:
		return StateErrored(SubmitError{Type: SubmitErrorUnknown, Details: included.Error})
	}
	return StateCreated()
}
