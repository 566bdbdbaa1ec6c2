package walletkit

import "sync"

// WalletConnector serves external signing requests (dApp style) against a
// manager's account. On chains without a connector every operation fails
// with ErrConnectorUndefined.
type WalletConnector struct {
	manager *WalletManager
	handler ConnectorHandler

	once sync.Once
}

// NewWalletConnector returns a connector holding a reference to m until Close.
func NewWalletConnector(m *WalletManager) *WalletConnector {
	return &WalletConnector{
		manager: m.Take(),
		handler: m.Handlers().Connector,
	}
}

// Manager returns the connector's manager (borrowed).
func (c *WalletConnector) Manager() *WalletManager { return c.manager }

// GetDigest returns the digest to sign for msg, with the chain's message
// prefix prepended when addPrefix is set.
func (c *WalletConnector) GetDigest(msg []byte, addPrefix bool) ([]byte, error) {
	if c.handler == nil {
		return nil, ErrConnectorUndefined
	}
	return c.handler.Digest(c.manager, msg, addPrefix)
}

// Sign signs digest with the account key derived from paperKey.
func (c *WalletConnector) Sign(digest []byte, paperKey string) ([]byte, error) {
	if c.handler == nil {
		return nil, ErrConnectorUndefined
	}

	seed, err := DeriveSeed(paperKey)
	if err != nil {
		return nil, err
	}
	return c.handler.Sign(c.manager, digest, seed)
}

// CreateTransactionFromArguments builds an unsigned transaction from
// chain-specific key/value arguments.
func (c *WalletConnector) CreateTransactionFromArguments(arguments map[string]string) ([]byte, bool, error) {
	if c.handler == nil {
		return nil, false, ErrConnectorUndefined
	}
	return c.handler.CreateTransactionFromArguments(c.manager, arguments)
}

// CreateTransactionFromSerialization decodes data and reports whether it is signed.
func (c *WalletConnector) CreateTransactionFromSerialization(data []byte) ([]byte, bool, error) {
	if c.handler == nil {
		return nil, false, ErrConnectorUndefined
	}
	return c.handler.CreateTransactionFromSerialization(c.manager, data)
}

// Close gives the manager reference back. Later calls do nothing.
func (c *WalletConnector) Close() {
	c.once.Do(c.manager.Give)
}
