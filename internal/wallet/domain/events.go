package domain

// Event type tags carried on the wire and used to derive bus destinations.
const (
	EventTypeWalletCreated    = "wallet.created"
	EventTypeFundsAdded       = "funds.added"
	EventTypeFundsWithdrawn   = "funds.withdrawn"
	EventTypeFundsTransferred = "funds.transferred"
)

// WalletCreatedEvent is emitted when a wallet is created.
type WalletCreatedEvent struct {
	EventType     string `json:"event_type"`
	WalletID      string `json:"wallet_id"`
	UserID        string `json:"user_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewWalletCreatedEvent builds a WalletCreatedEvent.
func NewWalletCreatedEvent(walletID, userID, correlationID string) WalletCreatedEvent {
	return WalletCreatedEvent{
		EventType:     EventTypeWalletCreated,
		WalletID:      walletID,
		UserID:        userID,
		CorrelationID: correlationID,
	}
}

// Kind returns the event type tag.
func (e WalletCreatedEvent) Kind() string { return e.EventType }

// Correlation returns the saga correlation id.
func (e WalletCreatedEvent) Correlation() string { return e.CorrelationID }

// FundsAddedEvent is emitted when funds are deposited into a wallet.
type FundsAddedEvent struct {
	EventType     string `json:"event_type"`
	WalletID      string `json:"wallet_id"`
	Amount        string `json:"amount"`
	CorrelationID string `json:"correlation_id"`
}

// NewFundsAddedEvent builds a FundsAddedEvent.
func NewFundsAddedEvent(walletID, amount, correlationID string) FundsAddedEvent {
	return FundsAddedEvent{
		EventType:     EventTypeFundsAdded,
		WalletID:      walletID,
		Amount:        amount,
		CorrelationID: correlationID,
	}
}

// Kind returns the event type tag.
func (e FundsAddedEvent) Kind() string { return e.EventType }

// Correlation returns the saga correlation id.
func (e FundsAddedEvent) Correlation() string { return e.CorrelationID }

// FundsWithdrawnEvent is emitted when funds are withdrawn from a wallet.
type FundsWithdrawnEvent struct {
	EventType     string `json:"event_type"`
	WalletID      string `json:"wallet_id"`
	Amount        string `json:"amount"`
	CorrelationID string `json:"correlation_id"`
}

// NewFundsWithdrawnEvent builds a FundsWithdrawnEvent.
func NewFundsWithdrawnEvent(walletID, amount, correlationID string) FundsWithdrawnEvent {
	return FundsWithdrawnEvent{
		EventType:     EventTypeFundsWithdrawn,
		WalletID:      walletID,
		Amount:        amount,
		CorrelationID: correlationID,
	}
}

// Kind returns the event type tag.
func (e FundsWithdrawnEvent) Kind() string { return e.EventType }

// Correlation returns the saga correlation id.
func (e FundsWithdrawnEvent) Correlation() string { return e.CorrelationID }

// FundsTransferredEvent is emitted when funds move between two wallets.
type FundsTransferredEvent struct {
	EventType     string `json:"event_type"`
	FromWalletID  string `json:"from_wallet_id"`
	ToWalletID    string `json:"to_wallet_id"`
	Amount        string `json:"amount"`
	CorrelationID string `json:"correlation_id"`
}

// NewFundsTransferredEvent builds a FundsTransferredEvent.
func NewFundsTransferredEvent(fromWalletID, toWalletID, amount, correlationID string) FundsTransferredEvent {
	return FundsTransferredEvent{
		EventType:     EventTypeFundsTransferred,
		FromWalletID:  fromWalletID,
		ToWalletID:    toWalletID,
		Amount:        amount,
		CorrelationID: correlationID,
	}
}

// Kind returns the event type tag.
func (e FundsTransferredEvent) Kind() string { return e.EventType }

// Correlation returns the saga correlation id.
func (e FundsTransferredEvent) Correlation() string { return e.CorrelationID }
