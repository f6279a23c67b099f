package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// LedgerEventMessage notifies the report worker that an account's ledger
// changed. It carries identifiers plus the affected calendar month; the
// worker re-reads the ledger itself, so a stale message is harmless.
type LedgerEventMessage struct {
	AccountID string    `json:"account_id"`
	ExpenseID string    `json:"expense_id"`
	Op        string    `json:"op"`
	Year      int       `json:"year"`
	Month     int       `json:"month"` // 1-12
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(accountID, expenseID, op string, year, month int) *LedgerEventMessage {
	return &LedgerEventMessage{
		AccountID: accountID,
		ExpenseID: expenseID,
		Op:        op,
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal ledger event: %w", err)
	}
	if msg.AccountID == "" {
		return nil, fmt.Errorf("ledger event without account id")
	}
	return &msg, nil
}
