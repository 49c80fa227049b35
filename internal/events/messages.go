package events

import (
	"encoding/json"
	"time"
)

// Actions carried by ExpenseEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEvent is a lightweight change notification. It carries only the
// namespace and expense id; consumers fetch the current state from storage.
type ExpenseEvent struct {
	UserID    string    `json:"userId"`
	ExpenseID string    `json:"expenseId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(userID, expenseID, action string) *ExpenseEvent {
	return &ExpenseEvent{
		UserID:    userID,
		ExpenseID: expenseID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
