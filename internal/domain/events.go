package domain

import "time"

// Event types
const (
	EventTypeLoanOriginated       = "loan.originated"
	EventTypePaymentRegistered    = "payment.registered"
	EventTypeScheduleRecalculated = "schedule.recalculated"
	EventTypeScheduleImported     = "schedule.imported"
)

// Aggregate types
const (
	AggregateTypeLoan    = "loan"
	AggregateTypePayment = "payment"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// LoanOriginatedEvent payload
type LoanOriginatedEvent struct {
	LoanID       string `json:"loan_id"`
	ClientID     string `json:"client_id"`
	Product      string `json:"product"`
	Amount       string `json:"amount"`
	Installments int    `json:"installments"`
}

// PaymentRegisteredEvent payload
type PaymentRegisteredEvent struct {
	PaymentID         string `json:"payment_id"`
	LoanID            string `json:"loan_id"`
	InstallmentNumber int    `json:"installment_number"`
	Principal         string `json:"principal"`
	Interest          string `json:"interest"`
	Total             string `json:"total"`
	Balance           string `json:"balance"`
}

// ScheduleRecalculatedEvent payload
type ScheduleRecalculatedEvent struct {
	LoanID  string `json:"loan_id"`
	Outcome string `json:"outcome"`
	Balance string `json:"balance"`
	Rows    int    `json:"rows"`
}

// ScheduleImportedEvent payload
type ScheduleImportedEvent struct {
	LoanID string `json:"loan_id"`
	Rows   int    `json:"rows"`
}
