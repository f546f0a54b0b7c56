package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Loan struct {
	ID             string             `json:"id"`
	ClientID       string             `json:"client_id"`
	IntermediaryID pgtype.Text        `json:"intermediary_id"`
	GuarantorID    pgtype.Text        `json:"guarantor_id"`
	Product        string             `json:"product"`
	Cadence        string             `json:"cadence"`
	InterestRate   pgtype.Numeric     `json:"interest_rate"`
	Amount         pgtype.Numeric     `json:"amount"`
	Balance        pgtype.Numeric     `json:"balance"`
	Term           int32              `json:"term"`
	StartDate      pgtype.Date        `json:"start_date"`
	EndDate        pgtype.Date        `json:"end_date"`
	Version        int64              `json:"version"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type LoanInvestor struct {
	LoanID         string         `json:"loan_id"`
	InvestorID     string         `json:"investor_id"`
	AmountInvested pgtype.Numeric `json:"amount_invested"`
	InvestorShare  pgtype.Numeric `json:"investor_share"`
	AdminShare     pgtype.Numeric `json:"admin_share"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	Published     bool               `json:"published"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
}

type Payment struct {
	ID                string             `json:"id"`
	LoanID            string             `json:"loan_id"`
	InstallmentNumber int32              `json:"installment_number"`
	Method            string             `json:"method"`
	PaidAt            pgtype.Date        `json:"paid_at"`
	Principal         pgtype.Numeric     `json:"principal"`
	Interest          pgtype.Numeric     `json:"interest"`
	Total             pgtype.Numeric     `json:"total"`
	CreatedAt         pgtype.Timestamptz `json:"created_at"`
}

type ScheduleRow struct {
	ID             string             `json:"id"`
	LoanID         string             `json:"loan_id"`
	Number         int32              `json:"number"`
	DueDate        pgtype.Date        `json:"due_date"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	Principal      pgtype.Numeric     `json:"principal"`
	Interest       pgtype.Numeric     `json:"interest"`
	Total          pgtype.Numeric     `json:"total"`
	ClosingBalance pgtype.Numeric     `json:"closing_balance"`
	Status         string             `json:"status"`
	PaymentID      pgtype.Text        `json:"payment_id"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}
