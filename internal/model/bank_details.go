package model

import (
	"time"

	"github.com/google/uuid"
)

// BankDetails is the payout account of a doer. AccountNumberSealed is the
// encrypted account number and never leaves the server.
type BankDetails struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	AccountHolderName   string    `json:"account_holder_name"`
	BankName            string    `json:"bank_name"`
	IFSCCode            string    `json:"ifsc_code"`
	AccountNumberSealed []byte    `json:"-"`
	AccountNumberLast4  string    `json:"account_number_last4"`
	UPIID               *string   `json:"upi_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// BankDetailsRequest is the payload for adding payout details.
type BankDetailsRequest struct {
	AccountHolderName string  `json:"account_holder_name" binding:"required,min=2,max=120"`
	BankName          string  `json:"bank_name" binding:"required,min=2,max=120"`
	AccountNumber     string  `json:"account_number" binding:"required,bank_account"`
	IFSCCode          string  `json:"ifsc_code" binding:"required,ifsc"`
	UPIID             *string `json:"upi_id" binding:"omitempty,max=100"`
}
