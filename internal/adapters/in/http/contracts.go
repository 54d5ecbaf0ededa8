package http

// Request and response bodies for the public API. All currency amounts are
// minor units; rates are permille integers.

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderRequest creates a new order for a requester.
type CreateOrderRequest struct {
	RequesterID string `json:"requester_id"`
}

// CreateOrderResponse returns the identifier of the created order.
type CreateOrderResponse struct {
	ID string `json:"id"`
}

// ChangeStatusRequest moves an order along the forward graph, or rolls it
// back on the recovery endpoint.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// SubmitApplicationRequest records a helper applying to an open order.
type SubmitApplicationRequest struct {
	HelperID     string  `json:"helper_id"`
	TeamLeaderID *string `json:"team_leader_id,omitempty"`
}

// SubmitApplicationResponse returns the identifier of the recorded application.
type SubmitApplicationResponse struct {
	ID string `json:"id"`
}

// SelectHelperRequest matches a helper to an open order.
type SelectHelperRequest struct {
	HelperID string `json:"helper_id"`
}

// ExtraCostBody is one extra cost line in a closing report.
type ExtraCostBody struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// SubmitClosingRequest records the helper's closing report.
type SubmitClosingRequest struct {
	DeliveredCount  int             `json:"delivered_count"`
	ReturnedCount   int             `json:"returned_count"`
	EtcCount        int             `json:"etc_count"`
	UnitPrice       int64           `json:"unit_price"`
	EtcPricePerUnit int64           `json:"etc_price_per_unit"`
	ExtraCosts      []ExtraCostBody `json:"extra_costs"`
}

// SettlementResponse is the settlement figures answered after closing
// submission and on settlement lookups.
type SettlementResponse struct {
	SettlementID   string `json:"settlement_id"`
	OrderID        string `json:"order_id"`
	HelperID       string `json:"helper_id"`
	SupplyAmount   int64  `json:"supply_amount"`
	VATAmount      int64  `json:"vat_amount"`
	TotalAmount    int64  `json:"total_amount"`
	DepositAmount  int64  `json:"deposit_amount"`
	BalanceAmount  int64  `json:"balance_amount"`
	PlatformFee    int64  `json:"platform_fee"`
	DeductionTotal int64  `json:"deduction_total"`
	NetAmount      int64  `json:"net_amount"`
	Status         string `json:"status"`
}

// PayBalanceResponse reports the amount charged.
type PayBalanceResponse struct {
	BalanceAmount int64 `json:"balance_amount"`
}

// ResolveDisputeRequest closes a dispute review.
type ResolveDisputeRequest struct {
	DisputeID       string `json:"dispute_id"`
	Resolved        bool   `json:"resolved"`
	DeductionAmount int64  `json:"deduction_amount"`
	DeductionReason string `json:"deduction_reason"`
}

// ApplyDeductionRequest charges a deduction against a settlement.
type ApplyDeductionRequest struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason"`
}

// ReverseDeductionRequest undoes a previously applied deduction.
type ReverseDeductionRequest struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
}

// DeductionResponse is one ledger entry. Applied reports whether the call
// changed the ledger; false means the entry already existed.
type DeductionResponse struct {
	EntryID    string `json:"entry_id"`
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason"`
	Applied    bool   `json:"applied"`
	Reversed   bool   `json:"reversed"`
}

// ActiveOrderResponse is one live order row.
type ActiveOrderResponse struct {
	ID          string  `json:"id"`
	RequesterID string  `json:"requester_id"`
	HelperID    *string `json:"helper_id,omitempty"`
	Status      string  `json:"status"`
}

// NextStatusesResponse lists the transitions available from a status.
type NextStatusesResponse struct {
	Status          string   `json:"status"`
	NextStatuses    []string `json:"next_statuses"`
	RecoveryOptions []string `json:"recovery_options"`
	Terminal        bool     `json:"terminal"`
	Unknown         bool     `json:"unknown"`
}
