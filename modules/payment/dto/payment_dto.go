package dto

// ConnectAccountRequest registers the host's Stripe account.
type ConnectAccountRequest struct {
	AccountID string `json:"account_id"`
}
