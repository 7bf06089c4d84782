package checkout

// SessionRequest is the payload handed to the payment provider.
type SessionRequest struct {
	Reference   string  `json:"reference"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// Session is the short-lived, single-use provider session.
type Session struct {
	ID         string `json:"id"`
	PaymentURL string `json:"payment_url"`
}

type SubmitResponse struct {
	SessionID  string `json:"session_id"`
	PaymentURL string `json:"payment_url"`
}

// webhookEvent is the slice of the provider event we act on.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}
