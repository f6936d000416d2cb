package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ThrottledResponse represents a rate-limited response. RetryAfter is
// the number of seconds the caller should wait before retrying.
type ThrottledResponse struct {
	Error      string `json:"error" example:"rate limit exceeded"`
	RetryAfter int    `json:"retry_after" example:"300"`
}

// AcceptedResponse represents the uniform acknowledgement returned by
// challenge issuance. It never reveals whether the subject exists.
type AcceptedResponse struct {
	Accepted bool `json:"accepted" example:"true"`
}

// VerifyCodeResponse carries a freshly minted operation token
type VerifyCodeResponse struct {
	OperationToken   string `json:"operation_token" example:"8f14e45f-ceea-467f-a8db-8c23a7d1b4f0"`
	ExpiresInSeconds int    `json:"expires_in_seconds" example:"600"`
}

// RedeemResponse represents the outcome of a redeemed operation
type RedeemResponse struct {
	Result string `json:"result" example:"password_changed"`
}

// LinkResponse confirms a provider link
type LinkResponse struct {
	Linked bool `json:"linked" example:"true"`
}

// UnlinkResponse confirms a provider unlink
type UnlinkResponse struct {
	Unlinked bool `json:"unlinked" example:"true"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}
