package models

import "github.com/google/uuid"

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,min=3,max=50,nospaces"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// IssueChallengeRequest represents a request to issue a verification code
type IssueChallengeRequest struct {
	Subject       string        `json:"subject" binding:"required,email,max=254"`
	OperationType OperationType `json:"operation_type" binding:"required,optype"`
}

// VerifyCodeRequest represents a code verification attempt
type VerifyCodeRequest struct {
	Subject       string        `json:"subject" binding:"required,email,max=254"`
	OperationType OperationType `json:"operation_type" binding:"required,optype"`
	Code          string        `json:"code" binding:"required,len=6,numeric"`
}

// RedeemRequest represents a request to redeem an operation token.
// Payload fields are operation specific; unused ones stay empty.
type RedeemRequest struct {
	OperationToken string        `json:"operation_token" binding:"required,uuid"`
	OperationType  OperationType `json:"operation_type" binding:"required,optype"`
	NewPassword    string        `json:"new_password,omitempty"`
	Provider       string        `json:"provider,omitempty"`
}

// LinkProviderRequest represents a request to link an external provider
type LinkProviderRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	Provider   string    `json:"provider" binding:"required,max=50"`
	Credential string    `json:"credential" binding:"required"`
}

// UnlinkProviderRequest represents a request to unlink an external
// provider. The operation token identifies the account; unlinking is
// always token gated.
type UnlinkProviderRequest struct {
	Provider       string `json:"provider" binding:"required,max=50"`
	OperationToken string `json:"operation_token" binding:"required,uuid"`
}
