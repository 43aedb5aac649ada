package domain

const (
	// CustomerCreatedName is the event name for CustomerCreated
	CustomerCreatedName = "customer.created"
	// CustomerVerifiedName is the event name for CustomerVerified
	CustomerVerifiedName = "customer.verified"
	// CustomerRejectedName is the event name for CustomerRejected
	CustomerRejectedName = "customer.rejected"
	// CustomerRiskLevelUpdatedName is the event name for CustomerRiskLevelUpdated
	CustomerRiskLevelUpdatedName = "customer.risk_level_updated"
	// CustomerFlaggedForManualReviewName is the event name for CustomerFlaggedForManualReview
	CustomerFlaggedForManualReviewName = "customer.flagged_for_manual_review"
)

type (
	// CustomerCreated a DomainEvent indicating that a customer was registered
	CustomerCreated struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}

	// CustomerVerified a DomainEvent indicating that identity verification succeeded
	CustomerVerified struct {
		VerificationStatus string `json:"verificationStatus"`
	}

	// CustomerRejected a DomainEvent indicating that identity verification was rejected
	CustomerRejected struct {
		Reason string `json:"reason"`
	}

	// CustomerRiskLevelUpdated a DomainEvent indicating a new risk level
	CustomerRiskLevelUpdated struct {
		NewRiskLevel int `json:"newRiskLevel"`
	}

	// CustomerFlaggedForManualReview a DomainEvent indicating that a human must review the customer
	CustomerFlaggedForManualReview struct {
		Reason string `json:"reason"`
	}
)
