package domain

import (
	"errors"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/aggregate"
)

// CustomerStatus is the verification state of a customer
type CustomerStatus string

const (
	// CustomerStatusPendingVerification the customer has not completed identity verification
	CustomerStatusPendingVerification CustomerStatus = "pending_verification"
	// CustomerStatusVerified identity verification succeeded
	CustomerStatusVerified CustomerStatus = "verified"
	// CustomerStatusRejected identity verification was rejected, terminal
	CustomerStatusRejected CustomerStatus = "rejected"
)

var (
	// ErrCustomerAlreadyVerified occurs when verify is called on a verified customer
	ErrCustomerAlreadyVerified = errors.New("customer is already verified")
	// ErrCustomerNotPending occurs when a verification outcome is recorded for a customer that left the pending state
	ErrCustomerNotPending = errors.New("customer is not pending verification")

	// Ensure Customer implements the aggregate.Root interface
	_ aggregate.Root = &Customer{}
)

// Customer is an event-sourced customer record
type Customer struct {
	aggregate.BaseRoot

	name                 string
	email                string
	phone                string
	status               CustomerStatus
	riskLevel            int
	manualReviewRequired bool
}

// NewCustomer registers a new customer pending verification
func NewCustomer(id, name, email, phone string) *Customer {
	customer := &Customer{BaseRoot: aggregate.NewBaseRoot(id)}

	aggregate.RecordThat(customer, CustomerCreatedName, &CustomerCreated{
		Name:  name,
		Email: email,
		Phone: phone,
	})

	return customer
}

// CustomerFromEvents reconstitutes a Customer from its committed event stream
func CustomerFromEvents(events []ledgercore.DomainEvent) (*Customer, error) {
	customer := &Customer{}
	if err := aggregate.Replay(customer, events); err != nil {
		return nil, err
	}

	return customer, nil
}

// Name returns the customer's name
func (c *Customer) Name() string {
	return c.name
}

// Email returns the customer's email address
func (c *Customer) Email() string {
	return c.email
}

// Phone returns the customer's phone number
func (c *Customer) Phone() string {
	return c.phone
}

// Status returns the verification state
func (c *Customer) Status() CustomerStatus {
	return c.status
}

// RiskLevel returns the current risk level
func (c *Customer) RiskLevel() int {
	return c.riskLevel
}

// ManualReviewRequired reports whether a human must review the customer
func (c *Customer) ManualReviewRequired() bool {
	return c.manualReviewRequired
}

// Verify marks the customer's identity as verified. A rejected customer is
// terminal and cannot be verified.
func (c *Customer) Verify() error {
	if c.status == CustomerStatusVerified {
		return ErrCustomerAlreadyVerified
	}
	if c.status == CustomerStatusRejected {
		return ErrCustomerNotPending
	}

	aggregate.RecordThat(c, CustomerVerifiedName, &CustomerVerified{VerificationStatus: "approved"})

	return nil
}

// Reject records a rejected identity verification
func (c *Customer) Reject(reason string) error {
	if c.status != CustomerStatusPendingVerification {
		return ErrCustomerNotPending
	}

	aggregate.RecordThat(c, CustomerRejectedName, &CustomerRejected{Reason: reason})

	return nil
}

// UpdateRiskLevel sets a new risk level. Policy thresholds (auto-block,
// manual-review flagging) are enforced by the orchestrating service, not here.
func (c *Customer) UpdateRiskLevel(newLevel int) {
	aggregate.RecordThat(c, CustomerRiskLevelUpdatedName, &CustomerRiskLevelUpdated{NewRiskLevel: newLevel})
}

// FlagForManualReview marks the customer for human review. Re-flagging is not
// deduplicated; every call records a new event.
func (c *Customer) FlagForManualReview(reason string) {
	aggregate.RecordThat(c, CustomerFlaggedForManualReviewName, &CustomerFlaggedForManualReview{Reason: reason})
}

// Apply changes the state of the Customer
func (c *Customer) Apply(event ledgercore.DomainEvent) {
	switch payload := event.Payload.(type) {
	case *CustomerCreated:
		c.name = payload.Name
		c.email = payload.Email
		c.phone = payload.Phone
		c.status = CustomerStatusPendingVerification
		c.riskLevel = 0
		c.manualReviewRequired = false
	case *CustomerVerified:
		c.status = CustomerStatusVerified
	case *CustomerRejected:
		c.status = CustomerStatusRejected
	case *CustomerRiskLevelUpdated:
		c.riskLevel = payload.NewRiskLevel
	case *CustomerFlaggedForManualReview:
		c.manualReviewRequired = true
	}
}
