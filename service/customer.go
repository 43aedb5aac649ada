package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/config"
	"github.com/meridianbank/ledgercore/domain"
	"github.com/meridianbank/ledgercore/provider"
)

// CustomerService registers customers and drives identity verification and
// the risk policy
type CustomerService struct {
	store  ledgercore.EventStore
	bus    ledgercore.EventBus
	kyc    provider.KYC
	cfg    config.Config
	logger ledgercore.Logger
}

// NewCustomerService returns a new CustomerService. The kyc provider may be
// nil when the integration is disabled; verification then succeeds without
// an external check.
func NewCustomerService(
	store ledgercore.EventStore,
	bus ledgercore.EventBus,
	kyc provider.KYC,
	cfg config.Config,
	logger ledgercore.Logger,
) (*CustomerService, error) {
	switch {
	case store == nil:
		return nil, ledgercore.InvalidArgumentError("store")
	case bus == nil:
		return nil, ledgercore.InvalidArgumentError("bus")
	}
	if logger == nil {
		logger = ledgercore.NopLogger
	}

	return &CustomerService{
		store:  store,
		bus:    bus,
		kyc:    kyc,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// CreateCustomer registers a customer pending verification. The email must
// not be in use by another customer.
func (s *CustomerService) CreateCustomer(ctx context.Context, name, email, phone string) (*domain.Customer, error) {
	ids, err := s.store.LookupAggregateIDs(ctx, domain.CustomerCreatedName, "email", email)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	}

	customer := domain.NewCustomer(uuid.NewString(), name, email, phone)
	customer.UpdateRiskLevel(s.cfg.Risk.DefaultCustomerRiskLevel)

	if err := saveAndPublish(ctx, s.store, s.bus, customer); err != nil {
		return nil, err
	}

	s.logger.WithFields(ledgercore.Fields{
		"customer_id": customer.AggregateID(),
		"email":       email,
	}).Info("customer created")

	return customer, nil
}

// VerifyCustomer runs identity verification for a customer. When KYC is
// required and a provider is configured, a rejected outcome records the
// rejection on the customer and is returned as a VerificationFailedError; a
// pending outcome records nothing and is also returned as an error.
func (s *CustomerService) VerifyCustomer(ctx context.Context, customerID string, documents map[string]string) (*domain.Customer, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if s.cfg.Compliance.KYCRequired && s.kyc != nil {
		result, err := s.kyc.VerifyIdentity(ctx, customerID, documents)
		if err != nil {
			return nil, fmt.Errorf("identity verification: %w", err)
		}

		switch result.Status {
		case provider.VerificationApproved:
		case provider.VerificationRejected:
			if err := customer.Reject(fmt.Sprintf("identity verification rejected (%s)", result.VerificationID)); err != nil {
				return nil, err
			}
			if err := saveAndPublish(ctx, s.store, s.bus, customer); err != nil {
				return nil, err
			}
			return nil, &VerificationFailedError{CustomerID: customerID, Status: result.Status}
		default:
			return nil, &VerificationFailedError{CustomerID: customerID, Status: result.Status}
		}
	}

	if err := customer.Verify(); err != nil {
		return nil, err
	}
	if err := saveAndPublish(ctx, s.store, s.bus, customer); err != nil {
		return nil, err
	}

	s.logger.WithField("customer_id", customerID).Info("customer verified")

	return customer, nil
}

// UpdateRiskLevel applies the risk policy to a new level: a level at or
// above the block threshold is rejected outright, one at or above the manual
// review threshold is recorded together with a manual review flag.
func (s *CustomerService) UpdateRiskLevel(ctx context.Context, customerID string, newLevel int) (*domain.Customer, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if newLevel >= s.cfg.Risk.BlockThreshold {
		return nil, fmt.Errorf("%w: %d", ErrRiskLevelBlocked, newLevel)
	}

	customer.UpdateRiskLevel(newLevel)
	if newLevel >= s.cfg.Risk.ManualReviewThreshold {
		customer.FlagForManualReview(fmt.Sprintf("risk level %d reached the manual review threshold", newLevel))
	}

	if err := saveAndPublish(ctx, s.store, s.bus, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer loads a customer by id
func (s *CustomerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	events, err := s.store.ReadStream(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ledgercore.ErrAggregateNotFound
	}

	return domain.CustomerFromEvents(events)
}

// FindCustomerByEmail loads the customer registered with the given email
func (s *CustomerService) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	ids, err := s.store.LookupAggregateIDs(ctx, domain.CustomerCreatedName, "email", email)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ledgercore.ErrAggregateNotFound
	}

	return s.GetCustomer(ctx, ids[0])
}
