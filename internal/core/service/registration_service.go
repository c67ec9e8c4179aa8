package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studiohub/onboarding-system/internal/pkg/metrics"
	"github.com/studiohub/onboarding-system/internal/core/domain"
	"github.com/studiohub/onboarding-system/internal/core/ports"
)

const defaultTrialDays = 7

// RegistrationService runs the onboarding saga: uniqueness pre-checks, the
// mandatory identity and row-insert steps with reverse-order compensation, and
// the best-effort enrichment and billing steps. The service is stateless and
// safe to use concurrently for distinct requests.
type RegistrationService struct {
	store     ports.RegistrationStore
	identity  ports.IdentityProvider
	resolver  ports.AddressResolver // nil disables enrichment
	billing   ports.BillingGateway  // nil disables billing
	planID    string
	trialDays int
	logger    zerolog.Logger
}

// Option configures optional collaborators of the RegistrationService.
type Option func(*RegistrationService)

// WithAddressResolver enables the postal-code enrichment step.
func WithAddressResolver(r ports.AddressResolver) Option {
	return func(s *RegistrationService) {
		s.resolver = r
	}
}

// WithBilling enables the billing step using the given subscription plan.
func WithBilling(g ports.BillingGateway, planID string, trialDays int) Option {
	return func(s *RegistrationService) {
		s.billing = g
		s.planID = planID
		if trialDays > 0 {
			s.trialDays = trialDays
		}
	}
}

func NewRegistrationService(store ports.RegistrationStore, identity ports.IdentityProvider, logger zerolog.Logger, opts ...Option) *RegistrationService {
	s := &RegistrationService{
		store:     store,
		identity:  identity,
		trialDays: defaultTrialDays,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// compensation is one undo action pushed after a mandatory step commits.
type compensation struct {
	step string
	undo func(ctx context.Context) error
}

// Register drives one registration saga to a terminal outcome. A nil error
// guarantees every mandatory step committed; a non-nil error guarantees every
// mandatory step that had committed was compensated before returning.
func (s *RegistrationService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegistrationResult, error) {
	start := time.Now()
	outcome := "persistence_error"
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(string(input.Kind), outcome).Inc()
		metrics.RegistrationDuration.WithLabelValues(string(input.Kind)).Observe(time.Since(start).Seconds())
	}()

	reg := toRegistration(input)
	reg.Normalize()

	spec, ok := kindSpecs[reg.Kind]
	if !ok {
		outcome = "validation_rejected"
		return nil, &domain.ValidationError{Fields: []string{"kind"}}
	}
	if missing := missingFields(reg, spec); len(missing) > 0 {
		outcome = "validation_rejected"
		return nil, &domain.ValidationError{Fields: missing}
	}

	if err := s.checkUniqueness(ctx, reg, spec); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrFiscalIDTaken) {
			outcome = "duplicate"
		}
		return nil, err
	}

	// Enrichment runs before any row is written so the stored address (and the
	// customer record billing creates from it) reflects the resolved values.
	if spec.enrichable && s.resolver != nil && domain.ValidPostalCode(reg.Address.PostalCode) {
		s.enrich(ctx, reg)
	}

	identity, err := s.identity.CreateIdentity(ctx, reg.Email, reg.Password)
	if err != nil {
		outcome = "identity_error"
		s.logger.Error().Err(err).Str("kind", string(reg.Kind)).Msg("identity creation failed")
		return nil, fmt.Errorf("create identity: %w", err)
	}

	now := time.Now().UTC()
	var stack []compensation
	stack = append(stack, compensation{
		step: "identity",
		undo: func(ctx context.Context) error { return s.identity.DeleteIdentity(ctx, identity.ID) },
	})

	if err := s.store.InsertUser(ctx, ports.UserRow{
		ID:        identity.ID,
		Email:     reg.Email,
		Role:      string(reg.Kind),
		CreatedAt: now,
	}); err != nil {
		s.abort(ctx, stack, reg, "insert user row", err)
		if errors.Is(err, domain.ErrEmailTaken) {
			outcome = "duplicate"
		}
		return nil, fmt.Errorf("insert user row: %w", err)
	}
	stack = append(stack, compensation{
		step: "user_row",
		undo: func(ctx context.Context) error { return s.store.DeleteRow(ctx, ports.CollectionUsers, identity.ID) },
	})

	profileID := uuid.NewString()
	row := buildProfileRow(reg, spec, identity.ID, profileID, now, s.trialDays)
	if err := s.store.InsertProfile(ctx, spec.collection, row); err != nil {
		s.abort(ctx, stack, reg, "insert profile row", err)
		if errors.Is(err, domain.ErrFiscalIDTaken) {
			outcome = "duplicate"
		}
		return nil, fmt.Errorf("insert profile row: %w", err)
	}
	stack = append(stack, compensation{
		step: "profile_row",
		undo: func(ctx context.Context) error { return s.store.DeleteRow(ctx, spec.collection, profileID) },
	})

	if spec.separateAddressRow {
		if err := s.store.InsertAddress(ctx, ports.AddressRow{
			UserID:  identity.ID,
			Address: reg.Address,
		}); err != nil {
			s.abort(ctx, stack, reg, "insert address row", err)
			return nil, fmt.Errorf("insert address row: %w", err)
		}
	}

	if spec.billable && s.billing != nil {
		s.provisionBilling(ctx, reg, spec, profileID, row.TrialEndsAt)
	}

	outcome = "success"
	s.logger.Info().
		Str("kind", string(reg.Kind)).
		Str("user_id", identity.ID).
		Str("profile_id", profileID).
		Msg("registration completed")

	return &ports.RegistrationResult{UserID: identity.ID, ProfileID: profileID}, nil
}

// checkUniqueness runs the pre-flight duplicate checks. A guard query error is
// surfaced as an internal error, never treated as "no duplicate".
func (s *RegistrationService) checkUniqueness(ctx context.Context, reg *domain.Registration, spec kindSpec) error {
	taken, err := s.store.ExistsActive(ctx, ports.CollectionUsers, "email", reg.Email)
	if err != nil {
		return fmt.Errorf("check email uniqueness: %w", err)
	}
	if taken {
		return domain.ErrEmailTaken
	}

	if spec.fiscalUnique {
		taken, err := s.store.ExistsActive(ctx, spec.collection, "fiscal_id", reg.FiscalID)
		if err != nil {
			return fmt.Errorf("check fiscal id uniqueness: %w", err)
		}
		if taken {
			return domain.ErrFiscalIDTaken
		}
	}
	return nil
}

// enrich resolves the postal code and overwrites the submitted address with
// the result. Failure keeps the submitted values and never aborts the saga.
func (s *RegistrationService) enrich(ctx context.Context, reg *domain.Registration) {
	resolved, err := s.resolver.Resolve(ctx, reg.Address.PostalCode)
	if err != nil {
		metrics.EnrichmentLookupsTotal.WithLabelValues("unavailable").Inc()
		s.logger.Warn().Err(err).
			Str("postal_code", reg.Address.PostalCode).
			Msg("postal-code lookup failed, keeping submitted address")
		return
	}
	reg.Address.Apply(resolved)
	metrics.EnrichmentLookupsTotal.WithLabelValues("resolved").Inc()
}

// provisionBilling creates a billing customer and subscription and attaches
// the identifiers to the profile row. Every failure is logged and swallowed:
// billing never changes a successful registration into a failure.
func (s *RegistrationService) provisionBilling(ctx context.Context, reg *domain.Registration, spec kindSpec, profileID string, trialEnd time.Time) {
	customerID, err := s.billing.CreateCustomer(ctx, ports.CustomerInput{
		Name:       reg.Name,
		Email:      reg.Email,
		Phone:      reg.Phone,
		FiscalID:   reg.FiscalID,
		PostalCode: reg.Address.PostalCode,
		City:       reg.Address.City,
		Region:     reg.Address.Region,
	})
	if err != nil {
		metrics.BillingRequestsTotal.WithLabelValues("create_customer", "failed").Inc()
		s.logger.Warn().Err(err).Str("profile_id", profileID).Msg("billing customer creation failed, proceeding without billing")
		return
	}
	metrics.BillingRequestsTotal.WithLabelValues("create_customer", "ok").Inc()

	account, err := s.billing.CreateSubscription(ctx, customerID, ports.SubscriptionInput{
		PlanID:      s.planID,
		NextDueDate: trialEnd,
	})
	if err != nil {
		metrics.BillingRequestsTotal.WithLabelValues("create_subscription", "failed").Inc()
		s.logger.Warn().Err(err).Str("customer_id", customerID).Msg("subscription creation failed, proceeding without billing")
		return
	}
	metrics.BillingRequestsTotal.WithLabelValues("create_subscription", "ok").Inc()

	account.CustomerID = customerID
	if account.Status == "" {
		account.Status = domain.SubscriptionTrial
	}
	if account.NextDueDate.IsZero() {
		account.NextDueDate = trialEnd
	}

	if err := s.store.AttachBilling(ctx, spec.collection, profileID, *account); err != nil {
		metrics.BillingRequestsTotal.WithLabelValues("attach", "failed").Inc()
		s.logger.Warn().Err(err).Str("profile_id", profileID).Msg("failed to attach billing account to profile")
		return
	}
	metrics.BillingRequestsTotal.WithLabelValues("attach", "ok").Inc()
}

// abort logs the terminal failure and runs every pushed compensation, most
// recent first. Compensations run on a context detached from the caller's so
// cleanup completes even when the request was abandoned, and a failing
// compensation never stops the remaining ones.
func (s *RegistrationService) abort(ctx context.Context, stack []compensation, reg *domain.Registration, step string, cause error) {
	s.logger.Error().Err(cause).
		Str("kind", string(reg.Kind)).
		Str("failed_step", step).
		Int("compensations", len(stack)).
		Msg("mandatory step failed, compensating")

	ctx = context.WithoutCancel(ctx)
	for i := len(stack) - 1; i >= 0; i-- {
		c := stack[i]
		if err := c.undo(ctx); err != nil {
			metrics.CompensationsTotal.WithLabelValues(c.step, "failed").Inc()
			s.logger.Error().Err(err).Str("step", c.step).Msg("compensation failed")
			continue
		}
		metrics.CompensationsTotal.WithLabelValues(c.step, "ok").Inc()
	}
}

func toRegistration(in ports.RegisterInput) *domain.Registration {
	return &domain.Registration{
		Kind:       in.Kind,
		Email:      in.Email,
		Password:   in.Password,
		Name:       in.Name,
		Phone:      in.Phone,
		FiscalID:   in.FiscalID,
		LegalName:  in.LegalName,
		ArtistType: in.ArtistType,
		ImageURL:   in.ImageURL,
		Address: domain.Address{
			PostalCode: in.Address.PostalCode,
			Street:     in.Address.Street,
			Number:     in.Address.Number,
			Complement: in.Address.Complement,
			District:   in.Address.District,
			City:       in.Address.City,
			Region:     in.Address.Region,
			Coordinates: domain.Coordinates{
				Lat: in.Address.Lat,
				Lng: in.Address.Lng,
			},
		},
	}
}

func buildProfileRow(reg *domain.Registration, spec kindSpec, userID, profileID string, now time.Time, trialDays int) ports.ProfileRow {
	row := ports.ProfileRow{
		ID:         profileID,
		UserID:     userID,
		Kind:       reg.Kind,
		Name:       reg.Name,
		Email:      reg.Email,
		Phone:      reg.Phone,
		FiscalID:   reg.FiscalID,
		LegalName:  reg.LegalName,
		ArtistType: reg.ArtistType,
		ImageURL:   reg.ImageURL,
		CreatedAt:  now,
	}
	if !spec.separateAddressRow {
		addr := reg.Address
		row.Address = &addr
	}
	if spec.billable {
		row.SubscriptionStatus = domain.SubscriptionTrial
		row.TrialEndsAt = now.AddDate(0, 0, trialDays)
	}
	return row
}
