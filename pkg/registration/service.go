package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"incubator/pkg/apperr"
	"incubator/pkg/auth"
	"incubator/pkg/notify"
	"incubator/pkg/startups"
	"incubator/pkg/token"
)

const (
	msgFounderExists  = "Founder with this email already exists"
	msgCredentialsSet = "Login credentials created automatically"
)

// Broadcaster fans an event out to every connected user with a role.
type Broadcaster interface {
	Broadcast(role token.Role, msg notify.Message) int
}

type ConfirmationMailer interface {
	SendRegistrationConfirmation(ctx context.Context, to, founderName, startupName string) error
}

type Service interface {
	Register(ctx context.Context, p Payload) (Result, error)
}

type service struct {
	store       Store
	broadcaster Broadcaster
	mailer      ConfirmationMailer
	logger      logrus.FieldLogger
}

func NewService(store Store, broadcaster Broadcaster, mailer ConfirmationMailer, logger logrus.FieldLogger) Service {
	return &service{store: store, broadcaster: broadcaster, mailer: mailer, logger: logger.WithField("component", "registration")}
}

func (s *service) Register(ctx context.Context, p Payload) (Result, error) {
	if !p.hasRequired() {
		return Result{}, apperr.Validation(missingFieldsMessage)
	}
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))

	exists, err := s.store.FounderExists(ctx, p.Email)
	if err != nil {
		return Result{}, fmt.Errorf("lookup founder: %w", err)
	}
	if exists {
		return Result{}, apperr.DuplicateEmail(msgFounderExists)
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return Result{}, err
	}

	app := Application{
		Profile: startups.StartupProfile{
			UserID:                   uuid.NewString(),
			Name:                     p.Name,
			EntityName:               p.EntityName,
			Sector:                   p.Sector,
			Categories:               p.Categories,
			Year:                     p.Year,
			BrandName:                p.BrandName,
			EntityRegistrationStatus: p.EntityRegistrationStatus,
			Stage:                    p.Stage,
			DetailsText:              p.DetailsText,
			Size:                     p.Size,
			IncubationStatus:         p.IncubationStatus,
			StartupIndiaRegister:     p.StartupIndiaRegister,
		},
		Founder: auth.Founder{
			FounderID:    uuid.NewString(),
			Name:         p.FounderName,
			Designation:  optional(p.Designation),
			Mobile:       optional(p.Mobile),
			Address:      optional(p.Address),
			Equity:       p.Equity,
			Email:        p.Email,
			PasswordHash: hash,
		},
		Payload: p,
	}

	profile, founder, err := s.store.Create(ctx, app)
	if err != nil {
		switch {
		case errors.Is(err, ErrFounderEmailTaken):
			return Result{}, apperr.DuplicateEmail(msgFounderExists)
		case errors.Is(err, ErrDuplicateRecord):
			return Result{}, apperr.Validation("Registration number or document number already registered")
		case errors.Is(err, ErrValueOutOfRange):
			return Result{}, apperr.Validation("Numeric field value is too large")
		}
		return Result{}, fmt.Errorf("create registration: %w", err)
	}

	s.afterCommit(ctx, profile, founder)

	return Result{
		Startup: profile,
		Founder: FounderSummary{Email: founder.Email, Name: founder.Name, Message: msgCredentialsSet},
	}, nil
}

// afterCommit runs best-effort side effects. They never fail the request.
func (s *service) afterCommit(ctx context.Context, profile startups.StartupProfile, founder auth.Founder) {
	if s.mailer != nil {
		if err := s.mailer.SendRegistrationConfirmation(ctx, founder.Email, founder.Name, profile.Name); err != nil {
			s.logger.WithError(err).WithField("user_id", profile.UserID).Warn("registration confirmation email failed")
		}
	}
	if s.broadcaster != nil {
		n := s.broadcaster.Broadcast(token.RoleAdmin, notify.NewMessage(notify.EventStartupRegistered, profile))
		s.logger.WithFields(logrus.Fields{"user_id": profile.UserID, "admins_notified": n}).Info("startup registered")
	}
}

func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
