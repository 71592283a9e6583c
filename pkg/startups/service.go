package startups

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"incubator/pkg/apperr"
	"incubator/pkg/notify"
	"incubator/pkg/token"
)

// Notifier delivers a websocket event to one connected user.
type Notifier interface {
	SendTo(userID string, msg notify.Message) error
}

// DecisionMailer emails founders about approval decisions.
type DecisionMailer interface {
	SendDecision(ctx context.Context, to, founderName, startupName string, approved bool) error
}

type Service interface {
	Current(ctx context.Context, identity token.Identity) (StartupProfile, error)
	UpdateOwn(ctx context.Context, identity token.Identity, userID string, upd ProfileUpdate) (StartupProfile, error)
	List(ctx context.Context, approved *bool) ([]StartupProfile, error)
	Approve(ctx context.Context, userID string) (StartupProfile, error)
	Reject(ctx context.Context, userID string) error
}

type service struct {
	repo     Repository
	notifier Notifier
	mailer   DecisionMailer
	logger   logrus.FieldLogger
}

func NewService(repo Repository, notifier Notifier, mailer DecisionMailer, logger logrus.FieldLogger) Service {
	return &service{repo: repo, notifier: notifier, mailer: mailer, logger: logger.WithField("component", "startups")}
}

// Current resolves the caller's startup through token email, founder and profile.
func (s *service) Current(ctx context.Context, identity token.Identity) (StartupProfile, error) {
	if identity == nil || identity.EmailAddress() == "" {
		return StartupProfile{}, apperr.Validation("Email is required")
	}
	userID, err := s.repo.FounderStartupID(ctx, identity.EmailAddress())
	if err != nil {
		if errors.Is(err, ErrFounderNotFound) {
			return StartupProfile{}, apperr.NotFound("Founder not found")
		}
		return StartupProfile{}, fmt.Errorf("lookup founder: %w", err)
	}
	return s.get(ctx, userID)
}

func (s *service) get(ctx context.Context, userID string) (StartupProfile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrStartupNotFound) {
			return StartupProfile{}, apperr.NotFound("Startup not found")
		}
		return StartupProfile{}, fmt.Errorf("get startup: %w", err)
	}
	return p, nil
}

// UpdateOwn applies upd to the founder's own startup. Any other startup is
// Forbidden, whether or not it exists.
func (s *service) UpdateOwn(ctx context.Context, identity token.Identity, userID string, upd ProfileUpdate) (StartupProfile, error) {
	if upd.IsEmpty() {
		return StartupProfile{}, apperr.Validation("No fields provided to update")
	}
	founder, ok := identity.(token.Founder)
	if !ok {
		return StartupProfile{}, apperr.Forbidden()
	}

	ownID, err := s.repo.FounderStartupID(ctx, founder.Email)
	if err != nil {
		if errors.Is(err, ErrFounderNotFound) {
			return StartupProfile{}, apperr.Forbidden()
		}
		return StartupProfile{}, fmt.Errorf("lookup founder: %w", err)
	}
	if ownID != userID {
		return StartupProfile{}, apperr.Forbidden()
	}

	p, err := s.repo.Update(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, ErrStartupNotFound) {
			return StartupProfile{}, apperr.NotFound("Startup not found")
		}
		return StartupProfile{}, fmt.Errorf("update startup: %w", err)
	}
	return p, nil
}

func (s *service) List(ctx context.Context, approved *bool) ([]StartupProfile, error) {
	profiles, err := s.repo.List(ctx, approved)
	if err != nil {
		return nil, fmt.Errorf("list startups: %w", err)
	}
	return profiles, nil
}

// validID reports whether userID can name a startup. Anything else cannot
// exist, so callers answer NotFound without querying.
func validID(userID string) bool {
	_, err := uuid.Parse(userID)
	return err == nil
}

func (s *service) Approve(ctx context.Context, userID string) (StartupProfile, error) {
	if !validID(userID) {
		return StartupProfile{}, apperr.NotFound("Startup not found")
	}
	p, err := s.repo.Approve(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrStartupNotFound) {
			return StartupProfile{}, apperr.NotFound("Startup not found")
		}
		return StartupProfile{}, fmt.Errorf("approve startup: %w", err)
	}
	s.announce(ctx, p, true)
	return p, nil
}

func (s *service) Reject(ctx context.Context, userID string) error {
	if !validID(userID) {
		return apperr.NotFound("Startup not found")
	}
	p, err := s.repo.Delete(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrStartupNotFound) {
			return apperr.NotFound("Startup not found")
		}
		return fmt.Errorf("reject startup: %w", err)
	}
	s.announce(ctx, p, false)
	return nil
}

// announce tells the startup's founders about a decision. Failures are logged only.
func (s *service) announce(ctx context.Context, p StartupProfile, approved bool) {
	contacts, err := s.repo.FounderContacts(ctx, p.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", p.UserID).Warn("could not load founders for decision notice")
		return
	}

	event := notify.EventStartupRejected
	if approved {
		event = notify.EventStartupApproved
	}
	msg := notify.NewMessage(event, notify.StartupDecision{UserID: p.UserID, Name: p.Name})

	for _, c := range contacts {
		if s.notifier != nil {
			if err := s.notifier.SendTo(c.FounderID, msg); err != nil {
				s.logger.WithField("founder_id", c.FounderID).Debug("founder not notified: ", err)
			}
		}
		if s.mailer != nil {
			if err := s.mailer.SendDecision(ctx, c.Email, c.Name, p.Name, approved); err != nil {
				s.logger.WithError(err).WithField("founder_id", c.FounderID).Warn("decision email failed")
			}
		}
	}
}
