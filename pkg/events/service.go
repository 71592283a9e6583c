package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"incubator/pkg/apperr"
)

type Service interface {
	AddEvent(ctx context.Context, name, posterLink, date, description string) (Event, error)
	UpdateEvent(ctx context.Context, id int64, name, posterLink, date, description string) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	Register(ctx context.Context, eventID int64, name, number, email string) (Registration, error)
	RegistrationsForEvent(ctx context.Context, eventID int64) ([]Registration, error)
	RegistrationsForEmail(ctx context.Context, email string) ([]Registration, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps and the date forms sent by HTML inputs.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func (s *service) AddEvent(ctx context.Context, name, posterLink, date, description string) (Event, error) {
	if blank(name, posterLink, date, description) {
		return Event{}, apperr.Validation("All fields are required")
	}
	when, err := ParseDate(date)
	if err != nil {
		return Event{}, apperr.Validation("Invalid event date")
	}

	e, err := s.repo.CreateEvent(ctx, Event{Name: name, PosterLink: posterLink, Date: when, Description: description})
	if err != nil {
		return Event{}, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func (s *service) UpdateEvent(ctx context.Context, id int64, name, posterLink, date, description string) (Event, error) {
	upd := EventUpdate{Name: optional(name), PosterLink: optional(posterLink), Description: optional(description)}
	if !blank(date) {
		when, err := ParseDate(date)
		if err != nil {
			return Event{}, apperr.Validation("Invalid event date")
		}
		upd.Date = &when
	}

	e, err := s.repo.UpdateEvent(ctx, id, upd)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return Event{}, apperr.NotFound("Event not found")
		}
		return Event{}, fmt.Errorf("update event: %w", err)
	}
	return e, nil
}

func (s *service) ListEvents(ctx context.Context) ([]Event, error) {
	out, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func (s *service) Register(ctx context.Context, eventID int64, name, number, email string) (Registration, error) {
	if eventID <= 0 || blank(name, number, email) {
		return Registration{}, apperr.Validation("All fields are required: eventId, name, number, email")
	}

	reg, err := s.repo.CreateRegistration(ctx, Registration{
		EventID: eventID,
		Name:    name,
		Number:  number,
		Email:   strings.ToLower(strings.TrimSpace(email)),
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return Registration{}, apperr.NotFound("Event not found")
		}
		return Registration{}, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

func (s *service) RegistrationsForEvent(ctx context.Context, eventID int64) ([]Registration, error) {
	if eventID <= 0 {
		return nil, apperr.Validation("Event ID is required")
	}
	out, err := s.repo.ListRegistrationsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}

func (s *service) RegistrationsForEmail(ctx context.Context, email string) ([]Registration, error) {
	if blank(email) {
		return nil, apperr.Validation("Email is required")
	}
	out, err := s.repo.ListRegistrationsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}
