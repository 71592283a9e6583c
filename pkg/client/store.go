package client

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"incubator/pkg/token"
)

// State is the derived auth view. It is recomputed from the stored token and
// never trusted for authorization; the server re-verifies every request.
type State struct {
	IsAuthenticated bool
	IsAdmin         bool
	IsStartup       bool
	Email           string
}

type Action interface {
	isAction()
}

type LoginAction struct {
	Token string
}

type LogoutAction struct{}

func (LoginAction) isAction()  {}
func (LogoutAction) isAction() {}

// AuthStore persists the access token and publishes the state derived from it.
type AuthStore struct {
	mu          sync.Mutex
	storage     TokenStorage
	state       State
	subscribers map[int]func(State)
	nextID      int
}

// NewAuthStore hydrates from storage. A malformed stored token is cleared and
// the store starts logged out.
func NewAuthStore(storage TokenStorage) *AuthStore {
	s := &AuthStore{storage: storage, subscribers: make(map[int]func(State))}

	tok, err := storage.Load()
	if err != nil {
		return s
	}
	st, err := decodeState(tok)
	if err != nil {
		_ = storage.Clear()
		return s
	}
	s.state = st
	return s
}

func (s *AuthStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for state changes and returns a function removing it.
func (s *AuthStore) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Dispatch applies an action. A LoginAction whose token cannot be decoded
// falls through to the logout path.
func (s *AuthStore) Dispatch(action Action) error {
	switch a := action.(type) {
	case LoginAction:
		if err := s.storage.Save(a.Token); err != nil {
			return err
		}
		st, err := decodeState(a.Token)
		if err != nil {
			if clearErr := s.storage.Clear(); clearErr != nil {
				return clearErr
			}
			s.set(State{})
			return err
		}
		s.set(st)
		return nil
	case LogoutAction:
		if err := s.storage.Clear(); err != nil {
			return err
		}
		s.set(State{})
		return nil
	default:
		return fmt.Errorf("unknown action %T", action)
	}
}

func (s *AuthStore) Login(tok string) error {
	return s.Dispatch(LoginAction{Token: tok})
}

func (s *AuthStore) Logout() error {
	return s.Dispatch(LogoutAction{})
}

func (s *AuthStore) set(st State) {
	s.mu.Lock()
	if s.state == st {
		s.mu.Unlock()
		return
	}
	s.state = st
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

var errMalformedToken = errors.New("malformed token")

// decodeState reads the token payload without checking signature or expiry.
func decodeState(tok string) (State, error) {
	var claims token.AccessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return State{}, fmt.Errorf("%w: %v", errMalformedToken, err)
	}
	return State{
		IsAuthenticated: true,
		IsAdmin:         claims.Role == token.RoleAdmin,
		IsStartup:       claims.Role == token.RoleFounder,
		Email:           claims.Email,
	}, nil
}
