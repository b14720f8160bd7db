package auth

import (
	"context"
	"fmt"
	"time"
)

var _ Session = &SessionObject{}

// SessionObject is the claim-derived view handed to request handlers. It is
// built once per authenticated request and travels by reference through the
// request context, never through shared process state.
type SessionObject struct {
	UserID         string         `json:"user_id,omitempty"`
	Audience       []string       `json:"audience,omitempty"`
	Issuer         string         `json:"issuer,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetExpiration() *time.Time {
	return s.ExpirationDate
}

func (s *SessionObject) GetData() map[string]any {
	return s.Data
}

// TODO: enable only in development!
func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s aud=%v iss=%s iat=%s data=%v",
		s.UserID,
		s.Audience,
		s.Issuer,
		issuedAt,
		s.Data,
	)
}

// sessionFromClaims projects a validated claim set into a SessionObject
func sessionFromClaims(claims *SessionClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrUnableToDecodeSession
	}

	data := map[string]any{
		"email": claims.Email,
		"name":  claims.DisplayName(),
	}

	issuedAt := claims.IssuedAt()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.UserID(),
		Audience:       claims.RegisteredClaims.Audience,
		Issuer:         claims.RegisteredClaims.Issuer,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
		Data:           data,
	}, nil
}

// DefaultSessionDuration is the validity window for cookie sessions
const DefaultSessionDuration = 24 * time.Hour

// SessionManager is the stateful issuer. It materializes a verified claim
// set as a server-side record keyed by an opaque id, renews the window on
// use when sliding, and destroys it on revocation.
//
// Session lifecycle: Active -> Renewed (self loop) -> Expired | LoggedOut.
// Renewed differs from Active only in the expiry timestamp.
type SessionManager struct {
	store    SessionStore
	duration time.Duration
	sliding  bool
	logger   Logger
	now      func() time.Time
}

var _ Issuer = (*SessionManager)(nil)

// NewSessionManager creates a sliding 24 hour session issuer over the store
func NewSessionManager(store SessionStore) *SessionManager {
	return &SessionManager{
		store:    store,
		duration: DefaultSessionDuration,
		sliding:  true,
		logger:   defLogger{},
		now:      time.Now,
	}
}

func (sm *SessionManager) WithLogger(l Logger) *SessionManager {
	if l != nil {
		sm.logger = l
	}
	return sm
}

// WithDuration overrides the validity window
func (sm *SessionManager) WithDuration(d time.Duration) *SessionManager {
	if d > 0 {
		sm.duration = d
	}
	return sm
}

// WithSliding toggles sliding renewal
func (sm *SessionManager) WithSliding(sliding bool) *SessionManager {
	sm.sliding = sliding
	return sm
}

// WithClock overrides the time source, used by expiry tests
func (sm *SessionManager) WithClock(now func() time.Time) *SessionManager {
	if now != nil {
		sm.now = now
	}
	return sm
}

// Duration returns the configured validity window
func (sm *SessionManager) Duration() time.Duration {
	return sm.duration
}

// Issue creates a session bound to the claim set and returns the opaque id
// destined for the transport cookie.
func (sm *SessionManager) Issue(ctx context.Context, claims *SessionClaims) (string, error) {
	if claims == nil {
		return "", ErrUnableToDecodeSession
	}

	id, err := GenerateSessionID()
	if err != nil {
		return "", err
	}

	now := sm.now()
	rec := &SessionRecord{
		ID:        id,
		Claims:    claims,
		IssuedAt:  now,
		ExpiresAt: now.Add(sm.duration),
		Sliding:   sm.sliding,
	}

	if err := sm.store.Create(ctx, rec); err != nil {
		return "", err
	}

	return id, nil
}

// Authenticate resolves a session id back into its claim set. Unknown,
// expired, and revoked sessions all return ErrUnableToFindSession; callers
// treat that as unauthenticated (a 401 on the API surface, not a redirect).
// A live sliding session has its expiry pushed forward by the full window.
func (sm *SessionManager) Authenticate(ctx context.Context, id string) (*SessionClaims, error) {
	if id == "" {
		return nil, ErrUnableToFindSession
	}

	rec, err := sm.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		return nil, ErrUnableToFindSession
	}

	now := sm.now()
	if rec.Expired(now) {
		if err := sm.store.Delete(ctx, id); err != nil {
			sm.logger.Error("failed to delete expired session", "error", err)
		}
		return nil, ErrUnableToFindSession
	}

	if rec.Claims == nil {
		return nil, ErrUnableToDecodeSession
	}

	if rec.Sliding {
		rec.ExpiresAt = now.Add(sm.duration)
		if err := sm.store.Update(ctx, rec); err != nil {
			// renewal is best effort, the session stays valid until its
			// previous expiry
			sm.logger.Error("failed to renew session", "error", err)
		}
	}

	return rec.Claims, nil
}

// Revoke logs the session out, removing the server-side record immediately
func (sm *SessionManager) Revoke(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return sm.store.Delete(ctx, id)
}
