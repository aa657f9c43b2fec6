// Package session is the operator session gate: it owns the persisted
// upstream bearer token and user object, and is the only place that
// creates or destroys a login. List and action handlers read the session;
// they never mutate it.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	_ "modernc.org/sqlite"
)

const (
	keyToken = "upstream_token"
	keyUser  = "session_user"

	defaultLifetime = 12 * time.Hour
)

// User is the authenticated operator as stored in the session.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// IsAdmin reports whether the operator holds the admin role.
func (u User) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(u.Role), "admin")
}

// Manager wraps scs with the token/user accessors the dashboard uses.
type Manager struct {
	*scs.SessionManager
}

// Open opens (creating if needed) the sqlite database that persists
// sessions across restarts.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);
	`); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewManager builds the session manager backed by the given database.
func NewManager(db *sql.DB, cookieSecure bool) *Manager {
	m := scs.New()
	m.Store = sqlite3store.New(db)
	m.Lifetime = defaultLifetime
	m.Cookie.Name = "logdash_session"
	m.Cookie.HttpOnly = true
	m.Cookie.Secure = cookieSecure
	m.Cookie.SameSite = http.SameSiteLaxMode
	return &Manager{SessionManager: m}
}

// SignIn rotates the session token and stores the upstream credentials.
func (m *Manager) SignIn(ctx context.Context, token string, user User) error {
	if err := m.RenewToken(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	m.Put(ctx, keyToken, token)
	m.Put(ctx, keyUser, string(payload))
	return nil
}

// Current returns the stored token and user, or ok=false when the visitor
// is not signed in.
func (m *Manager) Current(ctx context.Context) (string, User, bool) {
	token := m.GetString(ctx, keyToken)
	if strings.TrimSpace(token) == "" {
		return "", User{}, false
	}
	var user User
	if raw := m.GetString(ctx, keyUser); raw != "" {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return "", User{}, false
		}
	}
	return token, user, true
}

// SignOut destroys the session. Both explicit logout and the global
// upstream-401 rule land here.
func (m *Manager) SignOut(ctx context.Context) error {
	return m.Destroy(ctx)
}
