package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/diagnosis/libdesk/internal/utils"
	"github.com/diagnosis/libdesk/pkg/auth"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Identity struct {
	Username string
	Role     string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*Identity, error)
}

// StubAuthenticator accepts any credentials, including empty ones, and grants admin.
type StubAuthenticator struct{}

func (StubAuthenticator) Authenticate(_ context.Context, username, _ string) (*Identity, error) {
	return &Identity{Username: utils.NormalizeString(username), Role: RoleAdmin}, nil
}

type userEntry struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

type usersFile struct {
	Users []userEntry `yaml:"users"`
}

// CredentialAuthenticator checks logins against a users file of argon2id or bcrypt hashes.
type CredentialAuthenticator struct {
	users map[string]userEntry
}

func LoadUsersFile(path string) (*CredentialAuthenticator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	return ParseUsers(data)
}

func ParseUsers(data []byte) (*CredentialAuthenticator, error) {
	var f usersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}

	users := make(map[string]userEntry, len(f.Users))
	for _, u := range f.Users {
		name := utils.NormalizeString(u.Username)
		if name == "" || u.PasswordHash == "" {
			return nil, fmt.Errorf("users file: entry %q needs username and password_hash", u.Username)
		}
		switch u.Role {
		case "":
			u.Role = RoleStaff
		case RoleAdmin, RoleStaff:
		default:
			return nil, fmt.Errorf("users file: unknown role %q for %s", u.Role, name)
		}
		if _, dup := users[name]; dup {
			return nil, fmt.Errorf("users file: duplicate user %s", name)
		}
		u.Username = name
		users[name] = u
	}
	if len(users) == 0 {
		return nil, errors.New("users file: no users defined")
	}
	return &CredentialAuthenticator{users: users}, nil
}

func (a *CredentialAuthenticator) Authenticate(_ context.Context, username, password string) (*Identity, error) {
	u, ok := a.users[utils.NormalizeString(username)]
	if !ok || password == "" {
		return nil, ErrInvalidCredentials
	}
	match, err := auth.ComparePassword(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password for %s: %w", u.Username, err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	return &Identity{Username: u.Username, Role: u.Role}, nil
}
