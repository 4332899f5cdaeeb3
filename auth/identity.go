package auth

import "context"

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
	RolesKey    contextKey = "roles"
)

// Identity is the authenticated caller, extracted from a validated token.
type Identity struct {
	UserID   string
	Username string
	Roles    []string
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, identity.UserID)
	ctx = context.WithValue(ctx, UsernameKey, identity.Username)
	return context.WithValue(ctx, RolesKey, identity.Roles)
}

// IdentityFrom returns false when ctx went through no authentication.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	if !ok || username == "" {
		return Identity{}, false
	}
	userID, _ := ctx.Value(UserIDKey).(string)
	roles, _ := ctx.Value(RolesKey).([]string)
	return Identity{UserID: userID, Username: username, Roles: roles}, true
}

func (c *CustomClaims) Identity() Identity {
	return Identity{UserID: c.UserID, Username: c.Username, Roles: c.Roles}
}
