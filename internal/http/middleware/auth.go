package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/identity"
)

// Claims is the token payload issued at login: the registered subject holds
// the user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserJWT verifies an HMAC-signed bearer token and puts the authenticated
// user into the request context.
func UserJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := authenticate(w, r, secret)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), user)))
		})
	}
}

// AdminJWT verifies the bearer token and additionally requires the admin
// role.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := authenticate(w, r, secret)
			if !ok {
				return
			}
			if !user.Admin() {
				http.Error(w, "admin access required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), user)))
		})
	}
}

func authenticate(w http.ResponseWriter, r *http.Request, secret string) (identity.User, bool) {
	if secret == "" {
		http.Error(w, "auth disabled", http.StatusUnauthorized)
		return identity.User{}, false
	}
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		http.Error(w, "missing authorization header", http.StatusUnauthorized)
		return identity.User{}, false
	}
	tokenString := strings.TrimPrefix(auth, "Bearer ")
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return identity.User{}, false
	}
	role := claims.Role
	if role == "" {
		role = identity.RoleUser
	}
	return identity.User{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  role,
	}, true
}
