// Copyright 2025 WebApp Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package admin

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"webapp/platform/shared/logger"
)

// AdminRole is the role claim required for administrative access once
// user accounts exist.
const AdminRole = "admin"

// Guard implements the zero-users-or-admin authorization policy: while
// no user accounts exist the system is in bootstrap state and every
// administrative call is allowed; once any user exists, callers must
// present a valid bearer token carrying the admin role.
type Guard struct {
	users  UserStore
	secret []byte
	log    *logger.Logger
}

// NewGuard creates a guard over the given user store and JWT signing
// secret.
func NewGuard(users UserStore, secret []byte, log *logger.Logger) *Guard {
	return &Guard{users: users, secret: secret, log: log}
}

// Allow reports whether the request may proceed. When it returns false
// the challenge or forbidden response has already been written: 401
// with a bearer challenge for missing/invalid credentials, 403 for an
// authenticated caller without the admin role.
func (g *Guard) Allow(w http.ResponseWriter, r *http.Request) bool {
	count, err := g.users.Count(r.Context())
	if err != nil {
		g.log.Error("user count failed", err, nil)
		writeError(w, "unable to verify authorization", http.StatusInternalServerError)
		return false
	}

	// Bootstrap state: no admin exists yet to gate against.
	if count == 0 {
		return true
	}

	claims, err := g.parseBearer(r)
	if err != nil {
		gateRejections.WithLabelValues("unauthenticated").Inc()
		w.Header().Set("WWW-Authenticate", `Bearer realm="webapp"`)
		writeError(w, "authentication required", http.StatusUnauthorized)
		return false
	}

	if !hasRole(claims, AdminRole) {
		gateRejections.WithLabelValues("forbidden").Inc()
		writeError(w, "admin role required", http.StatusForbidden)
		return false
	}

	return true
}

// parseBearer validates the Authorization header and returns the token
// claims.
func (g *Guard) parseBearer(r *http.Request) (jwt.MapClaims, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	return claims, nil
}

// hasRole checks the roles claim, accepting either a single string or a
// list of strings.
func hasRole(claims jwt.MapClaims, role string) bool {
	switch roles := claims["roles"].(type) {
	case string:
		return roles == role
	case []interface{}:
		for _, r := range roles {
			if s, ok := r.(string); ok && s == role {
				return true
			}
		}
	}
	return false
}
