// Package session carries the resolved identity and its store bindings
// through a request. It is built once by the auth middleware and passed
// down explicitly; nothing here is global.
package session

import (
	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/util"
)

type Session struct {
	Identity *model.Identity
	Stores   store.Stores
	Claims   *util.Claims
}

func New(identity *model.Identity, stores store.Stores, claims *util.Claims) *Session {
	return &Session{Identity: identity, Stores: stores, Claims: claims}
}

func (s *Session) IdentityID() string {
	if s == nil || s.Identity == nil {
		return ""
	}
	return s.Identity.ID
}

func (s *Session) IsDemo() bool {
	return s != nil && s.Identity.IsDemo()
}
