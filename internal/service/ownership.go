package service

import "github.com/pageza/recipebox/backend/internal/models"

// OwnershipPolicy decides who may modify an owned resource. With Enforce off
// any authenticated user may write; with it on only the owner or a superuser.
type OwnershipPolicy struct {
	Enforce bool
}

func (p OwnershipPolicy) CanWrite(requester *models.User, ownerID uint) error {
	if requester == nil {
		return ErrInvalidToken
	}
	if !p.Enforce || requester.IsSuperuser || requester.ID == ownerID {
		return nil
	}
	return ErrForbidden
}
