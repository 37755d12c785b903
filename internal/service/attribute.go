package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/repository"
)

// attributeRecord is satisfied by *models.Tag and *models.Ingredient
type attributeRecord[T any] interface {
	*T
	Base() *models.Attribute
}

// AttributeService manages tags or ingredients
type AttributeService[T any, PT attributeRecord[T]] struct {
	repo   repository.AttributeRepository[T]
	policy OwnershipPolicy
	log    *zap.Logger
}

type (
	TagService        = AttributeService[models.Tag, *models.Tag]
	IngredientService = AttributeService[models.Ingredient, *models.Ingredient]
)

func NewAttributeService[T any, PT attributeRecord[T]](repo repository.AttributeRepository[T], policy OwnershipPolicy, log *zap.Logger) *AttributeService[T, PT] {
	return &AttributeService[T, PT]{repo: repo, policy: policy, log: log}
}

func NewTagService(repo repository.AttributeRepository[models.Tag], policy OwnershipPolicy, log *zap.Logger) *TagService {
	return NewAttributeService[models.Tag, *models.Tag](repo, policy, log)
}

func NewIngredientService(repo repository.AttributeRepository[models.Ingredient], policy OwnershipPolicy, log *zap.Logger) *IngredientService {
	return NewAttributeService[models.Ingredient, *models.Ingredient](repo, policy, log)
}

// List returns the global collection, or with assignedOnly the requester's
// items that at least one recipe references. Anonymous callers own nothing.
func (s *AttributeService[T, PT]) List(ctx context.Context, requester *models.User, assignedOnly bool) ([]T, error) {
	if assignedOnly && requester == nil {
		return []T{}, nil
	}
	opts := repository.AttributeListOptions{AssignedOnly: assignedOnly}
	if requester != nil {
		opts.OwnerID = requester.ID
	}
	items, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list: %w", err)
	}
	return items, nil
}

func (s *AttributeService[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// Create stores a new item owned by the requester
func (s *AttributeService[T, PT]) Create(ctx context.Context, owner *models.User, name string) (*T, error) {
	if owner == nil {
		return nil, ErrInvalidToken
	}
	name, err := validateAttributeName(name)
	if err != nil {
		return nil, err
	}

	item := PT(new(T))
	base := item.Base()
	base.Name = name
	base.UserID = owner.ID
	if err := s.repo.Create(ctx, (*T)(item)); err != nil {
		return nil, fmt.Errorf("failed to create: %w", err)
	}
	return (*T)(item), nil
}

// Update renames an item. A nil name leaves it unchanged.
func (s *AttributeService[T, PT]) Update(ctx context.Context, requester *models.User, id uint, name *string) (*T, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	base := PT(item).Base()
	if err := s.policy.CanWrite(requester, base.UserID); err != nil {
		return nil, err
	}
	if name == nil {
		return item, nil
	}

	clean, err := validateAttributeName(*name)
	if err != nil {
		return nil, err
	}
	base.Name = clean
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update: %w", err)
	}
	return item, nil
}

// Delete removes an item and detaches it from every recipe
func (s *AttributeService[T, PT]) Delete(ctx context.Context, requester *models.User, id uint) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.CanWrite(requester, PT(item).Base().UserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

func validateAttributeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	fields := fieldErrors{}
	switch {
	case name == "":
		fields.add("name", "This field may not be blank.")
	case len([]rune(name)) > 255:
		fields.add("name", "Ensure this field has no more than 255 characters.")
	}
	return name, fields.err()
}
