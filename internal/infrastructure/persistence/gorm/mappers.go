package gorm

import (
	"errors"
	"strings"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/domain/user"
	"gorm.io/gorm"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	p := u.Profile()
	return &UserModel{
		ID:           u.ID(),
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Country:      p.Country,
		Email:        p.Email,
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(m *UserModel) *user.User {
	return user.Reconstruct(m.ID, user.Profile{
		Username:  m.Username,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Country:   m.Country,
		Email:     m.Email,
	}, m.PasswordHash, m.CreatedAt)
}

// UserRecipeToModel converts a user recipe, encoding its lists
func UserRecipeToModel(r *recipe.UserRecipe) *UserRecipeModel {
	return &UserRecipeModel{
		ID:           r.ID(),
		UserID:       r.OwnerID(),
		Name:         r.Name(),
		Cuisine:      r.Cuisine(),
		Diet:         r.Diet().Encode(),
		Ingredients:  recipe.EncodeList(r.Ingredients()),
		Instructions: recipe.EncodeList(r.Instructions()),
		ImageURL:     r.ImageURL(),
		Summary:      r.Summary(),
		PrepMinutes:  r.PrepMinutes(),
		CookMinutes:  r.CookMinutes(),
		Servings:     r.Servings(),
		IsPublic:     r.IsPublic(),
		CreatedAt:    r.CreatedAt(),
	}
}

// ModelToUserRecipe converts a model, decoding its lists
func ModelToUserRecipe(m *UserRecipeModel) *recipe.UserRecipe {
	return recipe.Reconstruct(m.ID, m.UserID, recipe.Draft{
		Name:         m.Name,
		Cuisine:      m.Cuisine,
		ImageURL:     m.ImageURL,
		Summary:      m.Summary,
		PrepMinutes:  m.PrepMinutes,
		CookMinutes:  m.CookMinutes,
		Servings:     m.Servings,
		Diet:         recipe.DecodeDiet(m.Diet),
		Ingredients:  recipe.DecodeList(m.Ingredients),
		Instructions: recipe.DecodeList(m.Instructions),
		IsPublic:     m.IsPublic,
	}, m.CreatedAt)
}

// isDuplicate matches translated and raw unique-constraint errors
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

// isForeignKeyViolation matches translated and raw foreign key errors
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "violates foreign key")
}
