// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"sync/atomic"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/domain/user"
	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plain-text password of every factory user.
const DefaultPassword = "correct horse battery staple"

// Factory builds seeded test data. Usernames are unique per factory.
type Factory struct {
	faker *gofakeit.Faker
	seq   atomic.Int64
}

// NewFactory creates a new factory with a seeded faker
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// Faker exposes the underlying faker for ad-hoc values.
func (f *Factory) Faker() *gofakeit.Faker {
	return f.faker
}

// Profile returns a registration profile with a unique username.
func (f *Factory) Profile() user.Profile {
	return user.Profile{
		Username:  fmt.Sprintf("%s%d", f.faker.Username(), f.seq.Add(1)),
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
		Country:   f.faker.Country(),
		Email:     f.faker.Email(),
	}
}

// User returns an unsaved user whose password is DefaultPassword.
func (f *Factory) User() *user.User {
	return f.UserNamed("")
}

// UserNamed is User with a fixed username. An empty name picks a unique one.
func (f *Factory) UserNamed(username string) *user.User {
	profile := f.Profile()
	if username != "" {
		profile.Username = username
	}
	u, err := user.NewUser(profile, DefaultPassword, bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("factory user: %v", err))
	}
	return u
}

// StoredUser returns a user that looks loaded from storage.
func (f *Factory) StoredUser(id int64) *user.User {
	u := f.User()
	u.AssignID(id)
	return u
}

// Draft returns a valid user recipe draft.
func (f *Factory) Draft() recipe.Draft {
	return recipe.Draft{
		Name:         f.faker.Dessert(),
		Cuisine:      "Italian",
		ImageURL:     "https://img.example.com/" + f.faker.UUID() + ".jpg",
		Summary:      f.faker.Sentence(8),
		PrepMinutes:  f.faker.Number(5, 30),
		CookMinutes:  f.faker.Number(10, 90),
		Servings:     f.faker.Number(1, 8),
		Diet:         recipe.Diet{Vegetarian: true, GlutenFree: f.faker.Bool()},
		Ingredients:  []string{"2 eggs", "200 g flour", "1 pinch of salt"},
		Instructions: []string{"Mix everything.", "Rest for 10 minutes.", "Bake at 180C."},
		IsPublic:     f.faker.Bool(),
	}
}

// UserRecipe returns an unsaved, valid recipe owned by ownerID.
func (f *Factory) UserRecipe(ownerID int64) *recipe.UserRecipe {
	r, err := recipe.NewUserRecipe(ownerID, f.Draft())
	if err != nil {
		panic(fmt.Sprintf("factory user recipe: %v", err))
	}
	return r
}

// AddRecipeCommand returns a command that passes validation.
func (f *Factory) AddRecipeCommand() inbound.AddRecipeCommand {
	d := f.Draft()
	return inbound.AddRecipeCommand{
		Name:               d.Name,
		Cuisine:            d.Cuisine,
		ImageURL:           d.ImageURL,
		Summary:            d.Summary,
		PreparationMinutes: d.PrepMinutes,
		CookingMinutes:     d.CookMinutes,
		Servings:           d.Servings,
		Vegetarian:         d.Diet.Vegetarian,
		Vegan:              d.Diet.Vegan,
		GlutenFree:         d.Diet.GlutenFree,
		Ingredients:        d.Ingredients,
		Instructions:       d.Instructions,
		IsPublic:           d.IsPublic,
	}
}

// RegisterCommand returns a command that passes validation.
func (f *Factory) RegisterCommand() inbound.RegisterCommand {
	p := f.Profile()
	return inbound.RegisterCommand{
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Country:   p.Country,
		Email:     p.Email,
		Password:  DefaultPassword,
	}
}

// ExternalRecipe returns a provider recipe with the given id.
func (f *Factory) ExternalRecipe(id int64) recipe.ExternalRecipe {
	return recipe.ExternalRecipe{
		ID:             id,
		Title:          f.faker.Dinner(),
		Image:          fmt.Sprintf("https://img.spoonacular.com/recipes/%d-556x370.jpg", id),
		Summary:        f.faker.Sentence(10),
		ReadyInMinutes: f.faker.Number(10, 120),
		AggregateLikes: f.faker.Number(0, 5000),
		Servings:       f.faker.Number(1, 8),
		Diet:           recipe.Diet{Vegan: f.faker.Bool()},
		Cuisines:       []string{"Mediterranean"},
		Ingredients:    []string{"1 cup rice", "2 tomatoes"},
		Steps:          []string{"Cook the rice.", "Chop the tomatoes."},
	}
}
