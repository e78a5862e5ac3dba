// Package recipe defines user-authored recipes, the projection of recipes
// fetched from the external provider and the text encoding shared by both.
package recipe

import (
	"net/url"
	"strings"
	"time"
)

// Draft carries the user-supplied fields of a new recipe.
type Draft struct {
	Name         string
	Cuisine      string
	ImageURL     string
	Summary      string
	PrepMinutes  int
	CookMinutes  int
	Servings     int
	Diet         Diet
	Ingredients  []string
	Instructions []string
	IsPublic     bool
}

// UserRecipe is a recipe authored and owned by a registered user.
type UserRecipe struct {
	id        int64
	ownerID   int64
	draft     Draft
	createdAt time.Time
}

// NewUserRecipe validates draft and returns an unsaved recipe owned by ownerID.
func NewUserRecipe(ownerID int64, draft Draft) (*UserRecipe, error) {
	draft.Ingredients = append([]string(nil), draft.Ingredients...)
	draft.Instructions = append([]string(nil), draft.Instructions...)
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	return &UserRecipe{
		ownerID:   ownerID,
		draft:     draft,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a recipe loaded from storage. No validation is applied.
func Reconstruct(id, ownerID int64, draft Draft, createdAt time.Time) *UserRecipe {
	return &UserRecipe{
		id:        id,
		ownerID:   ownerID,
		draft:     draft,
		createdAt: createdAt,
	}
}

func validateDraft(d *Draft) error {
	d.Name = strings.TrimSpace(d.Name)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	d.Cuisine = strings.TrimSpace(d.Cuisine)

	if d.Name == "" {
		return ErrNameRequired
	}
	if len(d.Name) > 200 {
		return ErrNameTooLong
	}
	if d.ImageURL == "" {
		return ErrImageURLRequired
	}
	if u, err := url.ParseRequestURI(d.ImageURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidImageURL
	}
	if len(d.Ingredients) == 0 {
		return ErrNoIngredients
	}
	if len(d.Instructions) == 0 {
		return ErrNoInstructions
	}
	if err := ValidateEntries(d.Ingredients); err != nil {
		return err
	}
	if err := ValidateEntries(d.Instructions); err != nil {
		return err
	}
	if d.PrepMinutes < 0 || d.CookMinutes < 0 {
		return ErrNegativeTime
	}
	if d.Servings < 1 {
		return ErrInvalidServings
	}
	return nil
}

func (r *UserRecipe) ID() int64             { return r.id }
func (r *UserRecipe) OwnerID() int64        { return r.ownerID }
func (r *UserRecipe) Name() string          { return r.draft.Name }
func (r *UserRecipe) Cuisine() string       { return r.draft.Cuisine }
func (r *UserRecipe) ImageURL() string      { return r.draft.ImageURL }
func (r *UserRecipe) Summary() string       { return r.draft.Summary }
func (r *UserRecipe) PrepMinutes() int      { return r.draft.PrepMinutes }
func (r *UserRecipe) CookMinutes() int      { return r.draft.CookMinutes }
func (r *UserRecipe) Servings() int         { return r.draft.Servings }
func (r *UserRecipe) Diet() Diet            { return r.draft.Diet }
func (r *UserRecipe) IsPublic() bool        { return r.draft.IsPublic }
func (r *UserRecipe) CreatedAt() time.Time  { return r.createdAt }
func (r *UserRecipe) Ingredients() []string { return append([]string(nil), r.draft.Ingredients...) }

// Instructions returns the ordered steps.
func (r *UserRecipe) Instructions() []string {
	return append([]string(nil), r.draft.Instructions...)
}

// AssignID is called by repositories once the row has been inserted.
func (r *UserRecipe) AssignID(id int64) {
	r.id = id
}

// ReadyInMinutes is the total time from start to table.
func (r *UserRecipe) ReadyInMinutes() int {
	return r.draft.PrepMinutes + r.draft.CookMinutes
}

// ExternalRecipe is the normalized view of a recipe served by the provider.
type ExternalRecipe struct {
	ID             int64
	Title          string
	Image          string
	Summary        string
	ReadyInMinutes int
	AggregateLikes int
	Servings       int
	Diet           Diet
	Cuisines       []string
	Ingredients    []string
	Steps          []string
}
