package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// UserRecipeTestSuite covers user recipe creation and validation
type UserRecipeTestSuite struct {
	suite.Suite
}

func validDraft() Draft {
	return Draft{
		Name:         "  Sunday Ragu ",
		Cuisine:      "Italian",
		ImageURL:     "https://img.example.com/ragu.jpg",
		PrepMinutes:  20,
		CookMinutes:  180,
		Servings:     6,
		Diet:         Diet{GlutenFree: true},
		Ingredients:  []string{"500g beef chuck, cubed", " 1 onion "},
		Instructions: []string{"Brown the meat", "Simmer for three hours"},
	}
}

func (s *UserRecipeTestSuite) TestNewUserRecipe() {
	s.Run("ValidDraft_ShouldNormalizeFields", func() {
		// Act
		r, err := NewUserRecipe(9, validDraft())

		// Assert
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "Sunday Ragu", r.Name())
		assert.Equal(s.T(), int64(9), r.OwnerID())
		assert.Equal(s.T(), []string{"500g beef chuck, cubed", "1 onion"}, r.Ingredients())
		assert.Equal(s.T(), 200, r.ReadyInMinutes())
		assert.Zero(s.T(), r.ID())
	})

	cases := []struct {
		name   string
		mutate func(*Draft)
		want   error
	}{
		{"MissingName_ShouldFail", func(d *Draft) { d.Name = " " }, ErrNameRequired},
		{"MissingImage_ShouldFail", func(d *Draft) { d.ImageURL = "" }, ErrImageURLRequired},
		{"RelativeImage_ShouldFail", func(d *Draft) { d.ImageURL = "/img/ragu.jpg" }, ErrInvalidImageURL},
		{"FtpImage_ShouldFail", func(d *Draft) { d.ImageURL = "ftp://img.example.com/a.jpg" }, ErrInvalidImageURL},
		{"NoIngredients_ShouldFail", func(d *Draft) { d.Ingredients = nil }, ErrNoIngredients},
		{"NoInstructions_ShouldFail", func(d *Draft) { d.Instructions = []string{} }, ErrNoInstructions},
		{"BlankIngredient_ShouldFail", func(d *Draft) { d.Ingredients = []string{"salt", "  "} }, ErrBlankEntry},
		{"MultilineStep_ShouldFail", func(d *Draft) { d.Instructions = []string{"stir\nthen taste"} }, ErrDelimiterInEntry},
		{"NegativePrep_ShouldFail", func(d *Draft) { d.PrepMinutes = -1 }, ErrNegativeTime},
		{"ZeroServings_ShouldFail", func(d *Draft) { d.Servings = 0 }, ErrInvalidServings},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			d := validDraft()
			tc.mutate(&d)

			r, err := NewUserRecipe(1, d)

			assert.ErrorIs(s.T(), err, tc.want)
			assert.Nil(s.T(), r)
		})
	}
}

func TestUserRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(UserRecipeTestSuite))
}

func TestDietEncoding(t *testing.T) {
	tests := []struct {
		name    string
		diet    Diet
		encoded string
	}{
		{"none", Diet{}, ""},
		{"all", Diet{Vegetarian: true, Vegan: true, GlutenFree: true}, "vegetarian,vegan,glutenFree"},
		{"vegan only", Diet{Vegan: true}, "vegan"},
		{"vegetarian and gluten free", Diet{Vegetarian: true, GlutenFree: true}, "vegetarian,glutenFree"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.encoded, tt.diet.Encode())
			assert.Equal(t, tt.diet, DecodeDiet(tt.encoded))
		})
	}
}

func TestDecodeDiet_Lenient(t *testing.T) {
	assert.Equal(t, Diet{Vegan: true, GlutenFree: true}, DecodeDiet(" Vegan , gluten free,paleo"))
}

func TestListEncoding(t *testing.T) {
	entries := []string{"2 cups flour, sifted", "1 tsp salt"}

	encoded := EncodeList(entries)

	assert.Equal(t, "2 cups flour, sifted\n1 tsp salt", encoded)
	assert.Equal(t, entries, DecodeList(encoded))
}

func TestDecodeList_EmptyAndCRLF(t *testing.T) {
	assert.Equal(t, []string{}, DecodeList(""))
	assert.Equal(t, []string{"a", "b"}, DecodeList("a\r\nb\n\n"))
}
