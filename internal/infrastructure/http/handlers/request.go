// Package handlers provides the gin handlers of the HTTP API
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alchemorsel/recipeshare/internal/infrastructure/http/middleware"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"github.com/gin-gonic/gin"
)

// flexInt accepts a JSON number or a numeric string.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return fmt.Errorf("%q is not a whole number", raw)
	}
	f.Value, f.Set = int(n), true
	return nil
}

// flexBool accepts a JSON boolean or the strings "true", "false", "on" and "1".
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s is not a boolean", data)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "1", "yes":
		*f = true
	case "", "false", "off", "0", "no":
		*f = false
	default:
		return fmt.Errorf("%q is not a boolean", s)
	}
	return nil
}

// favoriteRequest is the body of the favorites endpoints
type favoriteRequest struct {
	RecipeID flexInt `json:"recipeId"`
}

// bindJSON decodes the request body, attaching a 400 to c on failure.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid request body").WithCause(err))
		return false
	}
	return true
}

// currentUser returns the session user. Routes behind RequireSession always
// have one.
func currentUser(c *gin.Context) (int64, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		_ = c.Error(apperrors.NewUnauthorizedError(""))
	}
	return id, ok
}

// optionalUser returns the session user or zero for anonymous requests.
func optionalUser(c *gin.Context) int64 {
	id, _ := middleware.UserID(c)
	return id
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryCount reads a positive count from the query string, falling back to
// def when the parameter is absent.
func queryCount(c *gin.Context, name string, def int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		_ = c.Error(apperrors.NewValidationErrors([]apperrors.ValidationError{
			{Field: name, Tag: "numeric", Message: name + " must be a number"},
		}))
		return 0, false
	}
	return n, true
}
