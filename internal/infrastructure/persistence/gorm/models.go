// Package gorm provides GORM model definitions and repositories. It backs
// the same outbound ports as the postgres package and is used with SQLite
// for local development and tests.
package gorm

import (
	"time"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           int64     `gorm:"column:user_id;primaryKey;autoIncrement"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	FirstName    string    `gorm:"column:firstname;type:varchar(100);not null"`
	LastName     string    `gorm:"column:lastname;type:varchar(100);not null"`
	Country      string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);not null"`
	PasswordHash string    `gorm:"column:password;type:text;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName pins the table name shared with the SQL migrations
func (UserModel) TableName() string { return "users" }

// FavoriteModel is one favorited provider recipe
type FavoriteModel struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	RecipeID  int64     `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"not null"`

	User UserModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name shared with the SQL migrations
func (FavoriteModel) TableName() string { return "favorite_recipes" }

// UserRecipeModel stores a user-authored recipe with its lists encoded as text
type UserRecipeModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	UserID       int64     `gorm:"not null;index"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Cuisine      string    `gorm:"type:varchar(100);not null;default:''"`
	Diet         string    `gorm:"type:text;not null;default:''"`
	Ingredients  string    `gorm:"type:text;not null"`
	Instructions string    `gorm:"type:text;not null"`
	ImageURL     string    `gorm:"column:image_url;type:text;not null"`
	Summary      string    `gorm:"type:text;not null;default:''"`
	PrepMinutes  int       `gorm:"not null;default:0"`
	CookMinutes  int       `gorm:"not null;default:0"`
	Servings     int       `gorm:"not null"`
	IsPublic     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`

	User UserModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name shared with the SQL migrations
func (UserRecipeModel) TableName() string { return "user_recipes" }

// AllModels lists the models handled by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&FavoriteModel{},
		&UserRecipeModel{},
	}
}
