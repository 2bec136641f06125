package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/recipebox/internal/password"
	"github.com/jon4hz/recipebox/internal/validate"
	"gorm.io/gorm"
)

// User represents an account in the database.
// The password hash is only written through SetPassword and checked through Authenticate.
type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"column:password_hash;not null" json:"-"`
	Bio          *string  `gorm:"type:text"`
	ImageURL     *string  `gorm:"column:image_url"`
	Recipes      []Recipe `gorm:"constraint:OnDelete:CASCADE;"`
}

// SetPassword hashes plaintext with h and stores the result on the user.
func (u *User) SetPassword(h *password.Hasher, plaintext string) error {
	hash, err := h.Hash(plaintext)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// Authenticate reports whether plaintext matches the user's stored password hash.
func (u *User) Authenticate(plaintext string) bool {
	return password.Verify(plaintext, u.PasswordHash)
}

// RecipeIDs returns the ids of the user's loaded recipes.
func (u *User) RecipeIDs() []uint {
	ids := make([]uint, 0, len(u.Recipes))
	for _, r := range u.Recipes {
		ids = append(ids, r.ID)
	}
	return ids
}

// BeforeCreate rejects users without a username or password hash.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.Username == "" {
		return &validate.Error{Field: "username", Message: "Username is required."}
	}
	if u.PasswordHash == "" {
		return &validate.Error{Field: "password", Message: "Password is required."}
	}
	return nil
}

func (c *Client) CreateUser(ctx context.Context, user *User) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		log.Error("failed to create user", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Preload("Recipes").First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Preload("Recipes").Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) UserExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		log.Error("failed to check user", "error", err, "userID", id)
		return false, err
	}
	return count > 0, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", id).Delete(&Recipe{}).Error; err != nil {
			log.Error("failed to delete user recipes", "error", err, "userID", id)
			return err
		}
		if err := tx.Unscoped().Delete(&user).Error; err != nil {
			log.Error("failed to delete user", "error", err, "userID", id)
			return err
		}
		return nil
	})
}

func (c *Client) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (c *Client) GetLatestUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Order("created_at DESC, id DESC").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
