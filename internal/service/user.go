package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/models"
)

// UserService handles user accounts and the subscribe relation.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns a page of users, optionally narrowed by a search term
// matched against username, first and last name.
func (s *UserService) ListUsers(ctx context.Context, search string, offset, limit int) ([]models.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"username LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetPassword changes a user's password. The current password is verified
// first; only then is the new password checked against the old one and the
// password policy, so each stage keeps its own error message.
func (s *UserService) SetPassword(ctx context.Context, userID uint, current, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return validationf("enter a valid current password")
	}
	if current == newPassword {
		return validationf("the new password must differ from the current one")
	}
	if err := ValidatePassword(newPassword, user.Username, user.Email); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(user).Update("password_hash", string(hashed)).Error
}

// UserUpdate is the partial account update payload; nil fields keep their
// prior values.
type UserUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

// UpdateUser applies a partial account update, permitted for the account
// owner and admins. Username and email changes re-check uniqueness.
func (s *UserService) UpdateUser(ctx context.Context, actor *models.User, targetID uint, in UserUpdate) (*models.User, error) {
	target, err := s.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !CanModifyUser(actor, target) {
		return nil, fmt.Errorf("user %d: %w", targetID, ErrPermissionDenied)
	}

	updates := map[string]interface{}{}
	if in.Username != nil && *in.Username != target.Username {
		if err := s.checkTaken(ctx, "username", *in.Username); err != nil {
			return nil, err
		}
		updates["username"] = *in.Username
	}
	if in.Email != nil && *in.Email != target.Email {
		if err := s.checkTaken(ctx, "email", *in.Email); err != nil {
			return nil, err
		}
		updates["email"] = *in.Email
	}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(target).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetUser(ctx, targetID)
}

func (s *UserService) checkTaken(ctx context.Context, column, value string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where(column+" = ?", value).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("user with this %s %w", column, ErrConflict)
	}
	return nil
}

// Subscribe adds a (subscriber, author) relation. Self-subscription and
// duplicates are rejected; the unique index backs up the existence check.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uint) (*models.User, error) {
	author, err := s.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, validationf("you cannot subscribe to yourself")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Subscribe{}).
			Where("user_id = ? AND author_id = ?", userID, authorID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("subscription %w", ErrConflict)
		}
		return tx.Create(&models.Subscribe{UserID: userID, AuthorID: authorID}).Error
	})
	if err != nil {
		return nil, err
	}
	return author, nil
}

// Unsubscribe removes the relation; removing a non-existent one is an error.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.GetUser(ctx, authorID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscribe{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("you are not subscribed to this user: %w", ErrNotFound)
	}
	return nil
}

// Subscriptions returns a page of authors the user follows, ordered by
// subscription recency.
func (s *UserService) Subscriptions(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Subscribe{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscribes ON subscribes.author_id = users.id").
		Where("subscribes.user_id = ?", userID).
		Order("subscribes.id DESC").
		Offset(offset).Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

// SubscribedAuthorIDs returns the set of author ids the viewer follows.
// A nil viewer (anonymous request) yields an empty set.
func (s *UserService) SubscribedAuthorIDs(ctx context.Context, viewerID *uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if viewerID == nil {
		return set, nil
	}

	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Subscribe{}).
		Where("user_id = ?", *viewerID).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// RecentRecipes returns the author's newest recipes truncated to limit,
// plus the untruncated total.
func (s *UserService) RecentRecipes(ctx context.Context, authorID uint, limit uint) ([]models.Recipe, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC, id DESC").
		Limit(int(limit)).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}
