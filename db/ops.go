package db

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/marcsello/joingate-bot/challenge"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

const maxDecisionsListed = 500

func isPgError(err error, severity, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Severity == severity && pgErr.Code == code
	}
	return false
}

func isDuplicateKey(err error) bool {
	return isPgError(err, "ERROR", "23505")
}

// IsChatAllowed tells if join requests of the chat should be challenged
func (r *Repo) IsChatAllowed(ctx context.Context, chatID int64) (bool, error) {
	var n int64
	result := r.db.WithContext(ctx).Model(&Chat{}).Where("id = ?", chatID).Count(&n)
	return n > 0, result.Error
}

func (r *Repo) AllowChat(ctx context.Context, chat *Chat) error {
	result := r.db.WithContext(ctx).Create(chat)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return gorm.ErrDuplicatedKey
		}
		return result.Error
	}
	return nil
}

func (r *Repo) DisallowChat(ctx context.Context, chatID int64) error {
	result := r.db.WithContext(ctx).Delete(&Chat{}, chatID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) GetAllChats(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	result := r.db.WithContext(ctx).Order("created_at").Find(&chats)
	return chats, result.Error
}

func (r *Repo) GetUserById(ctx context.Context, id int64) (*User, error) {
	var user User
	result := r.db.WithContext(ctx).Take(&user, id)

	if result.Error == nil && result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &user, result.Error
}

// EnsureAdmins creates or promotes the given users to admins
func (r *Repo) EnsureAdmins(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	admin := true
	users := make([]User, len(ids))
	for i, id := range ids {
		users[i] = User{ID: id, Admin: &admin}
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"admin": true}),
	}).Create(&users)
	return result.Error
}

// UpdateUserNames refreshes the names we got from Telegram, the user must exist already
func (r *Repo) UpdateUserNames(ctx context.Context, user *User) error {
	result := r.db.WithContext(ctx).Model(&User{ID: user.ID}).Updates(map[string]interface{}{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"username":   user.Username,
	})
	return result.Error
}

func (r *Repo) GetAllTokens(ctx context.Context) ([]Token, error) {
	var tokens []Token
	result := r.db.WithContext(ctx).Omit("token_hash").Find(&tokens)
	return tokens, result.Error
}

func (r *Repo) CreateToken(ctx context.Context, token *Token) error {
	result := r.db.WithContext(ctx).Create(token)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return gorm.ErrDuplicatedKey
		}
		return result.Error
	}
	return nil
}

func (r *Repo) DeleteTokenByName(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Unscoped().Where("name = ?", name).Delete(&Token{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetAndUpdateTokenByHash returns nil without error if there is no such token
func (r *Repo) GetAndUpdateTokenByHash(ctx context.Context, tokenHashBytes []byte) (*Token, error) {
	var token Token
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("token_hash = ?", tokenHashBytes).First(&token)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			return result.Error
		}
		found = true

		result = tx.Model(&token).Update("last_used", time.Now())
		return result.Error
	})
	if err != nil {
		return nil, err
	}
	if found {
		return &token, nil
	} else {
		return nil, nil
	}
}

// RecordDecision stores the outcome of a challenge in the audit log
func (r *Repo) RecordDecision(ctx context.Context, d challenge.Decision) error {
	result := r.db.WithContext(ctx).Create(&JoinDecision{
		ChatID:   d.ChatID,
		UserID:   d.UserID,
		Approved: d.Approved,
		Answer:   d.Answer,
		Expected: d.Expected,
	})
	return result.Error
}

// GetDecisions returns the latest decisions, newest first. chatID 0 means all chats.
func (r *Repo) GetDecisions(ctx context.Context, chatID int64, limit int) ([]JoinDecision, error) {
	if limit <= 0 || limit > maxDecisionsListed {
		limit = maxDecisionsListed
	}

	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if chatID != 0 {
		q = q.Where("chat_id = ?", chatID)
	}

	var decisions []JoinDecision
	result := q.Find(&decisions)
	return decisions, result.Error
}
