package db

import (
	"gorm.io/gorm"
	"strings"
	"time"
)

// Chat is a group where join requests are moderated
type Chat struct {
	ID        int64  `json:"id" gorm:"primarykey"` // telegram assigns negative ids to groups
	Title     string `json:"title" gorm:"type:varchar(128)"`
	AddedByID int64  `json:"added_by"`
	CreatedAt time.Time
}

type User struct {
	// All these data are received from Telegram
	ID        int64  `json:"id" gorm:"primarykey"`
	FirstName string `json:"first_name" gorm:"type:varchar(64)"` // https://limits.tginfo.me/en
	LastName  string `json:"last_name" gorm:"type:varchar(64)"`
	Username  string `json:"username" gorm:"type:varchar(32)"` //https://core.telegram.org/method/account.checkUsername

	Admin *bool `json:"admin" gorm:"default:false"`
}

func (u *User) IsAdmin() bool {
	return u.Admin != nil && *u.Admin
}

// Greet returns a proper name compiled from the FirstName, LastName and Username fields
func (u *User) Greet() string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}

	if strings.TrimSpace(name) == "" {
		return "@" + u.Username
	} else {
		return name
	}
}

// Token grants access to the operator API
type Token struct {
	gorm.Model

	Name string `json:"name" gorm:"type:varchar(48) not null;unique"`

	LastUsed *time.Time `json:"last_used"`

	TokenHash []byte `json:"-"`
}

// JoinDecision is the audit log of answered challenges
type JoinDecision struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"at" gorm:"index"`

	ChatID   int64  `json:"chat_id" gorm:"index"`
	UserID   int64  `json:"user_id"`
	Approved bool   `json:"approved"`
	Answer   string `json:"answer" gorm:"type:varchar(8)"`
	Expected string `json:"expected" gorm:"type:varchar(8)"`
}
