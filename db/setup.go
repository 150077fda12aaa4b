package db

import (
	"database/sql"
	"gitlab.com/MikeTTh/env"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"time"
)

// Repo is the persistent side of the bot: moderated chats, admins, API tokens and the decision log.
type Repo struct {
	db *gorm.DB
}

func Connect() (*Repo, error) {
	dsn := env.StringOrPanic("DATABASE_URL")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true, // Epic performance improvement
	})
	if err != nil {
		return nil, err
	}

	var sqlDB *sql.DB
	sqlDB, err = db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetConnMaxLifetime(time.Minute * 15)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(10)

	err = db.AutoMigrate(&Chat{}, &User{}, &Token{}, &JoinDecision{})
	if err != nil {
		return nil, err
	}

	return &Repo{db: db}, nil
}

func (r *Repo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
