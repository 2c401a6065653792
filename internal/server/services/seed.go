package services

import (
	"context"
	"errors"
)

type demoUser struct {
	userName, email, password string
}

var demoUsers = []demoUser{
	{"admin", "admin@test.com", "admin"},
	{"test", "test@test.com", "test"},
}

// SeedDemoUsers registers the demo accounts that do not exist yet.
func SeedDemoUsers(ctx context.Context, users *UserService) error {
	for _, u := range demoUsers {
		exists, err := users.Exists(ctx, u.userName)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := users.Register(ctx, u.userName, u.email, u.password); err != nil && !errors.Is(err, ErrUserNameTaken) {
			return err
		}
	}
	return nil
}
