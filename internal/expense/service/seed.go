package service

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
	"github.com/aussiebroadwan/expenseflow/internal/expense/store"
	"github.com/aussiebroadwan/expenseflow/pkg/slogx"
)

//go:embed seed_users.yaml
var seedUsersYAML []byte

// EmailDomain is appended to usernames when a seed entry has no email.
const EmailDomain = "company.com"

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	ID         string `yaml:"id"`
	Username   string `yaml:"username"`
	Email      string `yaml:"email"`
	FullName   string `yaml:"fullName"`
	Role       string `yaml:"role"`
	Department string `yaml:"department"`
	Inactive   bool   `yaml:"inactive"`
	CreatedAt  string `yaml:"createdAt"`
}

// SeedUsers returns the built-in identities.
func SeedUsers() ([]domain.User, error) {
	return parseSeedUsers(seedUsersYAML)
}

func parseSeedUsers(raw []byte) ([]domain.User, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed users: %w", err)
	}

	users := make([]domain.User, 0, len(f.Users))
	for _, su := range f.Users {
		if su.ID == "" || su.Username == "" {
			return nil, fmt.Errorf("seed user %q: id and username are required", su.Username)
		}
		role, ok := domain.ParseRole(su.Role)
		if !ok {
			return nil, fmt.Errorf("seed user %s: unknown role %q", su.Username, su.Role)
		}
		created, err := time.Parse(time.DateOnly, su.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: createdAt: %w", su.Username, err)
		}
		email := su.Email
		if email == "" {
			email = su.Username + "@" + EmailDomain
		}
		users = append(users, domain.User{
			ID:         su.ID,
			Username:   su.Username,
			Email:      email,
			FullName:   su.FullName,
			Role:       role,
			Department: su.Department,
			IsActive:   !su.Inactive,
			CreatedAt:  created,
		})
	}
	return users, nil
}

// SeedService inserts the identity seed into an empty users table.
type SeedService struct {
	Store store.Store
	Users []domain.User
}

// Seed inserts Users when the users table is empty and reports how many
// were written. It is a no-op on an already seeded database.
func (s *SeedService) Seed(ctx context.Context) (int, error) {
	l := slogx.FromContext(ctx)

	created := 0
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return nil
		}
		for _, u := range s.Users {
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Username, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		l.Info("seeded users", slog.Int("count", created))
	} else {
		l.Debug("users already seeded")
	}
	return created, nil
}
