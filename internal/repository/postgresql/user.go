package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/user"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/database"
)

type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, email, name, role, created_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	var role string
	err := q.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u.Role = user.Role(role)
	return &u, nil
}

func (r *userRepository) ListByRoles(ctx context.Context, roles []user.Role) ([]*user.User, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	placeholders := make([]string, len(roles))
	args := make([]interface{}, len(roles))
	for i, role := range roles {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = string(role)
	}

	query := fmt.Sprintf(`
		SELECT id, email, name, role, created_at
		FROM users
		WHERE role IN (%s)
		ORDER BY created_at
	`, strings.Join(placeholders, ", "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var u user.User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Role = user.Role(role)
		users = append(users, &u)
	}

	return users, nil
}
