package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/relayhq/taskboard/api/internal/database"
	"github.com/relayhq/taskboard/api/internal/model"
)

// UserRepository handles user directory data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	role := user.Role
	if role == "" {
		role = model.UserRoleUser
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			username: $username,
			hash: $hash,
			role: $role,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	hash := ""
	if user.Hash != nil {
		hash = *user.Hash
	}

	vars := map[string]interface{}{
		"email":    user.Email,
		"username": user.Username,
		"hash":     hash,
		"role":     string(role),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := parseUserResult(result)
	if err != nil {
		return err
	}

	user.ID = created.ID
	user.Role = created.Role
	user.CreatedOn = created.CreatedOn
	user.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user by record ID. Returns (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := parseUserResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := parseUserResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// ResolveMany resolves a set of user record IDs to directory summaries.
// Unknown IDs are skipped rather than reported; the project document is the
// source of truth for membership, the directory only decorates it.
func (r *UserRepository) ResolveMany(ctx context.Context, ids []string) ([]model.UserSummary, error) {
	if len(ids) == 0 {
		return []model.UserSummary{}, nil
	}

	query := `SELECT id, username, email FROM array::map($ids, |$i| type::record($i))`
	vars := map[string]interface{}{"ids": ids}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := unwrapQueryRows(results)
	summaries := make([]model.UserSummary, 0, len(rows))
	for _, row := range rows {
		data, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		summaries = append(summaries, model.UserSummary{
			ID:       convertSurrealID(data["id"]),
			Username: stringField(data, "username"),
			Email:    stringField(data, "email"),
		})
	}
	return summaries, nil
}

func parseUserResult(result interface{}) (*model.User, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	// Navigate through SurrealDB response structure
	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, database.ErrNotFound
				}
				result = resultData[0]
			}
		}
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	// The Go client returns record IDs and datetimes as driver types;
	// normalize them before the JSON round-trip into the model struct.
	if id, ok := data["id"]; ok {
		data["id"] = convertSurrealID(id)
	}
	data["created_on"] = normalizeTime(data["created_on"])
	data["updated_on"] = normalizeTime(data["updated_on"])

	// Extract hash before the round-trip (User.Hash has json:"-")
	var hash *string
	if h, ok := data["hash"].(string); ok && h != "" {
		hash = &h
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(jsonBytes, &user); err != nil {
		return nil, err
	}

	user.Hash = hash
	return &user, nil
}

// unwrapQueryRows flattens the {status, result} wrappers returned by
// Database.Query into a single row slice.
func unwrapQueryRows(results []interface{}) []interface{} {
	rows := make([]interface{}, 0)
	for _, r := range results {
		resp, ok := r.(map[string]interface{})
		if !ok {
			rows = append(rows, r)
			continue
		}
		if resultData, ok := resp["result"].([]interface{}); ok {
			rows = append(rows, resultData...)
		}
	}
	return rows
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
