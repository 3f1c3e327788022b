package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// Keyspace layout:
//
//	users:next_id              counter for id assignment
//	user:<id>                  hash holding the account fields
//	users:by_username:<name>   index key, value is the owning id
//	users:by_email:<email>     index key, value is the owning id
//
// Uniqueness is enforced by the index keys: whoever writes the key first
// owns the name. Inserts run under WATCH so a raced claim is retried and
// reported as the proper conflict.
const keyNextID = "users:next_id"

const insertRetries = 3

func keyUser(id string) string {
	return "user:" + id
}

func keyByUsername(username string) string {
	return "users:by_username:" + username
}

func keyByEmail(email string) string {
	return "users:by_email:" + email
}

// UserRepository is the Redis adapter for account storage.
type UserRepository struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	fields, err := r.client.HGetAll(ctx, keyUser(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return userFromFields(id, fields), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findByIndex(ctx, keyByUsername(username))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByIndex(ctx, keyByEmail(email))
}

func (r *UserRepository) findByIndex(ctx context.Context, indexKey string) (*domain.User, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve index: %w", err)
	}
	return r.FindByID(ctx, id)
}

// Insert stores a new active account. Both index keys are checked and
// claimed inside one optimistic transaction; losing a race reruns the
// check so the loser sees the winner's claim.
func (r *UserRepository) Insert(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	unameKey := keyByUsername(username)
	emailKey := keyByEmail(email)

	var user *domain.User

	txf := func(tx *redis.Tx) error {
		if n, err := tx.Exists(ctx, unameKey).Result(); err != nil {
			return err
		} else if n > 0 {
			return domain.ErrUsernameTaken
		}
		if n, err := tx.Exists(ctx, emailKey).Result(); err != nil {
			return err
		} else if n > 0 {
			return domain.ErrEmailTaken
		}

		id, err := tx.Incr(ctx, keyNextID).Result()
		if err != nil {
			return err
		}

		now := time.Now()
		user = &domain.User{
			ID:           strconv.FormatInt(id, 10),
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, keyUser(user.ID), userFields(user))
			pipe.Set(ctx, unameKey, user.ID, 0)
			pipe.Set(ctx, emailKey, user.ID, 0)
			return nil
		})
		return err
	}

	for i := 0; i < insertRetries; i++ {
		err := r.client.Watch(ctx, txf, unameKey, emailKey)
		switch {
		case err == nil:
			return user, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrEmailTaken):
			return nil, err
		default:
			return nil, fmt.Errorf("insert user: %w", err)
		}
	}
	return nil, fmt.Errorf("insert user: transaction kept failing after %d attempts", insertRetries)
}

// Update rewrites the stored hash and moves the index keys for any renamed
// username or email. New values are claimed with SETNX before the old
// claims are released.
func (r *UserRepository) Update(ctx context.Context, id string, changes ports.UserUpdate) (*domain.User, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	renameUsername := changes.Username != nil && *changes.Username != current.Username
	renameEmail := changes.Email != nil && *changes.Email != current.Email

	if renameUsername {
		ok, err := r.client.SetNX(ctx, keyByUsername(*changes.Username), id, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("claim username: %w", err)
		}
		if !ok {
			return nil, domain.ErrUsernameTaken
		}
	}
	if renameEmail {
		ok, err := r.client.SetNX(ctx, keyByEmail(*changes.Email), id, 0).Result()
		if err != nil || !ok {
			if renameUsername {
				// Roll back the username claim taken above.
				r.client.Del(ctx, keyByUsername(*changes.Username))
			}
			if err != nil {
				return nil, fmt.Errorf("claim email: %w", err)
			}
			return nil, domain.ErrEmailTaken
		}
	}

	next := *current
	if changes.Username != nil {
		next.Username = *changes.Username
	}
	if changes.Email != nil {
		next.Email = *changes.Email
	}
	if changes.PasswordHash != nil {
		next.PasswordHash = *changes.PasswordHash
	}
	if changes.Active != nil {
		next.Active = *changes.Active
	}
	next.UpdatedAt = time.Now()

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, keyUser(id), userFields(&next))
		if renameUsername {
			pipe.Del(ctx, keyByUsername(current.Username))
		}
		if renameEmail {
			pipe.Del(ctx, keyByEmail(current.Email))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &next, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keyUser(id))
		pipe.Del(ctx, keyByUsername(current.Username))
		pipe.Del(ctx, keyByEmail(current.Email))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return true, nil
}

func userFields(u *domain.User) map[string]any {
	return map[string]any{
		"username":      u.Username,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"active":        strconv.FormatBool(u.Active),
		"created_at":    strconv.FormatInt(u.CreatedAt.Unix(), 10),
		"updated_at":    strconv.FormatInt(u.UpdatedAt.Unix(), 10),
	}
}

func userFromFields(id string, fields map[string]string) *domain.User {
	active, _ := strconv.ParseBool(fields["active"])
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	updatedAt, _ := strconv.ParseInt(fields["updated_at"], 10, 64)

	return &domain.User{
		ID:           id,
		Username:     fields["username"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		Active:       active,
		CreatedAt:    time.Unix(createdAt, 0).UTC(),
		UpdatedAt:    time.Unix(updatedAt, 0).UTC(),
	}
}
