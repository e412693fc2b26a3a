package sqlstore

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-crud-service/internal/domain/user"
)

// DefaultPoolTimeout bounds a single operation when no timeout is configured.
// The bound covers the whole operation: waiting for a pooled connection and
// running the statement. Exceeding it is reported as StoreUnavailable.
const DefaultPoolTimeout = 5 * time.Second

// UserRepo implements user.Repository on top of a pooled GORM handle.
//
// Every method holds a connection for a single statement, or for a
// statement+lookup pair pinned to one connection, and returns it to the pool
// on every exit path.
type UserRepo struct {
	db          *gorm.DB      // GORM handle over the shared *sql.DB pool
	log         *zap.Logger   // Structured logger for database operations
	poolTimeout time.Duration // Bound for acquiring a connection and running the statement, together
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, poolTimeout time.Duration, log *zap.Logger) *UserRepo {
	if poolTimeout <= 0 {
		poolTimeout = DefaultPoolTimeout
	}
	return &UserRepo{db: db, log: log, poolTimeout: poolTimeout}
}

var _ user.Repository = (*UserRepo)(nil)

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"` // Unique identifier with auto-increment
	Name  string `gorm:"not null"`                 // User's full name (required)
	Email string `gorm:"not null;unique"`          // User's unique email address (required, unique)
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m UserSchema) toDomain() *user.User {
	return &user.User{ID: m.ID, Name: m.Name, Email: m.Email}
}

// session returns a fresh GORM session whose context carries the pool timeout.
func (r *UserRepo) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, r.poolTimeout)
	return r.db.WithContext(ctx), cancel
}

// ListUsers returns every user ordered by ascending ID.
func (r *UserRepo) ListUsers(ctx context.Context) ([]user.User, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var models []UserSchema
	if err := db.Order("id ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, classify("list users", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = *model.toDomain()
	}
	return users, nil
}

// GetUser retrieves a user by ID. A missing row yields found=false and no error.
func (r *UserRepo) GetUser(ctx context.Context, id int64) (*user.User, bool, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var model UserSchema
	if err := db.Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, false, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, false, classify("get user", err)
	}

	return model.toDomain(), true, nil
}

// CreateUser inserts a new user and returns it with the store-assigned ID.
// A duplicate email surfaces as a constraint violation from the insert itself;
// there is no separate existence check.
func (r *UserRepo) CreateUser(ctx context.Context, in user.Input) (*user.User, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	model := UserSchema{
		Name:  in.Name,
		Email: in.Email,
	}
	if err := db.Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", in.Email))
		return nil, classify("create user", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.toDomain(), nil
}

// UpdateUser replaces name and email of the user with the given ID.
// The update and the read-back share one pooled connection.
func (r *UserRepo) UpdateUser(ctx context.Context, id int64, in user.Input) (*user.User, bool, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var (
		model UserSchema
		found bool
	)
	err := db.Connection(func(conn *gorm.DB) error {
		res := conn.Session(&gorm.Session{}).
			Model(&UserSchema{}).
			Where("id = ?", id).
			Updates(map[string]any{"name": in.Name, "email": in.Email})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		return conn.Session(&gorm.Session{}).Where("id = ?", id).Take(&model).Error
	})
	if err != nil {
		r.log.Error("failed to update user in db", zap.Error(err), zap.Int64("id", id))
		return nil, false, classify("update user", err)
	}
	if !found {
		r.log.Debug("user to update not found", zap.Int64("id", id))
		return nil, false, nil
	}

	r.log.Info("user updated in db", zap.Int64("id", id))
	return model.toDomain(), true, nil
}

// DeleteUser removes the user with the given ID and reports whether a row was removed.
func (r *UserRepo) DeleteUser(ctx context.Context, id int64) (bool, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	res := db.Where("id = ?", id).Delete(&UserSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.Int64("id", id))
		return false, classify("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Debug("user to delete not found", zap.Int64("id", id))
		return false, nil
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return true, nil
}

// Ping verifies that a connection can be obtained and used.
func (r *UserRepo) Ping(ctx context.Context) error {
	db, cancel := r.session(ctx)
	defer cancel()

	sqlDB, err := db.DB()
	if err != nil {
		return classify("ping", err)
	}
	if err := sqlDB.PingContext(db.Statement.Context); err != nil {
		return classify("ping", err)
	}
	return nil
}
