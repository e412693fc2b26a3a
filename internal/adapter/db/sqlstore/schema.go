package sqlstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-crud-service/internal/domain/user"
)

// DefaultSeed is inserted into an empty users table at startup.
var DefaultSeed = []user.Input{
	{Name: "Zhang San", Email: "zhangsan@example.com"},
	{Name: "Li Si", Email: "lisi@example.com"},
}

// EnsureSchema creates the users table when missing and inserts seed rows when
// the table is empty. It runs once, before the repository is handed to the
// HTTP layer.
func EnsureSchema(ctx context.Context, db *gorm.DB, seed []user.Input, log *zap.Logger) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}

	if len(seed) == 0 {
		log.Info("database schema ready")
		return nil
	}

	var count int64
	if err := db.Model(&UserSchema{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		log.Info("database schema ready", zap.Int64("existing_users", count))
		return nil
	}

	rows := make([]UserSchema, len(seed))
	for i, in := range seed {
		rows[i] = UserSchema{Name: in.Name, Email: in.Email}
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	log.Info("seeded users table", zap.Int("rows", len(rows)))
	return nil
}
