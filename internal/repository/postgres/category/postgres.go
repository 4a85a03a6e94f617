package category

import (
	"context"
	"errors"

	"github.com/malprimis/petanchiki/internal/db"
	domain "github.com/malprimis/petanchiki/internal/domain/category"
	"github.com/malprimis/petanchiki/internal/domain/transaction"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListByGroup(ctx context.Context, groupID string) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.WithContext(ctx).Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) CountByName(ctx context.Context, groupID, name, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("group_id = ? AND name = ?", groupID, name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *PostgresRepository) Create(ctx context.Context, category *domain.Category) error {
	err := r.db.WithContext(ctx).Create(category).Error
	if db.IsUniqueViolation(err) {
		return domain.ErrCategoryNameTaken
	}
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, category *domain.Category) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name": category.Name,
			"icon": category.Icon,
		}).Error
	if db.IsUniqueViolation(err) {
		return domain.ErrCategoryNameTaken
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, categoryID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Category{}, "id = ?", categoryID)
	if result.Error != nil {
		if db.IsForeignKeyViolation(result.Error) {
			return false, domain.ErrCategoryInUse
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) CountTransactions(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&transaction.Transaction{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
