package transaction

import (
	"context"
	"errors"

	categorydomain "github.com/malprimis/petanchiki/internal/domain/category"
	domain "github.com/malprimis/petanchiki/internal/domain/transaction"
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

func (r *PostgresRepository) CategoryInGroup(ctx context.Context, groupID, categoryID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&categorydomain.Category{}).
		Where("id = ? AND group_id = ?", categoryID, groupID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var transaction domain.Transaction
	if err := r.db.WithContext(ctx).
		Select("transactions.*").
		Joins(`join "groups" on "groups".id = transactions.group_id`).
		Where(`transactions.id = ? AND "groups".is_active = ?`, transactionID, true).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *PostgresRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]interface{}{
			"category_id": transaction.CategoryID,
			"amount":      transaction.Amount,
			"type":        transaction.Type,
			"description": transaction.Description,
			"date":        transaction.Date,
			"updated_at":  transaction.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, transactionID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Transaction{}, "id = ?", transactionID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) List(ctx context.Context, groupID string, filter domain.ListFilter) ([]domain.Transaction, error) {
	query := r.db.WithContext(ctx).Where("group_id = ?", groupID)
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var transactions []domain.Transaction
	if err := query.
		Order("date desc, created_at desc, id asc").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
