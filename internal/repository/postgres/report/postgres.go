package report

import (
	"context"

	domain "github.com/malprimis/petanchiki/internal/domain/report"
	"github.com/malprimis/petanchiki/internal/domain/transaction"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Totals(ctx context.Context, groupID string, filter domain.Filter) ([]domain.TypeTotal, error) {
	var rows []domain.TypeTotal
	if err := r.scoped(ctx, groupID, filter).
		Select("transactions.type AS type, SUM(transactions.amount) AS total, COUNT(*) AS count").
		Group("transactions.type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ByCategory(ctx context.Context, groupID string, filter domain.Filter) ([]domain.CategoryTotal, error) {
	var rows []domain.CategoryTotal
	if err := r.scoped(ctx, groupID, filter).
		Select("transactions.category_id AS category_id, categories.name AS category_name, transactions.type AS type, SUM(transactions.amount) AS total, COUNT(*) AS count").
		Joins("join categories on categories.id = transactions.category_id").
		Group("transactions.category_id, categories.name, transactions.type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ByUser(ctx context.Context, groupID string, filter domain.Filter) ([]domain.UserTotal, error) {
	var rows []domain.UserTotal
	if err := r.scoped(ctx, groupID, filter).
		Select("transactions.user_id AS user_id, users.name AS user_name, transactions.type AS type, SUM(transactions.amount) AS total, COUNT(*) AS count").
		Joins("join users on users.id = transactions.user_id").
		Group("transactions.user_id, users.name, transactions.type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) scoped(ctx context.Context, groupID string, filter domain.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&transaction.Transaction{}).
		Where("transactions.group_id = ?", groupID)
	if filter.From != nil {
		query = query.Where("transactions.date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transactions.date <= ?", *filter.To)
	}
	return query
}
