package group

import (
	"context"
	"errors"
	"time"

	"github.com/malprimis/petanchiki/internal/db"
	groupdomain "github.com/malprimis/petanchiki/internal/domain/group"
	userdomain "github.com/malprimis/petanchiki/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(groupdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetActiveGroup(ctx context.Context, groupID string) (*groupdomain.Group, error) {
	var group groupdomain.Group
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", groupID, true).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) ListActiveGroupsByUser(ctx context.Context, userID string) ([]groupdomain.Group, error) {
	var groups []groupdomain.Group
	if err := r.db.WithContext(ctx).
		Model(&groupdomain.Group{}).
		Select(`"groups".*`).
		Joins(`join user_groups on user_groups.group_id = "groups".id`).
		Where(`user_groups.user_id = ? AND "groups".is_active = ?`, userID, true).
		Order(`"groups".name asc`).
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, group *groupdomain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *PostgresRepository) UpdateGroup(ctx context.Context, group *groupdomain.Group) error {
	return r.db.WithContext(ctx).
		Model(&groupdomain.Group{}).
		Where("id = ?", group.ID).
		Updates(map[string]interface{}{
			"name":        group.Name,
			"description": group.Description,
			"updated_at":  group.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) SoftDeleteGroup(ctx context.Context, groupID string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&groupdomain.Group{}).
		Where("id = ? AND is_active = ?", groupID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_at": at,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ResolveActiveUser(ctx context.Context, userID, email string) (string, error) {
	query := r.db.WithContext(ctx).Model(&userdomain.User{}).Where("is_active = ?", true)
	if userID != "" {
		query = query.Where("id = ?", userID)
	} else {
		query = query.Where("email = ?", email)
	}

	var ids []string
	if err := query.Limit(1).Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", groupdomain.ErrUserNotFound
	}
	return ids[0], nil
}

func (r *PostgresRepository) GetMembership(ctx context.Context, groupID, userID string) (*groupdomain.Membership, error) {
	var membership groupdomain.Membership
	if err := r.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, groupdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func (r *PostgresRepository) AddMembership(ctx context.Context, membership *groupdomain.Membership) error {
	err := r.db.WithContext(ctx).Create(membership).Error
	if db.IsUniqueViolation(err) {
		return groupdomain.ErrAlreadyMember
	}
	return err
}

func (r *PostgresRepository) UpdateMembershipRole(ctx context.Context, groupID, userID string, role groupdomain.Role) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&groupdomain.Membership{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) DeleteMembership(ctx context.Context, groupID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&groupdomain.Membership{}, "group_id = ? AND user_id = ?", groupID, userID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ActiveRole(ctx context.Context, groupID, userID string) (groupdomain.Role, bool, error) {
	var roles []string
	if err := r.activeMemberships(ctx).
		Where("user_groups.group_id = ? AND user_groups.user_id = ?", groupID, userID).
		Limit(1).
		Pluck("user_groups.role", &roles).Error; err != nil {
		return "", false, err
	}
	if len(roles) == 0 {
		return "", false, nil
	}
	return groupdomain.Role(roles[0]), true, nil
}

func (r *PostgresRepository) CountActiveAdmins(ctx context.Context, groupID, excludeUserID string) (int64, error) {
	var count int64
	err := r.activeMemberships(ctx).
		Where("user_groups.group_id = ? AND user_groups.role = ? AND user_groups.user_id <> ?", groupID, groupdomain.RoleAdmin, excludeUserID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) ListMembers(ctx context.Context, groupID string, includeInactive bool) ([]groupdomain.Membership, error) {
	query := r.db.WithContext(ctx).Model(&groupdomain.Membership{}).Select("user_groups.*")
	if !includeInactive {
		query = query.
			Joins("join users on users.id = user_groups.user_id").
			Where("users.is_active = ?", true)
	}

	var members []groupdomain.Membership
	if err := query.
		Where("user_groups.group_id = ?", groupID).
		Order("user_groups.joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]groupdomain.Membership, error) {
	var members []groupdomain.Membership
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("joined_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// activeMemberships scopes user_groups to rows whose user and group are both
// active.
func (r *PostgresRepository) activeMemberships(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&groupdomain.Membership{}).
		Joins("join users on users.id = user_groups.user_id").
		Joins(`join "groups" on "groups".id = user_groups.group_id`).
		Where(`users.is_active = ? AND "groups".is_active = ?`, true, true)
}
