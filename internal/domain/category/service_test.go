package category

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/malprimis/petanchiki/internal/domain/apperr"
	"github.com/malprimis/petanchiki/internal/domain/user"
)

const groupID1 = "11111111-1111-1111-1111-111111111111"

type fakeCategoryRepo struct {
	mu           sync.Mutex
	categories   map[string]*Category
	transactions map[string]int64
	beforeCreate func()
	listCalls    int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories:   make(map[string]*Category),
		transactions: make(map[string]int64),
	}
}

func (r *fakeCategoryRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeCategoryRepo) ListByGroup(ctx context.Context, groupID string) ([]Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	items := make([]Category, 0)
	for _, category := range r.categories {
		if category.GroupID == groupID {
			items = append(items, *category)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, categoryID string) (*Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[categoryID]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) CountByName(ctx context.Context, groupID, name, excludeID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, category := range r.categories {
		if category.GroupID == groupID && category.Name == name && category.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *Category) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.GroupID == category.GroupID && existing.Name == category.Name {
			return ErrCategoryNameTaken
		}
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, category *Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, categoryID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[categoryID]; !ok {
		return false, nil
	}
	delete(r.categories, categoryID)
	return true, nil
}

func (r *fakeCategoryRepo) CountTransactions(ctx context.Context, categoryID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transactions[categoryID], nil
}

type fakeMembership map[string]bool

func (m fakeMembership) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	return m[groupID+"/"+userID], nil
}

type fakeCache struct {
	items   map[string][]Category
	deletes int
}

func (c *fakeCache) GetByGroupID(groupID string) ([]Category, bool) {
	items, ok := c.items[groupID]
	return items, ok
}

func (c *fakeCache) SetByGroupID(groupID string, categories []Category, ttl time.Duration) {
	c.items[groupID] = categories
}

func (c *fakeCache) DeleteByGroupID(groupID string) {
	c.deletes++
	delete(c.items, groupID)
}

var (
	alice   = user.Principal{ID: "alice"}
	bob     = user.Principal{ID: "bob"}
	outside = user.Principal{ID: "mallory"}
)

func newTestService(repo *fakeCategoryRepo) *Service {
	membership := fakeMembership{
		groupID1 + "/alice": true,
		groupID1 + "/bob":   true,
	}
	return NewService(repo, membership, nil, 0)
}

func TestCreateCategory(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := newTestService(repo)

	icon := " 🍕 "
	created, err := svc.Create(context.Background(), alice, groupID1, CreateInput{Name: " Food ", Icon: &icon})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Name != "Food" || created.Icon == nil || *created.Icon != "🍕" {
		t.Fatalf("unexpected category %+v", created)
	}
	if created.GroupID != groupID1 || created.ID == "" {
		t.Fatalf("unexpected ids %+v", created)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), alice, groupID1, CreateInput{Name: "  "}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := svc.Create(context.Background(), outside, groupID1, CreateInput{Name: "Food"}); !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
	if !errors.Is(ErrNotMember, apperr.ErrForbidden) {
		t.Fatalf("expected ErrNotMember to be forbidden")
	}
}

func TestCreateCategoryDuplicateNameIsExactMatch(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice, groupID1, CreateInput{Name: "Food"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, bob, groupID1, CreateInput{Name: "Food"}); !errors.Is(err, ErrCategoryNameTaken) {
		t.Fatalf("expected ErrCategoryNameTaken, got %v", err)
	}
	if _, err := svc.Create(ctx, bob, groupID1, CreateInput{Name: "food"}); err != nil {
		t.Fatalf("expected different case allowed, got %v", err)
	}
	if !errors.Is(ErrCategoryNameTaken, apperr.ErrConflict) {
		t.Fatalf("expected conflict kind")
	}
}

func TestConcurrentCreateCategoryYieldsSingleRow(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := newTestService(repo)

	var arrived sync.WaitGroup
	arrived.Add(2)
	repo.beforeCreate = func() {
		arrived.Done()
		arrived.Wait()
	}

	errs := make(chan error, 2)
	for _, actor := range []user.Principal{alice, bob} {
		go func(actor user.Principal) {
			_, err := svc.Create(context.Background(), actor, groupID1, CreateInput{Name: "Rent"})
			errs <- err
		}(actor)
	}

	var succeeded, conflicted int
	for i := 0; i < 2; i++ {
		err := <-errs
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrCategoryNameTaken):
			conflicted++
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if succeeded != 1 || conflicted != 1 {
		t.Fatalf("expected one success and one conflict, got %d/%d", succeeded, conflicted)
	}
	if len(repo.categories) != 1 {
		t.Fatalf("expected one category stored, got %d", len(repo.categories))
	}
}

func TestUpdateCategory(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	food, _ := svc.Create(ctx, alice, groupID1, CreateInput{Name: "Food"})
	_, _ = svc.Create(ctx, alice, groupID1, CreateInput{Name: "Rent"})

	taken := "Rent"
	if _, err := svc.Update(ctx, bob, food.ID, UpdateInput{Name: &taken}); !errors.Is(err, ErrCategoryNameTaken) {
		t.Fatalf("expected ErrCategoryNameTaken, got %v", err)
	}

	same := "Food"
	icon := "🥦"
	updated, err := svc.Update(ctx, bob, food.ID, UpdateInput{Name: &same, Icon: OptionalNullableString{Set: true, Value: &icon}})
	if err != nil {
		t.Fatalf("expected rename to own name allowed, got %v", err)
	}
	if updated.Icon == nil || *updated.Icon != "🥦" {
		t.Fatalf("expected icon set, got %+v", updated)
	}

	cleared, err := svc.Update(ctx, bob, food.ID, UpdateInput{Icon: OptionalNullableString{Set: true}})
	if err != nil {
		t.Fatalf("clear icon: %v", err)
	}
	if cleared.Icon != nil {
		t.Fatalf("expected icon cleared")
	}

	if _, err := svc.Update(ctx, outside, food.ID, UpdateInput{Name: &same}); !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
	if _, err := svc.Update(ctx, alice, "missing", UpdateInput{Name: &same}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	food, _ := svc.Create(ctx, alice, groupID1, CreateInput{Name: "Food"})
	rent, _ := svc.Create(ctx, alice, groupID1, CreateInput{Name: "Rent"})
	repo.transactions[rent.ID] = 2

	if err := svc.Delete(ctx, outside, food.ID); !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
	if err := svc.Delete(ctx, bob, rent.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}
	if err := svc.Delete(ctx, bob, food.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.Delete(ctx, bob, food.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestListCategoriesUsesCache(t *testing.T) {
	repo := newFakeCategoryRepo()
	cache := &fakeCache{items: make(map[string][]Category)}
	svc := NewService(repo, fakeMembership{groupID1 + "/alice": true}, cache, time.Minute)
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice, groupID1, CreateInput{Name: "Food"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.List(ctx, alice, groupID1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, _ := svc.List(ctx, alice, groupID1)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one category, got %d and %d", len(first), len(second))
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected second list served from cache, got %d repo calls", repo.listCalls)
	}

	if _, err := svc.Create(ctx, alice, groupID1, CreateInput{Name: "Rent"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	third, _ := svc.List(ctx, alice, groupID1)
	if len(third) != 2 {
		t.Fatalf("expected cache invalidated after create, got %d", len(third))
	}

	if _, err := svc.List(ctx, outside, groupID1); !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}
