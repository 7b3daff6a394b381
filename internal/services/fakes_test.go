package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pantrio/pantrio/internal/foodfacts"
	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
)

// In-memory repository stand-ins. They copy on read and write so that
// forgetting a Save shows up as a failing assertion, like it would
// against a real database.

type fakeUserRepo struct {
	users   map[string]*models.User
	creates int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByExternalID(_ context.Context, externalID string) (*models.User, error) {
	for _, user := range r.users {
		if user.ExternalID == externalID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.creates++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Save(_ context.Context, user *models.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakeMemberRepo struct {
	members []models.HouseholdMember
	nextID  uint64
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{}
}

func (r *fakeMemberRepo) GetByHouseholdAndUser(_ context.Context, householdID, userID string) (*models.HouseholdMember, error) {
	for _, m := range r.members {
		if m.HouseholdID == householdID && m.UserID == userID {
			copied := m
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeMemberRepo) ListByHousehold(_ context.Context, householdID string) ([]models.HouseholdMember, error) {
	var roster []models.HouseholdMember
	for _, m := range r.members {
		if m.HouseholdID == householdID {
			roster = append(roster, m)
		}
	}
	return roster, nil
}

func (r *fakeMemberRepo) CountOwners(_ context.Context, householdID string) (int64, error) {
	var count int64
	for _, m := range r.members {
		if m.HouseholdID == householdID && m.Role == models.MemberRoleOwner {
			count++
		}
	}
	return count, nil
}

func (r *fakeMemberRepo) Create(_ context.Context, member *models.HouseholdMember) error {
	r.nextID++
	member.MemberID = r.nextID
	r.members = append(r.members, *member)
	return nil
}

func (r *fakeMemberRepo) Delete(_ context.Context, member *models.HouseholdMember) error {
	for i, m := range r.members {
		if m.MemberID == member.MemberID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeHouseholdRepo struct {
	households map[string]*models.Household
	members    *fakeMemberRepo
}

func newFakeHouseholdRepo(members *fakeMemberRepo) *fakeHouseholdRepo {
	return &fakeHouseholdRepo{households: map[string]*models.Household{}, members: members}
}

func (r *fakeHouseholdRepo) GetByID(_ context.Context, id string) (*models.Household, error) {
	if h, ok := r.households[id]; ok {
		copied := *h
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeHouseholdRepo) ListByUser(ctx context.Context, userID string) ([]models.Household, error) {
	var result []models.Household
	for _, m := range r.members.members {
		if m.UserID != userID {
			continue
		}
		if h, ok := r.households[m.HouseholdID]; ok {
			result = append(result, *h)
		}
	}
	return result, nil
}

func (r *fakeHouseholdRepo) CreateWithOwner(ctx context.Context, household *models.Household, ownerUserID string) error {
	if household.ID == "" {
		household.ID = uuid.NewString()
	}
	copied := *household
	r.households[household.ID] = &copied
	return r.members.Create(ctx, &models.HouseholdMember{
		HouseholdID: household.ID,
		UserID:      ownerUserID,
		Role:        models.MemberRoleOwner,
	})
}

func (r *fakeHouseholdRepo) Save(_ context.Context, household *models.Household) error {
	copied := *household
	r.households[household.ID] = &copied
	return nil
}

func (r *fakeHouseholdRepo) Delete(_ context.Context, household *models.Household) error {
	delete(r.households, household.ID)
	kept := r.members.members[:0]
	for _, m := range r.members.members {
		if m.HouseholdID != household.ID {
			kept = append(kept, m)
		}
	}
	r.members.members = kept
	return nil
}

type fakeLocationRepo struct {
	locations []models.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{}
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id string) (*models.Location, error) {
	for _, l := range r.locations {
		if l.ID == id {
			copied := l
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeLocationRepo) GetByHouseholdAndName(_ context.Context, householdID, name string) (*models.Location, error) {
	for _, l := range r.locations {
		if l.HouseholdID == householdID && l.Name == name {
			copied := l
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeLocationRepo) ListByHousehold(_ context.Context, householdID string, params repository.ListParams) ([]models.Location, int64, error) {
	var all []models.Location
	for _, l := range r.locations {
		if l.HouseholdID == householdID {
			all = append(all, l)
		}
	}
	total := int64(len(all))
	if params.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[params.Offset:]
	if params.Limit > 0 && params.Limit < len(all) {
		all = all[:params.Limit]
	}
	return all, total, nil
}

func (r *fakeLocationRepo) SearchByName(_ context.Context, householdID, name string) ([]models.Location, error) {
	var result []models.Location
	needle := strings.ToLower(name)
	for _, l := range r.locations {
		if l.HouseholdID == householdID && strings.Contains(strings.ToLower(l.Name), needle) {
			result = append(result, l)
		}
	}
	return result, nil
}

func (r *fakeLocationRepo) Create(_ context.Context, location *models.Location) error {
	if location.ID == "" {
		location.ID = uuid.NewString()
	}
	r.locations = append(r.locations, *location)
	return nil
}

func (r *fakeLocationRepo) Save(_ context.Context, location *models.Location) error {
	for i, l := range r.locations {
		if l.ID == location.ID {
			r.locations[i] = *location
			return nil
		}
	}
	return fmt.Errorf("location %s not stored", location.ID)
}

func (r *fakeLocationRepo) Delete(_ context.Context, location *models.Location) error {
	for i, l := range r.locations {
		if l.ID == location.ID {
			r.locations = append(r.locations[:i], r.locations[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeProductRepo struct {
	products []models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{}
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			copied := p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByUPC(_ context.Context, upc string) (*models.Product, error) {
	for _, p := range r.products {
		if p.UPC != nil && *p.UPC == upc {
			copied := p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(_ context.Context, params repository.ListParams) ([]models.Product, int64, error) {
	total := int64(len(r.products))
	all := append([]models.Product(nil), r.products...)
	if params.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[params.Offset:]
	if params.Limit > 0 && params.Limit < len(all) {
		all = all[:params.Limit]
	}
	return all, total, nil
}

func (r *fakeProductRepo) SearchByName(_ context.Context, name string) ([]models.Product, error) {
	var result []models.Product
	needle := strings.ToLower(name)
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) ListByCategory(_ context.Context, category string) ([]models.Product, error) {
	var result []models.Product
	for _, p := range r.products {
		if p.Category != nil && strings.EqualFold(*p.Category, category) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) ListByBrand(_ context.Context, brand string) ([]models.Product, error) {
	var result []models.Product
	for _, p := range r.products {
		if p.Brand != nil && strings.EqualFold(*p.Brand, brand) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) ListRetryCandidates(_ context.Context, maxAttempts, limit int) ([]models.Product, error) {
	var result []models.Product
	for _, p := range r.products {
		if p.RequiresAPIRetry && p.RetryAttempts < maxAttempts {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].LastRetryAttempt, result[j].LastRetryAttempt
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeProductRepo) Create(_ context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	r.products = append(r.products, *product)
	return nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *models.Product) error {
	for i, p := range r.products {
		if p.ID == product.ID {
			r.products[i] = *product
			return nil
		}
	}
	return fmt.Errorf("product %s not stored", product.ID)
}

func (r *fakeProductRepo) Delete(_ context.Context, product *models.Product) error {
	for i, p := range r.products {
		if p.ID == product.ID {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeLookup satisfies ProductLookup with canned behavior per test.
type fakeLookup struct {
	fetch         func(ctx context.Context, upc string) (*foodfacts.Product, error)
	fetchDetailed func(ctx context.Context, upc string) (*foodfacts.Product, error)
	fetchCalls    int
	detailedCalls int
}

func (f *fakeLookup) Fetch(ctx context.Context, upc string) (*foodfacts.Product, error) {
	f.fetchCalls++
	if f.fetch == nil {
		return nil, fmt.Errorf("unexpected Fetch(%s)", upc)
	}
	return f.fetch(ctx, upc)
}

func (f *fakeLookup) FetchDetailed(ctx context.Context, upc string) (*foodfacts.Product, error) {
	f.detailedCalls++
	if f.fetchDetailed == nil {
		return nil, fmt.Errorf("unexpected FetchDetailed(%s)", upc)
	}
	return f.fetchDetailed(ctx, upc)
}

func strptr(s string) *string {
	return &s
}
