// Package repositorytest provides in-memory repositories for tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/catalog-service/internal/domain"
	"github.com/storefront/catalog-service/internal/repository"
)

func newID() string {
	return primitive.NewObjectID().Hex()
}

// Categories is an in-memory repository.CategoryRepository.
type Categories struct {
	mu    sync.Mutex
	items map[string]domain.Category
	Err   error
}

// NewCategories returns an empty store.
func NewCategories() *Categories {
	return &Categories{items: map[string]domain.Category{}}
}

func (s *Categories) Create(_ context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.items {
		if existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	c.ID = newID()
	c.CreatedAt = time.Now().UTC()
	s.items[c.ID] = *c
	return nil
}

func (s *Categories) Update(_ context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[c.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range s.items {
		if id != c.ID && existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	s.items[c.ID] = *c
	return nil
}

func (s *Categories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *Categories) GetByName(_ context.Context, name string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, c := range s.items {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Categories) List(_ context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]domain.Category, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Categories) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Products is an in-memory repository.ProductRepository.
type Products struct {
	mu    sync.Mutex
	items map[string]domain.Product
	Err   error
	// CreateErr fails only Create, leaving reads intact.
	CreateErr error
}

// NewProducts returns an empty store.
func NewProducts() *Products {
	return &Products{items: map[string]domain.Product{}}
}

// Seed stores products as-is, keeping their ids.
func (s *Products) Seed(products ...domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		s.items[p.ID] = cloneProduct(p)
	}
}

func cloneProduct(p domain.Product) domain.Product {
	p.Images = append([]string{}, p.Images...)
	return p
}

func (s *Products) Create(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.CreateErr != nil {
		return s.CreateErr
	}
	p.ID = newID()
	p.CreatedAt = time.Now().UTC()
	s.items[p.ID] = cloneProduct(*p)
	return nil
}

func (s *Products) Update(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[p.ID]; !ok {
		return repository.ErrNotFound
	}
	s.items[p.ID] = cloneProduct(*p)
	return nil
}

func (s *Products) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (s *Products) List(_ context.Context) ([]domain.Product, error) {
	return s.filter(func(domain.Product) bool { return true })
}

func (s *Products) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Products) ListByCategory(_ context.Context, categoryID string) ([]domain.Product, error) {
	return s.filter(func(p domain.Product) bool { return p.CategoryID == categoryID })
}

func (s *Products) ListFeatured(_ context.Context) ([]domain.Product, error) {
	return s.filter(func(p domain.Product) bool { return p.IsFeatured })
}

func (s *Products) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	products, err := s.ListByCategory(ctx, categoryID)
	return int64(len(products)), err
}

// RepresentativesPerCategory returns groups in map order, like a $group
// stage without a trailing sort.
func (s *Products) RepresentativesPerCategory(_ context.Context, perCategory int) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	groups := map[string][]domain.Product{}
	for _, p := range s.items {
		groups[p.CategoryID] = append(groups[p.CategoryID], cloneProduct(p))
	}
	out := []domain.Product{}
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		if len(group) > perCategory {
			group = group[:perCategory]
		}
		out = append(out, group...)
	}
	return out, nil
}

func (s *Products) filter(keep func(domain.Product) bool) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []domain.Product{}
	for _, p := range s.items {
		if keep(p) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu    sync.Mutex
	items map[string]domain.User
	Err   error
}

// NewUsers returns an empty store.
func NewUsers() *Users {
	return &Users{items: map[string]domain.User{}}
}

func (s *Users) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.items {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = newID()
	u.CreatedAt = time.Now().UTC()
	s.items[u.ID] = *u
	return nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.items {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

var (
	_ repository.CategoryRepository = (*Categories)(nil)
	_ repository.ProductRepository  = (*Products)(nil)
	_ repository.UserRepository     = (*Users)(nil)
)
