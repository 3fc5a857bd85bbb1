// Package memory provides an in-memory Storage used by tests and local
// development. Semantics mirror the postgres implementation, including
// the all-or-nothing click transaction.
package memory

import (
	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/pkg/timeutil"
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type dayKey struct {
	entityID int64
	day      time.Time
}

type MemStorage struct {
	mu sync.RWMutex

	partners          map[int64]*domain.Partner
	products          map[int64]*domain.Product
	categories        map[int64]*domain.Category
	productCategories map[int64]*domain.ProductCategory
	admins            map[int64]*domain.AdminUser

	partnerClicks map[dayKey]int64
	productClicks map[dayKey]int64

	nextID int64
}

func New() *MemStorage {
	return &MemStorage{
		partners:          make(map[int64]*domain.Partner),
		products:          make(map[int64]*domain.Product),
		categories:        make(map[int64]*domain.Category),
		productCategories: make(map[int64]*domain.ProductCategory),
		admins:            make(map[int64]*domain.AdminUser),
		partnerClicks:     make(map[dayKey]int64),
		productClicks:     make(map[dayKey]int64),
	}
}

func (s *MemStorage) nextSeq() int64 {
	s.nextID++
	return s.nextID
}

// --- Click Ledger ---

func (s *MemStorage) ResolveOutbound(_ context.Context, kind domain.EntityKind, slug string) (*repository.Outbound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch kind {
	case domain.KindPartner:
		for _, p := range s.partners {
			if p.Slug == slug && p.Active && p.URL != "" {
				return &repository.Outbound{EntityID: p.ID, URL: p.URL}, nil
			}
		}
	case domain.KindProduct:
		for _, p := range s.products {
			if p.Slug == slug && p.Active && p.URL != "" {
				return &repository.Outbound{EntityID: p.ID, URL: p.URL}, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (s *MemStorage) RecordClick(_ context.Context, kind domain.EntityKind, entityID int64, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey{entityID: entityID, day: timeutil.StartOfDay(day)}
	switch kind {
	case domain.KindPartner:
		p, ok := s.partners[entityID]
		if !ok {
			return repository.ErrNotFound
		}
		p.ClickCount++
		s.partnerClicks[key]++
	case domain.KindProduct:
		p, ok := s.products[entityID]
		if !ok {
			return repository.ErrNotFound
		}
		p.ClickCount++
		s.productClicks[key]++
	default:
		return repository.ErrNotFound
	}
	return nil
}

func (s *MemStorage) SumClicksByEntity(_ context.Context, kind domain.EntityKind, since time.Time, limit int) ([]repository.EntityClickSum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since = timeutil.StartOfDay(since)
	totals := make(map[int64]int64)
	for key, count := range s.ledger(kind) {
		if !key.day.Before(since) {
			totals[key.entityID] += count
		}
	}

	sums := make([]repository.EntityClickSum, 0, len(totals))
	for id, total := range totals {
		sums = append(sums, repository.EntityClickSum{EntityID: id, Total: total})
	}
	sort.Slice(sums, func(i, j int) bool {
		if sums[i].Total != sums[j].Total {
			return sums[i].Total > sums[j].Total
		}
		return sums[i].EntityID < sums[j].EntityID
	})

	if limit > 0 && len(sums) > limit {
		sums = sums[:limit]
	}
	return sums, nil
}

func (s *MemStorage) SumClicksByDay(_ context.Context, kind domain.EntityKind, since time.Time) ([]repository.DayClickSum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since = timeutil.StartOfDay(since)
	totals := make(map[time.Time]int64)
	for key, count := range s.ledger(kind) {
		if !key.day.Before(since) {
			totals[key.day] += count
		}
	}

	sums := make([]repository.DayClickSum, 0, len(totals))
	for day, total := range totals {
		sums = append(sums, repository.DayClickSum{Day: day, Total: total})
	}
	sort.Slice(sums, func(i, j int) bool { return sums[i].Day.Before(sums[j].Day) })
	return sums, nil
}

func (s *MemStorage) ledger(kind domain.EntityKind) map[dayKey]int64 {
	switch kind {
	case domain.KindPartner:
		return s.partnerClicks
	case domain.KindProduct:
		return s.productClicks
	default:
		// Unknown kinds read an empty ledger.
		return nil
	}
}

// --- Partner Catalog ---

func (s *MemStorage) CreatePartner(_ context.Context, partner *domain.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.partners {
		if existing.Slug == partner.Slug {
			return repository.ErrSlugExists
		}
	}
	partner.ID = s.nextSeq()
	partner.CreatedAt = time.Now()
	partner.UpdatedAt = partner.CreatedAt
	clone := *partner
	s.partners[partner.ID] = &clone
	return nil
}

func (s *MemStorage) GetPartner(_ context.Context, id int64) (*domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.partners[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *MemStorage) ListPartners(_ context.Context, opts repository.ListOptions) ([]*domain.Partner, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.Partner
	for _, p := range s.partners {
		if !opts.IncludeInactive && !p.Active {
			continue
		}
		if opts.CategorySlug != "" {
			cat, ok := s.categories[p.CategoryID]
			if !ok || cat.Slug != opts.CategorySlug {
				continue
			}
		}
		clone := *p
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	return pageOf(matched, opts)
}

func (s *MemStorage) PartnersByIDs(_ context.Context, ids []int64) ([]*domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Partner
	for _, id := range ids {
		if p, ok := s.partners[id]; ok {
			clone := *p
			if cat, ok := s.categories[p.CategoryID]; ok {
				catClone := *cat
				clone.Category = &catClone
			}
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (s *MemStorage) UpdatePartner(_ context.Context, partner *domain.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.partners[partner.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range s.partners {
		if other.ID != partner.ID && other.Slug == partner.Slug {
			return repository.ErrSlugExists
		}
	}
	existing.Name = partner.Name
	existing.Slug = partner.Slug
	existing.URL = partner.URL
	existing.LogoURL = partner.LogoURL
	existing.Description = partner.Description
	existing.CategoryID = partner.CategoryID
	existing.Active = partner.Active
	existing.UpdatedAt = time.Now()
	return nil
}

func (s *MemStorage) DeletePartner(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.partners[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.partners, id)
	for key := range s.partnerClicks {
		if key.entityID == id {
			delete(s.partnerClicks, key)
		}
	}
	return nil
}

// --- Product Catalog ---

func (s *MemStorage) CreateProduct(_ context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.Slug == product.Slug {
			return repository.ErrSlugExists
		}
	}
	product.ID = s.nextSeq()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	clone := *product
	s.products[product.ID] = &clone
	return nil
}

func (s *MemStorage) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *MemStorage) ListProducts(_ context.Context, opts repository.ListOptions) ([]*domain.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.Product
	for _, p := range s.products {
		if !opts.IncludeInactive && !p.Active {
			continue
		}
		if opts.CategorySlug != "" {
			cat, ok := s.productCategories[p.ProductCategoryID]
			if !ok || cat.Slug != opts.CategorySlug {
				continue
			}
		}
		clone := *p
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	return pageOf(matched, opts)
}

func (s *MemStorage) ProductsByIDs(_ context.Context, ids []int64) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			clone := *p
			if cat, ok := s.productCategories[p.ProductCategoryID]; ok {
				catClone := *cat
				clone.ProductCategory = &catClone
			}
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (s *MemStorage) UpdateProduct(_ context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range s.products {
		if other.ID != product.ID && other.Slug == product.Slug {
			return repository.ErrSlugExists
		}
	}
	existing.Name = product.Name
	existing.Slug = product.Slug
	existing.URL = product.URL
	existing.Platform = product.Platform
	existing.ImageURLs = append([]string(nil), product.ImageURLs...)
	existing.CTALabel = product.CTALabel
	existing.CTAColor = product.CTAColor
	existing.Description = product.Description
	existing.ProductCategoryID = product.ProductCategoryID
	existing.Active = product.Active
	existing.UpdatedAt = time.Now()
	return nil
}

func (s *MemStorage) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, id)
	for key := range s.productClicks {
		if key.entityID == id {
			delete(s.productClicks, key)
		}
	}
	return nil
}

// --- Taxonomies ---

func (s *MemStorage) CreateCategory(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Name == category.Name {
			return repository.ErrNameExists
		}
		if existing.Slug == category.Slug {
			return repository.ErrSlugExists
		}
	}
	category.ID = s.nextSeq()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	clone := *category
	s.categories[category.ID] = &clone
	return nil
}

func (s *MemStorage) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *MemStorage) ListCategories(_ context.Context) ([]*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Category
	for _, c := range s.categories {
		clone := *c
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func (s *MemStorage) UpdateCategory(_ context.Context, category *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[category.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range s.categories {
		if other.ID == category.ID {
			continue
		}
		if other.Name == category.Name {
			return repository.ErrNameExists
		}
		if other.Slug == category.Slug {
			return repository.ErrSlugExists
		}
	}
	existing.Name = category.Name
	existing.Slug = category.Slug
	existing.Description = category.Description
	existing.UpdatedAt = time.Now()
	return nil
}

func (s *MemStorage) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *MemStorage) CreateProductCategory(_ context.Context, category *domain.ProductCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.productCategories {
		if existing.Name == category.Name {
			return repository.ErrNameExists
		}
		if existing.Slug == category.Slug {
			return repository.ErrSlugExists
		}
	}
	category.ID = s.nextSeq()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	clone := *category
	s.productCategories[category.ID] = &clone
	return nil
}

func (s *MemStorage) GetProductCategory(_ context.Context, id int64) (*domain.ProductCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.productCategories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (s *MemStorage) ListProductCategories(_ context.Context) ([]*domain.ProductCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ProductCategory
	for _, c := range s.productCategories {
		clone := *c
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func (s *MemStorage) UpdateProductCategory(_ context.Context, category *domain.ProductCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.productCategories[category.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range s.productCategories {
		if other.ID == category.ID {
			continue
		}
		if other.Name == category.Name {
			return repository.ErrNameExists
		}
		if other.Slug == category.Slug {
			return repository.ErrSlugExists
		}
	}
	existing.Name = category.Name
	existing.Slug = category.Slug
	existing.Description = category.Description
	existing.UpdatedAt = time.Now()
	return nil
}

func (s *MemStorage) DeleteProductCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.productCategories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.productCategories, id)
	return nil
}

// --- Admin Accounts ---

func (s *MemStorage) GetAdminByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if a.Email == email && a.Active {
			clone := *a
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *MemStorage) CreateAdmin(_ context.Context, admin *domain.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.admins {
		if existing.Email == admin.Email {
			return repository.ErrEmailExists
		}
	}
	admin.ID = s.nextSeq()
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	clone := *admin
	s.admins[admin.ID] = &clone
	return nil
}

// --- Helpers ---

func pageOf[T any](items []*T, opts repository.ListOptions) ([]*T, int64, error) {
	total := int64(len(items))

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 8
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	if start >= len(items) {
		return nil, total, nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total, nil
}
