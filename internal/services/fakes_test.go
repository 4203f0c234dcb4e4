package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/repositories/interfaces"
	"mecfinder/internal/utils"
	"mecfinder/pkg/cache"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/moderation"
	"mecfinder/pkg/payment"
	"mecfinder/pkg/websocket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testLogger = logger.NewNop()

func notFound(name string) error {
	return fmt.Errorf("%s not found: %w", name, interfaces.ErrNotFound)
}

// accounts

type fakeAccounts[T models.Bannable] struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]T
	name  string
	set   func(item T, status string, ban *moderation.BanInfo)
}

func (f *fakeAccounts[T]) GetByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		var zero T
		return zero, notFound(f.name)
	}
	return item, nil
}

func (f *fakeAccounts[T]) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	item, ok := f.items[id]
	if !ok {
		return zero, notFound(f.name)
	}
	if item.GetBanInfo().IsBanned {
		return zero, interfaces.ErrStateChanged
	}
	f.set(item, status, nil)
	return item, nil
}

func (f *fakeAccounts[T]) ApplyBan(ctx context.Context, id primitive.ObjectID, wasBanned bool, ban moderation.BanInfo, status string) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	item, ok := f.items[id]
	if !ok {
		return zero, notFound(f.name)
	}
	if item.GetBanInfo().IsBanned != wasBanned {
		return zero, interfaces.ErrStateChanged
	}
	f.set(item, status, &ban)
	return item, nil
}

func (f *fakeAccounts[T]) FindExpiredBans(ctx context.Context, now time.Time, limit int64) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []T
	for _, item := range f.items {
		if item.GetBanInfo().Expired(now) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeAccounts[T]) GetSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.PartySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]*models.PartySummary{}
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out[id] = &models.PartySummary{ID: id, Name: item.GetName(), Phone: item.GetPhone()}
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	fakeAccounts[*models.User]
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{fakeAccounts[*models.User]{
		items: map[primitive.ObjectID]*models.User{},
		name:  "user",
		set: func(u *models.User, status string, ban *moderation.BanInfo) {
			u.Status = models.UserStatus(status)
			if ban != nil {
				u.BanInfo = *ban
			}
		},
	}}
	for _, u := range users {
		r.items[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) List(ctx context.Context, filter models.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range r.items {
		if filter.Status == "" || u.Status == filter.Status {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	_, total, err := r.List(ctx, filter, nil)
	return total, err
}

type fakeMechanicRepo struct {
	fakeAccounts[*models.Mechanic]
}

func newFakeMechanicRepo(mechanics ...*models.Mechanic) *fakeMechanicRepo {
	r := &fakeMechanicRepo{fakeAccounts[*models.Mechanic]{
		items: map[primitive.ObjectID]*models.Mechanic{},
		name:  "mechanic",
		set: func(m *models.Mechanic, status string, ban *moderation.BanInfo) {
			m.Status = models.MechanicStatus(status)
			if ban != nil {
				m.BanInfo = *ban
			}
		},
	}}
	for _, m := range mechanics {
		r.items[m.ID] = m
	}
	return r
}

func (r *fakeMechanicRepo) List(ctx context.Context, filter models.MechanicFilter, params *utils.PaginationParams) ([]*models.Mechanic, int64, error) {
	var out []*models.Mechanic
	for _, m := range r.items {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.IsOnline != nil && m.IsOnline != *filter.IsOnline {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMechanicRepo) Count(ctx context.Context, filter models.MechanicFilter) (int64, error) {
	_, total, err := r.List(ctx, filter, nil)
	return total, err
}

// admins

type fakeAdminRepo struct {
	admins map[primitive.ObjectID]*models.Admin
}

func newFakeAdminRepo(admins ...*models.Admin) *fakeAdminRepo {
	r := &fakeAdminRepo{admins: map[primitive.ObjectID]*models.Admin{}}
	for _, a := range admins {
		r.admins[a.ID] = a
	}
	return r
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	for _, a := range r.admins {
		if a.Email == admin.Email {
			return interfaces.ErrDuplicate
		}
	}
	admin.ID = primitive.NewObjectID()
	r.admins[admin.ID] = admin
	return nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	if a, ok := r.admins[id]; ok {
		return a, nil
	}
	return nil, notFound("admin")
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, notFound("admin")
}

func (r *fakeAdminRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	if a, ok := r.admins[id]; ok {
		a.LastLoginAt = &at
	}
	return nil
}

func (r *fakeAdminRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.admins)), nil
}

// catalog

type fakeServiceRepo struct {
	services map[primitive.ObjectID]*models.Service
}

func newFakeServiceRepo(services ...*models.Service) *fakeServiceRepo {
	r := &fakeServiceRepo{services: map[primitive.ObjectID]*models.Service{}}
	for _, s := range services {
		r.services[s.ID] = s
	}
	return r
}

func (r *fakeServiceRepo) Create(ctx context.Context, service *models.Service) error {
	service.ID = primitive.NewObjectID()
	r.services[service.ID] = service
	return nil
}

func (r *fakeServiceRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	if s, ok := r.services[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, notFound("service")
}

func (r *fakeServiceRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Service, error) {
	out := map[primitive.ObjectID]*models.Service{}
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			clone := *s
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) List(ctx context.Context, filter models.ServiceFilter, params *utils.PaginationParams) ([]*models.Service, int64, error) {
	var out []*models.Service
	for _, s := range r.services {
		if filter.CategoryID != nil && s.CategoryID != *filter.CategoryID {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *fakeServiceRepo) Update(ctx context.Context, service *models.Service) error {
	if _, ok := r.services[service.ID]; !ok {
		return notFound("service")
	}
	clone := *service
	r.services[service.ID] = &clone
	return nil
}

func (r *fakeServiceRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.services[id]; !ok {
		return notFound("service")
	}
	delete(r.services, id)
	return nil
}

func (r *fakeServiceRepo) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	var n int64
	for _, s := range r.services {
		if s.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type fakeCategoryRepo struct {
	categories map[primitive.ObjectID]*models.ServiceCategory
}

func newFakeCategoryRepo(categories ...*models.ServiceCategory) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: map[primitive.ObjectID]*models.ServiceCategory{}}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *models.ServiceCategory) error {
	for _, c := range r.categories {
		if c.Name == category.Name {
			return interfaces.ErrDuplicate
		}
	}
	category.ID = primitive.NewObjectID()
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceCategory, error) {
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, notFound("category")
}

func (r *fakeCategoryRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.ServiceCategory, error) {
	out := map[primitive.ObjectID]*models.ServiceCategory{}
	for _, id := range ids {
		if c, ok := r.categories[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) List(ctx context.Context, status models.CatalogStatus) ([]*models.ServiceCategory, error) {
	var out []*models.ServiceCategory
	for _, c := range r.categories {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, category *models.ServiceCategory) error {
	if _, ok := r.categories[category.ID]; !ok {
		return notFound("category")
	}
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.categories[id]; !ok {
		return notFound("category")
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) InsertIfMissing(ctx context.Context, category *models.ServiceCategory) (bool, error) {
	for _, c := range r.categories {
		if c.Name == category.Name {
			return false, nil
		}
	}
	return true, r.Create(ctx, category)
}

type fakeRegionRepo struct {
	regions map[primitive.ObjectID]*models.Region
}

func newFakeRegionRepo(regions ...*models.Region) *fakeRegionRepo {
	r := &fakeRegionRepo{regions: map[primitive.ObjectID]*models.Region{}}
	for _, region := range regions {
		r.regions[region.ID] = region
	}
	return r
}

func (r *fakeRegionRepo) Create(ctx context.Context, region *models.Region) error {
	for _, existing := range r.regions {
		if existing.Slug == region.Slug {
			return interfaces.ErrDuplicate
		}
	}
	region.ID = primitive.NewObjectID()
	r.regions[region.ID] = region
	return nil
}

func (r *fakeRegionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Region, error) {
	if region, ok := r.regions[id]; ok {
		return region, nil
	}
	return nil, notFound("region")
}

func (r *fakeRegionRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Region, error) {
	out := map[primitive.ObjectID]*models.Region{}
	for _, id := range ids {
		if region, ok := r.regions[id]; ok {
			out[id] = region
		}
	}
	return out, nil
}

func (r *fakeRegionRepo) List(ctx context.Context, status models.RegionStatus) ([]*models.Region, error) {
	var out []*models.Region
	for _, region := range r.regions {
		if status == "" || region.Status == status {
			out = append(out, region)
		}
	}
	return out, nil
}

func (r *fakeRegionRepo) Update(ctx context.Context, region *models.Region) error {
	if _, ok := r.regions[region.ID]; !ok {
		return notFound("region")
	}
	r.regions[region.ID] = region
	return nil
}

func (r *fakeRegionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.regions[id]; !ok {
		return notFound("region")
	}
	delete(r.regions, id)
	return nil
}

func (r *fakeRegionRepo) Count(ctx context.Context, status models.RegionStatus) (int64, error) {
	out, _ := r.List(ctx, status)
	return int64(len(out)), nil
}

// pricing

type fakePricingRepo struct {
	records map[primitive.ObjectID]*models.Pricing
	upserts int
}

func newFakePricingRepo() *fakePricingRepo {
	return &fakePricingRepo{records: map[primitive.ObjectID]*models.Pricing{}}
}

func (r *fakePricingRepo) Upsert(ctx context.Context, p *models.Pricing) (*models.Pricing, error) {
	r.upserts++
	now := time.Now()
	for _, existing := range r.records {
		if existing.ServiceID == p.ServiceID && existing.RegionID == p.RegionID {
			stored := *p
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt
			stored.UpdatedAt = now
			r.records[stored.ID] = &stored
			out := stored
			return &out, nil
		}
	}
	stored := *p
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.records[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakePricingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Pricing, error) {
	if p, ok := r.records[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, notFound("pricing")
}

func (r *fakePricingRepo) List(ctx context.Context, filter models.PricingFilter) ([]*models.Pricing, error) {
	out := make([]*models.Pricing, 0)
	for _, p := range r.records {
		if filter.ServiceID != nil && p.ServiceID != *filter.ServiceID {
			continue
		}
		if filter.RegionID != nil && p.RegionID != *filter.RegionID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakePricingRepo) Update(ctx context.Context, p *models.Pricing) (*models.Pricing, error) {
	if _, ok := r.records[p.ID]; !ok {
		return nil, notFound("pricing")
	}
	stored := *p
	r.records[p.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakePricingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.records[id]; !ok {
		return notFound("pricing")
	}
	delete(r.records, id)
	return nil
}

func (r *fakePricingRepo) DeleteByService(ctx context.Context, serviceID primitive.ObjectID) (int64, error) {
	var n int64
	for id, p := range r.records {
		if p.ServiceID == serviceID {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

func (r *fakePricingRepo) DeleteByRegion(ctx context.Context, regionID primitive.ObjectID) (int64, error) {
	var n int64
	for id, p := range r.records {
		if p.RegionID == regionID {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

// bookings

type fakeBookingRepo struct {
	bookings map[primitive.ObjectID]*models.Booking
	refunds  []*models.Refund
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: map[primitive.ObjectID]*models.Booking{}}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if b, ok := r.bookings[id]; ok {
		out := *b
		return &out, nil
	}
	return nil, notFound("booking")
}

func (r *fakeBookingRepo) List(ctx context.Context, filter models.BookingFilter, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	var out []*models.Booking
	for _, b := range r.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) Recent(ctx context.Context, limit int64) ([]*models.Booking, error) {
	out, _, err := r.List(ctx, models.BookingFilter{}, nil)
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *fakeBookingRepo) Transition(ctx context.Context, id primitive.ObjectID, from models.BookingStatus, change models.StatusChange, updates map[string]interface{}) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, notFound("booking")
	}
	if b.Status != from {
		return nil, interfaces.ErrStateChanged
	}
	b.Status = change.Status
	b.StatusHistory = append(b.StatusHistory, change)
	if v, ok := updates["cancel_reason"].(string); ok {
		b.CancelReason = v
	}
	if v, ok := updates["cancelled_at"].(time.Time); ok {
		b.CancelledAt = &v
	}
	if v, ok := updates["completed_at"].(time.Time); ok {
		b.CompletedAt = &v
	}
	out := *b
	return &out, nil
}

func (r *fakeBookingRepo) SetRefund(ctx context.Context, id primitive.ObjectID, refund *models.Refund, status models.PaymentStatus) error {
	b, ok := r.bookings[id]
	if !ok {
		return notFound("booking")
	}
	b.Refund = refund
	b.PaymentStatus = status
	r.refunds = append(r.refunds, refund)
	return nil
}

func (r *fakeBookingRepo) CountByStatus(ctx context.Context, statuses ...models.BookingStatus) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if len(statuses) == 0 {
			n++
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				n++
			}
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) CompletedTotals(ctx context.Context) (*models.BookingTotals, error) {
	totals := &models.BookingTotals{}
	for _, b := range r.bookings {
		if b.Status == models.BookingStatusCompleted {
			totals.Revenue += b.Pricing.TotalAmount
			totals.CompanyEarnings += b.Pricing.CompanyEarning
		}
	}
	return totals, nil
}

func (r *fakeBookingRepo) StatsForUser(ctx context.Context, userID primitive.ObjectID) (*models.AccountStats, error) {
	stats := &models.AccountStats{}
	for _, b := range r.bookings {
		if b.UserID == userID {
			stats.TotalBookings++
		}
	}
	return stats, nil
}

func (r *fakeBookingRepo) StatsForMechanic(ctx context.Context, mechanicID primitive.ObjectID) (*models.AccountStats, error) {
	stats := &models.AccountStats{}
	for _, b := range r.bookings {
		if b.MechanicID != nil && *b.MechanicID == mechanicID {
			stats.TotalBookings++
		}
	}
	return stats, nil
}

// support

type fakeSupportRepo struct {
	queries map[primitive.ObjectID]*models.SupportQuery
	lastSet map[string]interface{}
}

func newFakeSupportRepo(queries ...*models.SupportQuery) *fakeSupportRepo {
	r := &fakeSupportRepo{queries: map[primitive.ObjectID]*models.SupportQuery{}}
	for _, q := range queries {
		r.queries[q.ID] = q
	}
	return r
}

func (r *fakeSupportRepo) Create(ctx context.Context, q *models.SupportQuery) error {
	q.ID = primitive.NewObjectID()
	r.queries[q.ID] = q
	return nil
}

func (r *fakeSupportRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SupportQuery, error) {
	if q, ok := r.queries[id]; ok {
		out := *q
		return &out, nil
	}
	return nil, notFound("support query")
}

func (r *fakeSupportRepo) List(ctx context.Context, filter models.SupportFilter, params *utils.PaginationParams) ([]*models.SupportQuery, int64, error) {
	var out []*models.SupportQuery
	for _, q := range r.queries {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		clone := *q
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSupportRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.SupportQuery, error) {
	q, ok := r.queries[id]
	if !ok {
		return nil, notFound("support query")
	}
	r.lastSet = updates
	if v, ok := updates["status"].(models.SupportStatus); ok {
		q.Status = v
	}
	if v, ok := updates["resolution"].(string); ok {
		q.Resolution = v
	}
	if v, ok := updates["resolved_at"].(time.Time); ok {
		q.ResolvedAt = &v
	}
	if v, ok := updates["resolved_by"].(primitive.ObjectID); ok {
		q.ResolvedBy = &v
	}
	if v, ok := updates["assigned_to"].(primitive.ObjectID); ok {
		q.AssignedTo = &v
	}
	out := *q
	return &out, nil
}

func (r *fakeSupportRepo) Stats(ctx context.Context) (*models.SupportStats, error) {
	stats := &models.SupportStats{}
	for _, q := range r.queries {
		stats.Total++
		switch q.Status {
		case models.SupportStatusOpen:
			stats.Open++
		case models.SupportStatusInProgress:
			stats.InProgress++
		case models.SupportStatusResolved:
			stats.Resolved++
		case models.SupportStatusClosed:
			stats.Closed++
		}
	}
	return stats, nil
}

// audit

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeAuditRepo) GetResourceHistory(ctx context.Context, resource, resourceID string, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	var out []*models.AuditLog
	for _, l := range r.logs {
		if l.Resource == resource && l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuditRepo) actions() []models.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AuditAction, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, l.Action)
	}
	return out
}

// infrastructure

type fakeCache struct {
	mu       sync.Mutex
	values   map[string]interface{}
	counters map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]interface{}{}, counters: map[string]int64{}}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	switch d := dest.(type) {
	case *bool:
		*d = v.(bool)
	case *models.Dashboard:
		*d = *(v.(*models.Dashboard))
	case *[]*models.ServiceCategory:
		*d = v.([]*models.ServiceCategory)
	}
	return nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		delete(c.counters, k)
	}
	return nil
}

func (c *fakeCache) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := message.(websocket.Event); ok {
		p.events = append(p.events, e)
	}
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type scheduledExpiry struct {
	kind models.SubjectKind
	id   primitive.ObjectID
	at   time.Time
}

type fakeScheduler struct {
	scheduled []scheduledExpiry
}

func (s *fakeScheduler) ScheduleBanExpiry(ctx context.Context, kind models.SubjectKind, id primitive.ObjectID, at time.Time) error {
	s.scheduled = append(s.scheduled, scheduledExpiry{kind: kind, id: id, at: at})
	return nil
}

type fakeNotifier struct {
	banned   []primitive.ObjectID
	unbanned []primitive.ObjectID
}

func (n *fakeNotifier) NotifyBanned(ctx context.Context, subject models.Bannable, kind models.SubjectKind) {
	n.banned = append(n.banned, subject.GetID())
}

func (n *fakeNotifier) NotifyUnbanned(ctx context.Context, subject models.Bannable, kind models.SubjectKind) {
	n.unbanned = append(n.unbanned, subject.GetID())
}

type fakePayments struct {
	requests []*payment.RefundRequest
	err      error
}

func (p *fakePayments) Name() string { return "fake" }

func (p *fakePayments) RefundPayment(ctx context.Context, request *payment.RefundRequest) (*payment.RefundResponse, error) {
	p.requests = append(p.requests, request)
	if p.err != nil {
		return nil, p.err
	}
	return &payment.RefundResponse{RefundID: "rf_1", Status: "succeeded", Amount: request.Amount}, nil
}

func testActor() Actor {
	return Actor{AdminID: primitive.NewObjectID(), Role: string(models.AdminRoleAdmin), RequestID: "req-1"}
}
