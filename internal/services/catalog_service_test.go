package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"mecfinder/internal/models"
	"mecfinder/internal/validators"
	"mecfinder/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStorage struct {
	uploads map[string][]byte
}

func (s *fakeStorage) Upload(ctx context.Context, req *storage.UploadRequest) (*storage.UploadResponse, error) {
	data, err := io.ReadAll(req.Reader)
	if err != nil {
		return nil, err
	}
	if s.uploads == nil {
		s.uploads = map[string][]byte{}
	}
	s.uploads[req.Key] = data
	return &storage.UploadResponse{Key: req.Key, URL: "https://cdn.mecfinder.in/" + req.Key, Size: int64(len(data))}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(s.uploads, key)
	return nil
}

func (s *fakeStorage) FileExists(ctx context.Context, key string) (bool, error) {
	_, ok := s.uploads[key]
	return ok, nil
}

type catalogFixture struct {
	service    CatalogService
	categories *fakeCategoryRepo
	services   *fakeServiceRepo
	pricing    *fakePricingRepo
	storage    *fakeStorage
	cache      *fakeCache
	audit      *fakeAuditRepo
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		categories: newFakeCategoryRepo(),
		services:   newFakeServiceRepo(),
		pricing:    newFakePricingRepo(),
		storage:    &fakeStorage{},
		cache:      newFakeCache(),
		audit:      &fakeAuditRepo{},
	}
	f.service = NewCatalogService(f.categories, f.services, f.pricing, f.storage, f.cache,
		NewAuditService(f.audit, testLogger), &fakePublisher{}, testLogger)
	return f
}

func TestCatalogService_SeedCategoriesIsIdempotent(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	categories, inserted, err := f.service.SeedCategories(ctx, testActor())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCategories), inserted)
	assert.Len(t, categories, len(DefaultCategories))

	categories, inserted, err = f.service.SeedCategories(ctx, testActor())
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.Len(t, categories, len(DefaultCategories))
	assert.Len(t, f.categories.categories, len(DefaultCategories))
}

func TestCatalogService_ListCategoriesUsesCache(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	_, err := f.service.CreateCategory(ctx, testActor(), &validators.CreateCategoryRequest{Name: "Engine"})
	require.NoError(t, err)

	first, err := f.service.ListCategories(ctx, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// a write behind the service's back is hidden by the cache
	f.categories.categories[primitive.NewObjectID()] = &models.ServiceCategory{Name: "Hidden"}
	cached, err := f.service.ListCategories(ctx, "")
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// a write through the service invalidates it
	_, err = f.service.CreateCategory(ctx, testActor(), &validators.CreateCategoryRequest{Name: "Brakes"})
	require.NoError(t, err)
	fresh, err := f.service.ListCategories(ctx, "")
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}

func TestCatalogService_DeleteCategory(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	category, err := f.service.CreateCategory(ctx, testActor(), &validators.CreateCategoryRequest{Name: "Engine"})
	require.NoError(t, err)
	_, err = f.service.CreateService(ctx, testActor(), &validators.CreateServiceRequest{
		CategoryID: category.ID.Hex(),
		Name:       "Engine Tune-up",
		BasePrice:  1200,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.DeleteCategory(ctx, testActor(), category.ID), ErrConflict)

	empty, err := f.service.CreateCategory(ctx, testActor(), &validators.CreateCategoryRequest{Name: "Body Work"})
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteCategory(ctx, testActor(), empty.ID))
	assert.ErrorIs(t, f.service.DeleteCategory(ctx, testActor(), empty.ID), ErrNotFound)

	_, err = f.service.CreateCategory(ctx, testActor(), &validators.CreateCategoryRequest{Name: "Engine"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCatalogService_DeleteServiceCascadesPricing(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	category, err := f.service.CreateCategory(ctx, testActor(), &validators.CreateCategoryRequest{Name: "Brakes"})
	require.NoError(t, err)
	svc, err := f.service.CreateService(ctx, testActor(), &validators.CreateServiceRequest{
		CategoryID: category.ID.Hex(),
		Name:       "Brake Pad Replacement",
		BasePrice:  500,
	})
	require.NoError(t, err)
	require.NotNil(t, svc.Category)
	assert.Equal(t, "Brakes", svc.Category.Name)

	_, err = f.pricing.Upsert(ctx, &models.Pricing{ServiceID: svc.ID, RegionID: primitive.NewObjectID()})
	require.NoError(t, err)
	_, err = f.pricing.Upsert(ctx, &models.Pricing{ServiceID: primitive.NewObjectID(), RegionID: primitive.NewObjectID()})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteService(ctx, testActor(), svc.ID))
	assert.Len(t, f.pricing.records, 1)

	_, err = f.service.GetService(ctx, svc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_CreateServiceUnknownCategory(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.service.CreateService(context.Background(), testActor(), &validators.CreateServiceRequest{
		CategoryID: primitive.NewObjectID().Hex(),
		Name:       "Wheel Alignment",
		BasePrice:  400,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_UploadServiceIcon(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	category, err := f.service.CreateCategory(ctx, testActor(), &validators.CreateCategoryRequest{Name: "Electrical"})
	require.NoError(t, err)
	svc, err := f.service.CreateService(ctx, testActor(), &validators.CreateServiceRequest{
		CategoryID: category.ID.Hex(),
		Name:       "Battery Replacement",
		BasePrice:  300,
	})
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 512, 256))
	for x := 0; x < 512; x++ {
		img.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	updated, err := f.service.UploadServiceIcon(ctx, testActor(), svc.ID, "battery.png", &buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.Icon, "https://cdn.mecfinder.in/services/icons/"+svc.ID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(updated.Icon, ".png"))
	assert.Len(t, f.storage.uploads, 1)

	_, err = f.service.UploadServiceIcon(ctx, testActor(), svc.ID, "notes.txt", strings.NewReader("hello"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.service.UploadServiceIcon(ctx, testActor(), svc.ID, "broken.png", strings.NewReader("not a png"))
	assert.ErrorIs(t, err, ErrValidation)
}
