package services

import (
	"context"
	"testing"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type supportFixture struct {
	service SupportService
	repo    *fakeSupportRepo
	user    *models.User
	admin   *models.Admin
	pub     *fakePublisher
}

func newSupportFixture(queries ...*models.SupportQuery) *supportFixture {
	user := activeUser()
	admin := &models.Admin{ID: primitive.NewObjectID(), Name: "Support Agent", Role: models.AdminRoleSupport, IsActive: true}
	f := &supportFixture{
		repo:  newFakeSupportRepo(queries...),
		user:  user,
		admin: admin,
		pub:   &fakePublisher{},
	}
	svc := NewSupportService(f.repo, newFakeUserRepo(user), newFakeAdminRepo(admin),
		NewAuditService(&fakeAuditRepo{}, testLogger), f.pub, testLogger).(*supportService)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	f.service = svc
	return f
}

func TestSupportService_Create(t *testing.T) {
	f := newSupportFixture()
	ctx := context.Background()

	query, err := f.service.Create(ctx, testActor(), &validators.CreateSupportQueryRequest{
		UserID:   f.user.ID.Hex(),
		Subject:  "Mechanic did not arrive",
		Message:  "Waited two hours",
		Category: "booking",
		Priority: string(models.SupportPriorityHigh),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SupportStatusOpen, query.Status)
	require.NotNil(t, query.User)
	assert.Equal(t, f.user.Name, query.User.Name)
	assert.Equal(t, []string{"support.created"}, f.pub.types())

	_, err = f.service.Create(ctx, testActor(), &validators.CreateSupportQueryRequest{
		UserID:  primitive.NewObjectID().Hex(),
		Subject: "Ghost",
		Message: "No such user",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSupportService_Assign(t *testing.T) {
	tests := []struct {
		name       string
		status     models.SupportStatus
		wantStatus models.SupportStatus
	}{
		{name: "open moves to in progress", status: models.SupportStatusOpen, wantStatus: models.SupportStatusInProgress},
		{name: "resolved keeps status", status: models.SupportStatusResolved, wantStatus: models.SupportStatusResolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := &models.SupportQuery{ID: primitive.NewObjectID(), Status: tt.status}
			f := newSupportFixture(query)
			query.UserID = f.user.ID

			assigned, err := f.service.Assign(context.Background(), testActor(), query.ID, f.admin.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, assigned.Status)
			require.NotNil(t, assigned.AssignedTo)
			assert.Equal(t, f.admin.ID, *assigned.AssignedTo)
		})
	}
}

func TestSupportService_AssignUnknownAdmin(t *testing.T) {
	query := &models.SupportQuery{ID: primitive.NewObjectID(), Status: models.SupportStatusOpen}
	f := newSupportFixture(query)

	_, err := f.service.Assign(context.Background(), testActor(), query.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, f.repo.queries[query.ID].AssignedTo)
}

func TestSupportService_UpdateStatus(t *testing.T) {
	query := &models.SupportQuery{ID: primitive.NewObjectID(), Status: models.SupportStatusInProgress}
	f := newSupportFixture(query)
	ctx := context.Background()
	actor := testActor()

	resolved, err := f.service.UpdateStatus(ctx, actor, query.ID, models.SupportStatusResolved, "Refund issued")
	require.NoError(t, err)
	assert.Equal(t, models.SupportStatusResolved, resolved.Status)
	assert.Equal(t, "Refund issued", resolved.Resolution)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), *resolved.ResolvedAt)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, actor.AdminID, *resolved.ResolvedBy)

	_, err = f.service.UpdateStatus(ctx, actor, query.ID, "ESCALATED", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.service.UpdateStatus(ctx, actor, primitive.NewObjectID(), models.SupportStatusClosed, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSupportService_Stats(t *testing.T) {
	f := newSupportFixture(
		&models.SupportQuery{ID: primitive.NewObjectID(), Status: models.SupportStatusOpen},
		&models.SupportQuery{ID: primitive.NewObjectID(), Status: models.SupportStatusOpen},
		&models.SupportQuery{ID: primitive.NewObjectID(), Status: models.SupportStatusClosed},
	)

	stats, err := f.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.SupportStats{Total: 3, Open: 2, Closed: 1}, stats)
}
