package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kculafic/bikeThing/internal/domain"
	"github.com/kculafic/bikeThing/internal/repo"
	"github.com/kculafic/bikeThing/testutil"
)

// newTestRepo opens a transaction against the test database and returns a
// SegmentRepo backed by it. The transaction is rolled back when the test
// finishes, giving per-test isolation without cleanup SQL.
func newTestRepo(t *testing.T) repo.SegmentRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewSegmentRepo(tx)
}

// segmentFixture returns a Segment ready for insertion.
func segmentFixture() domain.Segment {
	date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	waypoints := `[{"location":{"lat":37.7749,"lng":-122.4194},"stopover":true}]`
	longtrip := int64(1)
	return domain.Segment{
		Date:           &date,
		Origin:         "A",
		Destination:    "B",
		TotalDistance:  10,
		TotalElevation: 100,
		Waypoints:      &waypoints,
		LongtripsID:    &longtrip,
	}
}

func TestSegmentRepo_Create(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	input := segmentFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotZero(t, got.ID, "ID should be DB-generated")
	require.NotNil(t, got.Date)
	assert.True(t, got.Date.Equal(*input.Date), "Date mismatch")
	assert.Equal(t, input.Origin, got.Origin)
	assert.Equal(t, input.Destination, got.Destination)
	assert.Equal(t, input.TotalDistance, got.TotalDistance)
	assert.Equal(t, input.TotalElevation, got.TotalElevation)
	assert.Equal(t, *input.Waypoints, *got.Waypoints)
	assert.Equal(t, *input.LongtripsID, *got.LongtripsID)
}

func TestSegmentRepo_Create_NullableColumns(t *testing.T) {
	r := newTestRepo(t)

	got, err := r.Create(context.Background(), domain.Segment{Origin: "A", Destination: "B"})

	require.NoError(t, err)
	assert.Nil(t, got.Date)
	assert.Nil(t, got.Waypoints)
	assert.Nil(t, got.LongtripsID)
}

func TestSegmentRepo_GetByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, segmentFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestSegmentRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.GetByID(context.Background(), 999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSegmentRepo_List_OrderedByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	var ids []int64
	for _, origin := range []string{"Z", "M", "A"} {
		s := segmentFixture()
		s.Origin = origin
		created, err := r.Create(ctx, s)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	got, err := r.List(ctx)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 3)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ID, got[i].ID, "list must be ordered by id ascending")
	}
}

func TestSegmentRepo_Update(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, segmentFixture())
	require.NoError(t, err)

	origin := "Ouray, CO"
	updated, err := r.Update(ctx, created.ID, domain.SegmentPatch{Origin: &origin})

	require.NoError(t, err)
	assert.Equal(t, origin, updated.Origin)
	assert.Equal(t, created.Destination, updated.Destination)
	assert.Equal(t, created.TotalDistance, updated.TotalDistance)
}

func TestSegmentRepo_Update_NotFound(t *testing.T) {
	r := newTestRepo(t)

	origin := "Ouray, CO"
	_, err := r.Update(context.Background(), 999999, domain.SegmentPatch{Origin: &origin})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSegmentRepo_Delete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, segmentFixture())
	require.NoError(t, err)

	deleted, err := r.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, deleted)

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSegmentRepo_Delete_NotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.Delete(context.Background(), 999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
