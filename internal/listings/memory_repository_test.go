package listings

import (
	"context"
	"testing"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkSoldKeepsOwnedMapKey(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	listing := Listing{ID: uuid.NewString(), OwnerID: uuid.NewString(), Title: "Bike", PriceMinor: 5000, Currency: "XAF", Status: StatusActive, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, listing))

	buf := []byte(listing.ID)
	require.NoError(t, repo.MarkSold(ctx, unsafe.String(unsafe.SliceData(buf), len(buf))))
	for i := range buf {
		buf[i] = 'x'
	}

	stored, err := repo.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSold, stored.Status)
}
