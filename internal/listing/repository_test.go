// File: internal/listing/repository_test.go
package listing

import (
	"context"
	"testing"

	"giventake_backend/internal/category"
	"giventake_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&category.Category{}, &Listing{}, &ListingImage{}))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *category.Category {
	t.Helper()
	cat := &category.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func seedListing(t *testing.T, db *gorm.DB, l *Listing) *Listing {
	t.Helper()
	if l.Currency == "" {
		l.Currency = "USD"
	}
	if l.Condition == "" {
		l.Condition = ConditionGood
	}
	if l.Status == "" {
		l.Status = StatusAvailable
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func TestFindAllExcludesSoldAndInactiveByDefault(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()
	textbooks := seedCategory(t, db, "Textbooks", "textbooks")

	visible := seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, Title: "Calculus Early Transcendentals", Price: 40, IsActive: true})
	seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, Title: "Sold bike", Price: 80, IsActive: true, Status: StatusSold})
	hidden := seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, Title: "Hidden lamp", Price: 10, IsActive: true})
	require.NoError(t, repo.SetActive(ctx, hidden.ID, false))

	results, total, err := repo.FindAll(ctx, SearchQuery{})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, visible.ID, results[0].ID)
}

func TestFindAllIncludesSoldForSellerView(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()
	otherSellerID := uuid.New()
	textbooks := seedCategory(t, db, "Textbooks", "textbooks")

	seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, Title: "My sold bike", Price: 80, IsActive: true, Status: StatusSold})
	seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, Title: "My desk", Price: 25, IsActive: true})
	seedListing(t, db, &Listing{SellerID: otherSellerID, CategoryID: textbooks.ID, Title: "Not mine", Price: 5, IsActive: true})

	results, total, err := repo.FindAll(ctx, SearchQuery{SellerID: &sellerID, IncludeSold: true})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, results, 2)
}

func TestFindAllFiltersByCategorySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()
	textbooks := seedCategory(t, db, "Textbooks", "textbooks")
	electronics := seedCategory(t, db, "Electronics", "electronics")

	seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, Title: "Physics notes", Price: 15, IsActive: true})
	wanted := seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: electronics.ID, Title: "Graphing calculator", Price: 60, IsActive: true})

	results, total, err := repo.FindAll(ctx, SearchQuery{CategorySlug: "electronics"})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, wanted.ID, results[0].ID)
	assert.Equal(t, "electronics", results[0].Category.Slug)
}

func TestFindAllFiltersByCollection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()
	textbooks := seedCategory(t, db, "Textbooks", "textbooks")
	collectionID := uuid.New()

	inCollection := seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, CollectionID: &collectionID, Title: "Bundle item", Price: 10, IsActive: true})
	seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, Title: "Loose item", Price: 10, IsActive: true})

	results, total, err := repo.FindAll(ctx, SearchQuery{CollectionID: &collectionID})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, inCollection.ID, results[0].ID)
}

func TestFindAllSearchTermMatchesTitleAndDescription(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	sellerID := uuid.New()
	textbooks := seedCategory(t, db, "Textbooks", "textbooks")

	desc := "Includes the calculus workbook"
	seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, Title: "Calculus Early Transcendentals", Price: 40, IsActive: true})
	seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, Title: "Math bundle", Description: &desc, Price: 55, IsActive: true})
	seedListing(t, db, &Listing{SellerID: sellerID, CategoryID: textbooks.ID, Title: "Desk lamp", Price: 10, IsActive: true})

	results, total, err := repo.FindAll(ctx, SearchQuery{SearchTerm: "CALCULUS"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, results, 2)

	empty, emptyTotal, err := repo.FindAll(ctx, SearchQuery{SearchTerm: "zzz"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), emptyTotal)
	assert.Empty(t, empty)
}

func TestSetActiveOnMissingListingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)

	err := repo.SetActive(context.Background(), uuid.New(), false)

	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrNotFound.StatusCode, apiErr.StatusCode)
}

func TestDeleteImageByURLOnMissingRowIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)

	err := repo.DeleteImageByURL(context.Background(), uuid.New(), "http://store/none.jpg")

	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrNotFound.StatusCode, apiErr.StatusCode)
}

func TestDeleteRemovesListingAndImageRowsCompletely(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	textbooks := seedCategory(t, db, "Textbooks", "textbooks")

	l := seedListing(t, db, &Listing{SellerID: uuid.New(), CategoryID: textbooks.ID, Title: "Old couch", Price: 30, IsActive: true})
	require.NoError(t, repo.InsertImage(ctx, &ListingImage{ListingID: l.ID, URL: "http://store/a.jpg", Position: 0}))
	require.NoError(t, repo.InsertImage(ctx, &ListingImage{ListingID: l.ID, URL: "http://store/b.jpg", Position: 1}))

	require.NoError(t, repo.DeleteImagesByListingID(ctx, l.ID))
	require.NoError(t, repo.Delete(ctx, l.ID))

	images, err := repo.FindImagesByListingID(ctx, l.ID)
	assert.NoError(t, err)
	assert.Empty(t, images)

	_, err = repo.FindByID(ctx, l.ID, false)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrNotFound.StatusCode, apiErr.StatusCode)
}

func TestImagesReturnedInPositionOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	textbooks := seedCategory(t, db, "Textbooks", "textbooks")
	l := seedListing(t, db, &Listing{SellerID: uuid.New(), CategoryID: textbooks.ID, Title: "Poster set", Price: 8, IsActive: true})

	require.NoError(t, repo.InsertImage(ctx, &ListingImage{ListingID: l.ID, URL: "http://store/second.jpg", Position: 1}))
	require.NoError(t, repo.InsertImage(ctx, &ListingImage{ListingID: l.ID, URL: "http://store/first.jpg", Position: 0}))

	images, err := repo.FindImagesByListingID(ctx, l.ID)

	assert.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "http://store/first.jpg", images[0].URL)
	assert.Equal(t, "http://store/second.jpg", images[1].URL)
}

func TestDeleteImageRowsWithoutActiveListing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	textbooks := seedCategory(t, db, "Textbooks", "textbooks")

	active := seedListing(t, db, &Listing{SellerID: uuid.New(), CategoryID: textbooks.ID, Title: "Kept", Price: 5, IsActive: true})
	retired := seedListing(t, db, &Listing{SellerID: uuid.New(), CategoryID: textbooks.ID, Title: "Retired", Price: 5, IsActive: true})
	require.NoError(t, repo.SetActive(ctx, retired.ID, false))

	require.NoError(t, repo.InsertImage(ctx, &ListingImage{ListingID: active.ID, URL: "http://store/keep.jpg"}))
	require.NoError(t, repo.InsertImage(ctx, &ListingImage{ListingID: retired.ID, URL: "http://store/drop.jpg"}))

	removed, err := repo.DeleteImageRowsWithoutActiveListing(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	kept, err := repo.FindImagesByListingID(ctx, active.ID)
	assert.NoError(t, err)
	assert.Len(t, kept, 1)

	gone, err := repo.FindImagesByListingID(ctx, retired.ID)
	assert.NoError(t, err)
	assert.Empty(t, gone)
}

func TestFindActiveListingIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	textbooks := seedCategory(t, db, "Textbooks", "textbooks")

	active := seedListing(t, db, &Listing{SellerID: uuid.New(), CategoryID: textbooks.ID, Title: "Active", Price: 5, IsActive: true})
	inactive := seedListing(t, db, &Listing{SellerID: uuid.New(), CategoryID: textbooks.ID, Title: "Inactive", Price: 5, IsActive: true})
	require.NoError(t, repo.SetActive(ctx, inactive.ID, false))

	ids, err := repo.FindActiveListingIDs(ctx)

	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{active.ID}, ids)
}
