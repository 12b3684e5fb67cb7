package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopbill/shopbill-api/internal/domain/entity"
	infraRepo "github.com/shopbill/shopbill-api/internal/infrastructure/repository"
	"github.com/shopbill/shopbill-api/pkg/apperror"
	"github.com/shopbill/shopbill-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.User{}, &entity.Shop{}, &entity.Invoice{}, &entity.InvoiceItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, login string, superuser bool) *entity.User {
	t.Helper()
	user := &entity.User{Login: login, Password: "x", IsActive: true, IsSuperuser: superuser}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", login, err)
	}
	return user
}

func seedShop(t *testing.T, db *gorm.DB, name string) *entity.Shop {
	t.Helper()
	shop := &entity.Shop{Name: name}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("seed shop %s: %v", name, err)
	}
	return shop
}

func enroll(t *testing.T, db *gorm.DB, userID, shopID uint) {
	t.Helper()
	if err := db.Exec("INSERT INTO user_shops (user_id, shop_id) VALUES (?, ?)", userID, shopID).Error; err != nil {
		t.Fatalf("enroll user %d in shop %d: %v", userID, shopID, err)
	}
}

func newInvoiceService(db *gorm.DB) *InvoiceService {
	return NewInvoiceService(infraRepo.NewInvoiceRepository(db), infraRepo.NewShopRepository(db))
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return apperror.GetAppError(err).Code
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestAllocateInvoiceNumberSequence(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice", false)
	// fixed shop id so the formatted number is predictable
	shop := &entity.Shop{ID: 5, Name: "Fifth"}
	require.NoError(t, db.Create(shop).Error)
	enroll(t, db, user.ID, shop.ID)

	day := time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local)
	svc.now = func() time.Time { return day }

	// one invoice already created that day for that shop
	first := &entity.Invoice{ShopID: shop.ID, UserID: user.ID, CreatedAt: day.Add(-2 * time.Hour)}
	require.NoError(t, db.Create(first).Error)
	// an invoice from the previous day must not count
	stale := &entity.Invoice{ShopID: shop.ID, UserID: user.ID, CreatedAt: day.AddDate(0, 0, -1)}
	require.NoError(t, db.Create(stale).Error)

	next, err := svc.AllocateInvoiceNumber(ctx, user, shop.ID)
	require.NoError(t, err)

	assert.Equal(t, "20240301-5-002", next.FormattedNumber)
	assert.Equal(t, stale.ID+1, next.NextID)
	assert.Equal(t, shop.ID, next.ShopID)
	assert.Equal(t, "2024-03-01", next.Date)
}

func TestAllocateInvoiceNumberForbiddenWithoutMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)

	user := seedUser(t, db, "alice", false)
	shop := seedShop(t, db, "Not mine")

	_, err := svc.AllocateInvoiceNumber(context.Background(), user, shop.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestCreateInvoiceChecksAccessThenShopExistence(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice", false)
	shop := seedShop(t, db, "Main")

	// no membership: forbidden
	_, err := svc.CreateInvoice(ctx, user, &CreateInvoiceInput{ShopID: shop.ID})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	// membership row pointing at a shop that does not exist: not found
	enroll(t, db, user.ID, 999)
	_, err = svc.CreateInvoice(ctx, user, &CreateInvoiceInput{ShopID: 999})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestCreateInvoiceTrustsCallerSuppliedTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice", false)
	shop := seedShop(t, db, "Main")
	enroll(t, db, user.ID, shop.ID)

	invoice, err := svc.CreateInvoice(ctx, user, &CreateInvoiceInput{
		ShopID:      shop.ID,
		ContactInfo: "acme@example.com",
		TotalAmount: dec("42.50"),
		Items: []InvoiceItemInput{
			// total deliberately inconsistent with quantity*price:
			// creation takes it as supplied
			{Name: "widget", Quantity: 2, Price: dec("5.00"), Total: dec("11.00")},
		},
	})
	require.NoError(t, err)

	assert.True(t, invoice.TotalAmount.Equal(dec("42.50")))
	require.Len(t, invoice.Items, 1)
	assert.True(t, invoice.Items[0].Total.Equal(dec("11.00")))
	require.NotNil(t, invoice.Shop)
	assert.Equal(t, shop.ID, invoice.Shop.ID)
}

func TestGetInvoiceNotFoundBeforeForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	member := seedUser(t, db, "alice", false)
	outsider := seedUser(t, db, "bob", false)
	shop := seedShop(t, db, "Main")
	enroll(t, db, member.ID, shop.ID)

	_, err := svc.GetInvoice(ctx, member, 12345)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	created, err := svc.CreateInvoice(ctx, member, &CreateInvoiceInput{ShopID: shop.ID})
	require.NoError(t, err)

	_, err = svc.GetInvoice(ctx, outsider, created.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	got, err := svc.GetInvoice(ctx, member, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, member.ID, got.User.ID)
}

func TestUpdateInvoiceRequiresSuperuser(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	member := seedUser(t, db, "alice", false)
	shop := seedShop(t, db, "Main")
	enroll(t, db, member.ID, shop.ID)

	created, err := svc.CreateInvoice(ctx, member, &CreateInvoiceInput{
		ShopID:      shop.ID,
		ContactInfo: "before",
	})
	require.NoError(t, err)

	// shop membership alone is not sufficient for mutation
	paid := true
	_, err = svc.UpdateInvoice(ctx, member, created.ID, &UpdateInvoiceInput{IsPaid: &paid})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	var unchanged entity.Invoice
	require.NoError(t, db.First(&unchanged, created.ID).Error)
	assert.False(t, unchanged.IsPaid)
	assert.Equal(t, "before", unchanged.ContactInfo)
}

func TestUpdateInvoiceReplacesItemsWholesale(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	admin := seedUser(t, db, "root", true)
	shop := seedShop(t, db, "Main")
	enroll(t, db, admin.ID, shop.ID)

	created, err := svc.CreateInvoice(ctx, admin, &CreateInvoiceInput{
		ShopID:      shop.ID,
		TotalAmount: dec("99.99"),
		Items: []InvoiceItemInput{
			{Name: "old", Quantity: 1, Price: dec("99.99"), Total: dec("99.99")},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateInvoice(ctx, admin, created.ID, &UpdateInvoiceInput{
		Items: []InvoiceItemInput{
			// caller-supplied totals are ignored on update
			{Name: "a", Quantity: 2, Price: dec("5"), Total: dec("1000")},
			{Name: "b", Quantity: 1, Price: dec("3"), Total: dec("1000")},
		},
	})
	require.NoError(t, err)

	assert.True(t, updated.TotalAmount.Equal(dec("13")), "total_amount = %s", updated.TotalAmount)
	require.Len(t, updated.Items, 2)
	assert.True(t, updated.Items[0].Total.Equal(dec("10")))
	assert.True(t, updated.Items[1].Total.Equal(dec("3")))

	var count int64
	require.NoError(t, db.Model(&entity.InvoiceItem{}).Where("invoice_id = ?", created.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count, "old items must be fully replaced")
}

func TestUpdateInvoicePartialPatchKeepsAbsentFields(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	admin := seedUser(t, db, "root", true)
	shop := seedShop(t, db, "Main")
	enroll(t, db, admin.ID, shop.ID)

	created, err := svc.CreateInvoice(ctx, admin, &CreateInvoiceInput{
		ShopID:         shop.ID,
		ContactInfo:    "keep me",
		AdditionalInfo: "and me",
		TotalAmount:    dec("10"),
		Items: []InvoiceItemInput{
			{Name: "x", Quantity: 1, Price: dec("10"), Total: dec("10")},
		},
	})
	require.NoError(t, err)

	paid := true
	updated, err := svc.UpdateInvoice(ctx, admin, created.ID, &UpdateInvoiceInput{IsPaid: &paid})
	require.NoError(t, err)

	assert.True(t, updated.IsPaid)
	assert.Equal(t, "keep me", updated.ContactInfo)
	assert.Equal(t, "and me", updated.AdditionalInfo)
	assert.Len(t, updated.Items, 1, "absent items field must not touch stored items")
	assert.True(t, updated.TotalAmount.Equal(dec("10")))
}

func TestDeleteInvoice(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	admin := seedUser(t, db, "root", true)
	member := seedUser(t, db, "alice", false)
	shop := seedShop(t, db, "Main")
	enroll(t, db, admin.ID, shop.ID)
	enroll(t, db, member.ID, shop.ID)

	err := svc.DeleteInvoice(ctx, admin, 404404)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	created, err := svc.CreateInvoice(ctx, admin, &CreateInvoiceInput{
		ShopID: shop.ID,
		Items:  []InvoiceItemInput{{Name: "x", Quantity: 1, Price: dec("1"), Total: dec("1")}},
	})
	require.NoError(t, err)

	err = svc.DeleteInvoice(ctx, member, created.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	require.NoError(t, svc.DeleteInvoice(ctx, admin, created.ID))

	var invoices, items int64
	require.NoError(t, db.Model(&entity.Invoice{}).Where("id = ?", created.ID).Count(&invoices).Error)
	require.NoError(t, db.Model(&entity.InvoiceItem{}).Where("invoice_id = ?", created.ID).Count(&items).Error)
	assert.Zero(t, invoices)
	assert.Zero(t, items, "delete must cascade to items")
}

func TestListInvoicesRestrictedToMembershipSet(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice", false)
	bob := seedUser(t, db, "bob", false)
	shop1 := seedShop(t, db, "One")
	shop2 := seedShop(t, db, "Two")
	enroll(t, db, alice.ID, shop1.ID)
	enroll(t, db, bob.ID, shop2.ID)

	_, err := svc.CreateInvoice(ctx, alice, &CreateInvoiceInput{ShopID: shop1.ID})
	require.NoError(t, err)
	_, err = svc.CreateInvoice(ctx, bob, &CreateInvoiceInput{ShopID: shop2.ID})
	require.NoError(t, err)

	invoices, err := svc.ListInvoices(ctx, alice, &InvoiceFilters{}, pagination.Default())
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, shop1.ID, invoices[0].ShopID)
	assert.NotEmpty(t, invoices[0].FormattedDate)

	// explicit shop_id outside the membership set fails before other filters
	_, err = svc.ListInvoices(ctx, alice, &InvoiceFilters{ShopID: &shop2.ID}, pagination.Default())
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestListInvoicesFiltersAndOrdering(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice", false)
	shop := seedShop(t, db, "Main")
	enroll(t, db, alice.ID, shop.ID)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	amounts := []string{"10.00", "20.00", "30.00"}
	for i, amount := range amounts {
		inv := &entity.Invoice{
			ShopID:      shop.ID,
			UserID:      alice.ID,
			TotalAmount: dec(amount),
			IsPaid:      i == 1,
			CreatedAt:   base.AddDate(0, 0, i),
		}
		require.NoError(t, db.Create(inv).Error)
	}

	all, err := svc.ListInvoices(ctx, alice, &InvoiceFilters{}, pagination.Default())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt), "most recent first")
	assert.True(t, all[1].CreatedAt.After(all[2].CreatedAt))
	assert.Equal(t, base.AddDate(0, 0, 2).Format("02-01-06 15:04"), all[0].FormattedDate)

	paid := true
	paidOnly, err := svc.ListInvoices(ctx, alice, &InvoiceFilters{IsPaid: &paid}, pagination.Default())
	require.NoError(t, err)
	require.Len(t, paidOnly, 1)
	assert.True(t, paidOnly[0].TotalAmount.Equal(dec("20.00")))

	// inclusive bounds on amount
	min := dec("20.00")
	max := dec("30.00")
	ranged, err := svc.ListInvoices(ctx, alice, &InvoiceFilters{MinAmount: &min, MaxAmount: &max}, pagination.Default())
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	// inclusive bounds on creation timestamp
	after := base.AddDate(0, 0, 1)
	before := base.AddDate(0, 0, 1)
	dated, err := svc.ListInvoices(ctx, alice, &InvoiceFilters{CreatedAfter: &after, CreatedBefore: &before}, pagination.Default())
	require.NoError(t, err)
	require.Len(t, dated, 1)
	assert.True(t, dated[0].TotalAmount.Equal(dec("20.00")))
}

func TestListInvoicesPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice", false)
	shop := seedShop(t, db, "Main")
	enroll(t, db, alice.ID, shop.ID)

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 5; i++ {
		inv := &entity.Invoice{ShopID: shop.ID, UserID: alice.ID, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, db.Create(inv).Error)
	}

	page, err := svc.ListInvoices(ctx, alice, &InvoiceFilters{}, pagination.Params{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	// newest first, so skip=1 starts at the second-newest
	assert.Equal(t, base.Add(3*time.Minute).Unix(), page[0].CreatedAt.Unix())
}

func TestSummarizeInvoices(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice", false)
	shop := seedShop(t, db, "Main")
	other := seedShop(t, db, "Other")
	enroll(t, db, alice.ID, shop.ID)

	for i, amount := range []string{"10", "20", "30", "40"} {
		inv := &entity.Invoice{
			ShopID:      shop.ID,
			UserID:      alice.ID,
			TotalAmount: dec(amount),
			IsPaid:      i%2 == 0,
			CreatedAt:   time.Now().Add(-time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(inv).Error)
	}

	stats, err := svc.SummarizeInvoices(ctx, alice, &shop.ID, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalInvoices)
	assert.InDelta(t, 100.0, stats.TotalAmount, 0.001)
	assert.InDelta(t, 25.0, stats.AverageAmount, 0.001)
	assert.EqualValues(t, 2, stats.PaidInvoices)
	assert.Equal(t, stats.TotalInvoices, stats.PaidInvoices+stats.UnpaidInvoices)

	// shop-scoped stats re-run the access check
	_, err = svc.SummarizeInvoices(ctx, alice, &other.ID, nil, nil)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestSummarizeInvoicesZeroRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newInvoiceService(db)

	alice := seedUser(t, db, "alice", false)
	shop := seedShop(t, db, "Main")
	enroll(t, db, alice.ID, shop.ID)

	stats, err := svc.SummarizeInvoices(context.Background(), alice, &shop.ID, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalInvoices)
	assert.Zero(t, stats.TotalAmount)
	assert.Zero(t, stats.AverageAmount)
	assert.Zero(t, stats.PaidInvoices)
	assert.Zero(t, stats.UnpaidInvoices)
}
