package dao

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB starts a disposable Postgres container and returns a connection
// with the schema migrated. Skipped under -short so the suite stays runnable
// without Docker.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=test",
		"POSTGRES_PASSWORD=test",
		"POSTGRES_DB=tukio_test",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=tukio_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(db))

	return db
}

func seedEvent(t *testing.T, db *gorm.DB, total, sold int) Event {
	t.Helper()

	event := Event{
		Title:        "Jazz Night",
		VenueID:      1,
		Category:     "Music",
		Date:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Time:         "19:00",
		TicketPrice:  1500,
		TicketsTotal: total,
		TicketsSold:  sold,
	}
	require.NoError(t, db.Create(&event).Error)

	return event
}

func TestEventDAO_CommitTickets(t *testing.T) {
	db := openTestDB(t)
	eventDAO := NewEventDAO(db)
	ctx := context.Background()

	event := seedEvent(t, db, 10, 7)

	require.NoError(t, eventDAO.CommitTickets(ctx, event.EventID, 3))

	got, err := eventDAO.FindByID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.TicketsSold)

	// Sold out now; the conditional update must match nothing.
	err = eventDAO.CommitTickets(ctx, event.EventID, 1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	got, err = eventDAO.FindByID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.TicketsSold)

	err = eventDAO.CommitTickets(ctx, event.EventID+100, 1)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventDAO_CommitTickets_Concurrent(t *testing.T) {
	db := openTestDB(t)
	eventDAO := NewEventDAO(db)
	ctx := context.Background()

	event := seedEvent(t, db, 10, 0)

	// 20 goroutines race for 10 tickets; exactly 10 single-ticket commits
	// may win.
	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- eventDAO.CommitTickets(ctx, event.EventID, 1)
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		default:
			require.ErrorIs(t, err, ErrCapacityExceeded)
			lost++
		}
	}

	assert.Equal(t, 10, won)
	assert.Equal(t, 10, lost)

	got, err := eventDAO.FindByID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.TicketsSold)
}

func TestEventDAO_ReleaseTickets_FlooredAtZero(t *testing.T) {
	db := openTestDB(t)
	eventDAO := NewEventDAO(db)
	ctx := context.Background()

	event := seedEvent(t, db, 10, 2)

	require.NoError(t, eventDAO.ReleaseTickets(ctx, event.EventID, 5))

	got, err := eventDAO.FindByID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TicketsSold)
}

func TestBookingDAO_UpdateStatus(t *testing.T) {
	db := openTestDB(t)
	eventDAO := NewEventDAO(db)
	bookingDAO := NewBookingDAO(db)
	ctx := context.Background()

	event := seedEvent(t, db, 10, 0)

	booking, err := bookingDAO.Insert(ctx, Booking{
		UserID:      1,
		EventID:     event.EventID,
		Quantity:    4,
		TotalAmount: 6000,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pending", booking.BookingStatus)

	booking, err = bookingDAO.UpdateStatus(ctx, booking, "Confirmed", 4)
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", booking.BookingStatus)

	got, err := eventDAO.FindByID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TicketsSold)

	booking, err = bookingDAO.UpdateStatus(ctx, booking, "Cancelled", -4)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", booking.BookingStatus)

	got, err = eventDAO.FindByID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TicketsSold)
}

func TestBookingDAO_UpdateStatus_RollsBackOnCapacity(t *testing.T) {
	db := openTestDB(t)
	eventDAO := NewEventDAO(db)
	bookingDAO := NewBookingDAO(db)
	ctx := context.Background()

	event := seedEvent(t, db, 10, 8)

	booking, err := bookingDAO.Insert(ctx, Booking{
		UserID:      1,
		EventID:     event.EventID,
		Quantity:    4,
		TotalAmount: 6000,
	})
	require.NoError(t, err)

	_, err = bookingDAO.UpdateStatus(ctx, booking, "Confirmed", 4)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// Neither side of the transaction may have landed.
	gotBooking, err := bookingDAO.FindByID(ctx, booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", gotBooking.BookingStatus)

	gotEvent, err := eventDAO.FindByID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 8, gotEvent.TicketsSold)
}

func TestBookingDAO_Delete_ReleasesTickets(t *testing.T) {
	db := openTestDB(t)
	eventDAO := NewEventDAO(db)
	bookingDAO := NewBookingDAO(db)
	ctx := context.Background()

	event := seedEvent(t, db, 10, 0)

	booking, err := bookingDAO.Insert(ctx, Booking{
		UserID:      1,
		EventID:     event.EventID,
		Quantity:    3,
		TotalAmount: 4500,
	})
	require.NoError(t, err)

	_, err = bookingDAO.UpdateStatus(ctx, booking, "Confirmed", 3)
	require.NoError(t, err)

	require.NoError(t, bookingDAO.Delete(ctx, booking, 3))

	_, err = bookingDAO.FindByID(ctx, booking.BookingID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	got, err := eventDAO.FindByID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TicketsSold)
}

func TestPaymentDAO_InsertDuplicateBooking(t *testing.T) {
	db := openTestDB(t)
	paymentDAO := NewPaymentDAO(db)
	ctx := context.Background()

	payment, err := paymentDAO.Insert(ctx, Payment{
		BookingID:     1,
		Amount:        4500,
		PaymentStatus: "Pending",
		PaymentMethod: "M-Pesa",
	})
	require.NoError(t, err)
	assert.NotZero(t, payment.PaymentID)

	_, err = paymentDAO.Insert(ctx, Payment{
		BookingID:     1,
		Amount:        4500,
		PaymentStatus: "Pending",
		PaymentMethod: "M-Pesa",
	})
	assert.ErrorIs(t, err, ErrPaymentExists)
}
