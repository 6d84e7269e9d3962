package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/marlon-leasing/marlon/app/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func trackingRows(orderID uint) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_id", "financing_status", "contract_status", "delivery_status"}).
		AddRow(4, orderID, models.TRACKING_VALIDATED, models.TRACKING_PENDING, models.TRACKING_PENDING)
}

// Cancelling removes the order items but only ever appends to the status
// history; no statement in the transaction touches existing history rows.
func TestChangeStatusCancelRemovesItemsKeepsHistory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	order := &models.Order{ID: 7, UserID: 3, Status: models.ORDER_STATUS_SENT_TO_LEASER}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `orders` SET").
		WithArgs(models.ORDER_STATUS_CANCELLED, sqlmock.AnyArg(), order.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `order_status_histories`").
		WithArgs(order.ID, models.ORDER_STATUS_SENT_TO_LEASER, models.ORDER_STATUS_CANCELLED, uint(9), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec("DELETE FROM `order_items` WHERE order_id = \\?").
		WithArgs(order.ID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT \\* FROM `order_trackings` WHERE order_id = \\?").
		WillReturnRows(trackingRows(order.ID))
	mock.ExpectExec("UPDATE `order_trackings` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ChangeStatus(order, models.ORDER_STATUS_CANCELLED, 9)
	require.NoError(t, err)

	assert.Equal(t, models.ORDER_STATUS_CANCELLED, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A forward transition never deletes order items: the mock rejects any
// statement outside the expected sequence.
func TestChangeStatusForwardKeepsItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	order := &models.Order{ID: 7, UserID: 3, Status: models.ORDER_STATUS_PENDING}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `orders` SET").
		WithArgs(models.ORDER_STATUS_SENT_TO_LEASER, sqlmock.AnyArg(), order.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `order_status_histories`").
		WithArgs(order.ID, models.ORDER_STATUS_PENDING, models.ORDER_STATUS_SENT_TO_LEASER, uint(9), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(13, 1))
	mock.ExpectQuery("SELECT \\* FROM `order_trackings` WHERE order_id = \\?").
		WillReturnRows(trackingRows(order.ID))
	mock.ExpectExec("UPDATE `order_trackings` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ChangeStatus(order, models.ORDER_STATUS_SENT_TO_LEASER, 9)
	require.NoError(t, err)

	assert.Equal(t, models.ORDER_STATUS_SENT_TO_LEASER, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// When no tracking row exists yet, cancelling still deletes the items and
// creates a fresh tracking record.
func TestChangeStatusCancelCreatesMissingTracking(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	order := &models.Order{ID: 11, UserID: 3, Status: models.ORDER_STATUS_DRAFT}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `orders` SET").
		WithArgs(models.ORDER_STATUS_CANCELLED, sqlmock.AnyArg(), order.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `order_status_histories`").
		WithArgs(order.ID, models.ORDER_STATUS_DRAFT, models.ORDER_STATUS_CANCELLED, uint(9), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(14, 1))
	mock.ExpectExec("DELETE FROM `order_items` WHERE order_id = \\?").
		WithArgs(order.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT \\* FROM `order_trackings` WHERE order_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `order_trackings`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	err := repo.ChangeStatus(order, models.ORDER_STATUS_CANCELLED, 9)
	require.NoError(t, err)

	assert.Equal(t, models.ORDER_STATUS_CANCELLED, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
