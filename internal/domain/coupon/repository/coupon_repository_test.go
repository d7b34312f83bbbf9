package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	return db, mock
}

func TestRedeem(t *testing.T) {
	t.Run("Increment succeeds under the limit", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCouponRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coupons" SET "usage_count"=usage_count + 1`)).
			WithArgs("coupon-id").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Redeem("coupon-id")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No rows affected means limit reached", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCouponRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coupons" SET "usage_count"=usage_count + 1`)).
			WithArgs("coupon-id").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Redeem("coupon-id")

		assert.ErrorIs(t, err, ErrLimitReached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Guard re-checks the limit inside the update", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCouponRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`usage_limit = 0 OR usage_count < usage_limit`)).
			WithArgs("coupon-id").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Redeem("coupon-id")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByCode(t *testing.T) {
	t.Run("Lookup normalizes code to uppercase", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCouponRepository(db)

		rows := sqlmock.NewRows([]string{"id", "code", "discount_type", "discount_value"}).
			AddRow("coupon-id", "SAVE20", "percentage", 20.0)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coupons" WHERE code = $1`)).
			WithArgs("SAVE20", 1).
			WillReturnRows(rows)

		coupon, err := repo.GetByCode("save20")

		assert.NoError(t, err)
		assert.Equal(t, "SAVE20", coupon.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
