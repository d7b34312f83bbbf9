package service

import (
	"testing"
	"time"

	"digistore/internal/domain/coupon/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCouponRepository is a mock of CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(coupon *model.Coupon) error {
	args := m.Called(coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) GetByID(id string) (*model.Coupon, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByCode(code string) (*model.Coupon, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) List(offset, limit int) ([]model.Coupon, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Coupon), args.Get(1).(int64), args.Error(2)
}

func (m *MockCouponRepository) Update(coupon *model.Coupon) error {
	args := m.Called(coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCouponRepository) Redeem(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockCouponRepository) *couponService {
	return &couponService{
		repo: repo,
		now:  func() time.Time { return fixedNow },
	}
}

func percentCoupon(code string) *model.Coupon {
	until := fixedNow.AddDate(0, 1, 0)
	return &model.Coupon{
		Code:            code,
		DiscountType:    model.TypePercentage,
		DiscountValue:   20,
		MinimumAmount:   10,
		MaximumDiscount: 15,
		Status:          model.StatusActive,
		ValidFrom:       fixedNow.AddDate(0, -1, 0),
		ValidUntil:      &until,
	}
}

func TestValidate(t *testing.T) {
	t.Run("Percentage discount accepted", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		mockRepo.On("GetByCode", "SAVE20").Return(percentCoupon("SAVE20"), nil)

		result, err := service.Validate("save20", 50, "USD")

		assert.NoError(t, err)
		assert.True(t, result.Accepted)
		assert.Equal(t, 10.0, result.Discount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Percentage discount capped at maximum", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		mockRepo.On("GetByCode", "SAVE20").Return(percentCoupon("SAVE20"), nil)

		// 20% of 200 = 40, capped at 15
		result, err := service.Validate("SAVE20", 200, "USD")

		assert.NoError(t, err)
		assert.True(t, result.Accepted)
		assert.Equal(t, 15.0, result.Discount)
	})

	t.Run("Fixed discount never exceeds subtotal", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		coupon := percentCoupon("FLAT5")
		coupon.DiscountType = model.TypeFixed
		coupon.DiscountValue = 5
		coupon.MinimumAmount = 0
		mockRepo.On("GetByCode", "FLAT5").Return(coupon, nil)

		result, err := service.Validate("FLAT5", 3, "USD")

		assert.NoError(t, err)
		assert.True(t, result.Accepted)
		assert.Equal(t, 3.0, result.Discount)
	})

	t.Run("Unknown code rejected", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		mockRepo.On("GetByCode", "NOPE").Return(nil, gorm.ErrRecordNotFound)

		result, err := service.Validate("NOPE", 50, "USD")

		assert.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.Equal(t, ReasonNotFound, result.Reason)
	})

	t.Run("Inactive coupon rejected", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		coupon := percentCoupon("SAVE20")
		coupon.Status = model.StatusDisabled
		mockRepo.On("GetByCode", "SAVE20").Return(coupon, nil)

		result, err := service.Validate("SAVE20", 50, "USD")

		assert.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.Equal(t, ReasonInactive, result.Reason)
	})

	t.Run("Not yet valid rejected", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		coupon := percentCoupon("SAVE20")
		coupon.ValidFrom = fixedNow.Add(time.Hour)
		mockRepo.On("GetByCode", "SAVE20").Return(coupon, nil)

		result, err := service.Validate("SAVE20", 50, "USD")

		assert.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.Equal(t, ReasonNotStarted, result.Reason)
	})

	t.Run("Expired coupon rejected", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		coupon := percentCoupon("SAVE20")
		past := fixedNow.Add(-time.Hour)
		coupon.ValidUntil = &past
		mockRepo.On("GetByCode", "SAVE20").Return(coupon, nil)

		result, err := service.Validate("SAVE20", 50, "USD")

		assert.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.Equal(t, ReasonExpired, result.Reason)
	})

	t.Run("Usage limit reached rejected", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		coupon := percentCoupon("SAVE20")
		coupon.UsageLimit = 100
		coupon.UsageCount = 100
		mockRepo.On("GetByCode", "SAVE20").Return(coupon, nil)

		result, err := service.Validate("SAVE20", 50, "USD")

		assert.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.Equal(t, ReasonLimitReached, result.Reason)
	})

	t.Run("Below minimum amount rejected with amount in message", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		mockRepo.On("GetByCode", "SAVE20").Return(percentCoupon("SAVE20"), nil)

		result, err := service.Validate("SAVE20", 5, "USD")

		assert.NoError(t, err)
		assert.False(t, result.Accepted)
		assert.Equal(t, ReasonBelowMinimum, result.Reason)
		assert.Contains(t, result.Message, "10.00 USD")
	})

	t.Run("Zero usage limit means unlimited", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		coupon := percentCoupon("SAVE20")
		coupon.UsageLimit = 0
		coupon.UsageCount = 99999
		mockRepo.On("GetByCode", "SAVE20").Return(coupon, nil)

		result, err := service.Validate("SAVE20", 50, "USD")

		assert.NoError(t, err)
		assert.True(t, result.Accepted)
	})

	t.Run("Uncapped percentage uses full discount", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		coupon := percentCoupon("SAVE20")
		coupon.MaximumDiscount = 0
		mockRepo.On("GetByCode", "SAVE20").Return(coupon, nil)

		result, err := service.Validate("SAVE20", 200, "USD")

		assert.NoError(t, err)
		assert.Equal(t, 40.0, result.Discount)
	})
}

func TestRedeem(t *testing.T) {
	t.Run("Redeem delegates to repository", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		mockRepo.On("Redeem", "coupon-id").Return(nil)

		err := service.Redeem("coupon-id")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestCreateCoupon(t *testing.T) {
	t.Run("Code is normalized to uppercase", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		mockRepo.On("Create", mock.AnythingOfType("*model.Coupon")).Return(nil)

		coupon, err := service.Create(CouponInput{
			Code:          "newuser",
			DiscountType:  model.TypeFixed,
			DiscountValue: 5,
		})

		assert.NoError(t, err)
		assert.Equal(t, "NEWUSER", coupon.Code)
		assert.Equal(t, model.StatusActive, coupon.Status)
		assert.False(t, coupon.ValidFrom.IsZero())
		mockRepo.AssertExpectations(t)
	})
}

func TestUpdateCoupon(t *testing.T) {
	t.Run("Replaces definition and clears omitted limits", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		stored := percentCoupon("SAVE20")
		stored.ID = "coupon-1"
		stored.UsageCount = 7
		mockRepo.On("GetByID", "coupon-1").Return(stored, nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.Coupon")).Return(nil)

		updated, err := service.Update("coupon-1", CouponInput{
			Code:          "save25",
			DiscountType:  model.TypePercentage,
			DiscountValue: 25,
		})

		assert.NoError(t, err)
		assert.Equal(t, "SAVE25", updated.Code)
		assert.Equal(t, 25.0, updated.DiscountValue)
		assert.Equal(t, 0.0, updated.MinimumAmount)
		assert.Equal(t, 0.0, updated.MaximumDiscount)
		assert.Equal(t, 0, updated.UsageLimit)
		assert.Nil(t, updated.ValidUntil)
		assert.Equal(t, model.StatusActive, updated.Status)
		assert.Equal(t, 7, updated.UsageCount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Omitted start date keeps the stored one", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := newTestService(mockRepo)

		stored := percentCoupon("SAVE20")
		stored.ID = "coupon-1"
		start := stored.ValidFrom
		mockRepo.On("GetByID", "coupon-1").Return(stored, nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.Coupon")).Return(nil)

		updated, err := service.Update("coupon-1", CouponInput{
			Code:          "SAVE20",
			DiscountType:  model.TypePercentage,
			DiscountValue: 20,
			Status:        model.StatusDisabled,
		})

		assert.NoError(t, err)
		assert.Equal(t, start, updated.ValidFrom)
		assert.Equal(t, model.StatusDisabled, updated.Status)
	})
}
