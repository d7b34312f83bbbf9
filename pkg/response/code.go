package response

// Business status codes.
const (
	CodeSuccess = 0
	CodeError   = 1

	// auth / admin 100xx
	ErrUserNotFound = 10001
	ErrAuthFailed   = 10002
	ErrTokenInvalid = 10003
	ErrNoPermission = 10004

	// coupon 200xx
	ErrCouponNotFound   = 20001
	ErrCouponInactive   = 20002
	ErrCouponNotStarted = 20003
	ErrCouponExpired    = 20004
	ErrCouponExhausted  = 20005
	ErrCouponMinAmount  = 20006

	// catalog 300xx
	ErrProductNotFound  = 30001
	ErrCategoryNotFound = 30002
	ErrSlugTaken        = 30003
	ErrProductStockOut  = 30004

	// order / payment 400xx
	ErrOrderNotFound     = 40001
	ErrInvalidTransition = 40002
	ErrCartEmpty         = 40003
	ErrPaymentInit       = 40004
	ErrPaymentVerify     = 40005
	ErrCallbackReplayed  = 40006

	// system 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrNotFound        = 50004
)
