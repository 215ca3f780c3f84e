package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorKind classifies domain errors for transport mapping.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON    = "INVALID_JSON"
	ErrCodeValidation     = "VALIDATION_FAILED"
	ErrCodeUnauthorised   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeInternalError  = "INTERNAL_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInvalidPayment = "INVALID_PAYMENT_CALLBACK"
)

// DomainError is a business rule violation that is safe to show to clients.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Validationf builds an ad-hoc validation error for a request field.
func Validationf(message string) *DomainError {
	return NewDomainError(KindValidation, ErrCodeValidation, message)
}

// AsDomainError unwraps err into a DomainError when it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	de, ok := AsDomainError(err)
	return ok && de.Kind == kind
}

// Authorization errors
var (
	ErrUnauthenticated = NewDomainError(KindUnauthorized, ErrCodeUnauthorised, "Authentication required")
	ErrForbidden       = NewDomainError(KindForbidden, ErrCodeForbidden, "You are not allowed to perform this action")
)

// User errors
var (
	ErrUserNotFound = NewDomainError(KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrEmailExists  = NewDomainError(KindConflict, "EMAIL_EXISTS", "Email is already registered")
	ErrInvalidRole  = NewDomainError(KindValidation, "INVALID_ROLE", "Role must be student or instructor")
)

// Catalog errors
var (
	ErrCourseNotFound = NewDomainError(KindNotFound, "COURSE_NOT_FOUND", "Course not found")
	ErrModuleNotFound = NewDomainError(KindNotFound, "MODULE_NOT_FOUND", "Module not found")
	ErrLessonNotFound = NewDomainError(KindNotFound, "LESSON_NOT_FOUND", "Lesson not found")
	ErrInvalidPrice   = NewDomainError(KindValidation, "INVALID_PRICE", "Price must be a non-negative whole amount")
)

// Voucher errors, in the order the validator checks them.
var (
	ErrVoucherNotFound           = NewDomainError(KindNotFound, "VOUCHER_NOT_FOUND", "Voucher code does not exist")
	ErrVoucherExpired            = NewDomainError(KindValidation, "VOUCHER_EXPIRED", "Voucher has expired")
	ErrVoucherUsageLimitReached  = NewDomainError(KindValidation, "VOUCHER_USAGE_LIMIT_REACHED", "Voucher usage limit has been reached")
	ErrVoucherMinOrderNotMet     = NewDomainError(KindValidation, "VOUCHER_MIN_ORDER_NOT_MET", "Order value is below the voucher minimum")
	ErrVoucherCourseNotEligible  = NewDomainError(KindValidation, "VOUCHER_COURSE_NOT_ELIGIBLE", "Voucher does not apply to this course")
	ErrVoucherCodeExists         = NewDomainError(KindConflict, "VOUCHER_CODE_EXISTS", "Voucher code already exists")
	ErrInvalidVoucherCode        = NewDomainError(KindValidation, "INVALID_VOUCHER_CODE", "Voucher code must be 3-32 letters, digits, '-' or '_'")
	ErrInvalidDiscountPercentage = NewDomainError(KindValidation, "INVALID_DISCOUNT_PERCENT", "Discount percent must be between 1 and 100")
)

// Order errors
var (
	ErrOrderNotFound          = NewDomainError(KindNotFound, "ORDER_NOT_FOUND", "Order not found")
	ErrCourseAlreadyPurchased = NewDomainError(KindConflict, "COURSE_ALREADY_PURCHASED", "Course has already been purchased")
	ErrPendingOrderExists     = NewDomainError(KindConflict, "PENDING_ORDER_EXISTS", "Another order for this course is being created")
	ErrInvalidTransition      = NewDomainError(KindConflict, "INVALID_ORDER_TRANSITION", "Order is not in a state that allows this action")
	ErrUnsupportedProvider    = NewDomainError(KindValidation, "UNSUPPORTED_PAYMENT_METHOD", "Payment method is not supported")
	ErrInvalidSignature       = NewDomainError(KindUnauthorized, "INVALID_SIGNATURE", "Payment callback signature is invalid")
	ErrPaymentAmountMismatch  = NewDomainError(KindValidation, "PAYMENT_AMOUNT_MISMATCH", "Paid amount does not match the order total")
	ErrInvalidCallback        = NewDomainError(KindValidation, ErrCodeInvalidPayment, "Payment callback payload is malformed")
)

// Progress errors
var (
	ErrCourseNotPurchased = NewDomainError(KindForbidden, "COURSE_NOT_PURCHASED", "Course has not been purchased")
	ErrProgressExists     = NewDomainError(KindConflict, "PROGRESS_EXISTS", "Progress has already been initialised")
	ErrProgressNotFound   = NewDomainError(KindNotFound, "PROGRESS_NOT_FOUND", "Progress not found")
)

// Cart, wishlist and review errors
var (
	ErrAlreadyInCart       = NewDomainError(KindConflict, "ALREADY_IN_CART", "Course is already in the cart")
	ErrNotInCart           = NewDomainError(KindNotFound, "NOT_IN_CART", "Course is not in the cart")
	ErrAlreadyInWishlist   = NewDomainError(KindConflict, "ALREADY_IN_WISHLIST", "Course is already in the wishlist")
	ErrNotInWishlist       = NewDomainError(KindNotFound, "NOT_IN_WISHLIST", "Course is not in the wishlist")
	ErrAlreadyReviewed     = NewDomainError(KindConflict, "ALREADY_REVIEWED", "Course has already been reviewed")
	ErrReviewNotFound      = NewDomainError(KindNotFound, "REVIEW_NOT_FOUND", "Review not found")
	ErrInvalidRating       = NewDomainError(KindValidation, "INVALID_RATING", "Rating must be between 1 and 5")
	ErrBlogNotFound        = NewDomainError(KindNotFound, "BLOG_NOT_FOUND", "Blog post not found")
)
