package service

import (
	"context"
	"time"

	"edulearn/internal/model"
	"edulearn/internal/payment"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserService defines operations for account management.
type UserService interface {
	// Register creates a student or instructor account.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Me returns the caller's account.
	Me(ctx context.Context, actor model.Actor) (*model.User, error)

	List(ctx context.Context, actor model.Actor, limit, offset int) ([]model.User, error)
	Delete(ctx context.Context, actor model.Actor, id int64) error
}

// CourseService defines operations on the catalog.
type CourseService interface {
	List(ctx context.Context, limit, offset int) ([]model.Course, error)

	// Get returns the course with its modules and lessons.
	Get(ctx context.Context, id int64) (*model.Course, error)

	Create(ctx context.Context, actor model.Actor, req *model.CourseRequest) (*model.Course, error)
	Update(ctx context.Context, actor model.Actor, id int64, req *model.CourseRequest) (*model.Course, error)
	Delete(ctx context.Context, actor model.Actor, id int64) error

	CreateModule(ctx context.Context, actor model.Actor, courseID int64, req *model.ModuleRequest) (*model.Module, error)
	UpdateModule(ctx context.Context, actor model.Actor, courseID, moduleID int64, req *model.ModuleRequest) (*model.Module, error)
	DeleteModule(ctx context.Context, actor model.Actor, courseID, moduleID int64) error

	CreateLesson(ctx context.Context, actor model.Actor, courseID int64, req *model.LessonRequest) (*model.Lesson, error)
	UpdateLesson(ctx context.Context, actor model.Actor, courseID, lessonID int64, req *model.LessonRequest) (*model.Lesson, error)
	DeleteLesson(ctx context.Context, actor model.Actor, courseID, lessonID int64) error
}

// VoucherService defines voucher administration and previews.
type VoucherService interface {
	Create(ctx context.Context, req *model.VoucherRequest) (*model.Voucher, error)
	Update(ctx context.Context, id int64, req *model.VoucherRequest) (*model.Voucher, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Voucher, error)
	List(ctx context.Context, limit, offset int) ([]model.Voucher, error)

	// Preview reports what the voucher would take off the course's current price.
	// Voucher rejections are reported in the response, not as errors.
	Preview(ctx context.Context, req *model.VoucherPreviewRequest) (*model.VoucherPreviewResponse, error)

	// Import bulk-loads voucher files.
	Import(ctx context.Context, files []string) (*model.ImportResult, error)
}

// OrderService defines the order lifecycle.
type OrderService interface {
	// CreateOrder places a pending order for a course, retiring the caller's
	// earlier pending or canceled orders for it.
	CreateOrder(ctx context.Context, actor model.Actor, req *model.OrderRequest) (*model.Order, error)

	CancelOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error)
	GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Order, error)

	// CompleteOrder marks a paid order completed, redeems its voucher, grants
	// progress tracking and clears the course from the cart. Completing a
	// completed order is a no-op.
	CompleteOrder(ctx context.Context, id uuid.UUID, providerTransID string) error

	// FailOrder marks a pending order failed. Failing a failed order is a no-op.
	FailOrder(ctx context.Context, id uuid.UUID, providerTransID string) error

	// ExpireStale fails pending orders created before cutoff.
	ExpireStale(ctx context.Context, cutoff time.Time) (int, error)
}

// PaymentService connects orders to payment providers.
type PaymentService interface {
	// Checkout starts a provider payment for a pending order.
	Checkout(ctx context.Context, actor model.Actor, orderID uuid.UUID, method model.PaymentMethod) (*model.CheckoutResponse, error)

	// HandleCallback verifies a provider callback and applies it to the order.
	HandleCallback(ctx context.Context, method model.PaymentMethod, body []byte) (*payment.CallbackResult, error)
}

// ProgressService defines learning progress tracking.
type ProgressService interface {
	Initialize(ctx context.Context, actor model.Actor, courseID int64) (*model.Progress, error)
	UpdateLesson(ctx context.Context, actor model.Actor, courseID, lessonID int64, completed bool) (*model.Progress, error)
	Get(ctx context.Context, actor model.Actor, courseID int64) (*model.Progress, error)
}

// ProgressInitializer creates progress records inside another operation's transaction.
type ProgressInitializer interface {
	// InitializeTx creates the record unless one exists and reports whether it did.
	InitializeTx(ctx context.Context, tx pgx.Tx, userID, courseID int64) (bool, error)
}

// ProgressTracker is a ProgressService that can also initialise inside a transaction.
type ProgressTracker interface {
	ProgressService
	ProgressInitializer
}

// CourseListService manages a cart or a wishlist.
type CourseListService interface {
	Add(ctx context.Context, actor model.Actor, courseID int64) error
	Remove(ctx context.Context, actor model.Actor, courseID int64) error
	List(ctx context.Context, actor model.Actor) (*model.CourseList, error)
}

// ReviewService defines course reviews.
type ReviewService interface {
	Create(ctx context.Context, actor model.Actor, courseID int64, req *model.ReviewRequest) (*model.Review, error)
	Update(ctx context.Context, actor model.Actor, id int64, req *model.ReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, actor model.Actor, id int64) error
	ListByCourse(ctx context.Context, courseID int64) (*model.CourseReviews, error)
}

// BlogService defines blog publishing. Reads only see published posts.
type BlogService interface {
	List(ctx context.Context, limit, offset int) ([]model.Blog, error)
	Get(ctx context.Context, id int64) (*model.Blog, error)
	Create(ctx context.Context, actor model.Actor, req *model.BlogRequest) (*model.Blog, error)
	Update(ctx context.Context, actor model.Actor, id int64, req *model.BlogRequest) (*model.Blog, error)
	Delete(ctx context.Context, actor model.Actor, id int64) error
}
