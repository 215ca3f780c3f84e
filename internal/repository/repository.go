package repository

import (
	"context"
	"time"

	"edulearn/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines data access for accounts.
type UserRepository interface {
	// Create inserts a user and fills in its ID and timestamps.
	// Returns model.ErrEmailExists when an active account has the same email.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves an active user.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// List retrieves active users with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.User, error)

	// SoftDelete tombstones a user.
	SoftDelete(ctx context.Context, id int64) error
}

// CourseRepository defines data access for courses, modules and lessons.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	List(ctx context.Context, limit, offset int) ([]model.Course, error)

	CreateModule(ctx context.Context, module *model.Module) error
	UpdateModule(ctx context.Context, module *model.Module) error
	SoftDeleteModule(ctx context.Context, courseID, moduleID int64) error
	GetModule(ctx context.Context, courseID, moduleID int64) (*model.Module, error)
	ListModules(ctx context.Context, courseID int64) ([]model.Module, error)

	CreateLesson(ctx context.Context, lesson *model.Lesson) error
	UpdateLesson(ctx context.Context, lesson *model.Lesson) error
	SoftDeleteLesson(ctx context.Context, courseID, lessonID int64) error
	GetLesson(ctx context.Context, courseID, lessonID int64) (*model.Lesson, error)
	ListLessons(ctx context.Context, courseID int64) ([]model.Lesson, error)

	// LessonIDs returns the ids of the active lessons of a course within tx.
	LessonIDs(ctx context.Context, tx pgx.Tx, courseID int64) ([]int64, error)
}

// VoucherRepository defines data access for vouchers and their redemptions.
type VoucherRepository interface {
	// FindActiveByCode looks a voucher up case-insensitively.
	// Returns model.ErrVoucherNotFound when no active voucher matches.
	FindActiveByCode(ctx context.Context, code string) (*model.Voucher, error)

	// FindActiveByCodeTx is FindActiveByCode within tx.
	FindActiveByCodeTx(ctx context.Context, tx pgx.Tx, code string) (*model.Voucher, error)

	Create(ctx context.Context, voucher *model.Voucher) error
	Update(ctx context.Context, voucher *model.Voucher) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Voucher, error)
	List(ctx context.Context, limit, offset int) ([]model.Voucher, error)

	// InsertMany inserts vouchers, skipping codes that already exist.
	// It returns how many rows were inserted.
	InsertMany(ctx context.Context, vouchers []model.Voucher) (int, error)

	// InsertRedemption records a redemption keyed by order id.
	// It returns false when the order was already redeemed.
	InsertRedemption(ctx context.Context, tx pgx.Tx, redemption model.Redemption) (bool, error)

	// IncrementUsage bumps used_count unless the usage limit is reached.
	// It returns false when the limit prevented the increment.
	IncrementUsage(ctx context.Context, tx pgx.Tx, voucherID int64) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a pending order within the provided transaction.
	// Returns model.ErrPendingOrderExists if another pending order won the race.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// HasCompleted reports whether the user owns an active completed order for the course.
	HasCompleted(ctx context.Context, userID, courseID int64) (bool, error)

	// HasCompletedTx is HasCompleted within tx.
	HasCompletedTx(ctx context.Context, tx pgx.Tx, userID, courseID int64) (bool, error)

	// RetireStale soft-deletes active pending and canceled orders for the pair.
	RetireStale(ctx context.Context, tx pgx.Tx, userID, courseID int64) (int64, error)

	// GetByID retrieves an active order.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDTx is GetByID within tx.
	GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's active orders, newest first.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, error)

	// Transition applies a conditional status change.
	// It returns false when the order was not in the expected status.
	Transition(ctx context.Context, tx pgx.Tx, t model.Transition) (bool, error)

	// SetPaymentMethod records the provider chosen for a pending order.
	SetPaymentMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (bool, error)

	// FailStalePending moves pending orders created before cutoff to failed.
	FailStalePending(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}

// ProgressRepository defines data access for learning progress.
type ProgressRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a progress record unless one is already active.
	// It returns false when a record existed.
	Create(ctx context.Context, tx pgx.Tx, progress *model.Progress) (bool, error)

	// Get retrieves the active record with its completed lesson ids.
	Get(ctx context.Context, userID, courseID int64) (*model.Progress, error)

	// GetForUpdate retrieves and locks the active record within tx.
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID, courseID int64) (*model.Progress, error)

	// MarkLesson adds or removes a lesson from the completed set. Both are idempotent.
	MarkLesson(ctx context.Context, tx pgx.Tx, userID, courseID, lessonID int64, completed bool) error

	// CompletedLessons lists the completed lesson ids within tx.
	CompletedLessons(ctx context.Context, tx pgx.Tx, userID, courseID int64) ([]int64, error)

	// UpdateStats stores the cached lesson total and percentage.
	UpdateStats(ctx context.Context, tx pgx.Tx, id int64, totalLessons, percent int) error
}

// SavedCourseRepository defines data access for carts and wishlists.
type SavedCourseRepository interface {
	// Add saves a course for the user. Returns the list's conflict error on duplicates.
	Add(ctx context.Context, userID, courseID int64) error

	// Remove tombstones the entry. It returns false when nothing was saved.
	Remove(ctx context.Context, userID, courseID int64) (bool, error)

	// RemoveTx is Remove within tx.
	RemoveTx(ctx context.Context, tx pgx.Tx, userID, courseID int64) (bool, error)

	// List returns the user's saved active courses.
	List(ctx context.Context, userID int64) ([]model.SavedCourse, error)
}

// ReviewRepository defines data access for course reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	ListByCourse(ctx context.Context, courseID int64) ([]model.Review, error)
}

// BlogRepository defines data access for blog posts.
type BlogRepository interface {
	Create(ctx context.Context, blog *model.Blog) error
	Update(ctx context.Context, blog *model.Blog) error
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64, publishedOnly bool) (*model.Blog, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Blog, error)
}
