package service

import (
	"context"
	"time"

	"edulearn/internal/model"
	"edulearn/internal/voucher"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

func beginTx(args mock.Arguments) (pgx.Tx, error) {
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(m.Called(ctx))
}

func (m *MockOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	return m.Called(ctx, tx, order).Error(0)
}

func (m *MockOrderRepository) HasCompleted(ctx context.Context, userID, courseID int64) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) HasCompletedTx(ctx context.Context, tx pgx.Tx, userID, courseID int64) (bool, error) {
	args := m.Called(ctx, tx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) RetireStale(ctx context.Context, tx pgx.Tx, userID, courseID int64) (int64, error) {
	args := m.Called(ctx, tx, userID, courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) Transition(ctx context.Context, tx pgx.Tx, t model.Transition) (bool, error) {
	args := m.Called(ctx, tx, t)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) SetPaymentMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (bool, error) {
	args := m.Called(ctx, id, method)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FailStalePending(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockCourseRepository is a mock implementation of CourseRepository.
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *model.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *model.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *MockCourseRepository) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseRepository) List(ctx context.Context, limit, offset int) ([]model.Course, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockCourseRepository) CreateModule(ctx context.Context, module *model.Module) error {
	return m.Called(ctx, module).Error(0)
}

func (m *MockCourseRepository) UpdateModule(ctx context.Context, module *model.Module) error {
	return m.Called(ctx, module).Error(0)
}

func (m *MockCourseRepository) SoftDeleteModule(ctx context.Context, courseID, moduleID int64) error {
	return m.Called(ctx, courseID, moduleID).Error(0)
}

func (m *MockCourseRepository) GetModule(ctx context.Context, courseID, moduleID int64) (*model.Module, error) {
	args := m.Called(ctx, courseID, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Module), args.Error(1)
}

func (m *MockCourseRepository) ListModules(ctx context.Context, courseID int64) ([]model.Module, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Module), args.Error(1)
}

func (m *MockCourseRepository) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	return m.Called(ctx, lesson).Error(0)
}

func (m *MockCourseRepository) UpdateLesson(ctx context.Context, lesson *model.Lesson) error {
	return m.Called(ctx, lesson).Error(0)
}

func (m *MockCourseRepository) SoftDeleteLesson(ctx context.Context, courseID, lessonID int64) error {
	return m.Called(ctx, courseID, lessonID).Error(0)
}

func (m *MockCourseRepository) GetLesson(ctx context.Context, courseID, lessonID int64) (*model.Lesson, error) {
	args := m.Called(ctx, courseID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lesson), args.Error(1)
}

func (m *MockCourseRepository) ListLessons(ctx context.Context, courseID int64) ([]model.Lesson, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lesson), args.Error(1)
}

func (m *MockCourseRepository) LessonIDs(ctx context.Context, tx pgx.Tx, courseID int64) ([]int64, error) {
	args := m.Called(ctx, tx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockVoucherRepository is a mock implementation of VoucherRepository.
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindActiveByCode(ctx context.Context, code string) (*model.Voucher, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindActiveByCodeTx(ctx context.Context, tx pgx.Tx, code string) (*model.Voucher, error) {
	args := m.Called(ctx, tx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) Create(ctx context.Context, v *model.Voucher) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVoucherRepository) Update(ctx context.Context, v *model.Voucher) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVoucherRepository) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVoucherRepository) GetByID(ctx context.Context, id int64) (*model.Voucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) List(ctx context.Context, limit, offset int) ([]model.Voucher, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) InsertMany(ctx context.Context, vouchers []model.Voucher) (int, error) {
	args := m.Called(ctx, vouchers)
	return args.Int(0), args.Error(1)
}

func (m *MockVoucherRepository) InsertRedemption(ctx context.Context, tx pgx.Tx, r model.Redemption) (bool, error) {
	args := m.Called(ctx, tx, r)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoucherRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, voucherID int64) (bool, error) {
	args := m.Called(ctx, tx, voucherID)
	return args.Bool(0), args.Error(1)
}

// MockSavedCourseRepository is a mock implementation of SavedCourseRepository.
type MockSavedCourseRepository struct {
	mock.Mock
}

func (m *MockSavedCourseRepository) Add(ctx context.Context, userID, courseID int64) error {
	return m.Called(ctx, userID, courseID).Error(0)
}

func (m *MockSavedCourseRepository) Remove(ctx context.Context, userID, courseID int64) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSavedCourseRepository) RemoveTx(ctx context.Context, tx pgx.Tx, userID, courseID int64) (bool, error) {
	args := m.Called(ctx, tx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSavedCourseRepository) List(ctx context.Context, userID int64) ([]model.SavedCourse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SavedCourse), args.Error(1)
}

// MockProgressRepository is a mock implementation of ProgressRepository.
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return beginTx(m.Called(ctx))
}

func (m *MockProgressRepository) Create(ctx context.Context, tx pgx.Tx, p *model.Progress) (bool, error) {
	args := m.Called(ctx, tx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressRepository) Get(ctx context.Context, userID, courseID int64) (*model.Progress, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}

func (m *MockProgressRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID, courseID int64) (*model.Progress, error) {
	args := m.Called(ctx, tx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}

func (m *MockProgressRepository) MarkLesson(ctx context.Context, tx pgx.Tx, userID, courseID, lessonID int64, completed bool) error {
	return m.Called(ctx, tx, userID, courseID, lessonID, completed).Error(0)
}

func (m *MockProgressRepository) CompletedLessons(ctx context.Context, tx pgx.Tx, userID, courseID int64) ([]int64, error) {
	args := m.Called(ctx, tx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockProgressRepository) UpdateStats(ctx context.Context, tx pgx.Tx, id int64, total, percent int) error {
	return m.Called(ctx, tx, id, total, percent).Error(0)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *model.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.Review, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

// MockBlogRepository is a mock implementation of BlogRepository.
type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) Create(ctx context.Context, blog *model.Blog) error {
	return m.Called(ctx, blog).Error(0)
}

func (m *MockBlogRepository) Update(ctx context.Context, blog *model.Blog) error {
	return m.Called(ctx, blog).Error(0)
}

func (m *MockBlogRepository) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id int64, publishedOnly bool) (*model.Blog, error) {
	args := m.Called(ctx, id, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Blog), args.Error(1)
}

func (m *MockBlogRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Blog, error) {
	args := m.Called(ctx, publishedOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Blog), args.Error(1)
}

// MockValidator is a mock implementation of voucher.Validator.
type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(ctx context.Context, req voucher.ValidationRequest) (*model.Discount, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *MockValidator) Evaluate(v *model.Voucher, courseID int64, subtotal decimal.Decimal) (*model.Discount, error) {
	args := m.Called(v, courseID, subtotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

// MockRedeemer is a mock implementation of voucher.Redeemer.
type MockRedeemer struct {
	mock.Mock
}

func (m *MockRedeemer) Redeem(ctx context.Context, tx pgx.Tx, r model.Redemption) error {
	return m.Called(ctx, tx, r).Error(0)
}

// MockImporter is a mock implementation of voucher.Importer.
type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) Import(ctx context.Context, files []string) (*model.ImportResult, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

// MockProgressInitializer is a mock implementation of ProgressInitializer.
type MockProgressInitializer struct {
	mock.Mock
}

func (m *MockProgressInitializer) InitializeTx(ctx context.Context, tx pgx.Tx, userID, courseID int64) (bool, error) {
	args := m.Called(ctx, tx, userID, courseID)
	return args.Bool(0), args.Error(1)
}
