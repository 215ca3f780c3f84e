package handler

import (
	"context"
	"net/http"
	"time"

	"edulearn/internal/auth"
	"edulearn/internal/model"
	"edulearn/internal/payment"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, actor model.Actor, req *model.OrderRequest) (*model.Order, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, actor model.Actor, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) CompleteOrder(ctx context.Context, id uuid.UUID, transID string) error {
	return m.Called(ctx, id, transID).Error(0)
}

func (m *MockOrderService) FailOrder(ctx context.Context, id uuid.UUID, transID string) error {
	return m.Called(ctx, id, transID).Error(0)
}

func (m *MockOrderService) ExpireStale(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

// MockPaymentService is a mock implementation of service.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Checkout(ctx context.Context, actor model.Actor, orderID uuid.UUID, method model.PaymentMethod) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, actor, orderID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

func (m *MockPaymentService) HandleCallback(ctx context.Context, method model.PaymentMethod, body []byte) (*payment.CallbackResult, error) {
	args := m.Called(ctx, method, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CallbackResult), args.Error(1)
}

// MockVoucherService is a mock implementation of service.VoucherService.
type MockVoucherService struct {
	mock.Mock
}

func (m *MockVoucherService) Create(ctx context.Context, req *model.VoucherRequest) (*model.Voucher, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voucher), args.Error(1)
}

func (m *MockVoucherService) Update(ctx context.Context, id int64, req *model.VoucherRequest) (*model.Voucher, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voucher), args.Error(1)
}

func (m *MockVoucherService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVoucherService) Get(ctx context.Context, id int64) (*model.Voucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Voucher), args.Error(1)
}

func (m *MockVoucherService) List(ctx context.Context, limit, offset int) ([]model.Voucher, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Voucher), args.Error(1)
}

func (m *MockVoucherService) Preview(ctx context.Context, req *model.VoucherPreviewRequest) (*model.VoucherPreviewResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VoucherPreviewResponse), args.Error(1)
}

func (m *MockVoucherService) Import(ctx context.Context, files []string) (*model.ImportResult, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

// MockProgressService is a mock implementation of service.ProgressService.
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) Initialize(ctx context.Context, actor model.Actor, courseID int64) (*model.Progress, error) {
	args := m.Called(ctx, actor, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}

func (m *MockProgressService) UpdateLesson(ctx context.Context, actor model.Actor, courseID, lessonID int64, completed bool) (*model.Progress, error) {
	args := m.Called(ctx, actor, courseID, lessonID, completed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}

func (m *MockProgressService) Get(ctx context.Context, actor model.Actor, courseID int64) (*model.Progress, error) {
	args := m.Called(ctx, actor, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}

// MockCourseListService is a mock implementation of service.CourseListService.
type MockCourseListService struct {
	mock.Mock
}

func (m *MockCourseListService) Add(ctx context.Context, actor model.Actor, courseID int64) error {
	return m.Called(ctx, actor, courseID).Error(0)
}

func (m *MockCourseListService) Remove(ctx context.Context, actor model.Actor, courseID int64) error {
	return m.Called(ctx, actor, courseID).Error(0)
}

func (m *MockCourseListService) List(ctx context.Context, actor model.Actor) (*model.CourseList, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CourseList), args.Error(1)
}

var student = model.Actor{UserID: 5, Role: model.RoleStudent}

// asActor injects the actor the way the authentication middleware does.
func asActor(a model.Actor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), a)))
		})
	}
}

// newTestRouter mounts fn on a chi router so path parameters resolve.
func newTestRouter(method, pattern string, fn http.HandlerFunc, a *model.Actor) http.Handler {
	r := chi.NewRouter()
	if a != nil {
		r.Use(asActor(*a))
	}
	r.Method(method, pattern, fn)
	return r
}
