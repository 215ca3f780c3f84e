package service

import (
	"context"
	"strings"

	"edulearn/internal/model"
	"edulearn/internal/repository"
	"edulearn/internal/voucher"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type voucherService struct {
	repo       repository.VoucherRepository
	courseRepo repository.CourseRepository
	validator  voucher.Validator
	importer   voucher.Importer
	logger     zerolog.Logger
}

// NewVoucherService creates a new voucher service.
func NewVoucherService(
	repo repository.VoucherRepository,
	courseRepo repository.CourseRepository,
	validator voucher.Validator,
	importer voucher.Importer,
	logger zerolog.Logger,
) VoucherService {
	return &voucherService{
		repo:       repo,
		courseRepo: courseRepo,
		validator:  validator,
		importer:   importer,
		logger:     logger.With().Str("service", "voucher").Logger(),
	}
}

func (s *voucherService) Create(ctx context.Context, req *model.VoucherRequest) (*model.Voucher, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	v := req.ToVoucher()
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Update replaces the voucher's terms; the usage count is preserved.
func (s *voucherService) Update(ctx context.Context, id int64, req *model.VoucherRequest) (*model.Voucher, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	v := req.ToVoucher()
	v.ID = id
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("voucher_id", id).Msg("voucher updated")
	return v, nil
}

func (s *voucherService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("voucher_id", id).Msg("voucher deleted")
	return nil
}

func (s *voucherService) Get(ctx context.Context, id int64) (*model.Voucher, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *voucherService) List(ctx context.Context, limit, offset int) ([]model.Voucher, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *voucherService) Preview(ctx context.Context, req *model.VoucherPreviewRequest) (*model.VoucherPreviewResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, model.Validationf("code is required")
	}

	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	discount, err := s.validator.Validate(ctx, voucher.ValidationRequest{
		Code:     code,
		CourseID: course.ID,
		Subtotal: course.Price,
	})
	if err != nil {
		if de, ok := model.AsDomainError(err); ok {
			return &model.VoucherPreviewResponse{
				Valid:          false,
				DiscountAmount: decimal.Zero,
				Reason:         de.Code,
			}, nil
		}
		return nil, err
	}

	return &model.VoucherPreviewResponse{
		Valid:          true,
		DiscountAmount: discount.Amount,
	}, nil
}

func (s *voucherService) Import(ctx context.Context, files []string) (*model.ImportResult, error) {
	if len(files) == 0 {
		return nil, model.Validationf("at least one file is required")
	}
	return s.importer.Import(ctx, files)
}
