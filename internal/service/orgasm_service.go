package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/paularynty/climaxlog/internal/apperror"
	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/dto"
)

type OrgasmService struct {
	Dep *dependency.Dependency
}

func NewOrgasmService(dep *dependency.Dependency) *OrgasmService {
	checkDependency("OrgasmService", dep)

	return &OrgasmService{
		Dep: dep,
	}
}

func (s *OrgasmService) List(ctx context.Context, userID uint, from, to *time.Time) ([]dto.OrgasmResponse, error) {
	if from != nil && to != nil && !from.Before(*to) {
		return nil, apperror.BadRequest("from must be before to")
	}

	orgasms, err := fetchPointEvents(ctx, s.Dep.DB, userID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.OrgasmResponse, 0, len(orgasms))
	for _, o := range orgasms {
		responses = append(responses, orgasmToResponse(&o))
	}

	return responses, nil
}

// findOwned hides entries of other users behind a 404.
func (s *OrgasmService) findOwned(ctx context.Context, userID, orgasmID uint) (*model.Orgasm, error) {
	orgasm, err := gorm.G[model.Orgasm](s.Dep.DB).Where("id = ? AND user_id = ?", orgasmID, userID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("entry not found")
		}
		return nil, err
	}

	return &orgasm, nil
}

func (s *OrgasmService) Get(ctx context.Context, userID, orgasmID uint) (*dto.OrgasmResponse, error) {
	orgasm, err := s.findOwned(ctx, userID, orgasmID)
	if err != nil {
		return nil, err
	}

	resp := orgasmToResponse(orgasm)
	return &resp, nil
}

func (s *OrgasmService) Create(ctx context.Context, userID uint, request *dto.OrgasmRequest) (*dto.OrgasmResponse, error) {
	orgasm := model.Orgasm{
		UserID:    userID,
		Timestamp: utcPtr(request.Timestamp),
		Type:      request.Type,
		Partner:   request.Partner,
		Note:      request.Note,
	}

	err := gorm.G[model.Orgasm](s.Dep.DB).Create(ctx, &orgasm)
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	resp := orgasmToResponse(&orgasm)
	return &resp, nil
}

// Update replaces the mutable fields; the owner never changes.
func (s *OrgasmService) Update(ctx context.Context, userID, orgasmID uint, request *dto.OrgasmRequest) (*dto.OrgasmResponse, error) {
	orgasm, err := s.findOwned(ctx, userID, orgasmID)
	if err != nil {
		return nil, err
	}

	orgasm.Timestamp = utcPtr(request.Timestamp)
	orgasm.Type = request.Type
	orgasm.Partner = request.Partner
	orgasm.Note = request.Note

	err = s.Dep.DB.WithContext(ctx).Omit("User", "UserID").Save(orgasm).Error
	if err != nil {
		return nil, err
	}

	resp := orgasmToResponse(orgasm)
	return &resp, nil
}

func (s *OrgasmService) Delete(ctx context.Context, userID, orgasmID uint) error {
	rows, err := gorm.G[model.Orgasm](s.Dep.DB.Unscoped()).
		Where("id = ? AND user_id = ?", orgasmID, userID).
		Delete(ctx)
	if err != nil {
		return err
	}

	if rows == 0 {
		return apperror.NotFound("entry not found")
	}

	return nil
}
