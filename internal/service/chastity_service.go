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

type ChastityService struct {
	Dep *dependency.Dependency
}

func NewChastityService(dep *dependency.Dependency) *ChastityService {
	checkDependency("ChastityService", dep)

	return &ChastityService{
		Dep: dep,
	}
}

var errSessionActive = apperror.Conflict("a chastity session is already active")

func checkSessionBounds(start time.Time, end *time.Time) error {
	if end != nil && !end.After(start) {
		return apperror.BadRequest("endTime must be after startTime")
	}
	return nil
}

// hasOtherActive reports whether userID has an open session other than exceptID.
func hasOtherActive(ctx context.Context, tx *gorm.DB, userID, exceptID uint) (bool, error) {
	count, err := gorm.G[model.ChastitySession](tx).
		Where("user_id = ? AND end_time IS NULL AND id <> ?", userID, exceptID).
		Count(ctx, "*")
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *ChastityService) List(ctx context.Context, userID uint) ([]dto.ChastityResponse, error) {
	sessions, err := fetchIntervalEvents(ctx, s.Dep.DB, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]dto.ChastityResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, sessionToResponse(&session, now))
	}

	return responses, nil
}

// GetActive returns the open session, or nil when there is none.
func (s *ChastityService) GetActive(ctx context.Context, userID uint) (*dto.ChastityResponse, error) {
	session, err := gorm.G[model.ChastitySession](s.Dep.DB).
		Where("user_id = ? AND end_time IS NULL", userID).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	resp := sessionToResponse(&session, time.Now())
	return &resp, nil
}

func (s *ChastityService) findOwned(ctx context.Context, tx *gorm.DB, userID, sessionID uint) (*model.ChastitySession, error) {
	session, err := gorm.G[model.ChastitySession](tx).Where("id = ? AND user_id = ?", sessionID, userID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("session not found")
		}
		return nil, err
	}

	return &session, nil
}

func (s *ChastityService) Get(ctx context.Context, userID, sessionID uint) (*dto.ChastityResponse, error) {
	session, err := s.findOwned(ctx, s.Dep.DB, userID, sessionID)
	if err != nil {
		return nil, err
	}

	resp := sessionToResponse(session, time.Now())
	return &resp, nil
}

// Create starts a session, or records a finished one when EndTime is set. The
// active check and the insert share a transaction.
func (s *ChastityService) Create(ctx context.Context, userID uint, request *dto.ChastityRequest) (*dto.ChastityResponse, error) {
	if err := checkSessionBounds(*request.StartTime, request.EndTime); err != nil {
		return nil, err
	}

	session := model.ChastitySession{
		UserID:    userID,
		StartTime: request.StartTime.UTC(),
		EndTime:   utcPtr(request.EndTime),
		Note:      request.Note,
	}

	err := s.Dep.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if session.EndTime == nil {
			active, err := hasOtherActive(ctx, tx, userID, 0)
			if err != nil {
				return err
			}
			if active {
				return errSessionActive
			}
		}

		return gorm.G[model.ChastitySession](tx).Create(ctx, &session)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	s.Dep.Logger.Debug("chastity session created", "userID", userID, "sessionID", session.ID, "active", session.EndTime == nil)

	resp := sessionToResponse(&session, time.Now())
	return &resp, nil
}

// Update replaces start, end and note. Clearing the end reopens the session,
// which is only allowed while no other session is open.
func (s *ChastityService) Update(ctx context.Context, userID, sessionID uint, request *dto.ChastityRequest) (*dto.ChastityResponse, error) {
	if err := checkSessionBounds(*request.StartTime, request.EndTime); err != nil {
		return nil, err
	}

	var session *model.ChastitySession
	err := s.Dep.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = s.findOwned(ctx, tx, userID, sessionID)
		if err != nil {
			return err
		}

		if request.EndTime == nil {
			active, err := hasOtherActive(ctx, tx, userID, sessionID)
			if err != nil {
				return err
			}
			if active {
				return errSessionActive
			}
		}

		session.StartTime = request.StartTime.UTC()
		session.EndTime = utcPtr(request.EndTime)
		session.Note = request.Note

		return tx.Omit("User", "UserID").Save(session).Error
	})
	if err != nil {
		return nil, err
	}

	resp := sessionToResponse(session, time.Now())
	return &resp, nil
}

// EndActive closes the open session at request.EndTime, or now when unset.
func (s *ChastityService) EndActive(ctx context.Context, userID uint, request *dto.EndChastityRequest) (*dto.ChastityResponse, error) {
	end := time.Now().UTC()
	if request != nil && request.EndTime != nil {
		end = request.EndTime.UTC()
	}

	var session model.ChastitySession
	err := s.Dep.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = gorm.G[model.ChastitySession](tx).
			Where("user_id = ? AND end_time IS NULL", userID).
			First(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("no active chastity session")
			}
			return err
		}

		if err := checkSessionBounds(session.StartTime, &end); err != nil {
			return err
		}

		session.EndTime = &end
		_, err = gorm.G[model.ChastitySession](tx).Where("id = ?", session.ID).Update(ctx, "end_time", end)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Dep.Logger.Debug("chastity session ended", "userID", userID, "sessionID", session.ID)

	resp := sessionToResponse(&session, time.Now())
	return &resp, nil
}

func (s *ChastityService) Delete(ctx context.Context, userID, sessionID uint) error {
	rows, err := gorm.G[model.ChastitySession](s.Dep.DB.Unscoped()).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Delete(ctx)
	if err != nil {
		return err
	}

	if rows == 0 {
		return apperror.NotFound("session not found")
	}

	return nil
}
