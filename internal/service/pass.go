package service

import (
	"context"
	"time"

	"github.com/sunrinpass/server/internal/dto"
	apperrors "github.com/sunrinpass/server/internal/errors"
	"github.com/sunrinpass/server/internal/model"
	"github.com/sunrinpass/server/internal/repository"
	"github.com/sunrinpass/server/pkg/logger"
	"go.uber.org/zap"
)

// PassService owns the pass state machine: PENDING → {APPROVED,
// REJECTED} by one teacher decision, APPROVED → EXPIRED lazily on read.
// Mutations run under a per-row pessimistic lock.
type PassService struct {
	passes *repository.PassRepository
	users  *repository.UserRepository
	qr     *QRCodeService
}

func NewPassService(passes *repository.PassRepository, users *repository.UserRepository, qr *QRCodeService) *PassService {
	return &PassService{passes: passes, users: users, qr: qr}
}

// endOfDay is 23:59:59.999 on t's civil date, local time.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

// calculateExpiration fixes expiresAt at creation; it is never
// recomputed afterwards.
func calculateExpiration(passType model.PassType, startTime time.Time, returnTime *time.Time) time.Time {
	switch {
	case passType == model.PassTypeOuting && returnTime != nil:
		return *returnTime
	case passType == model.PassTypeEarlyLeave:
		return endOfDay(startTime)
	default:
		// Outing without a return time: fall back to the end of the
		// current day, not startTime's.
		return endOfDay(time.Now())
	}
}

// reconcile flips an APPROVED pass past its expiry to EXPIRED in memory.
// Reads reconcile without persisting; the verify transaction persists
// the flip before answering.
func reconcile(pass *model.Pass) *model.Pass {
	if pass.Status == model.PassStatusApproved && time.Now().After(pass.ExpiresAt) {
		pass.Status = model.PassStatusExpired
	}
	return pass
}

// Create registers a PENDING pass for the student, computes its fixed
// expiration and binds a QR proof to it.
func (s *PassService) Create(ctx context.Context, req dto.CreatePassRequest, studentID string) (*model.Pass, error) {
	teacher, err := s.users.GetByID(ctx, req.TeacherID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !teacher.IsTeacher {
		return nil, apperrors.ErrNotTeacher
	}

	pass := &model.Pass{
		Type:       req.Type,
		StartTime:  req.StartTime,
		ReturnTime: req.ReturnTime,
		Reason:     req.Reason,
		Status:     model.PassStatusPending,
		StudentID:  studentID,
		TeacherID:  req.TeacherID,
		ExpiresAt:  calculateExpiration(req.Type, req.StartTime, req.ReturnTime),
	}

	if err := s.passes.Create(ctx, pass); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	qrCode, hash, err := s.qr.GenerateProof(pass.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	pass.QRCode = qrCode
	pass.QRCodeHash = hash

	if err := s.passes.Save(ctx, pass); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.GetLogger().Info("Pass created",
		zap.String("pass_id", pass.ID),
		zap.String("type", string(pass.Type)),
		zap.String("student_id", studentID),
		zap.String("teacher_id", req.TeacherID),
		zap.Time("expires_at", pass.ExpiresAt),
	)

	created, err := s.passes.GetByID(ctx, pass.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return created, nil
}

// Get returns one pass to a party of it: its student or its assigned
// teacher.
func (s *PassService) Get(ctx context.Context, id string, actor Identity) (*model.Pass, error) {
	pass, err := s.passes.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrPassNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if pass.StudentID != actor.ID && pass.TeacherID != actor.ID {
		return nil, apperrors.ErrNotPassParty
	}

	return reconcile(pass), nil
}

// ListForStudent returns the student's PENDING and APPROVED passes,
// newest first, each reconciled.
func (s *PassService) ListForStudent(ctx context.Context, studentID string) ([]model.Pass, error) {
	passes, err := s.passes.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	for i := range passes {
		reconcile(&passes[i])
	}
	return passes, nil
}

// ListForTeacher returns passes awaiting the teacher's decision.
func (s *PassService) ListForTeacher(ctx context.Context, teacherID string) ([]model.Pass, error) {
	passes, err := s.passes.ListForTeacher(ctx, teacherID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	for i := range passes {
		reconcile(&passes[i])
	}
	return passes, nil
}

// Approve records the one teacher decision on a PENDING pass. The whole
// read-check-write runs inside a transaction holding a write lock on the
// pass row, so of two concurrent deciders exactly one sees PENDING.
func (s *PassService) Approve(ctx context.Context, id string, req dto.ApprovePassRequest, teacher Identity) (*model.Pass, error) {
	if req.Status != model.PassStatusApproved && req.Status != model.PassStatusRejected {
		return nil, apperrors.ErrInvalidDecision
	}

	err := s.passes.Transaction(ctx, func(tx *repository.PassRepository) error {
		pass, err := tx.GetByIDForUpdate(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.ErrPassNotFound
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		if pass.TeacherID != teacher.ID {
			return apperrors.ErrNotPassTeacher
		}
		if pass.Status != model.PassStatusPending {
			return apperrors.ErrPassDecided
		}
		if time.Now().After(pass.StartTime) {
			return apperrors.ErrPassStarted
		}

		pass.Status = req.Status
		if req.Status == model.PassStatusRejected {
			pass.RejectReason = req.RejectReason
		}

		return tx.UpdateStatus(ctx, pass)
	})
	if err != nil {
		return nil, err
	}

	logger.GetLogger().Info("Pass decided",
		zap.String("pass_id", id),
		zap.String("decision", string(req.Status)),
		zap.String("teacher_id", teacher.ID),
	)

	decided, err := s.passes.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return reconcile(decided), nil
}

// Verify redeems a pass at the gate. Under the same row lock as Approve:
// a pass that is no longer APPROVED (including one that just expired) is
// reported invalid without mutation; a matching hash expires the pass so
// it cannot be redeemed twice.
func (s *PassService) Verify(ctx context.Context, id, presentedHash string) (dto.VerifyPassResponse, error) {
	var result dto.VerifyPassResponse

	err := s.passes.Transaction(ctx, func(tx *repository.PassRepository) error {
		pass, err := tx.GetByIDForUpdate(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.ErrPassNotFound
			}
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		if pass.Status == model.PassStatusApproved && time.Now().After(pass.ExpiresAt) {
			pass.Status = model.PassStatusExpired
			if err := tx.UpdateStatus(ctx, pass); err != nil {
				return apperrors.WrapError(apperrors.ErrInternal, err)
			}
			result = dto.VerifyPassResponse{IsValid: false, Status: model.PassStatusExpired}
			return nil
		}

		if pass.Status != model.PassStatusApproved {
			result = dto.VerifyPassResponse{IsValid: false, Status: pass.Status}
			return nil
		}

		if !s.qr.CompareHash(id, presentedHash) {
			result = dto.VerifyPassResponse{IsValid: false, Status: pass.Status}
			return nil
		}

		pass.Status = model.PassStatusExpired
		if err := tx.UpdateStatus(ctx, pass); err != nil {
			return apperrors.WrapError(apperrors.ErrInternal, err)
		}

		result = dto.VerifyPassResponse{IsValid: true, Status: model.PassStatusExpired}
		return nil
	})
	if err != nil {
		return dto.VerifyPassResponse{}, err
	}

	logger.GetLogger().Info("Pass verification",
		zap.String("pass_id", id),
		zap.Bool("is_valid", result.IsValid),
		zap.String("status", string(result.Status)),
	)

	return result, nil
}
