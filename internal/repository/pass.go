package repository

import (
	"context"

	"github.com/sunrinpass/server/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PassRepository struct {
	db *gorm.DB
}

func NewPassRepository(db *gorm.DB) *PassRepository {
	return &PassRepository{db: db}
}

// Transaction runs fn against a repository bound to one transaction.
// Any error rolls back every partial change.
func (r *PassRepository) Transaction(ctx context.Context, fn func(tx *PassRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PassRepository{db: tx})
	})
}

// forUpdate adds a pessimistic write lock on the selected row. SQLite
// (used by tests) has no FOR UPDATE; its single-writer transactions
// already serialize mutators.
func (r *PassRepository) forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (r *PassRepository) Create(ctx context.Context, pass *model.Pass) error {
	return r.db.WithContext(ctx).Create(pass).Error
}

func (r *PassRepository) Save(ctx context.Context, pass *model.Pass) error {
	return r.db.WithContext(ctx).Save(pass).Error
}

// GetByID loads a pass with its student and teacher.
func (r *PassRepository) GetByID(ctx context.Context, id string) (*model.Pass, error) {
	var pass model.Pass
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Teacher").
		Where("id = ?", id).
		First(&pass).Error
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

// GetByIDForUpdate loads a pass holding a row-level write lock until the
// surrounding transaction commits or rolls back. Call only inside
// Transaction.
func (r *PassRepository) GetByIDForUpdate(ctx context.Context, id string) (*model.Pass, error) {
	var pass model.Pass
	err := r.forUpdate(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&pass).Error
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

// UpdateStatus persists a status change (and reject reason) for a
// locked row.
func (r *PassRepository) UpdateStatus(ctx context.Context, pass *model.Pass) error {
	return r.db.WithContext(ctx).
		Model(&model.Pass{}).
		Where("id = ?", pass.ID).
		Updates(map[string]any{
			"status":        pass.Status,
			"reject_reason": pass.RejectReason,
		}).Error
}

// ListForStudent returns the student's open passes, newest first.
func (r *PassRepository) ListForStudent(ctx context.Context, studentID string) ([]model.Pass, error) {
	var passes []model.Pass
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Teacher").
		Where("student_id = ? AND status IN ?", studentID,
			[]model.PassStatus{model.PassStatusPending, model.PassStatusApproved}).
		Order("created_at DESC").
		Find(&passes).Error
	return passes, err
}

// ListForTeacher returns passes awaiting the teacher's decision, newest
// first.
func (r *PassRepository) ListForTeacher(ctx context.Context, teacherID string) ([]model.Pass, error) {
	var passes []model.Pass
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Teacher").
		Where("teacher_id = ? AND status = ?", teacherID, model.PassStatusPending).
		Order("created_at DESC").
		Find(&passes).Error
	return passes, err
}
