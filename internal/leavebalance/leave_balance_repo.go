package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	"markpedia-os/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStaleVersion is returned by Update when the row version no longer
// matches the one that was read.
var ErrStaleVersion = errors.New("leave balance version is stale")

//go:generate mockgen -source=leave_balance_repo.go -destination=mock/leave_balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployee(ctx context.Context, companyID, employeeID string) (*LeaveBalance, error)
	FindByEmployeeForUpdate(ctx context.Context, companyID, employeeID string) (*LeaveBalance, error)
	Create(ctx context.Context, b *LeaveBalance) error
	Update(ctx context.Context, b *LeaveBalance) error
	AppendEntry(ctx context.Context, e *LeaveBalanceEntry) error
	ListEntries(ctx context.Context, companyID, employeeID string, limit int) ([]LeaveBalanceEntry, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn returns a session bound to ctx that runs on the outer transaction
// when one is attached.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindByEmployeeForUpdate(ctx context.Context, companyID, employeeID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	if b.Version == 0 {
		b.Version = 1
	}
	return r.conn(ctx).Create(b).Error
}

func (r *repository) Update(ctx context.Context, b *LeaveBalance) error {
	res := r.conn(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", b.ID).
		Where("version = ?", b.Version).
		Updates(map[string]any{
			"annual":        b.Annual,
			"sick":          b.Sick,
			"compassionate": b.Compassionate,
			"paternity":     b.Paternity,
			"maternity":     b.Maternity,
			"study":         b.Study,
			"personal":      b.Personal,
			"version":       gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	b.Version++
	return nil
}

func (r *repository) AppendEntry(ctx context.Context, e *LeaveBalanceEntry) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) ListEntries(ctx context.Context, companyID, employeeID string, limit int) ([]LeaveBalanceEntry, error) {
	var entries []LeaveBalanceEntry
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
