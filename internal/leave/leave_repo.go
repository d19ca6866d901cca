package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"markpedia-os/internal/tenant"

	"gorm.io/gorm"
)

// ErrStaleVersion is returned by UpdateWithVersion when the stored row no
// longer carries the version the caller loaded.
var ErrStaleVersion = errors.New("leave request version is stale")

// ReportFilter narrows the rows loaded for reporting. A nil bound is open.
type ReportFilter struct {
	From *time.Time
	To   *time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	List(ctx context.Context, companyID string, filter ListLeaveFilter) ([]LeaveRequest, int64, error)
	UpdateWithVersion(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, companyID, id string) error
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	LockEmployee(ctx context.Context, companyID, employeeID string) error
	FindActiveByEmployeeInRange(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) ([]LeaveRequest, error)
	FindForReport(ctx context.Context, companyID string, filter ReportFilter) ([]LeaveRequest, error)
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

// conn binds the gorm session to the caller's sql transaction when one is set.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	if l.Version == 0 {
		l.Version = 1
	}
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) List(ctx context.Context, companyID string, filter ListLeaveFilter) ([]LeaveRequest, int64, error) {
	db := r.conn(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID))

	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.DepartmentID != "" {
		db = db.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.LeaveType != "" {
		db = db.Where("leave_type = ?", filter.LeaveType)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.From != "" {
		db = db.Where("end_date >= ?", filter.From)
	}
	if filter.To != "" {
		db = db.Where("start_date <= ?", filter.To)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		db = db.Where("(reason ILIKE ? OR task_or_project ILIKE ? OR backup_person ILIKE ?)", like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []LeaveRequest
	err := db.
		Order("start_date DESC, created_at DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&leaves).Error
	return leaves, total, err
}

// UpdateWithVersion writes every column of l if the stored version still
// equals l.Version, then bumps l.Version.
func (r *repository) UpdateWithVersion(ctx context.Context, l *LeaveRequest) error {
	current := l.Version
	l.Version = current + 1

	res := r.conn(ctx).
		Model(l).
		Scopes(tenant.Scope(l.CompanyID.String())).
		Where("version = ?", current).
		Select("*").
		Omit("id", "company_id", "created_at", "created_by", "deleted_at").
		Updates(l)
	if res.Error != nil {
		l.Version = current
		return res.Error
	}
	if res.RowsAffected == 0 {
		l.Version = current
		return ErrStaleVersion
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&LeaveRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

// LockEmployee serialises leave writes of one employee until the surrounding
// transaction ends, so two concurrent submissions cannot both pass the
// overlap check.
func (r *repository) LockEmployee(ctx context.Context, companyID, employeeID string) error {
	return r.conn(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "leave:"+companyID+":"+employeeID).
		Error
}

func (r *repository) FindActiveByEmployeeInRange(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", ActiveStatuses).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Order("start_date ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindForReport(ctx context.Context, companyID string, filter ReportFilter) ([]LeaveRequest, error) {
	db := r.conn(ctx).Scopes(tenant.Scope(companyID))
	if filter.From != nil {
		db = db.Where("end_date >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("start_date <= ?", *filter.To)
	}

	var leaves []LeaveRequest
	err := db.Order("start_date ASC").Find(&leaves).Error
	return leaves, err
}
