package repository

import (
	"context"
	"fmt"
	"strings"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/pkg/apperrors"

	"github.com/doug-martin/goqu/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DoctorStore interface {
	GetDoctorByID(ctx context.Context, id uint) (*models.Doctor, error)
	LockDoctor(ctx context.Context, id uint) (*models.Doctor, error)
	FindOrCreateDoctor(ctx context.Context, doctor *models.Doctor) (*models.Doctor, error)
	MapToHospital(ctx context.Context, doctorID, hospitalID uint, departmentID *uint) error
	AddDoctorDepartment(ctx context.Context, doctorID, departmentID uint) error
	AddDoctorImage(ctx context.Context, image *models.DoctorImage) error
	RemoveFromHospital(ctx context.Context, doctorID, hospitalID uint) error
	GetMapping(ctx context.Context, doctorID, hospitalID uint) (*models.DoctorHospital, error)
	ListHospitalDoctors(ctx context.Context, hospitalID uint) ([]HospitalDoctorRow, error)
	ListDoctorsForHospital(ctx context.Context, filter DoctorFilter) ([]DoctorListRow, int64, error)
}

// HospitalDoctorRow is a doctor together with its per-hospital department reference
type HospitalDoctorRow struct {
	DoctorID             uint   `json:"id"`
	Name                 string `json:"name"`
	Specialization       string `json:"specialization"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	ImageURL             string `json:"image_url"`
	HospitalDepartmentID *uint  `json:"hospital_department_id"`
}

// DoctorFilter narrows ListDoctorsForHospital. Zero values mean "no filter".
type DoctorFilter struct {
	HospitalID   uint
	DepartmentID uint
	Name         string
	Page         int
	Limit        int
}

// DoctorListRow collapses every department mapping of a doctor into one row.
// DepartmentName is the alphabetically first department at the hospital.
type DoctorListRow struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	ImageURL        string  `json:"image_url"`
	DepartmentName  *string `json:"department_name"`
	DepartmentNames *string `json:"-"`
}

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepo(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) GetDoctorByID(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, id).Error; err != nil {
		return nil, notFound(err, "Doctor not found", "get doctor")
	}
	return &doctor, nil
}

// LockDoctor reads the doctor row with SELECT ... FOR UPDATE. Inside a transaction this
// serializes every booking for the doctor until commit.
func (r *DoctorRepository) LockDoctor(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&doctor, id).Error
	if err != nil {
		return nil, notFound(err, "Doctor not found", "lock doctor")
	}
	return &doctor, nil
}

// FindOrCreateDoctor matches an existing doctor by email
func (r *DoctorRepository) FindOrCreateDoctor(ctx context.Context, doctor *models.Doctor) (*models.Doctor, error) {
	var existing models.Doctor
	err := r.db.WithContext(ctx).
		Where(models.Doctor{Email: doctor.Email}).
		Attrs(models.Doctor{
			UserID:         doctor.UserID,
			Name:           doctor.Name,
			Specialization: doctor.Specialization,
			Phone:          doctor.Phone,
			ImageURL:       doctor.ImageURL,
		}).
		FirstOrCreate(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find or create doctor: %w", err)
	}
	return &existing, nil
}

// MapToHospital creates the doctor-hospital mapping or updates its department
func (r *DoctorRepository) MapToHospital(ctx context.Context, doctorID, hospitalID uint, departmentID *uint) error {
	mapping := models.DoctorHospital{DoctorID: doctorID, HospitalID: hospitalID, HospitalDepartmentID: departmentID}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoUpdates: clause.AssignmentColumns([]string{"hospital_department_id"}),
	}).Create(&mapping).Error
	if err != nil {
		return fmt.Errorf("failed to map doctor to hospital: %w", err)
	}
	return nil
}

func (r *DoctorRepository) AddDoctorDepartment(ctx context.Context, doctorID, departmentID uint) error {
	link := &models.DoctorDepartment{DoctorID: doctorID, DepartmentID: departmentID}
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND department_id = ?", doctorID, departmentID).
		FirstOrCreate(link).Error
	if err != nil {
		return fmt.Errorf("failed to map doctor to department: %w", err)
	}
	return nil
}

func (r *DoctorRepository) AddDoctorImage(ctx context.Context, image *models.DoctorImage) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to insert doctor image: %w", err)
	}
	return nil
}

// RemoveFromHospital deletes the mapping plus the doctor's schedules and department links
// at that hospital. The doctor record itself stays.
func (r *DoctorRepository) RemoveFromHospital(ctx context.Context, doctorID, hospitalID uint) error {
	db := r.db.WithContext(ctx)
	result := db.Where("doctor_id = ? AND hospital_id = ?", doctorID, hospitalID).Delete(&models.DoctorHospital{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove doctor from hospital: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Doctor not found in this hospital")
	}

	if err := db.Where("doctor_id = ? AND hospital_id = ?", doctorID, hospitalID).
		Delete(&models.DoctorSchedule{}).Error; err != nil {
		return fmt.Errorf("failed to remove doctor schedules: %w", err)
	}
	if err := db.Where("doctor_id = ? AND department_id IN (?)", doctorID,
		db.Model(&models.Department{}).Select("id").Where("hospital_id = ?", hospitalID),
	).Delete(&models.DoctorDepartment{}).Error; err != nil {
		return fmt.Errorf("failed to remove doctor departments: %w", err)
	}
	return nil
}

func (r *DoctorRepository) GetMapping(ctx context.Context, doctorID, hospitalID uint) (*models.DoctorHospital, error) {
	var mapping models.DoctorHospital
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND hospital_id = ?", doctorID, hospitalID).
		First(&mapping).Error
	if err != nil {
		return nil, notFound(err, "Doctor not found in this hospital", "get doctor mapping")
	}
	return &mapping, nil
}

// ListHospitalDoctors returns all doctors mapped to the hospital ordered by name
func (r *DoctorRepository) ListHospitalDoctors(ctx context.Context, hospitalID uint) ([]HospitalDoctorRow, error) {
	var rows []HospitalDoctorRow
	err := r.db.WithContext(ctx).
		Table("doctor_hospitals AS dh").
		Select("d.id AS doctor_id, d.name, d.specialization, d.phone, d.email, d.image_url, dh.hospital_department_id").
		Joins("INNER JOIN doctors d ON d.id = dh.doctor_id").
		Where("dh.hospital_id = ?", hospitalID).
		Order("d.name ASC, d.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list hospital doctors: %w", err)
	}
	return rows, nil
}

// ListDoctorsForHospital runs the paginated listing and its count with the same predicates
func (r *DoctorRepository) ListDoctorsForHospital(ctx context.Context, filter DoctorFilter) ([]DoctorListRow, int64, error) {
	listSQL, listArgs, err := BuildDoctorListQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build doctor query: %w", err)
	}
	countSQL, countArgs, err := BuildDoctorCountQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build doctor count query: %w", err)
	}

	var rows []DoctorListRow
	if err := r.db.WithContext(ctx).Raw(listSQL, listArgs...).Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	var total int64
	if err := r.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}
	return rows, total, nil
}

func doctorListBase(filter DoctorFilter) *goqu.SelectDataset {
	ds := dialect.From(goqu.T("doctors").As("d")).
		InnerJoin(goqu.T("doctor_hospitals").As("dh"), goqu.On(goqu.I("dh.doctor_id").Eq(goqu.I("d.id")))).
		LeftJoin(goqu.T("doctor_departments").As("dd"), goqu.On(goqu.I("dd.doctor_id").Eq(goqu.I("d.id")))).
		LeftJoin(goqu.T("hospital_departments").As("hd"), goqu.On(
			goqu.I("hd.id").Eq(goqu.I("dd.department_id")),
			goqu.I("hd.hospital_id").Eq(goqu.I("dh.hospital_id")),
		)).
		Where(goqu.I("dh.hospital_id").Eq(filter.HospitalID))

	if filter.DepartmentID != 0 {
		ds = ds.Where(goqu.I("hd.id").Eq(filter.DepartmentID))
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		ds = ds.Where(goqu.L("LOWER(d.name)").Like("%" + strings.ToLower(name) + "%"))
	}
	return ds
}

// BuildDoctorListQuery renders the paginated doctor listing for a hospital
func BuildDoctorListQuery(filter DoctorFilter) (string, []interface{}, error) {
	ds := doctorListBase(filter).
		Select(
			goqu.I("d.id"),
			goqu.I("d.name"),
			goqu.I("d.specialization"),
			goqu.I("d.phone"),
			goqu.I("d.email"),
			goqu.I("d.image_url"),
			goqu.MIN("hd.name").As("department_name"),
			goqu.L("GROUP_CONCAT(DISTINCT hd.name ORDER BY hd.name SEPARATOR ',')").As("department_names"),
		).
		GroupBy(goqu.I("d.id")).
		Order(goqu.I("d.name").Asc(), goqu.I("d.id").Asc()).
		Limit(uint(filter.Limit)).
		Offset(offsetFor(filter.Page, filter.Limit))
	return toSQL(ds)
}

// BuildDoctorCountQuery renders the total for BuildDoctorListQuery
func BuildDoctorCountQuery(filter DoctorFilter) (string, []interface{}, error) {
	return toSQL(doctorListBase(filter).Select(goqu.COUNT(goqu.DISTINCT("d.id"))))
}
