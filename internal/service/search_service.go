package service

import (
	"context"

	"hospital-booking-backend/internal/models"
	"hospital-booking-backend/internal/repository"
	"hospital-booking-backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
)

const defaultRadiusKm = 10

type ImageView struct {
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

type NearbyInput struct {
	Latitude   *float64
	Longitude  *float64
	RadiusKm   *float64
	Department string
	Page       int
	Limit      int
}

type NearbyHospital struct {
	repository.NearbyRow
	Images      []ImageView `json:"images"`
	Departments []string    `json:"departments"`
	IsFavorite  *bool       `json:"is_favorite,omitempty"`
}

type NearbyResult struct {
	Page      int              `json:"page"`
	Limit     int              `json:"limit"`
	Total     int64            `json:"total"`
	Hospitals []NearbyHospital `json:"hospitals"`
}

type DoctorSummary struct {
	repository.HospitalDoctorRow
	IsFavorite *bool `json:"is_favorite,omitempty"`
}

// DepartmentGroup lists the doctors mapped to one department. DepartmentID is nil for
// doctors without a department at this hospital.
type DepartmentGroup struct {
	DepartmentID     *uint           `json:"department_id"`
	Name             string          `json:"name"`
	HeadOfDepartment string          `json:"head_of_department"`
	ContactNumber    string          `json:"contact_number"`
	Email            string          `json:"email"`
	Doctors          []DoctorSummary `json:"doctors"`
}

type HospitalDetails struct {
	*models.Hospital
	Images      []ImageView       `json:"images"`
	Departments []DepartmentGroup `json:"departments"`
	IsFavorite  *bool             `json:"is_favorite,omitempty"`
}

// SearchService implements proximity search and the public hospital page
type SearchService struct {
	search      repository.SearchStore
	hospitals   repository.HospitalStore
	departments repository.DepartmentStore
	doctors     repository.DoctorStore
	favorites   repository.FavoriteStore
}

func NewSearchService(
	search repository.SearchStore,
	hospitals repository.HospitalStore,
	departments repository.DepartmentStore,
	doctors repository.DoctorStore,
	favorites repository.FavoriteStore,
) *SearchService {
	return &SearchService{
		search:      search,
		hospitals:   hospitals,
		departments: departments,
		doctors:     doctors,
		favorites:   favorites,
	}
}

// SearchNearbyHospitals returns one page of hospitals within the radius, nearest first.
// The page and the total come from two queries; concurrent writes between them are not guarded.
func (s *SearchService) SearchNearbyHospitals(ctx context.Context, in NearbyInput, actor *Actor) (*NearbyResult, error) {
	if in.Latitude == nil || in.Longitude == nil {
		return nil, apperrors.NewValidationError("latitude and longitude are required")
	}
	if *in.Latitude < -90 || *in.Latitude > 90 || *in.Longitude < -180 || *in.Longitude > 180 {
		return nil, apperrors.NewValidationError("latitude or longitude out of range")
	}
	radius := float64(defaultRadiusKm)
	if in.RadiusKm != nil {
		radius = *in.RadiusKm
	}
	if radius < 0 {
		return nil, apperrors.NewValidationError("radius must not be negative")
	}

	q := repository.NearbyQuery{
		Latitude:   *in.Latitude,
		Longitude:  *in.Longitude,
		RadiusKm:   radius,
		Department: in.Department,
		Page:       in.Page,
		Limit:      in.Limit,
	}

	var (
		rows  []repository.NearbyRow
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.search.SearchNearby(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.search.CountNearby(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	images, departments, favorites, err := s.enrich(ctx, ids, actor)
	if err != nil {
		return nil, err
	}

	hospitals := make([]NearbyHospital, 0, len(rows))
	for _, row := range rows {
		h := NearbyHospital{
			NearbyRow:   row,
			Images:      images[row.ID],
			Departments: departments[row.ID],
		}
		if h.Images == nil {
			h.Images = []ImageView{}
		}
		if h.Departments == nil {
			h.Departments = []string{}
		}
		if favorites != nil {
			fav := favorites[row.ID]
			h.IsFavorite = &fav
		}
		hospitals = append(hospitals, h)
	}

	return &NearbyResult{Page: in.Page, Limit: in.Limit, Total: total, Hospitals: hospitals}, nil
}

// enrich loads images, department names and, for known users, favorite flags for a page
func (s *SearchService) enrich(ctx context.Context, ids []uint, actor *Actor) (map[uint][]ImageView, map[uint][]string, map[uint]bool, error) {
	images := make(map[uint][]ImageView)
	departments := make(map[uint][]string)
	var favorites map[uint]bool
	if len(ids) == 0 {
		if actor != nil {
			favorites = map[uint]bool{}
		}
		return images, departments, favorites, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.hospitals.ListImages(gctx, ids)
		if err != nil {
			return err
		}
		for _, img := range rows {
			images[img.HospitalID] = append(images[img.HospitalID], ImageView{ImageURL: img.ImageURL, Description: img.Description})
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.departments.ListDepartments(gctx, ids)
		if err != nil {
			return err
		}
		for _, d := range rows {
			departments[d.HospitalID] = append(departments[d.HospitalID], d.Name)
		}
		return nil
	})
	if actor != nil {
		g.Go(func() error {
			var err error
			favorites, err = s.favorites.FavoriteHospitalIDs(gctx, actor.UserID, ids)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return images, departments, favorites, nil
}

// GetHospitalDetails returns the hospital with its images and departments, each department
// carrying the doctors mapped to it at this hospital
func (s *SearchService) GetHospitalDetails(ctx context.Context, hospitalID uint, actor *Actor) (*HospitalDetails, error) {
	hospital, err := s.hospitals.GetHospitalByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	var (
		images      []models.HospitalImage
		departments []models.Department
		doctors     []repository.HospitalDoctorRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		images, err = s.hospitals.ListImages(gctx, []uint{hospitalID})
		return err
	})
	g.Go(func() error {
		var err error
		departments, err = s.departments.ListDepartments(gctx, []uint{hospitalID})
		return err
	})
	g.Go(func() error {
		var err error
		doctors, err = s.doctors.ListHospitalDoctors(gctx, hospitalID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	details := &HospitalDetails{
		Hospital:    hospital,
		Images:      make([]ImageView, 0, len(images)),
		Departments: []DepartmentGroup{},
	}
	for _, img := range images {
		details.Images = append(details.Images, ImageView{ImageURL: img.ImageURL, Description: img.Description})
	}

	var doctorFavorites map[uint]bool
	if actor != nil {
		hospitalFavorites, err := s.favorites.FavoriteHospitalIDs(ctx, actor.UserID, []uint{hospitalID})
		if err != nil {
			return nil, err
		}
		fav := hospitalFavorites[hospitalID]
		details.IsFavorite = &fav

		doctorIDs := make([]uint, len(doctors))
		for i, d := range doctors {
			doctorIDs[i] = d.DoctorID
		}
		doctorFavorites, err = s.favorites.FavoriteDoctorIDs(ctx, actor.UserID, hospitalID, doctorIDs)
		if err != nil {
			return nil, err
		}
	}

	details.Departments = groupDoctorsByDepartment(departments, doctors, doctorFavorites)
	return details, nil
}

// groupDoctorsByDepartment keeps department order and appends one trailing group for doctors
// whose department is missing or belongs elsewhere
func groupDoctorsByDepartment(departments []models.Department, doctors []repository.HospitalDoctorRow, favorites map[uint]bool) []DepartmentGroup {
	groups := make([]DepartmentGroup, 0, len(departments)+1)
	index := make(map[uint]int, len(departments))
	for _, d := range departments {
		id := d.ID
		index[d.ID] = len(groups)
		groups = append(groups, DepartmentGroup{
			DepartmentID:     &id,
			Name:             d.Name,
			HeadOfDepartment: d.HeadOfDepartment,
			ContactNumber:    d.ContactNumber,
			Email:            d.Email,
			Doctors:          []DoctorSummary{},
		})
	}

	var unassigned []DoctorSummary
	for _, doc := range doctors {
		summary := DoctorSummary{HospitalDoctorRow: doc}
		if favorites != nil {
			fav := favorites[doc.DoctorID]
			summary.IsFavorite = &fav
		}
		if doc.HospitalDepartmentID != nil {
			if i, ok := index[*doc.HospitalDepartmentID]; ok {
				groups[i].Doctors = append(groups[i].Doctors, summary)
				continue
			}
		}
		unassigned = append(unassigned, summary)
	}
	if len(unassigned) > 0 {
		groups = append(groups, DepartmentGroup{Doctors: unassigned})
	}
	return groups
}
