package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"gorm.io/gorm"
)

// earthRadiusKm is the mean Earth radius used by the haversine distance
const earthRadiusKm = 6371

type SearchStore interface {
	SearchNearby(ctx context.Context, q NearbyQuery) ([]NearbyRow, error)
	CountNearby(ctx context.Context, q NearbyQuery) (int64, error)
}

// NearbyQuery selects hospitals within RadiusKm of a point
type NearbyQuery struct {
	Latitude   float64
	Longitude  float64
	RadiusKm   float64
	Department string
	Page       int
	Limit      int
}

// NearbyRow is one hospital with its distance from the query point
type NearbyRow struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Logo            string     `json:"logo"`
	Category        string     `json:"category"`
	Address         string     `json:"address"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	Website         string     `json:"website"`
	Beds            int        `json:"beds"`
	EstablishedDate *time.Time `json:"established_date"`
	Latitude        float64    `json:"latitude"`
	Longitude       float64    `json:"longitude"`
	Status          string     `json:"status"`
	Distance        float64    `json:"distance"`
	DepartmentNames *string    `json:"-"`
}

type SearchRepository struct {
	db *gorm.DB
}

func NewSearchRepo(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

func (r *SearchRepository) SearchNearby(ctx context.Context, q NearbyQuery) ([]NearbyRow, error) {
	query, args, err := BuildNearbyQuery(q)
	if err != nil {
		return nil, fmt.Errorf("failed to build nearby query: %w", err)
	}
	var rows []NearbyRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search nearby hospitals: %w", err)
	}
	return rows, nil
}

func (r *SearchRepository) CountNearby(ctx context.Context, q NearbyQuery) (int64, error) {
	query, args, err := BuildNearbyCountQuery(q)
	if err != nil {
		return 0, fmt.Errorf("failed to build nearby count: %w", err)
	}
	var total int64
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count nearby hospitals: %w", err)
	}
	return total, nil
}

// distanceExpr is the great-circle distance in km between the query point and h.
// Identical coordinates short-circuit to 0 and the ACOS argument is clamped, so rounding
// never pushes an exact match outside a zero radius.
func distanceExpr(lat, lon float64) exp.LiteralExpression {
	return goqu.L(
		"CASE WHEN h.latitude = ? AND h.longitude = ? THEN 0 ELSE ? * ACOS(LEAST(1, GREATEST(-1, "+
			"COS(RADIANS(?)) * COS(RADIANS(h.latitude)) * COS(RADIANS(h.longitude) - RADIANS(?)) + "+
			"SIN(RADIANS(?)) * SIN(RADIANS(h.latitude))))) END",
		lat, lon, earthRadiusKm, lat, lon, lat,
	)
}

// nearbyBase is the grouped, filtered hospital set shared by the page and count queries
func nearbyBase(q NearbyQuery) *goqu.SelectDataset {
	ds := dialect.From(goqu.T("hospitals").As("h")).
		Select(
			goqu.I("h.id"),
			goqu.I("h.name"),
			goqu.I("h.logo"),
			goqu.I("h.category"),
			goqu.I("h.address"),
			goqu.I("h.phone"),
			goqu.I("h.email"),
			goqu.I("h.website"),
			goqu.I("h.beds"),
			goqu.I("h.established_date"),
			goqu.I("h.latitude"),
			goqu.I("h.longitude"),
			goqu.I("h.status"),
			distanceExpr(q.Latitude, q.Longitude).As("distance"),
			goqu.L("GROUP_CONCAT(DISTINCT hd.name ORDER BY hd.name SEPARATOR ',')").As("department_names"),
		).
		LeftJoin(goqu.T("hospital_departments").As("hd"), goqu.On(goqu.I("hd.hospital_id").Eq(goqu.I("h.id")))).
		GroupBy(goqu.I("h.id")).
		Having(goqu.C("distance").Lte(q.RadiusKm))

	if q.Department != "" {
		ds = ds.Having(goqu.L("department_names LIKE BINARY ?", "%"+q.Department+"%"))
	}
	return ds
}

// BuildNearbyQuery renders one page ordered by distance, ties broken by id
func BuildNearbyQuery(q NearbyQuery) (string, []interface{}, error) {
	ds := nearbyBase(q).
		Order(goqu.C("distance").Asc(), goqu.I("h.id").Asc()).
		Limit(uint(q.Limit)).
		Offset(offsetFor(q.Page, q.Limit))
	return toSQL(ds)
}

// BuildNearbyCountQuery counts the same filtered set without pagination
func BuildNearbyCountQuery(q NearbyQuery) (string, []interface{}, error) {
	return toSQL(dialect.From(nearbyBase(q).As("nearby")).Select(goqu.COUNT(goqu.Star())))
}
