package repository

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
)

// dialect renders MySQL SQL with ? placeholders so gorm can execute it through Raw.
var dialect = goqu.Dialect("mysql")

// toSQL renders a prepared statement: every predicate value becomes a bound parameter in the
// order it appears in the SQL text.
func toSQL(ds *goqu.SelectDataset) (string, []interface{}, error) {
	return ds.Prepared(true).ToSQL()
}

func offsetFor(page, limit int) uint {
	if page < 1 {
		page = 1
	}
	return uint((page - 1) * limit)
}
