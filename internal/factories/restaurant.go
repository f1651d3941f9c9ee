package factories

import (
	"fmt"

	"github.com/chrisdamba/kioskorder/internal/models"
)

// RestaurantFactory generates the venue-level data served to a kiosk:
// dining tables and branding.
type RestaurantFactory struct {
	Name string
}

// CreateTables numbers tables 01..n with leading zeros.
func (rf *RestaurantFactory) CreateTables(n int) []models.Table {
	tables := make([]models.Table, 0, n)
	for i := 1; i <= n; i++ {
		no := fmt.Sprintf("%02d", i)
		tables = append(tables, models.Table{
			ID:      "tbl-" + no,
			TableNo: no,
			Title:   "Table " + no,
		})
	}
	return tables
}

func (rf *RestaurantFactory) CreateBranding() models.Branding {
	branding := models.DefaultBranding()
	if rf.Name != "" {
		branding.RestaurantName = rf.Name
	}
	return branding
}
