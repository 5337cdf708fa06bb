package postgres

import (
	"gorm.io/gorm"

	"github.com/CampusHub-F25/event-service/internal/repositories"
)

// applyEventFilters applies the common event filter set to a query.
func applyEventFilters(query *gorm.DB, filters repositories.EventFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("events.status = ?", *filters.Status)
	}
	if filters.OrganizerID != nil {
		query = query.Where("events.organizer_id = ?", *filters.OrganizerID)
	}
	if filters.CategoryID != nil {
		query = query.
			Joins("JOIN event_categories ON event_categories.event_id = events.id").
			Where("event_categories.category_id = ?", *filters.CategoryID)
	}
	if filters.DateFrom != nil {
		query = query.Where("events.start_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("events.start_date <= ?", *filters.DateTo)
	}
	if filters.Highlighted != nil {
		query = query.Where("events.is_highlighted = ?", *filters.Highlighted)
	}
	return query
}

// applyPaginationAndSort applies pagination and sorting. Sort columns are
// whitelisted to keep user input out of the ORDER BY clause.
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	allowedSortColumns := map[string]bool{
		"start_date": true,
		"created_at": true,
		"updated_at": true,
		"title":      true,
		"id":         true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "start_date"
	}

	if sortOrder == "desc" || sortOrder == "DESC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
