package web

import (
	"propmgmt-backend/internal/listing"

	"github.com/gofiber/fiber/v2"
)

// ListData is the view model the list templates share. page is a
// *listing.Page of the entity.
func ListData(title, base string, p listing.Params, page any, bulkActions []string) fiber.Map {
	return fiber.Map{
		"Title":          title,
		"Base":           base,
		"Page":           page,
		"Params":         p,
		"Links":          listing.Links{Base: base, Params: p},
		"PerPageChoices": listing.PerPageChoices,
		"BulkActions":    bulkActions,
	}
}
