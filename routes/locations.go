package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /locations/search?q=term
func (d *deps) searchLocations(c *gin.Context) {
	results, err := d.locations.Search(c.Query("q"))
	if err != nil {
		log.Printf("location search %q: %v", c.Query("q"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not search locations."})
		return
	}
	c.JSON(http.StatusOK, results)
}
