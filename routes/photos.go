package routes

import (
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// GET /photos/*key — streams a blob back from the object store.
func (d *deps) getPhoto(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "Photo not found."})
		return
	}

	ct := mime.TypeByExtension(filepath.Ext(key))
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Header("Content-Type", ct)

	if err := d.photos.Download(c.Request.Context(), key, c.Writer); err != nil {
		log.Printf("serve photo %s: %v", key, err)
		c.JSON(errStatus(err), gin.H{"message": "Could not fetch photo."})
		return
	}
}
