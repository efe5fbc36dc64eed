package routes

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"motormeet/models"
)

// GET /events
func (d *deps) getEvents(c *gin.Context) {
	events, err := d.events.GetAll()
	if err != nil {
		log.Printf("list events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch events. Try again later."})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GET /events/:id
func (d *deps) getEvent(c *gin.Context) {
	event, err := d.events.GetByID(c.Param("id"))
	if err != nil {
		log.Printf("get event %s: %v", c.Param("id"), err)
		c.JSON(errStatus(err), gin.H{"message": "Could not fetch event."})
		return
	}
	c.JSON(http.StatusOK, event)
}

// POST /events (multipart form)
func (d *deps) createEvent(c *gin.Context) {
	fd := models.EventFormData{
		Name:        c.PostForm("name"),
		Type:        c.PostForm("type"),
		Date:        c.PostForm("date"),
		Time:        c.PostForm("time"),
		Description: c.PostForm("description"),
		Location: models.AustralianAddress{
			Street:    c.PostForm("street"),
			Suburb:    c.PostForm("suburb"),
			State:     c.PostForm("state"),
			Postcode:  c.PostForm("postcode"),
			VenueName: c.PostForm("venueName"),
		},
	}
	if fd.Name == "" || !models.IsValidEventType(fd.Type) || !models.IsValidState(fd.Location.State) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	photos, closers := formPhotos(c)
	defer closeAll(closers)
	fd.Photos = photos

	id, err := d.events.Create(fd, currentUserID(c))
	if err != nil {
		log.Printf("create event: %v", err)
		c.JSON(errStatus(err), gin.H{"message": "Could not create event."})
		return
	}

	if d.inv != nil {
		d.inv.PurgeEventsList(c)
		d.inv.PurgeEventItem(c, id)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "event created!", "id": id})
}

// PUT /events/:id (multipart form, partial)
func (d *deps) updateEvent(c *gin.Context) {
	id := c.Param("id")

	existing, err := d.events.GetByID(id)
	if err != nil {
		c.JSON(errStatus(err), gin.H{"message": "Could not fetch the event."})
		return
	}
	// Ownership is enforced here; the repository's Update does not
	// re-check it.
	if existing.CreatedBy != currentUserID(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized to update event."})
		return
	}

	var upd models.EventUpdate
	if v, ok := c.GetPostForm("name"); ok {
		upd.Name = &v
	}
	if v, ok := c.GetPostForm("type"); ok {
		if !models.IsValidEventType(v) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
			return
		}
		upd.Type = &v
	}
	if v, ok := c.GetPostForm("date"); ok {
		upd.Date = &v
	}
	if v, ok := c.GetPostForm("time"); ok {
		upd.Time = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		upd.Description = &v
	}
	if loc, changed := formLocation(c, existing.Location); changed {
		upd.Location = &loc
	}

	photos, closers := formPhotos(c)
	defer closeAll(closers)
	upd.Photos = photos

	if err := d.events.Update(id, upd, existing); err != nil {
		log.Printf("update event %s: %v", id, err)
		c.JSON(errStatus(err), gin.H{"message": "Could not update event."})
		return
	}

	if d.inv != nil {
		d.inv.PurgeEventsList(c)
		d.inv.PurgeEventItem(c, id)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully!"})
}

// DELETE /events/:id
func (d *deps) deleteEvent(c *gin.Context) {
	id := c.Param("id")

	if err := d.events.Delete(id, currentUserID(c)); err != nil {
		log.Printf("delete event %s: %v", id, err)
		c.JSON(errStatus(err), gin.H{"message": "Could not delete the event."})
		return
	}

	if d.inv != nil {
		d.inv.PurgeEventsList(c)
		d.inv.PurgeEventItem(c, id)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully!"})
}

// POST /events/:id/attend
func (d *deps) toggleAttendance(c *gin.Context) {
	id := c.Param("id")

	if err := d.events.ToggleAttendance(id, currentUserID(c)); err != nil {
		log.Printf("toggle attendance %s: %v", id, err)
		c.JSON(errStatus(err), gin.H{"message": "Could not update attendance."})
		return
	}

	if d.inv != nil {
		d.inv.PurgeEventsList(c)
		d.inv.PurgeEventItem(c, id)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance updated!"})
}

// formPhotos pulls the uploaded files out of a multipart form. A
// non-multipart request simply has no photos.
func formPhotos(c *gin.Context) ([]models.PhotoUpload, []io.Closer) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	var uploads []models.PhotoUpload
	var closers []io.Closer
	for _, fh := range form.File["photos"] {
		f, err := fh.Open()
		if err != nil {
			log.Printf("opening upload %s: %v", fh.Filename, err)
			continue
		}
		uploads = append(uploads, models.PhotoUpload{Name: fh.Filename, Data: f})
		closers = append(closers, f)
	}
	return uploads, closers
}

func closeAll(closers []io.Closer) {
	for _, cl := range closers {
		_ = cl.Close()
	}
}

// formLocation overlays supplied address fields on the existing ones.
func formLocation(c *gin.Context, base models.AustralianAddress) (models.AustralianAddress, bool) {
	changed := false
	if v, ok := c.GetPostForm("street"); ok {
		base.Street = v
		changed = true
	}
	if v, ok := c.GetPostForm("suburb"); ok {
		base.Suburb = v
		changed = true
	}
	if v, ok := c.GetPostForm("state"); ok {
		base.State = v
		changed = true
	}
	if v, ok := c.GetPostForm("postcode"); ok {
		base.Postcode = v
		changed = true
	}
	if v, ok := c.GetPostForm("venueName"); ok {
		base.VenueName = v
		changed = true
	}
	return base, changed
}
