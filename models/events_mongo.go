package models

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

type mongoEventRepo struct {
	col    *mongo.Collection
	photos PhotoStore
}

func NewMongoEventRepository(col *mongo.Collection, photos PhotoStore) EventRepository {
	return &mongoEventRepo{col: col, photos: photos}
}

// eventDoc mirrors the stored document. Date is kept raw because legacy
// records carry it as a string instead of a native datetime.
type eventDoc struct {
	ID          string            `bson:"id"`
	Name        string            `bson:"name"`
	Type        string            `bson:"type"`
	Date        bson.RawValue     `bson:"date"`
	Time        string            `bson:"time"`
	Location    AustralianAddress `bson:"location"`
	Description string            `bson:"description"`
	Photos      []string          `bson:"photos"`
	CreatedBy   string            `bson:"createdBy"`
	CreatedAt   time.Time         `bson:"createdAt"`
	UpdatedAt   time.Time         `bson:"updatedAt"`
	Attendees   []string          `bson:"attendees"`
}

func (d eventDoc) toEvent() Event {
	e := Event{
		ID:          d.ID,
		Name:        d.Name,
		Type:        d.Type,
		Date:        normalizeDate(d.Date),
		Time:        d.Time,
		Location:    d.Location,
		Description: d.Description,
		Photos:      d.Photos,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Attendees:   d.Attendees,
	}
	// Partially written records may miss timestamps; default rather than fail.
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now()
	}
	if e.Photos == nil {
		e.Photos = []string{}
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	return e
}

func normalizeDate(raw bson.RawValue) time.Time {
	switch raw.Type {
	case bson.TypeDateTime:
		return raw.Time()
	case bson.TypeString:
		s := raw.StringValue()
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// combineDateTime merges the form's separate date and time fields into
// one timezone-naive value (local, no zone conversion).
func combineDateTime(date, clock string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad time %q", ErrValidation, clock)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

// photoKey namespaces a blob under the uploading user and the upload
// instant. Two files sharing a name within the same millisecond collide;
// accepted, the form never produces that.
func photoKey(userID, filename string, at time.Time) string {
	return fmt.Sprintf("events/%s/%d-%s", userID, at.UnixMilli(), filename)
}

// uploadAll pushes every photo concurrently and waits for the lot; one
// failure fails the whole batch. Returned URLs keep the input order.
func (r *mongoEventRepo) uploadAll(ctx context.Context, userID string, photos []PhotoUpload) ([]string, error) {
	urls := make([]string, len(photos))
	at := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range photos {
		g.Go(func() error {
			url, err := r.photos.Upload(gctx, photoKey(userID, p.Name, at), p.Data)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *mongoEventRepo) Create(form EventFormData, userID string) (string, error) {
	when, err := combineDateTime(form.Date, form.Time)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Uploaded blobs are not rolled back if the insert below fails;
	// orphans are reclaimed out of band.
	urls, err := r.uploadAll(ctx, userID, form.Photos)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	e := Event{
		ID:          uuid.NewString(),
		Name:        form.Name,
		Type:        form.Type,
		Date:        when,
		Time:        form.Time,
		Location:    form.Location,
		Description: form.Description,
		Photos:      urls,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Attendees:   []string{},
	}
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return "", err
	}
	return e.ID, nil
}

func (r *mongoEventRepo) Update(id string, upd EventUpdate, existing Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Type != nil {
		set["type"] = *upd.Type
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Date != nil || upd.Time != nil {
		date := existing.Date.Format("2006-01-02")
		if upd.Date != nil {
			date = *upd.Date
		}
		clock := existing.Time
		if upd.Time != nil {
			clock = *upd.Time
		}
		when, err := combineDateTime(date, clock)
		if err != nil {
			return err
		}
		set["date"] = when
		set["time"] = clock
	}
	if len(upd.Photos) > 0 {
		urls, err := r.uploadAll(ctx, existing.CreatedBy, upd.Photos)
		if err != nil {
			return err
		}
		// Append only; this layer never drops a photo on update.
		set["photos"] = append(append([]string{}, existing.Photos...), urls...)
	}
	set["updatedAt"] = time.Now().UTC()

	res, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: event %s", ErrNotFound, id)
	}
	return nil
}

func (r *mongoEventRepo) Delete(id, userID string) error {
	ev, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if ev.CreatedBy != userID {
		return fmt.Errorf("%w: event %s belongs to another user", ErrUnauthorized, id)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Blob cleanup is best effort; the document delete is authoritative
	// and runs regardless of individual blob failures.
	for _, url := range ev.Photos {
		if err := r.photos.Delete(ctx, url); err != nil {
			log.Printf("delete event %s: removing photo %s: %v", id, url, err)
		}
	}

	_, err = r.col.DeleteOne(ctx, bson.M{"id": id})
	return err
}

// ToggleAttendance adds the user's RSVP if absent, removes it if present.
// Both branches are single atomic document updates ($pull / $addToSet),
// so rapid toggles cannot double-add and uniqueness is guaranteed by the
// operator rather than by a read-modify-write.
func (r *mongoEventRepo) ToggleAttendance(id, userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"id": id, "attendees": userID},
		bson.M{"$pull": bson.M{"attendees": userID}, "$set": bson.M{"updatedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = r.col.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$addToSet": bson.M{"attendees": userID}, "$set": bson.M{"updatedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: event %s", ErrNotFound, id)
	}
	return nil
}

func (r *mongoEventRepo) GetByID(id string) (Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var d eventDoc
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Event{}, fmt.Errorf("%w: event %s", ErrNotFound, id)
		}
		return Event{}, err
	}
	return d.toEvent(), nil
}

func (r *mongoEventRepo) GetAll() ([]Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Event{}
	for cur.Next(ctx) {
		var d eventDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toEvent())
	}
	return out, cur.Err()
}
