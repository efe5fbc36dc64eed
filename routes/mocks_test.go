package routes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"motormeet/models"
)

type mockUserRepo struct {
	users map[string]models.User // keyed by email
}

func (m *mockUserRepo) Create(u *models.User) error {
	if _, ok := m.users[u.Email]; ok {
		return errors.New("dup")
	}
	u.ID = int64(len(m.users) + 1)
	m.users[u.Email] = *u
	return nil
}

func (m *mockUserRepo) ValidateCredentials(email, plain string) (models.User, error) {
	u, ok := m.users[email]
	if !ok || u.Password != plain {
		return models.User{}, errors.New("bad credentials")
	}
	return u, nil
}

func (m *mockUserRepo) GetByID(id int64) (models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, errors.New("not found")
}

// mockEventRepo mirrors the real repository's contract closely enough
// for handler tests: same error taxonomy, same toggle and append rules.
type mockEventRepo struct {
	items map[string]models.Event
}

func (m *mockEventRepo) Create(form models.EventFormData, userID string) (string, error) {
	if _, err := time.Parse("2006-01-02", form.Date); err != nil {
		return "", fmt.Errorf("%w: bad date %q", models.ErrValidation, form.Date)
	}
	if _, err := time.Parse("15:04", form.Time); err != nil {
		return "", fmt.Errorf("%w: bad time %q", models.ErrValidation, form.Time)
	}
	urls := make([]string, len(form.Photos))
	for i, p := range form.Photos {
		urls[i] = "/photos/events/" + userID + "/" + p.Name
	}
	e := models.Event{
		ID:        uuid.NewString(),
		Name:      form.Name,
		Type:      form.Type,
		Time:      form.Time,
		Location:  form.Location,
		Photos:    urls,
		CreatedBy: userID,
		Attendees: []string{},
	}
	m.items[e.ID] = e
	return e.ID, nil
}

func (m *mockEventRepo) Update(id string, upd models.EventUpdate, existing models.Event) error {
	e, ok := m.items[id]
	if !ok {
		return fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	for _, p := range upd.Photos {
		e.Photos = append(e.Photos, "/photos/events/"+existing.CreatedBy+"/"+p.Name)
	}
	m.items[id] = e
	return nil
}

func (m *mockEventRepo) Delete(id, userID string) error {
	e, ok := m.items[id]
	if !ok {
		return fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	if e.CreatedBy != userID {
		return fmt.Errorf("%w: event %s", models.ErrUnauthorized, id)
	}
	delete(m.items, id)
	return nil
}

func (m *mockEventRepo) ToggleAttendance(id, userID string) error {
	e, ok := m.items[id]
	if !ok {
		return fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	for i, a := range e.Attendees {
		if a == userID {
			e.Attendees = append(e.Attendees[:i], e.Attendees[i+1:]...)
			m.items[id] = e
			return nil
		}
	}
	e.Attendees = append(e.Attendees, userID)
	m.items[id] = e
	return nil
}

func (m *mockEventRepo) GetByID(id string) (models.Event, error) {
	e, ok := m.items[id]
	if !ok {
		return models.Event{}, fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	return e, nil
}

func (m *mockEventRepo) GetAll() ([]models.Event, error) {
	out := make([]models.Event, 0, len(m.items))
	for _, e := range m.items {
		out = append(out, e)
	}
	return out, nil
}

type mockLocationIndex struct {
	entries []models.Location
}

func (m *mockLocationIndex) Put(addr models.AustralianAddress) error {
	m.entries = append(m.entries, models.NewLocation(addr))
	return nil
}

func (m *mockLocationIndex) Search(term string) ([]models.LocationSearchResult, error) {
	if len(term) < 2 {
		return []models.LocationSearchResult{}, nil
	}
	out := []models.LocationSearchResult{}
	for _, l := range m.entries {
		if len(l.SuburbLower) >= len(term) && l.SuburbLower[:len(term)] == term {
			out = append(out, models.LocationSearchResult{
				Type: "suburb",
				Text: l.Suburb + ", " + l.State,
				FullAddress: models.AustralianAddress{
					Suburb: l.Suburb, State: l.State, Postcode: l.Postcode,
				},
			})
		}
	}
	return out, nil
}

type mockPhotoStore struct {
	blobs map[string][]byte
}

func (m *mockPhotoStore) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.blobs[key] = b
	return "/photos/" + key, nil
}

func (m *mockPhotoStore) Delete(ctx context.Context, url string) error {
	delete(m.blobs, url)
	return nil
}

func (m *mockPhotoStore) Download(ctx context.Context, key string, w io.Writer) error {
	b, ok := m.blobs[key]
	if !ok {
		return fmt.Errorf("%w: photo %s", models.ErrNotFound, key)
	}
	_, err := io.Copy(w, bytes.NewReader(b))
	return err
}
