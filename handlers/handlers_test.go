package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"contact-manager/models"
	"contact-manager/session"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errDatabaseDown = errors.New("database is down")

// fakeContacts is an owner-scoped in-memory ContactStore. err, when set, is returned by every call.
type fakeContacts struct {
	byID   map[int64]models.Contact
	nextID int64
	err    error
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{byID: map[int64]models.Contact{}}
}

func (f *fakeContacts) List(_ context.Context, userID int64) ([]models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Contact{}
	for _, c := range f.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeContacts) Get(_ context.Context, id, userID int64) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byID[id]
	if !ok || c.UserID != userID {
		return nil, models.ErrNotFound
	}
	return &c, nil
}

func (f *fakeContacts) Create(_ context.Context, userID int64, fields models.ContactFields) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	f.nextID++
	c := models.Contact{ID: f.nextID, UserID: userID, Name: fields.Name, Email: fields.Email, Phone: fields.Phone, Detail: fields.Detail}
	f.byID[c.ID] = c
	return &c, nil
}

func (f *fakeContacts) Update(ctx context.Context, id, userID int64, fields models.ContactFields) (*models.Contact, error) {
	if f.err != nil {
		return nil, f.err
	}
	fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	c, ok := f.byID[id]
	if !ok || c.UserID != userID {
		return nil, models.ErrNotFound
	}
	c.Name, c.Email, c.Phone, c.Detail = fields.Name, fields.Email, fields.Phone, fields.Detail
	f.byID[id] = c
	return &c, nil
}

func (f *fakeContacts) Delete(_ context.Context, id, userID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	c, ok := f.byID[id]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func newTestViews(t *testing.T) *Views {
	t.Helper()
	v, err := LoadViews(zap.NewNop())
	require.NoError(t, err)
	return v
}

// guardedRequest builds a request as the session guard would hand it over.
func guardedRequest(method, target string, userID int64, form url.Values, vars map[string]string) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	ctx := session.WithSession(req.Context(), session.Session{ID: "test", UserID: userID, UserName: "Ana"})
	return req.WithContext(ctx)
}

// flashOf returns the notice queued on rec.
func flashOf(t *testing.T, rec *httptest.ResponseRecorder) session.Flash {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	f, ok := session.PopFlash(httptest.NewRecorder(), req)
	require.True(t, ok, "no flash set")
	return f
}
