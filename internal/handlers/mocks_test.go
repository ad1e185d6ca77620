package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"foodeck-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// --------------------------------------------------
// In-memory store fakes
// --------------------------------------------------

type fakeCompanyStore struct {
	mu        sync.Mutex
	companies map[bson.ObjectID]models.Company
}

func newFakeCompanyStore() *fakeCompanyStore {
	return &fakeCompanyStore{companies: make(map[bson.ObjectID]models.Company)}
}

func (f *fakeCompanyStore) Create(_ context.Context, company *models.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	company.ID = bson.NewObjectID()
	company.CreatedAt = time.Now().UTC()
	f.companies[company.ID] = *company
	return nil
}

func (f *fakeCompanyStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	company, ok := f.companies[id]
	if !ok {
		return nil, nil
	}
	return &company, nil
}

func (f *fakeCompanyStore) FindAll(_ context.Context) ([]models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var companies []models.Company
	for _, company := range f.companies {
		companies = append(companies, company)
	}
	return companies, nil
}

func (f *fakeCompanyStore) Update(_ context.Context, id bson.ObjectID, fields bson.M) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	company, ok := f.companies[id]
	if !ok {
		return false, nil
	}
	if name, ok := fields["name"]; ok {
		company.Name = name.(string)
	}
	if typ, ok := fields["type"]; ok {
		company.Type = typ.(string)
	}
	f.companies[id] = company
	return true, nil
}

func (f *fakeCompanyStore) Delete(_ context.Context, id bson.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.companies[id]; !ok {
		return 0, nil
	}
	delete(f.companies, id)
	return 1, nil
}

type fakeMenuStore struct {
	mu    sync.Mutex
	menus map[bson.ObjectID]models.Menu
}

func newFakeMenuStore() *fakeMenuStore {
	return &fakeMenuStore{menus: make(map[bson.ObjectID]models.Menu)}
}

func copyMenu(menu models.Menu) models.Menu {
	items := make([]models.MenuItem, len(menu.Items))
	copy(items, menu.Items)
	menu.Items = items
	return menu
}

func (f *fakeMenuStore) Create(_ context.Context, menu *models.Menu) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	menu.ID = bson.NewObjectID()
	menu.CreatedAt = time.Now().UTC()
	f.menus[menu.ID] = copyMenu(*menu)
	return nil
}

func (f *fakeMenuStore) FindByID(_ context.Context, id bson.ObjectID) (*models.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	menu, ok := f.menus[id]
	if !ok {
		return nil, nil
	}
	menu = copyMenu(menu)
	return &menu, nil
}

func (f *fakeMenuStore) FindByCompanyDate(_ context.Context, companyID, date string) (*models.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, menu := range f.menus {
		if menu.CompanyID == companyID && menu.Date == date {
			menu = copyMenu(menu)
			return &menu, nil
		}
	}
	return nil, nil
}

func (f *fakeMenuStore) FindRecent(_ context.Context, companyID string, limit int64) ([]models.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var menus []models.Menu
	for _, menu := range f.menus {
		if menu.CompanyID == companyID {
			menus = append(menus, copyMenu(menu))
		}
	}
	sort.Slice(menus, func(i, j int) bool { return menus[i].Date > menus[j].Date })
	if int64(len(menus)) > limit {
		menus = menus[:limit]
	}
	return menus, nil
}

func (f *fakeMenuStore) SetItems(_ context.Context, id bson.ObjectID, items []models.MenuItem) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	menu, ok := f.menus[id]
	if !ok {
		return false, nil
	}
	menu.Items = append([]models.MenuItem(nil), items...)
	menu.CreatedAt = time.Now().UTC()
	f.menus[id] = menu
	return true, nil
}

func (f *fakeMenuStore) PushItems(_ context.Context, id bson.ObjectID, items []models.MenuItem) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	menu, ok := f.menus[id]
	if !ok {
		return false, nil
	}
	menu.Items = append(append([]models.MenuItem(nil), menu.Items...), items...)
	f.menus[id] = menu
	return true, nil
}

func (f *fakeMenuStore) UpdateItem(_ context.Context, menuID, itemID bson.ObjectID, fields bson.M) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	menu, ok := f.menus[menuID]
	if !ok {
		return false, nil
	}
	for i := range menu.Items {
		if menu.Items[i].ID != itemID {
			continue
		}
		if name, ok := fields["name"]; ok {
			menu.Items[i].Name = name.(string)
		}
		if description, ok := fields["description"]; ok {
			menu.Items[i].Description = description.(string)
		}
		f.menus[menuID] = menu
		return true, nil
	}
	return false, nil
}

func (f *fakeMenuStore) PullItem(_ context.Context, menuID, itemID bson.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	menu, ok := f.menus[menuID]
	if !ok {
		return false, nil
	}
	kept := menu.Items[:0:0]
	for _, item := range menu.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	menu.Items = kept
	f.menus[menuID] = menu
	return true, nil
}

func (f *fakeMenuStore) Delete(_ context.Context, id bson.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.menus[id]; !ok {
		return 0, nil
	}
	delete(f.menus, id)
	return 1, nil
}

func (f *fakeMenuStore) DeleteByCompany(_ context.Context, companyID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, menu := range f.menus {
		if menu.CompanyID == companyID {
			delete(f.menus, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeSubmissionStore struct {
	mu          sync.Mutex
	submissions []models.Submission
	counters    map[string]int
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{counters: make(map[string]int)}
}

func (f *fakeSubmissionStore) Create(_ context.Context, submission *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	submission.ID = bson.NewObjectID()
	f.submissions = append(f.submissions, *submission)
	return nil
}

func (f *fakeSubmissionStore) NextEmployeeCounter(_ context.Context, companyID, date string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := companyID + "|" + date
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeSubmissionStore) CountByDateRange(_ context.Context, companyID, startDate, endDate string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, submission := range f.submissions {
		if submission.CompanyID == companyID && submission.Date >= startDate && submission.Date <= endDate {
			count++
		}
	}
	return count, nil
}

func (f *fakeSubmissionStore) DeleteByCompany(_ context.Context, companyID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.submissions[:0:0]
	var deleted int64
	for _, submission := range f.submissions {
		if submission.CompanyID == companyID {
			deleted++
		} else {
			kept = append(kept, submission)
		}
	}
	f.submissions = kept
	return deleted, nil
}

func (f *fakeSubmissionStore) DeleteCountersByCompany(_ context.Context, companyID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for key := range f.counters {
		if len(key) > len(companyID) && key[:len(companyID)] == companyID && key[len(companyID)] == '|' {
			delete(f.counters, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeRatingStore struct {
	mu      sync.Mutex
	ratings []models.Rating
}

func newFakeRatingStore() *fakeRatingStore {
	return &fakeRatingStore{}
}

func (f *fakeRatingStore) CreateMany(_ context.Context, ratings []models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range ratings {
		ratings[i].ID = bson.NewObjectID()
		f.ratings = append(f.ratings, ratings[i])
	}
	return nil
}

func (f *fakeRatingStore) FindByTimeWindow(_ context.Context, companyID string, from, to time.Time) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Rating
	for _, rating := range f.ratings {
		if rating.CompanyID != companyID {
			continue
		}
		if rating.Timestamp.Before(from) || !rating.Timestamp.Before(to) {
			continue
		}
		matched = append(matched, rating)
	}
	return matched, nil
}

func (f *fakeRatingStore) deleteWhere(match func(models.Rating) bool) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.ratings[:0:0]
	var deleted int64
	for _, rating := range f.ratings {
		if match(rating) {
			deleted++
		} else {
			kept = append(kept, rating)
		}
	}
	f.ratings = kept
	return deleted
}

func (f *fakeRatingStore) DeleteByItem(_ context.Context, menuID, itemID string) (int64, error) {
	return f.deleteWhere(func(r models.Rating) bool {
		return r.MenuID == menuID && r.ItemID == itemID
	}), nil
}

func (f *fakeRatingStore) DeleteByMenu(_ context.Context, menuID string) (int64, error) {
	return f.deleteWhere(func(r models.Rating) bool { return r.MenuID == menuID }), nil
}

func (f *fakeRatingStore) DeleteByCompany(_ context.Context, companyID string) (int64, error) {
	return f.deleteWhere(func(r models.Rating) bool { return r.CompanyID == companyID }), nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Publish(_ context.Context, subject, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, subject+": "+message)
	return nil
}

// --------------------------------------------------
// Test environment
// --------------------------------------------------

type testEnv struct {
	companies   *fakeCompanyStore
	menus       *fakeMenuStore
	submissions *fakeSubmissionStore
	ratings     *fakeRatingStore
	notifier    *fakeNotifier
	router      *chi.Mux
}

// newTestEnv wires every handler over shared fakes so cross-entity
// effects (cascades, counters, analytics) are observable end to end.
// Auth middleware is exercised separately in internal/middleware.
func newTestEnv() *testEnv {
	env := &testEnv{
		companies:   newFakeCompanyStore(),
		menus:       newFakeMenuStore(),
		submissions: newFakeSubmissionStore(),
		ratings:     newFakeRatingStore(),
		notifier:    &fakeNotifier{},
	}

	companyHandler := NewCompanyHandler(env.companies, env.menus, env.submissions, env.ratings)
	menuHandler := NewMenuHandler(env.companies, env.menus, env.ratings)
	ratingHandler := NewRatingHandler(env.menus, env.submissions, env.ratings, env.notifier)
	analyticsHandler := NewAnalyticsHandler(env.submissions, env.ratings)

	r := chi.NewRouter()
	r.Post("/api/companies", companyHandler.Create)
	r.Get("/api/companies", companyHandler.List)
	r.Get("/api/companies/{companyID}", companyHandler.Get)
	r.Put("/api/companies/{companyID}", companyHandler.Update)
	r.Delete("/api/companies/{companyID}", companyHandler.Delete)
	r.Post("/api/menu/{id}", menuHandler.CreateOrMerge)
	r.Get("/api/menu/{id}/{date}", menuHandler.GetByDate)
	r.Delete("/api/menu/{id}", menuHandler.Delete)
	r.Get("/api/menus/{companyID}", menuHandler.ListRecent)
	r.Post("/api/menu/{id}/items", menuHandler.AddItems)
	r.Put("/api/menu/{id}/items/{itemID}", menuHandler.UpdateItem)
	r.Delete("/api/menu/{id}/items/{itemID}", menuHandler.DeleteItem)
	r.Post("/api/ratings", ratingHandler.Submit)
	r.Get("/api/analytics/{companyID}", analyticsHandler.Get)
	env.router = r
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func (env *testEnv) createCompany(t *testing.T, name string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/companies", CreateCompanyRequest{
		Name: name,
		Type: models.CompanyTypeCafeteria,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var company models.Company
	decodeBody(t, rec, &company)
	return company.ID.Hex()
}

func (env *testEnv) createMenu(t *testing.T, companyID, date string, items []MenuItemInput) models.Menu {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/menu/"+companyID, CreateMenuRequest{
		Date:  date,
		Items: items,
	})
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, rec.Code)
	var menu models.Menu
	decodeBody(t, rec, &menu)
	return menu
}
