package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/tickethub/internal/common"
	"github.com/dmitrijs2005/tickethub/internal/dbx"
	"github.com/dmitrijs2005/tickethub/internal/logging"
	"github.com/dmitrijs2005/tickethub/internal/server/models"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/events"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/users"
)

// In-memory fakes for service tests. Error fields, when set, are returned
// by the corresponding method so failure paths can be driven directly.

type nopLogger struct{}

func (l *nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (l *nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (l *nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l *nopLogger) With(args ...any) logging.Logger                    { return l }

type fakeUsersRepo struct {
	users     []*models.User
	nextID    int
	createErr error
	deleteErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	u := *user
	u.ID = fmt.Sprintf("USR-%08d", f.nextID)
	u.CreatedAt = time.Now()
	f.users = append(f.users, &u)
	cp := u
	return &cp, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, email string, fullName string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.Email = email
			u.FullName = fullName
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeUsersRepo) Search(ctx context.Context, term string) ([]*models.User, error) {
	term = strings.ToLower(term)
	result := []*models.User{}
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Email), term) ||
			strings.Contains(strings.ToLower(u.FullName), term) {
			cp := *u
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeEventsRepo struct {
	rows       map[string]*models.EventRow
	categories map[int]string
	nextID     int
	insertErr  error
	updateErr  error
	deleteErr  error
	selectErr  error
}

func newFakeEventsRepo() *fakeEventsRepo {
	return &fakeEventsRepo{
		rows: map[string]*models.EventRow{},
		categories: map[int]string{
			1: "Meeting", 2: "Conference", 3: "Product Launch", 4: "Workshop", 5: "Social",
		},
	}
}

func (f *fakeEventsRepo) Insert(ctx context.Context, row *models.EventRow) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextID++
	r := *row
	r.ID = fmt.Sprintf("EVT-%08d", f.nextID)
	r.CategoryName = f.categories[r.CategoryID]
	f.rows[r.ID] = &r
	return r.ID, nil
}

func (f *fakeEventsRepo) SelectFutureAgenda(ctx context.Context, userID string) ([]*models.EventRow, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	result := []*models.EventRow{}
	for _, r := range f.rows {
		if r.UserID == userID && !r.StartsAt.Before(time.Now()) {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartsAt.Equal(result[j].StartsAt) {
			return result[i].StartsAt.Before(result[j].StartsAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (f *fakeEventsRepo) SelectOne(ctx context.Context, eventID string, userID string) (*models.EventRow, error) {
	r, ok := f.rows[eventID]
	if !ok || r.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeEventsRepo) FindDetailRef(ctx context.Context, eventID string, userID string) (string, error) {
	r, ok := f.rows[eventID]
	if !ok || r.UserID != userID {
		return "", common.ErrorNotFound
	}
	return r.DetailID, nil
}

func (f *fakeEventsRepo) Update(ctx context.Context, eventID string, input *models.EventInput) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	r, ok := f.rows[eventID]
	if !ok {
		return common.ErrorNotFound
	}
	r.CategoryID = input.CategoryID
	r.CategoryName = f.categories[input.CategoryID]
	r.Title = input.Title
	r.StartsAt = input.StartsAt
	r.Location = input.Location
	return nil
}

func (f *fakeEventsRepo) Delete(ctx context.Context, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.rows[eventID]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, eventID)
	return nil
}

type fakeDocumentsRepo struct {
	docs       map[string]*models.Detail
	nextID     int
	deleted    []string
	insertErr  error
	replaceErr error
	deleteErr  error
	findErr    error
}

func newFakeDocumentsRepo() *fakeDocumentsRepo {
	return &fakeDocumentsRepo{docs: map[string]*models.Detail{}}
}

func (f *fakeDocumentsRepo) Insert(ctx context.Context, detail *models.Detail) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextID++
	id := fmt.Sprintf("%024x", f.nextID)
	f.docs[id] = detail
	return id, nil
}

func (f *fakeDocumentsRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Detail, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	result := map[string]*models.Detail{}
	for _, id := range ids {
		if d, ok := f.docs[id]; ok {
			result[id] = d
		}
	}
	return result, nil
}

func (f *fakeDocumentsRepo) FindByID(ctx context.Context, id string) (*models.Detail, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	d, ok := f.docs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return d, nil
}

func (f *fakeDocumentsRepo) Replace(ctx context.Context, id string, detail *models.Detail) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	if _, ok := f.docs[id]; !ok {
		return common.ErrorNotFound
	}
	f.docs[id] = detail
	return nil
}

func (f *fakeDocumentsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	return nil
}

type fakeCache struct {
	data    map[string][]byte
	deletes []string
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	b, ok := f.data[key]
	return b, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		f.deletes = append(f.deletes, k)
		delete(f.data, k)
	}
	return nil
}

type fakeResetsRepo struct {
	resets map[string]*models.PasswordReset
}

func newFakeResetsRepo() *fakeResetsRepo {
	return &fakeResetsRepo{resets: map[string]*models.PasswordReset{}}
}

func (f *fakeResetsRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.resets[token] = &models.PasswordReset{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(validity),
	}
	return nil
}

func (f *fakeResetsRepo) Find(ctx context.Context, token string) (*models.PasswordReset, error) {
	r, ok := f.resets[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeResetsRepo) Delete(ctx context.Context, token string) error {
	delete(f.resets, token)
	return nil
}

type fakeRepoManager struct {
	users  *fakeUsersRepo
	events *fakeEventsRepo
	resets *fakeResetsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:  &fakeUsersRepo{},
		events: newFakeEventsRepo(),
		resets: newFakeResetsRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                  { return m.users }
func (m *fakeRepoManager) Events(db dbx.DBTX) events.Repository                { return m.events }
func (m *fakeRepoManager) PasswordResets(db dbx.DBTX) passwordresets.Repository {
	return m.resets
}
