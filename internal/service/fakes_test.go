package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/zserver/internal/crypt"
	"github.com/and161185/zserver/internal/errs"
	"github.com/and161185/zserver/internal/limiter"
	"github.com/and161185/zserver/internal/model"
	"github.com/and161185/zserver/internal/repository"
	"github.com/and161185/zserver/internal/reqctx"
)

type fakeUsers struct {
	byName map[string]model.UserForLogin
	nextID int64

	getErr error
}

var _ repository.Users = (*fakeUsers)(nil)

func (f *fakeUsers) add(username, pwd string) model.UserForLogin {
	if f.byName == nil {
		f.byName = map[string]model.UserForLogin{}
	}
	f.nextID++
	salt, _ := crypt.RandBytes(crypt.PwdSaltLen)
	u := model.UserForLogin{
		ID:        1000 + f.nextID,
		Username:  username,
		Pwd:       crypt.HashPwd(pwd, salt),
		PwdSalt:   salt,
		TokenSalt: uuid.Must(uuid.NewV4()),
	}
	f.byName[username] = u
	return u
}

func (f *fakeUsers) Create(_ context.Context, _ reqctx.Ctx, _ *model.Manager, data model.UserForCreate) (int64, error) {
	if _, ok := f.byName[data.Username]; ok {
		return 0, errs.ErrAlreadyExists
	}
	return f.add(data.Username, data.PwdClear).ID, nil
}

func (f *fakeUsers) Get(_ context.Context, _ reqctx.Ctx, _ *model.Manager, id int64) (model.User, error) {
	for _, u := range f.byName {
		if u.ID == id {
			return model.User{ID: u.ID, Username: u.Username}, nil
		}
	}
	return model.User{}, &model.EntityNotFoundError{Entity: "user", ID: id}
}

func (f *fakeUsers) List(_ context.Context, _ reqctx.Ctx, _ *model.Manager) ([]model.User, error) {
	out := make([]model.User, 0, len(f.byName))
	for _, u := range f.byName {
		out = append(out, model.User{ID: u.ID, Username: u.Username})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) Delete(_ context.Context, _ reqctx.Ctx, _ *model.Manager, id int64) error {
	for name, u := range f.byName {
		if u.ID == id {
			delete(f.byName, name)
			return nil
		}
	}
	return &model.EntityNotFoundError{Entity: "user", ID: id}
}

func (f *fakeUsers) FirstForLogin(_ context.Context, _ reqctx.Ctx, _ *model.Manager, username string) (model.UserForLogin, error) {
	if f.getErr != nil {
		return model.UserForLogin{}, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return model.UserForLogin{}, errs.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FirstForAuth(_ context.Context, _ reqctx.Ctx, _ *model.Manager, username string) (model.UserForAuth, error) {
	if f.getErr != nil {
		return model.UserForAuth{}, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return model.UserForAuth{}, errs.ErrNotFound
	}
	return model.UserForAuth{ID: u.ID, Username: u.Username, TokenSalt: u.TokenSalt}, nil
}

func (f *fakeUsers) UpdatePwd(_ context.Context, _ reqctx.Ctx, _ *model.Manager, id int64, pwdClear string) error {
	for name, u := range f.byName {
		if u.ID == id {
			u.Pwd = crypt.HashPwd(pwdClear, u.PwdSalt)
			f.byName[name] = u
			return nil
		}
	}
	return &model.EntityNotFoundError{Entity: "user", ID: id}
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	successErr error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return l.successErr
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}

type fakeTasks struct {
	rows   map[int64]model.Task
	nextID int64

	createErr error
}

var _ repository.Tasks = (*fakeTasks)(nil)

func (f *fakeTasks) Create(_ context.Context, _ reqctx.Ctx, _ *model.Manager, data model.TaskForCreate) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	if f.rows == nil {
		f.rows = map[int64]model.Task{}
	}
	f.nextID++
	f.rows[f.nextID] = model.Task{ID: f.nextID, Title: data.Title}
	return f.nextID, nil
}

func (f *fakeTasks) Get(_ context.Context, _ reqctx.Ctx, _ *model.Manager, id int64) (model.Task, error) {
	t, ok := f.rows[id]
	if !ok {
		return model.Task{}, &model.EntityNotFoundError{Entity: "task", ID: id}
	}
	return t, nil
}

func (f *fakeTasks) List(_ context.Context, _ reqctx.Ctx, _ *model.Manager) ([]model.Task, error) {
	out := make([]model.Task, 0, len(f.rows))
	for _, t := range f.rows {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTasks) Update(_ context.Context, _ reqctx.Ctx, _ *model.Manager, id int64, data model.TaskForUpdate) error {
	t, ok := f.rows[id]
	if !ok {
		return &model.EntityNotFoundError{Entity: "task", ID: id}
	}
	if data.Title != nil {
		t.Title = *data.Title
	}
	f.rows[id] = t
	return nil
}

func (f *fakeTasks) Delete(_ context.Context, _ reqctx.Ctx, _ *model.Manager, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return &model.EntityNotFoundError{Entity: "task", ID: id}
	}
	delete(f.rows, id)
	return nil
}
