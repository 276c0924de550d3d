package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"anoa.com/userdirectory/internal/entity"
	"anoa.com/userdirectory/internal/modules/user/dto"
	"anoa.com/userdirectory/internal/modules/user/repository"
	"anoa.com/userdirectory/pkg/apperror"
	"anoa.com/userdirectory/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- fakes ---

type fakeRepo struct {
	users  map[uint]*entity.User
	nextID uint
	now    time.Time

	lastFrom, lastTo time.Time
	counts           []repository.TimeCount
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[uint]*entity.User),
		now:   time.Date(2024, 1, 5, 10, 15, 0, 0, time.UTC),
	}
}

func (r *fakeRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.Name == u.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	u.ID = r.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) FindByName(_ context.Context, name string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Name == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, id uint, columns map[string]any) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := columns["name"].(string); ok {
		for _, other := range r.users {
			if other.ID != id && other.Name == name {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	for col, v := range columns {
		switch col {
		case "name":
			u.Name = v.(string)
		case "birth_year":
			u.BirthYear = v.(int)
		case "gender":
			u.Gender = v.(entity.Gender)
		case "is_admin":
			u.IsAdmin = v.(bool)
		case "password":
			u.Password = v.(string)
		case "avatar_path":
			if v == nil {
				u.AvatarPath = nil
			} else {
				p := v.(string)
				u.AvatarPath = &p
			}
		default:
			return fmt.Errorf("unexpected column %q", col)
		}
	}
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeRepo) CountCreatedPerMinute(_ context.Context, from, to time.Time) ([]repository.TimeCount, error) {
	r.lastFrom, r.lastTo = from, to
	return r.counts, nil
}

type fakeFiles struct {
	files     map[string]string
	seq       int
	deleteErr error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{files: make(map[string]string)}
}

func (f *fakeFiles) SaveBase64(_ context.Context, content string) (string, error) {
	if content == "!!" {
		return "", apperror.Storage(errors.New("decode base64: illegal data"))
	}
	f.seq++
	path := fmt.Sprintf("uploads/%d.jpg", f.seq)
	f.files[path] = content
	return path, nil
}

func (f *fakeFiles) DeleteFile(_ context.Context, path string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.files, path)
	return nil
}

func (f *fakeFiles) ReplaceFile(ctx context.Context, content string, oldPath *string) (string, error) {
	if oldPath != nil {
		if err := f.DeleteFile(ctx, *oldPath); err != nil {
			return "", err
		}
	}
	return f.SaveBase64(ctx, content)
}

// --- helpers ---

func newTestService(t *testing.T) (UserService, *fakeRepo, *fakeFiles) {
	t.Helper()
	repo := newFakeRepo()
	files := newFakeFiles()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewUserService(repo, files, password.NewBcryptHasher(bcrypt.MinCost), log, WithLocation(time.UTC))
	return svc, repo, files
}

func ptr[T any](v T) *T { return &v }

func validCreate(name string) dto.CreateUserInput {
	return dto.CreateUserInput{
		Name:      name,
		BirthYear: 1990,
		Gender:    entity.GenderFemale,
		Password:  "secret",
	}
}

// --- tests ---

func TestCreate_ThenGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	rootID, err := svc.Create(ctx, validCreate("root"), 0)
	require.NoError(t, err)

	id, err := svc.Create(ctx, validCreate("alice"), rootID)
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, 1990, got.BirthYear)
	assert.Equal(t, entity.GenderFemale, got.Gender)
	assert.Equal(t, "05-01-2024 10:15", got.CreatedAt)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "root", *got.CreatedBy)
	assert.Nil(t, got.AvatarPath)
}

func TestCreate_HashesPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)

	id, err := svc.Create(context.Background(), validCreate("alice"), 0)
	require.NoError(t, err)

	stored := repo.users[id]
	assert.NotEqual(t, "secret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret")))
}

func TestCreate_DuplicateName(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreate("alice"), 0)
	require.NoError(t, err)

	dup := validCreate("alice")
	dup.AvatarBase64 = ptr("aGVsbG8=")
	_, err = svc.Create(ctx, dup, 0)
	require.ErrorIs(t, err, apperror.ErrUsernameTaken)
	assert.Equal(t, "alice", err.(*apperror.AppError).Extra["name"])

	assert.Len(t, repo.users, 1)
	assert.Empty(t, files.files, "avatar of the rejected user must not remain")
}

func TestCreate_BirthYearOutOfRange(t *testing.T) {
	svc, repo, _ := newTestService(t)

	for _, year := range []int{1899, 2026} {
		in := validCreate("alice")
		in.BirthYear = year
		_, err := svc.Create(context.Background(), in, 0)
		require.ErrorIs(t, err, apperror.ErrInvalidBirthYear)
		assert.Equal(t, year, err.(*apperror.AppError).Extra["birth_year"])
	}
	assert.Empty(t, repo.users)
}

func TestCreate_SanitizesName(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate("<b>Tom</b> & Jerry"), 0)
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry", repo.users[id].Name)

	_, err = svc.Create(ctx, validCreate("<script></script>"), 0)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreate_WithAvatar(t *testing.T) {
	svc, repo, files := newTestService(t)

	in := validCreate("alice")
	in.AvatarBase64 = ptr("aGVsbG8=")
	id, err := svc.Create(context.Background(), in, 0)
	require.NoError(t, err)

	require.NotNil(t, repo.users[id].AvatarPath)
	assert.Contains(t, files.files, *repo.users[id].AvatarPath)
}

func TestCreate_AvatarDecodeFailure(t *testing.T) {
	svc, repo, _ := newTestService(t)

	in := validCreate("alice")
	in.AvatarBase64 = ptr("!!")
	_, err := svc.Create(context.Background(), in, 0)
	require.ErrorIs(t, err, apperror.ErrStorage)
	assert.Empty(t, repo.users)
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, apperror.ErrUserNotFound)
	assert.Equal(t, uint(42), err.(*apperror.AppError).Extra["user_id"])
}

func TestList_DanglingCreatorResolvesToNil(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	rootID, err := svc.Create(ctx, validCreate("root"), 0)
	require.NoError(t, err)
	bobID, err := svc.Create(ctx, validCreate("bob"), rootID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, validCreate("carol"), bobID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rootID))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "bob", users[0].Name)
	assert.Nil(t, users[0].CreatedBy)
	assert.Equal(t, "carol", users[1].Name)
	require.NotNil(t, users[1].CreatedBy)
	assert.Equal(t, "bob", *users[1].CreatedBy)

	got, err := svc.Get(ctx, bobID)
	require.NoError(t, err)
	assert.Nil(t, got.CreatedBy)
}

func TestDelete_RemovesAvatar(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()

	in := validCreate("alice")
	in.AvatarBase64 = ptr("aGVsbG8=")
	id, err := svc.Create(ctx, in, 0)
	require.NoError(t, err)
	require.Len(t, files.files, 1)

	require.NoError(t, svc.Delete(ctx, id))
	assert.Empty(t, files.files)
	assert.Empty(t, repo.users)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestDelete_WithoutAvatar(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate("alice"), 0)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))
	assert.Empty(t, repo.users)
}

func TestDelete_StorageFailureKeepsUser(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()

	in := validCreate("alice")
	in.AvatarBase64 = ptr("aGVsbG8=")
	id, err := svc.Create(ctx, in, 0)
	require.NoError(t, err)

	files.deleteErr = errors.New("permission denied")
	err = svc.Delete(ctx, id)
	require.ErrorIs(t, err, apperror.ErrStorage)
	assert.Contains(t, repo.users, id)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), 7), apperror.ErrUserNotFound)
}

func TestReplace_ResetsOmittedFields(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()

	in := validCreate("alice")
	in.IsAdmin = true
	in.AvatarBase64 = ptr("aGVsbG8=")
	id, err := svc.Create(ctx, in, 0)
	require.NoError(t, err)
	oldHash := repo.users[id].Password

	err = svc.Replace(ctx, id, dto.ReplaceUserInput{
		Name:      "alice2",
		BirthYear: 1991,
		Gender:    entity.GenderMale,
	})
	require.NoError(t, err)

	u := repo.users[id]
	assert.Equal(t, "alice2", u.Name)
	assert.Equal(t, 1991, u.BirthYear)
	assert.Equal(t, entity.GenderMale, u.Gender)
	assert.False(t, u.IsAdmin)
	assert.Nil(t, u.AvatarPath)
	assert.Empty(t, files.files)
	assert.Equal(t, oldHash, u.Password, "empty password keeps the current hash")
}

func TestUpdate_KeepsOmittedFields(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()

	in := validCreate("alice")
	in.IsAdmin = true
	in.AvatarBase64 = ptr("aGVsbG8=")
	id, err := svc.Create(ctx, in, 0)
	require.NoError(t, err)
	avatar := *repo.users[id].AvatarPath

	err = svc.Update(ctx, id, dto.PatchUserInput{BirthYear: ptr(1985)})
	require.NoError(t, err)

	u := repo.users[id]
	assert.Equal(t, 1985, u.BirthYear)
	assert.Equal(t, "alice", u.Name)
	assert.True(t, u.IsAdmin)
	require.NotNil(t, u.AvatarPath)
	assert.Equal(t, avatar, *u.AvatarPath)
	assert.Contains(t, files.files, avatar)
}

func TestUpdate_ReplacesAvatar(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()

	in := validCreate("alice")
	in.AvatarBase64 = ptr("aGVsbG8=")
	id, err := svc.Create(ctx, in, 0)
	require.NoError(t, err)
	old := *repo.users[id].AvatarPath

	require.NoError(t, svc.Update(ctx, id, dto.PatchUserInput{AvatarBase64: ptr("d29ybGQ=")}))

	u := repo.users[id]
	require.NotNil(t, u.AvatarPath)
	assert.NotEqual(t, old, *u.AvatarPath)
	assert.NotContains(t, files.files, old)
	assert.Equal(t, "d29ybGQ=", files.files[*u.AvatarPath])
}

func TestUpdate_EmptyAvatarClears(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()

	in := validCreate("alice")
	in.AvatarBase64 = ptr("aGVsbG8=")
	id, err := svc.Create(ctx, in, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, id, dto.PatchUserInput{AvatarBase64: ptr("")}))
	assert.Nil(t, repo.users[id].AvatarPath)
	assert.Empty(t, files.files)
}

func TestUpdate_ChangesPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate("alice"), 0)
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, id, dto.PatchUserInput{Password: ptr("new-secret")}))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[id].Password), []byte("new-secret")))
}

func TestUpdate_NameTaken(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreate("alice"), 0)
	require.NoError(t, err)
	bobID, err := svc.Create(ctx, validCreate("bob"), 0)
	require.NoError(t, err)

	err = svc.Update(ctx, bobID, dto.PatchUserInput{Name: ptr("alice")})
	require.ErrorIs(t, err, apperror.ErrUsernameTaken)
	assert.Equal(t, "bob", repo.users[bobID].Name)
}

func TestUpdate_InvalidBirthYear(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate("alice"), 0)
	require.NoError(t, err)

	err = svc.Update(ctx, id, dto.PatchUserInput{BirthYear: ptr(1800)})
	require.ErrorIs(t, err, apperror.ErrInvalidBirthYear)
	assert.Equal(t, 1990, repo.users[id].BirthYear)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.Update(context.Background(), 9, dto.PatchUserInput{IsAdmin: ptr(true)})
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestCountByHour(t *testing.T) {
	svc, repo, _ := newTestService(t)
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	repo.counts = []repository.TimeCount{
		{Bucket: day.Add(10*time.Hour + 5*time.Minute), Total: 1},
		{Bucket: day.Add(10*time.Hour + 59*time.Minute), Total: 1},
		{Bucket: day.Add(14 * time.Hour), Total: 1},
	}

	got, err := svc.CountByHour(context.Background(), "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, []dto.TimeBucket{{Label: "10", Count: 2}, {Label: "14", Count: 1}}, got)

	assert.Equal(t, day, repo.lastFrom)
	assert.Equal(t, day.Add(24*time.Hour), repo.lastTo)
}

func TestCountByMinute(t *testing.T) {
	svc, repo, _ := newTestService(t)
	hour := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	repo.counts = []repository.TimeCount{
		{Bucket: hour.Add(5 * time.Minute), Total: 1},
		{Bucket: hour.Add(42 * time.Minute), Total: 3},
	}

	got, err := svc.CountByMinute(context.Background(), "2024-01-05", 10)
	require.NoError(t, err)
	assert.Equal(t, []dto.TimeBucket{{Label: "10:05", Count: 1}, {Label: "10:42", Count: 3}}, got)

	assert.Equal(t, hour, repo.lastFrom)
	assert.Equal(t, hour.Add(time.Hour), repo.lastTo)
}

func TestCountByHour_HalfHourOffsetZone(t *testing.T) {
	repo := newFakeRepo()
	ist := time.FixedZone("IST", 5*3600+30*60)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewUserService(repo, newFakeFiles(), password.NewBcryptHasher(bcrypt.MinCost), log, WithLocation(ist))

	// 04:40Z and 04:29Z are 10:10 and 09:59 in IST
	repo.counts = []repository.TimeCount{
		{Bucket: time.Date(2024, 1, 5, 4, 29, 0, 0, time.UTC), Total: 1},
		{Bucket: time.Date(2024, 1, 5, 4, 40, 0, 0, time.UTC), Total: 2},
	}

	got, err := svc.CountByHour(context.Background(), "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, []dto.TimeBucket{{Label: "09", Count: 1}, {Label: "10", Count: 2}}, got)
	assert.True(t, time.Date(2024, 1, 5, 0, 0, 0, 0, ist).Equal(repo.lastFrom))

	got, err = svc.CountByMinute(context.Background(), "2024-01-05", 10)
	require.NoError(t, err)
	assert.Equal(t, []dto.TimeBucket{{Label: "09:59", Count: 1}, {Label: "10:10", Count: 2}}, got)
}

func TestCountByHour_EmptyDay(t *testing.T) {
	svc, _, _ := newTestService(t)

	got, err := svc.CountByHour(context.Background(), "2024-01-06")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCount_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CountByHour(ctx, "05-01-2024")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.CountByMinute(ctx, "2024-01-05", 24)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.CountByMinute(ctx, "2024-01-05", -1)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestMe(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, validCreate("alice"), 0)
	require.NoError(t, err)

	me, err := svc.Me(ctx, repo.users[id])
	require.NoError(t, err)
	assert.Equal(t, id, me.ID)
	assert.Nil(t, me.CreatedBy)
}

func TestReplace_NameTakenKeepsAvatar(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()

	in := validCreate("alice")
	in.AvatarBase64 = ptr("aGVsbG8=")
	aliceID, err := svc.Create(ctx, in, 0)
	require.NoError(t, err)
	_, err = svc.Create(ctx, validCreate("bob"), 0)
	require.NoError(t, err)
	avatar := *repo.users[aliceID].AvatarPath

	for _, content := range []*string{ptr("bmV3"), nil} {
		err = svc.Replace(ctx, aliceID, dto.ReplaceUserInput{
			Name:         "bob",
			BirthYear:    1990,
			Gender:       entity.GenderFemale,
			AvatarBase64: content,
		})
		require.ErrorIs(t, err, apperror.ErrUsernameTaken)

		require.NotNil(t, repo.users[aliceID].AvatarPath)
		assert.Equal(t, avatar, *repo.users[aliceID].AvatarPath)
		assert.Equal(t, map[string]string{avatar: "aGVsbG8="}, files.files)
	}
}

func TestUpdate_NameTakenKeepsAvatar(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()

	in := validCreate("alice")
	in.AvatarBase64 = ptr("aGVsbG8=")
	aliceID, err := svc.Create(ctx, in, 0)
	require.NoError(t, err)
	_, err = svc.Create(ctx, validCreate("bob"), 0)
	require.NoError(t, err)
	avatar := *repo.users[aliceID].AvatarPath

	for _, content := range []string{"bmV3", ""} {
		err = svc.Update(ctx, aliceID, dto.PatchUserInput{Name: ptr("bob"), AvatarBase64: ptr(content)})
		require.ErrorIs(t, err, apperror.ErrUsernameTaken)

		require.NotNil(t, repo.users[aliceID].AvatarPath)
		assert.Equal(t, avatar, *repo.users[aliceID].AvatarPath)
		assert.Equal(t, map[string]string{avatar: "aGVsbG8="}, files.files)
	}
}

func TestUpdate_OldAvatarDeleteFailureStillUpdates(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()

	in := validCreate("alice")
	in.AvatarBase64 = ptr("aGVsbG8=")
	id, err := svc.Create(ctx, in, 0)
	require.NoError(t, err)
	old := *repo.users[id].AvatarPath

	files.deleteErr = errors.New("disk gone")
	require.NoError(t, svc.Update(ctx, id, dto.PatchUserInput{AvatarBase64: ptr("d29ybGQ=")}))

	u := repo.users[id]
	require.NotNil(t, u.AvatarPath)
	assert.NotEqual(t, old, *u.AvatarPath)
	assert.Equal(t, "d29ybGQ=", files.files[*u.AvatarPath])
}

func TestPasswordTooLong(t *testing.T) {
	svc, repo, files := newTestService(t)
	ctx := context.Background()
	long := strings.Repeat("a", 73)

	in := validCreate("alice")
	in.Password = long
	in.AvatarBase64 = ptr("aGVsbG8=")
	_, err := svc.Create(ctx, in, 0)
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Empty(t, repo.users)
	assert.Empty(t, files.files)

	id, err := svc.Create(ctx, validCreate("alice"), 0)
	require.NoError(t, err)
	hash := repo.users[id].Password

	err = svc.Replace(ctx, id, dto.ReplaceUserInput{
		Name:      "alice",
		BirthYear: 1990,
		Gender:    entity.GenderFemale,
		Password:  long,
	})
	require.ErrorIs(t, err, apperror.ErrValidation)

	err = svc.Update(ctx, id, dto.PatchUserInput{Password: ptr(long)})
	require.ErrorIs(t, err, apperror.ErrValidation)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, hash, repo.users[id].Password)

	// 72 bytes is still accepted
	require.NoError(t, svc.Update(ctx, id, dto.PatchUserInput{Password: ptr(strings.Repeat("a", 72))}))
}
