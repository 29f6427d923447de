//go:build integration

package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/testutil"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

const jwtSecret = "integration-secret"

var gdb *gorm.DB

func TestMain(m *testing.M) {
	var (
		terminate func()
		err       error
	)
	gdb, terminate, err = testutil.StartPostgres(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	code := m.Run()
	terminate()
	os.Exit(code)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events map[uuid.UUID][]string
}

func (n *recordingNotifier) Notify(_ context.Context, userID uuid.UUID, ev realtime.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events == nil {
		n.events = map[uuid.UUID][]string{}
	}
	n.events[userID] = append(n.events[userID], ev.Type)
}

func (n *recordingNotifier) For(userID uuid.UUID) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events[userID]...)
}

// memCache is an in-process cache.Cache for exercising board invalidation.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal([]byte(s), dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string]string{}
	}
	c.data[key] = string(b)
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string]string{}
	}
	var n int64
	fmt.Sscan(c.data[key], &n)
	n++
	c.data[key] = fmt.Sprint(n)
	return n, nil
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

type fixture struct {
	auth     *services.AuthService
	jobs     *services.JobService
	hiring   *services.HiringService
	saved    *services.SavedJobService
	skills   *services.SkillService
	projects *services.ProjectService
	users    *services.UserService
	notifier *recordingNotifier
}

func newFixture() *fixture {
	n := &recordingNotifier{}
	jobs := services.NewJobService(gdb, nil, time.Minute)
	return &fixture{
		auth:     services.NewAuthService(gdb, jwtSecret, 60, 4),
		jobs:     jobs,
		hiring:   services.NewHiringService(gdb, jobs, n),
		saved:    services.NewSavedJobService(gdb),
		skills:   services.NewSkillService(gdb),
		projects: services.NewProjectService(gdb),
		users:    services.NewUserService(gdb),
		notifier: n,
	}
}

func (f *fixture) user(t *testing.T, roles ...models.Role) *models.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), services.RegisterInput{
		FirstName: "Test",
		LastName:  "User",
		Email:     uuid.NewString()[:8] + "@example.com",
		Password:  "secret123",
		Role:      string(roles[0]),
	})
	require.NoError(t, err)
	if len(roles) > 1 {
		all := pq.StringArray{}
		for _, r := range roles {
			all = append(all, string(r))
		}
		require.NoError(t, gdb.Model(u).Update("roles", all).Error)
		u.Roles = all
	}
	return u
}

func deadline(days int) string {
	return time.Now().AddDate(0, 0, days).Format(utils.DateLayout)
}

func (f *fixture) job(t *testing.T, clientID uuid.UUID, category string, budget int64) *models.Job {
	t.Helper()
	j, err := f.jobs.Create(context.Background(), clientID, services.JobInput{
		Title:       "Build a landing page",
		Description: "Need a responsive landing page with a contact form.",
		Budget:      budget,
		Category:    category,
		Deadline:    deadline(14),
	})
	require.NoError(t, err)
	return j
}

func (f *fixture) apply(t *testing.T, freelancerID, jobID uuid.UUID) *models.JobApplication {
	t.Helper()
	app, err := f.hiring.Apply(context.Background(), freelancerID, applyInput(jobID))
	require.NoError(t, err)
	return app
}

func applyInput(jobID uuid.UUID) services.ApplyInput {
	return services.ApplyInput{
		JobID:             jobID.String(),
		Proposal:          "I have built many landing pages like this.",
		ExpectedBudget:    500,
		FreelancerContact: "f@x.com",
	}
}

func assertCode(t *testing.T, err error, code utils.Code) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, code), "want %s, got %v", code, err)
}

func TestRegisterNeverReturnsPassword(t *testing.T) {
	f := newFixture()
	u := f.user(t, models.RoleClient)

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), u.Password)
	assert.Equal(t, pq.StringArray{"client"}, u.Roles)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture()
	in := services.RegisterInput{
		FirstName: "A", LastName: "B", Email: uuid.NewString()[:8] + "@example.com",
		Password: "secret123", Role: "freelancer",
	}
	_, err := f.auth.Register(context.Background(), in)
	require.NoError(t, err)

	in.Email = "  " + in.Email + "  "
	_, err = f.auth.Register(context.Background(), in)
	assertCode(t, err, utils.CodeConflict)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture()
	_, err := f.auth.Register(context.Background(), services.RegisterInput{
		Email: "nope", Password: "123", Role: "admin",
	})
	assertCode(t, err, utils.CodeInvalidArgument)

	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	for _, field := range []string{"first_name", "last_name", "email", "password", "role"} {
		assert.Contains(t, ae.Fields, field)
	}
}

func TestLoginDoesNotLeakUserExistence(t *testing.T) {
	f := newFixture()
	u := f.user(t, models.RoleClient)

	_, wrongPw := f.auth.Login(context.Background(), services.LoginInput{Email: u.Email, Password: "wrong-password"})
	_, noUser := f.auth.Login(context.Background(), services.LoginInput{Email: "ghost-" + u.Email, Password: "secret123"})

	assertCode(t, wrongPw, utils.CodeUnauthorized)
	assertCode(t, noUser, utils.CodeUnauthorized)

	var a, b *utils.AppError
	require.ErrorAs(t, wrongPw, &a)
	require.ErrorAs(t, noUser, &b)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, "invalid email or password", a.Message)
}

func TestLoginIssuesRoleToken(t *testing.T) {
	f := newFixture()
	u := f.user(t, models.RoleFreelancer, models.RoleClient)

	res, err := f.auth.Login(context.Background(), services.LoginInput{Email: u.Email, Password: "secret123"})
	require.NoError(t, err)
	claims, err := utils.ParseJWT(jwtSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, "freelancer", claims.Role)
	assert.ElementsMatch(t, []string{"freelancer", "client"}, claims.Roles)

	res, err = f.auth.Login(context.Background(), services.LoginInput{Email: u.Email, Password: "secret123", Role: "client"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, res.Role)
}

func TestSwitchRole(t *testing.T) {
	f := newFixture()
	single := f.user(t, models.RoleClient)
	dual := f.user(t, models.RoleClient, models.RoleFreelancer)

	_, err := f.auth.SwitchRole(context.Background(), single.ID, "freelancer")
	assertCode(t, err, utils.CodeForbidden)

	_, err = f.auth.SwitchRole(context.Background(), dual.ID, "admin")
	assertCode(t, err, utils.CodeInvalidArgument)

	res, err := f.auth.SwitchRole(context.Background(), dual.ID, "freelancer")
	require.NoError(t, err)
	claims, err := utils.ParseJWT(jwtSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "freelancer", claims.Role)
}

func TestLoginWithGoogleFindsOrCreates(t *testing.T) {
	f := newFixture()
	email := uuid.NewString()[:8] + "@gmail.com"

	first, err := f.auth.LoginWithGoogle(context.Background(), email, "Gina", "G", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, first.Role)

	second, err := f.auth.LoginWithGoogle(context.Background(), email, "Gina", "G", "")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestCreateJobValidation(t *testing.T) {
	f := newFixture()
	c := f.user(t, models.RoleClient)

	_, err := f.jobs.Create(context.Background(), c.ID, services.JobInput{
		Title: "Hi", Description: "short", Budget: 0, Deadline: "2001-01-01",
	})
	assertCode(t, err, utils.CodeInvalidArgument)

	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"title must be at least 5 characters"}, ae.Fields["title"])
	assert.Equal(t, []string{"budget must be greater than 0"}, ae.Fields["budget"])
	assert.Contains(t, ae.Fields, "description")
	assert.Contains(t, ae.Fields, "category")
	assert.Contains(t, ae.Fields, "deadline")
}

func TestApplyTwiceConflicts(t *testing.T) {
	f := newFixture()
	c := f.user(t, models.RoleClient)
	fr := f.user(t, models.RoleFreelancer)
	j := f.job(t, c.ID, "web", 1000)

	f.apply(t, fr.ID, j.ID)
	_, err := f.hiring.Apply(context.Background(), fr.ID, applyInput(j.ID))
	assertCode(t, err, utils.CodeConflict)

	assert.Equal(t, []string{realtime.EventApplicationReceived}, f.notifier.For(c.ID))
}

func TestConcurrentApplyYieldsOneRow(t *testing.T) {
	f := newFixture()
	c := f.user(t, models.RoleClient)
	fr := f.user(t, models.RoleFreelancer)
	j := f.job(t, c.ID, "web", 1000)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.hiring.Apply(context.Background(), fr.ID, applyInput(j.ID))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, utils.IsCode(err, utils.CodeConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, gdb.Model(&models.JobApplication{}).Where("job_id = ?", j.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApplyEdgeCases(t *testing.T) {
	f := newFixture()
	dual := f.user(t, models.RoleClient, models.RoleFreelancer)
	j := f.job(t, dual.ID, "web", 1000)

	_, err := f.hiring.Apply(context.Background(), dual.ID, applyInput(j.ID))
	assertCode(t, err, utils.CodeForbidden)

	_, err = f.hiring.Apply(context.Background(), dual.ID, applyInput(uuid.New()))
	assertCode(t, err, utils.CodeNotFound)

	in := applyInput(j.ID)
	in.Proposal = "too short"
	in.ExpectedBudget = -1
	in.FreelancerContact = ""
	_, err = f.hiring.Apply(context.Background(), dual.ID, in)
	assertCode(t, err, utils.CodeInvalidArgument)
}

func TestHireScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.user(t, models.RoleClient)
	f1 := f.user(t, models.RoleFreelancer)
	f2 := f.user(t, models.RoleFreelancer)
	f3 := f.user(t, models.RoleFreelancer)
	j := f.job(t, c.ID, "design", 800)

	a1 := f.apply(t, f1.ID, j.ID)
	a2 := f.apply(t, f2.ID, j.ID)
	a3 := f.apply(t, f3.ID, j.ID)
	_, err := f.hiring.Reject(ctx, c.ID, a3.ID)
	require.NoError(t, err)

	res, err := f.hiring.Hire(ctx, c.ID, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationHired, res.Application.Status)
	assert.Equal(t, models.JobStatusClosed, res.JobStatus)
	// a3 was already rejected; only a2 changes here
	assert.EqualValues(t, 1, res.Rejected)

	st, err := f.hiring.Status(ctx, f1.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationHired, st.Status)

	st, err = f.hiring.Status(ctx, f2.ID, j.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, st.Status)

	got, err := f.jobs.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, got.Status)

	_, err = f.hiring.Hire(ctx, c.ID, a2.ID)
	assertCode(t, err, utils.CodeConflict)
	_, err = f.hiring.Hire(ctx, c.ID, a1.ID)
	assertCode(t, err, utils.CodeConflict)
	_, err = f.hiring.Reject(ctx, c.ID, a1.ID)
	assertCode(t, err, utils.CodeConflict)

	_, err = f.hiring.Apply(ctx, f.user(t, models.RoleFreelancer).ID, applyInput(j.ID))
	assertCode(t, err, utils.CodeConflict)

	_, err = f.jobs.Update(ctx, c.ID, j.ID, services.JobInput{
		Title: "Updated title", Description: "An updated description that is long enough.",
		Budget: 900, Category: "design", Deadline: deadline(10),
	})
	assertCode(t, err, utils.CodeConflict)

	assert.Contains(t, f.notifier.For(f1.ID), realtime.EventApplicationHired)
	assert.Contains(t, f.notifier.For(f2.ID), realtime.EventApplicationRejected)
}

func TestHireAuthorization(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.user(t, models.RoleClient)
	other := f.user(t, models.RoleClient)
	fr := f.user(t, models.RoleFreelancer)
	j := f.job(t, c.ID, "web", 300)
	a := f.apply(t, fr.ID, j.ID)

	_, err := f.hiring.Hire(ctx, other.ID, a.ID)
	assertCode(t, err, utils.CodeForbidden)

	_, err = f.hiring.Hire(ctx, c.ID, uuid.New())
	assertCode(t, err, utils.CodeNotFound)

	_, err = f.hiring.ListForJob(ctx, other.ID, j.ID)
	assertCode(t, err, utils.CodeForbidden)

	apps, err := f.hiring.ListForJob(ctx, c.ID, j.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.NotNil(t, apps[0].Freelancer)
	assert.Equal(t, fr.ID, apps[0].Freelancer.ID)

	mine, err := f.hiring.ListMine(ctx, fr.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Job)
	assert.Equal(t, j.ID, mine[0].Job.ID)
}

func TestConcurrentHireHiresExactlyOne(t *testing.T) {
	f := newFixture()
	c := f.user(t, models.RoleClient)
	j := f.job(t, c.ID, "web", 1000)

	const n = 6
	apps := make([]*models.JobApplication, n)
	for i := range apps {
		apps[i] = f.apply(t, f.user(t, models.RoleFreelancer).ID, j.ID)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range apps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.hiring.Hire(context.Background(), c.ID, apps[i].ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, utils.IsCode(err, utils.CodeConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	var hired, rejected int64
	gdb.Model(&models.JobApplication{}).Where("job_id = ? AND status = ?", j.ID, models.ApplicationHired).Count(&hired)
	gdb.Model(&models.JobApplication{}).Where("job_id = ? AND status = ?", j.ID, models.ApplicationRejected).Count(&rejected)
	assert.EqualValues(t, 1, hired)
	assert.EqualValues(t, n-1, rejected)
}

func TestConcurrentApplyAndHireLeavesNoPending(t *testing.T) {
	f := newFixture()
	c := f.user(t, models.RoleClient)
	j := f.job(t, c.ID, "web", 1000)
	first := f.apply(t, f.user(t, models.RoleFreelancer).ID, j.ID)

	const n = 8
	applicants := make([]uuid.UUID, n)
	for i := range applicants {
		applicants[i] = f.user(t, models.RoleFreelancer).ID
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	var hireErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, hireErr = f.hiring.Hire(context.Background(), c.ID, first.ID)
	}()
	for i := range applicants {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.hiring.Apply(context.Background(), applicants[i], applyInput(j.ID))
		}(i)
	}
	wg.Wait()

	require.NoError(t, hireErr)
	for _, err := range errs {
		if err != nil {
			assert.True(t, utils.IsCode(err, utils.CodeConflict), "unexpected error: %v", err)
		}
	}

	var pending int64
	gdb.Model(&models.JobApplication{}).Where("job_id = ? AND status = ?", j.ID, models.ApplicationPending).Count(&pending)
	assert.Zero(t, pending, "an application landed on the closed job")
}

func TestToggleSavedIsSelfInverse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.user(t, models.RoleClient)
	fr := f.user(t, models.RoleFreelancer)
	j := f.job(t, c.ID, "web", 100)

	before, err := f.saved.List(ctx, fr.ID)
	require.NoError(t, err)

	saved, err := f.saved.Toggle(ctx, fr.ID, j.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	list, err := f.saved.List(ctx, fr.ID)
	require.NoError(t, err)
	require.Len(t, list, len(before)+1)
	assert.Equal(t, j.ID, list[0].Job.ID)

	saved, err = f.saved.Toggle(ctx, fr.ID, j.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	after, err := f.saved.List(ctx, fr.ID)
	require.NoError(t, err)
	assert.Len(t, after, len(before))

	_, err = f.saved.Toggle(ctx, fr.ID, uuid.New())
	assertCode(t, err, utils.CodeNotFound)

	require.NoError(t, f.saved.Remove(ctx, fr.ID, j.ID))
	require.NoError(t, f.saved.Remove(ctx, fr.ID, j.ID))
}

func TestOwnershipChecksIgnorePayload(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, models.RoleClient, models.RoleFreelancer)
	intruder := f.user(t, models.RoleClient, models.RoleFreelancer)

	j := f.job(t, owner.ID, "web", 100)
	sk, err := f.skills.Create(ctx, owner.ID, services.SkillInput{Name: "Go"})
	require.NoError(t, err)
	p, err := f.projects.Create(ctx, owner.ID, services.ProjectInput{SkillID: sk.ID.String(), Title: "API", PriceMin: 1, PriceMax: 2})
	require.NoError(t, err)

	_, err = f.jobs.Update(ctx, intruder.ID, j.ID, services.JobInput{})
	assertCode(t, err, utils.CodeForbidden)
	assertCode(t, f.jobs.Delete(ctx, intruder.ID, j.ID), utils.CodeForbidden)

	_, err = f.skills.Update(ctx, intruder.ID, sk.ID, services.SkillInput{})
	assertCode(t, err, utils.CodeForbidden)
	assertCode(t, f.skills.Delete(ctx, intruder.ID, sk.ID), utils.CodeForbidden)

	_, err = f.projects.Update(ctx, intruder.ID, p.ID, services.ProjectUpdateInput{PriceMin: 10, PriceMax: 1})
	assertCode(t, err, utils.CodeForbidden)
	assertCode(t, f.projects.Delete(ctx, intruder.ID, p.ID), utils.CodeForbidden)

	_, err = f.projects.Create(ctx, intruder.ID, services.ProjectInput{SkillID: sk.ID.String(), Title: "Mine now"})
	assertCode(t, err, utils.CodeForbidden)
}

func TestJobUpdateAndDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.user(t, models.RoleClient)
	fr := f.user(t, models.RoleFreelancer)
	j := f.job(t, c.ID, "web", 100)

	updated, err := f.jobs.Update(ctx, c.ID, j.ID, services.JobInput{
		Title: "A better title", Description: "A description with at least twenty chars.",
		Budget: 250, Category: "mobile", Deadline: deadline(30),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(250), updated.Budget)
	assert.Equal(t, "mobile", updated.Category)

	f.apply(t, fr.ID, j.ID)
	_, err = f.saved.Toggle(ctx, fr.ID, j.ID)
	require.NoError(t, err)

	require.NoError(t, f.jobs.Delete(ctx, c.ID, j.ID))

	var apps, saved int64
	gdb.Model(&models.JobApplication{}).Where("job_id = ?", j.ID).Count(&apps)
	gdb.Model(&models.SavedJob{}).Where("job_id = ?", j.ID).Count(&saved)
	assert.Zero(t, apps)
	assert.Zero(t, saved)

	_, err = f.jobs.Get(ctx, j.ID)
	assertCode(t, err, utils.CodeNotFound)
}

func TestJobBoardFiltersAndCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	mc := &memCache{}
	f.jobs = services.NewJobService(gdb, mc, time.Minute)
	f.hiring = services.NewHiringService(gdb, f.jobs, f.notifier)

	c := f.user(t, models.RoleClient)
	cat := "cat-" + uuid.NewString()[:8]
	cheap := f.job(t, c.ID, cat, 100)
	mid := f.job(t, c.ID, cat, 500)
	f.job(t, c.ID, cat, 900)

	page, err := f.jobs.ListOpen(ctx, services.JobFilter{Category: cat, Sort: "budget_low"})
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Total)
	assert.Equal(t, cheap.ID, page.Items[0].ID)
	require.NotNil(t, page.Items[0].Client)
	assert.Equal(t, c.ID, page.Items[0].Client.ID)

	page, err = f.jobs.ListOpen(ctx, services.JobFilter{Category: cat, MinBudget: 200, MaxBudget: 600})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, mid.ID, page.Items[0].ID)

	page, err = f.jobs.ListOpen(ctx, services.JobFilter{Category: cat, Limit: 2, Page: 2, Sort: "budget_high"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, cheap.ID, page.Items[0].ID)

	_, err = f.jobs.ListOpen(ctx, services.JobFilter{Sort: "random"})
	assertCode(t, err, utils.CodeInvalidArgument)
	_, err = f.jobs.ListOpen(ctx, services.JobFilter{MinBudget: 10, MaxBudget: 5})
	assertCode(t, err, utils.CodeInvalidArgument)

	page, err = f.jobs.ListOpen(ctx, services.JobFilter{Category: cat})
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Total)
	assert.NotEmpty(t, mc.data)

	// a hire closes the job and must drop it from the cached board
	fr := f.user(t, models.RoleFreelancer)
	a := f.apply(t, fr.ID, cheap.ID)
	_, err = f.hiring.Hire(ctx, c.ID, a.ID)
	require.NoError(t, err)

	page, err = f.jobs.ListOpen(ctx, services.JobFilter{Category: cat})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	for _, j := range page.Items {
		assert.NotEqual(t, cheap.ID, j.ID)
	}
}

func TestSkillDeleteCascadesToProjects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	fr := f.user(t, models.RoleFreelancer)

	sk, err := f.skills.Create(ctx, fr.ID, services.SkillInput{Name: "Illustration", Description: "Digital art"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := f.projects.Create(ctx, fr.ID, services.ProjectInput{
			SkillID: sk.ID.String(), Title: fmt.Sprintf("Piece %d", i), PriceMin: 10, PriceMax: 20,
		})
		require.NoError(t, err)
	}

	skills, err := f.skills.ListByUser(ctx, fr.ID)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Len(t, skills[0].Projects, 3)

	require.NoError(t, f.skills.Delete(ctx, fr.ID, sk.ID))

	var left int64
	gdb.Model(&models.Project{}).Where("skill_id = ?", sk.ID).Count(&left)
	assert.Zero(t, left)

	_, err = f.projects.ListBySkill(ctx, sk.ID)
	assertCode(t, err, utils.CodeNotFound)
}

func TestProjectContactAndPrices(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	fr := f.user(t, models.RoleFreelancer)
	other := f.user(t, models.RoleFreelancer)

	sk, err := f.skills.Create(ctx, fr.ID, services.SkillInput{Name: "Video"})
	require.NoError(t, err)

	_, err = f.projects.Create(ctx, fr.ID, services.ProjectInput{SkillID: sk.ID.String(), Title: "Reel", PriceMin: 50, PriceMax: 10})
	assertCode(t, err, utils.CodeInvalidArgument)

	noContact, err := f.projects.Create(ctx, fr.ID, services.ProjectInput{SkillID: sk.ID.String(), Title: "Reel", PriceMin: 10, PriceMax: 50})
	require.NoError(t, err)
	assert.Nil(t, noContact.ContactMethodID)

	cm, err := f.users.UpsertContact(ctx, fr.ID, services.ContactInput{Whatsapp: "+62811"})
	require.NoError(t, err)
	withContact, err := f.projects.Create(ctx, fr.ID, services.ProjectInput{SkillID: sk.ID.String(), Title: "Promo", MediaURL: "https://img.example.com/a.png"})
	require.NoError(t, err)
	require.NotNil(t, withContact.ContactMethodID)
	assert.Equal(t, cm.ID, *withContact.ContactMethodID)

	otherCM, err := f.users.UpsertContact(ctx, other.ID, services.ContactInput{Email: "o@example.com"})
	require.NoError(t, err)
	_, err = f.projects.Create(ctx, fr.ID, services.ProjectInput{SkillID: sk.ID.String(), Title: "Stolen", ContactMethodID: otherCM.ID.String()})
	assertCode(t, err, utils.CodeForbidden)

	updated, err := f.projects.Update(ctx, fr.ID, noContact.ID, services.ProjectUpdateInput{Title: "Reel v2", PriceMin: 20, PriceMax: 60})
	require.NoError(t, err)
	assert.Equal(t, "Reel v2", updated.Title)
	assert.Equal(t, int64(60), updated.PriceMax)

	list, err := f.projects.ListBySkill(ctx, sk.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, f.projects.Delete(ctx, fr.ID, noContact.ID))
	_, err = f.projects.Update(ctx, fr.ID, noContact.ID, services.ProjectUpdateInput{Title: "gone"})
	assertCode(t, err, utils.CodeNotFound)
}

func TestUserUpdateAndContactUpsert(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, models.RoleClient)
	other := f.user(t, models.RoleClient)

	name := "Renamed"
	_, err := f.users.Update(ctx, other.ID, u.ID, services.UserUpdateInput{FirstName: &name})
	assertCode(t, err, utils.CodeForbidden)

	roles := []string{"client", "freelancer", "client"}
	bad := "not a url"
	_, err = f.users.Update(ctx, u.ID, u.ID, services.UserUpdateInput{ProfilePicture: &bad})
	assertCode(t, err, utils.CodeInvalidArgument)

	got, err := f.users.Update(ctx, u.ID, u.ID, services.UserUpdateInput{
		FirstName: &name,
		Roles:     &roles,
		Contact:   &services.ContactInput{Whatsapp: "+62812", Linkedin: "https://linkedin.com/in/x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.FirstName)
	assert.Equal(t, pq.StringArray{"client", "freelancer"}, got.Roles)
	require.NotNil(t, got.ContactMethod)
	assert.Equal(t, "+62812", got.ContactMethod.Whatsapp)

	cm, err := f.users.UpsertContact(ctx, u.ID, services.ContactInput{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, got.ContactMethod.ID, cm.ID)
	assert.Equal(t, "new@example.com", cm.Email)
	assert.Empty(t, cm.Whatsapp)

	var rows int64
	gdb.Model(&models.ContactMethod{}).Where("user_id = ?", u.ID).Count(&rows)
	assert.EqualValues(t, 1, rows)

	_, err = f.users.GetContact(ctx, other.ID)
	assertCode(t, err, utils.CodeNotFound)

	_, err = f.users.Get(ctx, uuid.New())
	assertCode(t, err, utils.CodeNotFound)
}

func TestUserUpdateRejectsEmptyRoles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, models.RoleClient, models.RoleFreelancer)

	empty := []string{}
	_, err := f.users.Update(ctx, u.ID, u.ID, services.UserUpdateInput{Roles: &empty})
	assertCode(t, err, utils.CodeInvalidArgument)

	// what {"roles":"freelancer"} leaves behind after a failed decode
	var mistyped []string
	_, err = f.users.Update(ctx, u.ID, u.ID, services.UserUpdateInput{Roles: &mistyped})
	assertCode(t, err, utils.CodeInvalidArgument)

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"client", "freelancer"}, got.Roles)
}

func TestHeldRolesFollowsTheDatabase(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.user(t, models.RoleClient, models.RoleFreelancer)

	held, err := f.auth.HeldRoles(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"client", "freelancer"}, held)

	only := []string{"client"}
	_, err = f.users.Update(ctx, u.ID, u.ID, services.UserUpdateInput{Roles: &only})
	require.NoError(t, err)
	held, err = f.auth.HeldRoles(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"client"}, held)

	require.NoError(t, gdb.Model(&models.User{}).Where("id = ?", u.ID).Update("is_active", false).Error)
	_, err = f.auth.HeldRoles(ctx, u.ID)
	assertCode(t, err, utils.CodeForbidden)

	_, err = f.auth.HeldRoles(ctx, uuid.New())
	assertCode(t, err, utils.CodeUnauthorized)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	dash := services.NewDashboardService(gdb)
	c := f.user(t, models.RoleClient)
	fr := f.user(t, models.RoleFreelancer)
	rival := f.user(t, models.RoleFreelancer)

	j1 := f.job(t, c.ID, "web", 100)
	j2 := f.job(t, c.ID, "web", 200)
	a1 := f.apply(t, fr.ID, j1.ID)
	f.apply(t, rival.ID, j1.ID)
	f.apply(t, fr.ID, j2.ID)
	_, err := f.hiring.Hire(ctx, c.ID, a1.ID)
	require.NoError(t, err)
	_, err = f.saved.Toggle(ctx, fr.ID, j2.ID)
	require.NoError(t, err)
	sk, err := f.skills.Create(ctx, fr.ID, services.SkillInput{Name: "Go"})
	require.NoError(t, err)
	_, err = f.projects.Create(ctx, fr.ID, services.ProjectInput{SkillID: sk.ID.String(), Title: "CLI"})
	require.NoError(t, err)

	fs, err := dash.Freelancer(ctx, fr.ID)
	require.NoError(t, err)
	assert.Equal(t, services.FreelancerStats{
		Applications: 2, Pending: 1, Hired: 1, SavedJobs: 1, Skills: 1, Projects: 1,
	}, *fs)

	cs, err := dash.Client(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, services.ClientStats{
		Jobs: 2, OpenJobs: 1, ClosedJobs: 1, Applications: 3, PendingApplication: 1,
	}, *cs)
}

func TestCategoriesListOnlyOpenJobs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.user(t, models.RoleClient)
	fr := f.user(t, models.RoleFreelancer)

	open := "open-" + uuid.NewString()[:8]
	closed := "closed-" + uuid.NewString()[:8]
	f.job(t, c.ID, open, 100)
	j := f.job(t, c.ID, closed, 100)
	_, err := f.hiring.Hire(ctx, c.ID, f.apply(t, fr.ID, j.ID).ID)
	require.NoError(t, err)

	cats, err := f.jobs.Categories(ctx)
	require.NoError(t, err)
	assert.Contains(t, cats, open)
	assert.NotContains(t, cats, closed)
}
