package project

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/server/internal/module/team"
	"go.uber.org/zap"
)

type fakeRepo struct {
	projects map[uuid.UUID]*Project
	tasks    map[uuid.UUID]*Task
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		projects: make(map[uuid.UUID]*Project),
		tasks:    make(map[uuid.UUID]*Task),
	}
}

func (f *fakeRepo) Create(_ context.Context, p *Project) error {
	f.projects[p.ID] = p
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*Project, error) {
	var out []*Project
	for _, p := range f.projects {
		if p.OwnerID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, p *Project) error {
	f.projects[p.ID] = p
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.projects[id]; !ok {
		return ErrProjectNotFound
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeRepo) CreateTask(_ context.Context, t *Task) error {
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeRepo) GetTask(_ context.Context, id uuid.UUID) (*Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeRepo) ListTasks(_ context.Context, projectID uuid.UUID) ([]*Task, error) {
	var out []*Task
	for _, t := range f.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateTask(_ context.Context, t *Task) error {
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeRepo) DeleteTask(_ context.Context, id uuid.UUID) error {
	if _, ok := f.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

type fakeTeamGate struct {
	allowAccess bool
	managerName string
	enrolled    []team.AddMemberInput
	addErr      error
}

func (f *fakeTeamGate) CanAccessTeam(_ context.Context, _, _ uuid.UUID) bool {
	return f.allowAccess
}

func (f *fakeTeamGate) ResolveManagerName(_ context.Context, _ uuid.UUID, _ string) string {
	if f.managerName == "" {
		return team.NotAssigned
	}
	return f.managerName
}

func (f *fakeTeamGate) AddMember(_ context.Context, _ uuid.UUID, input team.AddMemberInput) (*team.TeamMember, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.enrolled = append(f.enrolled, input)
	return &team.TeamMember{DisplayName: input.DisplayName}, nil
}

func newTestService(repo Repository, gate TeamGate) *Service {
	return NewService(repo, gate, zap.NewNop())
}

func TestCreateEnrollsOwnerAsManager(t *testing.T) {
	repo := newFakeRepo()
	gate := &fakeTeamGate{}
	svc := newTestService(repo, gate)
	ownerID := uuid.New()

	project, err := svc.Create(context.Background(), ownerID, CreateInput{
		Name:      "Apollo",
		OwnerName: "Ann",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPlanning, project.Status)
	require.Len(t, gate.enrolled, 1)
	assert.Equal(t, string(team.RoleProjectManager), gate.enrolled[0].Role)
	assert.Equal(t, ownerID, *gate.enrolled[0].UserID)
}

func TestCreateSucceedsWhenEnrollmentFails(t *testing.T) {
	repo := newFakeRepo()
	gate := &fakeTeamGate{addErr: team.ErrGatewayFailure}
	svc := newTestService(repo, gate)

	project, err := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "Apollo"})

	require.NoError(t, err)
	assert.Contains(t, repo.projects, project.ID)
}

func TestGetOwnerBypassesGate(t *testing.T) {
	repo := newFakeRepo()
	gate := &fakeTeamGate{allowAccess: false}
	svc := newTestService(repo, gate)
	ownerID := uuid.New()

	created, err := svc.Create(context.Background(), ownerID, CreateInput{Name: "Apollo"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestGetNonMemberDenied(t *testing.T) {
	repo := newFakeRepo()
	gate := &fakeTeamGate{allowAccess: false}
	svc := newTestService(repo, gate)

	created, err := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "Apollo"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID, uuid.New())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetMemberAllowedThroughGate(t *testing.T) {
	repo := newFakeRepo()
	gate := &fakeTeamGate{allowAccess: true}
	svc := newTestService(repo, gate)

	created, err := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "Apollo"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID, uuid.New())
	assert.NoError(t, err)
}

func TestUpdateOnlyOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeTeamGate{allowAccess: true})
	ownerID := uuid.New()

	created, err := svc.Create(context.Background(), ownerID, CreateInput{Name: "Apollo"})
	require.NoError(t, err)

	name := "Artemis"
	_, err = svc.Update(context.Background(), created.ID, uuid.New(), UpdateInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.Update(context.Background(), created.ID, ownerID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Artemis", updated.Name)
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeTeamGate{})
	ownerID := uuid.New()

	created, err := svc.Create(context.Background(), ownerID, CreateInput{Name: "Apollo"})
	require.NoError(t, err)

	bad := ProjectStatus("launched")
	_, err = svc.Update(context.Background(), created.ID, ownerID, UpdateInput{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTaskLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeTeamGate{allowAccess: true})
	ownerID := uuid.New()

	project, err := svc.Create(context.Background(), ownerID, CreateInput{Name: "Apollo"})
	require.NoError(t, err)

	task, err := svc.CreateTask(context.Background(), project.ID, ownerID, TaskInput{Title: "Design schema"})
	require.NoError(t, err)
	assert.Equal(t, TaskTodo, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)

	done := TaskDone
	updated, err := svc.UpdateTask(context.Background(), project.ID, task.ID, ownerID, TaskUpdate{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, TaskDone, updated.Status)

	require.NoError(t, svc.DeleteTask(context.Background(), project.ID, task.ID, ownerID))

	tasks, err := svc.ListTasks(context.Background(), project.ID, ownerID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUpdateTaskFromOtherProjectNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeTeamGate{allowAccess: true})
	ownerID := uuid.New()

	projectA, err := svc.Create(context.Background(), ownerID, CreateInput{Name: "A"})
	require.NoError(t, err)
	projectB, err := svc.Create(context.Background(), ownerID, CreateInput{Name: "B"})
	require.NoError(t, err)

	task, err := svc.CreateTask(context.Background(), projectA.ID, ownerID, TaskInput{Title: "t"})
	require.NoError(t, err)

	title := "hijack"
	_, err = svc.UpdateTask(context.Background(), projectB.ID, task.ID, ownerID, TaskUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestManagerNameUsesExplicitID(t *testing.T) {
	gate := &fakeTeamGate{managerName: "Ann"}
	svc := newTestService(newFakeRepo(), gate)
	managerID := uuid.New()

	name := svc.ManagerName(context.Background(), &Project{ID: uuid.New(), ManagerID: &managerID})
	assert.Equal(t, "Ann", name)
}
