package schedule

import (
	"context"
	"testing"

	"github.com/asistia/asistencia-backend-go/internal/domain/schedule"
	"github.com/asistia/asistencia-backend-go/internal/domain/shift"
	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTemplateRepo struct {
	templates map[string]shift.Template
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[string]shift.Template)}
}

func (f *fakeTemplateRepo) add(name, start, end string) shift.Template {
	s, _ := timeutil.ParseTimeOfDay(start)
	e, _ := timeutil.ParseTimeOfDay(end)
	tpl := shift.Template{
		ID:        uuid.NewString(),
		Name:      name,
		StartTime: s,
		EndTime:   e,
		IsActive:  true,
	}
	f.templates[tpl.ID] = tpl
	return tpl
}

func (f *fakeTemplateRepo) Create(_ context.Context, tpl shift.Template) (shift.Template, error) {
	tpl.ID = uuid.NewString()
	f.templates[tpl.ID] = tpl
	return tpl, nil
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id string) (shift.Template, error) {
	tpl, ok := f.templates[id]
	if !ok {
		return shift.Template{}, shift.ErrShiftNotFound
	}
	return tpl, nil
}

func (f *fakeTemplateRepo) GetByName(_ context.Context, name string) (shift.Template, error) {
	for _, tpl := range f.templates {
		if tpl.Name == name {
			return tpl, nil
		}
	}
	return shift.Template{}, shift.ErrShiftNotFound
}

func (f *fakeTemplateRepo) List(_ context.Context, activeOnly bool) ([]shift.Template, error) {
	var out []shift.Template
	for _, tpl := range f.templates {
		if activeOnly && !tpl.IsActive {
			continue
		}
		out = append(out, tpl)
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, tpl shift.Template) error {
	if _, ok := f.templates[tpl.ID]; !ok {
		return shift.ErrShiftNotFound
	}
	f.templates[tpl.ID] = tpl
	return nil
}

func (f *fakeTemplateRepo) CountActiveAssignments(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (f *fakeTemplateRepo) Retire(_ context.Context, id string) error {
	tpl, ok := f.templates[id]
	if !ok {
		return shift.ErrShiftNotFound
	}
	tpl.IsActive = false
	f.templates[id] = tpl
	return nil
}

type fakeAssignmentRepo struct {
	assignments    map[string]schedule.Assignment
	attendanceRefs map[string]int64
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		assignments:    make(map[string]schedule.Assignment),
		attendanceRefs: make(map[string]int64),
	}
}

func (f *fakeAssignmentRepo) Create(_ context.Context, a schedule.Assignment) (schedule.Assignment, error) {
	a.ID = uuid.NewString()
	f.assignments[a.ID] = a
	return a, nil
}

func (f *fakeAssignmentRepo) CreateBulk(ctx context.Context, assignments []schedule.Assignment) ([]schedule.Assignment, error) {
	out := make([]schedule.Assignment, 0, len(assignments))
	for _, a := range assignments {
		created, err := f.Create(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id string) (schedule.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return schedule.Assignment{}, schedule.ErrScheduleNotFound
	}
	return a, nil
}

func (f *fakeAssignmentRepo) GetByUser(_ context.Context, userID string) ([]schedule.Assignment, error) {
	var out []schedule.Assignment
	for _, a := range f.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) GetActiveByUserAndWeekday(_ context.Context, userID string, weekday schedule.Weekday) ([]schedule.Assignment, error) {
	var out []schedule.Assignment
	for _, a := range f.assignments {
		if a.UserID == userID && a.Weekday == weekday && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ExistsSlot(_ context.Context, userID string, weekday schedule.Weekday, shiftTemplateID string) (bool, error) {
	for _, a := range f.assignments {
		if a.UserID == userID && a.Weekday == weekday && a.ShiftTemplateID == shiftTemplateID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAssignmentRepo) Update(_ context.Context, a schedule.Assignment) error {
	if _, ok := f.assignments[a.ID]; !ok {
		return schedule.ErrScheduleNotFound
	}
	f.assignments[a.ID] = a
	return nil
}

func (f *fakeAssignmentRepo) CountAttendanceRefs(_ context.Context, id string) (int64, error) {
	return f.attendanceRefs[id], nil
}

func (f *fakeAssignmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.assignments[id]; !ok {
		return schedule.ErrScheduleNotFound
	}
	delete(f.assignments, id)
	return nil
}

func newTestService(templates *fakeTemplateRepo, assignments *fakeAssignmentRepo) schedule.AssignmentService {
	return NewAssignmentService(nil, assignments, templates)
}

func createReq(userID, templateID, weekday, entrada, salida string) schedule.CreateAssignmentRequest {
	return schedule.CreateAssignmentRequest{
		UserID:          userID,
		ShiftTemplateID: templateID,
		Weekday:         weekday,
		Entrada:         entrada,
		Salida:          salida,
		RequiredMinutes: 480,
	}
}

func TestAssignmentCreate(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tpl := templates.add("Morning", "08:00", "16:00")
	svc := newTestService(templates, assignments)

	resp, err := svc.Create(ctx, createReq("user-1", tpl.ID, "MONDAY", "08:00", "16:00"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "MONDAY", resp.Weekday)
	assert.Equal(t, "08:00", resp.Entrada)
	assert.Equal(t, 15, resp.ToleranceEntrada)
	assert.False(t, resp.IsOvernight)
}

func TestAssignmentCreateUnknownShift(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeTemplateRepo(), newFakeAssignmentRepo())

	_, err := svc.Create(ctx, createReq("user-1", uuid.NewString(), "MONDAY", "08:00", "16:00"))
	assert.ErrorIs(t, err, schedule.ErrShiftNotFound)
}

func TestAssignmentCreateDuplicateSlot(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tpl := templates.add("Morning", "08:00", "16:00")
	svc := newTestService(templates, assignments)

	_, err := svc.Create(ctx, createReq("user-1", tpl.ID, "MONDAY", "08:00", "16:00"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createReq("user-1", tpl.ID, "MONDAY", "09:00", "17:00"))
	assert.ErrorIs(t, err, schedule.ErrDuplicateSlot)
}

func TestAssignmentCreateDegenerateWindow(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	tpl := templates.add("Morning", "08:00", "16:00")
	svc := newTestService(templates, newFakeAssignmentRepo())

	_, err := svc.Create(ctx, createReq("user-1", tpl.ID, "MONDAY", "09:00", "09:00"))
	assert.ErrorIs(t, err, schedule.ErrDegenerateWindow)
}

func TestAssignmentOverlapRejected(t *testing.T) {
	tests := []struct {
		name              string
		aEntrada, aSalida string
		bEntrada, bSalida string
		overlap           bool
	}{
		{"partial overlap", "09:00", "17:00", "16:00", "20:00", true},
		{"contained", "09:00", "17:00", "10:00", "12:00", true},
		{"back to back", "08:00", "12:00", "12:00", "16:00", false},
		{"disjoint", "08:00", "12:00", "13:00", "17:00", false},
		{"both overnight", "22:00", "06:00", "23:00", "07:00", true},
		{"overnight vs next morning", "22:00", "06:00", "05:00", "09:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			templates := newFakeTemplateRepo()
			assignments := newFakeAssignmentRepo()
			tplA := templates.add("A", tt.aEntrada, tt.aSalida)
			tplB := templates.add("B", tt.bEntrada, tt.bSalida)
			svc := newTestService(templates, assignments)

			_, err := svc.Create(ctx, createReq("user-1", tplA.ID, "MONDAY", tt.aEntrada, tt.aSalida))
			require.NoError(t, err)

			_, err = svc.Create(ctx, createReq("user-1", tplB.ID, "MONDAY", tt.bEntrada, tt.bSalida))
			if tt.overlap {
				assert.ErrorIs(t, err, schedule.ErrOverlappingSchedule)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssignmentOverlapDifferentWeekday(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tplA := templates.add("A", "09:00", "17:00")
	tplB := templates.add("B", "09:00", "17:00")
	svc := newTestService(templates, assignments)

	_, err := svc.Create(ctx, createReq("user-1", tplA.ID, "MONDAY", "09:00", "17:00"))
	require.NoError(t, err)

	// The same window on another weekday never conflicts.
	_, err = svc.Create(ctx, createReq("user-1", tplB.ID, "TUESDAY", "09:00", "17:00"))
	assert.NoError(t, err)
}

func TestAssignmentOverlapOtherUser(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tpl := templates.add("Morning", "09:00", "17:00")
	svc := newTestService(templates, assignments)

	_, err := svc.Create(ctx, createReq("user-1", tpl.ID, "MONDAY", "09:00", "17:00"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createReq("user-2", tpl.ID, "MONDAY", "09:00", "17:00"))
	assert.NoError(t, err)
}

func TestBulkCreateAtomicOnInBatchConflict(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tplA := templates.add("A", "08:00", "12:00")
	tplB := templates.add("B", "10:00", "14:00")
	svc := newTestService(templates, assignments)

	_, err := svc.CreateBulk(ctx, schedule.BulkCreateRequest{
		UserID: "user-1",
		Entries: []schedule.BulkAssignmentEntry{
			{ShiftTemplateID: tplA.ID, Weekday: "MONDAY", Entrada: "08:00", Salida: "12:00"},
			{ShiftTemplateID: tplB.ID, Weekday: "MONDAY", Entrada: "10:00", Salida: "14:00"},
		},
	})
	assert.ErrorIs(t, err, schedule.ErrOverlappingSchedule)
	assert.Empty(t, assignments.assignments, "no entry of a failed batch may be persisted")
}

func TestBulkCreateInBatchDuplicateSlot(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tpl := templates.add("A", "08:00", "12:00")
	svc := newTestService(templates, assignments)

	_, err := svc.CreateBulk(ctx, schedule.BulkCreateRequest{
		UserID: "user-1",
		Entries: []schedule.BulkAssignmentEntry{
			{ShiftTemplateID: tpl.ID, Weekday: "MONDAY", Entrada: "08:00", Salida: "12:00"},
			{ShiftTemplateID: tpl.ID, Weekday: "MONDAY", Entrada: "13:00", Salida: "17:00"},
		},
	})
	assert.ErrorIs(t, err, schedule.ErrDuplicateSlot)
	assert.Empty(t, assignments.assignments)
}

func TestBulkCreateSuccess(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tpl := templates.add("Morning", "08:00", "16:00")
	svc := newTestService(templates, assignments)

	created, err := svc.CreateBulk(ctx, schedule.BulkCreateRequest{
		UserID: "user-1",
		Entries: []schedule.BulkAssignmentEntry{
			{ShiftTemplateID: tpl.ID, Weekday: "MONDAY", Entrada: "08:00", Salida: "16:00"},
			{ShiftTemplateID: tpl.ID, Weekday: "TUESDAY", Entrada: "08:00", Salida: "16:00"},
			{ShiftTemplateID: tpl.ID, Weekday: "WEDNESDAY", Entrada: "08:00", Salida: "16:00"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, created, 3)
	assert.Len(t, assignments.assignments, 3)
}

func TestUpdateRevalidatesOnWindowChange(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tplA := templates.add("A", "08:00", "12:00")
	tplB := templates.add("B", "13:00", "17:00")
	svc := newTestService(templates, assignments)

	_, err := svc.Create(ctx, createReq("user-1", tplA.ID, "MONDAY", "08:00", "12:00"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createReq("user-1", tplB.ID, "MONDAY", "13:00", "17:00"))
	require.NoError(t, err)

	entrada := "11:00"
	_, err = svc.Update(ctx, schedule.UpdateAssignmentRequest{
		ID:      second.ID,
		Entrada: &entrada,
	})
	assert.ErrorIs(t, err, schedule.ErrOverlappingSchedule)
}

func TestUpdateExcludesSelfFromOverlapCheck(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tpl := templates.add("Morning", "08:00", "16:00")
	svc := newTestService(templates, assignments)

	created, err := svc.Create(ctx, createReq("user-1", tpl.ID, "MONDAY", "08:00", "16:00"))
	require.NoError(t, err)

	entrada := "09:00"
	updated, err := svc.Update(ctx, schedule.UpdateAssignmentRequest{
		ID:      created.ID,
		Entrada: &entrada,
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", updated.Entrada)
}

func TestUpdateReactivationRechecksOverlap(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tplA := templates.add("Morning", "08:00", "16:00")
	tplB := templates.add("Core hours", "10:00", "14:00")
	svc := newTestService(templates, assignments)

	first, err := svc.Create(ctx, createReq("user-1", tplA.ID, "MONDAY", "08:00", "16:00"))
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(ctx, schedule.UpdateAssignmentRequest{
		ID:       first.ID,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	// With the first assignment dormant the overlapping window is legal.
	_, err = svc.Create(ctx, createReq("user-1", tplB.ID, "MONDAY", "10:00", "14:00"))
	require.NoError(t, err)

	// Reactivating the first would put two overlapping assignments back
	// into the active set, so it must fail the same way a window change
	// into a collision does.
	active := true
	_, err = svc.Update(ctx, schedule.UpdateAssignmentRequest{
		ID:       first.ID,
		IsActive: &active,
	})
	assert.ErrorIs(t, err, schedule.ErrOverlappingSchedule)

	stored, err := assignments.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestUpdateWeekdayChangeToOccupiedSlot(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tpl := templates.add("Morning", "08:00", "16:00")
	svc := newTestService(templates, assignments)

	_, err := svc.Create(ctx, createReq("user-1", tpl.ID, "MONDAY", "08:00", "16:00"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createReq("user-1", tpl.ID, "TUESDAY", "08:00", "16:00"))
	require.NoError(t, err)

	weekday := "MONDAY"
	_, err = svc.Update(ctx, schedule.UpdateAssignmentRequest{
		ID:      second.ID,
		Weekday: &weekday,
	})
	assert.ErrorIs(t, err, schedule.ErrDuplicateSlot)
}

func TestDeleteBlockedByAttendanceRefs(t *testing.T) {
	ctx := context.Background()
	templates := newFakeTemplateRepo()
	assignments := newFakeAssignmentRepo()
	tpl := templates.add("Morning", "08:00", "16:00")
	svc := newTestService(templates, assignments)

	created, err := svc.Create(ctx, createReq("user-1", tpl.ID, "MONDAY", "08:00", "16:00"))
	require.NoError(t, err)

	assignments.attendanceRefs[created.ID] = 3
	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, schedule.ErrScheduleInUse)

	assignments.attendanceRefs[created.ID] = 0
	require.NoError(t, svc.Delete(ctx, created.ID))
}

func TestCreateValidationErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeTemplateRepo(), newFakeAssignmentRepo())

	_, err := svc.Create(ctx, schedule.CreateAssignmentRequest{
		UserID:          "",
		ShiftTemplateID: "",
		Weekday:         "FUNDAY",
		Entrada:         "25:99",
		Salida:          "16:00",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, schedule.ErrShiftNotFound)
}
