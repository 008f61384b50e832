package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthdays/internal/api"
	"github.com/tartampluch/birthdays/internal/model"
	"github.com/tartampluch/birthdays/internal/store"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockRemote simulates the API layer using `testify/mock`.
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) ListBirthdays(ctx context.Context) ([]model.Record, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]model.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRemote) GetBirthday(ctx context.Context, id string) (model.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRemote) CreateBirthday(ctx context.Context, d model.Draft) (model.Record, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRemote) UpdateBirthday(ctx context.Context, id string, d model.Draft) (model.Record, error) {
	args := m.Called(ctx, id, d)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRemote) DeleteBirthday(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

var ctx = context.Background()

func rec(id, name string, y int, m time.Month, d int) model.Record {
	return model.Record{ID: id, Name: name, BirthdayDate: model.Date{Year: y, Month: m, Day: d}}
}

func seeded(t *testing.T) (*store.Store, *MockRemote) {
	t.Helper()
	remote := new(MockRemote)
	remote.On("ListBirthdays", mock.Anything).Return([]model.Record{
		rec("1", "Ana", 1990, time.May, 10),
		rec("2", "Leo", 2001, time.May, 10),
		rec("3", "Sam", 1985, time.June, 1),
	}, nil).Once()

	s := store.New(remote)
	_, err := s.List(ctx)
	require.NoError(t, err)
	return s, remote
}

func ids(records []model.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

var errTransport = errors.New("connection reset")

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestList_ReplacesCacheAndIndex(t *testing.T) {
	s, remote := seeded(t)

	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Records()))
	may, err := s.Index().InMonth(5)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(may))

	remote.On("ListBirthdays", mock.Anything).Return([]model.Record{rec("9", "Zoe", 1999, time.January, 2)}, nil).Once()
	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"9"}, ids(got))
	assert.Equal(t, []string{"9"}, ids(s.Records()))
	assert.Equal(t, []string{"01-02"}, s.Index().Keys())
	remote.AssertExpectations(t)
}

func TestList_FailureKeepsCache(t *testing.T) {
	s, remote := seeded(t)
	before := s.Index()

	remote.On("ListBirthdays", mock.Anything).Return(nil, errTransport).Once()
	_, err := s.List(ctx)

	assert.ErrorIs(t, err, store.ErrFetch)
	assert.ErrorIs(t, err, errTransport)
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Records()))
	assert.Same(t, before, s.Index(), "Index must not be rebuilt on failure")
}

func TestCreate_ValidationFailsWithoutNetwork(t *testing.T) {
	remote := new(MockRemote)
	s := store.New(remote)

	tests := []struct {
		name  string
		draft model.Draft
		field string
	}{
		{"Missing name", model.Draft{BirthdayDate: &model.Date{Year: 1990, Month: time.May, Day: 10}}, model.FieldName},
		{"Blank name", model.Draft{Name: "  ", BirthdayDate: &model.Date{Year: 1990, Month: time.May, Day: 10}}, model.FieldName},
		{"Missing date", model.Draft{Name: "Ana"}, model.FieldBirthdayDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.draft)
			require.ErrorIs(t, err, model.ErrValidation)

			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	remote.AssertNotCalled(t, "CreateBirthday", mock.Anything, mock.Anything)
	assert.Empty(t, s.Records())
}

func TestCreate_AppendsServerRecord(t *testing.T) {
	s, remote := seeded(t)

	stale := model.TimeOfDay{Hour: 8, Minute: 0}
	draft := model.Draft{
		Name:            "Mia",
		BirthdayDate:    &model.Date{Year: 2010, Month: time.May, Day: 10},
		ReminderEnabled: false,
		ReminderTime:    &stale,
	}

	created := rec("42", "Mia", 2010, time.May, 10)
	created.ReminderTime = &stale // server echoing a stale value
	remote.On("CreateBirthday", mock.Anything, mock.MatchedBy(func(d model.Draft) bool {
		return d.ReminderTime == nil
	})).Return(created, nil).Once()

	got, err := s.Create(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "42", got.ID)
	assert.Nil(t, got.ReminderTime, "A disabled reminder never carries a time")

	assert.Equal(t, []string{"1", "2", "3", "42"}, ids(s.Records()))
	onDate := s.Index().OnDate(model.Date{Year: 2030, Month: time.May, Day: 10})
	assert.Equal(t, []string{"1", "2", "42"}, ids(onDate))

	cached, ok := s.Find("42")
	require.True(t, ok)
	assert.Nil(t, cached.ReminderTime)
	remote.AssertExpectations(t)
}

func TestCreate_FailureKeepsCache(t *testing.T) {
	s, remote := seeded(t)
	remote.On("CreateBirthday", mock.Anything, mock.Anything).Return(model.Record{}, errTransport).Once()

	_, err := s.Create(ctx, model.Draft{Name: "Mia", BirthdayDate: &model.Date{Year: 2010, Month: time.May, Day: 10}})
	assert.ErrorIs(t, err, store.ErrCreate)
	assert.ErrorIs(t, err, errTransport)
	assert.Len(t, s.Records(), 3)
}

func TestUpdate_SplicesRecord(t *testing.T) {
	s, remote := seeded(t)

	updated := rec("3", "Samuel", 1985, time.July, 2)
	remote.On("UpdateBirthday", mock.Anything, "3", mock.Anything).Return(updated, nil).Once()

	got, err := s.Update(ctx, "3", updated.Draft())
	require.NoError(t, err)
	assert.Equal(t, "Samuel", got.Name)

	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Records()), "Position is preserved")
	june, _ := s.Index().InMonth(6)
	assert.Empty(t, june)
	july, _ := s.Index().InMonth(7)
	assert.Equal(t, []string{"3"}, ids(july))
}

func TestUpdate_Failures(t *testing.T) {
	s, remote := seeded(t)
	draft := rec("2", "Leonardo", 2001, time.May, 10).Draft()

	notFound := errors.Join(api.ErrNotFound, &api.StatusError{Code: 404})
	remote.On("UpdateBirthday", mock.Anything, "2", mock.Anything).Return(model.Record{}, notFound).Once()

	_, err := s.Update(ctx, "2", draft)
	assert.ErrorIs(t, err, store.ErrUpdate)
	assert.ErrorIs(t, err, api.ErrNotFound)

	cached, ok := s.Find("2")
	require.True(t, ok)
	assert.Equal(t, "Leo", cached.Name, "Cache unchanged on failure")

	_, err = s.Update(ctx, "", draft)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = s.Update(ctx, "2", model.Draft{Name: "x"})
	assert.ErrorIs(t, err, model.ErrValidation)
	remote.AssertNumberOfCalls(t, "UpdateBirthday", 1)
}

func TestUpdate_UnknownIDIsNotInvented(t *testing.T) {
	s, remote := seeded(t)
	other := rec("77", "Elsewhere", 1970, time.March, 3)
	remote.On("UpdateBirthday", mock.Anything, "77", mock.Anything).Return(other, nil).Once()

	_, err := s.Update(ctx, "77", other.Draft())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Records()))
}

func TestRemove_ConfirmedDeletion(t *testing.T) {
	s, remote := seeded(t)
	remote.On("DeleteBirthday", mock.Anything, "2").Return(nil).Once()

	require.NoError(t, s.Remove(ctx, "2"))
	assert.Equal(t, []string{"1", "3"}, ids(s.Records()))
	onDate := s.Index().OnDate(model.Date{Month: time.May, Day: 10})
	assert.Equal(t, []string{"1"}, ids(onDate))
}

func TestRemove_ServerErrorKeepsRecord(t *testing.T) {
	s, remote := seeded(t)
	remote.On("DeleteBirthday", mock.Anything, "2").Return(&api.StatusError{Code: 500}).Once()

	err := s.Remove(ctx, "2")
	assert.ErrorIs(t, err, store.ErrDelete)

	var se *api.StatusError
	assert.ErrorAs(t, err, &se)

	_, ok := s.Find("2")
	assert.True(t, ok, "Record remains visible until deletion is confirmed")
	assert.Len(t, s.Records(), 3)
}

func TestGet(t *testing.T) {
	remote := new(MockRemote)
	s := store.New(remote)

	r := rec("5", "Ivy", 1995, time.April, 4)
	r.ReminderTime = &model.TimeOfDay{Hour: 9}
	remote.On("GetBirthday", mock.Anything, "5").Return(r, nil).Once()
	remote.On("GetBirthday", mock.Anything, "6").Return(model.Record{}, api.ErrNotFound).Once()
	remote.On("GetBirthday", mock.Anything, "7").Return(model.Record{}, api.ErrUnavailable).Once()

	got, err := s.Get(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, "Ivy", got.Name)
	assert.Nil(t, got.ReminderTime)
	assert.Empty(t, s.Records(), "Get does not populate the cache")

	_, err = s.Get(ctx, "6")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Get(ctx, "7")
	assert.ErrorIs(t, err, store.ErrFetch)
	assert.ErrorIs(t, err, api.ErrUnavailable)

	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestRecords_AreDetached(t *testing.T) {
	remote := new(MockRemote)
	r := rec("1", "Ana", 1990, time.May, 10)
	r.ReminderEnabled = true
	r.ReminderTime = &model.TimeOfDay{Hour: 9, Minute: 30}
	remote.On("ListBirthdays", mock.Anything).Return([]model.Record{r}, nil).Once()

	s := store.New(remote)
	_, err := s.List(ctx)
	require.NoError(t, err)

	out := s.Records()
	out[0].Name = "Mutated"
	out[0].ReminderTime.Hour = 23

	day := s.Index().OnDate(model.Date{Month: time.May, Day: 10})
	require.Len(t, day, 1)
	day[0].ReminderTime.Hour = 22

	month, err := s.Index().InMonth(5)
	require.NoError(t, err)
	month[0].ReminderTime.Minute = 1

	s.Index().Records()[0].ReminderTime.Hour = 21
	s.Index().Upcoming(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), 0)[0].Record.ReminderTime.Hour = 20

	found, ok := s.Find("1")
	require.True(t, ok)
	found.ReminderTime.Hour = 19

	again := s.Records()
	assert.Equal(t, "Ana", again[0].Name)
	assert.Equal(t, model.TimeOfDay{Hour: 9, Minute: 30}, *again[0].ReminderTime)

	fromIndex := s.Index().OnDate(model.Date{Month: time.May, Day: 10})
	assert.Equal(t, model.TimeOfDay{Hour: 9, Minute: 30}, *fromIndex[0].ReminderTime)
	found, _ = s.Find("1")
	assert.Equal(t, 9, found.ReminderTime.Hour)
}

func TestReset(t *testing.T) {
	s, _ := seeded(t)
	s.Reset()

	assert.Empty(t, s.Records())
	assert.Equal(t, 0, s.Index().Len())
	_, ok := s.Find("1")
	assert.False(t, ok)
}

func TestMutationResults_AreDetached(t *testing.T) {
	remote := new(MockRemote)
	created := rec("9", "Zoe", 1995, time.March, 3)
	created.ReminderEnabled = true
	created.ReminderTime = &model.TimeOfDay{Hour: 8}
	remote.On("CreateBirthday", mock.Anything, mock.Anything).Return(created, nil).Once()

	s := store.New(remote)
	d := created.Draft()
	out, err := s.Create(ctx, d)
	require.NoError(t, err)

	out.ReminderTime.Hour = 23
	created.ReminderTime.Hour = 22

	found, ok := s.Find("9")
	require.True(t, ok)
	assert.Equal(t, 8, found.ReminderTime.Hour)
	remote.AssertExpectations(t)
}
