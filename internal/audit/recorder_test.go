package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "bimadesk/pkg/domain"
)

type RecorderSuite struct {
	suite.Suite
	ctx      context.Context
	store    *InMemoryStore
	recorder *Recorder
	clientID id.ClientID
	now      time.Time
}

func (s *RecorderSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
	s.clientID = id.NewClientID()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.recorder = NewRecorder(s.store, WithClock(func() time.Time { return s.now }))
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) TestRecordCreateSkipsEmptyFields() {
	fields := []FieldValue{
		{Name: "firstName", Value: "Ravi"},
		{Name: "lastName", Value: ""},
		{Name: "mobileNumber", Value: "9876543210"},
	}
	s.Require().NoError(s.recorder.RecordCreate(s.ctx, s.clientID, "agent-1", fields, s.now))

	entries, err := s.store.AllByClient(s.ctx, s.clientID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	for _, e := range entries {
		s.Equal(ActionCreate, e.Action)
		s.Equal("agent-1", e.Actor)
		s.Empty(e.OldValue)
		s.NotEmpty(e.NewValue)
		s.Equal(s.now, e.ChangedAt)
	}
	s.Equal("firstName", entries[0].FieldName)
	s.Equal("mobileNumber", entries[1].FieldName)
}

func (s *RecorderSuite) TestRecordCreateAllEmptyWritesNothing() {
	s.Require().NoError(s.recorder.RecordCreate(s.ctx, s.clientID, "agent-1", []FieldValue{{Name: "email"}}, s.now))
	count, err := s.store.CountByClient(s.ctx, s.clientID)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *RecorderSuite) TestRecordUpdateCarriesOldAndNew() {
	changes := []Change{{Field: "education", Old: "B.Com", New: "M.Com"}}
	s.Require().NoError(s.recorder.RecordUpdate(s.ctx, s.clientID, "agent-2", changes, s.now))

	entries, err := s.store.AllByClient(s.ctx, s.clientID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(ActionUpdate, entries[0].Action)
	s.Equal("education", entries[0].FieldName)
	s.Equal("B.Com", entries[0].OldValue)
	s.Equal("M.Com", entries[0].NewValue)
}

func (s *RecorderSuite) TestRecordDeletePreservesFinalState() {
	fields := []FieldValue{
		{Name: "companyName", Value: "Sharma Textiles"},
		{Name: "contactEmail", Value: ""},
	}
	s.Require().NoError(s.recorder.RecordDelete(s.ctx, s.clientID, "agent-1", fields, s.now))

	entries, err := s.store.AllByClient(s.ctx, s.clientID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(ActionDelete, entries[0].Action)
	s.Equal("Sharma Textiles", entries[0].OldValue)
	s.Empty(entries[0].NewValue)
}

func (s *RecorderSuite) TestRecordViewIsSingleMarker() {
	s.Require().NoError(s.recorder.RecordView(s.ctx, s.clientID, "agent-3", s.now))

	entries, err := s.store.AllByClient(s.ctx, s.clientID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(ActionView, entries[0].Action)
	s.Empty(entries[0].FieldName)
}

func (s *RecorderSuite) TestListPaginationAndOrder() {
	for i := 0; i < 5; i++ {
		at := s.now.Add(time.Duration(i) * time.Minute)
		s.Require().NoError(s.recorder.RecordUpdate(s.ctx, s.clientID, "agent-1",
			[]Change{{Field: "city", Old: "", New: "Pune"}}, at))
	}

	newest, err := s.recorder.List(s.ctx, s.clientID, 1, 2, OrderNewestFirst)
	s.Require().NoError(err)
	s.Require().Len(newest, 2)
	s.True(newest[0].ChangedAt.After(newest[1].ChangedAt))

	oldest, err := s.recorder.List(s.ctx, s.clientID, 1, 2, OrderChronological)
	s.Require().NoError(err)
	s.Require().Len(oldest, 2)
	s.Equal(s.now, oldest[0].ChangedAt)

	lastPage, err := s.recorder.List(s.ctx, s.clientID, 3, 2, OrderChronological)
	s.Require().NoError(err)
	s.Len(lastPage, 1)

	beyond, err := s.recorder.List(s.ctx, s.clientID, 4, 2, OrderChronological)
	s.Require().NoError(err)
	s.Empty(beyond)
}

func (s *RecorderSuite) TestListClampsPageAndLimit() {
	s.Require().NoError(s.recorder.RecordView(s.ctx, s.clientID, "", s.now))

	entries, err := s.recorder.List(s.ctx, s.clientID, 0, -5, OrderNewestFirst)
	s.Require().NoError(err)
	s.Len(entries, 1)

	entries, err = s.recorder.List(s.ctx, s.clientID, 1, 10000, OrderNewestFirst)
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *RecorderSuite) TestStats() {
	recent := s.now.Add(-time.Hour)
	old := s.now.Add(-60 * 24 * time.Hour)

	s.Require().NoError(s.recorder.RecordCreate(s.ctx, s.clientID, "agent-1",
		[]FieldValue{{Name: "firstName", Value: "Ravi"}, {Name: "mobileNumber", Value: "9876543210"}}, old))
	s.Require().NoError(s.recorder.RecordUpdate(s.ctx, s.clientID, "agent-2",
		[]Change{{Field: "mobileNumber", Old: "9876543210", New: "9123456780"}}, recent))

	stats, err := s.recorder.Stats(s.ctx, s.clientID)
	s.Require().NoError(err)
	s.Equal(3, stats.TotalChanges)
	s.Equal(1, stats.RecentChanges)
	s.Equal(2, stats.ChangesByAction[ActionCreate])
	s.Equal(1, stats.ChangesByAction[ActionUpdate])
	s.Equal(2, stats.ChangesByField["mobileNumber"])
	s.Equal(1, stats.ChangesByField["firstName"])
	s.Require().NotNil(stats.LastModified)
	s.Equal(recent, *stats.LastModified)
}

func (s *RecorderSuite) TestStatsRecentWindowBoundary() {
	inside := s.now.Add(-recentWindow + time.Minute)
	outside := s.now.Add(-recentWindow - time.Minute)

	s.Require().NoError(s.recorder.RecordUpdate(s.ctx, s.clientID, "agent-1",
		[]Change{{Field: "city", Old: "Pune", New: "Mumbai"}}, outside))
	s.Require().NoError(s.recorder.RecordUpdate(s.ctx, s.clientID, "agent-1",
		[]Change{{Field: "city", Old: "Mumbai", New: "Nashik"}}, inside))

	stats, err := s.recorder.Stats(s.ctx, s.clientID)
	s.Require().NoError(err)
	s.Equal(2, stats.TotalChanges)
	s.Equal(1, stats.RecentChanges)
}

func (s *RecorderSuite) TestStatsEmptyTrail() {
	stats, err := s.recorder.Stats(s.ctx, s.clientID)
	s.Require().NoError(err)
	s.Zero(stats.TotalChanges)
	s.Nil(stats.LastModified)
	s.Empty(stats.ChangesByAction)
}
