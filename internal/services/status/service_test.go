package status

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/conspectus/internal/models"
)

// memStatusStorage stores copies so mutations only become visible through
// Save, the way a real backend behaves.
type memStatusStorage struct {
	records map[string]models.SessionStatus
	getErr  error
	saveErr error
}

func newMemStatusStorage() *memStatusStorage {
	return &memStatusStorage{records: make(map[string]models.SessionStatus)}
}

func (m *memStatusStorage) Save(_ context.Context, status *models.SessionStatus) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	copied := *status
	copied.Checkpoints = append([]models.Checkpoint(nil), status.Checkpoints...)
	m.records[status.SessionID] = copied
	return nil
}

func (m *memStatusStorage) Get(_ context.Context, sessionID string) (*models.SessionStatus, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	record, ok := m.records[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	copied := record
	copied.Checkpoints = append([]models.Checkpoint(nil), record.Checkpoints...)
	return &copied, nil
}

func (m *memStatusStorage) Delete(_ context.Context, sessionID string) error {
	delete(m.records, sessionID)
	return nil
}

func (m *memStatusStorage) List(_ context.Context, limit int) ([]models.SessionStatus, error) {
	out := make([]models.SessionStatus, 0, len(m.records))
	for _, record := range m.records {
		out = append(out, record)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestBegin_CreatesRunningRecord(t *testing.T) {
	storage := newMemStatusStorage()
	svc := NewService(storage, arbor.NewLogger())

	require.NoError(t, svc.Begin(context.Background(), "sess-1", "Acme Corp"))

	record, err := svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", record.SessionID)
	assert.Equal(t, "Acme Corp", record.CompanyName)
	assert.Equal(t, models.SessionRunning, record.State)
	require.Len(t, record.Checkpoints, 1)
	assert.Equal(t, models.CheckpointInitiated, record.Checkpoints[0].Name)
	assert.False(t, record.StartedAt.IsZero())
	assert.False(t, record.UpdatedAt.IsZero())
}

func TestBegin_PropagatesStorageError(t *testing.T) {
	storage := newMemStatusStorage()
	storage.saveErr = fmt.Errorf("disk full")
	svc := NewService(storage, arbor.NewLogger())

	err := svc.Begin(context.Background(), "sess-1", "Acme Corp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCheckpoint_AppendsInOrder(t *testing.T) {
	storage := newMemStatusStorage()
	svc := NewService(storage, arbor.NewLogger())
	require.NoError(t, svc.Begin(context.Background(), "sess-1", "Acme Corp"))

	names := []string{
		models.CheckpointScrapingStarted,
		models.CheckpointResearchStarted,
		models.CheckpointResearchCompleted,
		models.CheckpointUseCasesStarted,
		models.CheckpointUseCasesCompleted,
		models.CheckpointReportStarted,
		models.CheckpointReportCompleted,
	}
	for _, name := range names {
		svc.Checkpoint(context.Background(), "sess-1", name, "")
	}

	record, err := svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, record.Checkpoints, len(names)+1)
	assert.Equal(t, models.CheckpointInitiated, record.Checkpoints[0].Name)
	for i, name := range names {
		assert.Equal(t, name, record.Checkpoints[i+1].Name)
	}
	assert.Equal(t, models.SessionRunning, record.State)
}

func TestComplete_RecordsLocatorAndFallback(t *testing.T) {
	storage := newMemStatusStorage()
	svc := NewService(storage, arbor.NewLogger())
	require.NoError(t, svc.Begin(context.Background(), "sess-1", "Acme Corp"))

	svc.Complete(context.Background(), "sess-1", "reports/acme.pdf", true)

	record, err := svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, record.State)
	assert.Equal(t, "reports/acme.pdf", record.Locator)
	assert.True(t, record.UsedFallback)
	last := record.Checkpoints[len(record.Checkpoints)-1]
	assert.Equal(t, models.CheckpointCompleted, last.Name)
}

func TestFail_RecordsCause(t *testing.T) {
	storage := newMemStatusStorage()
	svc := NewService(storage, arbor.NewLogger())
	require.NoError(t, svc.Begin(context.Background(), "sess-1", "Acme Corp"))

	svc.Fail(context.Background(), "sess-1", fmt.Errorf("render exploded"))

	record, err := svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionFailed, record.State)
	assert.Equal(t, "render exploded", record.Error)
	last := record.Checkpoints[len(record.Checkpoints)-1]
	assert.Equal(t, models.CheckpointError, last.Name)
	assert.Equal(t, "render exploded", last.Message)
}

func TestUpdate_StorageFailuresAreBestEffort(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*memStatusStorage)
	}{
		{"Load Fails", func(m *memStatusStorage) { m.getErr = fmt.Errorf("backend offline") }},
		{"Save Fails", func(m *memStatusStorage) { m.saveErr = fmt.Errorf("backend offline") }},
		{"Unknown Session", func(m *memStatusStorage) { m.records = map[string]models.SessionStatus{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newMemStatusStorage()
			svc := NewService(storage, arbor.NewLogger())
			require.NoError(t, svc.Begin(context.Background(), "sess-1", "Acme Corp"))
			tt.setup(storage)

			// None of these may panic or surface the storage error.
			svc.Checkpoint(context.Background(), "sess-1", models.CheckpointReportStarted, "")
			svc.Complete(context.Background(), "sess-1", "reports/acme.pdf", false)
			svc.Fail(context.Background(), "sess-1", fmt.Errorf("later failure"))
		})
	}
}

func TestList_DelegatesToStorage(t *testing.T) {
	storage := newMemStatusStorage()
	svc := NewService(storage, arbor.NewLogger())
	require.NoError(t, svc.Begin(context.Background(), "sess-1", "Acme Corp"))
	require.NoError(t, svc.Begin(context.Background(), "sess-2", "Globex"))

	records, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
