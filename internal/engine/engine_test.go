package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/Veraticus/wastewise/internal/common"
	"github.com/Veraticus/wastewise/internal/llm"
	"github.com/Veraticus/wastewise/internal/model"
	"github.com/Veraticus/wastewise/internal/service"
	"github.com/Veraticus/wastewise/internal/session"
	"github.com/Veraticus/wastewise/internal/storage"
	"github.com/Veraticus/wastewise/internal/testutil"
	"github.com/Veraticus/wastewise/internal/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testImage = llm.Image{MIMEType: "image/png", Data: testutil.PNGHeader}

func seededVerifier(client llm.Client) *verify.Verifier {
	policy := verify.NewPolicy().WithRand(rand.New(rand.NewPCG(1, 2))) //nolint:gosec // deterministic test rewards
	return verify.NewVerifier(client, policy, common.Discard())
}

func TestCollector_ClaimAndComplete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reporterCtx := db.UserContext("reporter")
	collectorCtx := db.UserContext("collector")
	otherCtx := db.UserContext("other")
	report := db.CreateReport(reporterCtx, "Pier 4", "plastic", "2 kg")

	collector := NewCollector(db.Storage, seededVerifier(llm.NewMockClient()), common.Discard())

	_, err := collector.Claim(context.Background(), report.ID)
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	require.ErrorIs(t, err, session.ErrNoSession)

	claimed, err := collector.Claim(collectorCtx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskInProgress, claimed.Status)

	_, err = collector.Claim(otherCtx, report.ID)
	require.ErrorIs(t, err, storage.ErrInvalidStatusTransition)

	_, err = collector.Complete(otherCtx, report.ID)
	require.ErrorIs(t, err, storage.ErrNotCollector)

	completed, err := collector.Complete(collectorCtx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskCompleted, completed.Status)
}

func TestCollector_VerifyTask(t *testing.T) {
	tests := []struct {
		name         string
		response     llm.MockResponse
		wantKind     string
		wantStatus   model.TaskStatus
		wantMessage  string
		wantDecision verify.Decision
		complete     bool
	}{
		{
			name:         "accepted",
			response:     llm.MockResponse{Text: "Sure!\n```json\n{\"wasteTypeMatch\": true, \"quantityMatch\": true, \"confidence\": 0.92}\n```"},
			wantDecision: verify.DecisionAccepted,
			wantStatus:   model.TaskVerified,
			wantMessage:  "Verification successful!",
		},
		{
			name:         "accepted after completion",
			response:     llm.MockResponse{Text: `{"wasteTypeMatch": true, "quantityMatch": true, "confidence": 0.8}`},
			complete:     true,
			wantDecision: verify.DecisionAccepted,
			wantStatus:   model.TaskVerified,
			wantMessage:  "Verification successful!",
		},
		{
			name:         "rejected",
			response:     llm.MockResponse{Text: `{"wasteTypeMatch": true, "quantityMatch": false, "confidence": 0.95}`},
			wantDecision: verify.DecisionRejected,
			wantStatus:   model.TaskInProgress,
			wantMessage:  verify.MessageRejected,
		},
		{
			name:         "unparseable",
			response:     llm.MockResponse{Text: "I cannot determine this."},
			wantDecision: verify.DecisionIndeterminate,
			wantKind:     "parse",
			wantStatus:   model.TaskInProgress,
			wantMessage:  verify.MessageParseError,
		},
		{
			name:         "transport failure",
			response:     llm.MockResponse{Err: errors.New("connection reset")},
			wantDecision: verify.DecisionIndeterminate,
			wantKind:     "transport",
			wantStatus:   model.TaskInProgress,
			wantMessage:  verify.MessageTransportError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			reporterCtx := db.UserContext("reporter")
			collectorCtx := db.UserContext("collector")
			report := db.CreateReport(reporterCtx, "Canal St", "plastic bottles", "3 kg")

			client := llm.NewMockClient(tt.response)
			collector := NewCollector(db.Storage, seededVerifier(client), common.Discard())

			_, err := collector.Claim(collectorCtx, report.ID)
			require.NoError(t, err)
			if tt.complete {
				_, err = collector.Complete(collectorCtx, report.ID)
				require.NoError(t, err)
			}

			outcome, err := collector.VerifyTask(collectorCtx, report.ID, testImage)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDecision, outcome.Decision)
			assert.Contains(t, outcome.Message, tt.wantMessage)

			calls := client.Calls()
			require.Len(t, calls, 1)
			assert.Contains(t, calls[0].Prompt, "plastic bottles")
			assert.Contains(t, calls[0].Prompt, "3 kg")

			stored, err := db.Storage.GetReport(context.Background(), report.ID)
			require.NoError(t, err)
			wantStatus := tt.wantStatus
			if tt.complete && wantStatus == model.TaskInProgress {
				wantStatus = model.TaskCompleted
			}
			assert.Equal(t, wantStatus, stored.Status)

			attempts, err := db.Storage.GetVerificationAttempts(context.Background(), report.ID)
			require.NoError(t, err)
			require.Len(t, attempts, 1)
			assert.Equal(t, outcome.AttemptID, attempts[0].ID)
			assert.Equal(t, tt.wantDecision.String(), attempts[0].Decision)
			assert.Equal(t, tt.wantKind, attempts[0].ErrorKind)

			reward, err := db.Storage.GetReward(context.Background(), db.UserID(collectorCtx))
			require.NoError(t, err)
			if tt.wantDecision == verify.DecisionAccepted {
				assert.GreaterOrEqual(t, outcome.Reward, verify.DefaultMinReward)
				assert.LessOrEqual(t, outcome.Reward, verify.DefaultMaxReward)
				assert.Equal(t, outcome.Reward, reward.Points)
				assert.Contains(t, stored.VerificationJSON, `"wasteTypeMatch":true`)
			} else {
				assert.Zero(t, outcome.Reward)
				assert.Zero(t, reward.Points)
			}
		})
	}
}

func TestCollector_VerifyTaskPreconditions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reporterCtx := db.UserContext("reporter")
	collectorCtx := db.UserContext("collector")
	otherCtx := db.UserContext("other")
	report := db.CreateReport(reporterCtx, "Mill Rd", "glass", "1 bag")

	client := llm.NewMockClient(llm.MockResponse{Text: `{"wasteTypeMatch":true,"quantityMatch":true,"confidence":0.9}`})
	collector := NewCollector(db.Storage, seededVerifier(client), common.Discard())

	_, err := collector.VerifyTask(collectorCtx, report.ID, testImage)
	require.ErrorIs(t, err, ErrNotAssigned, "unclaimed task")

	_, err = collector.Claim(collectorCtx, report.ID)
	require.NoError(t, err)

	_, err = collector.VerifyTask(otherCtx, report.ID, testImage)
	require.ErrorIs(t, err, ErrNotAssigned, "claimed by someone else")

	_, err = collector.VerifyTask(collectorCtx, 9999, testImage)
	require.ErrorIs(t, err, common.ErrNotFound)

	outcome, err := collector.VerifyTask(collectorCtx, report.ID, testImage)
	require.NoError(t, err)
	require.True(t, outcome.Accepted())

	_, err = collector.VerifyTask(collectorCtx, report.ID, testImage)
	require.ErrorIs(t, err, common.ErrTaskNotVerifiable, "already verified")
	assert.Len(t, client.Calls(), 1)
}

// racingStorage lets another collection land first, as a concurrent
// verification of the same task would.
type racingStorage struct {
	*storage.SQLiteStorage
	winnerPoints int
}

func (s *racingStorage) RecordCollection(ctx context.Context, record service.CollectionRecord) error {
	winner := record
	winner.Attempt = nil
	winner.Points = s.winnerPoints
	if err := s.SQLiteStorage.RecordCollection(ctx, winner); err != nil {
		return err
	}
	return s.SQLiteStorage.RecordCollection(ctx, record)
}

func TestCollector_VerifyTaskCollectionFails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reporterCtx := db.UserContext("reporter")
	collectorCtx := db.UserContext("collector")
	report := db.CreateReport(reporterCtx, "Elm Park", "cardboard", "4 boxes")

	client := llm.NewMockClient(llm.MockResponse{Text: `{"wasteTypeMatch":true,"quantityMatch":true,"confidence":0.9}`})
	store := &racingStorage{SQLiteStorage: db.Storage, winnerPoints: 20}
	collector := NewCollector(store, seededVerifier(client), common.Discard())

	_, err := collector.Claim(collectorCtx, report.ID)
	require.NoError(t, err)

	outcome, err := collector.VerifyTask(collectorCtx, report.ID, testImage)
	require.ErrorIs(t, err, storage.ErrInvalidStatusTransition)
	assert.True(t, outcome.Accepted())

	attempts, err := db.Storage.GetVerificationAttempts(context.Background(), report.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, outcome.AttemptID, attempts[0].ID)
	assert.Zero(t, attempts[0].Reward)
	assert.Equal(t, ErrorKindPersistence, attempts[0].ErrorKind)

	reward, err := db.Storage.GetReward(context.Background(), db.UserID(collectorCtx))
	require.NoError(t, err)
	assert.Equal(t, 20, reward.Points, "only the first collection is credited")
}

func TestReporter_Submit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := db.UserContext("reporter")

	client := llm.NewMockClient(llm.MockResponse{
		Text: "```json\n{\"wasteType\": {\"plastic\": true, \"metal\": true}, \"quantity\": 2.5, \"confidence\": 0.8}\n```",
	})
	reporter := NewReporter(db.Storage, verify.NewAnalyzer(client, common.Discard()), common.Discard())

	report, err := reporter.Submit(ctx, "  Elm Park ", testutil.WriteImage(t, "elm.png"))
	require.NoError(t, err)
	assert.Equal(t, "Elm Park", report.Location)
	assert.Equal(t, "metal, plastic", report.WasteType)
	assert.Equal(t, "2.5", report.Amount)
	assert.Equal(t, model.TaskPending, report.Status)
	assert.Equal(t, db.UserID(ctx), report.UserID)
	assert.Contains(t, report.VerificationJSON, `"confidence":0.8`)

	_, err = reporter.Submit(ctx, "", testutil.WriteImage(t, "empty.png"))
	require.Error(t, err)

	_, err = reporter.Submit(context.Background(), "Elm Park", testutil.WriteImage(t, "anon.png"))
	require.ErrorIs(t, err, session.ErrNoSession)
}

func TestReporter_SubmitBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := db.UserContext("reporter")

	client := llm.NewMockClient(
		llm.MockResponse{Text: `{"wasteType":"paper","quantity":"1 kg","confidence":0.7}`},
		llm.MockResponse{Text: "no idea"},
		llm.MockResponse{Text: `{"wasteType":"cans","quantity":"12 items","confidence":0.9}`},
	)
	reporter := NewReporter(db.Storage, verify.NewAnalyzer(client, common.Discard()), common.Discard())

	paths := []string{
		testutil.WriteImage(t, "one.png"),
		testutil.WriteImage(t, "two.png"),
		filepath.Join(t.TempDir(), "missing.png"),
		testutil.WriteImage(t, "three.png"),
	}

	var progress []int
	results, err := reporter.SubmitBatch(ctx, "Dock 9", paths, func(done, total int) {
		assert.Equal(t, len(paths), total)
		progress = append(progress, done)
	})
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)

	require.NoError(t, results[0].Err)
	assert.Equal(t, "paper", results[0].Report.WasteType)

	var parseErr *verify.ParseError
	require.ErrorAs(t, results[1].Err, &parseErr)

	require.Error(t, results[2].Err, "missing file never reaches the classifier")

	require.NoError(t, results[3].Err)
	assert.Equal(t, "cans", results[3].Report.WasteType)
	assert.Len(t, client.Calls(), 3)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	results, err = reporter.SubmitBatch(canceled, "Dock 9", paths, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
