package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/flowforge/flowforge/pkg/blocks/delay"
	"github.com/flowforge/flowforge/pkg/events"
	"github.com/flowforge/flowforge/pkg/mocks"
	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/protocol"
	"github.com/flowforge/flowforge/pkg/registry"
	"github.com/flowforge/flowforge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestExecutor(t *testing.T, notifier protocol.Notifier, caller protocol.APICaller, opts ...Option) *Executor {
	t.Helper()

	reg := registry.NewRegistry(testutil.DiscardLogger())
	registry.RegisterDefaultBlocks(reg, notifier, caller, delay.WithMaxDelay(2*time.Second))

	return NewExecutor(reg, append([]Option{WithLogger(testutil.DiscardLogger())}, opts...)...)
}

// executedBlocks returns block ids in dispatch order.
func executedBlocks(record *models.ExecutionRecord) []string {
	var ids []string

	for _, entry := range record.Logs {
		if strings.HasPrefix(entry.Message, "Executing block: ") {
			ids = append(ids, entry.BlockID)
		}
	}

	return ids
}

func logsAt(record *models.ExecutionRecord, level models.LogLevel) []models.ExecutionLog {
	var entries []models.ExecutionLog

	for _, entry := range record.Logs {
		if entry.Level == level {
			entries = append(entries, entry)
		}
	}

	return entries
}

func findLog(record *models.ExecutionRecord, message string) (models.ExecutionLog, bool) {
	for _, entry := range record.Logs {
		if entry.Message == message {
			return entry, true
		}
	}

	return models.ExecutionLog{}, false
}

func TestExecutor_LinearRun(t *testing.T) {
	caller := &mocks.MockAPICaller{}
	caller.On("Call", mock.Anything, mock.MatchedBy(func(r protocol.APIRequest) bool {
		return r.Method == "GET" && r.URL == "https://api.example.com/users"
	})).
		Return(protocol.APIResponse{Status: 200, Data: map[string]any{"ok": true}}, nil).Once()

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	executor := newTestExecutor(t, nil, caller, WithPublisher(bus))

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("a", models.BlockTypeAPICall, map[string]any{"url": "https://api.example.com/users"}),
		testutil.Block("e", models.BlockTypeEnd, nil),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
	assert.Equal(t, workflow.ID, record.WorkflowID)
	assert.Equal(t, "manual", record.TriggerSource)
	assert.Equal(t, []string{"t", "a", "e"}, executedBlocks(record))
	require.NotNil(t, record.CompletedAt)
	assert.True(t, record.CompletedAt.After(record.StartedAt))
	assert.Empty(t, record.ErrorMessage)

	for i := 1; i < len(record.Logs); i++ {
		assert.True(t, record.Logs[i].Timestamp.After(record.Logs[i-1].Timestamp), "log %d is not after log %d", i, i-1)
		assert.Equal(t, record.ID, record.Logs[i].ExecutionID)
	}

	assert.Equal(t, "Starting workflow execution: "+workflow.Name, record.Logs[0].Message)
	assert.Equal(t, "Workflow execution completed successfully", record.Logs[len(record.Logs)-1].Message)

	_, ok := findLog(record, "API call completed successfully")
	assert.True(t, ok)

	caller.AssertExpectations(t)
	// started + one per block + completed
	bus.AssertNumberOfCalls(t, "Publish", 5)
	bus.AssertCalled(t, "Publish", mock.Anything, record.ID, mock.MatchedBy(func(e *events.WorkflowExecutionCompleted) bool {
		return e.BlocksExecuted == 3 && e.ExecutionID == record.ID
	}))
}

func TestExecutor_EmptyWorkflowCompletes(t *testing.T) {
	executor := newTestExecutor(t, nil, nil)

	record := executor.Execute(context.Background(), testutil.CreateTestWorkflow(), Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)

	warnings := logsAt(record, models.LogLevelWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Workflow has no blocks", warnings[0].Message)
	assert.Empty(t, executedBlocks(record))
}

func TestExecutor_UnconnectedBlocksStartAtFirstDeclared(t *testing.T) {
	executor := newTestExecutor(t, nil, nil)

	workflow := testutil.CreateTestWorkflow(testutil.WithBlocks(
		testutil.Block("first", models.BlockTypeAction, map[string]any{"name": "one"}),
		testutil.Block("second", models.BlockTypeAction, map[string]any{"name": "two"}),
		testutil.Block("third", models.BlockTypeDatabase, nil),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
	assert.Equal(t, []string{"first"}, executedBlocks(record))
}

func TestExecutor_RepeatedRunsAreIdentical(t *testing.T) {
	executor := newTestExecutor(t, nil, nil)

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("c", models.BlockTypeCondition, map[string]any{"field": "trigger.x", "operator": "greater_than", "value": "3"}),
		testutil.Block("l", models.BlockTypeLoop, map[string]any{"maxIterations": 2}),
		testutil.Block("e", models.BlockTypeEnd, nil),
	))

	messages := func(record *models.ExecutionRecord) []string {
		out := make([]string, 0, len(record.Logs))
		for _, entry := range record.Logs {
			out = append(out, entry.Message)
		}

		return out
	}

	trigger := Trigger{Source: "manual", Data: map[string]any{"x": 5}}
	first := executor.Execute(context.Background(), workflow, trigger)
	second := executor.Execute(context.Background(), workflow, trigger)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, models.ExecutionStatusCompleted, first.Status)
	assert.Equal(t, messages(first), messages(second))
	assert.Equal(t, []string{"t", "c", "l", "e"}, executedBlocks(first))
}

func TestExecutor_CycleVisitsEachBlockOnce(t *testing.T) {
	executor := newTestExecutor(t, nil, nil)

	workflow := testutil.CreateTestWorkflow(
		testutil.WithBlocks(
			testutil.Block("t", models.BlockTypeTrigger, nil),
			testutil.Block("a", models.BlockTypeAction, nil),
			testutil.Block("b", models.BlockTypeAction, nil),
		),
		testutil.WithConnections(
			testutil.Connect("t", "a"),
			testutil.Connect("a", "b"),
			testutil.Connect("b", "a"),
			testutil.Connect("b", "t"),
		),
	)

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
	assert.Equal(t, []string{"t", "a", "b"}, executedBlocks(record))
}

func TestExecutor_ConditionGatesSuccessors(t *testing.T) {
	testCases := []struct {
		name         string
		operator     string
		value        any
		expectedNext bool
	}{
		{"greater than passes", "greater_than", 100, true},
		{"less than halts", "less_than", 100, false},
		{"loose equals across types", "equals", "150", true},
		{"not equals halts", "not_equals", 150, false},
		{"unknown operator passes", "matches", "x", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			executor := newTestExecutor(t, nil, nil)

			workflow := testutil.CreateTestWorkflow(testutil.WithChain(
				testutil.Block("t", models.BlockTypeTrigger, nil),
				testutil.Block("c", models.BlockTypeCondition, map[string]any{
					"field":    "amount",
					"operator": tc.operator,
					"value":    tc.value,
				}),
				testutil.Block("after", models.BlockTypeAction, nil),
			))

			record := executor.Execute(context.Background(), workflow, Trigger{
				Source: "webhook",
				Data:   map[string]any{"amount": 150},
			})

			assert.Equal(t, models.ExecutionStatusCompleted, record.Status)

			if tc.expectedNext {
				assert.Equal(t, []string{"t", "c", "after"}, executedBlocks(record))
			} else {
				assert.Equal(t, []string{"t", "c"}, executedBlocks(record))
			}
		})
	}
}

func TestExecutor_ConditionReadsTriggerPayloadPath(t *testing.T) {
	executor := newTestExecutor(t, nil, nil)

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("c", models.BlockTypeCondition, map[string]any{
			"field":    "trigger.customer.tier",
			"operator": "equals",
			"value":    "gold",
		}),
		testutil.Block("after", models.BlockTypeAction, nil),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{
		Source: "webhook",
		Data:   map[string]any{"customer": map[string]any{"tier": "gold"}},
	})

	assert.Equal(t, []string{"t", "c", "after"}, executedBlocks(record))
}

func TestExecutor_NotificationPartialFailureCompletes(t *testing.T) {
	notifier := &mocks.MockNotifier{}
	notifier.On("Send", mock.Anything, mock.MatchedBy(func(m protocol.Message) bool { return m.To == "ok@example.com" })).
		Return(protocol.SendResult{Success: true, MessageID: "m-1"}, nil)
	notifier.On("Send", mock.Anything, mock.MatchedBy(func(m protocol.Message) bool { return m.To == "bad@example.com" })).
		Return(protocol.SendResult{}, errors.New("mailbox unavailable"))

	executor := newTestExecutor(t, notifier, nil)

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("n", models.BlockTypeEmail, map[string]any{"to": "ok@example.com, bad@example.com, "}),
		testutil.Block("after", models.BlockTypeAction, nil),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
	assert.Equal(t, []string{"t", "n", "after"}, executedBlocks(record))

	summary, ok := findLog(record, "Notification sent to 1 of 2 recipient(s)")
	require.True(t, ok)
	assert.Equal(t, 2, summary.Data["total"])
	assert.Equal(t, 1, summary.Data["success"])
	assert.Equal(t, 1, summary.Data["failed"])

	notifier.AssertNumberOfCalls(t, "Send", 2)
}

func TestExecutor_NotificationTotalFailureContinues(t *testing.T) {
	notifier := &mocks.MockNotifier{}
	notifier.On("Send", mock.Anything, mock.Anything).Return(protocol.SendResult{Success: false, Error: "rejected"}, nil)

	executor := newTestExecutor(t, notifier, nil)

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("n", models.BlockTypeNotification, map[string]any{"recipient": "a@example.com"}),
		testutil.Block("after", models.BlockTypeAction, nil),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
	assert.Equal(t, []string{"t", "n", "after"}, executedBlocks(record))
	assert.Empty(t, record.ErrorMessage)

	summary, ok := findLog(record, "Notification failed for all 1 recipient(s)")
	require.True(t, ok)
	assert.Equal(t, 1, summary.Data["total"])
	assert.Equal(t, 0, summary.Data["success"])
	assert.Equal(t, 1, summary.Data["failed"])
}

func TestExecutor_APICallWithoutURLIsSkipped(t *testing.T) {
	caller := &mocks.MockAPICaller{}
	executor := newTestExecutor(t, nil, caller)

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("a", models.BlockTypeAPI, map[string]any{"url": ""}),
		// Passes only while a_response is unset.
		testutil.Block("c", models.BlockTypeCondition, map[string]any{"field": "a_response", "operator": "equals", "value": ""}),
		testutil.Block("after", models.BlockTypeAction, nil),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
	assert.Equal(t, []string{"t", "a", "c", "after"}, executedBlocks(record))

	warnings := logsAt(record, models.LogLevelWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "API call skipped: No URL configured", warnings[0].Message)
	assert.Equal(t, "a", warnings[0].BlockID)

	caller.AssertNotCalled(t, "Call", mock.Anything, mock.Anything)
}

func TestExecutor_HardFailureKeepsEarlierLogs(t *testing.T) {
	caller := &mocks.MockAPICaller{}
	caller.On("Call", mock.Anything, mock.Anything).Return(protocol.APIResponse{}, errors.New("connection refused"))

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	executor := newTestExecutor(t, nil, caller, WithPublisher(bus))

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("a", models.BlockTypeAPICall, map[string]any{"url": "https://down.example.com", "method": "post"}),
		testutil.Block("after", models.BlockTypeAction, nil),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusFailed, record.Status)
	assert.Contains(t, record.ErrorMessage, "connection refused")
	assert.Equal(t, []string{"t", "a"}, executedBlocks(record))
	require.NotNil(t, record.CompletedAt)

	_, ok := findLog(record, "Workflow triggered by manual")
	assert.True(t, ok, "logs emitted before the failure are kept")

	errorsLogged := logsAt(record, models.LogLevelError)
	require.Len(t, errorsLogged, 2)
	assert.Equal(t, "a", errorsLogged[0].BlockID)
	assert.True(t, strings.HasPrefix(errorsLogged[0].Message, "Block failed: "))
	assert.True(t, strings.HasPrefix(errorsLogged[1].Message, "Workflow execution failed: "))

	bus.AssertCalled(t, "Publish", mock.Anything, record.ID, mock.MatchedBy(func(e *events.WorkflowExecutionFailed) bool {
		return e.BlockID == "a" && strings.Contains(e.Error, "connection refused")
	}))
}

func TestExecutor_MalformedConfigFails(t *testing.T) {
	executor := newTestExecutor(t, nil, &mocks.MockAPICaller{})

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("a", models.BlockTypeAPICall, map[string]any{"url": 42}),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusFailed, record.Status)
	assert.Contains(t, record.ErrorMessage, models.ErrMalformedConfig.Error())
}

func TestExecutor_UnknownBlockTypeIsGeneric(t *testing.T) {
	executor := newTestExecutor(t, nil, nil)

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("x", "sentiment_analysis", map[string]any{"model": "small"}),
		testutil.Block("e", models.BlockTypeEnd, nil),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
	assert.Equal(t, []string{"t", "x", "e"}, executedBlocks(record))

	_, ok := findLog(record, "Executed sentiment_analysis block")
	assert.True(t, ok)
}

func TestExecutor_EndStopsExpansion(t *testing.T) {
	executor := newTestExecutor(t, nil, nil)

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("e", models.BlockTypeEnd, nil),
		testutil.Block("unreachable", models.BlockTypeAction, nil),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, []string{"t", "e"}, executedBlocks(record))
}

func TestExecutor_LoopIsCapped(t *testing.T) {
	executor := newTestExecutor(t, nil, nil)

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("l", models.BlockTypeLoop, map[string]any{"maxIterations": 50}),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	iterations := 0

	for _, entry := range logsAt(record, models.LogLevelDebug) {
		if entry.BlockID == "l" {
			iterations++
		}
	}

	assert.Equal(t, 3, iterations)
}

func TestExecutor_PreCancelledContext(t *testing.T) {
	executor := newTestExecutor(t, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	record := executor.Execute(ctx, testutil.LinearWorkflow(models.BlockTypeAction), Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusCancelled, record.Status)
	assert.Empty(t, executedBlocks(record))
	require.NotNil(t, record.CompletedAt)
}

func TestExecutor_CancellationStopsBeforeNextBlock(t *testing.T) {
	executor := newTestExecutor(t, nil, nil)

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("d", models.BlockTypeDelay, map[string]any{"duration": 2, "unit": "seconds"}),
		testutil.Block("after", models.BlockTypeAction, nil),
	))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	started := time.Now()
	record := executor.Execute(ctx, workflow, Trigger{Source: "manual"})

	assert.Less(t, time.Since(started), time.Second)
	assert.Equal(t, models.ExecutionStatusCancelled, record.Status)
	assert.Equal(t, []string{"t", "d"}, executedBlocks(record))

	_, ok := findLog(record, "Delay interrupted")
	assert.True(t, ok)
}

func TestExecutor_IOBlockTimeoutFails(t *testing.T) {
	caller := &mocks.MockAPICaller{}
	caller.On("Call", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(protocol.APIResponse{}, context.DeadlineExceeded)

	executor := newTestExecutor(t, nil, caller, WithBlockTimeout(30*time.Millisecond))

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("a", models.BlockTypeAPICall, map[string]any{"url": "https://slow.example.com"}),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusFailed, record.Status)
	assert.Contains(t, record.ErrorMessage, ErrBlockTimeout.Error())
}

func TestExecutor_NotificationTimeoutFails(t *testing.T) {
	notifier := &mocks.MockNotifier{}
	notifier.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(protocol.SendResult{}, context.DeadlineExceeded)

	executor := newTestExecutor(t, notifier, nil, WithBlockTimeout(30*time.Millisecond))

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("n", models.BlockTypeEmail, map[string]any{"to": "slow@example.com, other@example.com"}),
		testutil.Block("after", models.BlockTypeAction, nil),
	))

	record := executor.Execute(context.Background(), workflow, Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusFailed, record.Status)
	assert.Contains(t, record.ErrorMessage, ErrBlockTimeout.Error())
	assert.Equal(t, []string{"t", "n"}, executedBlocks(record))
	notifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestExecutor_IOBlockIsNotInterruptedByCancellation(t *testing.T) {
	var sawCancel bool

	caller := &mocks.MockAPICaller{}
	caller.On("Call", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			callCtx := args.Get(0).(context.Context)

			time.Sleep(80 * time.Millisecond)

			sawCancel = callCtx.Err() != nil
		}).
		Return(protocol.APIResponse{Status: 201}, nil)

	executor := newTestExecutor(t, nil, caller)

	workflow := testutil.CreateTestWorkflow(testutil.WithChain(
		testutil.Block("t", models.BlockTypeTrigger, nil),
		testutil.Block("a", models.BlockTypeAPICall, map[string]any{"url": "https://api.example.com", "method": "POST"}),
		testutil.Block("after", models.BlockTypeAction, nil),
	))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	record := executor.Execute(ctx, workflow, Trigger{Source: "manual"})

	assert.False(t, sawCancel, "in-flight call must not observe run cancellation")
	assert.Equal(t, models.ExecutionStatusCancelled, record.Status)
	assert.Equal(t, []string{"t", "a"}, executedBlocks(record))

	_, ok := findLog(record, "API call completed successfully")
	assert.True(t, ok)
}

func TestExecutor_PublishFailureDoesNotAffectRun(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	executor := newTestExecutor(t, nil, nil, WithPublisher(bus))

	record := executor.Execute(context.Background(), testutil.LinearWorkflow(models.BlockTypeAction), Trigger{Source: "manual"})

	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
}

func TestExecutor_UsesProvidedExecutionID(t *testing.T) {
	executor := newTestExecutor(t, nil, nil, WithIDGenerator(func() string { return "generated" }))

	forced := executor.Execute(context.Background(), testutil.CreateTestWorkflow(), Trigger{ExecutionID: "exec-42"})
	assert.Equal(t, "exec-42", forced.ID)

	generated := executor.Execute(context.Background(), testutil.CreateTestWorkflow(), Trigger{})
	assert.Equal(t, "generated", generated.ID)
}

func TestExecutor_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	executor := newTestExecutor(t, nil, nil, WithTracer(provider.Tracer("test")))

	executor.Execute(context.Background(), testutil.LinearWorkflow(models.BlockTypeAction), Trigger{Source: "manual"})

	names := make([]string, 0)
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}

	assert.ElementsMatch(t, []string{"block.execute", "block.execute", "block.execute", "workflow.execute"}, names)
}
