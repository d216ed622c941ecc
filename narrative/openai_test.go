package narrative

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/fitpal-go-api/plan"
)

var today = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

// feasibleResult evaluates an 80kg -> 77kg in 60 days goal (target 1751 kcal).
func feasibleResult(t *testing.T) plan.Result {
	t.Helper()
	e := plan.NewEvaluator(plan.DefaultConfig(), plan.WithClock(func() time.Time { return today }))
	res, err := e.Evaluate(plan.GoalInput{
		CurrentWeightKG: 80, HeightCM: 180, AgeYears: 30, Sex: plan.Male,
		TargetWeightKG: 77, TargetDate: today.AddDate(0, 0, 60),
	})
	require.NoError(t, err)
	require.True(t, res.Feasible)
	return res
}

const validNarrative = `{
	"diet_plan": {"breakfast": "Oats", "lunch": "Chicken salad", "dinner": "Salmon", "snacks": ["Apple", "Yogurt"], "notes": "Drink water"},
	"training_plan": {"weekly_schedule": {"monday": "Run", "tuesday": "Strength", "wednesday": "Walk", "thursday": "Strength", "friday": "Run", "saturday": "Yoga", "sunday": "rest"}, "notes": "Progress slowly"},
	"explanation": "Moderate deficit with mixed training"
}`

// chatResponse wraps content in the chat completions response shape.
func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

// mockOpenAI serves status/body and records the last request body.
func mockOpenAI(t *testing.T, status int, body any) (*httptest.Server, *map[string]any) {
	t.Helper()
	var lastRequest map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &lastRequest)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &lastRequest
}

func TestOpenAIGenerator_Success(t *testing.T) {
	srv, lastRequest := mockOpenAI(t, http.StatusOK, chatResponse(validNarrative))
	gen := NewOpenAIGenerator("test-key", srv.URL, "", 5*time.Second)

	p, err := gen.Generate(context.Background(), feasibleResult(t))
	require.NoError(t, err)
	assert.Equal(t, "Oats", p.DietPlan.Breakfast)
	assert.Equal(t, []string{"Apple", "Yogurt"}, p.DietPlan.Snacks)
	assert.Equal(t, "rest", p.TrainingPlan.WeeklySchedule.Sunday)
	assert.Equal(t, "Moderate deficit with mixed training", p.Explanation)

	req := *lastRequest
	assert.Equal(t, DefaultModel, req["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, req["response_format"])
	messages := req["messages"].([]any)
	require.Len(t, messages, 2)
	userContent := messages[1].(map[string]any)["content"].(string)
	assert.Contains(t, userContent, `"target_calories": 1751`)
	assert.Contains(t, userContent, `"feasible": true`)
}

func TestOpenAIGenerator_InvalidContent(t *testing.T) {
	cases := map[string]string{
		"not json":            "Sure! Here is your plan...",
		"missing diet":        `{"training_plan": {"weekly_schedule": {}}, "explanation": "x"}`,
		"missing schedule":    `{"diet_plan": {}, "training_plan": {"notes": "x"}, "explanation": "x"}`,
		"missing explanation": `{"diet_plan": {}, "training_plan": {"weekly_schedule": {}}}`,
		"wrong snack type":    `{"diet_plan": {"snacks": "apple"}, "training_plan": {"weekly_schedule": {}}, "explanation": "x"}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := mockOpenAI(t, http.StatusOK, chatResponse(content))
			gen := NewOpenAIGenerator("test-key", srv.URL, "gpt-4o-mini", 5*time.Second)

			_, err := gen.Generate(context.Background(), feasibleResult(t))
			assert.ErrorIs(t, err, ErrInvalidContent)
		})
	}
}

func TestOpenAIGenerator_UpstreamErrors(t *testing.T) {
	t.Run("status 500", func(t *testing.T) {
		srv, _ := mockOpenAI(t, http.StatusInternalServerError, map[string]string{"error": "server error"})
		_, err := NewOpenAIGenerator("test-key", srv.URL, "", 5*time.Second).Generate(context.Background(), feasibleResult(t))
		assert.ErrorIs(t, err, ErrUpstream)
	})
	t.Run("no choices", func(t *testing.T) {
		srv, _ := mockOpenAI(t, http.StatusOK, map[string]any{"choices": []any{}})
		_, err := NewOpenAIGenerator("test-key", srv.URL, "", 5*time.Second).Generate(context.Background(), feasibleResult(t))
		assert.ErrorIs(t, err, ErrUpstream)
	})
}

func TestOpenAIGenerator_RejectsInfeasibleAndUnconfigured(t *testing.T) {
	rejected := plan.Result{Rejection: &plan.Rejection{Reason: "x", Values: map[string]any{}}}
	_, err := NewOpenAIGenerator("test-key", "", "", time.Second).Generate(context.Background(), rejected)
	assert.ErrorIs(t, err, ErrNotFeasible)

	_, err = NewOpenAIGenerator("", "", "", time.Second).Generate(context.Background(), feasibleResult(t))
	assert.ErrorIs(t, err, ErrDisabled)
}

// A failed generation must leave the caller's result untouched.
func TestOpenAIGenerator_DoesNotMutateResult(t *testing.T) {
	srv, _ := mockOpenAI(t, http.StatusOK, chatResponse("garbage"))
	res := feasibleResult(t)
	before, _ := json.Marshal(res)

	_, err := NewOpenAIGenerator("test-key", srv.URL, "", 5*time.Second).Generate(context.Background(), res)
	require.Error(t, err)

	after, _ := json.Marshal(res)
	assert.JSONEq(t, string(before), string(after))
}
