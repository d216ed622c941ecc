package plan

// GoalType is the direction of a feasible plan.
type GoalType string

const (
	Loss GoalType = "loss"
	Gain GoalType = "gain"
)

// Result is the outcome of one evaluation. Feasible is the discriminant: when true Plan
// is set and Rejection is nil, when false the reverse. The embedded pointers flatten into
// the JSON object, so a Result encodes as either the plan or the rejection shape.
type Result struct {
	Feasible bool `json:"feasible"`
	*Plan
	*Rejection
}

// Plan is a safe, achievable calorie target. Exactly one of DailyDeficit (Loss) or
// DailySurplus (Gain) is set. All numbers are floored kcal/day except Days.
type Plan struct {
	TargetCalories int      `json:"target_calories"`
	GoalType       GoalType `json:"type"`
	TDEE           int      `json:"tdee"`
	Days           int      `json:"days"`
	DailyDeficit   *int     `json:"daily_deficit,omitempty"`
	DailySurplus   *int     `json:"daily_surplus,omitempty"`
}

// Rejection explains why a goal cannot be planned safely.
// Values holds the diagnostic numbers behind the decision and is never nil.
type Rejection struct {
	Reason      string         `json:"reason"`
	Values      map[string]any `json:"values"`
	UserMessage string         `json:"user_message"`
}

func feasible(p Plan) Result {
	return Result{Feasible: true, Plan: &p}
}

func rejected(reason string, values map[string]any, userMessage string) Result {
	if values == nil {
		values = map[string]any{}
	}
	return Result{
		Feasible:  false,
		Rejection: &Rejection{Reason: reason, Values: values, UserMessage: userMessage},
	}
}
