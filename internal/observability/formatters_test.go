package observability

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vishaaldeep/sahayak2-sub000/internal/recommend"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

func TestPrintAssessment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssessment(&types.AssessmentResult{
		TotalScore:     74,
		Recommendation: types.TakeAChance,
		Confidence:     types.ConfidenceMedium,
		MethodUsed:     types.MethodExternalFallback,
		FallbackReason: "model unavailable",
		Breakdown: map[types.Dimension]types.DimensionScore{
			types.DimensionSkills: {Score: 72, Weight: 0.30},
		},
		Strengths: []string{"High reliability with no concerning reports"},
	})

	out := buf.String()
	assert.Contains(t, out, "Hiring Assessment")
	assert.Contains(t, out, "74/100")
	assert.Contains(t, out, "TAKE_A_CHANCE")
	assert.Contains(t, out, "model unavailable")
	assert.Contains(t, out, "skills")
}

func TestPrintAssessmentNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAssessment(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations(&recommend.Result{
		Recommendations: []types.RecommendationScore{
			{
				JobID:    uuid.New(),
				Title:    "Welder",
				Score:    56,
				RawScore: 80,
				Warnings: []string{"Employer has multiple verified abuse reports"},
			},
		},
		Insights: recommend.Insights{EmployersWithWarning: 1},
	})

	out := buf.String()
	assert.Contains(t, out, "Job Recommendations")
	assert.Contains(t, out, "Welder")
	assert.Contains(t, out, "pre-penalty 80")
	assert.Contains(t, out, "Employers with warnings: 1")
}

func TestPrintSession(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	selected := 1
	p.PrintSession(&types.TestSession{
		ID:     uuid.New(),
		Status: types.SessionCompleted,
		Questions: []types.SessionQuestion{
			{QuestionID: uuid.New(), SelectedOption: &selected},
			{QuestionID: uuid.New()},
		},
		CorrectCount: 1,
		Percentage:   50,
	})

	out := buf.String()
	assert.Contains(t, out, "Test Session")
	assert.Contains(t, out, "Answered:  1")
	assert.Contains(t, out, "1/2 correct (50%)")
}
