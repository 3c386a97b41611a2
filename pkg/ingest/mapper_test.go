package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentgraph/ingest-engine/pkg/apperrors"
	"github.com/talentgraph/ingest-engine/pkg/extract"
	"github.com/talentgraph/ingest-engine/pkg/models"
)

func stepNames(plan *Plan) []string {
	names := make([]string, len(plan.Statements))
	for i, stmt := range plan.Statements {
		names[i] = stmt.Name
	}
	return names
}

func findStatement(t *testing.T, plan *Plan, name string) map[string]any {
	t.Helper()
	for _, stmt := range plan.Statements {
		if stmt.Name == name {
			return stmt.Params
		}
	}
	t.Fatalf("statement %s not found in plan %v", name, stepNames(plan))
	return nil
}

// labelExtractor maps input text to a fixed label list.
func labelExtractor(byText map[string][]string) *extract.MockExtractor {
	mock := extract.NewMockExtractor()
	mock.ExtractFunc = func(ctx context.Context, text string) ([]string, error) {
		return byText[text], nil
	}
	return mock
}

func TestMap_Validation(t *testing.T) {
	tests := []struct {
		name     string
		profile  *models.Profile
		tenantID string
	}{
		{
			name:     "missing entityUri",
			profile:  &models.Profile{NameDetail: &models.NameDetail{FirstName: "Ann"}},
			tenantID: "acme",
		},
		{
			name:     "missing name detail",
			profile:  &models.Profile{EntityURI: "u1"},
			tenantID: "acme",
		},
		{
			name:     "empty name detail",
			profile:  &models.Profile{EntityURI: "u1", NameDetail: &models.NameDetail{}},
			tenantID: "acme",
		},
		{
			name:     "missing tenant",
			profile:  &models.Profile{EntityURI: "u1", NameDetail: &models.NameDetail{FirstName: "Ann"}},
			tenantID: "",
		},
	}

	mock := extract.NewMockExtractor()
	m := NewMapper(mock, zap.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := m.Map(context.Background(), tt.profile, tt.tenantID)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
			assert.Nil(t, plan, "validation failure must produce zero operations")
		})
	}
	assert.Equal(t, 0, mock.ExtractCalls, "invalid profiles never reach the extractor")
}

func TestMap_LastNameOnlyIsValid(t *testing.T) {
	m := NewMapper(extract.NewMockExtractor(), zap.NewNop())
	profile := &models.Profile{
		EntityURI:  "u1",
		NameDetail: &models.NameDetail{LastName: "Smith"},
	}

	_, err := m.Map(context.Background(), profile, "acme")
	require.NoError(t, err)
}

func TestMap_SummaryOnlyProfile(t *testing.T) {
	mock := labelExtractor(map[string][]string{
		"Python, Go": {"Python", "Go"},
	})
	m := NewMapper(mock, zap.NewNop())

	profile := &models.Profile{
		EntityURI:  "u1",
		NameDetail: &models.NameDetail{FirstName: "Ann"},
		Summary:    "Python, Go",
	}

	plan, err := m.Map(context.Background(), profile, "acme")
	require.NoError(t, err)
	assert.Empty(t, plan.Failures)

	assert.Equal(t, []string{
		"merge_tenant",
		"merge_user",
		"user_attended_tenant",
		"merge_user_tech",
		"user_knows_tech",
	}, stepNames(plan))

	assert.Equal(t, map[string]any{"tenantId": "acme"}, findStatement(t, plan, "merge_tenant"))
	assert.Equal(t, map[string]any{
		"entityUri": "u1",
		"firstName": "Ann",
		"summary":   "Python, Go",
	}, findStatement(t, plan, "merge_user"))
	assert.Equal(t, []any{"Python", "Go"}, findStatement(t, plan, "merge_user_tech")["tech"])
	assert.Equal(t, []any{"Python", "Go"}, findStatement(t, plan, "user_knows_tech")["tech"])

	// One extraction call for the profile text, none per character or word.
	assert.Equal(t, 1, mock.ExtractCalls)
	assert.Equal(t, []string{"Python, Go"}, mock.Inputs)
}

func TestMap_DescriptionPreferredOverSummary(t *testing.T) {
	mock := labelExtractor(map[string][]string{"desc text": {"Go"}})
	m := NewMapper(mock, zap.NewNop())

	profile := &models.Profile{
		EntityURI:   "u1",
		NameDetail:  &models.NameDetail{FirstName: "Ann"},
		Description: "desc text",
		Summary:     "summary text",
	}

	_, err := m.Map(context.Background(), profile, "acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"desc text"}, mock.Inputs)
}

func TestMap_EmploymentProfile(t *testing.T) {
	mock := labelExtractor(map[string][]string{
		"Built services in Rust": {"Rust"},
	})
	m := NewMapper(mock, zap.NewNop())

	profile := &models.Profile{
		EntityURI:  "u1",
		NameDetail: &models.NameDetail{FirstName: "Ann"},
		Employments: []models.Employment{
			{
				IsCurrent:   true,
				Employer:    &models.Employer{Name: "Acme Corp"},
				Title:       "Backend Engineer",
				Description: "Built services in Rust",
			},
		},
	}

	plan, err := m.Map(context.Background(), profile, "acme")
	require.NoError(t, err)
	assert.Empty(t, plan.Failures)

	assert.Equal(t, []string{
		"merge_tenant",
		"merge_user",
		"user_attended_tenant",
		"merge_employers",
		"merge_roles",
		"merge_employment_tech",
		"employer_uses_tech",
		"user_employed_at",
		"user_was_role",
	}, stepNames(plan))

	employments := findStatement(t, plan, "merge_employers")["employments"].([]any)
	require.Len(t, employments, 1)
	flat := employments[0].(map[string]any)
	assert.Equal(t, "Acme Corp", flat["employerName"])
	assert.Equal(t, "Backend Engineer", flat["title"])
	assert.Equal(t, "Built services in Rust", flat["description"])
	assert.Equal(t, true, flat["isCurrent"])

	assert.Equal(t, []any{"Rust"}, findStatement(t, plan, "merge_employment_tech")["tech"])

	pairs := findStatement(t, plan, "employer_uses_tech")["employerTech"].([]any)
	require.Len(t, pairs, 1)
	assert.Equal(t, map[string]any{"name": "Acme Corp", "tech": []any{"Rust"}}, pairs[0])

	// Three extraction sources: profile text (empty), employment
	// description, employment title.
	assert.Equal(t, 3, mock.ExtractCalls)
}

func TestMap_EmploymentWithoutEmployer(t *testing.T) {
	mock := labelExtractor(nil)
	m := NewMapper(mock, zap.NewNop())

	profile := &models.Profile{
		EntityURI:  "u1",
		NameDetail: &models.NameDetail{FirstName: "Ann"},
		Employments: []models.Employment{
			{Title: "Backend Engineer"},
		},
	}

	plan, err := m.Map(context.Background(), profile, "acme")
	require.NoError(t, err)

	names := stepNames(plan)
	assert.NotContains(t, names, "merge_employers")
	assert.NotContains(t, names, "user_employed_at")
	assert.Contains(t, names, "merge_roles")
	assert.Contains(t, names, "user_was_role")
}

func TestMap_EmploymentTechDeduplicatedAgainstUserTech(t *testing.T) {
	mock := labelExtractor(map[string][]string{
		"knows Go":      {"Go"},
		"Go and Kafka":  {"Go", "Kafka"},
		"Data Engineer": {"Kafka"},
	})
	m := NewMapper(mock, zap.NewNop())

	profile := &models.Profile{
		EntityURI:  "u1",
		NameDetail: &models.NameDetail{FirstName: "Ann"},
		Summary:    "knows Go",
		Employments: []models.Employment{
			{
				Employer:    &models.Employer{Name: "Acme Corp"},
				Title:       "Data Engineer",
				Description: "Go and Kafka",
			},
		},
	}

	plan, err := m.Map(context.Background(), profile, "acme")
	require.NoError(t, err)

	// Go was already merged from the profile text; only Kafka remains.
	assert.Equal(t, []any{"Kafka"}, findStatement(t, plan, "merge_employment_tech")["tech"])

	// Relationship pairs still carry the full label lists.
	pairs := findStatement(t, plan, "employer_uses_tech")["employerTech"].([]any)
	assert.Equal(t, map[string]any{"name": "Acme Corp", "tech": []any{"Go", "Kafka"}}, pairs[0])
	rolePairs := findStatement(t, plan, "role_uses_tech")["titleTech"].([]any)
	assert.Equal(t, map[string]any{"name": "Data Engineer", "tech": []any{"Kafka"}}, rolePairs[0])
}

func TestMap_RepeatedMappingProducesIdenticalPlan(t *testing.T) {
	mock := labelExtractor(map[string][]string{
		"Python, Go":             {"Python", "Go"},
		"Built services in Rust": {"Rust"},
	})
	m := NewMapper(mock, zap.NewNop())

	profile := &models.Profile{
		EntityURI:  "u1",
		NameDetail: &models.NameDetail{FirstName: "Ann"},
		Summary:    "Python, Go",
		Employments: []models.Employment{
			{
				Employer:    &models.Employer{Name: "Acme Corp"},
				Title:       "Backend Engineer",
				Description: "Built services in Rust",
			},
		},
	}

	first, err := m.Map(context.Background(), profile, "acme")
	require.NoError(t, err)
	second, err := m.Map(context.Background(), profile, "acme")
	require.NoError(t, err)

	// Same statements, same order, same parameters: re-ingestion replays the
	// identical merge sequence and converges instead of diverging.
	assert.Equal(t, first, second)
}

func TestMap_ExtractionFailureRecordedAndMappingContinues(t *testing.T) {
	mock := extract.NewMockExtractor()
	mock.ExtractFunc = func(ctx context.Context, text string) ([]string, error) {
		return nil, &extract.Error{Message: "unusable model output"}
	}
	m := NewMapper(mock, zap.NewNop())

	profile := &models.Profile{
		EntityURI:  "u1",
		NameDetail: &models.NameDetail{FirstName: "Ann"},
		Summary:    "Python, Go",
		Employments: []models.Employment{
			{Employer: &models.Employer{Name: "Acme Corp"}, Title: "Engineer", Description: "Rust"},
		},
	}

	plan, err := m.Map(context.Background(), profile, "acme")
	require.NoError(t, err, "extraction failures do not fail the mapping")

	require.Len(t, plan.Failures, 3)
	assert.Equal(t, "extract_user_tech", plan.Failures[0].Step)
	assert.Equal(t, "extract_employer_tech", plan.Failures[1].Step)
	assert.Equal(t, "extract_title_tech", plan.Failures[2].Step)

	names := stepNames(plan)
	assert.NotContains(t, names, "merge_user_tech")
	assert.NotContains(t, names, "employer_uses_tech")
	// Non-tech steps still present.
	assert.Contains(t, names, "merge_employers")
	assert.Contains(t, names, "user_employed_at")
}

func TestMap_NoTechFoundOmitsTechStatements(t *testing.T) {
	m := NewMapper(extract.NewMockExtractor(), zap.NewNop())

	profile := &models.Profile{
		EntityURI:  "u1",
		NameDetail: &models.NameDetail{FirstName: "Ann"},
		Summary:    "likes gardening",
	}

	plan, err := m.Map(context.Background(), profile, "acme")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"merge_tenant",
		"merge_user",
		"user_attended_tenant",
	}, stepNames(plan))
}
