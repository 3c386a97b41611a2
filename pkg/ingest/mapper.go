// Package ingest maps person-profile documents onto ordered sequences of
// idempotent graph upserts and runs them against the graph writer.
package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/talentgraph/ingest-engine/pkg/apperrors"
	"github.com/talentgraph/ingest-engine/pkg/extract"
	"github.com/talentgraph/ingest-engine/pkg/graph"
	"github.com/talentgraph/ingest-engine/pkg/models"
)

// StepFailure records one failed pipeline step.
type StepFailure struct {
	Step string
	Err  error
}

// Plan is the ordered operation sequence derived from one profile document.
// Extraction failures encountered during mapping are recorded here and
// treated as "no tech found"; they do not stop the remaining steps.
type Plan struct {
	Statements []graph.Statement
	Failures   []StepFailure
}

// Mapper derives the graph upsert sequence for a profile document, invoking
// the tech extractor for its free-text fields.
type Mapper struct {
	extractor extract.TechExtractor
	logger    *zap.Logger
}

// NewMapper creates a Mapper.
func NewMapper(extractor extract.TechExtractor, logger *zap.Logger) *Mapper {
	return &Mapper{extractor: extractor, logger: logger.Named("mapper")}
}

// techPair binds an employer name or role title to the tech labels extracted
// from its free text.
type techPair struct {
	name string
	tech []string
}

// Map validates the profile and produces its operation plan in fixed order:
// tenant and user nodes, the ATTENDED edge, tech extracted from the profile
// text, employer/role nodes, tech extracted from employment descriptions and
// titles, then the remaining relationship merges. Later statements reference
// nodes merged by earlier ones, so the order is part of the contract.
//
// Returns ErrValidation (and zero operations) when the profile lacks an
// entity URI or a name, or when tenantID is empty.
func (m *Mapper) Map(ctx context.Context, profile *models.Profile, tenantID string) (*Plan, error) {
	if tenantID == "" {
		return nil, apperrors.Validationf("tenant identifier is required")
	}
	if profile.EntityURI == "" {
		return nil, apperrors.Validationf("profile is missing entityUri")
	}
	if profile.FirstName() == "" && profile.LastName() == "" {
		return nil, apperrors.Validationf("profile is missing a name")
	}

	plan := &Plan{}

	plan.add(stepMergeTenant, mergeTenantQuery, map[string]any{
		"tenantId": tenantID,
	})

	plan.add(stepMergeUser, mergeUserQuery, map[string]any{
		"entityUri": profile.EntityURI,
		"firstName": profile.FirstName(),
		"summary":   profile.Summary,
	})

	plan.add(stepUserAttendedTenant, userAttendedTenantQuery, map[string]any{
		"entityUri": profile.EntityURI,
		"tenantId":  tenantID,
	})

	// One extraction call per distinct free-text source: the profile text,
	// each employment description, each employment title.
	userTech := m.extractTech(ctx, plan, stepExtractUserTech, profileText(profile))
	if len(userTech) > 0 {
		plan.add(stepMergeUserTech, mergeTechQuery, map[string]any{
			"tech": toAnyList(userTech),
		})
		plan.add(stepUserKnowsTech, userKnowsTechQuery, map[string]any{
			"entityUri": profile.EntityURI,
			"tech":      toAnyList(userTech),
		})
	}

	if len(profile.Employments) == 0 {
		return plan, nil
	}

	employments := make([]any, 0, len(profile.Employments))
	hasEmployer := false
	hasTitle := false
	for i := range profile.Employments {
		e := &profile.Employments[i]
		employments = append(employments, flattenEmployment(e))
		if e.EmployerName() != "" {
			hasEmployer = true
		}
		if e.Title != "" {
			hasTitle = true
		}
	}

	if hasEmployer {
		plan.add(stepMergeEmployers, mergeEmployersQuery, map[string]any{
			"employments": employments,
		})
	}
	if hasTitle {
		plan.add(stepMergeRoles, mergeRolesQuery, map[string]any{
			"employments": employments,
		})
	}

	var employerTech, titleTech []techPair
	for i := range profile.Employments {
		e := &profile.Employments[i]
		if name := e.EmployerName(); name != "" {
			if tech := m.extractTech(ctx, plan, stepExtractEmployerTech, e.Description); len(tech) > 0 {
				employerTech = append(employerTech, techPair{name: name, tech: tech})
			}
		}
		if e.Title != "" {
			if tech := m.extractTech(ctx, plan, stepExtractTitleTech, e.Title); len(tech) > 0 {
				titleTech = append(titleTech, techPair{name: e.Title, tech: tech})
			}
		}
	}

	// Union of employment tech labels, minus any already merged from the
	// profile text.
	merged := make(map[string]struct{}, len(userTech))
	for _, label := range userTech {
		merged[label] = struct{}{}
	}
	var employmentTech []any
	for _, pair := range append(append([]techPair{}, employerTech...), titleTech...) {
		for _, label := range pair.tech {
			if _, ok := merged[label]; ok {
				continue
			}
			merged[label] = struct{}{}
			employmentTech = append(employmentTech, label)
		}
	}
	if len(employmentTech) > 0 {
		plan.add(stepMergeEmploymentTech, mergeTechQuery, map[string]any{
			"tech": employmentTech,
		})
	}

	if len(employerTech) > 0 {
		plan.add(stepEmployerUsesTech, employerUsesTechQuery, map[string]any{
			"employerTech": toPairList(employerTech),
		})
	}
	if len(titleTech) > 0 {
		plan.add(stepRoleUsesTech, roleUsesTechQuery, map[string]any{
			"titleTech": toPairList(titleTech),
		})
	}

	if hasEmployer {
		plan.add(stepUserEmployedAt, userEmployedAtQuery, map[string]any{
			"entityUri":   profile.EntityURI,
			"employments": employments,
		})
	}
	if hasTitle {
		plan.add(stepUserWasRole, userWasRoleQuery, map[string]any{
			"entityUri":   profile.EntityURI,
			"employments": employments,
		})
	}

	return plan, nil
}

// extractTech runs one extraction call. A failure is recorded as a step
// failure and treated as "no tech found" so the remaining steps still run.
func (m *Mapper) extractTech(ctx context.Context, plan *Plan, step, text string) []string {
	tech, err := m.extractor.Extract(ctx, text)
	if err != nil {
		m.logger.Warn("tech extraction failed",
			zap.String("step", step),
			zap.Error(err))
		plan.Failures = append(plan.Failures, StepFailure{Step: step, Err: err})
		return nil
	}
	return tech
}

func (p *Plan) add(name, query string, params map[string]any) {
	p.Statements = append(p.Statements, graph.Statement{Name: name, Query: query, Params: params})
}

// profileText returns the free-text source for user-level tech extraction:
// the provider's description, falling back to the summary.
func profileText(profile *models.Profile) string {
	if profile.Description != "" {
		return profile.Description
	}
	return profile.Summary
}

// flattenEmployment reduces an employment record to a one-level map of
// primitives, the only shape passed to the store as a parameter. Empty
// strings become nil so the Cypher IS NOT NULL guards skip them.
func flattenEmployment(e *models.Employment) map[string]any {
	flat := map[string]any{
		"employerName": nullable(e.EmployerName()),
		"title":        nullable(e.Title),
		"description":  nullable(e.Description),
		"isCurrent":    e.IsCurrent,
		"address":      nil,
		"endTimestamp": nil,
	}
	if e.Employer != nil {
		flat["employerType"] = nullable(e.Employer.Type)
	}
	if e.Location != nil {
		flat["address"] = nullable(e.Location.Address)
	}
	if e.To != nil && e.To.Timestamp != nil {
		flat["endTimestamp"] = *e.To.Timestamp
	}
	return flat
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func toAnyList(labels []string) []any {
	out := make([]any, len(labels))
	for i, label := range labels {
		out[i] = label
	}
	return out
}

func toPairList(pairs []techPair) []any {
	out := make([]any, len(pairs))
	for i, pair := range pairs {
		out[i] = map[string]any{
			"name": pair.name,
			"tech": toAnyList(pair.tech),
		}
	}
	return out
}
