package ingest

// Fixed merge-by-key Cypher templates, one per pipeline step. Node-creation
// statements always precede the relationship statements that reference them:
// the store has no forward-reference resolution, and a relationship MERGE
// whose endpoint MATCH finds no node is a no-op.
//
// Every statement is an idempotent merge: nodes merge by their identity key,
// relationships by (source key, type, target key). Attributes annotated
// ON CREATE SET are written on first creation only and never overwritten on
// re-ingest.

// Step names, in execution order. These identify steps in logs and results.
const (
	stepMergeTenant         = "merge_tenant"
	stepMergeUser           = "merge_user"
	stepUserAttendedTenant  = "user_attended_tenant"
	stepExtractUserTech     = "extract_user_tech"
	stepMergeUserTech       = "merge_user_tech"
	stepUserKnowsTech       = "user_knows_tech"
	stepMergeEmployers      = "merge_employers"
	stepMergeRoles          = "merge_roles"
	stepExtractEmployerTech = "extract_employer_tech"
	stepExtractTitleTech    = "extract_title_tech"
	stepMergeEmploymentTech = "merge_employment_tech"
	stepEmployerUsesTech    = "employer_uses_tech"
	stepRoleUsesTech        = "role_uses_tech"
	stepUserEmployedAt      = "user_employed_at"
	stepUserWasRole         = "user_was_role"
)

const (
	mergeTenantQuery = `
MERGE (t:Tenant {name: $tenantId})
ON CREATE SET t.created_at = datetime()
`

	mergeUserQuery = `
MERGE (u:User {entityUri: $entityUri})
ON CREATE SET u.firstName = $firstName, u.summary = $summary
`

	userAttendedTenantQuery = `
MATCH (u:User {entityUri: $entityUri}), (t:Tenant {name: $tenantId})
MERGE (u)-[:ATTENDED]->(t)
`

	mergeTechQuery = `
UNWIND $tech AS label
MERGE (t:Tech {name: label})
`

	userKnowsTechQuery = `
UNWIND $tech AS label
MATCH (u:User {entityUri: $entityUri}), (t:Tech {name: label})
MERGE (u)-[:KNOWS]->(t)
`

	mergeEmployersQuery = `
UNWIND $employments AS employment
WITH employment
WHERE employment.employerName IS NOT NULL
MERGE (e:Employer {name: employment.employerName})
ON CREATE SET e.description = employment.description
`

	mergeRolesQuery = `
UNWIND $employments AS employment
WITH employment
WHERE employment.title IS NOT NULL
MERGE (r:Role {name: employment.title})
`

	employerUsesTechQuery = `
UNWIND $employerTech AS pair
UNWIND pair.tech AS label
MATCH (e:Employer {name: pair.name}), (t:Tech {name: label})
MERGE (e)-[:USES]->(t)
`

	roleUsesTechQuery = `
UNWIND $titleTech AS pair
UNWIND pair.tech AS label
MATCH (r:Role {name: pair.name}), (t:Tech {name: label})
MERGE (r)-[:USES]->(t)
`

	userEmployedAtQuery = `
UNWIND $employments AS employment
WITH employment
WHERE employment.employerName IS NOT NULL
MATCH (u:User {entityUri: $entityUri}), (e:Employer {name: employment.employerName})
MERGE (u)-[:EMPLOYED_AT]->(e)
`

	userWasRoleQuery = `
UNWIND $employments AS employment
WITH employment
WHERE employment.title IS NOT NULL
MATCH (u:User {entityUri: $entityUri}), (r:Role {name: employment.title})
MERGE (u)-[:WAS]->(r)
`
)
