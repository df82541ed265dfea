package domain

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectPaused     ProjectStatus = "paused"
	ProjectDone       ProjectStatus = "done"
)

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[ProjectStatus]bool{
	ProjectPending: true, ProjectInProgress: true, ProjectPaused: true, ProjectDone: true,
}

// StatusCatalogEntry is one row of the seeded project status catalog.
type StatusCatalogEntry struct {
	ID           int64
	Code         ProjectStatus
	Name         string
	DisplayOrder int
}

// StatusCatalog is the seed content of the project_statuses table.
var StatusCatalog = []StatusCatalogEntry{
	{ID: 1, Code: ProjectPending, Name: "Pending", DisplayOrder: 1},
	{ID: 2, Code: ProjectInProgress, Name: "In progress", DisplayOrder: 2},
	{ID: 3, Code: ProjectPaused, Name: "Paused", DisplayOrder: 3},
	{ID: 4, Code: ProjectDone, Name: "Done", DisplayOrder: 4},
}

const (
	TaskOpen   = "open"
	TaskClosed = "closed"
)

type ScheduleItemStatus string

const (
	ItemNotStarted ScheduleItemStatus = "not_started"
	ItemInProgress ScheduleItemStatus = "in_progress"
	ItemDone       ScheduleItemStatus = "done"
)

type PlanKind string

const (
	PlanBaseline PlanKind = "baseline"
	PlanCurrent  PlanKind = "current"
)
