package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectValidate_StatusDateCoupling(t *testing.T) {
	base := Project{Name: "Plant retrofit", Status: ProjectPending}
	require.NoError(t, base.Validate())

	paused := base
	paused.Status = ProjectPaused
	assert.ErrorIs(t, paused.Validate(), ErrInvalidArgument)
	paused.PausedAt = day("2024-02-01")
	assert.NoError(t, paused.Validate())

	done := base
	done.Status = ProjectDone
	assert.ErrorIs(t, done.Validate(), ErrInvalidArgument)
	done.CompletedAt = day("2024-05-01")
	assert.NoError(t, done.Validate())

	stray := base
	stray.CompletedAt = day("2024-05-01")
	assert.ErrorIs(t, stray.Validate(), ErrInvalidArgument)
}

func TestProjectValidate_Limits(t *testing.T) {
	p := Project{Name: "  ", Status: ProjectPending}
	assert.ErrorIs(t, p.Validate(), ErrInvalidArgument)

	p = Project{Name: "ok", Status: "archived"}
	assert.ErrorIs(t, p.Validate(), ErrInvalidArgument)
}

func TestProjectPatch_ApplyClearsNullable(t *testing.T) {
	code := "HB-1"
	p := Project{Name: "A", Code: &code, Status: ProjectDone, CompletedAt: day("2024-01-01")}
	status := ProjectInProgress
	merged := ProjectPatch{Status: &status, CompletedAt: Null[time.Time]()}.Apply(p)
	assert.Nil(t, merged.CompletedAt)
	assert.Equal(t, ProjectInProgress, merged.Status)
	assert.Equal(t, &code, merged.Code)
	assert.NoError(t, merged.Validate())
}

func TestNormalizeProjectCode(t *testing.T) {
	assert.Equal(t, "HB-130X-1035", NormalizeProjectCode("HB-130X(#1035)"))
	assert.Equal(t, "HB-130X", NormalizeProjectCode(" HB-130X "))
}

func TestErrorClassification(t *testing.T) {
	err := Blocked(3, "classification has %d children", 3)
	assert.True(t, errors.Is(err, ErrInvalidOperation))
	assert.Equal(t, 3, CountOf(err))
	assert.Equal(t, "classification has 3 children", err.Error())
	assert.Equal(t, 0, CountOf(NotFound("x")))
}
