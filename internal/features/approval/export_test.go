package approval

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportToExcel(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	_, err := env.service.CreateFromAssessment(ctx, "c-x1", assessment(0.70))
	require.NoError(t, err)
	_, err = env.service.CreateFromAssessment(ctx, "c-x2", assessment(0.92))
	require.NoError(t, err)

	data, filename, err := env.service.ExportToExcel(ctx, ListFilter{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Approvals")
	require.NoError(t, err)

	// Header plus one row per record.
	require.Len(t, rows, 3)
	assert.Equal(t, exportColumns, rows[0])

	contentIDs := []string{rows[1][1], rows[2][1]}
	assert.ElementsMatch(t, []string{"c-x1", "c-x2"}, contentIDs)
}

func TestExportRespectsFilter(t *testing.T) {
	env := newTestEnv(nil)
	ctx := context.Background()

	_, err := env.service.CreateFromAssessment(ctx, "c-x3", assessment(0.70))
	require.NoError(t, err)
	_, err = env.service.CreateFromAssessment(ctx, "c-x4", assessment(0.25))
	require.NoError(t, err)

	data, _, err := env.service.ExportToExcel(ctx, ListFilter{Status: string(StatusRejected)})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Approvals")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "c-x4", rows[1][1])
}
