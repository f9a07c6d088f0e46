package cube

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cubedeck/internal/catalog"
	"cubedeck/internal/domain"
	"cubedeck/internal/warehouse"
)

func TestRefreshCube_SwapsStagingIntoPlace(t *testing.T) {
	db := warehouse.OpenTestWarehouse(t)
	for _, stmt := range []string{
		"CREATE TABLE dim_vessel (vessel_key INTEGER, vessel_name TEXT, vessel_type TEXT, is_current BOOLEAN)",
		"INSERT INTO dim_vessel VALUES (1,'Aurora','TANKER',true)",
		"CREATE TABLE dim_time (time_key INTEGER, month_name TEXT, month_num INTEGER, year INTEGER, is_current BOOLEAN)",
		"INSERT INTO dim_time VALUES (10,'2024-01',1,2024,true)",
		"CREATE TABLE fact_po (vessel_key INTEGER, time_key INTEGER, po_id INTEGER, po_amount REAL)",
		"INSERT INTO fact_po VALUES (1,10,1,100)",

		// Staging carries the next load: one more vessel, one more order.
		"CREATE TABLE dim_vessel_staging AS SELECT * FROM dim_vessel",
		"INSERT INTO dim_vessel_staging VALUES (2,'Borealis','TANKER',true)",
		"CREATE TABLE dim_time_staging AS SELECT * FROM dim_time",
		"CREATE TABLE fact_po_staging AS SELECT * FROM fact_po",
		"INSERT INTO fact_po_staging VALUES (2,10,2,60)",
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	cat := catalog.New()
	require.NoError(t, cat.Register(procurementCube()))
	svc := NewService(cat, warehouse.NewExecutor(db, time.Minute, slog.Default()), slog.Default())
	ctx := context.Background()

	before, err := svc.ExecuteQuery(ctx, "MaritimeProcurement",
		"SELECT [Measures].[POAmount] FROM [MaritimeProcurement]")
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{100.0}}, before.Data)

	require.NoError(t, svc.RefreshCube(ctx, "MaritimeProcurement"))

	after, err := svc.ExecuteQuery(ctx, "MaritimeProcurement",
		"SELECT [Measures].[POAmount] FROM [MaritimeProcurement]")
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{160.0}}, after.Data)

	members, err := svc.DimensionMembers(ctx, "MaritimeProcurement", "Vessel", "")
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestRefreshCube_MissingStagingFailsCleanly(t *testing.T) {
	svc := setupService(t) // fixture has no staging tables
	ctx := context.Background()

	err := svc.RefreshCube(ctx, "MaritimeProcurement")
	var refErr *domain.RefreshError
	require.ErrorAs(t, err, &refErr)

	// The transaction rolled back; the cube still answers queries.
	data, err := svc.ExecuteQuery(ctx, "MaritimeProcurement",
		"SELECT [Measures].[POAmount] FROM [MaritimeProcurement]")
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{180.0}}, data.Data)
}

func TestRefreshCube_UnknownCube(t *testing.T) {
	svc := setupService(t)

	err := svc.RefreshCube(context.Background(), "Payroll")
	var semErr *domain.SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, domain.UnknownCube, semErr.Kind)
}
