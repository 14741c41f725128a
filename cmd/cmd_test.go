package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"aggregate-persistence/core/config"
	"aggregate-persistence/core/database"
	"aggregate-persistence/core/journal"
	"aggregate-persistence/core/server"
	"aggregate-persistence/core/repository"
	"aggregate-persistence/feature/order"
	"aggregate-persistence/feature/order/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupEnv(t *testing.T, dsn string) {
	t.Helper()
	t.Setenv("DATABASE_DRIVER", database.DriverSQLite)
	t.Setenv("DATABASE_NAME", dsn)
	t.Setenv("JOURNAL_SINK", "none")
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(append(args, "--config", t.TempDir()))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
		verifyOnly = false
	})
	err := RootCmd.Execute()
	return out.String(), err
}

func TestMigrateAndShow(t *testing.T) {
	dsn := "file:cmd_show?mode=memory&cache=shared"
	setupEnv(t, dsn)

	// Holds the shared in-memory database open across commands.
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: dsn})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	_, err = run(t, "migrate")
	require.NoError(t, err)

	gw, err := order.NewGateway(db, repository.Config{}, nil, nil)
	require.NoError(t, err)
	o := &models.Order{Status: models.StatusCreated, Consignee: models.Consignee{Name: "Ada"}}
	_, err = o.AddItem(100, "pen", 1, 10)
	require.NoError(t, err)
	agg, err := gw.New(o)
	require.NoError(t, err)
	_, err = gw.Save(context.Background(), agg)
	require.NoError(t, err)

	out, err := run(t, "order", "show", strconv.FormatInt(o.ID, 10))
	require.NoError(t, err)
	var shown models.Order
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, o.ID, shown.ID)
	assert.Equal(t, "Ada", shown.Consignee.Name)
	assert.Len(t, shown.Items, 1)

	_, err = run(t, "migrate", "--verify")
	assert.NoError(t, err)
}

func TestOrderCommands_Errors(t *testing.T) {
	setupEnv(t, "file:cmd_errors?mode=memory&cache=shared")

	_, err := run(t, "order", "show", "abc")
	assert.ErrorContains(t, err, "invalid order id")

	_, err = run(t, "order", "history", "1")
	assert.ErrorContains(t, err, "JOURNAL_SINK=object")
}

func TestNewServer_DocsArePublic(t *testing.T) {
	rt := &runtime{
		cfg:  &config.Config{Server: server.Config{ApiKey: "secret"}},
		log:  zap.NewNop(),
		sink: journal.Nop{},
	}
	app, err := newServer(rt)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/orders/{id}")
	assert.Contains(t, string(body), "X-API-Key")

	resp, err = app.Test(httptest.NewRequest("GET", "/orders/1", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
