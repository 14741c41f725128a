package order

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"aggregate-persistence/core/errs"
	"aggregate-persistence/core/loader"
	"aggregate-persistence/core/repository"
	"aggregate-persistence/feature/order/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	db := setupDB(t)
	app := fiber.New()
	mgr := loader.NewManager(zap.NewNop())
	mgr.Register(NewFeature(db, repository.Config{}, nil, zap.NewNop()))
	require.NoError(t, mgr.LoadAll(app))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func validCreate() CreateInput {
	return CreateInput{
		Consignee:    models.Consignee{Name: "Ada", Mobile: "555", ShippingAddress: "1 Loop Rd"},
		SubmitUserID: 7,
		SellerID:     3,
		Items: []ItemInput{
			{GoodsID: 100, GoodsName: "pen", Amount: 2, Price: 25},
			{GoodsID: 101, GoodsName: "ink", Amount: 5, Price: 10},
		},
	}
}

func TestHandler_Lifecycle(t *testing.T) {
	app := setupApp(t)

	status, body := doJSON(t, app, "POST", "/orders", validCreate())
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var created SaveResult
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, repository.OutcomeCreated, created.Outcome)
	assert.Equal(t, int64(100), created.Order.TotalMoney)
	assert.Equal(t, int64(1), created.Order.Version)
	id := created.Order.ID
	path := "/orders/" + jsonNumber(id)

	status, body = doJSON(t, app, "GET", path, nil)
	require.Equal(t, fiber.StatusOK, status)
	var got models.Order
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Len(t, got.Items, 2)

	points := int64(30)
	items := []ItemInput{
		{ID: got.Items[0].ID, GoodsID: 100, GoodsName: "pen", Amount: 4, Price: 25},
		{GoodsID: 102, GoodsName: "pad", Amount: 1, Price: 5},
	}
	update := UpdateInput{Version: 1, DeductionPoints: &points, Items: &items}
	status, body = doJSON(t, app, "PUT", path, update)
	require.Equal(t, fiber.StatusOK, status, string(body))
	var updated SaveResult
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, repository.OutcomeUpdated, updated.Outcome)
	assert.Equal(t, int64(2), updated.Order.Version)
	assert.Equal(t, int64(105), updated.Order.TotalMoney)
	assert.Equal(t, int64(75), updated.Order.ActualPayMoney)
	require.Len(t, updated.Order.Items, 2)
	assert.NotZero(t, updated.Order.Items[1].ID)

	// Replaying the same request carries a stale version.
	status, body = doJSON(t, app, "PUT", path, update)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, string(body), string(errs.CodeOptimisticLock))

	// Nothing to change still succeeds.
	status, body = doJSON(t, app, "PUT", path, UpdateInput{Version: 2})
	require.Equal(t, fiber.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, repository.OutcomeUnchanged, updated.Outcome)
}

func TestHandler_Errors(t *testing.T) {
	app := setupApp(t)

	status, _ := doJSON(t, app, "GET", "/orders/999", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON(t, app, "GET", "/orders/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "PUT", "/orders/1", UpdateInput{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	noItems := validCreate()
	noItems.Items = nil
	status, _ = doJSON(t, app, "POST", "/orders", noItems)
	assert.Equal(t, fiber.StatusBadRequest, status)

	noName := validCreate()
	noName.Consignee.Name = ""
	status, _ = doJSON(t, app, "POST", "/orders", noName)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := doJSON(t, app, "POST", "/orders", validCreate())
	require.Equal(t, fiber.StatusCreated, status)
	var created SaveResult
	require.NoError(t, json.Unmarshal(body, &created))
	path := "/orders/" + jsonNumber(created.Order.ID)

	unknown := []ItemInput{{ID: 9999, GoodsID: 1, Amount: 1}}
	status, _ = doJSON(t, app, "PUT", path, UpdateInput{Version: 1, Items: &unknown})
	assert.Equal(t, fiber.StatusNotFound, status)

	first := created.Order.Items[0].ID
	twice := []ItemInput{{ID: first, GoodsID: 1, Amount: 1}, {ID: first, GoodsID: 1, Amount: 1}}
	status, _ = doJSON(t, app, "PUT", path, UpdateInput{Version: 1, Items: &twice})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestFeature_Disabled(t *testing.T) {
	f := NewFeature(nil, repository.Config{}, nil, nil)
	assert.False(t, f.IsEnabled())
	assert.Nil(t, f.Service())
	assert.Equal(t, "order", f.Name())
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		code errs.Code
		want int
	}{
		{errs.CodeNotFound, fiber.StatusNotFound},
		{errs.CodeOptimisticLock, fiber.StatusConflict},
		{errs.CodeDuplicateID, fiber.StatusConflict},
		{errs.CodeInvalidArgument, fiber.StatusBadRequest},
		{errs.CodeNullArgument, fiber.StatusBadRequest},
		{errs.CodeFieldAccess, fiber.StatusInternalServerError},
		{errs.CodeStorage, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(errs.New(tt.code, "test", "x")))
		})
	}
}

func jsonNumber(id int64) string {
	data, _ := json.Marshal(id)
	return string(data)
}
