package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inventoryapi/internal/model"
	serviceMocks "inventoryapi/internal/service/mocks"
)

func newRoutedApp() (*fiber.App, *serviceMocks.MockProductService, *serviceMocks.MockSupplierService) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	products := new(serviceMocks.MockProductService)
	suppliers := new(serviceMocks.MockSupplierService)
	RegisterRoutes(app, nil, Services{Products: products, Suppliers: suppliers})
	return app, products, suppliers
}

func TestRouting(t *testing.T) {
	app, products, suppliers := newRoutedApp()

	t.Run("not found route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("collection without trailing slash", func(t *testing.T) {
		products.On("List", mock.Anything, mock.Anything).Return([]model.Product{}, nil).Once()
		suppliers.On("List", mock.Anything, mock.Anything).Return([]model.Supplier{}, nil).Once()

		for _, path := range []string{"/api/products", "/api/suppliers/"} {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	})

	t.Run("stock route", func(t *testing.T) {
		products.On("AdjustStock", mock.Anything, int64(9), 3).Return(13, nil).Once()

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/products/9/stock", `{"delta":3}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	products.AssertExpectations(t)
	suppliers.AssertExpectations(t)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/large", func(c *fiber.Ctx) error {
		return fiber.ErrRequestEntityTooLarge
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return assert.AnError
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/large", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decodeError(t, resp).Error.Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "internal server error", body.Error.Message)
}
