package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/stockpro/internal/application/analytics"
	"github.com/jhoicas/stockpro/internal/application/auth"
	"github.com/jhoicas/stockpro/internal/application/dto"
	"github.com/jhoicas/stockpro/internal/application/inventory"
	"github.com/jhoicas/stockpro/internal/application/ports"
	"github.com/jhoicas/stockpro/internal/application/retry"
	"github.com/jhoicas/stockpro/internal/application/sales"
	"github.com/jhoicas/stockpro/internal/application/usecase"
	"github.com/jhoicas/stockpro/internal/domain/entity"
	"github.com/jhoicas/stockpro/internal/infrastructure/memory"
	"github.com/jhoicas/stockpro/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stockpro/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stockpro/pkg/jwt"
	"github.com/jhoicas/stockpro/pkg/logger"
)

type apiFixture struct {
	app       *fiber.App
	store     *memory.Store
	companyID string
	admin     string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	retryPolicy := retry.Policy{MaxRetries: 2, Backoff: time.Millisecond}
	salesCfg := sales.Config{NumberPrefix: "VEN-", NumberWidth: 6, TxTimeout: 2 * time.Second, Retry: retryPolicy}
	pub := ports.NopPublisher{}

	companyID := uuid.NewString()
	require.NoError(t, store.Companies().Create(context.Background(), &entity.Company{
		ID: companyID, Name: "Tienda Centro", Document: "900123456", Active: true,
	}))

	authUC := auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})
	_, err := authUC.BootstrapAdmin(context.Background(), dto.RegisterRequest{
		Email: "admin@tienda.test", Password: "secreta123", CompanyID: companyID, Name: "Admin",
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     usecase.NewCompanyUseCase(store.Companies()),
		UserUC:        usecase.NewUserUseCase(store.Users(), store.Sales()),
		CategoryUC:    usecase.NewCategoryUseCase(store, store.Categories()),
		SupplierUC:    usecase.NewSupplierUseCase(store, store.Suppliers()),
		ClientUC:      usecase.NewClientUseCase(store, store.Clients()),
		PointOfSaleUC: usecase.NewPointOfSaleUseCase(store, store.PointsOfSale()),
		ProductUC:     usecase.NewProductUseCase(store, store.Products(), nil, log),
		InventoryUC:   inventory.NewUseCase(store, store.Products(), store.Movements(), pub, nil, nil, log, inventory.Config{TxTimeout: 2 * time.Second, Retry: retryPolicy}),
		Replenishment: inventory.NewReplenishmentUseCase(store.Products()),
		CreateSale:    sales.NewCreateSaleUseCase(store, pub, nil, nil, log, salesCfg),
		CancelSale:    sales.NewCancelSaleUseCase(store, pub, nil, nil, log, salesCfg),
		SaleQuery:     sales.NewQueryUseCase(store.Sales(), store.Clients(), store.Companies(), pdf.NewReceiptRenderer()),
		DashboardUC:   appanalytics.NewDashboardUseCase(store.Dashboard(), store.Products(), store.Sales(), store.Movements(), nil, 0, log),
		JWTSecret:     testJWTSecret,
	})

	f := &apiFixture{app: app, store: store, companyID: companyID}

	var login dto.LoginResponse
	resp := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@tienda.test", Password: "secreta123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)
	f.admin = "Bearer " + login.Token
	return f
}

// tokenAs emite un token para otro rol en la misma empresa.
func (f *apiFixture) tokenAs(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{UserID: uuid.NewString(), CompanyID: f.companyID, Role: role}, testIssuer, testTTL)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (f *apiFixture) call(t *testing.T, method, path, bearer string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, bearer)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func mustDecimal(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (f *apiFixture) createProduct(t *testing.T, req dto.CreateProductRequest) dto.ProductResponse {
	t.Helper()
	var p dto.ProductResponse
	resp := f.call(t, http.MethodPost, "/api/products/", f.admin, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &p)
	return p
}

func (f *apiFixture) createClient(t *testing.T) string {
	t.Helper()
	var c dto.ClientResponse
	resp := f.call(t, http.MethodPost, "/api/clients/", f.admin, dto.CreateClientRequest{Name: "Ana Gómez"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &c)
	return c.ID
}

func TestAPI_VentaCreadaYConsultable(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, dto.CreateProductRequest{Name: "Café", SalePrice: mustDecimal("12.50"), InitialStock: 10})
	clientID := f.createClient(t)

	var sale dto.SaleResponse
	resp := f.call(t, http.MethodPost, "/api/sales/", f.tokenAs(t, "vendedor"), dto.CreateSaleRequest{
		ClientID: clientID,
		Lines:    []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	location := resp.Header.Get(fiber.HeaderLocation)
	decode(t, resp, &sale)
	assert.Equal(t, "/api/sales/"+sale.ID, location)
	assert.Equal(t, int64(1), sale.Number)
	assert.Equal(t, "VEN-000001", sale.NumberLabel)
	assert.True(t, sale.Total.Equal(mustDecimal("25")))

	var byNumber dto.SaleResponse
	resp = f.call(t, http.MethodGet, "/api/sales/number/1", f.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &byNumber)
	assert.Equal(t, sale.ID, byNumber.ID)
	require.Len(t, byNumber.Lines, 1)

	var product dto.ProductResponse
	resp = f.call(t, http.MethodGet, "/api/products/"+p.ID, f.admin, nil)
	decode(t, resp, &product)
	assert.Equal(t, int64(8), product.Stock)

	resp = f.call(t, http.MethodGet, "/api/sales/"+sale.ID+"/receipt", f.admin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "VEN-000001.pdf")
}

func TestAPI_VentaRechazadaDevuelveTodosLosMotivos(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, dto.CreateProductRequest{Name: "Azúcar", SalePrice: mustDecimal("3"), InitialStock: 1})
	clientID := f.createClient(t)

	var body dto.ErrorResponse
	resp := f.call(t, http.MethodPost, "/api/sales/", f.admin, dto.CreateSaleRequest{
		ClientID: clientID,
		Lines: []dto.SaleLineRequest{
			{ProductID: p.ID, Quantity: 5},
			{ProductID: uuid.NewString(), Quantity: 1},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "SALE_REJECTED", body.Code)
	require.Len(t, body.Failures, 2)
	assert.Equal(t, 0, body.Failures[0].Index)
	assert.Equal(t, int64(5), body.Failures[0].Requested)
	assert.Equal(t, int64(1), body.Failures[0].Available)
	assert.Equal(t, 1, body.Failures[1].Index)

	var product dto.ProductResponse
	resp = f.call(t, http.MethodGet, "/api/products/"+p.ID, f.admin, nil)
	decode(t, resp, &product)
	assert.Equal(t, int64(1), product.Stock, "sin efectos parciales")
}

func TestAPI_VentaSinLineasEsErrorDeValidacion(t *testing.T) {
	f := newAPI(t)
	var body dto.ErrorResponse
	resp := f.call(t, http.MethodPost, "/api/sales/", f.admin, dto.CreateSaleRequest{ClientID: f.createClient(t)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestAPI_BorrarCategoriaConProductosEsConflicto(t *testing.T) {
	f := newAPI(t)
	var cat dto.CategoryResponse
	resp := f.call(t, http.MethodPost, "/api/categories/", f.admin, dto.CreateCategoryRequest{Name: "Bebidas"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &cat)
	f.createProduct(t, dto.CreateProductRequest{Name: "Jugo", CategoryID: cat.ID, SalePrice: mustDecimal("2")})

	var body dto.ErrorResponse
	resp = f.call(t, http.MethodDelete, "/api/categories/"+cat.ID, f.admin, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	decode(t, resp, &body)
	assert.Equal(t, "REFERENTIAL_CONSTRAINT", body.Code)
	assert.Equal(t, 1, body.Dependents)
}

func TestAPI_RecursoInexistente404(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodGet, "/api/sales/"+uuid.NewString(), f.admin, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_PermisosPorRol(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, dto.CreateProductRequest{Name: "Arroz", SalePrice: mustDecimal("4"), InitialStock: 3})

	resp := f.call(t, http.MethodPost, "/api/products/"+p.ID+"/adjust", f.tokenAs(t, "vendedor"), dto.AdjustStockRequest{Delta: 5, Reason: "conteo"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.call(t, http.MethodPost, "/api/products/"+p.ID+"/adjust", f.tokenAs(t, "bodeguero"), dto.AdjustStockRequest{Delta: 5, Reason: "conteo"})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.call(t, http.MethodGet, "/api/users/", f.tokenAs(t, "bodeguero"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_LoginConClaveIncorrecta401(t *testing.T) {
	f := newAPI(t)
	for _, in := range []dto.LoginRequest{
		{Email: "admin@tienda.test", Password: "otra-clave"},
		{Email: "nadie@tienda.test", Password: "secreta123"},
	} {
		var body dto.ErrorResponse
		resp := f.call(t, http.MethodPost, "/api/auth/login", "", in)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		decode(t, resp, &body)
		assert.Equal(t, "UNAUTHORIZED", body.Code)
	}
}

func TestAPI_RegistroPublicoNoOtorgaRolesPrivilegiados(t *testing.T) {
	f := newAPI(t)

	for _, role := range []string{"admin", "bodeguero"} {
		var body dto.ErrorResponse
		resp := f.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
			Email: role + "@intruso.test", Password: "secreta123", CompanyID: f.companyID, Role: role,
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode, role)
		decode(t, resp, &body)
		assert.Equal(t, "FORBIDDEN", body.Code)

		found, err := f.store.Users().FindByEmail(context.Background(), role+"@intruso.test")
		require.NoError(t, err)
		assert.Nil(t, found, "no se crea el usuario")
	}

	var user dto.UserResponse
	resp := f.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "caja@tienda.test", Password: "secreta123", CompanyID: f.companyID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &user)
	assert.Equal(t, entity.RoleVendedor, user.Role)

	var login dto.LoginResponse
	resp = f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "caja@tienda.test", Password: "secreta123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &login)

	resp = f.call(t, http.MethodGet, "/api/users/", "Bearer "+login.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_RangoDeUnSoloDiaIncluyeEseDia(t *testing.T) {
	f := newAPI(t)
	p := f.createProduct(t, dto.CreateProductRequest{Name: "Harina", SalePrice: mustDecimal("5"), InitialStock: 5})
	resp := f.call(t, http.MethodPost, "/api/sales/", f.admin, dto.CreateSaleRequest{
		ClientID: f.createClient(t),
		Lines:    []dto.SaleLineRequest{{ProductID: p.ID, Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	today := time.Now().UTC().Format("2006-01-02")
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	var movements []dto.MovementResponse
	resp = f.call(t, http.MethodGet, "/api/inventory/movements?from="+today+"&to="+today, f.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &movements)
	assert.Len(t, movements, 2, "entrada inicial y salida por venta")

	var sales dto.SaleListResponse
	resp = f.call(t, http.MethodGet, "/api/sales/?from="+today+"&to="+today, f.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &sales)
	assert.Len(t, sales.Items, 1)

	resp = f.call(t, http.MethodGet, "/api/sales/?from="+yesterday+"&to="+yesterday, f.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &sales)
	assert.Empty(t, sales.Items)
}
