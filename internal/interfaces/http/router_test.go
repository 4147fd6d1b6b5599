package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/auth"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/dto"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/inventory"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/order"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Logistica-vacunas-api/internal/interfaces/http"
	"github.com/jhoicas/Logistica-vacunas-api/internal/mocks"
	pkgjwt "github.com/jhoicas/Logistica-vacunas-api/pkg/jwt"
	"github.com/jhoicas/Logistica-vacunas-api/pkg/logger"
)

type stubManifest struct{}

func (stubManifest) GenerateShipmentManifest(_ *entity.DisposalShipment, _ map[int64]*entity.Material) ([]byte, error) {
	return []byte("%PDF-1.4 test"), nil
}

type apiFixture struct {
	app       *fiber.App
	tx        *mocks.TxRunner
	users     *mocks.UserRepository
	materials *mocks.MaterialRepository
	reasons   *mocks.TransactionReasonRepository
	stocks    *mocks.StockRepository
	txs       *mocks.TransactionRepository
	pending   *mocks.DisposalStockRepository
	disposals *mocks.DisposalRepository
	orders    *mocks.OrderRepository
}

// newAPI monta el router completo sobre casos de uso reales con repositorios mock.
func newAPI() *apiFixture {
	f := &apiFixture{
		tx:        mocks.NewTxRunner(),
		users:     &mocks.UserRepository{},
		materials: &mocks.MaterialRepository{},
		reasons:   &mocks.TransactionReasonRepository{},
		stocks:    &mocks.StockRepository{},
		txs:       &mocks.TransactionRepository{},
		pending:   &mocks.DisposalStockRepository{},
		disposals: &mocks.DisposalRepository{},
		orders:    &mocks.OrderRepository{},
	}
	log := logger.Nop()
	f.app = fiber.New()
	apphttp.Router(f.app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(f.users, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		TransactionUC:   inventory.NewTransactionUseCase(f.tx, f.materials, f.reasons, f.stocks, f.txs, log),
		DisposalUC:      disposal.NewUseCase(f.tx, f.materials, f.pending, f.disposals, stubManifest{}, log),
		OrderUC:         order.NewUseCase(f.tx, f.materials, f.orders, log),
		Drafts:          apphttp.NewDraftStores(time.Hour),
		JWTSecret:       testJWTSecret,
		DefaultLanguage: language.Indonesian,
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, token, body string, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTransactions_ViewerNoPuedeRegistrar(t *testing.T) {
	f := newAPI()
	resp := f.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, entity.RoleViewer),
		`{"transaction_type":"consumption","items":[{"stock_id":1,"change_qty":10}]}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	f.tx.Stocks().AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

func TestTransactions_CuerpoIncompletoDevuelve422(t *testing.T) {
	f := newAPI()
	resp := f.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, entity.RoleOperator),
		`{"transaction_type":"consumption"}`)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody[dto.ValidationErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "items", body.Errors[0].Field)
	assert.Equal(t, "required", body.Errors[0].Code)
	assert.Equal(t, "Kolom ini wajib diisi", body.Errors[0].Message, "sin Accept-Language usa el idioma por defecto")
}

func TestTransactions_CuerpoMalFormadoDevuelve400(t *testing.T) {
	f := newAPI()
	resp := f.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, entity.RoleOperator), `{"items":`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransactions_ErrorDeCantidadLocalizado(t *testing.T) {
	f := newAPI()
	f.tx.Stocks().On("GetForUpdate", mock.Anything, int64(1)).
		Return(&entity.Stock{ID: 1, EntityID: testEntityID, MaterialID: 7, Qty: decimal.NewFromInt(100)}, nil)
	f.materials.On("GetByID", mock.Anything, int64(7)).
		Return(&entity.Material{ID: 7, Name: "BCG", PiecesPerUnit: decimal.NewFromInt(10)}, nil)
	f.reasons.On("GetByID", mock.Anything, int64(11)).
		Return(&entity.TransactionReason{ID: 11, Type: entity.TransactionReduceStock}, nil)

	resp := f.do(t, http.MethodPost, "/api/transactions", tokenForRole(t, entity.RoleOperator),
		`{"transaction_type":"reduce_stock","items":[{"stock_id":1,"change_qty":15,"transaction_reason_id":11}]}`,
		"Accept-Language", "es-CO,es;q=0.9")

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody[dto.ValidationErrorResponse](t, resp)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "items.1.change_qty", body.Errors[0].Field)
	assert.Equal(t, "multiple_of", body.Errors[0].Code)
	assert.Equal(t, "La cantidad debe ser múltiplo de 10", body.Errors[0].Message)
	assert.False(t, f.tx.Committed)
}

func TestReasons_TipoInvalidoDevuelve400(t *testing.T) {
	f := newAPI()
	resp := f.do(t, http.MethodGet, "/api/transaction-reasons?type=transfer", tokenForRole(t, entity.RoleViewer), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStocks_MaterialIDNoNumerico(t *testing.T) {
	f := newAPI()
	resp := f.do(t, http.MethodGet, "/api/stocks?material_id=abc", tokenForRole(t, entity.RoleViewer), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStocks_FiltroPorMaterial(t *testing.T) {
	f := newAPI()
	f.stocks.On("List", mock.Anything, mock.MatchedBy(func(fl repository.StockFilter) bool {
		return fl.EntityID == testEntityID && fl.MaterialID != nil && *fl.MaterialID == 7
	})).Return([]*entity.Stock{{ID: 1, EntityID: testEntityID, MaterialID: 7, Qty: decimal.NewFromInt(40)}}, nil)

	resp := f.do(t, http.MethodGet, "/api/stocks?material_id=7", tokenForRole(t, entity.RoleViewer), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]dto.StockResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, int64(7), list[0].MaterialID)
}

func TestStocks_SinFiltro(t *testing.T) {
	f := newAPI()
	f.stocks.On("List", mock.Anything, repository.StockFilter{EntityID: testEntityID}).Return([]*entity.Stock{}, nil)

	resp := f.do(t, http.MethodGet, "/api/stocks", tokenForRole(t, entity.RoleViewer), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borradores
// ──────────────────────────────────────────────────────────────────────────────

func TestDrafts_GuardarListarYBorrarTodo(t *testing.T) {
	f := newAPI()
	tok := tokenForRole(t, entity.RoleOperator)

	resp := f.do(t, http.MethodPut, "/api/drafts/order/7", tok, `{"qty":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = f.do(t, http.MethodPut, "/api/drafts/order/8", tok, `{"qty":20}`)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/drafts/order", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]map[string]any](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, float64(7), list[0]["material_id"])

	resp = f.do(t, http.MethodDelete, "/api/drafts/order/7", tok, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/drafts/order/7", tok, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodDelete, "/api/drafts/order", tok, "")
	cleared := decodeBody[map[string]int](t, resp)
	assert.Equal(t, 1, cleared["removed"])
}

func TestDrafts_MaterialNoNumerico(t *testing.T) {
	f := newAPI()
	tok := tokenForRole(t, entity.RoleOperator)
	for _, path := range []string{"/api/drafts/order/abc", "/api/drafts/order/0"} {
		resp := f.do(t, http.MethodPut, path, tok, `{"qty":10}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Contains(t, string(body), "INVALID_PARAM", path)
	}
}

func TestDrafts_SliceDesconocido(t *testing.T) {
	f := newAPI()
	resp := f.do(t, http.MethodGet, "/api/drafts/shipment", tokenForRole(t, entity.RoleOperator), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDrafts_PreviewDeDisposicion(t *testing.T) {
	f := newAPI()
	tok := tokenForRole(t, entity.RoleOperator)
	f.pending.On("List", mock.Anything, testEntityID, (*int64)(nil)).Return([]*entity.DisposalStock{
		{EntityID: testEntityID, StockID: 1, MaterialID: 7, ReasonID: 21, DiscardQty: decimal.NewFromInt(5)},
	}, nil)
	f.materials.On("GetByIDs", mock.Anything, []int64{7}).
		Return(map[int64]*entity.Material{7: {ID: 7, Name: "BCG"}}, nil)

	resp := f.do(t, http.MethodPut, "/api/drafts/disposal/7", tok,
		`{"discard":[{"stock_id":1,"transaction_reason_id":21,"qty":2},{"stock_id":1,"transaction_reason_id":21,"qty":3}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/drafts/disposal/preview", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[dto.DisposalPreviewResponse](t, resp)
	require.Len(t, body.Items, 1)
	require.Len(t, body.Items[0].Stocks, 1, "las entradas del mismo stock y motivo se agregan")
	assert.True(t, body.TotalQty.Equal(decimal.NewFromInt(5)))
}

// Los borradores son por usuario.
func TestDrafts_AisladosPorUsuario(t *testing.T) {
	f := newAPI()
	resp := f.do(t, http.MethodPut, "/api/drafts/order/7", tokenForRole(t, entity.RoleOperator), `{"qty":10}`)
	resp.Body.Close()

	other, err := pkgjwt.Generate(testJWTSecret, "otro-usuario", testEntityID, entity.RoleOperator, testIssuer, testExpMin)
	require.NoError(t, err)
	resp = f.do(t, http.MethodGet, "/api/drafts/order", "Bearer "+other, "")
	list := decodeBody[[]map[string]any](t, resp)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Disposición y pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestManifestPDF(t *testing.T) {
	f := newAPI()
	f.disposals.On("GetShipment", mock.Anything, "sh-1").Return(&entity.DisposalShipment{
		ID: "sh-1", SenderID: testEntityID, ReceiverID: "ent-2", Status: entity.ShipmentStatusShipped,
		Items: []entity.DisposalItem{{MaterialID: 7}},
	}, nil)
	f.materials.On("GetByIDs", mock.Anything, []int64{7}).Return(map[int64]*entity.Material{}, nil)

	resp := f.do(t, http.MethodGet, "/api/disposals/shipments/sh-1/manifest.pdf", tokenForRole(t, entity.RoleViewer), "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestShipment_EntidadAjenaDevuelve403(t *testing.T) {
	f := newAPI()
	f.disposals.On("GetShipment", mock.Anything, "sh-1").Return(&entity.DisposalShipment{
		ID: "sh-1", SenderID: "ent-8", ReceiverID: "ent-9", Status: entity.ShipmentStatusShipped,
	}, nil)

	resp := f.do(t, http.MethodGet, "/api/disposals/shipments/sh-1", tokenForRole(t, entity.RoleViewer), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOrders_NoEncontrado(t *testing.T) {
	f := newAPI()
	f.orders.On("GetByID", mock.Anything, "o-404").Return(nil, nil)

	resp := f.do(t, http.MethodGet, "/api/orders/o-404", tokenForRole(t, entity.RoleViewer), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrders_AccionesDelProveedor(t *testing.T) {
	f := newAPI()
	f.orders.On("GetByID", mock.Anything, "o-1").Return(&entity.Order{
		ID: "o-1", Type: entity.OrderTypeRequest, Status: "pending",
		VendorID: testEntityID, CustomerID: "ent-2",
	}, nil)

	resp := f.do(t, http.MethodGet, "/api/orders/o-1/actions", tokenForRole(t, entity.RoleViewer), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	actions := decodeBody[[]string](t, resp)
	assert.Contains(t, actions, "confirm")
	assert.NotContains(t, actions, "receive")
}

func TestOrders_TransicionInvalidaDevuelve409(t *testing.T) {
	f := newAPI()
	f.tx.Orders().On("GetForUpdate", mock.Anything, "o-1").Return(&entity.Order{
		ID: "o-1", Type: entity.OrderTypeRequest, Status: "pending",
		VendorID: testEntityID, CustomerID: "ent-2",
	}, nil)

	resp := f.do(t, http.MethodPost, "/api/orders/o-1/ship", tokenForRole(t, entity.RoleOperator), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TRANSITION")
}

func TestOrders_CancelarSinMotivoDevuelve422(t *testing.T) {
	f := newAPI()
	resp := f.do(t, http.MethodPost, "/api/orders/o-1/cancel", tokenForRole(t, entity.RoleOperator), `{}`)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody[dto.ValidationErrorResponse](t, resp)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "reason", body.Errors[0].Field)
	f.tx.Orders().AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_SinPasswordDevuelve422(t *testing.T) {
	f := newAPI()
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ana@dinkes.go.id"}`)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody[dto.ValidationErrorResponse](t, resp)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "password", body.Errors[0].Field)
}

func TestLogin_UsuarioInexistenteDevuelve401(t *testing.T) {
	f := newAPI()
	f.users.On("FindByEmail", mock.Anything, "nadie@dinkes.go.id").Return(nil, nil)

	resp := f.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"nadie@dinkes.go.id","password":"x"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
