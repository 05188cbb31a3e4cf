package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rack-inventario-api/internal/application/dto"
	"github.com/jhoicas/rack-inventario-api/internal/application/inventory"
	"github.com/jhoicas/rack-inventario-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/rack-inventario-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	engine := inventory.NewEngine(inventory.EngineDeps{
		TxRunner:   store,
		Slots:      store.Slots(),
		Placements: store.Placements(),
		Movements:  store.Movements(),
		Logger:     zerolog.Nop(),
	})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Engine: engine, JWTSecret: testJWTSecret, JWTIssuer: testIssuer})
	return &apiFixture{app: app, store: store}
}

// call ejecuta la petición con el rol indicado y decodifica la respuesta en out (si no es nil).
func (f *apiFixture) call(t *testing.T, method, path, role string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, out), string(raw))
		}
	}
	return resp.StatusCode
}

func (f *apiFixture) createSlot(t *testing.T, rack, label string, capacity int) dto.SlotResponse {
	t.Helper()
	var out dto.SlotResponse
	status := f.call(t, http.MethodPost, "/api/slots", "admin",
		dto.CreateSlotRequest{RackID: rack, Label: label, SlotCapacity: capacity}, &out)
	require.Equal(t, http.StatusCreated, status)
	return out
}

func (f *apiFixture) createRackItem(t *testing.T, item, slotID string, qty int) dto.RackItemResponse {
	t.Helper()
	var out dto.RackItemResponse
	status := f.call(t, http.MethodPost, "/api/rack-items", "bodeguero",
		dto.CreateRackItemRequest{ItemID: item, SlotID: slotID, Quantity: qty}, &out)
	require.Equal(t, http.StatusCreated, status)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Slots
// ──────────────────────────────────────────────────────────────────────────────

func TestSlots_SoloAdminCrea(t *testing.T) {
	api := newAPI(t)

	var errBody dto.ErrorResponse
	status := api.call(t, http.MethodPost, "/api/slots", "bodeguero",
		dto.CreateSlotRequest{RackID: "R1", Label: "A-01", SlotCapacity: 10}, &errBody)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errBody.Code)

	slot := api.createSlot(t, "R1", "A-01", 10)
	assert.Equal(t, 10, slot.FreeCapacity)
	assert.Equal(t, 0, slot.CurrentCapacity)

	var got dto.SlotResponse
	status = api.call(t, http.MethodGet, "/api/racks/R1/slots/A-01", "auditor", nil, &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, slot.ID, got.ID)
}

func TestSlots_EtiquetaInvalidaYDuplicada(t *testing.T) {
	api := newAPI(t)
	api.createSlot(t, "R1", "A-01", 10)

	var errBody dto.ErrorResponse
	status := api.call(t, http.MethodPost, "/api/slots", "admin",
		dto.CreateSlotRequest{RackID: "R1", Label: "A 01!", SlotCapacity: 10}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "slot_label", errBody.Fields["label"])

	status = api.call(t, http.MethodPost, "/api/slots", "admin",
		dto.CreateSlotRequest{RackID: "R1", Label: "A-01", SlotCapacity: 10}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errBody.Code)
}

func TestSlots_NoEncontrado(t *testing.T) {
	api := newAPI(t)

	var errBody dto.ErrorResponse
	status := api.call(t, http.MethodGet, "/api/slots/no-existe", "auditor", nil, &errBody)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "SLOT_NOT_FOUND", errBody.Code)
}

func TestSlots_ConsistenciaGlobal(t *testing.T) {
	api := newAPI(t)
	a := api.createSlot(t, "R1", "A", 100)
	api.createRackItem(t, "7", a.ID, 30)

	var body struct {
		Total   int                           `json:"total"`
		Drifted int                           `json:"drifted"`
		Slots   []dto.SlotConsistencyResponse `json:"slots"`
	}
	status := api.call(t, http.MethodGet, "/api/slots/consistency", "auditor", nil, &body)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, 0, body.Drifted)
	assert.Equal(t, 30, body.Slots[0].PlacedQuantity)
	assert.True(t, body.Slots[0].Consistent)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rack items
// ──────────────────────────────────────────────────────────────────────────────

func TestRackItems_CantidadInvalidaYCapacidad(t *testing.T) {
	api := newAPI(t)
	a := api.createSlot(t, "R1", "A", 50)

	var errBody dto.ErrorResponse
	status := api.call(t, http.MethodPost, "/api/rack-items", "bodeguero",
		dto.CreateRackItemRequest{ItemID: "7", SlotID: a.ID, Quantity: -5}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUANTITY", errBody.Code)

	status = api.call(t, http.MethodPost, "/api/rack-items", "bodeguero",
		dto.CreateRackItemRequest{ItemID: "7", SlotID: a.ID, Quantity: 51}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_CAPACITY", errBody.Code)

	status = api.call(t, http.MethodPost, "/api/rack-items", "auditor",
		dto.CreateRackItemRequest{ItemID: "7", SlotID: a.ID, Quantity: 1}, &errBody)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCantidadNoNumerica_UsaCodigoDelMotor(t *testing.T) {
	api := newAPI(t)
	a := api.createSlot(t, "R1", "A", 50)
	b := api.createSlot(t, "R1", "B", 50)
	api.createRackItem(t, "7", a.ID, 10)

	tests := []struct {
		name     string
		method   string
		path     string
		role     string
		body     map[string]any
		wantCode string
	}{
		{"ubicación", http.MethodPost, "/api/rack-items", "bodeguero",
			map[string]any{"item_id": "7", "slot_id": a.ID, "quantity": "abc"}, "INVALID_QUANTITY"},
		{"ubicación decimal", http.MethodPost, "/api/rack-items", "bodeguero",
			map[string]any{"item_id": "7", "slot_id": a.ID, "quantity": 1.5}, "INVALID_QUANTITY"},
		{"traslado", http.MethodPost, "/api/stock-movements", "bodeguero",
			map[string]any{"item_id": "7", "from_slot_id": a.ID, "to_slot_id": b.ID, "quantity": "abc"}, "INVALID_REQUEST"},
		{"capacidad de slot", http.MethodPost, "/api/slots", "admin",
			map[string]any{"rack_id": "R1", "label": "C", "slot_capacity": "mucho"}, "INVALID_QUANTITY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBody dto.ErrorResponse
			status := api.call(t, tt.method, tt.path, tt.role, tt.body, &errBody)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.wantCode, errBody.Code)
		})
	}

	var errBody dto.ErrorResponse
	status := api.call(t, http.MethodPost, "/api/rack-items", "bodeguero", map[string]any{"item_id": 7}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", errBody.Code, "otros campos mal tipados siguen siendo cuerpo inválido")
}

func TestRackItems_CrearYEliminar(t *testing.T) {
	api := newAPI(t)
	a := api.createSlot(t, "R1", "A", 50)
	item := api.createRackItem(t, "7", a.ID, 20)

	var slot dto.SlotResponse
	api.call(t, http.MethodGet, "/api/slots/"+a.ID, "auditor", nil, &slot)
	assert.Equal(t, 20, slot.CurrentCapacity)

	var list []dto.RackItemResponse
	status := api.call(t, http.MethodGet, "/api/items/7/rack-items", "auditor", nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, item.ID, list[0].ID)

	status = api.call(t, http.MethodDelete, "/api/rack-items/"+item.ID, "bodeguero", nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	api.call(t, http.MethodGet, "/api/slots/"+a.ID, "auditor", nil, &slot)
	assert.Equal(t, 0, slot.CurrentCapacity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock movements
// ──────────────────────────────────────────────────────────────────────────────

func TestStockMovements_TrasladoUsaUsuarioDelToken(t *testing.T) {
	api := newAPI(t)
	a := api.createSlot(t, "R1", "A", 100)
	b := api.createSlot(t, "R2", "B", 50)
	api.createRackItem(t, "7", a.ID, 30)

	var mov dto.MovementResponse
	status := api.call(t, http.MethodPost, "/api/stock-movements", "bodeguero",
		dto.MoveStockRequest{ItemID: "7", FromSlotID: a.ID, ToSlotID: b.ID, Quantity: 20}, &mov)

	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, testUserID, mov.MovedBy)
	assert.Equal(t, "R1", mov.FromRackID)
	assert.Equal(t, "R2", mov.ToRackID)

	var page dto.MovementListResponse
	status = api.call(t, http.MethodGet, "/api/stock-movements?item_id=7&limit=10", "auditor", nil, &page)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, page.Items, 1)
	assert.Equal(t, mov.ID, page.Items[0].ID)
	assert.Equal(t, 10, page.Page.Limit)

	var fixed dto.MovementResponse
	status = api.call(t, http.MethodPut, "/api/stock-movements/"+mov.ID, "bodeguero",
		dto.UpdateMovementRequest{MovedBy: "supervisor"}, &fixed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "supervisor", fixed.MovedBy)
	assert.Equal(t, 20, fixed.Quantity)
}

func TestStockMovements_Rechazos(t *testing.T) {
	api := newAPI(t)
	a := api.createSlot(t, "R1", "A", 100)
	b := api.createSlot(t, "R1", "B", 10)
	api.createRackItem(t, "7", a.ID, 30)

	tests := []struct {
		name       string
		body       dto.MoveStockRequest
		wantStatus int
		wantCode   string
	}{
		{"faltan campos", dto.MoveStockRequest{ItemID: "7", Quantity: 1}, http.StatusBadRequest, "VALIDATION"},
		{"cantidad cero", dto.MoveStockRequest{ItemID: "7", FromSlotID: a.ID, ToSlotID: b.ID}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"origen sin el ítem", dto.MoveStockRequest{ItemID: "8", FromSlotID: a.ID, ToSlotID: b.ID, Quantity: 1}, http.StatusNotFound, "SOURCE_NOT_FOUND"},
		{"origen insuficiente", dto.MoveStockRequest{ItemID: "7", FromSlotID: a.ID, ToSlotID: b.ID, Quantity: 999}, http.StatusConflict, "INSUFFICIENT_SOURCE_QUANTITY"},
		{"destino lleno", dto.MoveStockRequest{ItemID: "7", FromSlotID: a.ID, ToSlotID: b.ID, Quantity: 11}, http.StatusConflict, "INSUFFICIENT_DESTINATION_CAPACITY"},
		{"destino inexistente", dto.MoveStockRequest{ItemID: "7", FromSlotID: a.ID, ToSlotID: "zzz", Quantity: 1}, http.StatusNotFound, "DESTINATION_SLOT_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBody dto.ErrorResponse
			status := api.call(t, http.MethodPost, "/api/stock-movements", "bodeguero", tt.body, &errBody)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, errBody.Code)
		})
	}
}

func TestStockMovements_FallaDeAlmacenamientoNoExponeCausa(t *testing.T) {
	api := newAPI(t)
	a := api.createSlot(t, "R1", "A", 100)
	b := api.createSlot(t, "R1", "B", 100)
	api.createRackItem(t, "7", a.ID, 30)
	api.store.SetFailHook(func(op string) error {
		if op == "movements.Create" {
			return errors.New("pq: password=secreta")
		}
		return nil
	})

	var errBody dto.ErrorResponse
	status := api.call(t, http.MethodPost, "/api/stock-movements", "bodeguero",
		dto.MoveStockRequest{ItemID: "7", FromSlotID: a.ID, ToSlotID: b.ID, Quantity: 5}, &errBody)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "STORAGE_FAILURE", errBody.Code)
	assert.NotContains(t, errBody.Message, "secreta")
}

func TestStockMovements_FechaMalFormada(t *testing.T) {
	api := newAPI(t)

	var errBody dto.ErrorResponse
	status := api.call(t, http.MethodGet, "/api/stock-movements?from=ayer", "auditor", nil, &errBody)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUERY", errBody.Code)
}

func TestRutas_SinTokenRetorna401(t *testing.T) {
	api := newAPI(t)

	status := api.call(t, http.MethodGet, "/api/stock-movements", "", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, status)
}
