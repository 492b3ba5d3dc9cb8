package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mesapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domainErrorResponse(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	writeDomainError(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestCierreNoAutorizadoIncluyeQuienDebeCerrar(t *testing.T) {
	abiertoPor := uuid.New()
	code, body := domainErrorResponse(t, &service.CierreNoAutorizadoError{AbiertoPor: abiertoPor})

	assert.Equal(t, http.StatusForbidden, code)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "respuesta sin data estructurada: %v", body)
	assert.Equal(t, abiertoPor.String(), data["abierto_por"])
}

func TestAutorizacionRequeridaIncluyeMontoYUmbral(t *testing.T) {
	code, body := domainErrorResponse(t, &service.AutorizacionRequeridaError{
		Tipo:   "retiro",
		Monto:  decimal.NewFromFloat(15000),
		Umbral: decimal.NewFromFloat(10000),
	})

	assert.Equal(t, http.StatusForbidden, code)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "respuesta sin data estructurada: %v", body)
	assert.Equal(t, "retiro", data["tipo"])
	assert.Equal(t, "15000.00", data["monto"])
	assert.Equal(t, "10000.00", data["umbral"])
}
