package dto

import "github.com/shopspring/decimal"

// ReporteTurno is one per-turno row of the consolidated daily report.
type ReporteTurno struct {
	Nombre        string           `json:"nombre"`
	Estado        string           `json:"estado"`
	AbiertoAt     string           `json:"abierto_at"`
	CerradoAt     *string          `json:"cerrado_at,omitempty"`
	AbiertoPor    string           `json:"abierto_por"`
	CerradoPor    *string          `json:"cerrado_por,omitempty"`
	FondoInicial  decimal.Decimal  `json:"fondo_inicial"`
	FondoFinal    *decimal.Decimal `json:"fondo_final,omitempty"`
	Diferencia    *decimal.Decimal `json:"diferencia,omitempty"`
	TotalEfectivo decimal.Decimal  `json:"total_efectivo"`
	NotasCierre   *string          `json:"notas_cierre,omitempty"`
}

type ProductoVendidoResponse struct {
	Descripcion string `json:"descripcion"`
	Cantidad    int64  `json:"cantidad"`
}

// ReporteDiario is the day-level snapshot dispatched to the configured
// recipients when the Nth turno of the day closes. Computed on demand,
// never persisted.
type ReporteDiario struct {
	Caja             string                     `json:"caja"`
	Fecha            string                     `json:"fecha"` // "2006-01-02"
	Turnos           []ReporteTurno             `json:"turnos"`
	TotalesPorMetodo map[string]decimal.Decimal `json:"totales_por_metodo"`
	CantidadVentas   int64                      `json:"cantidad_ventas"`
	TotalVentas      decimal.Decimal            `json:"total_ventas"`
	TopProductos     []ProductoVendidoResponse  `json:"top_productos"`
}
