package worker

// reporte_worker.go
// Processes daily-report jobs from QueueReporte: renders the consolidated
// report as PDF and mails it to the configured recipients. Sends go through
// the SMTP circuit breaker; jobs that exhaust their retries land in the DLQ.

import (
	"context"
	"encoding/json"
	"time"

	"mesapos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxEnviosReporte = 3

var backoffEnvios = []time.Duration{2 * time.Second, 10 * time.Second}

// ReporteWorker delivers consolidated daily reports over SMTP.
type ReporteWorker struct {
	mailer      *infra.Mailer
	cb          *infra.CircuitBreaker
	rdb         *redis.Client
	storagePath string
}

func NewReporteWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client, storagePath string) *ReporteWorker {
	return &ReporteWorker{mailer: mailer, cb: cb, rdb: rdb, storagePath: storagePath}
}

// Process renders and sends one report job. Failures are retried with
// backoff; nothing here ever propagates back to the close operation that
// produced the job.
func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReporteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return
	}
	if len(payload.Para) == 0 {
		log.Warn().Msg("reporte_worker: empty recipient list — skipping")
		return
	}

	pdfPath, err := infra.GenerateReporteDiarioPDF(&payload.Reporte, w.storagePath)
	if err != nil {
		// Ship the report without attachment rather than dropping it.
		log.Error().Err(err).Msg("reporte_worker: PDF generation failed, sending without attachment")
		pdfPath = ""
	}

	var lastErr error
	for intento := 1; intento <= maxEnviosReporte; intento++ {
		lastErr = w.cb.Execute(func() error {
			return w.mailer.SendReporte(payload.Para, payload.Asunto, payload.Cuerpo, pdfPath)
		})
		if lastErr == nil {
			log.Info().
				Strs("para", payload.Para).
				Str("caja", payload.Reporte.Caja).
				Str("fecha", payload.Reporte.Fecha).
				Msg("reporte_worker: reporte diario enviado")
			return
		}

		log.Warn().
			Err(lastErr).
			Int("intento", intento).
			Msg("reporte_worker: fallo el envio")

		if intento < maxEnviosReporte {
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoffEnvios[intento-1]):
			}
		}
	}

	SendToDLQ(ctx, w.rdb, QueueReporte, "reporte_diario", raw, lastErr.Error(), maxEnviosReporte)
}
