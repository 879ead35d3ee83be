package worker

// Receipt worker: renders the PDF for a committed sale and hands delivery
// off to the email queue. Runs strictly after the sale transaction — a
// failure here never affects the sale itself.

import (
	"context"
	"encoding/json"
	"fmt"

	"glowpos/internal/infra"
	"glowpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID  string `json:"sale_id"`
	ToEmail string `json:"to_email"`
}

type ReceiptWorker struct {
	sales          repository.SaleRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReceiptWorker(sales repository.SaleRepository, dispatcher *Dispatcher, pdfStoragePath string) *ReceiptWorker {
	return &ReceiptWorker{sales: sales, dispatcher: dispatcher, pdfStoragePath: pdfStoragePath}
}

// Process renders the receipt PDF and enqueues the delivery email.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.sales.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")

	if payload.ToEmail == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail:    payload.ToEmail,
		Subject:    "Your GlowPOS receipt",
		Body:       fmt.Sprintf("Thank you for your purchase!\nTotal: $%s\nPoints earned: %d", sale.Total.StringFixed(2), sale.EarnedPoints),
		AttachPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", payload.ToEmail).Msg("receipt_worker: failed to enqueue email")
	}
}
